package importer

import (
	"archive/zip"
	"bytes"
	"fmt"
	"strings"
	"unicode"

	"github.com/scsmith60/messhall/internal/model"
)

// ExportArchive bundles the recipes into a zip, one markdown document
// per recipe.
func ExportArchive(recipes []*model.Recipe) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for _, recipe := range recipes {
		name := archiveName(recipe)
		w, err := zw.Create(name)
		if err != nil {
			return nil, fmt.Errorf("error creating archive entry %s: %w", name, err)
		}
		if _, err := w.Write(Export(recipe)); err != nil {
			return nil, fmt.Errorf("error writing archive entry %s: %w", name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("error finalizing archive: %w", err)
	}
	return buf.Bytes(), nil
}

// archiveName builds a readable, collision-free entry name. The ID
// suffix keeps two recipes with the same title apart.
func archiveName(recipe *model.Recipe) string {
	slug := slugify(recipe.Title)
	if slug == "" {
		slug = "recipe"
	}
	return fmt.Sprintf("%s-%s.md", slug, recipe.ID)
}

func slugify(s string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastDash = false
		case !lastDash:
			b.WriteRune('-')
			lastDash = true
		}
	}
	return strings.Trim(b.String(), "-")
}
