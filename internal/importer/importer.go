// Package importer converts between recipe markdown documents and
// recipe records. The document format is a TOML front matter block
// followed by a free-form body and the Ingredients and Steps sections,
// and Export/Import round-trip it.
package importer

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/gomarkdown/markdown"
	"github.com/rs/zerolog"

	"github.com/scsmith60/messhall/internal/model"
	"github.com/scsmith60/messhall/internal/util"
)

var importerLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	importerLogger = l
}

const (
	headingIngredients = "## Ingredients"
	headingSteps       = "## Steps"
)

// Import parses a recipe markdown document into a record for owner.
// The caller assigns the ID and persists.
func Import(md []byte, owner model.UserID) (*model.Recipe, error) {
	// Consumed counts bytes in the normalized buffer, so slice the
	// same buffer the front matter was parsed from.
	md = markdown.NormalizeNewlines(md)
	md = bytes.TrimLeft(md, "\n \t\r")

	fm, err := util.GetFrontMatter(md)
	if err != nil {
		return nil, fmt.Errorf("error parsing front matter: %w", err)
	}
	if fm.Title == "" {
		return nil, fmt.Errorf("recipe document has no title")
	}

	recipe := &model.Recipe{
		Owner:       owner,
		Title:       fm.Title,
		SourceURL:   fm.SourceURL,
		ImageURL:    fm.ImageURL,
		Servings:    fm.Servings,
		PrepMinutes: fm.PrepMinutes,
		CookMinutes: fm.CookMinutes,
		Private:     fm.Private,
	}

	body, ingredients, steps := splitSections(md[fm.Consumed:])
	recipe.Body = body

	for i, line := range ingredients {
		recipe.Ingredients = append(recipe.Ingredients, model.Ingredient{
			Position: i + 1,
			Body:     line,
		})
	}

	for i, line := range steps {
		stepBody, seconds := parseStepLine(line)
		recipe.Steps = append(recipe.Steps, model.Step{
			Position: i + 1,
			Body:     stepBody,
			Seconds:  seconds,
		})
	}

	return recipe, nil
}

// Export renders a record back into the markdown document format.
func Export(recipe *model.Recipe) []byte {
	var buf bytes.Buffer

	buf.WriteString("%%%\n")
	fmt.Fprintf(&buf, "title = %q\n", recipe.Title)
	if recipe.Servings > 0 {
		fmt.Fprintf(&buf, "servings = %d\n", recipe.Servings)
	}
	if recipe.PrepMinutes > 0 {
		fmt.Fprintf(&buf, "prep_minutes = %d\n", recipe.PrepMinutes)
	}
	if recipe.CookMinutes > 0 {
		fmt.Fprintf(&buf, "cook_minutes = %d\n", recipe.CookMinutes)
	}
	if recipe.SourceURL != "" {
		fmt.Fprintf(&buf, "source_url = %q\n", recipe.SourceURL)
	}
	if recipe.ImageURL != "" {
		fmt.Fprintf(&buf, "image_url = %q\n", recipe.ImageURL)
	}
	if recipe.Private {
		buf.WriteString("private = true\n")
	}
	buf.WriteString("%%%\n")

	if body := strings.TrimSpace(recipe.Body); body != "" {
		buf.WriteString("\n")
		buf.WriteString(body)
		buf.WriteString("\n")
	}

	if len(recipe.Ingredients) > 0 {
		buf.WriteString("\n" + headingIngredients + "\n\n")
		for _, ing := range recipe.Ingredients {
			fmt.Fprintf(&buf, "- %s\n", ing.Body)
		}
	}

	if len(recipe.Steps) > 0 {
		buf.WriteString("\n" + headingSteps + "\n\n")
		for i, step := range recipe.Steps {
			if step.Seconds > 0 {
				fmt.Fprintf(&buf, "%d. %s [%s]\n", i+1, step.Body, time.Duration(step.Seconds)*time.Second)
			} else {
				fmt.Fprintf(&buf, "%d. %s\n", i+1, step.Body)
			}
		}
	}

	return buf.Bytes()
}

// splitSections carves the document after the front matter into the
// free-form body, the ingredient lines and the step lines.
func splitSections(md []byte) (body string, ingredients, steps []string) {
	var bodyLines []string
	section := ""

	for _, line := range strings.Split(string(md), "\n") {
		trimmed := strings.TrimSpace(line)

		switch trimmed {
		case headingIngredients:
			section = "ingredients"
			continue
		case headingSteps:
			section = "steps"
			continue
		}
		if strings.HasPrefix(trimmed, "## ") {
			// An unknown section folds back into the body.
			section = ""
		}

		switch section {
		case "ingredients":
			if item, ok := strings.CutPrefix(trimmed, "- "); ok {
				ingredients = append(ingredients, strings.TrimSpace(item))
			}
		case "steps":
			if item, ok := cutOrderedPrefix(trimmed); ok {
				steps = append(steps, item)
			}
		default:
			bodyLines = append(bodyLines, line)
		}
	}

	return strings.TrimSpace(strings.Join(bodyLines, "\n")), ingredients, steps
}

// cutOrderedPrefix strips a "12. " list marker.
func cutOrderedPrefix(line string) (string, bool) {
	dot := strings.Index(line, ". ")
	if dot < 1 {
		return "", false
	}
	for _, r := range line[:dot] {
		if r < '0' || r > '9' {
			return "", false
		}
	}
	return strings.TrimSpace(line[dot+2:]), true
}

// parseStepLine splits an optional trailing duration marker like
// "[2m0s]" off a step line.
func parseStepLine(line string) (string, int) {
	if !strings.HasSuffix(line, "]") {
		return line, 0
	}
	open := strings.LastIndex(line, "[")
	if open == -1 {
		return line, 0
	}

	d, err := time.ParseDuration(line[open+1 : len(line)-1])
	if err != nil || d <= 0 {
		return line, 0
	}
	return strings.TrimSpace(line[:open]), int(d / time.Second)
}
