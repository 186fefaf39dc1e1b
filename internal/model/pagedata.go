package model

import (
	"html/template"
	"net/http"

	"github.com/scsmith60/messhall/internal/config"
	"github.com/scsmith60/messhall/internal/theme"
)

// PageData carries the common fields of the server-rendered share pages.
type PageData struct {
	SiteName string

	PageURL string

	Theme string

	SyntaxCSS   template.CSS
	SyntaxTheme string
}

func NewPageData(r *http.Request) *PageData {
	syntaxTheme := theme.GetSyntaxThemeFromRequest(r)
	return &PageData{
		SiteName:    config.AppConfig.Site.Name,
		PageURL:     r.URL.Path,
		Theme:       theme.GetThemeFromRequest(r),
		SyntaxTheme: syntaxTheme,
		SyntaxCSS:   theme.GenerateSyntaxCSS(syntaxTheme),
	}
}
