package config

import "regexp"

const (
	// MarkdownRenderer selects the pipeline for recipe bodies: "mmark"
	// or the classic gomarkdown parser.
	MarkdownRenderer = "mmark"
)

var (
	// RegexCallout matches numbered callout markers inside fenced code.
	RegexCallout = regexp.MustCompile(`//\s*<<(\d+)>>`)
)
