package hndigest

import (
	"fmt"
	"regexp"
	"strings"
)

// ExtractionResult holds the readable content of an HTML page.
type ExtractionResult struct {
	Title       string
	Author      string
	Description string
	URL         string
	Body        string
}

// Format composes the result into a single text block: title, optional
// author, optional description, URL, then the body.
func (r *ExtractionResult) Format(l Locale) string {
	m := l.Messages()

	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s\n", m.TitleLabel, r.Title)
	if r.Author != "" {
		fmt.Fprintf(&b, "%s: %s\n", m.AuthorLabel, r.Author)
	}
	if r.Description != "" {
		fmt.Fprintf(&b, "%s: %s\n", m.DescriptionLabel, r.Description)
	}
	fmt.Fprintf(&b, "URL: %s\n\n", r.URL)
	b.WriteString(r.Body)
	return b.String()
}

// Extractor extracts the main content of an HTML page, removing
// boilerplate.
type Extractor interface {
	// Extract processes raw HTML fetched from sourceURL.
	// Missing optional fields are left empty and never cause an error.
	Extract(html, sourceURL string) (*ExtractionResult, error)
}

var (
	horizontalSpace = regexp.MustCompile(`[^\S\n]+`)
	spaceAroundLine = regexp.MustCompile(` ?\n ?`)
	blankLines      = regexp.MustCompile(`\n{3,}`)
)

// NormalizeWhitespace collapses runs of spaces and tabs to one space, drops
// spaces at line boundaries, collapses three or more newlines to two and
// trims both ends. Applying it twice yields the same result as once.
func NormalizeWhitespace(s string) string {
	s = horizontalSpace.ReplaceAllString(s, " ")
	s = spaceAroundLine.ReplaceAllString(s, "\n")
	s = blankLines.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// Truncate cuts s to at most n runes. n <= 0 disables truncation.
func Truncate(s string, n int) string {
	if n <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
