package service

import (
	"regexp"
	"strings"
)

// urlPattern picks http/https URLs out of arbitrary chat text. The $-_
// range is deliberately permissive; anything it over-captures still has to
// survive the engine's own parse step.
var urlPattern = regexp.MustCompile(
	`(http[s]?://(?:[a-zA-Z]|[0-9]|[$-_@.&+]|[!*\(\),]|(?:%[0-9a-fA-F][0-9a-fA-F]))+)`,
)

// ExtractURLs returns every URL found in text, in order of appearance.
func ExtractURLs(text string) []string {
	matches := urlPattern.FindAllString(text, -1)
	return matches
}

// ReplaceURLs rewrites text, substituting each URL through replace. A
// replace that returns its input (or fails upstream and falls back to it)
// leaves that part of the text untouched.
func ReplaceURLs(text string, replace func(string) string) string {
	return urlPattern.ReplaceAllStringFunc(text, replace)
}

// ContainsURL is a cheap pre-check so the worker can skip messages with no
// links at all without running the full pipeline.
func ContainsURL(text string) bool {
	return strings.Contains(text, "http://") || strings.Contains(text, "https://")
}
