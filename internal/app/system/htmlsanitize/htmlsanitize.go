// Package htmlsanitize cleans user-supplied text with bluemonday.
//
// Spot descriptions may carry light formatting and pass through Sanitize
// (user-generated-content policy). Everything else (titles, locations,
// review comments, moderation notes) is plain text and passes through StripTags.
package htmlsanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	ugc    = bluemonday.UGCPolicy()
	strict = bluemonday.StrictPolicy()
)

// Sanitize keeps safe formatting markup and removes scripts, event handlers,
// and dangerous URLs.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(ugc.Sanitize(s))
}

// StripTags removes all markup and returns plain text. Entities are decoded
// so "Tom &amp; Jerry" and "Tom & Jerry" store the same value.
func StripTags(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}
