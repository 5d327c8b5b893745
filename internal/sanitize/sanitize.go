// Package sanitize transforms untrusted content documents into a
// constrained-safe form before they are persisted. The rules are
// deliberately narrow and stable: stored content for the public site must
// keep its exact shape across releases, so the sanitizer neutralizes a
// fixed set of vectors (script tag openers, non-whitelisted URLs,
// malformed link entries) and passes everything else through unchanged.
package sanitize

import (
	"regexp"
	"strings"
)

// scriptOpenRe matches the literal substring "<script" in any case mix.
var scriptOpenRe = regexp.MustCompile(`(?i)<script`)

// urlSchemeRe matches absolute http(s) URLs.
var urlSchemeRe = regexp.MustCompile(`(?i)^https?://`)

// sectionKeyRe matches every character outside the allowed key alphabet.
var sectionKeyRe = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// urlFields are the object keys whose string values go through the URL rule
// instead of the generic string rule. The special case fires only when the
// value is literally a string; other value types take the generic path.
var urlFields = map[string]bool{
	"url":             true,
	"imageUrl":        true,
	"backgroundImage": true,
	"photo":           true,
}

const maxSectionKeyLen = 100

// String neutralizes the literal substring "<script" (case-insensitive) by
// escaping the opening bracket, then trims surrounding whitespace. This is
// a targeted mitigation, not a general HTML sanitizer: other tags and
// attribute-based vectors pass through untouched.
func String(s string) string {
	return strings.TrimSpace(scriptOpenRe.ReplaceAllString(s, "&lt;script"))
}

// URL trims the string and keeps it verbatim when it is an absolute
// http(s) URL or an /uploads/ path; everything else collapses to the empty
// string so callers can drop it.
func URL(s string) string {
	s = strings.TrimSpace(s)
	if urlSchemeRe.MatchString(s) || strings.HasPrefix(s, "/uploads/") {
		return s
	}
	return ""
}

// SectionKey normalizes a section identifier taken from the URL path: trim,
// strip every character outside [a-zA-Z0-9._-], truncate to 100 characters.
// Applied to the path parameter, never to content.
func SectionKey(s string) string {
	s = sectionKeyRe.ReplaceAllString(strings.TrimSpace(s), "")
	if len(s) > maxSectionKeyLen {
		s = s[:maxSectionKeyLen]
	}
	return s
}

// Value recursively sanitizes a decoded JSON document. It is total: no
// input makes it fail, and shapes it does not recognize fall through
// unchanged. The closed set of decoded-JSON types (nil, bool, float64,
// string, []any, map[string]any) drives the recursion.
func Value(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return object(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = Value(e)
		}
		return out
	case string:
		return String(t)
	default:
		// numbers, booleans, null and anything exotic pass through
		return v
	}
}

// object applies the per-key precedence: URL fields first, then the images
// and links array shapes, then the generic recursion.
func object(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		switch {
		case urlFields[k]:
			if s, ok := v.(string); ok {
				out[k] = URL(s)
				continue
			}
			out[k] = Value(v)
		case k == "images":
			if arr, ok := v.([]any); ok {
				out[k] = images(arr)
				continue
			}
			out[k] = Value(v)
		case k == "links":
			if arr, ok := v.([]any); ok {
				out[k] = links(arr)
				continue
			}
			out[k] = Value(v)
		default:
			out[k] = Value(v)
		}
	}
	return out
}

// images maps every entry through the URL rule and drops the ones that
// collapse to empty. Non-string entries are dropped outright.
func images(arr []any) []any {
	out := make([]any, 0, len(arr))
	for _, e := range arr {
		s, ok := e.(string)
		if !ok {
			continue
		}
		if u := URL(s); u != "" {
			out = append(out, u)
		}
	}
	return out
}

// links reduces every entry to {label, url} with both fields sanitized,
// then drops entries that are not objects or end up missing a non-empty
// label or url.
func links(arr []any) []any {
	out := make([]any, 0, len(arr))
	for _, e := range arr {
		m, ok := e.(map[string]any)
		if !ok || m == nil {
			continue
		}
		label, _ := m["label"].(string)
		rawURL, _ := m["url"].(string)
		label = String(label)
		u := URL(rawURL)
		if label == "" || u == "" {
			continue
		}
		out = append(out, map[string]any{"label": label, "url": u})
	}
	return out
}
