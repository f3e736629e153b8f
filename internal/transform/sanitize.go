package transform

import (
	"regexp"
	"strings"
)

var (
	scriptBlockRe = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	tagRe         = regexp.MustCompile(`<[^>]+>`)

	// Unicode whitespace: \s alone is ASCII only.
	whitespaceRe = regexp.MustCompile(`[\s\p{Z}\x{85}\x{1c}-\x{1f}]+`)

	// Each pattern removes the attribute name and the rest of the tag up to
	// the next '>'.
	dangerousAttrRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)onload[^>]*`),
		regexp.MustCompile(`(?i)onclick[^>]*`),
		regexp.MustCompile(`(?i)onerror[^>]*`),
		regexp.MustCompile(`(?i)onmouseover[^>]*`),
		regexp.MustCompile(`(?i)javascript:[^>]*`),
	}
)

// CleanHTML drops <script> blocks and strips a fixed denylist of event
// handler attributes and javascript: URLs. It is a regex filter over the raw
// markup, not an HTML sanitizer.
func CleanHTML(html string) string {
	if html == "" {
		return ""
	}
	out := scriptBlockRe.ReplaceAllString(html, "")
	for _, re := range dangerousAttrRes {
		out = re.ReplaceAllString(out, "")
	}
	return out
}

// StripTags removes anything that looks like a tag.
func StripTags(s string) string {
	return tagRe.ReplaceAllString(s, "")
}

// ExtractTextFromHTML strips tags and collapses whitespace runs to a single
// space.
func ExtractTextFromHTML(html string) string {
	if html == "" {
		return ""
	}
	text := StripTags(html)
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
}

// TruncateText shortens text to at most maxLength characters of visible text.
// When the tag-stripped text already fits, the original markup is returned
// untouched. Otherwise the stripped text is cut back to the last space at or
// before maxLength and "..." is appended. Lengths count runes.
func TruncateText(text string, maxLength int) string {
	if text == "" || runeLen(text) <= maxLength {
		return text
	}

	clean := []rune(StripTags(text))
	if len(clean) <= maxLength {
		return text
	}

	cut := string(clean[:max(maxLength, 0)])
	if i := strings.LastIndex(cut, " "); i >= 0 {
		cut = cut[:i]
	}
	return cut + "..."
}

func runeLen(s string) int {
	return len([]rune(s))
}
