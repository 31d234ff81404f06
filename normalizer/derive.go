package normalizer

import (
	"fmt"
	"strings"
	"time"
)

// Field defaults applied when the upstream value is missing or malformed.
const (
	DefaultTitle        = "Untitled Post"
	DefaultSummary      = "No summary available"
	DefaultCategory     = "Uncategorized"
	DefaultReadingTime  = "3 Min Read"
	PlaceholderImageURL = "https://placehold.co/600x400?text=Blog+Post"

	notionPageBaseURL = "https://www.notion.so/"
	displayDateLayout = "January 2, 2006"
)

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Slugify lowercases title and collapses every run of characters outside [a-z0-9]
// into a single hyphen, trimming hyphens at both ends. An empty result yields id.
func Slugify(title, id string) string {
	var b strings.Builder
	b.Grow(len(title))
	pendingHyphen := false
	for _, r := range strings.ToLower(title) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}
	if b.Len() == 0 {
		return id
	}
	return b.String()
}

// ReadingTimeLabel renders minutes as "N Min Read".
func ReadingTimeLabel(mins int) string {
	if mins <= 0 {
		return DefaultReadingTime
	}
	return fmt.Sprintf("%d Min Read", mins)
}

// DisplayDate formats the first parseable candidate as "January 2, 2006".
func DisplayDate(candidates ...string) string {
	for _, c := range candidates {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, c); err == nil {
				return t.Format(displayDateLayout)
			}
		}
	}
	return ""
}

func displayTime(candidates ...*time.Time) string {
	for _, t := range candidates {
		if t != nil && !t.IsZero() {
			return t.Format(displayDateLayout)
		}
	}
	return ""
}

// OriginalURLFromID builds the public Notion permalink for a page id.
func OriginalURLFromID(id string) string {
	return notionPageBaseURL + strings.ReplaceAll(id, "-", "")
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return strings.TrimSpace(v)
}
