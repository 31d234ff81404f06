package normalizer

import (
	"encoding/json"
	"strings"
)

// Notion property names as they appear in the blog database.
const (
	propTitle       = "Title"
	propSummary     = "Summary"
	propExcerpt     = "Excerpt"
	propCategory    = "Category"
	propTags        = "Tags"
	propDateCreated = "Date Created"
	propR2ImageURL  = "R2ImageUrl"
	propImage       = "Image"
	propOriginal    = "Original Page"
	propMinsRead    = "Mins Read"
)

type richText struct {
	PlainText *string `json:"plain_text"`
	Text      *struct {
		Content *string `json:"content"`
	} `json:"text"`
}

type selectOption struct {
	Name string `json:"name"`
}

type fileObject struct {
	Name     string `json:"name"`
	External *struct {
		URL string `json:"url"`
	} `json:"external"`
	File *struct {
		URL string `json:"url"`
	} `json:"file"`
}

// property is a single Notion property value. Which field is set depends on its type tag.
type property struct {
	Type        string         `json:"type"`
	Title       []richText     `json:"title"`
	RichText    []richText     `json:"rich_text"`
	Select      *selectOption  `json:"select"`
	MultiSelect []selectOption `json:"multi_select"`
	URL         *string        `json:"url"`
	Number      *float64       `json:"number"`
	Files       []fileObject   `json:"files"`
	Date        *struct {
		Start string `json:"start"`
	} `json:"date"`
}

// lookup decodes a single property. A missing or malformed value yields ok=false.
func lookup(props map[string]json.RawMessage, name string) (property, bool) {
	raw, ok := props[name]
	if !ok || len(raw) == 0 {
		return property{}, false
	}
	var p property
	if err := json.Unmarshal(raw, &p); err != nil {
		return property{}, false
	}
	return p, true
}

func (r richText) resolve() string {
	if r.PlainText != nil {
		return *r.PlainText
	}
	if r.Text != nil && r.Text.Content != nil {
		return *r.Text.Content
	}
	return ""
}

// joinRichText concatenates each element's text in order with no separator.
func joinRichText(items []richText) string {
	var b strings.Builder
	for _, item := range items {
		b.WriteString(item.resolve())
	}
	return b.String()
}

// textOf reads a title or rich_text property as plain text.
func textOf(props map[string]json.RawMessage, name string) string {
	p, ok := lookup(props, name)
	if !ok {
		return ""
	}
	if len(p.Title) > 0 {
		return joinRichText(p.Title)
	}
	return joinRichText(p.RichText)
}

func extractTitle(props map[string]json.RawMessage) string {
	return strings.TrimSpace(textOf(props, propTitle))
}

func extractSummary(props map[string]json.RawMessage) string {
	if s := strings.TrimSpace(textOf(props, propSummary)); s != "" {
		return s
	}
	return DefaultSummary
}

func extractExcerpt(props map[string]json.RawMessage) string {
	return strings.TrimSpace(textOf(props, propExcerpt))
}

func extractCategory(props map[string]json.RawMessage) string {
	p, ok := lookup(props, propCategory)
	if !ok || p.Select == nil || strings.TrimSpace(p.Select.Name) == "" {
		return DefaultCategory
	}
	return strings.TrimSpace(p.Select.Name)
}

func extractTags(props map[string]json.RawMessage) []string {
	tags := []string{}
	p, ok := lookup(props, propTags)
	if !ok {
		return tags
	}
	for _, opt := range p.MultiSelect {
		if name := strings.TrimSpace(opt.Name); name != "" {
			tags = append(tags, name)
		}
	}
	return tags
}

func extractDateStart(props map[string]json.RawMessage) string {
	p, ok := lookup(props, propDateCreated)
	if !ok || p.Date == nil {
		return ""
	}
	return p.Date.Start
}

// urlOf reads a url property, or the first entry of a files property.
func urlOf(props map[string]json.RawMessage, name string) string {
	p, ok := lookup(props, name)
	if !ok {
		return ""
	}
	if p.URL != nil && strings.TrimSpace(*p.URL) != "" {
		return strings.TrimSpace(*p.URL)
	}
	for _, f := range p.Files {
		switch {
		case f.External != nil && f.External.URL != "":
			return f.External.URL
		case f.File != nil && f.File.URL != "":
			return f.File.URL
		}
	}
	return ""
}

func extractCoverImage(props map[string]json.RawMessage) string {
	if u := urlOf(props, propR2ImageURL); u != "" {
		return u
	}
	if u := urlOf(props, propImage); u != "" {
		return u
	}
	return PlaceholderImageURL
}

func extractOriginalURL(props map[string]json.RawMessage) string {
	return urlOf(props, propOriginal)
}

func extractMinsRead(props map[string]json.RawMessage) int {
	p, ok := lookup(props, propMinsRead)
	if !ok || p.Number == nil || *p.Number <= 0 {
		return 0
	}
	return int(*p.Number + 0.5)
}
