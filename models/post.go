package models

// Post is the canonical catalog entry produced by the normalizer.
// List and search results never carry Content; it is loaded only for single post lookups.
type Post struct {
	ID               string   `json:"id"`
	Title            string   `json:"title"`
	Slug             string   `json:"slug"`
	Summary          string   `json:"summary"`
	Excerpt          string   `json:"excerpt"`
	Category         string   `json:"category"`
	Tags             []string `json:"tags"`
	CoverImageURL    string   `json:"cover_image_url"`
	DisplayDate      string   `json:"display_date"`
	ReadingTimeLabel string   `json:"reading_time_label"`
	OriginalURL      string   `json:"original_url"`
	Content          *string  `json:"content,omitempty"`
}

// Clone returns a copy of p that shares no memory with it.
func (p Post) Clone() Post {
	out := p
	if p.Tags != nil {
		out.Tags = append([]string{}, p.Tags...)
	}
	if p.Content != nil {
		content := *p.Content
		out.Content = &content
	}
	return out
}

// WithContent returns a copy of p carrying the given body.
func (p Post) WithContent(content string) Post {
	out := p.Clone()
	out.Content = &content
	return out
}

// WithoutContent strips the body for list and search results.
func (p Post) WithoutContent() Post {
	out := p
	out.Content = nil
	return out
}
