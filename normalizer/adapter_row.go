package normalizer

import (
	"strings"

	"blog-catalog/models"
)

const tagDelimiter = ","

// AdaptRow maps a posts table row to a Post. NULL columns take the field default.
func AdaptRow(raw *models.RawTableRow) models.Post {
	if raw == nil {
		raw = &models.RawTableRow{}
	}

	title := strings.TrimSpace(deref(raw.Title))
	category := orDefault(deref(raw.Category), DefaultCategory)

	mins := 0
	if raw.MinsRead != nil {
		mins = *raw.MinsRead
	}

	return models.Post{
		ID:               raw.ID,
		Title:            orDefault(title, DefaultTitle),
		Slug:             Slugify(title, raw.ID),
		Summary:          orDefault(deref(raw.Summary), DefaultSummary),
		Excerpt:          strings.TrimSpace(deref(raw.Excerpt)),
		Category:         category,
		Tags:             splitTags(deref(raw.Tags), category),
		CoverImageURL:    orDefault(deref(raw.R2ImageURL), PlaceholderImageURL),
		DisplayDate:      displayTime(raw.CreatedAt, raw.NotionLastEditedAt),
		ReadingTimeLabel: ReadingTimeLabel(mins),
		OriginalURL:      orDefault(deref(raw.NotionURL), OriginalURLFromID(raw.ID)),
	}
}

// splitTags splits a comma joined tag column. An empty column yields [category]
// so category-only rows stay discoverable through tag search.
func splitTags(joined, category string) []string {
	tags := []string{}
	for _, t := range strings.Split(joined, tagDelimiter) {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	if len(tags) == 0 {
		return []string{category}
	}
	return tags
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
