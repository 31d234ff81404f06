package normalizer

import (
	"blog-catalog/models"
)

// AdaptNotion maps a Notion database page to a Post. It never fails:
// every field falls back to its default when the property is absent or malformed.
func AdaptNotion(raw *models.RawNotionRecord) models.Post {
	if raw == nil {
		raw = &models.RawNotionRecord{}
	}
	props := raw.Properties

	title := extractTitle(props)
	category := extractCategory(props)

	originalURL := extractOriginalURL(props)
	if originalURL == "" {
		originalURL = orDefault(raw.URL, OriginalURLFromID(raw.ID))
	}

	return models.Post{
		ID:               raw.ID,
		Title:            orDefault(title, DefaultTitle),
		Slug:             Slugify(title, raw.ID),
		Summary:          extractSummary(props),
		Excerpt:          extractExcerpt(props),
		Category:         category,
		Tags:             extractTags(props),
		CoverImageURL:    extractCoverImage(props),
		DisplayDate:      DisplayDate(extractDateStart(props), raw.CreatedTime),
		ReadingTimeLabel: ReadingTimeLabel(extractMinsRead(props)),
		OriginalURL:      originalURL,
	}
}
