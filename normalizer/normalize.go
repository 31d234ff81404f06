package normalizer

import (
	"strings"

	"blog-catalog/models"
)

// Normalize adapts every record with the adapter matching its shape.
// Records without the minimum shape are dropped; input order is preserved.
func Normalize(records []models.RawRecord) []models.Post {
	posts := make([]models.Post, 0, len(records))
	for _, rec := range records {
		switch r := rec.(type) {
		case *models.RawNotionRecord:
			if r == nil || r.Properties == nil || strings.TrimSpace(r.ID) == "" {
				continue
			}
			posts = append(posts, AdaptNotion(r))
		case *models.RawTableRow:
			if r == nil || strings.TrimSpace(r.ID) == "" {
				continue
			}
			posts = append(posts, AdaptRow(r))
		}
	}
	return posts
}
