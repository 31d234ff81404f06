package query

import (
	"sort"

	"blog-catalog/models"
)

// FallbackCategories is served when the upstream source cannot be read.
func FallbackCategories() []string {
	return []string{AllCategory, "Development", "Design", "Technology", "Career"}
}

// Categories returns "All" followed by the distinct categories of posts in sorted order.
func Categories(posts []models.Post) []string {
	seen := make(map[string]struct{}, len(posts))
	distinct := make([]string, 0, len(posts))
	for _, post := range posts {
		if post.Category == AllCategory {
			continue
		}
		if _, ok := seen[post.Category]; ok {
			continue
		}
		seen[post.Category] = struct{}{}
		distinct = append(distinct, post.Category)
	}
	sort.Strings(distinct)
	return append([]string{AllCategory}, distinct...)
}
