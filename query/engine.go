// Package query implements listing, search and lookup over a normalized post snapshot.
// Every function is pure: input slices are never modified and results are fresh slices.
package query

import (
	"strings"

	"blog-catalog/models"
)

// AllCategory is the sentinel meaning "no category filter".
const AllCategory = "All"

type ListParams struct {
	Category string
	Page     int
	Limit    int
}

type SearchParams struct {
	Query    string
	Category string
	Page     int
	Limit    int
}

// Page is one slice of a filtered collection.
type Page struct {
	Items      []models.Post
	Page       int
	Limit      int
	TotalPages int
	TotalItems int
}

// List filters posts by exact category and returns the requested page.
func List(posts []models.Post, p ListParams) Page {
	return paginate(filterCategory(posts, p.Category), p.Page, p.Limit)
}

// Search keeps posts where q occurs case-insensitively in the title, summary,
// excerpt, category or any tag, in source order, then applies List semantics.
// Callers validate that q is not empty.
func Search(posts []models.Post, p SearchParams) Page {
	needle := strings.ToLower(p.Query)
	matched := make([]models.Post, 0, len(posts))
	for _, post := range posts {
		if matches(post, needle) {
			matched = append(matched, post)
		}
	}
	return List(matched, ListParams{Category: p.Category, Page: p.Page, Limit: p.Limit})
}

// GetBySlugOrID returns the first post, in source order, whose slug or id equals key.
// Each post is checked slug first, then id.
func GetBySlugOrID(posts []models.Post, key string) (models.Post, bool) {
	for _, post := range posts {
		if post.Slug == key || post.ID == key {
			return post, true
		}
	}
	return models.Post{}, false
}

func matches(post models.Post, needle string) bool {
	if strings.Contains(strings.ToLower(post.Title), needle) ||
		strings.Contains(strings.ToLower(post.Summary), needle) ||
		strings.Contains(strings.ToLower(post.Excerpt), needle) ||
		strings.Contains(strings.ToLower(post.Category), needle) {
		return true
	}
	for _, tag := range post.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}

func filterCategory(posts []models.Post, category string) []models.Post {
	if category == "" || category == AllCategory {
		return posts
	}
	out := make([]models.Post, 0, len(posts))
	for _, post := range posts {
		if post.Category == category {
			out = append(out, post)
		}
	}
	return out
}

// paginate slices [(page-1)*limit, page*limit). page and limit below 1 are clamped to 1.
func paginate(posts []models.Post, page, limit int) Page {
	page = max(page, 1)
	limit = max(limit, 1)

	total := len(posts)
	totalPages := (total + limit - 1) / limit

	items := []models.Post{}
	start := (page - 1) * limit
	if start < total {
		end := min(start+limit, total)
		items = append(items, posts[start:end]...)
	}

	return Page{
		Items:      items,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
		TotalItems: total,
	}
}
