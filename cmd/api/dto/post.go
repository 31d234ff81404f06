package dto

import "blog-catalog/models"

// PostDTO is the list/search representation of a post. It never carries content.
type PostDTO struct {
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
}

// PostDetailDTO adds the lazily loaded body. Content is null when it could not be fetched.
type PostDetailDTO struct {
	PostDTO
	Content *string `json:"content"`
}

func NewPostDTO(p models.Post) PostDTO {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	return PostDTO{
		ID:               p.ID,
		Title:            p.Title,
		Slug:             p.Slug,
		Summary:          p.Summary,
		Excerpt:          p.Excerpt,
		Category:         p.Category,
		Tags:             tags,
		CoverImageURL:    p.CoverImageURL,
		DisplayDate:      p.DisplayDate,
		ReadingTimeLabel: p.ReadingTimeLabel,
		OriginalURL:      p.OriginalURL,
	}
}

func NewPostDetailDTO(p models.Post) PostDetailDTO {
	return PostDetailDTO{PostDTO: NewPostDTO(p), Content: p.Content}
}
