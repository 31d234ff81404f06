package normalizer

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blog-catalog/models"
)

func props(t *testing.T, raw string) map[string]json.RawMessage {
	t.Helper()
	var out map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(raw), &out))
	return out
}

func strPtr(s string) *string { return &s }

func TestSlugify(t *testing.T) {
	testCases := []struct {
		name  string
		title string
		id    string
		want  string
	}{
		{name: "punctuation", title: "Hello, World!", id: "x", want: "hello-world"},
		{name: "leading and trailing", title: "  --Go 1.25 Release--  ", id: "x", want: "go-1-25-release"},
		{name: "empty falls back to id", title: "", id: "page-1", want: "page-1"},
		{name: "symbols only falls back to id", title: "!!!", id: "page-2", want: "page-2"},
		{name: "non ascii collapses", title: "Café Crème", id: "x", want: "caf-cr-me"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			got := Slugify(testCase.title, testCase.id)
			assert.Equal(t, testCase.want, got)
			assert.Equal(t, got, Slugify(got, testCase.id), "slugify must be idempotent")
		})
	}
}

func TestAdaptNotionDefaults(t *testing.T) {
	post := AdaptNotion(&models.RawNotionRecord{
		ID:         "1a2b-3c4d",
		Properties: map[string]json.RawMessage{},
	})

	assert.Equal(t, "1a2b-3c4d", post.ID)
	assert.Equal(t, DefaultTitle, post.Title)
	assert.Equal(t, "1a2b-3c4d", post.Slug)
	assert.Equal(t, DefaultSummary, post.Summary)
	assert.Equal(t, "", post.Excerpt)
	assert.Equal(t, DefaultCategory, post.Category)
	assert.Equal(t, []string{}, post.Tags)
	assert.Equal(t, PlaceholderImageURL, post.CoverImageURL)
	assert.Equal(t, DefaultReadingTime, post.ReadingTimeLabel)
	assert.Equal(t, "https://www.notion.so/1a2b3c4d", post.OriginalURL)
	assert.Equal(t, "", post.DisplayDate)
	assert.Nil(t, post.Content)
}

func TestAdaptNotionNilRecord(t *testing.T) {
	assert.NotPanics(t, func() {
		post := AdaptNotion(nil)
		assert.Equal(t, DefaultTitle, post.Title)
	})
}

func TestAdaptNotionFullRecord(t *testing.T) {
	raw := &models.RawNotionRecord{
		ID:          "abc-123",
		CreatedTime: "2024-02-01T08:00:00.000Z",
		Properties: props(t, `{
			"Title": {"type": "title", "title": [
				{"plain_text": "A Test "},
				{"text": {"content": "Post"}},
				{"annotations": {}}
			]},
			"Summary": {"type": "rich_text", "rich_text": [{"plain_text": "Short summary"}]},
			"Excerpt": {"type": "rich_text", "rich_text": [{"plain_text": "Longer excerpt"}]},
			"Category": {"type": "select", "select": {"name": "Development"}},
			"Tags": {"type": "multi_select", "multi_select": [{"name": "go"}, {"name": ""}, {"name": "cache"}]},
			"Date Created": {"type": "date", "date": {"start": "2024-03-15"}},
			"R2ImageUrl": {"type": "url", "url": "https://cdn.example.com/cover.png"},
			"Image": {"type": "url", "url": "https://example.com/ignored.png"},
			"Original Page": {"type": "url", "url": "https://www.notion.so/original"},
			"Mins Read": {"type": "number", "number": 7}
		}`),
	}

	post := AdaptNotion(raw)

	assert.Equal(t, "A Test Post", post.Title)
	assert.Equal(t, "a-test-post", post.Slug)
	assert.Equal(t, "Short summary", post.Summary)
	assert.Equal(t, "Longer excerpt", post.Excerpt)
	assert.Equal(t, "Development", post.Category)
	assert.Equal(t, []string{"go", "cache"}, post.Tags)
	assert.Equal(t, "March 15, 2024", post.DisplayDate)
	assert.Equal(t, "https://cdn.example.com/cover.png", post.CoverImageURL)
	assert.Equal(t, "https://www.notion.so/original", post.OriginalURL)
	assert.Equal(t, "7 Min Read", post.ReadingTimeLabel)
}

func TestAdaptNotionMalformedPropertiesFallBack(t *testing.T) {
	raw := &models.RawNotionRecord{
		ID:          "p1",
		CreatedTime: "2023-12-24T10:00:00.000Z",
		Properties: props(t, `{
			"Title": {"type": "title", "title": "not-an-array"},
			"Category": {"type": "select", "select": null},
			"Tags": {"type": "multi_select", "multi_select": {"name": "oops"}},
			"Mins Read": {"type": "number", "number": "seven"},
			"Image": {"type": "files", "files": [{"name": "a.png", "file": {"url": "https://files.example.com/a.png"}}]}
		}`),
	}

	post := AdaptNotion(raw)

	assert.Equal(t, DefaultTitle, post.Title)
	assert.Equal(t, "p1", post.Slug)
	assert.Equal(t, DefaultCategory, post.Category)
	assert.Equal(t, []string{}, post.Tags)
	assert.Equal(t, DefaultReadingTime, post.ReadingTimeLabel)
	assert.Equal(t, "https://files.example.com/a.png", post.CoverImageURL)
	assert.Equal(t, "December 24, 2023", post.DisplayDate)
}

func TestAdaptRowDefaults(t *testing.T) {
	post := AdaptRow(&models.RawTableRow{ID: "row-1"})

	assert.Equal(t, DefaultTitle, post.Title)
	assert.Equal(t, "row-1", post.Slug)
	assert.Equal(t, DefaultSummary, post.Summary)
	assert.Equal(t, DefaultCategory, post.Category)
	assert.Equal(t, []string{DefaultCategory}, post.Tags)
	assert.Equal(t, PlaceholderImageURL, post.CoverImageURL)
	assert.Equal(t, DefaultReadingTime, post.ReadingTimeLabel)
	assert.Equal(t, "https://www.notion.so/row1", post.OriginalURL)
}

func TestAdaptRowFields(t *testing.T) {
	created := time.Date(2024, time.May, 3, 12, 0, 0, 0, time.UTC)
	mins := 5
	post := AdaptRow(&models.RawTableRow{
		ID:         "row-2",
		Title:      strPtr("Designing Caches"),
		Summary:    strPtr("How we cache"),
		Category:   strPtr("Design"),
		Tags:       strPtr(" cache, ,ttl ,"),
		R2ImageURL: strPtr("https://cdn.example.com/r2.png"),
		NotionURL:  strPtr("https://www.notion.so/designing-caches"),
		MinsRead:   &mins,
		CreatedAt:  &created,
	})

	assert.Equal(t, "designing-caches", post.Slug)
	assert.Equal(t, []string{"cache", "ttl"}, post.Tags)
	assert.Equal(t, "May 3, 2024", post.DisplayDate)
	assert.Equal(t, "5 Min Read", post.ReadingTimeLabel)
	assert.Equal(t, "https://www.notion.so/designing-caches", post.OriginalURL)
}

func TestAdaptRowEmptyTagsUseCategory(t *testing.T) {
	post := AdaptRow(&models.RawTableRow{ID: "r", Category: strPtr("Career"), Tags: strPtr("")})
	assert.Equal(t, []string{"Career"}, post.Tags)
}

func TestNormalizeDropsNullRecordsAndKeepsOrder(t *testing.T) {
	var nilNotion *models.RawNotionRecord
	var nilRow *models.RawTableRow

	records := []models.RawRecord{
		&models.RawTableRow{ID: "first", Title: strPtr("First")},
		nil,
		nilNotion,
		nilRow,
		&models.RawNotionRecord{ID: "no-props"},
		&models.RawTableRow{ID: ""},
		&models.RawNotionRecord{ID: "second", Properties: props(t, `{"Title": {"title": [{"plain_text": "Second"}]}}`)},
	}

	posts := Normalize(records)

	require.Len(t, posts, 2)
	assert.Equal(t, "first", posts[0].ID)
	assert.Equal(t, "second", posts[1].ID)
	assert.Equal(t, "second", posts[1].Slug)
}
