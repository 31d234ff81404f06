package notionclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"blog-catalog/cmd/api/httpclient"
	"blog-catalog/cmd/api/trace"
	"blog-catalog/cmd/internal/logger"
	"blog-catalog/models"
)

// Client is a thin reader for the blog database over the Notion REST API.
//
// - Query results (pages) are passed on as RawNotionRecord without interpreting properties.
// - The body is read from block children only for single post lookups.
type Client struct {
	base          *httpclient.BaseClient
	apiKey        string
	databaseID    string
	version       string
	publishedOnly bool
	maxPages      int
}

type Options struct {
	BaseURL       string
	APIKey        string
	DatabaseID    string
	Version       string
	PublishedOnly bool

	// MaxPages bounds cursor pagination; 0 means defaultMaxPages.
	MaxPages int
	HTTP     httpclient.Config
}

// ErrNotFound is returned when Notion answers 404 for a page or database.
var ErrNotFound = errors.New("notion: object not found")

const (
	pageSize = 100
	defaultMaxPages = 50
)

func New(opts Options) *Client {
	base := opts.BaseURL
	if base == "" {
		base = "https://api.notion.com"
	}
	version := opts.Version
	if version == "" {
		version = "2022-06-28"
	}
	maxPages := opts.MaxPages
	if maxPages <= 0 {
		maxPages = defaultMaxPages
	}
	return &Client{
		base:          httpclient.NewBaseClient(base, opts.HTTP),
		apiKey:        opts.APIKey,
		databaseID:    opts.DatabaseID,
		version:       version,
		publishedOnly: opts.PublishedOnly,
		maxPages:      maxPages,
	}
}

func (c *Client) Kind() models.SourceKind { return models.SourceNotion }

type queryRequest struct {
	PageSize    int                 `json:"page_size"`
	StartCursor string              `json:"start_cursor,omitempty"`
	Filter      map[string]any      `json:"filter,omitempty"`
	Sorts       []map[string]string `json:"sorts"`
}

type page struct {
	models.RawNotionRecord
	Archived bool `json:"archived"`
	InTrash  bool `json:"in_trash"`
}

type queryResponse struct {
	Results    []page  `json:"results"`
	HasMore    bool    `json:"has_more"`
	NextCursor *string `json:"next_cursor"`
}

// FetchRecords pages through the database, newest first, skipping archived pages.
// When the page bound is reached while has_more is still set, the records read so far
// are returned and a warning is logged.
func (c *Client) FetchRecords(ctx context.Context) ([]models.RawRecord, error) {
	var out []models.RawRecord
	cursor := ""
	for i := 0; i < c.maxPages; i++ {
		body := queryRequest{
			PageSize:    pageSize,
			StartCursor: cursor,
			Sorts:       []map[string]string{{"timestamp": "created_time", "direction": "descending"}},
		}
		if c.publishedOnly {
			body.Filter = map[string]any{
				"property": "Published",
				"checkbox": map[string]bool{"equals": true},
			}
		}

		var resp queryResponse
		if err := c.doJSON(ctx, http.MethodPost, "/v1/databases/"+c.databaseID+"/query", nil, body, &resp); err != nil {
			return nil, fmt.Errorf("notion query database: %w", err)
		}
		for _, p := range resp.Results {
			if p.Archived || p.InTrash {
				continue
			}
			rec := p.RawNotionRecord
			out = append(out, &rec)
		}
		if !resp.HasMore || resp.NextCursor == nil || *resp.NextCursor == "" {
			return out, nil
		}
		cursor = *resp.NextCursor
	}
	c.warnTruncated(ctx, "query_database", c.databaseID, len(out))
	return out, nil
}

type blockChildrenResponse struct {
	Results    []block `json:"results"`
	HasMore    bool    `json:"has_more"`
	NextCursor *string `json:"next_cursor"`
}

// FetchContent reads the page's top-level blocks and renders them as plain text.
func (c *Client) FetchContent(ctx context.Context, pageID string) (string, error) {
	var blocks []block
	cursor := ""
	for i := 0; i < c.maxPages; i++ {
		q := url.Values{}
		q.Set("page_size", strconv.Itoa(pageSize))
		if cursor != "" {
			q.Set("start_cursor", cursor)
		}

		var resp blockChildrenResponse
		if err := c.doJSON(ctx, http.MethodGet, "/v1/blocks/"+pageID+"/children", q, nil, &resp); err != nil {
			return "", fmt.Errorf("notion block children: %w", err)
		}
		blocks = append(blocks, resp.Results...)
		if !resp.HasMore || resp.NextCursor == nil || *resp.NextCursor == "" {
			return renderBlocks(blocks), nil
		}
		cursor = *resp.NextCursor
	}
	c.warnTruncated(ctx, "block_children", pageID, len(blocks))
	return renderBlocks(blocks), nil
}

func (c *Client) warnTruncated(ctx context.Context, operation, id string, items int) {
	fields := logger.Fields(trace.Fields(ctx))
	fields["operation"] = operation
	fields["id"] = id
	fields["max_pages"] = c.maxPages
	fields["items"] = items
	logger.WarnWithFields("notion pagination truncated", fields)
}

func (c *Client) doJSON(ctx context.Context, method, relPath string, query url.Values, in any, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(buf)
	}

	req, err := c.base.NewRequest(ctx, method, relPath, query, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Notion-Version", c.version)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.base.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("%w: status=%d body=%s", models.ErrUpstreamUnavailable, resp.StatusCode, string(b))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode: %v", models.ErrUpstreamUnavailable, err)
	}
	return nil
}
