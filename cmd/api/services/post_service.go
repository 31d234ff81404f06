package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"blog-catalog/cache"
	"blog-catalog/cmd/api/trace"
	"blog-catalog/cmd/internal/logger"
	"blog-catalog/models"
	"blog-catalog/normalizer"
	"blog-catalog/query"
)

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotFound        = errors.New("post not found")

	// ErrUpstreamUnavailable is the sentinel wrapped by every Source implementation.
	ErrUpstreamUnavailable = models.ErrUpstreamUnavailable
)

// Source is the upstream record fetcher. FetchRecords must return an error, not an
// empty slice, when the upstream cannot be read.
type Source interface {
	Kind() models.SourceKind
	FetchRecords(ctx context.Context) ([]models.RawRecord, error)
	FetchContent(ctx context.Context, id string) (string, error)
}

// Observer receives upstream and fallback events; metrics.Collector implements it.
type Observer interface {
	ObserveFetch(source, operation string, started time.Time, err error)
	IncCategoryFallback()
}

type Status string

const (
	StatusOK       Status = "ok"
	StatusFallback Status = "fallback"
	StatusFailed   Status = "failed"
)

type PostPage struct {
	Items      []models.Post
	Page       int
	Limit      int
	TotalPages int
	TotalItems int
	Status     Status
}

type CategoryList struct {
	Items  []string
	Status Status
}

type Options struct {
	PageSize    int
	MaxPageSize int
	Observer    Observer
}

// PostService is the single entry point for catalog queries.
//
// - Records from the source are cached as one normalized snapshot shared by list, search, categories and single lookups.
// - Failed fetches and the category fallback are never cached.
type PostService struct {
	source Source
	cache  *cache.Cache
	opts   Options
}

func NewPostService(source Source, c *cache.Cache, opts Options) *PostService {
	if opts.PageSize <= 0 {
		opts.PageSize = 6
	}
	if opts.MaxPageSize <= 0 {
		opts.MaxPageSize = 50
	}
	return &PostService{source: source, cache: c, opts: opts}
}

type ListInput struct {
	Page     int
	Limit    int // 0 means the configured page size
	Category string
}

type SearchInput struct {
	Query    string
	Page     int
	Limit    int
	Category string
}

func (s *PostService) ListPosts(ctx context.Context, in ListInput) (PostPage, error) {
	const op = "services.PostService.ListPosts"

	page, limit, err := s.resolvePaging(in.Page, in.Limit)
	if err != nil {
		return PostPage{}, fmt.Errorf("%s: %w", op, err)
	}

	key := listKey(page, limit, in.Category)
	if v, ok := s.cache.Get(key); ok {
		return toPostPage(v.(query.Page), StatusOK), nil
	}

	posts, err := s.snapshot(ctx)
	if err != nil {
		s.logUpstreamFailure(ctx, op, err)
		return failedPage(page, limit), fmt.Errorf("%s: %w", op, err)
	}

	result := query.List(posts, query.ListParams{Category: in.Category, Page: page, Limit: limit})
	s.cache.Set(key, result)
	return toPostPage(result, StatusOK), nil
}

// SearchPosts validates the query before touching the cache or the upstream.
func (s *PostService) SearchPosts(ctx context.Context, in SearchInput) (PostPage, error) {
	const op = "services.PostService.SearchPosts"

	q := strings.TrimSpace(in.Query)
	if q == "" {
		return PostPage{}, fmt.Errorf("%s: %w: search query is required", op, ErrInvalidArgument)
	}
	page, limit, err := s.resolvePaging(in.Page, in.Limit)
	if err != nil {
		return PostPage{}, fmt.Errorf("%s: %w", op, err)
	}

	key := searchKey(page, limit, in.Category, strings.ToLower(q))
	if v, ok := s.cache.Get(key); ok {
		return toPostPage(v.(query.Page), StatusOK), nil
	}

	posts, err := s.snapshot(ctx)
	if err != nil {
		s.logUpstreamFailure(ctx, op, err)
		return failedPage(page, limit), fmt.Errorf("%s: %w", op, err)
	}

	result := query.Search(posts, query.SearchParams{Query: q, Category: in.Category, Page: page, Limit: limit})
	s.cache.Set(key, result)
	return toPostPage(result, StatusOK), nil
}

// Categories never fails: when the upstream is unavailable the fixed fallback list is returned
// with StatusFallback.
func (s *PostService) Categories(ctx context.Context) (CategoryList, error) {
	const op = "services.PostService.Categories"

	if v, ok := s.cache.Get(categoriesKey); ok {
		return CategoryList{Items: slices.Clone(v.([]string)), Status: StatusOK}, nil
	}

	posts, err := s.snapshot(ctx)
	if err != nil {
		s.logUpstreamFailure(ctx, op, err)
		if s.opts.Observer != nil {
			s.opts.Observer.IncCategoryFallback()
		}
		return CategoryList{Items: query.FallbackCategories(), Status: StatusFallback}, nil
	}

	categories := query.Categories(posts)
	s.cache.Set(categoriesKey, categories)
	return CategoryList{Items: slices.Clone(categories), Status: StatusOK}, nil
}

// GetPost looks a post up by slug or id and attaches its content.
// A post whose content cannot be loaded is returned without content and is not cached.
func (s *PostService) GetPost(ctx context.Context, slugOrID string) (models.Post, error) {
	const op = "services.PostService.GetPost"

	key := strings.TrimSpace(slugOrID)
	if key == "" {
		return models.Post{}, fmt.Errorf("%s: %w: slug or id is required", op, ErrInvalidArgument)
	}
	if v, ok := s.cache.Get(postKey(key)); ok {
		return v.(models.Post).Clone(), nil
	}

	posts, err := s.snapshot(ctx)
	if err != nil {
		s.logUpstreamFailure(ctx, op, err)
		return models.Post{}, fmt.Errorf("%s: %w", op, err)
	}

	post, ok := query.GetBySlugOrID(posts, key)
	if !ok {
		return models.Post{}, fmt.Errorf("%s: %w: %s", op, ErrNotFound, key)
	}

	started := time.Now()
	content, err := s.source.FetchContent(ctx, post.ID)
	s.observe("content", started, err)
	if err != nil {
		fields := s.logFields(ctx, op, err)
		fields["post_id"] = post.ID
		logger.WarnWithFields("post content unavailable", fields)
		return post.WithoutContent(), nil
	}

	full := post.WithContent(content)
	s.cache.Set(postKey(key), full)
	return full.Clone(), nil
}

// PurgeCache drops every cached entry and returns how many were removed.
func (s *PostService) PurgeCache(ctx context.Context) int {
	n := s.cache.PurgeAll()
	fields := trace.Fields(ctx)
	fields["entries"] = n
	logger.InfoWithFields("cache purged", logger.Fields(fields))
	return n
}

func (s *PostService) CacheEntries() []cache.SnapshotEntry {
	return s.cache.Snapshot()
}

// snapshot returns the normalized collection, loading it from the source on miss.
// Every failure, including the caller's own cancellation, is reported as ErrUpstreamUnavailable.
func (s *PostService) snapshot(ctx context.Context) ([]models.Post, error) {
	v, err := s.cache.GetOrLoad(ctx, snapshotKey(s.source.Kind()), func(ctx context.Context) (any, error) {
		started := time.Now()
		records, err := s.source.FetchRecords(ctx)
		s.observe("records", started, err)
		if err != nil {
			return nil, err
		}
		return normalizer.Normalize(records), nil
	})
	if err != nil {
		if !errors.Is(err, ErrUpstreamUnavailable) {
			err = fmt.Errorf("%w: %w", ErrUpstreamUnavailable, err)
		}
		return nil, err
	}
	return v.([]models.Post), nil
}

// resolvePaging applies the configured default limit, clamps values below 1 and
// rejects limits above the configured maximum.
func (s *PostService) resolvePaging(page, limit int) (int, int, error) {
	if limit == 0 {
		limit = s.opts.PageSize
	}
	if limit > s.opts.MaxPageSize {
		return 0, 0, fmt.Errorf("%w: limit %d exceeds maximum %d", ErrInvalidArgument, limit, s.opts.MaxPageSize)
	}
	return max(page, 1), max(limit, 1), nil
}

func (s *PostService) observe(operation string, started time.Time, err error) {
	if s.opts.Observer != nil {
		s.opts.Observer.ObserveFetch(string(s.source.Kind()), operation, started, err)
	}
}

func (s *PostService) logFields(ctx context.Context, op string, err error) logger.Fields {
	fields := logger.Fields(trace.Fields(ctx))
	fields["op"] = op
	fields["source"] = string(s.source.Kind())
	fields["error"] = err.Error()
	return fields
}

func (s *PostService) logUpstreamFailure(ctx context.Context, op string, err error) {
	logger.WarnWithFields("upstream fetch failed", s.logFields(ctx, op, err))
}

// toPostPage copies the items so callers never share memory with cached pages.
func toPostPage(p query.Page, status Status) PostPage {
	items := make([]models.Post, len(p.Items))
	for i, post := range p.Items {
		items[i] = post.Clone()
	}
	return PostPage{
		Items:      items,
		Page:       p.Page,
		Limit:      p.Limit,
		TotalPages: p.TotalPages,
		TotalItems: p.TotalItems,
		Status:     status,
	}
}

func failedPage(page, limit int) PostPage {
	return PostPage{Items: []models.Post{}, Page: page, Limit: limit, Status: StatusFailed}
}
