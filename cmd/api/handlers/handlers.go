package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"blog-catalog/cmd/api/dto"
	"blog-catalog/cmd/api/services"
)

// ListPostsHandler godoc
// @Summary      List posts
// @Description  List posts newest first, optionally filtered by category
// @Tags         posts
// @Param        page      query  int     false  "Page number (1-based)"
// @Param        limit     query  int     false  "Page size (default from config)"
// @Param        category  query  string  false  "Exact category; All means no filter"
// @Produce      json
// @Success      200  {object}  dto.Pagination[dto.PostDTO]
// @Failure      400  {object}  dto.ErrorResponseDTO
// @Failure      502  {object}  dto.Pagination[dto.PostDTO]
// @Router       /posts [get]
func ListPostsHandler(svc *services.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, limit := pagingParams(c)
		result, err := svc.ListPosts(c.Request.Context(), services.ListInput{
			Page:     page,
			Limit:    limit,
			Category: c.Query("category"),
		})
		writePage(c, result, err)
	}
}

// SearchPostsHandler godoc
// @Summary      Search posts
// @Description  Case-insensitive substring search over title, summary, excerpt, category and tags
// @Tags         posts
// @Param        q         query  string  true   "Search text"
// @Param        page      query  int     false  "Page number (1-based)"
// @Param        limit     query  int     false  "Page size"
// @Param        category  query  string  false  "Exact category"
// @Produce      json
// @Success      200  {object}  dto.Pagination[dto.PostDTO]
// @Failure      400  {object}  dto.ErrorResponseDTO
// @Router       /posts/search [get]
func SearchPostsHandler(svc *services.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, limit := pagingParams(c)
		result, err := svc.SearchPosts(c.Request.Context(), services.SearchInput{
			Query:    c.Query("q"),
			Page:     page,
			Limit:    limit,
			Category: c.Query("category"),
		})
		writePage(c, result, err)
	}
}

// ListCategoriesHandler godoc
// @Summary      List categories
// @Description  Distinct categories with "All" first; a fixed list is served when the upstream is down
// @Tags         posts
// @Produce      json
// @Success      200  {object}  dto.CategoriesDTO
// @Router       /categories [get]
func ListCategoriesHandler(svc *services.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := svc.Categories(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.CategoriesDTO{Items: result.Items, Status: string(result.Status)})
	}
}

// GetPostHandler godoc
// @Summary      Get post by slug or id
// @Tags         posts
// @Param        slug  path  string  true  "Slug or id"
// @Produce      json
// @Success      200  {object}  dto.PostDetailDTO
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Router       /posts/{slug} [get]
func GetPostHandler(svc *services.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		post, err := svc.GetPost(c.Request.Context(), c.Param("slug"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.NewPostDetailDTO(post))
	}
}

// pagingParams reads page and limit. Missing or malformed values become 0,
// which the service treats as page 1 and the configured page size.
func pagingParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limitStr := c.Query("limit")
	if limitStr == "" {
		limitStr = c.Query("page_size")
	}
	limit, _ := strconv.Atoi(limitStr)
	return page, limit
}

func writePage(c *gin.Context, result services.PostPage, err error) {
	if err != nil && !errors.Is(err, services.ErrUpstreamUnavailable) {
		writeError(c, err)
		return
	}

	data := make([]dto.PostDTO, 0, len(result.Items))
	for _, p := range result.Items {
		data = append(data, dto.NewPostDTO(p))
	}
	body := dto.Pagination[dto.PostDTO]{
		Data:       data,
		Page:       result.Page,
		PageSize:   result.Limit,
		Total:      int64(result.TotalItems),
		TotalPages: result.TotalPages,
		Status:     string(result.Status),
	}
	if err != nil {
		c.JSON(http.StatusBadGateway, body)
		return
	}
	c.JSON(http.StatusOK, body)
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidArgument):
		c.JSON(http.StatusBadRequest, dto.ErrorResponseDTO{Error: err.Error()})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponseDTO{Error: "not found"})
	case errors.Is(err, services.ErrUpstreamUnavailable):
		c.JSON(http.StatusBadGateway, dto.ErrorResponseDTO{Error: "upstream unavailable"})
	default:
		c.JSON(http.StatusInternalServerError, dto.ErrorResponseDTO{Error: "internal error"})
	}
}
