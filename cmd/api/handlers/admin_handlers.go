package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"blog-catalog/cmd/api/dto"
	"blog-catalog/cmd/api/services"
)

// PurgeCacheHandler godoc
// @Summary      Purge cache
// @Description  Drop every cached snapshot, page, category list and post
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  dto.PurgeResponseDTO
// @Failure      401  {object}  dto.ErrorResponseDTO
// @Router       /admin/cache/purge [post]
func PurgeCacheHandler(svc *services.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		n := svc.PurgeCache(c.Request.Context())
		c.JSON(http.StatusOK, dto.PurgeResponseDTO{Message: "cache purged", Entries: n})
	}
}

// CacheEntriesHandler godoc
// @Summary      Inspect cache
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}  dto.CacheEntryDTO
// @Router       /admin/cache [get]
func CacheEntriesHandler(svc *services.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		entries := svc.CacheEntries()
		out := make([]dto.CacheEntryDTO, 0, len(entries))
		for _, e := range entries {
			out = append(out, dto.CacheEntryDTO{
				Key:       e.Key,
				StoredAt:  e.StoredAt,
				ExpiresAt: e.ExpiresAt,
				Fresh:     e.Fresh,
			})
		}
		c.JSON(http.StatusOK, out)
	}
}
