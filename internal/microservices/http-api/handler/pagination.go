package handler

import (
	"net/http"
	"net/url"
	"strconv"

	"yamdb/internal/microservices/http-api/dto"

	"github.com/gin-gonic/gin"
)

const maxPageSize = 100

// Paging reads ?page and ?page_size for list endpoints.
type Paging struct {
	DefaultSize int
}

// parse returns ok=false (after writing the 404) for a page that is not a
// positive integer.
func (p Paging) parse(c *gin.Context) (page, size int, ok bool) {
	page, size = 1, p.DefaultSize
	if raw := c.Query("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Invalid page."})
			return 0, 0, false
		}
		page = n
	}
	if raw := c.Query("page_size"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			size = min(n, maxPageSize)
		}
	}
	return page, size, true
}

// writePage renders the envelope, or the "Invalid page." 404 when page lies
// past the last one. The first page always exists, even when empty.
func writePage[T any](c *gin.Context, results []T, total int64, page, size int) {
	if page > 1 && int64((page-1)*size) >= total {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Invalid page."})
		return
	}
	c.JSON(http.StatusOK, dto.NewPage(results, total, page, size, absoluteURL(c)))
}

func absoluteURL(c *gin.Context) *url.URL {
	u := *c.Request.URL
	u.Host = c.Request.Host
	u.Scheme = "http"
	if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
		u.Scheme = "https"
	}
	return &u
}
