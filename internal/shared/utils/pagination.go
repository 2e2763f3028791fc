package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/techdesk-io/techdesk/internal/shared/db"
)

type Pagination struct {
	Page     int
	PageSize int
}

// ParsePagination reads page and page_size from the query string. Missing or
// malformed values fall back to defaults; page_size is capped.
func ParsePagination(c *gin.Context) Pagination {
	page, pageSize := db.NormalizePage(
		parseQueryInt(c, "page", 1),
		parseQueryInt(c, "page_size", db.DefaultPageSize),
	)
	return Pagination{Page: page, PageSize: pageSize}
}

func parseQueryInt(c *gin.Context, key string, defaultVal int) int {
	if val := c.Query(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil && n >= 1 {
			return n
		}
	}
	return defaultVal
}

func TotalPages(total int64, pageSize int) int {
	if total == 0 || pageSize <= 0 {
		return 1
	}
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}
