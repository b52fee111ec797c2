package constants

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// Query Parameter Names
const (
	QueryParamPage  = "page"
	QueryParamLimit = "limit"
)

// Pagination Defaults
const (
	DefaultPage  = "1"
	DefaultLimit = "20"
	MinPage      = 1
	MinLimit     = 1
	MaxLimit     = 100
)

// PaginationParams holds parsed page/limit values for list endpoints.
type PaginationParams struct {
	Page   int
	Limit  int
	Offset int
}

// ParsePaginationParams parses page and limit query parameters with bounds.
func ParsePaginationParams(c *gin.Context) PaginationParams {
	pageStr := c.DefaultQuery(QueryParamPage, DefaultPage)
	limitStr := c.DefaultQuery(QueryParamLimit, DefaultLimit)

	page, _ := strconv.Atoi(pageStr)
	limit, _ := strconv.Atoi(limitStr)

	if page < MinPage {
		page = MinPage
	}
	if limit < MinLimit {
		limit = MinLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	return PaginationParams{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}
