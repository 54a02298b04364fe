package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type paginationResponse struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

func newPagination(total int64, page, limit int) paginationResponse {
	pages := int((total + int64(limit) - 1) / int64(limit))
	return paginationResponse{Total: total, Page: page, Limit: limit, TotalPages: pages}
}

// pageParams parses and normalises the page/limit query parameters:
// page defaults to 1, limit defaults to 20 and is capped at 100.
func pageParams(c echo.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.QueryParam("page"))
	limit, _ = strconv.Atoi(c.QueryParam("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}
