package controllers

import "github.com/agora-forum/api-go/services"

type StandardResponse struct {
	Success    bool            `json:"success"`
	Data       interface{}     `json:"data,omitempty"`
	Meta       interface{}     `json:"meta,omitempty"`
	Pagination *PaginationMeta `json:"pagination,omitempty"`
	Message    string          `json:"message,omitempty"`
}

type PaginationMeta struct {
	CurrentPage int   `json:"currentPage"`
	PageSize    int   `json:"pageSize"`
	TotalItems  int64 `json:"totalItems"`
	TotalPages  int   `json:"totalPages"`
}

// newPagination reports a zero-based page as 1-based.
func newPagination(page int, total int64) *PaginationMeta {
	return &PaginationMeta{
		CurrentPage: page + 1,
		PageSize:    services.PageSize,
		TotalItems:  total,
		TotalPages:  services.TotalPages(total, services.PageSize),
	}
}
