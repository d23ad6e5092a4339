package pagination

import (
	"fmt"
	"strconv"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// PageRequest is a one-based page of a newest-first listing.
type PageRequest struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

// NewPageRequest clamps page and pageSize into the accepted range.
func NewPageRequest(page, pageSize int) *PageRequest {
	if page <= 0 {
		page = DefaultPage
	}
	switch {
	case pageSize <= 0:
		pageSize = DefaultPageSize
	case pageSize > MaxPageSize:
		pageSize = MaxPageSize
	}
	return &PageRequest{Page: page, PageSize: pageSize}
}

// Parse builds a PageRequest from raw query values. It returns nil when both
// are empty, meaning the caller wants the whole listing.
func Parse(page, pageSize string) (*PageRequest, error) {
	if page == "" && pageSize == "" {
		return nil, nil
	}

	p, err := atoiOrZero(page)
	if err != nil {
		return nil, fmt.Errorf("invalid page: %q", page)
	}
	s, err := atoiOrZero(pageSize)
	if err != nil {
		return nil, fmt.Errorf("invalid page_size: %q", pageSize)
	}
	return NewPageRequest(p, s), nil
}

// Window returns the number of records to skip and the number to return.
// A nil request means no window at all.
func (p *PageRequest) Window() (offset, limit int) {
	if p == nil {
		return 0, 0
	}
	return (p.Page - 1) * p.PageSize, p.PageSize
}

func atoiOrZero(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}
