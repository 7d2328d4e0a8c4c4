package model

import (
	"time"

	"github.com/google/uuid"
)

// Base contains common fields for all models
type Base struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

// Pagination represents common pagination parameters
type Pagination struct {
	Page    int `json:"page" form:"page"`
	PerPage int `json:"per_page" form:"per_page"`
}

func (p *Pagination) Normalize(maxPerPage int) {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PerPage < 1 {
		p.PerPage = 20
	}
	if maxPerPage > 0 && p.PerPage > maxPerPage {
		p.PerPage = maxPerPage
	}
}

func (p *Pagination) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// Page cuts a slice that was filtered in memory down to the requested page.
func Page[T any](items []T, p Pagination) []T {
	start := p.Offset()
	if start >= len(items) {
		return nil
	}
	end := start + p.PerPage
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// PageInfo is the pagination block returned alongside list payloads.
type PageInfo struct {
	Page    int  `json:"page"`
	Pages   int  `json:"pages"`
	PerPage int  `json:"per_page"`
	Total   int  `json:"total"`
	HasNext bool `json:"has_next"`
	HasPrev bool `json:"has_prev"`
}

func NewPageInfo(p Pagination, total int) PageInfo {
	pages := total / p.PerPage
	if total%p.PerPage != 0 {
		pages++
	}
	return PageInfo{
		Page:    p.Page,
		Pages:   pages,
		PerPage: p.PerPage,
		Total:   total,
		HasNext: p.Page < pages,
		HasPrev: p.Page > 1,
	}
}
