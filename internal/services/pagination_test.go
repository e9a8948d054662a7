package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePage(t *testing.T) {
	assert.Equal(t, Page{Page: 1, PerPage: 10}, NormalizePage(0, 0))
	assert.Equal(t, Page{Page: 1, PerPage: 10}, NormalizePage(-3, -1))
	assert.Equal(t, Page{Page: 2, PerPage: 5}, NormalizePage(2, 5))
	assert.Equal(t, Page{Page: 1, PerPage: 100}, NormalizePage(1, 250))
}

func TestPageOffset(t *testing.T) {
	assert.Equal(t, 0, Page{Page: 1, PerPage: 10}.Offset())
	assert.Equal(t, 5, Page{Page: 2, PerPage: 5}.Offset())
	assert.Equal(t, 40, Page{Page: 5, PerPage: 10}.Offset())
}

func TestNewPagination(t *testing.T) {
	p := NewPagination(Page{Page: 2, PerPage: 10}, 23)
	assert.Equal(t, Pagination{Page: 2, PerPage: 10, Total: 23, TotalPages: 3, HasNext: true, HasPrev: true}, p)

	p = NewPagination(Page{Page: 3, PerPage: 10}, 23)
	assert.False(t, p.HasNext)
	assert.True(t, p.HasPrev)

	p = NewPagination(Page{Page: 1, PerPage: 10}, 0)
	assert.Equal(t, 0, p.TotalPages)
	assert.False(t, p.HasNext)
	assert.False(t, p.HasPrev)
}
