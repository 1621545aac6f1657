package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPageRequest_Defaults(t *testing.T) {
	p := NewPageRequest(0, 0, PerPageReviews)

	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 10, p.PerPage)
	assert.Equal(t, 0, p.Offset())
}

func TestNewPageRequest_ClampsPerPage(t *testing.T) {
	p := NewPageRequest(3, 500, PerPageItems)

	assert.Equal(t, 3, p.Page)
	assert.Equal(t, MaxPerPage, p.PerPage)
	assert.Equal(t, 100, p.Offset())
	assert.Equal(t, 50, p.Limit())
}

func TestNewPagination(t *testing.T) {
	p := NewPagination(NewPageRequest(2, 10, PerPageReviews), 25)

	assert.Equal(t, int64(3), p.Pages)
	assert.True(t, p.HasNext)
	assert.True(t, p.HasPrev)

	empty := NewPagination(NewPageRequest(1, 10, PerPageReviews), 0)
	assert.Equal(t, int64(0), empty.Pages)
	assert.False(t, empty.HasNext)
	assert.False(t, empty.HasPrev)
}

func TestNewRatingDistribution_AlwaysHasFiveKeys(t *testing.T) {
	dist := NewRatingDistribution(map[int]int64{4: 1, 5: 1})

	assert.Len(t, dist, 5)
	assert.Equal(t, RatingDistribution{1: 0, 2: 0, 3: 0, 4: 1, 5: 1}, dist)
}

func TestRatingDimension_Keys(t *testing.T) {
	assert.Equal(t, "overallRating", DimensionOverall.CompactKey())
	assert.Equal(t, "overall_rating", DimensionOverall.VerboseKey())
	assert.Equal(t, "service_rating", DimensionService.VerboseKey())
}
