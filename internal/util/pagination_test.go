package util

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculate(t *testing.T) {
	cases := []struct {
		page, size, from, limit int
	}{
		{1, 10, 0, 10},
		{3, 5, 10, 5},
		{0, 0, 0, DefaultPageSize},
		{-2, 500, 0, DefaultPageSize},
		{2, MaxPageSize, MaxPageSize, MaxPageSize},
	}
	for _, tc := range cases {
		from, limit := Calculate(tc.page, tc.size)
		assert.Equal(t, tc.from, from, "page=%d size=%d", tc.page, tc.size)
		assert.Equal(t, tc.limit, limit, "page=%d size=%d", tc.page, tc.size)
	}
}

func TestPage(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	assert.Equal(t, []int{1, 2}, Page(items, 1, 2))
	assert.Equal(t, []int{5}, Page(items, 3, 2))
	assert.Equal(t, []int{}, Page(items, 4, 2))
	assert.Equal(t, []int{}, Page([]int(nil), 1, 2))
}

func TestPage_HugePageNumber(t *testing.T) {
	items := []int{1, 2, 3}
	for _, page := range []int{math.MaxInt, math.MaxInt/DefaultPageSize + 2, math.MaxInt / 2} {
		assert.NotPanics(t, func() {
			assert.Equal(t, []int{}, Page(items, page, DefaultPageSize))
		}, "page=%d", page)
	}

	from, limit := Calculate(math.MaxInt, MaxPageSize)
	assert.Equal(t, MaxPageSize, limit)
	assert.Equal(t, math.MaxInt-MaxPageSize, from)
}
