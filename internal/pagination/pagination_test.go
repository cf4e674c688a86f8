package pagination

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func intp(v int) *int { return &v }

func TestResolve(t *testing.T) {
	r := NewResolver(Config{Page: 1, PerPage: 15, MaxPerPage: 100})

	tests := []struct {
		name    string
		page    *int
		perPage *int
		want    PageRequest
	}{
		{name: "missing", want: PageRequest{Page: 1, PerPage: 15}},
		{name: "zero", page: intp(0), perPage: intp(0), want: PageRequest{Page: 1, PerPage: 15}},
		{name: "negative", page: intp(-3), perPage: intp(-10), want: PageRequest{Page: 1, PerPage: 15}},
		{name: "explicit", page: intp(3), perPage: intp(20), want: PageRequest{Page: 3, PerPage: 20}},
		{name: "clamped", page: intp(2), perPage: intp(5000), want: PageRequest{Page: 2, PerPage: 100}},
		{name: "only-page", page: intp(4), want: PageRequest{Page: 4, PerPage: 15}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Resolve(tt.page, tt.perPage))
		})
	}
}

func TestNewResolverDefaults(t *testing.T) {
	r := NewResolver(Config{})
	assert.Equal(t, Config{Page: 1, PerPage: 15, MaxPerPage: 100}, r.cfg)

	r = NewResolver(Config{Page: 1, PerPage: 50, MaxPerPage: 20})
	assert.Equal(t, 20, r.cfg.PerPage)
}

func TestPageRequestBounds(t *testing.T) {
	p := PageRequest{Page: 3, PerPage: 15}
	assert.Equal(t, uint64(30), p.Offset())
	assert.Equal(t, uint64(15), p.Limit())

	assert.Equal(t, 1, p.LastPage(0))
	assert.Equal(t, 1, p.LastPage(15))
	assert.Equal(t, 2, p.LastPage(16))
	assert.Equal(t, 7, p.LastPage(100))
}

func TestResolveCapsPageToBigintOffset(t *testing.T) {
	r := NewResolver(Config{Page: 1, PerPage: 15, MaxPerPage: 100})

	tests := []struct {
		name    string
		page    int
		perPage int
	}{
		{name: "max-int", page: math.MaxInt, perPage: 100},
		{name: "huge", page: 100000000000000000, perPage: 100},
		{name: "max-int-default-per-page", page: math.MaxInt, perPage: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Resolve(intp(tt.page), intp(tt.perPage))
			assert.Positive(t, got.Page)
			assert.LessOrEqual(t, got.Offset(), uint64(math.MaxInt64))
			assert.Equal(t, math.MaxInt64/int64(got.PerPage), int64(got.Page))
		})
	}
}

func TestResolveKeepsLargeSafePage(t *testing.T) {
	r := NewResolver(Config{})
	got := r.Resolve(intp(1000000), intp(100))
	assert.Equal(t, PageRequest{Page: 1000000, PerPage: 100}, got)
	assert.Equal(t, uint64(99999900), got.Offset())
}
