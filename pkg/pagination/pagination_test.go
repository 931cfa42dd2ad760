package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewClampsValues(t *testing.T) {
	tests := []struct {
		name        string
		page, limit int
		want        Params
	}{
		{"defaults for zero values", 0, 0, Params{Page: 1, Limit: 20, Offset: 0}},
		{"negative page resets", -3, 10, Params{Page: 1, Limit: 10, Offset: 0}},
		{"limit capped at max", 2, 500, Params{Page: 2, Limit: 100, Offset: 100}},
		{"offset follows page", 3, 25, Params{Page: 3, Limit: 25, Offset: 50}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, New(tt.page, tt.limit))
		})
	}
}

func TestPages(t *testing.T) {
	p := Params{Limit: 20}

	assert.Equal(t, int64(0), p.Pages(0))
	assert.Equal(t, int64(1), p.Pages(1))
	assert.Equal(t, int64(1), p.Pages(20))
	assert.Equal(t, int64(2), p.Pages(21))
	assert.Equal(t, int64(5), p.Pages(100))

	assert.Equal(t, int64(0), Params{}.Pages(40))
}
