package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPageRequest(t *testing.T) {
	tests := []struct {
		name           string
		page, size     int
		wantPage, want int
	}{
		{"defaults", 0, 0, DefaultPage, DefaultPageSize},
		{"negative", -3, -1, DefaultPage, DefaultPageSize},
		{"capped", 2, 500, 2, MaxPageSize},
		{"kept", 4, 15, 4, 15},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPageRequest(tt.page, tt.size)
			assert.Equal(t, tt.wantPage, p.Page)
			assert.Equal(t, tt.want, p.PageSize)
		})
	}
}

func TestParse(t *testing.T) {
	p, err := Parse("", "")
	require.NoError(t, err)
	assert.Nil(t, p)

	p, err = Parse("3", "")
	require.NoError(t, err)
	assert.Equal(t, &PageRequest{Page: 3, PageSize: DefaultPageSize}, p)

	_, err = Parse("x", "10")
	assert.EqualError(t, err, `invalid page: "x"`)

	_, err = Parse("1", "ten")
	assert.EqualError(t, err, `invalid page_size: "ten"`)
}

func TestWindow(t *testing.T) {
	offset, limit := NewPageRequest(3, 10).Window()
	assert.Equal(t, 20, offset)
	assert.Equal(t, 10, limit)

	var none *PageRequest
	offset, limit = none.Window()
	assert.Zero(t, offset)
	assert.Zero(t, limit)
}
