package http

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePageNumber(t *testing.T) {
	tests := []struct {
		raw     string
		want    int
		wantErr bool
	}{
		{"", 1, false},
		{"1", 1, false},
		{"7", 7, false},
		{"last", 0, true},
		{"0", 0, true},
		{"-2", 0, true},
		{"abc", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := parsePageNumber(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPage)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewPage(t *testing.T) {
	t.Run("middle page", func(t *testing.T) {
		page, err := newPage(2, 5, 12)
		require.NoError(t, err)
		assert.Equal(t, Page{
			Number: 2, NumPages: 3, PreviousPage: 1, NextPage: 3,
			Count: 12, HasPrevious: true, HasNext: true,
		}, page)
	})

	t.Run("last page", func(t *testing.T) {
		page, err := newPage(3, 5, 12)
		require.NoError(t, err)
		assert.True(t, page.HasPrevious)
		assert.False(t, page.HasNext)
	})

	t.Run("empty list has one page", func(t *testing.T) {
		page, err := newPage(1, 5, 0)
		require.NoError(t, err)
		assert.Equal(t, 1, page.NumPages)
		assert.False(t, page.HasPrevious)
		assert.False(t, page.HasNext)
	})

	t.Run("out of range", func(t *testing.T) {
		_, err := newPage(4, 5, 12)
		assert.ErrorIs(t, err, ErrInvalidPage)

		_, err = newPage(2, 5, 0)
		assert.ErrorIs(t, err, ErrInvalidPage)
	})

	t.Run("exact multiple", func(t *testing.T) {
		page, err := newPage(2, 5, 10)
		require.NoError(t, err)
		assert.Equal(t, 2, page.NumPages)
		assert.False(t, page.HasNext)
	})
}
