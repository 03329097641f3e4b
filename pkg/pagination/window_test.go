package pagination

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pages builds an expected window; 0 stands for an ellipsis.
func pages(nums ...int) []Entry {
	out := make([]Entry, 0, len(nums))
	for _, n := range nums {
		if n == 0 {
			out = append(out, EllipsisEntry())
			continue
		}
		out = append(out, PageEntry(n))
	}
	return out
}

func TestComputeWindow(t *testing.T) {
	tests := []struct {
		name       string
		current    int
		total      int
		maxVisible int
		want       []Entry
	}{
		{"no pages", 1, 0, 5, pages()},
		{"single page", 1, 1, 5, pages(1)},
		{"all fit", 2, 4, 5, pages(1, 2, 3, 4)},
		{"exactly max", 5, 5, 5, pages(1, 2, 3, 4, 5)},
		{"first of ten", 1, 10, 5, pages(1, 2, 3, 4, 5, 0, 10)},
		{"last of ten", 10, 10, 5, pages(1, 0, 6, 7, 8, 9, 10)},
		{"middle of ten", 5, 10, 5, pages(1, 0, 3, 4, 5, 6, 7, 0, 10)},
		{"single skipped page at start has no ellipsis", 4, 10, 5, pages(1, 2, 3, 4, 5, 6, 0, 10)},
		{"single skipped page at end has no ellipsis", 7, 10, 5, pages(1, 0, 5, 6, 7, 8, 9, 10)},
		{"low clamp near start", 1, 6, 5, pages(1, 2, 3, 4, 5, 6)},
		{"high clamp near end", 6, 6, 5, pages(1, 2, 3, 4, 5, 6)},
		{"max visible one", 3, 5, 1, pages(1, 0, 3, 0, 5)},
		{"even max visible", 5, 10, 4, pages(1, 0, 3, 4, 5, 6, 0, 10)},
		{"even max visible at start", 1, 10, 4, pages(1, 2, 3, 4, 0, 10)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeWindow(tt.current, tt.total, tt.maxVisible)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestComputeWindow_InvalidInput(t *testing.T) {
	tests := []struct {
		name       string
		current    int
		total      int
		maxVisible int
	}{
		{"zero max visible", 1, 10, 0},
		{"negative total", 1, -1, 5},
		{"current above total", 11, 10, 5},
		{"current below one", 0, 10, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ComputeWindow(tt.current, tt.total, tt.maxVisible)
			assert.ErrorIs(t, err, ErrInvalidWindow)
		})
	}
}

func TestComputeWindow_Properties(t *testing.T) {
	for maxVisible := 1; maxVisible <= 8; maxVisible++ {
		for total := 0; total <= 40; total++ {
			for current := 1; current <= max(total, 1); current++ {
				got, err := ComputeWindow(current, total, maxVisible)
				require.NoError(t, err, "current=%d total=%d max=%d", current, total, maxVisible)

				assert.LessOrEqual(t, len(got), maxVisible+4)

				if total <= maxVisible {
					assert.Equal(t, total, len(got))
					for i, e := range got {
						assert.Equal(t, PageEntry(i+1), e)
					}
					continue
				}

				assert.Equal(t, PageEntry(1), got[0], "first entry must be page 1")
				assert.Equal(t, PageEntry(total), got[len(got)-1], "last entry must be the last page")
				assert.Contains(t, got, PageEntry(current), "window must contain the current page")

				prev := 0
				for i, e := range got {
					if e.Ellipsis {
						assert.False(t, i > 0 && got[i-1].Ellipsis, "adjacent ellipsis at %d", i)
						continue
					}
					assert.Greater(t, e.Page, prev, "pages must be strictly increasing")
					if i > 0 && !got[i-1].Ellipsis {
						assert.Equal(t, prev+1, e.Page, "gap without an ellipsis")
					}
					prev = e.Page
				}
			}
		}
	}
}

func TestEntry_JSON(t *testing.T) {
	data, err := json.Marshal(pages(1, 0, 6))
	require.NoError(t, err)
	assert.JSONEq(t, `[1, "...", 6]`, string(data))

	var decoded []Entry
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, pages(1, 0, 6), decoded)

	var bad Entry
	assert.Error(t, json.Unmarshal([]byte(`"x"`), &bad))
}

func TestEntry_String(t *testing.T) {
	assert.Equal(t, "7", PageEntry(7).String())
	assert.Equal(t, "...", EllipsisEntry().String())
}
