package citation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/crambrain/cram/internal/client/models"
)

func TestClampPage(t *testing.T) {
	tests := []struct {
		name      string
		page      int
		pageCount int
		want      int
	}{
		{"in range", 3, 10, 3},
		{"zero saturates to first page", 0, 10, 1},
		{"negative saturates to first page", -4, 10, 1},
		{"past the end saturates to last page", 11, 10, 10},
		{"exactly last page", 10, 10, 10},
		{"unknown page count floors only", 99, 0, 99},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClampPage(tt.page, tt.pageCount))
		})
	}
}

func TestNormalize(t *testing.T) {
	in := []models.Citation{
		{DocID: "d", Page: 0, Quote: "a"},
		{DocID: "d", Page: 5, Quote: "b"},
		{DocID: "d", Page: 42, Quote: "c"},
	}

	out := Normalize(in, 10)

	assert.Equal(t, []int{1, 5, 10}, []int{out[0].Page, out[1].Page, out[2].Page})
	assert.Equal(t, "c", out[2].Quote, "clamping keeps the rest of the record")
	assert.Equal(t, 0, in[0].Page, "input is not mutated")

	assert.Nil(t, Normalize(nil, 10))
}

func TestForPage_PreservesListOrder(t *testing.T) {
	cs := []models.Citation{
		{Page: 2, Quote: "first"},
		{Page: 1, Quote: "other"},
		{Page: 2, Quote: "second"},
	}

	got := ForPage(cs, 2)

	assert.Len(t, got, 2)
	assert.Equal(t, "first", got[0].Quote)
	assert.Equal(t, "second", got[1].Quote)

	assert.Empty(t, ForPage(cs, 9))
}
