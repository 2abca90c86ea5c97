package shopping

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"household-shopping/internal/templates"
)

func TestDerive_ScalesQuantities(t *testing.T) {
	tpl := &templates.Template{Products: []templates.Entry{
		{ProductID: "p1", Quantity: 2},
		{ProductID: "p2", Quantity: 3},
	}}

	got := Derive(tpl, 2)

	assert.Equal(t, []Item{
		{ProductID: "p1", Quantity: 4},
		{ProductID: "p2", Quantity: 6},
	}, got)
	for _, it := range got {
		assert.False(t, it.Checked)
		assert.Empty(t, it.Notes)
	}
}

func TestDerive_FractionalMultiplier(t *testing.T) {
	tpl := &templates.Template{Products: []templates.Entry{{ProductID: "flour", Quantity: 500}}}
	assert.Equal(t, []Item{{ProductID: "flour", Quantity: 250}}, Derive(tpl, 0.5))
}

func TestDerive_CollapsesRepeatedProducts(t *testing.T) {
	tpl := &templates.Template{Products: []templates.Entry{
		{ProductID: "p1", Quantity: 1},
		{ProductID: "p2", Quantity: 1},
		{ProductID: "p1", Quantity: 2},
	}}

	assert.Equal(t, []Item{
		{ProductID: "p1", Quantity: 6},
		{ProductID: "p2", Quantity: 2},
	}, Derive(tpl, 2))
}

func TestMerge(t *testing.T) {
	tests := []struct {
		name     string
		existing []Item
		incoming []Item
		want     []Item
	}{
		{
			name:     "distinct products append in order",
			existing: []Item{{ProductID: "a", Quantity: 1}, {ProductID: "b", Quantity: 2}},
			incoming: []Item{{ProductID: "c", Quantity: 3}, {ProductID: "d", Quantity: 4}},
			want: []Item{
				{ProductID: "a", Quantity: 1},
				{ProductID: "b", Quantity: 2},
				{ProductID: "c", Quantity: 3},
				{ProductID: "d", Quantity: 4},
			},
		},
		{
			name:     "overlap sums in place",
			existing: []Item{{ProductID: "p1", Quantity: 3, Notes: "organic", Checked: true}},
			incoming: []Item{{ProductID: "p1", Quantity: 5}},
			want:     []Item{{ProductID: "p1", Quantity: 8, Notes: "organic", Checked: true}},
		},
		{
			name:     "mixed",
			existing: []Item{{ProductID: "a", Quantity: 1}, {ProductID: "b", Quantity: 1}},
			incoming: []Item{{ProductID: "c", Quantity: 1}, {ProductID: "a", Quantity: 2}},
			want: []Item{
				{ProductID: "a", Quantity: 3},
				{ProductID: "b", Quantity: 1},
				{ProductID: "c", Quantity: 1},
			},
		},
		{
			name:     "into empty",
			incoming: []Item{{ProductID: "a", Quantity: 1}},
			want:     []Item{{ProductID: "a", Quantity: 1}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Merge(tt.existing, tt.incoming)
			assert.Equal(t, tt.want, got)
			assert.Len(t, got, len(tt.want))
		})
	}
}

func TestMerge_DoesNotModifyInputs(t *testing.T) {
	existing := []Item{{ProductID: "p1", Quantity: 3}}
	incoming := []Item{{ProductID: "p1", Quantity: 5}, {ProductID: "p2", Quantity: 1}}

	_ = Merge(existing, incoming)

	assert.Equal(t, []Item{{ProductID: "p1", Quantity: 3}}, existing)
	assert.Equal(t, []Item{{ProductID: "p1", Quantity: 5}, {ProductID: "p2", Quantity: 1}}, incoming)
}

func TestNormalizeItems(t *testing.T) {
	_, err := normalizeItems([]Item{{ProductID: "a", Quantity: 1}, {ProductID: "a", Quantity: 2}})
	assert.Error(t, err)

	_, err = normalizeItems([]Item{{ProductID: "a", Quantity: 0}})
	assert.Error(t, err)

	got, err := normalizeItems([]Item{{ProductID: " a ", Quantity: 1, Notes: " ripe "}})
	assert.NoError(t, err)
	assert.Equal(t, []Item{{ProductID: "a", Quantity: 1, Notes: "ripe"}}, got)
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to Status
		want     bool
	}{
		{StatusDraft, StatusReady, true},
		{StatusReady, StatusDraft, true},
		{StatusReady, StatusCompleted, true},
		{StatusDraft, StatusCompleted, false},
		{StatusCompleted, StatusReady, false},
		{StatusCompleted, StatusDraft, false},
		{StatusCompleted, StatusCompleted, true},
		{StatusDraft, StatusDraft, true},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}
