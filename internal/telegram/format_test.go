package telegram

import (
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"

	"household-shopping/internal/catalog"
	"household-shopping/internal/metrics"
	"household-shopping/internal/shopping"
	"household-shopping/internal/templates"
)

func newGoldie(t *testing.T) *goldie.Goldie {
	return goldie.New(t, goldie.WithFixtureDir("testdata/golden"), goldie.WithNameSuffix(".golden"))
}

func sampleDetailedList() *shopping.DetailedList {
	items := []shopping.Item{
		{ProductID: "p-milk", Quantity: 1500, Notes: "semi-skimmed", Checked: true},
		{ProductID: "p-bread", Quantity: 2},
		{ProductID: "p-gone", Quantity: 3},
	}
	return &shopping.DetailedList{
		List: shopping.ShoppingList{ID: "l-1", Name: "Weekly_shop", Status: shopping.StatusReady, Items: items},
		Items: []shopping.DetailedItem{
			{Item: items[0], Product: &catalog.Product{ID: "p-milk", Name: "Milk", Unit: catalog.UnitMilliliters}},
			{Item: items[1], Product: &catalog.Product{ID: "p-bread", Name: "Bread", Unit: catalog.UnitPiece}},
			{Item: items[2]},
		},
	}
}

func TestFormatChecklist(t *testing.T) {
	newGoldie(t).Assert(t, "checklist", []byte(FormatChecklist(sampleDetailedList())))
}

func TestFormatChecklist_Empty(t *testing.T) {
	out := FormatChecklist(&shopping.DetailedList{List: shopping.ShoppingList{Name: "Empty", Status: shopping.StatusDraft}})
	assert.Contains(t, out, "0/0 checked")
	assert.Contains(t, out, "_No items_")
}

func TestChecklistKeyboard(t *testing.T) {
	kb := ChecklistKeyboard(sampleDetailedList())
	if assert.Len(t, kb.InlineKeyboard, 3) {
		first := kb.InlineKeyboard[0][0]
		assert.Equal(t, "✅ Milk", first.Text)
		if assert.NotNil(t, first.CallbackData) {
			assert.Equal(t, "check|p-milk", *first.CallbackData)
		}
		assert.Equal(t, "⬜ Unknown product (p-gone)", kb.InlineKeyboard[2][0].Text)
	}
}

func TestFormatLists(t *testing.T) {
	lists := []shopping.ShoppingList{
		{ID: "l-1", Name: "Groceries", Status: shopping.StatusDraft, Items: []shopping.Item{{ProductID: "a"}, {ProductID: "b"}}},
		{ID: "l-2", Name: "Party", Status: shopping.StatusCompleted, Items: []shopping.Item{{ProductID: "a", Checked: true}}},
	}
	newGoldie(t).Assert(t, "lists", []byte(FormatLists(lists)))

	assert.Contains(t, FormatLists(nil), "_No lists yet_")
}

func TestFormatTemplates(t *testing.T) {
	out := FormatTemplates([]templates.Template{
		{ID: "t-1", Name: "Pancakes", Type: templates.TypeMeal, Products: []templates.Entry{{ProductID: "a"}, {ProductID: "b"}}},
	})
	assert.True(t, strings.HasPrefix(out, "📚 *Your templates*"))
	assert.Contains(t, out, "• *Pancakes* (meal, 2 products)")
	assert.Contains(t, out, "`t-1`")
	assert.Contains(t, FormatTemplates(nil), "_No templates yet_")
}

func TestFormatMetricsReport(t *testing.T) {
	usage := []metrics.DailyUsage{{Date: "2025-03-02", Total: 12, Errors: 1, AvgLatencyMS: 3.5}}
	ops := []metrics.OperationSummary{
		{Operation: "GET /api/lists", Total: 10},
		{Operation: "tg /shop", Total: 2},
	}
	health := metrics.Health{HeapMB: 5, ReservedMB: 20, Goroutines: 8, Database: "1.2 MB"}
	newGoldie(t).Assert(t, "metrics_report", []byte(FormatMetricsReport(usage, ops, health)))
}

func TestFormatMetricsReport_NoData(t *testing.T) {
	out := FormatMetricsReport(nil, nil, metrics.Health{})
	assert.Contains(t, out, "_No data yet_")
	assert.NotContains(t, out, "Top Operations")
}

func TestEscape(t *testing.T) {
	assert.Equal(t, `a\_b\*c\`+"`"+`d\[e]`, escape("a_b*c`d[e]"))
}
