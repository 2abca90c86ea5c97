package shopping_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"household-shopping/internal/apperr"
	"household-shopping/internal/catalog"
	"household-shopping/internal/clock"
	"household-shopping/internal/database/dbtest"
	"household-shopping/internal/identity"
	"household-shopping/internal/shopping"
	"household-shopping/internal/templates"
)

type fixture struct {
	engine    *shopping.Engine
	templates *templates.Service
	catalog   *catalog.Catalog
	clock     *clock.Fake
	milk      *catalog.Product
	bread     *catalog.Product
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := dbtest.Open(t)
	clk := clock.NewFake(time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC))
	cat := catalog.NewCatalog(catalog.NewRepository(db))
	tpl := templates.NewService(templates.NewRepository(db), identity.ContextProvider{}, templates.WithClock(clk))
	eng := shopping.NewEngine(shopping.NewRepository(db), tpl, cat, identity.ContextProvider{}, shopping.WithClock(clk))

	ctx := context.Background()
	milk, err := cat.AddProduct(ctx, "Milk", catalog.UnitMilliliters)
	require.NoError(t, err)
	bread, err := cat.AddProduct(ctx, "Bread", catalog.UnitPiece)
	require.NoError(t, err)

	return &fixture{engine: eng, templates: tpl, catalog: cat, clock: clk, milk: milk, bread: bread}
}

func as(user string) context.Context {
	return identity.WithUserID(context.Background(), user)
}

func (f *fixture) twoItemList(t *testing.T, ctx context.Context) *shopping.ShoppingList {
	t.Helper()
	l, err := f.engine.CreateList(ctx, "Groceries", []shopping.Item{
		{ProductID: f.milk.ID, Quantity: 1},
		{ProductID: f.bread.ID, Quantity: 2},
	})
	require.NoError(t, err)
	return l
}

func TestCreateList(t *testing.T) {
	f := newFixture(t)
	ctx := as("alice")

	l := f.twoItemList(t, ctx)
	assert.Equal(t, shopping.StatusDraft, l.Status)
	assert.Equal(t, "alice", l.OwnerID)
	assert.Equal(t, int64(1), l.Version)
	assert.Equal(t, l.CreatedAt, l.UpdatedAt)

	got, err := f.engine.GetByID(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, l, got)
}

func TestCreateList_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := as("alice")

	tests := []struct {
		name  string
		title string
		items []shopping.Item
	}{
		{"empty name", " ", []shopping.Item{{ProductID: "a", Quantity: 1}}},
		{"no items", "List", nil},
		{"zero quantity", "List", []shopping.Item{{ProductID: "a", Quantity: 0}}},
		{"duplicate product", "List", []shopping.Item{{ProductID: "a", Quantity: 1}, {ProductID: "a", Quantity: 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.engine.CreateList(ctx, tt.title, tt.items)
			assert.True(t, apperr.IsValidation(err), "got %v", err)
		})
	}

	_, err := f.engine.CreateList(context.Background(), "List", []shopping.Item{{ProductID: "a", Quantity: 1}})
	assert.True(t, apperr.IsUnauthenticated(err))
}

func TestOwnershipIsolation(t *testing.T) {
	f := newFixture(t)
	alice, bob := as("alice"), as("bob")
	l := f.twoItemList(t, alice)

	_, err := f.engine.GetByID(bob, l.ID)
	assert.True(t, apperr.IsForbidden(err))
	_, err = f.engine.GetWithProductDetails(bob, l.ID)
	assert.True(t, apperr.IsForbidden(err))
	_, err = f.engine.MarkReady(bob, l.ID)
	assert.True(t, apperr.IsForbidden(err))
	_, err = f.engine.SetItemChecked(bob, l.ID, f.milk.ID, true)
	assert.True(t, apperr.IsForbidden(err))
	_, err = f.engine.UpdateList(bob, l.ID, shopping.Patch{Name: ptr("mine now")})
	assert.True(t, apperr.IsForbidden(err))
	assert.True(t, apperr.IsForbidden(f.engine.DeleteList(bob, l.ID)))

	mine, err := f.engine.ListMine(bob)
	require.NoError(t, err)
	assert.Empty(t, mine)

	mine, err = f.engine.ListMine(alice)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, *l, mine[0], "failed attempts leave the list untouched")
}

func TestStatusRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := as("alice")
	l := f.twoItemList(t, ctx)

	ready, err := f.engine.MarkReady(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, shopping.StatusReady, ready.Status)
	assert.Greater(t, ready.UpdatedAt, l.UpdatedAt)

	draft, err := f.engine.MarkDraft(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, shopping.StatusDraft, draft.Status)
	assert.Greater(t, draft.UpdatedAt, ready.UpdatedAt)

	f.clock.Advance(time.Hour)
	ready, err = f.engine.SetStatus(ctx, l.ID, shopping.StatusReady)
	require.NoError(t, err)
	assert.Greater(t, ready.UpdatedAt, draft.UpdatedAt)
	assert.Equal(t, int64(4), ready.Version)
}

func TestSetStatus_Guarded(t *testing.T) {
	f := newFixture(t)
	ctx := as("alice")
	l := f.twoItemList(t, ctx)

	_, err := f.engine.MarkCompleted(ctx, l.ID)
	assert.True(t, apperr.IsConflict(err), "draft cannot complete directly")

	same, err := f.engine.MarkDraft(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, l.UpdatedAt, same.UpdatedAt, "no-op does not write")
	assert.Equal(t, l.Version, same.Version)

	_, err = f.engine.MarkReady(ctx, l.ID)
	require.NoError(t, err)
	_, err = f.engine.MarkCompleted(ctx, l.ID)
	require.NoError(t, err)

	_, err = f.engine.MarkDraft(ctx, l.ID)
	assert.True(t, apperr.IsConflict(err), "completed is terminal")
	_, err = f.engine.MarkReady(ctx, l.ID)
	assert.True(t, apperr.IsConflict(err))

	_, err = f.engine.SetStatus(ctx, l.ID, shopping.Status("archived"))
	assert.True(t, apperr.IsValidation(err))

	_, err = f.engine.MarkReady(ctx, "missing")
	assert.True(t, apperr.IsNotFound(err))
}

func TestSetItemChecked(t *testing.T) {
	f := newFixture(t)
	ctx := as("alice")
	l := f.twoItemList(t, ctx)

	checked, err := f.engine.SetItemChecked(ctx, l.ID, f.milk.ID, true)
	require.NoError(t, err)
	assert.Equal(t, []shopping.Item{
		{ProductID: f.milk.ID, Quantity: 1, Checked: true},
		{ProductID: f.bread.ID, Quantity: 2},
	}, checked.Items)
	assert.Greater(t, checked.UpdatedAt, l.UpdatedAt)

	restored, err := f.engine.SetItemChecked(ctx, l.ID, f.milk.ID, false)
	require.NoError(t, err)
	assert.Equal(t, l.Items, restored.Items)

	_, err = f.engine.SetItemChecked(ctx, l.ID, "unknown", true)
	assert.True(t, apperr.IsNotFound(err))
}

func TestToggleItemChecked(t *testing.T) {
	f := newFixture(t)
	ctx := as("alice")
	l := f.twoItemList(t, ctx)

	first, err := f.engine.ToggleItemChecked(ctx, l.ID, f.milk.ID)
	require.NoError(t, err)
	item, _ := first.Item(f.milk.ID)
	assert.True(t, item.Checked)
	assert.Equal(t, l.Version+1, first.Version)

	second, err := f.engine.ToggleItemChecked(ctx, l.ID, f.milk.ID)
	require.NoError(t, err)
	item, _ = second.Item(f.milk.ID)
	assert.False(t, item.Checked)

	_, err = f.engine.ToggleItemChecked(as("bob"), l.ID, f.milk.ID)
	assert.True(t, apperr.IsForbidden(err))
	_, err = f.engine.ToggleItemChecked(ctx, l.ID, "unknown")
	assert.True(t, apperr.IsNotFound(err))
}

func TestAnonymousCallerIsRejectedBeforeValidation(t *testing.T) {
	f := newFixture(t)
	anon := context.Background()
	empty := ""
	zero := 0.0

	tests := []struct {
		name string
		call func() error
	}{
		{"UpdateList empty patch", func() error {
			_, err := f.engine.UpdateList(anon, "any", shopping.Patch{})
			return err
		}},
		{"UpdateList blank name", func() error {
			_, err := f.engine.UpdateList(anon, "any", shopping.Patch{Name: &empty})
			return err
		}},
		{"SetStatus unknown status", func() error {
			_, err := f.engine.SetStatus(anon, "any", shopping.Status("lost"))
			return err
		}},
		{"AddItem zero quantity", func() error {
			_, err := f.engine.AddItem(anon, "any", shopping.Item{ProductID: f.milk.ID})
			return err
		}},
		{"UpdateItem nothing to update", func() error {
			_, err := f.engine.UpdateItem(anon, "any", f.milk.ID, shopping.ItemUpdate{})
			return err
		}},
		{"UpdateItem zero quantity", func() error {
			_, err := f.engine.UpdateItem(anon, "any", f.milk.ID, shopping.ItemUpdate{Quantity: &zero})
			return err
		}},
		{"ToggleItemChecked", func() error {
			_, err := f.engine.ToggleItemChecked(anon, "any", f.milk.ID)
			return err
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			require.Error(t, err)
			assert.True(t, apperr.IsUnauthenticated(err), "got %v", err)
		})
	}
}

func TestItemCommands(t *testing.T) {
	f := newFixture(t)
	ctx := as("alice")
	l := f.twoItemList(t, ctx)

	l, err := f.engine.AddItem(ctx, l.ID, shopping.Item{ProductID: f.milk.ID, Quantity: 2})
	require.NoError(t, err)
	it, ok := l.Item(f.milk.ID)
	require.True(t, ok)
	assert.Equal(t, 3.0, it.Quantity)
	assert.Len(t, l.Items, 2)

	l, err = f.engine.AddItem(ctx, l.ID, shopping.Item{ProductID: "eggs", Quantity: 6, Notes: "free range"})
	require.NoError(t, err)
	require.Len(t, l.Items, 3)
	assert.Equal(t, "eggs", l.Items[2].ProductID)

	l, err = f.engine.UpdateItem(ctx, l.ID, "eggs", shopping.ItemUpdate{Quantity: ptr(12.0), Notes: ptr("large")})
	require.NoError(t, err)
	it, _ = l.Item("eggs")
	assert.Equal(t, shopping.Item{ProductID: "eggs", Quantity: 12, Notes: "large"}, it)

	_, err = f.engine.UpdateItem(ctx, l.ID, "eggs", shopping.ItemUpdate{Quantity: ptr(-1.0)})
	assert.True(t, apperr.IsValidation(err))
	_, err = f.engine.UpdateItem(ctx, l.ID, "eggs", shopping.ItemUpdate{})
	assert.True(t, apperr.IsValidation(err))

	l, err = f.engine.RemoveItem(ctx, l.ID, f.milk.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{f.bread.ID, "eggs"}, productIDs(l))

	_, err = f.engine.RemoveItem(ctx, l.ID, f.milk.ID)
	assert.True(t, apperr.IsNotFound(err))
}

func TestCompletedListIsFrozen(t *testing.T) {
	f := newFixture(t)
	ctx := as("alice")
	l := f.twoItemList(t, ctx)
	_, err := f.engine.MarkReady(ctx, l.ID)
	require.NoError(t, err)
	done, err := f.engine.MarkCompleted(ctx, l.ID)
	require.NoError(t, err)

	_, err = f.engine.SetItemChecked(ctx, l.ID, f.milk.ID, true)
	assert.True(t, apperr.IsConflict(err))
	_, err = f.engine.AddItem(ctx, l.ID, shopping.Item{ProductID: "eggs", Quantity: 1})
	assert.True(t, apperr.IsConflict(err))
	_, err = f.engine.RemoveItem(ctx, l.ID, f.milk.ID)
	assert.True(t, apperr.IsConflict(err))
	_, err = f.engine.UpdateList(ctx, l.ID, shopping.Patch{Items: &[]shopping.Item{}})
	assert.True(t, apperr.IsConflict(err))

	renamed, err := f.engine.UpdateList(ctx, l.ID, shopping.Patch{Name: ptr("Archive")})
	require.NoError(t, err)
	assert.Equal(t, done.Items, renamed.Items)

	require.NoError(t, f.engine.DeleteList(ctx, l.ID), "completed lists can still be deleted")
}

func TestUpdateList(t *testing.T) {
	f := newFixture(t)
	ctx := as("alice")
	l := f.twoItemList(t, ctx)

	status := shopping.StatusReady
	items := []shopping.Item{{ProductID: f.bread.ID, Quantity: 1, Notes: "sliced"}}
	updated, err := f.engine.UpdateList(ctx, l.ID, shopping.Patch{
		Name:            ptr("Weekend"),
		Status:          &status,
		Items:           &items,
		ExpectedVersion: l.Version,
	})
	require.NoError(t, err)
	assert.Equal(t, "Weekend", updated.Name)
	assert.Equal(t, shopping.StatusReady, updated.Status)
	assert.Equal(t, items, updated.Items)
	assert.Equal(t, l.Version+1, updated.Version)

	t.Run("stale version", func(t *testing.T) {
		_, err := f.engine.UpdateList(ctx, l.ID, shopping.Patch{Name: ptr("Stale"), ExpectedVersion: l.Version})
		assert.True(t, apperr.IsConflict(err))

		got, err := f.engine.GetByID(ctx, l.ID)
		require.NoError(t, err)
		assert.Equal(t, "Weekend", got.Name)
	})

	t.Run("illegal transition", func(t *testing.T) {
		draft := shopping.StatusDraft
		_, err := f.engine.UpdateList(ctx, l.ID, shopping.Patch{Status: &draft})
		require.NoError(t, err)
		completed := shopping.StatusCompleted
		_, err = f.engine.UpdateList(ctx, l.ID, shopping.Patch{Status: &completed})
		assert.True(t, apperr.IsConflict(err))
	})

	t.Run("validation", func(t *testing.T) {
		_, err := f.engine.UpdateList(ctx, l.ID, shopping.Patch{})
		assert.True(t, apperr.IsValidation(err))
		_, err = f.engine.UpdateList(ctx, l.ID, shopping.Patch{Name: ptr("")})
		assert.True(t, apperr.IsValidation(err))
		dup := []shopping.Item{{ProductID: "x", Quantity: 1}, {ProductID: "x", Quantity: 1}}
		_, err = f.engine.UpdateList(ctx, l.ID, shopping.Patch{Items: &dup})
		assert.True(t, apperr.IsValidation(err))
	})

	t.Run("items may be emptied", func(t *testing.T) {
		empty := []shopping.Item{}
		got, err := f.engine.UpdateList(ctx, l.ID, shopping.Patch{Items: &empty})
		require.NoError(t, err)
		assert.Empty(t, got.Items)
	})
}

func TestAddTemplate(t *testing.T) {
	f := newFixture(t)
	ctx := as("alice")
	tpl, err := f.templates.CreateTemplate(ctx, templates.Input{
		Name: "Toast",
		Type: "set",
		Products: []templates.Entry{
			{ProductID: f.bread.ID, Quantity: 5},
			{ProductID: "butter", Quantity: 1},
		},
	})
	require.NoError(t, err)
	l, err := f.engine.CreateList(ctx, "Groceries", []shopping.Item{
		{ProductID: f.bread.ID, Quantity: 3},
		{ProductID: f.milk.ID, Quantity: 1},
	})
	require.NoError(t, err)

	merged, err := f.engine.AddTemplate(ctx, l.ID, tpl.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, []shopping.Item{
		{ProductID: f.bread.ID, Quantity: 8},
		{ProductID: f.milk.ID, Quantity: 1},
		{ProductID: "butter", Quantity: 1},
	}, merged.Items)

	_, err = f.engine.AddTemplate(ctx, l.ID, tpl.ID, 0)
	assert.True(t, apperr.IsValidation(err))

	_, err = f.engine.AddTemplate(as("bob"), l.ID, tpl.ID, 1)
	assert.True(t, apperr.IsForbidden(err), "bob cannot use alice's template")

	_, err = f.engine.MarkReady(ctx, l.ID)
	require.NoError(t, err)
	_, err = f.engine.AddTemplate(ctx, l.ID, tpl.ID, 1)
	assert.True(t, apperr.IsConflict(err), "only drafts accept templates")
}

func TestGetWithProductDetails_DanglingProduct(t *testing.T) {
	f := newFixture(t)
	ctx := as("alice")
	l := f.twoItemList(t, ctx)

	require.NoError(t, f.catalog.RemoveProduct(context.Background(), f.bread.ID))

	detailed, err := f.engine.GetWithProductDetails(ctx, l.ID)
	require.NoError(t, err)
	require.Len(t, detailed.Items, 2)
	require.NotNil(t, detailed.Items[0].Product)
	assert.Equal(t, "Milk", detailed.Items[0].Product.Name)
	assert.Nil(t, detailed.Items[1].Product)
	assert.Equal(t, f.bread.ID, detailed.Items[1].ProductID)
}

func TestListByStatus(t *testing.T) {
	f := newFixture(t)
	ctx := as("alice")
	a := f.twoItemList(t, ctx)
	f.clock.Advance(time.Second)
	b := f.twoItemList(t, ctx)
	_, err := f.engine.MarkReady(ctx, b.ID)
	require.NoError(t, err)

	drafts, err := f.engine.ListByStatus(ctx, shopping.StatusDraft)
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, a.ID, drafts[0].ID)

	ready, err := f.engine.ListByStatus(ctx, shopping.StatusReady)
	require.NoError(t, err)
	require.Len(t, ready, 1)
	assert.Equal(t, b.ID, ready[0].ID)

	all, err := f.engine.ListMine(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, b.ID, all[0].ID, "newest first")

	_, err = f.engine.ListByStatus(ctx, shopping.Status("lost"))
	assert.True(t, apperr.IsValidation(err))
}

func TestBreakfastScenario(t *testing.T) {
	f := newFixture(t)
	ctx := as("alice")

	tpl, err := f.templates.CreateTemplate(ctx, templates.Input{
		Name: "Breakfast",
		Type: "meal",
		Products: []templates.Entry{
			{ProductID: f.milk.ID, Quantity: 1},
			{ProductID: f.bread.ID, Quantity: 1},
		},
	})
	require.NoError(t, err)

	l, err := f.engine.CreateFromTemplate(ctx, "Week 1", tpl.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, "Week 1", l.Name)
	assert.Equal(t, shopping.StatusDraft, l.Status)
	assert.Equal(t, []shopping.Item{
		{ProductID: f.milk.ID, Quantity: 3},
		{ProductID: f.bread.ID, Quantity: 3},
	}, l.Items)

	_, err = f.engine.MarkReady(ctx, l.ID)
	require.NoError(t, err)
	_, err = f.engine.SetItemChecked(ctx, l.ID, f.milk.ID, true)
	require.NoError(t, err)
	done, err := f.engine.MarkCompleted(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, shopping.StatusCompleted, done.Status)

	require.NoError(t, f.templates.DeleteTemplate(ctx, tpl.ID))

	after, err := f.engine.GetByID(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, []shopping.Item{
		{ProductID: f.milk.ID, Quantity: 3, Checked: true},
		{ProductID: f.bread.ID, Quantity: 3},
	}, after.Items)
}

func TestCreateFromTemplate_DefaultsName(t *testing.T) {
	f := newFixture(t)
	ctx := as("alice")
	tpl, err := f.templates.CreateTemplate(ctx, templates.Input{
		Name:     "Pancakes",
		Type:     "meal",
		Products: []templates.Entry{{ProductID: f.milk.ID, Quantity: 250}},
	})
	require.NoError(t, err)

	l, err := f.engine.CreateFromTemplate(ctx, "", tpl.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, "Pancakes", l.Name)

	_, err = f.engine.CreateFromTemplate(ctx, "x", "missing", 1)
	assert.True(t, apperr.IsNotFound(err))
}

func ptr[T any](v T) *T { return &v }

func productIDs(l *shopping.ShoppingList) []string {
	ids := make([]string, 0, len(l.Items))
	for _, it := range l.Items {
		ids = append(ids, it.ProductID)
	}
	return ids
}
