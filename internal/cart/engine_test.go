package cart

import (
	"context"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/kain/internal/shop"
	"github.com/roach88/kain/internal/testutil"
)

// newLoadedEngine creates an engine over fresh memory storage and loads it.
func newLoadedEngine(t *testing.T) (*Engine, *testutil.MemoryStorage) {
	t.Helper()
	st := testutil.NewMemoryStorage()
	e := New(st)
	e.Load(context.Background())
	return e, st
}

func TestEngine_EmptyCart(t *testing.T) {
	e, _ := newLoadedEngine(t)

	assert.Equal(t, 0, e.Len())
	assert.Equal(t, 0.0, e.Total())
	assert.Empty(t, e.Items())
}

func TestAddItem_AppendsNewLine(t *testing.T) {
	ctx := context.Background()
	e, _ := newLoadedEngine(t)

	ev := e.AddItem(ctx, testutil.RedSilk(), 2, nil)

	assert.Equal(t, EventItemAdded, ev.Kind)
	assert.Equal(t, "silk-red", ev.CartItemID)
	assert.Equal(t, 2.0, ev.Quantity)
	assert.True(t, ev.Changed)
	assert.True(t, ev.OpenPanel)

	items := e.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "silk-red", items[0].ProductID)
	assert.Equal(t, "silk-red", items[0].CartItemID)
	assert.Equal(t, 120000.0, items[0].Price)
	assert.Nil(t, items[0].Variant)
}

func TestAddItem_DefaultQuantity(t *testing.T) {
	ctx := context.Background()
	e, _ := newLoadedEngine(t)

	e.AddItem(ctx, testutil.RedSilk(), 0, nil)

	it, ok := e.Item("silk-red")
	require.True(t, ok)
	assert.Equal(t, 1.0, it.Quantity)
}

func TestAddItem_NonFiniteQuantityDefaults(t *testing.T) {
	for _, q := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		ctx := context.Background()
		e, st := newLoadedEngine(t)

		ev := e.AddItem(ctx, testutil.RedSilk(), q, nil)

		assert.Equal(t, 1.0, ev.Quantity, "quantity %v", q)
		assert.Equal(t, 120000.0, e.Total(), "quantity %v", q)
		assert.NoError(t, e.PersistErr())
		assert.Contains(t, st.Raw(StorageKey), `"quantity":1`)
	}
}

func TestAddItem_MergesSameProduct(t *testing.T) {
	ctx := context.Background()
	e, _ := newLoadedEngine(t)

	e.AddItem(ctx, testutil.RedSilk(), 1.5, nil)
	ev := e.AddItem(ctx, testutil.RedSilk(), 2.25, nil)

	assert.Equal(t, EventItemMerged, ev.Kind)
	assert.Equal(t, 3.75, ev.Quantity)
	assert.True(t, ev.OpenPanel)
	require.Equal(t, 1, e.Len())
	it, _ := e.Item("silk-red")
	assert.Equal(t, 3.75, it.Quantity)
}

func TestAddItem_VariantsAreDistinctLines(t *testing.T) {
	ctx := context.Background()
	e, _ := newLoadedEngine(t)
	p := testutil.BatikCotton()

	e.AddItem(ctx, p, 1, testutil.VariantOf(p, "indigo"))
	e.AddItem(ctx, p, 1, testutil.VariantOf(p, "sogan"))
	e.AddItem(ctx, p, 1, nil)
	e.AddItem(ctx, p, 2, testutil.VariantOf(p, "indigo"))

	items := e.Items()
	require.Len(t, items, 3)
	assert.Equal(t, "batik-cotton-indigo", items[0].CartItemID)
	assert.Equal(t, 3.0, items[0].Quantity)
	assert.Equal(t, "batik-cotton-sogan", items[1].CartItemID)
	assert.Equal(t, "batik-cotton", items[2].CartItemID)
	require.NotNil(t, items[0].Variant)
	assert.Equal(t, "Nila", items[0].Variant.Value.Get(shop.LocaleIndonesian))
}

func TestAddItem_EmptyVariantIDIsNoVariant(t *testing.T) {
	ctx := context.Background()
	e, _ := newLoadedEngine(t)
	p := testutil.BatikCotton()

	e.AddItem(ctx, p, 1, nil)
	ev := e.AddItem(ctx, p, 1, &shop.VariantRef{Value: shop.LocalizedText{"en": "Blank"}})

	assert.Equal(t, EventItemMerged, ev.Kind)
	assert.Equal(t, "batik-cotton", ev.CartItemID)
	items := e.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 2.0, items[0].Quantity)
	assert.Nil(t, items[0].Variant)
}

func TestAddItem_NoStockCeiling(t *testing.T) {
	ctx := context.Background()
	e, _ := newLoadedEngine(t)
	p := testutil.BatikCotton()
	v := testutil.VariantOf(p, "sogan") // stock 4

	e.AddItem(ctx, p, 3, v)
	e.AddItem(ctx, p, 3, v)

	it, _ := e.Item("batik-cotton-sogan")
	assert.Equal(t, 6.0, it.Quantity)
}

func TestAddItem_SnapshotIsIndependent(t *testing.T) {
	ctx := context.Background()
	e, _ := newLoadedEngine(t)
	p := testutil.BatikCotton()
	v := testutil.VariantOf(p, "indigo")

	e.AddItem(ctx, p, 1, v)
	p.Name["en"] = "Renamed"
	p.Price = 1
	v.Stock = 0

	it, _ := e.Item("batik-cotton-indigo")
	assert.Equal(t, "Batik Cotton", it.Name.Get(shop.LocaleEnglish))
	assert.Equal(t, 85000.0, it.Price)
	assert.Equal(t, 12.0, it.Variant.Stock)
}

func TestItems_ReturnsCopy(t *testing.T) {
	ctx := context.Background()
	e, _ := newLoadedEngine(t)
	e.AddItem(ctx, testutil.Linen(), 1, nil)

	items := e.Items()
	items[0].Quantity = 99
	items[0].Name["en"] = "mutated"

	it, _ := e.Item("linen-natural")
	assert.Equal(t, 1.0, it.Quantity)
	assert.Equal(t, "Natural Linen", it.Name.Get(shop.LocaleEnglish))
}

func TestRemoveItem(t *testing.T) {
	ctx := context.Background()
	e, _ := newLoadedEngine(t)
	e.AddItem(ctx, testutil.RedSilk(), 1, nil)
	e.AddItem(ctx, testutil.Linen(), 1, nil)

	ev := e.RemoveItem(ctx, "silk-red")
	assert.True(t, ev.Changed)
	assert.Equal(t, EventItemRemoved, ev.Kind)

	items := e.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "linen-natural", items[0].CartItemID)
}

func TestRemoveItem_Idempotent(t *testing.T) {
	ctx := context.Background()
	e, st := newLoadedEngine(t)
	e.AddItem(ctx, testutil.RedSilk(), 1, nil)

	first := e.RemoveItem(ctx, "silk-red")
	writes := st.Writes()
	second := e.RemoveItem(ctx, "silk-red")

	assert.True(t, first.Changed)
	assert.False(t, second.Changed)
	assert.Equal(t, writes, st.Writes(), "no-op removal does not write")
	assert.Equal(t, 0, e.Len())
}

func TestUpdateQuantity(t *testing.T) {
	ctx := context.Background()
	e, _ := newLoadedEngine(t)
	e.AddItem(ctx, testutil.RedSilk(), 1, nil)

	ev, ok := e.UpdateQuantity(ctx, "silk-red", 4.5)
	require.True(t, ok)
	assert.True(t, ev.Changed)
	assert.Equal(t, EventQuantityUpdated, ev.Kind)

	it, _ := e.Item("silk-red")
	assert.Equal(t, 4.5, it.Quantity)
	assert.False(t, ev.OpenPanel)
}

func TestUpdateQuantity_RejectsBelowMinimum(t *testing.T) {
	ctx := context.Background()
	e, st := newLoadedEngine(t)
	e.AddItem(ctx, testutil.RedSilk(), 1, nil)
	before := st.Raw(StorageKey)
	writes := st.Writes()

	for _, q := range []float64{0.5, 0.75, 0, -1} {
		ev, ok := e.UpdateQuantity(ctx, "silk-red", q)
		assert.False(t, ok, "quantity %v", q)
		assert.Equal(t, EventUpdateRejected, ev.Kind)
		assert.False(t, ev.Changed)
		assert.Equal(t, 1.0, ev.Quantity)
	}

	it, _ := e.Item("silk-red")
	assert.Equal(t, 1.0, it.Quantity)
	assert.Equal(t, 1, e.Len(), "rejected update never removes")
	assert.Equal(t, before, st.Raw(StorageKey))
	assert.Equal(t, writes, st.Writes())
}

func TestUpdateQuantity_RejectsNonFinite(t *testing.T) {
	tests := []struct {
		name string
		q    float64
	}{
		{"nan", math.NaN()},
		{"positive infinity", math.Inf(1)},
		{"negative infinity", math.Inf(-1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			e, st := newLoadedEngine(t)
			e.AddItem(ctx, testutil.RedSilk(), 2, nil)
			writes := st.Writes()

			ev, ok := e.UpdateQuantity(ctx, "silk-red", tt.q)

			assert.False(t, ok)
			assert.Equal(t, EventUpdateRejected, ev.Kind)
			assert.Equal(t, 2.0, ev.Quantity)
			assert.Equal(t, 240000.0, e.Total())
			assert.Equal(t, writes, st.Writes())
			assert.NoError(t, e.PersistErr())
		})
	}
}

func TestUpdateQuantity_ExactlyMinimum(t *testing.T) {
	ctx := context.Background()
	e, _ := newLoadedEngine(t)
	e.AddItem(ctx, testutil.RedSilk(), 3, nil)

	_, ok := e.UpdateQuantity(ctx, "silk-red", 1)
	assert.True(t, ok)
	it, _ := e.Item("silk-red")
	assert.Equal(t, 1.0, it.Quantity)
}

func TestUpdateQuantity_AbsentIsNoop(t *testing.T) {
	ctx := context.Background()
	e, st := newLoadedEngine(t)
	writes := st.Writes()

	ev, ok := e.UpdateQuantity(ctx, "missing", 3)
	assert.True(t, ok)
	assert.False(t, ev.Changed)
	assert.Equal(t, 0, e.Len())
	assert.Equal(t, writes, st.Writes())
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	e, st := newLoadedEngine(t)
	e.AddItem(ctx, testutil.RedSilk(), 1, nil)
	e.AddItem(ctx, testutil.Linen(), 2, nil)

	ev := e.Clear(ctx)

	assert.Equal(t, EventCleared, ev.Kind)
	assert.Equal(t, 0, e.Len())
	assert.Equal(t, 0.0, e.Total())
	assert.Equal(t, "[]", st.Raw(StorageKey))
}

func TestTotal_FractionalQuantities(t *testing.T) {
	ctx := context.Background()
	e, _ := newLoadedEngine(t)
	p := testutil.BatikCotton()

	e.AddItem(ctx, p, 2.25, testutil.VariantOf(p, "indigo")) // 191,250
	e.AddItem(ctx, testutil.RedSilk(), 1, nil)               // 120,000
	e.AddItem(ctx, testutil.Linen(), 0.5, nil)               // 47,500

	assert.Equal(t, 358750.0, e.Total())
	assert.Equal(t, Total(e.Items()), e.Total())
}

func TestEvents_SeqIsMonotonic(t *testing.T) {
	ctx := context.Background()
	e, _ := newLoadedEngine(t)

	a := e.AddItem(ctx, testutil.RedSilk(), 1, nil)
	b := e.AddItem(ctx, testutil.Linen(), 1, nil)
	c := e.Clear(ctx)

	assert.Less(t, a.Seq, b.Seq)
	assert.Less(t, b.Seq, c.Seq)
}

func TestSubscribe(t *testing.T) {
	ctx := context.Background()
	e, _ := newLoadedEngine(t)

	var got []EventKind
	unsubscribe := e.Subscribe(func(ev Event) { got = append(got, ev.Kind) })

	e.AddItem(ctx, testutil.RedSilk(), 1, nil)
	e.UpdateQuantity(ctx, "silk-red", 0.5) // rejected, not delivered
	e.RemoveItem(ctx, "absent")            // no-op, not delivered
	e.RemoveItem(ctx, "silk-red")
	unsubscribe()
	e.Clear(ctx)

	assert.Equal(t, []EventKind{EventItemAdded, EventItemRemoved}, got)
}

func TestClose_DropsSubscribers(t *testing.T) {
	ctx := context.Background()
	e, _ := newLoadedEngine(t)

	calls := 0
	e.Subscribe(func(Event) { calls++ })
	e.Close()
	e.AddItem(ctx, testutil.RedSilk(), 1, nil)

	assert.Equal(t, 0, calls)
	assert.Equal(t, 1, e.Len())
}

func TestPanel_OpensOnAdd(t *testing.T) {
	ctx := context.Background()
	e, _ := newLoadedEngine(t)
	panel := NewPanel()
	e.Subscribe(panel.Observe)

	assert.False(t, panel.IsOpen())
	e.AddItem(ctx, testutil.RedSilk(), 1, nil)
	assert.True(t, panel.IsOpen())

	panel.SetOpen(false)
	e.UpdateQuantity(ctx, "silk-red", 2)
	assert.False(t, panel.IsOpen(), "only adds open the panel")

	assert.True(t, panel.Toggle())
	assert.False(t, panel.Toggle())
}

func TestEngine_ConcurrentAdds(t *testing.T) {
	ctx := context.Background()
	e, _ := newLoadedEngine(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				e.AddItem(ctx, testutil.RedSilk(), 0.25, nil)
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 1, e.Len())
	it, _ := e.Item("silk-red")
	assert.Equal(t, 50.0, it.Quantity)
}
