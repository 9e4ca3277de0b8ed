package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/abgdnv/butcherpos/internal/docstore"
	poserrors "github.com/abgdnv/butcherpos/internal/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func names(c *Catalog) []string {
	var out []string
	for p := range c.List() {
		out = append(out, p.Name)
	}
	return out
}

func TestCatalog_Load_SeedsEmptyStore(t *testing.T) {
	// given
	ctx := context.Background()
	store := docstore.NewMemoryStore()
	c := New(store, nil, discard)

	// when
	err := c.Load(ctx)

	// then
	require.NoError(t, err)
	assert.Equal(t, []string{"Bistec de res", "Chuleta de cerdo"}, names(c))
	assert.Equal(t, 1, store.Saves(docstore.Catalog), "seed must be persisted immediately")

	data, err := store.Load(ctx, docstore.Catalog)
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"name": "Bistec de res", "price_per_kg": 250, "initial_weight": 10, "current_weight": 10},
		{"name": "Chuleta de cerdo", "price_per_kg": 180, "initial_weight": 8, "current_weight": 8}
	]`, string(data))
}

func TestCatalog_Load_SeedSaveFailure(t *testing.T) {
	// given
	store := docstore.NewMemoryStore()
	store.FailSaves(docstore.Catalog, errors.New("read-only"))
	c := New(store, nil, discard)

	// when
	err := c.Load(context.Background())

	// then
	assert.ErrorIs(t, err, poserrors.ErrStoreIO)
}

func TestCatalog_Load_Persisted(t *testing.T) {
	testCases := []struct {
		name    string
		content string
		want    []Product
		wantErr error
	}{
		{
			name:    "empty list stays empty",
			content: `[]`,
			want:    nil,
		},
		{
			name:    "missing current weight defaults to initial",
			content: `[{"name": "Lomo", "price_per_kg": 300, "initial_weight": 5}]`,
			want:    []Product{NewProduct("Lomo", 300, 5)},
		},
		{
			name: "duplicate name keeps first position and last values",
			content: `[
				{"name": "A", "price_per_kg": 1, "initial_weight": 2, "current_weight": 2},
				{"name": "B", "price_per_kg": 1, "initial_weight": 2, "current_weight": 2},
				{"name": "A", "price_per_kg": 9, "initial_weight": 3, "current_weight": 1}
			]`,
			want: []Product{
				{Name: "A", PricePerKg: decimal.NewFromInt(9), InitialWeight: decimal.NewFromInt(3), CurrentWeight: decimal.NewFromInt(1)},
				NewProduct("B", 1, 2),
			},
		},
		{name: "not json", content: `{{`, wantErr: poserrors.ErrStoreCorrupt},
		{name: "missing name", content: `[{"price_per_kg": 1, "initial_weight": 1}]`, wantErr: poserrors.ErrStoreCorrupt},
		{name: "missing price", content: `[{"name": "A", "initial_weight": 1}]`, wantErr: poserrors.ErrStoreCorrupt},
		{name: "zero price", content: `[{"name": "A", "price_per_kg": 0, "initial_weight": 1}]`, wantErr: poserrors.ErrStoreCorrupt},
		{name: "missing initial weight", content: `[{"name": "A", "price_per_kg": 1}]`, wantErr: poserrors.ErrStoreCorrupt},
		{name: "negative current", content: `[{"name": "A", "price_per_kg": 1, "initial_weight": 1, "current_weight": -0.5}]`, wantErr: poserrors.ErrStoreCorrupt},
		{name: "current above initial", content: `[{"name": "A", "price_per_kg": 1, "initial_weight": 1, "current_weight": 2}]`, wantErr: poserrors.ErrStoreCorrupt},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			store := docstore.NewMemoryStore()
			store.Put(docstore.Catalog, []byte(tc.content))
			c := New(store, nil, discard)

			// when
			err := c.Load(context.Background())

			// then
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 0, store.Saves(docstore.Catalog))
			var got []Product
			for p := range c.List() {
				got = append(got, p)
			}
			require.Len(t, got, len(tc.want))
			for i := range tc.want {
				assert.Equal(t, tc.want[i].Name, got[i].Name)
				assert.True(t, tc.want[i].PricePerKg.Equal(got[i].PricePerKg), "price of %s", got[i].Name)
				assert.True(t, tc.want[i].InitialWeight.Equal(got[i].InitialWeight), "initial of %s", got[i].Name)
				assert.True(t, tc.want[i].CurrentWeight.Equal(got[i].CurrentWeight), "current of %s", got[i].Name)
			}
		})
	}
}

func TestCatalog_Load_CorruptEntryKeepsPreviousProducts(t *testing.T) {
	// given
	ctx := context.Background()
	store := docstore.NewMemoryStore()
	c := New(store, nil, discard)
	require.NoError(t, c.Load(ctx))
	store.Put(docstore.Catalog, []byte(`[
		{"name": "Arrachera", "price_per_kg": 320, "initial_weight": 5},
		{"name": "Costilla", "price_per_kg": -1, "initial_weight": 4}
	]`))

	// when
	err := c.Load(ctx)

	// then
	require.ErrorIs(t, err, poserrors.ErrStoreCorrupt)
	assert.Equal(t, []string{"Bistec de res", "Chuleta de cerdo"}, names(c))
	assert.Equal(t, 2, c.Len())
	_, err = c.Get("Arrachera")
	assert.ErrorIs(t, err, poserrors.ErrProductNotFound)
	p, err := c.Get("Chuleta de cerdo")
	require.NoError(t, err)
	assert.Equal(t, "Chuleta de cerdo", p.Name)
	p, err = c.At(1)
	require.NoError(t, err)
	assert.Equal(t, "Bistec de res", p.Name)
}

func TestCatalog_SaveLoadRoundTrip(t *testing.T) {
	// given
	ctx := context.Background()
	store := docstore.NewMemoryStore()
	seed := []Product{NewProduct("Arrachera", 320.5, 12.25), NewProduct("Costilla", 199.99, 7.5)}
	c := New(store, seed, discard)
	require.NoError(t, c.Load(ctx))
	p, err := c.Get("Costilla")
	require.NoError(t, err)
	p.CurrentWeight = decimal.RequireFromString("3.125")
	require.NoError(t, c.Save(ctx))

	// when
	reloaded := New(store, []Product{}, discard)
	require.NoError(t, reloaded.Load(ctx))

	// then
	var before, after []Product
	for p := range c.List() {
		before = append(before, p)
	}
	for p := range reloaded.List() {
		after = append(after, p)
	}
	require.Len(t, after, len(before))
	for i := range before {
		assert.Equal(t, before[i].Name, after[i].Name)
		assert.True(t, before[i].PricePerKg.Equal(after[i].PricePerKg))
		assert.True(t, before[i].InitialWeight.Equal(after[i].InitialWeight))
		assert.True(t, before[i].CurrentWeight.Equal(after[i].CurrentWeight))
	}
}

func TestCatalog_Lookup(t *testing.T) {
	ctx := context.Background()
	c := New(docstore.NewMemoryStore(), nil, discard)
	require.NoError(t, c.Load(ctx))

	t.Run("get is case sensitive", func(t *testing.T) {
		_, err := c.Get("bistec de res")
		assert.ErrorIs(t, err, poserrors.ErrProductNotFound)
	})

	t.Run("get returns live product", func(t *testing.T) {
		// given
		p, err := c.Get("Chuleta de cerdo")
		require.NoError(t, err)
		// when
		p.CurrentWeight = decimal.NewFromInt(1)
		// then
		again, err := c.Get("Chuleta de cerdo")
		require.NoError(t, err)
		assert.True(t, again.CurrentWeight.Equal(decimal.NewFromInt(1)))
	})

	t.Run("list yields copies", func(t *testing.T) {
		for p := range c.List() {
			p.CurrentWeight = decimal.Zero
			assert.True(t, p.CurrentWeight.IsZero())
		}
		p, err := c.Get("Bistec de res")
		require.NoError(t, err)
		assert.True(t, p.CurrentWeight.Equal(decimal.NewFromInt(10)))
	})

	t.Run("list is restartable and stops early", func(t *testing.T) {
		assert.Equal(t, names(c), names(c))
		count := 0
		for range c.List() {
			count++
			break
		}
		assert.Equal(t, 1, count)
	})

	testCases := []struct {
		index   int
		want    string
		wantErr error
	}{
		{index: 1, want: "Bistec de res"},
		{index: 2, want: "Chuleta de cerdo"},
		{index: 0, wantErr: poserrors.ErrProductNotFound},
		{index: 3, wantErr: poserrors.ErrProductNotFound},
		{index: -1, wantErr: poserrors.ErrProductNotFound},
	}
	for _, tc := range testCases {
		p, err := c.At(tc.index)
		if tc.wantErr != nil {
			assert.ErrorIs(t, err, tc.wantErr, "index %d", tc.index)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tc.want, p.Name)
	}
	assert.Equal(t, 2, c.Len())
}

func TestProduct_JSON(t *testing.T) {
	// given
	p := NewProduct("Bistec de res", 250, 10)
	p.CurrentWeight = decimal.RequireFromString("7.5")
	// when
	data, err := json.Marshal(p)
	// then
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Bistec de res","price_per_kg":250,"initial_weight":10,"current_weight":7.5}`, string(data))
	assert.True(t, p.Sold().Equal(decimal.RequireFromString("2.5")))
}
