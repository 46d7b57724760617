package catalog

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shanehull/batterydb/internal/types"
)

func newSeededStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "batteries.db"))
	require.NoError(t, err)

	res, err := store.Seed(context.Background(),
		"testdata/brands_seed.csv", "testdata/batteries_seed.csv", zap.NewNop())
	require.NoError(t, err)
	require.Equal(t, SeedResult{Brands: 3, Batteries: 3}, res)
	return store
}

func TestNewStore(t *testing.T) {
	pg, err := NewStore("postgres://user:pw@localhost:5432/batteries")
	require.NoError(t, err)
	assert.Equal(t, "pgx", pg.driver)
	assert.Equal(t, "SELECT * FROM t WHERE a = $1 AND b = $2", pg.rebind("SELECT * FROM t WHERE a = ? AND b = ?"))

	lite, err := NewStore("sqlite://data/batteries.db")
	require.NoError(t, err)
	assert.Equal(t, "sqlite", lite.driver)
	assert.True(t, strings.HasPrefix(lite.source, "data/batteries.db?_pragma=foreign_keys(1)"))
	assert.Equal(t, "a = ?", lite.rebind("a = ?"))

	_, err = NewStore("  ")
	assert.Error(t, err)
}

func TestSeedCoercesColumns(t *testing.T) {
	store := newSeededStore(t)
	ctx := context.Background()

	pw, err := store.BatteryBySlug(ctx, "tesla-powerwall-3")
	require.NoError(t, err)
	assert.Equal(t, "Tesla", pw.BrandName)
	assert.Equal(t, types.StatusAvailable, pw.Status)
	assert.Equal(t, 13.5, pw.UsableCapacityKWh)
	assert.False(t, pw.ACCoupled)
	assert.True(t, pw.Scalable)
	assert.True(t, pw.AvailableUS)
	assert.False(t, pw.AvailableFR)
	assert.Nil(t, pw.TotalCapacityKWh)
	assert.Nil(t, pw.WarrantyCycles)
	require.NotNil(t, pw.PriceUS)
	assert.Equal(t, 9300.0, *pw.PriceUS)
	require.NotNil(t, pw.IPRating)
	assert.Equal(t, "IP67", *pw.IPRating)
	assert.NotEmpty(t, pw.CreatedAt)

	iq, err := store.BatteryBySlug(ctx, "enphase-iq-battery-5p")
	require.NoError(t, err)
	require.NotNil(t, iq.WarrantyCycles)
	assert.Equal(t, int64(6000), *iq.WarrantyCycles)
	assert.Nil(t, iq.PriceNL)

	eco, err := store.BatteryBySlug(ctx, "sonnen-eco-10")
	require.NoError(t, err)
	assert.Nil(t, eco.ReleasedDate)
	require.NotNil(t, eco.Notes)
	assert.Equal(t, "Legacy model", *eco.Notes)
}

func TestSeedTwiceIsIdempotent(t *testing.T) {
	store := newSeededStore(t)
	ctx := context.Background()

	first, err := store.AllBatteries(ctx)
	require.NoError(t, err)

	_, err = store.Seed(ctx, "testdata/brands_seed.csv", "testdata/batteries_seed.csv", zap.NewNop())
	require.NoError(t, err)

	second, err := store.AllBatteries(ctx)
	require.NoError(t, err)

	ignoreTimestamps := cmp.FilterPath(func(p cmp.Path) bool {
		name := p.Last().String()
		return name == ".CreatedAt" || name == ".UpdatedAt"
	}, cmp.Ignore())
	if diff := cmp.Diff(first, second, ignoreTimestamps); diff != "" {
		t.Errorf("reseeding changed the catalog (-first +second):\n%s", diff)
	}
}

func TestSeedUnknownBrandFails(t *testing.T) {
	store, err := NewStore(filepath.Join(t.TempDir(), "batteries.db"))
	require.NoError(t, err)

	res, err := store.Seed(context.Background(),
		"testdata/brands_seed.csv", "testdata/batteries_orphan.csv", zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "byd-hvs-10")
	assert.Equal(t, 3, res.Brands)
	assert.Equal(t, 0, res.Batteries)
}

func TestSeedMissingRequiredColumn(t *testing.T) {
	store, err := NewStore(filepath.Join(t.TempDir(), "batteries.db"))
	require.NoError(t, err)

	_, err = store.Seed(context.Background(),
		"testdata/brands_seed.csv", "testdata/batteries_missing_column.csv", zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "continuous_power_kw")
}

func TestParseCSV(t *testing.T) {
	input := "slug,usable_capacity_kwh,scalable,extra\n" +
		"a,13.5,true,x\n" +
		",,,\n" +
		"b,,TRUE,y\n"
	cols := []column{
		{"slug", true, rawCol},
		{"usable_capacity_kwh", true, numCol},
		{"scalable", false, boolCol},
		{"notes", false, strCol},
	}

	rows, err := parseCSV(strings.NewReader(input), cols)
	require.NoError(t, err)
	want := [][]any{
		{"a", 13.5, 1, nil},
		{"b", nil, 0, nil},
	}
	assert.Equal(t, want, rows)

	_, err = parseCSV(strings.NewReader("slug,usable_capacity_kwh\na,lots\n"), cols[:2])
	assert.ErrorContains(t, err, "line 2")
}

func TestQueries(t *testing.T) {
	store := newSeededStore(t)
	ctx := context.Background()

	all, err := store.AllBatteries(ctx)
	require.NoError(t, err)
	var slugs []string
	for _, b := range all {
		slugs = append(slugs, b.Slug)
	}
	assert.Equal(t, []string{"tesla-powerwall-3", "sonnen-eco-10", "enphase-iq-battery-5p"}, slugs)

	brands, err := store.AllBrands(ctx)
	require.NoError(t, err)
	var names []string
	for _, b := range brands {
		names = append(names, b.Name)
	}
	assert.Equal(t, []string{"Enphase", "Tesla", "sonnen"}, names)

	brand, err := store.BrandBySlug(ctx, "enphase")
	require.NoError(t, err)
	require.NotNil(t, brand.Description)

	byBrand, err := store.BatteriesByBrand(ctx, "sonnen")
	require.NoError(t, err)
	require.Len(t, byBrand, 1)
	assert.Equal(t, "sonnen-eco-10", byBrand[0].Slug)

	tracked, err := store.TrackedBatteries(ctx)
	require.NoError(t, err)
	assert.Contains(t, tracked, types.TrackedBattery{BrandSlug: "tesla", Model: "Powerwall 3", Slug: "tesla-powerwall-3"})
	assert.Len(t, tracked, 3)
}

func TestNotFound(t *testing.T) {
	store := newSeededStore(t)
	ctx := context.Background()

	_, err := store.BatteryBySlug(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.BrandBySlug(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)

	none, err := store.BatteriesByBrand(ctx, "nope")
	require.NoError(t, err)
	assert.Empty(t, none)
}
