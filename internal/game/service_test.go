package game

import (
	"context"
	"database/sql"
	"encoding/json"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ovaphlow/pitchfork/service-game-store-go/internal/game/entity"
)

// fakeStore is an in-memory Store. It applies patches with the same
// non-nil-fields-only rule as the SQL repo and records call counts so tests
// can assert that empty patches skip the write.
type fakeStore struct {
	games map[string]*entity.Game

	updateCalls   int
	lastSortBy    string
	lastSortOrder string
	lastLimit     int
}

func newFakeStore() *fakeStore {
	return &fakeStore{games: map[string]*entity.Game{}}
}

func (f *fakeStore) Insert(_ context.Context, g *entity.Game) error {
	cp := *g
	f.games[g.ID] = &cp
	return nil
}

func (f *fakeStore) GetByID(_ context.Context, id string) (*entity.Game, error) {
	g, ok := f.games[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *g
	return &cp, nil
}

// List mirrors the repo's ORDER BY translation, including the inverted
// ratings direction, so handler tests exercise the same listing contract.
func (f *fakeStore) List(_ context.Context, sortBy, sortOrder string, limit int) ([]*entity.Game, error) {
	f.lastSortBy = sortBy
	f.lastSortOrder = sortOrder
	f.lastLimit = limit

	out := make([]*entity.Game, 0, len(f.games))
	for _, g := range f.games {
		cp := *g
		out = append(out, &cp)
	}

	desc := sortOrder == "desc"
	switch sortBy {
	case "price":
		sort.Slice(out, func(i, j int) bool {
			less := rawNumber(out[i].Price, "base") < rawNumber(out[j].Price, "base")
			return less != desc
		})
	case "name":
		sort.Slice(out, func(i, j int) bool {
			return (out[i].Name < out[j].Name) != desc
		})
	case "ratings":
		sort.Slice(out, func(i, j int) bool {
			greater := rawNumber(out[i].Ratings, "percentage") > rawNumber(out[j].Ratings, "percentage")
			return greater != desc
		})
	default:
		sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	}

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func rawNumber(raw []byte, key string) float64 {
	var m map[string]float64
	_ = json.Unmarshal(raw, &m)
	return m[key]
}

func (f *fakeStore) UpdateFields(_ context.Context, id string, p *entity.GamePatch) (int64, error) {
	f.updateCalls++
	g, ok := f.games[id]
	if !ok {
		return 0, nil
	}
	if p.Name != nil {
		g.Name = *p.Name
	}
	if p.BopsPromoCalloutSearchTile != nil {
		g.BopsPromoCalloutSearchTile = p.BopsPromoCalloutSearchTile
	}
	if p.BopsPromoCalloutSearchTileAlternate != nil {
		g.BopsPromoCalloutSearchTileAlternate = p.BopsPromoCalloutSearchTileAlternate
	}
	if p.BopsPromoAlternate != nil {
		g.BopsPromoAlternate = p.BopsPromoAlternate
	}
	if entity.RawSet(p.Price) {
		g.Price = p.Price
	}
	if entity.RawSet(p.Image) {
		g.Image = p.Image
	}
	if p.MarketPrice != nil {
		g.MarketPrice = p.MarketPrice
	}
	if p.ReleaseDate != nil {
		g.ReleaseDate = p.ReleaseDate
	}
	if entity.RawSet(p.Ratings) {
		g.Ratings = p.Ratings
	}
	if entity.RawSet(p.Availability) {
		g.Availability = p.Availability
	}
	if p.URL != nil {
		g.URL = p.URL
	}
	if p.ProductPlatform != nil {
		g.ProductPlatform = p.ProductPlatform
	}
	if p.ProviderGrade != nil {
		g.ProviderGrade = p.ProviderGrade
	}
	if p.MapProPrice != nil {
		g.MapProPrice = p.MapProPrice
	}
	if p.Badge != nil {
		g.Badge = p.Badge
	}
	if p.GradingProvider != nil {
		g.GradingProvider = p.GradingProvider
	}
	return 1, nil
}

func (f *fakeStore) Delete(_ context.Context, id string) (int64, error) {
	if _, ok := f.games[id]; !ok {
		return 0, nil
	}
	delete(f.games, id)
	return 1, nil
}

func strPtr(s string) *string { return &s }

func f64Ptr(v float64) *float64 { return &v }

func TestService_CreateThenGet(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	ctx := context.Background()

	created, err := svc.Create(ctx, &entity.Game{
		Name:        "Test Game",
		MarketPrice: f64Ptr(49.99),
		URL:         strPtr("https://example.com/test-game"),
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.Equal(t, "Test Game", created.Name)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, created, got)
}

func TestService_Get_InvalidIDDistinctFromNotFound(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	ctx := context.Background()

	_, err := svc.Get(ctx, "not-a-valid-id-format")
	require.ErrorIs(t, err, ErrInvalidID)

	// well-formed but absent
	absent := "0ujsswThIGTUYm2K8FjOOfXtY1K"
	_, err = svc.Get(ctx, absent)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestService_Update_MergePatch(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	ctx := context.Background()

	created, err := svc.Create(ctx, &entity.Game{
		Name:        "Test Game",
		MarketPrice: f64Ptr(49.99),
		Badge:       strPtr("new"),
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID, &entity.GamePatch{MarketPrice: f64Ptr(19.99)})
	require.NoError(t, err)
	require.Equal(t, 19.99, *updated.MarketPrice)
	// untouched fields stay put
	require.Equal(t, "Test Game", updated.Name)
	require.Equal(t, "new", *updated.Badge)
}

func TestService_Update_EmptyPatchSkipsWrite(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	ctx := context.Background()

	created, err := svc.Create(ctx, &entity.Game{Name: "Test Game"})
	require.NoError(t, err)

	got, err := svc.Update(ctx, created.ID, &entity.GamePatch{})
	require.NoError(t, err)
	require.Equal(t, created, got)
	require.Zero(t, store.updateCalls)
}

func TestService_Update_NullFieldsIgnored(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	ctx := context.Background()

	created, err := svc.Create(ctx, &entity.Game{
		Name:    "Test Game",
		Ratings: []byte(`{"percentage": 87}`),
	})
	require.NoError(t, err)

	// explicit JSON null counts as absent
	got, err := svc.Update(ctx, created.ID, &entity.GamePatch{Ratings: []byte("null")})
	require.NoError(t, err)
	require.Equal(t, created.Ratings, got.Ratings)
	require.Zero(t, store.updateCalls)
}

func TestService_Update_UnknownID(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	ctx := context.Background()

	absent := "0ujsswThIGTUYm2K8FjOOfXtY1K"
	_, err := svc.Update(ctx, absent, &entity.GamePatch{Name: strPtr("Renamed")})
	require.ErrorIs(t, err, ErrNotFound)
	// the write runs before existence is decided
	require.Equal(t, 1, store.updateCalls)

	_, err = svc.Update(ctx, "???", &entity.GamePatch{Name: strPtr("Renamed")})
	require.ErrorIs(t, err, ErrInvalidID)
}

func TestService_DeleteThenGet(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	ctx := context.Background()

	created, err := svc.Create(ctx, &entity.Game{Name: "Test Game"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))

	_, err = svc.Get(ctx, created.ID)
	require.ErrorIs(t, err, ErrNotFound)

	err = svc.Delete(ctx, created.ID)
	require.ErrorIs(t, err, ErrNotFound)

	err = svc.Delete(ctx, "not-a-valid-id-format")
	require.ErrorIs(t, err, ErrInvalidID)
}

func TestService_List_PassesNormalizedOptions(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	ctx := context.Background()

	for _, name := range []string{"A", "B", "C", "D", "E"} {
		_, err := svc.Create(ctx, &entity.Game{Name: name})
		require.NoError(t, err)
	}

	games, err := svc.List(ctx, ListOptions{Limit: 2, SortBy: "ratings", SortOrder: "weird"})
	require.NoError(t, err)
	require.Len(t, games, 2)
	require.Equal(t, "ratings", store.lastSortBy)
	// anything other than desc normalizes to asc
	require.Equal(t, "asc", store.lastSortOrder)
	require.Equal(t, 2, store.lastLimit)
}
