package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/ovaphlow/pitchfork/service-game-store-go/internal/game/entity"
)

// GameRepo provides data access for the games table using sqlx.
type GameRepo struct {
	db *sqlx.DB
}

func NewGameRepo(db *sqlx.DB) *GameRepo { return &GameRepo{db: db} }

// EnsureTable creates the games table if not exists (idempotent).
// This is a convenience for early development; prefer migrations in production.
func (r *GameRepo) EnsureTable(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS games (
  id varchar(27) PRIMARY KEY,
  name TEXT NOT NULL,
  bops_promo_callout_search_tile TEXT,
  bops_promo_callout_search_tile_alternate TEXT,
  bops_promo_alternate TEXT,
  price JSONB,
  image JSONB,
  market_price DOUBLE PRECISION,
  release_date TEXT,
  ratings JSONB,
  availability JSONB,
  url TEXT,
  product_platform TEXT[],
  provider_grade TEXT,
  map_pro_price DOUBLE PRECISION,
  badge TEXT,
  grading_provider TEXT
);
CREATE INDEX IF NOT EXISTS idx_games_name ON games (name);
`
	_, err := r.db.ExecContext(ctx, ddl)
	return err
}

const gameColumns = `id, name, bops_promo_callout_search_tile,
	bops_promo_callout_search_tile_alternate, bops_promo_alternate, price,
	image, market_price, release_date, ratings, availability, url,
	product_platform, provider_grade, map_pro_price, badge, grading_provider`

// Insert persists a full game record with its pre-assigned identifier.
func (r *GameRepo) Insert(ctx context.Context, g *entity.Game) error {
	const q = `INSERT INTO games (` + gameColumns + `)
		VALUES (:id, :name, :bops_promo_callout_search_tile,
			:bops_promo_callout_search_tile_alternate, :bops_promo_alternate, :price,
			:image, :market_price, :release_date, :ratings, :availability, :url,
			:product_platform, :provider_grade, :map_pro_price, :badge, :grading_provider)`
	params := map[string]any{
		"id":                             g.ID,
		"name":                           g.Name,
		"bops_promo_callout_search_tile": g.BopsPromoCalloutSearchTile,
		"bops_promo_callout_search_tile_alternate": g.BopsPromoCalloutSearchTileAlternate,
		"bops_promo_alternate":                     g.BopsPromoAlternate,
		"price":                                    jsonbParam(g.Price),
		"image":                                    jsonbParam(g.Image),
		"market_price":                             g.MarketPrice,
		"release_date":                             g.ReleaseDate,
		"ratings":                                  jsonbParam(g.Ratings),
		"availability":                             jsonbParam(g.Availability),
		"url":                                      g.URL,
		"product_platform":                         platformParam(g.ProductPlatform),
		"provider_grade":                           g.ProviderGrade,
		"map_pro_price":                            g.MapProPrice,
		"badge":                                    g.Badge,
		"grading_provider":                         g.GradingProvider,
	}
	_, err := r.db.NamedExecContext(ctx, q, params)
	return err
}

// GetByID fetches a full game record. Returns sql.ErrNoRows when absent.
func (r *GameRepo) GetByID(ctx context.Context, id string) (*entity.Game, error) {
	q := `SELECT ` + gameColumns + ` FROM games WHERE id=$1`
	var row entity.Game
	if err := r.db.GetContext(ctx, &row, q, id); err != nil {
		return nil, err
	}
	return &row, nil
}

// List returns games ordered per the sort translation, optionally limited.
// The slice is fully materialized before return.
func (r *GameRepo) List(ctx context.Context, sortBy, sortOrder string, limit int) ([]*entity.Game, error) {
	q := `SELECT ` + gameColumns + ` FROM games ORDER BY ` + orderClause(sortBy, sortOrder)
	if limit > 0 {
		q += fmt.Sprintf(" LIMIT %d", limit)
	}
	games := make([]*entity.Game, 0)
	if err := r.db.SelectContext(ctx, &games, q); err != nil {
		return nil, err
	}
	return games, nil
}

// orderClause translates the public sort parameters into an ORDER BY body.
// Unrecognized sort fields fall back to insertion order (id ascending).
// Ratings ascending is served as percentage descending and vice versa;
// existing clients depend on this mapping.
func orderClause(sortBy, sortOrder string) string {
	dir := "ASC"
	if sortOrder == "desc" {
		dir = "DESC"
	}
	switch sortBy {
	case "price":
		return "(price->>'base')::numeric " + dir
	case "name":
		return "name " + dir
	case "ratings":
		if dir == "ASC" {
			return "(ratings->>'percentage')::numeric DESC"
		}
		return "(ratings->>'percentage')::numeric ASC"
	default:
		return "id ASC"
	}
}

// UpdateFields writes only the non-nil patch fields and reports the number
// of rows matched. An empty patch performs no statement at all.
func (r *GameRepo) UpdateFields(ctx context.Context, id string, p *entity.GamePatch) (int64, error) {
	sets := make([]string, 0, 16)
	args := make([]any, 0, 16)
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s=$%d", col, len(args)))
	}

	if p.Name != nil {
		add("name", *p.Name)
	}
	if p.BopsPromoCalloutSearchTile != nil {
		add("bops_promo_callout_search_tile", *p.BopsPromoCalloutSearchTile)
	}
	if p.BopsPromoCalloutSearchTileAlternate != nil {
		add("bops_promo_callout_search_tile_alternate", *p.BopsPromoCalloutSearchTileAlternate)
	}
	if p.BopsPromoAlternate != nil {
		add("bops_promo_alternate", *p.BopsPromoAlternate)
	}
	if entity.RawSet(p.Price) {
		add("price", string(p.Price))
	}
	if entity.RawSet(p.Image) {
		add("image", string(p.Image))
	}
	if p.MarketPrice != nil {
		add("market_price", *p.MarketPrice)
	}
	if p.ReleaseDate != nil {
		add("release_date", *p.ReleaseDate)
	}
	if entity.RawSet(p.Ratings) {
		add("ratings", string(p.Ratings))
	}
	if entity.RawSet(p.Availability) {
		add("availability", string(p.Availability))
	}
	if p.URL != nil {
		add("url", *p.URL)
	}
	if p.ProductPlatform != nil {
		add("product_platform", pq.Array(p.ProductPlatform))
	}
	if p.ProviderGrade != nil {
		add("provider_grade", *p.ProviderGrade)
	}
	if p.MapProPrice != nil {
		add("map_pro_price", *p.MapProPrice)
	}
	if p.Badge != nil {
		add("badge", *p.Badge)
	}
	if p.GradingProvider != nil {
		add("grading_provider", *p.GradingProvider)
	}

	if len(sets) == 0 {
		return 0, nil
	}

	args = append(args, id)
	q := fmt.Sprintf("UPDATE games SET %s WHERE id=$%d", strings.Join(sets, ", "), len(args))
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Delete removes a game record and reports the number of rows removed.
func (r *GameRepo) Delete(ctx context.Context, id string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM games WHERE id=$1`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// jsonbParam adapts a raw JSON value for a JSONB column. lib/pq sends []byte
// as bytea, so set values go over as text; absent values become NULL.
func jsonbParam(raw json.RawMessage) any {
	if !entity.RawSet(raw) {
		return nil
	}
	return string(raw)
}

// platformParam adapts the platform list, keeping absent lists NULL.
func platformParam(v pq.StringArray) any {
	if v == nil {
		return nil
	}
	return v
}
