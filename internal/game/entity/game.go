package entity

import (
	"encoding/json"

	"github.com/lib/pq"
)

// Game is a catalog record. The identifier is assigned once at creation;
// every field except name is optional and may be partially present. The
// nested structures (price, image, ratings, availability) are stored as
// JSONB and kept opaque here.
type Game struct {
	ID                                  string          `db:"id" json:"id"`
	Name                                string          `db:"name" json:"name"`
	BopsPromoCalloutSearchTile          *string         `db:"bops_promo_callout_search_tile" json:"bopsPromoCalloutSearchTile,omitempty"`
	BopsPromoCalloutSearchTileAlternate *string         `db:"bops_promo_callout_search_tile_alternate" json:"bopsPromoCalloutSearchTileAlternate,omitempty"`
	BopsPromoAlternate                  *string         `db:"bops_promo_alternate" json:"bopsPromoAlternate,omitempty"`
	Price                               json.RawMessage `db:"price" json:"price,omitempty"`
	Image                               json.RawMessage `db:"image" json:"image,omitempty"`
	MarketPrice                         *float64        `db:"market_price" json:"marketPrice,omitempty"`
	ReleaseDate                         *string         `db:"release_date" json:"releaseDate,omitempty"`
	Ratings                             json.RawMessage `db:"ratings" json:"ratings,omitempty"`
	Availability                        json.RawMessage `db:"availability" json:"availability,omitempty"`
	URL                                 *string         `db:"url" json:"url,omitempty"`
	ProductPlatform                     pq.StringArray  `db:"product_platform" json:"productPlatform,omitempty"`
	ProviderGrade                       *string         `db:"provider_grade" json:"providerGrade,omitempty"`
	MapProPrice                         *float64        `db:"map_pro_price" json:"mapProPrice,omitempty"`
	Badge                               *string         `db:"badge" json:"badge,omitempty"`
	GradingProvider                     *string         `db:"grading_provider" json:"gradingProvider,omitempty"`
}

// GamePatch holds the fields eligible for partial update. Nil members are
// left untouched by an update (merge-patch, not replace); name may be
// omitted too.
type GamePatch struct {
	Name                                *string         `json:"name"`
	BopsPromoCalloutSearchTile          *string         `json:"bopsPromoCalloutSearchTile"`
	BopsPromoCalloutSearchTileAlternate *string         `json:"bopsPromoCalloutSearchTileAlternate"`
	BopsPromoAlternate                  *string         `json:"bopsPromoAlternate"`
	Price                               json.RawMessage `json:"price"`
	Image                               json.RawMessage `json:"image"`
	MarketPrice                         *float64        `json:"marketPrice"`
	ReleaseDate                         *string         `json:"releaseDate"`
	Ratings                             json.RawMessage `json:"ratings"`
	Availability                        json.RawMessage `json:"availability"`
	URL                                 *string         `json:"url"`
	ProductPlatform                     []string        `json:"productPlatform"`
	ProviderGrade                       *string         `json:"providerGrade"`
	MapProPrice                         *float64        `json:"mapProPrice"`
	Badge                               *string         `json:"badge"`
	GradingProvider                     *string         `json:"gradingProvider"`
}

// RawSet reports whether a JSON field carries a value. A JSON null counts as
// absent, matching the merge-patch contract.
func RawSet(raw json.RawMessage) bool {
	return len(raw) > 0 && string(raw) != "null"
}

// Empty reports whether the patch touches no fields at all.
func (p *GamePatch) Empty() bool {
	return p.Name == nil &&
		p.BopsPromoCalloutSearchTile == nil &&
		p.BopsPromoCalloutSearchTileAlternate == nil &&
		p.BopsPromoAlternate == nil &&
		!RawSet(p.Price) &&
		!RawSet(p.Image) &&
		p.MarketPrice == nil &&
		p.ReleaseDate == nil &&
		!RawSet(p.Ratings) &&
		!RawSet(p.Availability) &&
		p.URL == nil &&
		p.ProductPlatform == nil &&
		p.ProviderGrade == nil &&
		p.MapProPrice == nil &&
		p.Badge == nil &&
		p.GradingProvider == nil
}
