package pricing

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrBelowMinimumPurchase = errors.New("below minimum purchase")
	ErrInvalidQuantity      = errors.New("quantity must be positive")
	ErrInvalidConfig        = errors.New("invalid pricing config")
)

// BelowMinimumError carries the configured minimum so callers can prompt
// the dealer to raise the quantity.
type BelowMinimumError struct {
	MinQuantity int64
}

func (e *BelowMinimumError) Error() string {
	return fmt.Sprintf("minimum purchase is %d leads", e.MinQuantity)
}

func (e *BelowMinimumError) Is(target error) bool {
	return target == ErrBelowMinimumPurchase
}

// DiscountTier applies Percent off to the units at or above MinQuantity.
// Tiers are marginal (like tax brackets): a unit is discounted at the
// rate of the tier it falls in, so the total never drops when quantity
// crosses a tier boundary.
type DiscountTier struct {
	MinQuantity int64
	Percent     int64
}

// Config is the tunable part of the engine. The upstream discount curve
// lives in an opaque stored procedure; these defaults are documented
// assumptions, not recovered business rules.
type Config struct {
	BaseUnitPrice          int64 // whole rupees per lead
	MinQuantity            int64
	GSTRatePercent         int64
	FilterSurchargePercent int64
	DiscountTiers          []DiscountTier
}

func DefaultTiers() []DiscountTier {
	return []DiscountTier{
		{MinQuantity: 250, Percent: 5},
		{MinQuantity: 500, Percent: 10},
		{MinQuantity: 1000, Percent: 15},
	}
}

// Breakdown is the quote returned to the caller. All amounts are whole
// rupees; the gateway layer converts the total to paise.
type Breakdown struct {
	BaseUnitPrice int64 `json:"base_unit_price"`
	HasFilters    bool  `json:"has_filters"`
	PerLeadPrice  int64 `json:"per_lead_price"`
	Quantity      int64 `json:"quantity"`
	Subtotal      int64 `json:"subtotal"`
	BulkDiscount  int64 `json:"bulk_discount"`
	GSTAmount     int64 `json:"gst_amount"`
	TotalPrice    int64 `json:"total_price"`
	MinQuantity   int64 `json:"min_quantity"`
}

// Engine computes price breakdowns. It is a pure function of its config:
// no clock, no storage, so the quote step and the purchase step reconcile
// on identical arithmetic.
type Engine struct {
	cfg Config
}

func NewEngine(cfg Config) (*Engine, error) {
	if cfg.BaseUnitPrice <= 0 || cfg.MinQuantity <= 0 {
		return nil, ErrInvalidConfig
	}
	if cfg.GSTRatePercent < 0 || cfg.GSTRatePercent >= 100 {
		return nil, ErrInvalidConfig
	}
	if cfg.FilterSurchargePercent < 0 {
		return nil, ErrInvalidConfig
	}

	tiers := make([]DiscountTier, len(cfg.DiscountTiers))
	copy(tiers, cfg.DiscountTiers)
	sort.Slice(tiers, func(i, j int) bool { return tiers[i].MinQuantity < tiers[j].MinQuantity })
	for i, t := range tiers {
		if t.MinQuantity <= 0 || t.Percent < 0 || t.Percent >= 100 {
			return nil, ErrInvalidConfig
		}
		// Non-decreasing rates keep the effective unit price monotone.
		if i > 0 && t.Percent < tiers[i-1].Percent {
			return nil, ErrInvalidConfig
		}
	}
	cfg.DiscountTiers = tiers

	return &Engine{cfg: cfg}, nil
}

func (e *Engine) MinQuantity() int64 {
	return e.cfg.MinQuantity
}

// Calculate prices a pack of `quantity` leads under `filters`.
func (e *Engine) Calculate(filters Filters, quantity int64) (Breakdown, error) {
	if quantity <= 0 {
		return Breakdown{}, ErrInvalidQuantity
	}
	if quantity < e.cfg.MinQuantity {
		return Breakdown{}, &BelowMinimumError{MinQuantity: e.cfg.MinQuantity}
	}

	filters = filters.Normalize()
	hasFilters := filters.HasAny()

	perLead := e.cfg.BaseUnitPrice
	if hasFilters {
		perLead += e.cfg.BaseUnitPrice * e.cfg.FilterSurchargePercent / 100
	}

	subtotal := perLead * quantity
	discount := e.marginalDiscount(perLead, quantity)
	discounted := subtotal - discount
	gst := discounted * e.cfg.GSTRatePercent / 100
	total := discounted + gst

	return Breakdown{
		BaseUnitPrice: e.cfg.BaseUnitPrice,
		HasFilters:    hasFilters,
		PerLeadPrice:  perLead,
		Quantity:      quantity,
		Subtotal:      subtotal,
		BulkDiscount:  discount,
		GSTAmount:     gst,
		TotalPrice:    total,
		MinQuantity:   e.cfg.MinQuantity,
	}, nil
}

// marginalDiscount sums per-bracket discounts: units below the first tier
// pay full price, units inside a tier get that tier's rate.
func (e *Engine) marginalDiscount(perLead, quantity int64) int64 {
	var discount int64
	for i, tier := range e.cfg.DiscountTiers {
		if quantity < tier.MinQuantity {
			break
		}
		upper := quantity + 1
		if i+1 < len(e.cfg.DiscountTiers) && e.cfg.DiscountTiers[i+1].MinQuantity <= quantity {
			upper = e.cfg.DiscountTiers[i+1].MinQuantity
		}
		units := upper - tier.MinQuantity
		discount += units * perLead * tier.Percent / 100
	}
	return discount
}
