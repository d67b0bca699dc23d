package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/tradesphere/quote-engine/internal/model"
)

// irrigationCharge is the dedicated-schedule output for one special
// service: a cost that joins the subtotal after all generic effects, and
// the labor hours that feed the tier-1 totals.
type irrigationCharge struct {
	cost  decimal.Decimal
	hours float64
}

// priceIrrigation applies the per-zone/per-setup rate schedule. None of
// the six generic effect types touch these figures.
func (e *Engine) priceIrrigation(svc model.ExtractedService) irrigationCharge {
	rates := e.rates.Irrigation

	req := svc.SpecialRequirements
	if req == nil {
		req = &model.SpecialRequirements{}
	}

	cost := decimal.NewFromFloat(rates.TurfZoneRate).Mul(decimal.NewFromInt(int64(req.Zones.Turf))).
		Add(decimal.NewFromFloat(rates.DripZoneRate).Mul(decimal.NewFromInt(int64(req.Zones.Drip))))
	hours := float64(req.Zones.Total) * rates.HoursPerZone

	if req.SetupRequired {
		cost = cost.Add(decimal.NewFromFloat(rates.SetupRate))
		hours += rates.SetupHours
	}
	if req.Boring != nil && *req.Boring {
		cost = cost.Add(decimal.NewFromFloat(rates.BoringRate))
		hours += rates.BoringHours
	}

	return irrigationCharge{cost: cost, hours: hours}
}
