package pricing

import (
	"fmt"
	"math"
	"time"

	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/tradesphere/quote-engine/internal/model"
)

const hoursPerManDay = 8.0

// Engine prices a confirmed service set against a rate schedule and a
// company's variable configuration.
type Engine struct {
	rates RateSchedule
	terms Terms
}

// NewEngine creates an Engine. Team size defaults to 1 to keep the
// project-days division defined.
func NewEngine(rates RateSchedule, terms Terms) *Engine {
	if terms.TeamSize <= 0 {
		terms.TeamSize = 1
	}
	return &Engine{rates: rates, terms: terms}
}

// evaluation accumulates the resolved effects before they are applied.
// One case per effect type; an unknown type is a hard error so a seventh
// effect type cannot slip through half-implemented.
type evaluation struct {
	laborMultiplier    float64
	materialMultiplier float64
	projectMultiplier  float64
	wastePct           float64
	equipmentDaily     decimal.Decimal
	flatAdditions      decimal.Decimal
}

func newEvaluation() *evaluation {
	return &evaluation{
		laborMultiplier:    1.0,
		materialMultiplier: 1.0,
		projectMultiplier:  1.0,
	}
}

func (ev *evaluation) apply(e Effect) error {
	switch e.Type {
	case model.EffectLaborTimePercentage:
		ev.laborMultiplier *= e.Multiplier()
	case model.EffectMaterialCostMultiplier:
		ev.materialMultiplier *= e.Multiplier()
	case model.EffectTotalProjectMultiplier:
		ev.projectMultiplier *= e.Multiplier()
	case model.EffectCuttingComplexity:
		ev.laborMultiplier *= 1 + e.LaborPercentage/100
		ev.wastePct += e.MaterialWaste
	case model.EffectDailyEquipmentCost:
		ev.equipmentDaily = ev.equipmentDaily.Add(decimal.NewFromFloat(e.Value))
	case model.EffectFlatAdditionalCost:
		ev.flatAdditions = ev.flatAdditions.Add(decimal.NewFromFloat(e.Value))
	default:
		return eris.Errorf("pricing: unhandled effect type %q from %s", e.Type, e.Source)
	}
	return nil
}

// Price runs both calculation tiers. The service set must be complete:
// pricing an incomplete set is rejected before any evaluation begins.
// Monetary intermediates stay unrounded until the output boundary.
func (e *Engine) Price(services []model.ExtractedService, vc model.VariableConfig, selections map[string]string, confidence float64) (*model.PricingResult, error) {
	if err := checkReady(services); err != nil {
		return nil, err
	}

	effects, err := CollectEffects(vc, selections)
	if err != nil {
		return nil, err
	}
	ev := newEvaluation()
	for _, effect := range effects {
		if err := ev.apply(effect); err != nil {
			return nil, err
		}
	}

	// Tier 1: base hours per service unit, then the labor-side effects.
	var baseHours, totalQty float64
	materialBase := decimal.Zero
	var irrigation irrigationCharge

	for _, svc := range services {
		totalQty += svc.Quantity

		if svc.IsSpecial {
			charge := e.priceIrrigation(svc)
			irrigation.cost = irrigation.cost.Add(charge.cost)
			irrigation.hours += charge.hours
			continue
		}

		rate, ok := e.rates.Services[svc.Name]
		if !ok {
			return nil, eris.Errorf("pricing: no rate schedule entry for %q", svc.Name)
		}
		baseHours += svc.Quantity * rate.LaborHoursPerUnit
		materialBase = materialBase.Add(
			decimal.NewFromFloat(rate.MaterialRate).Mul(decimal.NewFromFloat(svc.Quantity)))
	}

	adjustedHours := baseHours * ev.laborMultiplier
	totalManHours := adjustedHours + irrigation.hours
	totalDays := totalManHours / (float64(e.terms.TeamSize) * hoursPerManDay)

	// Tier 2: labor, material (with multipliers and cutting waste),
	// equipment from tier-1 project days, then flat additions.
	laborCost := decimal.NewFromFloat(adjustedHours).Mul(decimal.NewFromFloat(e.terms.HourlyRate))
	materialCost := materialBase.Mul(decimal.NewFromFloat(ev.materialMultiplier)).
		Add(materialBase.Mul(decimal.NewFromFloat(ev.wastePct / 100)))
	equipmentCost := ev.equipmentDaily.Mul(decimal.NewFromFloat(totalDays))

	subtotal := laborCost.Add(materialCost).Add(equipmentCost).Add(ev.flatAdditions)

	// Project multiplier applies before profit; the irrigation schedule
	// joins afterwards, untouched by any generic effect.
	adjustedSubtotal := subtotal.Mul(decimal.NewFromFloat(ev.projectMultiplier)).
		Add(irrigation.cost)

	profit := adjustedSubtotal.Mul(decimal.NewFromFloat(e.terms.ProfitMargin))
	total := adjustedSubtotal.Add(profit)

	pricePerUnit := decimal.Zero
	if totalQty > 0 {
		pricePerUnit = total.Div(decimal.NewFromFloat(totalQty))
	}

	result := &model.PricingResult{
		Tier1: model.Tier1Result{
			TotalManHours:    roundHours(totalManHours),
			TotalDays:        roundHours(totalDays),
			ComplexityFactor: ev.laborMultiplier,
		},
		Tier2: model.Tier2Result{
			LaborCost:     money(laborCost),
			MaterialCost:  money(materialCost),
			EquipmentCost: money(equipmentCost),
			FlatAdditions: money(ev.flatAdditions),
			Subtotal:      money(adjustedSubtotal),
			Profit:        money(profit),
			Total:         money(total),
			PricePerUnit:  money(pricePerUnit),
		},
		Confidence:   confidence,
		CalculatedAt: time.Now().UTC(),
	}

	zap.L().Info("pricing: calculation complete",
		zap.Int("services", len(services)),
		zap.Float64("man_hours", result.Tier1.TotalManHours),
		zap.Float64("total", result.Tier2.Total),
		zap.Float64("confidence", confidence),
	)

	return result, nil
}

// checkReady enforces the pricing precondition: every service complete
// with a positive quantity.
func checkReady(services []model.ExtractedService) error {
	if len(services) == 0 {
		return &NotReadyError{Missing: []string{"at least one service"}}
	}

	var missing []string
	for _, svc := range services {
		if !svc.IsComplete {
			missing = append(missing, svc.MissingInfo...)
			if len(svc.MissingInfo) == 0 {
				missing = append(missing, fmt.Sprintf("confirmation of %s", svc.Name))
			}
		}
		if svc.Quantity <= 0 {
			missing = append(missing, fmt.Sprintf("quantity for %s", svc.Name))
		}
	}
	if len(missing) > 0 {
		return &NotReadyError{Missing: missing}
	}
	return nil
}

// money rounds a monetary value at the output boundary only.
func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

// roundHours rounds hours/days to one decimal at the output boundary.
func roundHours(h float64) float64 {
	return math.Round(h*10) / 10
}
