package estimation

import (
	"math"
	"strings"

	"leadquote_backend/internal/rules/domain"
)

const (
	// engineVersion tracks the estimation logic revision, not the rules
	// data version. Bump when changing estimation behaviour so stored
	// estimates can be re-computed and audited later.
	engineVersion = "2026-v1"

	// Generic per-service fallback range for unrecognized service ids.
	// Deliberately hardcoded rather than configurable: it is the safety
	// net for exactly the case where configuration is wrong.
	fallbackMin = 100.0
	fallbackMax = 300.0

	// Estimates are rounded to the nearest multiple of this.
	roundingUnit = 5.0

	// Submissions with fewer populated answer fields than this are priced
	// on thin signal and capped at low confidence.
	minAnswerFields = 5
)

// Confidence labels how much signal informed an estimate.
type Confidence string

const (
	ConfidenceNone   Confidence = "none"
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// Estimate is a price range with a confidence label. Min and Max are nil
// when the submission requested no services.
type Estimate struct {
	Min           *float64
	Max           *float64
	Confidence    Confidence
	EngineVersion string
}

// ComputeEstimate derives a price range from a submission and the active
// rules configuration.
//
// Confidence ordering matters and is part of the contract: it starts at
// medium, is downgraded by unknown services, upgraded to high by the
// multi-service path, and finally forced to low when fewer than
// minAnswerFields answers are populated. The sparse-answers clamp runs last
// and overrides the multi-service upgrade.
func ComputeEstimate(sub Submission, cfg domain.Configuration) Estimate {
	if len(sub.Services) == 0 {
		return Estimate{Confidence: ConfidenceNone, EngineVersion: engineVersion}
	}

	confidence := ConfidenceMedium
	var totalMin, totalMax float64

	for _, svc := range sub.Services {
		pricing, ok := cfg.ServicePricing[strings.ToLower(strings.TrimSpace(svc))]
		if !ok {
			// Unknown service: generic fallback pricing, thin signal.
			totalMin += fallbackMin
			totalMax += fallbackMax
			confidence = ConfidenceLow
			continue
		}

		r := pricing.RangeFor(classifySize(sub.Answers))
		totalMin += r.Min
		totalMax += r.Max
	}

	multiplier := modifierMultiplier(sub.Answers, cfg.Modifiers)
	totalMin *= multiplier
	totalMax *= multiplier

	if len(sub.Services) >= cfg.MultiServiceDiscount.Threshold {
		totalMin *= cfg.MultiServiceDiscount.Discount
		totalMax *= cfg.MultiServiceDiscount.Discount
		// More services means more pricing signal, not less: discount
		// eligibility and the confidence upgrade are coupled.
		confidence = ConfidenceHigh
	}

	totalMin = roundToNearest(totalMin, roundingUnit)
	totalMax = roundToNearest(totalMax, roundingUnit)

	// Final clamp: sparse input overrides any earlier upgrade.
	if sub.Answers.PopulatedCount() < minAnswerFields {
		confidence = ConfidenceLow
	}

	return Estimate{
		Min:           &totalMin,
		Max:           &totalMax,
		Confidence:    confidence,
		EngineVersion: engineVersion,
	}
}

// roundToNearest rounds to the nearest multiple of unit. Rounding is
// monotone, so a min <= max pair can never invert.
func roundToNearest(v, unit float64) float64 {
	return math.Round(v/unit) * unit
}
