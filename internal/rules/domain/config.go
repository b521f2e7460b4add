// Package domain defines the estimation rules configuration: pricing tables,
// modifier multipliers, discount rules, scoring weights, qualification
// thresholds and conversion-likelihood factors. The active configuration is
// always the compiled-in defaults with an optional stored override merged on
// top, so a partial override can never remove a default field.
package domain

import (
	"fmt"

	"leadquote_backend/platform/validator"
)

// Size bucket identifiers used by the pricing tables.
const (
	SizeSmall  = "small"
	SizeMedium = "medium"
	SizeLarge  = "large"
)

// Qualification tier identifiers. ConversionFactors is keyed by these.
const (
	TierHot         = "hot"
	TierWarm        = "warm"
	TierCold        = "cold"
	TierUnqualified = "unqualified"
)

// PriceRange is a [min, max] currency pair.
type PriceRange struct {
	Min float64 `json:"min" yaml:"min" validate:"gte=0"`
	Max float64 `json:"max" yaml:"max" validate:"gtefield=Min"`
}

// IsZero reports whether the range carries no pricing signal.
func (r PriceRange) IsZero() bool {
	return r.Min == 0 && r.Max == 0
}

// ServicePricing holds per-size price ranges for one service, with a default
// range for sizes that have no explicit entry.
type ServicePricing struct {
	Small   PriceRange `json:"small" yaml:"small"`
	Medium  PriceRange `json:"medium" yaml:"medium"`
	Large   PriceRange `json:"large" yaml:"large"`
	Default PriceRange `json:"default" yaml:"default"`
}

// RangeFor returns the price range for a size bucket, falling back to the
// service default when the bucket has no explicit entry.
func (p ServicePricing) RangeFor(size string) PriceRange {
	var r PriceRange
	switch size {
	case SizeSmall:
		r = p.Small
	case SizeMedium:
		r = p.Medium
	case SizeLarge:
		r = p.Large
	}
	if r.IsZero() {
		return p.Default
	}
	return r
}

// Modifiers are multiplicative price adjustments driven by free-text signals.
// A submission can trigger several at once; they compose multiplicatively.
type Modifiers struct {
	FirstTimeCleaning float64 `json:"firstTimeCleaning" yaml:"firstTimeCleaning" validate:"gt=0"`
	HeavilySoiled     float64 `json:"heavilySoiled" yaml:"heavilySoiled" validate:"gt=0"`
	DifficultAccess   float64 `json:"difficultAccess" yaml:"difficultAccess" validate:"gt=0"`
	HeightWork        float64 `json:"heightWork" yaml:"heightWork" validate:"gt=0"`
	Urgent            float64 `json:"urgent" yaml:"urgent" validate:"gt=0"`
}

// MultiServiceDiscount applies when a submission requests at least Threshold
// services.
type MultiServiceDiscount struct {
	Threshold int     `json:"threshold" yaml:"threshold" validate:"gte=2"`
	Discount  float64 `json:"discount" yaml:"discount" validate:"gt=0,lte=1"`
}

// LeadScoring holds the base score and the independent additive bonuses.
type LeadScoring struct {
	BaseScore int `json:"baseScore" yaml:"baseScore" validate:"gt=0,lte=100"`

	HighValueThreshold     float64 `json:"highValueThreshold" yaml:"highValueThreshold" validate:"gte=0"`
	HighValueBonus         int     `json:"highValueBonus" yaml:"highValueBonus" validate:"gte=0"`
	VeryHighValueThreshold float64 `json:"veryHighValueThreshold" yaml:"veryHighValueThreshold" validate:"gte=0"`
	VeryHighValueBonus     int     `json:"veryHighValueBonus" yaml:"veryHighValueBonus" validate:"gte=0"`

	TwoServicesBonus  int `json:"twoServicesBonus" yaml:"twoServicesBonus" validate:"gte=0"`
	ManyServicesBonus int `json:"manyServicesBonus" yaml:"manyServicesBonus" validate:"gte=0"`

	RemindersBonus          int `json:"remindersBonus" yaml:"remindersBonus" validate:"gte=0"`
	PhonePreferenceBonus    int `json:"phonePreferenceBonus" yaml:"phonePreferenceBonus" validate:"gte=0"`
	EmailPreferenceBonus    int `json:"emailPreferenceBonus" yaml:"emailPreferenceBonus" validate:"gte=0"`
	CommercialPropertyBonus int `json:"commercialPropertyBonus" yaml:"commercialPropertyBonus" validate:"gte=0"`
	UrgencyBonus            int `json:"urgencyBonus" yaml:"urgencyBonus" validate:"gte=0"`
}

// QualificationThresholds classify a rounded score by descending comparison,
// first matching threshold wins. Invariant: Hot > Warm > Cold.
type QualificationThresholds struct {
	Hot  int `json:"hot" yaml:"hot" validate:"gte=0,lte=100"`
	Warm int `json:"warm" yaml:"warm" validate:"gte=0,lte=100"`
	Cold int `json:"cold" yaml:"cold" validate:"gte=0,lte=100"`
}

// Configuration is the full versioned rules configuration.
type Configuration struct {
	ServicePricing          map[string]ServicePricing `json:"servicePricing" yaml:"servicePricing" validate:"dive"`
	Modifiers               Modifiers                 `json:"modifiers" yaml:"modifiers"`
	MultiServiceDiscount    MultiServiceDiscount      `json:"multiServiceDiscount" yaml:"multiServiceDiscount"`
	LeadScoring             LeadScoring               `json:"leadScoring" yaml:"leadScoring"`
	QualificationThresholds QualificationThresholds   `json:"qualificationThresholds" yaml:"qualificationThresholds"`
	ConversionFactors       map[string]float64        `json:"conversionFactors" yaml:"conversionFactors" validate:"dive,gte=0,lte=1"`
}

// Sections lists the top-level configuration sections in a stable order,
// matching the JSON keys used for persistence and change records.
func Sections() []string {
	return []string{
		"servicePricing",
		"modifiers",
		"multiServiceDiscount",
		"leadScoring",
		"qualificationThresholds",
		"conversionFactors",
	}
}

// Validate checks a configuration before it may be persisted. Tag-level
// checks run first, then the cross-field invariants the tags cannot express.
func Validate(val *validator.Validator, cfg Configuration) error {
	if err := val.Struct(cfg); err != nil {
		return err
	}

	for id, pricing := range cfg.ServicePricing {
		if pricing.Default.IsZero() {
			return fmt.Errorf("servicePricing[%s]: default range is required", id)
		}
	}

	t := cfg.QualificationThresholds
	if !(t.Hot > t.Warm && t.Warm > t.Cold) {
		return fmt.Errorf("qualificationThresholds: hot (%d) > warm (%d) > cold (%d) must hold", t.Hot, t.Warm, t.Cold)
	}

	if cfg.LeadScoring.VeryHighValueThreshold < cfg.LeadScoring.HighValueThreshold {
		return fmt.Errorf("leadScoring: veryHighValueThreshold must not be below highValueThreshold")
	}

	return nil
}
