package domain

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestMergeWithDefaults_PartialOverrideKeepsDefaults(t *testing.T) {
	override := []byte(`{
		"servicePricing": {
			"roof": {"large": {"min": 700, "max": 1000}}
		},
		"modifiers": {"urgent": 1.5}
	}`)

	cfg, err := MergeWithDefaults(override)
	if err != nil {
		t.Fatalf("unexpected merge error: %v", err)
	}

	// Overridden keys take effect.
	if cfg.ServicePricing["roof"].Large.Min != 700 || cfg.ServicePricing["roof"].Large.Max != 1000 {
		t.Fatalf("expected roof large 700-1000, got %+v", cfg.ServicePricing["roof"].Large)
	}
	if cfg.Modifiers.Urgent != 1.5 {
		t.Fatalf("expected urgent modifier 1.5, got %v", cfg.Modifiers.Urgent)
	}

	// Sibling keys inside overridden sections keep their defaults.
	defaults := Defaults()
	if cfg.ServicePricing["roof"].Small != defaults.ServicePricing["roof"].Small {
		t.Fatalf("expected roof small to keep default, got %+v", cfg.ServicePricing["roof"].Small)
	}
	if cfg.ServicePricing["gutter"] != defaults.ServicePricing["gutter"] {
		t.Fatalf("expected gutter pricing to keep default, got %+v", cfg.ServicePricing["gutter"])
	}
	if cfg.Modifiers.HeavilySoiled != defaults.Modifiers.HeavilySoiled {
		t.Fatalf("expected heavily-soiled modifier to keep default, got %v", cfg.Modifiers.HeavilySoiled)
	}

	// Untouched sections survive wholesale.
	if !reflect.DeepEqual(cfg.LeadScoring, defaults.LeadScoring) {
		t.Fatalf("expected lead scoring to keep defaults, got %+v", cfg.LeadScoring)
	}
	if !reflect.DeepEqual(cfg.QualificationThresholds, defaults.QualificationThresholds) {
		t.Fatalf("expected thresholds to keep defaults, got %+v", cfg.QualificationThresholds)
	}
}

func TestMergeWithDefaults_MalformedOverride(t *testing.T) {
	if _, err := MergeWithDefaults([]byte(`{"servicePricing": [`)); err == nil {
		t.Fatal("expected an error for malformed JSON")
	}
}

func TestMergeWithDefaults_FullRoundTrip(t *testing.T) {
	original := Defaults()
	original.QualificationThresholds.Hot = 80
	original.ConversionFactors[TierHot] = 0.7

	payload, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	cfg, err := MergeWithDefaults(payload)
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if !reflect.DeepEqual(cfg, original) {
		t.Fatalf("expected round-trip to preserve configuration\nwant %+v\ngot  %+v", original, cfg)
	}
}

func TestMergeWithDefaults_UnknownServiceIDsSurvive(t *testing.T) {
	override := []byte(`{"servicePricing": {"chimney": {"default": {"min": 90, "max": 150}}}}`)

	cfg, err := MergeWithDefaults(override)
	if err != nil {
		t.Fatalf("unexpected merge error: %v", err)
	}
	if cfg.ServicePricing["chimney"].Default.Min != 90 {
		t.Fatalf("expected new service id to merge in, got %+v", cfg.ServicePricing["chimney"])
	}
	if _, ok := cfg.ServicePricing["roof"]; !ok {
		t.Fatal("expected default service ids to remain")
	}
}
