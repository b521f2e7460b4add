package domain

// Defaults returns the compiled-in rules configuration. This is the
// configuration served whenever no stored override exists or the store is
// unavailable, and the base every stored override is merged onto.
func Defaults() Configuration {
	return Configuration{
		ServicePricing: map[string]ServicePricing{
			"roof": {
				Small:   PriceRange{Min: 250, Max: 400},
				Medium:  PriceRange{Min: 400, Max: 600},
				Large:   PriceRange{Min: 600, Max: 900},
				Default: PriceRange{Min: 400, Max: 600},
			},
			"gutter": {
				Small:   PriceRange{Min: 60, Max: 100},
				Medium:  PriceRange{Min: 80, Max: 140},
				Large:   PriceRange{Min: 120, Max: 200},
				Default: PriceRange{Min: 80, Max: 140},
			},
			"driveway": {
				Small:   PriceRange{Min: 80, Max: 150},
				Medium:  PriceRange{Min: 150, Max: 250},
				Large:   PriceRange{Min: 250, Max: 400},
				Default: PriceRange{Min: 150, Max: 250},
			},
			"windows": {
				Small:   PriceRange{Min: 40, Max: 80},
				Medium:  PriceRange{Min: 70, Max: 120},
				Large:   PriceRange{Min: 100, Max: 180},
				Default: PriceRange{Min: 70, Max: 120},
			},
			"patio": {
				Small:   PriceRange{Min: 60, Max: 120},
				Medium:  PriceRange{Min: 100, Max: 180},
				Large:   PriceRange{Min: 160, Max: 280},
				Default: PriceRange{Min: 100, Max: 180},
			},
			"conservatory": {
				Small:   PriceRange{Min: 80, Max: 140},
				Medium:  PriceRange{Min: 120, Max: 200},
				Large:   PriceRange{Min: 180, Max: 300},
				Default: PriceRange{Min: 120, Max: 200},
			},
			"solar-panels": {
				Small:   PriceRange{Min: 70, Max: 120},
				Medium:  PriceRange{Min: 100, Max: 160},
				Large:   PriceRange{Min: 150, Max: 250},
				Default: PriceRange{Min: 100, Max: 160},
			},
		},
		Modifiers: Modifiers{
			FirstTimeCleaning: 1.2,
			HeavilySoiled:     1.3,
			DifficultAccess:   1.25,
			HeightWork:        1.15,
			Urgent:            1.1,
		},
		MultiServiceDiscount: MultiServiceDiscount{
			Threshold: 2,
			Discount:  0.9,
		},
		LeadScoring: LeadScoring{
			BaseScore:               30,
			HighValueThreshold:      500,
			HighValueBonus:          15,
			VeryHighValueThreshold:  1000,
			VeryHighValueBonus:      25,
			TwoServicesBonus:        10,
			ManyServicesBonus:       20,
			RemindersBonus:          5,
			PhonePreferenceBonus:    10,
			EmailPreferenceBonus:    5,
			CommercialPropertyBonus: 15,
			UrgencyBonus:            10,
		},
		QualificationThresholds: QualificationThresholds{
			Hot:  70,
			Warm: 50,
			Cold: 30,
		},
		ConversionFactors: map[string]float64{
			TierHot:         0.65,
			TierWarm:        0.40,
			TierCold:        0.20,
			TierUnqualified: 0.08,
		},
	}
}
