package estimation

import "leadquote_backend/internal/rules/domain"

// Keyword tables for the free-text classifiers. Matching is lowercase
// substring containment throughout.
var (
	smallSizeHints = []string{"small", "compact"}
	largeSizeHints = []string{"large", "big"}

	commercialSignals   = []string{"commercial", "business", "office", "shop"}
	smallPropertyTypes  = []string{"bungalow", "flat", "apartment"}
	mediumPropertyTypes = []string{"semi", "terrace"}
	largePropertyTypes  = []string{"detached"}

	firstTimeSignals = []string{"never", "year"}
	soilingSignals   = []string{"very dirty", "heavily soiled", "moss", "algae", "stained"}
	accessSignals    = []string{"difficult", "restricted", "narrow", "limited", "steep", "no access"}
	heightSignals    = []string{"storey", "stories", "scaffold", "high roof", "height"}
	urgencySignals   = []string{"urgent", "asap", "as soon as", "quickly", "immediate"}
)

// classifySize infers the property size bucket from the answers. An explicit
// size hint wins; otherwise the property-type text is consulted; medium is
// the fallback when nothing matches.
func classifySize(answers *Answers) string {
	if hint := text(answers.sizeHint()); hint != "" {
		switch {
		case containsAny(hint, smallSizeHints):
			return domain.SizeSmall
		case containsAny(hint, largeSizeHints):
			return domain.SizeLarge
		default:
			return domain.SizeMedium
		}
	}

	propertyType := text(answers.propertyType())
	switch {
	case containsAny(propertyType, commercialSignals):
		return domain.SizeLarge
	case containsAny(propertyType, smallPropertyTypes):
		return domain.SizeSmall
	// "semi" must win over "detached": a semi-detached mentions both.
	case containsAny(propertyType, mediumPropertyTypes):
		return domain.SizeMedium
	case containsAny(propertyType, largePropertyTypes):
		return domain.SizeLarge
	default:
		return domain.SizeMedium
	}
}

// modifierMultiplier detects modifier-triggering language in the free-text
// answers and composes the matching multipliers. Conditions are evaluated
// independently; several can fire on one submission.
func modifierMultiplier(answers *Answers, mods domain.Modifiers) float64 {
	multiplier := 1.0
	if answers == nil {
		return multiplier
	}

	recency := text(answers.LastCleaned)
	details := text(answers.SpecificDetails)
	access := text(answers.AccessNotes)

	if containsAny(recency, firstTimeSignals) {
		multiplier *= mods.FirstTimeCleaning
	}
	if containsAny(details, soilingSignals) {
		multiplier *= mods.HeavilySoiled
	}
	if containsAny(access, accessSignals) {
		multiplier *= mods.DifficultAccess
	}
	if containsAny(access, heightSignals) || containsAny(details, heightSignals) {
		multiplier *= mods.HeightWork
	}
	if containsAny(details, urgencySignals) {
		multiplier *= mods.Urgent
	}

	return multiplier
}

// nil-safe field accessors; classification must tolerate absent answers.

func (a *Answers) sizeHint() *string {
	if a == nil {
		return nil
	}
	return a.RoughSize
}

func (a *Answers) propertyType() *string {
	if a == nil {
		return nil
	}
	return a.PropertyType
}
