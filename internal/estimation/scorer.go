package estimation

import (
	"fmt"
	"math"

	"leadquote_backend/internal/rules/domain"
)

// alertScoreFloor is the minimum score for an admin alert. A hot
// classification alone is not enough: with a mis-tuned low hot threshold the
// tier would fire on mediocre leads, so the alert requires both conditions.
const alertScoreFloor = 85

// Qualification is the categorical lead-quality tier.
type Qualification string

const (
	QualificationHot         Qualification = domain.TierHot
	QualificationWarm        Qualification = domain.TierWarm
	QualificationCold        Qualification = domain.TierCold
	QualificationUnqualified Qualification = domain.TierUnqualified
)

// ScoreResult is the lead-quality output for a submission.
type ScoreResult struct {
	Score                int
	Qualification        Qualification
	ConversionLikelihood float64
	// Reasons lists the signals that fired, in evaluation order. The
	// order is part of the contract, not incidental: it mirrors the
	// order the bonuses are applied.
	Reasons []string
}

var phoneSignals = []string{"phone", "call"}
var emailSignals = []string{"email"}

// ComputeScore derives a 0-100 lead score, a qualification tier, and a
// conversion likelihood from a submission and its estimate. Bonuses are
// independent and additive; within each group only the single best-matching
// bonus applies.
func ComputeScore(sub Submission, est Estimate, cfg domain.Configuration) ScoreResult {
	ls := cfg.LeadScoring
	score := float64(ls.BaseScore)
	var reasons []string

	// Estimate value tier: only the best-matching tier applies.
	if est.Max != nil {
		switch {
		case *est.Max > ls.VeryHighValueThreshold:
			score += float64(ls.VeryHighValueBonus)
			reasons = append(reasons, fmt.Sprintf("estimated value above %.0f", ls.VeryHighValueThreshold))
		case *est.Max > ls.HighValueThreshold:
			score += float64(ls.HighValueBonus)
			reasons = append(reasons, fmt.Sprintf("estimated value above %.0f", ls.HighValueThreshold))
		}
	}

	switch n := len(sub.Services); {
	case n >= 3:
		score += float64(ls.ManyServicesBonus)
		reasons = append(reasons, fmt.Sprintf("%d services requested", n))
	case n == 2:
		score += float64(ls.TwoServicesBonus)
		reasons = append(reasons, "two services requested")
	}

	if sub.RemindersOptIn != nil && *sub.RemindersOptIn {
		score += float64(ls.RemindersBonus)
		reasons = append(reasons, "opted in to reminders")
	}

	contact := text(sub.PreferredContact)
	switch {
	case containsAny(contact, phoneSignals):
		score += float64(ls.PhonePreferenceBonus)
		reasons = append(reasons, "prefers phone contact")
	case containsAny(contact, emailSignals):
		score += float64(ls.EmailPreferenceBonus)
		reasons = append(reasons, "prefers email contact")
	}

	if containsAny(text(sub.Answers.propertyType()), commercialSignals) {
		score += float64(ls.CommercialPropertyBonus)
		reasons = append(reasons, "commercial property")
	}

	freeText := combinedFreeText(sub.Answers)
	if containsAny(freeText, urgencySignals) {
		score += float64(ls.UrgencyBonus)
		reasons = append(reasons, "urgency language detected")
	}

	// All terms are non-negative and the base score is positive, so only
	// the upper bound needs clamping.
	if score > 100 {
		score = 100
	}
	rounded := int(math.Round(score))

	qualification := qualify(rounded, cfg.QualificationThresholds)

	return ScoreResult{
		Score:                rounded,
		Qualification:        qualification,
		ConversionLikelihood: cfg.ConversionFactors[string(qualification)],
		Reasons:              reasons,
	}
}

// ShouldAlertAdmin reports whether a lead warrants an immediate admin alert.
func ShouldAlertAdmin(score int, qualification Qualification) bool {
	return qualification == QualificationHot && score >= alertScoreFloor
}

// qualify classifies a rounded score against the thresholds in descending
// order; the first matching threshold wins and comparisons are >=.
func qualify(score int, t domain.QualificationThresholds) Qualification {
	switch {
	case score >= t.Hot:
		return QualificationHot
	case score >= t.Warm:
		return QualificationWarm
	case score >= t.Cold:
		return QualificationCold
	default:
		return QualificationUnqualified
	}
}

// combinedFreeText joins the free-text detail fields for urgency matching.
func combinedFreeText(a *Answers) string {
	if a == nil {
		return ""
	}
	return text(a.SpecificDetails) + " " + text(a.AccessNotes)
}
