// Package service implements the verification workflow engine: pricing,
// request gating, applications, submissions, and report access.
package service

import (
	"math"
	"strconv"
	"strings"

	"accessly/internal/models"
)

// ResolveVerificationPriceCents computes the cost of a verification request
// from a business's membership tier, in cents. The tier's explicit
// verification price wins; the membership price is the fallback. Absent,
// nil, or unparseable values resolve to zero so a malformed tier can never
// block a request from being recorded.
func ResolveVerificationPriceCents(tier *models.MembershipTier) int64 {
	if tier == nil {
		return 0
	}
	if cents, ok := parsePriceCents(tier.VerificationPrice); ok {
		return cents
	}
	if cents, ok := parsePriceCents(tier.MembershipPrice); ok {
		return cents
	}
	return 0
}

func parsePriceCents(raw *string) (int64, bool) {
	if raw == nil {
		return 0, false
	}
	s := strings.TrimSpace(*raw)
	if s == "" {
		return 0, false
	}
	amount, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(amount) || math.IsInf(amount, 0) || amount < 0 {
		return 0, false
	}
	return int64(math.Round(amount * 100)), true
}

// Tier capabilities gating non-core listing features.
const (
	TierCapabilityPhotoGallery    = "photo_gallery"
	TierCapabilityAnalytics       = "analytics"
	TierCapabilityPrioritySupport = "priority_support"
)

// FeaturesForTier returns the set of listing capabilities a membership tier
// unlocks. The mapping lives with the pricing collaborator; the Business
// entity never embeds it.
func FeaturesForTier(tier *models.MembershipTier) map[string]bool {
	caps := map[string]bool{}
	if tier == nil {
		return caps
	}
	switch strings.ToLower(tier.Name) {
	case "premium":
		caps[TierCapabilityPhotoGallery] = true
		caps[TierCapabilityAnalytics] = true
		caps[TierCapabilityPrioritySupport] = true
	case "standard":
		caps[TierCapabilityPhotoGallery] = true
		caps[TierCapabilityAnalytics] = true
	case "basic":
		caps[TierCapabilityPhotoGallery] = true
	}
	return caps
}
