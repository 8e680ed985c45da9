// Package model defines domain entities for the application.
package model

import "time"

// SubscriptionTier constants.
const (
	TierFree       = "free"
	TierPaid       = "paid"
	TierEnterprise = "enterprise"
)

// UserType constants.
const (
	UserTypeNormal     = "normal"
	UserTypeEnterprise = "enterprise"
)

// UnlimitedFeatures is the sentinel quota for tiers with no enablement limit.
const UnlimitedFeatures = -1

// defaultFeatureLimit is the conservative quota applied to unknown tiers.
const defaultFeatureLimit = 4

// FeatureLimits maps subscription tiers to the maximum number of
// simultaneously enabled widgets.
var FeatureLimits = map[string]int{
	TierFree:       4,
	TierPaid:       10,
	TierEnterprise: UnlimitedFeatures,
}

// FeatureLimit returns the widget enablement quota for a tier.
// Unknown tiers get the free-tier quota.
func FeatureLimit(tier string) int {
	if limit, ok := FeatureLimits[tier]; ok {
		return limit
	}
	return defaultFeatureLimit
}

// User represents an account with profile and entitlement fields.
type User struct {
	ID               string    `json:"id"`
	Email            string    `json:"email"`
	Name             string    `json:"name"`
	ProfilePicture   string    `json:"profilePicture,omitempty"`
	UserType         string    `json:"userType"`
	SubscriptionTier string    `json:"subscriptionTier"`
	PasswordHash     string    `json:"-"` // Never serialize
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// FeatureLimit returns the enablement quota for the user's tier.
// A nil user has no customizable layout and gets a quota of zero.
func (u *User) FeatureLimit() int {
	if u == nil {
		return 0
	}
	return FeatureLimit(u.SubscriptionTier)
}

// IsValidTier reports whether the tier is one of the known values.
func IsValidTier(tier string) bool {
	_, ok := FeatureLimits[tier]
	return ok
}

// IsValidUserType reports whether the user type is one of the known values.
func IsValidUserType(userType string) bool {
	return userType == UserTypeNormal || userType == UserTypeEnterprise
}

// TierForUserType returns the subscription tier assigned at registration.
func TierForUserType(userType string) string {
	if userType == UserTypeEnterprise {
		return TierEnterprise
	}
	return TierFree
}
