package catalog

import "github.com/gridboard/gridboard/internal/model"

// plans mirrors the tier quota table; MaxFeatures must agree with
// model.FeatureLimits.
var plans = []model.SubscriptionPlan{
	{
		ID:       model.TierFree,
		Name:     "Free",
		Price:    0,
		Currency: "USD",
		Features: []string{
			"Up to 4 dashboard widgets",
			"Core stats and calendar",
		},
		MaxFeatures: 4,
	},
	{
		ID:       model.TierPaid,
		Name:     "Pro",
		Price:    9.99,
		Currency: "USD",
		Features: []string{
			"Up to 10 dashboard widgets",
			"Premium widgets",
			"Custom themes",
		},
		MaxFeatures: 10,
		IsPopular:   true,
	},
	{
		ID:       model.TierEnterprise,
		Name:     "Enterprise",
		Price:    49.99,
		Currency: "USD",
		Features: []string{
			"Unlimited dashboard widgets",
			"Premium widgets",
			"Priority support",
		},
		MaxFeatures: model.UnlimitedFeatures,
	},
}

// Plans returns the available subscription plans in display order.
func Plans() []model.SubscriptionPlan {
	out := make([]model.SubscriptionPlan, len(plans))
	copy(out, plans)
	return out
}
