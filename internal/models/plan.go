package models

type PlanTier string

const (
	PlanFree    PlanTier = "free"
	PlanBasic   PlanTier = "basic"
	PlanPro     PlanTier = "pro"
	PlanPremium PlanTier = "premium"
)

// Plan fixes the limits an event inherits at creation time. The values are
// snapshotted onto the event row, so later plan changes never affect
// existing events.
type Plan struct {
	Tier          PlanTier `json:"tier"`
	PhotoLimit    int      `json:"photo_limit"`
	ValidityDays  int      `json:"validity_days"`
	HasCloudAlbum bool     `json:"has_cloud_album"`
	Price         float64  `json:"price"`
}

var planCatalog = map[PlanTier]Plan{
	PlanFree:    {Tier: PlanFree, PhotoLimit: 30, ValidityDays: 7, HasCloudAlbum: false, Price: 0},
	PlanBasic:   {Tier: PlanBasic, PhotoLimit: 100, ValidityDays: 14, HasCloudAlbum: true, Price: 19.99},
	PlanPro:     {Tier: PlanPro, PhotoLimit: 300, ValidityDays: 30, HasCloudAlbum: true, Price: 49.99},
	PlanPremium: {Tier: PlanPremium, PhotoLimit: 1000, ValidityDays: 90, HasCloudAlbum: true, Price: 99.99},
}

func PlanByTier(tier PlanTier) (Plan, bool) {
	plan, ok := planCatalog[tier]
	return plan, ok
}

func AllPlans() []Plan {
	return []Plan{
		planCatalog[PlanFree],
		planCatalog[PlanBasic],
		planCatalog[PlanPro],
		planCatalog[PlanPremium],
	}
}
