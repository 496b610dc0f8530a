package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Recommendable entity types.
const (
	EntityCreator     = "creator"
	EntityOpportunity = "opportunity"
	EntityPartner     = "partner"
	EntityContent     = "content"
)

// AllEntityTypes in stable order (used when a request does not narrow types).
func AllEntityTypes() []string {
	return []string{EntityCreator, EntityOpportunity, EntityPartner, EntityContent}
}

// Candidate is a read-only snapshot of a catalog entity eligible to be
// recommended. The engine never writes candidates back.
type Candidate struct {
	ID         string   `json:"id"`
	Type       string   `json:"type"`
	Name       string   `json:"name"`
	Categories []string `json:"categories"`

	City    string `json:"city,omitempty"`
	Region  string `json:"region,omitempty"`
	Country string `json:"country,omitempty"`

	// engagement rate in [0,1], rating in [0,5], completed volume
	EngagementRate float64 `json:"engagement_rate"`
	Rating         float64 `json:"rating"`
	Volume         int     `json:"volume"`

	// audience composition (optional; zero values mean unknown)
	AudienceAgeCenter   int      `json:"audience_age_center,omitempty"`
	AudienceFemaleShare float64  `json:"audience_female_share,omitempty"`
	AudienceInterests   []string `json:"audience_interests,omitempty"`

	Price      float64 `json:"price,omitempty"`
	Verified   bool    `json:"verified"`
	Premium    bool    `json:"premium"`
	Popularity float64 `json:"popularity"`
}

// CatalogFilter narrows a catalog fetch. Empty fields are ignored.
type CatalogFilter struct {
	Categories []string
	Country    string
	MaxPrice   float64
}

// ---- catalog rows ----

type Creator struct {
	ID                  string                      `gorm:"column:id;primaryKey" json:"id"`
	Name                string                      `gorm:"column:name;not null" json:"name"`
	Categories          datatypes.JSONSlice[string] `gorm:"column:categories;type:jsonb" json:"categories"`
	City                string                      `gorm:"column:city" json:"city"`
	Region              string                      `gorm:"column:region" json:"region"`
	Country             string                      `gorm:"column:country" json:"country"`
	EngagementRate      float64                     `gorm:"column:engagement_rate" json:"engagement_rate"`
	Rating              float64                     `gorm:"column:rating" json:"rating"`
	CompletedCollabs    int                         `gorm:"column:completed_collabs" json:"completed_collabs"`
	AudienceAgeCenter   int                         `gorm:"column:audience_age_center" json:"audience_age_center"`
	AudienceFemaleShare float64                     `gorm:"column:audience_female_share" json:"audience_female_share"`
	AudienceInterests   datatypes.JSONSlice[string] `gorm:"column:audience_interests;type:jsonb" json:"audience_interests"`
	RateCard            float64                     `gorm:"column:rate_card" json:"rate_card"`
	Verified            bool                        `gorm:"column:verified" json:"verified"`
	Popularity          float64                     `gorm:"column:popularity" json:"popularity"`
	CreatedAt           time.Time                   `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Creator) TableName() string { return "creators" }

func (c Creator) ToCandidate() Candidate {
	return Candidate{
		ID:                  c.ID,
		Type:                EntityCreator,
		Name:                c.Name,
		Categories:          c.Categories,
		City:                c.City,
		Region:              c.Region,
		Country:             c.Country,
		EngagementRate:      c.EngagementRate,
		Rating:              c.Rating,
		Volume:              c.CompletedCollabs,
		AudienceAgeCenter:   c.AudienceAgeCenter,
		AudienceFemaleShare: c.AudienceFemaleShare,
		AudienceInterests:   c.AudienceInterests,
		Price:               c.RateCard,
		Verified:            c.Verified,
		Popularity:          c.Popularity,
	}
}

type Opportunity struct {
	ID         string                      `gorm:"column:id;primaryKey" json:"id"`
	Title      string                      `gorm:"column:title;not null" json:"title"`
	Categories datatypes.JSONSlice[string] `gorm:"column:categories;type:jsonb" json:"categories"`
	City       string                      `gorm:"column:city" json:"city"`
	Region     string                      `gorm:"column:region" json:"region"`
	Country    string                      `gorm:"column:country" json:"country"`
	Budget     float64                     `gorm:"column:budget" json:"budget"`
	Applicants int                         `gorm:"column:applicants" json:"applicants"`
	Rating     float64                     `gorm:"column:rating" json:"rating"`
	Verified   bool                        `gorm:"column:verified" json:"verified"`
	Popularity float64                     `gorm:"column:popularity" json:"popularity"`
	ExpiresAt  *time.Time                  `gorm:"column:expires_at" json:"expires_at,omitempty"`
	CreatedAt  time.Time                   `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Opportunity) TableName() string { return "opportunities" }

func (o Opportunity) ToCandidate() Candidate {
	return Candidate{
		ID:         o.ID,
		Type:       EntityOpportunity,
		Name:       o.Title,
		Categories: o.Categories,
		City:       o.City,
		Region:     o.Region,
		Country:    o.Country,
		Rating:     o.Rating,
		Volume:     o.Applicants,
		Price:      o.Budget,
		Verified:   o.Verified,
		Popularity: o.Popularity,
	}
}

type Partner struct {
	ID             string                      `gorm:"column:id;primaryKey" json:"id"`
	Name           string                      `gorm:"column:name;not null" json:"name"`
	Categories     datatypes.JSONSlice[string] `gorm:"column:categories;type:jsonb" json:"categories"`
	City           string                      `gorm:"column:city" json:"city"`
	Region         string                      `gorm:"column:region" json:"region"`
	Country        string                      `gorm:"column:country" json:"country"`
	Rating         float64                     `gorm:"column:rating" json:"rating"`
	DealsCompleted int                         `gorm:"column:deals_completed" json:"deals_completed"`
	Verified       bool                        `gorm:"column:verified" json:"verified"`
	Premium        bool                        `gorm:"column:premium" json:"premium"`
	Popularity     float64                     `gorm:"column:popularity" json:"popularity"`
	CreatedAt      time.Time                   `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Partner) TableName() string { return "partners" }

func (p Partner) ToCandidate() Candidate {
	return Candidate{
		ID:         p.ID,
		Type:       EntityPartner,
		Name:       p.Name,
		Categories: p.Categories,
		City:       p.City,
		Region:     p.Region,
		Country:    p.Country,
		Rating:     p.Rating,
		Volume:     p.DealsCompleted,
		Verified:   p.Verified,
		Premium:    p.Premium,
		Popularity: p.Popularity,
	}
}

type ContentItem struct {
	ID             string                      `gorm:"column:id;primaryKey" json:"id"`
	Title          string                      `gorm:"column:title;not null" json:"title"`
	Categories     datatypes.JSONSlice[string] `gorm:"column:categories;type:jsonb" json:"categories"`
	EngagementRate float64                     `gorm:"column:engagement_rate" json:"engagement_rate"`
	Views          int                         `gorm:"column:views" json:"views"`
	Popularity     float64                     `gorm:"column:popularity" json:"popularity"`
	CreatedAt      time.Time                   `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (ContentItem) TableName() string { return "content_items" }

func (ci ContentItem) ToCandidate() Candidate {
	return Candidate{
		ID:             ci.ID,
		Type:           EntityContent,
		Name:           ci.Title,
		Categories:     ci.Categories,
		EngagementRate: ci.EngagementRate,
		Volume:         ci.Views,
		Popularity:     ci.Popularity,
	}
}
