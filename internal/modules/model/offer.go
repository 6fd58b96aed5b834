package model

import (
	"time"

	"github.com/google/uuid"
)

// Tier is one of the three fixed pricing packages of a project.
type Tier string

const (
	TierBasic    Tier = "Basic"
	TierStandard Tier = "Standard"
	TierPremium  Tier = "Premium"
)

// Tiers lists every tier in display order.
var Tiers = []Tier{TierBasic, TierStandard, TierPremium}

func (t Tier) Valid() bool {
	switch t {
	case TierBasic, TierStandard, TierPremium:
		return true
	}
	return false
}

type Offer struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProjectID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_offer_project_tier,priority:1" json:"project_id"`
	Tier      Tier      `gorm:"type:text;not null;uniqueIndex:idx_offer_project_tier,priority:2" json:"tier"`

	Title        string `gorm:"type:text;not null" json:"title"`
	Description  string `gorm:"type:text;not null" json:"description"`
	Price        int64  `gorm:"not null" json:"price"` // smallest currency unit
	DeliveryDays int    `gorm:"not null" json:"delivery_days"`
	Revisions    int    `gorm:"not null" json:"revisions"`

	// PriceRef is the id of the price record held by the payment provider.
	// It is set on creation only.
	PriceRef string `gorm:"type:text;not null" json:"price_ref"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Offer <-> Project
	Project *Project `gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"-"`
}

func (Offer) TableName() string { return "offers" }
