package model

import (
	"time"

	"github.com/google/uuid"
)

type Project struct {
	ID            uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Title         string    `gorm:"type:text;not null" json:"title"`
	Description   string    `gorm:"type:text;not null;default:''" json:"description"`
	SubcategoryID uuid.UUID `gorm:"type:uuid;not null;index" json:"subcategory_id"`
	SellerID      uuid.UUID `gorm:"type:uuid;not null;index" json:"seller_id"`
	Published     bool      `gorm:"not null;default:false;index" json:"published"`
	Clicks        int64     `gorm:"not null;default:0" json:"clicks"`

	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Project <-> User (seller)
	Seller *User `gorm:"foreignKey:SellerID;references:ID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"-"`

	// Project <-> Subcategory
	Subcategory *Subcategory `gorm:"foreignKey:SubcategoryID;references:ID;constraint:OnDelete:RESTRICT,OnUpdate:CASCADE;" json:"-"`

	// Project <-> Offer
	Offers []Offer `gorm:"constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"-"`

	// Project <-> ProjectMedia
	Media []ProjectMedia `gorm:"constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"-"`

	// Project <-> Favorite
	Favorites []Favorite `gorm:"constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"-"`

	// Project <-> Review
	Reviews []Review `gorm:"constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"-"`

	// Project <-> Order
	Orders []Order `gorm:"constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"-"`
}

func (Project) TableName() string { return "projects" }
