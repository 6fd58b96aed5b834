package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Order records a buyer purchasing one tier of a project. The price is a
// snapshot of the offer at order time.
type Order struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProjectID uuid.UUID `gorm:"type:uuid;not null;index" json:"project_id"`
	BuyerID   uuid.UUID `gorm:"type:uuid;not null;index" json:"buyer_id"`
	OfferID   uuid.UUID `gorm:"type:uuid;not null" json:"offer_id"`
	Tier      Tier      `gorm:"type:text;not null" json:"tier"`
	Price     int64     `gorm:"not null" json:"price"`

	Meta datatypes.JSONMap `gorm:"type:jsonb" swaggertype:"object" json:"meta,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`

	// Order <-> Project
	Project *Project `gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"-"`
}

func (Order) TableName() string { return "orders" }
