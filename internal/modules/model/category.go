package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Category struct {
	ID   uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name string            `gorm:"type:text;not null;uniqueIndex" json:"name"`
	Meta datatypes.JSONMap `gorm:"type:jsonb" swaggertype:"object" json:"meta,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	// Category <-> Subcategory
	Subcategories []Subcategory `gorm:"constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"subcategories"`
}

func (Category) TableName() string { return "categories" }

type Subcategory struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CategoryID uuid.UUID `gorm:"type:uuid;not null;index" json:"category_id"`
	Name       string    `gorm:"type:text;not null;uniqueIndex" json:"name"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	// Subcategory <-> Category
	Category *Category `gorm:"foreignKey:CategoryID;references:ID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"-"`
}

func (Subcategory) TableName() string { return "subcategories" }
