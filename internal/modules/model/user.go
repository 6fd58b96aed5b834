package model

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`

	// TokenIdentifier is "<issuer>|<subject>" of the identity that owns this profile.
	TokenIdentifier string `gorm:"type:text;not null;uniqueIndex" json:"-"`
	Username        string `gorm:"type:text;not null;uniqueIndex" json:"username"`
	FullName        string `gorm:"type:text" json:"full_name"`
	Title           string `gorm:"type:text" json:"title"`
	About           string `gorm:"type:text" json:"about"`
	ProfileImageURL string `gorm:"type:text" json:"profile_image_url"`

	CreatedAt time.Time `gorm:"autoCreateTime;not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	// User <-> Project
	Projects []Project `gorm:"foreignKey:SellerID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"-"`

	// User <-> Favorite
	Favorites []Favorite `gorm:"constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"-"`
}

func (User) TableName() string { return "users" }
