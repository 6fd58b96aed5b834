package model

import (
	"time"

	"github.com/google/uuid"
)

type Review struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProjectID uuid.UUID `gorm:"type:uuid;not null;index" json:"project_id"`
	AuthorID  uuid.UUID `gorm:"type:uuid;not null;index" json:"author_id"`
	SellerID  uuid.UUID `gorm:"type:uuid;not null;index" json:"seller_id"`

	Comment            string `gorm:"type:text;not null" json:"comment"`
	ServiceAsDescribed int    `gorm:"not null;check:service_as_described BETWEEN 1 AND 5" json:"service_as_described"`
	RecommendToAFriend int    `gorm:"not null;check:recommend_to_a_friend BETWEEN 1 AND 5" json:"recommend_to_a_friend"`
	CommunicationLevel int    `gorm:"not null;check:communication_level BETWEEN 1 AND 5" json:"communication_level"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	// Review <-> Project
	Project *Project `gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"-"`

	// Review <-> User (author)
	Author *User `gorm:"foreignKey:AuthorID;references:ID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"-"`
}

func (Review) TableName() string { return "reviews" }
