package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ProjectMedia struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProjectID uuid.UUID `gorm:"type:uuid;not null;index" json:"project_id"`

	// StorageID is the opaque handle of the stored object, unique across projects.
	StorageID string `gorm:"type:text;not null;uniqueIndex" json:"storage_id"`
	Format    string `gorm:"type:text;not null" json:"format"`

	AssetMeta datatypes.JSONType[Asset] `gorm:"type:jsonb;not null" swaggertype:"-" json:"-"`

	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`

	// ProjectMedia <-> Project
	Project *Project `gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"-"`
}

func (ProjectMedia) TableName() string { return "project_media" }
