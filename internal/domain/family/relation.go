package family

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/vamshavali-backend/internal/kinship"
)

// Relation reads "Source is Target's Type".
type Relation struct {
	ID        string         `gorm:"primaryKey;size:160;column:id" json:"id"`
	SourceID  string         `gorm:"not null;size:64;column:source_id;uniqueIndex:idx_relation_edge,priority:1;index" json:"source_id"`
	TargetID  string         `gorm:"not null;size:64;column:target_id;uniqueIndex:idx_relation_edge,priority:2;index" json:"target_id"`
	Type      string         `gorm:"not null;size:32;column:type;uniqueIndex:idx_relation_edge,priority:3" json:"type"`
	CreatedAt time.Time      `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;index" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Relation) TableName() string { return "relation" }

func (r *Relation) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

func (r *Relation) Kinship() kinship.Relation {
	return kinship.Relation{ID: r.ID, SourceID: r.SourceID, TargetID: r.TargetID, Type: kinship.RelationType(r.Type)}
}

func RelationFromKinship(kr kinship.Relation) *Relation {
	return &Relation{ID: kr.ID, SourceID: kr.SourceID, TargetID: kr.TargetID, Type: string(kr.Type)}
}
