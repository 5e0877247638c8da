package model

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// EditablePanelInfo is part of panel profile that can be edited
type EditablePanelInfo struct {
	Skills             pq.StringArray `gorm:"type:text[]" json:"skills"`
	ExperienceCategory string         `gorm:"type:text" json:"experience_category"`
	StagesCategory     pq.StringArray `gorm:"type:text[]" json:"stages_category"`
}

// Panel is gorm model for an interviewer's scheduling profile.
// Every interviewer owns at most one panel; slots hang off the panel.
type Panel struct {
	ID     uint      `gorm:"primaryKey;autoIncrement;->" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex;<-:create" json:"user_id"`
	User   User      `gorm:"foreignKey:UserID;references:ID" json:"-"`
	EditablePanelInfo

	Slots []Slot `gorm:"foreignKey:PanelID;constraint:OnDelete:CASCADE" json:"slots,omitempty"`
}
