package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Candidate overall status constants. The overall status is derived from the
// most advanced stage outcome in the candidate's status record.
var (
	// CandidateOverallWaiting means the candidate is still at intake
	CandidateOverallWaiting = "waiting"
	// CandidateOverallActive means the candidate is somewhere between L1 and a terminal outcome
	CandidateOverallActive = "active"
	// CandidateOverallSelected is the terminal success outcome (selected at L2)
	CandidateOverallSelected = "selected"
	// CandidateOverallRejected is the terminal failure outcome (rejected at either stage)
	CandidateOverallRejected = "rejected"
)

// Candidate is gorm model for a person under consideration
type Candidate struct {
	ID    uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name  string    `gorm:"type:text;not null" json:"name"`
	Email string    `gorm:"type:text;not null;uniqueIndex" json:"email"`
	Phone string    `gorm:"type:text" json:"phone"`

	TotalExperience    string         `gorm:"type:text" json:"total_experience"`
	RelevantExperience string         `gorm:"type:text" json:"relevant_experience"`
	Skillset           pq.StringArray `gorm:"type:text[]" json:"skillset"`

	OverallStatus string    `gorm:"type:text;not null;default:'waiting'" json:"overall_status"`
	CreatedAt     time.Time `gorm:"type:timestamp;default:CURRENT_TIMESTAMP;->" json:"created_at"`

	// Status is the stage progression record, absent until first scheduled
	Status *CandidateStatus `gorm:"foreignKey:CandidateID;constraint:OnDelete:CASCADE" json:"status,omitempty"`
}
