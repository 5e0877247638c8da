package model

import (
	"github.com/google/uuid"
)

// Interview stages. CurrentStage also takes the terminal values
// StageSelected / StageRejected once the candidate leaves the pipeline.
var (
	StageL1       = "L1"
	StageL2       = "L2"
	StageSelected = "selected"
	StageRejected = "rejected"
)

// Per-stage status constants
var (
	// StageStatusWaiting means the stage is eligible for scheduling (initial, or re-entered after no-show)
	StageStatusWaiting = "waiting"
	// StageStatusScheduled means a booked slot is held for this stage
	StageStatusScheduled = "scheduled"
	// StageStatusSelected means the stage interview happened and passed
	StageStatusSelected = "selected"
	// StageStatusRejected means the stage interview happened and failed
	StageStatusRejected = "rejected"
)

// Feedback values accepted on a scheduled stage
var (
	FeedbackSelected = "selected"
	FeedbackRejected = "rejected"
	FeedbackNoShow   = "no-show"
)

// ValidStage reports whether stage names a schedulable interview round.
func ValidStage(stage string) bool {
	return stage == StageL1 || stage == StageL2
}

// ValidFeedback reports whether feedback is one of the accepted outcomes.
func ValidFeedback(feedback string) bool {
	return feedback == FeedbackSelected || feedback == FeedbackRejected || feedback == FeedbackNoShow
}

// StageRecord holds the scheduling fields of one interview round.
// SlotID is the owning reference to the booked slot; the panel/date/time
// columns are denormalized for the dashboard listings.
type StageRecord struct {
	PanelID  *uint   `json:"panel_id"`
	SlotID   *uint   `json:"slot_id"`
	Date     string  `gorm:"type:text" json:"date"`
	Time     string  `gorm:"type:text" json:"time"`
	Status   string  `gorm:"type:text;not null;default:'waiting'" json:"status"`
	Feedback *string `gorm:"type:text" json:"feedback"`
}

// CandidateStatus is gorm model for the per-candidate stage progression
// record. Exactly one row exists per candidate once L1 is first scheduled.
type CandidateStatus struct {
	ID          uint      `gorm:"primaryKey;autoIncrement;->" json:"id"`
	CandidateID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex;<-:create" json:"candidate_id"`
	Candidate   Candidate `gorm:"foreignKey:CandidateID;references:ID" json:"-"`

	CurrentStage string      `gorm:"type:text;not null;default:'L1'" json:"current_stage"`
	L1           StageRecord `gorm:"embedded;embeddedPrefix:l1_" json:"l1"`
	L2           StageRecord `gorm:"embedded;embeddedPrefix:l2_" json:"l2"`
}

// Stage returns a pointer to the record of the named stage, or nil.
func (cs *CandidateStatus) Stage(stage string) *StageRecord {
	switch stage {
	case StageL1:
		return &cs.L1
	case StageL2:
		return &cs.L2
	}
	return nil
}

// Reset clears every scheduling field of the record and returns the stage
// to the waiting pool. Feedback is cleared as well.
func (r *StageRecord) Reset() {
	r.PanelID = nil
	r.SlotID = nil
	r.Date = ""
	r.Time = ""
	r.Status = StageStatusWaiting
	r.Feedback = nil
}
