// Package tracker owns the per-candidate stage progression record and the
// stage-outcome policy: how feedback on a scheduled L1/L2 interview moves a
// candidate toward a terminal selected/rejected outcome or back into the
// scheduling pool.
package tracker

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"InterviewDesk-backend/internal/apperr"
	"InterviewDesk-backend/internal/model"
)

// Tracker provides candidate status operations on top of a gorm handle.
type Tracker struct {
	db *gorm.DB
}

// New creates a Tracker bound to the given database handle.
func New(db *gorm.DB) *Tracker {
	return &Tracker{db: db}
}

// WithTx returns a copy of the tracker bound to the given transaction.
func (t *Tracker) WithTx(tx *gorm.DB) *Tracker {
	return &Tracker{db: tx}
}

func (t *Tracker) getCandidate(candidateID uuid.UUID) (*model.Candidate, error) {
	var candidate model.Candidate
	if err := t.db.First(&candidate, "id = ?", candidateID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("candidate %s not found", candidateID)
		}
		return nil, err
	}
	return &candidate, nil
}

// GetStatus returns the candidate's stage progression record, or nil when the
// candidate is still at intake and was never scheduled.
func (t *Tracker) GetStatus(candidateID uuid.UUID) (*model.CandidateStatus, error) {
	if _, err := t.getCandidate(candidateID); err != nil {
		return nil, err
	}
	var status model.CandidateStatus
	err := t.db.Where("candidate_id = ?", candidateID).First(&status).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &status, nil
}

// List returns every candidate status record, for the dashboard listings.
func (t *Tracker) List() ([]model.CandidateStatus, error) {
	var statuses []model.CandidateStatus
	err := t.db.Order("id ASC").Find(&statuses).Error
	return statuses, err
}

// InitializeStage creates or updates the candidate's status record and marks
// the named stage scheduled against the given slot. L2 can only be scheduled
// after L1 ended in selected; a stage that is already scheduled or already
// has a terminal outcome cannot be scheduled again.
func (t *Tracker) InitializeStage(candidateID uuid.UUID, stage string, panelID, slotID uint, date, timeOfDay string) (*model.CandidateStatus, error) {
	if !model.ValidStage(stage) {
		return nil, apperr.Validation("unknown stage %q", stage)
	}

	candidate, err := t.getCandidate(candidateID)
	if err != nil {
		return nil, err
	}

	var status model.CandidateStatus
	err = t.db.Where("candidate_id = ?", candidateID).First(&status).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if stage == model.StageL2 {
			return nil, apperr.Conflict("candidate %s has no L1 outcome yet", candidateID)
		}
		status = model.CandidateStatus{CandidateID: candidateID, CurrentStage: model.StageL1}
	case err != nil:
		return nil, err
	}

	record := status.Stage(stage)
	switch record.Status {
	case model.StageStatusScheduled:
		return nil, apperr.Conflict("candidate %s already has a scheduled %s interview", candidateID, stage)
	case model.StageStatusSelected, model.StageStatusRejected:
		return nil, apperr.Conflict("candidate %s %s stage already has a terminal outcome", candidateID, stage)
	}
	if stage == model.StageL2 && status.L1.Status != model.StageStatusSelected {
		return nil, apperr.Conflict("candidate %s cannot enter L2 before passing L1", candidateID)
	}

	record.PanelID = &panelID
	record.SlotID = &slotID
	record.Date = date
	record.Time = timeOfDay
	record.Status = model.StageStatusScheduled
	record.Feedback = nil
	status.CurrentStage = stage

	if err := t.db.Save(&status).Error; err != nil {
		return nil, err
	}

	// scheduling L1 moves the candidate out of the intake pool
	if candidate.OverallStatus == model.CandidateOverallWaiting {
		if err := t.db.Model(candidate).Update("overall_status", model.CandidateOverallActive).Error; err != nil {
			return nil, err
		}
	}

	return &status, nil
}

// RecordFeedback applies the stage-outcome policy to a scheduled stage:
//
//	selected at L1 → L1 selected, candidate advances to L2 (still active)
//	selected at L2 → terminal selected
//	rejected       → terminal rejected at either stage
//	no-show        → stage re-enters the waiting pool
func (t *Tracker) RecordFeedback(candidateID uuid.UUID, stage, feedback string) (*model.CandidateStatus, error) {
	if !model.ValidStage(stage) {
		return nil, apperr.Validation("unknown stage %q", stage)
	}
	if !model.ValidFeedback(feedback) {
		return nil, apperr.Validation("unknown feedback %q", feedback)
	}

	candidate, err := t.getCandidate(candidateID)
	if err != nil {
		return nil, err
	}

	var status model.CandidateStatus
	if err := t.db.Where("candidate_id = ?", candidateID).First(&status).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("candidate %s was never scheduled", candidateID)
		}
		return nil, err
	}

	record := status.Stage(stage)
	if record.Status != model.StageStatusScheduled {
		return nil, apperr.Conflict("candidate %s %s stage is not scheduled", candidateID, stage)
	}

	overall := candidate.OverallStatus
	fb := feedback

	switch feedback {
	case model.FeedbackSelected:
		record.Status = model.StageStatusSelected
		record.Feedback = &fb
		if stage == model.StageL1 {
			status.CurrentStage = model.StageL2
			status.L2.Status = model.StageStatusWaiting
		} else {
			status.CurrentStage = model.StageSelected
			overall = model.CandidateOverallSelected
		}

	case model.FeedbackRejected:
		record.Status = model.StageStatusRejected
		record.Feedback = &fb
		status.CurrentStage = model.StageRejected
		overall = model.CandidateOverallRejected

	case model.FeedbackNoShow:
		// the interview did not happen: scheduling fields clear and the
		// candidate re-enters the pool for the same stage
		record.PanelID = nil
		record.SlotID = nil
		record.Date = ""
		record.Time = ""
		record.Status = model.StageStatusWaiting
		record.Feedback = &fb
		status.CurrentStage = stage
	}

	if err := t.db.Save(&status).Error; err != nil {
		return nil, err
	}
	if overall != candidate.OverallStatus {
		if err := t.db.Model(candidate).Update("overall_status", overall).Error; err != nil {
			return nil, err
		}
	}

	return &status, nil
}

// ResetStage clears a scheduled stage back to waiting, used by booking
// cancellation. Cancelling L1 returns the candidate to the intake pool;
// cancelling L2 keeps the L1 outcome intact.
func (t *Tracker) ResetStage(candidateID uuid.UUID, stage string) (*model.CandidateStatus, error) {
	if !model.ValidStage(stage) {
		return nil, apperr.Validation("unknown stage %q", stage)
	}

	candidate, err := t.getCandidate(candidateID)
	if err != nil {
		return nil, err
	}

	var status model.CandidateStatus
	if err := t.db.Where("candidate_id = ?", candidateID).First(&status).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("candidate %s was never scheduled", candidateID)
		}
		return nil, err
	}

	record := status.Stage(stage)
	if record.Status != model.StageStatusScheduled {
		return nil, apperr.NotFound("candidate %s %s stage is not scheduled", candidateID, stage)
	}

	record.Reset()
	status.CurrentStage = stage

	if err := t.db.Save(&status).Error; err != nil {
		return nil, err
	}

	if stage == model.StageL1 {
		if err := t.db.Model(candidate).Update("overall_status", model.CandidateOverallWaiting).Error; err != nil {
			return nil, err
		}
	}

	return &status, nil
}
