// Package booking couples slot reservations to candidate status transitions.
// The Coordinator is the only component allowed to do both in one step, and
// it is what keeps the core invariant: a scheduled stage always holds exactly
// one booked slot, and every booked slot belongs to exactly one scheduled
// stage.
package booking

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"InterviewDesk-backend/internal/apperr"
	"InterviewDesk-backend/internal/database"
	"InterviewDesk-backend/internal/model"
	"InterviewDesk-backend/internal/slotstore"
	"InterviewDesk-backend/internal/tracker"
)

// Coordinator serializes booking operations per slot and per candidate and
// wraps each one in a single database transaction, so a half-applied booking
// can never be observed: on failure the rollback is the compensating release.
type Coordinator struct {
	db      *database.DBinstanceStruct
	slots   *slotstore.Store
	tracker *tracker.Tracker
	locks   *keyedMutex
}

// New creates a Coordinator over the shared database instance.
func New(db *database.DBinstanceStruct) *Coordinator {
	return &Coordinator{
		db:      db,
		slots:   slotstore.New(db.DB),
		tracker: tracker.New(db.DB),
		locks:   newKeyedMutex(),
	}
}

// Slots exposes the coordinator's slot store for read paths and slot
// management endpoints that do not touch candidate state.
func (c *Coordinator) Slots() *slotstore.Store {
	return c.slots
}

// Tracker exposes the coordinator's status tracker for read paths.
func (c *Coordinator) Tracker() *tracker.Tracker {
	return c.tracker
}

func slotKey(slotID uint) string {
	return fmt.Sprintf("slot:%d", slotID)
}

func candidateKey(candidateID uuid.UUID) string {
	return "candidate:" + candidateID.String()
}

// Book reserves the slot identified by (panel, date, time) for the candidate
// at the given stage and marks the stage scheduled, as one atomic unit.
// Exactly one of two concurrent bookings for the same window succeeds; the
// other fails with a conflict and leaves no partial state behind.
func (c *Coordinator) Book(candidateID uuid.UUID, stage string, panelID uint, date, timeOfDay string) (*model.CandidateStatus, error) {
	if !model.ValidStage(stage) {
		return nil, apperr.Validation("unknown stage %q", stage)
	}

	slot, err := c.slots.FindByWindow(panelID, date, timeOfDay)
	if err != nil {
		return nil, err
	}
	if slot.Status != model.SlotStatusAvailable {
		return nil, apperr.Conflict("slot for panel %d at %s %s is already booked", panelID, date, timeOfDay)
	}

	unlock := c.locks.lockAll(slotKey(slot.ID), candidateKey(candidateID))
	defer unlock()

	var status *model.CandidateStatus
	err = c.db.Transaction(func(tx *gorm.DB) error {
		if err := c.slots.WithTx(tx).Reserve(slot.ID); err != nil {
			return err
		}
		st, err := c.tracker.WithTx(tx).InitializeStage(candidateID, stage, panelID, slot.ID, date, timeOfDay)
		if err != nil {
			// rollback releases the reservation
			return err
		}
		status = st
		return nil
	})
	if err != nil {
		return nil, err
	}
	return status, nil
}

// Cancel undoes a committed booking: the stage returns to waiting and the
// slot is released for re-use. Cancelling L1 also returns the candidate to
// the intake pool; cancelling L2 leaves the L1 outcome intact.
func (c *Coordinator) Cancel(candidateID uuid.UUID, stage string) error {
	if !model.ValidStage(stage) {
		return apperr.Validation("unknown stage %q", stage)
	}

	status, err := c.tracker.GetStatus(candidateID)
	if err != nil {
		return err
	}
	if status == nil {
		return apperr.NotFound("candidate %s was never scheduled", candidateID)
	}
	record := status.Stage(stage)
	if record.Status != model.StageStatusScheduled || record.SlotID == nil {
		return apperr.NotFound("candidate %s %s stage is not scheduled", candidateID, stage)
	}
	slotID := *record.SlotID

	unlock := c.locks.lockAll(slotKey(slotID), candidateKey(candidateID))
	defer unlock()

	return c.db.Transaction(func(tx *gorm.DB) error {
		if _, err := c.tracker.WithTx(tx).ResetStage(candidateID, stage); err != nil {
			return err
		}
		return c.slots.WithTx(tx).Release(slotID)
	})
}

// SubmitFeedback records the interview outcome for a scheduled stage. Only a
// no-show releases the slot: the interview never happened so the window is
// reusable. Rejected and selected interviews did happen, so their slots stay
// consumed as history.
func (c *Coordinator) SubmitFeedback(candidateID uuid.UUID, stage, feedback string) (*model.CandidateStatus, error) {
	if !model.ValidStage(stage) {
		return nil, apperr.Validation("unknown stage %q", stage)
	}
	if !model.ValidFeedback(feedback) {
		return nil, apperr.Validation("unknown feedback %q", feedback)
	}

	status, err := c.tracker.GetStatus(candidateID)
	if err != nil {
		return nil, err
	}
	if status == nil {
		return nil, apperr.NotFound("candidate %s was never scheduled", candidateID)
	}
	record := status.Stage(stage)

	keys := []string{candidateKey(candidateID)}
	var slotID *uint
	if record.SlotID != nil {
		id := *record.SlotID
		slotID = &id
		keys = append(keys, slotKey(id))
	}
	unlock := c.locks.lockAll(keys...)
	defer unlock()

	var updated *model.CandidateStatus
	err = c.db.Transaction(func(tx *gorm.DB) error {
		st, err := c.tracker.WithTx(tx).RecordFeedback(candidateID, stage, feedback)
		if err != nil {
			return err
		}
		updated = st
		if feedback == model.FeedbackNoShow && slotID != nil {
			return c.slots.WithTx(tx).Release(*slotID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
