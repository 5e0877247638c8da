// Package slotstore owns the availability of bookable interview time windows
// per panel. It is the only writer of slot status: reservations and releases
// go through guarded updates so a read-then-write race can never book the
// same window twice.
package slotstore

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"InterviewDesk-backend/internal/apperr"
	"InterviewDesk-backend/internal/model"
)

// Store provides slot lifecycle operations on top of a gorm handle.
type Store struct {
	db *gorm.DB
}

// New creates a Store bound to the given database handle.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// WithTx returns a copy of the store bound to the given transaction.
func (s *Store) WithTx(tx *gorm.DB) *Store {
	return &Store{db: tx}
}

// Create opens a new available slot for a panel. It fails with a validation
// error when the window is in the past, the duration is not positive, or an
// identical (panel, date, time) window already exists.
func (s *Store) Create(panelID uint, date, timeOfDay string, duration int) (*model.Slot, error) {
	startsAt, err := model.ParseSlotWindow(date, timeOfDay)
	if err != nil {
		return nil, apperr.Validation("%s", err.Error())
	}
	if !startsAt.After(time.Now()) {
		return nil, apperr.Validation("slot window %s %s is in the past", date, timeOfDay)
	}
	if duration <= 0 {
		return nil, apperr.Validation("slot duration must be positive, got %d", duration)
	}

	var panel model.Panel
	if err := s.db.First(&panel, "id = ?", panelID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("panel %d not found", panelID)
		}
		return nil, err
	}

	var count int64
	if err := s.db.Model(&model.Slot{}).
		Where("panel_id = ? AND date = ? AND time = ?", panelID, date, timeOfDay).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, apperr.Validation("slot for panel %d at %s %s already exists", panelID, date, timeOfDay)
	}

	slot := model.Slot{
		PanelID:  panelID,
		Date:     date,
		Time:     timeOfDay,
		Duration: duration,
		Status:   model.SlotStatusAvailable,
	}
	if err := s.db.Create(&slot).Error; err != nil {
		// the unique index on (panel_id, date, time) backstops the pre-check
		return nil, apperr.Validation("slot for panel %d at %s %s already exists: %s", panelID, date, timeOfDay, err.Error())
	}
	return &slot, nil
}

// Get fetches a slot by id.
func (s *Store) Get(slotID uint) (*model.Slot, error) {
	var slot model.Slot
	if err := s.db.First(&slot, "id = ?", slotID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("slot %d not found", slotID)
		}
		return nil, err
	}
	return &slot, nil
}

// FindByWindow resolves a slot by its (panel, date, time) identity.
func (s *Store) FindByWindow(panelID uint, date, timeOfDay string) (*model.Slot, error) {
	var slot model.Slot
	err := s.db.Where("panel_id = ? AND date = ? AND time = ?", panelID, date, timeOfDay).First(&slot).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("no slot for panel %d at %s %s", panelID, date, timeOfDay)
		}
		return nil, err
	}
	return &slot, nil
}

// List returns every slot of a panel ordered by window.
func (s *Store) List(panelID uint) ([]model.Slot, error) {
	var slots []model.Slot
	err := s.db.Where("panel_id = ?", panelID).Order("date, time").Find(&slots).Error
	return slots, err
}

// ListAvailable returns the available slots of a panel, optionally bounded
// by an inclusive date range. Empty bounds are ignored. The listing is a
// plain re-queryable projection of current state.
func (s *Store) ListAvailable(panelID uint, from, to string) ([]model.Slot, error) {
	q := s.db.Where("panel_id = ? AND status = ?", panelID, model.SlotStatusAvailable)
	if from != "" {
		q = q.Where("date >= ?", from)
	}
	if to != "" {
		q = q.Where("date <= ?", to)
	}
	var slots []model.Slot
	err := q.Order("date, time").Find(&slots).Error
	return slots, err
}

// Delete removes a slot that is still available. Deleting a booked slot is a
// conflict: it would orphan a scheduled interview.
func (s *Store) Delete(slotID uint) error {
	res := s.db.Where("id = ? AND status = ?", slotID, model.SlotStatusAvailable).Delete(&model.Slot{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// distinguish missing from booked
		if _, err := s.Get(slotID); err != nil {
			return err
		}
		return apperr.Conflict("slot %d is booked and cannot be deleted", slotID)
	}
	return nil
}

// Reserve transitions a slot from available to booked. The status
// precondition lives in the WHERE clause, so of two concurrent reservations
// exactly one wins and the other gets a conflict.
func (s *Store) Reserve(slotID uint) error {
	res := s.db.Model(&model.Slot{}).
		Where("id = ? AND status = ?", slotID, model.SlotStatusAvailable).
		Update("status", model.SlotStatusBooked)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		if _, err := s.Get(slotID); err != nil {
			return err
		}
		return apperr.Conflict("slot %d is already booked", slotID)
	}
	return nil
}

// Release transitions a slot from booked back to available. Releasing an
// already-available slot is a no-op, not an error.
func (s *Store) Release(slotID uint) error {
	res := s.db.Model(&model.Slot{}).
		Where("id = ? AND status = ?", slotID, model.SlotStatusBooked).
		Update("status", model.SlotStatusAvailable)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		if _, err := s.Get(slotID); err != nil {
			return fmt.Errorf("release: %w", err)
		}
	}
	return nil
}
