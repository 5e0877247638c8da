package model

import (
	"fmt"
	"time"
)

// Slot status constants
var (
	// SlotStatusAvailable means the slot can still be reserved
	SlotStatusAvailable = "available"
	// SlotStatusBooked means exactly one candidate-stage booking holds the slot
	SlotStatusBooked = "booked"
)

// Layouts for the date and time-of-day columns as the dashboards send them
const (
	SlotDateLayout = "2006-01-02"
	SlotTimeLayout = "15:04"
)

// Slot is gorm model for one bookable interview time window.
// The (panel_id, date, time) triple is unique so the same window can never
// be opened twice for one panel.
type Slot struct {
	ID      uint  `gorm:"primaryKey;autoIncrement;->" json:"id"`
	PanelID uint  `gorm:"not null;index;uniqueIndex:idx_slot_window;<-:create" json:"panel_id"`
	Panel   Panel `gorm:"foreignKey:PanelID;references:ID" json:"-"`

	Date     string `gorm:"type:text;not null;uniqueIndex:idx_slot_window" json:"date"`
	Time     string `gorm:"type:text;not null;uniqueIndex:idx_slot_window" json:"time"`
	Duration int    `gorm:"not null" json:"duration"`
	Status   string `gorm:"type:text;not null;default:'available'" json:"status"`

	CreatedAt time.Time `gorm:"type:timestamp;default:CURRENT_TIMESTAMP;->" json:"created_at"`
}

// StartsAt parses the slot's calendar date and time-of-day into one instant.
func (s *Slot) StartsAt() (time.Time, error) {
	return ParseSlotWindow(s.Date, s.Time)
}

// ParseSlotWindow parses a (date, time) pair in the dashboard wire format.
func ParseSlotWindow(date, timeOfDay string) (time.Time, error) {
	t, err := time.ParseInLocation(SlotDateLayout+" "+SlotTimeLayout, date+" "+timeOfDay, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid slot window %q %q: %w", date, timeOfDay, err)
	}
	return t, nil
}
