// Package panelslots contain handler for the per-panel slot management
// endpoints used by the interviewer calendar.
package panelslots

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"InterviewDesk-backend/internal/database"
	"InterviewDesk-backend/internal/model"
	"InterviewDesk-backend/internal/slotstore"
	"InterviewDesk-backend/internal/utilities"
)

// PanelSlotController struct holds the database connection and slot store
// for slot management operations.
type PanelSlotController struct {
	DB    *database.DBinstanceStruct
	Slots *slotstore.Store
}

// NewPanelSlotController creates a new instance of PanelSlotController with the provided database connection.
func NewPanelSlotController(db *database.DBinstanceStruct, slots *slotstore.Store) *PanelSlotController {
	return &PanelSlotController{
		DB:    db,
		Slots: slots,
	}
}

func parseUint(c *gin.Context, param string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(param), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid %s: %s", param, c.Param(param)),
		})
		return 0, false
	}
	return uint(v), true
}

// ownsPanel reports whether the requesting user may manage the panel.
// Admins manage every panel, interviewers only their own.
func (pc *PanelSlotController) ownsPanel(c *gin.Context, panelID uint) bool {
	user := utilities.ExtractUser(c)
	if user.Role == model.RoleAdmin {
		return true
	}

	var panel model.Panel
	if err := pc.DB.Where("id = ?", panelID).First(&panel).Error; err != nil {
		c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Panel not found"})
		return false
	}
	if panel.UserID != user.ID {
		c.JSON(http.StatusForbidden, utilities.ErrorResponse{
			Error: "You are not allowed to manage slots of this panel",
		})
		return false
	}
	return true
}

// ListSlots returns every slot of a panel, booked and available.
func (pc *PanelSlotController) ListSlots(c *gin.Context) {
	panelID, ok := parseUint(c, "panel_id")
	if !ok {
		return
	}

	slots, err := pc.Slots.List(panelID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to fetch slots: %s", err.Error()),
		})
		return
	}
	c.JSON(http.StatusOK, slots)
}

// ListAvailableSlots returns the free slots of a panel, optionally bounded
// by from/to date query parameters.
func (pc *PanelSlotController) ListAvailableSlots(c *gin.Context) {
	panelID, ok := parseUint(c, "panel_id")
	if !ok {
		return
	}

	slots, err := pc.Slots.ListAvailable(panelID, c.Query("from"), c.Query("to"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to fetch slots: %s", err.Error()),
		})
		return
	}
	c.JSON(http.StatusOK, slots)
}

type createSlotRequest struct {
	Date     string `json:"date" binding:"required"`
	Time     string `json:"time" binding:"required"`
	Duration int    `json:"duration" binding:"required"`
}

// CreateSlot opens a new bookable window on a panel.
func (pc *PanelSlotController) CreateSlot(c *gin.Context) {
	panelID, ok := parseUint(c, "panel_id")
	if !ok {
		return
	}
	if !pc.ownsPanel(c, panelID) {
		return
	}

	var req createSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	slot, err := pc.Slots.Create(panelID, req.Date, req.Time, req.Duration)
	if err != nil {
		utilities.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, slot)
}

// DeleteSlot removes a still-available window from a panel.
func (pc *PanelSlotController) DeleteSlot(c *gin.Context) {
	panelID, ok := parseUint(c, "panel_id")
	if !ok {
		return
	}
	slotID, ok := parseUint(c, "slot_id")
	if !ok {
		return
	}
	if !pc.ownsPanel(c, panelID) {
		return
	}

	if err := pc.Slots.Delete(slotID); err != nil {
		utilities.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, utilities.MessageResponse{Message: "Slot deleted"})
}
