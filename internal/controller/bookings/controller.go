// Package bookings contain handler for the booking workflow endpoints: the
// single write path every dashboard variant goes through, plus the read-only
// free/booked/outcome listings.
package bookings

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"InterviewDesk-backend/internal/booking"
	"InterviewDesk-backend/internal/database"
	"InterviewDesk-backend/internal/model"
	"InterviewDesk-backend/internal/query"
	"InterviewDesk-backend/internal/utilities"
)

// BookingController struct holds the coordinator and query views for the
// booking workflow endpoints.
type BookingController struct {
	DB          *database.DBinstanceStruct
	Coordinator *booking.Coordinator
	Views       *query.Views
}

// NewBookingController creates a new instance of BookingController with the provided database connection.
func NewBookingController(db *database.DBinstanceStruct, coordinator *booking.Coordinator) *BookingController {
	return &BookingController{
		DB:          db,
		Coordinator: coordinator,
		Views:       query.New(db.DB),
	}
}

type bookRequest struct {
	CandidateID uuid.UUID `json:"candidate_id" binding:"required"`
	Stage       string    `json:"stage" binding:"required"`
	PanelID     uint      `json:"panel_id" binding:"required"`
	Date        string    `json:"date" binding:"required"`
	Time        string    `json:"time" binding:"required"`
}

// Book reserves a slot for a candidate at a stage.
func (bc *BookingController) Book(c *gin.Context) {
	var req bookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	status, err := bc.Coordinator.Book(req.CandidateID, req.Stage, req.PanelID, req.Date, req.Time)
	if err != nil {
		utilities.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, status)
}

type cancelRequest struct {
	CandidateID uuid.UUID `json:"candidate_id" binding:"required"`
	Stage       string    `json:"stage" binding:"required"`
}

// Cancel releases a booked slot and returns the stage to waiting.
func (bc *BookingController) Cancel(c *gin.Context) {
	var req cancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	if err := bc.Coordinator.Cancel(req.CandidateID, req.Stage); err != nil {
		utilities.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, utilities.MessageResponse{Message: "Booking cancelled"})
}

type feedbackRequest struct {
	CandidateID uuid.UUID `json:"candidate_id" binding:"required"`
	Stage       string    `json:"stage" binding:"required"`
	Feedback    string    `json:"feedback" binding:"required"`
}

// Feedback records the interview outcome for a scheduled stage.
func (bc *BookingController) Feedback(c *gin.Context) {
	var req feedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	status, err := bc.Coordinator.SubmitFeedback(req.CandidateID, req.Stage, req.Feedback)
	if err != nil {
		utilities.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

// bindFilters reads the shared filter options from query parameters.
func bindFilters(c *gin.Context) query.FilterOptions {
	var opts query.FilterOptions
	_ = c.ShouldBindQuery(&opts)
	opts.DateRange.Start = c.Query("start")
	opts.DateRange.End = c.Query("end")
	return opts
}

// FreeSlots lists available slots joined with interviewer profiles.
func (bc *BookingController) FreeSlots(c *gin.Context) {
	rows, err := bc.Views.FreeSlots(bindFilters(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to fetch free slots: %s", err.Error()),
		})
		return
	}
	c.JSON(http.StatusOK, rows)
}

// BookedSlots lists scheduled interviews, optionally for one stage.
func (bc *BookingController) BookedSlots(c *gin.Context) {
	rows, err := bc.Views.BookedInterviews(c.Query("stage"), bindFilters(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to fetch booked slots: %s", err.Error()),
		})
		return
	}
	c.JSON(http.StatusOK, rows)
}

// SelectedCandidates lists candidates with a terminal outcome. The outcome
// query parameter defaults to selected; passing rejected lists rejections.
func (bc *BookingController) SelectedCandidates(c *gin.Context) {
	outcome := c.DefaultQuery("outcome", model.CandidateOverallSelected)
	if outcome != model.CandidateOverallSelected && outcome != model.CandidateOverallRejected {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Unknown outcome '%s'", outcome),
		})
		return
	}

	rows, err := bc.Views.CandidatesByOutcome(outcome, bindFilters(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to fetch candidates: %s", err.Error()),
		})
		return
	}
	c.JSON(http.StatusOK, rows)
}
