// Package candidates contain handler for candidate intake and status
// listing endpoints used by the recruitment dashboard.
package candidates

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"InterviewDesk-backend/internal/database"
	"InterviewDesk-backend/internal/model"
	"InterviewDesk-backend/internal/tracker"
	"InterviewDesk-backend/internal/utilities"
)

// CandidateController struct holds the database connection for candidate-related operations.
type CandidateController struct {
	DB      *database.DBinstanceStruct
	Tracker *tracker.Tracker
}

// NewCandidateController creates a new instance of CandidateController with the provided database connection.
func NewCandidateController(db *database.DBinstanceStruct, tr *tracker.Tracker) *CandidateController {
	return &CandidateController{
		DB:      db,
		Tracker: tr,
	}
}

// CreateCandidate handles single-profile intake.
func (cc *CandidateController) CreateCandidate(c *gin.Context) {
	var candidate model.Candidate
	if err := c.ShouldBindJSON(&candidate); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	if candidate.Name == "" || candidate.Email == "" {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Candidate name and email must be provided",
		})
		return
	}

	// Prevent duplicate intake for the same email
	existing := model.Candidate{}
	if err := cc.DB.Where("email = ?", candidate.Email).First(&existing).Error; err == nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Candidate with this email already exists",
		})
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: "Failed to check existing candidate",
		})
		return
	}

	candidate.OverallStatus = model.CandidateOverallWaiting

	if err := cc.DB.Create(&candidate).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to create candidate: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusCreated, candidate)
}

// GetCandidates fetches all candidates with their status records preloaded.
func (cc *CandidateController) GetCandidates(c *gin.Context) {
	var candidates []model.Candidate
	if err := cc.DB.Preload("Status").Order("created_at ASC").Find(&candidates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to fetch candidates: %s", err.Error()),
		})
		return
	}
	c.JSON(http.StatusOK, candidates)
}

type bulkUploadResult struct {
	Created int      `json:"created"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors,omitempty"`
}

// BulkUpload handles spreadsheet-style intake of many candidate profiles at
// once. Rows with missing fields or duplicate emails are skipped, not fatal.
func (cc *CandidateController) BulkUpload(c *gin.Context) {
	var rows []model.Candidate
	if err := c.ShouldBindJSON(&rows); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	result := bulkUploadResult{}
	for i, row := range rows {
		if row.Name == "" || row.Email == "" {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: name and email required", i))
			continue
		}

		var count int64
		if err := cc.DB.Model(&model.Candidate{}).Where("email = ?", row.Email).Count(&count).Error; err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %s", i, err.Error()))
			continue
		}
		if count > 0 {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: candidate %s already exists", i, row.Email))
			continue
		}

		row.OverallStatus = model.CandidateOverallWaiting
		if err := cc.DB.Create(&row).Error; err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %s", i, err.Error()))
			continue
		}
		result.Created++
	}

	c.JSON(http.StatusCreated, result)
}

// GetCandidateStatuses fetches every stage progression record.
func (cc *CandidateController) GetCandidateStatuses(c *gin.Context) {
	statuses, err := cc.Tracker.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to fetch candidate statuses: %s", err.Error()),
		})
		return
	}
	c.JSON(http.StatusOK, statuses)
}

// GetCandidateStatus fetches the stage progression record of one candidate.
func (cc *CandidateController) GetCandidateStatus(c *gin.Context) {
	id, err := uuidParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	status, err := cc.Tracker.GetStatus(id)
	if err != nil {
		utilities.RespondError(c, err)
		return
	}
	if status == nil {
		c.JSON(http.StatusOK, gin.H{"candidate_id": id, "status": nil})
		return
	}
	c.JSON(http.StatusOK, status)
}
