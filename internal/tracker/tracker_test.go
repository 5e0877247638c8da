package tracker

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"

	"InterviewDesk-backend/internal/apperr"
	"InterviewDesk-backend/internal/database"
	"InterviewDesk-backend/internal/model"
)

var testDB *database.DBinstanceStruct
var testTeardown func(context.Context, ...testcontainers.TerminateOption) error

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)

	var err error
	testTeardown, testDB, err = database.GetTestDB()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start test db: %v\n", err)
		os.Exit(1)
	}

	m.Run()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := testTeardown(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "teardown error: %v\n", err)
	}
}

// newCandidate inserts a fresh candidate so stage transitions in one test
// cannot leak into another.
func newCandidate(t *testing.T, name string) model.Candidate {
	t.Helper()
	candidate := model.Candidate{
		Name:     name,
		Email:    fmt.Sprintf("%s.%d@example.com", name, time.Now().UnixNano()),
		Phone:    "0899999999",
		Skillset: pq.StringArray{"SAP Basis"},
	}
	require.NoError(t, testDB.Create(&candidate).Error)
	return candidate
}

func reloadCandidate(t *testing.T, id interface{}) model.Candidate {
	t.Helper()
	var candidate model.Candidate
	require.NoError(t, testDB.First(&candidate, "id = ?", id).Error)
	return candidate
}

func TestInitializeStageL1(t *testing.T) {
	tr := New(testDB.DB)
	candidate := newCandidate(t, "init_l1")

	status, err := tr.InitializeStage(candidate.ID, model.StageL1, database.TestPanel1.ID, database.TestSlot1.ID, database.TestSlot1.Date, database.TestSlot1.Time)
	require.NoError(t, err)

	assert.Equal(t, model.StageL1, status.CurrentStage)
	assert.Equal(t, model.StageStatusScheduled, status.L1.Status)
	require.NotNil(t, status.L1.SlotID)
	assert.Equal(t, database.TestSlot1.ID, *status.L1.SlotID)
	assert.Equal(t, database.TestSlot1.Date, status.L1.Date)

	assert.Equal(t, model.CandidateOverallActive, reloadCandidate(t, candidate.ID).OverallStatus)
}

func TestInitializeStageUnknownCandidate(t *testing.T) {
	tr := New(testDB.DB)

	_, err := tr.InitializeStage(model.Candidate{}.ID, model.StageL1, database.TestPanel1.ID, database.TestSlot1.ID, database.TestSlot1.Date, database.TestSlot1.Time)
	assert.True(t, apperr.IsNotFound(err), "expected not found, got %v", err)
}

func TestInitializeStageUnknownStage(t *testing.T) {
	tr := New(testDB.DB)
	candidate := newCandidate(t, "init_bad_stage")

	_, err := tr.InitializeStage(candidate.ID, "L3", database.TestPanel1.ID, database.TestSlot1.ID, database.TestSlot1.Date, database.TestSlot1.Time)
	assert.True(t, apperr.IsValidation(err), "expected validation, got %v", err)
}

func TestInitializeL2BeforeL1(t *testing.T) {
	tr := New(testDB.DB)
	candidate := newCandidate(t, "l2_before_l1")

	_, err := tr.InitializeStage(candidate.ID, model.StageL2, database.TestPanel2.ID, database.TestSlot3.ID, database.TestSlot3.Date, database.TestSlot3.Time)
	assert.True(t, apperr.IsConflict(err), "expected conflict, got %v", err)
}

func TestInitializeAlreadyScheduled(t *testing.T) {
	tr := New(testDB.DB)
	candidate := newCandidate(t, "double_schedule")

	_, err := tr.InitializeStage(candidate.ID, model.StageL1, database.TestPanel1.ID, database.TestSlot1.ID, database.TestSlot1.Date, database.TestSlot1.Time)
	require.NoError(t, err)

	_, err = tr.InitializeStage(candidate.ID, model.StageL1, database.TestPanel1.ID, database.TestSlot2.ID, database.TestSlot2.Date, database.TestSlot2.Time)
	assert.True(t, apperr.IsConflict(err), "expected conflict, got %v", err)
}

func TestFeedbackSelectedAtL1AdvancesToL2(t *testing.T) {
	tr := New(testDB.DB)
	candidate := newCandidate(t, "l1_selected")

	_, err := tr.InitializeStage(candidate.ID, model.StageL1, database.TestPanel1.ID, database.TestSlot1.ID, database.TestSlot1.Date, database.TestSlot1.Time)
	require.NoError(t, err)

	status, err := tr.RecordFeedback(candidate.ID, model.StageL1, model.FeedbackSelected)
	require.NoError(t, err)

	assert.Equal(t, model.StageStatusSelected, status.L1.Status)
	assert.Equal(t, model.StageL2, status.CurrentStage)
	assert.Equal(t, model.StageStatusWaiting, status.L2.Status)
	require.NotNil(t, status.L1.Feedback)
	assert.Equal(t, model.FeedbackSelected, *status.L1.Feedback)

	// not terminal yet
	assert.Equal(t, model.CandidateOverallActive, reloadCandidate(t, candidate.ID).OverallStatus)
}

func TestFeedbackSelectedAtL2IsTerminal(t *testing.T) {
	tr := New(testDB.DB)
	candidate := newCandidate(t, "l2_selected")

	_, err := tr.InitializeStage(candidate.ID, model.StageL1, database.TestPanel1.ID, database.TestSlot1.ID, database.TestSlot1.Date, database.TestSlot1.Time)
	require.NoError(t, err)
	_, err = tr.RecordFeedback(candidate.ID, model.StageL1, model.FeedbackSelected)
	require.NoError(t, err)
	_, err = tr.InitializeStage(candidate.ID, model.StageL2, database.TestPanel2.ID, database.TestSlot3.ID, database.TestSlot3.Date, database.TestSlot3.Time)
	require.NoError(t, err)

	status, err := tr.RecordFeedback(candidate.ID, model.StageL2, model.FeedbackSelected)
	require.NoError(t, err)

	assert.Equal(t, model.StageSelected, status.CurrentStage)
	assert.Equal(t, model.StageStatusSelected, status.L2.Status)
	assert.Equal(t, model.CandidateOverallSelected, reloadCandidate(t, candidate.ID).OverallStatus)
}

func TestFeedbackRejectedIsTerminal(t *testing.T) {
	tr := New(testDB.DB)
	candidate := newCandidate(t, "l1_rejected")

	_, err := tr.InitializeStage(candidate.ID, model.StageL1, database.TestPanel1.ID, database.TestSlot1.ID, database.TestSlot1.Date, database.TestSlot1.Time)
	require.NoError(t, err)

	status, err := tr.RecordFeedback(candidate.ID, model.StageL1, model.FeedbackRejected)
	require.NoError(t, err)

	assert.Equal(t, model.StageRejected, status.CurrentStage)
	assert.Equal(t, model.StageStatusRejected, status.L1.Status)
	assert.Equal(t, model.CandidateOverallRejected, reloadCandidate(t, candidate.ID).OverallStatus)

	// no further scheduling once terminal
	_, err = tr.InitializeStage(candidate.ID, model.StageL1, database.TestPanel1.ID, database.TestSlot2.ID, database.TestSlot2.Date, database.TestSlot2.Time)
	assert.True(t, apperr.IsConflict(err), "expected conflict, got %v", err)
}

func TestFeedbackNoShowReturnsToWaiting(t *testing.T) {
	tr := New(testDB.DB)
	candidate := newCandidate(t, "l1_no_show")

	_, err := tr.InitializeStage(candidate.ID, model.StageL1, database.TestPanel1.ID, database.TestSlot1.ID, database.TestSlot1.Date, database.TestSlot1.Time)
	require.NoError(t, err)

	status, err := tr.RecordFeedback(candidate.ID, model.StageL1, model.FeedbackNoShow)
	require.NoError(t, err)

	assert.Equal(t, model.StageStatusWaiting, status.L1.Status)
	assert.Nil(t, status.L1.PanelID)
	assert.Nil(t, status.L1.SlotID)
	assert.Empty(t, status.L1.Date)
	assert.Empty(t, status.L1.Time)
	require.NotNil(t, status.L1.Feedback)
	assert.Equal(t, model.FeedbackNoShow, *status.L1.Feedback)

	// the same stage can be scheduled again afterwards
	_, err = tr.InitializeStage(candidate.ID, model.StageL1, database.TestPanel1.ID, database.TestSlot2.ID, database.TestSlot2.Date, database.TestSlot2.Time)
	assert.NoError(t, err)
}

func TestFeedbackOnUnscheduledStage(t *testing.T) {
	tr := New(testDB.DB)
	candidate := newCandidate(t, "fb_unscheduled")

	_, err := tr.RecordFeedback(candidate.ID, model.StageL1, model.FeedbackSelected)
	assert.True(t, apperr.IsNotFound(err), "expected not found, got %v", err)

	_, err = tr.InitializeStage(candidate.ID, model.StageL1, database.TestPanel1.ID, database.TestSlot1.ID, database.TestSlot1.Date, database.TestSlot1.Time)
	require.NoError(t, err)

	_, err = tr.RecordFeedback(candidate.ID, model.StageL2, model.FeedbackSelected)
	assert.True(t, apperr.IsConflict(err), "expected conflict, got %v", err)
}

func TestFeedbackUnknownValue(t *testing.T) {
	tr := New(testDB.DB)
	candidate := newCandidate(t, "fb_unknown")

	_, err := tr.RecordFeedback(candidate.ID, model.StageL1, "maybe")
	assert.True(t, apperr.IsValidation(err), "expected validation, got %v", err)
}

func TestResetStage(t *testing.T) {
	tr := New(testDB.DB)
	candidate := newCandidate(t, "reset_l1")

	_, err := tr.InitializeStage(candidate.ID, model.StageL1, database.TestPanel1.ID, database.TestSlot1.ID, database.TestSlot1.Date, database.TestSlot1.Time)
	require.NoError(t, err)

	status, err := tr.ResetStage(candidate.ID, model.StageL1)
	require.NoError(t, err)

	assert.Equal(t, model.StageStatusWaiting, status.L1.Status)
	assert.Nil(t, status.L1.SlotID)
	assert.Nil(t, status.L1.Feedback)
	assert.Equal(t, model.CandidateOverallWaiting, reloadCandidate(t, candidate.ID).OverallStatus)

	// only a scheduled stage can be reset
	_, err = tr.ResetStage(candidate.ID, model.StageL1)
	assert.True(t, apperr.IsNotFound(err), "expected not found, got %v", err)
}

func TestGetStatusBeforeScheduling(t *testing.T) {
	tr := New(testDB.DB)
	candidate := newCandidate(t, "status_intake")

	status, err := tr.GetStatus(candidate.ID)
	require.NoError(t, err)
	assert.Nil(t, status)
}
