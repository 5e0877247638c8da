package query

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

	"InterviewDesk-backend/internal/booking"
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

func newCandidate(t *testing.T, name string, skills ...string) model.Candidate {
	t.Helper()
	candidate := model.Candidate{
		Name:     name,
		Email:    fmt.Sprintf("%s.%d@example.com", name, time.Now().UnixNano()),
		Phone:    "0866666666",
		Skillset: pq.StringArray(skills),
	}
	require.NoError(t, testDB.Create(&candidate).Error)
	return candidate
}

func TestFreeSlotsExcludesBooked(t *testing.T) {
	c := booking.New(testDB)
	views := New(testDB.DB)
	candidate := newCandidate(t, "view_free", "SAP Basis")

	date := database.TestSlotDate(50)
	freeSlot, err := c.Slots().Create(database.TestPanel1.ID, date, "09:00", 60)
	require.NoError(t, err)
	bookedSlot, err := c.Slots().Create(database.TestPanel1.ID, date, "10:00", 60)
	require.NoError(t, err)
	_, err = c.Book(candidate.ID, model.StageL1, bookedSlot.PanelID, bookedSlot.Date, bookedSlot.Time)
	require.NoError(t, err)

	rows, err := views.FreeSlots(FilterOptions{DateRange: DateRange{Start: date, End: date}})
	require.NoError(t, err)

	ids := make([]uint, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.SlotID)
		assert.NotEmpty(t, row.Interviewer)
	}
	assert.Contains(t, ids, freeSlot.ID)
	assert.NotContains(t, ids, bookedSlot.ID)
}

func TestFreeSlotsJoinsPanelProfile(t *testing.T) {
	views := New(testDB.DB)

	date := database.TestSlotDate(51)
	slot, err := booking.New(testDB).Slots().Create(database.TestPanel2.ID, date, "09:00", 30)
	require.NoError(t, err)

	rows, err := views.FreeSlots(FilterOptions{DateRange: DateRange{Start: date, End: date}})
	require.NoError(t, err)

	var found *FreeSlotRow
	for i := range rows {
		if rows[i].SlotID == slot.ID {
			found = &rows[i]
		}
	}
	require.NotNil(t, found, "created slot missing from listing")
	assert.Equal(t, database.TestInterviewer2.Username, found.Interviewer)
	assert.ElementsMatch(t, []string(database.TestPanel2.Skills), found.Skills)
	assert.Equal(t, database.TestPanel2.ExperienceCategory, found.Experience)
}

func TestFreeSlotsSkillFilter(t *testing.T) {
	views := New(testDB.DB)

	date := database.TestSlotDate(52)
	_, err := booking.New(testDB).Slots().Create(database.TestPanel1.ID, date, "09:00", 30)
	require.NoError(t, err)

	rows, err := views.FreeSlots(FilterOptions{
		Skills:    []string{"SAP Basis"},
		DateRange: DateRange{Start: date, End: date},
	})
	require.NoError(t, err)
	require.NotEmpty(t, rows)
	for _, row := range rows {
		assert.Contains(t, row.Skills, "SAP Basis")
	}

	rows, err = views.FreeSlots(FilterOptions{
		Skills:    []string{"COBOL"},
		DateRange: DateRange{Start: date, End: date},
	})
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestBookedInterviewsByStage(t *testing.T) {
	c := booking.New(testDB)
	views := New(testDB.DB)
	candidate := newCandidate(t, "view_booked", "SAP FICO")

	date := database.TestSlotDate(53)
	slot, err := c.Slots().Create(database.TestPanel2.ID, date, "11:00", 30)
	require.NoError(t, err)
	_, err = c.Book(candidate.ID, model.StageL1, slot.PanelID, slot.Date, slot.Time)
	require.NoError(t, err)

	rows, err := views.BookedInterviews(model.StageL1, FilterOptions{DateRange: DateRange{Start: date, End: date}})
	require.NoError(t, err)

	var found *BookedInterviewRow
	for i := range rows {
		if rows[i].CandidateID == candidate.ID.String() {
			found = &rows[i]
		}
	}
	require.NotNil(t, found, "booked interview missing from listing")
	assert.Equal(t, candidate.Name, found.CandidateName)
	assert.Equal(t, model.StageL1, found.Stage)
	assert.Equal(t, database.TestInterviewer2.Username, found.Interviewer)
	require.NotNil(t, found.SlotID)
	assert.Equal(t, slot.ID, *found.SlotID)

	// filtering by the other stage hides it
	rows, err = views.BookedInterviews(model.StageL2, FilterOptions{DateRange: DateRange{Start: date, End: date}})
	require.NoError(t, err)
	for _, row := range rows {
		assert.NotEqual(t, candidate.ID.String(), row.CandidateID)
	}
}

func TestBookedInterviewsSearch(t *testing.T) {
	c := booking.New(testDB)
	views := New(testDB.DB)
	candidate := newCandidate(t, "view_search_zalgo", "SAP HANA")

	date := database.TestSlotDate(54)
	slot, err := c.Slots().Create(database.TestPanel1.ID, date, "11:00", 30)
	require.NoError(t, err)
	_, err = c.Book(candidate.ID, model.StageL1, slot.PanelID, slot.Date, slot.Time)
	require.NoError(t, err)

	rows, err := views.BookedInterviews("", FilterOptions{SearchText: "ZALGO"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, candidate.ID.String(), rows[0].CandidateID)
}

func TestCandidatesByOutcome(t *testing.T) {
	c := booking.New(testDB)
	views := New(testDB.DB)
	selected := newCandidate(t, "view_selected", "SAP BW")
	rejected := newCandidate(t, "view_rejected", "SAP MM")

	date := database.TestSlotDate(55)
	l1Slot, err := c.Slots().Create(database.TestPanel1.ID, date, "09:00", 30)
	require.NoError(t, err)
	l2Slot, err := c.Slots().Create(database.TestPanel2.ID, date, "10:00", 30)
	require.NoError(t, err)
	rejSlot, err := c.Slots().Create(database.TestPanel1.ID, date, "11:00", 30)
	require.NoError(t, err)

	_, err = c.Book(selected.ID, model.StageL1, l1Slot.PanelID, l1Slot.Date, l1Slot.Time)
	require.NoError(t, err)
	_, err = c.SubmitFeedback(selected.ID, model.StageL1, model.FeedbackSelected)
	require.NoError(t, err)
	_, err = c.Book(selected.ID, model.StageL2, l2Slot.PanelID, l2Slot.Date, l2Slot.Time)
	require.NoError(t, err)
	_, err = c.SubmitFeedback(selected.ID, model.StageL2, model.FeedbackSelected)
	require.NoError(t, err)

	_, err = c.Book(rejected.ID, model.StageL1, rejSlot.PanelID, rejSlot.Date, rejSlot.Time)
	require.NoError(t, err)
	_, err = c.SubmitFeedback(rejected.ID, model.StageL1, model.FeedbackRejected)
	require.NoError(t, err)

	rows, err := views.CandidatesByOutcome(model.CandidateOverallSelected, FilterOptions{})
	require.NoError(t, err)
	var found *CandidateOutcomeRow
	for i := range rows {
		if rows[i].Candidate.ID == selected.ID {
			found = &rows[i]
		}
		assert.NotEqual(t, rejected.ID, rows[i].Candidate.ID)
	}
	require.NotNil(t, found, "selected candidate missing from listing")
	assert.Equal(t, database.TestInterviewer1.Username, found.L1Interviewer)
	assert.Equal(t, database.TestInterviewer2.Username, found.L2Interviewer)
	assert.Equal(t, date, found.L1Date)
	assert.Equal(t, date, found.L2Date)

	rows, err = views.CandidatesByOutcome(model.CandidateOverallRejected, FilterOptions{})
	require.NoError(t, err)
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.Candidate.ID.String())
	}
	assert.Contains(t, ids, rejected.ID.String())
}
