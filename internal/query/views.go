// Package query produces the read-only projections behind the dashboards:
// free slots by interviewer, booked interviews by stage, and candidates by
// terminal outcome. Views are pure reads of current state; a listing never
// fails because a join target is missing, the affected fields just render
// blank.
package query

import (
	"strings"
	"time"

	"gorm.io/gorm"

	"InterviewDesk-backend/internal/model"
)

// DateRange bounds a listing by inclusive calendar dates.
type DateRange struct {
	Start string `form:"start" json:"start"`
	End   string `form:"end" json:"end"`
}

// FilterOptions are the caller-supplied predicates every view accepts.
// Zero values mean "no filter".
type FilterOptions struct {
	Skills         []string `form:"skills" json:"skills"`
	ExperienceBand string   `form:"experience_band" json:"experience_band"`
	StageCategory  string   `form:"stage_category" json:"stage_category"`
	Month          int      `form:"month" json:"month"`
	DateRange      DateRange
	SearchText     string `form:"search" json:"search"`
}

// Views reads joined Slot + Candidate + CandidateStatus projections.
type Views struct {
	db *gorm.DB
}

// New creates a Views reader bound to the given database handle.
func New(db *gorm.DB) *Views {
	return &Views{db: db}
}

// FreeSlotRow is one row of the free-slots dashboard: an available window
// joined with its interviewer's panel profile.
type FreeSlotRow struct {
	SlotID      uint     `json:"slot_id"`
	PanelID     uint     `json:"panel_id"`
	Interviewer string   `json:"interviewer"`
	Email       string   `json:"email"`
	Date        string   `json:"date"`
	Time        string   `json:"time"`
	Duration    int      `json:"duration"`
	Skills      []string `json:"skills"`
	Experience  string   `json:"experience"`
	Categories  []string `json:"categories"`
}

// FreeSlots lists every available slot joined with panel and interviewer,
// filtered by the given options.
func (v *Views) FreeSlots(opts FilterOptions) ([]FreeSlotRow, error) {
	var slots []model.Slot
	err := v.db.Preload("Panel.User").
		Where("status = ?", model.SlotStatusAvailable).
		Order("date, time").
		Find(&slots).Error
	if err != nil {
		return nil, err
	}

	rows := make([]FreeSlotRow, 0, len(slots))
	for _, slot := range slots {
		row := FreeSlotRow{
			SlotID:     slot.ID,
			PanelID:    slot.PanelID,
			Date:       slot.Date,
			Time:       slot.Time,
			Duration:   slot.Duration,
			Skills:     slot.Panel.Skills,
			Experience: slot.Panel.ExperienceCategory,
			Categories: slot.Panel.StagesCategory,
		}
		row.Interviewer = slot.Panel.User.Username
		if slot.Panel.User.Email != nil {
			row.Email = *slot.Panel.User.Email
		}
		if !matchFreeSlot(row, opts) {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func matchFreeSlot(row FreeSlotRow, opts FilterOptions) bool {
	if !containsAll(row.Skills, opts.Skills) {
		return false
	}
	if opts.ExperienceBand != "" && row.Experience != opts.ExperienceBand {
		return false
	}
	if opts.StageCategory != "" && !containsString(row.Categories, opts.StageCategory) {
		return false
	}
	if !matchDate(row.Date, opts) {
		return false
	}
	if opts.SearchText != "" {
		return matchSearch(opts.SearchText,
			row.Interviewer, row.Email, row.Date, row.Time,
			row.Experience, strings.Join(row.Skills, " "), strings.Join(row.Categories, " "))
	}
	return true
}

// BookedInterviewRow is one row of the booked-slots dashboard: a scheduled
// stage joined with candidate and interviewer details.
type BookedInterviewRow struct {
	CandidateID    string `json:"candidate_id"`
	CandidateName  string `json:"candidate_name"`
	CandidateEmail string `json:"candidate_email"`
	Stage          string `json:"stage"`
	Interviewer    string `json:"interviewer"`
	Date           string `json:"date"`
	Time           string `json:"time"`
	SlotID         *uint  `json:"slot_id"`
}

// BookedInterviews lists every scheduled stage, optionally restricted to one
// stage, joined with candidate and interviewer. Interviewers that cannot be
// resolved render blank.
func (v *Views) BookedInterviews(stage string, opts FilterOptions) ([]BookedInterviewRow, error) {
	var statuses []model.CandidateStatus
	if err := v.db.Preload("Candidate").Order("id ASC").Find(&statuses).Error; err != nil {
		return nil, err
	}

	interviewers, err := v.interviewersByPanel()
	if err != nil {
		return nil, err
	}

	var rows []BookedInterviewRow
	for _, status := range statuses {
		for _, st := range []string{model.StageL1, model.StageL2} {
			if stage != "" && st != stage {
				continue
			}
			record := status.Stage(st)
			if record.Status != model.StageStatusScheduled {
				continue
			}
			row := BookedInterviewRow{
				CandidateID:    status.CandidateID.String(),
				CandidateName:  status.Candidate.Name,
				CandidateEmail: status.Candidate.Email,
				Stage:          st,
				Date:           record.Date,
				Time:           record.Time,
				SlotID:         record.SlotID,
			}
			if record.PanelID != nil {
				row.Interviewer = interviewers[*record.PanelID]
			}
			if !matchBooked(row, status.Candidate, opts) {
				continue
			}
			rows = append(rows, row)
		}
	}
	return rows, nil
}

func matchBooked(row BookedInterviewRow, candidate model.Candidate, opts FilterOptions) bool {
	if !containsAll(candidate.Skillset, opts.Skills) {
		return false
	}
	if opts.ExperienceBand != "" && candidate.TotalExperience != opts.ExperienceBand {
		return false
	}
	if opts.StageCategory != "" && row.Stage != opts.StageCategory {
		return false
	}
	if !matchDate(row.Date, opts) {
		return false
	}
	if opts.SearchText != "" {
		return matchSearch(opts.SearchText,
			row.CandidateName, row.CandidateEmail, row.Interviewer,
			row.Stage, row.Date, row.Time, strings.Join(candidate.Skillset, " "))
	}
	return true
}

// CandidateOutcomeRow is one row of the selected/rejected candidates
// dashboard, carrying both stage schedules alongside the candidate.
type CandidateOutcomeRow struct {
	Candidate     model.Candidate `json:"candidate"`
	L1Interviewer string          `json:"l1_interviewer"`
	L1Date        string          `json:"l1_date"`
	L1Time        string          `json:"l1_time"`
	L2Interviewer string          `json:"l2_interviewer"`
	L2Date        string          `json:"l2_date"`
	L2Time        string          `json:"l2_time"`
}

// CandidatesByOutcome lists candidates whose overall status equals outcome
// ("selected" or "rejected"), joined with their stage schedules.
func (v *Views) CandidatesByOutcome(outcome string, opts FilterOptions) ([]CandidateOutcomeRow, error) {
	var candidates []model.Candidate
	err := v.db.Preload("Status").
		Where("overall_status = ?", outcome).
		Order("created_at ASC").
		Find(&candidates).Error
	if err != nil {
		return nil, err
	}

	interviewers, err := v.interviewersByPanel()
	if err != nil {
		return nil, err
	}

	rows := make([]CandidateOutcomeRow, 0, len(candidates))
	for _, candidate := range candidates {
		row := CandidateOutcomeRow{Candidate: candidate}
		if candidate.Status != nil {
			row.L1Date = candidate.Status.L1.Date
			row.L1Time = candidate.Status.L1.Time
			row.L2Date = candidate.Status.L2.Date
			row.L2Time = candidate.Status.L2.Time
			if candidate.Status.L1.PanelID != nil {
				row.L1Interviewer = interviewers[*candidate.Status.L1.PanelID]
			}
			if candidate.Status.L2.PanelID != nil {
				row.L2Interviewer = interviewers[*candidate.Status.L2.PanelID]
			}
		}
		if !matchOutcome(row, opts) {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func matchOutcome(row CandidateOutcomeRow, opts FilterOptions) bool {
	if !containsAll(row.Candidate.Skillset, opts.Skills) {
		return false
	}
	if opts.ExperienceBand != "" && row.Candidate.TotalExperience != opts.ExperienceBand {
		return false
	}
	if opts.SearchText != "" {
		return matchSearch(opts.SearchText,
			row.Candidate.Name, row.Candidate.Email, row.Candidate.Phone,
			row.Candidate.TotalExperience, row.Candidate.RelevantExperience,
			strings.Join(row.Candidate.Skillset, " "),
			row.L1Interviewer, row.L1Date, row.L1Time,
			row.L2Interviewer, row.L2Date, row.L2Time)
	}
	return true
}

// interviewersByPanel maps panel id to the owning interviewer's username.
func (v *Views) interviewersByPanel() (map[uint]string, error) {
	var panels []model.Panel
	if err := v.db.Preload("User").Find(&panels).Error; err != nil {
		return nil, err
	}
	names := make(map[uint]string, len(panels))
	for _, p := range panels {
		names[p.ID] = p.User.Username
	}
	return names, nil
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}

func containsAll(haystack, needles []string) bool {
	for _, n := range needles {
		if !containsString(haystack, n) {
			return false
		}
	}
	return true
}

func matchDate(date string, opts FilterOptions) bool {
	if opts.DateRange.Start != "" && date < opts.DateRange.Start {
		return false
	}
	if opts.DateRange.End != "" && date > opts.DateRange.End {
		return false
	}
	if opts.Month != 0 {
		t, err := time.Parse(model.SlotDateLayout, date)
		if err != nil || int(t.Month()) != opts.Month {
			return false
		}
	}
	return true
}

// matchSearch reports whether any field contains the term, case-insensitive.
func matchSearch(term string, fields ...string) bool {
	term = strings.ToLower(term)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}
