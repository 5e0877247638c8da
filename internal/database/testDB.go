package database

import (
	"context"
	"fmt"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	// Load env
	_ "github.com/joho/godotenv/autoload"

	m "InterviewDesk-backend/internal/model"
	"InterviewDesk-backend/internal/utilities"
)

var testDBInstance *DBinstanceStruct
var teardown func(context.Context, ...testcontainers.TerminateOption) error

// Exported test users, panels, slots and candidates
var (
	TestAdminUser    m.User
	TestInterviewer1 m.User
	TestInterviewer2 m.User
	TestRecruiter    m.User
	TestPanel1       m.Panel
	TestPanel2       m.Panel

	// Add exported plain password
	TestSeedPassword = "SeedPass123!"

	// Exported seeded slots (all in the future, owned by TestPanel1/TestPanel2)
	TestSlot1 m.Slot
	TestSlot2 m.Slot
	TestSlot3 m.Slot

	// Exported seeded candidates, all still at intake
	TestCandidate1 m.Candidate
	TestCandidate2 m.Candidate
	TestCandidate3 m.Candidate
)

// TestSlotDate returns the calendar date used by seeded slots, days ahead of now.
func TestSlotDate(daysAhead int) string {
	return time.Now().AddDate(0, 0, daysAhead).Format(m.SlotDateLayout)
}

// GetTestDB starts a PostgreSQL test container and returns a teardown function,
// the DB instance, and any error encountered during setup.
func GetTestDB() (func(context.Context, ...testcontainers.TerminateOption) error, *DBinstanceStruct, error) {

	if testDBInstance != nil && teardown != nil {
		return teardown, testDBInstance, nil
	}

	// Database configuration
	var (
		dbName = "database"
		dbPwd  = "password"
		dbUser = "user"
	)

	dbContainer, err := postgres.Run(
		context.Background(),
		"postgres:latest",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPwd),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second)),
	)
	if err != nil {
		return nil, nil, err
	}

	dbHost, err := dbContainer.Host(context.Background())
	if err != nil {
		return dbContainer.Terminate, nil, err
	}

	dbPort, err := dbContainer.MappedPort(context.Background(), nat.Port("5432/tcp"))
	if err != nil {
		return dbContainer.Terminate, nil, err
	}

	config := &DBConfig{
		useConstr: true,
		Constr:    fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable", dbHost, dbPort.Port(), dbUser, dbPwd, dbName),
	}

	db, err := NewDBInstance(config)
	if err != nil {
		return dbContainer.Terminate, nil, err
	}

	// Seed sample users, panels, slots and candidates
	if err := seedTestData(db); err != nil {
		_ = dbContainer.Terminate(context.Background())
		return nil, nil, err
	}

	testDBInstance = db
	teardown = dbContainer.Terminate

	return dbContainer.Terminate, db, nil
}

// seedTestData inserts sample users, panels, slots and candidates if empty.
func seedTestData(db *DBinstanceStruct) error {
	var userCount int64
	if err := db.Model(&m.User{}).Count(&userCount).Error; err != nil {
		return err
	}

	if userCount > 0 {
		return loadTestData(db)
	}

	// Base data
	tels := []*string{ptr("0100000001"), ptr("0100000002"), ptr("0200000001"), ptr("0300000001")}
	emails := []*string{
		ptr("ravi.kumar@example.com"), ptr("anjali.mehta@example.com"),
		ptr("recruiter@example.com"), ptr("admin@example.com"),
	}
	userSpecs := []struct {
		username string
		email    *string
		tel      *string
		role     string
	}{
		{"interviewer_1", emails[0], tels[0], m.RoleInterviewer},
		{"interviewer_2", emails[1], tels[1], m.RoleInterviewer},
		{"recruiter_1", emails[2], tels[2], m.RoleRecruitment},
		{"admin_user", emails[3], tels[3], m.RoleAdmin},
	}

	// Pre-hash shared password for all seeded users
	hashedPwd, errHash := utilities.HashPassword(TestSeedPassword)
	if errHash != nil {
		return errHash
	}

	users := make([]m.User, 0, len(userSpecs))
	for _, s := range userSpecs {
		users = append(users, m.User{
			ID:       uuid.New(),
			Username: s.username,
			ContactInfo: m.ContactInfo{
				Email: s.email,
				Tel:   s.tel,
			},
			Role:     s.role,
			Password: hashedPwd,
		})
	}

	if err := db.Create(&users).Error; err != nil {
		return err
	}

	// Map created users to exported variables
	for _, u := range users {
		switch u.Username {
		case "interviewer_1":
			TestInterviewer1 = u
		case "interviewer_2":
			TestInterviewer2 = u
		case "recruiter_1":
			TestRecruiter = u
		case "admin_user":
			TestAdminUser = u
		}
	}

	panels := []m.Panel{
		{
			UserID: TestInterviewer1.ID,
			EditablePanelInfo: m.EditablePanelInfo{
				Skills:             pq.StringArray{"SAP Basis", "SAP ABAP"},
				ExperienceCategory: "5 years",
				StagesCategory:     pq.StringArray{"L1"},
			},
		},
		{
			UserID: TestInterviewer2.ID,
			EditablePanelInfo: m.EditablePanelInfo{
				Skills:             pq.StringArray{"SAP FICO", "SAP MM"},
				ExperienceCategory: "7 years",
				StagesCategory:     pq.StringArray{"L1", "L2"},
			},
		},
	}
	if err := db.Create(&panels).Error; err != nil {
		return err
	}
	TestPanel1 = panels[0]
	TestPanel2 = panels[1]

	slots := []m.Slot{
		{PanelID: TestPanel1.ID, Date: TestSlotDate(7), Time: "10:00", Duration: 60},
		{PanelID: TestPanel1.ID, Date: TestSlotDate(7), Time: "11:00", Duration: 60},
		{PanelID: TestPanel2.ID, Date: TestSlotDate(8), Time: "14:00", Duration: 30},
	}
	if err := db.Create(&slots).Error; err != nil {
		return err
	}
	TestSlot1 = slots[0]
	TestSlot2 = slots[1]
	TestSlot3 = slots[2]

	candidates := []m.Candidate{
		{
			Name:               "Amit Sharma",
			Email:              "amit.sharma@example.com",
			Phone:              "0811111111",
			TotalExperience:    "5 years",
			RelevantExperience: "3 years",
			Skillset:           pq.StringArray{"SAP Basis", "SAP ABAP"},
		},
		{
			Name:               "Priya Singh",
			Email:              "priya.singh@example.com",
			Phone:              "0822222222",
			TotalExperience:    "4 years",
			RelevantExperience: "2 years",
			Skillset:           pq.StringArray{"SAP FICO", "SAP MM"},
		},
		{
			Name:               "Rahul Verma",
			Email:              "rahul.verma@example.com",
			Phone:              "0833333333",
			TotalExperience:    "6 years",
			RelevantExperience: "4 years",
			Skillset:           pq.StringArray{"SAP HANA", "SAP BW"},
		},
	}
	if err := db.Create(&candidates).Error; err != nil {
		return err
	}
	TestCandidate1 = candidates[0]
	TestCandidate2 = candidates[1]
	TestCandidate3 = candidates[2]

	return nil
}

// loadTestData populates exported variables when records already exist.
func loadTestData(db *DBinstanceStruct) error {
	var users []m.User
	if err := db.Where("username IN ?", []string{
		"interviewer_1", "interviewer_2", "recruiter_1", "admin_user",
	}).Find(&users).Error; err != nil {
		return err
	}
	for _, u := range users {
		switch u.Username {
		case "interviewer_1":
			TestInterviewer1 = u
		case "interviewer_2":
			TestInterviewer2 = u
		case "recruiter_1":
			TestRecruiter = u
		case "admin_user":
			TestAdminUser = u
		}
	}

	if err := db.First(&TestPanel1, "user_id = ?", TestInterviewer1.ID).Error; err != nil {
		return err
	}
	if err := db.First(&TestPanel2, "user_id = ?", TestInterviewer2.ID).Error; err != nil {
		return err
	}

	var slots []m.Slot
	if err := db.Order("id ASC").Limit(3).Find(&slots).Error; err == nil {
		if len(slots) > 0 {
			TestSlot1 = slots[0]
		}
		if len(slots) > 1 {
			TestSlot2 = slots[1]
		}
		if len(slots) > 2 {
			TestSlot3 = slots[2]
		}
	}

	var candidates []m.Candidate
	if err := db.Order("created_at ASC").Limit(3).Find(&candidates).Error; err == nil {
		if len(candidates) > 0 {
			TestCandidate1 = candidates[0]
		}
		if len(candidates) > 1 {
			TestCandidate2 = candidates[1]
		}
		if len(candidates) > 2 {
			TestCandidate3 = candidates[2]
		}
	}

	return nil
}

// ptr helper
func ptr[T any](v T) *T { return &v }
