package users_test

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"

	"InterviewDesk-backend/internal/auth"
	"InterviewDesk-backend/internal/database"
	"InterviewDesk-backend/internal/server"
	"InterviewDesk-backend/internal/testutil"
)

var testDB *database.DBinstanceStruct
var testTeardown func(context.Context, ...testcontainers.TerminateOption) error
var router *gin.Engine

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	if os.Getenv("ALLOW_ORIGIN") == "" {
		os.Setenv("ALLOW_ORIGIN", "http://localhost:3000")
	}

	var err error
	testTeardown, testDB, err = database.GetTestDB()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start test db: %v\n", err)
		os.Exit(1)
	}

	s := &server.MyServer{DB: testDB}
	router = s.RegisterRoutes().(*gin.Engine)

	m.Run()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := testTeardown(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "teardown error: %v\n", err)
	}
}

func adminToken(t *testing.T) string {
	t.Helper()
	token, err := auth.GetAccessToken(t, testDB, database.TestAdminUser.Username, database.TestSeedPassword)
	require.NoError(t, err)
	return token
}

func recruiterToken(t *testing.T) string {
	t.Helper()
	token, err := auth.GetAccessToken(t, testDB, database.TestRecruiter.Username, database.TestSeedPassword)
	require.NoError(t, err)
	return token
}

func TestGetMe(t *testing.T) {
	rec, resp := testutil.MakeJSONRequest(nil, recruiterToken(t), router, "/api/v1/users/me", http.MethodGet)

	assert.Equal(t, http.StatusOK, rec.Code, "body: %s", rec.Body.String())
	assert.Equal(t, database.TestRecruiter.Username, resp["username"])
	// password hash never leaves the API
	assert.NotContains(t, resp, "password")
}

func TestGetMeWithoutToken(t *testing.T) {
	rec, _ := testutil.MakeJSONRequest(nil, "", router, "/api/v1/users/me", http.MethodGet)
	assert.NotEqual(t, http.StatusOK, rec.Code)
}

func TestGetUsersRequiresAdmin(t *testing.T) {
	rec, _ := testutil.MakeJSONRequest(nil, recruiterToken(t), router, "/api/v1/users", http.MethodGet)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = testutil.MakeJSONRequest(nil, adminToken(t), router, "/api/v1/users", http.MethodGet)
	assert.Equal(t, http.StatusOK, rec.Code, "body: %s", rec.Body.String())
}

func TestGetUserByID(t *testing.T) {
	endpoint := "/api/v1/users/" + database.TestInterviewer1.ID.String()
	rec, resp := testutil.MakeJSONRequest(nil, recruiterToken(t), router, endpoint, http.MethodGet)

	assert.Equal(t, http.StatusOK, rec.Code, "body: %s", rec.Body.String())
	assert.Equal(t, database.TestInterviewer1.Username, resp["username"])
}

func TestGetUserByIDNotFound(t *testing.T) {
	rec, _ := testutil.MakeJSONRequest(nil, adminToken(t), router,
		"/api/v1/users/00000000-0000-0000-0000-000000000000", http.MethodGet)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEditUserRejectsUnknownRole(t *testing.T) {
	endpoint := "/api/v1/users/" + database.TestInterviewer2.ID.String()
	rec, _ := testutil.MakeJSONRequest(gin.H{"role": "superuser"}, adminToken(t), router, endpoint, http.MethodPatch)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEditUserRequiresAdmin(t *testing.T) {
	endpoint := "/api/v1/users/" + database.TestInterviewer2.ID.String()
	rec, _ := testutil.MakeJSONRequest(gin.H{"tel": "0999999999"}, recruiterToken(t), router, endpoint, http.MethodPatch)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestEditUserContactInfo(t *testing.T) {
	endpoint := "/api/v1/users/" + database.TestInterviewer2.ID.String()
	rec, resp := testutil.MakeJSONRequest(gin.H{"tel": "0988888888"}, adminToken(t), router, endpoint, http.MethodPatch)

	assert.Equal(t, http.StatusOK, rec.Code, "body: %s", rec.Body.String())
	assert.Equal(t, "0988888888", resp["tel"])
	// untouched fields survive a partial update
	assert.Equal(t, database.TestInterviewer2.Username, resp["username"])
}

func TestGetPanel(t *testing.T) {
	endpoint := "/api/v1/users/" + database.TestInterviewer1.ID.String() + "/panel"
	rec, resp := testutil.MakeJSONRequest(nil, recruiterToken(t), router, endpoint, http.MethodGet)

	assert.Equal(t, http.StatusOK, rec.Code, "body: %s", rec.Body.String())
	assert.EqualValues(t, database.TestPanel1.ID, resp["id"])
}

func TestGetPanelNotFound(t *testing.T) {
	endpoint := "/api/v1/users/" + database.TestRecruiter.ID.String() + "/panel"
	rec, _ := testutil.MakeJSONRequest(nil, recruiterToken(t), router, endpoint, http.MethodGet)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpsertPanelUpdatesProfile(t *testing.T) {
	endpoint := "/api/v1/users/" + database.TestInterviewer1.ID.String() + "/panel"
	payload := gin.H{"experience_category": "8 years"}
	rec, resp := testutil.MakeJSONRequest(payload, adminToken(t), router, endpoint, http.MethodPut)

	assert.Equal(t, http.StatusOK, rec.Code, "body: %s", rec.Body.String())
	assert.Equal(t, "8 years", resp["experience_category"])
}

func TestUpsertPanelOnNonInterviewer(t *testing.T) {
	endpoint := "/api/v1/users/" + database.TestRecruiter.ID.String() + "/panel"
	payload := gin.H{"experience_category": "3 years"}
	rec, _ := testutil.MakeJSONRequest(payload, adminToken(t), router, endpoint, http.MethodPut)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
