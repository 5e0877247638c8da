package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"

	"InterviewDesk-backend/internal/auth"
	"InterviewDesk-backend/internal/database"
	"InterviewDesk-backend/internal/model"
	"InterviewDesk-backend/internal/utilities"
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

func authedEngine(extra ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	handlers := append([]gin.HandlerFunc{RequireAuth(testDB)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		user := utilities.ExtractUser(c)
		c.JSON(http.StatusOK, gin.H{"username": user.Username})
	})
	r.GET("/protected", handlers...)
	return r
}

func request(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestRequireAuthValidToken(t *testing.T) {
	token, err := auth.GetAccessToken(t, testDB, database.TestRecruiter.Username, database.TestSeedPassword)
	require.NoError(t, err)

	rec := request(authedEngine(), token)
	assert.Equal(t, http.StatusOK, rec.Code, "body: %s", rec.Body.String())
	assert.Contains(t, rec.Body.String(), database.TestRecruiter.Username)
}

func TestRequireAuthMissingHeader(t *testing.T) {
	rec := request(authedEngine(), "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRequireAuthGarbageToken(t *testing.T) {
	rec := request(authedEngine(), "not.a.token")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuthUnknownSubject(t *testing.T) {
	// token for a user that no longer exists
	access, _, err := auth.GenerateStandardToken(model.User{}.ID)
	require.NoError(t, err)

	rec := request(authedEngine(), access)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCheckRoleAllows(t *testing.T) {
	token, err := auth.GetAccessToken(t, testDB, database.TestAdminUser.Username, database.TestSeedPassword)
	require.NoError(t, err)

	rec := request(authedEngine(CheckRole(model.RoleAdmin)), token)
	assert.Equal(t, http.StatusOK, rec.Code, "body: %s", rec.Body.String())
}

func TestCheckRoleRejects(t *testing.T) {
	token, err := auth.GetAccessToken(t, testDB, database.TestInterviewer1.Username, database.TestSeedPassword)
	require.NoError(t, err)

	rec := request(authedEngine(CheckRole(model.RoleAdmin)), token)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestSafeHeaderSetsSecurityHeaders(t *testing.T) {
	r := gin.New()
	r.GET("/", SafeHeader(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req, _ := http.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
}
