package server

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	// Load env
	_ "github.com/joho/godotenv/autoload"

	"InterviewDesk-backend/internal/auth"
	"InterviewDesk-backend/internal/booking"
	"InterviewDesk-backend/internal/controller/bookings"
	"InterviewDesk-backend/internal/controller/candidates"
	"InterviewDesk-backend/internal/controller/panelslots"
	"InterviewDesk-backend/internal/controller/users"
	"InterviewDesk-backend/internal/middleware"
	"InterviewDesk-backend/internal/model"
)

// RegisterRoutes will register each http endpoint routes to bound MyServer instance
func (s *MyServer) RegisterRoutes() http.Handler {
	r := gin.Default()

	allowOrginsStr := os.Getenv("ALLOW_ORIGIN")
	allowOrgins := strings.Split(allowOrginsStr, ",")

	lAuth := auth.NewLocalAuthHandler(s.DB)
	coordinator := booking.New(s.DB)
	userController := users.NewUserController(s.DB)
	slotController := panelslots.NewPanelSlotController(s.DB, coordinator.Slots())
	candidateController := candidates.NewCandidateController(s.DB, coordinator.Tracker())
	bookingController := bookings.NewBookingController(s.DB, coordinator)

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrgins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))
	r.Use(middleware.SafeHeader())

	r.GET("/", s.HelloWorldHandler)
	r.GET("/health", s.healthHandler)
	v1 := r.Group("/api/v1")
	{
		authRoute := v1.Group("/auth")
		{
			authRoute.Use(middleware.EnvRateLimitMiddleware())
			authRoute.POST("login", lAuth.LocalLoginHandler)
			authRoute.POST("register", lAuth.LocalRegisterHandler)
		}

		needAuth := v1.Group("")
		{
			needAuth.Use(middleware.RequireAuth(s.DB))

			userRoute := needAuth.Group("/users")
			{
				userRoute.GET("me", userController.GetMe)
				userRoute.GET(":id", userController.GetUserByID)
				userRoute.GET(":id/panel", userController.GetPanel)
				userRoute.PUT(":id/panel", userController.UpsertPanel)
				userRoute.Use(middleware.CheckRole(model.RoleAdmin))
				userRoute.GET("", userController.GetUsers)
				userRoute.PATCH(":id", userController.EditUser)
				userRoute.DELETE(":id", userController.DeleteUser)
			}

			slotRoute := needAuth.Group("/panels/:panel_id/panel-slots")
			{
				slotRoute.GET("", slotController.ListSlots)
				slotRoute.GET("free", slotController.ListAvailableSlots)
				slotRoute.Use(middleware.CheckRole(model.RoleAdmin, model.RoleInterviewer))
				slotRoute.POST("", middleware.SizeLimit(1<<20), slotController.CreateSlot)
				slotRoute.DELETE(":slot_id", slotController.DeleteSlot)
			}

			candidateRoute := needAuth.Group("/candidates")
			{
				candidateRoute.GET("", candidateController.GetCandidates)
				candidateRoute.Use(middleware.CheckRole(model.RoleAdmin, model.RoleRecruitment))
				candidateRoute.POST("", candidateController.CreateCandidate)
				candidateRoute.POST("bulk-upload", middleware.SizeLimit(10<<20), candidateController.BulkUpload)
			}

			statusRoute := needAuth.Group("/candidate-statuses")
			{
				statusRoute.GET("", candidateController.GetCandidateStatuses)
				statusRoute.GET(":id", candidateController.GetCandidateStatus)
			}

			bookingRoute := needAuth.Group("/bookings")
			{
				bookingRoute.GET("free-slots", bookingController.FreeSlots)
				bookingRoute.GET("booked", bookingController.BookedSlots)
				bookingRoute.GET("outcomes", bookingController.SelectedCandidates)
				bookingRoute.Use(middleware.CheckRole(model.RoleAdmin, model.RoleRecruitment))
				bookingRoute.POST("", bookingController.Book)
				bookingRoute.POST("cancel", bookingController.Cancel)
				bookingRoute.POST("feedback", bookingController.Feedback)
			}
		}
	}

	return r
}

// HelloWorldHandler handle request by return message "Hello World"
func (s *MyServer) HelloWorldHandler(c *gin.Context) {
	resp := make(map[string]string)
	resp["message"] = "Hello World"

	c.JSON(http.StatusOK, resp)
}

func (s *MyServer) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, s.DB.Health())
}
