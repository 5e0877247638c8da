// Package users contain handler for user and panel management endpoints.
package users

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"InterviewDesk-backend/internal/database"
	"InterviewDesk-backend/internal/model"
	"InterviewDesk-backend/internal/utilities"
)

// UserController struct holds the database connection for user-related operations.
type UserController struct {
	DB *database.DBinstanceStruct
}

// NewUserController creates a new instance of UserController with the provided database connection.
func NewUserController(db *database.DBinstanceStruct) *UserController {
	return &UserController{
		DB: db,
	}
}

// GetUsers fetches all users, with panels preloaded, for the admin overview.
func (uc *UserController) GetUsers(c *gin.Context) {
	var users []model.User
	if err := uc.DB.Preload("Panel").Order("username ASC").Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to fetch users: %s", err.Error()),
		})
		return
	}
	c.JSON(http.StatusOK, users)
}

// GetMe returns the authenticated user's own record.
func (uc *UserController) GetMe(c *gin.Context) {
	user := utilities.ExtractUser(c)
	c.JSON(http.StatusOK, user)
}

// GetUserByID fetches a single user by id.
func (uc *UserController) GetUserByID(c *gin.Context) {
	id := c.Param("id")

	var user model.User
	if err := uc.DB.Preload("Panel").Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve user: %s", err.Error()),
		})
		return
	}
	c.JSON(http.StatusOK, user)
}

// EditUser allows an admin to update username, contact info and role of a user.
func (uc *UserController) EditUser(c *gin.Context) {
	id := c.Param("id")

	var user model.User
	if err := uc.DB.Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve user: %s", err.Error()),
		})
		return
	}

	var updated struct {
		Username string  `json:"username"`
		Email    *string `json:"email"`
		Tel      *string `json:"tel"`
		Role     string  `json:"role"`
	}
	if err := c.ShouldBindJSON(&updated); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to parse request body: %s", err.Error()),
		})
		return
	}

	allowedRoles := []string{model.RoleAdmin, model.RoleInterviewer, model.RoleRecruitment}
	if updated.Role != "" && !utilities.Contains(allowedRoles, updated.Role) {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Role '%s' not allowed", updated.Role),
		})
		return
	}

	utilities.MergeNonEmpty(&user, &struct {
		Username string
		Email    *string
		Tel      *string
		Role     string
	}{updated.Username, updated.Email, updated.Tel, updated.Role})

	if err := uc.DB.Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to update user: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, user)
}

// DeleteUser allows an admin to remove a user account.
func (uc *UserController) DeleteUser(c *gin.Context) {
	id := c.Param("id")

	res := uc.DB.Where("id = ?", id).Delete(&model.User{})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to delete user: %s", res.Error.Error()),
		})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "User not found"})
		return
	}

	c.JSON(http.StatusOK, utilities.MessageResponse{Message: "User deleted"})
}

// GetPanel returns the panel profile owned by a user.
func (uc *UserController) GetPanel(c *gin.Context) {
	id := c.Param("id")

	var panel model.Panel
	if err := uc.DB.Where("user_id = ?", id).First(&panel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Panel not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve panel: %s", err.Error()),
		})
		return
	}
	c.JSON(http.StatusOK, panel)
}

// UpsertPanel creates or updates the panel profile of an interviewer user.
// Serves both the POST and PATCH panel routes of the admin dashboard.
func (uc *UserController) UpsertPanel(c *gin.Context) {
	id := c.Param("id")

	var owner model.User
	if err := uc.DB.Where("id = ?", id).First(&owner).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve user: %s", err.Error()),
		})
		return
	}

	if owner.Role != model.RoleInterviewer {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Only interviewer users can own a panel",
		})
		return
	}

	requester := utilities.ExtractUser(c)
	if requester.Role != model.RoleAdmin && requester.ID != owner.ID {
		c.JSON(http.StatusForbidden, utilities.ErrorResponse{
			Error: "You are not allowed to edit this panel",
		})
		return
	}

	var info model.EditablePanelInfo
	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	var panel model.Panel
	err := uc.DB.Where("user_id = ?", owner.ID).First(&panel).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		panel = model.Panel{UserID: owner.ID, EditablePanelInfo: info}
		if err := uc.DB.Create(&panel).Error; err != nil {
			c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
				Error: fmt.Sprintf("Failed to create panel: %s", err.Error()),
			})
			return
		}
		c.JSON(http.StatusCreated, panel)
		return

	case err != nil:
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve panel: %s", err.Error()),
		})
		return
	}

	utilities.MergeNonEmpty(&panel.EditablePanelInfo, &info)
	if err := uc.DB.Save(&panel).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to update panel: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, panel)
}
