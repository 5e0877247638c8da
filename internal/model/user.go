package model

import (
	"github.com/google/uuid"
)

// User roles recognized by the role check middleware
var (
	// RoleAdmin can manage users, panels and every listing
	RoleAdmin = "admin"
	// RoleInterviewer owns a panel and its bookable slots
	RoleInterviewer = "interviewer"
	// RoleRecruitment manages candidates and drives the booking workflow
	RoleRecruitment = "recruitment"
)

// ContactInfo holds optional contact fields shared by user-like records
type ContactInfo struct {
	Tel   *string `json:"tel"`
	Email *string `json:"email"`
}

// User is gorm model for every account that can log in to a dashboard
type User struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Username    string    `gorm:"type:text;not null;uniqueIndex" json:"username"`
	ContactInfo `gorm:"embedded"`
	Password    string `gorm:"type:text" json:"-"`
	Role        string `gorm:"type:text;not null" json:"role"`

	// Panel is populated only for interviewer users
	Panel *Panel `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"panel,omitempty"`
}
