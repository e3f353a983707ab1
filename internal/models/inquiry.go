package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Inquiry statuses as used across the dashboard and the sheets.
const (
	StatusNew       = "New"
	StatusOpen      = "Open"
	StatusFollowUp  = "Follow-up"
	StatusConverted = "Converted"
	StatusClosed    = "Closed"
)

// Intake channels that produce inquiries.
const (
	SourceWebForm     = "Web Form"
	SourcePaperForm   = "Paper Form"
	SourceWhatsAppBot = "WhatsApp Bot"
)

// Inquiry is one admission inquiry. The sheet row is the primary record;
// this table mirrors it for dashboard queries and uniqueness checks.
type Inquiry struct {
	gorm.Model

	// Human-readable sequential id (S-<n>), shared with the sheets
	InquiryID string `json:"inquiry_id" gorm:"uniqueIndex"`

	StudentName string `json:"student_name"`
	ParentName  string `json:"parent_name"`
	Phone       string `json:"phone" gorm:"index"`

	Class             string `json:"class"`
	School            string `json:"school"`
	Board             string `json:"board"`
	AccommodationPref string `json:"accommodation_pref"`
	CurriculumPref    string `json:"curriculum_pref"`
	Notes             string `json:"notes"`

	Source string `json:"source"`
	Status string `json:"status" gorm:"default:New"`

	InquiryDate time.Time `json:"inquiry_date"`
}

// BeforeCreate normalizes data and fills defaults
func (i *Inquiry) BeforeCreate(tx *gorm.DB) error {
	if i.Status == "" {
		i.Status = StatusNew
	}
	if i.InquiryDate.IsZero() {
		i.InquiryDate = time.Now()
	}

	// Normalize phone number (ensure it starts with +91 if not already)
	i.Phone = strings.ReplaceAll(i.Phone, " ", "")
	if i.Phone != "" && !strings.HasPrefix(i.Phone, "+") {
		i.Phone = "+91" + strings.TrimPrefix(i.Phone, "91")
	}

	return nil
}

// ValidStatus reports whether s is one of the known inquiry statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusNew, StatusOpen, StatusFollowUp, StatusConverted, StatusClosed:
		return true
	}
	return false
}

// InquiryInput is used for new inquiry creation across all intake channels
type InquiryInput struct {
	StudentName       string `json:"student_name" validate:"required"`
	ParentName        string `json:"parent_name" validate:"required"`
	Phone             string `json:"phone" validate:"required"`
	Class             string `json:"class"`
	School            string `json:"school"`
	Board             string `json:"board"`
	AccommodationPref string `json:"accommodation_pref"`
	CurriculumPref    string `json:"curriculum_pref"`
	Notes             string `json:"notes"`
	Source            string `json:"source"`
}

// InquiryStats summarizes inquiry counts for the dashboard
type InquiryStats struct {
	Total    int64            `json:"total"`
	ByStatus map[string]int64 `json:"by_status"`
	BySource map[string]int64 `json:"by_source"`
}
