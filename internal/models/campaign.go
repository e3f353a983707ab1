package models

import (
	"time"

	"gorm.io/gorm"
)

// Campaign statuses
const (
	CampaignStatusDraft     = "draft"
	CampaignStatusRunning   = "running"
	CampaignStatusCompleted = "completed"
)

// Campaign is a WhatsApp broadcast to a filtered set of inquiry phones
type Campaign struct {
	gorm.Model

	CampaignID string `json:"campaign_id" gorm:"uniqueIndex"`
	Name       string `json:"name"`
	Message    string `json:"message"`

	// Optional inquiry-status filter; empty means all inquiries
	StatusFilter string `json:"status_filter"`

	Status    string     `json:"status" gorm:"default:draft"`
	SentCount int        `json:"sent_count" gorm:"default:0"`
	FailCount int        `json:"fail_count" gorm:"default:0"`
	SentAt    *time.Time `json:"sent_at"`
}

// CampaignInput is used for campaign creation
type CampaignInput struct {
	Name         string `json:"name" validate:"required"`
	Message      string `json:"message" validate:"required"`
	StatusFilter string `json:"status_filter"`
}
