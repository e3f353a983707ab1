package storage

import (
	"github.com/admitflow/admitflow-backend/internal/models"
)

// Store defines the interface for storage operations
type Store interface {
	// Inquiry operations
	CreateInquiry(inquiry *models.Inquiry) (*models.Inquiry, error)
	GetInquiry(inquiryID string) (*models.Inquiry, error)
	GetInquiryByPhone(phone string) (*models.Inquiry, error)
	GetAllInquiries() ([]*models.Inquiry, error)
	GetInquiriesByStatus(status string) ([]*models.Inquiry, error)
	GetInquiriesBySource(source string) ([]*models.Inquiry, error)
	UpdateInquiry(inquiry *models.Inquiry) error
	UpdateInquiryStatus(inquiryID string, status string) error
	InquiryIDExists(inquiryID string) (bool, error)
	// FindInquiryByNaturalKey matches on phone plus case-insensitive
	// student name. A miss is (nil, nil); errors mean the lookup itself
	// failed.
	FindInquiryByNaturalKey(phone, studentName string) (*models.Inquiry, error)

	// Dashboard stats
	CountInquiriesByStatus() (map[string]int64, error)
	CountInquiriesBySource() (map[string]int64, error)

	// Campaign operations
	CreateCampaign(campaign *models.Campaign) (*models.Campaign, error)
	GetCampaign(campaignID string) (*models.Campaign, error)
	GetAllCampaigns() ([]*models.Campaign, error)
	UpdateCampaign(campaign *models.Campaign) error
}
