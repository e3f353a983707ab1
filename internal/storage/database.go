package storage

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/admitflow/admitflow-backend/internal/models"
)

// DatabaseStore persists data in PostgreSQL via GORM
type DatabaseStore struct {
	db *gorm.DB
}

// NewDatabaseStore creates a new database-backed store
func NewDatabaseStore(db *gorm.DB) *DatabaseStore {
	return &DatabaseStore{db: db}
}

// Inquiry operations

func (d *DatabaseStore) CreateInquiry(inquiry *models.Inquiry) (*models.Inquiry, error) {
	if inquiry.InquiryID == "" {
		return nil, fmt.Errorf("inquiry id is required")
	}
	if err := d.db.Create(inquiry).Error; err != nil {
		return nil, fmt.Errorf("failed to create inquiry: %w", err)
	}
	return inquiry, nil
}

func (d *DatabaseStore) GetInquiry(inquiryID string) (*models.Inquiry, error) {
	var inquiry models.Inquiry
	if err := d.db.Where("inquiry_id = ?", inquiryID).First(&inquiry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("inquiry not found")
		}
		return nil, err
	}
	return &inquiry, nil
}

func (d *DatabaseStore) GetInquiryByPhone(phone string) (*models.Inquiry, error) {
	var inquiry models.Inquiry
	if err := d.db.Where("phone = ?", phone).First(&inquiry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("inquiry not found")
		}
		return nil, err
	}
	return &inquiry, nil
}

func (d *DatabaseStore) GetAllInquiries() ([]*models.Inquiry, error) {
	var inquiries []*models.Inquiry
	if err := d.db.Order("created_at DESC").Find(&inquiries).Error; err != nil {
		return nil, err
	}
	return inquiries, nil
}

func (d *DatabaseStore) GetInquiriesByStatus(status string) ([]*models.Inquiry, error) {
	var inquiries []*models.Inquiry
	if err := d.db.Where("status = ?", status).Order("created_at DESC").Find(&inquiries).Error; err != nil {
		return nil, err
	}
	return inquiries, nil
}

func (d *DatabaseStore) GetInquiriesBySource(source string) ([]*models.Inquiry, error) {
	var inquiries []*models.Inquiry
	if err := d.db.Where("source = ?", source).Order("created_at DESC").Find(&inquiries).Error; err != nil {
		return nil, err
	}
	return inquiries, nil
}

func (d *DatabaseStore) UpdateInquiry(inquiry *models.Inquiry) error {
	return d.db.Save(inquiry).Error
}

func (d *DatabaseStore) UpdateInquiryStatus(inquiryID string, status string) error {
	result := d.db.Model(&models.Inquiry{}).
		Where("inquiry_id = ?", inquiryID).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("inquiry not found")
	}
	return nil
}

func (d *DatabaseStore) InquiryIDExists(inquiryID string) (bool, error) {
	var count int64
	if err := d.db.Model(&models.Inquiry{}).Where("inquiry_id = ?", inquiryID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (d *DatabaseStore) FindInquiryByNaturalKey(phone, studentName string) (*models.Inquiry, error) {
	var inquiry models.Inquiry
	err := d.db.Where("phone = ? AND LOWER(student_name) = LOWER(?)", phone, studentName).
		First(&inquiry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &inquiry, nil
}

type statusCount struct {
	Key   string
	Count int64
}

func (d *DatabaseStore) CountInquiriesByStatus() (map[string]int64, error) {
	var rows []statusCount
	err := d.db.Model(&models.Inquiry{}).
		Select("status AS key, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64)
	for _, row := range rows {
		counts[row.Key] = row.Count
	}
	return counts, nil
}

func (d *DatabaseStore) CountInquiriesBySource() (map[string]int64, error) {
	var rows []statusCount
	err := d.db.Model(&models.Inquiry{}).
		Select("source AS key, COUNT(*) AS count").
		Group("source").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64)
	for _, row := range rows {
		counts[row.Key] = row.Count
	}
	return counts, nil
}

// Campaign operations

func (d *DatabaseStore) CreateCampaign(campaign *models.Campaign) (*models.Campaign, error) {
	if err := d.db.Create(campaign).Error; err != nil {
		return nil, fmt.Errorf("failed to create campaign: %w", err)
	}
	return campaign, nil
}

func (d *DatabaseStore) GetCampaign(campaignID string) (*models.Campaign, error) {
	var campaign models.Campaign
	if err := d.db.Where("campaign_id = ?", campaignID).First(&campaign).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("campaign not found")
		}
		return nil, err
	}
	return &campaign, nil
}

func (d *DatabaseStore) GetAllCampaigns() ([]*models.Campaign, error) {
	var campaigns []*models.Campaign
	if err := d.db.Order("created_at DESC").Find(&campaigns).Error; err != nil {
		return nil, err
	}
	return campaigns, nil
}

func (d *DatabaseStore) UpdateCampaign(campaign *models.Campaign) error {
	return d.db.Save(campaign).Error
}
