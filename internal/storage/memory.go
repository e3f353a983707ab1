package storage

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/admitflow/admitflow-backend/internal/models"
)

// MemoryStore holds all data in memory (for tests and local development)
type MemoryStore struct {
	inquiries map[string]*models.Inquiry
	campaigns map[string]*models.Campaign

	// Mutexes for thread safety
	inquiryMu  sync.RWMutex
	campaignMu sync.RWMutex
}

// NewMemoryStore creates a new in-memory storage
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		inquiries: make(map[string]*models.Inquiry),
		campaigns: make(map[string]*models.Campaign),
	}
}

// Inquiry operations

func (m *MemoryStore) CreateInquiry(inquiry *models.Inquiry) (*models.Inquiry, error) {
	m.inquiryMu.Lock()
	defer m.inquiryMu.Unlock()

	if inquiry.InquiryID == "" {
		return nil, fmt.Errorf("inquiry id is required")
	}
	if _, exists := m.inquiries[inquiry.InquiryID]; exists {
		return nil, fmt.Errorf("inquiry %s already exists", inquiry.InquiryID)
	}

	if inquiry.Status == "" {
		inquiry.Status = models.StatusNew
	}
	if inquiry.InquiryDate.IsZero() {
		inquiry.InquiryDate = time.Now()
	}
	inquiry.CreatedAt = time.Now()
	inquiry.UpdatedAt = time.Now()

	m.inquiries[inquiry.InquiryID] = inquiry
	return inquiry, nil
}

func (m *MemoryStore) GetInquiry(inquiryID string) (*models.Inquiry, error) {
	m.inquiryMu.RLock()
	defer m.inquiryMu.RUnlock()

	inquiry, exists := m.inquiries[inquiryID]
	if !exists {
		return nil, fmt.Errorf("inquiry not found")
	}
	return inquiry, nil
}

func (m *MemoryStore) GetInquiryByPhone(phone string) (*models.Inquiry, error) {
	m.inquiryMu.RLock()
	defer m.inquiryMu.RUnlock()

	for _, inquiry := range m.inquiries {
		if inquiry.Phone == phone {
			return inquiry, nil
		}
	}
	return nil, fmt.Errorf("inquiry not found")
}

func (m *MemoryStore) GetAllInquiries() ([]*models.Inquiry, error) {
	m.inquiryMu.RLock()
	defer m.inquiryMu.RUnlock()

	var inquiries []*models.Inquiry
	for _, inquiry := range m.inquiries {
		inquiries = append(inquiries, inquiry)
	}
	return inquiries, nil
}

func (m *MemoryStore) GetInquiriesByStatus(status string) ([]*models.Inquiry, error) {
	m.inquiryMu.RLock()
	defer m.inquiryMu.RUnlock()

	var inquiries []*models.Inquiry
	for _, inquiry := range m.inquiries {
		if inquiry.Status == status {
			inquiries = append(inquiries, inquiry)
		}
	}
	return inquiries, nil
}

func (m *MemoryStore) GetInquiriesBySource(source string) ([]*models.Inquiry, error) {
	m.inquiryMu.RLock()
	defer m.inquiryMu.RUnlock()

	var inquiries []*models.Inquiry
	for _, inquiry := range m.inquiries {
		if inquiry.Source == source {
			inquiries = append(inquiries, inquiry)
		}
	}
	return inquiries, nil
}

func (m *MemoryStore) UpdateInquiry(inquiry *models.Inquiry) error {
	m.inquiryMu.Lock()
	defer m.inquiryMu.Unlock()

	if _, exists := m.inquiries[inquiry.InquiryID]; !exists {
		return fmt.Errorf("inquiry not found")
	}
	inquiry.UpdatedAt = time.Now()
	m.inquiries[inquiry.InquiryID] = inquiry
	return nil
}

func (m *MemoryStore) UpdateInquiryStatus(inquiryID string, status string) error {
	m.inquiryMu.Lock()
	defer m.inquiryMu.Unlock()

	inquiry, exists := m.inquiries[inquiryID]
	if !exists {
		return fmt.Errorf("inquiry not found")
	}
	inquiry.Status = status
	inquiry.UpdatedAt = time.Now()
	return nil
}

func (m *MemoryStore) InquiryIDExists(inquiryID string) (bool, error) {
	m.inquiryMu.RLock()
	defer m.inquiryMu.RUnlock()

	_, exists := m.inquiries[inquiryID]
	return exists, nil
}

func (m *MemoryStore) FindInquiryByNaturalKey(phone, studentName string) (*models.Inquiry, error) {
	m.inquiryMu.RLock()
	defer m.inquiryMu.RUnlock()

	for _, inquiry := range m.inquiries {
		if inquiry.Phone == phone && strings.EqualFold(inquiry.StudentName, studentName) {
			return inquiry, nil
		}
	}
	return nil, nil
}

func (m *MemoryStore) CountInquiriesByStatus() (map[string]int64, error) {
	m.inquiryMu.RLock()
	defer m.inquiryMu.RUnlock()

	counts := make(map[string]int64)
	for _, inquiry := range m.inquiries {
		counts[inquiry.Status]++
	}
	return counts, nil
}

func (m *MemoryStore) CountInquiriesBySource() (map[string]int64, error) {
	m.inquiryMu.RLock()
	defer m.inquiryMu.RUnlock()

	counts := make(map[string]int64)
	for _, inquiry := range m.inquiries {
		counts[inquiry.Source]++
	}
	return counts, nil
}

// Campaign operations

func (m *MemoryStore) CreateCampaign(campaign *models.Campaign) (*models.Campaign, error) {
	m.campaignMu.Lock()
	defer m.campaignMu.Unlock()

	if campaign.Status == "" {
		campaign.Status = models.CampaignStatusDraft
	}
	campaign.CreatedAt = time.Now()
	campaign.UpdatedAt = time.Now()

	m.campaigns[campaign.CampaignID] = campaign
	return campaign, nil
}

func (m *MemoryStore) GetCampaign(campaignID string) (*models.Campaign, error) {
	m.campaignMu.RLock()
	defer m.campaignMu.RUnlock()

	campaign, exists := m.campaigns[campaignID]
	if !exists {
		return nil, fmt.Errorf("campaign not found")
	}
	return campaign, nil
}

func (m *MemoryStore) GetAllCampaigns() ([]*models.Campaign, error) {
	m.campaignMu.RLock()
	defer m.campaignMu.RUnlock()

	var campaigns []*models.Campaign
	for _, campaign := range m.campaigns {
		campaigns = append(campaigns, campaign)
	}
	return campaigns, nil
}

func (m *MemoryStore) UpdateCampaign(campaign *models.Campaign) error {
	m.campaignMu.Lock()
	defer m.campaignMu.Unlock()

	if _, exists := m.campaigns[campaign.CampaignID]; !exists {
		return fmt.Errorf("campaign not found")
	}
	campaign.UpdatedAt = time.Now()
	m.campaigns[campaign.CampaignID] = campaign
	return nil
}
