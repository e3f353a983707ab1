package services

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/admitflow/admitflow-backend/internal/models"
	"github.com/admitflow/admitflow-backend/internal/storage"
)

// CampaignService creates and sends WhatsApp broadcast campaigns to
// inquiry phone numbers
type CampaignService struct {
	store  storage.Store
	sender WhatsAppSender
}

// NewCampaignService creates a new campaign service
func NewCampaignService(store storage.Store, sender WhatsAppSender) *CampaignService {
	return &CampaignService{
		store:  store,
		sender: sender,
	}
}

// Create saves a new draft campaign
func (c *CampaignService) Create(input *models.CampaignInput) (*models.Campaign, error) {
	if input.Name == "" || input.Message == "" {
		return nil, fmt.Errorf("campaign name and message are required")
	}
	if input.StatusFilter != "" && !models.ValidStatus(input.StatusFilter) {
		return nil, fmt.Errorf("unknown status filter %q", input.StatusFilter)
	}

	campaign := &models.Campaign{
		CampaignID:   fmt.Sprintf("CMP-%s", uuid.NewString()[:8]),
		Name:         input.Name,
		Message:      input.Message,
		StatusFilter: input.StatusFilter,
		Status:       models.CampaignStatusDraft,
	}

	return c.store.CreateCampaign(campaign)
}

// Send delivers the campaign message to every matching inquiry phone,
// recording per-send outcome. Duplicate phones get one message.
func (c *CampaignService) Send(campaignID string) (*models.Campaign, error) {
	campaign, err := c.store.GetCampaign(campaignID)
	if err != nil {
		return nil, err
	}
	if campaign.Status == models.CampaignStatusRunning {
		return nil, fmt.Errorf("campaign %s is already running", campaignID)
	}

	var inquiries []*models.Inquiry
	if campaign.StatusFilter != "" {
		inquiries, err = c.store.GetInquiriesByStatus(campaign.StatusFilter)
	} else {
		inquiries, err = c.store.GetAllInquiries()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load recipients: %w", err)
	}

	campaign.Status = models.CampaignStatusRunning
	campaign.SentCount = 0
	campaign.FailCount = 0
	if err := c.store.UpdateCampaign(campaign); err != nil {
		return nil, err
	}

	log.Printf("📣 Campaign %s sending to up to %d inquiries", campaignID, len(inquiries))

	seen := make(map[string]bool)
	for _, inquiry := range inquiries {
		if inquiry.Phone == "" || seen[inquiry.Phone] {
			continue
		}
		seen[inquiry.Phone] = true

		if err := c.sender.SendWhatsAppMessage(inquiry.Phone, campaign.Message); err != nil {
			log.Printf("❌ Campaign %s: send to %s failed: %v", campaignID, inquiry.Phone, err)
			campaign.FailCount++
			continue
		}
		campaign.SentCount++
	}

	now := time.Now()
	campaign.Status = models.CampaignStatusCompleted
	campaign.SentAt = &now
	if err := c.store.UpdateCampaign(campaign); err != nil {
		return nil, err
	}

	log.Printf("✅ Campaign %s completed: %d sent, %d failed", campaignID, campaign.SentCount, campaign.FailCount)
	return campaign, nil
}
