package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/admitflow/admitflow-backend/internal/models"
	"github.com/admitflow/admitflow-backend/internal/services"
	"github.com/admitflow/admitflow-backend/internal/storage"
)

// CampaignHandler handles WhatsApp campaign requests
type CampaignHandler struct {
	store   storage.Store
	service *services.CampaignService
}

// NewCampaignHandler creates a new campaign handler
func NewCampaignHandler(store storage.Store, service *services.CampaignService) *CampaignHandler {
	return &CampaignHandler{
		store:   store,
		service: service,
	}
}

// Create saves a new draft campaign
func (h *CampaignHandler) Create(c *fiber.Ctx) error {
	var input models.CampaignInput

	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	campaign, err := h.service.Create(&input)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "Campaign created",
		"campaign": campaign,
	})
}

// Send triggers delivery of a campaign
func (h *CampaignHandler) Send(c *fiber.Ctx) error {
	campaignID := c.Params("id")

	campaign, err := h.service.Send(campaignID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message":  "Campaign sent",
		"campaign": campaign,
	})
}

// List returns all campaigns
func (h *CampaignHandler) List(c *fiber.Ctx) error {
	campaigns, err := h.store.GetAllCampaigns()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load campaigns",
		})
	}

	return c.JSON(fiber.Map{
		"count":     len(campaigns),
		"campaigns": campaigns,
	})
}
