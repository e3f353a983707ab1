package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/admitflow/admitflow-backend/internal/models"
	"github.com/admitflow/admitflow-backend/internal/services"
	"github.com/admitflow/admitflow-backend/internal/storage"
)

// InquiryHandler handles inquiry intake and dashboard requests
type InquiryHandler struct {
	store   storage.Store
	service *services.InquiryService
}

// NewInquiryHandler creates a new inquiry handler
func NewInquiryHandler(store storage.Store, service *services.InquiryService) *InquiryHandler {
	return &InquiryHandler{
		store:   store,
		service: service,
	}
}

// Create handles web/QR form intake
func (h *InquiryHandler) Create(c *fiber.Ctx) error {
	var input models.InquiryInput

	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if input.StudentName == "" || input.ParentName == "" || input.Phone == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Student name, parent name and phone are required",
		})
	}

	if input.Source == "" {
		input.Source = models.SourceWebForm
	}

	inquiry, err := h.service.Create(&input)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create inquiry",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Inquiry created successfully",
		"inquiry": inquiry,
	})
}

// CreatePaper handles fields extracted from a scanned paper form. The
// OCR pass happens upstream; this endpoint receives its output.
func (h *InquiryHandler) CreatePaper(c *fiber.Ctx) error {
	var input models.InquiryInput

	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if input.StudentName == "" || input.ParentName == "" || input.Phone == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Student name, parent name and phone are required",
		})
	}

	input.Source = models.SourcePaperForm

	inquiry, err := h.service.Create(&input)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create inquiry",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Inquiry created successfully",
		"inquiry": inquiry,
	})
}

// List returns inquiries for the counselor dashboard, optionally
// filtered by ?status= or ?source=
func (h *InquiryHandler) List(c *fiber.Ctx) error {
	status := c.Query("status")
	source := c.Query("source")

	var inquiries []*models.Inquiry
	var err error

	switch {
	case status != "":
		if !models.ValidStatus(status) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Unknown status filter",
			})
		}
		inquiries, err = h.store.GetInquiriesByStatus(status)
	case source != "":
		inquiries, err = h.store.GetInquiriesBySource(source)
	default:
		inquiries, err = h.store.GetAllInquiries()
	}

	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load inquiries",
		})
	}

	return c.JSON(fiber.Map{
		"count":     len(inquiries),
		"inquiries": inquiries,
	})
}

// Get returns one inquiry by its id
func (h *InquiryHandler) Get(c *fiber.Ctx) error {
	inquiryID := c.Params("id")

	inquiry, err := h.store.GetInquiry(inquiryID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Inquiry not found",
		})
	}

	return c.JSON(inquiry)
}

// UpdateStatus moves an inquiry through the triage pipeline
func (h *InquiryHandler) UpdateStatus(c *fiber.Ctx) error {
	inquiryID := c.Params("id")

	var body struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if !models.ValidStatus(body.Status) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unknown status",
		})
	}

	if _, err := h.store.GetInquiry(inquiryID); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Inquiry not found",
		})
	}

	if err := h.service.UpdateStatus(inquiryID, body.Status); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update status",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Status updated",
		"status":  body.Status,
	})
}

// Stats returns inquiry counts by status and source
func (h *InquiryHandler) Stats(c *fiber.Ctx) error {
	byStatus, err := h.store.CountInquiriesByStatus()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load stats",
		})
	}
	bySource, err := h.store.CountInquiriesBySource()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load stats",
		})
	}

	var total int64
	for _, n := range byStatus {
		total += n
	}

	return c.JSON(models.InquiryStats{
		Total:    total,
		ByStatus: byStatus,
		BySource: bySource,
	})
}
