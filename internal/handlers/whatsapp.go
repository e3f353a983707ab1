package handlers

import (
	"fmt"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/admitflow/admitflow-backend/internal/services"
)

// WhatsAppHandler handles WhatsApp webhook requests
type WhatsAppHandler struct {
	chatbot *services.ChatbotService
}

// NewWhatsAppHandler creates a new WhatsApp handler
func NewWhatsAppHandler(chatbot *services.ChatbotService) *WhatsAppHandler {
	return &WhatsAppHandler{chatbot: chatbot}
}

// TwilioWebhookPayload represents an incoming WhatsApp message from Twilio
type TwilioWebhookPayload struct {
	MessageSid          string `form:"MessageSid"`
	AccountSid          string `form:"AccountSid"`
	MessagingServiceSid string `form:"MessagingServiceSid"`
	From                string `form:"From"` // WhatsApp number (whatsapp:+919876543210)
	To                  string `form:"To"`   // Your Twilio number
	Body                string `form:"Body"` // Message text
	NumMedia            string `form:"NumMedia"`
}

// HandleWebhook processes incoming WhatsApp messages and replies inline
// with TwiML
func (h *WhatsAppHandler) HandleWebhook(c *fiber.Ctx) error {
	var payload TwilioWebhookPayload

	if err := c.BodyParser(&payload); err != nil {
		log.Printf("Error parsing webhook: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid webhook payload",
		})
	}

	if payload.From == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing sender address",
		})
	}

	from := strings.TrimPrefix(payload.From, "whatsapp:")
	log.Printf("📱 WhatsApp message from %s: %s", from, payload.Body)

	reply := h.chatbot.ProcessMessage(from, payload.Body)

	c.Set(fiber.HeaderContentType, "application/xml")
	return c.SendString(twiml(reply))
}

// Health reports webhook liveness and the active conversation count
func (h *WhatsAppHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":          "healthy",
		"active_sessions": h.chatbot.ActiveSessions(),
	})
}

// TestWebhookPayload is for exercising the bot without Twilio
type TestWebhookPayload struct {
	From    string `json:"from"`
	Message string `json:"message"`
}

// HandleTestWebhook processes test WhatsApp messages (for development)
func (h *WhatsAppHandler) HandleTestWebhook(c *fiber.Ctx) error {
	var payload TestWebhookPayload

	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid test payload",
		})
	}
	if payload.From == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing sender address",
		})
	}

	log.Printf("🧪 Test webhook from %s: %s", payload.From, payload.Message)
	reply := h.chatbot.ProcessMessage(payload.From, payload.Message)

	return c.JSON(fiber.Map{
		"success":  true,
		"response": reply,
	})
}

// twiml wraps a reply in the Twilio messaging response envelope
func twiml(message string) string {
	return fmt.Sprintf(
		`<?xml version="1.0" encoding="UTF-8"?><Response><Message>%s</Message></Response>`,
		escapeXML(message),
	)
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

func escapeXML(s string) string {
	return xmlEscaper.Replace(s)
}
