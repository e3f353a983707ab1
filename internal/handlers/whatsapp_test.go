package handlers

import (
	"io"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/admitflow/admitflow-backend/internal/models"
	"github.com/admitflow/admitflow-backend/internal/services"
	"github.com/admitflow/admitflow-backend/internal/sheets"
	"github.com/admitflow/admitflow-backend/internal/storage"
)

// nullSheetStore satisfies sheets.Store for handler tests; the webhook
// paths exercised here never reach the sheet.
type nullSheetStore struct{}

func (nullSheetStore) ReadInquiryIDs() ([]string, error)          { return nil, nil }
func (nullSheetStore) AppendInquiry(*models.Inquiry) error        { return nil }
func (nullSheetStore) ReadRows() ([]sheets.Row, error)            { return nil, nil }
func (nullSheetStore) UpdateStatus(rowNumber int, s string) error { return nil }

func newWebhookApp() *fiber.App {
	inquiries := services.NewInquiryService(storage.NewMemoryStore(), nullSheetStore{})
	chatbot := services.NewChatbotService(services.NewMemorySessionStore(), inquiries)
	handler := NewWhatsAppHandler(chatbot)

	app := fiber.New()
	app.Post("/webhook/whatsapp", handler.HandleWebhook)
	app.Get("/webhook/whatsapp/health", handler.Health)
	return app
}

func postForm(t *testing.T, app *fiber.App, from, body string) (int, string) {
	t.Helper()

	form := url.Values{}
	if from != "" {
		form.Set("From", from)
	}
	form.Set("Body", body)

	req := httptest.NewRequest("POST", "/webhook/whatsapp", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(payload)
}

func TestHandleWebhook_RepliesWithTwiML(t *testing.T) {
	app := newWebhookApp()

	status, body := postForm(t, app, "whatsapp:+919876543210", "hi")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body, "<Response><Message>")
	assert.Contains(t, body, "Welcome")
}

func TestHandleWebhook_MissingSenderRejected(t *testing.T) {
	app := newWebhookApp()

	status, body := postForm(t, app, "", "hi")
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, body, "Missing sender")
}

func TestWebhookHealth_ReportsSessionCount(t *testing.T) {
	app := newWebhookApp()

	postForm(t, app, "whatsapp:+919876543210", "hi")
	postForm(t, app, "whatsapp:+919876543211", "hi")

	req := httptest.NewRequest("GET", "/webhook/whatsapp/health", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, string(payload), `"active_sessions":2`)
}

func TestTwiML_EscapesSpecialCharacters(t *testing.T) {
	out := twiml(`Fees & forms: reply "<yes>" or 'no'`)

	assert.Contains(t, out, "&amp;")
	assert.Contains(t, out, "&lt;yes&gt;")
	assert.Contains(t, out, "&quot;")
	assert.Contains(t, out, "&apos;")
	assert.NotContains(t, out, `<yes>`)
}
