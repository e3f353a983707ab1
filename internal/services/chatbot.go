package services

import (
	"log"
	"strings"
	"time"

	"github.com/admitflow/admitflow-backend/internal/models"
)

// SessionTTL is how long an abandoned conversation is kept before the
// lazy sweep drops it
const SessionTTL = 24 * time.Hour

// Reset keywords restart the conversation from any phase
var resetKeywords = map[string]bool{
	"hi":      true,
	"hello":   true,
	"menu":    true,
	"start":   true,
	"reset":   true,
	"restart": true,
}

const greetingText = `🏫 Welcome to Greenfield Academy Admissions!

How can we help you today?

1️⃣ Start an admission inquiry
2️⃣ Talk to a counselor
3️⃣ Visit our website

Reply with a number to continue.`

const counselorText = `📞 Our admission counselors are available Mon-Sat, 9 AM to 5 PM.

Call us at +91 80 4111 2233 or reply *menu* to go back.`

const websiteText = `🌐 Everything about admissions, fees and campus life:

https://www.greenfieldacademy.example/admissions

Reply *menu* to go back.`

const invalidOptionText = "❓ Sorry, I didn't understand that. Please reply with 1, 2 or 3."

const formIntroText = "📝 Great! I'll ask a few quick questions. Type *skip* on any optional question, or *reset* to start over.\n\n"

const requiredFieldText = "⚠️ This one is required, please type an answer.\n\n"

const completionText = `✅ Thank you! Your inquiry has been recorded.

A counselor will reach out within one working day. Reply *hi* anytime to start again.`

const creationFailedText = `❌ Sorry, we couldn't save your inquiry right now.

Please reply *hi* to try again, or call us at +91 80 4111 2233.`

// ChatbotService drives the WhatsApp intake conversation: a greeting
// menu, then a fixed question loop, then one create-inquiry call.
type ChatbotService struct {
	sessions  SessionStore
	inquiries *InquiryService
	ttl       time.Duration
}

// NewChatbotService creates a new chatbot service
func NewChatbotService(sessions SessionStore, inquiries *InquiryService) *ChatbotService {
	return &ChatbotService{
		sessions:  sessions,
		inquiries: inquiries,
		ttl:       SessionTTL,
	}
}

// ProcessMessage handles one inbound WhatsApp message and returns the
// reply text. from is the sender's phone number (the session key).
func (c *ChatbotService) ProcessMessage(from, body string) string {
	// Expire stale sessions across the whole store before anything
	// else. Nothing wakes up proactively; a message from any sender
	// is what triggers cleanup.
	if removed := c.sessions.Sweep(c.ttl); removed > 0 {
		log.Printf("🧹 Swept %d expired chat session(s)", removed)
	}

	text := strings.TrimSpace(body)

	// Reset keywords win over everything, including an in-progress form
	if resetKeywords[strings.ToLower(text)] {
		session := NewChatSession(from)
		c.sessions.Set(session)
		return greetingText
	}

	session, exists := c.sessions.Get(from)
	if !exists {
		session = NewChatSession(from)
		c.sessions.Set(session)
		return greetingText
	}

	switch session.Phase {
	case PhaseInForm:
		return c.handleFormAnswer(session, text)
	default:
		return c.handleGreeting(session, text)
	}
}

// handleGreeting handles the menu selection
func (c *ChatbotService) handleGreeting(session *ChatSession, text string) string {
	switch text {
	case "1":
		session.Phase = PhaseInForm
		session.Cursor = 0
		session.Answers = make(map[string]string)
		c.sessions.Set(session)
		return formIntroText + intakeQuestions[0].Prompt
	case "2":
		return counselorText
	case "3":
		return websiteText
	default:
		return invalidOptionText + "\n\n" + greetingText
	}
}

// handleFormAnswer stores one answer and advances the question cursor
func (c *ChatbotService) handleFormAnswer(session *ChatSession, text string) string {
	question := intakeQuestions[session.Cursor]
	resolved := ResolveAnswer(question, text)

	if question.Required && resolved == "" {
		// Re-prompt, no state change
		return requiredFieldText + question.Prompt
	}

	session.Answers[question.ID] = resolved
	session.Cursor++

	if session.Cursor < len(intakeQuestions) {
		c.sessions.Set(session)
		return intakeQuestions[session.Cursor].Prompt
	}

	return c.finalize(session)
}

// finalize turns the collected answers into one inquiry. The session is
// gone afterwards either way; a failed create means re-entering the form.
func (c *ChatbotService) finalize(session *ChatSession) string {
	c.sessions.Delete(session.SessionKey)

	input := &models.InquiryInput{
		StudentName:       session.Answers["student_name"],
		ParentName:        session.Answers["parent_name"],
		Phone:             session.Answers["phone"],
		Class:             session.Answers["class"],
		School:            session.Answers["school"],
		Board:             session.Answers["board"],
		AccommodationPref: session.Answers["accommodation"],
		CurriculumPref:    session.Answers["curriculum"],
		Notes:             session.Answers["notes"],
		Source:            models.SourceWhatsAppBot,
	}

	inquiry, err := c.inquiries.Create(input)
	if err != nil {
		log.Printf("❌ Failed to create inquiry from chat %s: %v", session.SessionKey, err)
		return creationFailedText
	}

	log.Printf("✅ Chat %s completed inquiry %s", session.SessionKey, inquiry.InquiryID)
	return completionText
}

// ActiveSessions returns the current session count (for health checks)
func (c *ChatbotService) ActiveSessions() int {
	return c.sessions.Count()
}
