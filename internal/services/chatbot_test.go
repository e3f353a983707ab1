package services

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/admitflow/admitflow-backend/internal/models"
	"github.com/admitflow/admitflow-backend/internal/storage"
)

func newTestChatbot() (*ChatbotService, *fakeSheetStore, *storage.MemoryStore, *MemorySessionStore) {
	sheet := newFakeSheetStore()
	store := storage.NewMemoryStore()
	sessions := NewMemorySessionStore()
	bot := NewChatbotService(sessions, NewInquiryService(store, sheet))
	return bot, sheet, store, sessions
}

// startForm walks a sender to the first form question
func startForm(bot *ChatbotService, from string) string {
	bot.ProcessMessage(from, "hi")
	return bot.ProcessMessage(from, "1")
}

func TestChatbot_FirstContactGetsGreeting(t *testing.T) {
	bot, _, _, sessions := newTestChatbot()

	reply := bot.ProcessMessage("+919876543210", "good morning")
	assert.Contains(t, reply, "Welcome")
	assert.Contains(t, reply, "1")
	assert.Equal(t, 1, sessions.Count())

	session, ok := sessions.Get("+919876543210")
	require.True(t, ok)
	assert.Equal(t, PhaseGreeting, session.Phase)
}

func TestChatbot_GreetingMenuOptions(t *testing.T) {
	bot, _, _, sessions := newTestChatbot()
	from := "+919876543210"
	bot.ProcessMessage(from, "hi")

	reply := bot.ProcessMessage(from, "2")
	assert.Contains(t, reply, "counselor")

	reply = bot.ProcessMessage(from, "3")
	assert.Contains(t, reply, "http")

	// Static options leave the session in the greeting phase
	session, ok := sessions.Get(from)
	require.True(t, ok)
	assert.Equal(t, PhaseGreeting, session.Phase)

	reply = bot.ProcessMessage(from, "7")
	assert.Contains(t, reply, "didn't understand")
	assert.Contains(t, reply, "Welcome")
}

func TestChatbot_Option1StartsForm(t *testing.T) {
	bot, _, _, sessions := newTestChatbot()
	from := "+919876543210"

	reply := startForm(bot, from)
	assert.Contains(t, reply, intakeQuestions[0].Prompt)

	session, ok := sessions.Get(from)
	require.True(t, ok)
	assert.Equal(t, PhaseInForm, session.Phase)
	assert.Equal(t, 0, session.Cursor)
	assert.Empty(t, session.Answers)
}

func TestChatbot_RequiredFieldGate(t *testing.T) {
	bot, _, _, sessions := newTestChatbot()
	from := "+919876543210"
	startForm(bot, from)

	// Whitespace-only answer to the required first question
	reply := bot.ProcessMessage(from, "   ")
	assert.Contains(t, reply, "required")
	assert.Contains(t, reply, intakeQuestions[0].Prompt)

	// "skip" resolves empty, which a required question also rejects
	reply = bot.ProcessMessage(from, "skip")
	assert.Contains(t, reply, "required")

	session, ok := sessions.Get(from)
	require.True(t, ok)
	assert.Equal(t, 0, session.Cursor)
	assert.Empty(t, session.Answers)
}

func TestChatbot_SkipOnOptionalQuestion(t *testing.T) {
	bot, _, _, sessions := newTestChatbot()
	from := "+919876543210"
	startForm(bot, from)
	bot.ProcessMessage(from, "Asha Rao")
	bot.ProcessMessage(from, "Vikram Rao")
	bot.ProcessMessage(from, "9876543210")

	// Cursor now at the optional class question
	reply := bot.ProcessMessage(from, "SKIP")
	assert.Equal(t, intakeQuestions[4].Prompt, reply)

	session, ok := sessions.Get(from)
	require.True(t, ok)
	assert.Equal(t, 4, session.Cursor)

	answer, recorded := session.Answers["class"]
	assert.True(t, recorded)
	assert.Equal(t, "", answer)
}

func TestChatbot_MenuChoiceResolution(t *testing.T) {
	bot, _, _, sessions := newTestChatbot()
	from := "+919876543210"
	startForm(bot, from)
	for _, answer := range []string{"Asha Rao", "Vikram Rao", "9876543210", "skip", "skip", "skip"} {
		bot.ProcessMessage(from, answer)
	}

	// Numbered reply resolves through the choice table
	bot.ProcessMessage(from, "2")
	session, ok := sessions.Get(from)
	require.True(t, ok)
	assert.Equal(t, "Hostel", session.Answers["accommodation"])
}

func TestChatbot_MenuChoiceFreeTextFallback(t *testing.T) {
	bot, _, _, sessions := newTestChatbot()
	from := "+919876543210"
	startForm(bot, from)
	for _, answer := range []string{"Asha Rao", "Vikram Rao", "9876543210", "skip", "skip", "skip"} {
		bot.ProcessMessage(from, answer)
	}

	// Free text not in the table passes through verbatim
	bot.ProcessMessage(from, "Hostel")
	session, ok := sessions.Get(from)
	require.True(t, ok)
	assert.Equal(t, "Hostel", session.Answers["accommodation"])
}

func TestChatbot_ResetDiscardsFormProgress(t *testing.T) {
	bot, _, store, sessions := newTestChatbot()
	from := "+919876543210"
	startForm(bot, from)
	for _, answer := range []string{"Asha Rao", "Vikram Rao", "9876543210", "3", "DPS Koramangala", "1", "2"} {
		bot.ProcessMessage(from, answer)
	}

	session, ok := sessions.Get(from)
	require.True(t, ok)
	require.Equal(t, 7, session.Cursor)

	reply := bot.ProcessMessage(from, "reset")
	assert.Contains(t, reply, "Welcome")

	session, ok = sessions.Get(from)
	require.True(t, ok)
	assert.Equal(t, PhaseGreeting, session.Phase)
	assert.Equal(t, 0, session.Cursor)
	assert.Empty(t, session.Answers)

	// Nothing was created from the discarded answers
	inquiries, err := store.GetAllInquiries()
	require.NoError(t, err)
	assert.Empty(t, inquiries)
}

func TestChatbot_ResetKeywordsAllWork(t *testing.T) {
	bot, _, _, sessions := newTestChatbot()
	from := "+919876543210"

	for _, keyword := range []string{"hi", "Hello", "MENU", "start", "Reset", "restart"} {
		startForm(bot, from)
		bot.ProcessMessage(from, "Asha Rao")

		reply := bot.ProcessMessage(from, keyword)
		assert.Contains(t, reply, "Welcome", "keyword %q should reset", keyword)

		session, ok := sessions.Get(from)
		require.True(t, ok)
		assert.Equal(t, PhaseGreeting, session.Phase, "keyword %q", keyword)
	}
}

func TestChatbot_EndToEndCompletion(t *testing.T) {
	bot, sheet, store, sessions := newTestChatbot()
	from := "+919876543210"

	reply := bot.ProcessMessage(from, "hi")
	assert.Contains(t, reply, "Welcome")

	reply = bot.ProcessMessage(from, "1")
	assert.Contains(t, reply, intakeQuestions[0].Prompt)

	bot.ProcessMessage(from, "Asha Rao")
	bot.ProcessMessage(from, "Vikram Rao")
	bot.ProcessMessage(from, "9876543210")
	// class, school, board, accommodation, curriculum
	for i := 0; i < 5; i++ {
		bot.ProcessMessage(from, "skip")
	}
	// notes is last; this answer finalizes the form
	reply = bot.ProcessMessage(from, "skip")

	assert.Contains(t, reply, "Thank you")

	// Session is gone
	_, ok := sessions.Get(from)
	assert.False(t, ok)
	assert.Equal(t, 0, sessions.Count())

	// Exactly one inquiry reached both stores
	require.Len(t, sheet.appended, 1)
	inquiries, err := store.GetAllInquiries()
	require.NoError(t, err)
	require.Len(t, inquiries, 1)

	inquiry := inquiries[0]
	assert.Equal(t, "S-1", inquiry.InquiryID)
	assert.Equal(t, "Asha Rao", inquiry.StudentName)
	assert.Equal(t, "Vikram Rao", inquiry.ParentName)
	assert.Equal(t, models.StatusNew, inquiry.Status)
	assert.Equal(t, models.SourceWhatsAppBot, inquiry.Source)
	assert.Equal(t, "", inquiry.Class)
}

func TestChatbot_CreationFailureEndsSession(t *testing.T) {
	bot, sheet, store, sessions := newTestChatbot()
	sheet.appendErr = fmt.Errorf("503 backend unavailable")
	from := "+919876543210"

	startForm(bot, from)
	bot.ProcessMessage(from, "Asha Rao")
	bot.ProcessMessage(from, "Vikram Rao")
	bot.ProcessMessage(from, "9876543210")
	for i := 0; i < 5; i++ {
		bot.ProcessMessage(from, "skip")
	}
	reply := bot.ProcessMessage(from, "skip")

	assert.Contains(t, reply, "couldn't save")

	// No retry: the session is gone and the user starts over
	_, ok := sessions.Get(from)
	assert.False(t, ok)

	inquiries, err := store.GetAllInquiries()
	require.NoError(t, err)
	assert.Empty(t, inquiries)
}

func TestChatbot_LazySweepExpiresStaleSessions(t *testing.T) {
	bot, _, _, sessions := newTestChatbot()
	stale := "+919876500000"
	other := "+919876511111"

	bot.ProcessMessage(stale, "hi")
	session, ok := sessions.Get(stale)
	require.True(t, ok)

	// Age the session past the TTL
	session.StartedAt = time.Now().Add(-25 * time.Hour)
	sessions.Set(session)

	// A message from a different sender triggers the sweep
	bot.ProcessMessage(other, "hi")

	_, ok = sessions.Get(stale)
	assert.False(t, ok, "stale session should be swept on any inbound event")
	_, ok = sessions.Get(other)
	assert.True(t, ok)
}

func TestResolveAnswer(t *testing.T) {
	choice := Question{
		ID: "accommodation",
		Choices: map[string]string{
			"1": "Day Scholar",
			"2": "Hostel",
			"3": "Not sure yet",
		},
	}
	binary := Question{
		ID: "curriculum",
		Choices: map[string]string{
			"a": "Strong academics with structured coaching",
			"b": "Balanced academics with sports and activities",
		},
	}
	free := Question{ID: "notes"}

	tests := []struct {
		name     string
		question Question
		raw      string
		want     string
	}{
		{"skip lowercase", free, "skip", ""},
		{"skip mixed case", choice, "  SkIp ", ""},
		{"menu number", choice, "2", "Hostel"},
		{"menu free text fallback", choice, "Hostel", "Hostel"},
		{"menu unknown number falls through", choice, "9", "9"},
		{"binary lowercase", binary, "b", "Balanced academics with sports and activities"},
		{"binary uppercase", binary, "A", "Strong academics with structured coaching"},
		{"binary fallback", binary, "something else", "something else"},
		{"free text trimmed", free, "  loves cricket  ", "loves cricket"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveAnswer(tt.question, tt.raw))
		})
	}
}

func TestIntakeQuestions_RequiredSetMatchesInquiryContract(t *testing.T) {
	required := make(map[string]bool)
	for _, q := range intakeQuestions {
		if q.Required {
			required[q.ID] = true
		}
	}
	assert.True(t, required["student_name"])
	assert.True(t, required["parent_name"])
	assert.True(t, required["phone"])
	assert.Len(t, required, 3)

	// Ids are unique
	seen := make(map[string]bool)
	for _, q := range intakeQuestions {
		assert.False(t, seen[q.ID], "duplicate question id %s", q.ID)
		seen[q.ID] = true
		assert.False(t, strings.TrimSpace(q.Prompt) == "", "question %s has no prompt", q.ID)
	}
}
