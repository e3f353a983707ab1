package services

import "strings"

// Question is one step of the WhatsApp intake form. The chatbot loop is
// generic; adding or removing a question only touches this list.
type Question struct {
	ID       string
	Prompt   string
	Required bool
	// Choices maps a literal reply (menu number or letter) to its
	// canonical label. Replies not in the map pass through verbatim.
	Choices map[string]string
}

// intakeQuestions is the fixed, ordered admission inquiry form
var intakeQuestions = []Question{
	{
		ID:       "student_name",
		Prompt:   "What is the student's full name?",
		Required: true,
	},
	{
		ID:       "parent_name",
		Prompt:   "What is the parent/guardian's full name?",
		Required: true,
	},
	{
		ID:       "phone",
		Prompt:   "What is the best contact number for follow-up?",
		Required: true,
	},
	{
		ID:     "class",
		Prompt: "Which class is the admission for?\n1. Pre-Primary\n2. Primary (1-5)\n3. Middle (6-8)\n4. Secondary (9-10)\n5. Senior Secondary (11-12)\n\n(Reply with a number, or type *skip*)",
		Choices: map[string]string{
			"1": "Pre-Primary",
			"2": "Primary (1-5)",
			"3": "Middle (6-8)",
			"4": "Secondary (9-10)",
			"5": "Senior Secondary (11-12)",
		},
	},
	{
		ID:     "school",
		Prompt: "Which school does the student currently attend? (type *skip* if not applicable)",
	},
	{
		ID:     "board",
		Prompt: "Which board is the student studying under?\n1. CBSE\n2. ICSE\n3. State Board\n4. IB\n5. Other\n\n(Reply with a number, or type *skip*)",
		Choices: map[string]string{
			"1": "CBSE",
			"2": "ICSE",
			"3": "State Board",
			"4": "IB",
			"5": "Other",
		},
	},
	{
		ID:     "accommodation",
		Prompt: "Is the student looking for day school or hostel?\n1. Day Scholar\n2. Hostel\n3. Not sure yet\n\n(Reply with a number, or type *skip*)",
		Choices: map[string]string{
			"1": "Day Scholar",
			"2": "Hostel",
			"3": "Not sure yet",
		},
	},
	{
		ID:     "curriculum",
		Prompt: "What are you looking for in the curriculum?\na. Strong academics with structured coaching\nb. Balanced academics with sports and activities\n\n(Reply a or b, or type *skip*)",
		Choices: map[string]string{
			"a": "Strong academics with structured coaching",
			"b": "Balanced academics with sports and activities",
		},
	},
	{
		ID:     "notes",
		Prompt: "Anything else we should know? (type *skip* to finish)",
	},
}

// ResolveAnswer turns a raw reply into the stored answer for a question.
// "skip" (any case) resolves to empty; menu replies resolve through the
// question's choice map; everything else passes through trimmed.
func ResolveAnswer(q Question, raw string) string {
	text := strings.TrimSpace(raw)
	if strings.EqualFold(text, "skip") {
		return ""
	}
	if q.Choices != nil {
		if label, ok := q.Choices[strings.ToLower(text)]; ok {
			return label
		}
	}
	return text
}
