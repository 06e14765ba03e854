package domain

import "testing"

func TestValidateGroupURL(t *testing.T) {
	cases := []struct {
		url  string
		want bool
	}{
		{"https://chat.whatsapp.com/abc123", true},
		{"https://t.me/joinchat/xyz", true},
		{"https://ig.me/g/something", true},
		{"https://example.com", false},
		{"", false},
		{"chat.whatsapp.com/abc", false}, // scheme-less WhatsApp links are not accepted
	}
	for _, tc := range cases {
		if got := ValidateGroupURL(tc.url); got != tc.want {
			t.Fatalf("ValidateGroupURL(%q) = %v, want %v", tc.url, got, tc.want)
		}
	}
}

func TestQuizQuestionValidate(t *testing.T) {
	text := QuizQuestion{Question: "Where did we meet?", QuestionType: QuestionText, Answer: "uni"}
	if err := text.Validate(); err != nil {
		t.Fatalf("text question should be valid: %v", err)
	}

	mcq := QuizQuestion{
		Question:     "Pick one",
		QuestionType: QuestionMCQ,
		Options: []MCOption{
			{Label: "a", IsCorrect: false},
			{Label: "b", IsCorrect: true},
		},
	}
	if err := mcq.Validate(); err != nil {
		t.Fatalf("mcq question should be valid: %v", err)
	}

	invalid := []QuizQuestion{
		{Question: "", QuestionType: QuestionText, Answer: "x"},
		{Question: "no answer", QuestionType: QuestionText},
		{Question: "options on text", QuestionType: QuestionText, Answer: "x", Options: []MCOption{{Label: "a"}}},
		{Question: "one option", QuestionType: QuestionMCQ, Options: []MCOption{{Label: "a", IsCorrect: true}}},
		{Question: "none correct", QuestionType: QuestionMCQ, Options: []MCOption{{Label: "a"}, {Label: "b"}}},
		{Question: "two correct", QuestionType: QuestionMCQ, Options: []MCOption{{Label: "a", IsCorrect: true}, {Label: "b", IsCorrect: true}}},
	}
	for _, q := range invalid {
		if err := q.Validate(); err == nil {
			t.Fatalf("expected %q to be invalid", q.Question)
		}
	}
}
