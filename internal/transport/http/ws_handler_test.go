package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SenQii/securejoin/internal/app"
	"github.com/SenQii/securejoin/internal/domain"
	"github.com/SenQii/securejoin/internal/infra/memory"
	"github.com/gorilla/websocket"
)

type stubBackend struct {
	requirements domain.Requirements
	reqErr       error
	answerResult domain.VerifyResult
	otpResult    domain.VerifyResult
}

func (b *stubBackend) CreateLink(_ context.Context, _ domain.SecureLinkConfig) (string, error) {
	return "https://securejoin.test/created", nil
}

func (b *stubBackend) FetchRequirements(_ context.Context, _ string) (domain.Requirements, error) {
	return b.requirements, b.reqErr
}

func (b *stubBackend) SubmitAnswers(_ context.Context, _ string, _ []string) (domain.VerifyResult, error) {
	return b.answerResult, nil
}

func (b *stubBackend) SendOTP(_ context.Context, _ string, _ domain.OTPChannel) error {
	return nil
}

func (b *stubBackend) VerifyOTP(_ context.Context, _, _, _ string) (domain.VerifyResult, error) {
	return b.otpResult, nil
}

func newWSServer(t *testing.T, backend app.Backend) (*httptest.Server, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	handler := NewWSHandler(backend, store, app.AttemptConfig{}, app.SessionConfig{Locale: "en"})

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", handler.ServeWS)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server, store
}

func dialWS(t *testing.T, server *httptest.Server, clientID string) *websocket.Conn {
	t.Helper()
	u := "ws" + server.URL[len("http"):] + "/ws?clientId=" + clientID
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

// readUntil skips toasts until the wanted message type arrives.
func readUntil(conn *websocket.Conn, t *testing.T, want string) map[string]any {
	t.Helper()
	for i := 0; i < 10; i++ {
		var msg struct {
			Type    string         `json:"type"`
			Payload map[string]any `json:"payload"`
		}
		_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("read json: %v", err)
		}
		if msg.Type == want {
			return msg.Payload
		}
		if msg.Type != "toast" {
			t.Fatalf("expected %s or toast, got %s (%v)", want, msg.Type, msg.Payload)
		}
	}
	t.Fatalf("no %s message received", want)
	return nil
}

func TestWebSocketQuestionJoinFlow(t *testing.T) {
	backend := &stubBackend{
		requirements: domain.Requirements{
			QuizID:  "quiz-1",
			Methods: []string{domain.RequirementQuestions},
			Questions: []domain.QuizQuestion{
				{Question: "Where did we meet?", QuestionType: domain.QuestionText},
			},
		},
		answerResult: domain.VerifyResult{Success: true, JoinLink: "https://chat.whatsapp.com/real"},
	}
	server, _ := newWSServer(t, backend)
	conn := dialWS(t, server, "client-1")

	if err := conn.WriteJSON(map[string]any{
		"type":    "verify_link",
		"payload": map[string]any{"link": "https://securejoin.test/abc"},
	}); err != nil {
		t.Fatalf("write: %v", err)
	}

	payload := readUntil(conn, t, "requirements")
	questions, ok := payload["questions"].([]any)
	if !ok || len(questions) != 1 {
		t.Fatalf("expected one question, got %v", payload["questions"])
	}

	if err := conn.WriteJSON(map[string]any{
		"type":    "submit_answers",
		"payload": map[string]any{"answers": []string{"uni"}},
	}); err != nil {
		t.Fatalf("write: %v", err)
	}

	payload = readUntil(conn, t, "verified")
	if payload["join_link"] != "https://chat.whatsapp.com/real" {
		t.Fatalf("join_link = %v", payload["join_link"])
	}
}

func TestWebSocketWrongAnswersShrinkBudget(t *testing.T) {
	backend := &stubBackend{
		requirements: domain.Requirements{
			QuizID:  "quiz-1",
			Methods: []string{domain.RequirementQuestions},
			Questions: []domain.QuizQuestion{
				{Question: "Where did we meet?", QuestionType: domain.QuestionText},
			},
		},
		answerResult: domain.VerifyResult{Success: false},
	}
	server, _ := newWSServer(t, backend)
	conn := dialWS(t, server, "client-1")

	if err := conn.WriteJSON(map[string]any{
		"type":    "verify_link",
		"payload": map[string]any{"link": "https://securejoin.test/abc"},
	}); err != nil {
		t.Fatalf("write: %v", err)
	}
	readUntil(conn, t, "requirements")

	if err := conn.WriteJSON(map[string]any{
		"type":    "submit_answers",
		"payload": map[string]any{"answers": []string{"wrong"}},
	}); err != nil {
		t.Fatalf("write: %v", err)
	}

	payload := readUntil(conn, t, "attempts")
	if remaining, _ := payload["remaining"].(float64); remaining != 4 {
		t.Fatalf("remaining = %v, want 4", payload["remaining"])
	}
}

func TestWebSocketBanSurvivesReconnect(t *testing.T) {
	backend := &stubBackend{reqErr: domain.ErrBackendUnavailable}
	server, store := newWSServer(t, backend)

	// Burn the budget out of band, as a previous connection would have.
	attempts := app.NewAttemptManager(store, notifyDiscard{}, app.AttemptConfig{}, "en")
	for i := 0; i < 5; i++ {
		attempts.RecordAttempt("client-1")
	}

	conn := dialWS(t, server, "client-1")
	if err := conn.WriteJSON(map[string]any{
		"type":    "verify_link",
		"payload": map[string]any{"link": "https://securejoin.test/abc"},
	}); err != nil {
		t.Fatalf("write: %v", err)
	}

	payload := readUntil(conn, t, "banned")
	if hours, _ := payload["remaining_hours"].(float64); hours != 24 {
		t.Fatalf("remaining_hours = %v, want 24", payload["remaining_hours"])
	}
}

func TestWebSocketCreateLink(t *testing.T) {
	server, _ := newWSServer(t, &stubBackend{})
	conn := dialWS(t, server, "creator-1")

	if err := conn.WriteJSON(map[string]any{
		"type": "create_link",
		"payload": map[string]any{
			"group_url": "https://chat.whatsapp.com/AbCdEf",
			"method":    "questions",
			"questions": []map[string]any{
				{"question": "Where did we meet?", "questionType": "text", "answer": "uni"},
			},
		},
	}); err != nil {
		t.Fatalf("write: %v", err)
	}

	payload := readUntil(conn, t, "link_created")
	if payload["link"] != "https://securejoin.test/created" {
		t.Fatalf("link = %v", payload["link"])
	}
}

type notifyDiscard struct{}

func (notifyDiscard) Success(string) {}
func (notifyDiscard) Error(string)   {}
