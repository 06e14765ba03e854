package backend_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SenQii/securejoin/internal/backend"
	"github.com/SenQii/securejoin/internal/domain"
)

func TestCreateLinkSendsConfiguredPayload(t *testing.T) {
	var got map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/create_link" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("access-token") != "token-1" {
			t.Errorf("missing access token header")
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]string{"status": "success", "link": "https://securejoin.test/abc"})
	}))
	defer server.Close()

	client := backend.NewClient(server.URL, "token-1", time.Second)
	link, err := client.CreateLink(context.Background(), domain.SecureLinkConfig{
		Method:   domain.MethodBoth,
		GroupURL: "https://chat.whatsapp.com/AbCdEf",
		Questions: []domain.QuizQuestion{
			{Question: "Where did we meet?", QuestionType: domain.QuestionText, Answer: "uni"},
		},
		OTPChannel: domain.ChannelMail,
	})
	if err != nil {
		t.Fatalf("create link: %v", err)
	}
	if link != "https://securejoin.test/abc" {
		t.Fatalf("link = %q", link)
	}
	if got["original_url"] != "https://chat.whatsapp.com/AbCdEf" {
		t.Fatalf("original_url = %v", got["original_url"])
	}
	if got["verify_methods"] != "both" {
		t.Fatalf("verify_methods = %v", got["verify_methods"])
	}
	if got["otp_method"] != "mail" {
		t.Fatalf("otp_method = %v", got["otp_method"])
	}
}

func TestCreateLinkOmitsChannelForQuestionLinks(t *testing.T) {
	var got map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		json.NewEncoder(w).Encode(map[string]string{"status": "success", "link": "https://securejoin.test/abc"})
	}))
	defer server.Close()

	client := backend.NewClient(server.URL, "", time.Second)
	_, err := client.CreateLink(context.Background(), domain.SecureLinkConfig{
		Method:   domain.MethodQuestions,
		GroupURL: "https://chat.whatsapp.com/AbCdEf",
		Questions: []domain.QuizQuestion{
			{Question: "Where did we meet?", QuestionType: domain.QuestionText, Answer: "uni"},
		},
	})
	if err != nil {
		t.Fatalf("create link: %v", err)
	}
	if got["otp_method"] != nil {
		t.Fatalf("question-only link sent otp_method %v", got["otp_method"])
	}
}

func TestFetchRequirementsMapsResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/get_quiz" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"verify_methods": []string{"QUESTIONS", "OTP"},
			"quiz": []map[string]any{
				{"question": "Where did we meet?", "questionType": "text"},
			},
			"quiz_id":    "quiz-9",
			"otp_method": "sms",
		})
	}))
	defer server.Close()

	client := backend.NewClient(server.URL, "", time.Second)
	requirements, err := client.FetchRequirements(context.Background(), "https://securejoin.test/abc")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if !requirements.NeedsQuestions() || !requirements.NeedsOTP() {
		t.Fatalf("requirements lost methods: %+v", requirements)
	}
	if requirements.QuizID != "quiz-9" || requirements.OTPChannel != domain.ChannelSMS {
		t.Fatalf("requirements = %+v", requirements)
	}
	if len(requirements.Questions) != 1 || requirements.Questions[0].Question != "Where did we meet?" {
		t.Fatalf("questions = %+v", requirements.Questions)
	}
}

func TestFetchRequirementsNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	client := backend.NewClient(server.URL, "", time.Second)
	_, err := client.FetchRequirements(context.Background(), "dead")
	if !errors.Is(err, domain.ErrLinkNotFound) {
		t.Fatalf("expected ErrLinkNotFound, got %v", err)
	}
}

func TestSubmitAnswersReportsFailedStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"status": "failed", "direct_link": ""})
	}))
	defer server.Close()

	client := backend.NewClient(server.URL, "", time.Second)
	result, err := client.SubmitAnswers(context.Background(), "link", []string{"wrong"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.Success || result.JoinLink != "" {
		t.Fatalf("result = %+v", result)
	}
}

func TestSendOTPStatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		status int
		want   error
	}{
		{"blocked", http.StatusForbidden, domain.ErrContactBlocked},
		{"throttled", http.StatusTooManyRequests, domain.ErrRateLimited},
		{"outage", http.StatusInternalServerError, domain.ErrBackendUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
			}))
			defer server.Close()

			client := backend.NewClient(server.URL, "", time.Second)
			err := client.SendOTP(context.Background(), "+966501234567", domain.ChannelSMS)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestVerifyOTPApproved(t *testing.T) {
	var got map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/verify_otp" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&got)
		json.NewEncoder(w).Encode(map[string]string{
			"status":      "approved",
			"direct_link": "https://chat.whatsapp.com/real",
		})
	}))
	defer server.Close()

	client := backend.NewClient(server.URL, "", time.Second)
	result, err := client.VerifyOTP(context.Background(), "quiz-9", "123456", "user@example.com")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !result.Success || result.JoinLink != "https://chat.whatsapp.com/real" {
		t.Fatalf("result = %+v", result)
	}
	if got["quiz_id"] != "quiz-9" || got["code"] != "123456" || got["contact"] != "user@example.com" {
		t.Fatalf("payload = %v", got)
	}
}

func TestUnreachableBackendIsWrapped(t *testing.T) {
	client := backend.NewClient("http://127.0.0.1:1", "", 200*time.Millisecond)
	_, err := client.FetchRequirements(context.Background(), "link")
	if !errors.Is(err, domain.ErrBackendUnavailable) {
		t.Fatalf("expected ErrBackendUnavailable, got %v", err)
	}
}
