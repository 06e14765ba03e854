package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/SenQii/securejoin/internal/domain"
)

const defaultTimeout = 10 * time.Second

// Client talks to the securejoin HTTP API. It implements app.Backend and maps
// the API's status codes onto the domain sentinels the flows branch on.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	accessToken string
}

func NewClient(baseURL, accessToken string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		httpClient:  &http.Client{Timeout: timeout},
		baseURL:     baseURL,
		accessToken: accessToken,
	}
}

type createLinkRequest struct {
	QuizList      []domain.QuizQuestion     `json:"quiz_list"`
	OriginalURL   string                    `json:"original_url"`
	VerifyMethods domain.VerificationMethod `json:"verify_methods"`
	OTPMethod     *domain.OTPChannel        `json:"otp_method"`
}

type createLinkResponse struct {
	Status string `json:"status"`
	Link   string `json:"link"`
}

// CreateLink registers a new secured link and returns its shareable URL.
func (c *Client) CreateLink(ctx context.Context, cfg domain.SecureLinkConfig) (string, error) {
	req := createLinkRequest{
		QuizList:      cfg.Questions,
		OriginalURL:   cfg.GroupURL,
		VerifyMethods: cfg.Method,
	}
	if cfg.Method.RequiresOTP() {
		channel := cfg.OTPChannel
		req.OTPMethod = &channel
	}

	var resp createLinkResponse
	if err := c.post(ctx, "/create_link", req, &resp); err != nil {
		return "", err
	}
	if resp.Status != "success" || resp.Link == "" {
		return "", fmt.Errorf("create link: unexpected status %q: %w", resp.Status, domain.ErrBackendUnavailable)
	}
	return resp.Link, nil
}

type getQuizRequest struct {
	Link string `json:"link"`
}

type getQuizResponse struct {
	VerifyMethods []string              `json:"verify_methods"`
	Quiz          []domain.QuizQuestion `json:"quiz"`
	QuizID        string                `json:"quiz_id"`
	OTPMethod     domain.OTPChannel     `json:"otp_method"`
}

// FetchRequirements resolves a secure link into its verification requirements.
// A 404 maps to domain.ErrLinkNotFound.
func (c *Client) FetchRequirements(ctx context.Context, link string) (domain.Requirements, error) {
	var resp getQuizResponse
	if err := c.post(ctx, "/get_quiz", getQuizRequest{Link: link}, &resp); err != nil {
		return domain.Requirements{}, err
	}
	return domain.Requirements{
		QuizID:     resp.QuizID,
		Methods:    resp.VerifyMethods,
		Questions:  resp.Quiz,
		OTPChannel: resp.OTPMethod,
	}, nil
}

type checkAnswerRequest struct {
	Answers []string `json:"answers"`
	Link    string   `json:"link"`
}

type verifyResponse struct {
	Status     string `json:"status"`
	DirectLink string `json:"direct_link"`
}

// SubmitAnswers checks the ordered answers against the link's quiz.
func (c *Client) SubmitAnswers(ctx context.Context, link string, answers []string) (domain.VerifyResult, error) {
	var resp verifyResponse
	if err := c.post(ctx, "/check_answer", checkAnswerRequest{Answers: answers, Link: link}, &resp); err != nil {
		return domain.VerifyResult{}, err
	}
	return domain.VerifyResult{
		Success:  resp.Status == "success",
		JoinLink: resp.DirectLink,
	}, nil
}

type sendOTPRequest struct {
	Contact string            `json:"contact"`
	Method  domain.OTPChannel `json:"method"`
}

type sendOTPResponse struct {
	Status string `json:"status"`
}

// SendOTP asks the API to dispatch a passcode. 403 maps to
// domain.ErrContactBlocked and 429 to domain.ErrRateLimited.
func (c *Client) SendOTP(ctx context.Context, contact string, channel domain.OTPChannel) error {
	var resp sendOTPResponse
	if err := c.post(ctx, "/send_otp", sendOTPRequest{Contact: contact, Method: channel}, &resp); err != nil {
		return err
	}
	if resp.Status != "approved" {
		return fmt.Errorf("send otp: unexpected status %q: %w", resp.Status, domain.ErrBackendUnavailable)
	}
	return nil
}

type verifyOTPRequest struct {
	Code    string `json:"code"`
	Contact string `json:"contact"`
	QuizID  string `json:"quiz_id"`
}

// VerifyOTP checks the entered passcode for the given quiz.
func (c *Client) VerifyOTP(ctx context.Context, quizID, code, contact string) (domain.VerifyResult, error) {
	var resp verifyResponse
	err := c.post(ctx, "/verify_otp", verifyOTPRequest{Code: code, Contact: contact, QuizID: quizID}, &resp)
	if err != nil {
		return domain.VerifyResult{}, err
	}
	return domain.VerifyResult{
		Success:  resp.Status == "approved",
		JoinLink: resp.DirectLink,
	}, nil
}

func (c *Client) post(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.accessToken != "" {
		req.Header.Set("access-token", c.accessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", path, domain.ErrBackendUnavailable)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNotFound:
		return domain.ErrLinkNotFound
	case http.StatusForbidden:
		return domain.ErrContactBlocked
	case http.StatusTooManyRequests:
		return domain.ErrRateLimited
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("%s returned %s: %w", path, resp.Status, domain.ErrBackendUnavailable)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
