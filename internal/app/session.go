package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SenQii/securejoin/internal/domain"
	"github.com/SenQii/securejoin/internal/notify"
)

// Backend is the remote API boundary. Its internals are out of scope; the
// session only relies on the consumed contract (see internal/backend).
type Backend interface {
	CreateLink(ctx context.Context, cfg domain.SecureLinkConfig) (string, error)
	FetchRequirements(ctx context.Context, link string) (domain.Requirements, error)
	SubmitAnswers(ctx context.Context, link string, answers []string) (domain.VerifyResult, error)
	SendOTP(ctx context.Context, contact string, channel domain.OTPChannel) error
	VerifyOTP(ctx context.Context, quizID, code, contact string) (domain.VerifyResult, error)
}

// SessionState tracks a join attempt. Failed steps never move it backward.
type SessionState int

const (
	StateUnverified SessionState = iota
	StateLinkChecked
	StateVerified
	StateLinkRevealed
)

func (s SessionState) String() string {
	switch s {
	case StateUnverified:
		return "unverified"
	case StateLinkChecked:
		return "link_checked"
	case StateVerified:
		return "verified"
	case StateLinkRevealed:
		return "link_revealed"
	}
	return "unknown"
}

// SessionConfig tunes per-session behavior.
type SessionConfig struct {
	// CountryCode is prefixed to sms contacts that carry no dial prefix.
	CountryCode string
	// ResendCooldown is the client-local OTP resend throttle. The server-side
	// 429 remains the authoritative guard.
	ResendCooldown time.Duration
	Locale         string
}

func (c SessionConfig) withDefaults() SessionConfig {
	if c.ResendCooldown <= 0 {
		c.ResendCooldown = 60 * time.Second
	}
	return c
}

// VerificationSession drives the two verification modalities for one join
// attempt. State is held only in memory; the server is the sole authority on
// answer correctness.
type VerificationSession struct {
	backend  Backend
	notifier notify.Notifier
	config   SessionConfig
	now      func() time.Time

	state        SessionState
	link         string
	requirements domain.Requirements
	answersOK    bool
	otpOK        bool
	joinLink     string
	otpContact   string
	lastOTPSend  time.Time
}

func NewVerificationSession(backend Backend, notifier notify.Notifier, cfg SessionConfig) *VerificationSession {
	return NewVerificationSessionWithClock(backend, notifier, cfg, time.Now)
}

// NewVerificationSessionWithClock allows deterministic cooldown tests.
func NewVerificationSessionWithClock(backend Backend, notifier notify.Notifier, cfg SessionConfig, now func() time.Time) *VerificationSession {
	return &VerificationSession{
		backend:  backend,
		notifier: notifier,
		config:   cfg.withDefaults(),
		now:      now,
	}
}

// State returns the current session state.
func (s *VerificationSession) State() SessionState {
	return s.state
}

// Requirements returns what the joiner still has to pass. Only meaningful
// after FetchRequirements succeeded.
func (s *VerificationSession) Requirements() domain.Requirements {
	return s.requirements
}

// FetchRequirements looks the secure link up and records what the gate
// demands. A missing link surfaces as domain.ErrLinkNotFound, distinct from
// transport failures.
func (s *VerificationSession) FetchRequirements(ctx context.Context, secureLink string) error {
	requirements, err := s.backend.FetchRequirements(ctx, secureLink)
	if err != nil {
		if errors.Is(err, domain.ErrLinkNotFound) {
			s.notifier.Error(notify.T(s.config.Locale, "link.notfound"))
			return err
		}
		s.notifier.Error(notify.T(s.config.Locale, "link.check.error"))
		return err
	}

	s.link = secureLink
	s.requirements = requirements
	if s.state < StateLinkChecked {
		s.state = StateLinkChecked
	}
	s.notifier.Success(notify.T(s.config.Locale, "link.verified"))
	return nil
}

// SubmitAnswers sends the ordered answers, aligned by index with the fetched
// questions. Returns whether the answers passed. A success response without a
// join link is treated as failure despite its status.
func (s *VerificationSession) SubmitAnswers(ctx context.Context, answers []string) (bool, error) {
	if s.state < StateLinkChecked {
		return false, domain.ErrNotVerified
	}

	result, err := s.backend.SubmitAnswers(ctx, s.link, answers)
	if err != nil {
		s.notifier.Error(notify.T(s.config.Locale, "answer.error"))
		return false, err
	}
	if !result.Success {
		s.notifier.Error(notify.T(s.config.Locale, "answer.wrong"))
		return false, nil
	}
	if result.JoinLink == "" {
		s.notifier.Error(notify.T(s.config.Locale, "answer.error"))
		return false, domain.ErrMissingJoinLink
	}

	s.answersOK = true
	s.joinLink = result.JoinLink
	s.notifier.Success(notify.T(s.config.Locale, "answer.correct"))
	s.reconcile()
	return true, nil
}

// SendOTP dispatches a passcode to the contact over the link's channel.
// A resend inside the cooldown window is rejected locally with no network
// call; blocked (403) and throttled (429) contacts surface distinctly.
func (s *VerificationSession) SendOTP(ctx context.Context, contact string) error {
	if remaining := s.ResendRemaining(); remaining > 0 {
		seconds := int(remaining.Round(time.Second) / time.Second)
		s.notifier.Error(fmt.Sprintf(notify.T(s.config.Locale, "otp.cooldown"), seconds))
		return domain.ErrOTPCooldown
	}

	normalized := s.normalizeContact(contact)
	if err := s.backend.SendOTP(ctx, normalized, s.requirements.OTPChannel); err != nil {
		switch {
		case errors.Is(err, domain.ErrContactBlocked):
			s.notifier.Error(notify.T(s.config.Locale, "otp.blocked"))
		case errors.Is(err, domain.ErrRateLimited):
			s.notifier.Error(notify.T(s.config.Locale, "otp.throttled"))
		default:
			s.notifier.Error(notify.T(s.config.Locale, "otp.send.error"))
		}
		return err
	}

	s.otpContact = normalized
	s.lastOTPSend = s.now()
	s.notifier.Success(notify.T(s.config.Locale, "otp.sent"))
	return nil
}

// ResendRemaining reports how long the resend action stays disabled.
func (s *VerificationSession) ResendRemaining() time.Duration {
	if s.lastOTPSend.IsZero() {
		return 0
	}
	remaining := s.config.ResendCooldown - s.now().Sub(s.lastOTPSend)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// VerifyOTP checks the entered code. An empty contact falls back to the one
// the code was sent to. The non-empty-link invariant applies as for answers.
func (s *VerificationSession) VerifyOTP(ctx context.Context, code, contact string) (bool, error) {
	if s.state < StateLinkChecked {
		return false, domain.ErrNotVerified
	}
	if contact == "" {
		contact = s.otpContact
	}

	result, err := s.backend.VerifyOTP(ctx, s.requirements.QuizID, code, contact)
	if err != nil {
		s.notifier.Error(notify.T(s.config.Locale, "otp.verify.error"))
		return false, err
	}
	if !result.Success {
		s.notifier.Error(notify.T(s.config.Locale, "otp.wrong"))
		return false, nil
	}
	if result.JoinLink == "" {
		s.notifier.Error(notify.T(s.config.Locale, "otp.verify.error"))
		return false, domain.ErrMissingJoinLink
	}

	s.otpOK = true
	s.joinLink = result.JoinLink
	s.notifier.Success(notify.T(s.config.Locale, "otp.verified"))
	s.reconcile()
	return true, nil
}

// Reveal surfaces the real destination link once every required modality has
// passed.
func (s *VerificationSession) Reveal() (string, error) {
	if s.state < StateVerified {
		return "", domain.ErrNotVerified
	}
	s.state = StateLinkRevealed
	return s.joinLink, nil
}

// reconcile advances to Verified when all selected modalities are satisfied.
// When the link was created with "both", either check alone is not enough.
func (s *VerificationSession) reconcile() {
	if s.requirements.NeedsQuestions() && !s.answersOK {
		return
	}
	if s.requirements.NeedsOTP() && !s.otpOK {
		return
	}
	if s.joinLink == "" {
		return
	}
	if s.state < StateVerified {
		s.state = StateVerified
	}
}

// normalizeContact prefixes sms contacts with the configured country code;
// mail contacts pass through untouched.
func (s *VerificationSession) normalizeContact(contact string) string {
	if s.requirements.OTPChannel != domain.ChannelSMS {
		return contact
	}
	if s.config.CountryCode == "" || strings.HasPrefix(contact, "+") {
		return contact
	}
	return s.config.CountryCode + strings.TrimPrefix(contact, "0")
}
