package app

import (
	"context"
	"errors"

	"github.com/SenQii/securejoin/internal/domain"
)

// JoinState is the top-level state machine a visitor drives through the UI.
type JoinState int

const (
	StateEnteringLink JoinState = iota
	StateVerifying
	StateAnsweringChallenge
	StateSubmitting
	StateJoined
)

func (s JoinState) String() string {
	switch s {
	case StateEnteringLink:
		return "entering_link"
	case StateVerifying:
		return "verifying"
	case StateAnsweringChallenge:
		return "answering_challenge"
	case StateSubmitting:
		return "submitting"
	case StateJoined:
		return "joined"
	}
	return "unknown"
}

// JoinFlow gates every step of a join attempt behind the ban check and
// charges the attempt budget on each failed user-initiated action. The ban
// guard short-circuits before any network call.
type JoinFlow struct {
	session  *VerificationSession
	attempts *AttemptManager
	clientID string
	state    JoinState
}

func NewJoinFlow(session *VerificationSession, attempts *AttemptManager, clientID string) *JoinFlow {
	return &JoinFlow{
		session:  session,
		attempts: attempts,
		clientID: clientID,
		state:    StateEnteringLink,
	}
}

// State returns the current flow state.
func (f *JoinFlow) State() JoinState {
	return f.state
}

// Requirements exposes the fetched verification requirements.
func (f *JoinFlow) Requirements() domain.Requirements {
	return f.session.Requirements()
}

// RemainingAttempts reports the attempt budget left for this client.
func (f *JoinFlow) RemainingAttempts() int {
	return f.attempts.RemainingAttempts(f.clientID)
}

// ResendRemaining exposes the OTP resend cooldown for UI disable state.
func (f *JoinFlow) ResendRemaining() int {
	return int(f.session.ResendRemaining().Seconds())
}

// VerifyLink resolves the secure link and loads its requirements. An unknown
// link (404) is surfaced but does not burn an attempt; a joiner holding a
// dead link is not an abuser. Transport failures do charge the budget.
func (f *JoinFlow) VerifyLink(ctx context.Context, secureLink string) error {
	if f.attempts.IsBanned(f.clientID) {
		return domain.ErrBanned
	}

	f.state = StateVerifying
	if err := f.session.FetchRequirements(ctx, secureLink); err != nil {
		if !errors.Is(err, domain.ErrLinkNotFound) {
			f.attempts.RecordAttempt(f.clientID)
		}
		f.state = StateEnteringLink
		return err
	}

	f.state = StateAnsweringChallenge
	return nil
}

// SubmitAnswers forwards the challenge answers. A wrong or broken submission
// records exactly one attempt and returns the flow to the challenge.
func (f *JoinFlow) SubmitAnswers(ctx context.Context, answers []string) (bool, error) {
	if f.attempts.IsBanned(f.clientID) {
		return false, domain.ErrBanned
	}
	if f.state != StateAnsweringChallenge {
		return false, domain.ErrNotVerified
	}

	f.state = StateSubmitting
	ok, err := f.session.SubmitAnswers(ctx, answers)
	if !ok {
		f.attempts.RecordAttempt(f.clientID)
		f.state = StateAnsweringChallenge
		return false, err
	}

	f.advance()
	return true, nil
}

// SendOTP dispatches a passcode. Cooldown rejections and send failures are
// not verification attempts and leave the budget untouched.
func (f *JoinFlow) SendOTP(ctx context.Context, contact string) error {
	if f.attempts.IsBanned(f.clientID) {
		return domain.ErrBanned
	}
	if f.state != StateAnsweringChallenge {
		return domain.ErrNotVerified
	}
	return f.session.SendOTP(ctx, contact)
}

// VerifyOTP checks the entered code; a wrong code charges one attempt.
func (f *JoinFlow) VerifyOTP(ctx context.Context, code, contact string) (bool, error) {
	if f.attempts.IsBanned(f.clientID) {
		return false, domain.ErrBanned
	}
	if f.state != StateAnsweringChallenge {
		return false, domain.ErrNotVerified
	}

	f.state = StateSubmitting
	ok, err := f.session.VerifyOTP(ctx, code, contact)
	if !ok {
		f.attempts.RecordAttempt(f.clientID)
		f.state = StateAnsweringChallenge
		return false, err
	}

	f.advance()
	return true, nil
}

// JoinLink reveals the real destination once every required modality passed.
func (f *JoinFlow) JoinLink() (string, error) {
	if f.state != StateJoined {
		return "", domain.ErrNotVerified
	}
	return f.session.Reveal()
}

// advance lands on Joined only when the session reports full verification;
// with "both" selected the flow stays on the challenge until the second
// modality passes too.
func (f *JoinFlow) advance() {
	if f.session.State() >= StateVerified {
		f.state = StateJoined
		return
	}
	f.state = StateAnsweringChallenge
}
