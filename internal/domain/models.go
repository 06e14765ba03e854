package domain

// VerificationMethod is the gate a creator puts in front of the group link.
type VerificationMethod string

const (
	MethodQuestions VerificationMethod = "questions"
	MethodOTP       VerificationMethod = "otp"
	MethodBoth      VerificationMethod = "both"
)

// ParseVerificationMethod maps user input to a known method.
func ParseVerificationMethod(raw string) (VerificationMethod, bool) {
	switch VerificationMethod(raw) {
	case MethodQuestions, MethodOTP, MethodBoth:
		return VerificationMethod(raw), true
	}
	return "", false
}

// RequiresQuestions reports whether the method includes challenge questions.
func (m VerificationMethod) RequiresQuestions() bool {
	return m == MethodQuestions || m == MethodBoth
}

// RequiresOTP reports whether the method includes a one-time passcode.
func (m VerificationMethod) RequiresOTP() bool {
	return m == MethodOTP || m == MethodBoth
}

// OTPChannel is the delivery channel for one-time passcodes.
type OTPChannel string

const (
	ChannelMail OTPChannel = "mail"
	ChannelSMS  OTPChannel = "sms"
)

// MCOption is a multiple-choice option; exactly one per question is correct.
type MCOption struct {
	Label     string `json:"label" yaml:"label"`
	IsCorrect bool   `json:"isCorrect" yaml:"is_correct"`
}

// QuestionType distinguishes free-text questions from multiple choice.
type QuestionType string

const (
	QuestionText QuestionType = "text"
	QuestionMCQ  QuestionType = "mcq"
)

// QuizQuestion is a single challenge question. Answer is only ever populated
// on the creator side; the server strips it before handing questions to a
// joiner.
type QuizQuestion struct {
	ID           string       `json:"id,omitempty" yaml:"id,omitempty"`
	Question     string       `json:"question" yaml:"question"`
	QuestionType QuestionType `json:"questionType" yaml:"type"`
	Answer       string       `json:"answer,omitempty" yaml:"answer,omitempty"`
	Options      []MCOption   `json:"options,omitempty" yaml:"options,omitempty"`
}

// Validate enforces the creator-side shape: text questions carry no options,
// mcq questions carry at least two with exactly one marked correct.
func (q QuizQuestion) Validate() error {
	if q.Question == "" {
		return ErrInvalidQuestion
	}
	switch q.QuestionType {
	case QuestionText, "":
		if len(q.Options) > 0 {
			return ErrInvalidQuestion
		}
		if q.Answer == "" {
			return ErrInvalidQuestion
		}
	case QuestionMCQ:
		if len(q.Options) < 2 {
			return ErrInvalidQuestion
		}
		correct := 0
		for _, opt := range q.Options {
			if opt.IsCorrect {
				correct++
			}
		}
		if correct != 1 {
			return ErrInvalidQuestion
		}
	default:
		return ErrInvalidQuestion
	}
	return nil
}

// Requirement flags as reported by the server for a secure link.
const (
	RequirementQuestions = "QUESTIONS"
	RequirementOTP       = "OTP"
)

// Requirements describes what a joiner must pass for one secure link.
// Questions arrive with the answer field stripped.
type Requirements struct {
	QuizID     string
	Methods    []string
	Questions  []QuizQuestion
	OTPChannel OTPChannel
}

// NeedsQuestions reports whether the link demands challenge answers.
func (r Requirements) NeedsQuestions() bool {
	return r.has(RequirementQuestions)
}

// NeedsOTP reports whether the link demands a one-time passcode.
func (r Requirements) NeedsOTP() bool {
	return r.has(RequirementOTP)
}

func (r Requirements) has(flag string) bool {
	for _, m := range r.Methods {
		if m == flag {
			return true
		}
	}
	return false
}

// VerifyResult is the settled outcome of an answer or OTP submission.
// JoinLink is only trustworthy when Success is true and the link is non-empty.
type VerifyResult struct {
	Success  bool
	JoinLink string
}

// AttemptRecord is the per-identity abuse counter persisted in the local
// store. Timestamps are unix milliseconds, matching the stored wire format.
type AttemptRecord struct {
	Attempts    int   `json:"attempts"`
	LastAttempt int64 `json:"lastAttempt"`
	BannedUntil int64 `json:"bannedUntil,omitempty"`
}

// BanInfo reports an active ban to the caller.
type BanInfo struct {
	BannedUntil    int64
	RemainingHours int
}

// SecureLinkConfig is the creation payload for a new secured link.
type SecureLinkConfig struct {
	Method     VerificationMethod
	Questions  []QuizQuestion
	GroupURL   string
	OTPChannel OTPChannel
}
