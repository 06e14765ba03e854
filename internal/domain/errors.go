package domain

import "errors"

var (
	// ErrLinkNotFound is returned when the server knows no matching secure link.
	ErrLinkNotFound = errors.New("no matching secure link")
	// ErrUnsupportedPlatform is returned for group URLs outside the allow-list.
	ErrUnsupportedPlatform = errors.New("unsupported platform url")
	// ErrInvalidQuestion indicates a malformed creator-side quiz question.
	ErrInvalidQuestion = errors.New("invalid quiz question")
	// ErrContactBlocked indicates the OTP contact is blocked from the service.
	ErrContactBlocked = errors.New("contact blocked")
	// ErrRateLimited indicates the server throttled the request.
	ErrRateLimited = errors.New("rate limited")
	// ErrBanned indicates the local attempt budget is exhausted.
	ErrBanned = errors.New("client temporarily banned")
	// ErrOTPCooldown indicates a resend was requested before the cooldown elapsed.
	ErrOTPCooldown = errors.New("otp resend cooldown active")
	// ErrBackendUnavailable covers network failures and unexpected responses.
	ErrBackendUnavailable = errors.New("backend unavailable")
	// ErrMissingJoinLink indicates a success response without a join link.
	ErrMissingJoinLink = errors.New("success response missing join link")
	// ErrNotVerified indicates a reveal was requested before all modalities passed.
	ErrNotVerified = errors.New("verification incomplete")
)
