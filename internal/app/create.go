package app

import (
	"context"

	"github.com/SenQii/securejoin/internal/domain"
	"github.com/SenQii/securejoin/internal/notify"
)

// LinkCreator builds new secured links from an original group URL and the
// chosen verification configuration. It depends only on the remote API
// boundary and local URL validation.
type LinkCreator struct {
	backend  Backend
	notifier notify.Notifier
	locale   string

	lastLink string
}

func NewLinkCreator(backend Backend, notifier notify.Notifier, locale string) *LinkCreator {
	return &LinkCreator{backend: backend, notifier: notifier, locale: locale}
}

// CreateSecureLink validates the configuration and posts it to the backend.
// Unsupported platforms and malformed questions fail before any network call.
// On any failure the previously surfaced link is cleared.
func (c *LinkCreator) CreateSecureLink(ctx context.Context, cfg domain.SecureLinkConfig) (string, error) {
	if !domain.ValidateGroupURL(cfg.GroupURL) {
		c.notifier.Error(notify.T(c.locale, "link.unsupported"))
		c.lastLink = ""
		return "", domain.ErrUnsupportedPlatform
	}

	if cfg.Method.RequiresQuestions() {
		if len(cfg.Questions) == 0 {
			c.notifier.Error(notify.T(c.locale, "quiz.invalid"))
			c.lastLink = ""
			return "", domain.ErrInvalidQuestion
		}
		for _, question := range cfg.Questions {
			if err := question.Validate(); err != nil {
				c.notifier.Error(notify.T(c.locale, "quiz.invalid"))
				c.lastLink = ""
				return "", err
			}
		}
	}
	if !cfg.Method.RequiresOTP() {
		// The channel is meaningless for question-only links; drop it so the
		// created link never advertises OTP.
		cfg.OTPChannel = ""
	}

	link, err := c.backend.CreateLink(ctx, cfg)
	if err != nil {
		c.notifier.Error(notify.T(c.locale, "link.create.error"))
		c.lastLink = ""
		return "", err
	}

	c.lastLink = link
	c.notifier.Success(notify.T(c.locale, "link.created"))
	return link, nil
}

// CreatedLink returns the most recently created link, empty after a failure.
func (c *LinkCreator) CreatedLink() string {
	return c.lastLink
}
