package app

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/SenQii/securejoin/internal/domain"
	"github.com/SenQii/securejoin/internal/notify"
)

// Store abstracts the browser-local key-value storage (file, memory, Redis).
type Store interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte) error
	Delete(key string)
}

// attemptKeyPrefix matches the storage key layout of the original deployment,
// so records written by older clients stay readable.
const attemptKeyPrefix = "securejoin_attempts_limit_"

// AttemptConfig tunes the abuse deterrent; the admin may adjust both knobs.
type AttemptConfig struct {
	MaxAttempts int
	BanDuration time.Duration
}

func (c AttemptConfig) withDefaults() AttemptConfig {
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 5
	}
	if c.BanDuration <= 0 {
		c.BanDuration = 24 * time.Hour
	}
	return c
}

// AttemptManager tracks failed verification attempts per client identity and
// enforces temporary bans. It is stateless apart from the persisted record:
// ban expiry is derived from timestamps on every read, never by a timer, so
// no background scheduling is needed. Concurrent processes sharing one store
// may race on the read-modify-write cycle; that mirrors the multi-tab
// behavior of the original client and is accepted.
type AttemptManager struct {
	store    Store
	notifier notify.Notifier
	config   AttemptConfig
	locale   string
	now      func() time.Time
}

func NewAttemptManager(store Store, notifier notify.Notifier, cfg AttemptConfig, locale string) *AttemptManager {
	return NewAttemptManagerWithClock(store, notifier, cfg, locale, time.Now)
}

// NewAttemptManagerWithClock allows deterministic timestamps in tests.
func NewAttemptManagerWithClock(store Store, notifier notify.Notifier, cfg AttemptConfig, locale string, now func() time.Time) *AttemptManager {
	return &AttemptManager{
		store:    store,
		notifier: notifier,
		config:   cfg.withDefaults(),
		locale:   locale,
		now:      now,
	}
}

// IsBanned reports whether the identity is currently banned. An active ban
// emits a notice with the remaining hours; an expired ban is cleared on read.
func (m *AttemptManager) IsBanned(id string) bool {
	record := m.load(id)
	now := m.nowMillis()

	if record.BannedUntil > 0 && now < record.BannedUntil {
		hoursLeft := ceilHours(record.BannedUntil - now)
		m.notifier.Error(fmt.Sprintf(notify.T(m.locale, "ban.active"), hoursLeft))
		return true
	}

	if record.BannedUntil > 0 && now >= record.BannedUntil {
		m.save(id, domain.AttemptRecord{})
	}

	return false
}

// RecordAttempt registers one failed verification attempt and returns whether
// this attempt triggered a ban. Attempts older than the ban window are
// forgotten before counting.
func (m *AttemptManager) RecordAttempt(id string) bool {
	record := m.load(id)
	now := m.nowMillis()

	if now-record.LastAttempt > m.config.BanDuration.Milliseconds() {
		record.Attempts = 0
	}

	record.Attempts++
	record.LastAttempt = now

	if record.Attempts >= m.config.MaxAttempts {
		record.BannedUntil = now + m.config.BanDuration.Milliseconds()
		banHours := ceilHours(m.config.BanDuration.Milliseconds())
		m.notifier.Error(fmt.Sprintf(notify.T(m.locale, "ban.applied"), banHours))
	}

	m.save(id, record)
	return record.Attempts >= m.config.MaxAttempts
}

// RemainingAttempts returns how many failures are left before a ban.
func (m *AttemptManager) RemainingAttempts(id string) int {
	record := m.load(id)
	remaining := m.config.MaxAttempts - record.Attempts
	if remaining < 0 {
		return 0
	}
	return remaining
}

// BanInfo returns the active ban for the identity, or nil.
func (m *AttemptManager) BanInfo(id string) *domain.BanInfo {
	record := m.load(id)
	now := m.nowMillis()
	if record.BannedUntil == 0 || now >= record.BannedUntil {
		return nil
	}
	return &domain.BanInfo{
		BannedUntil:    record.BannedUntil,
		RemainingHours: ceilHours(record.BannedUntil - now),
	}
}

// load treats missing or corrupt stored JSON as a fresh record.
func (m *AttemptManager) load(id string) domain.AttemptRecord {
	data, ok := m.store.Get(attemptKeyPrefix + id)
	if !ok {
		return domain.AttemptRecord{}
	}
	var record domain.AttemptRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return domain.AttemptRecord{}
	}
	return record
}

func (m *AttemptManager) save(id string, record domain.AttemptRecord) {
	data, err := json.Marshal(record)
	if err != nil {
		return
	}
	_ = m.store.Set(attemptKeyPrefix+id, data)
}

func (m *AttemptManager) nowMillis() int64 {
	return m.now().UnixMilli()
}

func ceilHours(millis int64) int {
	const hour = int64(time.Hour / time.Millisecond)
	return int((millis + hour - 1) / hour)
}
