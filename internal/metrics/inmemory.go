package metrics

import (
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	UsersRegistered  uint64
	LoginsSucceeded  uint64
	LoginsFailed     uint64
	PasswordResets   uint64
	LinksCreated     uint64
	LinksUpdated     uint64
	LinksDeleted     uint64
	HTTPRequests     uint64
	HTTPServerErrors uint64
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	usersRegistered  uint64
	loginsSucceeded  uint64
	loginsFailed     uint64
	passwordResets   uint64
	linksCreated     uint64
	linksUpdated     uint64
	linksDeleted     uint64
	httpRequests     uint64
	httpServerErrors uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		UsersRegistered:  atomic.LoadUint64(&m.usersRegistered),
		LoginsSucceeded:  atomic.LoadUint64(&m.loginsSucceeded),
		LoginsFailed:     atomic.LoadUint64(&m.loginsFailed),
		PasswordResets:   atomic.LoadUint64(&m.passwordResets),
		LinksCreated:     atomic.LoadUint64(&m.linksCreated),
		LinksUpdated:     atomic.LoadUint64(&m.linksUpdated),
		LinksDeleted:     atomic.LoadUint64(&m.linksDeleted),
		HTTPRequests:     atomic.LoadUint64(&m.httpRequests),
		HTTPServerErrors: atomic.LoadUint64(&m.httpServerErrors),
	}
}

// IncUserRegistered increments the registration counter.
func (m *InMemoryRecorder) IncUserRegistered() {
	atomic.AddUint64(&m.usersRegistered, 1)
}

// IncLogin increments the success or failure login counter.
func (m *InMemoryRecorder) IncLogin(result string) {
	if result == LoginSuccess {
		atomic.AddUint64(&m.loginsSucceeded, 1)
		return
	}
	atomic.AddUint64(&m.loginsFailed, 1)
}

// IncPasswordReset increments the password reset counter.
func (m *InMemoryRecorder) IncPasswordReset() {
	atomic.AddUint64(&m.passwordResets, 1)
}

// IncLinkCreated increments link created counter.
func (m *InMemoryRecorder) IncLinkCreated() {
	atomic.AddUint64(&m.linksCreated, 1)
}

// IncLinkUpdated increments link updated counter.
func (m *InMemoryRecorder) IncLinkUpdated() {
	atomic.AddUint64(&m.linksUpdated, 1)
}

// IncLinkDeleted increments link deleted counter.
func (m *InMemoryRecorder) IncLinkDeleted() {
	atomic.AddUint64(&m.linksDeleted, 1)
}

// ObserveHTTPRequest counts requests and 5xx responses.
func (m *InMemoryRecorder) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	atomic.AddUint64(&m.httpRequests, 1)
	if status >= 500 {
		atomic.AddUint64(&m.httpServerErrors, 1)
	}
}
