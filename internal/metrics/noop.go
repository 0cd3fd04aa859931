package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

func (n *NoopRecorder) IncUserRegistered() {}

func (n *NoopRecorder) IncLogin(result string) {}

func (n *NoopRecorder) IncPasswordReset() {}

func (n *NoopRecorder) IncLinkCreated() {}

func (n *NoopRecorder) IncLinkUpdated() {}

func (n *NoopRecorder) IncLinkDeleted() {}

func (n *NoopRecorder) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {}
