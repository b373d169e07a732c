package metrics

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

func (n *NoopRecorder) IncUserRegistered()     {}
func (n *NoopRecorder) IncLogin(status string) {}
func (n *NoopRecorder) IncUserCacheHit()       {}
func (n *NoopRecorder) IncUserCacheMiss()      {}
func (n *NoopRecorder) IncPetCreated()         {}
func (n *NoopRecorder) IncPetUpdated()         {}
func (n *NoopRecorder) IncPetDeleted()         {}
