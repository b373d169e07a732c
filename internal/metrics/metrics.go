// Package metrics provides lightweight hooks for instrumentation.
package metrics

// Login outcome labels.
const (
	LoginSuccess = "success"
	LoginFailed  = "failed"
)

// Recorder captures metric events for the application.
type Recorder interface {
	// Account metrics
	IncUserRegistered()
	IncLogin(status string) // status: LoginSuccess or LoginFailed

	// Profile cache metrics
	IncUserCacheHit()
	IncUserCacheMiss()

	// Pet management metrics
	IncPetCreated()
	IncPetUpdated()
	IncPetDeleted()
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
