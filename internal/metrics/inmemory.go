package metrics

import "sync/atomic"

// Snapshot captures current in-memory counters.
type Snapshot struct {
	UsersRegistered uint64
	LoginsSucceeded uint64
	LoginsFailed    uint64
	UserCacheHits   uint64
	UserCacheMisses uint64
	PetsCreated     uint64
	PetsUpdated     uint64
	PetsDeleted     uint64
}

// InMemoryRecorder stores counters in memory. It backs /metrics and tests.
type InMemoryRecorder struct {
	usersRegistered atomic.Uint64
	loginsSucceeded atomic.Uint64
	loginsFailed    atomic.Uint64
	userCacheHits   atomic.Uint64
	userCacheMisses atomic.Uint64
	petsCreated     atomic.Uint64
	petsUpdated     atomic.Uint64
	petsDeleted     atomic.Uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		UsersRegistered: m.usersRegistered.Load(),
		LoginsSucceeded: m.loginsSucceeded.Load(),
		LoginsFailed:    m.loginsFailed.Load(),
		UserCacheHits:   m.userCacheHits.Load(),
		UserCacheMisses: m.userCacheMisses.Load(),
		PetsCreated:     m.petsCreated.Load(),
		PetsUpdated:     m.petsUpdated.Load(),
		PetsDeleted:     m.petsDeleted.Load(),
	}
}

// IncUserRegistered increments the registration counter.
func (m *InMemoryRecorder) IncUserRegistered() { m.usersRegistered.Add(1) }

// IncLogin increments the login counter for status. Unknown labels count as failures.
func (m *InMemoryRecorder) IncLogin(status string) {
	if status == LoginSuccess {
		m.loginsSucceeded.Add(1)
		return
	}
	m.loginsFailed.Add(1)
}

// IncUserCacheHit increments the profile cache hit counter.
func (m *InMemoryRecorder) IncUserCacheHit() { m.userCacheHits.Add(1) }

// IncUserCacheMiss increments the profile cache miss counter.
func (m *InMemoryRecorder) IncUserCacheMiss() { m.userCacheMisses.Add(1) }

// IncPetCreated increments pet created counter.
func (m *InMemoryRecorder) IncPetCreated() { m.petsCreated.Add(1) }

// IncPetUpdated increments pet updated counter.
func (m *InMemoryRecorder) IncPetUpdated() { m.petsUpdated.Add(1) }

// IncPetDeleted increments pet deleted counter.
func (m *InMemoryRecorder) IncPetDeleted() { m.petsDeleted.Add(1) }
