// Package session aggregates captured requests into per-source-IP
// sessions: the persisted rollup (request count, endpoints hit, trap
// types triggered) lives in storage; this package additionally tracks the
// short rolling history — inter-request timing and path order — that the
// fingerprint scorer needs but has no reason to persist.
package session

import (
	"sync"
	"time"

	"github.com/sundew-sh/sundew/pkg/fingerprint"
	"github.com/sundew-sh/sundew/pkg/models"
	"github.com/sundew-sh/sundew/pkg/storage"
)

// maxTrackedIntervals bounds how many inter-request timestamps feed the
// timing-regularity signal; older history is dropped rather than skewing
// the coefficient of variation with stale behavior.
const maxTrackedIntervals = 16

// Manager resolves the session for an inbound request and accumulates the
// rolling history the fingerprint scorer consumes.
type Manager struct {
	store *storage.Store

	mu      sync.Mutex
	tracked map[string]*track // keyed by session ID

	ipMu    sync.Mutex
	ipLocks map[string]*sync.Mutex
}

type track struct {
	mu         sync.Mutex
	timestamps []time.Time
	paths      []string
	usedMCP    bool
	mcpMethods []string
}

// NewManager constructs a Manager backed by store.
func NewManager(store *storage.Store) *Manager {
	return &Manager{store: store, tracked: map[string]*track{}, ipLocks: map[string]*sync.Mutex{}}
}

// Lock serializes every Observe/Finalize pair for sourceIP against every
// other request from the same source, so two concurrent hits never race to
// create duplicate sessions or clobber each other's rollup update. The
// caller must invoke the returned unlock func exactly once, after Finalize
// returns (or after the response is otherwise abandoned).
func (m *Manager) Lock(sourceIP string) (unlock func()) {
	m.ipMu.Lock()
	l, ok := m.ipLocks[sourceIP]
	if !ok {
		l = &sync.Mutex{}
		m.ipLocks[sourceIP] = l
	}
	m.ipMu.Unlock()

	l.Lock()
	return l.Unlock
}

// Observe resolves (or creates) the session for sourceIP, folds path and
// any MCP method into its rolling history, and returns both the current
// persisted Session and a fingerprint.Input pre-populated with timing and
// path history. The caller fills in Headers and Body before scoring.
func (m *Manager) Observe(sourceIP, path string, mcpMethod string, now time.Time) (models.Session, fingerprint.Input, error) {
	sess, err := m.store.GetOrCreateSession(sourceIP, now)
	if err != nil {
		return models.Session{}, fingerprint.Input{}, err
	}

	t := m.trackFor(sess.ID)

	t.mu.Lock()
	t.timestamps = append(t.timestamps, now)
	if len(t.timestamps) > maxTrackedIntervals+1 {
		t.timestamps = t.timestamps[len(t.timestamps)-(maxTrackedIntervals+1):]
	}
	t.paths = append(t.paths, path)
	if mcpMethod != "" {
		t.usedMCP = true
		if !containsStr(t.mcpMethods, mcpMethod) {
			t.mcpMethods = append(t.mcpMethods, mcpMethod)
		}
	}

	input := fingerprint.Input{
		PathsInSession:   append([]string(nil), t.paths...),
		IntervalsMS:      intervalsMS(t.timestamps),
		UsedMCP:          t.usedMCP,
		MCPMethodsCalled: append([]string(nil), t.mcpMethods...),
	}
	t.mu.Unlock()

	return sess, input, nil
}

// Finalize persists event against its session, updating the rollup with
// the event's classification, matched endpoint, and trap type.
func (m *Manager) Finalize(sess models.Session, e models.RequestEvent) (models.Session, error) {
	return m.store.UpdateSessionWithEvent(sess, e)
}

// trackFor returns the rolling-history tracker for a session ID, creating
// one on first use. Entries are never evicted; a long-running deployment
// trades a small amount of unbounded memory for not having to reconstruct
// timing history from storage on every request.
func (m *Manager) trackFor(sessionID string) *track {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tracked[sessionID]
	if !ok {
		t = &track{}
		m.tracked[sessionID] = t
	}
	return t
}

func intervalsMS(timestamps []time.Time) []float64 {
	if len(timestamps) < 2 {
		return nil
	}
	out := make([]float64, 0, len(timestamps)-1)
	for i := 1; i < len(timestamps); i++ {
		out = append(out, float64(timestamps[i].Sub(timestamps[i-1]).Milliseconds()))
	}
	return out
}

func containsStr(ss []string, v string) bool {
	for _, s := range ss {
		if s == v {
			return true
		}
	}
	return false
}
