package searcher

import "sync"

// Session bundles the per-query scratch state: one candidate pool and one
// visited set. Sessions are pooled so concurrent searches do not allocate a
// fresh working set per call.
type Session struct {
	Pool    *Pool
	Visited *VisitedSet
}

var sessionPool = sync.Pool{
	New: func() any {
		return &Session{
			Pool:    NewPool(1),
			Visited: NewVisitedSet(64),
		}
	},
}

// GetSession returns a clean session with the pool sized to capacity and the
// visited set sized for nodes.
func GetSession(capacity, nodes int) *Session {
	s := sessionPool.Get().(*Session)
	s.Pool.Reset(capacity)
	s.Visited.Reset()
	s.Visited.EnsureCapacity(nodes)
	return s
}

// PutSession returns a session to the pool.
func PutSession(s *Session) {
	sessionPool.Put(s)
}
