package randd

import "sync/atomic"

// serviceCounters are the live counters the handlers bump.
type serviceCounters struct {
	Requests    atomic.Uint64
	WordsServed atomic.Uint64
	BytesServed atomic.Uint64
}

// Stats is a point-in-time snapshot of the service counters.
type Stats struct {
	Requests    uint64
	WordsServed uint64
	BytesServed uint64
}

// GetStats returns current service counters.
func (s *Server) GetStats() Stats {
	return Stats{
		Requests:    s.stats.Requests.Load(),
		WordsServed: s.stats.WordsServed.Load(),
		BytesServed: s.stats.BytesServed.Load(),
	}
}
