package layout

// Store is the per-pass arena: it owns the canonical styles, interned
// strings and node ids for one document pass. A store is single-threaded
// and discarded wholesale when the pass ends; nothing it hands out may
// outlive it.
type Store struct {
	styles  map[uint64][]*ComputedStyle
	strings map[string]string
	nextID  uint64
}

// NewStore returns an empty arena for one pass.
func NewStore() *Store {
	return &Store{
		styles:  make(map[uint64][]*ComputedStyle),
		strings: make(map[string]string),
	}
}

// Intern deduplicates s so equal strings share one backing allocation for
// the lifetime of the pass.
func (s *Store) Intern(v string) string {
	if v == "" {
		return ""
	}
	if got, ok := s.strings[v]; ok {
		return got
	}
	s.strings[v] = v
	return v
}

// Canonicalize returns the shared instance for structurally equal styles.
// The first caller's value becomes canonical; later equal values map to it.
// Styles are bucketed by their construction-time hash, with a structural
// comparison guarding against collisions.
func (s *Store) Canonicalize(cs *ComputedStyle) *ComputedStyle {
	bucket := s.styles[cs.hash]
	for _, existing := range bucket {
		if styleEqual(existing, cs) {
			return existing
		}
	}
	s.styles[cs.hash] = append(s.styles[cs.hash], cs)
	return cs
}

// StyleCount reports the number of canonical styles held by the arena.
func (s *Store) StyleCount() int {
	n := 0
	for _, bucket := range s.styles {
		n += len(bucket)
	}
	return n
}

// NextNodeID issues a monotonically increasing id, used to key per-node
// transient caches such as shaped paragraph lines and table solutions.
func (s *Store) NextNodeID() uint64 {
	s.nextID++
	return s.nextID
}
