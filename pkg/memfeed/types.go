package memfeed

import "sync"

// TypeRegistry records entity types and their supertypes for type-restricted
// registrations.
type TypeRegistry struct {
	mu     sync.RWMutex
	supers map[string][]string
}

// NewTypeRegistry creates an empty registry.
func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{supers: make(map[string][]string)}
}

// Register declares name with its direct supertypes. Registering a name
// again replaces its supertypes.
func (r *TypeRegistry) Register(name string, supertypes ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.supers[name] = append([]string(nil), supertypes...)
}

// IsA reports whether typ is want or a (transitive) subtype of want.
func (r *TypeRegistry) IsA(typ, want string) bool {
	if typ == "" {
		return false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]bool)
	queue := []string{typ}
	for len(queue) > 0 {
		t := queue[0]
		queue = queue[1:]
		if t == want {
			return true
		}
		if seen[t] {
			continue
		}
		seen[t] = true
		queue = append(queue, r.supers[t]...)
	}
	return false
}

// MatchesAny reports whether typ is one of types or a subtype of one of them.
func (r *TypeRegistry) MatchesAny(typ string, types []string) bool {
	for _, want := range types {
		if r.IsA(typ, want) {
			return true
		}
	}
	return false
}
