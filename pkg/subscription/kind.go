package subscription

import (
	"fmt"
	"strings"
)

// Kind identifies the single change an Event describes.
type Kind uint8

const (
	// KindEntityAdded reports a new entity (node).
	KindEntityAdded Kind = iota + 1

	// KindEntityRemoved reports a removed entity.
	KindEntityRemoved

	// KindPropertyAdded reports a new property on an entity.
	KindPropertyAdded

	// KindPropertyRemoved reports a removed property.
	KindPropertyRemoved

	// KindPropertyChanged reports a modified property value.
	KindPropertyChanged

	// KindEntityMoved reports an entity moved to a new location.
	KindEntityMoved

	// KindPersist reports that a batch of changes was persisted.
	KindPersist
)

// AllKinds lists every known kind in declaration order.
var AllKinds = []Kind{
	KindEntityAdded,
	KindEntityRemoved,
	KindPropertyAdded,
	KindPropertyRemoved,
	KindPropertyChanged,
	KindEntityMoved,
	KindPersist,
}

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindEntityAdded:
		return "ENTITY_ADDED"
	case KindEntityRemoved:
		return "ENTITY_REMOVED"
	case KindPropertyAdded:
		return "PROPERTY_ADDED"
	case KindPropertyRemoved:
		return "PROPERTY_REMOVED"
	case KindPropertyChanged:
		return "PROPERTY_CHANGED"
	case KindEntityMoved:
		return "ENTITY_MOVED"
	case KindPersist:
		return "PERSIST"
	default:
		return "UNKNOWN"
	}
}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	return k >= KindEntityAdded && k <= KindPersist
}

// Mask returns the single-flag mask for k. Unknown kinds map to an empty mask.
func (k Kind) Mask() EventMask {
	if !k.Valid() {
		return 0
	}
	return EventMask(1) << (k - 1)
}

// ParseKind parses a kind name. Both the config form ("entity_added") and the
// String form ("ENTITY_ADDED") are accepted.
func ParseKind(s string) (Kind, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for _, k := range AllKinds {
		if k.String() == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// EventMask is a union of kinds. Each flag can be tested independently.
type EventMask uint32

// MaskAll selects every known kind.
var MaskAll = MaskOf(AllKinds...)

// MaskOf returns the union of the given kinds.
func MaskOf(kinds ...Kind) EventMask {
	var m EventMask
	for _, k := range kinds {
		m |= k.Mask()
	}
	return m
}

// Has reports whether k is selected by the mask.
func (m EventMask) Has(k Kind) bool {
	f := k.Mask()
	return f != 0 && m&f != 0
}

// Kinds returns the selected kinds in declaration order.
func (m EventMask) Kinds() []Kind {
	var out []Kind
	for _, k := range AllKinds {
		if m.Has(k) {
			out = append(out, k)
		}
	}
	return out
}

// String returns the selected kind names joined with "|".
func (m EventMask) String() string {
	kinds := m.Kinds()
	if len(kinds) == 0 {
		return "NONE"
	}
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = k.String()
	}
	return strings.Join(names, "|")
}
