package subscription

import (
	"errors"
	"path"
	"strings"
)

// Descriptor errors.
var (
	ErrInvalidPath = errors.New("invalid subscription path")
	ErrEmptyMask   = errors.New("subscription event mask is empty")
	ErrUnknownKind = errors.New("unknown event kind")
)

// Descriptor selects which events a listener receives. It is created once with
// NewDescriptor and never mutated; accessors return copies.
type Descriptor struct {
	mask      EventMask
	rootPath  string
	deep      bool
	noLocal   bool
	entityIDs []string
	types     []string
}

// Option configures a Descriptor under construction.
type Option func(*Descriptor)

// WithDeep includes the root and all of its descendants (true) or only the
// direct children of the root (false). Descriptors are deep by default.
func WithDeep(deep bool) Option {
	return func(d *Descriptor) { d.deep = deep }
}

// WithNoLocal suppresses events generated by the registering session.
func WithNoLocal(noLocal bool) Option {
	return func(d *Descriptor) { d.noLocal = noLocal }
}

// WithEntityIDs restricts delivery to events on the listed entities.
// An empty list leaves the restriction unset.
func WithEntityIDs(ids ...string) Option {
	return func(d *Descriptor) { d.entityIDs = cloneOrNil(ids) }
}

// WithTypes restricts delivery to events on entities of one of the listed types
// or a subtype of one of them. An empty list leaves the restriction unset.
func WithTypes(types ...string) Option {
	return func(d *Descriptor) { d.types = cloneOrNil(types) }
}

// NewDescriptor builds and validates a descriptor for rootPath.
func NewDescriptor(mask EventMask, rootPath string, opts ...Option) (Descriptor, error) {
	d := Descriptor{
		mask:     mask,
		rootPath: rootPath,
		deep:     true,
	}
	for _, opt := range opts {
		opt(&d)
	}
	if err := d.Validate(); err != nil {
		return Descriptor{}, err
	}
	d.rootPath = CleanPath(rootPath)
	return d, nil
}

// Mask returns the selected event kinds.
func (d Descriptor) Mask() EventMask { return d.mask }

// RootPath returns the subtree root.
func (d Descriptor) RootPath() string { return d.rootPath }

// Deep reports whether descendants below the direct children are included.
func (d Descriptor) Deep() bool { return d.deep }

// NoLocal reports whether events from the registering session are suppressed.
func (d Descriptor) NoLocal() bool { return d.noLocal }

// EntityIDs returns the entity allowlist, or nil when unrestricted.
func (d Descriptor) EntityIDs() []string { return cloneOrNil(d.entityIDs) }

// Types returns the type allowlist, or nil when unrestricted.
func (d Descriptor) Types() []string { return cloneOrNil(d.types) }

// IsZero reports whether d is the zero Descriptor.
func (d Descriptor) IsZero() bool {
	return d.mask == 0 && d.rootPath == ""
}

// Validate checks the mask and root path.
func (d Descriptor) Validate() error {
	if d.mask == 0 {
		return ErrEmptyMask
	}
	if d.mask&^MaskAll != 0 {
		return ErrUnknownKind
	}
	return ValidatePath(d.rootPath)
}

// MatchesPath reports whether an event at p falls inside the subscribed subtree.
func (d Descriptor) MatchesPath(p string) bool {
	if ValidatePath(p) != nil {
		return false
	}
	p = CleanPath(p)
	if d.deep {
		if d.rootPath == "/" || p == d.rootPath {
			return true
		}
		return strings.HasPrefix(p, d.rootPath+"/")
	}
	if p == "/" {
		return false
	}
	return path.Dir(p) == d.rootPath
}

// AllowsEntity reports whether the entity allowlist admits id.
func (d Descriptor) AllowsEntity(id string) bool {
	if d.entityIDs == nil {
		return true
	}
	for _, allowed := range d.entityIDs {
		if allowed == id {
			return true
		}
	}
	return false
}

// ValidatePath checks that p is absolute and has no empty, "." or ".." segments.
// A single trailing slash is tolerated.
func ValidatePath(p string) error {
	if p == "" || p[0] != '/' {
		return ErrInvalidPath
	}
	if p == "/" {
		return nil
	}
	trimmed := strings.TrimSuffix(p[1:], "/")
	for _, seg := range strings.Split(trimmed, "/") {
		if seg == "" || seg == "." || seg == ".." {
			return ErrInvalidPath
		}
	}
	return nil
}

// CleanPath normalises a valid path by dropping a trailing slash.
func CleanPath(p string) string {
	if len(p) > 1 {
		return strings.TrimSuffix(p, "/")
	}
	return p
}

func cloneOrNil(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
