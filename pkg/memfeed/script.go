package memfeed

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/treewatch/treewatch-go/pkg/subscription"
)

// ErrInvalidScript is returned for scripts that parse but cannot be applied.
var ErrInvalidScript = errors.New("invalid script")

// Script is a YAML description of change batches to publish.
//
//	types:
//	  cq:Page: [nt:base]
//	batches:
//	  - origin: node-b
//	    changes:
//	      - kind: entity_added
//	        path: /content/site/en
//	        type: cq:Page
type Script struct {
	// Types maps entity types to their direct supertypes.
	Types map[string][]string `yaml:"types,omitempty"`

	Batches []ScriptBatch `yaml:"batches"`
}

// ScriptBatch is one Publish call.
type ScriptBatch struct {
	// Origin is the member making the changes. Empty means the first member.
	Origin string `yaml:"origin,omitempty"`

	// Session is the originating session ID, if any.
	Session string `yaml:"session,omitempty"`

	Changes []ScriptChange `yaml:"changes"`
}

// ScriptChange is one change of a batch.
type ScriptChange struct {
	Kind     string            `yaml:"kind"`
	Path     string            `yaml:"path,omitempty"`
	EntityID string            `yaml:"entity_id,omitempty"`
	Type     string            `yaml:"type,omitempty"`
	User     string            `yaml:"user,omitempty"`
	Info     map[string]string `yaml:"info,omitempty"`
}

// Event converts the change into a feed event.
func (c ScriptChange) Event() (subscription.Event, error) {
	kind, err := subscription.ParseKind(c.Kind)
	if err != nil {
		return subscription.Event{}, err
	}
	if kind != subscription.KindPersist {
		if err := subscription.ValidatePath(c.Path); err != nil {
			return subscription.Event{}, fmt.Errorf("%w: %q", err, c.Path)
		}
	}
	return subscription.Event{
		Kind:     kind,
		Path:     c.Path,
		EntityID: c.EntityID,
		Type:     c.Type,
		UserID:   c.User,
		Info:     c.Info,
	}, nil
}

// Events converts all changes of the batch.
func (b ScriptBatch) Events() ([]subscription.Event, error) {
	out := make([]subscription.Event, 0, len(b.Changes))
	for i, c := range b.Changes {
		ev, err := c.Event()
		if err != nil {
			return nil, fmt.Errorf("change %d: %w", i, err)
		}
		out = append(out, ev)
	}
	return out, nil
}

// ParseScript parses and checks a script.
func ParseScript(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	for i, b := range s.Batches {
		if len(b.Changes) == 0 {
			return nil, fmt.Errorf("%w: batch %d has no changes", ErrInvalidScript, i)
		}
		if _, err := b.Events(); err != nil {
			return nil, fmt.Errorf("%w: batch %d: %w", ErrInvalidScript, i, err)
		}
	}
	return &s, nil
}

// LoadScript reads a script from a file.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	s, err := ParseScript(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Apply registers the script's types and publishes its batches in order.
// It returns the total number of batches delivered to listeners.
func (s *Script) Apply(ctx context.Context, c *Cluster) (int, error) {
	for name, supers := range s.Types {
		c.Types().Register(name, supers...)
	}

	members := c.Members()
	delivered := 0
	for i, b := range s.Batches {
		events, err := b.Events()
		if err != nil {
			return delivered, fmt.Errorf("%w: batch %d: %w", ErrInvalidScript, i, err)
		}
		origin := b.Origin
		if origin == "" {
			origin = members[0]
		}
		n, err := c.Publish(ctx, origin, b.Session, events...)
		if err != nil {
			return delivered, fmt.Errorf("batch %d: %w", i, err)
		}
		delivered += n
	}
	return delivered, nil
}
