// Package config loads the treewatch configuration file.
//
// The file has three sections: listener (what to observe and how external
// changes are treated), repository (service identity and cluster members) and
// logging. Absent keys keep the values of Default.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/treewatch/treewatch-go/pkg/observation"
	"github.com/treewatch/treewatch-go/pkg/subscription"
)

// Default values.
const (
	DefaultPath        = "/content"
	DefaultServiceUser = "treewatch-service"
	DefaultMember      = "local"
	DefaultLogLevel    = "info"
)

// ErrInvalid is returned by Validate.
var ErrInvalid = errors.New("invalid config")

// Config is the top-level configuration file.
type Config struct {
	Listener   ListenerConfig   `yaml:"listener"`
	Repository RepositoryConfig `yaml:"repository"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// ListenerConfig selects the changes to observe.
type ListenerConfig struct {
	// ID names the listener in logs. Generated if empty.
	ID string `yaml:"id,omitempty"`

	// Events lists kind names, e.g. entity_added.
	Events []string `yaml:"events"`

	Path      string   `yaml:"path"`
	Deep      bool     `yaml:"deep"`
	NoLocal   bool     `yaml:"no_local"`
	EntityIDs []string `yaml:"entity_ids,omitempty"`
	Types     []string `yaml:"types,omitempty"`

	// OriginPolicy is one of abort_batch, skip_event or process_all.
	OriginPolicy string `yaml:"origin_policy"`
}

// RepositoryConfig describes the repository the listener logs into.
type RepositoryConfig struct {
	// ServiceUser is the service identity used to open sessions.
	ServiceUser string `yaml:"service_user"`

	// Member is the cluster member this process runs on.
	Member string `yaml:"member"`

	// Members lists the other cluster members. Member is implied.
	Members []string `yaml:"members,omitempty"`

	// MaxRegistrations caps feed registrations per member (0 = unlimited).
	MaxRegistrations int `yaml:"max_registrations,omitempty"`
}

// LoggingConfig configures operational and observation logging.
type LoggingConfig struct {
	// Level is debug, info, warn or error.
	Level string `yaml:"level"`

	// ObservationLog is the CBOR observation log file. Empty disables it.
	ObservationLog string `yaml:"observation_log,omitempty"`
}

// Default returns the configuration used when no file is given: entity and
// property additions anywhere below /content, external changes abort the batch.
func Default() *Config {
	return &Config{
		Listener: ListenerConfig{
			Events:       []string{"entity_added", "property_added"},
			Path:         DefaultPath,
			Deep:         true,
			OriginPolicy: observation.OriginAbortBatch.String(),
		},
		Repository: RepositoryConfig{
			ServiceUser: DefaultServiceUser,
			Member:      DefaultMember,
		},
		Logging: LoggingConfig{
			Level: DefaultLogLevel,
		},
	}
}

// Parse parses a configuration from YAML bytes on top of Default.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, &LoadError{
			Message: "failed to parse YAML",
			Cause:   err,
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, &LoadError{
			Message: err.Error(),
			Cause:   err,
		}
	}

	return cfg, nil
}

// Load loads a configuration from a file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{
			File:    path,
			Message: "failed to read file",
			Cause:   err,
		}
	}

	cfg, err := Parse(data)
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			le.File = path
			return nil, le
		}
		return nil, &LoadError{
			File:    path,
			Message: err.Error(),
		}
	}

	return cfg, nil
}

// Validate checks if the config is valid.
func (c *Config) Validate() error {
	if _, err := c.Descriptor(); err != nil {
		return fmt.Errorf("%w: listener: %w", ErrInvalid, err)
	}
	if _, err := observation.ParseOriginPolicy(c.Listener.OriginPolicy); err != nil {
		return fmt.Errorf("%w: listener: %w", ErrInvalid, err)
	}
	if c.Repository.ServiceUser == "" {
		return fmt.Errorf("%w: repository: service_user is required", ErrInvalid)
	}
	if c.Repository.Member == "" {
		return fmt.Errorf("%w: repository: member is required", ErrInvalid)
	}
	seen := map[string]bool{c.Repository.Member: true}
	for _, m := range c.Repository.Members {
		if m == "" {
			return fmt.Errorf("%w: repository: empty member name", ErrInvalid)
		}
		if seen[m] && m != c.Repository.Member {
			return fmt.Errorf("%w: repository: duplicate member %q", ErrInvalid, m)
		}
		seen[m] = true
	}
	if c.Repository.MaxRegistrations < 0 {
		return fmt.Errorf("%w: repository: max_registrations must not be negative", ErrInvalid)
	}
	if _, err := ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("%w: logging: %w", ErrInvalid, err)
	}
	return nil
}

// Descriptor builds the subscription descriptor of the listener section.
func (c *Config) Descriptor() (subscription.Descriptor, error) {
	var mask subscription.EventMask
	for _, name := range c.Listener.Events {
		k, err := subscription.ParseKind(name)
		if err != nil {
			return subscription.Descriptor{}, err
		}
		mask |= k.Mask()
	}
	return subscription.NewDescriptor(mask, c.Listener.Path,
		subscription.WithDeep(c.Listener.Deep),
		subscription.WithNoLocal(c.Listener.NoLocal),
		subscription.WithEntityIDs(c.Listener.EntityIDs...),
		subscription.WithTypes(c.Listener.Types...),
	)
}

// ObservationConfig returns the listener settings as an observation.Config.
// Loggers are left for the caller to attach.
func (c *Config) ObservationConfig() (observation.Config, error) {
	policy, err := observation.ParseOriginPolicy(c.Listener.OriginPolicy)
	if err != nil {
		return observation.Config{}, err
	}
	cfg := observation.DefaultConfig()
	cfg.ListenerID = c.Listener.ID
	cfg.Member = c.Repository.Member
	cfg.OriginPolicy = policy
	return cfg, nil
}

// AllMembers returns Member followed by the other configured members.
func (c *Config) AllMembers() []string {
	out := []string{c.Repository.Member}
	for _, m := range c.Repository.Members {
		if m != c.Repository.Member {
			out = append(out, m)
		}
	}
	return out
}

// ParseLevel parses a log level name.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", s)
	}
}

// LoadError provides details about a configuration loading error.
type LoadError struct {
	// File is the path to the file that failed to load.
	File string

	// Message describes the error.
	Message string

	// Cause is the underlying error, if any.
	Cause error
}

func (e *LoadError) Error() string {
	if e.File == "" {
		return e.Message
	}
	return e.File + ": " + e.Message
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}
