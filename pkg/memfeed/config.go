package memfeed

import (
	"errors"
	"log/slog"

	"github.com/treewatch/treewatch-go/pkg/log"
)

// Feed and repository errors.
var (
	ErrAuthFailed        = errors.New("service identity not allowed")
	ErrUnknownMember     = errors.New("unknown cluster member")
	ErrSessionClosed     = errors.New("session closed")
	ErrInvalidDescriptor = errors.New("invalid descriptor")
	ErrNilListener       = errors.New("nil event listener")
	ErrResourceExhausted = errors.New("registration limit reached")
	ErrUnknownOrigin     = errors.New("unknown origin member")
)

// DefaultServiceUser is the identity allowed by DefaultConfig.
const DefaultServiceUser = "treewatch-service"

// Config configures a Cluster.
type Config struct {
	// ServiceUser is the identity repositories log in with.
	ServiceUser string

	// AllowedUsers lists identities that may open sessions.
	// If empty, only ServiceUser is allowed.
	AllowedUsers []string

	// MaxRegistrations caps feed registrations per member (0 = unlimited).
	MaxRegistrations int

	// Logger is the optional logger for operational output.
	Logger *slog.Logger

	// ObservationLogger receives feed state and publish events.
	ObservationLogger log.Logger
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		ServiceUser: DefaultServiceUser,
	}
}

func (c Config) allows(user string) bool {
	if user == "" {
		return false
	}
	if len(c.AllowedUsers) == 0 {
		return user == c.ServiceUser
	}
	for _, u := range c.AllowedUsers {
		if u == user {
			return true
		}
	}
	return false
}
