package session

import (
	"crypto/rand"
	"fmt"
	"io"
	"time"

	"github.com/f3rmion/frostd/bjj"
	"github.com/f3rmion/frostd/broadcast"
	"github.com/f3rmion/frostd/dkg"
	"github.com/f3rmion/frostd/frost"
	"github.com/f3rmion/frostd/group"
	"github.com/f3rmion/frostd/secp256k1"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

// DefaultTimeout bounds a distributed key generation when Config.Timeout
// is zero.
const DefaultTimeout = 30 * time.Second

// OutcomePolicy decides how participant failures affect a run.
type OutcomePolicy int

const (
	// RequireAll fails the run if any participant fails, reporting all of
	// their errors.
	RequireAll OutcomePolicy = iota

	// LeaderOnly fails the run only if the first participant fails. Other
	// failures are logged and kept in DKGResult.Outcomes.
	LeaderOnly
)

func (p OutcomePolicy) String() string {
	switch p {
	case RequireAll:
		return "require-all"
	case LeaderOnly:
		return "leader-only"
	default:
		return fmt.Sprintf("OutcomePolicy(%d)", int(p))
	}
}

// ParseOutcomePolicy parses the String form of a policy.
func ParseOutcomePolicy(s string) (OutcomePolicy, error) {
	switch s {
	case "require-all", "":
		return RequireAll, nil
	case "leader-only":
		return LeaderOnly, nil
	default:
		return 0, fmt.Errorf("session: unknown outcome policy %q", s)
	}
}

// Config describes a signing session. Only MaxSigners and MinSigners are
// required.
type Config struct {
	MaxSigners uint16
	MinSigners uint16

	// Group defaults to Baby Jubjub.
	Group group.Group
	// Hasher defaults to frost.NewSHA256Hasher.
	Hasher frost.Hasher
	// Advance is the key generation advance policy.
	Advance dkg.AdvancePolicy
	// Outcome is the key generation outcome policy.
	Outcome OutcomePolicy
	// Backlog is the per-participant bus backlog. Defaults to
	// broadcast.DefaultBacklog(MaxSigners).
	Backlog int
	// Timeout bounds the key generation. Defaults to DefaultTimeout.
	Timeout time.Duration
	// Rand defaults to crypto/rand. It need not be safe for concurrent
	// use.
	Rand io.Reader
	// Logger defaults to a disabled logger.
	Logger *zerolog.Logger
	// Registerer, if set, exposes the bus counters while a key
	// generation runs.
	Registerer prometheus.Registerer
}

func (c Config) withDefaults() Config {
	if c.Group == nil {
		c.Group = &bjj.BJJ{}
	}
	if c.Hasher == nil {
		c.Hasher = frost.NewSHA256Hasher()
	}
	if c.Backlog <= 0 {
		c.Backlog = broadcast.DefaultBacklog(c.MaxSigners)
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Rand == nil {
		c.Rand = rand.Reader
	}
	if c.Logger == nil {
		nop := zerolog.Nop()
		c.Logger = &nop
	}
	return c
}

func (c Config) frost() *frost.FROST {
	return frost.NewWithHasher(c.Group, c.Hasher)
}

// GroupByName returns the group called name: "bjj" (the default for an
// empty name) or "secp256k1".
func GroupByName(name string) (group.Group, error) {
	switch name {
	case "", "bjj":
		return &bjj.BJJ{}, nil
	case "secp256k1":
		return secp256k1.Group{}, nil
	default:
		return nil, fmt.Errorf("session: unknown group %q", name)
	}
}

// HasherByName returns the hasher called name: "sha256" (the default for
// an empty name), "blake2b" or "blake3".
func HasherByName(name string) (frost.Hasher, error) {
	switch name {
	case "", "sha256":
		return frost.NewSHA256Hasher(), nil
	case "blake2b":
		return frost.NewBlake2bHasher(), nil
	case "blake3":
		return frost.NewBlake3Hasher(), nil
	default:
		return nil, fmt.Errorf("session: unknown hasher %q", name)
	}
}
