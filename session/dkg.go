package session

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/f3rmion/frostd/broadcast"
	"github.com/f3rmion/frostd/dkg"
	"github.com/f3rmion/frostd/frost"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrInconsistentGroupKey is returned when completed participants
	// disagree on the public key package.
	ErrInconsistentGroupKey = errors.New("session: participants derived different group keys")

	// ErrNoLeaderResult is returned under LeaderOnly when the first
	// participant did not complete.
	ErrNoLeaderResult = errors.New("session: leader did not complete")
)

// Outcome is one participant's result of a key generation.
type Outcome struct {
	Identifier frost.Identifier
	Result     *dkg.Completed
	Err        error
}

// DKGResult holds the output of a distributed key generation.
type DKGResult struct {
	// SessionID identifies the run in logs.
	SessionID uuid.UUID
	// Outcomes has one entry per participant in start order. The first
	// participant is the leader.
	Outcomes []Outcome
	// KeyPackages holds the key package of every completed participant.
	KeyPackages map[frost.Identifier]*frost.KeyPackage
	// PublicKeyPackage is the group's public key package, shared by every
	// completed participant.
	PublicKeyPackage *frost.PublicKeyPackage
}

// RunDKG runs a distributed key generation with cfg.MaxSigners local
// participants, each in its own goroutine, over a fresh broadcast bus.
func RunDKG(ctx context.Context, cfg Config) (*DKGResult, error) {
	cfg = cfg.withDefaults()
	if err := frost.ValidateParams(cfg.MaxSigners, cfg.MinSigners); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f := cfg.frost()
	sessionID := uuid.New()
	log := cfg.Logger.With().Str("session", sessionID.String()).Logger()

	bus := broadcast.New(cfg.Backlog)
	defer bus.Close()
	if cfg.Registerer != nil {
		if err := cfg.Registerer.Register(bus); err != nil {
			return nil, fmt.Errorf("session: register bus metrics: %w", err)
		}
		defer cfg.Registerer.Unregister(bus)
	}

	// Participants draw from cfg.Rand concurrently.
	rng := &lockedReader{r: cfg.Rand}

	n := int(cfg.MaxSigners)
	participants := make([]*dkg.Participant, n)
	subs := make([]*broadcast.Subscription, n)
	seen := make(map[frost.Identifier]bool, n)
	for i := range participants {
		id, err := f.DeriveIdentifier([]byte(fmt.Sprintf("%s/%d", sessionID, i)))
		if err != nil {
			return nil, err
		}
		if seen[id] {
			return nil, &frost.CryptoError{Op: "derive identifier", Culprit: id, Err: frost.ErrDuplicateIdentifier}
		}
		seen[id] = true

		participants[i] = dkg.New(f, id, dkg.Config{
			MaxSigners: cfg.MaxSigners,
			MinSigners: cfg.MinSigners,
			Advance:    cfg.Advance,
			Rand:       rng,
			Logger:     &log,
		}, bus)
		// Subscribe everyone before anyone publishes.
		subs[i] = bus.Subscribe()
	}

	log.Info().
		Uint16("max_signers", cfg.MaxSigners).
		Uint16("min_signers", cfg.MinSigners).
		Stringer("advance", cfg.Advance).
		Str("group", cfg.Group.Name()).
		Msg("dkg started")

	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	outcomes := make([]Outcome, n)
	var g errgroup.Group
	for i, p := range participants {
		i, p := i, p
		g.Go(func() error {
			c, err := p.Run(ctx, subs[i])
			outcomes[i] = Outcome{Identifier: p.Identifier(), Result: c, Err: err}
			if err != nil {
				// Peers waiting on this participant can never complete.
				bus.Close()
			}
			return err
		})
	}
	// Failures are read from outcomes.
	_ = g.Wait()

	res := &DKGResult{
		SessionID:   sessionID,
		Outcomes:    outcomes,
		KeyPackages: make(map[frost.Identifier]*frost.KeyPackage, n),
	}
	if err := applyOutcomePolicy(cfg.Outcome, outcomes, &log); err != nil {
		log.Error().Err(err).Msg("dkg failed")
		return nil, err
	}

	var encoded []byte
	for _, o := range outcomes {
		if o.Result == nil {
			continue
		}
		enc, err := f.MarshalPublicKeyPackage(o.Result.PublicKeyPackage)
		if err != nil {
			return nil, err
		}
		if encoded == nil {
			encoded = enc
			res.PublicKeyPackage = o.Result.PublicKeyPackage
		} else if !bytes.Equal(encoded, enc) {
			return nil, fmt.Errorf("%w: participant %s", ErrInconsistentGroupKey, o.Identifier)
		}
		res.KeyPackages[o.Identifier] = o.Result.KeyPackage
	}

	log.Info().Int("completed", len(res.KeyPackages)).Msg("dkg finished")
	return res, nil
}

func applyOutcomePolicy(policy OutcomePolicy, outcomes []Outcome, log *zerolog.Logger) error {
	switch policy {
	case LeaderOnly:
		for _, o := range outcomes[1:] {
			if o.Err != nil {
				log.Warn().Str("participant", o.Identifier.String()).Err(o.Err).Msg("participant failed")
			}
		}
		if leader := outcomes[0]; leader.Err != nil {
			return fmt.Errorf("%w: %w", ErrNoLeaderResult, leader.Err)
		}
		return nil

	default:
		var err error
		for _, o := range outcomes {
			if o.Err != nil {
				err = multierr.Append(err, fmt.Errorf("participant %s: %w", o.Identifier, o.Err))
			}
		}
		return err
	}
}
