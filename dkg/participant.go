package dkg

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"

	"github.com/f3rmion/frostd/broadcast"
	"github.com/f3rmion/frostd/frost"
	"github.com/rs/zerolog"
)

// Publisher sends frames to every participant. [*broadcast.Bus]
// implements it.
type Publisher interface {
	Publish(frame []byte) error
}

// Receiver yields frames in publish order. [*broadcast.Subscription]
// implements it.
type Receiver interface {
	Recv(ctx context.Context) ([]byte, error)
}

// Config holds the parameters of a participant.
type Config struct {
	MaxSigners uint16
	MinSigners uint16
	Advance    AdvancePolicy
	// Rand defaults to crypto/rand.
	Rand io.Reader
	// Logger defaults to a disabled logger.
	Logger *zerolog.Logger
}

// Participant is one party of a distributed key generation.
type Participant struct {
	frost *frost.FROST
	id    frost.Identifier
	cfg   Config
	pub   Publisher
	log   zerolog.Logger

	state State
	err   error
}

// New returns a participant that has not started yet. Frames it produces
// are sent through pub.
func New(f *frost.FROST, id frost.Identifier, cfg Config, pub Publisher) *Participant {
	if cfg.Rand == nil {
		cfg.Rand = rand.Reader
	}
	log := zerolog.Nop()
	if cfg.Logger != nil {
		log = *cfg.Logger
	}
	return &Participant{
		frost: f,
		id:    id,
		cfg:   cfg,
		pub:   pub,
		log:   log.With().Str("participant", id.String()).Logger(),
	}
}

// Identifier returns the participant's identifier.
func (p *Participant) Identifier() frost.Identifier { return p.id }

// State returns the current state, or nil before [Participant.Start].
func (p *Participant) State() State { return p.state }

// Start runs round 1 and publishes the participant's [Round1] message.
func (p *Participant) Start() error {
	if p.err != nil {
		return p.err
	}
	if p.state != nil {
		return fmt.Errorf("dkg: participant %s already started", p.id)
	}

	secret, pkg, err := p.frost.DKGRound1(p.cfg.Rand, p.id, p.cfg.MaxSigners, p.cfg.MinSigners)
	if err != nil {
		return p.fail(err)
	}
	if err := p.publish(&Round1{Sender: p.id, Package: pkg}); err != nil {
		return p.fail(err)
	}

	p.log.Debug().Str("phase", phaseAwaitingRound1).Msg("start")
	return p.settle(&AwaitingRound1{
		secret:   secret,
		received: make(map[frost.Identifier]*frost.Round1Package),
	})
}

// Handle feeds one message to the participant. Once Handle has returned
// an error the participant is failed and keeps returning that error.
func (p *Participant) Handle(msg Message) error {
	if p.err != nil {
		return p.err
	}
	if p.state == nil {
		return ErrNotStarted
	}

	if msg.From() == p.id {
		p.discard(msg, "own message")
		return nil
	}

	next, err := p.step(p.state, msg)
	if err != nil {
		return p.fail(err)
	}
	return p.settle(next)
}

// step applies msg to st and returns the resulting state.
func (p *Participant) step(st State, msg Message) (State, error) {
	switch st := st.(type) {
	case *AwaitingRound1:
		m, ok := msg.(*Round1)
		if !ok {
			return nil, p.unexpected(st, msg)
		}
		if _, dup := st.received[m.Sender]; dup {
			p.log.Debug().Str("from", m.Sender.String()).Msg("replacing duplicate round 1 package")
		}
		st.received[m.Sender] = m.Package
		return st, nil

	case *AwaitingRound2:
		m, ok := msg.(*Round2)
		if !ok {
			return nil, p.unexpected(st, msg)
		}
		if m.For != p.id {
			p.discard(msg, "addressed to another participant")
			return st, nil
		}
		st.received[m.Sender] = m.Package
		return st, nil

	case *Completed:
		p.discard(msg, "already completed")
		return st, nil

	default:
		return nil, fmt.Errorf("dkg: unknown state %T", st)
	}
}

// settle stores st and advances through every phase whose threshold is
// already met.
func (p *Participant) settle(st State) error {
	for {
		next, err := p.advance(st)
		if err != nil {
			return p.fail(err)
		}
		if next == st {
			p.state = st
			return nil
		}
		st = next
	}
}

// advance returns the next state if st's threshold is met, or st itself.
func (p *Participant) advance(st State) (State, error) {
	switch st := st.(type) {
	case *AwaitingRound1:
		if !p.cfg.Advance.ready(len(st.received), p.cfg.MaxSigners, p.cfg.MinSigners) {
			return st, nil
		}
		secret, out, err := p.frost.DKGRound2(st.secret, st.received)
		if err != nil {
			return nil, err
		}
		for _, to := range frost.SortedIdentifiers(out) {
			if err := p.publish(&Round2{Sender: p.id, For: to, Package: out[to]}); err != nil {
				return nil, err
			}
		}
		p.log.Info().Str("phase", phaseAwaitingRound2).Int("packages", len(st.received)).Msg("round advanced")
		return &AwaitingRound2{
			secret:   secret,
			round1:   st.received,
			received: make(map[frost.Identifier]*frost.Round2Package),
		}, nil

	case *AwaitingRound2:
		if !p.cfg.Advance.ready(len(st.received), p.cfg.MaxSigners, p.cfg.MinSigners) {
			return st, nil
		}
		kp, pub, err := p.frost.DKGRound3(st.secret, st.round1, st.received)
		if err != nil {
			return nil, err
		}
		p.log.Info().Str("phase", phaseCompleted).Msg("completed")
		return &Completed{KeyPackage: kp, PublicKeyPackage: pub}, nil

	default:
		return st, nil
	}
}

// Run starts the participant if needed and consumes frames from sub until
// it completes, fails, or ctx is done.
func (p *Participant) Run(ctx context.Context, sub Receiver) (*Completed, error) {
	if p.state == nil {
		if err := p.Start(); err != nil {
			return nil, err
		}
	}

	for {
		if p.err != nil {
			return nil, p.err
		}
		if c, ok := p.state.(*Completed); ok {
			return c, nil
		}

		frame, err := sub.Recv(ctx)
		if err != nil {
			// A bus closed because the shared deadline passed reports the
			// deadline.
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, p.fail(ctxErr)
			}
			if errors.Is(err, broadcast.ErrClosed) {
				p.log.Warn().Str("phase", p.state.Phase()).Msg("transport closed")
				return nil, p.fail(fmt.Errorf("%w: participant %s %s", ErrSessionAborted, p.id, p.state.Phase()))
			}
			return nil, p.fail(err)
		}

		msg, err := Decode(p.frost, frame)
		if err != nil {
			return nil, p.fail(&ProtocolError{Phase: p.state.Phase(), Err: err})
		}
		if err := p.Handle(msg); err != nil {
			return nil, err
		}
	}
}

func (p *Participant) publish(msg Message) error {
	frame, err := Encode(p.frost, msg)
	if err != nil {
		return err
	}
	if err := p.pub.Publish(frame); err != nil {
		if errors.Is(err, broadcast.ErrClosed) {
			return fmt.Errorf("%w: %v", ErrSessionAborted, err)
		}
		return err
	}
	return nil
}

func (p *Participant) unexpected(st State, msg Message) error {
	return &ProtocolError{
		Phase:   st.Phase(),
		Message: msg.Kind(),
		Sender:  msg.From(),
	}
}

func (p *Participant) discard(msg Message, reason string) {
	p.log.Debug().
		Str("kind", msg.Kind()).
		Str("from", msg.From().String()).
		Str("reason", reason).
		Msg("discarded")
}

func (p *Participant) fail(err error) error {
	if p.err == nil {
		p.err = err
		p.log.Error().Err(err).Msg("failed")
	}
	return p.err
}
