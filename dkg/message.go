package dkg

import (
	"fmt"

	"github.com/f3rmion/frostd/frost"
	"github.com/fxamacker/cbor/v2"
)

// Message is a frame exchanged on the broadcast channel: either a
// [*Round1] or a [*Round2].
type Message interface {
	// From returns the identifier the sender claims.
	From() frost.Identifier
	// Kind names the message variant.
	Kind() string
}

// Round1 carries a sender's round 1 package to every participant.
type Round1 struct {
	Sender  frost.Identifier
	Package *frost.Round1Package
}

// Round2 carries a sender's round 2 package for one recipient. For is a
// routing attribute only; every subscriber sees every Round2.
type Round2 struct {
	Sender  frost.Identifier
	For     frost.Identifier
	Package *frost.Round2Package
}

func (m *Round1) From() frost.Identifier { return m.Sender }
func (m *Round2) From() frost.Identifier { return m.Sender }

func (*Round1) Kind() string { return "round1" }
func (*Round2) Kind() string { return "round2" }

const (
	kindRound1 uint8 = 1
	kindRound2 uint8 = 2
)

type envelope struct {
	Kind    uint8  `cbor:"1,keyasint"`
	Sender  []byte `cbor:"2,keyasint"`
	For     []byte `cbor:"3,keyasint,omitempty"`
	Package []byte `cbor:"4,keyasint"`
}

// Encode serializes msg into a CBOR frame.
func Encode(f *frost.FROST, msg Message) ([]byte, error) {
	var env envelope
	var err error

	switch m := msg.(type) {
	case *Round1:
		env.Kind = kindRound1
		env.Sender = m.Sender.Bytes()
		env.Package, err = f.MarshalRound1Package(m.Package)
	case *Round2:
		env.Kind = kindRound2
		env.Sender = m.Sender.Bytes()
		env.For = m.For.Bytes()
		env.Package, err = f.MarshalRound2Package(m.Package)
	default:
		return nil, fmt.Errorf("dkg: cannot encode %T", msg)
	}
	if err != nil {
		return nil, err
	}
	return cbor.Marshal(env)
}

// Decode parses a frame produced by [Encode]. Identifiers and packages
// are validated against f.
func Decode(f *frost.FROST, frame []byte) (Message, error) {
	var env envelope
	if err := cbor.Unmarshal(frame, &env); err != nil {
		return nil, fmt.Errorf("envelope: %w", err)
	}
	sender, err := f.ParseIdentifier(env.Sender)
	if err != nil {
		return nil, fmt.Errorf("sender: %w", err)
	}

	switch env.Kind {
	case kindRound1:
		pkg, err := f.UnmarshalRound1Package(env.Package)
		if err != nil {
			return nil, err
		}
		return &Round1{Sender: sender, Package: pkg}, nil
	case kindRound2:
		to, err := f.ParseIdentifier(env.For)
		if err != nil {
			return nil, fmt.Errorf("recipient: %w", err)
		}
		pkg, err := f.UnmarshalRound2Package(env.Package)
		if err != nil {
			return nil, err
		}
		return &Round2{Sender: sender, For: to, Package: pkg}, nil
	default:
		return nil, fmt.Errorf("unknown message kind %d", env.Kind)
	}
}
