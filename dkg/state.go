package dkg

import "github.com/f3rmion/frostd/frost"

const (
	phaseAwaitingRound1 = "awaiting round 1"
	phaseAwaitingRound2 = "awaiting round 2"
	phaseCompleted      = "completed"
)

// State is the phase of a participant together with the data it has
// accumulated. It is one of [*AwaitingRound1], [*AwaitingRound2] or
// [*Completed].
type State interface {
	Phase() string
	isState()
}

// AwaitingRound1 collects peer round 1 packages.
type AwaitingRound1 struct {
	secret   *frost.Round1SecretPackage
	received map[frost.Identifier]*frost.Round1Package
}

// AwaitingRound2 holds the frozen round 1 packages and collects the round
// 2 packages addressed to this participant.
type AwaitingRound2 struct {
	secret   *frost.Round2SecretPackage
	round1   map[frost.Identifier]*frost.Round1Package
	received map[frost.Identifier]*frost.Round2Package
}

// Completed is terminal.
type Completed struct {
	KeyPackage       *frost.KeyPackage
	PublicKeyPackage *frost.PublicKeyPackage
}

func (*AwaitingRound1) Phase() string { return phaseAwaitingRound1 }
func (*AwaitingRound2) Phase() string { return phaseAwaitingRound2 }
func (*Completed) Phase() string      { return phaseCompleted }

func (*AwaitingRound1) isState() {}
func (*AwaitingRound2) isState() {}
func (*Completed) isState()      {}

// Received returns the number of peer round 1 packages held.
func (s *AwaitingRound1) Received() int { return len(s.received) }

// Received returns the number of round 2 packages held.
func (s *AwaitingRound2) Received() int { return len(s.received) }
