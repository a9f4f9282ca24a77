// Package dkg implements one participant of a FROST distributed key
// generation as a message-driven state machine over a shared broadcast
// channel.
//
// # Protocol
//
// A participant starts by publishing its [Round1] package and waiting in
// [AwaitingRound1]. It collects peer round 1 packages keyed by sender.
// Once the [AdvancePolicy] is satisfied it computes and publishes one
// [Round2] package per peer and moves to [AwaitingRound2], where it
// collects the packages addressed to it. When the policy is satisfied
// again it derives its key material and becomes [Completed].
//
// Messages from the participant itself are always discarded, as are round
// 2 packages addressed to someone else. Any other message that does not
// belong to the current phase fails the participant with a
// [*ProtocolError]; there is no recovery. Cryptographic failures from
// package frost are returned unchanged.
//
// # Transitions
//
// The participant holds its state in a single slot. Each transition takes
// the current [State] and produces the next one, so a phase's
// accumulated data cannot be reused once it has advanced.
//
// # Transport
//
// [Participant.Run] reads frames from a [Receiver] until the participant
// completes. If the transport closes first, Run fails with
// [ErrSessionAborted].
package dkg
