// Package session runs complete FROST signing sessions inside one process.
//
// It is the entry point for applications that just want a threshold
// signature: choose the number of participants and the threshold, pick a
// key establishment strategy, and get back a verified signature together
// with the group's public key package.
//
// # Trusted Dealer
//
// [SignViaTrustedDealer] generates the group key in one place, splits it
// among identifiers 1..n and runs both signing rounds:
//
//	sig, pub, err := session.SignViaTrustedDealer(ctx, session.Config{
//		MaxSigners: 5,
//		MinSigners: 3,
//	}, message)
//
// # Distributed Dealer
//
// [SignViaDistributedDealer] first runs a distributed key generation with
// one goroutine per participant over an in-process broadcast bus (see
// [RunDKG]), then signs with the resulting key packages. No participant
// ever learns the group secret.
//
// Every participant subscribes to the bus before any of them starts, so
// no frame is missed. When a participant fails, the bus is closed and the
// remaining ones abort instead of waiting forever. The whole key
// generation is bounded by [Config.Timeout].
//
// # Outcomes
//
// [OutcomePolicy] decides which participant failures fail the run. The
// default, [RequireAll], reports every failure. [LeaderOnly] only looks
// at the first participant and logs the others.
//
// After key generation every completed participant must hold a
// byte-identical public key package; otherwise the run fails with
// [ErrInconsistentGroupKey].
package session
