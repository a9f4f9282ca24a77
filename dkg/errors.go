package dkg

import (
	"errors"
	"fmt"

	"github.com/f3rmion/frostd/frost"
)

// ErrSessionAborted is returned when the transport closes before the
// participant completes.
var ErrSessionAborted = errors.New("dkg: session aborted before completion")

// ErrNotStarted is returned by [Participant.Handle] before
// [Participant.Start].
var ErrNotStarted = errors.New("dkg: participant not started")

// ProtocolError reports a message that does not fit the participant's
// current phase, or a frame that could not be decoded.
type ProtocolError struct {
	// Phase is the participant's phase when the message arrived.
	Phase string
	// Message is the kind of the offending message, empty if undecodable.
	Message string
	// Sender is the offending participant, empty if unknown.
	Sender frost.Identifier
	// Err is the decoding error, if any.
	Err error
}

func (e *ProtocolError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("dkg: undecodable frame while %s: %s", e.Phase, e.Err)
	}
	return fmt.Sprintf("dkg: unexpected %s message from %s while %s", e.Message, e.Sender, e.Phase)
}

func (e *ProtocolError) Unwrap() error {
	return e.Err
}
