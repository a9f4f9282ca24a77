package dkg

import "fmt"

// AdvancePolicy decides when a participant has collected enough peer
// packages to leave a phase.
type AdvancePolicy int

const (
	// AdvanceAboveMinSigners advances once more than minSigners peer
	// packages are held, that is minSigners+1 of them.
	//
	// The key generation rounds require a package from every other
	// participant, so this only completes when maxSigners == minSigners+2.
	// With fewer participants it never advances; with more it advances
	// early and round 2 fails with frost.ErrIncorrectNumberOfPackages.
	AdvanceAboveMinSigners AdvancePolicy = iota

	// AdvanceWithAllPeers advances once a package from every one of the
	// maxSigners-1 peers is held.
	AdvanceWithAllPeers
)

func (p AdvancePolicy) ready(count int, maxSigners, minSigners uint16) bool {
	switch p {
	case AdvanceWithAllPeers:
		return count == int(maxSigners)-1
	default:
		return count > int(minSigners)
	}
}

func (p AdvancePolicy) String() string {
	switch p {
	case AdvanceAboveMinSigners:
		return "above-min"
	case AdvanceWithAllPeers:
		return "all-peers"
	default:
		return fmt.Sprintf("AdvancePolicy(%d)", int(p))
	}
}

// ParseAdvancePolicy parses the String form of a policy.
func ParseAdvancePolicy(s string) (AdvancePolicy, error) {
	switch s {
	case "above-min", "":
		return AdvanceAboveMinSigners, nil
	case "all-peers":
		return AdvanceWithAllPeers, nil
	default:
		return 0, fmt.Errorf("dkg: unknown advance policy %q", s)
	}
}
