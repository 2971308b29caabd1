// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package state persists proposed locks and their running vote tallies.
package state

import (
	"time"

	"github.com/luxfi/geth/common"
)

// Lock is a proposed value whose release is gated on weighted consensus.
// A lock starts proposed and transitions to unlocked exactly once; there
// is no rejected state, so a lock that never reaches consensus stays
// open to further votes indefinitely.
//
// Invariant: TotalWeight == PositiveWeight + NegativeWeight.
type Lock struct {
	ID       uint64         `serialize:"true" json:"id"`
	Proposer common.Address `serialize:"true" json:"proposer"`

	// Value is the guarded payload. The store does not interpret it.
	Value []byte `serialize:"true" json:"value"`

	// UnlockTime is the unix second before which the lock may neither be
	// voted on nor finalized.
	UnlockTime uint64 `serialize:"true" json:"unlockTime"`

	// Unlocked is the terminal flag. Once set, no further votes are
	// admitted.
	Unlocked bool `serialize:"true" json:"unlocked"`

	PositiveWeight uint64 `serialize:"true" json:"positiveVotesWeight"`
	NegativeWeight uint64 `serialize:"true" json:"negativeVotesWeight"`
	TotalWeight    uint64 `serialize:"true" json:"totalVotesWeight"`
}

// Eligible reports whether the lock's unlock time has passed. Voting
// deliberately opens only after the unlock time, not before.
func (l *Lock) Eligible(now time.Time) bool {
	unix := now.Unix()
	return unix >= 0 && uint64(unix) >= l.UnlockTime
}
