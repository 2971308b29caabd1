// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package timelock

import (
	"github.com/luxfi/geth/common"
	"github.com/luxfi/geth/event"
)

// LockProposedEvent is emitted when a lock is proposed.
type LockProposedEvent struct {
	LockID     uint64
	Proposer   common.Address
	Value      []byte
	UnlockTime uint64
}

// VoteCastEvent is emitted when a vote is admitted to a lock's tally.
type VoteCastEvent struct {
	LockID uint64
	Voter  common.Address
	Choice bool
	Weight uint64
}

// LockUnlockedEvent is emitted when a lock finalizes, whether by an
// auto-triggering vote or a manual unlock.
type LockUnlockedEvent struct {
	LockID   uint64
	Proposer common.Address
}

// SubscribeLockProposed delivers LockProposedEvents to [ch] until the
// subscription is unsubscribed. Events are sent while the engine holds
// its state lock, so subscribers should use buffered channels and drain
// promptly.
func (e *Engine) SubscribeLockProposed(ch chan<- LockProposedEvent) event.Subscription {
	return e.proposedFeed.Subscribe(ch)
}

// SubscribeVoteCast delivers VoteCastEvents to [ch].
func (e *Engine) SubscribeVoteCast(ch chan<- VoteCastEvent) event.Subscription {
	return e.voteFeed.Subscribe(ch)
}

// SubscribeLockUnlocked delivers LockUnlockedEvents to [ch].
func (e *Engine) SubscribeLockUnlocked(ch chan<- LockUnlockedEvent) event.Subscription {
	return e.unlockFeed.Subscribe(ch)
}
