// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package timelock implements a multi-party, time-weighted consensus
// mechanism that gates the release of a proposed value until a quorum of
// members approve it by signed vote. Votes are detached signed messages,
// so anyone can submit and tally them; the proposer holds no special
// role after proposing.
package timelock

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/luxfi/database"
	"github.com/luxfi/database/prefixdb"
	"github.com/luxfi/geth/common"
	"github.com/luxfi/geth/event"
	"github.com/luxfi/log"

	"github.com/luxfi/timelock/members"
	"github.com/luxfi/timelock/state"
	"github.com/luxfi/timelock/utils/timer/mockable"
	"github.com/luxfi/timelock/voteauth"
)

var (
	ErrNotYetEligible      = errors.New("unlock time has not been reached")
	ErrInsufficientWeight  = errors.New("voting weight is zero")
	ErrConsensusNotReached = errors.New("consensus weight threshold not reached")
	ErrUnauthorized        = errors.New("capability does not authorize membership changes")

	memberPrefix = []byte("members")
)

// Capability authorizes administrative operations. The engine treats it
// as an opaque check supplied by the host at the call boundary; there is
// no process-wide privileged identity.
type Capability interface {
	Verify() error
}

// CapabilityFunc adapts a function to the Capability interface.
type CapabilityFunc func() error

func (f CapabilityFunc) Verify() error {
	return f()
}

// Engine is the consensus state machine. It orchestrates proposal
// creation, vote admission, tally updates, and the unlock decision. All
// state-mutating operations are serialized by a single mutex, so each
// observes a consistent snapshot and commits before the next begins.
type Engine struct {
	cfg     Config
	log     log.Logger
	clock   *mockable.Clock
	auth    voteauth.Authenticator
	members *members.Registry
	locks   *state.Store
	metrics *engineMetrics

	proposedFeed event.Feed
	voteFeed     event.Feed
	unlockFeed   event.Feed

	mu sync.RWMutex
}

// New builds an Engine over [db] and admits cfg.InitialMembers at the
// time read from [clock]. [logger], [auth], and [clock] may be nil, in
// which case logging is disabled, the secp256k1 authenticator is used,
// and the engine reads wall-clock time.
func New(db database.Database, cfg Config, logger log.Logger, auth voteauth.Authenticator, clock *mockable.Clock) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.NoLog{}
	}
	if auth == nil {
		auth = voteauth.NewSecp256k1()
	}
	if clock == nil {
		clock = &mockable.Clock{}
	}

	e := &Engine{
		cfg:     cfg,
		log:     logger,
		auth:    auth,
		clock:   clock,
		members: members.NewRegistry(prefixdb.New(memberPrefix, db)),
		locks:   state.NewStore(db),
		metrics: newEngineMetrics(),
	}

	now := e.clock.Time()
	for _, addr := range cfg.InitialMembers {
		if err := e.members.Add(addr, now); err != nil {
			return nil, fmt.Errorf("failed to admit initial member: %w", err)
		}
	}

	e.log.Info("consensus engine initialized",
		log.Uint64("minConsensusWeight", cfg.MinConsensusWeight),
		log.Duration("decayPeriod", cfg.decayPeriod()),
		log.Int("initialMembers", len(cfg.InitialMembers)),
	)
	return e, nil
}

// Clock returns the engine's clock. Hosts and tests may fake it for
// deterministic eligibility and decay behavior.
func (e *Engine) Clock() *mockable.Clock {
	return e.clock
}

// ProposeLock stores a new lock guarding [value] and returns its id. The
// lock accepts votes, and may finalize, only once [unlockTime] passes.
func (e *Engine) ProposeLock(proposer common.Address, value []byte, unlockTime uint64) (uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock.Time()
	id, err := e.locks.Propose(now, proposer, value, time.Unix(int64(unlockTime), 0))
	if err != nil {
		return 0, err
	}

	e.metrics.numProposed.Inc()
	e.log.Info("lock proposed",
		log.Uint64("lockID", id),
		log.Stringer("proposer", proposer),
		log.Uint64("unlockTime", unlockTime),
	)
	e.proposedFeed.Send(LockProposedEvent{
		LockID:     id,
		Proposer:   proposer,
		Value:      value,
		UnlockTime: unlockTime,
	})
	return id, nil
}

// CastVote authenticates and tallies a detached signed vote on lock
// [lockID]. It returns the weight applied and whether this vote caused
// the lock to reach consensus and unlock.
//
// Eligibility checks run in a fixed order: the lock must exist, must not
// be finalized, and its unlock time must have passed; only then is the
// signature recovered, the signer's membership checked, and its weight
// computed. A zero weight (expired or clock-skewed membership) rejects
// the vote.
//
// No per-voter record is kept, so presenting the same valid signature
// again adds its weight again. Hosts that need replay protection must
// layer it outside the engine.
func (e *Engine) CastVote(lockID uint64, choice bool, sig []byte) (uint64, bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock.Time()
	lock, err := e.locks.GetLock(lockID)
	if err != nil {
		return 0, false, err
	}
	if lock.Unlocked {
		return 0, false, fmt.Errorf("%w: %d", state.ErrAlreadyUnlocked, lockID)
	}
	if !lock.Eligible(now) {
		return 0, false, fmt.Errorf("%w: lock %d unlocks at %d", ErrNotYetEligible, lockID, lock.UnlockTime)
	}

	voter, err := e.auth.RecoverVoter(voteauth.VoteDigest(lockID, choice), sig)
	if err != nil {
		return 0, false, err
	}
	joinTime, isMember, err := e.members.JoinTime(voter)
	if err != nil {
		return 0, false, err
	}
	if !isMember {
		return 0, false, fmt.Errorf("%w: %s", members.ErrNotMember, voter)
	}

	weight := members.Weight(joinTime, now, e.cfg.decayPeriod())
	if weight == 0 {
		return 0, false, fmt.Errorf("%w: %s", ErrInsufficientWeight, voter)
	}

	lock, err = e.locks.ApplyVote(lockID, choice, weight)
	if err != nil {
		return 0, false, err
	}

	e.metrics.markVote(choice)
	e.log.Info("vote cast",
		log.Uint64("lockID", lockID),
		log.Stringer("voter", voter),
		log.Bool("choice", choice),
		log.Uint64("weight", weight),
	)
	e.voteFeed.Send(VoteCastEvent{
		LockID: lockID,
		Voter:  voter,
		Choice: choice,
		Weight: weight,
	})

	if lock.PositiveWeight < e.cfg.MinConsensusWeight {
		return weight, false, nil
	}

	// This vote crossed the threshold: finalize synchronously.
	if _, err := e.locks.Finalize(lockID); err != nil {
		return weight, false, err
	}
	e.finalized(lock)
	return weight, true, nil
}

// Unlock finalizes a lock whose stored positive tally already meets the
// consensus threshold. It recomputes no weights, so it applies even when
// the tally crossed the threshold without the triggering vote noticing
// (for example after a threshold change). Tallies are never recomputed
// retroactively.
func (e *Engine) Unlock(lockID uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock.Time()
	lock, err := e.locks.GetLock(lockID)
	if err != nil {
		return err
	}
	if !lock.Eligible(now) {
		return fmt.Errorf("%w: lock %d unlocks at %d", ErrNotYetEligible, lockID, lock.UnlockTime)
	}
	if lock.Unlocked {
		return fmt.Errorf("%w: %d", state.ErrAlreadyUnlocked, lockID)
	}
	if lock.PositiveWeight < e.cfg.MinConsensusWeight {
		return fmt.Errorf("%w: %d < %d", ErrConsensusNotReached, lock.PositiveWeight, e.cfg.MinConsensusWeight)
	}

	if _, err := e.locks.Finalize(lockID); err != nil {
		return err
	}
	e.finalized(lock)
	return nil
}

func (e *Engine) finalized(lock *state.Lock) {
	e.metrics.numUnlocked.Inc()
	e.log.Info("lock unlocked",
		log.Uint64("lockID", lock.ID),
		log.Stringer("proposer", lock.Proposer),
	)
	e.unlockFeed.Send(LockUnlockedEvent{
		LockID:   lock.ID,
		Proposer: lock.Proposer,
	})
}

// AddMember admits [addr] to the committee. [capability] must authorize
// the mutation.
func (e *Engine) AddMember(capability Capability, addr common.Address) error {
	if err := verifyCapability(capability); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.members.Add(addr, e.clock.Time()); err != nil {
		return err
	}
	e.log.Info("member added", log.Stringer("member", addr))
	return nil
}

// RemoveMember removes [addr] from the committee, zeroing its voting
// weight immediately. [capability] must authorize the mutation.
func (e *Engine) RemoveMember(capability Capability, addr common.Address) error {
	if err := verifyCapability(capability); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.members.Remove(addr); err != nil {
		return err
	}
	e.log.Info("member removed", log.Stringer("member", addr))
	return nil
}

// GetLock returns the lock with [lockID].
func (e *Engine) GetLock(lockID uint64) (*state.Lock, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.locks.GetLock(lockID)
}

// IsMember reports whether [addr] is currently a member.
func (e *Engine) IsMember(addr common.Address) (bool, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.members.IsMember(addr)
}

// LockCount returns the number of locks ever proposed.
func (e *Engine) LockCount() (uint64, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.locks.LockCount()
}

func verifyCapability(capability Capability) error {
	if capability == nil {
		return ErrUnauthorized
	}
	if err := capability.Verify(); err != nil {
		return fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}
	return nil
}
