// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"errors"
	"fmt"
	"time"

	"github.com/luxfi/database"
	"github.com/luxfi/database/prefixdb"
	"github.com/luxfi/database/versiondb"
	"github.com/luxfi/geth/common"
	"github.com/luxfi/math"
)

var (
	ErrUnknownLock         = errors.New("unknown lock")
	ErrAlreadyUnlocked     = errors.New("lock already unlocked")
	ErrUnlockTimeNotFuture = errors.New("unlock time must be in the future")

	lockPrefix      = []byte("lock")
	singletonPrefix = []byte("singleton")

	lockCountKey = []byte("lock_count")
)

// Store owns the lock records. Ids are assigned sequentially starting at
// zero and never reused. Callers are responsible for serializing
// mutations to a given lock; the store performs no locking of its own.
type Store struct {
	baseDB      *versiondb.Database
	lockDB      database.Database
	singletonDB database.Database
}

func NewStore(db database.Database) *Store {
	baseDB := versiondb.New(db)
	return &Store{
		baseDB:      baseDB,
		lockDB:      prefixdb.New(lockPrefix, baseDB),
		singletonDB: prefixdb.New(singletonPrefix, baseDB),
	}
}

// commit atomically writes the pending mutations to the underlying
// database, or discards them all on failure.
func (s *Store) commit() error {
	defer s.baseDB.Abort()
	batch, err := s.baseDB.CommitBatch()
	if err != nil {
		return err
	}
	return batch.Write()
}

// LockCount returns the number of locks ever proposed. Ids below the
// count are all assigned.
func (s *Store) LockCount() (uint64, error) {
	count, err := database.GetUInt64(s.singletonDB, lockCountKey)
	if err == database.ErrNotFound {
		return 0, nil
	}
	return count, err
}

// Propose stores a new lock in the proposed state with zero tallies and
// returns its id. The unlock time must be strictly after [now].
func (s *Store) Propose(now time.Time, proposer common.Address, value []byte, unlockTime time.Time) (uint64, error) {
	defer s.baseDB.Abort()

	if !unlockTime.After(now) {
		return 0, fmt.Errorf("%w: %s <= %s", ErrUnlockTimeNotFuture, unlockTime, now)
	}

	id, err := s.LockCount()
	if err != nil {
		return 0, err
	}
	lock := &Lock{
		ID:         id,
		Proposer:   proposer,
		Value:      value,
		UnlockTime: uint64(unlockTime.Unix()),
	}
	if err := s.putLock(lock); err != nil {
		return 0, err
	}
	if err := database.PutUInt64(s.singletonDB, lockCountKey, id+1); err != nil {
		return 0, err
	}
	return id, s.commit()
}

// GetLock returns the lock with [id].
func (s *Store) GetLock(id uint64) (*Lock, error) {
	bytes, err := s.lockDB.Get(database.PackUInt64(id))
	if err == database.ErrNotFound {
		return nil, fmt.Errorf("%w: %d", ErrUnknownLock, id)
	}
	if err != nil {
		return nil, err
	}
	lock := &Lock{}
	if _, err := Codec.Unmarshal(bytes, lock); err != nil {
		return nil, fmt.Errorf("failed to parse lock %d: %w", id, err)
	}
	return lock, nil
}

// ApplyVote adds [weight] to the tally selected by [choice] and to the
// total, and returns the updated lock. The caller decides whether the
// vote was admissible; the store only rejects votes on finalized locks.
func (s *Store) ApplyVote(id uint64, choice bool, weight uint64) (*Lock, error) {
	defer s.baseDB.Abort()

	lock, err := s.GetLock(id)
	if err != nil {
		return nil, err
	}
	if lock.Unlocked {
		return nil, fmt.Errorf("%w: %d", ErrAlreadyUnlocked, id)
	}

	if choice {
		lock.PositiveWeight, err = math.Add64(lock.PositiveWeight, weight)
	} else {
		lock.NegativeWeight, err = math.Add64(lock.NegativeWeight, weight)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to tally vote on lock %d: %w", id, err)
	}
	lock.TotalWeight, err = math.Add64(lock.TotalWeight, weight)
	if err != nil {
		return nil, fmt.Errorf("failed to tally vote on lock %d: %w", id, err)
	}

	if err := s.putLock(lock); err != nil {
		return nil, err
	}
	return lock, s.commit()
}

// Finalize marks the lock unlocked and returns it. The transition is
// one-way.
func (s *Store) Finalize(id uint64) (*Lock, error) {
	defer s.baseDB.Abort()

	lock, err := s.GetLock(id)
	if err != nil {
		return nil, err
	}
	if lock.Unlocked {
		return nil, fmt.Errorf("%w: %d", ErrAlreadyUnlocked, id)
	}
	lock.Unlocked = true
	if err := s.putLock(lock); err != nil {
		return nil, err
	}
	return lock, s.commit()
}

func (s *Store) putLock(lock *Lock) error {
	bytes, err := Codec.Marshal(CodecVersion, lock)
	if err != nil {
		return fmt.Errorf("failed to serialize lock %d: %w", lock.ID, err)
	}
	return s.lockDB.Put(database.PackUInt64(lock.ID), bytes)
}
