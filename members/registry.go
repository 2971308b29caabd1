// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package members tracks the committee that is authorized to vote and
// computes each member's time-decayed voting weight.
package members

import (
	"errors"
	"fmt"
	"time"

	"github.com/luxfi/database"
	"github.com/luxfi/geth/common"
)

var (
	ErrAlreadyMember = errors.New("already a member")
	ErrNotMember     = errors.New("not a member")
)

// Registry persists the member set. Keys are 20-byte addresses, values
// are the member's join time in unix seconds. Authorization of mutations
// is the caller's responsibility; the registry only enforces the member
// set invariants.
type Registry struct {
	db database.Database
}

func NewRegistry(db database.Database) *Registry {
	return &Registry{db: db}
}

// Add records [addr] as a member joining at [now]. Adding a previously
// removed member restarts its weight decay from [now].
func (r *Registry) Add(addr common.Address, now time.Time) error {
	has, err := r.db.Has(addr[:])
	if err != nil {
		return err
	}
	if has {
		return fmt.Errorf("%w: %s", ErrAlreadyMember, addr)
	}
	return database.PutUInt64(r.db, addr[:], uint64(now.Unix()))
}

// Remove erases [addr]'s membership and join time.
func (r *Registry) Remove(addr common.Address) error {
	has, err := r.db.Has(addr[:])
	if err != nil {
		return err
	}
	if !has {
		return fmt.Errorf("%w: %s", ErrNotMember, addr)
	}
	return r.db.Delete(addr[:])
}

func (r *Registry) IsMember(addr common.Address) (bool, error) {
	return r.db.Has(addr[:])
}

// JoinTime returns when [addr] joined. The second return value is false
// if [addr] is not currently a member.
func (r *Registry) JoinTime(addr common.Address) (time.Time, bool, error) {
	joined, err := database.GetUInt64(r.db, addr[:])
	if err == database.ErrNotFound {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}
	return time.Unix(int64(joined), 0), true, nil
}

// Len returns the number of current members.
func (r *Registry) Len() (uint64, error) {
	iter := r.db.NewIterator()
	defer iter.Release()

	var count uint64
	for iter.Next() {
		count++
	}
	return count, iter.Error()
}
