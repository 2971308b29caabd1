// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package timelock

import (
	"errors"
	"time"

	"github.com/luxfi/geth/common"

	"github.com/luxfi/timelock/members"
)

var (
	ErrNoMembers        = errors.New("initial member set must not be empty")
	ErrInvalidThreshold = errors.New("consensus weight threshold must be positive")
)

// Config parameterizes an Engine.
type Config struct {
	// MinConsensusWeight is the accumulated positive vote weight at which
	// a lock unlocks. Must be positive.
	MinConsensusWeight uint64 `json:"minConsensusWeight"`

	// DecayPeriod is how long a member's voting weight takes to decay to
	// zero. Zero selects members.DefaultDecayPeriod.
	DecayPeriod time.Duration `json:"decayPeriod"`

	// InitialMembers join the committee at construction time. Must not be
	// empty.
	InitialMembers []common.Address `json:"initialMembers"`
}

func (c *Config) Validate() error {
	if c.MinConsensusWeight == 0 {
		return ErrInvalidThreshold
	}
	if len(c.InitialMembers) == 0 {
		return ErrNoMembers
	}
	return nil
}

func (c *Config) decayPeriod() time.Duration {
	if c.DecayPeriod <= 0 {
		return members.DefaultDecayPeriod
	}
	return c.DecayPeriod
}
