// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package timelock

import (
	"encoding/hex"
	"fmt"
	"net/http"

	"github.com/gorilla/rpc/v2"
	"github.com/luxfi/geth/common"

	"github.com/luxfi/timelock/utils/json"
)

// Service exposes the engine's non-administrative operations over
// JSON-RPC. Membership mutations require a capability and are reachable
// only through the library API.
type Service struct {
	engine *Engine
}

// NewHandler returns an http.Handler serving the engine's JSON-RPC
// surface.
func NewHandler(engine *Engine) (http.Handler, error) {
	server := rpc.NewServer()
	server.RegisterCodec(json.NewCodec(), "application/json")
	server.RegisterCodec(json.NewCodec(), "application/json;charset=UTF-8")
	if err := server.RegisterService(&Service{engine: engine}, "timelock"); err != nil {
		return nil, err
	}
	return server, nil
}

// ProposeLockArgs contains arguments for ProposeLock.
type ProposeLockArgs struct {
	Proposer   string      `json:"proposer"`
	Value      string      `json:"value"`
	UnlockTime json.Uint64 `json:"unlockTime"`
}

// ProposeLockReply contains the response for ProposeLock.
type ProposeLockReply struct {
	LockID json.Uint64 `json:"lockId"`
}

func (s *Service) ProposeLock(_ *http.Request, args *ProposeLockArgs, reply *ProposeLockReply) error {
	proposer, err := parseAddress(args.Proposer)
	if err != nil {
		return err
	}
	value, err := parseHex(args.Value)
	if err != nil {
		return fmt.Errorf("invalid value: %w", err)
	}

	id, err := s.engine.ProposeLock(proposer, value, uint64(args.UnlockTime))
	if err != nil {
		return err
	}
	reply.LockID = json.Uint64(id)
	return nil
}

// CastVoteArgs contains arguments for CastVote.
type CastVoteArgs struct {
	LockID    json.Uint64 `json:"lockId"`
	Vote      bool        `json:"vote"`
	Signature string      `json:"signature"`
}

// CastVoteReply contains the response for CastVote.
type CastVoteReply struct {
	Weight           json.Uint64 `json:"weight"`
	ConsensusReached bool        `json:"consensusReached"`
}

func (s *Service) CastVote(_ *http.Request, args *CastVoteArgs, reply *CastVoteReply) error {
	sig, err := parseHex(args.Signature)
	if err != nil {
		return fmt.Errorf("invalid signature encoding: %w", err)
	}

	weight, reached, err := s.engine.CastVote(uint64(args.LockID), args.Vote, sig)
	if err != nil {
		return err
	}
	reply.Weight = json.Uint64(weight)
	reply.ConsensusReached = reached
	return nil
}

// UnlockArgs contains arguments for Unlock.
type UnlockArgs struct {
	LockID json.Uint64 `json:"lockId"`
}

// UnlockReply contains the response for Unlock.
type UnlockReply struct {
	Unlocked bool `json:"unlocked"`
}

func (s *Service) Unlock(_ *http.Request, args *UnlockArgs, reply *UnlockReply) error {
	if err := s.engine.Unlock(uint64(args.LockID)); err != nil {
		return err
	}
	reply.Unlocked = true
	return nil
}

// GetLockArgs contains arguments for GetLock.
type GetLockArgs struct {
	LockID json.Uint64 `json:"lockId"`
}

// GetLockReply is the JSON representation of a lock.
type GetLockReply struct {
	LockID              json.Uint64 `json:"lockId"`
	Proposer            string      `json:"proposer"`
	Value               string      `json:"value"`
	UnlockTime          json.Uint64 `json:"unlockTime"`
	Unlocked            bool        `json:"unlocked"`
	PositiveVotesWeight json.Uint64 `json:"positiveVotesWeight"`
	NegativeVotesWeight json.Uint64 `json:"negativeVotesWeight"`
	TotalVotesWeight    json.Uint64 `json:"totalVotesWeight"`
}

func (s *Service) GetLock(_ *http.Request, args *GetLockArgs, reply *GetLockReply) error {
	lock, err := s.engine.GetLock(uint64(args.LockID))
	if err != nil {
		return err
	}
	reply.LockID = json.Uint64(lock.ID)
	reply.Proposer = lock.Proposer.Hex()
	reply.Value = "0x" + hex.EncodeToString(lock.Value)
	reply.UnlockTime = json.Uint64(lock.UnlockTime)
	reply.Unlocked = lock.Unlocked
	reply.PositiveVotesWeight = json.Uint64(lock.PositiveWeight)
	reply.NegativeVotesWeight = json.Uint64(lock.NegativeWeight)
	reply.TotalVotesWeight = json.Uint64(lock.TotalWeight)
	return nil
}

// IsMemberArgs contains arguments for IsMember.
type IsMemberArgs struct {
	Address string `json:"address"`
}

// IsMemberReply contains the response for IsMember.
type IsMemberReply struct {
	IsMember bool `json:"isMember"`
}

func (s *Service) IsMember(_ *http.Request, args *IsMemberArgs, reply *IsMemberReply) error {
	addr, err := parseAddress(args.Address)
	if err != nil {
		return err
	}
	isMember, err := s.engine.IsMember(addr)
	if err != nil {
		return err
	}
	reply.IsMember = isMember
	return nil
}

// LockCountReply contains the response for LockCount.
type LockCountReply struct {
	Count json.Uint64 `json:"count"`
}

func (s *Service) LockCount(_ *http.Request, _ *struct{}, reply *LockCountReply) error {
	count, err := s.engine.LockCount()
	if err != nil {
		return err
	}
	reply.Count = json.Uint64(count)
	return nil
}

func parseAddress(s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("invalid address: %q", s)
	}
	return common.HexToAddress(s), nil
}

func parseHex(s string) ([]byte, error) {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		s = s[2:]
	}
	return hex.DecodeString(s)
}
