// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package voteauth authenticates vote submissions. A vote is a detached
// secp256k1 signature over an EIP-712 typed-data digest that binds the
// scheme identifier and exactly one (lockId, vote) pair, so a signature
// produced for another deployment or purpose can never be admitted here.
package voteauth

import (
	"github.com/holiman/uint256"

	"github.com/luxfi/crypto"
	"github.com/luxfi/geth/common"
)

// Scheme identifier. Changing either value invalidates every signature
// previously produced for this deployment.
const (
	SchemeName    = "ZetaReticulaLock"
	SchemeVersion = "1"
)

// Type strings hashed into the digest. These are part of the wire format
// and must match other implementations byte for byte.
const (
	domainType = "EIP712Domain(string name,string version)"
	voteType   = "Vote(uint256 lockId,bool vote)"
)

var (
	domainSeparator common.Hash
	voteTypeHash    common.Hash
)

func init() {
	voteTypeHash = common.BytesToHash(crypto.Keccak256([]byte(voteType)))
	domainSeparator = common.BytesToHash(crypto.Keccak256(
		crypto.Keccak256([]byte(domainType)),
		crypto.Keccak256([]byte(SchemeName)),
		crypto.Keccak256([]byte(SchemeVersion)),
	))
}

// DomainSeparator returns the EIP-712 domain separator of this scheme.
func DomainSeparator() common.Hash {
	return domainSeparator
}

// VoteDigest returns the digest that a member signs to vote [choice] on
// lock [lockID].
func VoteDigest(lockID uint64, choice bool) common.Hash {
	lockWord := uint256.NewInt(lockID).Bytes32()
	var choiceWord [32]byte
	if choice {
		choiceWord[31] = 1
	}
	structHash := crypto.Keccak256(
		voteTypeHash[:],
		lockWord[:],
		choiceWord[:],
	)
	return common.BytesToHash(crypto.Keccak256(
		[]byte{0x19, 0x01},
		domainSeparator[:],
		structHash,
	))
}
