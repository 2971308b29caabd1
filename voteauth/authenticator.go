// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package voteauth

import (
	"crypto/ecdsa"
	"errors"
	"fmt"

	"github.com/luxfi/crypto"
	"github.com/luxfi/geth/common"
)

// SignatureLen is the length of a recoverable signature: [R || S || V].
const SignatureLen = 65

var (
	ErrInvalidSignature = errors.New("invalid signature")

	_ Authenticator = (*Secp256k1Authenticator)(nil)
)

// Authenticator recovers the identity that signed a vote digest. It is
// an injection point: the consensus engine never touches the underlying
// curve, so hosts can substitute the implementation.
type Authenticator interface {
	RecoverVoter(digest common.Hash, sig []byte) (common.Address, error)
}

// Secp256k1Authenticator recovers Ethereum-style addresses from 65-byte
// recoverable secp256k1 signatures.
type Secp256k1Authenticator struct{}

func NewSecp256k1() *Secp256k1Authenticator {
	return &Secp256k1Authenticator{}
}

// RecoverVoter accepts recovery ids of 0/1 as well as the 27/28 form
// emitted by most Ethereum signers.
func (*Secp256k1Authenticator) RecoverVoter(digest common.Hash, sig []byte) (common.Address, error) {
	if len(sig) != SignatureLen {
		return common.Address{}, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidSignature, SignatureLen, len(sig))
	}
	normalized := sig
	if v := sig[SignatureLen-1]; v >= 27 {
		normalized = make([]byte, SignatureLen)
		copy(normalized, sig)
		normalized[SignatureLen-1] = v - 27
	}
	pub, err := crypto.SigToPub(digest[:], normalized)
	if err != nil {
		return common.Address{}, fmt.Errorf("%w: %w", ErrInvalidSignature, err)
	}
	return common.Address(crypto.PubkeyToAddress(*pub)), nil
}

// SignVote signs the digest for (lockID, choice) with [key], producing a
// signature that RecoverVoter accepts. Used by clients and tests.
func SignVote(key *ecdsa.PrivateKey, lockID uint64, choice bool) ([]byte, error) {
	digest := VoteDigest(lockID, choice)
	return crypto.Sign(digest[:], key)
}
