// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"github.com/luxfi/codec"
	"github.com/luxfi/codec/linearcodec"
)

const CodecVersion uint16 = 0

// Codec serializes lock records for storage.
var Codec codec.Manager

func init() {
	c := linearcodec.NewDefault()
	if err := c.RegisterType(&Lock{}); err != nil {
		panic(err)
	}

	Codec = codec.NewDefaultManager()
	if err := Codec.RegisterCodec(CodecVersion, c); err != nil {
		panic(err)
	}
}
