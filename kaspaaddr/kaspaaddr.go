// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

// Package kaspaaddr encodes and decodes Kaspa addresses.
//
// A Kaspa address is a network prefix, a version byte and a payload, encoded
// with Kaspa's bech32 variant: a ':' separator and an 8-character checksum,
// for example kaspa:qqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqkx9awp4e.
package kaspaaddr

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kaspanet/kaspad/util/bech32"
)

// ErrInvalidAddress is returned when an address cannot be built or decoded.
var ErrInvalidAddress = errors.New("invalid kaspa address")

// Prefix identifies the network an address belongs to.
type Prefix string

const (
	Mainnet Prefix = "kaspa"
	Testnet Prefix = "kaspatest"
	Simnet  Prefix = "kaspasim"
	Devnet  Prefix = "kaspadev"
)

// ParsePrefix accepts a prefix or one of the network names mainnet,
// testnet, simnet and devnet.
func ParsePrefix(s string) (Prefix, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "kaspa", "mainnet":
		return Mainnet, nil
	case "kaspatest", "testnet":
		return Testnet, nil
	case "kaspasim", "simnet":
		return Simnet, nil
	case "kaspadev", "devnet":
		return Devnet, nil
	}
	return "", fmt.Errorf("%w: unknown prefix %q", ErrInvalidAddress, s)
}

// Version is the address type byte.
type Version byte

const (
	// PubKey addresses carry a 32-byte x-only Schnorr public key.
	PubKey Version = 0
	// PubKeyECDSA addresses carry a 33-byte compressed ECDSA public key.
	PubKeyECDSA Version = 1
	// ScriptHash addresses carry a 32-byte script hash.
	ScriptHash Version = 8
)

// PayloadLen returns the payload size for v, or 0 for an unknown version.
func (v Version) PayloadLen() int {
	switch v {
	case PubKey, ScriptHash:
		return 32
	case PubKeyECDSA:
		return 33
	}
	return 0
}

func (v Version) String() string {
	switch v {
	case PubKey:
		return "PubKey"
	case PubKeyECDSA:
		return "PubKeyECDSA"
	case ScriptHash:
		return "ScriptHash"
	}
	return fmt.Sprintf("Version(%d)", byte(v))
}

// Address is a decoded Kaspa address.
type Address struct {
	Prefix  Prefix
	Version Version
	Payload []byte
}

// New checks the payload length against version and returns the address.
func New(prefix Prefix, version Version, payload []byte) (Address, error) {
	want := version.PayloadLen()
	if want == 0 {
		return Address{}, fmt.Errorf("%w: unknown version %d", ErrInvalidAddress, byte(version))
	}
	if len(payload) != want {
		return Address{}, fmt.Errorf("%w: %s payload must be %d bytes, got %d", ErrInvalidAddress, version, want, len(payload))
	}
	return Address{
		Prefix:  prefix,
		Version: version,
		Payload: append([]byte(nil), payload...),
	}, nil
}

// String returns the bech32 encoding, prefix included.
func (a Address) String() string {
	return bech32.Encode(string(a.Prefix), a.Payload, byte(a.Version))
}

// Decode parses an encoded address and checks its prefix, version and
// payload length.
func Decode(s string) (Address, error) {
	prefix, payload, version, err := bech32.Decode(s)
	if err != nil {
		return Address{}, fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	p, err := ParsePrefix(prefix)
	if err != nil || string(p) != prefix {
		return Address{}, fmt.Errorf("%w: unknown prefix %q", ErrInvalidAddress, prefix)
	}
	return New(p, Version(version), payload)
}
