// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

// Package chains derives addresses and signs transactions for every chain
// airgap supports: Ethereum, BNB Smart Chain, Bitcoin, Solana, TRON and Kaspa.
//
// Every operation takes the mnemonic, the BIP-39 passphrase and an address
// index, derives the key for that index and zeroes all key material before
// returning. Nothing is cached between calls.
package chains

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnsupportedChain    = errors.New("unsupported chain")
	ErrInvalidAddress      = errors.New("invalid address")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInvalidNumericField = errors.New("invalid numeric field")
	ErrInvalidAddressType  = errors.New("invalid address type")
	ErrSigning             = errors.New("signing failed")
	ErrSerialization       = errors.New("serialization failed")
)

// Chain identifies a supported blockchain.
type Chain int

const (
	Ethereum Chain = iota + 1
	Bitcoin
	Solana
	BNB
	Tron
	Kaspa
)

// All lists the supported chains in detection order.
var All = []Chain{Ethereum, BNB, Bitcoin, Solana, Tron, Kaspa}

// String returns the chain ticker, e.g. "ETH".
func (c Chain) String() string {
	switch c {
	case Ethereum:
		return "ETH"
	case Bitcoin:
		return "BTC"
	case Solana:
		return "SOL"
	case BNB:
		return "BNB"
	case Tron:
		return "TRON"
	case Kaspa:
		return "KASPA"
	}
	return fmt.Sprintf("Chain(%d)", int(c))
}

// MarshalText implements encoding.TextMarshaler.
func (c Chain) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Parse maps a case-insensitive chain name to a Chain. Accepted names are
// eth, btc, sol, bnb, tron and kaspa (or kas).
func Parse(name string) (Chain, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "eth":
		return Ethereum, nil
	case "btc":
		return Bitcoin, nil
	case "sol":
		return Solana, nil
	case "bnb":
		return BNB, nil
	case "tron":
		return Tron, nil
	case "kaspa", "kas":
		return Kaspa, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrUnsupportedChain, name)
}

// Address is a derived receive address.
type Address struct {
	Address        string `json:"address"`
	DerivationPath string `json:"derivation_path"`
	AddressType    string `json:"address_type,omitempty"`
}

// SignedTransaction is the output of the account-based and UTXO signers.
type SignedTransaction struct {
	RawTransaction  string `json:"raw_transaction"`
	TransactionHash string `json:"transaction_hash"`
}

// SignedSolTransaction is the output of SignSolanaTransaction.
type SignedSolTransaction struct {
	RawTransaction string `json:"raw_transaction"`
	Signature      string `json:"signature"`
}
