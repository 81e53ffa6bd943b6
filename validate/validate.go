// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

// Package validate checks whether a string is a well-formed address for a
// chain and detects which chains an address could belong to. Checks are
// syntactic: they never touch the network.
package validate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/complex-gh/airgap/chains"
	"github.com/complex-gh/airgap/kaspaaddr"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

const base58Alphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

// Result is the outcome of an address check.
type Result struct {
	IsValid      bool   `json:"is_valid"`
	ErrorMessage string `json:"error_message,omitempty"`
}

// Address validates address for chain. Surrounding whitespace is ignored.
// An invalid result carries a message describing the first failed check.
func Address(chain chains.Chain, address string) Result {
	address = strings.TrimSpace(address)
	if address == "" {
		return Result{ErrorMessage: "address cannot be empty"}
	}

	var err error
	switch chain {
	case chains.Ethereum, chains.BNB:
		err = checkEthereum(address)
	case chains.Bitcoin:
		err = checkBitcoin(address)
	case chains.Solana:
		err = checkSolana(address)
	case chains.Tron:
		err = checkTron(address)
	case chains.Kaspa:
		err = checkKaspa(address)
	default:
		err = fmt.Errorf("unsupported chain: %s", chain)
	}

	if err != nil {
		return Result{ErrorMessage: err.Error()}
	}
	return Result{IsValid: true}
}

// ByName validates address for a chain given by name, such as "eth" or
// "KASPA". Unknown names produce an invalid result naming the chain.
func ByName(chain, address string) Result {
	c, err := chains.Parse(chain)
	if err != nil {
		return Result{ErrorMessage: fmt.Sprintf("unsupported chain: %s", chain)}
	}
	return Address(c, address)
}

// Ethereum reports whether s is 0x followed by 40 hex digits. The EIP-55
// checksum is not enforced. BNB Smart Chain uses the same format.
func Ethereum(s string) bool {
	return checkEthereum(s) == nil
}

// Bitcoin reports whether s is a P2PKH, P2SH or segwit address on mainnet,
// testnet3, regtest or signet.
func Bitcoin(s string) bool {
	return checkBitcoin(s) == nil
}

// Solana reports whether s is 32 to 44 Base58 characters.
func Solana(s string) bool {
	return checkSolana(s) == nil
}

// Tron reports whether s is T followed by 33 Base58 characters.
func Tron(s string) bool {
	return checkTron(s) == nil
}

// Kaspa reports whether s is a mainnet or testnet Kaspa address with a
// valid checksum and payload.
func Kaspa(s string) bool {
	return checkKaspa(s) == nil
}

func checkEthereum(s string) error {
	if !strings.HasPrefix(s, "0x") {
		return errors.New("ethereum address must start with 0x")
	}
	if len(s) != 42 {
		return fmt.Errorf("ethereum address must be 42 characters, got %d", len(s))
	}
	if _, err := hexutil.Decode(s); err != nil {
		return errors.New("ethereum address may only contain the hex digits 0-9 and a-f (or A-F)")
	}
	return nil
}

func checkBitcoin(s string) error {
	if _, err := chains.DecodeBitcoinAddress(s); err != nil {
		return fmt.Errorf("bitcoin address format is invalid: %w", err)
	}
	return nil
}

func checkSolana(s string) error {
	if len(s) < 32 || len(s) > 44 {
		return fmt.Errorf("solana address must be 32 to 44 characters, got %d", len(s))
	}
	if !isBase58(s) {
		return errors.New("solana address contains characters outside the Base58 alphabet")
	}
	return nil
}

func checkTron(s string) error {
	if !strings.HasPrefix(s, "T") {
		return errors.New("tron address must start with T")
	}
	if len(s) != 34 {
		return fmt.Errorf("tron address must be 34 characters, got %d", len(s))
	}
	if !isBase58(s[1:]) {
		return errors.New("tron address contains characters outside the Base58 alphabet")
	}
	return nil
}

func checkKaspa(s string) error {
	if !strings.HasPrefix(s, string(kaspaaddr.Mainnet)+":") && !strings.HasPrefix(s, string(kaspaaddr.Testnet)+":") {
		return errors.New("kaspa address must start with kaspa: or kaspatest:")
	}
	if _, err := kaspaaddr.Decode(s); err != nil {
		return fmt.Errorf("kaspa address format is invalid: %w", err)
	}
	return nil
}

func isBase58(s string) bool {
	for _, r := range s {
		if !strings.ContainsRune(base58Alphabet, r) {
			return false
		}
	}
	return true
}

// Detect returns every chain address is valid for, in the order ETH, BNB,
// BTC, SOL, TRON, KASPA. ETH and BNB share an address format and are always
// reported together.
func Detect(address string) []chains.Chain {
	var found []chains.Chain
	for _, c := range chains.All {
		if Address(c, address).IsValid {
			found = append(found, c)
		}
	}
	return found
}
