// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

package chains

import (
	"crypto/ed25519"
	"fmt"

	"github.com/complex-gh/airgap/hdkey"
	"github.com/mr-tron/base58"
)

const (
	solCoinType = 501

	defaultBlockhash = "default"
)

// SolanaPath returns m/44'/501'/0'/0'/index. The index segment is not hardened.
func SolanaPath(index uint32) hdkey.Path {
	return hdkey.BIP44(44, solCoinType, index, true)
}

// withSolanaKey derives the secp256k1 secret at the Solana path and uses it
// as the Ed25519 seed.
func withSolanaKey(phrase, passphrase string, index uint32, fn func(ed25519.PrivateKey) error) error {
	return withSecret(phrase, passphrase, SolanaPath(index), func(secret []byte) error {
		priv := ed25519.NewKeyFromSeed(secret)
		defer clear(priv)
		return fn(priv)
	})
}

// DeriveSolanaAddress returns the Base58 Ed25519 public key at index.
func DeriveSolanaAddress(phrase, passphrase string, index uint32) (*Address, error) {
	var addr string
	err := withSolanaKey(phrase, passphrase, index, func(priv ed25519.PrivateKey) error {
		addr = base58.Encode(priv.Public().(ed25519.PublicKey))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("could not derive solana address: %w", err)
	}
	return &Address{Address: addr, DerivationPath: SolanaPath(index).String()}, nil
}

// SolTransaction is a Solana transfer request. Amount is in SOL.
type SolTransaction struct {
	To              string  `json:"to"`
	Amount          string  `json:"amount"`
	RecentBlockhash *string `json:"recent_blockhash,omitempty"`
}

// RequiredFields lists the JSON keys that must be present.
func (SolTransaction) RequiredFields() []string {
	return []string{"to", "amount"}
}

// SignSolanaTransaction signs the message "to:lamports:blockhash" with the
// Ed25519 key at index. The blockhash defaults to "default". RawTransaction
// is Base58(signature || message).
func SignSolanaTransaction(phrase, passphrase string, index uint32, tx SolTransaction) (*SignedSolTransaction, error) {
	lamports, err := SOLToLamports(tx.Amount)
	if err != nil {
		return nil, err
	}
	blockhash := defaultBlockhash
	if tx.RecentBlockhash != nil {
		blockhash = *tx.RecentBlockhash
	}
	message := fmt.Appendf(nil, "%s:%d:%s", tx.To, lamports, blockhash)

	var sig []byte
	err = withSolanaKey(phrase, passphrase, index, func(priv ed25519.PrivateKey) error {
		sig = ed25519.Sign(priv, message)
		return nil
	})
	if err != nil {
		return nil, err
	}

	raw := make([]byte, 0, len(sig)+len(message))
	raw = append(append(raw, sig...), message...)
	return &SignedSolTransaction{
		RawTransaction: base58.Encode(raw),
		Signature:      base58.Encode(sig),
	}, nil
}
