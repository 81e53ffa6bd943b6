// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

package chains

import (
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/complex-gh/airgap/hdkey"
	"github.com/complex-gh/airgap/mnemonic"
)

// withKey derives the secp256k1 key at path and passes it to fn. The seed,
// the extended key and the private key are zeroed before withKey returns.
func withKey(phrase, passphrase string, path hdkey.Path, fn func(priv *btcec.PrivateKey) error) error {
	seed, err := mnemonic.ToSeed(phrase, passphrase)
	if err != nil {
		return err
	}
	defer seed.Zero()

	key, err := hdkey.Derive(seed, path)
	if err != nil {
		return err
	}
	defer key.Zero()

	priv, err := key.ECPrivKey()
	if err != nil {
		return err
	}
	defer priv.Zero()

	return fn(priv)
}

// withSecret is withKey for callers that need the raw 32-byte scalar.
func withSecret(phrase, passphrase string, path hdkey.Path, fn func(secret []byte) error) error {
	return withKey(phrase, passphrase, path, func(priv *btcec.PrivateKey) error {
		secret := priv.Serialize()
		defer clear(secret)
		return fn(secret)
	})
}

// compactSigLen is a recovery header byte followed by r and s.
const compactSigLen = 65

// signCompact returns a 64-byte r || s signature over hash. Signatures are
// deterministic (RFC 6979) and use the low-S form.
func signCompact(priv *btcec.PrivateKey, hash []byte) ([]byte, error) {
	sig := ecdsa.SignCompact(priv, hash, true)
	if len(sig) != compactSigLen {
		return nil, fmt.Errorf("%w: compact signature is %d bytes", ErrSigning, len(sig))
	}
	// drop the recovery header byte
	return sig[1:], nil
}
