// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

// Package hdkey walks BIP-32 derivation paths from a BIP-39 seed.
//
// All chains supported by airgap derive their keys from the secp256k1
// master key produced by HMAC-SHA512("Bitcoin seed", seed), including the
// Ed25519 chains, which use the derived 32-byte secret as their key seed.
package hdkey

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/ethereum/go-ethereum/accounts"
)

// Hardened is the offset added to a child index to request hardened derivation.
const Hardened uint32 = hdkeychain.HardenedKeyStart

// ErrDerivation is returned when a path is malformed or a child key is invalid.
var ErrDerivation = errors.New("key derivation failed")

// Path is a BIP-32 derivation path. Hardened components carry the Hardened bit.
type Path []uint32

// String renders the path as m/44'/60'/0'/0/0.
func (p Path) String() string {
	var b strings.Builder
	b.WriteString("m")
	for _, c := range p {
		b.WriteByte('/')
		if c >= Hardened {
			b.WriteString(strconv.FormatUint(uint64(c-Hardened), 10))
			b.WriteByte('\'')
			continue
		}
		b.WriteString(strconv.FormatUint(uint64(c), 10))
	}
	return b.String()
}

// BIP44 builds m/purpose'/coinType'/0'/change/index. When hardenedChange is
// set the change level is hardened as well, as Solana wallets expect.
func BIP44(purpose, coinType, index uint32, hardenedChange bool) Path {
	change := uint32(0)
	if hardenedChange {
		change += Hardened
	}
	return Path{purpose + Hardened, coinType + Hardened, Hardened, change, index}
}

// ParsePath parses an absolute path such as "m/44'/60'/0'/0/0". Hardened
// components may be written with ' or h.
func ParsePath(s string) (Path, error) {
	s = strings.TrimSpace(s)
	if s != "m" && !strings.HasPrefix(s, "m/") {
		return nil, fmt.Errorf("%w: path %q must start with m/", ErrDerivation, s)
	}
	if s == "m" {
		return Path{}, nil
	}
	dp, err := accounts.ParseDerivationPath(strings.ReplaceAll(s, "h", "'"))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDerivation, err)
	}
	return Path(dp), nil
}

// IndexFromPath returns the address index encoded in the last segment of a
// derivation path string. Anything that is not a plain unsigned 32-bit
// decimal, including a hardened segment such as "0'", yields 0.
func IndexFromPath(s string) uint32 {
	last := s
	if i := strings.LastIndexByte(s, '/'); i >= 0 {
		last = s[i+1:]
	}
	n, err := strconv.ParseUint(last, 10, 32)
	if err != nil {
		return 0
	}
	return uint32(n)
}

// Key is a derived private extended key.
type Key struct {
	ext  *hdkeychain.ExtendedKey
	path Path
}

// Derive computes the master key from seed and walks path from it.
// Every intermediate key is zeroed as soon as its child has been derived.
func Derive(seed []byte, path Path) (*Key, error) {
	current, err := hdkeychain.NewMaster(seed, &chaincfg.MainNetParams)
	if err != nil {
		return nil, fmt.Errorf("%w: could not create master key: %v", ErrDerivation, err)
	}

	for depth, child := range path {
		next, err := current.Derive(child)
		current.Zero()
		if err != nil {
			return nil, fmt.Errorf("%w: %s at depth %d: %v", ErrDerivation, Path{child}.String()[2:], depth+1, err)
		}
		current = next
	}

	return &Key{ext: current, path: path}, nil
}

// Path returns the path the key was derived at.
func (k *Key) Path() Path {
	return k.path
}

// ECPrivKey returns the secp256k1 private key. The caller should Zero it.
func (k *Key) ECPrivKey() (*btcec.PrivateKey, error) {
	if k.ext == nil {
		return nil, fmt.Errorf("%w: key has been zeroed", ErrDerivation)
	}
	priv, err := k.ext.ECPrivKey()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDerivation, err)
	}
	return priv, nil
}

// Secret returns the 32-byte private scalar. The caller should clear it.
func (k *Key) Secret() ([]byte, error) {
	priv, err := k.ECPrivKey()
	if err != nil {
		return nil, err
	}
	defer priv.Zero()
	return priv.Serialize(), nil
}

// Zero wipes the key material. The key is unusable afterwards.
func (k *Key) Zero() {
	if k.ext != nil {
		k.ext.Zero()
		k.ext = nil
	}
}
