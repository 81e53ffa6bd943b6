// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

package chains

import (
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/complex-gh/airgap/hdkey"
	"github.com/complex-gh/airgap/kaspaaddr"
)

const (
	kaspaCoinType = 111111

	defaultKaspaFee = "0"
)

// KaspaOptions selects the network and public key encoding of a Kaspa address.
type KaspaOptions struct {
	Network kaspaaddr.Prefix
	// ECDSA selects a PubKeyECDSA address with the full compressed key
	// instead of a PubKey address with the x-only key.
	ECDSA bool
}

// DefaultKaspaOptions returns mainnet PubKey addresses.
func DefaultKaspaOptions() KaspaOptions {
	return KaspaOptions{Network: kaspaaddr.Mainnet}
}

// KaspaPath returns m/44'/111111'/0'/0/index.
func KaspaPath(index uint32) hdkey.Path {
	return hdkey.BIP44(44, kaspaCoinType, index, false)
}

// DeriveKaspaAddress returns the mainnet PubKey address at index.
func DeriveKaspaAddress(phrase, passphrase string, index uint32) (*Address, error) {
	return DeriveKaspaAddressWithOptions(phrase, passphrase, index, DefaultKaspaOptions())
}

// DeriveKaspaAddressWithOptions returns the address at index for the given
// network and key encoding.
func DeriveKaspaAddressWithOptions(phrase, passphrase string, index uint32, opts KaspaOptions) (*Address, error) {
	if opts.Network == "" {
		opts.Network = kaspaaddr.Mainnet
	}
	path := KaspaPath(index)

	var addr kaspaaddr.Address
	err := withKey(phrase, passphrase, path, func(priv *btcec.PrivateKey) error {
		pub := priv.PubKey().SerializeCompressed()
		version, payload := kaspaaddr.PubKey, pub[1:]
		if opts.ECDSA {
			version, payload = kaspaaddr.PubKeyECDSA, pub
		}
		var err error
		addr, err = kaspaaddr.New(opts.Network, version, payload)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrSerialization, err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("could not derive kaspa address: %w", err)
	}
	return &Address{Address: addr.String(), DerivationPath: path.String(), AddressType: addr.Version.String()}, nil
}

// KaspaTransaction is a KAS transfer request. Amount and Fee are passed
// through verbatim.
type KaspaTransaction struct {
	To     string  `json:"to"`
	Amount string  `json:"amount"`
	Fee    *string `json:"fee,omitempty"`
}

// RequiredFields lists the JSON keys that must be present.
func (KaspaTransaction) RequiredFields() []string {
	return []string{"to", "amount"}
}

// kaspaTxData renders the signed payload byte for byte. Field values are
// inserted without escaping.
func kaspaTxData(tx KaspaTransaction) string {
	fee := defaultKaspaFee
	if tx.Fee != nil {
		fee = *tx.Fee
	}
	return fmt.Sprintf(`{"to":"%s","amount":"%s","fee":"%s"}`, tx.To, tx.Amount, fee)
}

// SignKaspaTransaction signs SHA-256 of the JSON payload
// {"to":...,"amount":...,"fee":...} with the key at index. RawTransaction
// is the payload followed by the hex r || s signature.
func SignKaspaTransaction(phrase, passphrase string, index uint32, tx KaspaTransaction) (*SignedTransaction, error) {
	txData := kaspaTxData(tx)
	hash := chainhash.HashB([]byte(txData))

	var sig []byte
	err := withKey(phrase, passphrase, KaspaPath(index), func(priv *btcec.PrivateKey) error {
		var err error
		sig, err = signCompact(priv, hash)
		return err
	})
	if err != nil {
		return nil, err
	}

	return &SignedTransaction{
		RawTransaction:  txData + hex.EncodeToString(sig),
		TransactionHash: hex.EncodeToString(hash),
	}, nil
}
