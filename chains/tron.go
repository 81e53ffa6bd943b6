// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

package chains

import (
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/complex-gh/airgap/hdkey"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
	"github.com/mr-tron/base58"
)

const (
	tronCoinType = 195

	defaultTronGasPrice = 420
	defaultTronGasLimit = 21000
)

// TronPath returns m/44'/195'/0'/0/index.
func TronPath(index uint32) hdkey.Path {
	return hdkey.BIP44(44, tronCoinType, index, false)
}

// DeriveTronAddress returns "T" followed by the Base58 of the Keccak-derived
// 20-byte account id. The encoding has no network byte and no checksum, so
// the result is not accepted by TRON wallets or by validate.Tron.
func DeriveTronAddress(phrase, passphrase string, index uint32) (*Address, error) {
	path := TronPath(index)
	var addr string
	err := withKey(phrase, passphrase, path, func(priv *btcec.PrivateKey) error {
		addr = "T" + base58.Encode(keccakAddress(priv.PubKey()))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("could not derive tron address: %w", err)
	}
	return &Address{Address: addr, DerivationPath: path.String()}, nil
}

// TronTransaction is a TRX transfer request. Value is in SUN.
type TronTransaction struct {
	To       string  `json:"to"`
	Value    string  `json:"value"`
	GasPrice *string `json:"gas_price,omitempty"`
	GasLimit *string `json:"gas_limit,omitempty"`
}

// RequiredFields lists the JSON keys that must be present.
func (TronTransaction) RequiredFields() []string {
	return []string{"to", "value"}
}

// SignTronTransaction signs Keccak-256("to:value:gasPrice:gasLimit") with
// the key at index. RawTransaction is 0x || hex(hash || r || s).
func SignTronTransaction(phrase, passphrase string, index uint32, tx TronTransaction) (*SignedTransaction, error) {
	value, err := parseUint256("value", tx.Value)
	if err != nil {
		return nil, err
	}
	gasPrice := uint256.NewInt(defaultTronGasPrice)
	if tx.GasPrice != nil {
		if gasPrice, err = parseUint256("gas price", *tx.GasPrice); err != nil {
			return nil, err
		}
	}
	gasLimit := uint256.NewInt(defaultTronGasLimit)
	if tx.GasLimit != nil {
		if gasLimit, err = parseUint256("gas limit", *tx.GasLimit); err != nil {
			return nil, err
		}
	}

	hash := crypto.Keccak256(fmt.Appendf(nil, "%s:%s:%s:%s", tx.To, value.Dec(), gasPrice.Dec(), gasLimit.Dec()))

	var sig []byte
	err = withKey(phrase, passphrase, TronPath(index), func(priv *btcec.PrivateKey) error {
		sig, err = signCompact(priv, hash)
		return err
	})
	if err != nil {
		return nil, err
	}

	raw := make([]byte, 0, len(hash)+len(sig))
	raw = append(append(raw, hash...), sig...)
	return &SignedTransaction{
		RawTransaction:  "0x" + hex.EncodeToString(raw),
		TransactionHash: "0x" + hex.EncodeToString(hash),
	}, nil
}
