// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

package chains

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/complex-gh/airgap/hdkey"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

const (
	ethCoinType = 60

	// DefaultEVMChainID is the EIP-155 chain id used when none is configured.
	// It applies to BNB as well.
	DefaultEVMChainID uint64 = 1
)

// EthTransaction is a legacy EVM transfer. Numeric fields are unsigned
// decimal strings and Data is optional hex with or without 0x.
type EthTransaction struct {
	To       string  `json:"to"`
	Value    string  `json:"value"`
	GasPrice string  `json:"gas_price"`
	GasLimit string  `json:"gas_limit"`
	Nonce    string  `json:"nonce"`
	Data     *string `json:"data,omitempty"`
}

// RequiredFields lists the JSON keys that must be present.
func (EthTransaction) RequiredFields() []string {
	return []string{"to", "value", "gas_price", "gas_limit", "nonce"}
}

// EthereumPath returns m/44'/60'/0'/0/index, shared by ETH and BNB.
func EthereumPath(index uint32) hdkey.Path {
	return hdkey.BIP44(44, ethCoinType, index, false)
}

// DeriveEthereumAddress returns the lowercase 0x-prefixed address at index.
// BNB Smart Chain uses the same address.
func DeriveEthereumAddress(phrase, passphrase string, index uint32) (*Address, error) {
	path := EthereumPath(index)
	var addr string
	err := withKey(phrase, passphrase, path, func(priv *btcec.PrivateKey) error {
		addr = "0x" + hex.EncodeToString(keccakAddress(priv.PubKey()))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("could not derive ethereum address: %w", err)
	}
	return &Address{Address: addr, DerivationPath: path.String()}, nil
}

// keccakAddress returns the last 20 bytes of Keccak-256 over the
// uncompressed public key without its 0x04 prefix.
func keccakAddress(pub *btcec.PublicKey) []byte {
	return crypto.Keccak256(pub.SerializeUncompressed()[1:])[12:]
}

// evmSigners holds one immutable EIP-155 signer per chain id.
var evmSigners sync.Map

func evmSigner(chainID uint64) types.Signer {
	if s, ok := evmSigners.Load(chainID); ok {
		return s.(types.Signer)
	}
	s, _ := evmSigners.LoadOrStore(chainID, types.NewEIP155Signer(new(big.Int).SetUint64(chainID)))
	return s.(types.Signer)
}

// SignEthereumTransaction signs tx for Ethereum mainnet.
func SignEthereumTransaction(phrase, passphrase string, index uint32, tx EthTransaction) (*SignedTransaction, error) {
	return SignEVMTransaction(phrase, passphrase, index, DefaultEVMChainID, tx)
}

// SignEVMTransaction signs a legacy transaction with EIP-155 replay
// protection for chainID. RawTransaction is the 0x-prefixed RLP encoding
// and TransactionHash its Keccak-256.
func SignEVMTransaction(phrase, passphrase string, index uint32, chainID uint64, tx EthTransaction) (*SignedTransaction, error) {
	value, err := parseUint256("value", tx.Value)
	if err != nil {
		return nil, err
	}
	gasPrice, err := parseUint256("gas price", tx.GasPrice)
	if err != nil {
		return nil, err
	}
	gasLimit, err := parseUint64("gas limit", tx.GasLimit)
	if err != nil {
		return nil, err
	}
	nonce, err := parseUint64("nonce", tx.Nonce)
	if err != nil {
		return nil, err
	}
	if !common.IsHexAddress(tx.To) {
		return nil, fmt.Errorf("%w: to address %q", ErrInvalidAddress, tx.To)
	}
	to := common.HexToAddress(tx.To)

	var data []byte
	if tx.Data != nil {
		data, err = hex.DecodeString(strings.TrimPrefix(*tx.Data, "0x"))
		if err != nil {
			return nil, fmt.Errorf("%w: data hex: %v", ErrSerialization, err)
		}
	}

	unsigned := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		GasPrice: gasPrice.ToBig(),
		Gas:      gasLimit,
		To:       &to,
		Value:    value.ToBig(),
		Data:     data,
	})

	var raw []byte
	err = withSecret(phrase, passphrase, EthereumPath(index), func(secret []byte) error {
		key, err := crypto.ToECDSA(secret)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrSigning, err)
		}
		defer clear(key.D.Bits())

		signed, err := types.SignTx(unsigned, evmSigner(chainID), key)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrSigning, err)
		}
		raw, err = signed.MarshalBinary()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrSerialization, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &SignedTransaction{
		RawTransaction:  "0x" + hex.EncodeToString(raw),
		TransactionHash: "0x" + hex.EncodeToString(crypto.Keccak256(raw)),
	}, nil
}
