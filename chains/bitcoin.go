// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

package chains

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/complex-gh/airgap/hdkey"
)

// BitcoinAddressType selects the script type of a derived Bitcoin address.
type BitcoinAddressType string

const (
	// Legacy is P2PKH (1...) at m/44'/0'/0'/0/i.
	Legacy BitcoinAddressType = "legacy"
	// Segwit is P2SH-wrapped P2WPKH (3...) at m/49'/0'/0'/0/i.
	Segwit BitcoinAddressType = "segwit"
	// NativeSegwit is P2WPKH (bc1q...) at m/84'/0'/0'/0/i.
	NativeSegwit BitcoinAddressType = "native_segwit"
)

// psbtPlaceholderPrefix is the base64 of the PSBT magic bytes.
const psbtPlaceholderPrefix = "cHNidP8AAAAA"

// bitcoinNets are the networks a recipient address may be encoded for.
var bitcoinNets = []*chaincfg.Params{
	&chaincfg.MainNetParams,
	&chaincfg.TestNet3Params,
	&chaincfg.RegressionNetParams,
	&chaincfg.SigNetParams,
}

// ParseBitcoinAddressType accepts legacy, segwit and native_segwit.
func ParseBitcoinAddressType(s string) (BitcoinAddressType, error) {
	switch t := BitcoinAddressType(strings.ToLower(strings.TrimSpace(s))); t {
	case Legacy, Segwit, NativeSegwit:
		return t, nil
	}
	return "", fmt.Errorf("%w: %q (want legacy, segwit or native_segwit)", ErrInvalidAddressType, s)
}

func (t BitcoinAddressType) purpose() (uint32, error) {
	switch t {
	case Legacy:
		return 44, nil
	case Segwit:
		return 49, nil
	case NativeSegwit:
		return 84, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidAddressType, string(t))
}

// BitcoinPath returns the BIP-44/49/84 receive path for t at index.
func BitcoinPath(t BitcoinAddressType, index uint32) (hdkey.Path, error) {
	purpose, err := t.purpose()
	if err != nil {
		return nil, err
	}
	return hdkey.BIP44(purpose, 0, index, false), nil
}

// DeriveBitcoinAddress returns the mainnet address of type t at index.
func DeriveBitcoinAddress(phrase, passphrase string, index uint32, t BitcoinAddressType) (*Address, error) {
	path, err := BitcoinPath(t, index)
	if err != nil {
		return nil, err
	}

	var addr string
	err = withKey(phrase, passphrase, path, func(priv *btcec.PrivateKey) error {
		addr, err = bitcoinAddress(priv.PubKey(), t, &chaincfg.MainNetParams)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("could not derive bitcoin address: %w", err)
	}
	return &Address{Address: addr, DerivationPath: path.String(), AddressType: string(t)}, nil
}

// bitcoinAddress encodes the compressed public key as t for net.
func bitcoinAddress(pub *btcec.PublicKey, t BitcoinAddressType, net *chaincfg.Params) (string, error) {
	pkHash := btcutil.Hash160(pub.SerializeCompressed())

	switch t {
	case Legacy:
		addr, err := btcutil.NewAddressPubKeyHash(pkHash, net)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrSerialization, err)
		}
		return addr.EncodeAddress(), nil

	case Segwit:
		witness, err := btcutil.NewAddressWitnessPubKeyHash(pkHash, net)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrSerialization, err)
		}
		redeemScript, err := txscript.PayToAddrScript(witness)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrSerialization, err)
		}
		addr, err := btcutil.NewAddressScriptHash(redeemScript, net)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrSerialization, err)
		}
		return addr.EncodeAddress(), nil

	case NativeSegwit:
		addr, err := btcutil.NewAddressWitnessPubKeyHash(pkHash, net)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrSerialization, err)
		}
		return addr.EncodeAddress(), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidAddressType, string(t))
}

// DecodeBitcoinAddress parses a P2PKH, P2SH or segwit address for mainnet,
// testnet3, regtest or signet.
func DecodeBitcoinAddress(s string) (btcutil.Address, error) {
	var lastErr error
	for _, net := range bitcoinNets {
		addr, err := btcutil.DecodeAddress(s, net)
		if err != nil {
			lastErr = err
			continue
		}
		// raw hex public keys are not payment addresses
		if _, ok := addr.(*btcutil.AddressPubKey); ok {
			return nil, fmt.Errorf("%w: %q is a public key", ErrInvalidAddress, s)
		}
		return addr, nil
	}
	return nil, fmt.Errorf("%w: %q: %v", ErrInvalidAddress, s, lastErr)
}

// BtcTransaction is a Bitcoin transfer request. Amount is in BTC.
type BtcTransaction struct {
	To      string  `json:"to"`
	Amount  string  `json:"amount"`
	FeeRate *string `json:"fee_rate,omitempty"`
}

// RequiredFields lists the JSON keys that must be present.
func (BtcTransaction) RequiredFields() []string {
	return []string{"to", "amount"}
}

// SignBitcoinTransaction produces a placeholder signed payload: it does not
// build a spendable transaction. The recipient and amount are validated and
// the native segwit key at index is derived, then the SHA-256 of
// "to:satoshi:index" is returned hex encoded behind the PSBT magic prefix.
func SignBitcoinTransaction(phrase, passphrase string, index uint32, tx BtcTransaction) (*SignedTransaction, error) {
	to, err := DecodeBitcoinAddress(tx.To)
	if err != nil {
		return nil, err
	}
	sats, err := BTCToSatoshi(tx.Amount)
	if err != nil {
		return nil, err
	}

	path, _ := BitcoinPath(NativeSegwit, index)
	err = withKey(phrase, passphrase, path, func(*btcec.PrivateKey) error {
		return nil
	})
	if err != nil {
		return nil, err
	}

	hash := chainhash.HashB(fmt.Appendf(nil, "%s:%d:%d", to.EncodeAddress(), sats, index))
	return &SignedTransaction{
		RawTransaction:  psbtPlaceholderPrefix + hex.EncodeToString(hash),
		TransactionHash: hex.EncodeToString(hash),
	}, nil
}
