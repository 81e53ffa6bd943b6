// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

// Package airgap is the offline core of a multi-chain cold wallet. It
// generates and validates BIP-39 mnemonics, derives receive addresses and
// signs transfer requests for Ethereum, BNB Smart Chain, Bitcoin, Solana,
// TRON and Kaspa, and validates addresses for those chains.
//
// Every call is self-contained: the mnemonic is stretched into a seed, the
// key for the requested index is derived, used and zeroed before the call
// returns. Nothing touches the network and no key material is retained.
package airgap

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/complex-gh/airgap/chains"
	"github.com/complex-gh/airgap/hdkey"
	"github.com/complex-gh/airgap/internal/log"
	"github.com/complex-gh/airgap/kaspaaddr"
	"github.com/complex-gh/airgap/mnemonic"
	"github.com/complex-gh/airgap/validate"
)

// ErrInvalidTransaction is returned when a transaction request is not valid
// JSON or lacks a field its chain requires.
var ErrInvalidTransaction = errors.New("invalid transaction")

// Options tunes derivation and signing. The zero value of each field means
// its default; DefaultOptions spells the defaults out.
type Options struct {
	// Passphrase is the optional BIP-39 passphrase ("25th word").
	Passphrase string
	// BitcoinAddressType selects legacy, segwit or native_segwit addresses.
	BitcoinAddressType chains.BitcoinAddressType
	// KaspaNetwork selects the Kaspa address prefix.
	KaspaNetwork kaspaaddr.Prefix
	// KaspaECDSA selects PubKeyECDSA Kaspa addresses.
	KaspaECDSA bool
	// EVMChainID is the EIP-155 chain id for ETH and BNB signing.
	EVMChainID uint64
}

// DefaultOptions returns an empty passphrase, native segwit Bitcoin
// addresses, mainnet Schnorr Kaspa addresses and chain id 1.
func DefaultOptions() Options {
	return Options{
		BitcoinAddressType: chains.NativeSegwit,
		KaspaNetwork:       kaspaaddr.Mainnet,
		EVMChainID:         chains.DefaultEVMChainID,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.BitcoinAddressType == "" {
		o.BitcoinAddressType = d.BitcoinAddressType
	}
	if o.KaspaNetwork == "" {
		o.KaspaNetwork = d.KaspaNetwork
	}
	if o.EVMChainID == 0 {
		o.EVMChainID = d.EVMChainID
	}
	return o
}

// GenerateMnemonic returns a new random English mnemonic of wordCount words
// (12, 15, 18, 21 or 24).
func GenerateMnemonic(wordCount int) (string, error) {
	return mnemonic.Generate(wordCount)
}

// ValidateMnemonic reports whether text is a valid mnemonic. An invalid
// phrase returns false together with an error wrapping
// mnemonic.ErrInvalidMnemonic that names the problem.
func ValidateMnemonic(text string) (bool, error) {
	if err := mnemonic.Validate(text); err != nil {
		return false, err
	}
	return true, nil
}

// DeriveAddress derives the address of chain for the mnemonic.
//
// Parameters:
//   - chain: The chain to derive for
//   - phrase: A valid BIP-39 mnemonic phrase
//   - derivationPath: A path string whose last segment selects the address
//     index, e.g. "m/44'/60'/0'/0/3". The chain's own path prefix is always
//     used; a missing or unparseable last segment means index 0.
//
// Returns the address string. Bitcoin addresses are native segwit.
func DeriveAddress(chain chains.Chain, phrase, derivationPath string) (string, error) {
	return DeriveAddressWithOptions(chain, phrase, derivationPath, DefaultOptions())
}

// DeriveAddressWithOptions is DeriveAddress with a passphrase and address
// format options.
func DeriveAddressWithOptions(chain chains.Chain, phrase, derivationPath string, opts Options) (string, error) {
	addr, err := DeriveAddressAtIndex(chain, phrase, hdkey.IndexFromPath(derivationPath), opts)
	if err != nil {
		return "", err
	}
	return addr.Address, nil
}

// DeriveAddressAtIndex derives the address of chain at index and returns
// it together with the full derivation path used.
func DeriveAddressAtIndex(chain chains.Chain, phrase string, index uint32, opts Options) (*chains.Address, error) {
	opts = opts.withDefaults()
	log.Wallet.Debug().
		Str("chain", chain.String()).
		Uint32("index", index).
		Msg("deriving address")

	switch chain {
	case chains.Ethereum, chains.BNB:
		return chains.DeriveEthereumAddress(phrase, opts.Passphrase, index)
	case chains.Bitcoin:
		return chains.DeriveBitcoinAddress(phrase, opts.Passphrase, index, opts.BitcoinAddressType)
	case chains.Solana:
		return chains.DeriveSolanaAddress(phrase, opts.Passphrase, index)
	case chains.Tron:
		return chains.DeriveTronAddress(phrase, opts.Passphrase, index)
	case chains.Kaspa:
		return chains.DeriveKaspaAddressWithOptions(phrase, opts.Passphrase, index, chains.KaspaOptions{
			Network: opts.KaspaNetwork,
			ECDSA:   opts.KaspaECDSA,
		})
	}
	return nil, fmt.Errorf("%w: %s", chains.ErrUnsupportedChain, chain)
}

// SignTransaction signs a JSON transfer request for chain.
//
// Parameters:
//   - chain: The chain to sign for
//   - phrase: A valid BIP-39 mnemonic phrase
//   - txJSON: The request body. Its fields depend on the chain:
//     ETH/BNB {to, value, gas_price, gas_limit, nonce, data?},
//     BTC {to, amount, fee_rate?}, SOL {to, amount, recent_blockhash?},
//     TRON {to, value, gas_price?, gas_limit?}, KASPA {to, amount, fee?}.
//     An optional unsigned integer "index" selects the signing key.
//
// Returns the JSON encoding of the signed result:
// {"raw_transaction", "transaction_hash"}, or {"raw_transaction", "signature"}
// for Solana.
func SignTransaction(chain chains.Chain, phrase, txJSON string) (string, error) {
	return SignTransactionWithOptions(chain, phrase, txJSON, DefaultOptions())
}

// SignTransactionWithOptions is SignTransaction with a passphrase and an
// EVM chain id.
func SignTransactionWithOptions(chain chains.Chain, phrase, txJSON string, opts Options) (string, error) {
	opts = opts.withDefaults()

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(txJSON), &fields); err != nil {
		if !json.Valid([]byte(txJSON)) {
			return "", fmt.Errorf("%w: malformed JSON: %v", ErrInvalidTransaction, err)
		}
		return "", fmt.Errorf("%w: %s request must be a JSON object", ErrInvalidTransaction, chain)
	}
	index := indexField(fields)

	log.Wallet.Debug().
		Str("chain", chain.String()).
		Uint32("index", index).
		Msg("signing transaction")
	defer log.Benchmark("sign " + chain.String())()

	body := []byte(txJSON)
	var (
		signed any
		err    error
	)
	switch chain {
	case chains.Ethereum, chains.BNB:
		signed, err = signWith(chain, fields, body, func(tx chains.EthTransaction) (any, error) {
			return chains.SignEVMTransaction(phrase, opts.Passphrase, index, opts.EVMChainID, tx)
		})
	case chains.Bitcoin:
		signed, err = signWith(chain, fields, body, func(tx chains.BtcTransaction) (any, error) {
			return chains.SignBitcoinTransaction(phrase, opts.Passphrase, index, tx)
		})
	case chains.Solana:
		signed, err = signWith(chain, fields, body, func(tx chains.SolTransaction) (any, error) {
			return chains.SignSolanaTransaction(phrase, opts.Passphrase, index, tx)
		})
	case chains.Tron:
		signed, err = signWith(chain, fields, body, func(tx chains.TronTransaction) (any, error) {
			return chains.SignTronTransaction(phrase, opts.Passphrase, index, tx)
		})
	case chains.Kaspa:
		signed, err = signWith(chain, fields, body, func(tx chains.KaspaTransaction) (any, error) {
			return chains.SignKaspaTransaction(phrase, opts.Passphrase, index, tx)
		})
	default:
		return "", fmt.Errorf("%w: %s", chains.ErrUnsupportedChain, chain)
	}
	if err != nil {
		return "", err
	}

	out, err := json.Marshal(signed)
	if err != nil {
		return "", fmt.Errorf("%w: %v", chains.ErrSerialization, err)
	}
	return string(out), nil
}

// request is implemented by the chain transaction types.
type request interface {
	RequiredFields() []string
}

// signWith decodes the request for chain into T and hands it to sign.
func signWith[T request](chain chains.Chain, fields map[string]json.RawMessage, body []byte, sign func(T) (any, error)) (any, error) {
	tx, err := decodeTransaction[T](chain, fields, body)
	if err != nil {
		return nil, err
	}
	return sign(tx)
}

// decodeTransaction checks that every required field is present and not
// null, then decodes body into T.
func decodeTransaction[T request](chain chains.Chain, fields map[string]json.RawMessage, body []byte) (T, error) {
	var tx T
	for _, name := range tx.RequiredFields() {
		raw, ok := fields[name]
		if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			return tx, fmt.Errorf("%w: %s: missing field %q", ErrInvalidTransaction, chain, name)
		}
	}
	if err := json.Unmarshal(body, &tx); err != nil {
		return tx, fmt.Errorf("%w: %s: %v", ErrInvalidTransaction, chain, err)
	}
	return tx, nil
}

// indexField returns the optional "index" field. Anything other than an
// unsigned integer counts as absent; values above 32 bits are truncated.
func indexField(fields map[string]json.RawMessage) uint32 {
	raw, ok := fields["index"]
	if !ok {
		return 0
	}
	var n uint64
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0
	}
	return uint32(n)
}

// ValidateAddress reports whether address is valid for the chain named by
// chainName (eth, btc, sol, bnb, tron, kaspa or kas, any case).
func ValidateAddress(chainName, address string) bool {
	return ValidateAddressWithMessage(chainName, address).IsValid
}

// ValidateAddressWithMessage is ValidateAddress with a message describing
// why an address was rejected.
func ValidateAddressWithMessage(chainName, address string) validate.Result {
	r := validate.ByName(chainName, address)
	log.Validate.Debug().
		Str("chain", strings.ToUpper(chainName)).
		Bool("valid", r.IsValid).
		Msg("validated address")
	return r
}

// DetectChains returns every chain address is valid for.
func DetectChains(address string) []chains.Chain {
	return validate.Detect(address)
}
