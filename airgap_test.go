// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

package airgap

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/complex-gh/airgap/chains"
	"github.com/complex-gh/airgap/kaspaaddr"
	"github.com/complex-gh/airgap/mnemonic"
	"github.com/matryer/is"
)

const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

// TestGenerateMnemonic_RoundTrip generates a phrase of every length and
// validates it.
func TestGenerateMnemonic_RoundTrip(t *testing.T) {
	for _, count := range []int{12, 15, 18, 21, 24} {
		t.Run(fmt.Sprintf("%d words", count), func(t *testing.T) {
			is := is.New(t)

			phrase, err := GenerateMnemonic(count)
			is.NoErr(err)
			is.Equal(len(strings.Fields(phrase)), count)

			ok, err := ValidateMnemonic(phrase)
			is.NoErr(err)
			is.True(ok)
		})
	}
}

func TestGenerateMnemonic_InvalidWordCount(t *testing.T) {
	is := is.New(t)

	_, err := GenerateMnemonic(13)
	is.True(errors.Is(err, mnemonic.ErrInvalidWordCount))
}

func TestValidateMnemonic_Invalid(t *testing.T) {
	is := is.New(t)

	ok, err := ValidateMnemonic("invalid mnemonic phrase")
	is.True(!ok)
	is.True(errors.Is(err, mnemonic.ErrInvalidMnemonic))
}

// TestDeriveAddress_AllChains derives index 0 and 1 for every chain and
// checks the address format.
func TestDeriveAddress_AllChains(t *testing.T) {
	prefixes := map[chains.Chain]string{
		chains.Ethereum: "0x",
		chains.BNB:      "0x",
		chains.Bitcoin:  "bc1q",
		chains.Solana:   "",
		chains.Tron:     "T",
		chains.Kaspa:    "kaspa:",
	}

	for _, chain := range chains.All {
		t.Run(chain.String(), func(t *testing.T) {
			is := is.New(t)

			first, err := DeriveAddress(chain, testMnemonic, "m/44'/60'/0'/0/0")
			is.NoErr(err)
			again, err := DeriveAddress(chain, testMnemonic, "m/44'/60'/0'/0/0")
			is.NoErr(err)
			second, err := DeriveAddress(chain, testMnemonic, "m/44'/60'/0'/0/1")
			is.NoErr(err)

			is.Equal(first, again)
			is.True(first != second)
			is.True(strings.HasPrefix(first, prefixes[chain]))
		})
	}
}

func TestDeriveAddress_ETHAndBNBMatch(t *testing.T) {
	is := is.New(t)

	eth, err := DeriveAddress(chains.Ethereum, testMnemonic, "m/44'/60'/0'/0/0")
	is.NoErr(err)
	bnb, err := DeriveAddress(chains.BNB, testMnemonic, "m/44'/60'/0'/0/0")
	is.NoErr(err)

	is.Equal(eth, "0x9858effd232b4033e47d90003d41ec34ecaeda94")
	is.Equal(len(eth), 42)
	is.Equal(eth, bnb)
}

// TestDeriveAddress_IndexFromPath checks that only the last path segment
// matters.
func TestDeriveAddress_IndexFromPath(t *testing.T) {
	is := is.New(t)

	a, err := DeriveAddress(chains.Ethereum, testMnemonic, "m/44'/60'/0'/0/0")
	is.NoErr(err)
	b, err := DeriveAddress(chains.Ethereum, testMnemonic, "")
	is.NoErr(err)
	c, err := DeriveAddress(chains.Ethereum, testMnemonic, "m/44'/60'/0'/0/0'")
	is.NoErr(err)
	d, err := DeriveAddress(chains.Ethereum, testMnemonic, "m/84'/0'/0'/0/0")
	is.NoErr(err)

	is.Equal(a, b)
	is.Equal(a, c)
	is.Equal(a, d)
}

func TestDeriveAddressWithOptions(t *testing.T) {
	is := is.New(t)

	opts := DefaultOptions()
	opts.BitcoinAddressType = chains.Legacy
	btc, err := DeriveAddressWithOptions(chains.Bitcoin, testMnemonic, "0", opts)
	is.NoErr(err)
	is.Equal(btc, "1LqBGSKuX5yYUonjxT5qGfpUsXKYYWeabA")

	opts = Options{KaspaNetwork: kaspaaddr.Testnet, KaspaECDSA: true}
	kas, err := DeriveAddressWithOptions(chains.Kaspa, testMnemonic, "0", opts)
	is.NoErr(err)
	is.True(strings.HasPrefix(kas, "kaspatest:q"))

	opts = Options{Passphrase: "TREZOR"}
	eth, err := DeriveAddressWithOptions(chains.Ethereum, testMnemonic, "0", opts)
	is.NoErr(err)
	is.True(eth != "0x9858effd232b4033e47d90003d41ec34ecaeda94")
}

func TestDeriveAddress_Errors(t *testing.T) {
	is := is.New(t)

	_, err := DeriveAddress(chains.Ethereum, "invalid mnemonic phrase", "0")
	is.True(errors.Is(err, mnemonic.ErrInvalidMnemonic))

	_, err = DeriveAddress(chains.Chain(42), testMnemonic, "0")
	is.True(errors.Is(err, chains.ErrUnsupportedChain))

	_, err = DeriveAddressWithOptions(chains.Bitcoin, testMnemonic, "0", Options{BitcoinAddressType: "p2tr"})
	is.True(errors.Is(err, chains.ErrInvalidAddressType))
}

func TestSignTransaction_AllChains(t *testing.T) {
	tests := []struct {
		chain  chains.Chain
		body   string
		fields []string
	}{
		{chains.Ethereum, `{"to":"0x742d35Cc6634C0532925a3b844Bc9e7595f0bEb0","value":"1","gas_price":"20000000000","gas_limit":"21000","nonce":"0"}`, []string{"raw_transaction", "transaction_hash"}},
		{chains.BNB, `{"to":"0x742d35Cc6634C0532925a3b844Bc9e7595f0bEb0","value":"1","gas_price":"5000000000","gas_limit":"21000","nonce":"3","data":"0x"}`, []string{"raw_transaction", "transaction_hash"}},
		{chains.Bitcoin, `{"to":"1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa","amount":"1.5","fee_rate":"10"}`, []string{"raw_transaction", "transaction_hash"}},
		{chains.Solana, `{"to":"So11111111111111111111111111111111111111112","amount":"2.0"}`, []string{"raw_transaction", "signature"}},
		{chains.Tron, `{"to":"TXYZopYRdj2D9XRtbG411XZZ3kM5VkAeBf","value":"1000000"}`, []string{"raw_transaction", "transaction_hash"}},
		{chains.Kaspa, `{"to":"kaspa:qqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqkx9awp4e","amount":"1","fee":"0.0001"}`, []string{"raw_transaction", "transaction_hash"}},
	}

	for _, tt := range tests {
		t.Run(tt.chain.String(), func(t *testing.T) {
			is := is.New(t)

			out, err := SignTransaction(tt.chain, testMnemonic, tt.body)
			is.NoErr(err)

			var result map[string]string
			is.NoErr(json.Unmarshal([]byte(out), &result))
			is.Equal(len(result), len(tt.fields))
			for _, f := range tt.fields {
				is.True(result[f] != "")
			}

			again, err := SignTransaction(tt.chain, testMnemonic, tt.body)
			is.NoErr(err)
			is.Equal(out, again)
		})
	}
}

// TestSignTransaction_Index checks that the index field selects the key.
func TestSignTransaction_Index(t *testing.T) {
	is := is.New(t)

	body := `{"to":"TXYZopYRdj2D9XRtbG411XZZ3kM5VkAeBf","value":"1"%s}`
	noIndex, err := SignTransaction(chains.Tron, testMnemonic, fmt.Sprintf(body, ""))
	is.NoErr(err)
	zero, err := SignTransaction(chains.Tron, testMnemonic, fmt.Sprintf(body, `,"index":0`))
	is.NoErr(err)
	one, err := SignTransaction(chains.Tron, testMnemonic, fmt.Sprintf(body, `,"index":1`))
	is.NoErr(err)
	notANumber, err := SignTransaction(chains.Tron, testMnemonic, fmt.Sprintf(body, `,"index":"1"`))
	is.NoErr(err)
	wrapped, err := SignTransaction(chains.Tron, testMnemonic, fmt.Sprintf(body, `,"index":4294967297`))
	is.NoErr(err)

	is.Equal(noIndex, zero)
	is.True(zero != one)
	is.Equal(notANumber, zero)
	is.Equal(wrapped, one)
}

func TestSignTransaction_BitcoinIndexInHash(t *testing.T) {
	is := is.New(t)

	var a, b map[string]string
	out, err := SignTransaction(chains.Bitcoin, testMnemonic, `{"to":"1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa","amount":"1.5"}`)
	is.NoErr(err)
	is.NoErr(json.Unmarshal([]byte(out), &a))
	out, err = SignTransaction(chains.Bitcoin, testMnemonic, `{"to":"1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa","amount":"1.5","index":2}`)
	is.NoErr(err)
	is.NoErr(json.Unmarshal([]byte(out), &b))

	is.True(strings.HasPrefix(a["raw_transaction"], "cHNidP8AAAAA"))
	is.True(a["transaction_hash"] != b["transaction_hash"])
}

func TestSignTransaction_InvalidRequest(t *testing.T) {
	tests := []struct {
		name  string
		chain chains.Chain
		body  string
	}{
		{"not json", chains.Ethereum, `{"to":`},
		{"not an object", chains.Solana, `["to","amount"]`},
		{"missing nonce", chains.Ethereum, `{"to":"0x742d35Cc6634C0532925a3b844Bc9e7595f0bEb0","value":"1","gas_price":"1","gas_limit":"21000"}`},
		{"null amount", chains.Bitcoin, `{"to":"1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa","amount":null}`},
		{"numeric amount", chains.Kaspa, `{"to":"kaspa:x","amount":5}`},
		{"missing value", chains.Tron, `{"to":"T"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			is := is.New(t)
			_, err := SignTransaction(tt.chain, testMnemonic, tt.body)
			is.True(errors.Is(err, ErrInvalidTransaction))
		})
	}
}

func TestSignTransaction_MessageNamesChain(t *testing.T) {
	is := is.New(t)

	_, err := SignTransaction(chains.Solana, testMnemonic, `{"amount":"1"}`)
	is.True(err != nil)
	is.True(strings.Contains(err.Error(), "SOL"))
	is.True(strings.Contains(err.Error(), `"to"`))
}

func TestSignTransaction_SignerErrors(t *testing.T) {
	is := is.New(t)

	_, err := SignTransaction(chains.Bitcoin, testMnemonic, `{"to":"nope","amount":"1"}`)
	is.True(errors.Is(err, chains.ErrInvalidAddress))

	_, err = SignTransaction(chains.Solana, testMnemonic, `{"to":"x","amount":"one"}`)
	is.True(errors.Is(err, chains.ErrInvalidAmount))

	_, err = SignTransaction(chains.Ethereum, "invalid mnemonic phrase", `{"to":"0x742d35Cc6634C0532925a3b844Bc9e7595f0bEb0","value":"1","gas_price":"1","gas_limit":"21000","nonce":"0"}`)
	is.True(errors.Is(err, mnemonic.ErrInvalidMnemonic))

	_, err = SignTransaction(chains.Chain(0), testMnemonic, `{}`)
	is.True(errors.Is(err, chains.ErrUnsupportedChain))
}

func TestSignTransactionWithOptions_ChainID(t *testing.T) {
	is := is.New(t)

	body := `{"to":"0x742d35Cc6634C0532925a3b844Bc9e7595f0bEb0","value":"1","gas_price":"1","gas_limit":"21000","nonce":"0"}`
	mainnet, err := SignTransaction(chains.BNB, testMnemonic, body)
	is.NoErr(err)

	opts := DefaultOptions()
	opts.EVMChainID = 56
	bsc, err := SignTransactionWithOptions(chains.BNB, testMnemonic, body, opts)
	is.NoErr(err)
	is.True(mainnet != bsc)
}

func TestValidateAddress(t *testing.T) {
	is := is.New(t)

	is.True(ValidateAddress("eth", "0x742d35Cc6634C0532925a3b844Bc9e7595f0bEb0"))
	is.True(ValidateAddress("BTC", "bc1qw508d6qejxtdg4y5r3zarvary0c5xw7kv8f3t4"))
	is.True(!ValidateAddress("eth", "742d35Cc6634C0532925a3b844Bc9e7595f0bEb0"))

	r := ValidateAddressWithMessage("xrp", "rHb9CJAWyB4rj91VRWn96DkukG4bwdtyTh")
	is.True(!r.IsValid)
	is.True(strings.Contains(r.ErrorMessage, "xrp"))
}

func TestDetectChains(t *testing.T) {
	is := is.New(t)

	is.Equal(DetectChains("0x742d35Cc6634C0532925a3b844Bc9e7595f0bEb0"), []chains.Chain{chains.Ethereum, chains.BNB})
	is.Equal(len(DetectChains("not an address")), 0)
}
