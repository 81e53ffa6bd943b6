// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

package airgap

import (
	"testing"

	"github.com/complex-gh/airgap/chains"
	"github.com/matryer/is"
)

// TestDeriveAddressAtIndex_BIP84TestVector verifies the first native segwit
// receive address from the BIP-84 test vectors.
// See: https://github.com/bitcoin/bips/blob/master/bip-0084.mediawiki#test-vectors
func TestDeriveAddressAtIndex_BIP84TestVector(t *testing.T) {
	is := is.New(t)

	addr, err := DeriveAddressAtIndex(chains.Bitcoin, testMnemonic, 0, DefaultOptions())
	is.NoErr(err)
	is.True(addr != nil)

	is.Equal(addr.Address, "bc1qcr8te4kr609gcawutmrza0j4xv80jy8z306fyu")
	is.Equal(addr.DerivationPath, "m/84'/0'/0'/0/0")
	is.Equal(addr.AddressType, "native_segwit")
}

// TestDeriveAddressAtIndex_BIP49 verifies the first P2SH-wrapped segwit
// receive address for the all-abandon mnemonic.
func TestDeriveAddressAtIndex_BIP49(t *testing.T) {
	is := is.New(t)

	opts := DefaultOptions()
	opts.BitcoinAddressType = chains.Segwit
	addr, err := DeriveAddressAtIndex(chains.Bitcoin, testMnemonic, 0, opts)
	is.NoErr(err)

	is.Equal(addr.Address, "37VucYSaXLCAsxYyAPfbSi9eh4iEcbShgf")
	is.Equal(addr.DerivationPath, "m/49'/0'/0'/0/0")
}

// TestDeriveAddressAtIndex_BIP44 verifies the first legacy Bitcoin and
// Ethereum receive addresses for the all-abandon mnemonic.
func TestDeriveAddressAtIndex_BIP44(t *testing.T) {
	is := is.New(t)

	opts := DefaultOptions()
	opts.BitcoinAddressType = chains.Legacy
	btc, err := DeriveAddressAtIndex(chains.Bitcoin, testMnemonic, 0, opts)
	is.NoErr(err)
	is.Equal(btc.Address, "1LqBGSKuX5yYUonjxT5qGfpUsXKYYWeabA")
	is.Equal(btc.DerivationPath, "m/44'/0'/0'/0/0")

	eth, err := DeriveAddressAtIndex(chains.Ethereum, testMnemonic, 0, opts)
	is.NoErr(err)
	is.Equal(eth.Address, "0x9858effd232b4033e47d90003d41ec34ecaeda94")
	is.Equal(eth.DerivationPath, "m/44'/60'/0'/0/0")
}

// TestDeriveAddressAtIndex_Paths validates the path every chain derives at.
func TestDeriveAddressAtIndex_Paths(t *testing.T) {
	want := map[chains.Chain]string{
		chains.Ethereum: "m/44'/60'/0'/0/5",
		chains.BNB:      "m/44'/60'/0'/0/5",
		chains.Bitcoin:  "m/84'/0'/0'/0/5",
		chains.Solana:   "m/44'/501'/0'/0'/5",
		chains.Tron:     "m/44'/195'/0'/0/5",
		chains.Kaspa:    "m/44'/111111'/0'/0/5",
	}

	for _, chain := range chains.All {
		t.Run(chain.String(), func(t *testing.T) {
			is := is.New(t)
			addr, err := DeriveAddressAtIndex(chain, testMnemonic, 5, DefaultOptions())
			is.NoErr(err)
			is.Equal(addr.DerivationPath, want[chain])
		})
	}
}
