// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

package chains

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/complex-gh/airgap/kaspaaddr"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/matryer/is"
)

func TestDeriveKaspaAddress(t *testing.T) {
	is := is.New(t)

	addr, err := DeriveKaspaAddress(testMnemonic, "", 0)
	is.NoErr(err)
	is.True(strings.HasPrefix(addr.Address, "kaspa:"))
	is.Equal(addr.DerivationPath, "m/44'/111111'/0'/0/0")
	is.Equal(addr.AddressType, "PubKey")

	decoded, err := kaspaaddr.Decode(addr.Address)
	is.NoErr(err)
	is.Equal(decoded.Version, kaspaaddr.PubKey)
	is.Equal(decoded.Payload, testPubKey(t, KaspaPath(0)).SerializeCompressed()[1:])
}

func TestDeriveKaspaAddressWithOptions(t *testing.T) {
	is := is.New(t)

	addr, err := DeriveKaspaAddressWithOptions(testMnemonic, "", 0, KaspaOptions{Network: kaspaaddr.Testnet, ECDSA: true})
	is.NoErr(err)
	is.True(strings.HasPrefix(addr.Address, "kaspatest:"))

	decoded, err := kaspaaddr.Decode(addr.Address)
	is.NoErr(err)
	is.Equal(decoded.Version, kaspaaddr.PubKeyECDSA)
	is.Equal(decoded.Payload, testPubKey(t, KaspaPath(0)).SerializeCompressed())
}

func TestSignKaspaTransaction(t *testing.T) {
	is := is.New(t)

	to := "kaspa:qqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqkx9awp4e"
	signed, err := SignKaspaTransaction(testMnemonic, "", 1, KaspaTransaction{To: to, Amount: "12.5"})
	is.NoErr(err)

	txData := `{"to":"` + to + `","amount":"12.5","fee":"0"}`
	hash := chainhash.HashB([]byte(txData))
	is.Equal(signed.TransactionHash, hex.EncodeToString(hash))
	is.True(strings.HasPrefix(signed.RawTransaction, txData))

	sig, err := hex.DecodeString(strings.TrimPrefix(signed.RawTransaction, txData))
	is.NoErr(err)
	is.Equal(len(sig), 64)
	is.True(crypto.VerifySignature(testPubKey(t, KaspaPath(1)).SerializeCompressed(), hash, sig))
}

func TestSignKaspaTransaction_Fee(t *testing.T) {
	is := is.New(t)

	fee := "0.001"
	signed, err := SignKaspaTransaction(testMnemonic, "", 0, KaspaTransaction{To: "a", Amount: "1", Fee: &fee})
	is.NoErr(err)
	is.True(strings.HasPrefix(signed.RawTransaction, `{"to":"a","amount":"1","fee":"0.001"}`))
}
