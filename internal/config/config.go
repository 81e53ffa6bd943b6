// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

// Package config loads airgap settings from defaults, an optional TOML file,
// AIRGAP_* environment variables and command line flags, in increasing order
// of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/complex-gh/airgap"
	"github.com/complex-gh/airgap/chains"
	"github.com/complex-gh/airgap/internal/log"
	"github.com/complex-gh/airgap/kaspaaddr"
	"github.com/complex-gh/airgap/mnemonic"
	"github.com/spf13/viper"
)

// Keys understood by Load.
const (
	KeyLogLevel           = "log.level"
	KeyLogJSON            = "log.json"
	KeyPassphrase         = "wallet.passphrase"
	KeyDefaultWords       = "wallet.default_words"
	KeyBitcoinAddressType = "bitcoin.address_type"
	KeyKaspaNetwork       = "kaspa.network"
	KeyKaspaECDSA         = "kaspa.ecdsa"
	KeyEVMChainID         = "evm.chain_id"
)

const (
	envPrefix      = "AIRGAP"
	configDirName  = "airgap"
	configFileName = "config.toml"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds the resolved settings.
type Config struct {
	Log struct {
		Level string
		JSON  bool
	}
	Wallet struct {
		Passphrase   string
		DefaultWords int
	}
	Bitcoin struct {
		AddressType string
	}
	Kaspa struct {
		Network string
		ECDSA   bool
	}
	EVM struct {
		ChainID uint64
	}
}

// New returns a viper instance with defaults and environment binding set
// up. Callers bind flags to it before calling Load.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogJSON, false)
	v.SetDefault(KeyPassphrase, "")
	v.SetDefault(KeyDefaultWords, 24)
	v.SetDefault(KeyBitcoinAddressType, string(chains.NativeSegwit))
	v.SetDefault(KeyKaspaNetwork, "mainnet")
	v.SetDefault(KeyKaspaECDSA, false)
	v.SetDefault(KeyEVMChainID, chains.DefaultEVMChainID)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// DefaultPath returns $XDG_CONFIG_HOME/airgap/config.toml, or the
// platform equivalent.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, configDirName, configFileName)
}

// Load reads the config file at path into v and resolves the settings.
// An empty path means DefaultPath, which may be absent; an explicit path
// must exist.
func Load(v *viper.Viper, path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			v.SetConfigType("toml")
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("could not read config %s: %w", path, err)
			}
			log.Config.Debug().Str("path", path).Msg("loaded config file")
		} else if explicit {
			return nil, fmt.Errorf("could not read config %s: %w", path, err)
		}
	}

	c := &Config{}
	c.Log.Level = v.GetString(KeyLogLevel)
	c.Log.JSON = v.GetBool(KeyLogJSON)
	c.Wallet.Passphrase = v.GetString(KeyPassphrase)
	c.Wallet.DefaultWords = v.GetInt(KeyDefaultWords)
	c.Bitcoin.AddressType = v.GetString(KeyBitcoinAddressType)
	c.Kaspa.Network = v.GetString(KeyKaspaNetwork)
	c.Kaspa.ECDSA = v.GetBool(KeyKaspaECDSA)
	c.EVM.ChainID = v.GetUint64(KeyEVMChainID)

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate rejects unknown enum values and out of range numbers.
func (c *Config) Validate() error {
	if !log.ValidLevel(c.Log.Level) {
		return fmt.Errorf("%w: %s %q", ErrInvalidConfig, KeyLogLevel, c.Log.Level)
	}
	if !slices.Contains(mnemonic.ValidWordCounts, c.Wallet.DefaultWords) {
		return fmt.Errorf("%w: %s %d (must be one of %v)", ErrInvalidConfig, KeyDefaultWords, c.Wallet.DefaultWords, mnemonic.ValidWordCounts)
	}
	if _, err := chains.ParseBitcoinAddressType(c.Bitcoin.AddressType); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidConfig, KeyBitcoinAddressType, err)
	}
	if _, err := kaspaaddr.ParsePrefix(c.Kaspa.Network); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidConfig, KeyKaspaNetwork, err)
	}
	if c.EVM.ChainID == 0 {
		return fmt.Errorf("%w: %s must be positive", ErrInvalidConfig, KeyEVMChainID)
	}
	return nil
}

// Options converts the settings into airgap options. Validate must have
// succeeded.
func (c *Config) Options() airgap.Options {
	btcType, _ := chains.ParseBitcoinAddressType(c.Bitcoin.AddressType)
	network, _ := kaspaaddr.ParsePrefix(c.Kaspa.Network)
	return airgap.Options{
		Passphrase:         c.Wallet.Passphrase,
		BitcoinAddressType: btcType,
		KaspaNetwork:       network,
		KaspaECDSA:         c.Kaspa.ECDSA,
		EVMChainID:         c.EVM.ChainID,
	}
}
