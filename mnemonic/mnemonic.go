// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

// Package mnemonic generates, validates and stretches BIP-39 mnemonic
// phrases using the English word list.
//
// A phrase is converted to a 64-byte seed with PBKDF2-HMAC-SHA512 (2048
// rounds, salt "mnemonic"+passphrase) after NFKD normalization of both the
// phrase and the passphrase. Seeds should be zeroed with Seed.Zero as soon as
// the caller is done with them.
package mnemonic

import (
	"crypto/sha512"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/tyler-smith/go-bip39"
	"github.com/tyler-smith/go-bip39/wordlists"
	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/text/unicode/norm"
)

const (
	// SeedSize is the length in bytes of a BIP-39 seed.
	SeedSize = 64

	seedIterations = 2048
	saltPrefix     = "mnemonic"
)

var (
	// ErrInvalidMnemonic is returned when a phrase fails word list,
	// length or checksum validation.
	ErrInvalidMnemonic = errors.New("invalid mnemonic")

	// ErrInvalidWordCount is returned by Generate for word counts outside
	// ValidWordCounts.
	ErrInvalidWordCount = errors.New("invalid word count")
)

// ValidWordCounts lists the supported phrase lengths in ascending order.
var ValidWordCounts = []int{12, 15, 18, 21, 24}

// englishIndex maps every English word to its position in the list.
var englishIndex = func() map[string]int {
	m := make(map[string]int, len(wordlists.English))
	for i, w := range wordlists.English {
		m[w] = i
	}
	return m
}()

// Seed is a 64-byte BIP-39 seed.
type Seed []byte

// Zero overwrites the seed bytes with zeros.
func (s Seed) Zero() {
	clear(s)
}

// MnemonicInfo describes a validated phrase.
type MnemonicInfo struct {
	Phrase    string `json:"phrase"`
	WordCount int    `json:"word_count"`
}

// Generate returns a new random English mnemonic with the given number of
// words. The entropy size is wordCount*32/3 bits:
//   - 12 words: 128 bits
//   - 15 words: 160 bits
//   - 18 words: 192 bits
//   - 21 words: 224 bits
//   - 24 words: 256 bits
//
// Entropy is read from the operating system CSPRNG and zeroed after the
// phrase has been encoded.
func Generate(wordCount int) (string, error) {
	if !slices.Contains(ValidWordCounts, wordCount) {
		return "", fmt.Errorf("%w: %d (must be one of %v)", ErrInvalidWordCount, wordCount, ValidWordCounts)
	}

	entropy, err := bip39.NewEntropy(wordCount * 32 / 3)
	if err != nil {
		return "", fmt.Errorf("could not read entropy: %w", err)
	}
	defer clear(entropy)

	phrase, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", fmt.Errorf("could not encode mnemonic: %w", err)
	}
	return phrase, nil
}

// Validate reports why text is not a valid English BIP-39 mnemonic, or nil
// if it is. Words are separated by any run of whitespace. Every returned
// error wraps ErrInvalidMnemonic.
func Validate(text string) error {
	words := strings.Fields(text)
	if !slices.Contains(ValidWordCounts, len(words)) {
		return fmt.Errorf("%w: word count %d is not one of %v", ErrInvalidMnemonic, len(words), ValidWordCounts)
	}
	for i, w := range words {
		if _, ok := englishIndex[w]; !ok {
			return fmt.Errorf("%w: unknown word %q at position %d", ErrInvalidMnemonic, w, i+1)
		}
	}

	entropy, err := bip39.EntropyFromMnemonic(strings.Join(words, " "))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidMnemonic, err)
	}
	clear(entropy)
	return nil
}

// IsValid reports whether text is a valid English BIP-39 mnemonic.
func IsValid(text string) bool {
	return Validate(text) == nil
}

// Info validates text and returns its normalized form and word count.
func Info(text string) (*MnemonicInfo, error) {
	if err := Validate(text); err != nil {
		return nil, err
	}
	words := strings.Fields(text)
	return &MnemonicInfo{
		Phrase:    strings.Join(words, " "),
		WordCount: len(words),
	}, nil
}

// ToSeed validates the phrase and stretches it into a 64-byte seed.
//
// The phrase is first normalized to single spaces between words, then both
// the phrase and the passphrase are NFKD normalized before PBKDF2 runs. An
// empty passphrase is the BIP-39 default.
func ToSeed(phrase, passphrase string) (Seed, error) {
	if err := Validate(phrase); err != nil {
		return nil, err
	}

	password := []byte(norm.NFKD.String(strings.Join(strings.Fields(phrase), " ")))
	defer clear(password)
	salt := []byte(saltPrefix + norm.NFKD.String(passphrase))
	defer clear(salt)

	return Seed(pbkdf2.Key(password, salt, seedIterations, SeedSize, sha512.New)), nil
}
