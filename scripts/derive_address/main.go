// derive_address prints the first receive address of every supported chain
// for a BIP39 mnemonic, for testing.
//
// Usage:
//
//	go run ./scripts/derive_address "your 24 word seed phrase here"
//
// Or with stdin:
//
//	echo "your 24 word seed phrase" | go run ./scripts/derive_address
//
// Note: The TRON address uses the wallet's own encoding without a network
// byte or checksum, so it will not match the address other TRON wallets
// show for the same seed.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/complex-gh/airgap"
	"github.com/complex-gh/airgap/chains"
)

func main() {
	var mnemonic string

	if len(os.Args) > 1 {
		mnemonic = strings.Join(os.Args[1:], " ")
	} else {
		scanner := bufio.NewScanner(os.Stdin)
		if scanner.Scan() {
			mnemonic = strings.TrimSpace(scanner.Text())
		}
	}

	if mnemonic == "" {
		fmt.Fprintln(os.Stderr, "Usage: derive_address \"24 word seed phrase\"")
		fmt.Fprintln(os.Stderr, "   or: echo \"seed phrase\" | derive_address")
		os.Exit(1)
	}

	for _, chain := range chains.All {
		addr, err := airgap.DeriveAddressAtIndex(chain, mnemonic, 0, airgap.DefaultOptions())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("%-6s %-22s %s\n", chain, addr.DerivationPath, addr.Address)
	}
}
