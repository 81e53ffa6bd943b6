// Package main provides the airgap CLI, an offline multi-chain cold wallet.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/complex-gh/airgap"
	"github.com/complex-gh/airgap/chains"
	"github.com/complex-gh/airgap/hdkey"
	"github.com/complex-gh/airgap/internal/config"
	"github.com/complex-gh/airgap/internal/log"
	"github.com/complex-gh/airgap/mnemonic"
	"github.com/mattn/go-isatty"
	"github.com/mattn/go-tty"
	mcobra "github.com/muesli/mango-cobra"
	"github.com/muesli/roff"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"
)

const (
	maxWidth = 72
)

var (
	baseStyle  = lipgloss.NewStyle().Margin(0, 0, 1, 2) //nolint:mnd
	red        = lipgloss.Color(completeColor("#FF4444", "196", "9"))
	errorStyle = baseStyle.
			Foreground(red).
			Background(lipgloss.AdaptiveColor{Light: completeColor("#FFEBEB", "255", "7"), Dark: completeColor("#2B1A1A", "235", "8")}).
			Padding(1, 2) //nolint:mnd

	v   = config.New()
	cfg *config.Config

	configPath    string
	askPassphrase bool
	jsonOutput    bool
	derivePath    string
	deriveIndex   uint32
	deriveCount   uint32

	errInvalid = errors.New("invalid")

	rootCmd = &cobra.Command{
		Use:   "airgap",
		Short: "Offline multi-chain cold wallet",
		Long: `Offline multi-chain cold wallet.

airgap generates and validates BIP-39 mnemonics, derives receive addresses
and signs transfer requests for ETH, BNB, BTC, SOL, TRON and KASPA without
touching the network.

Mnemonics are never read from the command line for derive and sign. Pipe
them on stdin or type them at the prompt, where echo is disabled.

Settings are read from $XDG_CONFIG_HOME/airgap/config.toml and AIRGAP_*
environment variables, e.g. AIRGAP_EVM_CHAIN_ID=56.`,
		Example: `  airgap generate --words 12
  airgap derive eth --index 3
  airgap derive btc --btc-type legacy --count 5
  pass show wallet | airgap derive kaspa --json
  airgap sign eth tx.json
  airgap validate-address btc bc1qcr8te4kr609gcawutmrza0j4xv80jy8z306fyu
  airgap detect TJCnKsPa7y5okkXvQAidZBzqx3QyQ6sxMW`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			c, err := config.Load(v, configPath)
			if err != nil {
				return err //nolint: wrapcheck
			}
			cfg = c
			log.Init(os.Stderr, cfg.Log.Level, cfg.Log.JSON)
			return nil
		},
	}

	generateCmd = &cobra.Command{
		Use:   "generate",
		Short: "Generate a new mnemonic",
		Long: `Generate a new random English BIP-39 mnemonic.

Valid word counts are: 12, 15, 18, 21, or 24.`,
		Example: `  airgap generate
  airgap generate --words 12`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			phrase, err := airgap.GenerateMnemonic(cfg.Wallet.DefaultWords)
			if err != nil {
				return fmt.Errorf("could not generate mnemonic: %w", err)
			}
			fmt.Println(phrase)
			return nil
		},
	}

	validateMnemonicCmd = &cobra.Command{
		Use:   "validate-mnemonic [phrase...]",
		Short: "Check a mnemonic",
		Long: `Check that a mnemonic has a valid word count, only English BIP-39 words
and a matching checksum. Without arguments the phrase is read from stdin or
the terminal.`,
		Example: `  airgap validate-mnemonic
  echo "abandon abandon ... about" | airgap validate-mnemonic`,
		SilenceUsage: true,
		RunE: func(_ *cobra.Command, args []string) error {
			phrase := strings.Join(args, " ")
			if phrase == "" {
				var err error
				if phrase, err = readMnemonic(false); err != nil {
					return err
				}
			}
			info, err := mnemonic.Info(phrase)
			if err != nil {
				return err //nolint: wrapcheck
			}
			if jsonOutput {
				return printJSON(info)
			}
			fmt.Printf("valid (%d words)\n", info.WordCount)
			return nil
		},
	}

	deriveCmd = &cobra.Command{
		Use:   "derive <chain>",
		Short: "Derive receive addresses",
		Long: `Derive receive addresses for a chain: eth, bnb, btc, sol, tron or kaspa.

The address index is taken from --index, or from the last segment of --path.
Each chain always uses its own path prefix.`,
		Example: `  airgap derive eth
  airgap derive btc --btc-type segwit --index 2
  airgap derive sol --path "m/44'/501'/0'/0'/7"
  airgap derive kaspa --kaspa-network testnet --count 3 --json`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeChains,
		SilenceUsage:      true,
		RunE: func(cmd *cobra.Command, args []string) error {
			chain, err := chains.Parse(args[0])
			if err != nil {
				return err //nolint: wrapcheck
			}
			start := deriveIndex
			if cmd.Flags().Changed("path") {
				start = hdkey.IndexFromPath(derivePath)
			}
			if err := checkIndexRange(start, deriveCount); err != nil {
				return err
			}

			phrase, err := readMnemonic(false)
			if err != nil {
				return err
			}
			opts, err := walletOptions()
			if err != nil {
				return err
			}

			addrs := make([]*chains.Address, 0, deriveCount)
			for i := range deriveCount {
				addr, err := airgap.DeriveAddressAtIndex(chain, phrase, start+i, opts)
				if err != nil {
					return fmt.Errorf("could not derive %s address: %w", chain, err)
				}
				addrs = append(addrs, addr)
			}

			if jsonOutput {
				if len(addrs) == 1 {
					return printJSON(addrs[0])
				}
				return printJSON(addrs)
			}
			for _, a := range addrs {
				fmt.Printf("%-22s %s\n", a.DerivationPath, a.Address)
			}
			return nil
		},
	}

	signCmd = &cobra.Command{
		Use:   "sign <chain> [tx.json|-]",
		Short: "Sign a transfer request",
		Long: `Sign a JSON transfer request for a chain and print the signed result as JSON.

The request is read from the named file, or from stdin when the file is "-"
or omitted. When the request comes from stdin the mnemonic is prompted for
on the terminal.

Request fields:
  eth, bnb  to, value, gas_price, gas_limit, nonce, data?
  btc       to, amount, fee_rate?
  sol       to, amount, recent_blockhash?
  tron      to, value, gas_price?, gas_limit?
  kaspa     to, amount, fee?

An optional "index" selects the signing key.`,
		Example: `  airgap sign eth tx.json
  airgap sign bnb tx.json --chain-id 56
  cat tx.json | airgap sign sol`,
		Args:              cobra.RangeArgs(1, 2), //nolint:mnd
		ValidArgsFunction: completeChains,
		SilenceUsage:      true,
		RunE: func(_ *cobra.Command, args []string) error {
			chain, err := chains.Parse(args[0])
			if err != nil {
				return err //nolint: wrapcheck
			}
			txPath := "-"
			if len(args) > 1 {
				txPath = args[1]
			}

			f, err := openFileOrStdin(txPath)
			if err != nil {
				return err
			}
			defer f.Close() //nolint: errcheck
			txJSON, err := io.ReadAll(f)
			if err != nil {
				return fmt.Errorf("could not read transaction: %w", err)
			}

			phrase, err := readMnemonic(f == os.Stdin)
			if err != nil {
				return err
			}
			opts, err := walletOptions()
			if err != nil {
				return err
			}

			signed, err := airgap.SignTransactionWithOptions(chain, phrase, string(txJSON), opts)
			if err != nil {
				return fmt.Errorf("could not sign %s transaction: %w", chain, err)
			}
			fmt.Println(signed)
			return nil
		},
	}

	validateAddressCmd = &cobra.Command{
		Use:   "validate-address <chain> <address>",
		Short: "Check an address",
		Long: `Check that an address is well formed for a chain. The command exits with
a non-zero status when it is not.`,
		Example: `  airgap validate-address eth 0x9858effd232b4033e47d90003d41ec34ecaeda94
  airgap validate-address kaspa kaspa:qp0l70zd5x85ttwd6jv7g3s3a8llzj96d8dncn4zmhv4tlzx5k2jyqh70xmfj --json`,
		Args:              cobra.ExactArgs(2), //nolint:mnd
		ValidArgsFunction: completeChains,
		SilenceUsage:      true,
		RunE: func(_ *cobra.Command, args []string) error {
			r := airgap.ValidateAddressWithMessage(args[0], args[1])
			if jsonOutput {
				if err := printJSON(r); err != nil {
					return err
				}
			} else if r.IsValid {
				fmt.Println("valid")
			}
			if !r.IsValid {
				return fmt.Errorf("%w: %s", errInvalid, r.ErrorMessage)
			}
			return nil
		},
	}

	detectCmd = &cobra.Command{
		Use:   "detect <address>",
		Short: "List the chains an address is valid for",
		Example: `  airgap detect 0x9858effd232b4033e47d90003d41ec34ecaeda94
  airgap detect bc1qcr8te4kr609gcawutmrza0j4xv80jy8z306fyu`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(_ *cobra.Command, args []string) error {
			found := airgap.DetectChains(args[0])
			if len(found) == 0 {
				return fmt.Errorf("%w: %q is not an address of any supported chain", errInvalid, args[0])
			}
			if jsonOutput {
				return printJSON(found)
			}
			for _, c := range found {
				fmt.Println(c)
			}
			return nil
		},
	}

	manCmd = &cobra.Command{
		Use:          "man",
		Args:         cobra.NoArgs,
		Short:        "generate man pages",
		Hidden:       true,
		SilenceUsage: true,
		RunE: func(*cobra.Command, []string) error {
			manPage, err := mcobra.NewManPage(1, rootCmd)
			if err != nil {
				//nolint: wrapcheck
				return err
			}
			manPage = manPage.WithSection("Copyright", "(C) 2025-2026 complex.\n"+
				"Released under MIT license.")
			fmt.Println(manPage.Build(roff.NewDocument()))
			return nil
		},
	}

	// completionCmd generates shell completion scripts for bash, zsh, fish, and powershell.
	completionCmd = &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion script",
		Long: `Generate shell completion script for airgap.

To load completions:

Bash:
  $ source <(airgap completion bash)

Zsh:
  $ airgap completion zsh > "${fpath[1]}/_airgap"

Fish:
  $ airgap completion fish | source

PowerShell:
  PS> airgap completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		SilenceUsage:          true,
		RunE: func(_ *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return rootCmd.GenBashCompletion(os.Stdout)
			case "zsh":
				return rootCmd.GenZshCompletion(os.Stdout)
			case "fish":
				return rootCmd.GenFishCompletion(os.Stdout, true)
			case "powershell":
				return rootCmd.GenPowerShellCompletionWithDesc(os.Stdout)
			default:
				return fmt.Errorf("unknown shell: %s", args[0])
			}
		},
	}
)

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&configPath, "config", "c", "", "Config file (default "+config.DefaultPath()+")")
	pf.String("log-level", "info", "Log level (trace, debug, info, warn, error, off)")
	pf.Bool("log-json", false, "Log as JSON lines on stderr")
	pf.BoolVar(&jsonOutput, "json", false, "Print results as JSON")
	bindFlag(config.KeyLogLevel, pf.Lookup("log-level"))
	bindFlag(config.KeyLogJSON, pf.Lookup("log-json"))

	generateCmd.Flags().IntP("words", "w", 24, "Word count (12, 15, 18, 21 or 24)") //nolint:mnd
	bindFlag(config.KeyDefaultWords, generateCmd.Flags().Lookup("words"))

	for _, cmd := range []*cobra.Command{deriveCmd, signCmd} {
		cmd.Flags().BoolVarP(&askPassphrase, "passphrase", "p", false, "Prompt for a BIP-39 passphrase")
	}

	df := deriveCmd.Flags()
	df.StringVar(&derivePath, "path", "", "Derivation path whose last segment selects the index")
	df.Uint32VarP(&deriveIndex, "index", "i", 0, "First address index")
	df.Uint32VarP(&deriveCount, "count", "n", 1, "Number of consecutive addresses")
	df.String("btc-type", string(chains.NativeSegwit), "Bitcoin address type (legacy, segwit, native_segwit)")
	df.String("kaspa-network", "mainnet", "Kaspa network (mainnet, testnet, simnet, devnet)")
	df.Bool("kaspa-ecdsa", false, "Derive ECDSA Kaspa addresses")
	deriveCmd.MarkFlagsMutuallyExclusive("path", "index")
	bindFlag(config.KeyBitcoinAddressType, df.Lookup("btc-type"))
	bindFlag(config.KeyKaspaNetwork, df.Lookup("kaspa-network"))
	bindFlag(config.KeyKaspaECDSA, df.Lookup("kaspa-ecdsa"))

	signCmd.Flags().Uint64("chain-id", chains.DefaultEVMChainID, "EIP-155 chain id for eth and bnb")
	bindFlag(config.KeyEVMChainID, signCmd.Flags().Lookup("chain-id"))

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(validateMnemonicCmd)
	rootCmd.AddCommand(deriveCmd)
	rootCmd.AddCommand(signCmd)
	rootCmd.AddCommand(validateAddressCmd)
	rootCmd.AddCommand(detectCmd)
	rootCmd.AddCommand(manCmd)
	rootCmd.AddCommand(completionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.CLI.Debug().Err(err).Msg("command failed")
		printError(err)
		os.Exit(1)
	}
}

func bindFlag(key string, flag *pflag.Flag) {
	if err := v.BindPFlag(key, flag); err != nil {
		panic(err)
	}
}

func completeChains(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	names := make([]string, 0, len(chains.All))
	for _, c := range chains.All {
		names = append(names, strings.ToLower(c.String()))
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}

// checkIndexRange rejects an empty range and one that runs past the last
// 32-bit index.
func checkIndexRange(start, count uint32) error {
	if count == 0 {
		return fmt.Errorf("%w: --count must be at least 1", errInvalid)
	}
	if uint64(start)+uint64(count)-1 > math.MaxUint32 {
		return fmt.Errorf("%w: index %d + count %d exceeds %d", errInvalid, start, count, uint32(math.MaxUint32))
	}
	return nil
}

// walletOptions resolves the loaded settings, prompting for a passphrase
// when --passphrase is set.
func walletOptions() (airgap.Options, error) {
	opts := cfg.Options()
	if askPassphrase {
		pass, err := readPassword("Enter BIP-39 passphrase: ")
		if err != nil {
			return opts, err
		}
		opts.Passphrase = string(pass)
	}
	return opts, nil
}

// readMnemonic reads the mnemonic from a stdin pipe, or from the terminal
// when stdin is not a pipe or already carries other input.
func readMnemonic(stdinTaken bool) (string, error) {
	if !stdinTaken {
		if fi, _ := os.Stdin.Stat(); (fi.Mode() & os.ModeNamedPipe) != 0 {
			bts, err := io.ReadAll(os.Stdin)
			if err != nil {
				return "", fmt.Errorf("could not read mnemonic: %w", err)
			}
			return strings.TrimSpace(string(bts)), nil
		}
	}

	phrase, err := readPassword("Enter mnemonic: ")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(phrase)), nil
}

func openFileOrStdin(path string) (*os.File, error) {
	if path == "-" {
		return os.Stdin, nil
	}

	// G304: path is user-provided input, which is expected for a CLI tool
	f, err := os.Open(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("could not open %s: %w", path, err)
	}
	return f, nil
}

func printJSON(x any) error {
	bts, err := json.MarshalIndent(x, "", "  ")
	if err != nil {
		return fmt.Errorf("could not encode output: %w", err)
	}
	fmt.Println(string(bts))
	return nil
}

func getWidth(maxw int) int {
	w, _, err := term.GetSize(int(os.Stdout.Fd())) //nolint: gosec
	if err != nil || w > maxw {
		return maxWidth
	}
	return w
}

func renderBlock(w io.Writer, s lipgloss.Style, width int, str string) {
	_, _ = io.WriteString(w, s.Width(width).Render(str))
	_, _ = io.WriteString(w, "\n")
}

// printError shows err in a styled block on a terminal and as a plain
// line otherwise.
func printError(err error) {
	if !isatty.IsTerminal(os.Stderr.Fd()) {
		_, _ = fmt.Fprintln(os.Stderr, "Error:", err)
		return
	}
	b := strings.Builder{}
	w := getWidth(maxWidth)

	b.WriteRune('\n')
	renderBlock(&b, errorStyle, w, err.Error())
	b.WriteRune('\n')

	_, _ = fmt.Fprint(os.Stderr, b.String())
}

func completeColor(truecolor, ansi256, ansi string) string {
	//nolint: exhaustive
	switch lipgloss.ColorProfile() {
	case termenv.TrueColor:
		return truecolor
	case termenv.ANSI256:
		return ansi256
	}
	return ansi
}

func readPassword(msg string) ([]byte, error) {
	_, _ = fmt.Fprint(os.Stderr, msg)
	t, err := tty.Open()
	if err != nil {
		return nil, fmt.Errorf("could not open tty: %w", err)
	}
	defer t.Close()                                     //nolint: errcheck
	pass, err := term.ReadPassword(int(t.Input().Fd())) //nolint: gosec
	_, _ = fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("could not read input: %w", err)
	}
	return pass, nil
}
