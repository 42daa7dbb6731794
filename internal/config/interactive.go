package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"sort"
	"strconv"

	"github.com/manifoldco/promptui"
	"golang.org/x/term"

	"github.com/altuslabsxyz/web3tx/pkg/transaction"
)

// InteractiveSetup handles interactive configuration prompts.
type InteractiveSetup struct {
	homeDir  string
	writer   *ConfigWriter
	defaults *FileConfig
}

// NewInteractiveSetup creates a new InteractiveSetup for the given home directory.
func NewInteractiveSetup(homeDir string) *InteractiveSetup {
	return &InteractiveSetup{
		homeDir:  homeDir,
		writer:   NewConfigWriter(homeDir),
		defaults: &FileConfig{},
	}
}

// IsInteractive returns true if the terminal supports interactive input.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// ShouldPrompt returns true if interactive prompts should be shown.
// Returns true if: terminal is interactive AND config doesn't exist.
func (s *InteractiveSetup) ShouldPrompt() bool {
	return IsInteractive() && !s.writer.Exists()
}

// ConfigExists returns true if config.toml exists in homeDir.
func (s *InteractiveSetup) ConfigExists() bool {
	return s.writer.Exists()
}

// Path returns where WriteConfig saves the configuration.
func (s *InteractiveSetup) Path() string {
	return s.writer.Path()
}

// LoadDefaults loads existing config values to use as defaults in prompts.
func (s *InteractiveSetup) LoadDefaults() *FileConfig {
	if !s.writer.Exists() {
		return s.defaults
	}

	loader := NewConfigLoader(s.homeDir, s.writer.Path(), nil)
	cfg, _, err := loader.LoadFileConfig()
	if err != nil {
		return s.defaults
	}

	s.defaults = cfg
	return cfg
}

// Run executes the interactive configuration flow.
// Returns the configured FileConfig or error if cancelled.
func (s *InteractiveSetup) Run() (*FileConfig, error) {
	cfg := s.LoadDefaults()

	fmt.Println()
	fmt.Println("Welcome to web3tx configuration!")
	fmt.Println("Press Ctrl+C at any time to cancel.")
	fmt.Println()

	chain, err := s.promptChain(cfg)
	if err != nil {
		return nil, err
	}
	cfg.Chain = &chain

	rpc, err := s.promptRPC(cfg, chain)
	if err != nil {
		return nil, err
	}
	if cfg.Chains == nil {
		cfg.Chains = make(map[string]*ChainConfig)
	}
	chainCfg := cfg.Chains[chain]
	if chainCfg == nil {
		chainCfg = &ChainConfig{}
		cfg.Chains[chain] = chainCfg
	}
	chainCfg.RPC = &rpc

	if _, preset := transaction.Presets()[chain]; !preset {
		id, err := s.promptChainID(chainCfg)
		if err != nil {
			return nil, err
		}
		chainCfg.ChainID = &id
	}

	wait, err := s.promptWait(cfg)
	if err != nil {
		return nil, err
	}
	cfg.Wait = &wait

	keyEnv, err := s.promptKeyEnv(cfg)
	if err != nil {
		return nil, err
	}
	if cfg.Signer == nil {
		cfg.Signer = &SignerConfig{}
	}
	cfg.Signer.KeyEnv = &keyEnv

	return cfg, nil
}

// RunWithDefaults returns a FileConfig with default values.
// Used when terminal is non-interactive.
func (s *InteractiveSetup) RunWithDefaults() *FileConfig {
	chain := transaction.Ethereum.Name
	wait := "ensured"
	keyEnv := EnvPrivateKey

	return &FileConfig{
		Chain:  &chain,
		Wait:   &wait,
		Signer: &SignerConfig{KeyEnv: &keyEnv},
	}
}

// WriteConfig writes the configuration to homeDir/config.toml.
func (s *InteractiveSetup) WriteConfig(cfg *FileConfig) error {
	return s.writer.Write(cfg)
}

func selectTemplates(selected string) *promptui.SelectTemplates {
	return &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "▸ {{ . | cyan }}",
		Inactive: "  {{ . }}",
		Selected: "✓ " + selected + ": {{ . | green }}",
	}
}

func promptTemplates(success string) *promptui.PromptTemplates {
	return &promptui.PromptTemplates{
		Prompt:  "{{ . }}: ",
		Valid:   "{{ . | green }}: ",
		Invalid: "{{ . | red }}: ",
		Success: "✓ " + success + ": ",
	}
}

// promptChain prompts the user to select the default chain.
func (s *InteractiveSetup) promptChain(cfg *FileConfig) (string, error) {
	options := make([]string, 0, len(cfg.Chains)+2)
	for name := range transaction.Presets() {
		options = append(options, name)
	}
	for name := range cfg.Chains {
		if _, preset := transaction.Presets()[name]; !preset {
			options = append(options, name)
		}
	}
	sort.Strings(options)

	defaultIdx := 0
	if cfg.Chain != nil {
		for i, o := range options {
			if o == *cfg.Chain {
				defaultIdx = i
			}
		}
	}

	prompt := promptui.SelectWithAdd{
		Label:    "Select default chain",
		Items:    options,
		AddLabel: "Other (custom chain name)",
	}
	idx, result, err := prompt.Run()
	if err != nil {
		return "", handlePromptError(err)
	}
	if idx == -1 && result == "" {
		return options[defaultIdx], nil
	}
	return result, nil
}

// promptRPC prompts for the chain's JSON-RPC endpoint.
func (s *InteractiveSetup) promptRPC(cfg *FileConfig, chain string) (string, error) {
	defaultValue := ""
	if c := cfg.Chains[chain]; c != nil && c.RPC != nil {
		defaultValue = *c.RPC
	}

	prompt := promptui.Prompt{
		Label:     fmt.Sprintf("RPC endpoint for %s", chain),
		Default:   defaultValue,
		Validate:  validateEndpoint,
		Templates: promptTemplates("RPC"),
	}

	result, err := prompt.Run()
	if err != nil {
		return "", handlePromptError(err)
	}
	return result, nil
}

func validateEndpoint(input string) error {
	u, err := url.Parse(input)
	if err != nil || u.Host == "" {
		return fmt.Errorf("please enter a URL such as http://localhost:8545")
	}
	switch u.Scheme {
	case "http", "https", "ws", "wss":
		return nil
	}
	return fmt.Errorf("scheme must be http, https, ws or wss")
}

// promptChainID prompts for the numeric chain ID of a custom chain.
func (s *InteractiveSetup) promptChainID(chain *ChainConfig) (uint64, error) {
	defaultValue := ""
	if chain.ChainID != nil {
		defaultValue = strconv.FormatUint(*chain.ChainID, 10)
	}

	prompt := promptui.Prompt{
		Label:   "Chain ID",
		Default: defaultValue,
		Validate: func(input string) error {
			id, err := strconv.ParseUint(input, 10, 64)
			if err != nil || id == 0 {
				return fmt.Errorf("please enter a positive number")
			}
			return nil
		},
		Templates: promptTemplates("Chain ID"),
	}

	result, err := prompt.Run()
	if err != nil {
		return 0, handlePromptError(err)
	}
	id, _ := strconv.ParseUint(result, 10, 64)
	return id, nil
}

// promptWait prompts for the milestone commands block on.
func (s *InteractiveSetup) promptWait(cfg *FileConfig) (string, error) {
	defaultIdx := len(ValidWaits) - 1
	if cfg.Wait != nil {
		for i, w := range ValidWaits {
			if w == *cfg.Wait {
				defaultIdx = i
			}
		}
	}

	prompt := promptui.Select{
		Label:     "Wait for",
		Items:     ValidWaits,
		CursorPos: defaultIdx,
		Templates: selectTemplates("Wait"),
	}

	_, result, err := prompt.Run()
	if err != nil {
		return "", handlePromptError(err)
	}
	return result, nil
}

// promptKeyEnv prompts for the environment variable holding the signing key.
func (s *InteractiveSetup) promptKeyEnv(cfg *FileConfig) (string, error) {
	defaultValue := EnvPrivateKey
	if cfg.Signer != nil && cfg.Signer.KeyEnv != nil {
		defaultValue = *cfg.Signer.KeyEnv
	}

	prompt := promptui.Prompt{
		Label:     "Private key environment variable",
		Default:   defaultValue,
		Templates: promptTemplates("Key env"),
	}

	result, err := prompt.Run()
	if err != nil {
		return "", handlePromptError(err)
	}
	if result == "" {
		result = EnvPrivateKey
	}
	return result, nil
}

// handlePromptError converts promptui errors to user-friendly messages.
func handlePromptError(err error) error {
	if errors.Is(err, promptui.ErrInterrupt) {
		return fmt.Errorf("configuration cancelled")
	}
	if errors.Is(err, promptui.ErrEOF) {
		return fmt.Errorf("configuration cancelled (EOF)")
	}
	return err
}
