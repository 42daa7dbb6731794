// cmd/web3tx/call.go
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/altuslabsxyz/web3tx/internal/config"
	"github.com/altuslabsxyz/web3tx/internal/interactive"
	"github.com/altuslabsxyz/web3tx/pkg/network/evm"
)

// NewCallCmd creates the call command.
func NewCallCmd() *cobra.Command {
	var (
		abiPath    string
		value      string
		wei        bool
		paramsFile string
		yes        bool
	)

	cmd := &cobra.Command{
		Use:   "call <address> [method] [params]",
		Short: "Call a state-changing contract method",
		Long: `Call a contract method by name and wait for the configured milestone.

Parameters are a YAML or JSON document: either a list in declaration order,
or a mapping from parameter name to value. Integers may be given as decimal
or 0x-prefixed hex strings to avoid precision loss.

Without a method on an interactive terminal, web3tx lists the contract's
state-changing methods and prompts for each argument.

Examples:
  # Positional parameters
  web3tx call 0xRouter withdraw '["0xToken", "1000"]' --abi router.json

  # Named parameters from a file, attaching 0.01 native currency
  web3tx call 0xRouter route --params-file route.yaml --abi router.json --value 0.01

  # Pick the method interactively
  web3tx call 0xRouter --abi router.json`,
		Args: cobra.RangeArgs(1, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			if abiPath == "" {
				return fmt.Errorf("--abi is required")
			}
			contract, err := evm.LoadABI(abiPath)
			if err != nil {
				return err
			}

			req := txRequest{Yes: yes}
			req.Config.To = args[0]

			switch {
			case len(args) >= 2:
				req.Config.Method = args[1]
				raw, err := readParams(args, paramsFile)
				if err != nil {
					return err
				}
				if raw != nil {
					if req.Config.Params, err = config.ParseParams(raw); err != nil {
						return err
					}
				}
			case interactive.IsTerminal() && !out.IsJSONMode():
				selection, err := interactive.NewSelector(contract).RunCallFlow(value)
				if err != nil {
					return err
				}
				req.Config.Method = selection.Method
				req.Config.Params = selection.Params
				value = selection.Value
			default:
				return fmt.Errorf("method is required in non-interactive mode")
			}

			req.Config.Contract = contract
			if value != "" {
				if req.Config.Value, err = parseAmount(value, wei); err != nil {
					return err
				}
			}

			reports, err := runRequests(cmd, []txRequest{req})
			if err != nil {
				return err
			}
			return out.JSON(reports[0])
		},
	}

	cmd.Flags().StringVar(&abiPath, "abi", "", "Path to the contract's JSON ABI (required)")
	cmd.Flags().StringVar(&value, "value", "", "Native currency to attach")
	cmd.Flags().BoolVar(&wei, "wei", false, "Value is in base units (wei)")
	cmd.Flags().StringVar(&paramsFile, "params-file", "", "Read parameters from a YAML or JSON file")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Send without asking for confirmation")

	return cmd
}

// readParams returns the raw parameter document from the third argument or
// from paramsFile. Neither means the method takes no arguments.
func readParams(args []string, paramsFile string) ([]byte, error) {
	switch {
	case len(args) == 3 && paramsFile != "":
		return nil, fmt.Errorf("give parameters either inline or with --params-file, not both")
	case len(args) == 3:
		return []byte(args[2]), nil
	case paramsFile != "":
		data, err := os.ReadFile(paramsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read params file: %w", err)
		}
		return data, nil
	default:
		return nil, nil
	}
}
