// cmd/web3tx/send.go
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/altuslabsxyz/web3tx/pkg/network/evm"
	"github.com/altuslabsxyz/web3tx/pkg/transaction"
)

// NewSendCmd creates the send command.
func NewSendCmd() *cobra.Command {
	var (
		wei bool
		yes bool
	)

	cmd := &cobra.Command{
		Use:   "send <to> <amount>",
		Short: "Send native currency to an address",
		Long: `Send native currency to an address and wait for the configured milestone.

The amount is in whole currency units (e.g. 0.5 ETH) unless --wei is given.

Examples:
  # Send 0.5 ETH on the default chain
  web3tx send 0x65aBbdEd9B937E38480A50eca85A8E4D2c8350E4 0.5

  # Send 1000 wei on BSC, return as soon as the node accepted it
  web3tx send 0x65aBbdEd9B937E38480A50eca85A8E4D2c8350E4 1000 --wei --chain bsc --wait sent`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := parseAmount(args[1], wei)
			if err != nil {
				return err
			}

			reports, err := runRequests(cmd, []txRequest{{
				Config: transaction.Config{To: args[0], Value: value},
				Yes:    yes,
			}})
			if err != nil {
				return err
			}
			return out.JSON(reports[0])
		},
	}

	cmd.Flags().BoolVar(&wei, "wei", false, "Amount is in base units (wei)")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Send without asking for confirmation")

	return cmd
}

// parseAmount reads a decimal amount, or an integer base-unit amount with wei.
func parseAmount(s string, wei bool) (transaction.Amount, error) {
	if !wei {
		return transaction.ParseDecimal(s)
	}
	n, err := evm.ParseInteger(s)
	if err != nil {
		return transaction.Amount{}, fmt.Errorf("%w: %w", transaction.ErrInvalidValue, err)
	}
	return transaction.BaseUnits(n), nil
}
