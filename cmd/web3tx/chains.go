// cmd/web3tx/chains.go
package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/altuslabsxyz/web3tx/internal/config"
)

// chainInfo is the JSON rendering of one network.
type chainInfo struct {
	Name          string `json:"name"`
	ChainID       uint64 `json:"chain_id"`
	Decimals      uint8  `json:"decimals"`
	Confirmations uint64 `json:"confirmations"`
	ExplorerTxURL string `json:"explorer_tx_url,omitempty"`
	RPC           string `json:"rpc,omitempty"`
	Default       bool   `json:"default"`
}

// NewChainsCmd creates the chains command.
func NewChainsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chains",
		Short: "List the chains transactions can target",
		Long: `List built-in chain presets merged with the [chains] tables of the config file.

RPC endpoints are shown up to the host; paths often carry API keys.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			networks, err := effective.Networks()
			if err != nil {
				return err
			}

			infos := make([]chainInfo, len(networks))
			for i, n := range networks {
				infos[i] = chainInfo{
					Name:          n.Chain.Name,
					ChainID:       n.Chain.ChainID,
					Decimals:      n.Chain.Decimals,
					Confirmations: n.Chain.Confirmations,
					ExplorerTxURL: n.Chain.ExplorerTxURL,
					RPC:           config.MaskURL(n.RPC),
					Default:       n.Chain.Name == effective.Chain.Value,
				}
			}

			if out.IsJSONMode() {
				return out.JSON(infos)
			}

			tw := tabwriter.NewWriter(out.Writer(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tCHAIN ID\tDECIMALS\tCONFIRMATIONS\tRPC")
			for _, c := range infos {
				name := c.Name
				if c.Default {
					name += " *"
				}
				rpc := c.RPC
				if rpc == "" {
					rpc = "(not set)"
				}
				fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%s\n", name, c.ChainID, c.Decimals, c.Confirmations, rpc)
			}
			return tw.Flush()
		},
	}
}
