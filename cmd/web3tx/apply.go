// cmd/web3tx/apply.go
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/altuslabsxyz/web3tx/internal/config"
	"github.com/altuslabsxyz/web3tx/internal/interactive"
	"github.com/altuslabsxyz/web3tx/pkg/transaction"
)

// NewApplyCmd creates the apply command.
func NewApplyCmd() *cobra.Command {
	var (
		filePath string
		dryRun   bool
		yes      bool
	)

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Submit transactions described in YAML manifests",
		Long: `Submit transactions described in a YAML file or directory.

Each document is a Transaction manifest. Documents are submitted one after
another in file order; the first failure stops the run.

  apiVersion: web3tx/v1
  kind: Transaction
  metadata:
    name: withdraw-fees
  spec:
    chain: bsc
    to: "0x65aBbdEd9B937E38480A50eca85A8E4D2c8350E4"
    abi: router.json
    method: withdraw
    params: ["0xa0bEd124a09ac2Bd941b10349d8d224fe3c955eb", "1000"]
    wait: confirmed

Examples:
  # Submit all manifests in a directory
  web3tx apply -f ./transactions/ --yes

  # Preview without sending
  web3tx apply -f withdraw.yaml --dry-run`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if filePath == "" {
				return fmt.Errorf("--file/-f is required")
			}
			return runApply(cmd, filePath, dryRun, yes)
		},
	}

	cmd.Flags().StringVarP(&filePath, "file", "f", "", "Path to YAML file or directory (required)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Validate and preview without sending")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Send without asking for confirmation")

	return cmd
}

// runApply is the main execution function for the apply command
func runApply(cmd *cobra.Command, filePath string, dryRun, yes bool) error {
	manifests, err := config.NewYAMLLoader().Load(filePath)
	if err != nil {
		return fmt.Errorf("failed to load manifests: %w", err)
	}

	validator := config.NewYAMLValidator()
	reqs := make([]txRequest, 0, len(manifests))
	for i := range manifests {
		m := &manifests[i]
		for _, w := range validator.Validate(m).Warnings {
			out.Warn("%s: %s", m.Metadata.Name, w.Error())
		}

		txCfg, err := m.ToConfig(effective.Chain.Value, config.LoadEVMABI)
		if err != nil {
			return err
		}
		if txCfg.Method != "" {
			if _, _, err := transaction.ResolveArguments(txCfg.Contract, txCfg.Method, txCfg.Params); err != nil {
				return fmt.Errorf("%s: %w", m.Metadata.Name, err)
			}
		}
		reqs = append(reqs, txRequest{
			Name:   m.Metadata.Name,
			Config: txCfg,
			Wait:   m.Spec.Wait,
			Yes:    yes,
		})
	}

	if dryRun {
		previews := make([]applyPreview, 0, len(reqs))
		for _, req := range reqs {
			p, err := previewRequest(req)
			if err != nil {
				return err
			}
			previews = append(previews, p)
			if !out.IsJSONMode() {
				out.Bold("transaction/%s (dry-run)", req.Name)
				interactive.PrintSummary(out.Writer(), p.Summary)
			}
		}
		out.Info("Run without --dry-run to submit.")
		return out.JSON(previews)
	}

	reports, err := runRequests(cmd, reqs)
	if jsonErr := out.JSON(reports); jsonErr != nil && err == nil {
		err = jsonErr
	}
	if err != nil {
		return err
	}
	out.Success("%d transaction(s) submitted", len(reports))
	return nil
}

// applyPreview is what --dry-run reports for one manifest.
type applyPreview struct {
	Name    string              `json:"name"`
	Wait    string              `json:"wait"`
	Summary interactive.Summary `json:"summary"`
}

// previewRequest resolves chain and value without loading a signing key.
func previewRequest(req txRequest) (applyPreview, error) {
	chain := req.Config.Chain
	if chain == "" {
		chain = effective.Chain.Value
	}
	network, err := effective.Network(chain)
	if err != nil {
		return applyPreview{}, fmt.Errorf("%s: %w", req.Name, err)
	}
	value, err := transaction.NormalizeValue(req.Config.Value, network.Chain.Decimals)
	if err != nil {
		return applyPreview{}, fmt.Errorf("%s: %w", req.Name, err)
	}

	wait := req.Wait
	if wait == "" {
		wait = effective.Wait.Value
	}
	return applyPreview{
		Name: req.Name,
		Wait: wait,
		Summary: interactive.Summary{
			Chain:         chain,
			From:          req.Config.From,
			To:            req.Config.To,
			Method:        req.Config.Method,
			Args:          describeParams(req.Config.Params),
			Value:         transaction.FormatValue(value, network.Chain.Decimals),
			Confirmations: network.Chain.Confirmations,
		},
	}, nil
}
