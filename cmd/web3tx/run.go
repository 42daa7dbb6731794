// cmd/web3tx/run.go
package main

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/altuslabsxyz/web3tx/internal/interactive"
	"github.com/altuslabsxyz/web3tx/internal/output"
	"github.com/altuslabsxyz/web3tx/pkg/transaction"
)

// txRequest is one transaction a command wants submitted.
type txRequest struct {
	Name   string
	Config transaction.Config
	Wait   string // milestone name; empty uses the configured wait
	Yes    bool   // skip the confirmation prompt
}

// runRequests builds the engine once and submits each request in order,
// stopping at the first failure.
func runRequests(cmd *cobra.Command, reqs []txRequest) ([]output.TxReport, error) {
	e, err := newEngine(effective, newLogger(effective, cmd.ErrOrStderr()))
	if err != nil {
		return nil, err
	}
	defer e.Close()

	reports := make([]output.TxReport, 0, len(reqs))
	for _, req := range reqs {
		report, err := e.submit(cmd.Context(), req)
		reports = append(reports, report)
		if err != nil {
			if req.Name != "" {
				err = fmt.Errorf("%s: %w", req.Name, err)
			}
			return reports, err
		}
	}
	return reports, nil
}

// submit creates the transaction, asks for confirmation, sends it and waits
// for the requested milestone or a failure, whichever comes first.
func (e *engine) submit(ctx context.Context, req txRequest) (output.TxReport, error) {
	cfg := req.Config
	if cfg.Chain == "" {
		cfg.Chain = e.cfg.Chain.Value
	}
	cfg.Registry = e.registry
	cfg.Logger = e.logger

	network, err := e.network(cfg.Chain)
	if err != nil {
		return output.TxReport{Name: req.Name, Chain: cfg.Chain, To: cfg.To, State: transaction.StatePending.String(), Error: err.Error()}, err
	}
	decimals := network.Chain.Decimals

	tx, err := transaction.New(cfg)
	if err != nil {
		return output.TxReport{Name: req.Name, Chain: cfg.Chain, To: cfg.To, State: transaction.StatePending.String(), Error: err.Error()}, err
	}

	report := func() output.TxReport {
		r := output.ReportOf(tx, decimals)
		r.Name = req.Name
		return r
	}

	if err := e.confirm(ctx, req, tx, network.Chain); err != nil {
		return report(), err
	}

	wait := req.Wait
	if wait == "" {
		wait = e.cfg.Wait.Value
	}
	target := transaction.Milestone(wait)

	progress := output.NewProgress(out.Writer())
	progress.SetAnimate(interactive.IsTerminal() && !out.IsVerbose())
	progress.SetJSONMode(out.IsJSONMode())
	progress.Watch(tx, target)

	if _, err := tx.Submit(ctx); err != nil {
		r := report()
		r.Error = err.Error()
		out.PrintFailure(r)
		return r, err
	}

	if err := awaitOutcome(ctx, tx, target); err != nil {
		r := report()
		if r.Error == "" {
			r.Error = err.Error()
		}
		out.PrintFailure(r)
		return r, err
	}

	r := report()
	progress.Done(fmt.Sprintf("%s reached %s", tx.ID(), target))
	out.PrintTransaction(r)
	return r, nil
}

// confirm asks the user before anything is sent.
func (e *engine) confirm(ctx context.Context, req txRequest, tx *transaction.Transaction, chain transaction.Chain) error {
	if req.Yes {
		return nil
	}
	if out.IsJSONMode() || !interactive.IsTerminal() {
		return errNeedsConfirmation
	}

	ok, err := interactive.ConfirmSubmission(interactive.Summary{
		Chain:         chain.Name,
		From:          e.signer(ctx),
		To:            tx.To(),
		Method:        tx.Method(),
		Args:          describeParams(tx.Params()),
		Value:         transaction.FormatValue(tx.Value(), chain.Decimals),
		Confirmations: chain.Confirmations,
	})
	if err != nil {
		return err
	}
	if !ok {
		return errNotConfirmedByUser
	}
	return nil
}

// awaitOutcome blocks until target fires, the transaction fails, or ctx is
// done. A failure returns the recorded cause. Its callbacks are queued after
// the progress ones, so every progress line is printed when it returns.
func awaitOutcome(ctx context.Context, tx *transaction.Transaction, target transaction.Milestone) error {
	outcome := make(chan error, 2)
	tx.On(target, func(*transaction.Transaction) { outcome <- nil })
	tx.On(transaction.MilestoneFailed, func(tx *transaction.Transaction) { outcome <- tx.Err() })

	select {
	case err := <-outcome:
		return err
	case <-ctx.Done():
		return fmt.Errorf("stopped waiting for %s: %w", target, ctx.Err())
	}
}

// describeParams renders params for the confirmation summary.
func describeParams(params any) []string {
	switch p := params.(type) {
	case nil:
		return nil
	case map[string]any:
		keys := make([]string, 0, len(p))
		for k := range p {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		args := make([]string, len(keys))
		for i, k := range keys {
			args[i] = fmt.Sprintf("%s=%v", k, p[k])
		}
		return args
	case []any:
		args := make([]string, len(p))
		for i, v := range p {
			args[i] = fmt.Sprint(v)
		}
		return args
	default:
		return []string{strings.TrimSpace(fmt.Sprint(p))}
	}
}
