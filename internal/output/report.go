// internal/output/report.go
package output

import (
	"fmt"
	"text/tabwriter"

	"github.com/altuslabsxyz/web3tx/pkg/transaction"
)

// TxReport is the printable snapshot of a transaction.
type TxReport struct {
	Name     string `json:"name,omitempty"`
	Ref      string `json:"ref"`
	Chain    string `json:"chain"`
	From     string `json:"from,omitempty"`
	To       string `json:"to"`
	Method   string `json:"method,omitempty"`
	Value    string `json:"value"`
	ValueWei string `json:"value_wei"`
	ID       string `json:"id,omitempty"`
	URL      string `json:"url,omitempty"`
	State    string `json:"state"`
	Error    string `json:"error,omitempty"`
}

// ReportOf snapshots tx. decimals formats the value in whole currency units.
func ReportOf(tx *transaction.Transaction, decimals uint8) TxReport {
	r := TxReport{
		Ref:      tx.Ref(),
		Chain:    tx.Chain(),
		From:     tx.From(),
		To:       tx.To(),
		Method:   tx.Method(),
		Value:    transaction.FormatValue(tx.Value(), decimals),
		ValueWei: tx.Value().String(),
		ID:       tx.ID(),
		URL:      tx.URL(),
		State:    tx.State().String(),
	}
	if err := tx.Err(); err != nil {
		r.Error = err.Error()
	}
	return r
}

// PrintTransaction prints a key/value summary of the transaction.
func (l *Logger) PrintTransaction(r TxReport) {
	if l.jsonMode {
		return
	}

	tw := tabwriter.NewWriter(l.out, 0, 0, 2, ' ', 0)
	row := func(key, value string) {
		if value != "" {
			fmt.Fprintf(tw, "  %s\t%s\n", key, value)
		}
	}
	if r.Name != "" {
		row("Name:", r.Name)
	}
	row("Chain:", r.Chain)
	row("From:", r.From)
	row("To:", r.To)
	row("Method:", r.Method)
	row("Value:", fmt.Sprintf("%s (%s wei)", r.Value, r.ValueWei))
	row("Hash:", r.ID)
	row("Explorer:", r.URL)
	row("State:", StateColor(transaction.State(r.State)).Sprint(r.State))
	tw.Flush()
}

// PrintFailure prints a failed transaction between red separators.
func (l *Logger) PrintFailure(r TxReport) {
	fmt.Fprintln(l.errOut, RedSeparator())
	l.Error("transaction %s failed", nonEmpty(r.ID, r.Ref))
	if r.Error != "" {
		fmt.Fprintf(l.errOut, "  %s\n", r.Error)
	}
	if r.URL != "" {
		fmt.Fprintf(l.errOut, "  %s\n", r.URL)
	}
	fmt.Fprintln(l.errOut, RedSeparator())
}

func nonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
