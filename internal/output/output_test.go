package output

import (
	"bytes"
	"context"
	"errors"
	"math/big"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"

	"github.com/altuslabsxyz/web3tx/pkg/transaction"
)

const testHash = "0x4fd3b2f6a1c2b3d4e5f60718293a4b5c6d7e8f90a1b2c3d4e5f60718293a4b5c"

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

type instantHandle struct{ err error }

func (h instantHandle) Hash() string { return testHash }

func (h instantHandle) WaitForConfirmations(context.Context, uint64) error { return h.err }

type instantProvider struct{ waitErr error }

func (p instantProvider) ActiveSigner(context.Context) (transaction.Signer, error) { return p, nil }

func (instantProvider) Address(context.Context) (string, error) {
	return "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266", nil
}

func (p instantProvider) SendTransaction(context.Context, transaction.TransferRequest) (transaction.SentHandle, error) {
	return instantHandle{err: p.waitErr}, nil
}

func (p instantProvider) CallContractMethod(context.Context, transaction.MethodCall) (transaction.SentHandle, error) {
	return instantHandle{err: p.waitErr}, nil
}

type connectedWallet struct{ instantProvider }

func (connectedWallet) IsConnectedTo(context.Context, transaction.Chain) (bool, error) { return true, nil }

func (connectedWallet) SwitchTo(context.Context, transaction.Chain) error { return nil }

func newTestTx(t *testing.T, waitErr error) *transaction.Transaction {
	t.Helper()
	registry := transaction.NewRegistry()
	provider := instantProvider{waitErr: waitErr}
	require.NoError(t, registry.Register(transaction.BSC, provider, connectedWallet{provider}))

	tx, err := transaction.New(transaction.Config{
		Chain:    "bsc",
		To:       "0x65aBbdEd9B937E38480A50eca85A8E4D2c8350E4",
		Value:    transaction.BaseUnits(big.NewInt(123000000000000000)),
		Registry: registry,
	})
	require.NoError(t, err)
	return tx
}

func TestLogger_Streams(t *testing.T) {
	var out, errOut bytes.Buffer
	logger := NewLoggerTo(&out, &errOut)

	logger.Info("hello %s", "world")
	logger.Success("done")
	logger.Debug("hidden")
	logger.Warn("careful")
	logger.Error("broken")

	require.Equal(t, "hello world\n✓ done\n", out.String())
	require.Equal(t, "Warning: careful\nError: broken\n", errOut.String())

	logger.SetVerbose(true)
	require.True(t, logger.IsVerbose())
	logger.Debug("shown")
	require.Contains(t, errOut.String(), "[DEBUG] shown")
}

func TestLogger_JSONMode(t *testing.T) {
	var out, errOut bytes.Buffer
	logger := NewLoggerTo(&out, &errOut)

	require.NoError(t, logger.JSON(map[string]string{"a": "b"}))
	require.Empty(t, out.String())

	logger.SetJSONMode(true)
	logger.Info("suppressed")
	logger.Bold("suppressed")
	logger.Success("suppressed")
	require.NoError(t, logger.JSON(map[string]string{"a": "b"}))
	require.Equal(t, "{\n  \"a\": \"b\"\n}\n", out.String())

	logger.Error("still reported")
	require.Contains(t, errOut.String(), "still reported")
}

func TestReportOf(t *testing.T) {
	tx := newTestTx(t, nil)

	r := ReportOf(tx, 18)
	require.Equal(t, "bsc", r.Chain)
	require.Equal(t, "0.123", r.Value)
	require.Equal(t, "123000000000000000", r.ValueWei)
	require.Equal(t, "Pending", r.State)
	require.Empty(t, r.ID)
	require.Equal(t, tx.Ref(), r.Ref)

	_, err := tx.Submit(context.Background())
	require.NoError(t, err)
	_, err = tx.Ensurance(context.Background())
	require.NoError(t, err)

	r = ReportOf(tx, 18)
	require.Equal(t, testHash, r.ID)
	require.Equal(t, "https://bscscan.com/tx/"+testHash, r.URL)
	require.Equal(t, "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266", r.From)

	var out bytes.Buffer
	NewLoggerTo(&out, &out).PrintTransaction(r)
	printed := out.String()
	require.Contains(t, printed, "0.123 (123000000000000000 wei)")
	require.Contains(t, printed, "https://bscscan.com/tx/"+testHash)
	require.Contains(t, printed, "Ensured")
	require.NotContains(t, printed, "Method:")
}

func TestPrintFailure(t *testing.T) {
	var errOut bytes.Buffer
	logger := NewLoggerTo(&bytes.Buffer{}, &errOut)

	logger.PrintFailure(TxReport{Ref: "ref-1", Error: "confirmation failed: reverted"})
	printed := errOut.String()
	require.Contains(t, printed, "Error: transaction ref-1 failed")
	require.Contains(t, printed, "confirmation failed: reverted")
	require.Equal(t, 2, strings.Count(printed, Separator()))
}

func TestProgress_Watch(t *testing.T) {
	tests := []struct {
		name     string
		target   transaction.Milestone
		expected []string
	}{
		{name: "sent", target: transaction.MilestoneSent, expected: []string{"[1/1] sent " + testHash}},
		{name: "confirmed", target: transaction.MilestoneConfirmed, expected: []string{"[1/2] sent " + testHash, "[2/2] confirmed"}},
		{name: "ensured", target: transaction.MilestoneEnsured, expected: []string{"[1/3] sent " + testHash, "[2/3] confirmed", "[3/3] ensured"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := newTestTx(t, nil)
			var out bytes.Buffer
			progress := NewProgress(&out)
			progress.Watch(tx, tt.target)

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_, err := tx.Submit(ctx)
			require.NoError(t, err)
			delivered(t, tx, tt.target)
			progress.Done("finished")

			lines := strings.Split(strings.TrimSpace(out.String()), "\n")
			require.Equal(t, append(tt.expected, "✓ finished"), lines)
		})
	}
}

func TestProgress_Failed(t *testing.T) {
	tx := newTestTx(t, errors.New("execution reverted"))
	var out bytes.Buffer
	progress := NewProgress(&out)
	progress.Watch(tx, transaction.MilestoneEnsured)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err := tx.Submit(ctx)
	require.NoError(t, err)
	delivered(t, tx, transaction.MilestoneFailed)

	require.Contains(t, out.String(), "[1/3] sent")
	require.Contains(t, out.String(), "✗ failed:")
	require.Contains(t, out.String(), "execution reverted")
	require.NotContains(t, out.String(), "confirmed")
}

func TestProgress_JSONModeSilent(t *testing.T) {
	tx := newTestTx(t, nil)
	var out bytes.Buffer
	progress := NewProgress(&out)
	progress.SetJSONMode(true)
	progress.Watch(tx, transaction.MilestoneEnsured)

	_, err := tx.Submit(context.Background())
	require.NoError(t, err)
	delivered(t, tx, transaction.MilestoneEnsured)
	progress.Done("finished")

	require.Empty(t, out.String())
}

// delivered waits until every callback attached to m so far has run.
func delivered(t *testing.T, tx *transaction.Transaction, m transaction.Milestone) {
	t.Helper()
	done := make(chan struct{})
	tx.On(m, func(*transaction.Transaction) { close(done) })
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("%s callbacks not delivered", m)
	}
}
