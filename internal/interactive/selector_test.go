package interactive

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/manifoldco/promptui"
	"github.com/stretchr/testify/require"

	"github.com/altuslabsxyz/web3tx/pkg/network/evm"
)

const vaultABI = `[
	{"type":"function","name":"balanceOf","stateMutability":"view","inputs":[{"name":"owner","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"deposit","stateMutability":"payable","inputs":[{"name":"recipients","type":"address[]"}],"outputs":[]},
	{"type":"function","name":"withdraw","stateMutability":"nonpayable","inputs":[{"name":"token","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[]}
]`

func loadVault(t *testing.T) *evm.Contract {
	t.Helper()
	contract, err := evm.ParseABI([]byte(vaultABI))
	require.NoError(t, err)
	return contract
}

func TestMethodItems(t *testing.T) {
	items := MethodItems(loadVault(t))
	require.Len(t, items, 2)

	require.Equal(t, "deposit", items[0].Name)
	require.True(t, items[0].Payable)
	require.Equal(t, "deposit(address[]) (payable)", items[0].String())
	require.Equal(t, []ArgumentItem{{Name: "recipients", Type: "address[]"}}, items[0].Inputs)

	require.Equal(t, "withdraw", items[1].Name)
	require.Equal(t, "withdraw(address,uint256)", items[1].String())
	require.Equal(t, "amount (uint256)", items[1].Inputs[1].Label())
}

func TestParseArgument(t *testing.T) {
	require.Equal(t, "42", ParseArgument(ArgumentItem{Name: "amount", Type: "uint256"}, "42"))
	require.Equal(t, []string{"0xa", "0xb"}, ParseArgument(ArgumentItem{Name: "to", Type: "address[]"}, "0xa, 0xb,"))
	require.Equal(t, []string{}, ParseArgument(ArgumentItem{Name: "data", Type: "string[]"}, ""))
}

func TestSelector_RunCallFlow(t *testing.T) {
	tests := []struct {
		name     string
		method   string
		answers  map[string]string
		value    string
		expected *CallSelection
	}{
		{
			name:    "nonpayable keeps default value",
			method:  "withdraw",
			answers: map[string]string{"token": "0x65aBbdEd9B937E38480A50eca85A8E4D2c8350E4", "amount": "1000"},
			expected: &CallSelection{
				Method: "withdraw",
				Params: []any{"0x65aBbdEd9B937E38480A50eca85A8E4D2c8350E4", "1000"},
				Value:  "0",
			},
		},
		{
			name:    "payable prompts for value",
			method:  "deposit",
			answers: map[string]string{"recipients": "0x1,0x2"},
			value:   "0.25",
			expected: &CallSelection{
				Method: "deposit",
				Params: []any{[]string{"0x1", "0x2"}},
				Value:  "0.25",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSelector(loadVault(t))
			s.selectMethod = func(items []MethodItem) (MethodItem, error) {
				for _, item := range items {
					if item.Name == tt.method {
						return item, nil
					}
				}
				return MethodItem{}, fmt.Errorf("no %s", tt.method)
			}
			s.promptArgument = func(arg ArgumentItem) (string, error) {
				return tt.answers[arg.Name], nil
			}
			s.promptValue = func(string) (string, error) { return tt.value, nil }

			selection, err := s.RunCallFlow("0")
			require.NoError(t, err)
			require.Equal(t, tt.expected, selection)
		})
	}
}

func TestSelector_Cancelled(t *testing.T) {
	s := NewSelector(loadVault(t))
	s.selectMethod = func([]MethodItem) (MethodItem, error) {
		return MethodItem{}, handleInterruptError(promptui.ErrInterrupt)
	}

	_, err := s.RunCallFlow("")
	require.True(t, IsCancellation(err))
	require.False(t, IsCancellation(fmt.Errorf("other")))
}

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	PrintSummary(&buf, Summary{
		Chain:         "bsc",
		To:            "0x65aBbdEd9B937E38480A50eca85A8E4D2c8350E4",
		Method:        "withdraw",
		Args:          []string{"0xabc", "1000"},
		Value:         "0",
		Confirmations: 12,
	})

	out := buf.String()
	require.Contains(t, out, "Chain:  bsc")
	require.Contains(t, out, "Method: withdraw(0xabc, 1000)")
	require.Contains(t, out, "Safe after 12 confirmations")
	require.NotContains(t, out, "From:")
}
