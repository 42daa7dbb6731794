// pkg/transaction/registry_test.go
package transaction

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistry_LookupUnknown(t *testing.T) {
	r := NewRegistry()
	_, err := r.Lookup("ethereum")
	require.ErrorIs(t, err, ErrUnsupportedChain)
}

func TestRegistry_RegisterAppliesDefaults(t *testing.T) {
	j := &journal{}
	r := NewRegistry()
	err := r.Register(Chain{Name: "devnet", ChainID: 2200}, newFakeProvider(j, nil), &fakeWallet{journal: j})
	require.NoError(t, err)

	route, err := r.Lookup("devnet")
	require.NoError(t, err)
	require.Equal(t, DefaultDecimals, route.Chain.Decimals)
	require.Equal(t, DefaultConfirmations, route.Chain.Confirmations)
}

func TestRegistry_RegisterValidates(t *testing.T) {
	j := &journal{}
	r := NewRegistry()
	require.Error(t, r.Register(Chain{}, newFakeProvider(j, nil), &fakeWallet{journal: j}))
	require.Error(t, r.Register(Ethereum, nil, &fakeWallet{journal: j}))
	require.Error(t, r.Register(Ethereum, newFakeProvider(j, nil), nil))
}

func TestRegistry_ChainsSorted(t *testing.T) {
	j := &journal{}
	r := NewRegistry()
	for _, c := range []Chain{Ethereum, BSC} {
		require.NoError(t, r.Register(c, newFakeProvider(j, nil), &fakeWallet{journal: j}))
	}
	chains := r.Chains()
	require.Len(t, chains, 2)
	require.Equal(t, "bsc", chains[0].Name)
	require.Equal(t, "ethereum", chains[1].Name)
}

func TestChain_TxURL(t *testing.T) {
	require.Equal(t, "https://etherscan.io/tx/0xabc", Ethereum.TxURL("0xabc"))
	require.Equal(t, "https://bscscan.com/tx/0xabc", BSC.TxURL("0xabc"))
	require.Empty(t, Chain{Name: "x"}.TxURL("0xabc"))
	require.Empty(t, Ethereum.TxURL(""))
}

func TestPresets(t *testing.T) {
	presets := Presets()
	require.Equal(t, uint64(1), presets["ethereum"].ChainID)
	require.Equal(t, uint64(56), presets["bsc"].ChainID)
}
