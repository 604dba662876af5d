package client

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/betbot/citrex/citrex/signing"
	"github.com/betbot/citrex/citrex/types"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func depositClient(t *testing.T, chain *fakeChain) *Client {
	t.Helper()
	return newTestClient(t, "http://127.0.0.1:1", true, WithBackend(chain))
}

func txMethod(t *testing.T, tx *ethtypes.Transaction) (string, []interface{}) {
	t.Helper()
	if m, err := erc20ABI.MethodById(tx.Data()[:4]); err == nil {
		args, err := m.Inputs.Unpack(tx.Data()[4:])
		require.NoError(t, err)
		return m.Name, args
	}
	m, err := protocolABI.MethodById(tx.Data()[:4])
	require.NoError(t, err)
	args, err := m.Inputs.Unpack(tx.Data()[4:])
	require.NoError(t, err)
	return m.Name, args
}

func TestDeposit_SufficientAllowanceSkipsApprove(t *testing.T) {
	chain := newFakeChain(0)
	chain.allowance = signing.ToFixed(decimal.NewFromInt(100))
	c := depositClient(t, chain)

	res, err := c.Deposit(context.Background(), 1, decimal.RequireFromString("10"), "")
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, types.SettlementConfirmed, res.State)
	assert.Equal(t, common.Hash{}, res.ApproveTx)

	sent := chain.transactions()
	require.Len(t, sent, 1)
	assert.Equal(t, sent[0].Hash(), res.DepositTx)

	name, args := txMethod(t, sent[0])
	assert.Equal(t, "deposit", name)
	assert.Equal(t, c.Address(), args[0])
	assert.Equal(t, uint8(1), args[1])
	assert.Equal(t, 0, signing.ToFixed(decimal.NewFromInt(10)).Cmp(args[2].(*big.Int)))
}

func TestDeposit_InsufficientAllowanceApprovesExactAmountFirst(t *testing.T) {
	chain := newFakeChain(5)
	c := depositClient(t, chain)
	amount := decimal.RequireFromString("12.5")
	want := signing.ToFixed(amount)

	res, err := c.Deposit(context.Background(), 0, amount, types.ContractCoreCollateral)
	require.NoError(t, err)
	assert.True(t, res.Success)

	sent := chain.transactions()
	require.Len(t, sent, 2)
	assert.Equal(t, sent[0].Hash(), res.ApproveTx)
	assert.Equal(t, sent[1].Hash(), res.DepositTx)

	collateral, _ := c.ContractAddress(types.ContractCoreCollateral)
	protocol, _ := c.ContractAddress(types.ContractProtocol)

	name, args := txMethod(t, sent[0])
	require.Equal(t, "approve", name)
	assert.Equal(t, collateral, *sent[0].To())
	assert.Equal(t, protocol, args[0])
	assert.Equal(t, 0, want.Cmp(args[1].(*big.Int)), "approval must be the exact amount")

	name, args = txMethod(t, sent[1])
	require.Equal(t, "deposit", name)
	assert.Equal(t, protocol, *sent[1].To())
	assert.Equal(t, collateral, args[3])

	assert.Equal(t, uint64(0), sent[0].Nonce())
	assert.Equal(t, uint64(1), sent[1].Nonce())

	signer := ethtypes.NewEIP155Signer(big.NewInt(c.Config().ChainID))
	for _, tx := range sent {
		from, err := ethtypes.Sender(signer, tx)
		require.NoError(t, err)
		assert.Equal(t, c.Address(), from)
	}
}

func TestDeposit_PendingReceiptsArePolled(t *testing.T) {
	chain := newFakeChain(0)
	chain.notFoundPolls = 3
	c := depositClient(t, chain)

	res, err := c.Deposit(context.Background(), 0, decimal.NewFromInt(1), "")
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, 4, chain.polls[res.DepositTx])
}

func TestDeposit_Timeout(t *testing.T) {
	chain := newFakeChain(1 << 62)
	chain.notFoundPolls = -1
	c := depositClient(t, chain)

	res, err := c.Deposit(context.Background(), 0, decimal.NewFromInt(1), "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrTimeout))
	assert.Equal(t, types.SettlementTimedOut, res.State)
	assert.False(t, res.Success)
	assert.Equal(t, 5, chain.polls[res.DepositTx])
}

func TestDeposit_NodeErrorIsNotRetried(t *testing.T) {
	chain := newFakeChain(0)
	chain.receiptErr = errors.New("connection reset")
	c := depositClient(t, chain)

	res, err := c.Deposit(context.Background(), 0, decimal.NewFromInt(1), "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrChain))
	assert.Equal(t, common.Hash{}, res.DepositTx)
	require.Len(t, chain.transactions(), 1)
	assert.Equal(t, 1, chain.polls[res.ApproveTx])
}

func TestDeposit_RevertedDeposit(t *testing.T) {
	chain := newFakeChain(1 << 62)
	chain.status = ethtypes.ReceiptStatusFailed
	c := depositClient(t, chain)

	res, err := c.Deposit(context.Background(), 0, decimal.NewFromInt(1), "")
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, types.SettlementReverted, res.State)
}

func TestDeposit_RevertedApprovalStops(t *testing.T) {
	chain := newFakeChain(0)
	chain.status = ethtypes.ReceiptStatusFailed
	c := depositClient(t, chain)

	res, err := c.Deposit(context.Background(), 0, decimal.NewFromInt(1), "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrChain))
	assert.Equal(t, types.SettlementReverted, res.State)
	assert.Len(t, chain.transactions(), 1)
}

func TestDeposit_InputValidation(t *testing.T) {
	chain := newFakeChain(0)
	c := depositClient(t, chain)

	_, err := c.Deposit(context.Background(), 256, decimal.NewFromInt(1), "")
	assert.True(t, errors.Is(err, types.ErrValidation))
	_, err = c.Deposit(context.Background(), 0, decimal.Zero, "")
	assert.True(t, errors.Is(err, types.ErrValidation))
	_, err = c.Deposit(context.Background(), 0, decimal.NewFromInt(1), "NOPE")
	assert.True(t, errors.Is(err, types.ErrValidation))
	assert.Empty(t, chain.transactions())

	noKey := newTestClient(t, "http://127.0.0.1:1", false, WithBackend(chain))
	_, err = noKey.Deposit(context.Background(), 0, decimal.NewFromInt(1), "")
	assert.True(t, errors.Is(err, types.ErrPrecondition))
}

func TestDeposit_OnlyTokenAssets(t *testing.T) {
	for _, asset := range []types.ContractName{types.ContractProtocol, types.ContractVerifyingContract} {
		chain := newFakeChain(0)
		c := depositClient(t, chain)

		_, err := c.Deposit(context.Background(), 0, decimal.NewFromInt(1), asset)
		var ve *types.ValidationError
		require.True(t, errors.As(err, &ve), asset)
		assert.Equal(t, "asset", ve.Field)
		assert.Empty(t, chain.calls, asset)
		assert.Empty(t, chain.transactions(), asset)
	}
}

func TestWaitForTransaction_ContextCancel(t *testing.T) {
	chain := newFakeChain(0)
	chain.notFoundPolls = -1
	c := depositClient(t, chain)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.WaitForTransaction(ctx, common.HexToHash("0x01"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCollateralBalance(t *testing.T) {
	chain := newFakeChain(0)
	chain.balance = signing.ToFixed(decimal.RequireFromString("42.75"))
	c := depositClient(t, chain)

	bal, err := c.CollateralBalance(context.Background())
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("42.75").Equal(bal))
}
