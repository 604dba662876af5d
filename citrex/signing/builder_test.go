package signing

import (
	"math/big"
	"testing"

	"github.com/betbot/citrex/citrex/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestBuilder_OrderExample(t *testing.T) {
	b := testBuilder(t)

	msg, err := b.Order(types.OrderParams{
		SubAccountID: 2,
		ProductID:    7,
		Quantity:     decimal.RequireFromString("1.5"),
		Price:        decPtr("20000.25"),
		Side:         types.SideBuy,
		OrderType:    types.OrderTypeLimit,
		TimeInForce:  types.TimeInForceGTC,
	})
	require.NoError(t, err)

	ts := uint64(fixedNow.UnixMilli())
	assert.Equal(t, KindOrder, msg.Kind)
	assert.Equal(t, "1500000000000000000", msg.Fields["quantity"].(*big.Int).String())
	assert.Equal(t, "20000250000000000000000", msg.Fields["price"].(*big.Int).String())
	assert.Equal(t, true, msg.Fields["isBuy"])
	assert.Equal(t, int64(0), msg.Fields["orderType"].(*big.Int).Int64())
	assert.Equal(t, int64(2), msg.Fields["subAccountId"].(*big.Int).Int64())
	assert.Equal(t, int64(7), msg.Fields["productId"].(*big.Int).Int64())
	assert.Equal(t, ts, msg.Fields["nonce"].(*big.Int).Uint64())
	assert.Equal(t, (ts+86_400_000)*1000, msg.Fields["expiration"].(*big.Int).Uint64())
	assert.Equal(t, b.Account().Wallet().Hex(), msg.Fields["account"])
}

func TestBuilder_OrderExplicitNonce(t *testing.T) {
	msg, err := testBuilder(t).Order(types.OrderParams{
		Quantity:  decimal.RequireFromString("1"),
		Price:     decPtr("1"),
		OrderType: types.OrderTypeLimit,
		Nonce:     42,
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(42), msg.Fields["nonce"].(*big.Int).Uint64())
}

func TestBuilder_OrderPriceRequirement(t *testing.T) {
	tests := []struct {
		name      string
		orderType types.OrderType
		price     *decimal.Decimal
		wantErr   bool
	}{
		{"limit without price", types.OrderTypeLimit, nil, true},
		{"limit with price", types.OrderTypeLimit, decPtr("10"), false},
		{"limit maker without price", types.OrderTypeLimitMaker, nil, false},
		{"market without price", types.OrderTypeMarket, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := testBuilder(t).Order(types.OrderParams{
				Quantity:  decimal.RequireFromString("1"),
				Price:     tt.price,
				OrderType: tt.orderType,
			})
			if tt.wantErr {
				require.ErrorIs(t, err, types.ErrValidation)
				return
			}
			require.NoError(t, err)
			if tt.price == nil {
				assert.Equal(t, 0, msg.Fields["price"].(*big.Int).Sign(), "缺省价格编码为 0")
			}
			_, err = msg.Hash()
			require.NoError(t, err)
		})
	}
}

func TestBuilder_SubAccountBounds(t *testing.T) {
	for _, id := range []int{0, 255} {
		_, err := testBuilder(t).CancelOrders(id, 1)
		assert.NoError(t, err, "id=%d", id)
		_, err = types.NewAccountContext(common.Address{}, id)
		assert.NoError(t, err, "id=%d", id)
	}
	for _, id := range []int{-1, 256, 1000} {
		_, err := testBuilder(t).CancelOrders(id, 1)
		assert.ErrorIs(t, err, types.ErrValidation, "id=%d", id)
		_, err = types.NewAccountContext(common.Address{}, id)
		assert.ErrorIs(t, err, types.ErrValidation, "id=%d", id)
	}
}

func TestBuilder_RejectsBadQuantities(t *testing.T) {
	for _, q := range []string{"0", "-1", "0.0000000000000000001", "1000000000000000000000000"} {
		_, err := testBuilder(t).Order(types.OrderParams{
			Quantity:  decimal.RequireFromString(q),
			OrderType: types.OrderTypeMarket,
		})
		assert.ErrorIs(t, err, types.ErrValidation, "quantity=%s", q)
	}
}

func TestBuilder_FieldsMatchSchema(t *testing.T) {
	b := testBuilder(t)
	asset := common.HexToAddress("0x79A59c326C715AC2d31C169C85d1232319E341ce")

	build := map[Kind]func() (*TypedMessage, error){
		KindOrder: func() (*TypedMessage, error) {
			return b.Order(types.OrderParams{Quantity: decimal.NewFromInt(1), OrderType: types.OrderTypeMarket})
		},
		KindCancelOrder:  func() (*TypedMessage, error) { return b.CancelOrder(1, 3, "0xdeadbeef") },
		KindCancelOrders: func() (*TypedMessage, error) { return b.CancelOrders(1, 3) },
		KindWithdraw:     func() (*TypedMessage, error) { return b.Withdraw(1, asset, decimal.RequireFromString("2.5")) },
		KindLoginMessage: b.Login,
		KindReferral:     func() (*TypedMessage, error) { return b.Referral("macchiadisugo") },
	}
	for kind, fn := range build {
		t.Run(string(kind), func(t *testing.T) {
			msg, err := fn()
			require.NoError(t, err)
			schema, ok := Schema(kind)
			require.True(t, ok)
			require.Len(t, msg.Fields, len(schema))
			for _, f := range schema {
				assert.Contains(t, msg.Fields, f.Name)
			}
			_, err = msg.Hash()
			require.NoError(t, err)
		})
	}
}

func TestBuilder_LoginMessageText(t *testing.T) {
	msg, err := testBuilder(t).Login()
	require.NoError(t, err)
	assert.Equal(t, "I would like to log into ciao finance", msg.Fields["message"])
	assert.Equal(t, uint64(fixedNow.UnixMilli()), msg.Fields["timestamp"].(*big.Int).Uint64())
}

func TestBuilder_WithdrawScaling(t *testing.T) {
	asset := common.HexToAddress("0x79A59c326C715AC2d31C169C85d1232319E341ce")
	msg, err := testBuilder(t).Withdraw(0, asset, decimal.RequireFromString("0.1"))
	require.NoError(t, err)
	assert.Equal(t, "100000000000000000", msg.Fields["quantity"].(*big.Int).String())
	assert.Equal(t, asset.Hex(), msg.Fields["asset"])
}

func TestBuilder_MissingInputs(t *testing.T) {
	_, err := testBuilder(t).Referral("")
	assert.ErrorIs(t, err, types.ErrValidation)
	_, err = testBuilder(t).CancelOrder(0, 1, "")
	assert.ErrorIs(t, err, types.ErrValidation)
}

func TestNewDomain(t *testing.T) {
	d := testDomain(t)
	assert.Equal(t, "ciao", d.Name)
	assert.Equal(t, "0.0.0", d.Version)
	assert.Equal(t, int64(1328), d.ChainID)
	assert.Equal(t, common.HexToAddress("0x24f4e9Db8225e6AE220FE89782E4A010aEB7bb14"), d.VerifyingContract)

	_, err := NewDomain(types.EnvConfig{})
	assert.ErrorIs(t, err, types.ErrConfiguration)
}
