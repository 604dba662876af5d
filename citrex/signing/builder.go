package signing

import (
	"fmt"
	"math/big"
	"time"

	"github.com/betbot/citrex/citrex/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

const uint128Bits = 128

// Builder 构建各类待签名消息
type Builder struct {
	domain  Domain
	account types.AccountContext
	now     func() time.Time
}

// NewBuilder 创建消息构建器
func NewBuilder(domain Domain, account types.AccountContext) *Builder {
	return &Builder{domain: domain, account: account, now: time.Now}
}

// WithClock 替换时钟（测试用）
func (b *Builder) WithClock(now func() time.Time) *Builder {
	cp := *b
	cp.now = now
	return &cp
}

// Domain 签名域
func (b *Builder) Domain() Domain { return b.domain }

// Account 账户上下文
func (b *Builder) Account() types.AccountContext { return b.account }

// NowMillis 当前毫秒时间戳
func (b *Builder) NowMillis() uint64 {
	return uint64(b.now().UnixMilli())
}

// Order 构建下单消息。LIMIT 单必须带价格；nonce 为 0 时取当前时间戳；
// expiration = (当前毫秒时间戳 + 24h) * 1000
func (b *Builder) Order(p types.OrderParams) (*TypedMessage, error) {
	if err := types.ValidateSubAccountID(p.SubAccountID); err != nil {
		return nil, err
	}
	if p.Price == nil && p.OrderType == types.OrderTypeLimit {
		return nil, &types.ValidationError{Field: "price", Msg: "price is required for a limit order"}
	}
	quantity, err := scaledAmount("quantity", p.Quantity)
	if err != nil {
		return nil, err
	}
	// 没有价格时填 0，保证结构体所有字段都有值
	price := new(big.Int)
	if p.Price != nil {
		if price, err = scaledAmount("price", *p.Price); err != nil {
			return nil, err
		}
	}

	ts := b.NowMillis()
	nonce := p.Nonce
	if nonce == 0 {
		nonce = ts
	}
	expiration := (ts + OrderTTLMillis) * ExpirationUnitScale

	return newTypedMessage(KindOrder, b.domain, map[string]any{
		"account":      b.account.Wallet().Hex(),
		"subAccountId": big.NewInt(int64(p.SubAccountID)),
		"productId":    u64(uint64(p.ProductID)),
		"isBuy":        bool(p.Side),
		"orderType":    big.NewInt(int64(p.OrderType)),
		"timeInForce":  big.NewInt(int64(p.TimeInForce)),
		"expiration":   u64(expiration),
		"price":        price,
		"quantity":     quantity,
		"nonce":        u64(nonce),
	})
}

// CancelOrder 构建撤单消息
func (b *Builder) CancelOrder(subAccountID int, productID uint32, orderID string) (*TypedMessage, error) {
	if err := types.ValidateSubAccountID(subAccountID); err != nil {
		return nil, err
	}
	if orderID == "" {
		return nil, &types.ValidationError{Field: "orderId", Msg: "order id is required"}
	}
	return newTypedMessage(KindCancelOrder, b.domain, map[string]any{
		"account":      b.account.Wallet().Hex(),
		"subAccountId": big.NewInt(int64(subAccountID)),
		"productId":    u64(uint64(productID)),
		"orderId":      orderID,
	})
}

// CancelOrders 构建撤销某产品全部订单的消息
func (b *Builder) CancelOrders(subAccountID int, productID uint32) (*TypedMessage, error) {
	if err := types.ValidateSubAccountID(subAccountID); err != nil {
		return nil, err
	}
	return newTypedMessage(KindCancelOrders, b.domain, map[string]any{
		"account":      b.account.Wallet().Hex(),
		"subAccountId": big.NewInt(int64(subAccountID)),
		"productId":    u64(uint64(productID)),
	})
}

// Withdraw 构建提现消息，nonce 取当前毫秒时间戳
func (b *Builder) Withdraw(subAccountID int, asset common.Address, quantity decimal.Decimal) (*TypedMessage, error) {
	if err := types.ValidateSubAccountID(subAccountID); err != nil {
		return nil, err
	}
	amount, err := scaledAmount("quantity", quantity)
	if err != nil {
		return nil, err
	}
	return newTypedMessage(KindWithdraw, b.domain, map[string]any{
		"account":      b.account.Wallet().Hex(),
		"subAccountId": big.NewInt(int64(subAccountID)),
		"asset":        asset.Hex(),
		"quantity":     amount,
		"nonce":        u64(b.NowMillis()),
	})
}

// Login 构建登录消息
func (b *Builder) Login() (*TypedMessage, error) {
	return newTypedMessage(KindLoginMessage, b.domain, map[string]any{
		"account":   b.account.Wallet().Hex(),
		"message":   fmt.Sprintf(LoginMessageFormat, b.domain.Name),
		"timestamp": u64(b.NowMillis()),
	})
}

// Referral 构建推荐码绑定消息（没有 nonce）
func (b *Builder) Referral(code string) (*TypedMessage, error) {
	if code == "" {
		return nil, &types.ValidationError{Field: "code", Msg: "referral code is required"}
	}
	return newTypedMessage(KindReferral, b.domain, map[string]any{
		"account": b.account.Wallet().Hex(),
		"code":    code,
	})
}

// scaledAmount 放大到 18 位并校验取值范围 (0, 2^128)
func scaledAmount(field string, d decimal.Decimal) (*big.Int, error) {
	if !d.IsPositive() {
		return nil, &types.ValidationError{Field: field, Msg: fmt.Sprintf("must be positive, got %s", d.String())}
	}
	v := ToFixed(d)
	if v.Sign() == 0 {
		return nil, &types.ValidationError{Field: field, Msg: fmt.Sprintf("%s is below 1e-%d", d.String(), Decimals)}
	}
	if v.BitLen() > uint128Bits {
		return nil, &types.ValidationError{Field: field, Msg: fmt.Sprintf("%s overflows uint128", d.String())}
	}
	return v, nil
}
