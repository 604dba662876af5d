package types

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// OrderParams 下单参数（价格和数量为十进制值，签名前放大到 18 位）
type OrderParams struct {
	// SubAccountID 子账户 ID
	SubAccountID int

	// ProductID 产品 ID
	ProductID uint32

	// Quantity 数量
	Quantity decimal.Decimal

	// Price 价格，LIMIT 订单必填
	Price *decimal.Decimal

	Side        Side
	OrderType   OrderType
	TimeInForce TimeInForce

	// Nonce 为 0 时使用当前毫秒时间戳
	Nonce uint64
}

// CancelAndReplaceParams 撤单并重新下单参数
type CancelAndReplaceParams struct {
	ProductID uint32
	Quantity  decimal.Decimal
	Price     decimal.Decimal
	Side      Side

	// OrderIDToCancel 需要撤销的订单 ID
	OrderIDToCancel string

	// Nonce 为 0 时使用当前毫秒时间戳
	Nonce uint64

	// SubAccountID 为 nil 时使用客户端的子账户
	SubAccountID *int

	// OrderType 为 nil 时默认 LIMIT_MAKER
	OrderType *OrderType

	// TimeInForce 为 nil 时默认 GTC
	TimeInForce *TimeInForce
}

// CandleParams K 线查询参数
type CandleParams struct {
	Interval  string
	StartTime *int64
	EndTime   *int64
	Limit     *int
}

// OrdersFilter 订单查询过滤
type OrdersFilter struct {
	Symbol string
	IDs    []string
}

// SessionResponse 登录接口响应，value 为会话凭证
type SessionResponse struct {
	Value string `json:"value"`
}

// Raw 未解析的接口响应（行情等只读接口直接透传）
type Raw = json.RawMessage

// CancelOrderParams 撤单参数
type CancelOrderParams struct {
	ProductID uint32
	OrderID   string

	// SubAccountID 为 nil 时使用客户端的子账户
	SubAccountID *int
}
