package signing

import (
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
)

// Kind 签名消息类型（即 EIP712 primaryType）
type Kind string

const (
	KindOrder        Kind = "Order"
	KindCancelOrder  Kind = "CancelOrder"
	KindCancelOrders Kind = "CancelOrders"
	KindWithdraw     Kind = "Withdraw"
	KindLoginMessage Kind = "LoginMessage"
	KindReferral     Kind = "Referral"
)

const (
	// LoginMessageFormat 登录消息文本，%s 为 EIP712 域名称
	LoginMessageFormat = "I would like to log into %s finance"

	// OrderTTLMillis 订单有效期 24 小时（毫秒）
	OrderTTLMillis = 1000 * 60 * 60 * 24

	// ExpirationUnitScale 过期时间单位换算：交易所要求 (毫秒时间戳 + TTL) * 1000
	ExpirationUnitScale = 1000
)

// domainType EIP712Domain 类型定义
var domainType = []apitypes.Type{
	{Name: "name", Type: "string"},
	{Name: "version", Type: "string"},
	{Name: "chainId", Type: "uint256"},
	{Name: "verifyingContract", Type: "address"},
}

// schemas 每种消息的字段顺序，和交易所验签端一致，不能调整顺序
var schemas = map[Kind][]apitypes.Type{
	KindOrder: {
		{Name: "account", Type: "address"},
		{Name: "subAccountId", Type: "uint8"},
		{Name: "productId", Type: "uint32"},
		{Name: "isBuy", Type: "bool"},
		{Name: "orderType", Type: "uint8"},
		{Name: "timeInForce", Type: "uint8"},
		{Name: "expiration", Type: "uint64"},
		{Name: "price", Type: "uint128"},
		{Name: "quantity", Type: "uint128"},
		{Name: "nonce", Type: "uint64"},
	},
	KindCancelOrder: {
		{Name: "account", Type: "address"},
		{Name: "subAccountId", Type: "uint8"},
		{Name: "productId", Type: "uint32"},
		{Name: "orderId", Type: "string"},
	},
	KindCancelOrders: {
		{Name: "account", Type: "address"},
		{Name: "subAccountId", Type: "uint8"},
		{Name: "productId", Type: "uint32"},
	},
	KindWithdraw: {
		{Name: "account", Type: "address"},
		{Name: "subAccountId", Type: "uint8"},
		{Name: "asset", Type: "address"},
		{Name: "quantity", Type: "uint128"},
		{Name: "nonce", Type: "uint64"},
	},
	KindLoginMessage: {
		{Name: "account", Type: "address"},
		{Name: "message", Type: "string"},
		{Name: "timestamp", Type: "uint64"},
	},
	KindReferral: {
		{Name: "account", Type: "address"},
		{Name: "code", Type: "string"},
	},
}

// Schema 返回某类消息的字段定义副本
func Schema(kind Kind) ([]apitypes.Type, bool) {
	s, ok := schemas[kind]
	if !ok {
		return nil, false
	}
	out := make([]apitypes.Type, len(s))
	copy(out, s)
	return out, true
}
