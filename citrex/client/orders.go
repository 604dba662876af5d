package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/betbot/citrex/citrex/signing"
	"github.com/betbot/citrex/citrex/types"
	"github.com/shopspring/decimal"
)

// signAndSend 鉴权检查在构建消息之前完成，缺少私钥时返回 PreconditionError 而不是 SigningError
func (c *Client) signAndSend(ctx context.Context, route Route, method string, build func() (*signing.TypedMessage, error)) (types.Raw, error) {
	if _, err := c.authorize(route, method); err != nil {
		return nil, err
	}
	msg, err := build()
	if err != nil {
		return nil, err
	}
	payload, err := c.sign(msg)
	if err != nil {
		return nil, err
	}
	return c.send(ctx, request{route: route, method: method, body: payload, authenticated: true})
}

// CreateOrder 下单
func (c *Client) CreateOrder(ctx context.Context, p types.OrderParams) (types.Raw, error) {
	return c.signAndSend(ctx, RouteOrder, http.MethodPost, func() (*signing.TypedMessage, error) {
		return c.builder.Order(p)
	})
}

// CancelAndReplaceOrder 撤销一个订单并原子地下一个新单。
// 默认 LIMIT_MAKER + GTC，子账户默认为客户端的子账户
func (c *Client) CancelAndReplaceOrder(ctx context.Context, p types.CancelAndReplaceParams) (types.Raw, error) {
	if _, err := c.authorize(RouteCancelAndReplace, http.MethodPost); err != nil {
		return nil, err
	}
	if p.OrderIDToCancel == "" {
		return nil, &types.ValidationError{Field: "idToCancel", Msg: "order id to cancel is required"}
	}
	order := types.OrderParams{
		SubAccountID: c.SubAccountID(),
		ProductID:    p.ProductID,
		Quantity:     p.Quantity,
		Price:        &p.Price,
		Side:         p.Side,
		OrderType:    types.OrderTypeLimitMaker,
		TimeInForce:  types.TimeInForceGTC,
		Nonce:        p.Nonce,
	}
	if p.SubAccountID != nil {
		order.SubAccountID = *p.SubAccountID
	}
	if p.OrderType != nil {
		order.OrderType = *p.OrderType
	}
	if p.TimeInForce != nil {
		order.TimeInForce = *p.TimeInForce
	}
	msg, err := c.builder.Order(order)
	if err != nil {
		return nil, err
	}
	payload, err := c.sign(msg)
	if err != nil {
		return nil, err
	}
	return c.send(ctx, request{
		route:  RouteCancelAndReplace,
		method: http.MethodPost,
		body: map[string]any{
			"newOrder":   signing.Canonicalize(payload),
			"idToCancel": p.OrderIDToCancel,
		},
		authenticated: true,
	})
}

// CancelOrder 撤销单个订单
func (c *Client) CancelOrder(ctx context.Context, p types.CancelOrderParams) (types.Raw, error) {
	sub := c.SubAccountID()
	if p.SubAccountID != nil {
		sub = *p.SubAccountID
	}
	return c.signAndSend(ctx, RouteOrder, http.MethodDelete, func() (*signing.TypedMessage, error) {
		return c.builder.CancelOrder(sub, p.ProductID, p.OrderID)
	})
}

// CancelAllOrders 撤销某个产品的全部挂单
func (c *Client) CancelAllOrders(ctx context.Context, subAccountID int, productID uint32) (types.Raw, error) {
	return c.signAndSend(ctx, RouteOpenOrders, http.MethodDelete, func() (*signing.TypedMessage, error) {
		return c.builder.CancelOrders(subAccountID, productID)
	})
}

// Withdraw 提现，asset 为空时默认 CORE_COLLATERAL
func (c *Client) Withdraw(ctx context.Context, subAccountID int, quantity decimal.Decimal, asset types.ContractName) (types.Raw, error) {
	if asset == "" {
		asset = types.ContractCoreCollateral
	}
	if !asset.IsToken() {
		return nil, &types.ValidationError{Field: "asset", Msg: fmt.Sprintf("%s is not a token asset", asset)}
	}
	return c.signAndSend(ctx, RouteWithdraw, http.MethodPost, func() (*signing.TypedMessage, error) {
		addr, err := c.ContractAddress(asset)
		if err != nil {
			return nil, err
		}
		return c.builder.Withdraw(subAccountID, addr, quantity)
	})
}
