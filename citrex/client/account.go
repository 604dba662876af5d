package client

import (
	"context"
	"net/http"

	"github.com/betbot/citrex/citrex/types"
)

func (c *Client) accountParams() map[string]any {
	return map[string]any{
		"account":      c.account.Wallet().Hex(),
		"subAccountId": c.SubAccountID(),
	}
}

func (c *Client) privateGet(ctx context.Context, route Route, params map[string]any) (types.Raw, error) {
	return c.send(ctx, request{route: route, method: http.MethodGet, params: params, authenticated: true})
}

// Balances 现货余额
func (c *Client) Balances(ctx context.Context) (types.Raw, error) {
	return c.privateGet(ctx, RouteBalances, c.accountParams())
}

// Positions 持仓，symbol 为空时返回全部
func (c *Client) Positions(ctx context.Context, symbol string) (types.Raw, error) {
	params := c.accountParams()
	if symbol != "" {
		params["symbol"] = symbol
	}
	return c.privateGet(ctx, RoutePositionRisk, params)
}

// OpenOrders 当前挂单
func (c *Client) OpenOrders(ctx context.Context, symbol string) (types.Raw, error) {
	params := c.accountParams()
	if symbol != "" {
		params["symbol"] = symbol
	}
	return c.privateGet(ctx, RouteOpenOrders, params)
}

// Orders 按 symbol / id 查询订单
func (c *Client) Orders(ctx context.Context, f types.OrdersFilter) (types.Raw, error) {
	params := c.accountParams()
	if len(f.IDs) > 0 {
		params["ids"] = f.IDs
	}
	if f.Symbol != "" {
		params["symbol"] = f.Symbol
	}
	return c.privateGet(ctx, RouteOrders, params)
}

// ApprovedSigners 已授权的签名者
func (c *Client) ApprovedSigners(ctx context.Context) (types.Raw, error) {
	return c.privateGet(ctx, RouteApprovedSigners, c.accountParams())
}

// AccountHealth 账户健康度
func (c *Client) AccountHealth(ctx context.Context) (types.Raw, error) {
	return c.privateGet(ctx, RouteAccountHealth, c.accountParams())
}
