package client

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/betbot/citrex/citrex/types"
)

func (c *Client) publicGet(ctx context.Context, route Route, pathParams map[string]string, params map[string]any) (types.Raw, error) {
	return c.send(ctx, request{route: route, method: http.MethodGet, pathParams: pathParams, params: params})
}

// Products 全部产品
func (c *Client) Products(ctx context.Context) (types.Raw, error) {
	return c.publicGet(ctx, RouteProducts, nil, nil)
}

// Product 单个产品
func (c *Client) Product(ctx context.Context, symbol string) (types.Raw, error) {
	if symbol == "" {
		return nil, &types.ValidationError{Field: "symbol", Msg: "symbol is required"}
	}
	return c.publicGet(ctx, RouteProduct, map[string]string{"symbol": symbol}, nil)
}

// Ticker 24 小时行情。指定 symbol 且服务端返回列表时取第一个元素
func (c *Client) Ticker(ctx context.Context, symbol string) (types.Raw, error) {
	var params map[string]any
	if symbol != "" {
		params = map[string]any{"symbol": symbol}
	}
	raw, err := c.publicGet(ctx, RouteTicker, nil, params)
	if err != nil || symbol == "" {
		return raw, err
	}
	if !bytes.HasPrefix(bytes.TrimSpace(raw), []byte("[")) {
		return raw, nil
	}
	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err != nil || len(list) == 0 {
		return raw, nil
	}
	return types.Raw(list[0]), nil
}

// TradeHistory 最近成交
func (c *Client) TradeHistory(ctx context.Context, symbol string, lookback int) (types.Raw, error) {
	return c.publicGet(ctx, RouteTradeHistory, nil, map[string]any{"symbol": symbol, "lookback": lookback})
}

// ServerTime 服务器时间
func (c *Client) ServerTime(ctx context.Context) (types.Raw, error) {
	return c.publicGet(ctx, RouteTime, nil, nil)
}

// Candlesticks K 线
func (c *Client) Candlesticks(ctx context.Context, symbol string, p types.CandleParams) (types.Raw, error) {
	params := map[string]any{"symbol": symbol}
	if p.Interval != "" {
		params["interval"] = p.Interval
	}
	if p.StartTime != nil {
		params["start_time"] = *p.StartTime
	}
	if p.EndTime != nil {
		params["end_time"] = *p.EndTime
	}
	if p.Limit != nil {
		params["limit"] = *p.Limit
	}
	return c.publicGet(ctx, RouteKlines, nil, params)
}

// Depth 盘口深度
func (c *Client) Depth(ctx context.Context, symbol string, limit *int) (types.Raw, error) {
	params := map[string]any{"symbol": symbol}
	if limit != nil {
		params["limit"] = *limit
	}
	return c.publicGet(ctx, RouteDepth, nil, params)
}
