package client

import (
	"fmt"

	"github.com/betbot/citrex/citrex/types"
	"github.com/ethereum/go-ethereum/common"
)

// authorize 在发出任何请求之前检查路由：未知路由或不允许的方法返回 ConfigurationError，
// 私有路由在没有私钥时返回 PreconditionError
func (c *Client) authorize(route Route, method string) (routeSpec, error) {
	spec, ok := routes[route]
	if !ok {
		return routeSpec{}, &types.ConfigurationError{Msg: fmt.Sprintf("unknown route %d", int(route))}
	}
	if !spec.allows(method) {
		return routeSpec{}, &types.ConfigurationError{Msg: fmt.Sprintf("method %s not allowed on %s", method, spec.path)}
	}
	switch spec.auth {
	case types.AuthPublic:
		return spec, nil
	case types.AuthPrivate:
		if !c.signer.HasKey() {
			return routeSpec{}, &types.PreconditionError{
				Route: spec.path,
				Msg:   "private route requires a private key, provide one when creating the client",
			}
		}
		return spec, nil
	default:
		return routeSpec{}, &types.ConfigurationError{Msg: fmt.Sprintf("route %s has no auth class", spec.path)}
	}
}

// requireKey 链上操作的前置检查
func (c *Client) requireKey(op string) error {
	if !c.signer.HasKey() {
		return &types.PreconditionError{Route: op, Msg: "operation requires a private key"}
	}
	return nil
}

// Address 钱包地址，没有私钥时为零地址
func (c *Client) Address() common.Address {
	return c.account.Wallet()
}

// SubAccountID 默认子账户
func (c *Client) SubAccountID() int {
	return int(c.account.SubAccountID())
}
