package main

import (
	"github.com/betbot/citrex/citrex/client"
	"github.com/betbot/citrex/citrex/types"
	"github.com/urfave/cli/v2"
)

var loginCommand = &cli.Command{
	Name:  "login",
	Usage: "check credentials by logging in and binding the referral code",
	Action: func(c *cli.Context) error {
		cl, err := connected(c)
		if err != nil {
			return err
		}
		return printJSON(map[string]any{
			"address":      cl.Address().Hex(),
			"subAccountId": cl.SubAccountID(),
			"state":        cl.SessionState().String(),
		})
	},
}

var logoutCommand = &cli.Command{
	Name:  "logout",
	Usage: "log in and immediately end the session",
	Action: func(c *cli.Context) error {
		cl, err := newClient(true)
		if err != nil {
			return err
		}
		if err := cl.Login(c.Context); err != nil {
			return err
		}
		raw, err := cl.Logout(c.Context)
		if err != nil {
			return err
		}
		return printJSON(raw)
	},
}

var addressCommand = &cli.Command{
	Name:  "address",
	Usage: "print the wallet address and contract addresses",
	Action: func(c *cli.Context) error {
		cl, err := newClient(true)
		if err != nil {
			return err
		}
		out := map[string]any{"address": cl.Address().Hex()}
		for _, name := range []types.ContractName{types.ContractCoreCollateral, types.ContractProtocol, types.ContractVerifyingContract} {
			addr, err := cl.ContractAddress(name)
			if err != nil {
				return err
			}
			out[string(name)] = addr.Hex()
		}
		return printJSON(out)
	},
}

// privateQuery 登录后执行一个只读查询
func privateQuery(name, usage string, flags []cli.Flag, run func(c *cli.Context, cl *client.Client) (types.Raw, error)) *cli.Command {
	return &cli.Command{
		Name:  name,
		Usage: usage,
		Flags: flags,
		Action: func(c *cli.Context) error {
			cl, err := connected(c)
			if err != nil {
				return err
			}
			raw, err := run(c, cl)
			if err != nil {
				return err
			}
			return printJSON(raw)
		},
	}
}

var statusCommand = privateQuery("status", "session status", nil, func(c *cli.Context, cl *client.Client) (types.Raw, error) {
	return cl.SessionStatus(c.Context)
})

var balancesCommand = &cli.Command{
	Name:  "balances",
	Usage: "exchange balances, or the on-chain collateral balance with --onchain",
	Flags: []cli.Flag{&cli.BoolFlag{Name: "onchain"}},
	Action: func(c *cli.Context) error {
		if c.Bool("onchain") {
			cl, err := newClient(true)
			if err != nil {
				return err
			}
			bal, err := cl.CollateralBalance(c.Context)
			if err != nil {
				return err
			}
			return printJSON(map[string]any{"address": cl.Address().Hex(), "collateral": bal.String()})
		}
		cl, err := connected(c)
		if err != nil {
			return err
		}
		raw, err := cl.Balances(c.Context)
		if err != nil {
			return err
		}
		return printJSON(raw)
	},
}

var symbolFlag = &cli.StringFlag{Name: "symbol", Usage: "product symbol, e.g. ethperp"}

var positionsCommand = privateQuery("positions", "open positions", []cli.Flag{symbolFlag}, func(c *cli.Context, cl *client.Client) (types.Raw, error) {
	return cl.Positions(c.Context, c.String("symbol"))
})

var ordersCommand = privateQuery("orders", "orders by symbol or id", []cli.Flag{
	symbolFlag,
	&cli.StringSliceFlag{Name: "id", Usage: "order id, repeatable"},
}, func(c *cli.Context, cl *client.Client) (types.Raw, error) {
	return cl.Orders(c.Context, types.OrdersFilter{Symbol: c.String("symbol"), IDs: c.StringSlice("id")})
})

var openOrdersCommand = privateQuery("open-orders", "open orders", []cli.Flag{symbolFlag}, func(c *cli.Context, cl *client.Client) (types.Raw, error) {
	return cl.OpenOrders(c.Context, c.String("symbol"))
})

var healthCommand = privateQuery("health", "account health", nil, func(c *cli.Context, cl *client.Client) (types.Raw, error) {
	return cl.AccountHealth(c.Context)
})

var signersCommand = privateQuery("signers", "approved signers", nil, func(c *cli.Context, cl *client.Client) (types.Raw, error) {
	return cl.ApprovedSigners(c.Context)
})
