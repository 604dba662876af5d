package main

import (
	"fmt"
	"math"

	"github.com/betbot/citrex/citrex/signing"
	"github.com/betbot/citrex/citrex/types"
	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v2"
)

var (
	productFlag    = &cli.Uint64Flag{Name: "product", Usage: "product id", Required: true}
	subAccountFlag = &cli.IntFlag{Name: "subaccount", Usage: "subaccount id (defaults to the configured one)"}
	quantityFlag   = &cli.StringFlag{Name: "qty", Usage: "decimal quantity", Required: true}
	assetFlag      = &cli.StringFlag{Name: "asset", Value: string(types.ContractCoreCollateral), Usage: "contract name of the asset"}
)

var orderCommand = &cli.Command{
	Name:  "order",
	Usage: "create, cancel and replace orders",
	Subcommands: []*cli.Command{
		{
			Name:  "create",
			Usage: "place an order",
			Flags: []cli.Flag{
				productFlag, subAccountFlag, quantityFlag,
				&cli.StringFlag{Name: "side", Value: "buy"},
				&cli.StringFlag{Name: "type", Value: "LIMIT"},
				&cli.StringFlag{Name: "tif", Value: "GTC"},
				&cli.StringFlag{Name: "price", Usage: "decimal price, required for LIMIT"},
				&cli.Uint64Flag{Name: "nonce", Usage: "0 uses the current timestamp"},
			},
			Action: func(c *cli.Context) error {
				product, err := productID(c)
				if err != nil {
					return err
				}
				p := types.OrderParams{
					SubAccountID: subAccount(c),
					ProductID:    product,
					Nonce:        c.Uint64("nonce"),
				}
				if p.Quantity, err = decimalFlag(c, "qty"); err != nil {
					return err
				}
				if c.IsSet("price") {
					price, err := decimalFlag(c, "price")
					if err != nil {
						return err
					}
					p.Price = &price
				}
				if p.Side, err = types.ParseSide(c.String("side")); err != nil {
					return err
				}
				if p.OrderType, err = types.ParseOrderType(c.String("type")); err != nil {
					return err
				}
				if p.TimeInForce, err = types.ParseTimeInForce(c.String("tif")); err != nil {
					return err
				}
				cl, err := connected(c)
				if err != nil {
					return err
				}
				raw, err := cl.CreateOrder(c.Context, p)
				if err != nil {
					return err
				}
				return printJSON(raw)
			},
		},
		{
			Name:  "cancel",
			Usage: "cancel one order",
			Flags: []cli.Flag{productFlag, subAccountFlag, &cli.StringFlag{Name: "id", Required: true}},
			Action: func(c *cli.Context) error {
				product, err := productID(c)
				if err != nil {
					return err
				}
				p := types.CancelOrderParams{ProductID: product, OrderID: c.String("id")}
				if c.IsSet("subaccount") {
					sub := c.Int("subaccount")
					p.SubAccountID = &sub
				}
				cl, err := connected(c)
				if err != nil {
					return err
				}
				raw, err := cl.CancelOrder(c.Context, p)
				if err != nil {
					return err
				}
				return printJSON(raw)
			},
		},
		{
			Name:  "cancel-all",
			Usage: "cancel every open order of a product",
			Flags: []cli.Flag{productFlag, subAccountFlag},
			Action: func(c *cli.Context) error {
				product, err := productID(c)
				if err != nil {
					return err
				}
				cl, err := connected(c)
				if err != nil {
					return err
				}
				raw, err := cl.CancelAllOrders(c.Context, subAccount(c), product)
				if err != nil {
					return err
				}
				return printJSON(raw)
			},
		},
		{
			Name:  "replace",
			Usage: "cancel an order and place a new one",
			Flags: []cli.Flag{
				productFlag, subAccountFlag, quantityFlag,
				&cli.StringFlag{Name: "price", Required: true},
				&cli.StringFlag{Name: "side", Value: "buy"},
				&cli.StringFlag{Name: "cancel-id", Required: true},
				&cli.StringFlag{Name: "type", Usage: "defaults to LIMIT_MAKER"},
				&cli.StringFlag{Name: "tif", Usage: "defaults to GTC"},
				&cli.Uint64Flag{Name: "nonce"},
			},
			Action: func(c *cli.Context) error {
				product, err := productID(c)
				if err != nil {
					return err
				}
				p := types.CancelAndReplaceParams{
					ProductID:       product,
					OrderIDToCancel: c.String("cancel-id"),
					Nonce:           c.Uint64("nonce"),
				}
				if p.Quantity, err = decimalFlag(c, "qty"); err != nil {
					return err
				}
				if p.Price, err = decimalFlag(c, "price"); err != nil {
					return err
				}
				if p.Side, err = types.ParseSide(c.String("side")); err != nil {
					return err
				}
				if c.IsSet("subaccount") {
					sub := c.Int("subaccount")
					p.SubAccountID = &sub
				}
				if c.IsSet("type") {
					ot, err := types.ParseOrderType(c.String("type"))
					if err != nil {
						return err
					}
					p.OrderType = &ot
				}
				if c.IsSet("tif") {
					tif, err := types.ParseTimeInForce(c.String("tif"))
					if err != nil {
						return err
					}
					p.TimeInForce = &tif
				}
				cl, err := connected(c)
				if err != nil {
					return err
				}
				raw, err := cl.CancelAndReplaceOrder(c.Context, p)
				if err != nil {
					return err
				}
				return printJSON(raw)
			},
		},
	},
}

var withdrawCommand = &cli.Command{
	Name:  "withdraw",
	Usage: "withdraw collateral from a subaccount",
	Flags: []cli.Flag{subAccountFlag, quantityFlag, assetFlag},
	Action: func(c *cli.Context) error {
		qty, err := decimalFlag(c, "qty")
		if err != nil {
			return err
		}
		cl, err := connected(c)
		if err != nil {
			return err
		}
		raw, err := cl.Withdraw(c.Context, subAccount(c), qty, types.ContractName(c.String("asset")))
		if err != nil {
			return err
		}
		return printJSON(raw)
	},
}

var depositCommand = &cli.Command{
	Name:  "deposit",
	Usage: "approve (if needed) and deposit collateral on chain",
	Flags: []cli.Flag{subAccountFlag, quantityFlag, assetFlag},
	Action: func(c *cli.Context) error {
		qty, err := decimalFlag(c, "qty")
		if err != nil {
			return err
		}
		cl, err := newClient(true)
		if err != nil {
			return err
		}
		res, err := cl.Deposit(c.Context, subAccount(c), qty, types.ContractName(c.String("asset")))
		if res != nil {
			if perr := printJSON(res); perr != nil {
				return perr
			}
		}
		return err
	},
}

func subAccount(c *cli.Context) int {
	if c.IsSet("subaccount") {
		return c.Int("subaccount")
	}
	return state.cfg.Wallet.SubAccountID
}

func productID(c *cli.Context) (uint32, error) {
	return toProductID(c.Uint64("product"))
}

// toProductID 产品 ID 在签名消息中是 uint32，超出范围时报错而不是截断
func toProductID(v uint64) (uint32, error) {
	if v > math.MaxUint32 {
		return 0, &types.ValidationError{Field: "product", Msg: fmt.Sprintf("product id %d exceeds uint32", v)}
	}
	return uint32(v), nil
}

func decimalFlag(c *cli.Context, name string) (decimal.Decimal, error) {
	d, err := signing.ParseDecimal(c.String(name))
	if err != nil {
		return decimal.Zero, &types.ValidationError{Field: name, Msg: err.Error()}
	}
	return d, nil
}
