package main

import (
	"github.com/betbot/citrex/citrex/types"
	"github.com/urfave/cli/v2"
)

var productsCommand = &cli.Command{
	Name:      "products",
	Usage:     "list products, or show one product",
	ArgsUsage: "[symbol]",
	Action: func(c *cli.Context) error {
		cl, err := newClient(false)
		if err != nil {
			return err
		}
		var raw types.Raw
		if symbol := c.Args().First(); symbol != "" {
			raw, err = cl.Product(c.Context, symbol)
		} else {
			raw, err = cl.Products(c.Context)
		}
		if err != nil {
			return err
		}
		return printJSON(raw)
	},
}

var tickerCommand = &cli.Command{
	Name:      "ticker",
	Usage:     "24h ticker",
	ArgsUsage: "[symbol]",
	Action: func(c *cli.Context) error {
		cl, err := newClient(false)
		if err != nil {
			return err
		}
		raw, err := cl.Ticker(c.Context, c.Args().First())
		if err != nil {
			return err
		}
		return printJSON(raw)
	},
}

var depthCommand = &cli.Command{
	Name:      "depth",
	Usage:     "order book depth",
	ArgsUsage: "<symbol>",
	Flags:     []cli.Flag{&cli.IntFlag{Name: "limit"}},
	Action: func(c *cli.Context) error {
		symbol, err := requireArg(c, "symbol")
		if err != nil {
			return err
		}
		cl, err := newClient(false)
		if err != nil {
			return err
		}
		raw, err := cl.Depth(c.Context, symbol, optionalInt(c, "limit"))
		if err != nil {
			return err
		}
		return printJSON(raw)
	},
}

var timeCommand = &cli.Command{
	Name:  "time",
	Usage: "server time",
	Action: func(c *cli.Context) error {
		cl, err := newClient(false)
		if err != nil {
			return err
		}
		raw, err := cl.ServerTime(c.Context)
		if err != nil {
			return err
		}
		return printJSON(raw)
	},
}

var klinesCommand = &cli.Command{
	Name:      "klines",
	Usage:     "candlesticks",
	ArgsUsage: "<symbol>",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "interval", Value: "1m"},
		&cli.Int64Flag{Name: "start", Usage: "start time (ms)"},
		&cli.Int64Flag{Name: "end", Usage: "end time (ms)"},
		&cli.IntFlag{Name: "limit"},
	},
	Action: func(c *cli.Context) error {
		symbol, err := requireArg(c, "symbol")
		if err != nil {
			return err
		}
		cl, err := newClient(false)
		if err != nil {
			return err
		}
		p := types.CandleParams{Interval: c.String("interval"), Limit: optionalInt(c, "limit")}
		if c.IsSet("start") {
			v := c.Int64("start")
			p.StartTime = &v
		}
		if c.IsSet("end") {
			v := c.Int64("end")
			p.EndTime = &v
		}
		raw, err := cl.Candlesticks(c.Context, symbol, p)
		if err != nil {
			return err
		}
		return printJSON(raw)
	},
}

var tradesCommand = &cli.Command{
	Name:      "trades",
	Usage:     "recent trades",
	ArgsUsage: "<symbol>",
	Flags:     []cli.Flag{&cli.IntFlag{Name: "lookback", Value: 50}},
	Action: func(c *cli.Context) error {
		symbol, err := requireArg(c, "symbol")
		if err != nil {
			return err
		}
		cl, err := newClient(false)
		if err != nil {
			return err
		}
		raw, err := cl.TradeHistory(c.Context, symbol, c.Int("lookback"))
		if err != nil {
			return err
		}
		return printJSON(raw)
	},
}

func requireArg(c *cli.Context, name string) (string, error) {
	v := c.Args().First()
	if v == "" {
		return "", &types.ValidationError{Field: name, Msg: "argument is required"}
	}
	return v, nil
}

func optionalInt(c *cli.Context, name string) *int {
	if !c.IsSet(name) {
		return nil
	}
	v := c.Int(name)
	return &v
}
