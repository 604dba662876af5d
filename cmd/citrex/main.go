package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/betbot/citrex/citrex/client"
	"github.com/betbot/citrex/pkg/config"
	"github.com/betbot/citrex/pkg/logger"
	"github.com/betbot/citrex/pkg/shutdown"
	"github.com/betbot/citrex/pkg/wallet"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

// app 一次命令执行期间共享的状态
type app struct {
	cfg  *config.Config
	shut *shutdown.Manager
}

var state = &app{shut: shutdown.NewManager()}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err.Error())
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "citrex",
		Usage: "command line client for the citrex perpetuals exchange",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "YAML config file", EnvVars: []string{"CITREX_CONFIG"}},
			&cli.StringFlag{Name: "env-file", Value: ".env", Usage: "dotenv file loaded before the config"},
		},
		Before: before,
		After:  after,
		Commands: []*cli.Command{
			productsCommand, tickerCommand, depthCommand, timeCommand, klinesCommand, tradesCommand,
			loginCommand, statusCommand, logoutCommand, addressCommand,
			balancesCommand, positionsCommand, ordersCommand, openOrdersCommand, healthCommand, signersCommand,
			orderCommand, withdrawCommand, depositCommand,
			keyCommand,
		},
	}
}

func before(c *cli.Context) error {
	if path := c.String("env-file"); path != "" {
		if err := godotenv.Load(path); err != nil && c.IsSet("env-file") {
			return errors.Wrapf(err, "load %s", path)
		}
	}
	cfg, err := config.LoadFromFile(c.String("config"))
	if err != nil {
		return err
	}
	if err := logger.Init(cfg.Log); err != nil {
		return err
	}
	state.cfg = cfg
	return nil
}

func after(*cli.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	state.shut.Shutdown(ctx)
	return nil
}

// newClient 按配置创建客户端；needKey 为 true 时必须能加载到私钥
func newClient(needKey bool) (*client.Client, error) {
	cfg := state.cfg
	key, src, err := wallet.Load(cfg.Wallet, cfg.SecretStore)
	if err != nil {
		return nil, err
	}
	if needKey && key == nil {
		return nil, errors.New("no private key: set CITREX_PRIVATE_KEY, CITREX_MNEMONIC or import one with `citrex key import`")
	}
	logger.WithField("key_source", src).Debug("wallet loaded")
	return client.NewClient(cfg.Network, key, cfg.Wallet.SubAccountID,
		client.WithHTTPTimeout(cfg.HTTPTimeout),
		client.WithRequestsPerSecond(cfg.RequestsPerSecond),
		client.WithReferralCode(cfg.ReferralCode),
		client.WithReceiptPolling(cfg.ReceiptPolls, cfg.PollInterval),
		client.WithLogger(logger.Logger),
	)
}

// connected 登录后的客户端，命令结束时注销会话
func connected(c *cli.Context) (*client.Client, error) {
	cl, err := newClient(true)
	if err != nil {
		return nil, err
	}
	if err := cl.Connect(c.Context); err != nil {
		return nil, err
	}
	state.shut.OnShutdown("logout", func(ctx context.Context) error {
		_, err := cl.Logout(ctx)
		return err
	})
	return cl, nil
}

// printJSON 结果以缩进 JSON 输出到 stdout
func printJSON(v any) error {
	if raw, ok := v.(json.RawMessage); ok {
		var tmp any
		if err := json.Unmarshal(raw, &tmp); err != nil {
			_, werr := fmt.Fprintln(os.Stdout, string(raw))
			return werr
		}
		v = tmp
	}
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(os.Stdout, string(out))
	return err
}
