package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/betbot/citrex/pkg/wallet"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

var keyCommand = &cli.Command{
	Name:  "key",
	Usage: "manage the encrypted key store",
	Subcommands: []*cli.Command{
		{
			Name:  "import",
			Usage: "store a private key or mnemonic in the badger key store (CITREX_SECRET_DB / CITREX_SECRET_KEY)",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "private-key", Usage: "hex private key; prompts for a mnemonic when neither flag is set"},
				&cli.StringFlag{Name: "mnemonic"},
				&cli.StringFlag{Name: "path", Usage: "derivation path for the mnemonic"},
			},
			Action: func(c *cli.Context) error {
				store := state.cfg.SecretStore
				if store.Path == "" {
					return errors.New("secret store path is not configured (CITREX_SECRET_DB)")
				}
				pk, mn := c.String("private-key"), c.String("mnemonic")
				if pk == "" && mn == "" {
					fmt.Fprintln(os.Stderr, "请输入助记词（12/15/18/21/24 个单词），输入完成后回车：")
					mn = readLine()
				}
				addr, err := wallet.Import(store, pk, mn, c.String("path"))
				if err != nil {
					return err
				}
				return printJSON(map[string]string{"address": addr.Hex(), "store": store.Path})
			},
		},
	},
}

func readLine() string {
	br := bufio.NewReader(os.Stdin)
	s, _ := br.ReadString('\n')
	return strings.TrimSpace(s)
}
