package client

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// ERC20ABI 只包含充值流程需要的方法
const ERC20ABI = `[
	{"constant":true,"inputs":[{"name":"owner","type":"address"},{"name":"spender","type":"address"}],"name":"allowance","outputs":[{"name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
	{"constant":false,"inputs":[{"name":"spender","type":"address"},{"name":"amount","type":"uint256"}],"name":"approve","outputs":[{"name":"","type":"bool"}],"stateMutability":"nonpayable","type":"function"},
	{"constant":true,"inputs":[{"name":"account","type":"address"}],"name":"balanceOf","outputs":[{"name":"","type":"uint256"}],"stateMutability":"view","type":"function"}
]`

// ProtocolABI 协议合约充值入口
const ProtocolABI = `[
	{"inputs":[{"name":"account","type":"address"},{"name":"subAccountId","type":"uint8"},{"name":"quantity","type":"uint256"},{"name":"asset","type":"address"}],"name":"deposit","outputs":[],"stateMutability":"nonpayable","type":"function"}
]`

var (
	erc20ABI    = mustParseABI(ERC20ABI)
	protocolABI = mustParseABI(ProtocolABI)
)

func mustParseABI(raw string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(raw))
	if err != nil {
		panic("parse abi: " + err.Error())
	}
	return parsed
}
