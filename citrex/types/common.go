package types

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Chain 支持的链
type Chain string

const (
	ChainSei      Chain = "SEI"
	ChainArbitrum Chain = "ARBITRUM"
	ChainBlast    Chain = "BLAST"
	ChainCustom   Chain = "CUSTOM"
)

// ParseChain 解析链名称（大小写不敏感）
func ParseChain(s string) (Chain, error) {
	c := Chain(strings.ToUpper(strings.TrimSpace(s)))
	switch c {
	case ChainSei, ChainArbitrum, ChainBlast, ChainCustom:
		return c, nil
	}
	return "", &ConfigurationError{Msg: fmt.Sprintf("unsupported chain %q", s)}
}

// Environment 运行环境
type Environment string

const (
	EnvProd    Environment = "prod"
	EnvTestnet Environment = "testnet"
	EnvDevnet  Environment = "local"
)

// ParseEnvironment 解析环境名称，devnet 是 local 的别名
func ParseEnvironment(s string) (Environment, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "prod", "mainnet":
		return EnvProd, nil
	case "testnet", "staging":
		return EnvTestnet, nil
	case "local", "devnet":
		return EnvDevnet, nil
	}
	return "", &ConfigurationError{Msg: fmt.Sprintf("unsupported environment %q", s)}
}

// Side 订单方向，线上以 isBuy 布尔值传输
type Side bool

const (
	SideBuy  Side = true
	SideSell Side = false
)

func (s Side) String() string {
	if s {
		return "BUY"
	}
	return "SELL"
}

// ParseSide 解析订单方向
func ParseSide(s string) (Side, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "BUY", "B", "LONG":
		return SideBuy, nil
	case "SELL", "S", "SHORT":
		return SideSell, nil
	}
	return false, &ValidationError{Field: "side", Msg: fmt.Sprintf("unknown side %q", s)}
}

// OrderType 订单类型
type OrderType uint8

const (
	OrderTypeLimit      OrderType = 0
	OrderTypeLimitMaker OrderType = 1
	OrderTypeMarket     OrderType = 2
)

func (t OrderType) String() string {
	switch t {
	case OrderTypeLimit:
		return "LIMIT"
	case OrderTypeLimitMaker:
		return "LIMIT_MAKER"
	case OrderTypeMarket:
		return "MARKET"
	}
	return fmt.Sprintf("OrderType(%d)", uint8(t))
}

// ParseOrderType 解析订单类型
func ParseOrderType(s string) (OrderType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "LIMIT":
		return OrderTypeLimit, nil
	case "LIMIT_MAKER", "MAKER", "POST_ONLY":
		return OrderTypeLimitMaker, nil
	case "MARKET":
		return OrderTypeMarket, nil
	}
	return 0, &ValidationError{Field: "orderType", Msg: fmt.Sprintf("unknown order type %q", s)}
}

// TimeInForce 订单有效期
type TimeInForce uint8

const (
	TimeInForceGTC TimeInForce = 0 // Good Till Cancel
	TimeInForceFOK TimeInForce = 1 // Fill or Kill
	TimeInForceIOC TimeInForce = 2 // Immediate or Cancel
)

func (t TimeInForce) String() string {
	switch t {
	case TimeInForceGTC:
		return "GTC"
	case TimeInForceFOK:
		return "FOK"
	case TimeInForceIOC:
		return "IOC"
	}
	return fmt.Sprintf("TimeInForce(%d)", uint8(t))
}

// ParseTimeInForce 解析订单有效期
func ParseTimeInForce(s string) (TimeInForce, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "GTC", "":
		return TimeInForceGTC, nil
	case "FOK":
		return TimeInForceFOK, nil
	case "IOC":
		return TimeInForceIOC, nil
	}
	return 0, &ValidationError{Field: "timeInForce", Msg: fmt.Sprintf("unknown time in force %q", s)}
}

// ContractName 网络配置中的合约名称
type ContractName string

const (
	ContractCoreCollateral    ContractName = "CORE_COLLATERAL"
	ContractProtocol          ContractName = "PROTOCOL"
	ContractVerifyingContract ContractName = "VERIFYING_CONTRACT"
)

// IsToken 是否为 ERC-20 资产（可以充值、提现）
func (n ContractName) IsToken() bool {
	return n == ContractCoreCollateral
}

// AuthClass 路由的认证类别
type AuthClass int

const (
	AuthPublic AuthClass = iota
	AuthPrivate
)

func (a AuthClass) String() string {
	if a == AuthPrivate {
		return "PRIVATE"
	}
	return "PUBLIC"
}

// SettlementState 链上交易在回执轮询过程中的状态
type SettlementState int

const (
	SettlementPending SettlementState = iota
	SettlementConfirmed
	SettlementReverted
	SettlementTimedOut
)

func (s SettlementState) String() string {
	switch s {
	case SettlementPending:
		return "PENDING"
	case SettlementConfirmed:
		return "CONFIRMED"
	case SettlementReverted:
		return "REVERTED"
	case SettlementTimedOut:
		return "TIMED_OUT"
	}
	return fmt.Sprintf("SettlementState(%d)", int(s))
}

// MaxSubAccountID 子账户 ID 上限（uint8）
const MaxSubAccountID = 255

// AccountContext 钱包地址 + 子账户，构造时校验，之后不可变
type AccountContext struct {
	wallet       common.Address
	subAccountID uint8
}

// NewAccountContext 创建账户上下文，subAccountID 必须在 [0,255]
func NewAccountContext(wallet common.Address, subAccountID int) (AccountContext, error) {
	if err := ValidateSubAccountID(subAccountID); err != nil {
		return AccountContext{}, err
	}
	return AccountContext{wallet: wallet, subAccountID: uint8(subAccountID)}, nil
}

// ValidateSubAccountID 校验子账户 ID 范围
func ValidateSubAccountID(id int) error {
	if id < 0 || id > MaxSubAccountID {
		return &ValidationError{
			Field: "subAccountId",
			Msg:   fmt.Sprintf("invalid subAccountId=%d, expected 0 <= subAccountId <= %d", id, MaxSubAccountID),
		}
	}
	return nil
}

// Wallet 钱包地址
func (a AccountContext) Wallet() common.Address { return a.wallet }

// SubAccountID 子账户 ID
func (a AccountContext) SubAccountID() uint8 { return a.subAccountID }

// MarshalText 以状态名输出
func (s SettlementState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
