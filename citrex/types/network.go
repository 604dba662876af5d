package types

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

const (
	// EIP712DomainName 交易所验签使用的域名称
	EIP712DomainName = "ciao"
	// EIP712DomainVersion 固定版本号
	EIP712DomainVersion = "0.0.0"
)

// EnvConfig 某条链某个环境的网络配置，选定后不可变
type EnvConfig struct {
	APIURL            string `yaml:"api_url" json:"api_url"`
	StreamURL         string `yaml:"stream_url" json:"stream_url"`
	RPCURL            string `yaml:"rpc_url" json:"rpc_url"`
	ChainID           int64  `yaml:"chain_id" json:"chain_id"`
	CoreCollateral    string `yaml:"core_collateral" json:"core_collateral"`
	Protocol          string `yaml:"protocol" json:"protocol"`
	VerifyingContract string `yaml:"verifying_contract" json:"verifying_contract"`
}

// Check 校验所有字段都已填写，缺失时返回列出字段名的 ConfigurationError
func (c EnvConfig) Check() error {
	var missing []string
	if c.APIURL == "" {
		missing = append(missing, "api_url")
	}
	if c.StreamURL == "" {
		missing = append(missing, "stream_url")
	}
	if c.RPCURL == "" {
		missing = append(missing, "rpc_url")
	}
	if c.ChainID == 0 {
		missing = append(missing, "chain_id")
	}
	contracts := []struct{ name, addr string }{
		{"core_collateral", c.CoreCollateral},
		{"protocol", c.Protocol},
		{"verifying_contract", c.VerifyingContract},
	}
	for _, ct := range contracts {
		if ct.addr == "" {
			missing = append(missing, ct.name)
		} else if !common.IsHexAddress(ct.addr) {
			missing = append(missing, ct.name+" (not a hex address)")
		}
	}
	if len(missing) > 0 {
		return &ConfigurationError{Msg: "incomplete network config", Missing: missing}
	}
	return nil
}

// DomainName EIP712 域名称
func (c EnvConfig) DomainName() string {
	return EIP712DomainName
}

// ContractAddress 按名称返回合约地址（checksum 格式）
func (c EnvConfig) ContractAddress(name ContractName) (common.Address, error) {
	var raw string
	switch name {
	case ContractCoreCollateral:
		raw = c.CoreCollateral
	case ContractProtocol:
		raw = c.Protocol
	case ContractVerifyingContract:
		raw = c.VerifyingContract
	default:
		return common.Address{}, &ValidationError{Field: "asset", Msg: fmt.Sprintf("unknown contract %q", name)}
	}
	if !common.IsHexAddress(raw) {
		return common.Address{}, &ConfigurationError{Msg: fmt.Sprintf("contract %s has no valid address", name)}
	}
	return common.HexToAddress(raw), nil
}

// Networks 静态网络配置表。CUSTOM/local 由配置文件或环境变量补全
var Networks = map[Chain]map[Environment]EnvConfig{
	ChainSei: {
		EnvProd: {
			APIURL:            "https://api.citrex.markets/v1",
			StreamURL:         "wss://api.citrex.markets/v1/ws/operate",
			RPCURL:            "https://evm-rpc.sei-apis.com",
			ChainID:           1329,
			CoreCollateral:    "0x3894085Ef7Ff0f0aeDf52E2A2704928d1Ec074F1",
			Protocol:          "0x7461cFe1A4766146cAFce60F6907Ea657550670d",
			VerifyingContract: "0x993543DC8BdFCba9fc7355d822108eF49dB6b9F9",
		},
		EnvTestnet: {
			APIURL:            "https://api.staging.citrex.markets/v1",
			StreamURL:         "wss://api.staging.citrex.markets/v1/ws/operate",
			RPCURL:            "https://evm-rpc-testnet.sei-apis.com",
			ChainID:           1328,
			CoreCollateral:    "0x79A59c326C715AC2d31C169C85d1232319E341ce",
			Protocol:          "0x0F571400ef7D2aEc68b29e58be3adCE1Bb27f33d",
			VerifyingContract: "0x24f4e9Db8225e6AE220FE89782E4A010aEB7bb14",
		},
	},
	ChainArbitrum: {
		// 主网合约尚未部署，地址为零地址
		EnvProd: {
			APIURL:            "https://arbitrum-api.prod.rysk.finance",
			StreamURL:         "wss://arbitrum-stream.prod.rysk.finance",
			RPCURL:            "https://arb1.arbitrum.io/rpc",
			ChainID:           42161,
			CoreCollateral:    "0x0000000000000000000000000000000000000000",
			Protocol:          "0x0000000000000000000000000000000000000000",
			VerifyingContract: "0x0000000000000000000000000000000000000000",
		},
		EnvTestnet: {
			APIURL:            "https://arbitrum-api.staging.rysk.finance",
			StreamURL:         "wss://arbitrum-stream.staging.rysk.finance",
			RPCURL:            "https://sepolia-rollup.arbitrum.io/rpc",
			ChainID:           421614,
			CoreCollateral:    "0xb8bE1401E65dC08Bfb8f832Fc1A27a16CA821B05",
			Protocol:          "0x71728FDDF90233cc35D61bec7858d7c42A310ACe",
			VerifyingContract: "0x27809a3Bd3cf44d855f1BE668bFD16D34bcE157C",
		},
	},
	ChainBlast: {
		EnvProd: {
			APIURL:            "https://api.100x.finance",
			StreamURL:         "wss://stream.100x.finance",
			RPCURL:            "https://rpc.blast.io",
			ChainID:           81457,
			CoreCollateral:    "0x4300000000000000000000000000000000000003",
			Protocol:          "0x1BaEbEE6B00B3f559B0Ff0719B47E0aF22A6bfC4",
			VerifyingContract: "0x691a5fc3a81a144e36c6C4fBCa1fC82843c80d0d",
		},
		EnvTestnet: {
			APIURL:            "https://api.staging.100x.finance",
			StreamURL:         "wss://stream.staging.100x.finance",
			RPCURL:            "https://sepolia.blast.io",
			ChainID:           168587773,
			CoreCollateral:    "0x79A59c326C715AC2d31C169C85d1232319E341ce",
			Protocol:          "0x9645aD4bE9bAd73B95ae785765e3683e418806A9",
			VerifyingContract: "0xb87e7d837844F3BbbF043F47E6Ee15B42208F9cd",
		},
	},
	ChainCustom: {
		EnvDevnet: {},
	},
}

// LookupNetwork 按链和环境查找配置（返回副本）
func LookupNetwork(chain Chain, env Environment) (EnvConfig, error) {
	envs, ok := Networks[chain]
	if !ok {
		return EnvConfig{}, &ConfigurationError{Msg: fmt.Sprintf("unsupported chain %q", chain)}
	}
	cfg, ok := envs[env]
	if !ok {
		return EnvConfig{}, &ConfigurationError{Msg: fmt.Sprintf("chain %s has no %q environment", chain, env)}
	}
	return cfg, nil
}
