package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/betbot/citrex/citrex/types"
	"github.com/betbot/citrex/pkg/logger"
	"gopkg.in/yaml.v3"
)

const (
	DefaultReferralCode      = "macchiadisugo"
	DefaultHTTPTimeout       = 30 * time.Second
	DefaultReceiptPolls      = 60
	DefaultPollInterval      = time.Second
	DefaultRequestsPerSecond = 10
	DefaultDerivationPath    = "m/44'/60'/0'/0/0"
)

// WalletConfig 钱包配置。私钥来源优先级：PrivateKey > Mnemonic > 加密存储
type WalletConfig struct {
	PrivateKey     string
	Mnemonic       string
	DerivationPath string
	SubAccountID   int
}

// SecretStoreConfig badger 加密存储
type SecretStoreConfig struct {
	Path          string
	EncryptionKey string
}

// Config 应用配置
type Config struct {
	Chain       types.Chain
	Environment types.Environment
	Network     types.EnvConfig
	Wallet      WalletConfig
	SecretStore SecretStoreConfig

	// ReferralCode 登录后绑定的推荐码，显式配置为空时不绑定
	ReferralCode      string
	HTTPTimeout       time.Duration
	RequestsPerSecond float64
	ReceiptPolls      int
	PollInterval      time.Duration

	Log logger.Config
}

// ConfigFile 配置文件结构（用于 YAML 解析）
type ConfigFile struct {
	Chain       string          `yaml:"chain"`
	Env         string          `yaml:"env"`
	Network     types.EnvConfig `yaml:"network"` // 覆盖内置网络表中的字段
	Wallet      struct {
		PrivateKey     string `yaml:"private_key"`
		Mnemonic       string `yaml:"mnemonic"`
		DerivationPath string `yaml:"derivation_path"`
		SubAccountID   int    `yaml:"subaccount_id"`
	} `yaml:"wallet"`
	SecretStore struct {
		Path          string `yaml:"path"`
		EncryptionKey string `yaml:"encryption_key"`
	} `yaml:"secret_store"`
	ReferralCode      *string       `yaml:"referral_code"`
	HTTPTimeout       string        `yaml:"http_timeout"`
	RequestsPerSecond *float64      `yaml:"requests_per_second"`
	ReceiptPolls      int           `yaml:"receipt_polls"`
	PollInterval      string        `yaml:"poll_interval"`
	Log               logger.Config `yaml:"log"`
}

// LoadFromFile 加载配置（优先级：环境变量 > 配置文件 > 默认值）。filePath 为空时只读环境变量
func LoadFromFile(filePath string) (*Config, error) {
	cf := &ConfigFile{}
	if filePath != "" {
		var err error
		cf, err = loadConfigFile(filePath)
		if err != nil {
			return nil, fmt.Errorf("加载配置文件失败 %s: %w", filePath, err)
		}
	}

	chain, err := types.ParseChain(getValueFromSources(cf.Chain, getEnv("CITREX_CHAIN", ""), string(types.ChainSei)))
	if err != nil {
		return nil, err
	}
	env, err := types.ParseEnvironment(getValueFromSources(cf.Env, getEnv("CITREX_ENV", ""), string(types.EnvTestnet)))
	if err != nil {
		return nil, err
	}
	network, err := resolveNetwork(chain, env, cf.Network)
	if err != nil {
		return nil, err
	}

	httpTimeout, err := parseDuration("http_timeout", getValueFromSources(cf.HTTPTimeout, getEnv("CITREX_HTTP_TIMEOUT", ""), ""), DefaultHTTPTimeout)
	if err != nil {
		return nil, err
	}
	pollInterval, err := parseDuration("poll_interval", getValueFromSources(cf.PollInterval, getEnv("CITREX_POLL_INTERVAL", ""), ""), DefaultPollInterval)
	if err != nil {
		return nil, err
	}

	referral := DefaultReferralCode
	if cf.ReferralCode != nil {
		referral = *cf.ReferralCode
	}
	if v, ok := os.LookupEnv("CITREX_REFERRAL_CODE"); ok {
		referral = v
	}

	rps := float64(DefaultRequestsPerSecond)
	if cf.RequestsPerSecond != nil {
		rps = *cf.RequestsPerSecond
	}
	if rps, err = parseFloatEnv("CITREX_REQUESTS_PER_SECOND", rps); err != nil {
		return nil, err
	}
	subAccountID, err := parseIntEnv("CITREX_SUBACCOUNT_ID", cf.Wallet.SubAccountID)
	if err != nil {
		return nil, err
	}
	receiptPolls, err := parseIntEnv("CITREX_RECEIPT_POLLS", defaultInt(cf.ReceiptPolls, DefaultReceiptPolls))
	if err != nil {
		return nil, err
	}

	logCfg := cf.Log
	logCfg.Level = getValueFromSources(logCfg.Level, getEnv("CITREX_LOG_LEVEL", ""), "info")
	logCfg.OutputFile = getValueFromSources(logCfg.OutputFile, getEnv("CITREX_LOG_FILE", ""), "")
	if logCfg.MaxSize == 0 {
		logCfg.MaxSize = 100
	}

	config := &Config{
		Chain:       chain,
		Environment: env,
		Network:     network,
		Wallet: WalletConfig{
			PrivateKey:     getValueFromSources(cf.Wallet.PrivateKey, getEnv("CITREX_PRIVATE_KEY", ""), ""),
			Mnemonic:       getValueFromSources(cf.Wallet.Mnemonic, getEnv("CITREX_MNEMONIC", ""), ""),
			DerivationPath: getValueFromSources(cf.Wallet.DerivationPath, getEnv("CITREX_DERIVATION_PATH", ""), DefaultDerivationPath),
			SubAccountID:   subAccountID,
		},
		SecretStore: SecretStoreConfig{
			Path:          getValueFromSources(cf.SecretStore.Path, getEnv("CITREX_SECRET_DB", ""), ""),
			EncryptionKey: getValueFromSources(cf.SecretStore.EncryptionKey, getEnv("CITREX_SECRET_KEY", ""), ""),
		},
		ReferralCode:      referral,
		HTTPTimeout:       httpTimeout,
		RequestsPerSecond: rps,
		ReceiptPolls:      receiptPolls,
		PollInterval:      pollInterval,
		Log:               logCfg,
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// loadConfigFile 读取 YAML 配置文件
func loadConfigFile(filePath string) (*ConfigFile, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	var cf ConfigFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("解析 YAML 失败: %w", err)
	}
	return &cf, nil
}

// resolveNetwork 内置网络表 < 配置文件 network 段 < 环境变量
func resolveNetwork(chain types.Chain, env types.Environment, override types.EnvConfig) (types.EnvConfig, error) {
	base, err := types.LookupNetwork(chain, env)
	if err != nil {
		return types.EnvConfig{}, err
	}
	chainID := base.ChainID
	if override.ChainID != 0 {
		chainID = override.ChainID
	}
	chainIDStr := getEnv("CITREX_CHAIN_ID", "")
	if chainIDStr != "" {
		if chainID, err = strconv.ParseInt(chainIDStr, 10, 64); err != nil {
			return types.EnvConfig{}, &types.ConfigurationError{Msg: fmt.Sprintf("invalid CITREX_CHAIN_ID %q", chainIDStr)}
		}
	}
	return types.EnvConfig{
		APIURL:            getEnv("CITREX_API_URL", getValueFromSources(override.APIURL, "", base.APIURL)),
		StreamURL:         getEnv("CITREX_STREAM_URL", getValueFromSources(override.StreamURL, "", base.StreamURL)),
		RPCURL:            getEnv("CITREX_RPC_URL", getValueFromSources(override.RPCURL, "", base.RPCURL)),
		ChainID:           chainID,
		CoreCollateral:    getEnv("CITREX_CORE_COLLATERAL", getValueFromSources(override.CoreCollateral, "", base.CoreCollateral)),
		Protocol:          getEnv("CITREX_PROTOCOL", getValueFromSources(override.Protocol, "", base.Protocol)),
		VerifyingContract: getEnv("CITREX_VERIFYING_CONTRACT", getValueFromSources(override.VerifyingContract, "", base.VerifyingContract)),
	}, nil
}

// Validate 校验网络配置完整、子账户范围合法
func (c *Config) Validate() error {
	if err := c.Network.Check(); err != nil {
		return err
	}
	if err := types.ValidateSubAccountID(c.Wallet.SubAccountID); err != nil {
		return err
	}
	if c.Wallet.PrivateKey != "" && c.Wallet.Mnemonic != "" {
		return &types.ConfigurationError{Msg: "both private_key and mnemonic are set, keep one"}
	}
	if c.ReceiptPolls <= 0 {
		return &types.ConfigurationError{Msg: "receipt_polls must be positive"}
	}
	return nil
}

// getValueFromSources 环境变量优先，其次配置文件，最后默认值
func getValueFromSources(configValue, envValue, defaultValue string) string {
	if envValue != "" {
		return envValue
	}
	if configValue != "" {
		return configValue
	}
	return defaultValue
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

// parseIntEnv 环境变量未设置时返回 defaultValue，格式错误时返回 ConfigurationError
func parseIntEnv(key string, defaultValue int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(value)
	if err != nil {
		return 0, &types.ConfigurationError{Msg: fmt.Sprintf("invalid %s %q", key, value)}
	}
	return v, nil
}

func parseFloatEnv(key string, defaultValue float64) (float64, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue, nil
	}
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, &types.ConfigurationError{Msg: fmt.Sprintf("invalid %s %q", key, value)}
	}
	return v, nil
}

func defaultInt(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}

func parseDuration(field, s string, def time.Duration) (time.Duration, error) {
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, &types.ConfigurationError{Msg: fmt.Sprintf("invalid %s %q", field, s)}
	}
	return d, nil
}
