package client

import (
	"crypto/ecdsa"
	"net/http"
	"sync"
	"time"

	"github.com/betbot/citrex/citrex/signing"
	"github.com/betbot/citrex/citrex/types"
	"github.com/betbot/citrex/pkg/logger"
	"github.com/betbot/citrex/pkg/ratelimit"
	sdkhttp "github.com/betbot/citrex/pkg/sdk/http"
	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"
)

const (
	DefaultReferralCode      = "macchiadisugo"
	DefaultHTTPTimeout       = 30 * time.Second
	DefaultReceiptPolls      = 60
	DefaultPollInterval      = time.Second
	DefaultRequestsPerSecond = 10
)

// Options 客户端选项
type Options struct {
	HTTPTimeout       time.Duration
	RequestsPerSecond float64
	// ReferralCode 登录后绑定的推荐码，为空时不绑定
	ReferralCode string
	// ReceiptPolls 等待交易回执的最大轮询次数
	ReceiptPolls int
	PollInterval time.Duration
	// Backend 链上客户端，为 nil 时首次使用时连接 RPCURL
	Backend   ChainBackend
	Transport http.RoundTripper
	Logger    logrus.FieldLogger
	Clock     func() time.Time
}

// Option 修改 Options
type Option func(*Options)

func WithHTTPTimeout(d time.Duration) Option { return func(o *Options) { o.HTTPTimeout = d } }

func WithRequestsPerSecond(rps float64) Option {
	return func(o *Options) { o.RequestsPerSecond = rps }
}

func WithReferralCode(code string) Option { return func(o *Options) { o.ReferralCode = code } }

// WithReceiptPolling 回执轮询次数和间隔
func WithReceiptPolling(polls int, interval time.Duration) Option {
	return func(o *Options) {
		o.ReceiptPolls = polls
		o.PollInterval = interval
	}
}

func WithBackend(b ChainBackend) Option { return func(o *Options) { o.Backend = b } }

func WithTransport(rt http.RoundTripper) Option { return func(o *Options) { o.Transport = rt } }

func WithLogger(l logrus.FieldLogger) Option { return func(o *Options) { o.Logger = l } }

func WithClock(now func() time.Time) Option { return func(o *Options) { o.Clock = now } }

func defaultOptions() Options {
	return Options{
		HTTPTimeout:       DefaultHTTPTimeout,
		RequestsPerSecond: DefaultRequestsPerSecond,
		ReferralCode:      DefaultReferralCode,
		ReceiptPolls:      DefaultReceiptPolls,
		PollInterval:      DefaultPollInterval,
	}
}

// Client 交易所客户端。一个实例对应一个会话，不要在多个 goroutine 间并发下单或充值
type Client struct {
	cfg     types.EnvConfig
	opts    Options
	log     logrus.FieldLogger
	signer  *signing.Signer
	builder *signing.Builder
	account types.AccountContext

	http        *sdkhttp.Client
	rateLimiter *ratelimit.RateLimitManager

	sess session

	chainMu sync.Mutex
	chain   ChainBackend
}

// NewClient 创建客户端，不做任何网络请求；key 为 nil 时只能访问公共接口。
// 需要会话的调用之前先执行 Connect
func NewClient(cfg types.EnvConfig, key *ecdsa.PrivateKey, subAccountID int, opts ...Option) (*Client, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.ReceiptPolls <= 0 {
		o.ReceiptPolls = DefaultReceiptPolls
	}
	if o.PollInterval <= 0 {
		o.PollInterval = DefaultPollInterval
	}
	if o.Logger == nil {
		o.Logger = logger.Logger
	}

	domain, err := signing.NewDomain(cfg)
	if err != nil {
		return nil, err
	}
	signer := signing.NewSigner(key)
	account, err := types.NewAccountContext(signer.Address(), subAccountID)
	if err != nil {
		return nil, err
	}
	builder := signing.NewBuilder(domain, account)
	if o.Clock != nil {
		builder = builder.WithClock(o.Clock)
	}

	return &Client{
		cfg:     cfg,
		opts:    o,
		log:     o.Logger.WithField("component", "citrex"),
		signer:  signer,
		builder: builder,
		account: account,
		http: sdkhttp.NewClient(cfg.APIURL, sdkhttp.Options{
			Timeout:   o.HTTPTimeout,
			Transport: o.Transport,
		}),
		rateLimiter: ratelimit.NewRateLimitManager(ratelimit.Limit{
			PerSecond: o.RequestsPerSecond,
			Burst:     int(o.RequestsPerSecond),
		}),
		chain: o.Backend,
	}, nil
}

// Config 网络配置
func (c *Client) Config() types.EnvConfig { return c.cfg }

// Domain 签名域
func (c *Client) Domain() signing.Domain { return c.builder.Domain() }

// HasKey 是否配置了私钥
func (c *Client) HasKey() bool { return c.signer.HasKey() }

// ContractAddress 按名称取合约地址（CORE_COLLATERAL / PROTOCOL / VERIFYING_CONTRACT）
func (c *Client) ContractAddress(name types.ContractName) (common.Address, error) {
	return c.cfg.ContractAddress(name)
}

// sign 对消息签名，私钥只在 signer 内部使用
func (c *Client) sign(msg *signing.TypedMessage) (signing.SignedPayload, error) {
	return c.signer.Sign(msg)
}
