package client

import (
	"context"
	"crypto/ecdsa"
	"encoding/json"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/betbot/citrex/citrex/signing"
	"github.com/betbot/citrex/citrex/types"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKeyHex = "4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"

var fixedNow = time.UnixMilli(1_700_000_000_000)

func testKey(t *testing.T) *ecdsa.PrivateKey {
	t.Helper()
	key, err := signing.PrivateKeyFromHex(testKeyHex)
	require.NoError(t, err)
	return key
}

func testConfig(t *testing.T, apiURL string) types.EnvConfig {
	t.Helper()
	cfg, err := types.LookupNetwork(types.ChainSei, types.EnvTestnet)
	require.NoError(t, err)
	cfg.APIURL = apiURL
	return cfg
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// newTestClient 指向 apiURL 的客户端；withKey 为 false 时只能访问公共接口
func newTestClient(t *testing.T, apiURL string, withKey bool, opts ...Option) *Client {
	t.Helper()
	var key *ecdsa.PrivateKey
	if withKey {
		key = testKey(t)
	}
	base := []Option{
		WithLogger(quietLogger()),
		WithRequestsPerSecond(0),
		WithClock(func() time.Time { return fixedNow }),
		WithReceiptPolling(5, time.Millisecond),
		WithHTTPTimeout(5 * time.Second),
	}
	c, err := NewClient(testConfig(t, apiURL), key, 2, append(base, opts...)...)
	require.NoError(t, err)
	return c
}

// recorded 服务端收到的一次请求
type recorded struct {
	Method string
	Path   string
	Query  map[string][]string
	Header http.Header
	Body   map[string]any
}

// fakeExchange 按路径返回预设响应并记录请求
type fakeExchange struct {
	t        *testing.T
	mu       sync.Mutex
	requests []recorded
	handlers map[string]func(w http.ResponseWriter, r recorded)
	srv      *httptest.Server
}

func newFakeExchange(t *testing.T) *fakeExchange {
	f := &fakeExchange{t: t, handlers: map[string]func(http.ResponseWriter, recorded){}}
	f.srv = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeExchange) URL() string { return f.srv.URL }

func (f *fakeExchange) on(method, path string, h func(w http.ResponseWriter, r recorded)) {
	f.handlers[method+" "+path] = h
}

func (f *fakeExchange) reply(method, path string, status int, body string) {
	f.on(method, path, func(w http.ResponseWriter, _ recorded) {
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	})
}

func (f *fakeExchange) serve(w http.ResponseWriter, r *http.Request) {
	rec := recorded{Method: r.Method, Path: r.URL.Path, Query: r.URL.Query(), Header: r.Header.Clone()}
	raw, _ := io.ReadAll(r.Body)
	if len(raw) > 0 {
		assert.NoError(f.t, json.Unmarshal(raw, &rec.Body))
	}
	f.mu.Lock()
	f.requests = append(f.requests, rec)
	f.mu.Unlock()

	if h, ok := f.handlers[r.Method+" "+r.URL.Path]; ok {
		h(w, rec)
		return
	}
	_, _ = io.WriteString(w, `{}`)
}

func (f *fakeExchange) calls() []recorded {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recorded(nil), f.requests...)
}

// fakeChain 内存中的节点
type fakeChain struct {
	mu sync.Mutex

	allowance *big.Int
	balance   *big.Int
	// notFoundPolls 每笔交易在返回回执之前返回 not found 的次数，<0 表示永远不出块
	notFoundPolls int
	status        uint64
	receiptErr    error

	sent  []*ethtypes.Transaction
	polls map[common.Hash]int
	// calls 只读合约调用的目标地址
	calls []common.Address
}

func newFakeChain(allowance int64) *fakeChain {
	return &fakeChain{
		allowance: big.NewInt(allowance),
		balance:   big.NewInt(0),
		status:    ethtypes.ReceiptStatusSuccessful,
		polls:     map[common.Hash]int{},
	}
}

func (f *fakeChain) CallContract(_ context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	f.mu.Lock()
	f.calls = append(f.calls, *msg.To)
	f.mu.Unlock()
	method, err := erc20ABI.MethodById(msg.Data[:4])
	if err != nil {
		return nil, err
	}
	switch method.Name {
	case "allowance":
		return method.Outputs.Pack(f.allowance)
	case "balanceOf":
		return method.Outputs.Pack(f.balance)
	}
	return nil, ethereum.NotFound
}

func (f *fakeChain) PendingNonceAt(context.Context, common.Address) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return uint64(len(f.sent)), nil
}

func (f *fakeChain) SuggestGasPrice(context.Context) (*big.Int, error) {
	return big.NewInt(1_000_000_000), nil
}

func (f *fakeChain) EstimateGas(context.Context, ethereum.CallMsg) (uint64, error) {
	return 150_000, nil
}

func (f *fakeChain) SendTransaction(_ context.Context, tx *ethtypes.Transaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, tx)
	return nil
}

func (f *fakeChain) TransactionReceipt(_ context.Context, hash common.Hash) (*ethtypes.Receipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.polls[hash]++
	if f.receiptErr != nil {
		return nil, f.receiptErr
	}
	if f.notFoundPolls < 0 || f.polls[hash] <= f.notFoundPolls {
		return nil, ethereum.NotFound
	}
	return &ethtypes.Receipt{Status: f.status, TxHash: hash}, nil
}

func (f *fakeChain) transactions() []*ethtypes.Transaction {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*ethtypes.Transaction(nil), f.sent...)
}
