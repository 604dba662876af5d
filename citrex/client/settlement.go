package client

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/betbot/citrex/citrex/signing"
	"github.com/betbot/citrex/citrex/types"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// ChainBackend 充值流程用到的节点方法，*ethclient.Client 满足该接口
type ChainBackend interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	SendTransaction(ctx context.Context, tx *ethtypes.Transaction) error
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*ethtypes.Receipt, error)
}

// DepositResult 充值结果；ApproveTx 为零值表示额度足够，跳过了授权
type DepositResult struct {
	ApproveTx common.Hash           `json:"approveTx"`
	DepositTx common.Hash           `json:"depositTx"`
	State     types.SettlementState `json:"state"`
	Success   bool                  `json:"success"`
}

// backend 首次使用时连接节点
func (c *Client) backend(ctx context.Context) (ChainBackend, error) {
	c.chainMu.Lock()
	defer c.chainMu.Unlock()
	if c.chain != nil {
		return c.chain, nil
	}
	ec, err := ethclient.DialContext(ctx, c.cfg.RPCURL)
	if err != nil {
		return nil, &types.ChainError{Op: "dial", Err: err}
	}
	c.chain = ec
	return c.chain, nil
}

// Deposit 充值：额度不足时先授权所需的精确数量（不做无限授权），再调用协议合约 deposit，
// 每一步都等待回执。asset 为空时默认 CORE_COLLATERAL
func (c *Client) Deposit(ctx context.Context, subAccountID int, quantity decimal.Decimal, asset types.ContractName) (*DepositResult, error) {
	if err := c.requireKey("deposit"); err != nil {
		return nil, err
	}
	if err := types.ValidateSubAccountID(subAccountID); err != nil {
		return nil, err
	}
	if asset == "" {
		asset = types.ContractCoreCollateral
	}
	if !asset.IsToken() {
		return nil, &types.ValidationError{Field: "asset", Msg: fmt.Sprintf("%s is not a token asset", asset)}
	}
	amount := signing.ToFixed(quantity)
	if amount.Sign() <= 0 {
		return nil, &types.ValidationError{Field: "quantity", Msg: "must be positive, got " + quantity.String()}
	}
	assetAddr, err := c.ContractAddress(asset)
	if err != nil {
		return nil, err
	}
	protocol, err := c.ContractAddress(types.ContractProtocol)
	if err != nil {
		return nil, err
	}
	backend, err := c.backend(ctx)
	if err != nil {
		return nil, err
	}

	owner := c.signer.Address()
	log := c.log.WithFields(logrus.Fields{
		"asset":        asset,
		"subAccountId": subAccountID,
		"amount":       amount.String(),
	})
	res := &DepositResult{State: types.SettlementPending}

	allowance, err := c.allowance(ctx, backend, assetAddr, owner, protocol)
	if err != nil {
		return nil, err
	}
	if allowance.Cmp(amount) < 0 {
		data, err := erc20ABI.Pack("approve", protocol, amount)
		if err != nil {
			return nil, errors.Wrap(err, "pack approve")
		}
		hash, err := c.submitTx(ctx, backend, assetAddr, data)
		if err != nil {
			return nil, err
		}
		res.ApproveTx = hash
		log.WithField("tx", hash.Hex()).Info("approve submitted")

		ok, err := c.WaitForTransaction(ctx, hash)
		if err != nil {
			res.State = stateFor(err)
			return res, err
		}
		if !ok {
			res.State = types.SettlementReverted
			return res, &types.ChainError{Op: "approve", Err: errors.Errorf("approval %s reverted", hash.Hex())}
		}
	} else {
		log.WithField("allowance", allowance.String()).Debug("allowance sufficient, skip approve")
	}

	data, err := protocolABI.Pack("deposit", owner, uint8(subAccountID), amount, assetAddr)
	if err != nil {
		return nil, errors.Wrap(err, "pack deposit")
	}
	hash, err := c.submitTx(ctx, backend, protocol, data)
	if err != nil {
		return res, err
	}
	res.DepositTx = hash
	log.WithField("tx", hash.Hex()).Info("deposit submitted")

	ok, err := c.WaitForTransaction(ctx, hash)
	if err != nil {
		res.State = stateFor(err)
		return res, err
	}
	res.Success = ok
	if ok {
		res.State = types.SettlementConfirmed
	} else {
		res.State = types.SettlementReverted
	}
	return res, nil
}

func stateFor(err error) types.SettlementState {
	if errors.Is(err, types.ErrTimeout) {
		return types.SettlementTimedOut
	}
	return types.SettlementPending
}

// WaitForTransaction 每隔 PollInterval 查询一次回执，最多 ReceiptPolls 次。
// 节点返回 not found 视为仍在打包中，其它错误立即返回
func (c *Client) WaitForTransaction(ctx context.Context, hash common.Hash) (bool, error) {
	backend, err := c.backend(ctx)
	if err != nil {
		return false, err
	}
	for remaining := c.opts.ReceiptPolls; remaining > 0; remaining-- {
		receipt, err := backend.TransactionReceipt(ctx, hash)
		switch {
		case err == nil && receipt != nil:
			return receipt.Status == ethtypes.ReceiptStatusSuccessful, nil
		case err != nil && !errors.Is(err, ethereum.NotFound):
			return false, &types.ChainError{Op: "receipt", Err: err}
		}
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-time.After(c.opts.PollInterval):
		}
	}
	return false, &types.TimeoutError{TxHash: hash.Hex(), Polls: c.opts.ReceiptPolls}
}

// CollateralBalance 钱包在链上的抵押品余额
func (c *Client) CollateralBalance(ctx context.Context) (decimal.Decimal, error) {
	if err := c.requireKey("balanceOf"); err != nil {
		return decimal.Zero, err
	}
	token, err := c.ContractAddress(types.ContractCoreCollateral)
	if err != nil {
		return decimal.Zero, err
	}
	backend, err := c.backend(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	v, err := c.callUint(ctx, backend, token, "balanceOf", c.signer.Address())
	if err != nil {
		return decimal.Zero, err
	}
	return signing.FromFixed(v), nil
}

func (c *Client) allowance(ctx context.Context, backend ChainBackend, token, owner, spender common.Address) (*big.Int, error) {
	return c.callUint(ctx, backend, token, "allowance", owner, spender)
}

func (c *Client) callUint(ctx context.Context, backend ChainBackend, token common.Address, method string, args ...any) (*big.Int, error) {
	data, err := erc20ABI.Pack(method, args...)
	if err != nil {
		return nil, errors.Wrapf(err, "pack %s", method)
	}
	out, err := backend.CallContract(ctx, ethereum.CallMsg{To: &token, Data: data}, nil)
	if err != nil {
		return nil, &types.ChainError{Op: method, Err: err}
	}
	values, err := erc20ABI.Unpack(method, out)
	if err != nil || len(values) == 0 {
		return nil, &types.ChainError{Op: method, Err: errors.Errorf("unexpected %s result %x: %v", method, out, err)}
	}
	v, ok := values[0].(*big.Int)
	if !ok {
		return nil, &types.ChainError{Op: method, Err: errors.Errorf("unexpected %s result type %T", method, values[0])}
	}
	return v, nil
}

// submitTx 构建 legacy 交易（nonce / gasPrice / gasLimit 由节点给出），EIP-155 签名后广播
func (c *Client) submitTx(ctx context.Context, backend ChainBackend, to common.Address, data []byte) (common.Hash, error) {
	from := c.signer.Address()

	nonce, err := backend.PendingNonceAt(ctx, from)
	if err != nil {
		return common.Hash{}, &types.ChainError{Op: "nonce", Err: err}
	}
	gasPrice, err := backend.SuggestGasPrice(ctx)
	if err != nil {
		return common.Hash{}, &types.ChainError{Op: "gas price", Err: err}
	}
	gasLimit, err := backend.EstimateGas(ctx, ethereum.CallMsg{
		From: from,
		To:   &to,
		Data: data,
	})
	if err != nil {
		return common.Hash{}, &types.ChainError{Op: "estimate gas", Err: err}
	}

	tx := ethtypes.NewTransaction(nonce, to, big.NewInt(0), gasLimit, gasPrice, data)
	signed, err := c.signer.SignTx(tx, big.NewInt(c.cfg.ChainID))
	if err != nil {
		return common.Hash{}, err
	}
	if err := backend.SendTransaction(ctx, signed); err != nil {
		return common.Hash{}, &types.ChainError{Op: "send", Err: err}
	}
	return signed.Hash(), nil
}
