package signing

import (
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	"github.com/betbot/citrex/citrex/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

// SignedPayload 消息字段 + signature
type SignedPayload map[string]any

// Signature 签名（0x 十六进制）
func (p SignedPayload) Signature() string {
	s, _ := p["signature"].(string)
	return s
}

// Signer 持有私钥，只在进程内存中保存，不输出到日志
type Signer struct {
	key     *ecdsa.PrivateKey
	address common.Address
}

// NewSigner 创建签名器；key 为 nil 时签名会返回 SigningError
func NewSigner(key *ecdsa.PrivateKey) *Signer {
	s := &Signer{key: key}
	if key != nil {
		s.address = crypto.PubkeyToAddress(key.PublicKey)
	}
	return s
}

// HasKey 是否配置了私钥
func (s *Signer) HasKey() bool {
	return s != nil && s.key != nil
}

// Address 私钥对应的地址
func (s *Signer) Address() common.Address {
	if s == nil {
		return common.Address{}
	}
	return s.address
}

// String 只输出地址
func (s *Signer) String() string {
	if !s.HasKey() {
		return "Signer(<no key>)"
	}
	return "Signer(" + s.address.Hex() + ")"
}

// Sign 对消息做 EIP712 签名，返回带 signature 的载荷
func (s *Signer) Sign(msg *TypedMessage) (SignedPayload, error) {
	if !s.HasKey() {
		return nil, &types.SigningError{Msg: "no private key configured"}
	}
	if msg == nil {
		return nil, &types.SigningError{Msg: "nil message"}
	}
	hash, err := msg.Hash()
	if err != nil {
		return nil, err
	}
	sig, err := crypto.Sign(hash, s.key)
	if err != nil {
		return nil, &types.SigningError{Msg: fmt.Sprintf("sign %s", msg.Kind), Err: err}
	}
	// crypto.Sign 返回 r ‖ s ‖ v(0/1)，验签端要求 v 为 27/28
	sig[crypto.RecoveryIDOffset] += 27

	payload := SignedPayload(msg.Payload())
	payload["signature"] = hexutil.Encode(sig)
	return payload, nil
}

// SignTx 用 EIP155 签名原始交易
func (s *Signer) SignTx(tx *ethtypes.Transaction, chainID *big.Int) (*ethtypes.Transaction, error) {
	if !s.HasKey() {
		return nil, &types.SigningError{Msg: "no private key configured"}
	}
	signed, err := ethtypes.SignTx(tx, ethtypes.NewEIP155Signer(chainID), s.key)
	if err != nil {
		return nil, &types.SigningError{Msg: "sign transaction", Err: err}
	}
	return signed, nil
}

// RecoverAddress 从签名恢复签名者地址，用于校验
func RecoverAddress(msg *TypedMessage, signature string) (common.Address, error) {
	sig, err := hexutil.Decode(signature)
	if err != nil {
		return common.Address{}, fmt.Errorf("decode signature: %w", err)
	}
	if len(sig) != crypto.SignatureLength {
		return common.Address{}, fmt.Errorf("signature length %d, expected %d", len(sig), crypto.SignatureLength)
	}
	if sig[crypto.RecoveryIDOffset] >= 27 {
		sig[crypto.RecoveryIDOffset] -= 27
	}
	hash, err := msg.Hash()
	if err != nil {
		return common.Address{}, err
	}
	pub, err := crypto.SigToPub(hash, sig)
	if err != nil {
		return common.Address{}, fmt.Errorf("recover public key: %w", err)
	}
	return crypto.PubkeyToAddress(*pub), nil
}

// PrivateKeyFromHex 从十六进制字符串解析私钥（可带 0x 前缀）
func PrivateKeyFromHex(hexKey string) (*ecdsa.PrivateKey, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(hexKey), "0x"))
	if err != nil {
		return nil, &types.SigningError{Msg: "invalid private key", Err: err}
	}
	return key, nil
}
