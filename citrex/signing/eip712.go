package signing

import (
	"fmt"
	"math/big"

	"github.com/betbot/citrex/citrex/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
)

// Domain EIP712 域（name, version, chainId, verifyingContract）
type Domain struct {
	Name              string
	Version           string
	ChainID           int64
	VerifyingContract common.Address
}

// NewDomain 从网络配置构建签名域，客户端构造时调用一次
func NewDomain(cfg types.EnvConfig) (Domain, error) {
	if err := cfg.Check(); err != nil {
		return Domain{}, err
	}
	verifying, err := cfg.ContractAddress(types.ContractVerifyingContract)
	if err != nil {
		return Domain{}, err
	}
	return Domain{
		Name:              cfg.DomainName(),
		Version:           types.EIP712DomainVersion,
		ChainID:           cfg.ChainID,
		VerifyingContract: verifying,
	}, nil
}

func (d Domain) typedDataDomain() apitypes.TypedDataDomain {
	return apitypes.TypedDataDomain{
		Name:              d.Name,
		Version:           d.Version,
		ChainId:           math.NewHexOrDecimal256(d.ChainID),
		VerifyingContract: d.VerifyingContract.Hex(),
	}
}

// Separator 域分隔符哈希
func (d Domain) Separator() (common.Hash, error) {
	td := apitypes.TypedData{
		Types:  apitypes.Types{"EIP712Domain": domainType},
		Domain: d.typedDataDomain(),
	}
	h, err := td.HashStruct("EIP712Domain", td.Domain.Map())
	if err != nil {
		return common.Hash{}, fmt.Errorf("计算域分隔符失败: %w", err)
	}
	return common.BytesToHash(h), nil
}

// TypedMessage 待签名的结构化消息（域 + 按 schema 填满的字段）
type TypedMessage struct {
	Kind   Kind
	Domain Domain
	Fields map[string]any
}

// newTypedMessage 校验字段与 schema 完全一致（不多不少）
func newTypedMessage(kind Kind, domain Domain, fields map[string]any) (*TypedMessage, error) {
	schema, ok := schemas[kind]
	if !ok {
		return nil, &types.ValidationError{Field: "kind", Msg: fmt.Sprintf("unknown message kind %q", kind)}
	}
	if len(fields) != len(schema) {
		return nil, &types.ValidationError{Field: string(kind), Msg: fmt.Sprintf("expected %d fields, got %d", len(schema), len(fields))}
	}
	for _, f := range schema {
		if v, ok := fields[f.Name]; !ok || v == nil {
			return nil, &types.ValidationError{Field: f.Name, Msg: fmt.Sprintf("%s requires %s", kind, f.Name)}
		}
	}
	return &TypedMessage{Kind: kind, Domain: domain, Fields: fields}, nil
}

// TypedData 转成 go-ethereum 的 TypedData
func (m *TypedMessage) TypedData() apitypes.TypedData {
	msg := make(apitypes.TypedDataMessage, len(m.Fields))
	for k, v := range m.Fields {
		msg[k] = v
	}
	return apitypes.TypedData{
		Types: apitypes.Types{
			"EIP712Domain": domainType,
			string(m.Kind): schemas[m.Kind],
		},
		PrimaryType: string(m.Kind),
		Domain:      m.Domain.typedDataDomain(),
		Message:     msg,
	}
}

// Hash 计算 EIP712 摘要 keccak256("\x19\x01" ‖ domainSeparator ‖ hashStruct(message))
func (m *TypedMessage) Hash() ([]byte, error) {
	hash, _, err := apitypes.TypedDataAndHash(m.TypedData())
	if err != nil {
		return nil, &types.SigningError{Msg: fmt.Sprintf("hash %s", m.Kind), Err: err}
	}
	return hash, nil
}

// Payload 字段副本（不含签名）
func (m *TypedMessage) Payload() map[string]any {
	out := make(map[string]any, len(m.Fields)+1)
	for k, v := range m.Fields {
		out[k] = v
	}
	return out
}

func u64(v uint64) *big.Int {
	return new(big.Int).SetUint64(v)
}
