package signing

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// Decimals 价格和数量的定点精度
const Decimals = 18

// StringEncodedKeys 发送前需要转成十进制字符串的字段
var StringEncodedKeys = []string{"price", "quantity"}

// ToFixed 十进制值放大 10^18 并截断为整数
func ToFixed(d decimal.Decimal) *big.Int {
	return d.Shift(Decimals).BigInt()
}

// FromFixed 定点整数还原为十进制值
func FromFixed(v *big.Int) decimal.Decimal {
	if v == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(v, -Decimals)
}

// ParseDecimal 解析用户输入的十进制字符串
func ParseDecimal(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid decimal %q: %w", s, err)
	}
	return d, nil
}

// Canonicalize 返回一个副本，其中 price/quantity 被编码为十进制字符串，嵌套的 map 同样处理
func Canonicalize(message map[string]any) map[string]any {
	if message == nil {
		return nil
	}
	out := make(map[string]any, len(message))
	for k, v := range message {
		switch t := v.(type) {
		case SignedPayload:
			out[k] = Canonicalize(t)
			continue
		case map[string]any:
			out[k] = Canonicalize(t)
			continue
		}
		if isStringEncoded(k) {
			out[k] = toDecimalString(v)
			continue
		}
		out[k] = v
	}
	return out
}

func isStringEncoded(key string) bool {
	for _, k := range StringEncodedKeys {
		if k == key {
			return true
		}
	}
	return false
}

func toDecimalString(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		return t
	case *big.Int:
		return t.String()
	case decimal.Decimal:
		return t.String()
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}
