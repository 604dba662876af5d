package types

import (
	"errors"
	"fmt"
	"strings"
)

// 错误分类的哨兵值，配合 errors.Is 使用
var (
	ErrValidation    = errors.New("validation error")
	ErrPrecondition  = errors.New("precondition error")
	ErrConfiguration = errors.New("configuration error")
	ErrSigning       = errors.New("signing error")
	ErrAuthExpired   = errors.New("session expired")
	ErrAPI           = errors.New("api error")
	ErrChain         = errors.New("chain error")
	ErrTimeout       = errors.New("timeout")
)

// ValidationError 调用方输入非法，永远不会发到网络
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation: " + e.Msg
	}
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Msg)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// PreconditionError 私有操作缺少签名私钥，在发送前拦截
type PreconditionError struct {
	Route string
	Msg   string
}

func (e *PreconditionError) Error() string {
	if e.Route != "" {
		return fmt.Sprintf("private route %s requires a private key, please provide one at construction", e.Route)
	}
	return "precondition: " + e.Msg
}

func (e *PreconditionError) Is(target error) bool { return target == ErrPrecondition }

// ConfigurationError 网络配置不完整或路由未知
type ConfigurationError struct {
	Msg     string
	Missing []string
}

func (e *ConfigurationError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("configuration: %s (missing: %s)", e.Msg, strings.Join(e.Missing, ", "))
	}
	return "configuration: " + e.Msg
}

func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }

// SigningError 签名失败或未配置私钥
type SigningError struct {
	Msg string
	Err error
}

func (e *SigningError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("signing: %s: %v", e.Msg, e.Err)
	}
	return "signing: " + e.Msg
}

func (e *SigningError) Unwrap() error { return e.Err }

func (e *SigningError) Is(target error) bool { return target == ErrSigning }

// ApiError 非 2xx 响应，携带状态码、响应体和请求上下文
type ApiError struct {
	Status    int
	Body      string
	Method    string
	Endpoint  string
	Payload   any
	RequestID string
}

func (e *ApiError) Error() string {
	return fmt.Sprintf("api: %s %s failed with status %d: %s (request_id=%s payload=%v)",
		e.Method, e.Endpoint, e.Status, e.Body, e.RequestID, e.Payload)
}

func (e *ApiError) Is(target error) bool { return target == ErrAPI }

// AuthExpiredError 服务端拒绝了会话（401），不会自动重新登录
type AuthExpiredError struct {
	ApiError
}

func (e *AuthExpiredError) Error() string {
	return "session rejected, login again: " + e.ApiError.Error()
}

func (e *AuthExpiredError) Is(target error) bool {
	return target == ErrAuthExpired || target == ErrAPI
}

// ChainError 节点 RPC 失败，立即返回不重试
type ChainError struct {
	Op  string
	Err error
}

func (e *ChainError) Error() string {
	return fmt.Sprintf("chain: %s: %v", e.Op, e.Err)
}

func (e *ChainError) Unwrap() error { return e.Err }

func (e *ChainError) Is(target error) bool { return target == ErrChain }

// TimeoutError 回执轮询次数耗尽
type TimeoutError struct {
	TxHash string
	Polls  int
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timeout: no receipt for %s after %d polls", e.TxHash, e.Polls)
}

func (e *TimeoutError) Is(target error) bool { return target == ErrTimeout }
