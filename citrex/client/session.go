package client

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"github.com/betbot/citrex/citrex/signing"
	"github.com/betbot/citrex/citrex/types"
	"github.com/pkg/errors"
)

// SessionState 会话状态
type SessionState int

const (
	LoggedOut SessionState = iota
	LoggedIn
)

func (s SessionState) String() string {
	if s == LoggedIn {
		return "logged_in"
	}
	return "logged_out"
}

// session 会话凭证，只在客户端实例内部持有
type session struct {
	mu    sync.RWMutex
	value string
}

func (s *session) token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

func (s *session) set(v string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = v
}

// SessionState 当前会话状态
func (c *Client) SessionState() SessionState {
	if c.sess.token() == "" {
		return LoggedOut
	}
	return LoggedIn
}

// Connect 登录并绑定推荐码。没有私钥时什么也不做
func (c *Client) Connect(ctx context.Context) error {
	if !c.signer.HasKey() {
		c.log.Info("no private key configured, public routes only")
		return nil
	}
	if err := c.Login(ctx); err != nil {
		return err
	}
	if c.opts.ReferralCode == "" {
		return nil
	}
	return c.SetReferralCode(ctx, c.opts.ReferralCode)
}

// Login 签名登录消息换取会话凭证
func (c *Client) Login(ctx context.Context) error {
	if _, err := c.authorize(RouteSessionLogin, http.MethodPost); err != nil {
		return err
	}
	msg, err := c.builder.Login()
	if err != nil {
		return err
	}
	payload, err := c.sign(msg)
	if err != nil {
		return err
	}
	raw, requestID, err := c.dispatch(ctx, request{
		route:  RouteSessionLogin,
		method: http.MethodPost,
		body:   payload,
	})
	if err != nil {
		return err
	}
	var resp types.SessionResponse
	if err := decodeRaw(raw, &resp); err != nil {
		return err
	}
	if resp.Value == "" {
		// 2xx 但没有凭证
		return &types.ApiError{
			Status:    http.StatusOK,
			Body:      "login response has no session token: " + string(raw),
			Method:    http.MethodPost,
			Endpoint:  RouteSessionLogin.Path(),
			Payload:   signing.Canonicalize(payload),
			RequestID: requestID,
		}
	}
	c.sess.set(resp.Value)
	c.log.WithField("account", c.account.Wallet().Hex()).Info("logged in")
	return nil
}

// Logout 注销会话，无论服务端返回什么都会清除本地凭证
func (c *Client) Logout(ctx context.Context) (types.Raw, error) {
	if _, err := c.authorize(RouteSessionLogout, http.MethodGet); err != nil {
		return nil, err
	}
	defer c.sess.set("")
	return c.send(ctx, request{route: RouteSessionLogout, method: http.MethodGet, authenticated: true})
}

// SessionStatus 查询会话状态
func (c *Client) SessionStatus(ctx context.Context) (types.Raw, error) {
	return c.send(ctx, request{route: RouteSessionStatus, method: http.MethodGet, authenticated: true})
}

// SetReferralCode 绑定推荐码；已经绑定过时忽略
func (c *Client) SetReferralCode(ctx context.Context, code string) error {
	if _, err := c.authorize(RouteReferral, http.MethodPost); err != nil {
		return err
	}
	msg, err := c.builder.Referral(code)
	if err != nil {
		return err
	}
	payload, err := c.sign(msg)
	if err != nil {
		return err
	}
	_, err = c.send(ctx, request{
		route:         RouteReferral,
		method:        http.MethodPost,
		body:          payload,
		authenticated: true,
	})
	if err != nil {
		if IsAlreadyReferred(err) {
			c.log.WithField("code", code).Debug("referral already bound")
			return nil
		}
		return errors.Wrap(err, "set referral code")
	}
	return nil
}

// IsAlreadyReferred 服务端没有专门的错误码，只能匹配响应体文本
func IsAlreadyReferred(err error) bool {
	var apiErr *types.ApiError
	if !errors.As(err, &apiErr) {
		return false
	}
	return strings.Contains(strings.ToLower(apiErr.Body), "already referred")
}
