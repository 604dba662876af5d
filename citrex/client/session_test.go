package client

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/betbot/citrex/citrex/types"
	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnect_LoginThenReferral(t *testing.T) {
	ex := newFakeExchange(t)
	ex.reply(http.MethodPost, "/v1/session/login", http.StatusOK, `{"value":"tok-1"}`)
	c := newTestClient(t, ex.URL(), true)
	assert.Equal(t, LoggedOut, c.SessionState())

	require.NoError(t, c.Connect(context.Background()))
	assert.Equal(t, LoggedIn, c.SessionState())

	calls := ex.calls()
	require.Len(t, calls, 2)

	login := calls[0]
	assert.Equal(t, "/v1/session/login", login.Path)
	assert.Empty(t, login.Header.Get("cookie"))
	assert.Equal(t, c.Address().Hex(), login.Body["account"])
	assert.Equal(t, "I would like to log into ciao finance", login.Body["message"])
	assert.EqualValues(t, fixedNow.UnixMilli(), login.Body["timestamp"])
	assert.NotEmpty(t, login.Body["signature"])

	referral := calls[1]
	assert.Equal(t, "/v1/referral/add-referee", referral.Path)
	assert.Equal(t, "connectedAddress=tok-1", referral.Header.Get("cookie"))
	assert.Equal(t, DefaultReferralCode, referral.Body["code"])
	assert.NotEmpty(t, referral.Header.Get(headerRequestID))
}

func TestConnect_AlreadyReferredIsNoop(t *testing.T) {
	ex := newFakeExchange(t)
	ex.reply(http.MethodPost, "/v1/session/login", http.StatusOK, `{"value":"tok"}`)
	ex.reply(http.MethodPost, "/v1/referral/add-referee", http.StatusBadRequest, `{"message":"User already referred"}`)
	c := newTestClient(t, ex.URL(), true)

	assert.NoError(t, c.Connect(context.Background()))
	assert.Equal(t, LoggedIn, c.SessionState())
}

func TestConnect_OtherReferralFailureSurfaces(t *testing.T) {
	ex := newFakeExchange(t)
	ex.reply(http.MethodPost, "/v1/session/login", http.StatusOK, `{"value":"tok"}`)
	ex.reply(http.MethodPost, "/v1/referral/add-referee", http.StatusInternalServerError, `{"message":"boom"}`)
	c := newTestClient(t, ex.URL(), true)

	err := c.Connect(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrAPI))
}

func TestConnect_NoReferralCode(t *testing.T) {
	ex := newFakeExchange(t)
	ex.reply(http.MethodPost, "/v1/session/login", http.StatusOK, `{"value":"tok"}`)
	c := newTestClient(t, ex.URL(), true, WithReferralCode(""))

	require.NoError(t, c.Connect(context.Background()))
	assert.Len(t, ex.calls(), 1)
}

func TestConnect_WithoutKeyDoesNothing(t *testing.T) {
	ex := newFakeExchange(t)
	c := newTestClient(t, ex.URL(), false)
	require.NoError(t, c.Connect(context.Background()))
	assert.Empty(t, ex.calls())
	assert.Equal(t, LoggedOut, c.SessionState())
}

func TestLogin_MissingTokenFails(t *testing.T) {
	ex := newFakeExchange(t)
	ex.reply(http.MethodPost, "/v1/session/login", http.StatusOK, `{"error":"nope"}`)
	c := newTestClient(t, ex.URL(), true)

	err := c.Login(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrAPI))
	assert.Equal(t, LoggedOut, c.SessionState())

	var ae *types.ApiError
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, http.StatusOK, ae.Status)
	assert.True(t, strings.HasPrefix(ae.Body, "login response has no session token"), ae.Body)
	assert.Equal(t, ex.calls()[0].Header.Get("X-Request-Id"), ae.RequestID)
	assert.NotEmpty(t, ae.RequestID)
	assert.NotNil(t, ae.Payload)
}

func TestLogin_WithoutKeyIsPrecondition(t *testing.T) {
	c := newTestClient(t, "http://127.0.0.1:1", false)
	err := c.Login(context.Background())
	assert.True(t, errors.Is(err, types.ErrPrecondition))
}

func TestUnauthorizedSurfacesAuthExpired(t *testing.T) {
	ex := newFakeExchange(t)
	ex.reply(http.MethodPost, "/v1/session/login", http.StatusOK, `{"value":"old"}`)
	ex.reply(http.MethodGet, "/v1/balances", http.StatusUnauthorized, `{"message":"session expired"}`)
	c := newTestClient(t, ex.URL(), true, WithReferralCode(""))
	require.NoError(t, c.Connect(context.Background()))

	_, err := c.Balances(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrAuthExpired))
	assert.True(t, errors.Is(err, types.ErrAPI))

	var ae *types.AuthExpiredError
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, http.StatusUnauthorized, ae.Status)
	assert.Contains(t, ae.Body, "session expired")
	assert.Equal(t, "/v1/balances", ae.Endpoint)

	// 不自动重新登录
	assert.Len(t, ex.calls(), 2)
}

func TestLogout_ClearsTokenEvenOnError(t *testing.T) {
	ex := newFakeExchange(t)
	ex.reply(http.MethodPost, "/v1/session/login", http.StatusOK, `{"value":"tok"}`)
	ex.reply(http.MethodGet, "/v1/session/logout", http.StatusInternalServerError, `oops`)
	c := newTestClient(t, ex.URL(), true, WithReferralCode(""))
	require.NoError(t, c.Login(context.Background()))

	_, err := c.Logout(context.Background())
	assert.Error(t, err)
	assert.Equal(t, LoggedOut, c.SessionState())

	calls := ex.calls()
	assert.Equal(t, "connectedAddress=tok", calls[len(calls)-1].Header.Get("cookie"))
}

func TestIsAlreadyReferred(t *testing.T) {
	assert.False(t, IsAlreadyReferred(nil))
	assert.False(t, IsAlreadyReferred(errors.New("boom")))
	assert.True(t, IsAlreadyReferred(&types.ApiError{Status: 400, Body: "user already referred"}))
	assert.True(t, IsAlreadyReferred(pkgerrors.Wrap(&types.ApiError{Status: 400, Body: `{"message":"User Already Referred"}`}, "set referral code")))

	// 只看响应体，不看错误包装文本和请求载荷
	assert.False(t, IsAlreadyReferred(errors.New("already referred")))
	assert.False(t, IsAlreadyReferred(&types.ApiError{
		Status:  500,
		Body:    "internal error",
		Payload: map[string]any{"code": "already referred"},
	}))
}

func TestConnect_ReferralCodeTextDoesNotMaskFailure(t *testing.T) {
	ex := newFakeExchange(t)
	ex.reply(http.MethodPost, "/v1/session/login", http.StatusOK, `{"value":"tok"}`)
	ex.reply(http.MethodPost, "/v1/referral/add-referee", http.StatusInternalServerError, `{"message":"boom"}`)
	c := newTestClient(t, ex.URL(), true, WithReferralCode("already referred"))

	err := c.Connect(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrAPI))
}
