package client

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/betbot/citrex/citrex/signing"
	"github.com/betbot/citrex/citrex/types"
	sdkhttp "github.com/betbot/citrex/pkg/sdk/http"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	headerRequestID = "X-Request-Id"
	headerCookie    = "cookie"
)

// request 一次 REST 调用
type request struct {
	route  Route
	method string
	// pathParams 替换路由模板中的 {name}
	pathParams map[string]string
	body       map[string]any
	params     map[string]any
	// authenticated 为 true 时私有路由附带会话 cookie
	authenticated bool
}

// send 统一出口：鉴权检查、规范化请求体、限速、附加会话凭证、错误映射。
// 不做任何重试
func (c *Client) send(ctx context.Context, req request) (types.Raw, error) {
	raw, _, err := c.dispatch(ctx, req)
	return raw, err
}

// dispatch 同 send，额外返回本次请求的 X-Request-Id
func (c *Client) dispatch(ctx context.Context, req request) (types.Raw, string, error) {
	spec, err := c.authorize(req.route, req.method)
	if err != nil {
		return nil, "", err
	}
	path := expandPath(spec.path, req.pathParams)

	if err := c.rateLimiter.Wait(ctx, spec.path); err != nil {
		return nil, "", errors.Wrap(err, "rate limit wait")
	}

	requestID := uuid.NewString()
	headers := map[string]string{headerRequestID: requestID}
	if req.authenticated && spec.auth == types.AuthPrivate {
		if token := c.sess.token(); token != "" {
			headers[headerCookie] = "connectedAddress=" + token
		}
	}

	var payload map[string]any
	if req.body != nil {
		payload = signing.Canonicalize(req.body)
	}
	opt := &sdkhttp.RequestOptions{Headers: headers, Params: req.params}
	if payload != nil {
		opt.Data = payload
	}

	log := c.log.WithFields(logrus.Fields{
		"method":     req.method,
		"route":      spec.path,
		"request_id": requestID,
	})
	start := time.Now()
	resp, err := c.http.Do(ctx, req.method, path, opt)
	if err != nil {
		log.WithError(err).Warn("request failed")
		return nil, requestID, err
	}
	log = log.WithFields(logrus.Fields{"status": resp.StatusCode, "elapsed": time.Since(start)})

	if !resp.IsSuccess() {
		apiErr := types.ApiError{
			Status:    resp.StatusCode,
			Body:      string(resp.Body),
			Method:    req.method,
			Endpoint:  path,
			Payload:   payload,
			RequestID: requestID,
		}
		log.Warn("request rejected")
		if resp.StatusCode == http.StatusUnauthorized {
			return nil, requestID, &types.AuthExpiredError{ApiError: apiErr}
		}
		return nil, requestID, &apiErr
	}
	log.Debug("request ok")
	return types.Raw(resp.Body), requestID, nil
}

func expandPath(tmpl string, params map[string]string) string {
	for k, v := range params {
		tmpl = strings.ReplaceAll(tmpl, "{"+k+"}", pathEscape(v))
	}
	return tmpl
}

func pathEscape(s string) string {
	return url.PathEscape(s)
}

func decodeRaw(raw types.Raw, out any) error {
	return sdkhttp.DecodeBody(raw, out)
}
