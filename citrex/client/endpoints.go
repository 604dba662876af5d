package client

import (
	"net/http"

	"github.com/betbot/citrex/citrex/types"
)

// Route API 路由
type Route int

const (
	routeUnknown Route = iota

	// Session
	RouteSessionLogin
	RouteSessionLogout
	RouteSessionStatus

	// Orders
	RouteOrder
	RouteCancelAndReplace
	RouteOpenOrders
	RouteOrders

	// Account
	RouteBalances
	RoutePositionRisk
	RouteApprovedSigners
	RouteAccountHealth
	RouteWithdraw
	RouteReferral

	// Markets
	RouteProducts
	RouteProduct
	RouteTicker
	RouteTradeHistory
	RouteTime
	RouteKlines
	RouteDepth
)

type routeSpec struct {
	path    string
	auth    types.AuthClass
	methods []string
}

// routes 每个路由的路径、鉴权级别和允许的方法
var routes = map[Route]routeSpec{
	RouteSessionLogin:     {"/v1/session/login", types.AuthPrivate, []string{http.MethodPost}},
	RouteSessionLogout:    {"/v1/session/logout", types.AuthPrivate, []string{http.MethodGet}},
	RouteSessionStatus:    {"/v1/session/status", types.AuthPrivate, []string{http.MethodGet}},
	RouteOrder:            {"/v1/order", types.AuthPrivate, []string{http.MethodPost, http.MethodDelete}},
	RouteCancelAndReplace: {"/v1/order/cancel-and-replace", types.AuthPrivate, []string{http.MethodPost}},
	RouteOpenOrders:       {"/v1/openOrders", types.AuthPrivate, []string{http.MethodGet, http.MethodDelete}},
	RouteOrders:           {"/v1/orders", types.AuthPrivate, []string{http.MethodGet}},
	RouteBalances:         {"/v1/balances", types.AuthPrivate, []string{http.MethodGet}},
	RoutePositionRisk:     {"/v1/positionRisk", types.AuthPrivate, []string{http.MethodGet}},
	RouteApprovedSigners:  {"/v1/approved-signers", types.AuthPrivate, []string{http.MethodGet}},
	RouteAccountHealth:    {"/v1/account-health", types.AuthPrivate, []string{http.MethodGet}},
	RouteWithdraw:         {"/v1/withdraw", types.AuthPrivate, []string{http.MethodPost}},
	RouteReferral:         {"/v1/referral/add-referee", types.AuthPrivate, []string{http.MethodPost}},

	RouteProducts:     {"/v1/products", types.AuthPublic, []string{http.MethodGet}},
	RouteProduct:      {"/v1/products/{symbol}", types.AuthPublic, []string{http.MethodGet}},
	RouteTicker:       {"/v1/ticker/24hr", types.AuthPublic, []string{http.MethodGet}},
	RouteTradeHistory: {"/v1/trade-history", types.AuthPublic, []string{http.MethodGet}},
	RouteTime:         {"/v1/time", types.AuthPublic, []string{http.MethodGet}},
	RouteKlines:       {"/v1/uiKlines", types.AuthPublic, []string{http.MethodGet}},
	RouteDepth:        {"/v1/depth", types.AuthPublic, []string{http.MethodGet}},
}

// Routes 所有已知路由
func Routes() []Route {
	out := make([]Route, 0, len(routes))
	for r := RouteSessionLogin; r <= RouteDepth; r++ {
		out = append(out, r)
	}
	return out
}

// Path 路由模板
func (r Route) Path() string {
	if s, ok := routes[r]; ok {
		return s.path
	}
	return ""
}

// AuthClass 鉴权级别，未知路由返回 false
func (r Route) AuthClass() (types.AuthClass, bool) {
	s, ok := routes[r]
	return s.auth, ok
}

// Methods 允许的 HTTP 方法
func (r Route) Methods() []string {
	return routes[r].methods
}

func (r Route) String() string {
	if s, ok := routes[r]; ok {
		return s.path
	}
	return "unknown"
}

func (s routeSpec) allows(method string) bool {
	for _, m := range s.methods {
		if m == method {
			return true
		}
	}
	return false
}
