package shutdown

import (
	"context"
	"sync"

	"github.com/betbot/citrex/pkg/logger"
)

// Handler 关闭处理函数
type Handler func(ctx context.Context) error

// Manager 退出前按注册的逆序执行清理（例如注销会话）
type Manager struct {
	mu        sync.Mutex
	callbacks []namedHandler
}

type namedHandler struct {
	name string
	fn   Handler
}

// NewManager 创建新的关闭管理器
func NewManager() *Manager {
	return &Manager{}
}

// OnShutdown 注册关闭回调
func (m *Manager) OnShutdown(name string, handler Handler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callbacks = append(m.callbacks, namedHandler{name: name, fn: handler})
}

// Shutdown 执行所有回调，单个回调失败只记录日志。ctx 应该带超时
func (m *Manager) Shutdown(ctx context.Context) {
	m.mu.Lock()
	callbacks := m.callbacks
	m.callbacks = nil
	m.mu.Unlock()

	for i := len(callbacks) - 1; i >= 0; i-- {
		cb := callbacks[i]
		if ctx.Err() != nil {
			logger.WithField("hook", cb.name).Warnf("关闭超时，跳过: %v", ctx.Err())
			continue
		}
		if err := cb.fn(ctx); err != nil {
			logger.WithField("hook", cb.name).WithError(err).Warn("关闭回调失败")
		}
	}
}
