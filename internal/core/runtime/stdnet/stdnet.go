// Package stdnet 实现基于标准库的执行环境
//
// Runtime 能力集（任务派生、时钟、异步 socket）的默认实现：
// socket 操作委托给 net 包，时钟使用真实时钟（benbjohnson/clock），
// 测试中可通过 NewWithClock 注入 mock 时钟。
package stdnet

import (
	"context"
	"net"

	"github.com/benbjohnson/clock"

	pkgif "github.com/dep2p/go-gossipnet/pkg/interfaces"
	"github.com/dep2p/go-gossipnet/pkg/lib/log"
)

var logger = log.Logger("core/runtime")

// Runtime 标准库执行环境
type Runtime struct {
	clock clock.Clock
}

// 确保实现 Runtime 接口
var _ pkgif.Runtime = (*Runtime)(nil)

// New 创建标准库执行环境（真实时钟）
func New() *Runtime {
	return &Runtime{clock: clock.New()}
}

// NewWithClock 创建使用指定时钟的执行环境
//
// 测试中传入 clock.NewMock() 以控制时间推进。
func NewWithClock(c clock.Clock) *Runtime {
	return &Runtime{clock: c}
}

// Spawn 派生后台任务
//
// 任务 panic 被捕获并记录，不会击穿整个进程。
func (r *Runtime) Spawn(name string, fn func()) {
	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Error("后台任务 panic", "task", name, "panic", rec)
			}
		}()
		fn()
	}()
}

// Clock 返回时钟能力
func (r *Runtime) Clock() clock.Clock {
	return r.clock
}

// ListenTCP 监听 TCP 地址
func (r *Runtime) ListenTCP(ctx context.Context, addr string) (net.Listener, error) {
	var lc net.ListenConfig
	return lc.Listen(ctx, "tcp", addr)
}

// DialTCP 建立 TCP 出站连接
func (r *Runtime) DialTCP(ctx context.Context, addr string) (net.Conn, error) {
	var d net.Dialer
	return d.DialContext(ctx, "tcp", addr)
}

// ListenUDP 绑定 UDP 数据报 socket
func (r *Runtime) ListenUDP(ctx context.Context, addr string) (net.PacketConn, error) {
	var lc net.ListenConfig
	return lc.ListenPacket(ctx, "udp", addr)
}
