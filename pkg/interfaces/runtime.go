package interfaces

import (
	"context"
	"net"

	"github.com/benbjohnson/clock"
)

// Runtime 执行环境能力集
//
// 核心代码中的每个挂起点（socket 读写、拨号、定时等待、任务派生）
// 都只通过本接口表达，核心因此与具体执行器解耦。
// 每个受支持的执行环境实现一次本接口；默认实现基于标准库
// net 包与真实时钟（见 internal/core/runtime/stdnet）。
type Runtime interface {
	// Spawn 派生一个后台任务
	//
	// name 仅用于日志与诊断。实现必须保证 fn 在独立的执行单元中运行，
	// 不阻塞调用者。
	Spawn(name string, fn func())

	// Clock 返回时钟能力（定时器、睡眠）
	//
	// 返回 clock.Clock 以便测试中注入 mock 时钟。
	Clock() clock.Clock

	// ListenTCP 监听 TCP 地址
	ListenTCP(ctx context.Context, addr string) (net.Listener, error)

	// DialTCP 建立 TCP 出站连接
	//
	// 截止时间通过 ctx 传递；取消的拨号不得泄露半开 socket。
	DialTCP(ctx context.Context, addr string) (net.Conn, error)

	// ListenUDP 绑定 UDP 数据报 socket
	ListenUDP(ctx context.Context, addr string) (net.PacketConn, error)
}
