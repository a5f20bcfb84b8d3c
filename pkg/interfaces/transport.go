package interfaces

import (
	"context"
	"net/netip"

	"github.com/dep2p/go-gossipnet/pkg/types"
)

// Handler 成员层注册的入站消息处理器
//
// 每个解码成功的入站单元调用一次，携带来源地址与解码后的载荷。
// 处理器不得无限期阻塞：接收循环假定处理延迟有界。
type Handler func(from netip.AddrPort, msg []byte)

// Transport 传输门面
//
// 成员层消费的窄公共接口：发送数据报、发送可靠流消息、注册处理器、关闭。
// 重试/退避与对端选择策略属于成员层，不属于本接口。
type Transport interface {
	// SendPacket 通过数据报路径发送（尽力而为、大小受限）
	//
	// 编码后的信封超过配置的最大数据报大小时返回
	// types.ErrMessageTooLarge，不做任何 I/O。
	SendPacket(ctx context.Context, dest types.PeerAddress, msg []byte) error

	// SendReliable 通过流路径发送（可靠、保序）
	//
	// 拨号新连接或复用连接池中的连接；连接在空闲超时内保持可复用。
	SendReliable(ctx context.Context, dest types.PeerAddress, msg []byte) error

	// SetPacketHandler 注册数据报路径处理器（必须在 Start 之前调用）
	SetPacketHandler(h Handler)

	// SetStreamHandler 注册流路径处理器（必须在 Start 之前调用）
	SetStreamHandler(h Handler)

	// LocalPacketAddr 返回数据报 socket 的本地地址
	LocalPacketAddr() netip.AddrPort

	// LocalStreamAddr 返回流监听器的本地地址
	LocalStreamAddr() netip.AddrPort

	// Shutdown 关闭传输层
	//
	// 幂等；并发进行中的发送观察到 types.ErrTransportClosed 而不是挂起。
	Shutdown() error
}
