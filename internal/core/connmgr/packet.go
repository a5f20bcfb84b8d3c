package connmgr

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/netip"

	"github.com/dep2p/go-gossipnet/pkg/types"
)

// SendPacket 通过数据报路径发送消息
//
// 管线编码后超过最大数据报大小的信封在任何 I/O（包括地址解析）
// 之前被拒绝。数据报路径无条件使用解析结果的第一个地址。
func (m *Manager) SendPacket(ctx context.Context, dest types.PeerAddress, msg []byte) error {
	if m.closed.Load() {
		return types.ErrTransportClosed
	}
	if !m.started.Load() {
		return ErrNotStarted
	}

	raw, err := m.pipeline.Encode(msg)
	if err != nil {
		return err
	}
	if max := m.cfg.Transport.MaxPacketSize; len(raw) > max {
		return fmt.Errorf("%w: encoded %d bytes, limit %d", types.ErrMessageTooLarge, len(raw), max)
	}

	addrs, err := m.resolver.Resolve(ctx, dest)
	if err != nil {
		return err
	}

	if _, err := m.packetConn.WriteTo(raw, net.UDPAddrFromAddrPort(addrs[0])); err != nil {
		if m.closed.Load() {
			return types.ErrTransportClosed
		}
		return fmt.Errorf("send packet to %s: %w", addrs[0], err)
	}
	return nil
}

// packetLoop 数据报接收循环
//
// 运行到关闭为止；单个无法解码的数据报记录日志后丢弃，
// 绝不中止循环。
func (m *Manager) packetLoop() {
	buf := make([]byte, m.cfg.Transport.PacketBufferSize)

	for {
		n, addr, err := m.packetConn.ReadFrom(buf)
		if err != nil {
			if m.closed.Load() || errors.Is(err, net.ErrClosed) {
				return
			}
			logger.Error("数据报读取失败", "err", err)
			continue
		}

		var src netip.AddrPort
		if ua, ok := addr.(*net.UDPAddr); ok {
			src = ua.AddrPort()
		}

		// 缓冲区会被下一次读取复用，解码前先复制
		raw := make([]byte, n)
		copy(raw, buf[:n])

		msg, err := m.pipeline.Decode(raw)
		if err != nil {
			logger.Warn("丢弃无法解码的数据报", "from", src.String(), "err", err)
			continue
		}

		if h := m.packetHandler; h != nil {
			h(src, msg)
		}
	}
}
