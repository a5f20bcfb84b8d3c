package connmgr

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/netip"

	"github.com/dep2p/go-gossipnet/pkg/types"
)

// SendReliable 通过流路径发送消息
//
// 复用连接池中的连接或拨号新连接，写入一个长度前缀信封帧后
// 把连接归还池中（空闲超时内可被后续发送复用）。
// 每对端的并发拨号/写入受在途信号量约束。
func (m *Manager) SendReliable(ctx context.Context, dest types.PeerAddress, msg []byte) error {
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

	addrs, err := m.resolver.Resolve(ctx, dest)
	if err != nil {
		return err
	}
	// 默认只使用第一个地址；FallbackOnDialFailure 开启后按序尝试
	candidates := addrs
	if !m.cfg.Resolver.FallbackOnDialFailure {
		candidates = addrs[:1]
	}

	sem := m.semaphoreFor(dest)
	if err := sem.Acquire(ctx, 1); err != nil {
		// 只有超时归一化为 ErrTimeout；调用方主动取消原样透出
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w: %v", types.ErrTimeout, err)
		}
		return fmt.Errorf("acquire send slot: %w", err)
	}
	defer sem.Release(1)

	var lastErr error
	for _, ap := range candidates {
		if err := m.sendOnAddr(ctx, ap, raw); err != nil {
			if errors.Is(err, types.ErrTransportClosed) {
				return err
			}
			lastErr = err
			continue
		}
		return nil
	}
	return lastErr
}

// sendOnAddr 在单个解析地址上发送一帧
//
// 池化连接写入失败时（对端可能在空闲窗口内关闭了连接）
// 重新拨号一次再试。
func (m *Manager) sendOnAddr(ctx context.Context, ap netip.AddrPort, raw []byte) error {
	writeTimeout := m.cfg.Transport.WriteTimeout.Duration()

	if c := m.pool.Get(ap); c != nil {
		if err := c.WriteEnvelope(raw, writeTimeout); err == nil {
			m.pool.Put(c)
			return nil
		}
		_ = c.Close()
	}

	c, err := m.dial(ctx, ap)
	if err != nil {
		return err
	}
	if err := c.WriteEnvelope(raw, writeTimeout); err != nil {
		_ = c.Close()
		return err
	}
	m.pool.Put(c)
	return nil
}

// dial 拨号并建立一条新的流连接
//
// 取消/超时的拨号不泄露半开 socket；拨号完成时传输层已关闭的话，
// 连接被立即释放并返回 ErrTransportClosed。
func (m *Manager) dial(ctx context.Context, ap netip.AddrPort) (*streamConn, error) {
	if m.closed.Load() {
		return nil, types.ErrTransportClosed
	}

	dialCtx, cancel := context.WithTimeout(ctx, m.cfg.Transport.DialTimeout.Duration())
	defer cancel()

	// 关闭必须打断进行中的拨号，而不是等它自然超时
	watchDone := make(chan struct{})
	defer close(watchDone)
	m.rt.Spawn("connmgr/dial-watch", func() {
		select {
		case <-m.shutdownCh:
			cancel()
		case <-watchDone:
		}
	})

	nc, err := m.rt.DialTCP(dialCtx, ap.String())
	if err != nil {
		if m.closed.Load() {
			return nil, types.ErrTransportClosed
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: dial %s: %v", types.ErrTimeout, ap, err)
		}
		return nil, fmt.Errorf("dial %s: %w", ap, err)
	}

	if m.streamSec != nil {
		wrapped, err := m.streamSec.WrapClient(nc)
		if err != nil {
			_ = nc.Close()
			return nil, err
		}
		nc = wrapped
	}

	c := newStreamConn(nc, ap, m.rt.Clock())

	// 拨号期间发生关闭：释放刚建立的连接
	if m.closed.Load() {
		_ = c.Close()
		return nil, types.ErrTransportClosed
	}

	c.establish()
	return c, nil
}

// acceptLoop 流连接接收循环
//
// 运行到关闭为止；每条入站连接在独立任务中处理，
// 单条连接上的错误绝不中止循环。
func (m *Manager) acceptLoop() {
	for {
		nc, err := m.listener.Accept()
		if err != nil {
			if m.closed.Load() || errors.Is(err, net.ErrClosed) {
				return
			}
			logger.Error("接受入站连接失败", "err", err)
			continue
		}

		m.wg.Add(1)
		m.rt.Spawn("connmgr/inbound-conn", func() {
			defer m.wg.Done()
			m.handleInbound(nc)
		})
	}
}

// handleInbound 处理单条入站流连接
//
// 连接生命周期: 接受 → 安全包装 → 首帧标签校验（管线内）→ 可用。
// 读取长度前缀信封帧序列并逐帧解码分发；格式错误/无法解密的帧
// 记录日志并关闭连接，但接收循环继续运行。
func (m *Manager) handleInbound(nc net.Conn) {
	if m.streamSec != nil {
		wrapped, err := m.streamSec.WrapServer(nc)
		if err != nil {
			logger.Warn("入站连接安全握手失败", "remote", nc.RemoteAddr().String(), "err", err)
			_ = nc.Close()
			return
		}
		nc = wrapped
	}

	var remote netip.AddrPort
	if ta, ok := nc.RemoteAddr().(*net.TCPAddr); ok {
		remote = ta.AddrPort()
	}

	c := newStreamConn(nc, remote, m.rt.Clock())
	c.establish()

	if !m.trackInbound(c) {
		_ = c.Close()
		return
	}
	defer func() {
		m.untrackInbound(c)
		_ = c.Close()
	}()

	idle := m.cfg.Transport.ConnIdleTimeout.Duration()
	for {
		frame, err := c.ReadEnvelope(idle)
		if err != nil {
			if !m.closed.Load() && !errors.Is(err, io.EOF) && !errors.Is(err, types.ErrConnectionClosed) {
				logger.Debug("入站流连接结束", "remote", remote.String(), "err", err)
			}
			return
		}

		msg, err := m.pipeline.Decode(frame)
		if err != nil {
			// 单元错误只影响这条连接，不影响接收循环
			logger.Warn("关闭携带无效信封的流连接", "remote", remote.String(), "err", err)
			return
		}

		if h := m.streamHandler; h != nil {
			h(remote, msg)
		}
	}
}
