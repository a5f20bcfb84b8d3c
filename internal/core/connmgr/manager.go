package connmgr

import (
	"context"
	"fmt"
	"net"
	"net/netip"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/multierr"
	"golang.org/x/sync/semaphore"

	"github.com/dep2p/go-gossipnet/config"
	pkgif "github.com/dep2p/go-gossipnet/pkg/interfaces"
	"github.com/dep2p/go-gossipnet/pkg/lib/log"
	"github.com/dep2p/go-gossipnet/pkg/types"
)

var logger = log.Logger("core/connmgr")

// Options 连接管理器构造参数
type Options struct {
	// Config 完整配置
	Config *config.Config

	// Runtime 执行环境
	Runtime pkgif.Runtime

	// Resolver 地址解析器
	Resolver pkgif.AddressResolver

	// Pipeline 载荷处理管线
	Pipeline *Pipeline

	// StreamSecurity 流路径 TLS 包装器（可选）
	StreamSecurity pkgif.StreamSecurity
}

// Manager 连接管理器
//
// 拥有共享数据报 socket 与每对端流连接池；所有 socket 资源
// 只通过本类型的操作访问，绝不直接暴露给调用方。
type Manager struct {
	cfg       *config.Config
	rt        pkgif.Runtime
	resolver  pkgif.AddressResolver
	pipeline  *Pipeline
	streamSec pkgif.StreamSecurity

	// packetConn 单个共享数据报 socket
	packetConn net.PacketConn

	// listener 流监听器
	listener net.Listener

	// pool 出站流连接池
	pool *connPool

	// inbound 活跃入站连接（关闭时统一清理）
	inboundMu sync.Mutex
	inbound   map[*streamConn]struct{}

	// sems 每对端在途发送信号量
	semMu sync.Mutex
	sems  map[string]*semaphore.Weighted

	// packetHandler/streamHandler 入站消息处理器（Start 之前注册）
	packetHandler pkgif.Handler
	streamHandler pkgif.Handler

	started      atomic.Bool
	closed       atomic.Bool
	shutdownCh   chan struct{}
	shutdownOnce sync.Once
	shutdownErr  error
	wg           sync.WaitGroup
}

// New 创建连接管理器
func New(opts Options) *Manager {
	return &Manager{
		cfg:        opts.Config,
		rt:         opts.Runtime,
		resolver:   opts.Resolver,
		pipeline:   opts.Pipeline,
		streamSec:  opts.StreamSecurity,
		pool:       newConnPool(opts.Config.Transport.MaxPooledPerPeer),
		inbound:    make(map[*streamConn]struct{}),
		sems:       make(map[string]*semaphore.Weighted),
		shutdownCh: make(chan struct{}),
	}
}

// SetPacketHandler 注册数据报路径处理器
//
// 必须在 Start 之前调用。
func (m *Manager) SetPacketHandler(h pkgif.Handler) {
	m.packetHandler = h
}

// SetStreamHandler 注册流路径处理器
//
// 必须在 Start 之前调用。
func (m *Manager) SetStreamHandler(h pkgif.Handler) {
	m.streamHandler = h
}

// Start 绑定 socket 并启动接收循环
//
// 无法绑定配置的监听地址/端口是致命错误，立即返回，不做静默回退。
// 流监听器先绑定；配置端口为 0 时数据报 socket 跟随流监听器
// 实际分配到的端口，保证两条路径共用同一端口号。
func (m *Manager) Start(ctx context.Context) error {
	if m.closed.Load() {
		return types.ErrTransportClosed
	}
	if !m.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}

	bindAddr := net.JoinHostPort(m.cfg.BindAddr, strconv.Itoa(int(m.cfg.BindPort)))
	listener, err := m.rt.ListenTCP(ctx, bindAddr)
	if err != nil {
		return fmt.Errorf("bind stream listener on %s: %w", bindAddr, err)
	}
	m.listener = listener

	port := listener.Addr().(*net.TCPAddr).Port
	packetAddr := net.JoinHostPort(m.cfg.BindAddr, strconv.Itoa(port))
	packetConn, err := m.rt.ListenUDP(ctx, packetAddr)
	if err != nil {
		_ = listener.Close()
		return fmt.Errorf("bind packet socket on %s: %w", packetAddr, err)
	}
	m.packetConn = packetConn

	m.spawnLoop("connmgr/packet-loop", m.packetLoop)
	m.spawnLoop("connmgr/accept-loop", m.acceptLoop)
	m.spawnLoop("connmgr/idle-reaper", m.reapLoop)

	logger.Info("连接管理器已启动",
		"streamAddr", listener.Addr().String(),
		"packetAddr", packetConn.LocalAddr().String())
	return nil
}

// spawnLoop 通过执行环境派生受 WaitGroup 跟踪的循环
func (m *Manager) spawnLoop(name string, fn func()) {
	m.wg.Add(1)
	m.rt.Spawn(name, func() {
		defer m.wg.Done()
		fn()
	})
}

// LocalPacketAddr 返回数据报 socket 的本地地址
func (m *Manager) LocalPacketAddr() netip.AddrPort {
	if m.packetConn == nil {
		return netip.AddrPort{}
	}
	if ua, ok := m.packetConn.LocalAddr().(*net.UDPAddr); ok {
		return ua.AddrPort()
	}
	return netip.AddrPort{}
}

// LocalStreamAddr 返回流监听器的本地地址
func (m *Manager) LocalStreamAddr() netip.AddrPort {
	if m.listener == nil {
		return netip.AddrPort{}
	}
	if ta, ok := m.listener.Addr().(*net.TCPAddr); ok {
		return ta.AddrPort()
	}
	return netip.AddrPort{}
}

// semaphoreFor 返回对端的在途发送信号量
func (m *Manager) semaphoreFor(dest types.PeerAddress) *semaphore.Weighted {
	m.semMu.Lock()
	defer m.semMu.Unlock()

	key := dest.String()
	sem, ok := m.sems[key]
	if !ok {
		sem = semaphore.NewWeighted(int64(m.cfg.Transport.PerPeerInFlight))
		m.sems[key] = sem
	}
	return sem
}

// reapLoop 周期性回收空闲超时的池化连接
func (m *Manager) reapLoop() {
	idle := m.cfg.Transport.ConnIdleTimeout.Duration()
	interval := idle / 2
	if interval < time.Second {
		interval = time.Second
	}

	clk := m.rt.Clock()
	ticker := clk.Ticker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.shutdownCh:
			return
		case <-ticker.C:
			if n := m.pool.ReapIdle(clk.Now(), idle); n > 0 {
				logger.Debug("回收空闲连接", "count", n)
			}
		}
	}
}

// trackInbound 登记入站连接
func (m *Manager) trackInbound(c *streamConn) bool {
	m.inboundMu.Lock()
	defer m.inboundMu.Unlock()
	if m.closed.Load() {
		return false
	}
	m.inbound[c] = struct{}{}
	return true
}

// untrackInbound 注销入站连接
func (m *Manager) untrackInbound(c *streamConn) {
	m.inboundMu.Lock()
	defer m.inboundMu.Unlock()
	delete(m.inbound, c)
}

// Shutdown 关闭连接管理器
//
// 幂等：重复调用返回第一次的结果。关闭数据报 socket、流监听器
// 与全部连接（池化连接先排空），并等待接收循环退出；
// 并发进行中的发送观察到 ErrTransportClosed。
func (m *Manager) Shutdown() error {
	m.shutdownOnce.Do(func() {
		m.closed.Store(true)
		close(m.shutdownCh)

		var err error
		if m.packetConn != nil {
			err = multierr.Append(err, m.packetConn.Close())
		}
		if m.listener != nil {
			err = multierr.Append(err, m.listener.Close())
		}

		err = multierr.Append(err, m.pool.Shutdown())

		m.inboundMu.Lock()
		conns := make([]*streamConn, 0, len(m.inbound))
		for c := range m.inbound {
			conns = append(conns, c)
		}
		m.inbound = make(map[*streamConn]struct{})
		m.inboundMu.Unlock()
		for _, c := range conns {
			err = multierr.Append(err, c.drainAndClose())
		}

		m.wg.Wait()
		m.shutdownErr = err
		logger.Info("连接管理器已关闭")
	})
	return m.shutdownErr
}
