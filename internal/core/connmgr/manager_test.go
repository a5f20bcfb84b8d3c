package connmgr

import (
	"bytes"
	"context"
	"net"
	"net/netip"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-gossipnet/config"
	"github.com/dep2p/go-gossipnet/internal/core/resolver"
	"github.com/dep2p/go-gossipnet/internal/core/runtime/stdnet"
	pkgif "github.com/dep2p/go-gossipnet/pkg/interfaces"
	"github.com/dep2p/go-gossipnet/pkg/types"
)

// received 一条入站消息及其来源
type received struct {
	from netip.AddrPort
	msg  []byte
}

// testNode 测试节点：管理器 + 入站消息通道
type testNode struct {
	mgr     *Manager
	packets chan received
	streams chan received
}

// newTestNode 创建并启动一个回环测试节点
func newTestNode(t *testing.T, mutatePipe func(*PipelineOptions)) *testNode {
	t.Helper()

	cfg := config.NewLocalConfig()
	n := &testNode{
		packets: make(chan received, 16),
		streams: make(chan received, 16),
	}

	n.mgr = New(Options{
		Config:   cfg,
		Runtime:  stdnet.New(),
		Resolver: resolver.New(cfg.Resolver, resolver.NewSystemResolver()),
		Pipeline: testPipeline(t, mutatePipe),
	})
	n.mgr.SetPacketHandler(func(from netip.AddrPort, msg []byte) {
		n.packets <- received{from, msg}
	})
	n.mgr.SetStreamHandler(func(from netip.AddrPort, msg []byte) {
		n.streams <- received{from, msg}
	})

	require.NoError(t, n.mgr.Start(context.Background()))
	t.Cleanup(func() { _ = n.mgr.Shutdown() })
	return n
}

// waitRecv 等待一条入站消息
func waitRecv(t *testing.T, ch chan received) received {
	t.Helper()
	select {
	case r := <-ch:
		return r
	case <-time.After(3 * time.Second):
		t.Fatal("入站消息超时")
		return received{}
	}
}

// packetDest 返回节点数据报路径的目的地址
func (n *testNode) packetDest() types.PeerAddress {
	return types.NewSocketAddress(n.mgr.LocalPacketAddr())
}

// streamDest 返回节点流路径的目的地址
func (n *testNode) streamDest() types.PeerAddress {
	return types.NewSocketAddress(n.mgr.LocalStreamAddr())
}

// ============================================================================
// 数据报路径测试
// ============================================================================

// TestManager_PacketRoundTrip 测试数据报回环收发
func TestManager_PacketRoundTrip(t *testing.T) {
	a := newTestNode(t, nil)
	b := newTestNode(t, nil)

	msg := []byte("probe")
	require.NoError(t, a.mgr.SendPacket(context.Background(), b.packetDest(), msg))

	got := waitRecv(t, b.packets)
	assert.Equal(t, msg, got.msg)
	assert.Equal(t, a.mgr.LocalPacketAddr().Port(), got.from.Port())
}

// TestManager_PacketEncrypted 测试加密数据报互通
func TestManager_PacketEncrypted(t *testing.T) {
	withCrypto := func(o *PipelineOptions) {
		o.Security = testSecurityEngine(t)
		o.Compression = testCompressEngine(t, types.CompressionS2)
	}
	a := newTestNode(t, withCrypto)
	b := newTestNode(t, withCrypto)

	msg := []byte("encrypted probe")
	require.NoError(t, a.mgr.SendPacket(context.Background(), b.packetDest(), msg))
	assert.Equal(t, msg, waitRecv(t, b.packets).msg)
}

// TestManager_PacketTooLarge 测试超限数据报在任何 I/O 之前被拒绝
func TestManager_PacketTooLarge(t *testing.T) {
	a := newTestNode(t, nil)

	// 无法解析的目的地址：大小检查先于解析，错误必须是大小超限
	dest, err := types.NewDNSAddress("unresolvable.invalid", 7946)
	require.NoError(t, err)

	big := make([]byte, a.mgr.cfg.Transport.MaxPacketSize+1)
	err = a.mgr.SendPacket(context.Background(), dest, big)
	assert.ErrorIs(t, err, types.ErrMessageTooLarge)
}

// TestManager_PacketMalformedDropped 测试无法解码的数据报被丢弃且循环存活
func TestManager_PacketMalformedDropped(t *testing.T) {
	a := newTestNode(t, nil)
	b := newTestNode(t, nil)

	// 标签不同的发送方：信封解码成功但标签校验失败
	otherLabel, err := types.NewLabel([]byte("other-cluster"))
	require.NoError(t, err)
	c := newTestNode(t, func(o *PipelineOptions) { o.Label = otherLabel })

	require.NoError(t, c.mgr.SendPacket(context.Background(), b.packetDest(), []byte("wrong label")))

	// 循环必须继续处理后续合法数据报
	msg := []byte("still alive")
	require.NoError(t, a.mgr.SendPacket(context.Background(), b.packetDest(), msg))
	got := waitRecv(t, b.packets)
	assert.Equal(t, msg, got.msg)
	assert.Empty(t, b.packets)
}

// ============================================================================
// 流路径测试
// ============================================================================

// TestManager_StreamRoundTrip 测试流路径回环收发（压缩+加密的大消息）
func TestManager_StreamRoundTrip(t *testing.T) {
	withCrypto := func(o *PipelineOptions) {
		o.Security = testSecurityEngine(t)
		o.Compression = testCompressEngine(t, types.CompressionZstd)
	}
	a := newTestNode(t, withCrypto)
	b := newTestNode(t, withCrypto)

	// 远超数据报上限的批量状态同步载荷
	msg := bytes.Repeat([]byte("full state sync entry "), 512)
	require.NoError(t, a.mgr.SendReliable(context.Background(), b.streamDest(), msg))

	got := waitRecv(t, b.streams)
	assert.Equal(t, msg, got.msg)
}

// TestManager_StreamConnReuse 测试连接池复用
func TestManager_StreamConnReuse(t *testing.T) {
	a := newTestNode(t, nil)
	b := newTestNode(t, nil)

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		require.NoError(t, a.mgr.SendReliable(ctx, b.streamDest(), []byte{byte(i)}))
		got := waitRecv(t, b.streams)
		assert.Equal(t, []byte{byte(i)}, got.msg)
	}

	// 所有消息通过同一条池化连接到达
	a.mgr.pool.mu.Lock()
	pooled := 0
	for _, list := range a.mgr.pool.conns {
		pooled += len(list)
	}
	a.mgr.pool.mu.Unlock()
	assert.Equal(t, 1, pooled)
}

// TestManager_StreamOrdered 测试同一连接上的消息保序
func TestManager_StreamOrdered(t *testing.T) {
	a := newTestNode(t, nil)
	b := newTestNode(t, nil)

	ctx := context.Background()
	const n = 20
	for i := 0; i < n; i++ {
		require.NoError(t, a.mgr.SendReliable(ctx, b.streamDest(), []byte{byte(i)}))
	}
	for i := 0; i < n; i++ {
		got := waitRecv(t, b.streams)
		assert.Equal(t, []byte{byte(i)}, got.msg)
	}
}

// ============================================================================
// 生命周期测试
// ============================================================================

// TestManager_SendBeforeStart 测试未启动时发送被拒绝
func TestManager_SendBeforeStart(t *testing.T) {
	cfg := config.NewLocalConfig()
	m := New(Options{
		Config:   cfg,
		Runtime:  stdnet.New(),
		Resolver: resolver.New(cfg.Resolver, resolver.NewSystemResolver()),
		Pipeline: testPipeline(t, nil),
	})

	dest := types.NewSocketAddress(netip.MustParseAddrPort("127.0.0.1:1"))
	assert.ErrorIs(t, m.SendPacket(context.Background(), dest, []byte("x")), ErrNotStarted)
	assert.ErrorIs(t, m.SendReliable(context.Background(), dest, []byte("x")), ErrNotStarted)
}

// TestManager_DoubleStart 测试重复启动被拒绝
func TestManager_DoubleStart(t *testing.T) {
	n := newTestNode(t, nil)
	assert.ErrorIs(t, n.mgr.Start(context.Background()), ErrAlreadyStarted)
}

// TestManager_ShutdownIdempotent 测试关闭幂等
func TestManager_ShutdownIdempotent(t *testing.T) {
	n := newTestNode(t, nil)

	require.NoError(t, n.mgr.Shutdown())
	require.NoError(t, n.mgr.Shutdown())

	// 关闭后发送观察到传输层已关闭
	dest := types.NewSocketAddress(netip.MustParseAddrPort("127.0.0.1:1"))
	assert.ErrorIs(t, n.mgr.SendPacket(context.Background(), dest, []byte("x")), types.ErrTransportClosed)
	assert.ErrorIs(t, n.mgr.SendReliable(context.Background(), dest, []byte("x")), types.ErrTransportClosed)
}

// TestManager_StartAfterShutdown 测试关闭后无法重新启动
func TestManager_StartAfterShutdown(t *testing.T) {
	n := newTestNode(t, nil)
	require.NoError(t, n.mgr.Shutdown())
	assert.ErrorIs(t, n.mgr.Start(context.Background()), types.ErrTransportClosed)
}

// TestManager_SamePort 测试两条路径共用同一端口号
func TestManager_SamePort(t *testing.T) {
	n := newTestNode(t, nil)
	assert.Equal(t, n.mgr.LocalStreamAddr().Port(), n.mgr.LocalPacketAddr().Port())
	assert.NotZero(t, n.mgr.LocalPacketAddr().Port())
}

// blockingDialRuntime 拨号一直阻塞到 ctx 结束的执行环境
type blockingDialRuntime struct {
	pkgif.Runtime
}

func (r *blockingDialRuntime) DialTCP(ctx context.Context, addr string) (net.Conn, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

// TestManager_ShutdownInterruptsDial 测试关闭打断进行中的拨号
//
// 拨号不等到自然超时：关闭发生时进行中的发送立即观察到
// ErrTransportClosed。
func TestManager_ShutdownInterruptsDial(t *testing.T) {
	cfg := config.NewLocalConfig()
	cfg.Transport.DialTimeout = config.Duration(30 * time.Second)

	m := New(Options{
		Config:   cfg,
		Runtime:  &blockingDialRuntime{Runtime: stdnet.New()},
		Resolver: resolver.New(cfg.Resolver, resolver.NewSystemResolver()),
		Pipeline: testPipeline(t, nil),
	})
	require.NoError(t, m.Start(context.Background()))

	dest := types.NewSocketAddress(netip.MustParseAddrPort("127.0.0.1:1"))
	errCh := make(chan error, 1)
	go func() {
		errCh <- m.SendReliable(context.Background(), dest, []byte("x"))
	}()

	// 让发送进入拨号阻塞
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, m.Shutdown())

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, types.ErrTransportClosed)
	case <-time.After(2 * time.Second):
		t.Fatal("关闭没有打断进行中的拨号")
	}
}

// TestManager_SendCancelledNotTimeout 测试取消的发送不被误报为超时
func TestManager_SendCancelledNotTimeout(t *testing.T) {
	a := newTestNode(t, nil)
	b := newTestNode(t, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := a.mgr.SendReliable(ctx, b.streamDest(), []byte("x"))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, types.ErrTimeout)
}
