package connmgr

import (
	"net"
	"net/netip"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/multiformats/go-varint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-gossipnet/pkg/types"
)

func pipeConns(t *testing.T) (*streamConn, *streamConn) {
	t.Helper()
	c1, c2 := net.Pipe()
	remote := netip.MustParseAddrPort("127.0.0.1:7946")
	sc1 := newStreamConn(c1, remote, clock.New())
	sc2 := newStreamConn(c2, remote, clock.New())
	sc1.establish()
	sc2.establish()
	t.Cleanup(func() {
		_ = sc1.Close()
		_ = sc2.Close()
	})
	return sc1, sc2
}

// ============================================================================
// 帧读写测试
// ============================================================================

// TestStreamConn_FrameRoundTrip 测试长度前缀帧往返
func TestStreamConn_FrameRoundTrip(t *testing.T) {
	a, b := pipeConns(t)

	frame := []byte("framed envelope bytes")
	errCh := make(chan error, 1)
	go func() { errCh <- a.WriteEnvelope(frame, time.Second) }()

	got, err := b.ReadEnvelope(time.Second)
	require.NoError(t, err)
	assert.Equal(t, frame, got)
	require.NoError(t, <-errCh)
}

// TestStreamConn_MultipleFrames 测试同一连接上的帧序列保序
func TestStreamConn_MultipleFrames(t *testing.T) {
	a, b := pipeConns(t)

	go func() {
		for i := 0; i < 10; i++ {
			_ = a.WriteEnvelope([]byte{byte(i)}, time.Second)
		}
	}()

	for i := 0; i < 10; i++ {
		got, err := b.ReadEnvelope(time.Second)
		require.NoError(t, err)
		assert.Equal(t, []byte{byte(i)}, got)
	}
}

// TestStreamConn_FrameTooLarge 测试恶意长度前缀被拒绝
func TestStreamConn_FrameTooLarge(t *testing.T) {
	c1, c2 := net.Pipe()
	remote := netip.MustParseAddrPort("127.0.0.1:7946")
	sc := newStreamConn(c2, remote, clock.New())
	sc.establish()
	t.Cleanup(func() {
		_ = c1.Close()
		_ = sc.Close()
	})

	go func() {
		// 声称一个远超上限的帧长度
		_, _ = c1.Write(varint.ToUvarint(uint64(maxFrameSize + 1)))
	}()

	_, err := sc.ReadEnvelope(time.Second)
	assert.ErrorIs(t, err, ErrFrameTooLarge)
}

// TestStreamConn_ReadTimeout 测试读超时归一化为 ErrTimeout
func TestStreamConn_ReadTimeout(t *testing.T) {
	_, b := pipeConns(t)

	_, err := b.ReadEnvelope(50 * time.Millisecond)
	assert.ErrorIs(t, err, types.ErrTimeout)
}

// ============================================================================
// 状态机测试
// ============================================================================

// TestStreamConn_StateMachine 测试状态迁移
func TestStreamConn_StateMachine(t *testing.T) {
	c1, c2 := net.Pipe()
	defer c1.Close()

	sc := newStreamConn(c2, netip.MustParseAddrPort("127.0.0.1:7946"), clock.New())
	assert.Equal(t, types.ConnDialing, sc.State())

	sc.establish()
	assert.Equal(t, types.ConnEstablished, sc.State())

	require.NoError(t, sc.Close())
	assert.Equal(t, types.ConnClosed, sc.State())

	// Closed 是终态
	sc.establish()
	assert.Equal(t, types.ConnClosed, sc.State())
}

// TestStreamConn_ClosedTerminal 测试关闭后的操作全部失败
func TestStreamConn_ClosedTerminal(t *testing.T) {
	a, _ := pipeConns(t)
	require.NoError(t, a.Close())

	assert.ErrorIs(t, a.WriteEnvelope([]byte("x"), time.Second), types.ErrConnectionClosed)
	_, err := a.ReadEnvelope(time.Second)
	assert.ErrorIs(t, err, types.ErrConnectionClosed)

	// 重复关闭无副作用
	assert.NoError(t, a.Close())
}

// TestStreamConn_DrainAndClose 测试排空关闭等待进行中的写入
func TestStreamConn_DrainAndClose(t *testing.T) {
	a, b := pipeConns(t)

	writeDone := make(chan error, 1)
	go func() { writeDone <- a.WriteEnvelope([]byte("inflight"), time.Second) }()

	// 读取端消费帧，让写入完成
	go func() {
		_, _ = b.ReadEnvelope(time.Second)
	}()

	// 写入完成后排空关闭成功
	require.NoError(t, <-writeDone)
	require.NoError(t, a.drainAndClose())
	assert.Equal(t, types.ConnClosed, a.State())
}
