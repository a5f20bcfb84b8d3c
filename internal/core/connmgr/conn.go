package connmgr

import (
	"bufio"
	"fmt"
	"io"
	"net"
	"net/netip"
	"sync"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/multiformats/go-varint"

	"github.com/dep2p/go-gossipnet/pkg/types"
)

// maxFrameSize 单个流帧的上限
//
// 流路径承载批量状态同步，上限远大于数据报路径，
// 但仍需要边界防止恶意长度前缀导致的内存放大。
const maxFrameSize = 16 << 20 // 16 MiB

// streamConn 单条流连接
//
// 状态机: Dialing → Established → Draining → Closed。
// 写入按连接互斥（writeMu），不同连接完全并行；
// Draining 期间已排队的写入仍会冲刷，Closed 之后一切操作失败。
type streamConn struct {
	conn net.Conn
	br   *bufio.Reader
	clk  clock.Clock

	// remote 对端地址（解析后的 socket 地址）
	remote netip.AddrPort

	// state 当前状态（types.ConnState）
	state atomic.Int32

	// writeMu 串行化本连接上的写入
	writeMu sync.Mutex

	// lastActive 最近一次读写完成时间（UnixNano）
	lastActive atomic.Int64

	// writesInFlight 进行中或排队中的写入数
	writesInFlight atomic.Int32

	closeOnce sync.Once
}

// newStreamConn 包装一条已建立的网络连接
func newStreamConn(conn net.Conn, remote netip.AddrPort, clk clock.Clock) *streamConn {
	c := &streamConn{
		conn:   conn,
		br:     bufio.NewReader(conn),
		clk:    clk,
		remote: remote,
	}
	c.state.Store(int32(types.ConnDialing))
	c.touch()
	return c
}

// establish 标记连接进入可用状态
func (c *streamConn) establish() {
	c.state.CompareAndSwap(int32(types.ConnDialing), int32(types.ConnEstablished))
	c.touch()
}

// State 返回当前状态
func (c *streamConn) State() types.ConnState {
	return types.ConnState(c.state.Load())
}

// touch 刷新活跃时间
func (c *streamConn) touch() {
	c.lastActive.Store(c.clk.Now().UnixNano())
}

// idleSince 返回最近活跃时间
func (c *streamConn) idleSince() time.Time {
	return time.Unix(0, c.lastActive.Load())
}

// WriteEnvelope 写入一个长度前缀帧
//
// 帧格式: [uvarint 长度][信封字节]。同一连接上的写入互斥，
// 字节绝不交错；Closed 状态下返回 ErrConnectionClosed。
func (c *streamConn) WriteEnvelope(frame []byte, timeout time.Duration) error {
	c.writesInFlight.Add(1)
	defer c.writesInFlight.Add(-1)

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if c.State() == types.ConnClosed {
		return types.ErrConnectionClosed
	}

	if timeout > 0 {
		if err := c.conn.SetWriteDeadline(time.Now().Add(timeout)); err != nil {
			return fmt.Errorf("set write deadline: %w", err)
		}
	}

	prefix := varint.ToUvarint(uint64(len(frame)))
	if _, err := c.conn.Write(prefix); err != nil {
		return c.wrapIOError(err)
	}
	if _, err := c.conn.Write(frame); err != nil {
		return c.wrapIOError(err)
	}

	c.touch()
	return nil
}

// ReadEnvelope 读取一个长度前缀帧
//
// timeout 同时充当空闲超时：期限内没有新帧到达则返回超时错误。
func (c *streamConn) ReadEnvelope(timeout time.Duration) ([]byte, error) {
	if c.State() == types.ConnClosed {
		return nil, types.ErrConnectionClosed
	}

	if timeout > 0 {
		if err := c.conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
			return nil, fmt.Errorf("set read deadline: %w", err)
		}
	}

	size, err := varint.ReadUvarint(c.br)
	if err != nil {
		return nil, c.wrapIOError(err)
	}
	if size > maxFrameSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, size)
	}

	frame := make([]byte, size)
	if _, err := io.ReadFull(c.br, frame); err != nil {
		return nil, c.wrapIOError(err)
	}

	c.touch()
	return frame, nil
}

// wrapIOError 把连接关闭后的 I/O 错误归一化
func (c *streamConn) wrapIOError(err error) error {
	if c.State() == types.ConnClosed {
		return types.ErrConnectionClosed
	}
	if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
		return fmt.Errorf("%w: %v", types.ErrTimeout, err)
	}
	return err
}

// Close 关闭连接（终态）
func (c *streamConn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.state.Store(int32(types.ConnClosed))
		err = c.conn.Close()
	})
	return err
}

// drainAndClose 排空后关闭
//
// 有进行中写入时进入 Draining，等待排队字节冲刷完毕再关闭；
// 没有写入时直接关闭。
func (c *streamConn) drainAndClose() error {
	if c.writesInFlight.Load() > 0 {
		c.state.CompareAndSwap(int32(types.ConnEstablished), int32(types.ConnDraining))
	}
	// 排队写入持有或等待 writeMu；拿到锁即全部冲刷完毕
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.Close()
}

// RemoteAddr 返回对端地址
func (c *streamConn) RemoteAddr() netip.AddrPort {
	return c.remote
}
