package connmgr

import (
	"net/netip"
	"sync"
	"time"

	"go.uber.org/multierr"

	"github.com/dep2p/go-gossipnet/pkg/types"
)

// connPool 每对端的流连接池
//
// 出站连接写入完成后归还池中，空闲窗口内的后续发送复用同一连接。
// 池被并发的 SendReliable 调用共享；取出的连接由调用方独占写入。
type connPool struct {
	mu sync.Mutex

	// conns 按对端地址分组的空闲连接
	conns map[netip.AddrPort][]*streamConn

	// maxPerPeer 每对端池化连接数上限
	maxPerPeer int

	closed bool
}

// newConnPool 创建连接池
func newConnPool(maxPerPeer int) *connPool {
	return &connPool{
		conns:      make(map[netip.AddrPort][]*streamConn),
		maxPerPeer: maxPerPeer,
	}
}

// Get 取出一条到对端的空闲连接
//
// 没有可用连接时返回 nil（调用方自行拨号）。
func (p *connPool) Get(peer netip.AddrPort) *streamConn {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	list := p.conns[peer]
	for len(list) > 0 {
		// 从尾部取最近归还的连接
		c := list[len(list)-1]
		list = list[:len(list)-1]
		p.conns[peer] = list
		if c.State() == types.ConnEstablished {
			return c
		}
		// 已失效的连接直接丢弃
		_ = c.Close()
	}
	return nil
}

// Put 归还连接
//
// 池已关闭、超过上限或连接已不可用时直接关闭。
func (p *connPool) Put(c *streamConn) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed || c.State() != types.ConnEstablished || len(p.conns[c.RemoteAddr()]) >= p.maxPerPeer {
		_ = c.Close()
		return
	}
	p.conns[c.RemoteAddr()] = append(p.conns[c.RemoteAddr()], c)
}

// ReapIdle 回收空闲超时的池化连接
func (p *connPool) ReapIdle(now time.Time, idleTimeout time.Duration) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	reaped := 0
	for peer, list := range p.conns {
		kept := list[:0]
		for _, c := range list {
			if now.Sub(c.idleSince()) > idleTimeout {
				_ = c.Close()
				reaped++
				continue
			}
			kept = append(kept, c)
		}
		if len(kept) == 0 {
			delete(p.conns, peer)
		} else {
			p.conns[peer] = kept
		}
	}
	return reaped
}

// Shutdown 排空并关闭全部池化连接
//
// 幂等；之后 Get 返回 nil，Put 直接关闭归还的连接。
func (p *connPool) Shutdown() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	all := make([]*streamConn, 0)
	for _, list := range p.conns {
		all = append(all, list...)
	}
	p.conns = make(map[netip.AddrPort][]*streamConn)
	p.mu.Unlock()

	var err error
	for _, c := range all {
		err = multierr.Append(err, c.drainAndClose())
	}
	return err
}
