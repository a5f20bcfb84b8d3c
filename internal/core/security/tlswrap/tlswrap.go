// Package tlswrap 实现流路径的 TLS 包装协作者
//
// 给定一条原始连接，返回一条读写契约完全相同的 TLS 连接。
// 握手内部完全委托给 crypto/tls，本包只负责触发握手并把
// 失败归一化为 types.ErrHandshakeFailed。
package tlswrap

import (
	"crypto/tls"
	"fmt"
	"net"

	pkgif "github.com/dep2p/go-gossipnet/pkg/interfaces"
	"github.com/dep2p/go-gossipnet/pkg/types"
)

// Wrapper TLS 包装器
type Wrapper struct {
	clientCfg *tls.Config
	serverCfg *tls.Config
}

// 确保实现 StreamSecurity 接口
var _ pkgif.StreamSecurity = (*Wrapper)(nil)

// New 创建 TLS 包装器
//
// clientCfg/serverCfg 分别用于出站与入站连接；
// 任意一侧为 nil 时该侧不做包装（原样返回）。
func New(clientCfg, serverCfg *tls.Config) *Wrapper {
	return &Wrapper{
		clientCfg: clientCfg,
		serverCfg: serverCfg,
	}
}

// WrapClient 包装出站连接并完成客户端握手
func (w *Wrapper) WrapClient(conn net.Conn) (net.Conn, error) {
	if w.clientCfg == nil {
		return conn, nil
	}
	tlsConn := tls.Client(conn, w.clientCfg)
	if err := tlsConn.Handshake(); err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrHandshakeFailed, err)
	}
	return tlsConn, nil
}

// WrapServer 包装入站连接并完成服务端握手
func (w *Wrapper) WrapServer(conn net.Conn) (net.Conn, error) {
	if w.serverCfg == nil {
		return conn, nil
	}
	tlsConn := tls.Server(conn, w.serverCfg)
	if err := tlsConn.Handshake(); err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrHandshakeFailed, err)
	}
	return tlsConn, nil
}
