package types

import (
	"fmt"
	"net/netip"
	"strconv"
)

// ============================================================================
//                              AddressKind - 地址类型
// ============================================================================

// AddressKind 对端地址类型
type AddressKind int

const (
	// AddrKindUnknown 未知地址类型
	AddrKindUnknown AddressKind = iota
	// AddrKindSocket 字面量 socket 地址（IP:Port）
	AddrKindSocket
	// AddrKindDNS DNS 域名地址，需要经过解析器解析
	AddrKindDNS
)

// String 返回地址类型的字符串表示
func (k AddressKind) String() string {
	switch k {
	case AddrKindSocket:
		return "socket"
	case AddrKindDNS:
		return "dns"
	default:
		return "unknown"
	}
}

// ============================================================================
//                              PeerAddress - 对端地址
// ============================================================================

// PeerAddress 对端地址
//
// 表示一个已解析或符号化的端点。构造后不可变；
// DNS 域名地址在拨号/发送前由解析器惰性解析，并按 TTL 缓存。
type PeerAddress struct {
	kind AddressKind
	host string
	port uint16

	// 仅当 kind == AddrKindSocket 时有效
	addrPort netip.AddrPort
}

// NewSocketAddress 从字面量 socket 地址构造 PeerAddress
func NewSocketAddress(ap netip.AddrPort) PeerAddress {
	return PeerAddress{
		kind:     AddrKindSocket,
		host:     ap.Addr().String(),
		port:     ap.Port(),
		addrPort: ap,
	}
}

// NewDNSAddress 从 DNS 域名构造 PeerAddress
func NewDNSAddress(host string, port uint16) (PeerAddress, error) {
	if host == "" {
		return PeerAddress{}, fmt.Errorf("%w: empty host", ErrInvalidAddress)
	}
	return PeerAddress{
		kind: AddrKindDNS,
		host: host,
		port: port,
	}, nil
}

// ParsePeerAddress 从 "host:port" 字符串解析 PeerAddress
//
// 如果 host 部分是合法的 IP 字面量，返回 socket 地址；
// 否则视为 DNS 域名。
func ParsePeerAddress(s string) (PeerAddress, error) {
	if ap, err := netip.ParseAddrPort(s); err == nil {
		return NewSocketAddress(ap), nil
	}

	host, portStr, err := splitHostPort(s)
	if err != nil {
		return PeerAddress{}, fmt.Errorf("%w: %q", ErrInvalidAddress, s)
	}
	port, err := strconv.ParseUint(portStr, 10, 16)
	if err != nil {
		return PeerAddress{}, fmt.Errorf("%w: invalid port in %q", ErrInvalidAddress, s)
	}
	return NewDNSAddress(host, uint16(port))
}

// splitHostPort 分离 host 与 port（不依赖 net 包的地址校验）
func splitHostPort(s string) (string, string, error) {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == ':' {
			if i == 0 || i == len(s)-1 {
				break
			}
			return s[:i], s[i+1:], nil
		}
	}
	return "", "", fmt.Errorf("missing port in address %q", s)
}

// Kind 返回地址类型
func (a PeerAddress) Kind() AddressKind {
	return a.kind
}

// Host 返回主机部分（IP 字面量或域名）
func (a PeerAddress) Host() string {
	return a.host
}

// Port 返回端口
func (a PeerAddress) Port() uint16 {
	return a.port
}

// AddrPort 返回 socket 地址
//
// 仅当 Kind() == AddrKindSocket 时有效；DNS 地址返回零值。
func (a PeerAddress) AddrPort() netip.AddrPort {
	return a.addrPort
}

// IsValid 返回地址是否有效
func (a PeerAddress) IsValid() bool {
	return a.kind != AddrKindUnknown
}

// String 返回地址的字符串表示
func (a PeerAddress) String() string {
	switch a.kind {
	case AddrKindSocket:
		return a.addrPort.String()
	case AddrKindDNS:
		return a.host + ":" + strconv.Itoa(int(a.port))
	default:
		return "<invalid>"
	}
}
