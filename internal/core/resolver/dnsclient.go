package resolver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/netip"
	"time"

	"github.com/miekg/dns"

	pkgif "github.com/dep2p/go-gossipnet/pkg/interfaces"
	"github.com/dep2p/go-gossipnet/pkg/types"
)

// ============================================================================
//                              DNSClient - 自定义 DNS 服务器
// ============================================================================

// DNSClient 基于 miekg/dns 的名称解析后端
//
// 直接向配置的 DNS 服务器发起 A/AAAA 查询，
// 用于不经过系统解析器的部署（容器、私有 DNS）。
type DNSClient struct {
	client     *dns.Client
	nameserver string
}

// 确保实现 NameResolver 接口
var _ pkgif.NameResolver = (*DNSClient)(nil)

// NewDNSClient 创建 DNS 客户端
//
// nameserver 格式为 "ip:port"。
func NewDNSClient(nameserver string, timeout time.Duration) *DNSClient {
	return &DNSClient{
		client: &dns.Client{
			Timeout: timeout,
		},
		nameserver: nameserver,
	}
}

// Lookup 解析域名
//
// 先查 A 记录，再查 AAAA 记录，按返回顺序拼接（IPv4 优先）。
func (c *DNSClient) Lookup(ctx context.Context, name string) ([]netip.Addr, error) {
	var out []netip.Addr

	for _, qtype := range []uint16{dns.TypeA, dns.TypeAAAA} {
		addrs, err := c.query(ctx, name, qtype)
		if err != nil {
			// 任一记录类型命中即可；两种都失败时在末尾统一报错
			continue
		}
		out = append(out, addrs...)
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %q", types.ErrNameNotFound, name)
	}
	return out, nil
}

// query 发起单个类型的 DNS 查询
func (c *DNSClient) query(ctx context.Context, name string, qtype uint16) ([]netip.Addr, error) {
	m := new(dns.Msg)
	m.SetQuestion(dns.Fqdn(name), qtype)

	in, _, err := c.client.ExchangeContext(ctx, m, c.nameserver)
	if err != nil {
		return nil, fmt.Errorf("dns exchange: %w", err)
	}
	if in.Rcode == dns.RcodeNameError {
		return nil, types.ErrNameNotFound
	}
	if in.Rcode != dns.RcodeSuccess {
		return nil, fmt.Errorf("dns rcode %s", dns.RcodeToString[in.Rcode])
	}

	var out []netip.Addr
	for _, rr := range in.Answer {
		switch record := rr.(type) {
		case *dns.A:
			if a, ok := netip.AddrFromSlice(record.A.To4()); ok {
				out = append(out, a)
			}
		case *dns.AAAA:
			if a, ok := netip.AddrFromSlice(record.AAAA); ok {
				out = append(out, a)
			}
		}
	}
	return out, nil
}

// ============================================================================
//                              SystemResolver - 系统解析器
// ============================================================================

// SystemResolver 基于标准库系统解析器的名称解析后端
//
// 未配置自定义 DNS 服务器时的默认后端。
type SystemResolver struct {
	resolver *net.Resolver
}

// 确保实现 NameResolver 接口
var _ pkgif.NameResolver = (*SystemResolver)(nil)

// NewSystemResolver 创建系统解析器后端
func NewSystemResolver() *SystemResolver {
	return &SystemResolver{resolver: net.DefaultResolver}
}

// Lookup 解析域名
func (r *SystemResolver) Lookup(ctx context.Context, name string) ([]netip.Addr, error) {
	addrs, err := r.resolver.LookupNetIP(ctx, "ip", name)
	if err != nil {
		var dnsErr *net.DNSError
		if errors.As(err, &dnsErr) && dnsErr.IsNotFound {
			return nil, fmt.Errorf("%w: %q", types.ErrNameNotFound, name)
		}
		return nil, err
	}
	if len(addrs) == 0 {
		return nil, fmt.Errorf("%w: %q", types.ErrNameNotFound, name)
	}
	return addrs, nil
}
