package resolver

import (
	"context"
	"fmt"
	"net/netip"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/dep2p/go-gossipnet/config"
	pkgif "github.com/dep2p/go-gossipnet/pkg/interfaces"
	"github.com/dep2p/go-gossipnet/pkg/lib/log"
	"github.com/dep2p/go-gossipnet/pkg/types"
)

var logger = log.Logger("core/resolver")

// Resolver 对端地址解析器
//
// DNS 查询结果缓存在带 TTL 的 LRU 中，键为域名。
type Resolver struct {
	backend pkgif.NameResolver
	cache   *expirable.LRU[string, []netip.Addr]
	timeout config.Duration
}

// 确保实现 AddressResolver 接口
var _ pkgif.AddressResolver = (*Resolver)(nil)

// New 创建地址解析器
func New(cfg config.ResolverConfig, backend pkgif.NameResolver) *Resolver {
	return &Resolver{
		backend: backend,
		cache:   expirable.NewLRU[string, []netip.Addr](cfg.CacheSize, nil, cfg.CacheTTL.Duration()),
		timeout: cfg.Timeout,
	}
}

// Resolve 解析对端地址
//
// 返回有序地址序列；字面量地址解析为其自身。
func (r *Resolver) Resolve(ctx context.Context, addr types.PeerAddress) ([]netip.AddrPort, error) {
	switch addr.Kind() {
	case types.AddrKindSocket:
		return []netip.AddrPort{addr.AddrPort()}, nil

	case types.AddrKindDNS:
		addrs, err := r.lookup(ctx, addr.Host())
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %w", types.ErrResolutionFailed, addr.Host(), err)
		}
		out := make([]netip.AddrPort, len(addrs))
		for i, a := range addrs {
			out[i] = netip.AddrPortFrom(a, addr.Port())
		}
		return out, nil

	default:
		return nil, fmt.Errorf("%w: kind %s", types.ErrInvalidAddress, addr.Kind())
	}
}

// lookup 查询域名，TTL 内复用缓存值
func (r *Resolver) lookup(ctx context.Context, host string) ([]netip.Addr, error) {
	if cached, ok := r.cache.Get(host); ok {
		return cached, nil
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout.Duration())
	defer cancel()

	addrs, err := r.backend.Lookup(ctx, host)
	if err != nil {
		return nil, err
	}
	if len(addrs) == 0 {
		return nil, types.ErrNameNotFound
	}

	r.cache.Add(host, addrs)
	logger.Debug("DNS 解析完成", "host", host, "addrs", len(addrs))
	return addrs, nil
}
