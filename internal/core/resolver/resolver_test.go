package resolver

import (
	"context"
	"net/netip"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-gossipnet/config"
	"github.com/dep2p/go-gossipnet/pkg/types"
)

// fakeBackend 记录调用次数的名称解析后端
type fakeBackend struct {
	calls atomic.Int32
	addrs map[string][]netip.Addr
	err   error
}

func (f *fakeBackend) Lookup(_ context.Context, name string) ([]netip.Addr, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return f.addrs[name], nil
}

// ============================================================================
// 解析测试
// ============================================================================

// TestResolver_SocketLiteral 测试字面量地址解析为其自身
func TestResolver_SocketLiteral(t *testing.T) {
	backend := &fakeBackend{}
	r := New(config.NewResolverConfig(), backend)

	ap := netip.MustParseAddrPort("192.168.1.10:7946")
	addrs, err := r.Resolve(context.Background(), types.NewSocketAddress(ap))
	require.NoError(t, err)
	require.Len(t, addrs, 1)
	assert.Equal(t, ap, addrs[0])

	// 字面量地址不经过后端
	assert.Equal(t, int32(0), backend.calls.Load())
}

// TestResolver_DNS 测试域名解析保持后端顺序并附加端口
func TestResolver_DNS(t *testing.T) {
	backend := &fakeBackend{
		addrs: map[string][]netip.Addr{
			"node1.cluster.local": {
				netip.MustParseAddr("10.0.0.1"),
				netip.MustParseAddr("10.0.0.2"),
			},
		},
	}
	r := New(config.NewResolverConfig(), backend)

	dest, err := types.NewDNSAddress("node1.cluster.local", 7946)
	require.NoError(t, err)

	addrs, err := r.Resolve(context.Background(), dest)
	require.NoError(t, err)
	require.Len(t, addrs, 2)
	assert.Equal(t, netip.MustParseAddrPort("10.0.0.1:7946"), addrs[0])
	assert.Equal(t, netip.MustParseAddrPort("10.0.0.2:7946"), addrs[1])
}

// TestResolver_NameNotFound 测试空解析结果
func TestResolver_NameNotFound(t *testing.T) {
	backend := &fakeBackend{addrs: map[string][]netip.Addr{}}
	r := New(config.NewResolverConfig(), backend)

	dest, err := types.NewDNSAddress("missing.cluster.local", 7946)
	require.NoError(t, err)

	_, err = r.Resolve(context.Background(), dest)
	assert.ErrorIs(t, err, types.ErrResolutionFailed)
	assert.ErrorIs(t, err, types.ErrNameNotFound)
}

// TestResolver_InvalidAddress 测试无效地址类型
func TestResolver_InvalidAddress(t *testing.T) {
	r := New(config.NewResolverConfig(), &fakeBackend{})

	_, err := r.Resolve(context.Background(), types.PeerAddress{})
	assert.ErrorIs(t, err, types.ErrInvalidAddress)
}

// ============================================================================
// 缓存测试
// ============================================================================

// TestResolver_CacheHit 测试 TTL 内复用缓存值
func TestResolver_CacheHit(t *testing.T) {
	backend := &fakeBackend{
		addrs: map[string][]netip.Addr{
			"node1.cluster.local": {netip.MustParseAddr("10.0.0.1")},
		},
	}
	r := New(config.NewResolverConfig(), backend)

	dest, err := types.NewDNSAddress("node1.cluster.local", 7946)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		addrs, err := r.Resolve(context.Background(), dest)
		require.NoError(t, err)
		require.Len(t, addrs, 1)
	}

	// 首次查询之后全部命中缓存
	assert.Equal(t, int32(1), backend.calls.Load())
}

// TestResolver_CacheExpiry 测试 TTL 过期后重新查询
func TestResolver_CacheExpiry(t *testing.T) {
	backend := &fakeBackend{
		addrs: map[string][]netip.Addr{
			"node1.cluster.local": {netip.MustParseAddr("10.0.0.1")},
		},
	}
	cfg := config.NewResolverConfig()
	cfg.CacheTTL = config.Duration(50 * time.Millisecond)
	r := New(cfg, backend)

	dest, err := types.NewDNSAddress("node1.cluster.local", 7946)
	require.NoError(t, err)

	_, err = r.Resolve(context.Background(), dest)
	require.NoError(t, err)

	time.Sleep(120 * time.Millisecond)

	_, err = r.Resolve(context.Background(), dest)
	require.NoError(t, err)
	assert.Equal(t, int32(2), backend.calls.Load())
}

// TestResolver_ErrorNotCached 测试失败结果不进入缓存
func TestResolver_ErrorNotCached(t *testing.T) {
	backend := &fakeBackend{err: types.ErrNameNotFound}
	r := New(config.NewResolverConfig(), backend)

	dest, err := types.NewDNSAddress("flaky.cluster.local", 7946)
	require.NoError(t, err)

	_, err = r.Resolve(context.Background(), dest)
	require.Error(t, err)

	// 后端恢复后下一次查询立即成功
	backend.err = nil
	backend.addrs = map[string][]netip.Addr{
		"flaky.cluster.local": {netip.MustParseAddr("10.0.0.9")},
	}
	addrs, err := r.Resolve(context.Background(), dest)
	require.NoError(t, err)
	assert.Len(t, addrs, 1)
	assert.Equal(t, int32(2), backend.calls.Load())
}
