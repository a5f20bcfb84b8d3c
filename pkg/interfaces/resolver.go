package interfaces

import (
	"context"
	"net/netip"

	"github.com/dep2p/go-gossipnet/pkg/types"
)

// NameResolver DNS 解析协作者
//
// 窄接口：只负责把域名变成地址序列，解析算法内部（递归、
// 上游选择、重试）不属于本传输核心。
// 名称不存在时返回 types.ErrNameNotFound。
type NameResolver interface {
	// Lookup 解析域名，返回有序地址序列
	Lookup(ctx context.Context, name string) ([]netip.Addr, error)
}

// AddressResolver 对端地址解析器
//
// 把符号化的 PeerAddress（字面量 socket 或 DNS 域名）解析为
// 具体 socket 地址序列。字面量地址解析为其自身；DNS 域名经
// NameResolver 查询并按 TTL 缓存。
// 未返回任何地址时失败，返回 types.ErrResolutionFailed。
type AddressResolver interface {
	// Resolve 解析对端地址
	Resolve(ctx context.Context, addr types.PeerAddress) ([]netip.AddrPort, error)
}
