// Package resolver 实现对端地址解析
//
// 把符号化的 PeerAddress 解析为具体 socket 地址序列：
//   - 字面量 socket 地址解析为其自身（不经过缓存）
//   - DNS 域名通过 NameResolver 协作者查询，结果按配置的 TTL
//     缓存（TTL 内复用，过期后重新查询）
//
// DNS 解析算法内部（递归、上游选择）不属于本传输核心，
// 完全委托给 NameResolver 实现：
//   - DNSClient: 基于 miekg/dns 的自定义 DNS 服务器客户端
//   - SystemResolver: 标准库系统解析器
//
// 未返回任何地址时解析失败（types.ErrResolutionFailed）。
// 默认只使用第一个地址；FallbackOnDialFailure 配置开启后，
// 流路径拨号失败时按序尝试后续地址。
package resolver
