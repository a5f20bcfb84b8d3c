// Package compress 实现阈值门控的载荷压缩引擎
//
// # 门控
//
// 压缩只在载荷超过配置阈值时应用；压缩后不缩小的载荷按原样
// 发送（compressed=false）。
//
// # 容器格式
//
// 压缩后的载荷是一个自描述容器：
//
//	[算法 1B][块数 uvarint][各块压缩长度 uvarint ×n][各块数据]
//
// 算法字节使混合配置的集群可以互相解码。
//
// # 分块并行
//
// 超过 ChunkSize 的载荷被拆分为定长独立块并行压缩。
// 分块是纯性能优化：块的切分与每块的压缩都是确定性的，
// 并行压缩的输出与单线程压缩逐字节一致。
package compress
