package config

import "github.com/dep2p/go-gossipnet/pkg/types"

// CompressionConfig 压缩配置
//
// 压缩按阈值门控：小于阈值的载荷不压缩；压缩后不缩小的载荷
// 按原样发送。大载荷可分块并行压缩（纯性能优化，输出与串行
// 压缩逐字节一致）。
type CompressionConfig struct {
	// Kind 压缩算法
	//
	// types.CompressionNone 表示禁用压缩。
	Kind types.CompressionKind `json:"kind"`

	// Threshold 压缩阈值（字节）
	//
	// 载荷小于该值时不压缩。
	Threshold int `json:"threshold"`

	// ChunkSize 分块大小（字节）
	//
	// 载荷大于该值时拆分为独立块并行压缩。0 表示禁用分块。
	ChunkSize int `json:"chunk_size"`

	// Concurrency 并行压缩的最大工作协程数
	//
	// 0 表示使用 GOMAXPROCS。
	Concurrency int `json:"concurrency"`
}

// NewCompressionConfig 创建默认压缩配置
func NewCompressionConfig() CompressionConfig {
	return CompressionConfig{
		Kind:      types.CompressionNone,
		Threshold: 1024,
		ChunkSize: 1 << 20, // 1 MiB
	}
}

// Enabled 返回是否启用压缩
func (c *CompressionConfig) Enabled() bool {
	return c.Kind != types.CompressionNone
}
