package interfaces

import "github.com/dep2p/go-gossipnet/pkg/types"

// Compressor 单个压缩算法后端
//
// 每个算法（zstd、s2）实现一次，通过配置选择。
// 实现必须是确定性的：相同输入总是产生相同输出，
// 这是并行分块压缩与串行压缩输出逐字节一致的前提。
type Compressor interface {
	// Kind 返回算法编号
	Kind() types.CompressionKind

	// Compress 压缩数据块
	Compress(src []byte) ([]byte, error)

	// Decompress 解压数据块，精确还原 Compress 的输入
	Decompress(src []byte) ([]byte, error)
}
