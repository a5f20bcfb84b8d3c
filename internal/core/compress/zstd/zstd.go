// Package zstd 实现 Zstandard 压缩后端
package zstd

import (
	"fmt"

	"github.com/klauspost/compress/zstd"

	pkgif "github.com/dep2p/go-gossipnet/pkg/interfaces"
	"github.com/dep2p/go-gossipnet/pkg/types"
)

// maxDecodedSize 单块解压输出上限
//
// 压缩输入受帧上限约束，但帧头声明的解压长度不受：没有这道上界，
// 一个几 KiB 的块可以声明 GiB 级输出（解压炸弹）。
const maxDecodedSize = 64 << 20 // 64 MiB

// Compressor Zstandard 压缩后端
//
// 编码器固定单并发：分块并行由上层的压缩引擎负责，
// 后端自身必须保持确定性（相同输入产生相同输出）。
type Compressor struct {
	enc *zstd.Encoder
	dec *zstd.Decoder
}

// 确保实现 Compressor 接口
var _ pkgif.Compressor = (*Compressor)(nil)

// New 创建 Zstandard 后端
func New() (*Compressor, error) {
	enc, err := zstd.NewWriter(nil,
		zstd.WithEncoderConcurrency(1),
		zstd.WithEncoderLevel(zstd.SpeedDefault),
	)
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil,
		zstd.WithDecoderConcurrency(1),
		zstd.WithDecoderMaxMemory(maxDecodedSize),
	)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}
	return &Compressor{enc: enc, dec: dec}, nil
}

// Kind 返回算法编号
func (c *Compressor) Kind() types.CompressionKind {
	return types.CompressionZstd
}

// Compress 压缩数据块
func (c *Compressor) Compress(src []byte) ([]byte, error) {
	return c.enc.EncodeAll(src, nil), nil
}

// Decompress 解压数据块
func (c *Compressor) Decompress(src []byte) ([]byte, error) {
	out, err := c.dec.DecodeAll(src, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrDecompressionFailed, err)
	}
	return out, nil
}
