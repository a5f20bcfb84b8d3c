// Package s2 实现 S2（Snappy 高速变体）压缩后端
package s2

import (
	"fmt"

	"github.com/klauspost/compress/s2"

	pkgif "github.com/dep2p/go-gossipnet/pkg/interfaces"
	"github.com/dep2p/go-gossipnet/pkg/types"
)

// maxDecodedSize 单块解压输出上限
//
// S2 块头声明的解压长度来自网络输入，分配前必须限界，
// 否则小输入可以声明 GiB 级输出（解压炸弹）。
const maxDecodedSize = 64 << 20 // 64 MiB

// Compressor S2 压缩后端
//
// 块编码是纯函数，无共享状态，天然确定性。
type Compressor struct{}

// 确保实现 Compressor 接口
var _ pkgif.Compressor = (*Compressor)(nil)

// New 创建 S2 后端
func New() *Compressor {
	return &Compressor{}
}

// Kind 返回算法编号
func (c *Compressor) Kind() types.CompressionKind {
	return types.CompressionS2
}

// Compress 压缩数据块
func (c *Compressor) Compress(src []byte) ([]byte, error) {
	return s2.Encode(nil, src), nil
}

// Decompress 解压数据块
func (c *Compressor) Decompress(src []byte) ([]byte, error) {
	sz, err := s2.DecodedLen(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrDecompressionFailed, err)
	}
	if sz > maxDecodedSize {
		return nil, fmt.Errorf("%w: declared size %d exceeds limit %d", types.ErrDecompressionFailed, sz, maxDecodedSize)
	}
	out, err := s2.Decode(nil, src)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrDecompressionFailed, err)
	}
	return out, nil
}
