package compress

import (
	"fmt"
	"runtime"

	"github.com/multiformats/go-varint"
	"golang.org/x/sync/errgroup"

	"github.com/dep2p/go-gossipnet/config"
	"github.com/dep2p/go-gossipnet/internal/core/compress/s2"
	"github.com/dep2p/go-gossipnet/internal/core/compress/zstd"
	pkgif "github.com/dep2p/go-gossipnet/pkg/interfaces"
	"github.com/dep2p/go-gossipnet/pkg/types"
)

// Engine 压缩引擎
//
// 出站使用配置的算法；入站按容器中的算法字节分发，
// 混合配置的集群因此可以互相解码。
type Engine struct {
	cfg config.CompressionConfig

	// outbound 出站压缩后端（禁用压缩时为 nil）
	outbound pkgif.Compressor

	// backends 入站解压后端注册表
	backends map[types.CompressionKind]pkgif.Compressor
}

// NewEngine 创建压缩引擎
func NewEngine(cfg config.CompressionConfig) (*Engine, error) {
	zstdBackend, err := zstd.New()
	if err != nil {
		return nil, err
	}
	backends := map[types.CompressionKind]pkgif.Compressor{
		types.CompressionZstd: zstdBackend,
		types.CompressionS2:   s2.New(),
	}

	e := &Engine{
		cfg:      cfg,
		backends: backends,
	}
	if cfg.Enabled() {
		outbound, ok := backends[cfg.Kind]
		if !ok {
			return nil, fmt.Errorf("%w: %d", types.ErrUnknownCompressionKind, cfg.Kind)
		}
		e.outbound = outbound
	}
	return e, nil
}

// Enabled 返回是否启用出站压缩
func (e *Engine) Enabled() bool {
	return e.outbound != nil
}

// concurrency 返回分块压缩的并行度
func (e *Engine) concurrency() int {
	if e.cfg.Concurrency > 0 {
		return e.cfg.Concurrency
	}
	return runtime.GOMAXPROCS(0)
}

// splitChunks 把载荷切分为定长块
//
// 切分是确定性的：块大小固定，最后一块可以更短。
func (e *Engine) splitChunks(payload []byte) [][]byte {
	chunkSize := e.cfg.ChunkSize
	if chunkSize <= 0 || len(payload) <= chunkSize {
		return [][]byte{payload}
	}
	chunks := make([][]byte, 0, (len(payload)+chunkSize-1)/chunkSize)
	for off := 0; off < len(payload); off += chunkSize {
		end := off + chunkSize
		if end > len(payload) {
			end = len(payload)
		}
		chunks = append(chunks, payload[off:end])
	}
	return chunks
}

// MaybeCompress 按阈值门控压缩载荷
//
// 返回 (是否压缩, 结果字节)。以下情况返回原始字节且 compressed=false：
//   - 压缩未启用
//   - 载荷小于阈值
//   - 压缩后没有变小
func (e *Engine) MaybeCompress(payload []byte) (bool, []byte, error) {
	if e.outbound == nil || len(payload) < e.cfg.Threshold {
		return false, payload, nil
	}

	chunks := e.splitChunks(payload)
	compressed := make([][]byte, len(chunks))

	if len(chunks) == 1 {
		// 单块走同步路径，避免协程开销
		out, err := e.outbound.Compress(chunks[0])
		if err != nil {
			return false, nil, err
		}
		compressed[0] = out
	} else {
		// 各块独立压缩，按索引回填保证原始顺序
		var g errgroup.Group
		g.SetLimit(e.concurrency())
		for i, chunk := range chunks {
			i, chunk := i, chunk
			g.Go(func() error {
				out, err := e.outbound.Compress(chunk)
				if err != nil {
					return err
				}
				compressed[i] = out
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return false, nil, err
		}
	}

	// 组装容器: [算法][块数][各块长度][各块数据]
	size := 1 + varint.UvarintSize(uint64(len(compressed)))
	for _, c := range compressed {
		size += varint.UvarintSize(uint64(len(c))) + len(c)
	}
	if size >= len(payload) {
		// 压缩没有收益，按原样发送
		return false, payload, nil
	}

	buf := make([]byte, 0, size)
	buf = append(buf, byte(e.outbound.Kind()))
	buf = append(buf, varint.ToUvarint(uint64(len(compressed)))...)
	for _, c := range compressed {
		buf = append(buf, varint.ToUvarint(uint64(len(c)))...)
	}
	for _, c := range compressed {
		buf = append(buf, c...)
	}
	return true, buf, nil
}

// Decompress 解压容器，精确还原 MaybeCompress 的输入
//
// 任何结构损坏（未知算法、块长度越界、后端解压失败）都返回
// types.ErrDecompressionFailed。
func (e *Engine) Decompress(data []byte) ([]byte, error) {
	if len(data) < 2 {
		return nil, fmt.Errorf("%w: container too short", types.ErrDecompressionFailed)
	}

	kind := types.CompressionKind(data[0])
	backend, ok := e.backends[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %w: %d", types.ErrDecompressionFailed, types.ErrUnknownCompressionKind, kind)
	}
	rest := data[1:]

	nchunks, n, err := varint.FromUvarint(rest)
	if err != nil || nchunks == 0 {
		return nil, fmt.Errorf("%w: invalid chunk count", types.ErrDecompressionFailed)
	}
	rest = rest[n:]

	// 块数来自网络输入，分配前必须限界：
	// 每块至少占一个长度字节，块数不可能超过剩余字节数
	if nchunks > uint64(len(rest)) {
		return nil, fmt.Errorf("%w: chunk count %d exceeds remaining %d bytes", types.ErrDecompressionFailed, nchunks, len(rest))
	}

	lens := make([]uint64, nchunks)
	for i := range lens {
		l, n, err := varint.FromUvarint(rest)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid chunk length", types.ErrDecompressionFailed)
		}
		lens[i] = l
		rest = rest[n:]
	}

	// 逐块对照剩余字节累计校验，长度求和可能回绕，不可信
	chunks := make([][]byte, nchunks)
	off := uint64(0)
	for i, l := range lens {
		if l > uint64(len(rest))-off {
			return nil, fmt.Errorf("%w: chunk length %d exceeds remaining bytes", types.ErrDecompressionFailed, l)
		}
		chunks[i] = rest[off : off+l]
		off += l
	}
	if off != uint64(len(rest)) {
		return nil, fmt.Errorf("%w: chunk lengths do not match remaining %d bytes", types.ErrDecompressionFailed, len(rest))
	}

	decompressed := make([][]byte, nchunks)
	if nchunks == 1 {
		out, err := backend.Decompress(chunks[0])
		if err != nil {
			return nil, err
		}
		decompressed[0] = out
	} else {
		var g errgroup.Group
		g.SetLimit(e.concurrency())
		for i, chunk := range chunks {
			i, chunk := i, chunk
			g.Go(func() error {
				out, err := backend.Decompress(chunk)
				if err != nil {
					return err
				}
				decompressed[i] = out
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	var size int
	for _, d := range decompressed {
		size += len(d)
	}
	out := make([]byte, 0, size)
	for _, d := range decompressed {
		out = append(out, d...)
	}
	return out, nil
}
