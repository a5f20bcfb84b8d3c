package compress

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/multiformats/go-varint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-gossipnet/config"
	"github.com/dep2p/go-gossipnet/pkg/types"
)

func newTestEngine(t *testing.T, cfg config.CompressionConfig) *Engine {
	t.Helper()
	e, err := NewEngine(cfg)
	require.NoError(t, err)
	return e
}

// compressiblePayload 生成高度可压缩的载荷
func compressiblePayload(n int) []byte {
	return bytes.Repeat([]byte("gossip state entry "), n/19+1)[:n]
}

// randomPayload 生成不可压缩的随机载荷
func randomPayload(n int) []byte {
	rng := rand.New(rand.NewSource(42))
	b := make([]byte, n)
	rng.Read(b)
	return b
}

// ============================================================================
// 压缩往返测试
// ============================================================================

// TestEngine_RoundTrip 测试各算法的压缩/解压往返
func TestEngine_RoundTrip(t *testing.T) {
	for _, kind := range []types.CompressionKind{types.CompressionZstd, types.CompressionS2} {
		t.Run(kind.String(), func(t *testing.T) {
			cfg := config.NewCompressionConfig()
			cfg.Kind = kind
			e := newTestEngine(t, cfg)

			payload := compressiblePayload(64 << 10)
			compressed, out, err := e.MaybeCompress(payload)
			require.NoError(t, err)
			require.True(t, compressed)
			assert.Less(t, len(out), len(payload))

			got, err := e.Decompress(out)
			require.NoError(t, err)
			assert.Equal(t, payload, got)
		})
	}
}

// TestEngine_BelowThreshold 测试小于阈值的载荷不压缩
func TestEngine_BelowThreshold(t *testing.T) {
	cfg := config.NewCompressionConfig()
	cfg.Kind = types.CompressionZstd
	cfg.Threshold = 1024
	e := newTestEngine(t, cfg)

	payload := compressiblePayload(512)
	compressed, out, err := e.MaybeCompress(payload)
	require.NoError(t, err)
	assert.False(t, compressed)
	assert.Equal(t, payload, out)
}

// TestEngine_NonShrinking 测试压缩后不缩小的载荷按原样发送
func TestEngine_NonShrinking(t *testing.T) {
	cfg := config.NewCompressionConfig()
	cfg.Kind = types.CompressionS2
	cfg.Threshold = 64
	e := newTestEngine(t, cfg)

	payload := randomPayload(2048)
	compressed, out, err := e.MaybeCompress(payload)
	require.NoError(t, err)
	assert.False(t, compressed)
	assert.Equal(t, payload, out)
}

// TestEngine_Disabled 测试禁用压缩时直通
func TestEngine_Disabled(t *testing.T) {
	e := newTestEngine(t, config.NewCompressionConfig())
	assert.False(t, e.Enabled())

	payload := compressiblePayload(64 << 10)
	compressed, out, err := e.MaybeCompress(payload)
	require.NoError(t, err)
	assert.False(t, compressed)
	assert.Equal(t, payload, out)
}

// ============================================================================
// 分块并行测试
// ============================================================================

// TestEngine_ParallelMatchesSerial 测试并行分块输出与串行逐字节一致
func TestEngine_ParallelMatchesSerial(t *testing.T) {
	payload := compressiblePayload(256 << 10)

	serial := config.NewCompressionConfig()
	serial.Kind = types.CompressionZstd
	serial.ChunkSize = 16 << 10
	serial.Concurrency = 1

	parallel := serial
	parallel.Concurrency = 8

	_, serialOut, err := newTestEngine(t, serial).MaybeCompress(payload)
	require.NoError(t, err)
	_, parallelOut, err := newTestEngine(t, parallel).MaybeCompress(payload)
	require.NoError(t, err)

	assert.Equal(t, serialOut, parallelOut)
}

// TestEngine_ChunkedRoundTrip 测试多块载荷的往返
func TestEngine_ChunkedRoundTrip(t *testing.T) {
	cfg := config.NewCompressionConfig()
	cfg.Kind = types.CompressionZstd
	cfg.ChunkSize = 8 << 10
	e := newTestEngine(t, cfg)

	// 最后一块不满
	payload := compressiblePayload(100<<10 + 17)
	compressed, out, err := e.MaybeCompress(payload)
	require.NoError(t, err)
	require.True(t, compressed)

	got, err := e.Decompress(out)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

// TestEngine_ChunkingDisabled 测试 ChunkSize=0 时不分块
func TestEngine_ChunkingDisabled(t *testing.T) {
	cfg := config.NewCompressionConfig()
	cfg.Kind = types.CompressionS2
	cfg.ChunkSize = 0
	e := newTestEngine(t, cfg)

	payload := compressiblePayload(128 << 10)
	compressed, out, err := e.MaybeCompress(payload)
	require.NoError(t, err)
	require.True(t, compressed)

	got, err := e.Decompress(out)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

// ============================================================================
// 混合算法与损坏输入测试
// ============================================================================

// TestEngine_MixedKindDecode 测试混合算法集群互通
//
// 容器携带算法字节，配置不同出站算法的节点互相可解。
func TestEngine_MixedKindDecode(t *testing.T) {
	zstdCfg := config.NewCompressionConfig()
	zstdCfg.Kind = types.CompressionZstd
	s2Cfg := config.NewCompressionConfig()
	s2Cfg.Kind = types.CompressionS2

	zstdNode := newTestEngine(t, zstdCfg)
	s2Node := newTestEngine(t, s2Cfg)

	payload := compressiblePayload(8 << 10)
	compressed, out, err := s2Node.MaybeCompress(payload)
	require.NoError(t, err)
	require.True(t, compressed)

	got, err := zstdNode.Decompress(out)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

// TestEngine_DecompressCorrupt 测试损坏容器被拒绝
func TestEngine_DecompressCorrupt(t *testing.T) {
	cfg := config.NewCompressionConfig()
	cfg.Kind = types.CompressionZstd
	e := newTestEngine(t, cfg)

	payload := compressiblePayload(8 << 10)
	_, out, err := e.MaybeCompress(payload)
	require.NoError(t, err)

	cases := map[string][]byte{
		"空输入":    {},
		"只有算法字节": {byte(types.CompressionZstd)},
		"未知算法":   append([]byte{0xFF}, out[1:]...),
		"截断块数据":  out[:len(out)-4],
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := e.Decompress(data)
			assert.ErrorIs(t, err, types.ErrDecompressionFailed)
		})
	}

	// 块内字节损坏由后端捕获
	corrupted := make([]byte, len(out))
	copy(corrupted, out)
	corrupted[len(corrupted)-1] ^= 0xFF
	_, err = e.Decompress(corrupted)
	assert.Error(t, err)
}

// TestEngine_DecompressHostileContainer 测试恶意容器头被拒绝而不是崩溃
//
// 块数与块长度都来自网络输入：天文数字块数不得触发超大分配，
// 块长度按 uint64 求和回绕也不得绕过总长校验。
func TestEngine_DecompressHostileContainer(t *testing.T) {
	cfg := config.NewCompressionConfig()
	cfg.Kind = types.CompressionZstd
	e := newTestEngine(t, cfg)

	t.Run("天文数字块数", func(t *testing.T) {
		data := []byte{byte(types.CompressionZstd)}
		data = append(data, varint.ToUvarint(1<<62)...)
		data = append(data, 0x01, 0x00)

		_, err := e.Decompress(data)
		assert.ErrorIs(t, err, types.ErrDecompressionFailed)
	})

	t.Run("块长度求和回绕", func(t *testing.T) {
		// 三个长度按 uint64 回绕到恰好等于剩余字节数
		rest := bytes.Repeat([]byte{0xAA}, 8)
		data := []byte{byte(types.CompressionZstd)}
		data = append(data, varint.ToUvarint(3)...)
		data = append(data, varint.ToUvarint(1<<63-1)...)
		data = append(data, varint.ToUvarint(1<<63-1)...)
		data = append(data, varint.ToUvarint(uint64(len(rest))+2)...)
		data = append(data, rest...)

		_, err := e.Decompress(data)
		assert.ErrorIs(t, err, types.ErrDecompressionFailed)
	})
}

// TestEngine_DecompressBombRejected 测试声明超大输出的块被拒绝
//
// 块头声明的解压长度在分配之前对照上限检查，
// 几个字节的输入不能换取 GiB 级的内存分配。
func TestEngine_DecompressBombRejected(t *testing.T) {
	cfg := config.NewCompressionConfig()
	cfg.Kind = types.CompressionS2
	e := newTestEngine(t, cfg)

	// S2 块头：声明 32 GiB 解压输出
	bomb := varint.ToUvarint(32 << 30)
	data := []byte{byte(types.CompressionS2)}
	data = append(data, varint.ToUvarint(1)...)
	data = append(data, varint.ToUvarint(uint64(len(bomb)))...)
	data = append(data, bomb...)

	_, err := e.Decompress(data)
	assert.ErrorIs(t, err, types.ErrDecompressionFailed)
}
