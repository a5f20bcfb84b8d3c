package wire

import (
	"github.com/dep2p/go-gossipnet/pkg/types"
)

// ============================================================================
//                              Flags - 标志字节
// ============================================================================

const (
	// flagCompressed bit0: 载荷已压缩
	flagCompressed uint8 = 1 << 0

	// flagEncrypted bit1: 载荷已加密
	flagEncrypted uint8 = 1 << 1

	// suiteShift 套件编号在标志字节中的位移
	suiteShift = 2

	// suiteMask bits2-4: 加密套件编号
	suiteMask uint8 = 0x07 << suiteShift

	// reservedMask bits5-7: 保留位，必须为零
	reservedMask uint8 = 0xE0
)

// Flags 信封标志字节
type Flags uint8

// NewFlags 构造标志字节
func NewFlags(compressed, encrypted bool, suite types.CipherSuite) Flags {
	var f uint8
	if compressed {
		f |= flagCompressed
	}
	if encrypted {
		f |= flagEncrypted
		f |= (uint8(suite) << suiteShift) & suiteMask
	}
	return Flags(f)
}

// Compressed 返回载荷是否已压缩
func (f Flags) Compressed() bool {
	return uint8(f)&flagCompressed != 0
}

// Encrypted 返回载荷是否已加密
func (f Flags) Encrypted() bool {
	return uint8(f)&flagEncrypted != 0
}

// Suite 返回加密套件编号
func (f Flags) Suite() types.CipherSuite {
	return types.CipherSuite((uint8(f) & suiteMask) >> suiteShift)
}

// valid 返回保留位是否全零
func (f Flags) valid() bool {
	return uint8(f)&reservedMask == 0
}

// ============================================================================
//                              Envelope - 信封
// ============================================================================

// Envelope 解码后的信封
type Envelope struct {
	// Label 集群/租户标签
	Label types.Label

	// Flags 标志字节
	Flags Flags

	// Payload 载荷（仍处于压缩/加密状态，由管线进一步处理）
	Payload []byte
}
