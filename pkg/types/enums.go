package types

// ============================================================================
//                              CipherSuite - 加密套件
// ============================================================================

// CipherSuite 加密套件
//
// 套件编号写入信封标志字节的 bits2-4，因此取值范围为 0-7。
type CipherSuite uint8

const (
	// CipherNone 不加密
	CipherNone CipherSuite = iota
	// CipherAES128GCM AES-128-GCM（16 字节密钥）
	CipherAES128GCM
	// CipherAES192GCM AES-192-GCM（24 字节密钥）
	CipherAES192GCM
	// CipherAES256GCM AES-256-GCM（32 字节密钥）
	CipherAES256GCM
	// CipherChaCha20Poly1305 ChaCha20-Poly1305（32 字节密钥）
	CipherChaCha20Poly1305

	// maxCipherSuite 套件编号上界（信封仅有 3 bit 可用）
	maxCipherSuite = 8
)

// String 返回加密套件的字符串表示
func (c CipherSuite) String() string {
	switch c {
	case CipherNone:
		return "none"
	case CipherAES128GCM:
		return "aes-128-gcm"
	case CipherAES192GCM:
		return "aes-192-gcm"
	case CipherAES256GCM:
		return "aes-256-gcm"
	case CipherChaCha20Poly1305:
		return "chacha20-poly1305"
	default:
		return "unknown"
	}
}

// KeyLength 返回套件要求的密钥长度（字节）
//
// CipherNone 和未知套件返回 0。
func (c CipherSuite) KeyLength() int {
	switch c {
	case CipherAES128GCM:
		return 16
	case CipherAES192GCM:
		return 24
	case CipherAES256GCM, CipherChaCha20Poly1305:
		return 32
	default:
		return 0
	}
}

// IsValid 返回套件编号是否已定义
func (c CipherSuite) IsValid() bool {
	return c <= CipherChaCha20Poly1305
}

// ============================================================================
//                              CompressionKind - 压缩算法
// ============================================================================

// CompressionKind 压缩算法
type CompressionKind uint8

const (
	// CompressionNone 不压缩
	CompressionNone CompressionKind = iota
	// CompressionZstd Zstandard 压缩
	CompressionZstd
	// CompressionS2 S2（Snappy 兼容格式的高速变体）压缩
	CompressionS2
)

// String 返回压缩算法的字符串表示
func (k CompressionKind) String() string {
	switch k {
	case CompressionNone:
		return "none"
	case CompressionZstd:
		return "zstd"
	case CompressionS2:
		return "s2"
	default:
		return "unknown"
	}
}

// IsValid 返回压缩算法是否已定义
func (k CompressionKind) IsValid() bool {
	return k <= CompressionS2
}

// ============================================================================
//                              ConnState - 连接状态
// ============================================================================

// ConnState 流连接状态机状态
//
// 状态迁移: Dialing → Established → Draining → Closed。
// Closed 是终态，后续操作返回 ErrConnectionClosed。
type ConnState int32

const (
	// ConnDialing 拨号中
	ConnDialing ConnState = iota
	// ConnEstablished 已建立，可读写
	ConnEstablished
	// ConnDraining 排空中（关闭前冲刷未完成的写）
	ConnDraining
	// ConnClosed 已关闭（终态）
	ConnClosed
)

// String 返回连接状态的字符串表示
func (s ConnState) String() string {
	switch s {
	case ConnDialing:
		return "dialing"
	case ConnEstablished:
		return "established"
	case ConnDraining:
		return "draining"
	case ConnClosed:
		return "closed"
	default:
		return "unknown"
	}
}
