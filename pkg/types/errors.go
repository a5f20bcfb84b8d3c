// Package types 定义 GossipNet 的基础类型
//
// 本文件定义所有公共错误类型。
package types

import "errors"

// ============================================================================
//                              信封编解码错误
// ============================================================================

var (
	// ErrMalformedEnvelope 信封格式错误
	//
	// 长度前缀与剩余字节不符、标签长度超限、或数据被截断。
	ErrMalformedEnvelope = errors.New("malformed envelope")

	// ErrUnsupportedEnvelope 不支持的信封
	//
	// 信封携带了未知的标志位。未知标志位不会被静默忽略，
	// 以强制上层进行显式的版本协商。
	ErrUnsupportedEnvelope = errors.New("unsupported envelope flags")

	// ErrChecksumMismatch 校验和不匹配
	ErrChecksumMismatch = errors.New("envelope checksum mismatch")

	// ErrLabelTooLong 标签超过最大长度
	ErrLabelTooLong = errors.New("label exceeds maximum length")

	// ErrLabelMismatch 标签与本地配置不符
	ErrLabelMismatch = errors.New("label mismatch")
)

// ============================================================================
//                              加密相关错误
// ============================================================================

var (
	// ErrDecryptionFailed 解密失败
	//
	// 密钥环中所有密钥都无法解开该密文。
	ErrDecryptionFailed = errors.New("decryption failed: no installed key could decrypt the message")

	// ErrInvalidKeyLength 密钥长度无效
	ErrInvalidKeyLength = errors.New("invalid key length: must be 16, 24 or 32 bytes")

	// ErrEmptyKeyring 密钥环为空
	ErrEmptyKeyring = errors.New("keyring is empty while encryption is enabled")

	// ErrKeyNotFound 密钥不在密钥环中
	ErrKeyNotFound = errors.New("secret key is not in the keyring")

	// ErrRemovePrimaryKey 不允许移除主密钥
	ErrRemovePrimaryKey = errors.New("removing the primary key is not allowed")

	// ErrUnknownCipherSuite 未知加密套件
	ErrUnknownCipherSuite = errors.New("unknown cipher suite")
)

// ============================================================================
//                              压缩相关错误
// ============================================================================

var (
	// ErrDecompressionFailed 解压失败
	ErrDecompressionFailed = errors.New("decompression failed")

	// ErrUnknownCompressionKind 未知压缩算法
	ErrUnknownCompressionKind = errors.New("unknown compression kind")
)

// ============================================================================
//                              连接与传输错误
// ============================================================================

var (
	// ErrMessageTooLarge 消息超过最大数据报大小
	//
	// 本层不做分片，超限的数据报在任何 I/O 发生之前被拒绝。
	ErrMessageTooLarge = errors.New("message exceeds maximum packet size")

	// ErrConnectionClosed 连接已关闭
	ErrConnectionClosed = errors.New("connection closed")

	// ErrTransportClosed 传输层已关闭
	ErrTransportClosed = errors.New("transport closed")

	// ErrHandshakeFailed 安全握手失败
	ErrHandshakeFailed = errors.New("handshake failed")

	// ErrTimeout 操作超时
	ErrTimeout = errors.New("operation timed out")
)

// ============================================================================
//                              地址解析错误
// ============================================================================

var (
	// ErrResolutionFailed 地址解析失败（未返回任何地址）
	ErrResolutionFailed = errors.New("address resolution returned no addresses")

	// ErrNameNotFound DNS 名称不存在
	ErrNameNotFound = errors.New("name not found")

	// ErrInvalidAddress 无效的对端地址
	ErrInvalidAddress = errors.New("invalid peer address")
)
