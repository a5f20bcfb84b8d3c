package gossipnet

import (
	"errors"

	"github.com/dep2p/go-gossipnet/pkg/types"
)

// 公共错误定义
//
// 传输层核心错误在 pkg/types 中定义，这里重新导出，
// 使调用方无需额外导入即可做 errors.Is 判断。
var (
	// ────────────────────────────────────────────────────────────────────────
	// 生命周期错误
	// ────────────────────────────────────────────────────────────────────────

	// ErrTransportClosed 传输层已关闭
	ErrTransportClosed = types.ErrTransportClosed

	// ErrConnectionClosed 连接已关闭（终态）
	ErrConnectionClosed = types.ErrConnectionClosed

	// ErrEncryptionDisabled 未配置加密时调用密钥轮换操作
	ErrEncryptionDisabled = errors.New("encryption is not enabled")

	// ────────────────────────────────────────────────────────────────────────
	// 发送路径错误
	// ────────────────────────────────────────────────────────────────────────

	// ErrMessageTooLarge 编码后的信封超过数据报大小上限
	ErrMessageTooLarge = types.ErrMessageTooLarge

	// ErrTimeout 拨号/读写超时
	ErrTimeout = types.ErrTimeout

	// ErrResolutionFailed 目的地址解析失败
	ErrResolutionFailed = types.ErrResolutionFailed

	// ────────────────────────────────────────────────────────────────────────
	// 信封错误
	// ────────────────────────────────────────────────────────────────────────

	// ErrMalformedEnvelope 信封结构损坏
	ErrMalformedEnvelope = types.ErrMalformedEnvelope

	// ErrChecksumMismatch 校验和不匹配
	ErrChecksumMismatch = types.ErrChecksumMismatch

	// ErrLabelMismatch 标签不匹配
	ErrLabelMismatch = types.ErrLabelMismatch

	// ErrDecryptionFailed 所有密钥都无法解密
	ErrDecryptionFailed = types.ErrDecryptionFailed
)
