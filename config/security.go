package config

import (
	"github.com/dep2p/go-gossipnet/pkg/types"
)

// SecurityConfig 加密配置
//
// 配置信封的认证加密与标签校验行为：
//   - CipherSuite: 出站加密使用的套件
//   - Keys: 密钥环（第一个为主密钥，其余仅用于解密，支持轮换）
//   - VerifyIncoming/VerifyOutgoing: 渐进式启用加密时的过渡开关
type SecurityConfig struct {
	// CipherSuite 加密套件
	//
	// types.CipherNone 表示禁用加密。
	CipherSuite types.CipherSuite `json:"cipher_suite"`

	// Keys 密钥环初始密钥（base64 编码）
	//
	// 第一个密钥为主密钥（用于加密）；全部密钥都可用于解密，
	// 直到被显式移除，使轮换期间的在途消息不丢失。
	Keys []types.SecretKey `json:"keys,omitempty"`

	// VerifyIncoming 要求入站单元必须加密
	//
	// 关闭后允许接收明文信封（集群渐进式启用加密时的过渡状态）。
	VerifyIncoming bool `json:"verify_incoming"`

	// VerifyOutgoing 出站单元必须加密
	VerifyOutgoing bool `json:"verify_outgoing"`

	// SkipInboundLabelCheck 跳过入站标签校验
	//
	// 仅用于标签迁移过渡期。
	SkipInboundLabelCheck bool `json:"skip_inbound_label_check,omitempty"`

	// EnableTLS 对流路径启用 TLS 包装
	EnableTLS bool `json:"enable_tls"`
}

// NewSecurityConfig 创建默认加密配置
//
// 默认禁用加密；配置了密钥后默认双向强制加密。
func NewSecurityConfig() SecurityConfig {
	return SecurityConfig{
		CipherSuite:    types.CipherNone,
		VerifyIncoming: true,
		VerifyOutgoing: true,
	}
}

// EncryptionEnabled 返回是否启用加密
func (c *SecurityConfig) EncryptionEnabled() bool {
	return c.CipherSuite != types.CipherNone && len(c.Keys) > 0
}
