package types

import (
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// ============================================================================
//                              SecretKey - 对称密钥
// ============================================================================

// SecretKey 对称加密密钥
//
// 长度必须是 16、24 或 32 字节，分别对应 AES-128、AES-192、AES-256；
// 32 字节密钥同样可用于 ChaCha20-Poly1305 套件。
type SecretKey []byte

// NewSecretKey 构造密钥并校验长度
func NewSecretKey(b []byte) (SecretKey, error) {
	switch len(b) {
	case 16, 24, 32:
	default:
		return nil, fmt.Errorf("%w: got %d bytes", ErrInvalidKeyLength, len(b))
	}
	k := make(SecretKey, len(b))
	copy(k, b)
	return k, nil
}

// Equal 恒定时间比较两个密钥
func (k SecretKey) Equal(other SecretKey) bool {
	if len(k) != len(other) {
		return false
	}
	return subtle.ConstantTimeCompare(k, other) == 1
}

// IsValid 返回密钥长度是否合法
func (k SecretKey) IsValid() bool {
	switch len(k) {
	case 16, 24, 32:
		return true
	default:
		return false
	}
}

// String 返回脱敏表示，避免密钥泄露到日志
func (k SecretKey) String() string {
	return fmt.Sprintf("SecretKey(%d bytes)", len(k))
}

// MarshalJSON 序列化为 base64 字符串
func (k SecretKey) MarshalJSON() ([]byte, error) {
	return json.Marshal(base64.StdEncoding.EncodeToString(k))
}

// UnmarshalJSON 从 base64 字符串反序列化
func (k *SecretKey) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return fmt.Errorf("invalid base64 secret key: %w", err)
	}
	key, err := NewSecretKey(raw)
	if err != nil {
		return err
	}
	*k = key
	return nil
}
