package config

import (
	"errors"
	"fmt"

	"github.com/dep2p/go-gossipnet/pkg/types"
)

// 配置校验错误
var (
	// ErrInvalidBindAddr 无效的监听地址
	ErrInvalidBindAddr = errors.New("invalid bind address")

	// ErrInvalidPacketSize 无效的数据报大小配置
	ErrInvalidPacketSize = errors.New("max packet size must be positive")

	// ErrPacketBufferTooSmall 接收缓冲区小于数据报上限
	ErrPacketBufferTooSmall = errors.New("packet buffer size must be >= max packet size")

	// ErrKeyRequiredForSuite 套件已选择但未配置密钥
	ErrKeyRequiredForSuite = errors.New("cipher suite selected but no keys configured")

	// ErrKeySuiteMismatch 主密钥长度与套件不匹配
	ErrKeySuiteMismatch = errors.New("primary key length does not match cipher suite")
)

// Validate 校验配置的合法性
//
// 在传输层启动之前调用；返回第一个发现的错误。
func (c *Config) Validate() error {
	if c.BindAddr == "" {
		return ErrInvalidBindAddr
	}
	if len(c.Label) > types.MaxLabelLength {
		return fmt.Errorf("%w: %d bytes", types.ErrLabelTooLong, len(c.Label))
	}

	if err := c.Transport.Validate(); err != nil {
		return fmt.Errorf("transport config: %w", err)
	}
	if err := c.Security.Validate(); err != nil {
		return fmt.Errorf("security config: %w", err)
	}
	if err := c.Compression.Validate(); err != nil {
		return fmt.Errorf("compression config: %w", err)
	}
	if err := c.Resolver.Validate(); err != nil {
		return fmt.Errorf("resolver config: %w", err)
	}
	return nil
}

// Validate 校验连接管理配置
func (c *TransportConfig) Validate() error {
	if c.MaxPacketSize <= 0 {
		return ErrInvalidPacketSize
	}
	if c.PacketBufferSize < c.MaxPacketSize {
		return ErrPacketBufferTooSmall
	}
	if c.DialTimeout <= 0 {
		return errors.New("dial timeout must be positive")
	}
	if c.ConnIdleTimeout <= 0 {
		return errors.New("conn idle timeout must be positive")
	}
	if c.PerPeerInFlight <= 0 {
		return errors.New("per-peer in-flight limit must be positive")
	}
	if c.MaxPooledPerPeer <= 0 {
		return errors.New("max pooled connections per peer must be positive")
	}
	return nil
}

// Validate 校验加密配置
func (c *SecurityConfig) Validate() error {
	if !c.CipherSuite.IsValid() {
		return fmt.Errorf("%w: %d", types.ErrUnknownCipherSuite, c.CipherSuite)
	}
	if c.CipherSuite == types.CipherNone {
		return nil
	}
	if len(c.Keys) == 0 {
		return ErrKeyRequiredForSuite
	}
	for i, key := range c.Keys {
		if !key.IsValid() {
			return fmt.Errorf("key %d: %w", i, types.ErrInvalidKeyLength)
		}
	}
	// 主密钥长度必须与套件一致；其余密钥允许不同长度（历史轮换遗留）
	if len(c.Keys[0]) != c.CipherSuite.KeyLength() {
		return fmt.Errorf("%w: suite %s requires %d bytes, got %d",
			ErrKeySuiteMismatch, c.CipherSuite, c.CipherSuite.KeyLength(), len(c.Keys[0]))
	}
	return nil
}

// Validate 校验压缩配置
func (c *CompressionConfig) Validate() error {
	if !c.Kind.IsValid() {
		return fmt.Errorf("%w: %d", types.ErrUnknownCompressionKind, c.Kind)
	}
	if c.Threshold < 0 {
		return errors.New("compression threshold must be non-negative")
	}
	if c.ChunkSize < 0 {
		return errors.New("compression chunk size must be non-negative")
	}
	if c.Concurrency < 0 {
		return errors.New("compression concurrency must be non-negative")
	}
	return nil
}

// Validate 校验地址解析配置
func (c *ResolverConfig) Validate() error {
	if c.CacheTTL <= 0 {
		return errors.New("resolver cache TTL must be positive")
	}
	if c.CacheSize <= 0 {
		return errors.New("resolver cache size must be positive")
	}
	if c.Timeout <= 0 {
		return errors.New("resolver timeout must be positive")
	}
	return nil
}
