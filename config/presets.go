package config

import (
	"time"

	"github.com/dep2p/go-gossipnet/pkg/types"
)

// ============================================================================
//                              预设配置
// ============================================================================

// NewLANConfig 创建局域网预设配置
//
// 等同于 NewConfig：默认参数以局域网环境为基准。
func NewLANConfig() *Config {
	return NewConfig()
}

// NewWANConfig 创建广域网预设配置
//
// 相对局域网放宽超时、收紧数据报大小，并默认启用压缩
// 以降低跨地域带宽消耗。
func NewWANConfig() *Config {
	cfg := NewConfig()
	cfg.Transport.MaxPacketSize = 1350 // 跨广域网路径的保守 MTU 余量
	cfg.Transport.DialTimeout = Duration(30 * time.Second)
	cfg.Transport.ConnIdleTimeout = Duration(5 * time.Minute)
	cfg.Transport.WriteTimeout = Duration(30 * time.Second)
	cfg.Compression.Kind = types.CompressionZstd
	cfg.Resolver.CacheTTL = Duration(5 * time.Minute)
	return cfg
}

// NewLocalConfig 创建本机测试预设配置
//
// 缩短所有超时，便于快速的本地回环测试。
func NewLocalConfig() *Config {
	cfg := NewConfig()
	cfg.BindAddr = "127.0.0.1"
	cfg.BindPort = 0
	cfg.Transport.DialTimeout = Duration(2 * time.Second)
	cfg.Transport.ConnIdleTimeout = Duration(15 * time.Second)
	cfg.Transport.WriteTimeout = Duration(2 * time.Second)
	cfg.Resolver.CacheTTL = Duration(5 * time.Second)
	return cfg
}
