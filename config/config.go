// Package config 提供统一的配置管理
//
// 本包采用混合配置模式：
//   - 主 Config 结构体嵌入所有子配置
//   - 每个子配置在独立文件中定义
//   - 支持从 JSON 加载和保存配置
//   - 支持预设配置（lan/wan/local）
//
// 使用示例：
//
//	// 创建默认配置
//	cfg := config.NewConfig()
//	cfg.Security.CipherSuite = types.CipherAES256GCM
//	cfg.Compression.Threshold = 2048
//
//	// 使用预设配置
//	cfg := config.NewWANConfig()
//
//	// 从 JSON 加载
//	cfg, err := config.FromJSON(data)
package config

import (
	"encoding/json"
	"fmt"
)

// Config 是 GossipNet 传输层的完整配置结构
//
// 该结构体嵌入了所有组件的子配置，提供统一的配置接口。
// 配置按照功能模块组织：
//   - Transport: 数据报/流路径参数（大小上限、超时、在途限制）
//   - Security: 加密套件、密钥环、标签校验开关
//   - Compression: 压缩算法、阈值、分块参数
//   - Resolver: DNS 解析与缓存
type Config struct {
	// BindAddr 监听地址（数据报 socket 与流监听器共用）
	BindAddr string `json:"bind_addr"`

	// BindPort 监听端口，0 表示由系统分配
	BindPort uint16 `json:"bind_port"`

	// Label 集群/租户标签
	//
	// 附加在每个信封之前；标签不匹配的入站单元被拒绝。
	// 空标签表示不启用多租户隔离。
	Label string `json:"label,omitempty"`

	// Transport 连接管理配置
	Transport TransportConfig `json:"transport"`

	// Security 加密配置
	Security SecurityConfig `json:"security"`

	// Compression 压缩配置
	Compression CompressionConfig `json:"compression"`

	// Resolver 地址解析配置
	Resolver ResolverConfig `json:"resolver"`
}

// NewConfig 创建默认配置
func NewConfig() *Config {
	return &Config{
		BindAddr:    "0.0.0.0",
		BindPort:    7946,
		Transport:   NewTransportConfig(),
		Security:    NewSecurityConfig(),
		Compression: NewCompressionConfig(),
		Resolver:    NewResolverConfig(),
	}
}

// FromJSON 从 JSON 数据加载配置
//
// 未出现的字段保持默认值。
func FromJSON(data []byte) (*Config, error) {
	cfg := NewConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ToJSON 序列化配置为 JSON
func (c *Config) ToJSON() ([]byte, error) {
	return json.MarshalIndent(c, "", "  ")
}
