package config

import "time"

// ResolverConfig 地址解析配置
type ResolverConfig struct {
	// CacheTTL DNS 解析结果缓存时间
	//
	// TTL 内复用缓存值，过期后重新查询。
	CacheTTL Duration `json:"cache_ttl"`

	// CacheSize 缓存条目数上限
	CacheSize int `json:"cache_size"`

	// Timeout 单次 DNS 查询超时
	Timeout Duration `json:"timeout"`

	// Nameserver 自定义 DNS 服务器地址（格式 "ip:port"）
	//
	// 为空时使用系统解析器。
	Nameserver string `json:"nameserver,omitempty"`

	// FallbackOnDialFailure 流路径拨号失败时按序尝试后续解析地址
	//
	// 默认关闭：数据报发送与流拨号都无条件使用第一个地址。
	FallbackOnDialFailure bool `json:"fallback_on_dial_failure"`
}

// NewResolverConfig 创建默认地址解析配置
func NewResolverConfig() ResolverConfig {
	return ResolverConfig{
		CacheTTL:  Duration(1 * time.Minute),
		CacheSize: 256,
		Timeout:   Duration(5 * time.Second),
	}
}
