package config

import "time"

// TransportConfig 连接管理配置
//
// 控制数据报路径与流路径的资源边界：
//   - 数据报大小上限（硬上限，本层不分片）
//   - 拨号/空闲超时
//   - 每对端在途发送上限（防止广播时无界扇出）
type TransportConfig struct {
	// MaxPacketSize 最大数据报大小（字节）
	//
	// 编码后的信封超过该值时 SendPacket 直接拒绝，不做任何 I/O。
	// 默认 1400，避免以太网路径上的 IP 分片。
	MaxPacketSize int `json:"max_packet_size"`

	// PacketBufferSize 数据报接收缓冲区大小（字节）
	//
	// 必须不小于 MaxPacketSize。默认 65535（UDP 载荷上限）。
	PacketBufferSize int `json:"packet_buffer_size"`

	// DialTimeout 流连接拨号超时
	DialTimeout Duration `json:"dial_timeout"`

	// ConnIdleTimeout 池化连接空闲超时
	//
	// 超时未使用的池化连接被回收关闭。
	ConnIdleTimeout Duration `json:"conn_idle_timeout"`

	// WriteTimeout 单次流写入超时
	WriteTimeout Duration `json:"write_timeout"`

	// PerPeerInFlight 每对端并发拨号/写入上限
	PerPeerInFlight int `json:"per_peer_in_flight"`

	// MaxPooledPerPeer 每对端池化连接数上限
	MaxPooledPerPeer int `json:"max_pooled_per_peer"`
}

// NewTransportConfig 创建默认连接管理配置
func NewTransportConfig() TransportConfig {
	return TransportConfig{
		MaxPacketSize:    1400,
		PacketBufferSize: 65535,
		DialTimeout:      Duration(10 * time.Second),
		ConnIdleTimeout:  Duration(2 * time.Minute),
		WriteTimeout:     Duration(10 * time.Second),
		PerPeerInFlight:  4,
		MaxPooledPerPeer: 2,
	}
}
