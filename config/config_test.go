package config

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-gossipnet/pkg/types"
)

// ============================================================================
// 默认配置与预设测试
// ============================================================================

// TestNewConfig_Defaults 测试默认配置通过校验
func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "0.0.0.0", cfg.BindAddr)
	assert.Equal(t, uint16(7946), cfg.BindPort)
	assert.Equal(t, 1400, cfg.Transport.MaxPacketSize)
	assert.Equal(t, types.CipherNone, cfg.Security.CipherSuite)
	assert.False(t, cfg.Security.EncryptionEnabled())
	assert.False(t, cfg.Compression.Enabled())
}

// TestPresets 测试预设配置全部通过校验
func TestPresets(t *testing.T) {
	for name, cfg := range map[string]*Config{
		"lan":   NewLANConfig(),
		"wan":   NewWANConfig(),
		"local": NewLocalConfig(),
	} {
		t.Run(name, func(t *testing.T) {
			assert.NoError(t, cfg.Validate())
		})
	}

	// WAN 预设默认启用压缩并收紧数据报大小
	wan := NewWANConfig()
	assert.True(t, wan.Compression.Enabled())
	assert.Less(t, wan.Transport.MaxPacketSize, NewLANConfig().Transport.MaxPacketSize)

	// 本机预设绑定回环并使用随机端口
	local := NewLocalConfig()
	assert.Equal(t, "127.0.0.1", local.BindAddr)
	assert.Equal(t, uint16(0), local.BindPort)
}

// ============================================================================
// 校验测试
// ============================================================================

// TestValidate_Errors 测试非法配置被拒绝
func TestValidate_Errors(t *testing.T) {
	key := make(types.SecretKey, 32)

	cases := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"空监听地址", func(c *Config) { c.BindAddr = "" }, ErrInvalidBindAddr},
		{"超长标签", func(c *Config) { c.Label = string(make([]byte, 256)) }, types.ErrLabelTooLong},
		{"非正数据报上限", func(c *Config) { c.Transport.MaxPacketSize = 0 }, ErrInvalidPacketSize},
		{"缓冲区过小", func(c *Config) { c.Transport.PacketBufferSize = 100 }, ErrPacketBufferTooSmall},
		{"套件无密钥", func(c *Config) { c.Security.CipherSuite = types.CipherAES256GCM }, ErrKeyRequiredForSuite},
		{"密钥套件不匹配", func(c *Config) {
			c.Security.CipherSuite = types.CipherAES128GCM
			c.Security.Keys = []types.SecretKey{key}
		}, ErrKeySuiteMismatch},
		{"未知压缩算法", func(c *Config) { c.Compression.Kind = types.CompressionKind(9) }, types.ErrUnknownCompressionKind},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := NewConfig()
			tc.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), tc.want)
		})
	}
}

// TestValidate_EncryptionEnabled 测试合法加密配置
func TestValidate_EncryptionEnabled(t *testing.T) {
	cfg := NewConfig()
	cfg.Security.CipherSuite = types.CipherAES256GCM
	cfg.Security.Keys = []types.SecretKey{make(types.SecretKey, 32)}
	require.NoError(t, cfg.Validate())
	assert.True(t, cfg.Security.EncryptionEnabled())

	// 次级密钥允许与套件不同的长度
	cfg.Security.Keys = append(cfg.Security.Keys, make(types.SecretKey, 16))
	assert.NoError(t, cfg.Validate())
}

// ============================================================================
// JSON 序列化测试
// ============================================================================

// TestFromJSON 测试从 JSON 加载配置
func TestFromJSON(t *testing.T) {
	data := []byte(`{
		"bind_addr": "10.0.0.1",
		"bind_port": 9000,
		"label": "prod",
		"transport": {
			"max_packet_size": 1200,
			"dial_timeout": "5s"
		},
		"compression": {
			"kind": 1,
			"threshold": 2048
		}
	}`)

	cfg, err := FromJSON(data)
	require.NoError(t, err)

	assert.Equal(t, "10.0.0.1", cfg.BindAddr)
	assert.Equal(t, uint16(9000), cfg.BindPort)
	assert.Equal(t, "prod", cfg.Label)
	assert.Equal(t, 1200, cfg.Transport.MaxPacketSize)
	assert.Equal(t, 5*time.Second, cfg.Transport.DialTimeout.Duration())
	assert.Equal(t, types.CompressionZstd, cfg.Compression.Kind)
	assert.Equal(t, 2048, cfg.Compression.Threshold)

	// 未出现的字段保持默认值
	assert.Equal(t, 65535, cfg.Transport.PacketBufferSize)
}

// TestFromJSON_Invalid 测试非法 JSON 配置被拒绝
func TestFromJSON_Invalid(t *testing.T) {
	_, err := FromJSON([]byte(`{not json`))
	assert.Error(t, err)

	// 结构合法但校验失败
	_, err = FromJSON([]byte(`{"transport": {"max_packet_size": -1}}`))
	assert.ErrorIs(t, err, ErrInvalidPacketSize)
}

// TestConfig_JSONRoundTrip 测试配置序列化往返（含密钥 base64）
func TestConfig_JSONRoundTrip(t *testing.T) {
	cfg := NewWANConfig()
	cfg.Label = "cluster-a"
	cfg.Security.CipherSuite = types.CipherAES256GCM
	key := make(types.SecretKey, 32)
	for i := range key {
		key[i] = byte(i)
	}
	cfg.Security.Keys = []types.SecretKey{key}

	data, err := cfg.ToJSON()
	require.NoError(t, err)

	got, err := FromJSON(data)
	require.NoError(t, err)
	assert.Equal(t, cfg.Label, got.Label)
	assert.Equal(t, cfg.Security.CipherSuite, got.Security.CipherSuite)
	require.Len(t, got.Security.Keys, 1)
	assert.True(t, got.Security.Keys[0].Equal(key))
	assert.Equal(t, cfg.Transport.DialTimeout, got.Transport.DialTimeout)
}

// TestDuration_JSON 测试 Duration 两种 JSON 格式
func TestDuration_JSON(t *testing.T) {
	var d Duration

	require.NoError(t, json.Unmarshal([]byte(`"1m30s"`), &d))
	assert.Equal(t, 90*time.Second, d.Duration())

	require.NoError(t, json.Unmarshal([]byte(`1000000000`), &d))
	assert.Equal(t, time.Second, d.Duration())

	assert.Error(t, json.Unmarshal([]byte(`"not-a-duration"`), &d))

	out, err := json.Marshal(Duration(90 * time.Second))
	require.NoError(t, err)
	assert.Equal(t, `"1m30s"`, string(out))
}
