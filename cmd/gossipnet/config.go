package main

import (
	"encoding/base64"
	"fmt"
	"os"
	"strconv"

	"github.com/dep2p/go-gossipnet/config"
	"github.com/dep2p/go-gossipnet/pkg/types"
)

// ============================================================================
//                              配置加载（CLI 专用）
// ============================================================================

// 环境变量名（均使用 GOSSIPNET_ 前缀）
//
// 环境变量优先级高于配置文件，但低于命令行参数。
const (
	envBindAddr  = "GOSSIPNET_BIND_ADDR"
	envBindPort  = "GOSSIPNET_BIND_PORT"
	envLabel     = "GOSSIPNET_LABEL"
	envSecretKey = "GOSSIPNET_SECRET_KEY"
)

// buildConfig 按优先级合并配置：预设 → 配置文件 → 环境变量 → 命令行参数
func buildConfig() (*config.Config, error) {
	// 1. 预设
	cfg, err := presetConfig(*preset)
	if err != nil {
		return nil, err
	}

	// 2. 配置文件（整体覆盖预设）
	if *configFile != "" {
		cfg, err = loadConfigFile(*configFile)
		if err != nil {
			return nil, fmt.Errorf("加载配置文件 %s: %w", *configFile, err)
		}
	}

	// 3. 环境变量
	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	// 4. 命令行参数
	if err := applyFlagOverrides(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// presetConfig 按名称返回预设配置
func presetConfig(name string) (*config.Config, error) {
	switch name {
	case "lan":
		return config.NewLANConfig(), nil
	case "wan":
		return config.NewWANConfig(), nil
	case "local":
		return config.NewLocalConfig(), nil
	default:
		return nil, fmt.Errorf("未知预设: %s（可选 lan/wan/local）", name)
	}
}

// loadConfigFile 从 JSON 文件加载配置
func loadConfigFile(path string) (*config.Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: 用户指定的配置文件路径是预期行为
	if err != nil {
		return nil, err
	}
	return config.FromJSON(data)
}

// applyEnvOverrides 应用环境变量覆盖配置
func applyEnvOverrides(cfg *config.Config) error {
	if v := os.Getenv(envBindAddr); v != "" {
		cfg.BindAddr = v
	}

	if v := os.Getenv(envBindPort); v != "" {
		port, err := strconv.ParseUint(v, 10, 16)
		if err != nil {
			return fmt.Errorf("%s 非法: %w", envBindPort, err)
		}
		cfg.BindPort = uint16(port)
	}

	if v := os.Getenv(envLabel); v != "" {
		cfg.Label = v
	}

	if v := os.Getenv(envSecretKey); v != "" {
		if err := installKeyFromBase64(cfg, v); err != nil {
			return fmt.Errorf("%s 非法: %w", envSecretKey, err)
		}
	}

	return nil
}

// applyFlagOverrides 应用命令行参数覆盖配置
func applyFlagOverrides(cfg *config.Config) error {
	if *bindAddr != "" {
		cfg.BindAddr = *bindAddr
	}
	if *bindPort >= 0 {
		if *bindPort > 65535 {
			return fmt.Errorf("端口超出范围: %d", *bindPort)
		}
		cfg.BindPort = uint16(*bindPort)
	}
	if *label != "" {
		cfg.Label = *label
	}

	if *secretKey != "" {
		if err := installKeyFromBase64(cfg, *secretKey); err != nil {
			return fmt.Errorf("-key 非法: %w", err)
		}
	}

	if *suite != "" {
		s, err := parseSuite(*suite)
		if err != nil {
			return err
		}
		cfg.Security.CipherSuite = s
	}

	return nil
}

// installKeyFromBase64 解码共享密钥并按长度推导默认套件
//
// 未显式指定 -suite 时，16/24/32 字节分别选择 AES-128/192/256-GCM。
func installKeyFromBase64(cfg *config.Config, encoded string) error {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return err
	}
	key, err := types.NewSecretKey(raw)
	if err != nil {
		return err
	}

	cfg.Security.Keys = append(cfg.Security.Keys, key)
	if cfg.Security.CipherSuite == types.CipherNone {
		switch len(key) {
		case 16:
			cfg.Security.CipherSuite = types.CipherAES128GCM
		case 24:
			cfg.Security.CipherSuite = types.CipherAES192GCM
		case 32:
			cfg.Security.CipherSuite = types.CipherAES256GCM
		}
	}
	return nil
}

// parseSuite 解析加密套件名称
func parseSuite(name string) (types.CipherSuite, error) {
	switch name {
	case "aes128":
		return types.CipherAES128GCM, nil
	case "aes192":
		return types.CipherAES192GCM, nil
	case "aes256":
		return types.CipherAES256GCM, nil
	case "chacha20":
		return types.CipherChaCha20Poly1305, nil
	default:
		return types.CipherNone, fmt.Errorf("未知加密套件: %s（可选 aes128/aes192/aes256/chacha20）", name)
	}
}
