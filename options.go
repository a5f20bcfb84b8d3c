package gossipnet

import (
	"crypto/tls"
	"fmt"
	"log/slog"
	"os"

	"go.uber.org/fx"

	"github.com/dep2p/go-gossipnet/pkg/interfaces"
	"github.com/dep2p/go-gossipnet/pkg/lib/log"
)

// Option 用户配置选项函数
type Option func(*options) error

// options 内部选项结构
type options struct {
	// 执行环境（测试中注入 mock 时钟/虚拟网络）
	runtime interfaces.Runtime

	// 名称解析后端（覆盖配置派生的默认后端）
	nameResolver interfaces.NameResolver

	// TLS 配置（流路径，仅在 Security.EnableTLS 时生效）
	tlsClientConfig *tls.Config
	tlsServerConfig *tls.Config

	// 日志配置
	logFile  string
	logLevel *slog.Level

	// 用户自定义 Fx 选项
	userFxOptions []fx.Option
}

// newOptions 创建默认选项
func newOptions() *options {
	return &options{}
}

// apply 应用选项中的进程级配置（日志输出）
func (o *options) apply() error {
	if o.logFile != "" {
		f, err := os.OpenFile(o.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		if o.logLevel != nil {
			log.SetOutputWithLevel(f, *o.logLevel)
		} else {
			log.SetOutput(f)
		}
		return nil
	}
	if o.logLevel != nil {
		log.SetLevel(*o.logLevel)
	}
	return nil
}

// ============================================================================
//                              执行环境选项
// ============================================================================

// WithRuntime 使用自定义执行环境
//
// 执行环境提供任务派生、时钟与 socket 能力。默认使用标准库实现
// （真实时钟 + net 包）；测试中可注入 mock 时钟驱动空闲回收与 TTL。
func WithRuntime(rt interfaces.Runtime) Option {
	return func(o *options) error {
		if rt == nil {
			return fmt.Errorf("执行环境不能为空")
		}
		o.runtime = rt
		return nil
	}
}

// ============================================================================
//                              解析选项
// ============================================================================

// WithNameResolver 使用自定义名称解析后端
//
// 覆盖配置派生的默认后端（配置了 Nameserver 时为直连 DNS 客户端，
// 否则为系统解析器）。TTL 缓存仍然生效。
func WithNameResolver(nr interfaces.NameResolver) Option {
	return func(o *options) error {
		if nr == nil {
			return fmt.Errorf("名称解析后端不能为空")
		}
		o.nameResolver = nr
		return nil
	}
}

// ============================================================================
//                              TLS 选项
// ============================================================================

// WithTLSConfig 设置流路径的 TLS 配置
//
// clientCfg 用于出站连接，serverCfg 用于入站连接；
// 仅在 Security.EnableTLS 开启时生效。握手内部完全委托给
// crypto/tls，证书校验策略由调用方在配置中决定。
func WithTLSConfig(clientCfg, serverCfg *tls.Config) Option {
	return func(o *options) error {
		o.tlsClientConfig = clientCfg
		o.tlsServerConfig = serverCfg
		return nil
	}
}

// ============================================================================
//                              日志选项
// ============================================================================

// WithLogFile 将日志输出重定向到指定文件
//
// 默认情况下结构化日志输出到 stderr。文件以追加模式打开，
// 多次运行会累积日志。
func WithLogFile(path string) Option {
	return func(o *options) error {
		if path == "" {
			return fmt.Errorf("日志文件路径不能为空")
		}
		o.logFile = path
		return nil
	}
}

// WithLogLevel 设置日志级别
func WithLogLevel(level slog.Level) Option {
	return func(o *options) error {
		o.logLevel = &level
		return nil
	}
}

// ============================================================================
//                              扩展选项
// ============================================================================

// WithFxOptions 追加用户自定义 Fx 选项
//
// 用于替换或装饰内部组件（fx.Decorate / fx.Replace）。
func WithFxOptions(opts ...fx.Option) Option {
	return func(o *options) error {
		o.userFxOptions = append(o.userFxOptions, opts...)
		return nil
	}
}
