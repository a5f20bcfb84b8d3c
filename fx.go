package gossipnet

import (
	"fmt"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/dep2p/go-gossipnet/config"
	"github.com/dep2p/go-gossipnet/internal/core/compress"
	"github.com/dep2p/go-gossipnet/internal/core/connmgr"
	"github.com/dep2p/go-gossipnet/internal/core/resolver"
	"github.com/dep2p/go-gossipnet/internal/core/runtime/stdnet"
	"github.com/dep2p/go-gossipnet/internal/core/security"
	"github.com/dep2p/go-gossipnet/internal/core/security/tlswrap"
	pkgif "github.com/dep2p/go-gossipnet/pkg/interfaces"
	"github.com/dep2p/go-gossipnet/pkg/types"
)

// buildFxApp 构建 Fx 应用
//
// 组装传输层内部组件，按依赖顺序：
//
//	Runtime → NameResolver → AddressResolver
//	Keyring → Security Engine ┐
//	Compression Engine        ┼→ Pipeline → Manager
//	StreamSecurity            ┘
func buildFxApp(cfg *config.Config, o *options, t *Transport) (*fx.App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	modules := []fx.Option{
		// 配置注入
		fx.Supply(cfg),

		// 组件构造器
		fx.Provide(
			provideRuntime(o),
			provideNameResolver(o),
			provideAddressResolver,
			provideSecurityEngine,
			provideCompressionEngine,
			provideStreamSecurity(o),
			providePipeline,
			provideManager,
		),
	}

	// 用户扩展（Fx Options）
	if len(o.userFxOptions) > 0 {
		modules = append(modules, o.userFxOptions...)
	}

	// Transport 组件注入
	modules = append(modules, fx.Invoke(injectTransportComponents(t)))

	// 禁用 Fx 日志输出（避免干扰用户日志）
	modules = append(modules,
		fx.WithLogger(func() fxevent.Logger {
			return &fxevent.ZapLogger{Logger: zap.NewNop()}
		}),
		fx.NopLogger,
	)

	app := fx.New(modules...)
	return app, nil
}

// ════════════════════════════════════════════════════════════════════════════
// 组件构造器
// ════════════════════════════════════════════════════════════════════════════

// provideRuntime 提供执行环境
func provideRuntime(o *options) func() pkgif.Runtime {
	return func() pkgif.Runtime {
		if o.runtime != nil {
			return o.runtime
		}
		return stdnet.New()
	}
}

// provideNameResolver 提供名称解析后端
//
// 优先级: 用户注入 > 配置的自定义 DNS 服务器 > 系统解析器。
func provideNameResolver(o *options) func(cfg *config.Config) pkgif.NameResolver {
	return func(cfg *config.Config) pkgif.NameResolver {
		if o.nameResolver != nil {
			return o.nameResolver
		}
		if ns := cfg.Resolver.Nameserver; ns != "" {
			return resolver.NewDNSClient(ns, cfg.Resolver.Timeout.Duration())
		}
		return resolver.NewSystemResolver()
	}
}

// provideAddressResolver 提供带 TTL 缓存的地址解析器
func provideAddressResolver(cfg *config.Config, backend pkgif.NameResolver) pkgif.AddressResolver {
	return resolver.New(cfg.Resolver, backend)
}

// provideSecurityEngine 提供加密引擎
//
// 未启用加密时返回 nil，管线随之退化为明文路径。
func provideSecurityEngine(cfg *config.Config) (*security.Engine, error) {
	if !cfg.Security.EncryptionEnabled() {
		return nil, nil
	}
	keyring, err := security.NewKeyring(cfg.Security.Keys[0], cfg.Security.Keys[1:]...)
	if err != nil {
		return nil, err
	}
	return security.NewEngine(cfg.Security.CipherSuite, keyring)
}

// provideCompressionEngine 提供压缩引擎
func provideCompressionEngine(cfg *config.Config) (*compress.Engine, error) {
	return compress.NewEngine(cfg.Compression)
}

// provideStreamSecurity 提供流路径 TLS 包装器
func provideStreamSecurity(o *options) func(cfg *config.Config) pkgif.StreamSecurity {
	return func(cfg *config.Config) pkgif.StreamSecurity {
		if !cfg.Security.EnableTLS {
			return nil
		}
		return tlswrap.New(o.tlsClientConfig, o.tlsServerConfig)
	}
}

// providePipeline 提供载荷处理管线
func providePipeline(cfg *config.Config, sec *security.Engine, comp *compress.Engine) (*connmgr.Pipeline, error) {
	label, err := types.NewLabel([]byte(cfg.Label))
	if err != nil {
		return nil, err
	}
	return connmgr.NewPipeline(connmgr.PipelineOptions{
		Label:                 label,
		Security:              sec,
		Compression:           comp,
		VerifyIncoming:        cfg.Security.VerifyIncoming,
		VerifyOutgoing:        cfg.Security.VerifyOutgoing,
		SkipInboundLabelCheck: cfg.Security.SkipInboundLabelCheck,
	}), nil
}

// provideManager 提供连接管理器
func provideManager(
	cfg *config.Config,
	rt pkgif.Runtime,
	res pkgif.AddressResolver,
	pipeline *connmgr.Pipeline,
	streamSec pkgif.StreamSecurity,
) *connmgr.Manager {
	return connmgr.New(connmgr.Options{
		Config:         cfg,
		Runtime:        rt,
		Resolver:       res,
		Pipeline:       pipeline,
		StreamSecurity: streamSec,
	})
}

// ════════════════════════════════════════════════════════════════════════════
// 组件注入
// ════════════════════════════════════════════════════════════════════════════

// transportInjectParams Transport 组件注入参数
type transportInjectParams struct {
	fx.In

	Manager  *connmgr.Manager
	Security *security.Engine
}

// injectTransportComponents 创建 Transport 组件注入函数
func injectTransportComponents(t *Transport) interface{} {
	return func(params transportInjectParams) {
		t.mgr = params.Manager
		t.sec = params.Security
	}
}
