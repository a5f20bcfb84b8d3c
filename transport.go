package gossipnet

import (
	"context"
	"net/netip"

	"go.uber.org/fx"

	"github.com/dep2p/go-gossipnet/config"
	"github.com/dep2p/go-gossipnet/internal/core/connmgr"
	"github.com/dep2p/go-gossipnet/internal/core/security"
	pkgif "github.com/dep2p/go-gossipnet/pkg/interfaces"
	"github.com/dep2p/go-gossipnet/pkg/lib/log"
	"github.com/dep2p/go-gossipnet/pkg/types"
)

var logger = log.Logger("gossipnet")

// Transport gossip 传输层门面
//
// 成员层交互的主入口：注册入站处理器、通过数据报/流路径发送消息、
// 轮换加密密钥、关闭。内部组件（信封编解码、加密、压缩、地址解析、
// 连接管理）通过 Fx 组装，不对外暴露。
type Transport struct {
	cfg *config.Config
	app *fx.App

	// mgr 连接管理器（socket 所有权在此）
	mgr *connmgr.Manager

	// sec 加密引擎，nil 表示未启用加密
	sec *security.Engine
}

// 确保实现 Transport 接口
var _ pkgif.Transport = (*Transport)(nil)

// New 创建传输层
//
// cfg 为 nil 时使用默认配置。组件在 New 中完成组装与配置校验，
// socket 绑定推迟到 Start。
func New(cfg *config.Config, opts ...Option) (*Transport, error) {
	if cfg == nil {
		cfg = config.NewConfig()
	}

	o := newOptions()
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	if err := o.apply(); err != nil {
		return nil, err
	}

	t := &Transport{cfg: cfg}
	app, err := buildFxApp(cfg, o, t)
	if err != nil {
		return nil, err
	}
	if err := app.Err(); err != nil {
		return nil, err
	}
	t.app = app
	return t, nil
}

// Start 创建并启动传输层（便捷入口）
func Start(ctx context.Context, cfg *config.Config, opts ...Option) (*Transport, error) {
	t, err := New(cfg, opts...)
	if err != nil {
		return nil, err
	}
	if err := t.Start(ctx); err != nil {
		return nil, err
	}
	return t, nil
}

// Start 绑定 socket 并启动接收循环
//
// 处理器必须在 Start 之前注册。无法绑定配置的地址/端口是致命错误。
func (t *Transport) Start(ctx context.Context) error {
	if err := t.mgr.Start(ctx); err != nil {
		return err
	}
	logger.Info("传输层已启动",
		"packetAddr", t.mgr.LocalPacketAddr().String(),
		"streamAddr", t.mgr.LocalStreamAddr().String(),
		"encrypted", t.sec != nil)
	return nil
}

// SendPacket 通过数据报路径发送消息（尽力而为）
func (t *Transport) SendPacket(ctx context.Context, dest types.PeerAddress, msg []byte) error {
	return t.mgr.SendPacket(ctx, dest, msg)
}

// SendReliable 通过流路径发送消息（可靠、保序）
func (t *Transport) SendReliable(ctx context.Context, dest types.PeerAddress, msg []byte) error {
	return t.mgr.SendReliable(ctx, dest, msg)
}

// SetPacketHandler 注册数据报路径处理器（必须在 Start 之前调用）
func (t *Transport) SetPacketHandler(h pkgif.Handler) {
	t.mgr.SetPacketHandler(h)
}

// SetStreamHandler 注册流路径处理器（必须在 Start 之前调用）
func (t *Transport) SetStreamHandler(h pkgif.Handler) {
	t.mgr.SetStreamHandler(h)
}

// LocalPacketAddr 返回数据报 socket 的本地地址
func (t *Transport) LocalPacketAddr() netip.AddrPort {
	return t.mgr.LocalPacketAddr()
}

// LocalStreamAddr 返回流监听器的本地地址
func (t *Transport) LocalStreamAddr() netip.AddrPort {
	return t.mgr.LocalStreamAddr()
}

// Config 返回传输层配置
func (t *Transport) Config() *config.Config {
	return t.cfg
}

// Shutdown 关闭传输层
//
// 幂等；并发进行中的发送观察到 ErrTransportClosed 而不是挂起。
func (t *Transport) Shutdown() error {
	return t.mgr.Shutdown()
}

// ============================================================================
//                              密钥轮换
// ============================================================================

// InstallKey 向密钥环安装新密钥
//
// 安装后本节点即可解密该密钥加密的消息。轮换流程的第一步：
// 先在全集群安装，再提升为主密钥。
func (t *Transport) InstallKey(key types.SecretKey) error {
	if t.sec == nil {
		return ErrEncryptionDisabled
	}
	return t.sec.Keyring().Insert(key)
}

// UseKey 把已安装的密钥提升为主密钥
//
// 此后出站消息使用该密钥加密。密钥必须已通过 InstallKey 安装。
func (t *Transport) UseKey(key types.SecretKey) error {
	if t.sec == nil {
		return ErrEncryptionDisabled
	}
	return t.sec.Keyring().UseKey(key)
}

// RemoveKey 从密钥环移除密钥
//
// 移除主密钥被拒绝；轮换流程的最后一步，在全集群切换完成后执行。
func (t *Transport) RemoveKey(key types.SecretKey) error {
	if t.sec == nil {
		return ErrEncryptionDisabled
	}
	return t.sec.Keyring().Remove(key)
}
