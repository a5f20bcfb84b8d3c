// Package main 提供 gossipnet 命令行入口
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/netip"
	"os"
	"os/signal"
	"syscall"
	"time"

	gossipnet "github.com/dep2p/go-gossipnet"
	"github.com/dep2p/go-gossipnet/pkg/lib/log"
	"github.com/dep2p/go-gossipnet/pkg/types"
)

var logger = log.Logger("gossipnet/cmd")

// version 构建版本（由 -ldflags 注入）
var version = "dev"

// ═══════════════════════════════════════════════════════════════════════════
// 命令行参数
// ═══════════════════════════════════════════════════════════════════════════
//
// 设计原则：
//
//   命令行参数：运行时覆盖 / 快速测试（「这次运行」想怎么跑）
//   JSON 配置文件：持久化配置 / 长期运行（「这个节点」的固定配置）
//
// ═══════════════════════════════════════════════════════════════════════════
var (
	// ─────────────────────────────────────────────────────────────────────
	// 运行时参数（快速指定）
	// ─────────────────────────────────────────────────────────────────────
	configFile = flag.String("config", "", "配置文件路径（JSON）")
	preset     = flag.String("preset", "lan", "预设配置 (lan/wan/local)")
	bindAddr   = flag.String("bind", "", "监听地址（覆盖配置文件）")
	bindPort   = flag.Int("port", -1, "监听端口（0 = 随机端口，-1 = 使用配置值）")
	label      = flag.String("label", "", "集群标签（覆盖配置文件）")

	// ─────────────────────────────────────────────────────────────────────
	// 安全参数
	// ─────────────────────────────────────────────────────────────────────
	secretKey = flag.String("key", "", "共享密钥（base64，长度决定 AES 变体）")
	suite     = flag.String("suite", "", "加密套件 (aes128/aes192/aes256/chacha20)")

	// ─────────────────────────────────────────────────────────────────────
	// 探测参数
	// ─────────────────────────────────────────────────────────────────────
	peer     = flag.String("peer", "", "对端地址（host:port），周期性发送探测消息")
	interval = flag.Duration("interval", 3*time.Second, "探测消息发送间隔")

	// ─────────────────────────────────────────────────────────────────────
	// 日志参数
	// ─────────────────────────────────────────────────────────────────────
	logFile  = flag.String("log", "", "日志文件路径")
	logLevel = flag.String("log-level", "info", "日志级别 (debug/info/warn/error)")

	// ─────────────────────────────────────────────────────────────────────
	// 信息显示
	// ─────────────────────────────────────────────────────────────────────
	showVersion = flag.Bool("version", false, "显示版本信息")
	showHelp    = flag.Bool("help", false, "显示帮助信息")
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	flag.Parse()

	if *showVersion {
		fmt.Printf("gossipnet %s\n", version)
		return nil
	}
	if *showHelp {
		printHelp()
		return nil
	}

	// 构建配置：预设 → 配置文件 → 环境变量 → 命令行参数
	cfg, err := buildConfig()
	if err != nil {
		return fmt.Errorf("配置错误: %w", err)
	}

	// 构建选项
	opts, err := buildOptions()
	if err != nil {
		return fmt.Errorf("选项错误: %w", err)
	}

	// 创建上下文并捕获中断信号
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM)

	// 启动传输层
	tr, err := gossipnet.New(cfg, opts...)
	if err != nil {
		return fmt.Errorf("创建传输层失败: %w", err)
	}
	tr.SetPacketHandler(func(from netip.AddrPort, msg []byte) {
		fmt.Printf("[数据报] %s: %s\n", from, msg)
	})
	tr.SetStreamHandler(func(from netip.AddrPort, msg []byte) {
		fmt.Printf("[流] %s: %d 字节\n", from, len(msg))
	})
	if err := tr.Start(ctx); err != nil {
		return fmt.Errorf("启动传输层失败: %w", err)
	}
	defer func() { _ = tr.Shutdown() }()

	fmt.Printf("gossipnet %s 已启动\n", version)
	fmt.Printf("  数据报地址: %s\n", tr.LocalPacketAddr())
	fmt.Printf("  流地址:     %s\n", tr.LocalStreamAddr())
	fmt.Printf("  集群标签:   %q\n", cfg.Label)
	fmt.Printf("  加密:       %s\n", cfg.Security.CipherSuite)
	fmt.Printf("  压缩:       %s\n", cfg.Compression.Kind)

	// 周期性探测对端
	if *peer != "" {
		dest, err := types.ParsePeerAddress(*peer)
		if err != nil {
			return fmt.Errorf("对端地址非法: %w", err)
		}
		go probeLoop(ctx, tr, dest)
	}

	// 等待中断信号
	select {
	case <-signalCh:
		fmt.Println("\n收到中断信号，准备关闭...")
	case <-ctx.Done():
	}
	return nil
}

// probeLoop 周期性向对端发送探测数据报
func probeLoop(ctx context.Context, tr *gossipnet.Transport, dest types.PeerAddress) {
	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	seq := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			seq++
			msg := fmt.Sprintf("probe #%d from %s", seq, tr.LocalPacketAddr())
			if err := tr.SendPacket(ctx, dest, []byte(msg)); err != nil {
				logger.Warn("探测发送失败", "dest", dest, "err", err)
				continue
			}
			fmt.Printf("[发送] %s <- %q\n", dest, msg)
		}
	}
}

// buildOptions 从命令行参数构建传输层选项
func buildOptions() ([]gossipnet.Option, error) {
	var opts []gossipnet.Option

	if *logFile != "" {
		opts = append(opts, gossipnet.WithLogFile(*logFile))
	}

	var level slog.Level
	switch *logLevel {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return nil, fmt.Errorf("未知日志级别: %s", *logLevel)
	}
	opts = append(opts, gossipnet.WithLogLevel(level))

	return opts, nil
}

func printHelp() {
	fmt.Println("gossipnet - 成员协议传输层守护进程")
	fmt.Println()
	fmt.Println("用法:")
	fmt.Println("  gossipnet [选项]")
	fmt.Println()
	fmt.Println("示例:")
	fmt.Println("  # 启动一个随机端口的本机节点")
	fmt.Println("  gossipnet -preset local -port 0")
	fmt.Println()
	fmt.Println("  # 两个节点互相探测")
	fmt.Println("  gossipnet -preset local -port 7946")
	fmt.Println("  gossipnet -preset local -port 7947 -peer 127.0.0.1:7946")
	fmt.Println()
	fmt.Println("  # 带加密的 WAN 节点")
	fmt.Println("  gossipnet -preset wan -key $(head -c 32 /dev/urandom | base64) -suite aes256")
	fmt.Println()
	fmt.Println("选项:")
	flag.PrintDefaults()
}
