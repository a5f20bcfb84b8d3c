// Package gossipnet 提供 gossip 成员协议的网络传输层
//
// GossipNet 为集群成员层（SWIM 类协议）提供两条发送路径：
//
//   - 数据报路径（UDP）：尽力而为、低延迟，承载探测与小块 gossip；
//     编码后超过配置上限的消息在任何 I/O 之前被拒绝
//   - 流路径（TCP）：可靠、保序，承载批量状态同步；
//     连接按对端池化，空闲超时内可复用
//
// 两条路径共用同一个线上信封格式：标签前缀（多租户隔离）、
// 压缩/加密标志、CRC 校验和、载荷。出站管线为
// 压缩 → 加密 → 编码，入站精确逆序，且校验和与标签校验
// 先于任何解密/解压。
//
// # 快速开始
//
//	import (
//	    "github.com/dep2p/go-gossipnet"
//	    "github.com/dep2p/go-gossipnet/config"
//	)
//
//	cfg := config.NewLANConfig()
//	cfg.BindPort = 7946
//	cfg.Label = "prod-cluster"
//
//	t, err := gossipnet.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	t.SetPacketHandler(func(from netip.AddrPort, msg []byte) {
//	    // 处理探测/gossip 消息
//	})
//	t.SetStreamHandler(func(from netip.AddrPort, msg []byte) {
//	    // 处理状态同步消息
//	})
//	if err := t.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer t.Shutdown()
//
//	dest, _ := types.ParsePeerAddress("10.0.0.2:7946")
//	_ = t.SendPacket(ctx, dest, []byte("ping"))
//
// # 加密与密钥轮换
//
// 配置密钥环后所有出站信封使用主密钥加密，入站解密依次尝试
// 环中全部密钥，轮换窗口期内新旧密钥加密的消息都可解开：
//
//	t.InstallKey(newKey)  // 全集群安装
//	t.UseKey(newKey)      // 全集群提升为主密钥
//	t.RemoveKey(oldKey)   // 全集群移除旧密钥
//
// # 对端地址
//
// 目的地址既可以是字面量 socket 地址，也可以是 DNS 域名；
// 域名在发送前解析，结果按配置的 TTL 缓存。
package gossipnet
