// Package types 定义 GossipNet 的基础类型
//
// 本包包含传输层各组件共享的数据类型：
//   - PeerAddress: 对端地址（字面量 socket 地址或 DNS 域名）
//   - Label: 集群/租户标签，附加在每个信封之前
//   - SecretKey: 对称加密密钥（16/24/32 字节）
//   - CipherSuite: 加密套件枚举
//   - CompressionKind: 压缩算法枚举
//   - ConnState: 连接状态机状态
//
// 以及所有公共错误类型（见 errors.go）。
//
// 本包不依赖任何内部模块，处于依赖关系的最底层。
package types
