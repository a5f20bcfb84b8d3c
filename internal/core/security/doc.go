// Package security 实现信封载荷的认证加密
//
// # 密钥环
//
// Keyring 持有一组对称密钥：恰好一个主密钥用于加密，
// 全部密钥都可用于解密，直到被显式移除。这使得集群可以
// 滚动轮换密钥而不丢失在途消息：
//
//  1. Insert 新密钥（此时仅用于解密）
//  2. 等新密钥传播到全部节点后 UseKey 提升为主密钥
//  3. 等旧密钥加密的消息排空后 Remove 旧密钥
//
// 密钥环在启用加密期间不变量为非空：移除最后一个密钥被拒绝。
//
// # 加密引擎
//
// Engine.Seal 使用主密钥加密，随机生成的 nonce 前置在密文中，
// 认证标签覆盖标签+标志（关联数据），头部被篡改同样会被检测到。
// Engine.Open 依次尝试密钥环中的每个密钥（主密钥最先），
// 全部失败后才返回 ErrDecryptionFailed——轮换窗口期内
// 旧密钥加密的消息仍可解开。
//
// Seal/Open 是纯函数：不会作为副作用修改密钥环。
//
// # 套件
//
// 支持的套件以小接口（interfaces.Cipher）分发：
//   - aesgcm: AES-128/192/256-GCM（按密钥长度）
//   - chacha: ChaCha20-Poly1305
//
// # TLS 包装
//
// tlswrap 子包提供流路径的可选 TLS 包装协作者，
// 握手内部完全委托给 crypto/tls。
package security
