package interfaces

import (
	"net"

	"github.com/dep2p/go-gossipnet/pkg/types"
)

// Cipher 单个加密套件的 AEAD 能力
//
// 每个套件（AES-GCM 各密钥长度、ChaCha20-Poly1305）实现一次。
// 套件通过配置选择，以标签变体 + 小接口的方式分发，不使用继承。
type Cipher interface {
	// Suite 返回套件编号
	Suite() types.CipherSuite

	// Seal 用给定密钥加密
	//
	// nonce 由实现内部随机生成并前置在密文中；认证标签覆盖 aad。
	Seal(key types.SecretKey, plaintext, aad []byte) ([]byte, error)

	// Open 用给定密钥解密
	//
	// 输入为 Seal 的输出（nonce + 密文 + 标签）。
	Open(key types.SecretKey, ciphertext, aad []byte) ([]byte, error)
}

// StreamSecurity TLS/原生 TLS 包装协作者
//
// 给定一条原始连接，返回一条读写契约完全相同的安全连接。
// 握手内部委托给包装库，本核心只决定何时应用。
// 握手失败返回 types.ErrHandshakeFailed。
type StreamSecurity interface {
	// WrapClient 包装出站连接（客户端握手）
	WrapClient(conn net.Conn) (net.Conn, error)

	// WrapServer 包装入站连接（服务端握手）
	WrapServer(conn net.Conn) (net.Conn, error)
}
