package security

import (
	"fmt"

	"github.com/dep2p/go-gossipnet/internal/core/security/aesgcm"
	"github.com/dep2p/go-gossipnet/internal/core/security/chacha"
	pkgif "github.com/dep2p/go-gossipnet/pkg/interfaces"
	"github.com/dep2p/go-gossipnet/pkg/lib/log"
	"github.com/dep2p/go-gossipnet/pkg/types"
)

var logger = log.Logger("core/security")

// Engine 加密引擎
//
// 出站使用配置的套件 + 密钥环主密钥；入站按信封标志中的套件编号
// 分发到对应套件，并依次尝试密钥环中的全部密钥。
// Seal/Open 不会修改密钥环。
type Engine struct {
	keyring *Keyring

	// outbound 出站加密套件
	outbound pkgif.Cipher

	// suites 入站解密套件注册表（按套件编号分发）
	suites map[types.CipherSuite]pkgif.Cipher
}

// NewEngine 创建加密引擎
//
// suite 为出站套件；入站注册表总是包含全部已知套件，
// 使混合套件集群中的消息可以解码。
func NewEngine(suite types.CipherSuite, keyring *Keyring) (*Engine, error) {
	if keyring == nil || keyring.Len() == 0 {
		return nil, types.ErrEmptyKeyring
	}

	suites := make(map[types.CipherSuite]pkgif.Cipher, 4)
	for _, s := range []types.CipherSuite{
		types.CipherAES128GCM,
		types.CipherAES192GCM,
		types.CipherAES256GCM,
	} {
		c, err := aesgcm.New(s)
		if err != nil {
			return nil, err
		}
		suites[s] = c
	}
	suites[types.CipherChaCha20Poly1305] = chacha.New()

	outbound, ok := suites[suite]
	if !ok {
		return nil, fmt.Errorf("%w: %d", types.ErrUnknownCipherSuite, suite)
	}

	return &Engine{
		keyring:  keyring,
		outbound: outbound,
		suites:   suites,
	}, nil
}

// Keyring 返回引擎使用的密钥环
func (e *Engine) Keyring() *Keyring {
	return e.keyring
}

// Suite 返回出站套件编号
func (e *Engine) Suite() types.CipherSuite {
	return e.outbound.Suite()
}

// Seal 用主密钥加密载荷
//
// aad 为信封的标签+标志，认证标签覆盖它，头部被篡改会被检测到。
func (e *Engine) Seal(plaintext, aad []byte) ([]byte, error) {
	return e.outbound.Seal(e.keyring.Primary(), plaintext, aad)
}

// Open 解密载荷
//
// 依次尝试密钥环中的每个密钥（主密钥最先），全部失败后才返回
// ErrDecryptionFailed。轮换窗口期内旧密钥加密的消息因此仍可解开。
func (e *Engine) Open(suite types.CipherSuite, ciphertext, aad []byte) ([]byte, error) {
	c, ok := e.suites[suite]
	if !ok {
		return nil, fmt.Errorf("%w: %d", types.ErrUnknownCipherSuite, suite)
	}

	keys := e.keyring.Keys()
	for _, key := range keys {
		plaintext, err := c.Open(key, ciphertext, aad)
		if err == nil {
			return plaintext, nil
		}
	}

	logger.Debug("解密失败", "suite", suite.String(), "triedKeys", len(keys))
	return nil, types.ErrDecryptionFailed
}
