// Package chacha 实现 ChaCha20-Poly1305 加密套件
package chacha

import (
	"crypto/rand"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"

	pkgif "github.com/dep2p/go-gossipnet/pkg/interfaces"
	"github.com/dep2p/go-gossipnet/pkg/types"
)

// Cipher ChaCha20-Poly1305 套件
//
// 要求 32 字节密钥。
type Cipher struct{}

// 确保实现 Cipher 接口
var _ pkgif.Cipher = (*Cipher)(nil)

// New 创建 ChaCha20-Poly1305 套件
func New() *Cipher {
	return &Cipher{}
}

// Suite 返回套件编号
func (c *Cipher) Suite() types.CipherSuite {
	return types.CipherChaCha20Poly1305
}

// Seal 加密
//
// 每次调用生成全新的随机 nonce 并前置在密文中。
func (c *Cipher) Seal(key types.SecretKey, plaintext, aad []byte) ([]byte, error) {
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, fmt.Errorf("create chacha20poly1305: %w", err)
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}

	out := make([]byte, len(nonce), len(nonce)+len(plaintext)+aead.Overhead())
	copy(out, nonce)
	return aead.Seal(out, nonce, plaintext, aad), nil
}

// Open 解密
func (c *Cipher) Open(key types.SecretKey, ciphertext, aad []byte) ([]byte, error) {
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, fmt.Errorf("create chacha20poly1305: %w", err)
	}

	if len(ciphertext) < aead.NonceSize()+aead.Overhead() {
		return nil, fmt.Errorf("%w: ciphertext too short", types.ErrDecryptionFailed)
	}
	nonce := ciphertext[:aead.NonceSize()]
	return aead.Open(nil, nonce, ciphertext[aead.NonceSize():], aad)
}
