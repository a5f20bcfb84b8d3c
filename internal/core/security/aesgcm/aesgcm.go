// Package aesgcm 实现 AES-GCM 加密套件
//
// 按密钥长度对应 AES-128/192/256 三个套件编号，共用同一实现。
package aesgcm

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"io"

	pkgif "github.com/dep2p/go-gossipnet/pkg/interfaces"
	"github.com/dep2p/go-gossipnet/pkg/types"
)

// Cipher AES-GCM 套件
type Cipher struct {
	suite types.CipherSuite
}

// 确保实现 Cipher 接口
var _ pkgif.Cipher = (*Cipher)(nil)

// New 创建 AES-GCM 套件
//
// suite 必须是 AES-GCM 系列编号之一。
func New(suite types.CipherSuite) (*Cipher, error) {
	switch suite {
	case types.CipherAES128GCM, types.CipherAES192GCM, types.CipherAES256GCM:
		return &Cipher{suite: suite}, nil
	default:
		return nil, fmt.Errorf("%w: %s is not an AES-GCM suite", types.ErrUnknownCipherSuite, suite)
	}
}

// Suite 返回套件编号
func (c *Cipher) Suite() types.CipherSuite {
	return c.suite
}

// aead 用给定密钥构造 AEAD 实例
func (c *Cipher) aead(key types.SecretKey) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create AES cipher: %w", err)
	}
	return cipher.NewGCM(block)
}

// Seal 加密
//
// 每次调用生成全新的随机 nonce 并前置在密文中（同一密钥下绝不重用）。
func (c *Cipher) Seal(key types.SecretKey, plaintext, aad []byte) ([]byte, error) {
	aead, err := c.aead(key)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}

	// 输出布局: nonce || 密文+认证标签
	out := make([]byte, len(nonce), len(nonce)+len(plaintext)+aead.Overhead())
	copy(out, nonce)
	return aead.Seal(out, nonce, plaintext, aad), nil
}

// Open 解密
func (c *Cipher) Open(key types.SecretKey, ciphertext, aad []byte) ([]byte, error) {
	aead, err := c.aead(key)
	if err != nil {
		return nil, err
	}

	if len(ciphertext) < aead.NonceSize()+aead.Overhead() {
		return nil, fmt.Errorf("%w: ciphertext too short", types.ErrDecryptionFailed)
	}
	nonce := ciphertext[:aead.NonceSize()]
	return aead.Open(nil, nonce, ciphertext[aead.NonceSize():], aad)
}
