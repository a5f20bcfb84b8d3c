package security

import (
	"sync"

	"github.com/dep2p/go-gossipnet/pkg/types"
)

// Keyring 对称密钥容器
//
// 位置 0 的密钥为主密钥：它用于加密消息，也是解密时最先尝试的密钥。
// 其余密钥仅用于解密。所有方法并发安全；轮换（Insert/Remove/UseKey）
// 绝不会让并发读取者观察到撕裂的中间状态。
type Keyring struct {
	mu sync.RWMutex

	// primary 主密钥
	primary types.SecretKey

	// keys 次级密钥（保持插入顺序，不含主密钥）
	keys []types.SecretKey
}

// NewKeyring 创建密钥环
//
// keys 中与 primary 相同的密钥会被去重。primary 必须是合法密钥。
func NewKeyring(primary types.SecretKey, keys ...types.SecretKey) (*Keyring, error) {
	if !primary.IsValid() {
		return nil, types.ErrInvalidKeyLength
	}
	kr := &Keyring{primary: primary}
	for _, k := range keys {
		if !k.IsValid() {
			return nil, types.ErrInvalidKeyLength
		}
		if k.Equal(primary) || kr.contains(k) {
			continue
		}
		kr.keys = append(kr.keys, k)
	}
	return kr, nil
}

// contains 检查次级密钥集中是否已含该密钥（调用方持锁或在构造期间）
func (kr *Keyring) contains(key types.SecretKey) bool {
	for _, k := range kr.keys {
		if k.Equal(key) {
			return true
		}
	}
	return false
}

// Primary 返回主密钥
func (kr *Keyring) Primary() types.SecretKey {
	kr.mu.RLock()
	defer kr.mu.RUnlock()
	return kr.primary
}

// Keys 返回当前全部密钥的快照
//
// 第一个元素保证是主密钥，解密时按此顺序尝试。
func (kr *Keyring) Keys() []types.SecretKey {
	kr.mu.RLock()
	defer kr.mu.RUnlock()

	out := make([]types.SecretKey, 0, len(kr.keys)+1)
	out = append(out, kr.primary)
	out = append(out, kr.keys...)
	return out
}

// Insert 安装新密钥
//
// 安装后该密钥即可用于解密。密钥已存在时为空操作。
func (kr *Keyring) Insert(key types.SecretKey) error {
	if !key.IsValid() {
		return types.ErrInvalidKeyLength
	}

	kr.mu.Lock()
	defer kr.mu.Unlock()

	if key.Equal(kr.primary) || kr.contains(key) {
		return nil
	}
	kr.keys = append(kr.keys, key)
	return nil
}

// Remove 从密钥环中移除密钥
//
// 移除主密钥被拒绝（ErrRemovePrimaryKey）——密钥环在启用加密期间
// 不变量为非空。移除不存在的密钥为空操作。
func (kr *Keyring) Remove(key types.SecretKey) error {
	kr.mu.Lock()
	defer kr.mu.Unlock()

	if key.Equal(kr.primary) {
		return types.ErrRemovePrimaryKey
	}
	for i, k := range kr.keys {
		if k.Equal(key) {
			kr.keys = append(kr.keys[:i], kr.keys[i+1:]...)
			return nil
		}
	}
	return nil
}

// UseKey 把已安装的密钥提升为主密钥
//
// 之前的主密钥降级为次级密钥（仍可解密）。密钥不在环中时
// 返回 ErrKeyNotFound——对端必须先通过 Insert 获知该密钥。
func (kr *Keyring) UseKey(key types.SecretKey) error {
	kr.mu.Lock()
	defer kr.mu.Unlock()

	if key.Equal(kr.primary) {
		return nil
	}
	for i, k := range kr.keys {
		if k.Equal(key) {
			old := kr.primary
			kr.primary = k
			// 旧主密钥顶替被提升密钥的位置
			kr.keys[i] = old
			return nil
		}
	}
	return types.ErrKeyNotFound
}

// Len 返回密钥环中的密钥总数（含主密钥）
func (kr *Keyring) Len() int {
	kr.mu.RLock()
	defer kr.mu.RUnlock()
	return len(kr.keys) + 1
}
