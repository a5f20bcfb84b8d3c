package types

import "fmt"

// MaxLabelLength 标签最大长度
//
// 标签在信封中使用单字节长度前缀，上限 255 字节。
const MaxLabelLength = 255

// Label 集群/租户标签
//
// 短字节串，附加在每个信封之前，用于多租户隔离。
// 标签不匹配的信封在载荷处理之前即被拒绝。
type Label []byte

// NewLabel 构造标签并校验长度
func NewLabel(b []byte) (Label, error) {
	if len(b) > MaxLabelLength {
		return nil, fmt.Errorf("%w: %d > %d", ErrLabelTooLong, len(b), MaxLabelLength)
	}
	l := make(Label, len(b))
	copy(l, b)
	return l, nil
}

// Equal 比较两个标签是否相同
func (l Label) Equal(other Label) bool {
	if len(l) != len(other) {
		return false
	}
	for i := range l {
		if l[i] != other[i] {
			return false
		}
	}
	return true
}

// IsEmpty 返回标签是否为空
func (l Label) IsEmpty() bool {
	return len(l) == 0
}

// String 返回标签的字符串表示
func (l Label) String() string {
	return string(l)
}
