package config

import (
	"encoding/json"
	"fmt"
	"time"
)

// Duration 可读写 JSON 的 time.Duration 包装类型
//
// 传输层的所有超时字段（拨号、写入、空闲回收、DNS 缓存 TTL）
// 都使用本类型，配置文件因此可以写 "10s" 而不是十位纳秒数：
//
//	{"transport": {"dial_timeout": "10s"}}
//
// 数字形式（纳秒）也接受，输出固定为字符串形式。
type Duration time.Duration

// UnmarshalJSON 解析字符串（time.ParseDuration 语法）或纳秒数
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		duration, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid duration string %q: %w", s, err)
		}
		*d = Duration(duration)
		return nil
	}

	var n int64
	if err := json.Unmarshal(data, &n); err == nil {
		*d = Duration(n)
		return nil
	}

	return fmt.Errorf("duration must be a string (e.g., \"30s\") or number (nanoseconds)")
}

// MarshalJSON 输出人类可读的字符串形式
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// Duration 返回底层的 time.Duration 值
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// String 返回字符串表示
func (d Duration) String() string {
	return time.Duration(d).String()
}
