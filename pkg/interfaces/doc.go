// Package interfaces 定义 GossipNet 各组件之间的接口契约
//
// 本包只包含接口与小型辅助类型，不包含实现。依赖方向：
//
//	internal/core/* ──▶ pkg/interfaces ──▶ pkg/types
//
// 核心接口：
//   - Runtime: 执行环境能力集（定时器、异步 socket、任务派生）
//   - NameResolver: DNS 解析协作者（窄接口，算法内部不属于本核心）
//   - Cipher: 单个加密套件的 AEAD 能力
//   - Compressor: 单个压缩算法后端
//   - StreamSecurity: TLS 包装协作者
//   - Transport: 成员层消费的传输门面
package interfaces
