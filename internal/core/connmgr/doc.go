// Package connmgr 实现连接管理器
//
// 连接管理器把可靠流/不可靠数据报的二元性隐藏在统一的发送契约之后，
// 并对入站流量做多路分发。它拥有两个共享 socket 资源：
//   - 单个共享 UDP 数据报 socket（数据报路径）
//   - TCP 监听器与每对端的流连接池（流路径）
//
// 两个方向的载荷都经过统一管线：
//
//	出站: 压缩 → 加密 → 信封编码 → I/O
//	入站: I/O → 信封解码(校验和) → 标签校验 → 解密 → 解压 → 处理器
//
// # 资源边界
//
//   - 编码后超过最大数据报大小的消息在任何 I/O 之前被拒绝
//     （硬上限，本层不分片）
//   - 每对端并发拨号/写入受在途信号量约束，防止广播时无界扇出
//   - 池化连接按空闲超时回收
//
// # 接收循环
//
// 接收循环运行到关闭为止。单个格式错误/无法解密的入站单元
// 绝不中止接收循环：记录日志后丢弃（流连接被关闭，数据报被丢弃）。
//
// # 连接状态机
//
//	Dialing → Established → Draining → Closed
//
// Draining 在关闭时仍有未完成写入的情况下进入，保证排队字节
// 在关闭前冲刷完毕；Closed 是终态。
//
// # 关闭
//
// Shutdown 幂等：关闭数据报 socket 与全部池化连接，终止接收循环；
// 并发进行中的发送观察到 ErrTransportClosed 而不是挂起。
package connmgr
