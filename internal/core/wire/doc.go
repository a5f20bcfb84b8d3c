// Package wire 实现信封编解码
//
// 信封是线上传输的自包含单元，字段顺序固定：
//
//	[标签长度 1B][标签][标志 1B][校验和 4B][载荷长度 4B][载荷]
//
// 标志字节布局：
//   - bit0: 已压缩
//   - bit1: 已加密
//   - bits2-4: 加密套件编号
//   - bits5-7: 保留位，必须为零
//
// 关键不变量：
//   - 校验和（CRC-32C）覆盖标志字节 + 压缩/加密之后的载荷，
//     在解压/解密之前验证；不匹配是硬解码失败，绝不忽略。
//   - 未知标志位导致 ErrUnsupportedEnvelope 而不是被静默忽略，
//     强制上层进行显式版本协商。
//
// 本包是纯函数式的：编解码不做 I/O，不持有状态。
package wire
