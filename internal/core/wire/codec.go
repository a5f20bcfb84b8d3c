package wire

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"

	"github.com/dep2p/go-gossipnet/pkg/types"
)

// castagnoli CRC-32C 查找表
//
// 所有信封共享一张表；crc32.MakeTable 返回的表是只读的。
var castagnoli = crc32.MakeTable(crc32.Castagnoli)

// headerSize 信封头部固定开销（不含标签本身）
//
// = 标签长度(1) + 标志(1) + 校验和(4) + 载荷长度(4)
const headerSize = 1 + 1 + 4 + 4

// EncodedSize 返回编码后的信封总大小
//
// 用于在任何 I/O 之前做数据报大小预检。
func EncodedSize(label types.Label, payloadLen int) int {
	return headerSize + len(label) + payloadLen
}

// Encode 编码信封
//
// 字段顺序: [标签长度][标签][标志][校验和][载荷长度][载荷]。
// 校验和覆盖标志字节与载荷（载荷已处于压缩/加密之后的最终形态）。
func Encode(label types.Label, flags Flags, payload []byte) ([]byte, error) {
	if len(label) > types.MaxLabelLength {
		return nil, fmt.Errorf("%w: %d bytes", types.ErrLabelTooLong, len(label))
	}
	if !flags.valid() {
		return nil, fmt.Errorf("%w: reserved bits set in %#02x", types.ErrUnsupportedEnvelope, uint8(flags))
	}

	buf := make([]byte, EncodedSize(label, len(payload)))
	off := 0

	// 标签长度 + 标签
	buf[off] = byte(len(label))
	off++
	copy(buf[off:], label)
	off += len(label)

	// 标志
	buf[off] = byte(flags)
	off++

	// 校验和（覆盖标志 + 载荷）
	sum := crc32.Checksum([]byte{byte(flags)}, castagnoli)
	sum = crc32.Update(sum, castagnoli, payload)
	binary.BigEndian.PutUint32(buf[off:], sum)
	off += 4

	// 载荷长度 + 载荷
	binary.BigEndian.PutUint32(buf[off:], uint32(len(payload)))
	off += 4
	copy(buf[off:], payload)

	return buf, nil
}

// Decode 解码信封
//
// 校验和在返回之前验证，即早于任何解压/解密。
// 失败情况：
//   - 数据截断、载荷长度前缀与剩余字节不符: types.ErrMalformedEnvelope
//   - 保留标志位非零: types.ErrUnsupportedEnvelope
//   - 校验和不匹配: types.ErrChecksumMismatch（属于硬解码失败）
func Decode(data []byte) (Envelope, error) {
	if len(data) < headerSize {
		return Envelope{}, fmt.Errorf("%w: %d bytes is shorter than fixed header", types.ErrMalformedEnvelope, len(data))
	}

	off := 0
	labelLen := int(data[off])
	off++

	if len(data) < headerSize+labelLen {
		return Envelope{}, fmt.Errorf("%w: truncated label", types.ErrMalformedEnvelope)
	}
	label := types.Label(data[off : off+labelLen])
	off += labelLen

	flags := Flags(data[off])
	off++

	if !flags.valid() {
		return Envelope{}, fmt.Errorf("%w: reserved bits set in %#02x", types.ErrUnsupportedEnvelope, uint8(flags))
	}

	wantSum := binary.BigEndian.Uint32(data[off:])
	off += 4

	payloadLen := int(binary.BigEndian.Uint32(data[off:]))
	off += 4

	if len(data)-off != payloadLen {
		return Envelope{}, fmt.Errorf("%w: payload length prefix %d does not match remaining %d bytes",
			types.ErrMalformedEnvelope, payloadLen, len(data)-off)
	}
	payload := data[off:]

	gotSum := crc32.Checksum([]byte{byte(flags)}, castagnoli)
	gotSum = crc32.Update(gotSum, castagnoli, payload)
	if gotSum != wantSum {
		return Envelope{}, fmt.Errorf("%w: want %#08x got %#08x", types.ErrChecksumMismatch, wantSum, gotSum)
	}

	return Envelope{
		Label:   label,
		Flags:   flags,
		Payload: payload,
	}, nil
}

// AssociatedData 返回信封的 AEAD 关联数据
//
// 关联数据 = 标签 + 标志字节，使头部被篡改时认证标签校验失败。
func AssociatedData(label types.Label, flags Flags) []byte {
	aad := make([]byte, 0, len(label)+1)
	aad = append(aad, label...)
	aad = append(aad, byte(flags))
	return aad
}
