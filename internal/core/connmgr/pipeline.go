package connmgr

import (
	"fmt"

	"github.com/dep2p/go-gossipnet/internal/core/compress"
	"github.com/dep2p/go-gossipnet/internal/core/security"
	"github.com/dep2p/go-gossipnet/internal/core/wire"
	"github.com/dep2p/go-gossipnet/pkg/types"
)

// Pipeline 载荷处理管线
//
// 出站: 压缩 → 加密 → 信封编码；入站为精确的逆过程，
// 且校验和验证（信封解码内）与标签校验先于解密/解压。
type Pipeline struct {
	label types.Label

	// sec 加密引擎，nil 表示禁用加密
	sec *security.Engine

	// comp 压缩引擎（总是非 nil；未启用时 MaybeCompress 直通）
	comp *compress.Engine

	// verifyIncoming 要求入站单元必须加密
	verifyIncoming bool

	// verifyOutgoing 出站单元必须加密
	verifyOutgoing bool

	// skipInboundLabelCheck 跳过入站标签校验（标签迁移过渡期）
	skipInboundLabelCheck bool
}

// PipelineOptions 管线构造参数
type PipelineOptions struct {
	Label                 types.Label
	Security              *security.Engine
	Compression           *compress.Engine
	VerifyIncoming        bool
	VerifyOutgoing        bool
	SkipInboundLabelCheck bool
}

// NewPipeline 创建载荷处理管线
func NewPipeline(opts PipelineOptions) *Pipeline {
	return &Pipeline{
		label:                 opts.Label,
		sec:                   opts.Security,
		comp:                  opts.Compression,
		verifyIncoming:        opts.VerifyIncoming,
		verifyOutgoing:        opts.VerifyOutgoing,
		skipInboundLabelCheck: opts.SkipInboundLabelCheck,
	}
}

// Encode 编码出站消息为线上信封
func (p *Pipeline) Encode(msg []byte) ([]byte, error) {
	compressed, payload, err := p.comp.MaybeCompress(msg)
	if err != nil {
		return nil, fmt.Errorf("compress payload: %w", err)
	}

	encrypt := p.sec != nil && p.verifyOutgoing
	var suite types.CipherSuite
	if encrypt {
		suite = p.sec.Suite()
	}
	flags := wire.NewFlags(compressed, encrypt, suite)

	if encrypt {
		// 认证标签覆盖标签+标志，头部被篡改会被检测到
		aad := wire.AssociatedData(p.label, flags)
		payload, err = p.sec.Seal(payload, aad)
		if err != nil {
			return nil, fmt.Errorf("seal payload: %w", err)
		}
	}

	return wire.Encode(p.label, flags, payload)
}

// Decode 解码入站信封为原始消息
//
// 处理顺序（任何一步失败都终止）：
//  1. 信封解码（含校验和验证）
//  2. 标签校验
//  3. 解密（或按 verifyIncoming 拒绝明文）
//  4. 解压
func (p *Pipeline) Decode(raw []byte) ([]byte, error) {
	env, err := wire.Decode(raw)
	if err != nil {
		return nil, err
	}
	return p.DecodeEnvelope(env)
}

// DecodeEnvelope 解码已拆帧的信封
func (p *Pipeline) DecodeEnvelope(env wire.Envelope) ([]byte, error) {
	if !p.skipInboundLabelCheck && !env.Label.Equal(p.label) {
		return nil, fmt.Errorf("%w: got %q", types.ErrLabelMismatch, env.Label.String())
	}

	payload := env.Payload
	if env.Flags.Encrypted() {
		if p.sec == nil {
			return nil, ErrEncryptedRejected
		}
		aad := wire.AssociatedData(env.Label, env.Flags)
		plain, err := p.sec.Open(env.Flags.Suite(), payload, aad)
		if err != nil {
			return nil, err
		}
		payload = plain
	} else if p.sec != nil && p.verifyIncoming {
		return nil, ErrPlaintextRejected
	}

	if env.Flags.Compressed() {
		plain, err := p.comp.Decompress(payload)
		if err != nil {
			return nil, err
		}
		payload = plain
	}

	return payload, nil
}

// Label 返回管线使用的标签
func (p *Pipeline) Label() types.Label {
	return p.label
}
