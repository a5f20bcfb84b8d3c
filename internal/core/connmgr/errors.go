package connmgr

import "errors"

var (
	// ErrPlaintextRejected 入站单元未加密但本地要求加密
	ErrPlaintextRejected = errors.New("plaintext message rejected: encryption is required")

	// ErrEncryptedRejected 入站单元已加密但本地未配置加密
	ErrEncryptedRejected = errors.New("encrypted message rejected: encryption is not configured")

	// ErrAlreadyStarted 连接管理器已启动
	ErrAlreadyStarted = errors.New("connection manager already started")

	// ErrNotStarted 连接管理器尚未启动
	ErrNotStarted = errors.New("connection manager not started")

	// ErrFrameTooLarge 流帧超过上限
	ErrFrameTooLarge = errors.New("stream frame exceeds maximum size")
)
