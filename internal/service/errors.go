package service

import "errors"

var (
	// ErrNotFound 作业不存在
	ErrNotFound = errors.New("analysis not found")
	// ErrNotReady 作业尚未完成，结果不可用
	ErrNotReady = errors.New("analysis is not completed yet")
)
