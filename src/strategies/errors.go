package strategies

import "errors"

var (
	// ErrUnknownStrategy 注册表中没有该名称的策略
	ErrUnknownStrategy = errors.New("unknown strategy")

	// ErrDuplicateStrategy 重复注册同名策略
	ErrDuplicateStrategy = errors.New("strategy already registered")
)
