package rules

import (
	"errors"

	"hyperoptbot/src/space"
)

var (
	// ErrMissingValue 开关已启用但缺少对应的阈值
	ErrMissingValue = errors.New("guard enabled without value")

	// ErrOutOfDomainValue 与 space 包共用同一个哨兵错误，调用方只需判断一次
	ErrOutOfDomainValue = space.ErrOutOfDomainValue

	// ErrUnknownOp 未定义的比较运算
	ErrUnknownOp = errors.New("unknown comparison op")
)
