package space

import "errors"

var (
	// ErrOutOfDomainValue 参数值不在维度声明的取值范围内
	ErrOutOfDomainValue = errors.New("value out of dimension domain")

	// ErrDuplicateDimension 同一参数空间内维度名称重复
	ErrDuplicateDimension = errors.New("duplicate dimension name")

	// ErrInvalidDimension 维度声明无效（名称为空、上下界颠倒、选项为空）
	ErrInvalidDimension = errors.New("invalid dimension")
)
