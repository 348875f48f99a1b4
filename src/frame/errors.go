package frame

import "errors"

var (
	// ErrMissingInputColumn 行表缺少所需的列
	ErrMissingInputColumn = errors.New("missing input column")

	// ErrLengthMismatch 列长度与行表行数不一致
	ErrLengthMismatch = errors.New("column length does not match row count")
)
