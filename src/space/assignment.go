package space

// Assignment 一次参数取值，键可以缺失
type Assignment map[string]any

// Has 键是否存在
func (a Assignment) Has(key string) bool {
	_, ok := a[key]
	return ok
}

// Bool 读取开关。数值按非零为真处理；
// 键缺失或类型无法解释时 ok 为 false。
func (a Assignment) Bool(key string) (value bool, ok bool) {
	v, present := a[key]
	if !present {
		return false, false
	}
	if b, isBool := v.(bool); isBool {
		return b, true
	}
	if f, isNum := toFloat(v); isNum {
		return f != 0, true
	}
	return false, false
}

// Float 读取数值
func (a Assignment) Float(key string) (float64, bool) {
	v, present := a[key]
	if !present {
		return 0, false
	}
	return toFloat(v)
}

// String 读取字符串标签
func (a Assignment) String(key string) (string, bool) {
	v, present := a[key]
	if !present {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Clone 浅拷贝
func (a Assignment) Clone() Assignment {
	if a == nil {
		return nil
	}
	c := make(Assignment, len(a))
	for k, v := range a {
		c[k] = v
	}
	return c
}
