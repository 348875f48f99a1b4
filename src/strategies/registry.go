package strategies

import (
	"fmt"
	"sort"
	"sync"
)

// Registry 按名称管理策略
type Registry struct {
	mu         sync.RWMutex
	strategies map[string]Hyperopt
}

// NewRegistry 创建空注册表
func NewRegistry() *Registry {
	return &Registry{strategies: make(map[string]Hyperopt)}
}

// Default 注册了内置策略的注册表
func Default() *Registry {
	r := NewRegistry()
	_ = r.Register(NewBBRSI())
	_ = r.Register(NewStrategy002())
	return r
}

// Register 以 Name() 为键注册，重名返回 ErrDuplicateStrategy
func (r *Registry) Register(h Hyperopt) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.strategies[h.Name()]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateStrategy, h.Name())
	}
	r.strategies[h.Name()] = h
	return nil
}

// Get 按名称查找
func (r *Registry) Get(name string) (Hyperopt, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	h, ok := r.strategies[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownStrategy, name)
	}
	return h, nil
}

// List 已注册的策略名，按字典序
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.strategies))
	for name := range r.strategies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
