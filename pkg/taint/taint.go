// Package taint 被跟踪输入值的命名与判定
// 搜索过程把正在变异的字符串替换成形如 _EM_<id>_XYZ_ 的污点名，
// 被测程序拿它与常量比较时即可发现"应等于哪个常量"的特化提示。
package taint

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
)

const (
	prefix = "_EM_"
	suffix = "_XYZ_"
)

// Name 生成第id个污点名
func Name(id int) string {
	if id < 0 {
		panic(fmt.Sprintf("negative taint id: %d", id))
	}
	return prefix + strconv.Itoa(id) + suffix
}

// IsTaintInput 整个值是否为污点名（大小写不敏感，以便忽略大小写的比较也能命中）
func IsTaintInput(value string) bool {
	if len(value) <= len(prefix)+len(suffix) {
		return false
	}
	if !strings.EqualFold(value[:len(prefix)], prefix) || !strings.EqualFold(value[len(value)-len(suffix):], suffix) {
		return false
	}
	digits := value[len(prefix) : len(value)-len(suffix)]
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return false
		}
	}
	return true
}

// Oracle 按命名规则判定是否被跟踪
type Oracle struct{}

// IsTracked 实现 replacement.TaintOracle
func (Oracle) IsTracked(value string) bool {
	return IsTaintInput(value)
}

// Registry 显式登记的被跟踪值集合，并发安全
type Registry struct {
	mu     sync.RWMutex
	values map[string]struct{}
	nextID int
}

// NewRegistry 创建登记表
func NewRegistry() *Registry {
	return &Registry{
		values: make(map[string]struct{}),
	}
}

// Track 登记一个值
func (r *Registry) Track(value string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values[value] = struct{}{}
}

// NewTaint 生成一个新的污点名并登记
func (r *Registry) NewTaint() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	name := Name(r.nextID)
	r.nextID++
	r.values[name] = struct{}{}
	return name
}

// Untrack 取消登记
func (r *Registry) Untrack(value string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.values, value)
}

// IsTracked 实现 replacement.TaintOracle
func (r *Registry) IsTracked(value string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.values[value]
	return ok
}

// Len 已登记数量
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.values)
}
