package replacement

import (
	"fmt"
	"log"

	"strgrad/pkg/heuristic"
	"strgrad/pkg/predicate"
)

// StringReplacement 字符串操作的插桩替代
// 自身无可变状态，可被任意多个goroutine并发使用
type StringReplacement struct {
	reporter Reporter
	hints    HintSink
	oracle   TaintOracle
}

// NewStringReplacement 创建插桩替代，nil依赖替换为空实现
func NewStringReplacement(reporter Reporter, hints HintSink, oracle TaintOracle) *StringReplacement {
	if reporter == nil {
		reporter = NopReporter{}
	}
	if hints == nil {
		hints = NopHintSink{}
	}
	if oracle == nil {
		oracle = NeverTracked{}
	}
	return &StringReplacement{
		reporter: reporter,
		hints:    hints,
		oracle:   oracle,
	}
}

// report 上报后原样返回结果；sink的panic不能影响被测程序的控制流
func (r *StringReplacement) report(loc Location, result bool, t heuristic.Truthness) bool {
	r.record(loc, t)
	return result
}

func (r *StringReplacement) record(loc Location, t heuristic.Truthness) {
	defer func() {
		if p := recover(); p != nil {
			log.Printf("[Replacement] Warning: reporter panicked at %s, ignored: %v", loc, p)
		}
	}()
	r.reporter.Record(loc, ResultBoolean, t)
}

// Equals 替代 s == other
func (r *StringReplacement) Equals(loc Location, s string, other any) bool {
	r.recordSpecialization(s, other, SpecializationConstant)
	result, t := predicate.Equals(s, other)
	return r.report(loc, result, t)
}

// EqualsIgnoreCase 替代忽略大小写的相等比较
func (r *StringReplacement) EqualsIgnoreCase(loc Location, s string, other any) bool {
	r.recordSpecialization(s, other, SpecializationConstantIgnoreCase)
	result, t := predicate.EqualsIgnoreCase(s, other)
	return r.report(loc, result, t)
}

// StartsWithOffset 替代 s 从 offset 开始以 prefix 开头的判断
// 偏移合法时归约为 s[offset:offset+len(prefix)] 与 prefix 的相等比较，同样记录特化提示
func (r *StringReplacement) StartsWithOffset(loc Location, s, prefix string, offset int) bool {
	if offset >= 0 && offset <= len(s)-len(prefix) {
		r.recordSpecialization(s[offset:offset+len(prefix)], prefix, SpecializationConstant)
	}
	result, t := predicate.StartsWithOffset(s, prefix, offset)
	return r.report(loc, result, t)
}

// StartsWith 替代 strings.HasPrefix
func (r *StringReplacement) StartsWith(loc Location, s, prefix string) bool {
	return r.StartsWithOffset(loc, s, prefix, 0)
}

// EndsWith 替代 strings.HasSuffix
func (r *StringReplacement) EndsWith(loc Location, s, suffix string) bool {
	return r.StartsWithOffset(loc, s, suffix, len(s)-len(suffix))
}

// IsEmpty 替代 len(s) == 0
func (r *StringReplacement) IsEmpty(loc Location, s string) bool {
	result, t := predicate.IsEmpty(s)
	return r.report(loc, result, t)
}

// ContentEquals 替代 s == cs.String()，cs为nil时的panic原样抛给调用方
func (r *StringReplacement) ContentEquals(loc Location, s string, cs fmt.Stringer) bool {
	return r.Equals(loc, s, cs.String())
}

// ContentEqualsBytes 替代 s == string(b)
func (r *StringReplacement) ContentEqualsBytes(loc Location, s string, b []byte) bool {
	return r.Equals(loc, s, string(b))
}

// Contains 替代 strings.Contains
// sub 不短于 s 时归约为相等比较，同样记录特化提示
func (r *StringReplacement) Contains(loc Location, s, sub string) bool {
	if len(s) <= len(sub) {
		r.recordSpecialization(s, sub, SpecializationConstant)
	}
	result, t := predicate.Contains(s, sub)
	return r.report(loc, result, t)
}

// RegionMatches 替代区域比较
func (r *StringReplacement) RegionMatches(loc Location, s string, toffset int, other string, ooffset int, length int, ignoreCase bool) bool {
	result, t := predicate.RegionMatches(s, toffset, other, ooffset, length, ignoreCase)
	return r.report(loc, result, t)
}
