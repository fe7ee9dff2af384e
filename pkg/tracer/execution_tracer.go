// Package tracer 适应度与特化提示的参考接收端
package tracer

import (
	"fmt"
	"log"
	"sort"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"strgrad/pkg/heuristic"
	"strgrad/pkg/replacement"
)

// Objective 单个调用点的聚合目标
type Objective struct {
	Location replacement.Location  `json:"location"`
	Kind     replacement.ResultKind `json:"kind"`
	Hits     int                    `json:"hits"`
	// Best 分别记录见过的最大 OfTrue 和最大 OfFalse
	Best heuristic.Truthness `json:"best"`
	Last heuristic.Truthness `json:"last"`
}

// CoveredTrue true分支是否已被执行过
func (o Objective) CoveredTrue() bool { return o.Best.OfTrue == 1 }

// CoveredFalse false分支是否已被执行过
func (o Objective) CoveredFalse() bool { return o.Best.OfFalse == 1 }

// ExecutionTracer 记录每个调用点的Truthness和每个被跟踪值的特化提示
// 被跟踪值的数量由LRU限制，最久未出现的值连同其提示一起被淘汰
type ExecutionTracer struct {
	mu               sync.Mutex
	objectives       map[replacement.Location]*Objective
	specializations  *lru.Cache[string, []replacement.Hint]
	maxTracked       int
	maxHintsPerValue int
	droppedHints     int
}

// NewExecutionTracer 创建执行跟踪器
func NewExecutionTracer(maxTracked, maxHintsPerValue int) (*ExecutionTracer, error) {
	if maxHintsPerValue <= 0 {
		return nil, fmt.Errorf("max hints per value must be positive, got %d", maxHintsPerValue)
	}
	cache, err := lru.New[string, []replacement.Hint](maxTracked)
	if err != nil {
		return nil, fmt.Errorf("failed to create LRU cache: %w", err)
	}
	return &ExecutionTracer{
		objectives:       make(map[replacement.Location]*Objective),
		specializations:  cache,
		maxTracked:       maxTracked,
		maxHintsPerValue: maxHintsPerValue,
	}, nil
}

// Record 实现 replacement.Reporter
func (et *ExecutionTracer) Record(loc replacement.Location, kind replacement.ResultKind, t heuristic.Truthness) {
	et.mu.Lock()
	defer et.mu.Unlock()

	obj, ok := et.objectives[loc]
	if !ok {
		obj = &Objective{Location: loc, Kind: kind}
		et.objectives[loc] = obj
	}
	obj.Hits++
	obj.Last = t
	obj.Best.OfTrue = max(obj.Best.OfTrue, t.OfTrue)
	obj.Best.OfFalse = max(obj.Best.OfFalse, t.OfFalse)
}

// RecordHint 实现 replacement.HintSink，同一被跟踪值的重复提示只保留一份
func (et *ExecutionTracer) RecordHint(tracked string, hint replacement.Hint) {
	et.mu.Lock()
	defer et.mu.Unlock()

	hints, _ := et.specializations.Get(tracked)
	for _, h := range hints {
		if h == hint {
			return
		}
	}
	if len(hints) >= et.maxHintsPerValue {
		et.droppedHints++
		if et.droppedHints == 1 {
			log.Printf("[Tracer] Warning: hint limit %d reached for %q, further hints dropped", et.maxHintsPerValue, tracked)
		}
		return
	}

	updated := make([]replacement.Hint, len(hints), len(hints)+1)
	copy(updated, hints)
	updated = append(updated, hint)
	if evicted := et.specializations.Add(tracked, updated); evicted {
		log.Printf("[Tracer] Tracked value limit %d reached, evicted least recently used", et.maxTracked)
	}
}

// Objective 返回某个调用点的聚合结果
func (et *ExecutionTracer) Objective(loc replacement.Location) (Objective, bool) {
	et.mu.Lock()
	defer et.mu.Unlock()
	obj, ok := et.objectives[loc]
	if !ok {
		return Objective{}, false
	}
	return *obj, true
}

// Snapshot 按调用点排序返回所有目标的副本
func (et *ExecutionTracer) Snapshot() []Objective {
	et.mu.Lock()
	defer et.mu.Unlock()

	out := make([]Objective, 0, len(et.objectives))
	for _, obj := range et.objectives {
		out = append(out, *obj)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Location < out[j].Location
	})
	return out
}

// Specializations 返回某个被跟踪值收集到的提示副本
func (et *ExecutionTracer) Specializations(tracked string) []replacement.Hint {
	et.mu.Lock()
	defer et.mu.Unlock()

	hints, ok := et.specializations.Peek(tracked)
	if !ok {
		return nil
	}
	return append([]replacement.Hint(nil), hints...)
}

// TrackedValues 当前保留了提示的被跟踪值，按从旧到新排列
func (et *ExecutionTracer) TrackedValues() []string {
	et.mu.Lock()
	defer et.mu.Unlock()
	return et.specializations.Keys()
}

// DroppedHints 因超过单值上限而丢弃的提示数
func (et *ExecutionTracer) DroppedHints() int {
	et.mu.Lock()
	defer et.mu.Unlock()
	return et.droppedHints
}

// Reset 清空所有记录
func (et *ExecutionTracer) Reset() {
	et.mu.Lock()
	defer et.mu.Unlock()
	et.objectives = make(map[replacement.Location]*Objective)
	et.specializations.Purge()
	et.droppedHints = 0
}
