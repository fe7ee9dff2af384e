package tracer

import (
	"log"

	"strgrad/pkg/heuristic"
	"strgrad/pkg/replacement"
)

// MultiReporter 依次转发给多个Reporter
// 某个Reporter panic时记录日志并继续转发给其余的Reporter
type MultiReporter []replacement.Reporter

func (m MultiReporter) Record(loc replacement.Location, kind replacement.ResultKind, t heuristic.Truthness) {
	for i, r := range m {
		if r != nil {
			recordOne(i, r, loc, kind, t)
		}
	}
}

func recordOne(i int, r replacement.Reporter, loc replacement.Location, kind replacement.ResultKind, t heuristic.Truthness) {
	defer func() {
		if p := recover(); p != nil {
			log.Printf("[Tracer] Warning: reporter #%d panicked at %s, skipped: %v", i, loc, p)
		}
	}()
	r.Record(loc, kind, t)
}
