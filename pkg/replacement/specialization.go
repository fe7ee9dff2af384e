package replacement

import "log"

// recordSpecialization 恰好一个操作数被跟踪时，记录它应等于另一个具体值
// 都被跟踪或都未被跟踪时不记录；提示不影响结果和适应度
func (r *StringReplacement) recordSpecialization(caller string, other any, kind SpecializationKind) {
	o, ok := other.(string)
	if !ok {
		return
	}

	defer func() {
		if p := recover(); p != nil {
			log.Printf("[Replacement] Warning: hint recording panicked, ignored: %v", p)
		}
	}()

	callerTracked := r.oracle.IsTracked(caller)
	otherTracked := r.oracle.IsTracked(o)

	switch {
	case callerTracked && !otherTracked:
		r.hints.RecordHint(caller, Hint{Kind: kind, Value: o})
	case otherTracked && !callerTracked:
		r.hints.RecordHint(o, Hint{Kind: kind, Value: caller})
	}
}
