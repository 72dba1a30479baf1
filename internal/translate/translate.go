package translate

import (
	"strconv"
	"time"

	"github.com/hoitkn/processqa/internal/submission"
)

// Translate renders one canonical submission in this mapping's external
// schema. Only fields with a non-empty canonical value are included, plus
// the schema's always-present stamped columns. Numeric fields are coerced;
// a value that fails coercion omits the column rather than erroring.
func (m *Mapping) Translate(sub submission.Submission, now time.Time) map[string]any {
	out := make(map[string]any, len(m.Fields))

	for _, fm := range m.Fields {
		v := sub.Get(fm.Canonical)
		if v == "" {
			continue
		}
		switch fm.Kind {
		case Numeric:
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				continue
			}
			out[fm.External] = f
		default:
			out[fm.External] = v
		}
	}

	if m.CombinedColumn != "" {
		if joined := joinNotes(sub.Get(submission.FieldSensoryNotes), sub.Get(submission.FieldStrandNotes)); joined != "" {
			out[m.CombinedColumn] = joined
		}
	}

	if m.stamp != nil {
		for col, v := range m.stamp(sub, now) {
			if _, done := out[col]; !done {
				out[col] = v
			}
		}
	}

	return out
}
