package sensor

import "time"

// replayWindow is the gap under which two readings are considered a
// possible snapshot replay of the same sample rather than a new one.
const replayWindow = time.Second

// HasMaterialChange reports whether cur differs enough from prev to be
// worth evaluating. It is a pure predicate; the caller owns the
// last-processed cache and updates it only after evaluation proceeds.
//
// Rules:
//   - nil prev: always evaluate the first reading.
//   - capture timestamps less than one second apart: evaluate only if at
//     least one category field differs exactly. This skips no-op snapshot
//     replays from the upstream change feed.
//   - timestamps one second or more apart: treat as a new sample even if
//     the values happen to repeat.
//   - malformed cur: no change. Conservative by intent; the caller logs
//     the drop as a data-quality warning.
func HasMaterialChange(prev, cur Reading) bool {
	if !WellFormed(cur) {
		return false
	}
	if prev == nil {
		return true
	}

	gap := cur.CapturedAt().Sub(prev.CapturedAt())
	if gap < 0 {
		gap = -gap
	}
	if gap >= replayWindow {
		return true
	}

	if prev.Kind() != cur.Kind() {
		return true
	}
	pv, cv := prev.values(), cur.values()
	if len(pv) != len(cv) {
		return true
	}
	for i := range pv {
		if pv[i] != cv[i] {
			return true
		}
	}
	return false
}
