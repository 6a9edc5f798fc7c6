package triage

// Level is the ordered urgency classification produced by the engine.
type Level string

const (
	LevelRoutine   Level = "routine"
	LevelSoon      Level = "soon"
	LevelUrgent    Level = "urgent"
	LevelEmergency Level = "emergency"
)

var levelOrdinals = map[Level]int{
	LevelRoutine:   1,
	LevelSoon:      2,
	LevelUrgent:    3,
	LevelEmergency: 4,
}

// Ordinal returns the rank of the level (routine=1 .. emergency=4).
// Unknown levels rank as routine so a malformed input can never escalate.
func (l Level) Ordinal() int {
	if ord, ok := levelOrdinals[l]; ok {
		return ord
	}
	return levelOrdinals[LevelRoutine]
}

// LevelForOrdinal maps a rank back to its level, clamping out-of-range values.
func LevelForOrdinal(ord int) Level {
	switch {
	case ord >= 4:
		return LevelEmergency
	case ord == 3:
		return LevelUrgent
	case ord == 2:
		return LevelSoon
	default:
		return LevelRoutine
	}
}

// ParseLevel normalizes a free-form level string, reporting whether it named
// a known level.
func ParseLevel(raw string) (Level, bool) {
	switch Level(raw) {
	case LevelRoutine, LevelSoon, LevelUrgent, LevelEmergency:
		return Level(raw), true
	default:
		return "", false
	}
}

// MaxLevel returns the higher-ranked of two levels.
func MaxLevel(a, b Level) Level {
	if b.Ordinal() > a.Ordinal() {
		return b
	}
	return a
}
