package triage

import "testing"

func TestOrdinalOrdering(t *testing.T) {
	levels := []Level{LevelRoutine, LevelSoon, LevelUrgent, LevelEmergency}
	for i := 1; i < len(levels); i++ {
		if levels[i].Ordinal() <= levels[i-1].Ordinal() {
			t.Fatalf("%s (%d) must outrank %s (%d)",
				levels[i], levels[i].Ordinal(), levels[i-1], levels[i-1].Ordinal())
		}
	}
}

func TestOrdinalUnknownIsRoutine(t *testing.T) {
	if got := Level("critical").Ordinal(); got != LevelRoutine.Ordinal() {
		t.Fatalf("unknown level ordinal = %d, want routine's %d", got, LevelRoutine.Ordinal())
	}
}

func TestLevelForOrdinalClamps(t *testing.T) {
	cases := map[int]Level{
		-3: LevelRoutine,
		0:  LevelRoutine,
		1:  LevelRoutine,
		2:  LevelSoon,
		3:  LevelUrgent,
		4:  LevelEmergency,
		99: LevelEmergency,
	}
	for ord, want := range cases {
		if got := LevelForOrdinal(ord); got != want {
			t.Fatalf("LevelForOrdinal(%d) = %s, want %s", ord, got, want)
		}
	}
}

func TestParseLevel(t *testing.T) {
	if level, ok := ParseLevel("urgent"); !ok || level != LevelUrgent {
		t.Fatalf("ParseLevel(urgent) = %s, %t", level, ok)
	}
	if _, ok := ParseLevel("URGENT"); ok {
		t.Fatal("ParseLevel must not accept unnormalized input")
	}
	if _, ok := ParseLevel("whenever"); ok {
		t.Fatal("ParseLevel must reject unknown levels")
	}
}

func TestMaxLevel(t *testing.T) {
	if got := MaxLevel(LevelSoon, LevelUrgent); got != LevelUrgent {
		t.Fatalf("MaxLevel = %s, want urgent", got)
	}
	if got := MaxLevel(LevelEmergency, LevelRoutine); got != LevelEmergency {
		t.Fatalf("MaxLevel = %s, want emergency", got)
	}
}
