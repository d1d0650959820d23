package treatment

import (
	"math"
	"testing"
)

func TestPhasesPartitionTimeline(t *testing.T) {
	for w := 1; w <= TotalWeeks; w++ {
		matches := 0
		for _, p := range Phases() {
			if p.Contains(w) {
				matches++
			}
		}
		if matches != 1 {
			t.Errorf("week %d contained in %d phases, expected exactly 1", w, matches)
		}
	}
}

func TestPhasesContiguous(t *testing.T) {
	ps := Phases()
	if ps[0].StartWeek != 1 {
		t.Errorf("first phase starts at week %d, expected 1", ps[0].StartWeek)
	}
	if ps[len(ps)-1].EndWeek != TotalWeeks {
		t.Errorf("last phase ends at week %d, expected %d", ps[len(ps)-1].EndWeek, TotalWeeks)
	}
	for i := 1; i < len(ps); i++ {
		if ps[i].StartWeek != ps[i-1].EndWeek+1 {
			t.Errorf("phase %d starts at week %d, expected %d", ps[i].ID, ps[i].StartWeek, ps[i-1].EndWeek+1)
		}
	}
}

func TestMilestonesInsidePhaseRanges(t *testing.T) {
	for _, p := range Phases() {
		for _, m := range p.Milestones {
			if !p.Contains(m.Week) {
				t.Errorf("milestone %q at week %d outside phase %d range [%d,%d]",
					m.LabelKey, m.Week, p.ID, p.StartWeek, p.EndWeek)
			}
		}
	}
}

func TestPhaseFor(t *testing.T) {
	tests := []struct {
		name     string
		week     int
		expected int
	}{
		{"first week", 1, 1},
		{"end of expansion", 8, 1},
		{"start of alignment", 9, 2},
		{"mid alignment", 10, 2},
		{"end of alignment", 16, 2},
		{"start of occlusion", 17, 3},
		{"final week", 24, 3},
		{"week zero falls back to first phase", 0, 1},
		{"negative week falls back to first phase", -3, 1},
		{"week beyond timeline falls back to first phase", 25, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PhaseFor(tt.week)
			if got.ID != tt.expected {
				t.Errorf("PhaseFor(%d).ID = %d, expected %d", tt.week, got.ID, tt.expected)
			}
		})
	}
}

func TestProgressPercent(t *testing.T) {
	tests := []struct {
		name     string
		week     int
		expected float64
	}{
		{"week 1", 1, 100.0 / 24.0},
		{"week 10", 10, 1000.0 / 24.0},
		{"week 12 is halfway", 12, 50},
		{"week 24 completes", 24, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ProgressPercent(tt.week)
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("ProgressPercent(%d) = %v, expected %v", tt.week, got, tt.expected)
			}
		})
	}
}

func TestProgressPercentUnclamped(t *testing.T) {
	if got := ProgressPercent(25); got <= 100 {
		t.Errorf("ProgressPercent(25) = %v, expected >100", got)
	}
}

func TestProgressPercentMonotonic(t *testing.T) {
	prev := ProgressPercent(0)
	for w := 1; w <= TotalWeeks+2; w++ {
		cur := ProgressPercent(w)
		if cur < prev {
			t.Errorf("ProgressPercent(%d) = %v < ProgressPercent(%d) = %v", w, cur, w-1, prev)
		}
		prev = cur
	}
}

func TestMilestoneStatus(t *testing.T) {
	tests := []struct {
		name          string
		milestoneWeek int
		currentWeek   int
		expected      Status
	}{
		{"past milestone is done", 4, 10, StatusDone},
		{"same week is current", 12, 12, StatusCurrent},
		{"future milestone is upcoming", 20, 10, StatusUpcoming},
		{"one week before", 12, 11, StatusUpcoming},
		{"one week after", 12, 13, StatusDone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MilestoneStatus(tt.milestoneWeek, tt.currentWeek)
			if got != tt.expected {
				t.Errorf("MilestoneStatus(%d, %d) = %v, expected %v",
					tt.milestoneWeek, tt.currentWeek, got, tt.expected)
			}
		})
	}
}

func TestMilestoneStatusTotality(t *testing.T) {
	for m := 1; m <= TotalWeeks; m++ {
		for w := 1; w <= TotalWeeks; w++ {
			switch MilestoneStatus(m, w) {
			case StatusDone, StatusCurrent, StatusUpcoming:
			default:
				t.Fatalf("MilestoneStatus(%d, %d) returned unknown status", m, w)
			}
		}
	}
}

func TestPhaseStatus(t *testing.T) {
	ps := Phases()
	if got := PhaseStatus(ps[0], 10); got != StatusDone {
		t.Errorf("expansion at week 10 = %v, expected done", got)
	}
	if got := PhaseStatus(ps[1], 10); got != StatusCurrent {
		t.Errorf("alignment at week 10 = %v, expected current", got)
	}
	if got := PhaseStatus(ps[2], 10); got != StatusUpcoming {
		t.Errorf("occlusion at week 10 = %v, expected upcoming", got)
	}
}

func TestRoadmap(t *testing.T) {
	cells := Roadmap(10)
	if len(cells) != TotalWeeks {
		t.Fatalf("roadmap has %d cells, expected %d", len(cells), TotalWeeks)
	}
	for _, cell := range cells {
		var expected Status
		switch {
		case cell.Week < 10:
			expected = StatusDone
		case cell.Week == 10:
			expected = StatusCurrent
		default:
			expected = StatusUpcoming
		}
		if cell.Status != expected {
			t.Errorf("week %d cell = %v, expected %v", cell.Week, cell.Status, expected)
		}
	}
}
