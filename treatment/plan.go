// Package treatment derives display state for a patient's clear-aligner
// treatment from the current week number and the fixed phase schedule.
// All operations are pure and total over integer weeks.
package treatment

// TotalWeeks is the length of the standard aligner treatment timeline.
const TotalWeeks = 24

// Milestone is a named sub-goal anchored to a specific week within a phase.
// LabelKey is an i18n message id resolved by the web layer.
type Milestone struct {
	LabelKey string `json:"labelKey"`
	Week     int    `json:"week"`
}

// Phase is one of the three contiguous week ranges partitioning the timeline.
// NameKey and DescriptionKey are i18n message ids.
type Phase struct {
	ID             int         `json:"id"`
	NameKey        string      `json:"nameKey"`
	DescriptionKey string      `json:"descriptionKey"`
	Icon           string      `json:"icon"`
	StartWeek      int         `json:"startWeek"`
	EndWeek        int         `json:"endWeek"`
	Milestones     []Milestone `json:"milestones"`
}

// Contains reports whether the week falls inside the phase's inclusive range.
func (p Phase) Contains(week int) bool {
	return week >= p.StartWeek && week <= p.EndWeek
}

// phases partitions weeks 1..TotalWeeks with no gaps or overlaps.
var phases = []Phase{
	{
		ID:             1,
		NameKey:        "treatment.phase.expansion.name",
		DescriptionKey: "treatment.phase.expansion.desc",
		Icon:           "📐",
		StartWeek:      1,
		EndWeek:        8,
		Milestones: []Milestone{
			{LabelKey: "treatment.milestone.firstFit", Week: 1},
			{LabelKey: "treatment.milestone.spacingScan", Week: 4},
			{LabelKey: "treatment.milestone.expansionReview", Week: 8},
		},
	},
	{
		ID:             2,
		NameKey:        "treatment.phase.alignment.name",
		DescriptionKey: "treatment.phase.alignment.desc",
		Icon:           "✨",
		StartWeek:      9,
		EndWeek:        16,
		Milestones: []Milestone{
			{LabelKey: "treatment.milestone.midpointCheck", Week: 12},
			{LabelKey: "treatment.milestone.alignmentReview", Week: 16},
		},
	},
	{
		ID:             3,
		NameKey:        "treatment.phase.occlusion.name",
		DescriptionKey: "treatment.phase.occlusion.desc",
		Icon:           "🦷",
		StartWeek:      17,
		EndWeek:        24,
		Milestones: []Milestone{
			{LabelKey: "treatment.milestone.biteCalibration", Week: 20},
			{LabelKey: "treatment.milestone.finalScan", Week: 24},
		},
	},
}

// Phases returns the full phase schedule in order.
func Phases() []Phase {
	out := make([]Phase, len(phases))
	copy(out, phases)
	return out
}

// PhaseFor returns the phase whose range contains currentWeek. Weeks outside
// 1..TotalWeeks fall back to the first phase; unseeded or invalid weeks are
// treated as the start of treatment rather than an error.
func PhaseFor(currentWeek int) Phase {
	for _, p := range phases {
		if p.Contains(currentWeek) {
			return p
		}
	}
	return phases[0]
}

// ProgressPercent returns the completion percentage for the week. The result
// is intentionally not clamped: a week beyond TotalWeeks reads above 100 and
// is left to display rounding, matching the portal's observed behavior.
func ProgressPercent(currentWeek int) float64 {
	return float64(currentWeek) / float64(TotalWeeks) * 100
}

// Status classifies a milestone or week cell relative to the current week.
type Status string

const (
	StatusDone     Status = "done"
	StatusCurrent  Status = "current"
	StatusUpcoming Status = "upcoming"
)

// MilestoneStatus classifies a milestone's week against the current week.
// Exactly one status holds for any pair of weeks.
func MilestoneStatus(milestoneWeek, currentWeek int) Status {
	switch {
	case currentWeek > milestoneWeek:
		return StatusDone
	case currentWeek == milestoneWeek:
		return StatusCurrent
	default:
		return StatusUpcoming
	}
}

// WeekStatus classifies an absolute week for the roadmap grid. The rule is
// the same three-way comparison used for milestones.
func WeekStatus(week, currentWeek int) Status {
	return MilestoneStatus(week, currentWeek)
}

// PhaseStatus classifies a whole phase: done once the current week has passed
// its range, current while inside it, upcoming before it.
func PhaseStatus(p Phase, currentWeek int) Status {
	switch {
	case currentWeek > p.EndWeek:
		return StatusDone
	case p.Contains(currentWeek):
		return StatusCurrent
	default:
		return StatusUpcoming
	}
}

// WeekCell is one cell of the week-by-week roadmap grid.
type WeekCell struct {
	Week   int    `json:"week"`
	Status Status `json:"status"`
}

// Roadmap builds the TotalWeeks-cell grid for the current week.
func Roadmap(currentWeek int) []WeekCell {
	cells := make([]WeekCell, 0, TotalWeeks)
	for w := 1; w <= TotalWeeks; w++ {
		cells = append(cells, WeekCell{Week: w, Status: WeekStatus(w, currentWeek)})
	}
	return cells
}
