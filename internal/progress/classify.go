package progress

import (
	"strings"

	"github.com/julianstephens/dailies/internal/constants"
)

// Kind says how an enabled item is resolved
type Kind int

const (
	KindPlain Kind = iota
	KindExerciseGroup
	KindHobbyGroup
)

func (k Kind) String() string {
	switch k {
	case KindExerciseGroup:
		return "exercise-group"
	case KindHobbyGroup:
		return "hobby-group"
	default:
		return "plain"
	}
}

// Classify maps an item id to its kind and, for groups, its period.
// exercises-afternoon shares the night group with exercises-night.
func Classify(id string) (Kind, constants.Period) {
	switch id {
	case constants.ExerciseGroupMorningID:
		return KindExerciseGroup, constants.PeriodMorning
	case constants.ExerciseGroupAfternoonID, constants.ExerciseGroupNightID:
		return KindExerciseGroup, constants.PeriodNight
	}
	if period, ok := strings.CutPrefix(id, constants.HobbyGroupPrefix); ok && period != "" {
		return KindHobbyGroup, constants.Period(period)
	}
	return KindPlain, ""
}
