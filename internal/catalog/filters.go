package catalog

import "fmt"

// Kind is one of the survey dimensions used to narrow the plan catalog.
type Kind string

const (
	KindSex         Kind = "sex"
	KindGoal        Kind = "goal"
	KindEnvironment Kind = "environment"
	KindLevel       Kind = "level"
	KindFrequency   Kind = "frequency"
)

// Kinds returns every filter kind in survey order.
func Kinds() []Kind {
	return []Kind{KindSex, KindGoal, KindEnvironment, KindLevel, KindFrequency}
}

// Value is a single filter value in the catalog service's wire format.
type Value string

const (
	SexMale   Value = "male"
	SexFemale Value = "female"

	GoalMuscleGain    Value = "muscle_gain"
	GoalWeightLoss    Value = "weight_loss"
	GoalImproveHealth Value = "improve_health"

	EnvironmentGym            Value = "gym"
	EnvironmentHouseAndStreet Value = "house_and_street"

	LevelBeginner Value = "beginner"
	LevelMiddle   Value = "middle"
	LevelAdvanced Value = "advanced"

	FrequencyTwice  Value = "twice"
	FrequencyThrice Value = "thrice"
	FrequencyFour   Value = "four"
)

// Values returns the kind's full value domain in canonical declaration order.
func (k Kind) Values() []Value {
	switch k {
	case KindSex:
		return []Value{SexMale, SexFemale}
	case KindGoal:
		return []Value{GoalMuscleGain, GoalWeightLoss, GoalImproveHealth}
	case KindEnvironment:
		return []Value{EnvironmentGym, EnvironmentHouseAndStreet}
	case KindLevel:
		return []Value{LevelBeginner, LevelMiddle, LevelAdvanced}
	case KindFrequency:
		return []Value{FrequencyTwice, FrequencyThrice, FrequencyFour}
	}
	return nil
}

// ButtonKey is the translation key of the keyboard button for a kind's value.
func ButtonKey(kind Kind, value Value) string {
	return fmt.Sprintf("%s_%s_button", kind, value)
}

// Selection holds at most one chosen value per filter kind. Unset kinds are
// nil and ignored by catalog queries.
type Selection struct {
	Sex         *Value `json:"sex,omitempty"`
	Goal        *Value `json:"goal,omitempty"`
	Environment *Value `json:"environment,omitempty"`
	Level       *Value `json:"level,omitempty"`
	Frequency   *Value `json:"frequency,omitempty"`
}

func (s *Selection) slot(kind Kind) **Value {
	switch kind {
	case KindSex:
		return &s.Sex
	case KindGoal:
		return &s.Goal
	case KindEnvironment:
		return &s.Environment
	case KindLevel:
		return &s.Level
	case KindFrequency:
		return &s.Frequency
	}
	return nil
}

// Get returns the chosen value for kind, if any.
func (s *Selection) Get(kind Kind) (Value, bool) {
	slot := s.slot(kind)
	if slot == nil || *slot == nil {
		return "", false
	}
	return **slot, true
}

// Set records the value for kind, replacing any previous choice.
func (s *Selection) Set(kind Kind, value Value) {
	if slot := s.slot(kind); slot != nil {
		v := value
		*slot = &v
	}
}

// Unset clears the choice for kind.
func (s *Selection) Unset(kind Kind) {
	if slot := s.slot(kind); slot != nil {
		*slot = nil
	}
}

// UnsetFrom clears kind and every kind after it in survey order. Used when a
// step is re-asked so that stale downstream choices never constrain the
// catalog query.
func (s *Selection) UnsetFrom(kind Kind) {
	clearing := false
	for _, k := range Kinds() {
		if k == kind {
			clearing = true
		}
		if clearing {
			s.Unset(k)
		}
	}
}

// Complete reports whether every filter kind has a chosen value.
func (s *Selection) Complete() bool {
	for _, k := range Kinds() {
		if _, ok := s.Get(k); !ok {
			return false
		}
	}
	return true
}
