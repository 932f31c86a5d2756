// Package levels tracks which levels of an ordered catalog a player may play,
// the best result achieved on each, and which level is current.
package levels

import "fmt"

type State uint8

const (
	StateLocked State = iota
	StateUnlocked
)

func (s State) String() string {
	switch s {
	case StateLocked:
		return "locked"
	case StateUnlocked:
		return "unlocked"
	default:
		return "unknown"
	}
}

// Result is the outcome of passing a level. Results are totally ordered and the
// integer value is the persisted code.
type Result int

const (
	ResultNotPassed Result = iota
	ResultLow
	ResultMiddle
	ResultHigh
)

func (r Result) String() string {
	switch r {
	case ResultNotPassed:
		return "not_passed"
	case ResultLow:
		return "low"
	case ResultMiddle:
		return "middle"
	case ResultHigh:
		return "high"
	default:
		return "unknown"
	}
}

// Valid reports whether r is one of the known results.
func (r Result) Valid() bool {
	return r >= ResultNotPassed && r <= ResultHigh
}

// ParseResult parses either the name or the integer code of a result.
func ParseResult(s string) (Result, error) {
	switch s {
	case "not_passed", "0":
		return ResultNotPassed, nil
	case "low", "1":
		return ResultLow, nil
	case "middle", "2":
		return ResultMiddle, nil
	case "high", "3":
		return ResultHigh, nil
	default:
		return ResultNotPassed, fmt.Errorf("unknown result: %s", s)
	}
}

// Level is one entry of the catalog. ContentPath is never interpreted here;
// it is handed to the ContentLoader as is.
type Level struct {
	Name        string `json:"name"`
	ContentPath string `json:"contentPath"`
	State       State  `json:"state"`
	Result      Result `json:"result"`
}

// Copy returns a copy of the level.
func (l *Level) Copy() *Level {
	c := *l
	return &c
}

func (l *Level) unlock() {
	l.State = StateUnlocked
	l.Result = ResultNotPassed
}

// CopyLevels deep-copies a list of levels.
func CopyLevels(levels []*Level) []*Level {
	out := make([]*Level, len(levels))
	for i, l := range levels {
		out[i] = l.Copy()
	}
	return out
}
