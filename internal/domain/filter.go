package domain

import (
	"fmt"
	"strings"
)

// FilterMode selects which tasks are shown. Exactly one mode is active.
type FilterMode int

const (
	FilterAll FilterMode = iota
	FilterCompleted
	FilterUncompleted
)

// FilterModes lists every mode in display order.
var FilterModes = []FilterMode{FilterAll, FilterCompleted, FilterUncompleted}

func (m FilterMode) String() string {
	switch m {
	case FilterAll:
		return "all"
	case FilterCompleted:
		return "completed"
	case FilterUncompleted:
		return "uncompleted"
	default:
		return fmt.Sprintf("FilterMode(%d)", int(m))
	}
}

// IsValid reports whether m is one of the declared modes.
func (m FilterMode) IsValid() bool {
	return m >= FilterAll && m <= FilterUncompleted
}

// Next cycles All -> Completed -> Uncompleted -> All.
func (m FilterMode) Next() FilterMode {
	return FilterModes[(int(m)+1)%len(FilterModes)]
}

// Keep reports whether task passes the mode's predicate.
func (m FilterMode) Keep(task Task) bool {
	switch m {
	case FilterCompleted:
		return task.IsCompleted
	case FilterUncompleted:
		return !task.IsCompleted
	default:
		return true
	}
}

// ParseFilterMode parses a mode name, ignoring case and surrounding space.
func ParseFilterMode(s string) (FilterMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return FilterAll, nil
	case "completed":
		return FilterCompleted, nil
	case "uncompleted":
		return FilterUncompleted, nil
	default:
		return FilterAll, fmt.Errorf("unknown filter %q: must be one of all, completed, uncompleted", s)
	}
}
