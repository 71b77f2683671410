package selection

import "fmt"

// Stage is the step of the selection dialog.
type Stage int

const (
	StageClosed Stage = iota
	StageSearching
	StageDatePicking
	StageConfirming
)

func (s Stage) String() string {
	switch s {
	case StageClosed:
		return "closed"
	case StageSearching:
		return "searching"
	case StageDatePicking:
		return "date_picking"
	case StageConfirming:
		return "confirming"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

func (s Stage) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
