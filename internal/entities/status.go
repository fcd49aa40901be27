package entities

import "fmt"

// Status is the position of a candidate in the hiring workflow of one
// opportunity. Values are a closed integer enum persisted as-is.
type Status int

const (
	StatusToProcess              Status = -1
	StatusContacted              Status = 0
	StatusInterview              Status = 1
	StatusHired                  Status = 2
	StatusRefusalBeforeInterview Status = 3
	StatusRefusalAfterInterview  Status = 4
)

func ParseStatus(value int) (Status, error) {
	s := Status(value)
	switch s {
	case StatusToProcess, StatusContacted, StatusInterview, StatusHired,
		StatusRefusalBeforeInterview, StatusRefusalAfterInterview:
		return s, nil
	}
	return 0, fmt.Errorf("unknown association status %v", value)
}

func (s Status) Known() bool {
	_, err := ParseStatus(int(s))
	return err == nil
}

func (s Status) String() string {
	switch s {
	case StatusToProcess:
		return "toProcess"
	case StatusContacted:
		return "contacted"
	case StatusInterview:
		return "interview"
	case StatusHired:
		return "hired"
	case StatusRefusalBeforeInterview:
		return "refusalBeforeInterview"
	case StatusRefusalAfterInterview:
		return "refusalAfterInterview"
	}
	return fmt.Sprintf("status(%d)", int(s))
}
