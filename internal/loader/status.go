package loader

// Status is the lifecycle position of a loaded view.
type Status int

// Loader states. Idle is only observed before the first load.
const (
	StatusIdle Status = iota
	StatusLoading
	StatusPopulated
	StatusNotFound
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusPopulated:
		return "populated"
	case StatusNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}
