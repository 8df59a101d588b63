package types

// Status is the traffic-light state of a KPI against its target
type Status string

const (
	StatusGreen Status = "green"
	StatusRed   Status = "red"
)

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}
