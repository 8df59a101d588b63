package types

// Severity is the color band of a risk matrix cell
type Severity string

const (
	SeverityGreen  Severity = "green"
	SeverityYellow Severity = "yellow"
	SeverityOrange Severity = "orange"
	SeverityRed    Severity = "red"
)

// Score returns likelihood × impact
func Score(l Likelihood, i Impact) int {
	return int(l) * int(i)
}

// SeverityOf maps a risk score to its band: ≤4 green, ≤9 yellow, ≤16 orange, else red.
func SeverityOf(score int) Severity {
	switch {
	case score <= 4:
		return SeverityGreen
	case score <= 9:
		return SeverityYellow
	case score <= 16:
		return SeverityOrange
	default:
		return SeverityRed
	}
}

// String returns the string representation of Severity
func (s Severity) String() string {
	return string(s)
}
