package dashboard

import "github.com/secmon-lab/qaboard/pkg/domain/types"

// Selection picks one of the two feedback lists
type Selection int

const (
	SelectionValuable Selection = iota
	SelectionNotValuable
)

func (s Selection) String() string {
	if s == SelectionNotValuable {
		return "not_valuable"
	}
	return "valuable"
}

// toggle removes item when present and appends it otherwise. The input is not modified.
func toggle[T comparable](list []T, item T) []T {
	out := make([]T, 0, len(list)+1)
	found := false
	for _, v := range list {
		if v == item {
			found = true
			continue
		}
		out = append(out, v)
	}
	if !found {
		out = append(out, item)
	}
	return out
}

func contains(list []types.MetricName, m types.MetricName) bool {
	for _, v := range list {
		if v == m {
			return true
		}
	}
	return false
}
