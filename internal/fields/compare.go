package fields

import (
	"strconv"
	"strings"
)

// Compare orders two display strings. When both parse as numbers they are
// compared numerically, otherwise lexicographically.
func Compare(a, b string) int {
	x, errA := strconv.ParseFloat(strings.TrimSpace(a), 64)
	y, errB := strconv.ParseFloat(strings.TrimSpace(b), 64)
	if errA == nil && errB == nil {
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
		return 0
	}
	return strings.Compare(a, b)
}
