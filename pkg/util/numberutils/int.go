package numberutils

import "strconv"

// ToIntWithDefault converts s to an int, falling back to defaultVal when s is
// empty or not a number.
func ToIntWithDefault(s string, defaultVal int) int {
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	return defaultVal
}

// Clamp bounds num to [min, max].
func Clamp(num, min, max int) int {
	if num < min {
		return min
	}
	if num > max {
		return max
	}
	return num
}
