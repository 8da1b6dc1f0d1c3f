package player

import "math"

// clampLevel limits a volume level to [0, 1].
func clampLevel(level float64) float64 {
	if level < 0 {
		return 0
	}
	if level > 1 {
		return 1
	}
	return level
}

// levelToVolume converts a 0.0-1.0 level to beep's base-2 Volume value and
// a silent flag. 1.0 -> 0, 0.5 -> -1, 0.25 -> -2, 0 -> silent.
func levelToVolume(level float64) (volume float64, silent bool) {
	level = clampLevel(level)
	if level <= 0 {
		return -10, true
	}
	if level >= 1 {
		return 0, false
	}
	return math.Log2(level), false
}
