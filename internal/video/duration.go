package video

import (
	"regexp"
	"strconv"
)

// YouTube reports durations as ISO-8601 strings (e.g. "PT1M30S"). Date
// components beyond weeks never appear in practice, so years/months are
// deliberately unsupported and treated as malformed.
var isoDurationMatcher = regexp.MustCompile(`^P(?:(\d+)W)?(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?)?$`)

var isoDurationUnitSeconds = []int{
	7 * 24 * 60 * 60, // weeks
	24 * 60 * 60,     // days
	60 * 60,          // hours
	60,               // minutes
	1,                // seconds
}

// ParseISODuration converts a well-formed ISO-8601 duration string in to
// integer seconds. Malformed or empty input is coerced to 0 rather than
// raising an error.
func ParseISODuration(duration string) int {
	groups := isoDurationMatcher.FindStringSubmatch(duration)
	if groups == nil {
		return 0
	}

	matchedAny := false
	total := 0
	for i, group := range groups[1:] {
		if group == "" {
			continue
		}

		value, err := strconv.Atoi(group)
		if err != nil {
			return 0
		}

		matchedAny = true
		total += value * isoDurationUnitSeconds[i]
	}

	// "P" and "PT" satisfy the pattern but carry no components.
	if !matchedAny {
		return 0
	}

	return total
}
