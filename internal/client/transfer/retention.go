package transfer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/sealdrop/internal/common"
)

// Unit is a retention duration unit. One epoch is taken to be one day.
type Unit string

const (
	Days   Unit = "days"
	Weeks  Unit = "weeks"
	Months Unit = "months"
	Years  Unit = "years"
)

var epochsPerUnit = map[Unit]uint64{
	Days:   1,
	Weeks:  7,
	Months: 30,
	Years:  365,
}

// RetentionEpochs converts a duration to storage epochs, never less than one.
func RetentionEpochs(value uint64, unit Unit) (uint64, error) {
	per, ok := epochsPerUnit[unit]
	if !ok {
		return 0, fmt.Errorf("%w: unknown duration unit %q", common.ErrValidation, unit)
	}
	return max(value*per, 1), nil
}

var unitSuffixes = map[string]Unit{
	"d": Days, "day": Days, "days": Days,
	"w": Weeks, "week": Weeks, "weeks": Weeks,
	"m": Months, "month": Months, "months": Months,
	"y": Years, "year": Years, "years": Years,
}

// ParseRetention reads durations such as "2w", "3 months" or "1y". A bare
// number counts days.
func ParseRetention(s string) (uint64, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	i := strings.IndexFunc(s, func(r rune) bool { return r < '0' || r > '9' })
	num, suffix := s, ""
	if i >= 0 {
		num, suffix = s[:i], strings.TrimSpace(s[i:])
	}
	if num == "" {
		return 0, fmt.Errorf("%w: invalid duration %q", common.ErrValidation, s)
	}
	v, err := strconv.ParseUint(num, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid duration %q", common.ErrValidation, s)
	}
	unit := Days
	if suffix != "" {
		u, ok := unitSuffixes[suffix]
		if !ok {
			return 0, fmt.Errorf("%w: unknown duration unit %q", common.ErrValidation, suffix)
		}
		unit = u
	}
	return RetentionEpochs(v, unit)
}
