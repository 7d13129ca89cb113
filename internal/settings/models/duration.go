package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	dErrors "confgate/pkg/domain-errors"
)

// Duration is the maximum-idle-duration attribute. Its canonical textual
// form is the clock encoding "HH:MM:SS" (fractional seconds kept when
// present). ParseDuration additionally accepts Go duration syntax such as
// "10m" for operator convenience; serialization always emits the clock form.
type Duration time.Duration

// maxIdleHours bounds both accepted encodings so every accepted value
// serializes and re-parses without overflow.
const maxIdleHours = 1_000_000

// ParseDuration converts the textual encoding of an idle duration.
// "HH:MM" is shorthand for zero seconds; hours may exceed two digits.
// Negative durations are rejected.
func ParseDuration(v string) (Duration, error) {
	if strings.TrimSpace(v) == "" {
		return 0, dErrors.New(dErrors.CodeValidation, "idle must not be blank")
	}
	if strings.Contains(v, ":") {
		return parseClock(v)
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, dErrors.Newf(dErrors.CodeValidation, "idle: invalid duration %q", v)
	}
	if d < 0 {
		return 0, dErrors.New(dErrors.CodeValidation, "idle must not be negative")
	}
	if d > maxIdleHours*time.Hour {
		return 0, dErrors.Newf(dErrors.CodeValidation, "idle: duration %q out of range", v)
	}
	return Duration(d), nil
}

func parseClock(v string) (Duration, error) {
	invalid := func() error {
		return dErrors.Newf(dErrors.CodeValidation, "idle: invalid duration %q, expected HH:MM:SS", v)
	}

	parts := strings.Split(v, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, invalid()
	}

	hours, err := strconv.ParseUint(parts[0], 10, 64)
	if err != nil || parts[0] == "" {
		return 0, invalid()
	}
	if hours > maxIdleHours {
		return 0, dErrors.Newf(dErrors.CodeValidation, "idle: duration %q out of range", v)
	}

	minutes, err := strconv.ParseUint(parts[1], 10, 64)
	if err != nil || len(parts[1]) == 0 || len(parts[1]) > 2 || minutes > 59 {
		return 0, invalid()
	}

	var seconds uint64
	var fracNanos int64
	if len(parts) == 3 {
		secPart := parts[2]
		if i := strings.IndexByte(secPart, '.'); i >= 0 {
			fracDigits := secPart[i+1:]
			secPart = secPart[:i]
			if fracDigits == "" || len(fracDigits) > 9 {
				return 0, invalid()
			}
			f, err := strconv.ParseUint(fracDigits, 10, 64)
			if err != nil {
				return 0, invalid()
			}
			// Scale to nanoseconds: ".5" means 500ms, not 5ns.
			for i := len(fracDigits); i < 9; i++ {
				f *= 10
			}
			fracNanos = int64(f)
		}
		seconds, err = strconv.ParseUint(secPart, 10, 64)
		if err != nil || len(secPart) == 0 || len(secPart) > 2 || seconds > 59 {
			return 0, invalid()
		}
	}

	total := time.Duration((hours*60+minutes)*60+seconds) * time.Second
	return Duration(total + time.Duration(fracNanos)), nil
}

// String serializes the duration in the canonical clock form.
func (d Duration) String() string {
	n := time.Duration(d)
	sign := ""
	if n < 0 {
		sign, n = "-", -n
	}

	h := n / time.Hour
	n -= h * time.Hour
	m := n / time.Minute
	n -= m * time.Minute
	s := n / time.Second
	frac := n - s*time.Second

	out := fmt.Sprintf("%s%02d:%02d:%02d", sign, h, m, s)
	if frac != 0 {
		out += "." + strings.TrimRight(fmt.Sprintf("%09d", frac), "0")
	}
	return out
}
