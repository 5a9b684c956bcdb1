package vitals

import (
	"math"
	"strconv"
)

// Clinical defaults used whenever a threshold is not usably configured.
const (
	DefaultSystolicHigh  = 180
	DefaultDiastolicHigh = 120
	DefaultSystolicLow   = 90
	DefaultDiastolicLow  = 60
)

// CrisisThresholds holds the four independently configurable crisis cutoffs.
// Systolic and diastolic excursions are independently sufficient for a
// crisis: either axis at or beyond its cutoff classifies the reading.
type CrisisThresholds struct {
	SystolicHigh  int
	DiastolicHigh int
	SystolicLow   int
	DiastolicLow  int
}

// DefaultThresholds returns the hardcoded clinical defaults.
func DefaultThresholds() CrisisThresholds {
	return CrisisThresholds{
		SystolicHigh:  DefaultSystolicHigh,
		DiastolicHigh: DefaultDiastolicHigh,
		SystolicLow:   DefaultSystolicLow,
		DiastolicLow:  DefaultDiastolicLow,
	}
}

// ThresholdsFromStrings builds thresholds from raw configured strings.
// Each value is parsed as an integer; a value that is absent, non-numeric,
// or parses to zero reverts to its clinical default, never to zero.
func ThresholdsFromStrings(systolicHigh, diastolicHigh, systolicLow, diastolicLow string) CrisisThresholds {
	return CrisisThresholds{
		SystolicHigh:  parseThreshold(systolicHigh, DefaultSystolicHigh),
		DiastolicHigh: parseThreshold(diastolicHigh, DefaultDiastolicHigh),
		SystolicLow:   parseThreshold(systolicLow, DefaultSystolicLow),
		DiastolicLow:  parseThreshold(diastolicLow, DefaultDiastolicLow),
	}
}

func parseThreshold(raw string, fallback int) int {
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed == 0 {
		return fallback
	}
	return parsed
}

// IsHypertensiveCrisis reports whether the reading is at or above the high
// cutoff on either axis. A nil or non-finite argument classifies as false:
// a missing reading is indistinguishable from a normal one here, which can
// suppress a warranted alert when upstream capture drops a value. That
// fail-open contract is intentional and relied on by callers that classify
// inline while rendering.
func (t CrisisThresholds) IsHypertensiveCrisis(systolic, diastolic *float64) bool {
	if !finite(systolic) || !finite(diastolic) {
		return false
	}
	return *systolic >= float64(t.SystolicHigh) || *diastolic >= float64(t.DiastolicHigh)
}

// IsHypotensiveCrisis reports whether the reading is at or below the low
// cutoff on either axis. Same fail-open contract as IsHypertensiveCrisis.
func (t CrisisThresholds) IsHypotensiveCrisis(systolic, diastolic *float64) bool {
	if !finite(systolic) || !finite(diastolic) {
		return false
	}
	return *systolic <= float64(t.SystolicLow) || *diastolic <= float64(t.DiastolicLow)
}

func finite(v *float64) bool {
	return v != nil && !math.IsNaN(*v) && !math.IsInf(*v, 0)
}
