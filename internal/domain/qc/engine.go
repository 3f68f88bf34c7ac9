package qc

import (
	"fmt"
	"math"
)

// Engine runs the QC detector set against a single measurement. Detectors
// are pure functions over the policy store: no state, no I/O, so one engine
// serves arbitrarily many concurrent callers.
type Engine struct {
	policies *PolicyStore
}

func NewEngine(policies *PolicyStore) *Engine {
	return &Engine{policies: policies}
}

// Validate runs all detectors against a value and returns the combined
// flags in a fixed order: critical, range, delta (when a previous value is
// supplied), then clerical checks. The order is part of the contract —
// downstream consumers display flags in this order. An empty list means the
// value is unremarkable. Tests with no configured policy simply produce no
// flags for the corresponding checks.
func (e *Engine) Validate(testName string, value float64, previousValue *float64) []Flag {
	var flags []Flag

	if f := e.CheckCriticalValue(testName, value); f != nil {
		flags = append(flags, *f)
	}
	if f := e.CheckReferenceRange(testName, value); f != nil {
		flags = append(flags, *f)
	}
	if previousValue != nil {
		if f := e.CheckDelta(testName, value, *previousValue); f != nil {
			flags = append(flags, *f)
		}
	}
	flags = append(flags, e.CheckClericalErrors(testName, value)...)

	return flags
}

// CheckReferenceRange flags values strictly outside the reference interval.
// Boundary values are in range.
func (e *Engine) CheckReferenceRange(testName string, value float64) *Flag {
	ref, ok := e.policies.Range(testName)
	if !ok {
		return nil
	}
	if value >= ref.Low && value <= ref.High {
		return nil
	}
	expected := fmt.Sprintf("%g-%g %s", ref.Low, ref.High, ref.Units)
	return &Flag{
		Kind:          FlagOutOfRange,
		Severity:      SeverityWarning,
		TestName:      testName,
		Value:         value,
		ExpectedRange: expected,
		Reason: fmt.Sprintf("%s value %g %s is outside reference range (%s)",
			testName, value, ref.Units, expected),
		RequiresResolution: false,
	}
}

// CheckCriticalValue flags values at or beyond a critical bound. The bounds
// are inclusive, unlike the reference range: at the edges of a
// life-threatening interval the value counts as critical.
func (e *Engine) CheckCriticalValue(testName string, value float64) *Flag {
	crit, ok := e.policies.Critical(testName)
	if !ok {
		return nil
	}
	if value > crit.LowCritical && value < crit.HighCritical {
		return nil
	}
	return &Flag{
		Kind:     FlagCritical,
		Severity: SeverityCritical,
		TestName: testName,
		Value:    value,
		ExpectedRange: fmt.Sprintf("Critical below %g or above %g %s",
			crit.LowCritical, crit.HighCritical, crit.Units),
		Reason: fmt.Sprintf("CRITICAL: %s value %g %s requires immediate attention",
			testName, value, crit.Units),
		RequiresResolution: true,
	}
}

// CheckDelta flags a change from the previous result that exceeds the
// configured maximum.
func (e *Engine) CheckDelta(testName string, currentValue, previousValue float64) *Flag {
	rule, ok := e.policies.Delta(testName)
	if !ok {
		return nil
	}
	actual := math.Abs(currentValue - previousValue)
	if actual <= rule.MaxDelta {
		return nil
	}
	return &Flag{
		Kind:          FlagDelta,
		Severity:      SeverityWarning,
		TestName:      testName,
		Value:         currentValue,
		ExpectedRange: fmt.Sprintf("Max delta: %g %s", rule.MaxDelta, rule.Units),
		Reason: fmt.Sprintf("%s changed by %.2f %s (previous: %g, current: %g). Max expected: %g",
			testName, actual, rule.Units, previousValue, currentValue, rule.MaxDelta),
		RequiresResolution: false,
	}
}

// CheckClericalErrors looks for data-entry mistakes relative to the
// reference range: decimal-point shifts (e.g. 135 entered instead of 13.5)
// and unit-scale confusion (e.g. mg/dL vs g/dL). The decimal checks are
// mutually exclusive; the unit check is independent, so a value above 50x
// the upper bound carries both a decimal_error and a unit_error flag.
func (e *Engine) CheckClericalErrors(testName string, value float64) []Flag {
	ref, ok := e.policies.Range(testName)
	if !ok {
		return nil
	}
	expected := fmt.Sprintf("%g-%g %s", ref.Low, ref.High, ref.Units)

	var flags []Flag
	if value > ref.High*5 {
		corrected := value / 10
		flags = append(flags, Flag{
			Kind:          FlagDecimalError,
			Severity:      SeverityWarning,
			TestName:      testName,
			Value:         value,
			ExpectedRange: expected,
			Reason: fmt.Sprintf("Possible decimal point error: %g %s is extremely high. Did you mean %g?",
				value, ref.Units, corrected),
			RequiresResolution: false,
		})
	} else if value < ref.Low/5 && value > 0 {
		corrected := value * 10
		flags = append(flags, Flag{
			Kind:          FlagDecimalError,
			Severity:      SeverityWarning,
			TestName:      testName,
			Value:         value,
			ExpectedRange: expected,
			Reason: fmt.Sprintf("Possible decimal point error: %g %s is extremely low. Did you mean %g?",
				value, ref.Units, corrected),
			RequiresResolution: false,
		})
	}

	if value > ref.High*50 {
		flags = append(flags, Flag{
			Kind:          FlagUnitError,
			Severity:      SeverityWarning,
			TestName:      testName,
			Value:         value,
			ExpectedRange: expected,
			Reason: fmt.Sprintf("Possible unit error: %g is much higher than expected for %s. Check unit conversion.",
				value, ref.Units),
			RequiresResolution: false,
		})
	}

	return flags
}
