package qc

// FlagKind identifies which detector produced a flag.
type FlagKind string

const (
	FlagOutOfRange   FlagKind = "out_of_range"
	FlagCritical     FlagKind = "critical"
	FlagDelta        FlagKind = "delta"
	FlagDecimalError FlagKind = "decimal_error"
	FlagUnitError    FlagKind = "unit_error"
)

// Severity grades a flag. Only critical-kind flags are critical severity.
type Severity string

const (
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Flag is a single QC finding attached to a lab result. Flags are computed
// once when a result is entered and frozen onto the record; they are never
// recomputed. All fields serialize unconditionally so a stored snapshot
// round-trips losslessly.
type Flag struct {
	Kind               FlagKind `json:"flag_type"`
	Severity           Severity `json:"severity"`
	TestName           string   `json:"test_name"`
	Value              float64  `json:"value"`
	ExpectedRange      string   `json:"expected_range"`
	Reason             string   `json:"reason"`
	RequiresResolution bool     `json:"requires_resolution"`
}

// HasUnresolvedCritical reports whether any flag in the list blocks release.
func HasUnresolvedCritical(flags []Flag) bool {
	for _, f := range flags {
		if f.RequiresResolution {
			return true
		}
	}
	return false
}
