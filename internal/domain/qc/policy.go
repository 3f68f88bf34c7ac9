package qc

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/rs/zerolog"
)

// ReferenceRange is the clinically normal interval for a test.
type ReferenceRange struct {
	TestName string
	Low      float64
	High     float64
	Units    string
}

// CriticalThreshold bounds the life-threatening region for a test. Values at
// or beyond either bound are critical.
type CriticalThreshold struct {
	TestName     string
	LowCritical  float64
	HighCritical float64
	Units        string
}

// DeltaRule is the largest acceptable change between two consecutive results
// of the same test for the same patient.
type DeltaRule struct {
	TestName string
	MaxDelta float64
	Units    string
}

// PolicyStore holds the clinical policy tables, keyed by test name. It is
// populated once by LoadPolicies and read-only afterwards, so it is safe to
// share across concurrent validations without locking.
type PolicyStore struct {
	ranges    map[string]ReferenceRange
	criticals map[string]CriticalThreshold
	deltas    map[string]DeltaRule
}

// NewPolicyStore builds a store from in-memory policy rows, for callers that
// do not source their tables from CSV files.
func NewPolicyStore(ranges []ReferenceRange, criticals []CriticalThreshold, deltas []DeltaRule) *PolicyStore {
	store := &PolicyStore{
		ranges:    make(map[string]ReferenceRange, len(ranges)),
		criticals: make(map[string]CriticalThreshold, len(criticals)),
		deltas:    make(map[string]DeltaRule, len(deltas)),
	}
	for _, r := range ranges {
		store.ranges[r.TestName] = r
	}
	for _, c := range criticals {
		store.criticals[c.TestName] = c
	}
	for _, d := range deltas {
		store.deltas[d.TestName] = d
	}
	return store
}

// Range returns the reference range configured for a test, if any.
func (p *PolicyStore) Range(testName string) (ReferenceRange, bool) {
	r, ok := p.ranges[testName]
	return r, ok
}

// Critical returns the critical threshold configured for a test, if any.
func (p *PolicyStore) Critical(testName string) (CriticalThreshold, bool) {
	c, ok := p.criticals[testName]
	return c, ok
}

// Delta returns the delta rule configured for a test, if any.
func (p *PolicyStore) Delta(testName string) (DeltaRule, bool) {
	d, ok := p.deltas[testName]
	return d, ok
}

// LoadPolicies reads the three policy CSVs (reference_ranges.csv,
// critical_values.csv, delta_rules.csv) from contentDir. A missing or
// malformed file degrades that table to empty with a warning; loading never
// fails, so an engine can always be constructed.
func LoadPolicies(contentDir string, logger zerolog.Logger) *PolicyStore {
	store := &PolicyStore{
		ranges:    make(map[string]ReferenceRange),
		criticals: make(map[string]CriticalThreshold),
		deltas:    make(map[string]DeltaRule),
	}

	forEachRow(filepath.Join(contentDir, "reference_ranges.csv"), logger, func(row map[string]string) bool {
		low, err1 := strconv.ParseFloat(row["low"], 64)
		high, err2 := strconv.ParseFloat(row["high"], 64)
		if row["test_name"] == "" || err1 != nil || err2 != nil {
			return false
		}
		store.ranges[row["test_name"]] = ReferenceRange{
			TestName: row["test_name"],
			Low:      low,
			High:     high,
			Units:    row["units"],
		}
		return true
	})

	forEachRow(filepath.Join(contentDir, "critical_values.csv"), logger, func(row map[string]string) bool {
		low, err1 := strconv.ParseFloat(row["low_critical"], 64)
		high, err2 := strconv.ParseFloat(row["high_critical"], 64)
		if row["test_name"] == "" || err1 != nil || err2 != nil {
			return false
		}
		store.criticals[row["test_name"]] = CriticalThreshold{
			TestName:     row["test_name"],
			LowCritical:  low,
			HighCritical: high,
			Units:        row["units"],
		}
		return true
	})

	forEachRow(filepath.Join(contentDir, "delta_rules.csv"), logger, func(row map[string]string) bool {
		maxDelta, err := strconv.ParseFloat(row["max_delta"], 64)
		if row["test_name"] == "" || err != nil {
			return false
		}
		store.deltas[row["test_name"]] = DeltaRule{
			TestName: row["test_name"],
			MaxDelta: maxDelta,
			Units:    row["units"],
		}
		return true
	})

	logger.Info().
		Int("reference_ranges", len(store.ranges)).
		Int("critical_values", len(store.criticals)).
		Int("delta_rules", len(store.deltas)).
		Msg("clinical policies loaded")

	return store
}

// forEachRow streams a headed CSV file, calling fn with each row keyed by
// column name. Any failure is logged at warn level and the remaining rows
// (or the whole file) are skipped.
func forEachRow(path string, logger zerolog.Logger, fn func(row map[string]string) bool) {
	f, err := os.Open(path)
	if err != nil {
		logger.Warn().Str("path", path).Err(err).Msg("policy table not loaded")
		return
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		logger.Warn().Str("path", path).Err(err).Msg("policy table has no header")
		return
	}

	for {
		rec, err := r.Read()
		if err == io.EOF {
			return
		}
		if err != nil {
			logger.Warn().Str("path", path).Err(err).Msg("policy table row unreadable, skipping rest")
			return
		}
		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(rec) {
				row[col] = rec[i]
			}
		}
		if !fn(row) {
			logger.Warn().Str("path", path).Msg("malformed policy row skipped")
		}
	}
}
