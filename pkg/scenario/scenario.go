// Package scenario implements the Scenario component from spec.md
// §4.5 (C6): a finite, lazily-consumed source of timestamped
// submission entries, plus the CSV parser for the external scenario
// file format from spec.md §6. Parsing is a boundary concern (spec.md
// §1 "out of scope", referenced only by its interface) but is
// implemented fully here so the module is runnable end to end.
package scenario

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/clustersim/simga/pkg/job"
	"github.com/clustersim/simga/pkg/simerrors"
)

// Scenario is a finite lazy sequence of job.Entry, strictly
// non-decreasing by SubmitTimeMs (spec.md §4.5).
type Scenario struct {
	entries []job.Entry
	next    int
}

// New wraps an already-ordered slice of entries as a Scenario.
func New(entries []job.Entry) *Scenario {
	return &Scenario{entries: entries}
}

// Count returns the number of entries not yet popped.
func (s *Scenario) Count() int { return len(s.entries) - s.next }

// PopNext returns the next entry, or false if the scenario is
// exhausted.
func (s *Scenario) PopNext() (job.Entry, bool) {
	if s.next >= len(s.entries) {
		return job.Entry{}, false
	}
	e := s.entries[s.next]
	s.next++
	return e, true
}

// Peek returns the next entry without consuming it, or false if the
// scenario is exhausted. Used by the engine to seed current_time at
// construction (spec.md §4.6).
func (s *Scenario) Peek() (job.Entry, bool) {
	if s.next >= len(s.entries) {
		return job.Entry{}, false
	}
	return s.entries[s.next], true
}

// columns, in the fixed order spec.md §6 mandates.
const numColumns = 6

// ParseCSV reads the scenario entry format from spec.md §6:
// submit_time_ms, slot_required, mem_required_kb, cpu_time_ms,
// non_cpu_time_ms, queue_name. Entries must be non-decreasing by
// submit time; a decrease is a ScenarioParseError.
func ParseCSV(r io.Reader) (*Scenario, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	var entries []job.Entry
	line := 0
	var lastSubmit int64 = -1

	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &simerrors.ScenarioParseError{Line: line, Err: err}
		}
		line++

		if len(record) == 1 && strings.TrimSpace(record[0]) == "" {
			continue // blank line
		}
		if len(record) != numColumns {
			return nil, &simerrors.ScenarioParseError{Line: line, Err: errColumnCount(len(record))}
		}

		entry, err := parseRow(record)
		if err != nil {
			return nil, &simerrors.ScenarioParseError{Line: line, Err: err}
		}
		if entry.SubmitTimeMs < lastSubmit {
			return nil, &simerrors.ScenarioParseError{Line: line, Err: errNonMonotonic(entry.SubmitTimeMs, lastSubmit)}
		}
		lastSubmit = entry.SubmitTimeMs
		entries = append(entries, entry)
	}

	return New(entries), nil
}

func parseRow(record []string) (job.Entry, error) {
	submit, err := strconv.ParseInt(strings.TrimSpace(record[0]), 10, 64)
	if err != nil {
		return job.Entry{}, err
	}
	slots, err := strconv.Atoi(strings.TrimSpace(record[1]))
	if err != nil {
		return job.Entry{}, err
	}
	mem, err := strconv.ParseInt(strings.TrimSpace(record[2]), 10, 64)
	if err != nil {
		return job.Entry{}, err
	}
	cpu, err := strconv.ParseInt(strings.TrimSpace(record[3]), 10, 64)
	if err != nil {
		return job.Entry{}, err
	}
	nonCPU, err := strconv.ParseInt(strings.TrimSpace(record[4]), 10, 64)
	if err != nil {
		return job.Entry{}, err
	}
	queue := strings.TrimSpace(record[5])

	return job.Entry{
		SubmitTimeMs: submit,
		SlotRequired: slots,
		MemRequired:  mem,
		CPUTimeMs:    cpu,
		NonCPUTimeMs: nonCPU,
		QueueName:    queue,
	}, nil
}

type parseErr string

func (e parseErr) Error() string { return string(e) }

func errColumnCount(got int) error {
	return parseErr("expected " + strconv.Itoa(numColumns) + " columns, got " + strconv.Itoa(got))
}

func errNonMonotonic(submit, last int64) error {
	return parseErr("submit_time_ms " + strconv.FormatInt(submit, 10) +
		" is before previous entry's " + strconv.FormatInt(last, 10))
}
