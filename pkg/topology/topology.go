// Package topology loads the cluster-topology input format from
// spec.md §6 into a fresh pkg/cluster.Cluster. Topology loading is a
// boundary concern (spec.md §1) implemented fully here so the module
// is runnable end to end.
package topology

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/clustersim/simga/pkg/cluster"
	"github.com/clustersim/simga/pkg/common/types"
	"github.com/clustersim/simga/pkg/simerrors"
)

const numColumns = 5

// ParseCSV reads the cluster topology format from spec.md §6:
// host_name, total_slots, total_memory_kb, cpu_factor, initial_status.
func ParseCSV(r io.Reader) (*cluster.Cluster, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	c := cluster.New()
	line := 0

	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &simerrors.TopologyParseError{Line: line, Err: err}
		}
		line++

		if len(record) == 1 && strings.TrimSpace(record[0]) == "" {
			continue
		}
		if len(record) != numColumns {
			return nil, &simerrors.TopologyParseError{Line: line, Err: errColumnCount(len(record))}
		}

		h, err := parseRow(record)
		if err != nil {
			return nil, &simerrors.TopologyParseError{Line: line, Err: err}
		}
		c.AddHost(h)
	}

	return c, nil
}

func parseRow(record []string) (*cluster.Host, error) {
	name := strings.TrimSpace(record[0])
	slots, err := strconv.Atoi(strings.TrimSpace(record[1]))
	if err != nil {
		return nil, err
	}
	mem, err := strconv.ParseInt(strings.TrimSpace(record[2]), 10, 64)
	if err != nil {
		return nil, err
	}
	factor, err := strconv.ParseFloat(strings.TrimSpace(record[3]), 64)
	if err != nil {
		return nil, err
	}
	status := types.HostStatus(strings.TrimSpace(record[4]))
	switch status {
	case types.HostOK, types.HostClosed, types.HostUnavail:
	default:
		status = types.HostOK
	}

	h := cluster.NewHost(name, slots, mem, factor)
	h.Status = status
	return h, nil
}

type parseErr string

func (e parseErr) Error() string { return string(e) }

func errColumnCount(got int) error {
	return parseErr("expected " + strconv.Itoa(numColumns) + " columns, got " + strconv.Itoa(got))
}
