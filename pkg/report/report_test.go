package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlushWritesEnabledFilesOnly(t *testing.T) {
	dir := t.TempDir()
	r := New(dir, true, true, false)
	r.RecordJobmart(JobmartRow{StartTimeMs: 1, FinishTimeMs: 2, QueueName: "default", ExecHostname: "h1", NumSlots: 1, JobID: 1, PendTimeMs: 1, RunTimeMs: 1})
	r.RecordSlotsInUse(0, 4)
	r.RecordPending(0, 2)
	r.RecordJobSubmit(0, 1) // jobSubmitEnabled is false, should be a no-op

	require.NoError(t, r.Flush())

	assert.FileExists(t, filepath.Join(dir, "jobmart_raw_replica.txt"))
	assert.FileExists(t, filepath.Join(dir, "performance.txt"))
	assert.FileExists(t, filepath.Join(dir, "pending.txt"))
	assert.NoFileExists(t, filepath.Join(dir, "job_submit.txt"))
}

func TestWriteSummary(t *testing.T) {
	dir := t.TempDir()
	err := WriteSummary(dir, Summary{NumSubmittedJobs: 3, NumSuccessfulJobs: 2, NumFailedJobs: 1})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "summary.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "num_submitted_jobs: 3")
}

func TestAppendEpochRecordWritesHeaderOnce(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, AppendEpochRecord(dir, EpochRecord{Generation: 0, BestFitness: -1.5, MeanFitness: -2.0}))
	require.NoError(t, AppendEpochRecord(dir, EpochRecord{Generation: 1, BestFitness: -1.0, MeanFitness: -1.8}))

	data, err := os.ReadFile(filepath.Join(dir, "records.csv"))
	require.NoError(t, err)
	lines := splitLines(string(data))
	require.Len(t, lines, 3) // header + 2 rows
	assert.Equal(t, "generation,best_fitness,mean_fitness", lines[0])
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i, c := range s {
		if c == '\n' {
			if i > start {
				lines = append(lines, s[start:i])
			}
			start = i + 1
		}
	}
	return lines
}
