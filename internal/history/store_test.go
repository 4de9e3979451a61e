package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRecord(sha string, runNumber int) Record {
	return Record{
		CommitSHA:     sha,
		CommitMessage: "commit " + sha,
		RunNumber:     runNumber,
		RunID:         fmt.Sprintf("id-%d", runNumber),
		Timestamp:     "2026-08-26T10:00:00Z",
		ReportURL:     "runs/" + sha + "/index.html",
		Status:        StatusSuccess,
		Duration:      "02:03",
	}
}

func TestMerge_PrependsNovelSHA(t *testing.T) {
	s := NewStore(10)
	s.Merge(testRecord("aaa", 1))
	s.Merge(testRecord("bbb", 2))

	require.Equal(t, 2, s.Len())
	assert.Equal(t, "bbb", s.Records()[0].CommitSHA)
	assert.Equal(t, "aaa", s.Records()[1].CommitSHA)
}

func TestMerge_ReplacesInPlace(t *testing.T) {
	s := NewStore(10)
	s.Merge(testRecord("aaa", 1))
	s.Merge(testRecord("bbb", 2))
	s.Merge(testRecord("ccc", 3))

	// Re-run of the middle commit keeps its slot, not recency order.
	rerun := testRecord("bbb", 4)
	rerun.Status = StatusFailure
	s.Merge(rerun)

	require.Equal(t, 3, s.Len())
	recs := s.Records()
	assert.Equal(t, "ccc", recs[0].CommitSHA)
	assert.Equal(t, "bbb", recs[1].CommitSHA)
	assert.Equal(t, 4, recs[1].RunNumber)
	assert.Equal(t, StatusFailure, recs[1].Status)
	assert.Equal(t, "aaa", recs[2].CommitSHA)
}

func TestMerge_EvictsOldestAtCapacity(t *testing.T) {
	s := NewStore(10)
	for i := 0; i < 10; i++ {
		s.Merge(testRecord(fmt.Sprintf("sha-%d", i), i))
	}
	require.Equal(t, 10, s.Len())

	s.Merge(testRecord("new", 99))

	require.Equal(t, 10, s.Len())
	recs := s.Records()
	assert.Equal(t, "new", recs[0].CommitSHA)
	assert.Equal(t, "sha-1", recs[9].CommitSHA, "oldest record evicted")
	assert.NotContains(t, s.SHAs(), "sha-0")
}

func TestRecords_ReturnsCopy(t *testing.T) {
	s := NewStore(10)
	s.Merge(testRecord("aaa", 1))

	recs := s.Records()
	recs[0].CommitSHA = "mutated"

	assert.Equal(t, "aaa", s.Records()[0].CommitSHA)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "history.json")

	s := NewStore(10)
	s.Merge(testRecord("aaa", 1))
	rec := testRecord("bbb", 2)
	rec.Status = StatusUnknown
	rec.Duration = NoDuration
	s.Merge(rec)
	require.NoError(t, s.Save(path))

	loaded, err := Load(path, 10)
	require.NoError(t, err)
	assert.Equal(t, s.Records(), loaded.Records())
}

func TestSave_WritesIndentedArray(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "history.json")

	s := NewStore(10)
	s.Merge(testRecord("aaa", 1))
	require.NoError(t, s.Save(path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "[\n  {\n    \"commit_sha\": \"aaa\",")
}

func TestSave_EmptyStoreIsEmptyArray(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "history.json")

	require.NoError(t, NewStore(10).Save(path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var records []Record
	require.NoError(t, json.Unmarshal(raw, &records))
	assert.Empty(t, records)
}

func TestLoad_MissingFileIsEmptyStore(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "nope.json"), 10)
	require.NoError(t, err)
	assert.Equal(t, 0, s.Len())
}

func TestLoad_CorruptFileRecoversFromBackup(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "history.json")

	backup := []Record{testRecord("aaa", 1), testRecord("bbb", 2), testRecord("ccc", 3)}
	raw, err := json.MarshalIndent(backup, "", "  ")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path+".bak", raw, 0o644))
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	s, err := Load(path, 10)
	require.NoError(t, err)
	require.Equal(t, 3, s.Len())
	assert.Equal(t, backup, s.Records())
}

func TestLoad_CorruptFileAndBackupResetsToEmpty(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "history.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	require.NoError(t, os.WriteFile(path+".bak", []byte("also garbage"), 0o644))

	s, err := Load(path, 10)
	require.NoError(t, err)
	assert.Equal(t, 0, s.Len())
}

func TestLoad_CorruptFileWithoutBackupResetsToEmpty(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "history.json")
	require.NoError(t, os.WriteFile(path, []byte("[{"), 0o644))

	s, err := Load(path, 10)
	require.NoError(t, err)
	assert.Equal(t, 0, s.Len())
}

func TestLoad_ClipsOversizedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "history.json")

	var records []Record
	for i := 0; i < 15; i++ {
		records = append(records, testRecord(fmt.Sprintf("sha-%d", i), i))
	}
	raw, err := json.Marshal(records)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, raw, 0o644))

	s, err := Load(path, 10)
	require.NoError(t, err)
	assert.Equal(t, 10, s.Len())
	assert.Equal(t, "sha-0", s.Records()[0].CommitSHA)
}

func TestSave_SnapshotsPreviousState(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "history.json")

	s := NewStore(10)
	s.Merge(testRecord("aaa", 1))
	require.NoError(t, s.Save(path))

	s.Merge(testRecord("bbb", 2))
	require.NoError(t, s.Save(path))

	var fromBackup []Record
	raw, err := os.ReadFile(path + ".bak")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &fromBackup))
	require.Len(t, fromBackup, 1)
	assert.Equal(t, "aaa", fromBackup[0].CommitSHA)
}

func TestParseStatus(t *testing.T) {
	cases := []struct {
		in         string
		want       Status
		recognized bool
	}{
		{"success", StatusSuccess, true},
		{"SUCCESS", StatusSuccess, true},
		{"Failure", StatusFailure, true},
		{"cancelled", StatusUnknown, true},
		{"skipped", StatusUnknown, true},
		{"", StatusUnknown, false},
		{"exploded", StatusUnknown, false},
	}
	for _, tc := range cases {
		got, ok := ParseStatus(tc.in)
		assert.Equal(t, tc.want, got, "input %q", tc.in)
		assert.Equal(t, tc.recognized, ok, "input %q", tc.in)
	}
}
