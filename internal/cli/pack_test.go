package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Misfitd4/b99pack/internal/b99"
	"github.com/Misfitd4/b99pack/internal/catalog"
	"github.com/Misfitd4/b99pack/internal/desid"
	"github.com/Misfitd4/b99pack/internal/testutil"
)

// writePackInputs writes a small SSF export and playback log pair:
// fragment 100 is a gated note released at clock 20 (6 ops), fragment
// 200 a modulator-only blip (2 ops).
func writePackInputs(t *testing.T) (ssfPath, logPath string) {
	t.Helper()
	dir := t.TempDir()

	ssf := testutil.SSFCSV([]testutil.CSVRow{
		{HashID: 100, Clock: 0, Set: map[string]int64{"freq1": 1000, "gate1": 1, "atk1": 2, "sus1": 9, "vol": 15}},
		{HashID: 100, Clock: 20, Set: map[string]int64{"gate1": 0}},
		{HashID: 200, Clock: 0, Set: map[string]int64{"freq3": 512, "test3": 1}},
	})
	log := testutil.LogCSV([]desid.LogRow{
		{Clock: 0, HashID: 100, Voice: 1},
		{Clock: 50, HashID: 200, Voice: 3},
	})

	return testutil.WriteZstd(t, dir, "tune.ssf.csv.zst", ssf),
		testutil.WriteZstd(t, dir, "tune.log.csv.zst", log)
}

func TestPackWritesBundle(t *testing.T) {
	ssfPath, logPath := writePackInputs(t)
	outPath := filepath.Join(t.TempDir(), "tune.b99")

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewPackCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--ssf", ssfPath, "--log", logPath, "--out", outPath})

	err := cmd.Execute()
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "beta99 bundle written to "+outPath)
	assert.Contains(t, buf.String(), "SSFs: 2")
	assert.Contains(t, buf.String(), "Triggers: 2")

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	bundle, err := b99.DecodeBinary(data)
	require.NoError(t, err)

	require.Len(t, bundle.SSFs, 2)
	assert.Equal(t, int64(100), bundle.SSFs[0].HashID)
	assert.Equal(t, int64(20), bundle.SSFs[0].Duration)
	assert.Len(t, bundle.SSFs[0].Ops, 6)
	assert.Equal(t, int64(200), bundle.SSFs[1].HashID)
	assert.Len(t, bundle.SSFs[1].Ops, 2)

	require.Len(t, bundle.Triggers, 2)
	assert.Equal(t, b99.Trigger{Delta: 0, SSFIndex: 0, Voice: 1}, bundle.Triggers[0])
	assert.Equal(t, b99.Trigger{Delta: 50, SSFIndex: 1, Voice: 3}, bundle.Triggers[1])
}

func TestPackJSONFormat(t *testing.T) {
	ssfPath, logPath := writePackInputs(t)
	outPath := filepath.Join(t.TempDir(), "tune.b99")

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "json"}
	cmd := NewPackCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--ssf", ssfPath, "--log", logPath, "--out", outPath})

	err := cmd.Execute()
	require.NoError(t, err)

	var resp struct {
		Status string     `json:"status"`
		Data   PackResult `json:"data"`
	}
	err = json.Unmarshal(buf.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, outPath, resp.Data.Output)
	assert.Equal(t, 2, resp.Data.SSFCount)
	assert.Equal(t, 2, resp.Data.TriggerCount)
	assert.Equal(t, 8, resp.Data.TotalOps)
	assert.NotZero(t, resp.Data.SizeBytes)
}

func TestPackWritesDump(t *testing.T) {
	ssfPath, logPath := writePackInputs(t)
	dir := t.TempDir()
	outPath := filepath.Join(dir, "tune.b99")
	dumpPath := filepath.Join(dir, "tune.json")

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewPackCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--ssf", ssfPath, "--log", logPath, "--out", outPath, "--json", dumpPath})

	err := cmd.Execute()
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "debug dump written to "+dumpPath)

	// The dump must describe the same bundle as the binary.
	binData, err := os.ReadFile(outPath)
	require.NoError(t, err)
	bundle, err := b99.DecodeBinary(binData)
	require.NoError(t, err)
	want, err := bundle.EncodeDump()
	require.NoError(t, err)

	got, err := os.ReadFile(dumpPath)
	require.NoError(t, err)
	assert.Equal(t, string(want), string(got))
}

func TestPackRecordsInCatalog(t *testing.T) {
	ssfPath, logPath := writePackInputs(t)
	dir := t.TempDir()
	outPath := filepath.Join(dir, "tune.b99")
	catPath := filepath.Join(dir, "bundles.db")

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewPackCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--ssf", ssfPath, "--log", logPath, "--out", outPath, "--catalog", catPath})

	err := cmd.Execute()
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "cataloged as ")

	cat, err := catalog.Open(catPath)
	require.NoError(t, err)
	defer func() { _ = cat.Close() }()

	entries, err := cat.List(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, outPath, entries[0].Path)
	assert.Equal(t, 2, entries[0].HashCount)
	assert.Equal(t, 2, entries[0].SSFCount)
	assert.Equal(t, 2, entries[0].TriggerCount)
	assert.Equal(t, 8, entries[0].TotalOps)
	assert.Contains(t, buf.String(), entries[0].ID)
}

func TestPackMaxOpsChunks(t *testing.T) {
	ssfPath, logPath := writePackInputs(t)
	outPath := filepath.Join(t.TempDir(), "tune.b99")

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewPackCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--ssf", ssfPath, "--log", logPath, "--out", outPath, "--max-ops", "2"})

	err := cmd.Execute()
	require.NoError(t, err)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	bundle, err := b99.DecodeBinary(data)
	require.NoError(t, err)

	// Fragment 100's 6 ops split into 3 records; fragment 200 stays whole.
	require.Len(t, bundle.SSFs, 4)
	for _, ssf := range bundle.SSFs[:3] {
		assert.Equal(t, int64(100), ssf.HashID)
		assert.Len(t, ssf.Ops, 2)
	}
	assert.Equal(t, int64(200), bundle.SSFs[3].HashID)

	// One trigger per chunk, delta only on the first.
	require.Len(t, bundle.Triggers, 4)
	assert.Equal(t, b99.Trigger{Delta: 0, SSFIndex: 0, Voice: 1}, bundle.Triggers[0])
	assert.Equal(t, b99.Trigger{Delta: 0, SSFIndex: 1, Voice: 1}, bundle.Triggers[1])
	assert.Equal(t, b99.Trigger{Delta: 0, SSFIndex: 2, Voice: 1}, bundle.Triggers[2])
	assert.Equal(t, b99.Trigger{Delta: 50, SSFIndex: 3, Voice: 3}, bundle.Triggers[3])
}

func TestPackMissingInput(t *testing.T) {
	_, logPath := writePackInputs(t)
	outPath := filepath.Join(t.TempDir(), "tune.b99")

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewPackCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--ssf", filepath.Join(t.TempDir(), "missing.zst"), "--log", logPath, "--out", outPath})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, buf.String(), "Error [E002]")

	// No partial output.
	_, statErr := os.Stat(outPath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestPackBadInput(t *testing.T) {
	dir := t.TempDir()
	ssfPath := testutil.WriteZstd(t, dir, "bad.ssf.csv.zst", "hashid,clock,freq1\n100,0,440\n")
	logPath := testutil.WriteZstd(t, dir, "tune.log.csv.zst", "clock,hashid,voice\n0,100,1\n")
	outPath := filepath.Join(dir, "tune.b99")

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewPackCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--ssf", ssfPath, "--log", logPath, "--out", outPath})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, buf.String(), "Error [E003]")
	assert.Contains(t, buf.String(), "missing columns")
}

func TestPackUnknownHash(t *testing.T) {
	dir := t.TempDir()
	ssf := testutil.SSFCSV([]testutil.CSVRow{
		{HashID: 100, Clock: 0, Set: map[string]int64{"freq1": 440}},
	})
	log := testutil.LogCSV([]desid.LogRow{
		{Clock: 0, HashID: 999, Voice: 1},
	})
	ssfPath := testutil.WriteZstd(t, dir, "tune.ssf.csv.zst", ssf)
	logPath := testutil.WriteZstd(t, dir, "tune.log.csv.zst", log)
	outPath := filepath.Join(dir, "tune.b99")

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewPackCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--ssf", ssfPath, "--log", logPath, "--out", outPath})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, buf.String(), "Error [E004]")
	assert.Contains(t, buf.String(), "999")

	_, statErr := os.Stat(outPath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestPackUnknownHashJSON(t *testing.T) {
	dir := t.TempDir()
	ssf := testutil.SSFCSV([]testutil.CSVRow{
		{HashID: 100, Clock: 0, Set: map[string]int64{"freq1": 440}},
	})
	log := testutil.LogCSV([]desid.LogRow{
		{Clock: 16, HashID: 999, Voice: 2},
	})
	ssfPath := testutil.WriteZstd(t, dir, "tune.ssf.csv.zst", ssf)
	logPath := testutil.WriteZstd(t, dir, "tune.log.csv.zst", log)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "json"}
	cmd := NewPackCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--ssf", ssfPath, "--log", logPath, "--out", filepath.Join(dir, "tune.b99")})

	err := cmd.Execute()
	require.Error(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeUnknownHash, resp.Error.Code)
}

func TestPackRequiresFlags(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewPackCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag")
}

func TestPackVerboseSummary(t *testing.T) {
	ssfPath, logPath := writePackInputs(t)
	outPath := filepath.Join(t.TempDir(), "tune.b99")

	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text", Verbose: true}
	cmd := NewPackCommand(rootOpts)
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs([]string{"--ssf", ssfPath, "--log", logPath, "--out", outPath})

	err := cmd.Execute()
	require.NoError(t, err)
	assert.Contains(t, errOut.String(), "Loaded 3 register row(s), 2 log event(s)")
	assert.Contains(t, errOut.String(), "8 op(s)")
}
