package main

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mind-engage/mindengage-batches/internal/plan"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("TOPICS_FILE", "")
	t.Setenv("PLAN_WEEKS", "")
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestPlanCommand(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out")
	class := writeFile(t, dir, "class.csv", "name,score\nAda,18/20\nBob,15/20\nCy,14/20\nDee,10/20\nEd,3/20\nFay,50/40\n")
	broken := writeFile(t, dir, "broken.csv", "student,marks\nX,1/2\n")

	stdout, err := execute(t, "plan", class, broken, filepath.Join(dir, "missing.csv"),
		"--topic", "A", "--topic", "B", "--weeks", "2", "--out", out, "--xlsx")
	require.NoError(t, err)

	require.Contains(t, stdout, "6 students in 2 batches over 2 weeks (A, B)")
	require.Contains(t, stdout, "rejected file broken.csv")
	require.Contains(t, stdout, "missing.csv: unreadable")
	require.Contains(t, stdout, "warning: class.csv row 6")

	runs, err := os.ReadDir(out)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	runDir := filepath.Join(out, runs[0].Name())

	table, err := os.ReadFile(filepath.Join(runDir, "student_batch_topics.csv"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(table)), "\n")
	require.Equal(t, "Name,Batch,Week 1 Topic,Week 2 Topic", lines[0])
	require.Len(t, lines, 7)
	// Fay (125%) is High and lands alone in batch 2. Two batches over two
	// topics keep the same topic every week.
	require.Equal(t, "Ada,Batch 1,A,A", lines[1])
	require.Equal(t, "Fay,Batch 2,B,B", lines[6])

	zr, err := zip.OpenReader(filepath.Join(runDir, "batches.zip"))
	require.NoError(t, err)
	defer zr.Close()
	require.Len(t, zr.File, 2)

	require.FileExists(t, filepath.Join(runDir, "batches.xlsx"))
}

func TestPlanCommandRunFatal(t *testing.T) {
	dir := t.TempDir()
	empty := writeFile(t, dir, "topics.yaml", "topics: []\n")
	class := writeFile(t, dir, "class.csv", "name,score\nAda,18/20\n")

	_, err := execute(t, "plan", class, "--topics", empty, "--out", filepath.Join(dir, "out"))
	require.ErrorIs(t, err, plan.ErrConfiguration)

	_, err = execute(t, "plan", class, "--weeks", "0", "--out", filepath.Join(dir, "out"))
	require.ErrorIs(t, err, plan.ErrConfiguration)

	bad := writeFile(t, dir, "bad.csv", "name,score\nAda,1/0\n")
	_, err = execute(t, "plan", bad, "--out", filepath.Join(dir, "out"))
	require.ErrorIs(t, err, plan.ErrNoData)

	_, err = execute(t, "plan")
	require.Error(t, err)
}

func TestTopicsCommand(t *testing.T) {
	stdout, err := execute(t, "topics")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(stdout, "1. Python Data Types and Variables (Lists, Tuples, Sets, Dictionaries)\n"))

	stdout, err = execute(t, "topics", "--topic", "Loops")
	require.NoError(t, err)
	require.Equal(t, "1. Loops\n", stdout)
}
