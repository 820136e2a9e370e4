package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	color.NoColor = true
}

// testEnv points every command at a fresh data directory
func testEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	cfg := "data_dir: " + filepath.Join(dir, "data") + "\ntimezone: UTC\nnotifications: false\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0644))
	return cfgPath
}

func run(t *testing.T, cfgPath string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd("test")
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", cfgPath}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func mustRun(t *testing.T, cfgPath string, args ...string) string {
	t.Helper()
	out, err := run(t, cfgPath, args...)
	require.NoError(t, err, out)
	return out
}

func TestAddListDone(t *testing.T) {
	cfg := testEnv(t)

	out := mustRun(t, cfg, "add", "Review", "notes", "@school", "~45m")
	assert.Contains(t, out, "Added")
	assert.Contains(t, out, "Review notes")

	mustRun(t, cfg, "add", "Call the plumber")

	out = mustRun(t, cfg, "ls", "-q")
	assert.Contains(t, out, "Inbox")
	assert.Contains(t, out, "Call the plumber")
	assert.Contains(t, out, "@School")
	assert.Contains(t, out, "45m")

	out = mustRun(t, cfg, "done", "review notes", "--time", "40m", "--note", "went fine")
	assert.Contains(t, out, "Done Review notes in 40m")

	out = mustRun(t, cfg, "ls", "-q")
	assert.NotContains(t, out, "Review notes")

	out = mustRun(t, cfg, "history")
	assert.Contains(t, out, "1 done, 40m")
	assert.Contains(t, out, "Review notes")
	assert.Contains(t, out, "went fine")
}

func TestDoneSubtasksCompletesParent(t *testing.T) {
	cfg := testEnv(t)
	mustRun(t, cfg, "add", "Move flat @life ; pack books ; book van")

	_, err := run(t, cfg, "done", "Move flat")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "one at a time")

	out := mustRun(t, cfg, "done", "Move flat", "1")
	assert.Contains(t, out, "Done pack books")
	assert.NotContains(t, out, "All of")

	out = mustRun(t, cfg, "done", "Move flat", "2", "-t", "1h")
	assert.Contains(t, out, "All of Move flat is done")

	out = mustRun(t, cfg, "show", "Move flat")
	assert.Contains(t, out, "status:   completed")
	assert.Contains(t, out, "[x] book van")
}

func TestFixCorrectsRetrospective(t *testing.T) {
	cfg := testEnv(t)
	mustRun(t, cfg, "add", "Water plants @life")
	mustRun(t, cfg, "done", "Water plants", "-t", "10m")

	out := mustRun(t, cfg, "fix", "Water plants", "-t", "25m", "-n", "took longer")
	assert.Contains(t, out, "Updated")

	out = mustRun(t, cfg, "show", "Water plants")
	assert.Contains(t, out, "in 25m")
	assert.Contains(t, out, "took longer")

	_, err := run(t, cfg, "fix", "nothing like this")
	assert.Error(t, err)
}

func TestAddValidation(t *testing.T) {
	cfg := testEnv(t)
	_, err := run(t, cfg, "add", "Something", "@nosuchtag")
	assert.Error(t, err)

	_, err = run(t, cfg, "done", "missing")
	assert.ErrorContains(t, err, "no task matches")
}

func TestRemove(t *testing.T) {
	cfg := testEnv(t)
	mustRun(t, cfg, "add", "Old errand")
	out := mustRun(t, cfg, "rm", "Old errand")
	assert.Contains(t, out, "Deleted Old errand")

	out = mustRun(t, cfg, "ls", "-q")
	assert.Contains(t, out, "Nothing here")
}

func TestTagCommands(t *testing.T) {
	cfg := testEnv(t)

	out := mustRun(t, cfg, "tag", "ls")
	assert.Contains(t, out, "defaults")
	assert.Contains(t, out, "@School")

	_, err := run(t, cfg, "tag", "rename", "School", "Uni")
	assert.ErrorContains(t, err, "default tag")

	mustRun(t, cfg, "tag", "add", "Garden", "--color", "emerald")
	mustRun(t, cfg, "tag", "rename", "Garden", "Allotment")
	mustRun(t, cfg, "tag", "color", "Allotment", "amber")

	out = mustRun(t, cfg, "tag", "ls")
	assert.NotContains(t, out, "@School")
	assert.Contains(t, out, "@Allotment")
	assert.Contains(t, out, "amber")

	_, err = run(t, cfg, "tag", "color", "Allotment", "beige")
	assert.ErrorContains(t, err, "unknown color")

	mustRun(t, cfg, "tag", "rm", "Allotment")
	out = mustRun(t, cfg, "tag", "ls")
	assert.Contains(t, out, "@School")
}

func TestQuoteCommands(t *testing.T) {
	cfg := testEnv(t)

	_, err := run(t, cfg, "quote", "rm", "1")
	assert.ErrorContains(t, err, "default quotes")

	mustRun(t, cfg, "quote", "add", "One", "thing", "at", "a", "time")
	mustRun(t, cfg, "quote", "add", "Rest", "is", "part", "of", "it")
	mustRun(t, cfg, "quote", "pick", "2")

	out := mustRun(t, cfg, "quote", "ls")
	assert.Contains(t, out, "mode: fixed")
	assert.Contains(t, out, "*  2. Rest is part of it")

	out = mustRun(t, cfg, "quote")
	assert.Contains(t, out, "Rest is part of it")

	mustRun(t, cfg, "quote", "edit", "2", "Rest", "counts")
	mustRun(t, cfg, "quote", "rm", "1")
	out = mustRun(t, cfg, "quote")
	assert.Contains(t, out, "Rest counts")

	mustRun(t, cfg, "quote", "mode", "random")
	out = mustRun(t, cfg, "quote", "ls")
	assert.Contains(t, out, "mode: random")

	_, err = run(t, cfg, "quote", "mode", "sometimes")
	assert.Error(t, err)
}

func TestExportImport(t *testing.T) {
	src := testEnv(t)
	mustRun(t, src, "tag", "add", "Garden")
	mustRun(t, src, "add", "Sow beans @garden ~20m")
	mustRun(t, src, "quote", "add", "Slow is smooth")

	file := filepath.Join(t.TempDir(), "backup.yaml")
	mustRun(t, src, "export", "-o", file)
	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Sow beans")

	dst := testEnv(t)
	out := mustRun(t, dst, "import", file)
	assert.Contains(t, out, "Imported 1 tasks, 1 tags, 1 quotes")

	out = mustRun(t, dst, "ls")
	assert.Contains(t, out, "@Garden")
	assert.Contains(t, out, "Sow beans")
	assert.Contains(t, out, "Slow is smooth")

	out = mustRun(t, dst, "export", "--format", "json")
	assert.Contains(t, out, `"title": "Sow beans"`)
}

func TestVersion(t *testing.T) {
	out := mustRun(t, testEnv(t), "version")
	assert.Equal(t, "slowly test\n", out)
}
