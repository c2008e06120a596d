package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name string, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestBench(t *testing.T) {
	regexes := writeFile(t, "regexes.txt", "hello", "", "world")
	inputs := writeFile(t, "inputs.txt", "hello world", "nothing", "world")

	out, err := run(t, "bench", regexes, inputs, "--workers", "2", "-r", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "1\t[0 1]\n")
	assert.Contains(t, out, "3\t[1]\n")
	assert.NotContains(t, out, "2\t")
	assert.Contains(t, out, "2 lines matched of 3\n")
	assert.Contains(t, out, "2 regexes, 2 atoms, 0 unfiltered\n")

	out, err = run(t, "bench", regexes, inputs, "-q", "--engine", "stdlib", "--no-prune", "--gate")
	require.NoError(t, err)
	assert.NotContains(t, out, "1\t[0 1]")
	assert.Contains(t, out, "2 lines matched of 3\n")
}

func TestBenchMetrics(t *testing.T) {
	regexes := writeFile(t, "regexes.txt", "hello", "world", ".*")
	inputs := writeFile(t, "inputs.txt", "hello")

	out, err := run(t, "bench", regexes, inputs, "-q", "--metrics")
	require.NoError(t, err)
	assert.Contains(t, out, "# TYPE refilter_regexes gauge\n")
	assert.Contains(t, out, "refilter_regexes 3\n")
	assert.Contains(t, out, "refilter_unfiltered_regexes 1\n")
	assert.Contains(t, out, "refilter_scans_total 1\n")
}

func TestBenchErrors(t *testing.T) {
	regexes := writeFile(t, "regexes.txt", "hello", "(unclosed")
	inputs := writeFile(t, "inputs.txt", "hello")

	_, err := run(t, "bench", regexes, inputs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "regex 1")

	good := writeFile(t, "good.txt", "hello")
	_, err = run(t, "bench", good, inputs, "--engine", "nope")
	require.Error(t, err)

	_, err = run(t, "bench", good, inputs, "-r", "0")
	require.Error(t, err)

	_, err = run(t, "bench", good, filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)

	_, err = run(t, "bench", good)
	require.Error(t, err)

	_, err = run(t, "bench", good, inputs, "--min-atom-len", "0")
	require.Error(t, err)
}

func TestUA(t *testing.T) {
	agents := writeFile(t, "agents.txt",
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.6099.109 Safari/537.36",
		"Mozilla/5.0 (iPhone; CPU iPhone OS 17_1_2 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.1.2 Mobile/15E148 Safari/604.1",
		"Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)",
		"curl/8.4.0",
	)

	out, err := run(t, "ua", "../../uaparser/testdata/regexes.yaml", agents)
	require.NoError(t, err)
	lines := strings.Split(out, "\n")
	require.GreaterOrEqual(t, len(lines), 5)
	assert.Equal(t, "Chrome 120.0.6099.109 | Windows 10 | -", lines[0])
	assert.Equal(t, "Mobile Safari 17.1.2 | iOS 17.1.2 | iPhone (Apple iPhone)", lines[1])
	assert.Equal(t, "Googlebot 2.1 | - | Spider (Spider Desktop)", lines[2])
	assert.Equal(t, "- | - | -", lines[3])
	assert.Contains(t, lines[4], "4 user agents in ")

	out, err = run(t, "ua", "../../uaparser/testdata/regexes.yaml", agents, "-q", "-r", "2")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "8 user agents in "), out)
}

func TestExplain(t *testing.T) {
	regexes := writeFile(t, "regexes.txt", "hello", "world+", `x\d`)

	out, err := run(t, "explain", regexes)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "regexes:\n"), out)
	assert.Contains(t, out, `"hello"`)
	assert.Contains(t, out, "atoms:\n")
	assert.Contains(t, out, "unfiltered: [2]")

	out, err = run(t, "explain", regexes, "--match", "*orl*")
	require.NoError(t, err)
	assert.Contains(t, out, "world+ => ")
	assert.NotContains(t, out, "hello")
	assert.Contains(t, out, "1 of 3 regexes\n")

	_, err = run(t, "explain", regexes, "--match", "[")
	require.Error(t, err)
}

func TestFormatResultVersions(t *testing.T) {
	assert.Equal(t, "Linux", withVersion("Linux", "", "3"))
	assert.Equal(t, "Android 14", withVersion("Android", "14", "", "7"))
	assert.Equal(t, "Chrome 1.2.3.4", withVersion("Chrome", "1", "2", "3", "4"))
}
