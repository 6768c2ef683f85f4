// Copyright (C) 2022  Plexgen Authors
//
// SPDX-License-Identifier: Apache-2.0

package testenv_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plexgen/plexgen/pkg/testenv"
)

const coverageIndex = `<!DOCTYPE html>
<html>
<head><title>Coverage report</title></head>
<body>
<div id="header">
  <h1>Coverage report:
    <span class="pc_cov">87%</span>
  </h1>
</div>
<table class="index">
  <tr><td>plexgen/charset.py</td><td class="right">95%</td></tr>
  <tr><td>plexgen/automaton.py</td><td class="right">79%</td></tr>
</table>
</body>
</html>
`

func TestParseCoverageIndex(t *testing.T) {
	t.Parallel()
	percent, err := testenv.ParseCoverageIndex(strings.NewReader(coverageIndex))
	require.NoError(t, err)
	assert.Equal(t, 87.0, percent)
}

func TestParseCoverageIndexFractional(t *testing.T) {
	t.Parallel()
	doc := `<html><body><span class="pc_cov">93.4%</span></body></html>`
	percent, err := testenv.ParseCoverageIndex(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, 93.4, percent)
}

func TestParseCoverageIndexMissing(t *testing.T) {
	t.Parallel()
	doc := `<html><body><p>no coverage here</p></body></html>`
	_, err := testenv.ParseCoverageIndex(strings.NewReader(doc))
	assert.Error(t, err)
}

// writeCoverageReport fakes a coverage run by dropping a report index
// into the environment work dir.
func writeCoverageReport(t *testing.T, workdir, envname string) {
	t.Helper()
	htmldir := filepath.Join(workdir, envname, "htmlcov")
	require.NoError(t, os.MkdirAll(htmldir, 0o777))
	require.NoError(t, os.WriteFile(filepath.Join(htmldir, "index.html"), []byte(coverageIndex), 0o666))
}

func coverRunnerConfig(t *testing.T, failUnder string) *testenv.Config {
	t.Helper()
	cfg, err := testenv.Parse([]byte(`
environments:
  cover:
    basepython: sh
    commands: ["true"]
    cover:
      package: plexgen
      branch: true
      html_dir: htmlcov
      fail_under: ` + failUnder + "\n"))
	require.NoError(t, err)
	return cfg
}

func TestCoverGate(t *testing.T) {
	base := t.TempDir()
	work := filepath.Join(base, ".plexenv")
	writeCoverageReport(t, work, "cover")

	// The report's 87% passes an 80% gate but fails a "95%" one.
	r := &testenv.Runner{Config: coverRunnerConfig(t, "80"), BaseDir: base}
	assert.NoError(t, r.RunEnv(context.Background(), "cover"))

	r = &testenv.Runner{Config: coverRunnerConfig(t, `"95%"`), BaseDir: base}
	err := r.RunEnv(context.Background(), "cover")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "below fail_under")
}

func TestCoverGateMissingReport(t *testing.T) {
	r := &testenv.Runner{Config: coverRunnerConfig(t, "95"), BaseDir: t.TempDir()}
	assert.Error(t, r.RunEnv(context.Background(), "cover"))
}

func TestCoverGateDisabled(t *testing.T) {
	// fail_under 0 disables the gate, so a missing report is fine.
	r := &testenv.Runner{Config: coverRunnerConfig(t, "0"), BaseDir: t.TempDir()}
	assert.NoError(t, r.RunEnv(context.Background(), "cover"))
}
