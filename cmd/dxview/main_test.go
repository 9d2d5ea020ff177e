/*
   Copyright 2025 The DIRPX Authors

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/dxview/dxcore/scenario"
)

const setScenario = `version: 1.0.0
name: set-promotion
source: [A, B, A, C]
stages:
  - {name: distinct, kind: set}
steps:
  - {op: remove, index: 0}
`

func writeScenario(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "dxview dev (scenario format 1.0.0)\n", out)
}

func TestRun_Text(t *testing.T) {
	out, _, err := execute(t, "run", writeScenario(t, setScenario))
	require.NoError(t, err)
	assert.Contains(t, out, "step 1: remove 1 at 0")
	assert.Contains(t, out, "move [A] 0->1")
	assert.Contains(t, out, "replace [A] -> [A] at 1")
	assert.Contains(t, out, "verified: ok")
}

func TestRun_JSON(t *testing.T) {
	out, _, err := execute(t, "run", "-o", "json", writeScenario(t, setScenario))
	require.NoError(t, err)

	var res scenario.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "set-promotion", res.Name)
	distinct, ok := res.Stage("distinct")
	require.True(t, ok)
	assert.Equal(t, []string{"B", "A", "C"}, distinct.Items)
}

func TestRun_YAML(t *testing.T) {
	out, _, err := execute(t, "run", "--output", "yaml", writeScenario(t, setScenario))
	require.NoError(t, err)
	assert.Contains(t, out, "name: set-promotion")
	assert.Contains(t, out, "move [A] 0->1")
}

func TestRun_Errors(t *testing.T) {
	path := writeScenario(t, setScenario)

	_, _, err := execute(t, "run", "--output", "xml", path)
	assert.ErrorContains(t, err, "--output")

	_, _, err = execute(t, "run")
	assert.Error(t, err)

	_, _, err = execute(t, "run", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, _, err = execute(t, "--log-level", "loud", "run", path)
	assert.ErrorContains(t, err, "--log-level")

	_, _, err = execute(t, "--log-format", "xml", "run", path)
	assert.ErrorContains(t, err, "--log-format")
}

func TestCheck(t *testing.T) {
	path := writeScenario(t, setScenario)
	out, _, err := execute(t, "check", path)
	require.NoError(t, err)
	assert.Equal(t, "ok: "+path+" (1 steps, 2 views)\n", out)

	bad := writeScenario(t, "version: 1.0.0\nstages: []\n")
	_, _, err = execute(t, "check", bad)
	assert.ErrorContains(t, err, "Stages: must not be empty")
}

func TestMetricsAndLogs(t *testing.T) {
	path := writeScenario(t, setScenario)
	_, stderr, err := execute(t, "--metrics", "--log-level", "debug", "--log-format", "json", "check", path)
	require.NoError(t, err)
	assert.Contains(t, stderr, `"msg":"running scenario"`)
	assert.Contains(t, stderr, "dxview.changes")
	assert.Contains(t, stderr, "dxview.change.items")
}
