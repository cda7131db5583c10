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

func run(t *testing.T, root string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--root", root}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestGenerateListDelete(t *testing.T) {
	root := t.TempDir()
	out, err := run(t, root, "generate",
		"--type", "certificate",
		"--name", "Ramesh Patel",
		"--details", "Gold ring",
		"--gross", "5.2",
		"--net", "5",
		"--purity", "22K")
	require.NoError(t, err, out)
	path := strings.TrimSpace(out)
	assert.Equal(t, filepath.Join(root, "documents", "KAPIL_SONI_APP", "invoices", "certificate", "ramesh_patel_certificate.pdf"), path)
	assert.FileExists(t, path)

	out, err = run(t, root, "list", "--type", "certificate")
	require.NoError(t, err)
	assert.Contains(t, out, path)
	out, err = run(t, root, "list", "--query", "suresh")
	require.NoError(t, err)
	assert.NotContains(t, out, path)

	out, err = run(t, root, "records")
	require.NoError(t, err)
	assert.Contains(t, out, "Ramesh Patel")
	assert.Contains(t, out, "5.2 gm")

	out, err = run(t, root, "delete", path)
	require.NoError(t, err)
	assert.Equal(t, "deleted "+path+" (1 record(s))\n", out)
	assert.NoFileExists(t, path)
}

func TestGenerateRejectsInvalidInput(t *testing.T) {
	root := t.TempDir()
	_, err := run(t, root, "generate", "--name", "Asha", "--gross", "abc", "--net", "1", "--purity", "22K")
	assert.ErrorContains(t, err, "invalid form")

	_, err = run(t, root, "generate")
	assert.ErrorContains(t, err, `required flag(s) "name" not set`)
}

func TestPrune(t *testing.T) {
	root := t.TempDir()
	out, err := run(t, root, "generate", "--name", "Asha Rao", "--gross", "3", "--net", "2.5", "--purity", "18K")
	require.NoError(t, err, out)
	require.NoError(t, os.Remove(strings.TrimSpace(out)))

	out, err = run(t, root, "prune")
	require.NoError(t, err)
	assert.Equal(t, "pruned 1 record(s)\n", out)
}

func TestToken(t *testing.T) {
	root := t.TempDir()
	_, err := run(t, root, "token", "--sub", "tablet")
	assert.ErrorContains(t, err, "security config missing")

	require.NoError(t, os.MkdirAll(filepath.Join(root, "config"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "config", ".security.json"), []byte(`{
		"jwt_secret": "0123456789abcdef0123456789abcdef",
		"share_key": "AAECAwQFBgcICQoLDA0ODxAREhMUFRYXGBkaGxwdHh8"
	}`), 0o600))
	out, err := run(t, root, "token", "--sub", "tablet", "--ttl", "1h")
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(out), "."), 3)
}
