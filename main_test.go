package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felo/eml2pdf/internal/config"
	"github.com/felo/eml2pdf/internal/pdf"
)

const helloWorld = "Subject: Hello World\n" +
	"Date: Mon, 1 Jan 2024 10:00:00 +0000\n" +
	"\n" +
	"hi"

func testApp(rendered map[string]string) *app {
	a := newApp()
	a.newRenderer = func(*config.Config) pdf.Renderer {
		return pdf.RendererFunc(func(html, outputPath string) error {
			rendered[filepath.Base(outputPath)] = html
			return os.WriteFile(outputPath, []byte("%PDF"), 0o644)
		})
	}
	return a
}

func execute(t *testing.T, a *app, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd(a)
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestConvertCommand(t *testing.T) {
	in, out := t.TempDir(), filepath.Join(t.TempDir(), "out")
	require.NoError(t, os.WriteFile(filepath.Join(in, "hello.eml"), []byte(helloWorld), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(in, "broken.eml"), []byte("no colon\n\nx\n"), 0o644))

	rendered := map[string]string{}
	stdout, stderr, err := execute(t, testApp(rendered), "convert", in, out)
	require.NoError(t, err, "Per-file failures do not fail the command")

	assert.FileExists(t, filepath.Join(out, "2024-01-01_Hello_World.pdf"))
	assert.Contains(t, rendered["2024-01-01_Hello_World.pdf"], "<pre>hi</pre>")
	assert.Contains(t, stdout, "Converted '"+filepath.Join(in, "hello.eml")+"'")
	assert.Contains(t, stdout, "Batch summary: 1 converted, 1 failed (total: 2")
	assert.Contains(t, stdout, "failed: "+filepath.Join(in, "broken.eml"))
	assert.Contains(t, stderr, "conversion failed")
}

func TestConvertCommand_EmptyDirectory(t *testing.T) {
	rendered := map[string]string{}
	stdout, _, err := execute(t, testApp(rendered), "convert", t.TempDir(), t.TempDir())

	require.NoError(t, err)
	assert.Empty(t, rendered)
	assert.Contains(t, stdout, "Batch summary: 0 converted, 0 failed (total: 0")
}

func TestConvertCommand_DirectoryErrors(t *testing.T) {
	_, _, err := execute(t, testApp(map[string]string{}), "convert", filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)

	_, _, err = execute(t, testApp(map[string]string{}), "convert")
	assert.Error(t, err, "The input directory is required")
}

func TestConvertCommand_InvalidConfig(t *testing.T) {
	_, _, err := execute(t, testApp(map[string]string{}), "convert", "--log-level", "loud", t.TempDir())
	assert.Error(t, err)
}

func TestConvertCommand_BinaryPath(t *testing.T) {
	previous := wkhtmltopdf.GetPath()
	t.Cleanup(func() { wkhtmltopdf.SetPath(previous) })

	binary := filepath.Join(t.TempDir(), "wkhtmltopdf")
	_, _, err := execute(t, testApp(map[string]string{}), "convert", "--wkhtmltopdf", binary, t.TempDir(), t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, binary, wkhtmltopdf.GetPath())
}

func TestHistoryCommand(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	journal := filepath.Join(t.TempDir(), "journal.db")
	require.NoError(t, os.WriteFile(filepath.Join(in, "hello.eml"), []byte(helloWorld), 0o644))

	_, _, err := execute(t, testApp(map[string]string{}), "convert", "--journal", journal, in, out)
	require.NoError(t, err)

	stdout, _, err := execute(t, testApp(map[string]string{}), "history", "--journal", journal)
	require.NoError(t, err)
	assert.Contains(t, stdout, "STATUS")
	assert.Contains(t, stdout, "converted")
	assert.Contains(t, stdout, filepath.Join(in, "hello.eml"))
	assert.Contains(t, stdout, filepath.Join(out, "2024-01-01_Hello_World.pdf"))
}

func TestHistoryCommand_Empty(t *testing.T) {
	journal := filepath.Join(t.TempDir(), "journal.db")

	stdout, _, err := execute(t, testApp(map[string]string{}), "history", "--journal", journal)
	require.NoError(t, err)
	assert.Contains(t, stdout, "No conversions recorded.")
}

func TestHistoryCommand_NoJournal(t *testing.T) {
	_, _, err := execute(t, testApp(map[string]string{}), "history")
	assert.Error(t, err)
}

func TestPreviewCommand_MissingDirectory(t *testing.T) {
	_, _, err := execute(t, testApp(map[string]string{}), "preview", filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
