package cli_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// runCLI runs the jsonsheet command with a private input, output and log directory
func runCLI(t *testing.T, files map[string]string, args ...string) (string, string, error) {
	t.Helper()
	tempDir := t.TempDir()

	inputDir := filepath.Join(tempDir, "input")
	require.NoError(t, os.MkdirAll(inputDir, 0o755))
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(inputDir, name), []byte(content), 0o644))
	}

	outputDir := filepath.Join(tempDir, "output")
	base := []string{"run", "../../main.go",
		"-i", inputDir,
		"-o", outputDir,
		"--log-dir", filepath.Join(tempDir, "logs"),
		"--no-progress",
	}
	cmd := exec.Command("go", append(base, args...)...)
	output, err := cmd.CombinedOutput()
	return outputDir, string(output), err
}

// workbooks returns the generated workbooks whose name starts with prefix
func workbooks(t *testing.T, outputDir, prefix string) []string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(outputDir, prefix+"_*.xlsx"))
	require.NoError(t, err)
	return matches
}

func readRows(t *testing.T, path, sheet string) [][]string {
	t.Helper()
	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(sheet)
	require.NoError(t, err)
	return rows
}

// TestCLI_ConvertDirectory tests the CLI converting every file in the input directory
func TestCLI_ConvertDirectory(t *testing.T) {
	outputDir, output, err := runCLI(t, map[string]string{
		"persons.json": `{"persons": [
			{"name": "John", "age": 30, "city": "New York"},
			{"name": "Alice", "age": 25, "city": "Los Angeles"}
		]}`,
		"orders.json": `[{"id": 1, "total": 9.5}, {"id": 2, "total": 12}]`,
	})
	require.NoError(t, err, "CLI command failed: %s", output)
	assert.Contains(t, output, "Converted 2 of 2 file(s)")

	persons := workbooks(t, outputDir, "persons")
	require.Len(t, persons, 1)
	assert.Equal(t, [][]string{
		{"persons_0_name", "persons_0_age", "persons_0_city", "persons_1_name", "persons_1_age", "persons_1_city"},
		{"John", "30", "New York", "Alice", "25", "Los Angeles"},
	}, readRows(t, persons[0], "Sheet1"))

	orders := workbooks(t, outputDir, "orders")
	require.Len(t, orders, 1)
	assert.Equal(t, [][]string{
		{"id", "total"},
		{"1", "9.5"},
		{"2", "12"},
	}, readRows(t, orders[0], "Sheet1"))
}

// TestCLI_SkipsInvalidFiles tests that bad files are reported without stopping the batch
func TestCLI_SkipsInvalidFiles(t *testing.T) {
	outputDir, output, err := runCLI(t, map[string]string{
		"good.json":   `{"a": 1}`,
		"broken.json": `{"a": `,
		"scalar.json": `42`,
		"notes.txt":   `not json`,
	})
	require.NoError(t, err, "CLI command failed: %s", output)

	assert.Contains(t, output, "Converted 1 of 3 file(s)")
	assert.Contains(t, output, "broken.json: JSON parsing error:")
	assert.Contains(t, output, "scalar.json: Conversion error:")
	assert.NotContains(t, output, "notes.txt")

	assert.Len(t, workbooks(t, outputDir, "good"), 1)
	assert.Empty(t, workbooks(t, outputDir, "broken"))
}

// TestCLI_HeaderOptions tests the union policy, sheet name and header case flags
func TestCLI_HeaderOptions(t *testing.T) {
	outputDir, output, err := runCLI(t, map[string]string{
		"people.json": `[{"user_id": 1, "first_name": "Ann"}, {"user_id": 2, "last_name": "Lee"}]`,
	}, "--headers", "union", "--header-case", "camel", "--sheet", "People")
	require.NoError(t, err, "CLI command failed: %s", output)

	people := workbooks(t, outputDir, "people")
	require.Len(t, people, 1)

	rows := readRows(t, people[0], "People")
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"UserId", "FirstName", "LastName"}, rows[0])
	assert.Equal(t, []string{"2", "", "Lee"}, rows[2])
}

// TestCLI_NoJSONFiles tests that an input directory without JSON files is an error
func TestCLI_NoJSONFiles(t *testing.T) {
	_, output, err := runCLI(t, map[string]string{"readme.txt": "hello"})
	assert.Error(t, err)
	assert.Contains(t, output, "Input error:")
	assert.Contains(t, output, "For help, run: jsonsheet --help")
}

// TestCLI_InvalidHeaderPolicy tests that bad flags are rejected before any conversion
func TestCLI_InvalidHeaderPolicy(t *testing.T) {
	outputDir, output, err := runCLI(t, map[string]string{"a.json": `{"a": 1}`}, "--headers", "everything")
	assert.Error(t, err)
	assert.Contains(t, output, "Configuration error:")
	assert.Empty(t, workbooks(t, outputDir, "a"))
}

func TestCLI_Version(t *testing.T) {
	cmd := exec.Command("go", "run", "../../main.go", "-v")
	output, err := cmd.CombinedOutput()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(output), "jsonsheet version "))
}

func TestCLI_Help(t *testing.T) {
	cmd := exec.Command("go", "run", "../../main.go", "--help")
	output, err := cmd.CombinedOutput()
	require.NoError(t, err)

	outputStr := string(output)
	assert.Contains(t, outputStr, "Usage: jsonsheet")
	assert.Contains(t, outputStr, "--input-dir")
	assert.Contains(t, outputStr, "--headers")
}
