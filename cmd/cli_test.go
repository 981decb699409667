package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cliFixture = `gender,major,year_in_school,monthly_income,financial_aid,tuition,housing,food,transportation,books_supplies,entertainment,personal_care,technology,health_wellness,miscellaneous
Male,Biology,Freshman,100,0,0,500,200,50,40,100,20,30,10,10
Female,Biology,Freshman,200,0,0,600,250,60,50,80,40,20,20,30
Female,Economics,Junior,300,0,0,700,300,70,60,120,50,40,30,0
Non-binary,Engineering,Senior,400,0,0,800,350,80,70,40,30,50,40,5
Male,Economics,Junior,500,0,0,900,400,90,80,60,10,60,50,20
`

// resetFlags puts every flag of c and its children back to its default.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// execCmd runs the root command with args and returns its stdout.
func execCmd(args ...string) (string, error) {
	resetFlags(rootCmd)
	cfg = nil
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

// runCmd is a helper to execute the root command with args.
func runCmd(t *testing.T, args ...string) string {
	t.Helper()
	out, err := execCmd(args...)
	if err != nil {
		t.Fatalf("command %v failed: %v", args, err)
	}
	return out
}

// isolate points HOME at a temp dir and writes the fixture data file there.
func isolate(t *testing.T) (home, data string) {
	t.Helper()
	home = t.TempDir()
	t.Setenv("HOME", home)
	data = filepath.Join(home, "spending.csv")
	require.NoError(t, os.WriteFile(data, []byte(cliFixture), 0o644))
	return home, data
}

func TestCLI_Summary(t *testing.T) {
	_, data := isolate(t)
	out := runCmd(t, "summary", "--data", data, "--entertainment", "100", "--personal-care", "20", "--miscellaneous", "10")
	assert.Contains(t, out, "[DISCRETIONARY SPENDING]")
	assert.Contains(t, out, "Students: 5")
	assert.Contains(t, out, "approximately 40%")

	out = runCmd(t, "summary", "--data", data)
	assert.NotContains(t, out, "[YOUR SPENDING]")
}

func TestCLI_GroupsAndRank(t *testing.T) {
	_, data := isolate(t)
	out := runCmd(t, "groups", "major", "--data", data, "-c", "entertainment")
	assert.Contains(t, out, "[SPENDING BY MAJOR]")
	assert.Contains(t, out, "Avg:")

	out = runCmd(t, "groups", "gender", "--data", data, "--normalize")
	// Male: 80 of a 110 discretionary total.
	assert.Contains(t, out, "Entertainment: 72.7%")

	out = runCmd(t, "rank", "major", "Biology", "--data", data, "-c", "entertainment", "-f", "json")
	var v struct {
		Rank  int `json:"rank"`
		Total int `json:"total"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &v))
	assert.Equal(t, 2, v.Rank)
	assert.Equal(t, 3, v.Total)

	_, err := execCmd("groups", "planet", "--data", data)
	assert.Error(t, err)
	_, err = execCmd("groups", "major", "--data", data, "-c", "housing")
	assert.Error(t, err)
}

func TestCLI_SelectionNarrowsSample(t *testing.T) {
	_, data := isolate(t)
	out := runCmd(t, "summary", "--data", data, "--gender", "Female")
	assert.Contains(t, out, "Selection: gender=Female")
	assert.Contains(t, out, "Students: 2")

	_, err := execCmd("summary", "--data", data, "--major", "Psychology")
	assert.Error(t, err, "empty selection has no distribution")
}

func TestCLI_InputLifecycle(t *testing.T) {
	_, data := isolate(t)

	out := runCmd(t, "input", "show")
	assert.Contains(t, out, "No spending data saved")

	_, err := execCmd("compare", "--data", data)
	assert.Error(t, err, "compare needs input")

	out = runCmd(t, "input", "set", "--query", "entertainment=80&personal-care=90&miscellaneous=13")
	assert.Contains(t, out, "Saved spending input")

	out = runCmd(t, "compare", "--data", data)
	assert.Contains(t, out, "Your spending in Personal Care is $60 more than the average")

	runCmd(t, "groups", "gender", "--data", data)
	out = runCmd(t, "input", "show")
	assert.Contains(t, out, "personal_care: 90.00")
	assert.Contains(t, out, "visited: gender")

	runCmd(t, "input", "clear")
	out = runCmd(t, "input", "show")
	assert.Contains(t, out, "No spending data saved")
	assert.NotContains(t, out, "visited:")
}

func TestCLI_SQLiteStore(t *testing.T) {
	home, data := isolate(t)
	t.Setenv("SPENDLENS_STORE_DRIVER", "sqlite")

	runCmd(t, "input", "set", "--entertainment", "300")
	_, err := os.Stat(filepath.Join(home, ".spendlens", "store.db"))
	require.NoError(t, err)

	out := runCmd(t, "radar", "--data", data, "-f", "json")
	assert.Contains(t, out, `"Student"`)
	assert.Contains(t, out, `"Average"`)
}

func TestCLI_SwitchingStoreDriverKeepsStoreReadable(t *testing.T) {
	home, _ := isolate(t)
	runCmd(t, "input", "set", "--entertainment", "50")
	runCmd(t, "config", "set", "store_driver", "sqlite")

	b, err := os.ReadFile(filepath.Join(home, ".spendlens", "config.yaml"))
	require.NoError(t, err)
	assert.NotContains(t, string(b), "store_path")

	out := runCmd(t, "input", "show")
	assert.Contains(t, out, "No spending data saved", "sqlite starts its own file")
	runCmd(t, "input", "set", "--entertainment", "75")
	out = runCmd(t, "input", "show")
	assert.Contains(t, out, "entertainment: 75.00")
	_, err = os.Stat(filepath.Join(home, ".spendlens", "store.db"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(home, ".spendlens", "store.json"))
	require.NoError(t, err)
}

func TestCLI_OutputFile(t *testing.T) {
	home, data := isolate(t)
	dest := filepath.Join(home, "income.md")
	out := runCmd(t, "income", "--data", data, "-o", dest)
	assert.Contains(t, out, "Wrote")
	b, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Contains(t, string(b), "[REGRESSION]")

	_, err = execCmd("income", "--data", data, "-f", "xml")
	assert.Error(t, err)
}

func TestCLI_Config(t *testing.T) {
	home, _ := isolate(t)
	runCmd(t, "config", "set", "radar_levels", "3")
	_, err := os.Stat(filepath.Join(home, ".spendlens", "config.yaml"))
	require.NoError(t, err)

	out := runCmd(t, "config", "show")
	assert.Contains(t, out, "radar_levels: 3")
	assert.Contains(t, out, "150+: [150, +inf)")

	_, err = execCmd("config", "set", "nope", "1")
	assert.Error(t, err)
}

func TestCLI_Batch(t *testing.T) {
	home, _ := isolate(t)
	second := filepath.Join(home, "second.csv")
	require.NoError(t, os.WriteFile(second, []byte(cliFixture), 0o644))

	out := runCmd(t, "batch", "--quiet", filepath.Join(home, "*.csv"))
	assert.Contains(t, out, "[FILE] second.csv (5 records)")
	assert.Contains(t, out, "[FILE] spending.csv (5 records)")
	assert.Contains(t, out, "[SPENDING BY YEAR OF STUDY]")

	_, err := execCmd("batch", filepath.Join(home, "*.tsv"))
	assert.Error(t, err)
}
