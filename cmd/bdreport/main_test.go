package main

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const activities = `Activity Date,BDE Name,FPO NAME,Title of Activity,Attendees
2024-01-05,Asha,FPO-1,Meeting,10
2024-01-05,Ravi,FPO-2,Training,4
2024-01-20,Asha,FPO-2,Meeting,6
2024-02-10,Asha,FPO-1,Field visit,
2023-02-11,Meena,FPO-3,Meeting,2
`

func writeActivities(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "activities.csv")
	require.NoError(t, os.WriteFile(path, []byte(activities), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("AMQP_URL", "")
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestSummaryJSON(t *testing.T) {
	out, err := run(t, "summary", "--file", writeActivities(t), "--ref", "2024-01-20", "--format", "json")
	require.NoError(t, err)

	var report struct {
		Total int `json:"total"`
		Month struct {
			Current int `json:"current"`
		} `json:"month"`
		BestOfficer struct {
			Value string `json:"value"`
		} `json:"best_officer"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report), out)
	assert.Equal(t, 5, report.Total)
	assert.Equal(t, 3, report.Month.Current)
	assert.Equal(t, "Asha", report.BestOfficer.Value)
}

func TestBestTable(t *testing.T) {
	out, err := run(t, "best", "--file", writeActivities(t), "--ref", "2024-01-20")
	require.NoError(t, err)
	assert.Contains(t, out, "January 2024")
	assert.Contains(t, out, "Asha")
}

// cells returns the words of the table line that starts with label,
// without column separators.
func cells(t *testing.T, out, label string) []string {
	t.Helper()
	for _, line := range strings.Split(out, "\n") {
		var fields []string
		for _, f := range strings.Fields(line) {
			if strings.IndexFunc(f, func(r rune) bool { return unicode.IsLetter(r) || unicode.IsDigit(r) }) >= 0 {
				fields = append(fields, f)
			}
		}
		if len(fields) > 0 && fields[0] == label {
			return fields
		}
	}
	t.Fatalf("no line starting with %q in:\n%s", label, out)
	return nil
}

func TestSummaryTable(t *testing.T) {
	out, err := run(t, "summary", "--file", writeActivities(t), "--ref", "2024-01-20")
	require.NoError(t, err)

	assert.Contains(t, out, "Total activities: 5")
	assert.Contains(t, out, "TWO BACK")
	assert.NotContains(t, out, "\t")
	assert.Equal(t, []string{"Month", "3", "0", "0"}, cells(t, out, "Month"))
	assert.Equal(t, []string{"Day", "1", "0", "0"}, cells(t, out, "Day"))
}

func TestColumnsTable(t *testing.T) {
	out, err := run(t, "columns", "--file", writeActivities(t))
	require.NoError(t, err)

	assert.Contains(t, out, "KIND")
	assert.Equal(t, []string{"Attendees", "numeric", "histogram"}, cells(t, out, "Attendees"))
	assert.Equal(t, []string{"BDE", "Name", "categorical", "count"}, cells(t, out, "BDE"))
}

func TestCompareUsesPrimaryMode(t *testing.T) {
	out, err := run(t, "compare", "--file", writeActivities(t), "--month", "1", "--cmp-month", "2", "--format", "json")
	require.NoError(t, err)

	var res struct {
		Stats struct {
			CountA int     `json:"count_a"`
			CountB int     `json:"count_b"`
			ShareA float64 `json:"share_a"`
		} `json:"stats"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res), out)
	assert.Equal(t, 3, res.Stats.CountA)
	assert.Equal(t, 2, res.Stats.CountB)
	assert.InDelta(t, 0.6, res.Stats.ShareA, 1e-9)
}

func TestFilterCSV(t *testing.T) {
	out, err := run(t, "filter", "--file", writeActivities(t), "--mode", "date", "--date", "2024-01-05", "--format", "csv")
	require.NoError(t, err)
	assert.Equal(t, "Activity Date,BDE Name,FPO NAME,Title of Activity,Attendees\n"+
		"2024-01-05,Asha,FPO-1,Meeting,10\n"+
		"2024-01-05,Ravi,FPO-2,Training,4\n", out)
}

func TestFilterRejectsBadMonth(t *testing.T) {
	_, err := run(t, "filter", "--file", writeActivities(t), "--mode", "month", "--month", "13")
	assert.Error(t, err)
}

func TestImportThenReadFromSQLite(t *testing.T) {
	db := filepath.Join(t.TempDir(), "bd.db")

	out, err := run(t, "import", "--db", db, "--from", writeActivities(t), "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"rows": 5`)

	out, err = run(t, "columns", "--source", "sqlite", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "Attendees")
	assert.Contains(t, out, "numeric")
}

func TestImportRejectsBadDates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.csv")
	require.NoError(t, os.WriteFile(path, []byte("Activity Date,BDE Name\nsoon,Asha\n"), 0o644))

	_, err := run(t, "import", "--db", filepath.Join(t.TempDir(), "bd.db"), "--from", path)
	assert.Error(t, err)
}

func TestInvalidateRequiresAMQP(t *testing.T) {
	_, err := run(t, "invalidate", "--file", writeActivities(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AMQP_URL")
}
