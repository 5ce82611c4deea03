package google

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"bdactivity/internal/source"
)

func newTestService(t *testing.T, handler http.HandlerFunc) *gsheet.Service {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	svc, err := gsheet.NewService(context.Background(),
		goption.WithEndpoint(srv.URL+"/"),
		goption.WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	return svc
}

func TestFetchConvertsRaggedRows(t *testing.T) {
	var gotPath string
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"range": "Log!A1:D3",
			"majorDimension": "ROWS",
			"values": [
				["Activity Date", "BDE Name", "FPO NAME", "Title of Activity"],
				["2024-01-05", "Asha", "FPO-1", "Meeting"],
				["2024-01-06", " Ravi "]
			]
		}`))
	})

	c := NewWithService(svc, "sheet-id", "Log!A:D", nil)
	tbl, err := c.Fetch(context.Background())
	require.NoError(t, err)

	assert.True(t, strings.Contains(gotPath, "/spreadsheets/sheet-id/values/"), gotPath)
	assert.Equal(t, "Title of Activity", tbl.Header[3])
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, []string{"2024-01-06", "Ravi"}, tbl.Rows[1])

	id, err := c.Identity(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "sheets:sheet-id/Log!A:D", id)
}

func TestFetchEmptyRange(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"range": "Sheet1!A1:Z1", "majorDimension": "ROWS"}`))
	})

	_, err := NewWithService(svc, "sheet-id", "", nil).Fetch(context.Background())
	assert.ErrorIs(t, err, source.ErrNoData)
}

func TestFetchAPIError(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error": {"code": 403, "message": "denied"}}`))
	})

	_, err := NewWithService(svc, "sheet-id", "", nil).Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read range")
}

func TestNewRequiresSpreadsheetAndCredentials(t *testing.T) {
	_, err := New(context.Background(), Config{}, nil)
	assert.EqualError(t, err, "missing spreadsheet id")

	_, err = New(context.Background(), Config{SpreadsheetID: "x"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing service account credentials")
}
