package google

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"expenses/internal/core"
	"expenses/internal/log"
)

func sampleExpenses() []core.Expense {
	day := time.Date(2024, time.February, 8, 0, 0, 0, 0, time.Local)
	return []core.Expense{
		{ID: "e1", Description: "Video Game", Amount: core.MustParseMoney("59.99"), Category: core.Entertainment, Date: day, Notes: "New release game"},
		{ID: "e2", Description: "Car Wash", Amount: core.MustParseMoney("25.00"), Category: core.Transport, Date: day.AddDate(0, 0, -3)},
	}
}

func TestToRows(t *testing.T) {
	rows := toRows(sampleExpenses())

	require.Len(t, rows, 3)
	assert.Equal(t, header, rows[0])
	assert.Equal(t, []any{"2024-02-08", "Video Game", 59.99, "entertainment", "New release game", "e1"}, rows[1])
	assert.Equal(t, []any{"2024-02-05", "Car Wash", 25.0, "transport", "", "e2"}, rows[2])
}

func TestToRowsEmptyListKeepsHeader(t *testing.T) {
	assert.Equal(t, [][]any{header}, toRows(nil))
}

func TestParseRows(t *testing.T) {
	values := [][]any{
		{"Date", "Description", "Amount", "Category", "Notes", "ID"},
		{"2024-02-08", "Video Game", 59.99, "entertainment", "New release game", "e1"},
		{"2024-02-05", "Car Wash", 25.0, "Transport", "", "e2"},
		{},
		{"not a date", "Broken", 10.0, "food", "", "e3"},
		{"2024-02-05", "Unknown", 10.0, "travel", "", "e4"},
		{"2024-02-05", "Short row"},
	}

	got, skipped := parseRows(values)

	assert.Equal(t, 3, skipped)
	require.Len(t, got, 2)
	assert.Equal(t, "e1", got[0].ID)
	assert.Equal(t, int64(5999), got[0].Amount.Cents)
	assert.Equal(t, core.Transport, got[1].Category)
	assert.Equal(t, 5, got[1].Date.Day())
}

func TestRowsRoundTrip(t *testing.T) {
	in := sampleExpenses()
	got, skipped := parseRows(toRows(in))

	assert.Zero(t, skipped)
	require.Len(t, got, len(in))
	for i := range in {
		assert.Equal(t, in[i].ID, got[i].ID)
		assert.Equal(t, in[i].Amount, got[i].Amount)
		assert.Equal(t, in[i].Date.Format(dateLayout), got[i].Date.Format(dateLayout))
	}
}

func TestRowsRoundTripKeepsDayWestOfUTC(t *testing.T) {
	prev := time.Local
	time.Local = time.FixedZone("EST", -5*60*60)
	t.Cleanup(func() { time.Local = prev })

	day := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.Local)
	in := []core.Expense{{ID: "e1", Description: "Coffee Shop", Amount: core.MustParseMoney("4.50"), Category: core.Food, Date: day}}

	got, skipped := parseRows(toRows(in))
	assert.Zero(t, skipped)
	require.Len(t, got, 1)
	assert.True(t, got[0].Date.Equal(day), "got %v", got[0].Date)
}

func TestNewRequiresSpreadsheetID(t *testing.T) {
	_, err := New(context.Background(), Config{}, nil)
	require.Error(t, err)
	assert.Equal(t, "missing spreadsheet ID", err.Error())
}

func TestLoadCredentials(t *testing.T) {
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")

	data, err := loadCredentials(Config{CredentialsJSON: `{"type":"service_account"}`, CredentialsFile: "/nope"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"service_account"}`, string(data))

	path := filepath.Join(t.TempDir(), "sa.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"from":"file"}`), 0o600))
	data, err = loadCredentials(Config{CredentialsFile: path})
	require.NoError(t, err)
	assert.Contains(t, string(data), "file")

	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", path)
	data, err = loadCredentials(Config{})
	require.NoError(t, err)
	assert.Contains(t, string(data), "file")

	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")
	_, err = loadCredentials(Config{})
	assert.ErrorContains(t, err, "missing service account credentials")

	_, err = loadCredentials(Config{CredentialsFile: filepath.Join(t.TempDir(), "missing.json")})
	assert.ErrorContains(t, err, "read service account file")
}

func TestClientWithoutServiceFails(t *testing.T) {
	c := &Client{spreadsheetID: "test", sheetName: "Expenses", logger: log.Discard()}

	assert.Error(t, c.ReplaceAll(context.Background(), sampleExpenses()))
	_, err := c.ListExpenses(context.Background())
	assert.Error(t, err)
}

// fakeSheetsAPI records the calls the client makes against the values API.
type fakeSheetsAPI struct {
	mu      sync.Mutex
	calls   []string
	written [][]any
}

func (f *fakeSheetsAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	path := r.URL.Path
	f.calls = append(f.calls, r.Method+" "+path)
	w.Header().Set("Content-Type", "application/json")

	switch {
	case r.Method == http.MethodPost && strings.HasSuffix(path, ":clear"):
		_, _ = io.WriteString(w, `{"spreadsheetId":"sheet-1"}`)
	case r.Method == http.MethodPut:
		var vr gsheet.ValueRange
		_ = json.NewDecoder(r.Body).Decode(&vr)
		f.written = vr.Values
		_, _ = io.WriteString(w, `{"spreadsheetId":"sheet-1"}`)
	case r.Method == http.MethodGet:
		_ = json.NewEncoder(w).Encode(gsheet.ValueRange{Values: f.written})
	default:
		http.NotFound(w, r)
	}
}

func newFakeClient(t *testing.T) (*Client, *fakeSheetsAPI) {
	t.Helper()
	api := &fakeSheetsAPI{}
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	svc, err := gsheet.NewService(context.Background(),
		goption.WithEndpoint(srv.URL+"/"),
		goption.WithoutAuthentication(),
		goption.WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	return newClient(svc, "sheet-1", "My Expenses", log.Discard()), api
}

func TestReplaceAllClearsThenWrites(t *testing.T) {
	c, api := newFakeClient(t)

	require.NoError(t, c.ReplaceAll(context.Background(), sampleExpenses()))

	api.mu.Lock()
	defer api.mu.Unlock()
	require.Len(t, api.calls, 2)
	assert.True(t, strings.HasPrefix(api.calls[0], "POST /v4/spreadsheets/sheet-1/values/"), api.calls[0])
	assert.True(t, strings.HasSuffix(api.calls[0], ":clear"), api.calls[0])
	assert.True(t, strings.HasPrefix(api.calls[1], "PUT /v4/spreadsheets/sheet-1/values/"), api.calls[1])
	require.Len(t, api.written, 3)
	assert.Equal(t, "Date", api.written[0][0])
	assert.Equal(t, "e2", api.written[2][5])
}

func TestListExpensesReadsBack(t *testing.T) {
	c, _ := newFakeClient(t)
	ctx := context.Background()
	require.NoError(t, c.ReplaceAll(ctx, sampleExpenses()))

	got, err := c.ListExpenses(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Video Game", got[0].Description)
	assert.Equal(t, int64(2500), got[1].Amount.Cents)
}

func TestRangeQuotesSheetName(t *testing.T) {
	c := newClient(nil, "id", "Bob's Sheet", log.Discard())
	assert.Equal(t, "'Bob''s Sheet'!A:F", c.rangeFor(columns))

	c = newClient(nil, "id", "", log.Discard())
	assert.Equal(t, "'Expenses'!A1", c.rangeFor("A1"))
}
