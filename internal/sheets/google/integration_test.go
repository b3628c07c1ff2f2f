//go:build integration

package google

import (
	"context"
	"os"
	"testing"
	"time"

	"expenses/internal/core"
	"expenses/internal/log"
)

// Integration tests require real Google Sheets credentials and a scratch tab.
// Run with: go test -tags=integration ./internal/sheets/google

func TestIntegration_ReplaceAndList(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	spreadsheetID := os.Getenv("GOOGLE_SPREADSHEET_ID")
	if spreadsheetID == "" {
		t.Skip("GOOGLE_SPREADSHEET_ID not set, skipping integration test")
	}
	sheetName := os.Getenv("GOOGLE_TEST_SHEET_NAME")
	if sheetName == "" {
		t.Skip("GOOGLE_TEST_SHEET_NAME not set; refusing to overwrite a real tab")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := New(ctx, Config{
		SpreadsheetID:   spreadsheetID,
		SheetName:       sheetName,
		CredentialsJSON: os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"),
		CredentialsFile: os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"),
	}, log.Discard())
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	want := []core.Expense{{
		ID:          "integration-1",
		Description: "Integration Test",
		Amount:      core.MustParseMoney("1.23"),
		Category:    core.Other,
		Date:        time.Now(),
	}}
	if err := client.ReplaceAll(ctx, want); err != nil {
		t.Fatalf("ReplaceAll: %v", err)
	}

	got, err := client.ListExpenses(ctx)
	if err != nil {
		t.Fatalf("ListExpenses: %v", err)
	}
	if len(got) != 1 || got[0].ID != "integration-1" || got[0].Amount.Cents != 123 {
		t.Fatalf("unexpected rows: %+v", got)
	}

	if err := client.ReplaceAll(ctx, nil); err != nil {
		t.Fatalf("cleanup: %v", err)
	}
}
