package db

import (
	"testing"
)

// SetupTestDB creates an in-memory SQLite journal for testing
func SetupTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("Failed to close test database: %v", err)
		}
	})

	return db
}

// CreateTestConversion creates a successful conversion with default values
func CreateTestConversion(runID, source, output string) *Conversion {
	return &Conversion{
		RunID:      runID,
		SourcePath: source,
		OutputPath: output,
		Status:     StatusConverted,
		HTMLSHA256: "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		PDFSize:    1024,
	}
}
