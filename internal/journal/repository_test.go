package journal

import (
	"context"
	"database/sql"
	"math"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"dewpoint-server/internal/migrate"
	"dewpoint-server/internal/types"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	db.SetMaxOpenConns(1)
	if err := migrate.Run(db); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			t.Fatalf("close db: %v", closeErr)
		}
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if closeErr := db.Close(); closeErr != nil {
			t.Fatalf("close db: %v", closeErr)
		}
	})
	return db
}

func ptr[T any](v T) *T { return &v }

func TestGetCalculationsCount_Empty(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	n, err := repo.GetCalculationsCount()
	if err != nil {
		t.Fatalf("GetCalculationsCount: %v", err)
	}
	if n != 0 {
		t.Errorf("GetCalculationsCount = %d; want 0", n)
	}
}

func TestInsertCalculation_RoundTrip(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	ts := time.Date(2026, 3, 1, 12, 0, 0, 123000000, time.UTC)

	ok := types.Calculation{
		ID:          "calc-ok",
		Time:        ts,
		Route:       "mould",
		RequestLine: "GET /15.7/87.1 HTTP/1.1",
		Status:      200,
		Temperature: ptr(15.7),
		Humidity:    ptr(87.1),
		Dewpoint:    ptr(13.5),
		MouldIndex:  ptr(2),
	}
	bad := types.Calculation{
		Time:        ts.Add(time.Second),
		Route:       "mould",
		RequestLine: "GET /abc/50 HTTP/1.1",
		Status:      400,
		Message:     "Cannot convert t to a float! Got 'abc'!",
	}
	for _, c := range []types.Calculation{ok, bad} {
		if err := repo.InsertCalculation(context.Background(), c); err != nil {
			t.Fatalf("InsertCalculation: %v", err)
		}
	}

	n, err := repo.GetCalculationsCount()
	if err != nil {
		t.Fatalf("GetCalculationsCount: %v", err)
	}
	if n != 2 {
		t.Fatalf("GetCalculationsCount = %d; want 2", n)
	}

	got, err := repo.GetRecentCalculations(10)
	if err != nil {
		t.Fatalf("GetRecentCalculations: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("GetRecentCalculations: got %d rows, want 2", len(got))
	}

	// Newest first.
	if got[0].Status != 400 || got[0].Message != bad.Message {
		t.Errorf("got[0] = %+v; want rejected row", got[0])
	}
	if got[0].Temperature != nil || got[0].Dewpoint != nil || got[0].MouldIndex != nil {
		t.Errorf("got[0] numeric fields should be nil: %+v", got[0])
	}

	r := got[1]
	if !r.Time.Equal(ts) {
		t.Errorf("Time = %v; want %v", r.Time, ts)
	}
	if r.ID != "calc-ok" {
		t.Errorf("ID = %q; want calc-ok", r.ID)
	}
	if got[0].ID == "" {
		t.Error("generated ID is empty")
	}
	if r.Route != "mould" || r.RequestLine != ok.RequestLine || r.Status != 200 || r.Message != "" {
		t.Errorf("got[1] = %+v", r)
	}
	if r.Temperature == nil || *r.Temperature != 15.7 {
		t.Errorf("Temperature = %v; want 15.7", r.Temperature)
	}
	if r.Humidity == nil || *r.Humidity != 87.1 {
		t.Errorf("Humidity = %v; want 87.1", r.Humidity)
	}
	if r.Dewpoint == nil || *r.Dewpoint != 13.5 {
		t.Errorf("Dewpoint = %v; want 13.5", r.Dewpoint)
	}
	if r.MouldIndex == nil || *r.MouldIndex != 2 {
		t.Errorf("MouldIndex = %v; want 2", r.MouldIndex)
	}
}

func TestInsertCalculation_NonFiniteStoredAsNull(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	c := types.Calculation{
		Time:        time.Now(),
		Route:       "mould",
		RequestLine: "GET /20/0 HTTP/1.1",
		Status:      200,
		Temperature: ptr(20.0),
		Humidity:    ptr(0.0),
		Dewpoint:    ptr(math.Inf(-1)),
		MouldIndex:  ptr(0),
	}
	if err := repo.InsertCalculation(context.Background(), c); err != nil {
		t.Fatalf("InsertCalculation: %v", err)
	}
	got, err := repo.GetRecentCalculations(1)
	if err != nil {
		t.Fatalf("GetRecentCalculations: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d rows, want 1", len(got))
	}
	if got[0].Dewpoint != nil {
		t.Errorf("Dewpoint = %v; want nil", *got[0].Dewpoint)
	}
	if got[0].Humidity == nil || *got[0].Humidity != 0 {
		t.Errorf("Humidity = %v; want 0", got[0].Humidity)
	}
}

func TestGetRecentCalculations_Limit(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		c := types.Calculation{
			Time:        base.Add(time.Duration(i) * time.Minute),
			Route:       "dewpoint",
			RequestLine: "GET /dewpoint/20/50 HTTP/1.1",
			Status:      200,
			Dewpoint:    ptr(float64(i)),
		}
		if err := repo.InsertCalculation(context.Background(), c); err != nil {
			t.Fatalf("InsertCalculation #%d: %v", i, err)
		}
	}
	got, err := repo.GetRecentCalculations(3)
	if err != nil {
		t.Fatalf("GetRecentCalculations: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d rows, want 3", len(got))
	}
	for i, want := range []float64{4, 3, 2} {
		if got[i].Dewpoint == nil || *got[i].Dewpoint != want {
			t.Errorf("got[%d].Dewpoint = %v; want %v", i, got[i].Dewpoint, want)
		}
	}
}

func TestRecorder_Record(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	rec := NewRecorder(repo)
	c := types.Calculation{Route: "mould", RequestLine: "x", Status: 400, Message: "Only GET to /dewpoint is allowed!"}
	if err := rec.Record(context.Background(), c); err != nil {
		t.Fatalf("Record: %v", err)
	}
	n, err := repo.GetCalculationsCount()
	if err != nil {
		t.Fatalf("GetCalculationsCount: %v", err)
	}
	if n != 1 {
		t.Errorf("GetCalculationsCount = %d; want 1", n)
	}
}

func TestInsertCalculation_ClosedDB(t *testing.T) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("close db: %v", err)
	}
	repo := NewRepository(db)
	if err := repo.InsertCalculation(context.Background(), types.Calculation{}); err == nil {
		t.Fatal("InsertCalculation err = nil; want non-nil")
	}
}
