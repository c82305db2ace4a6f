// Package journal stores every handled request line in SQLite.
package journal

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"dewpoint-server/internal/types"
)

//go:embed sql/insert-calculation.sql
var insertCalculationSQL string

//go:embed sql/get-recent-calculations.sql
var getRecentCalculationsSQL string

//go:embed sql/get-calculations-count.sql
var getCalculationsCountSQL string

type Repository interface {
	InsertCalculation(ctx context.Context, c types.Calculation) error
	GetRecentCalculations(limit int) ([]types.Calculation, error)
	GetCalculationsCount() (int, error)
}

type repositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) InsertCalculation(ctx context.Context, c types.Calculation) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Time.IsZero() {
		c.Time = time.Now()
	}
	tsStr := c.Time.UTC().Format(time.RFC3339Nano)

	var message any
	if c.Message != "" {
		message = c.Message
	}

	var mould any
	if c.MouldIndex != nil {
		mould = *c.MouldIndex
	}

	_, err := r.db.ExecContext(ctx, insertCalculationSQL,
		c.ID,
		tsStr,
		c.Route,
		c.RequestLine,
		c.Status,
		message,
		finiteOrNull(c.Temperature),
		finiteOrNull(c.Humidity),
		finiteOrNull(c.Dewpoint),
		mould,
	)
	if err != nil {
		return fmt.Errorf("insert calculation: %w", err)
	}
	return nil
}

// finiteOrNull maps nil and non-finite values to SQL NULL.
func finiteOrNull(v *float64) any {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return nil
	}
	return *v
}

// GetRecentCalculations returns up to limit rows, newest first.
func (r *repositoryImpl) GetRecentCalculations(limit int) ([]types.Calculation, error) {
	rows, err := r.db.Query(getRecentCalculationsSQL, limit)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("close calculations rows", "error", err)
		}
	}()
	return scanCalculations(rows)
}

func (r *repositoryImpl) GetCalculationsCount() (int, error) {
	var n int
	err := r.db.QueryRow(getCalculationsCountSQL).Scan(&n)
	return n, err
}

func scanCalculations(rows *sql.Rows) ([]types.Calculation, error) {
	var out []types.Calculation
	for rows.Next() {
		var (
			rec     types.Calculation
			ts      string
			message sql.NullString
			temp    sql.NullFloat64
			rh      sql.NullFloat64
			dew     sql.NullFloat64
			mould   sql.NullInt64
		)
		if err := rows.Scan(&rec.ID, &ts, &rec.Route, &rec.RequestLine, &rec.Status, &message, &temp, &rh, &dew, &mould); err != nil {
			return nil, err
		}
		t, err := time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return nil, fmt.Errorf("parse timestamp %q: %w", ts, err)
		}
		rec.Time = t
		rec.Message = message.String
		rec.Temperature = floatPtr(temp)
		rec.Humidity = floatPtr(rh)
		rec.Dewpoint = floatPtr(dew)
		if mould.Valid {
			m := int(mould.Int64)
			rec.MouldIndex = &m
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
