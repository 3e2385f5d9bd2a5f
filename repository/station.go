package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/gra-app/gra/models"
)

// InsertStations inserts stations, leaving any existing row untouched on conflict.
// It returns the number of rows actually inserted.
func InsertStations(ctx context.Context, q Querier, stations []models.Station) (int64, error) {
	if len(stations) == 0 {
		return 0, nil
	}

	args := make([]interface{}, 0, len(stations)*2)
	for _, s := range stations {
		args = append(args, s.Code, s.Name)
	}

	query := q.Rebind(`INSERT INTO station (code, name) VALUES ` +
		placeholders(len(stations), 2) +
		` ON CONFLICT DO NOTHING`)

	result, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to insert stations: %w", err)
	}

	inserted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count inserted stations: %w", err)
	}
	return inserted, nil
}

// ListStations returns every station ordered by name
func ListStations(ctx context.Context, q Querier) ([]models.Station, error) {
	stations := []models.Station{}
	if err := sqlx.SelectContext(ctx, q, &stations, `SELECT code, name FROM station ORDER BY name, code`); err != nil {
		return nil, fmt.Errorf("failed to query stations: %w", err)
	}
	return stations, nil
}
