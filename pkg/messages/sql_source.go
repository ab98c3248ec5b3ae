package messages

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// SQLSource loads translation bundles from a relational table with code,
// locale and message columns. Any database/sql driver works; the demo binary
// registers mysql, postgres and sqlite3.
type SQLSource struct {
	db      *sql.DB
	table   string
	timeout time.Duration
}

var _ Source = (*SQLSource)(nil)

func NewSQLSource(db *sql.DB, table string) *SQLSource {
	return &SQLSource{
		db:      db,
		table:   table,
		timeout: 5 * time.Second,
	}
}

func (s *SQLSource) Load() (map[string]map[string]string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	query := fmt.Sprintf("SELECT code, locale, message FROM %s", s.table)
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, ErrQueryStore.
			WithDetail("table", s.table).
			WithCause(err)
	}
	defer func() { _ = rows.Close() }()

	bundles := make(map[string]map[string]string)
	for rows.Next() {
		var code, locale, message string
		if err = rows.Scan(&code, &locale, &message); err != nil {
			return nil, ErrQueryStore.
				WithDetail("table", s.table).
				WithCause(err)
		}
		bundle, ok := bundles[locale]
		if !ok {
			bundle = make(map[string]string)
			bundles[locale] = bundle
		}
		bundle[code] = message
	}
	if err = rows.Err(); err != nil {
		return nil, ErrQueryStore.
			WithDetail("table", s.table).
			WithCause(err)
	}
	return bundles, nil
}
