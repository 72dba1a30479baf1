package remote

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/hoitkn/processqa/internal/submission"
	"github.com/hoitkn/processqa/internal/translate"
)

// processDataTable is the deployed MySQL table for noodle process data.
const processDataTable = "Processmi"

// SQLWriter writes submissions to the MySQL deployment using the relational
// schema (translate.SQL). Column names carry non-ASCII characters, so they
// are backtick-quoted identifiers and every value travels as a query
// parameter.
type SQLWriter struct {
	db    *sql.DB
	table string
	now   func() time.Time
}

// NewSQLWriter wraps an open *sql.DB (go-sql-driver/mysql).
func NewSQLWriter(db *sql.DB) *SQLWriter {
	return &SQLWriter{db: db, table: processDataTable, now: time.Now}
}

// Submit inserts one record and returns its auto-increment ID.
func (w *SQLWriter) Submit(ctx context.Context, sub submission.Submission) (string, error) {
	fields := translate.SQL.Translate(sub, w.now())
	query, args := buildInsert(w.table, translate.SQL.ColumnOrder(), fields)

	res, err := w.db.ExecContext(ctx, query, args...)
	if err != nil {
		return "", classifySQLError(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return "", fmt.Errorf("last insert id: %w", err)
	}
	return strconv.FormatInt(id, 10), nil
}

// FetchRecent returns the latest records, newest first, mirroring the HTTP
// endpoint's default listing (ordered by production date then inspection
// time).
func (w *SQLWriter) FetchRecent(ctx context.Context, limit int) ([]Record, error) {
	return w.FetchRecentFiltered(ctx, RecentFilter{Limit: limit})
}

// FetchRecentFiltered narrows the listing by site and production-date range,
// matching the deployed endpoint's query parameters.
func (w *SQLWriter) FetchRecentFiltered(ctx context.Context, f RecentFilter) ([]Record, error) {
	if f.Limit <= 0 {
		f.Limit = 20
	}
	query, args := buildSelect(w.table, f)

	rows, err := w.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classifySQLError(err)
	}
	defer func() { _ = rows.Close() }()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var records []Record
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		rec := Record{Fields: make(map[string]any, len(cols))}
		for i, col := range cols {
			v := values[i]
			if b, ok := v.([]byte); ok {
				v = string(b)
			}
			if col == "id" {
				rec.ID = fmt.Sprint(v)
				continue
			}
			rec.Fields[col] = v
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// buildSelect renders the filtered listing query. Filter values travel as
// parameters; only fixed column names appear in the SQL text.
func buildSelect(table string, f RecentFilter) (string, []any) {
	var b strings.Builder
	fmt.Fprintf(&b, "SELECT * FROM `%s` WHERE 1=1", table)

	var args []any
	if f.Site != "" {
		b.WriteString(" AND `Site` = ?")
		args = append(args, f.Site)
	}
	if f.DateFrom != "" {
		b.WriteString(" AND `NSX (Ngày sản xuất)` >= ?")
		args = append(args, f.DateFrom)
	}
	if f.DateTo != "" {
		b.WriteString(" AND `NSX (Ngày sản xuất)` <= ?")
		args = append(args, f.DateTo)
	}
	b.WriteString(" ORDER BY `NSX (Ngày sản xuất)` DESC, `Giờ kiểm tra` DESC LIMIT ?")
	args = append(args, f.Limit)

	return b.String(), args
}

// buildInsert renders a parameterized INSERT for the columns present in
// fields, in the mapping's deterministic column order.
func buildInsert(table string, order []string, fields map[string]any) (string, []any) {
	var cols []string
	var args []any
	for _, col := range order {
		v, ok := fields[col]
		if !ok {
			continue
		}
		cols = append(cols, "`"+col+"`")
		args = append(args, v)
	}
	query := fmt.Sprintf("INSERT INTO `%s` (%s) VALUES (%s)",
		table,
		strings.Join(cols, ", "),
		strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", "))
	return query, args
}

// classifySQLError separates "could not reach the database" from "the
// database refused the statement". Only the former is queued.
func classifySQLError(err error) error {
	var netErr net.Error
	switch {
	case errors.Is(err, driver.ErrBadConn),
		errors.As(err, &netErr),
		errors.Is(err, mysql.ErrInvalidConn),
		errors.Is(err, context.DeadlineExceeded):
		return &ConnectivityError{Err: err}
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return &RejectionError{Status: int(myErr.Number), Msg: myErr.Message}
	}
	return &RejectionError{Msg: err.Error()}
}
