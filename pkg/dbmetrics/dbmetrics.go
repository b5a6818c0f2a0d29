package dbmetrics

import (
	"context"
	"database/sql"
	"time"

	"github.com/marllouie99/DioceseIligan-BookingService/pkg/metrics"
)

// DBExecutor общий интерфейс для выполнения запросов (*sql.DB, *sql.Tx и обёртки)
type DBExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// TxExecutor интерфейс транзакции
type TxExecutor interface {
	DBExecutor
	Commit() error
	Rollback() error
}

// DB обёртка над *sql.DB с метриками запросов
type DB struct {
	db      *sql.DB
	metrics *metrics.Metrics
}

// Wrap оборачивает *sql.DB в обёртку с метриками
func Wrap(db *sql.DB, m *metrics.Metrics) *DB {
	return &DB{db: db, metrics: m}
}

// WrapWithDefault оборачивает *sql.DB и запускает периодический сбор статистики пула.
// Сбор останавливается при закрытии stopCh.
func WrapWithDefault(db *sql.DB, m *metrics.Metrics, dbName string, stopCh <-chan struct{}) *DB {
	wrapped := Wrap(db, m)

	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				m.SetDBPoolStats(dbName, db.Stats())
			case <-stopCh:
				return
			}
		}
	}()

	return wrapped
}

func (d *DB) observe(operation string, start time.Time, err error) {
	if d.metrics != nil {
		d.metrics.ObserveDBQuery(operation, time.Since(start).Seconds(), err)
	}
}

// ExecContext выполняет запрос с записью метрик
func (d *DB) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	start := time.Now()
	res, err := d.db.ExecContext(ctx, query, args...)
	d.observe("exec", start, err)
	return res, err
}

// QueryContext выполняет запрос с записью метрик
func (d *DB) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	start := time.Now()
	rows, err := d.db.QueryContext(ctx, query, args...)
	d.observe("query", start, err)
	return rows, err
}

// QueryRowContext выполняет запрос одной строки с записью метрик
func (d *DB) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	start := time.Now()
	row := d.db.QueryRowContext(ctx, query, args...)
	d.observe("query_row", start, nil)
	return row
}

// BeginTx начинает транзакцию; запросы внутри неё также попадают в метрики
func (d *DB) BeginTx(ctx context.Context, opts *sql.TxOptions) (TxExecutor, error) {
	start := time.Now()
	tx, err := d.db.BeginTx(ctx, opts)
	d.observe("begin_tx", start, err)
	if err != nil {
		return nil, err
	}
	return &measuredTx{tx: tx, db: d}, nil
}

// Stats возвращает статистику пула соединений
func (d *DB) Stats() sql.DBStats {
	return d.db.Stats()
}

// measuredTx транзакция с метриками
type measuredTx struct {
	tx *sql.Tx
	db *DB
}

func (t *measuredTx) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	start := time.Now()
	res, err := t.tx.ExecContext(ctx, query, args...)
	t.db.observe("tx_exec", start, err)
	return res, err
}

func (t *measuredTx) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	start := time.Now()
	rows, err := t.tx.QueryContext(ctx, query, args...)
	t.db.observe("tx_query", start, err)
	return rows, err
}

func (t *measuredTx) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	start := time.Now()
	row := t.tx.QueryRowContext(ctx, query, args...)
	t.db.observe("tx_query_row", start, nil)
	return row
}

func (t *measuredTx) Commit() error {
	start := time.Now()
	err := t.tx.Commit()
	t.db.observe("tx_commit", start, err)
	return err
}

func (t *measuredTx) Rollback() error {
	return t.tx.Rollback()
}
