package remote

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/abhisek/vocabz/internal/logger"
	"github.com/abhisek/vocabz/internal/vocab"
)

// DefaultTable is the table name used when none is configured.
const DefaultTable = "vocabulary"

// SetupSQL creates the table Postgres expects. It is printed when a sync
// finds the schema missing.
const SetupSQL = `CREATE TABLE IF NOT EXISTS vocabulary (
    id             TEXT PRIMARY KEY,
    word_key       TEXT NOT NULL UNIQUE,
    word           TEXT NOT NULL,
    definition     TEXT NOT NULL DEFAULT '',
    example        TEXT NOT NULL DEFAULT '',
    ipa            TEXT NOT NULL DEFAULT '',
    mastery        INTEGER NOT NULL DEFAULT 0,
    attempts       INTEGER NOT NULL DEFAULT 0,
    correct        INTEGER NOT NULL DEFAULT 0,
    last_practiced BIGINT NOT NULL DEFAULT 0,
    created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);`

// SetupSQLFor returns SetupSQL creating table instead of the default.
func SetupSQLFor(table string) string {
	if table == "" || table == DefaultTable {
		return SetupSQL
	}
	return strings.Replace(SetupSQL, DefaultTable, table, 1)
}

const undefinedTable = pq.ErrorCode("42P01")

var (
	psql      = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	validName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	columns   = []string{"id", "word_key", "word", "definition", "example", "ipa", "mastery", "attempts", "correct", "last_practiced"}
)

type row struct {
	ID            string `db:"id"`
	WordKey       string `db:"word_key"`
	Word          string `db:"word"`
	Definition    string `db:"definition"`
	Example       string `db:"example"`
	IPA           string `db:"ipa"`
	Mastery       int    `db:"mastery"`
	Attempts      int    `db:"attempts"`
	Correct       int    `db:"correct"`
	LastPracticed int64  `db:"last_practiced"`
}

func (r row) record() vocab.Record {
	return vocab.Record{
		ID:            r.ID,
		Word:          r.Word,
		Definition:    r.Definition,
		Example:       r.Example,
		IPA:           r.IPA,
		Mastery:       r.Mastery,
		Attempts:      r.Attempts,
		Correct:       r.Correct,
		LastPracticed: r.LastPracticed,
	}
}

// Postgres implements Gateway on a Postgres table.
type Postgres struct {
	db    *sqlx.DB
	table string
}

// OpenPostgres connects to dsn. The connection is lazy; use
// CheckConnectivity to test it.
func OpenPostgres(dsn, table string) (*Postgres, error) {
	if table == "" {
		table = DefaultTable
	}
	if !validName.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetConnMaxIdleTime(time.Minute)
	return &Postgres{db: db, table: table}, nil
}

// NewPostgres wraps an existing connection.
func NewPostgres(db *sqlx.DB, table string) *Postgres {
	if table == "" {
		table = DefaultTable
	}
	return &Postgres{db: db, table: table}
}

// Close closes the connection pool.
func (p *Postgres) Close() error {
	return p.db.Close()
}

func (p *Postgres) List(ctx context.Context) ([]vocab.Record, error) {
	log := logger.FromContext(ctx).WithPrefix("remote")

	query, args, err := psql.Select(columns...).From(p.table).OrderBy("created_at ASC", "word_key ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list query: %w", err)
	}

	var rows []row
	if err := p.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, classify(err)
	}
	log.Debug("listed %d records", len(rows))

	out := make([]vocab.Record, len(rows))
	for i, r := range rows {
		out[i] = r.record()
	}
	return out, nil
}

func (p *Postgres) UpsertMany(ctx context.Context, records []vocab.Record) error {
	if len(records) == 0 {
		return nil
	}

	ins := psql.Insert(p.table).Columns(columns...)
	for _, r := range records {
		ins = ins.Values(r.ID, r.Key(), r.Word, r.Definition, r.Example, r.IPA,
			r.Mastery, r.Attempts, r.Correct, r.LastPracticed)
	}
	ins = ins.Suffix(`ON CONFLICT (word_key) DO UPDATE SET
		word = EXCLUDED.word,
		definition = EXCLUDED.definition,
		example = EXCLUDED.example,
		ipa = EXCLUDED.ipa,
		mastery = EXCLUDED.mastery,
		attempts = EXCLUDED.attempts,
		correct = EXCLUDED.correct,
		last_practiced = EXCLUDED.last_practiced`)

	query, args, err := ins.ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}
	if _, err := p.db.ExecContext(ctx, query, args...); err != nil {
		return classify(err)
	}
	return nil
}

func (p *Postgres) Delete(ctx context.Context, word string) error {
	query, args, err := psql.Delete(p.table).Where(sq.Eq{"word_key": vocab.Key(word)}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}
	if _, err := p.db.ExecContext(ctx, query, args...); err != nil {
		return classify(err)
	}
	return nil
}

func (p *Postgres) UpdateProgress(ctx context.Context, r vocab.Record) error {
	query, args, err := psql.Update(p.table).
		SetMap(map[string]any{
			"mastery":        r.Mastery,
			"attempts":       r.Attempts,
			"correct":        r.Correct,
			"last_practiced": r.LastPracticed,
		}).
		Where(sq.Eq{"word_key": r.Key()}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}
	if _, err := p.db.ExecContext(ctx, query, args...); err != nil {
		return classify(err)
	}
	return nil
}

// CheckConnectivity pings the server and queries the table.
func (p *Postgres) CheckConnectivity(ctx context.Context) Status {
	if err := p.db.PingContext(ctx); err != nil {
		return StatusFromError(err)
	}
	query, args, err := psql.Select("1").From(p.table).Limit(1).ToSql()
	if err != nil {
		return StatusFromError(err)
	}
	var one int
	err = p.db.QueryRowxContext(ctx, query, args...).Scan(&one)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return StatusFromError(classify(err))
	}
	return Status{Connected: true}
}

// classify maps an undefined-table error onto ErrSchemaMissing.
func classify(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == undefinedTable {
		return fmt.Errorf("%w: %s", ErrSchemaMissing, pqErr.Message)
	}
	return err
}
