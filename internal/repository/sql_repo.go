package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/content-distributor/internal/database"
	"github.com/content-distributor/internal/models"
	"github.com/rs/zerolog"
)

// historySQLRepo is the concrete SQL implementation of HistoryRepository.
// It works against both postgres and sqlite.
type historySQLRepo struct {
	db    *database.DB
	sb    sq.StatementBuilderType
	limit int
	log   zerolog.Logger
}

// NewHistorySQLRepo creates a history repository on top of db
func NewHistorySQLRepo(db *database.DB, limit int, log zerolog.Logger) HistoryRepository {
	if limit <= 0 {
		limit = models.DefaultHistoryLimit
	}
	return &historySQLRepo{
		db:    db,
		sb:    statementBuilder(db),
		limit: limit,
		log:   log.With().Str("component", "history_sql").Str("driver", db.Driver()).Logger(),
	}
}

func statementBuilder(db *database.DB) sq.StatementBuilderType {
	if db.Driver() == database.DriverPostgres {
		return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	}
	return sq.StatementBuilder.PlaceholderFormat(sq.Question)
}

// Append inserts the record and trims older rows in one transaction
func (r *historySQLRepo) Append(ctx context.Context, submission *models.Submission) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	insert := r.sb.Insert("submissions").
		Columns("id", "article_url", "status", "failed_step", "source", "created_at").
		Values(
			submission.ID,
			submission.ArticleURL,
			string(submission.Status),
			string(submission.FailedStep),
			submission.Source,
			submission.Timestamp.UTC(),
		)

	query, args, err := insert.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert submission: %w", err)
	}

	// limit is an int from config, safe to inline
	trim := r.sb.Delete("submissions").
		Where(sq.Expr(fmt.Sprintf(
			"seq NOT IN (SELECT seq FROM submissions ORDER BY seq DESC LIMIT %d)", r.limit,
		)))

	query, args, err = trim.ToSql()
	if err != nil {
		return fmt.Errorf("build trim: %w", err)
	}
	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("trim history: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	if evicted, _ := result.RowsAffected(); evicted > 0 {
		r.log.Debug().Int64("evicted", evicted).Msg("Evicted oldest submissions")
	}
	return nil
}

type submissionRow struct {
	ID         string    `db:"id"`
	ArticleURL string    `db:"article_url"`
	Status     string    `db:"status"`
	FailedStep string    `db:"failed_step"`
	Source     string    `db:"source"`
	CreatedAt  time.Time `db:"created_at"`
}

// ReadAll returns the newest rows first; rows with an unknown status are skipped
func (r *historySQLRepo) ReadAll(ctx context.Context) ([]models.Submission, error) {
	query, args, err := r.sb.
		Select("id", "article_url", "status", "failed_step", "source", "created_at").
		From("submissions").
		OrderBy("seq DESC").
		Limit(uint64(r.limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var rows []submissionRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select submissions: %w", err)
	}

	items := make([]models.Submission, 0, len(rows))
	for _, row := range rows {
		s := models.Submission{
			ID:         row.ID,
			ArticleURL: row.ArticleURL,
			Status:     models.SubmissionStatus(row.Status),
			FailedStep: models.FailedStep(row.FailedStep),
			Source:     row.Source,
			Timestamp:  row.CreatedAt.UTC(),
		}
		if !s.IsWellFormed() {
			r.log.Warn().Str("id", row.ID).Str("status", row.Status).Msg("Skipping malformed submission row")
			continue
		}
		items = append(items, s)
	}
	return items, nil
}

func (r *historySQLRepo) Clear(ctx context.Context) error {
	query, args, err := r.sb.Delete("submissions").ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
}

// settingsSQLRepo is the concrete SQL implementation of SettingsRepository
type settingsSQLRepo struct {
	db *database.DB
	sb sq.StatementBuilderType
}

// NewSettingsSQLRepo creates a settings repository on top of db
func NewSettingsSQLRepo(db *database.DB) SettingsRepository {
	return &settingsSQLRepo{db: db, sb: statementBuilder(db)}
}

func (r *settingsSQLRepo) Get(ctx context.Context, key string) (string, error) {
	query, args, err := r.sb.Select("value").From("settings").Where(sq.Eq{"key": key}).ToSql()
	if err != nil {
		return "", fmt.Errorf("build select: %w", err)
	}

	var value string
	err = r.db.GetContext(ctx, &value, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get setting %s: %w", key, err)
	}
	return value, nil
}

func (r *settingsSQLRepo) Set(ctx context.Context, key, value string) error {
	query, args, err := r.sb.Insert("settings").
		Columns("key", "value", "updated_at").
		Values(key, value, time.Now().UTC()).
		Suffix("ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("set setting %s: %w", key, err)
	}
	return nil
}

func (r *settingsSQLRepo) Delete(ctx context.Context, key string) error {
	query, args, err := r.sb.Delete("settings").Where(sq.Eq{"key": key}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete setting %s: %w", key, err)
	}
	return nil
}
