package title

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"compliancecore/pkg/domain"
	"compliancecore/pkg/platform/sentinel"
	"compliancecore/pkg/platform/tx"
	"compliancecore/pkg/requestcontext"
)

// Postgres stores report titles in the report_titles table.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *Postgres) q(ctx context.Context) querier {
	if t, ok := tx.From(ctx); ok {
		return t
	}
	return s.db
}

const existsSQL = `
SELECT EXISTS (
	SELECT 1 FROM report_titles
	WHERE tenant_id = $1 AND title = $2 AND report_id <> $3
)`

func (s *Postgres) Exists(ctx context.Context, tenantID domain.TenantID, title string, exclude domain.ReportID) (bool, error) {
	var exists bool
	err := s.q(ctx).QueryRowContext(ctx, existsSQL,
		tenantID.String(), strings.TrimSpace(title), exclude.String(),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check title exists: %w", err)
	}
	return exists, nil
}

const registerSQL = `
INSERT INTO report_titles (report_id, tenant_id, title, created_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (report_id) DO UPDATE SET title = EXCLUDED.title`

func (s *Postgres) Register(ctx context.Context, tenantID domain.TenantID, reportID domain.ReportID, title string) error {
	_, err := s.q(ctx).ExecContext(ctx, registerSQL,
		reportID.String(), tenantID.String(), strings.TrimSpace(title), requestcontext.Now(ctx),
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("register title: %w", err)
	}
	return nil
}

const releaseSQL = `DELETE FROM report_titles WHERE report_id = $1`

func (s *Postgres) Release(ctx context.Context, reportID domain.ReportID) error {
	if _, err := s.q(ctx).ExecContext(ctx, releaseSQL, reportID.String()); err != nil {
		return fmt.Errorf("release title: %w", err)
	}
	return nil
}
