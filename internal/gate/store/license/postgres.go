package license

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"compliancecore/internal/gate"
	"compliancecore/pkg/domain"
	"compliancecore/pkg/platform/sentinel"
	"compliancecore/pkg/platform/tx"
	"compliancecore/pkg/requestcontext"
)

// Postgres stores licenses in the licenses table.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// querier lets store methods run inside a caller-provided transaction
// when one is present on the context.
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

const findByTenantSQL = `
SELECT tenant_id, plan, status, reports_used, reports_limit, valid_until, created_at, updated_at
FROM licenses
WHERE tenant_id = $1`

func (s *Postgres) FindByTenant(ctx context.Context, tenantID domain.TenantID) (*gate.License, error) {
	row := s.q(ctx).QueryRowContext(ctx, findByTenantSQL, tenantID.String())
	lic, err := scanLicense(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find license: %w", err)
	}
	return lic, nil
}

const saveSQL = `
INSERT INTO licenses (tenant_id, plan, status, reports_used, reports_limit, valid_until, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
ON CONFLICT (tenant_id) DO UPDATE SET
	plan = EXCLUDED.plan,
	status = EXCLUDED.status,
	reports_used = EXCLUDED.reports_used,
	reports_limit = EXCLUDED.reports_limit,
	valid_until = EXCLUDED.valid_until,
	updated_at = EXCLUDED.updated_at`

func (s *Postgres) Save(ctx context.Context, license *gate.License) error {
	var validUntil sql.NullTime
	if license.ValidUntil != nil {
		validUntil = sql.NullTime{Time: *license.ValidUntil, Valid: true}
	}
	_, err := s.q(ctx).ExecContext(ctx, saveSQL,
		license.TenantID.String(),
		string(license.Plan),
		string(license.Status),
		license.ReportsUsed,
		license.ReportsLimit,
		validUntil,
		requestcontext.Now(ctx),
	)
	if err != nil {
		return fmt.Errorf("save license: %w", err)
	}
	return nil
}

const incrementUsageSQL = `
UPDATE licenses
SET reports_used = reports_used + 1, updated_at = $2
WHERE tenant_id = $1
RETURNING tenant_id, plan, status, reports_used, reports_limit, valid_until, created_at, updated_at`

func (s *Postgres) IncrementUsage(ctx context.Context, tenantID domain.TenantID) (*gate.License, error) {
	row := s.q(ctx).QueryRowContext(ctx, incrementUsageSQL, tenantID.String(), requestcontext.Now(ctx))
	lic, err := scanLicense(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("increment license usage: %w", err)
	}
	return lic, nil
}

func scanLicense(row *sql.Row) (*gate.License, error) {
	var (
		lic        gate.License
		tenantID   string
		plan       string
		status     string
		validUntil sql.NullTime
	)
	err := row.Scan(&tenantID, &plan, &status, &lic.ReportsUsed, &lic.ReportsLimit,
		&validUntil, &lic.CreatedAt, &lic.UpdatedAt)
	if err != nil {
		return nil, err
	}
	tid, err := domain.ParseTenantID(tenantID)
	if err != nil {
		return nil, fmt.Errorf("parse tenant id: %w", err)
	}
	lic.TenantID = tid
	lic.Plan = gate.Plan(plan)
	lic.Status = gate.LicenseStatus(status)
	if validUntil.Valid {
		t := validUntil.Time
		lic.ValidUntil = &t
	}
	return &lic, nil
}
