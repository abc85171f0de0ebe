//go:build integration

package license_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"golang.org/x/sync/errgroup"

	"compliancecore/internal/gate"
	"compliancecore/internal/gate/store/license"
	"compliancecore/pkg/domain"
	"compliancecore/pkg/platform/sentinel"
	"compliancecore/pkg/testutil/containers"
)

type PostgresLicenseSuite struct {
	suite.Suite
	ctx   context.Context
	pg    *containers.PostgresContainer
	store *license.Postgres
}

func TestPostgresLicenseSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresLicenseSuite))
}

func (s *PostgresLicenseSuite) SetupSuite() {
	s.ctx = context.Background()
	s.pg = containers.GetManager().GetPostgres(s.T())
	s.store = license.NewPostgres(s.pg.DB)
}

func (s *PostgresLicenseSuite) SetupTest() {
	s.Require().NoError(s.pg.TruncateTables(s.ctx, "licenses"))
}

func (s *PostgresLicenseSuite) seed(plan gate.Plan, used int) domain.TenantID {
	tenantID := domain.NewTenantID()
	lic := gate.NewLicense(tenantID, plan, time.Now().UTC())
	lic.ReportsUsed = used
	s.Require().NoError(s.store.Save(s.ctx, lic))
	return tenantID
}

func (s *PostgresLicenseSuite) TestSaveAndFind() {
	validUntil := time.Now().UTC().Add(365 * 24 * time.Hour).Truncate(time.Microsecond)
	tenantID := domain.NewTenantID()
	lic := gate.NewLicense(tenantID, gate.PlanPro, time.Now().UTC())
	lic.ValidUntil = &validUntil
	s.Require().NoError(s.store.Save(s.ctx, lic))

	got, err := s.store.FindByTenant(s.ctx, tenantID)
	s.Require().NoError(err)
	s.Equal(tenantID, got.TenantID)
	s.Equal(gate.PlanPro, got.Plan)
	s.Equal(gate.LicenseActive, got.Status)
	s.Equal(0, got.ReportsUsed)
	s.Equal(5, got.ReportsLimit)
	s.Require().NotNil(got.ValidUntil)
	s.WithinDuration(validUntil, *got.ValidUntil, time.Millisecond)
}

func (s *PostgresLicenseSuite) TestFindMissing() {
	_, err := s.store.FindByTenant(s.ctx, domain.NewTenantID())
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresLicenseSuite) TestSaveUpserts() {
	tenantID := s.seed(gate.PlanStart, 1)

	upgraded := gate.NewLicense(tenantID, gate.PlanEnterprise, time.Now().UTC())
	s.Require().NoError(s.store.Save(s.ctx, upgraded))

	got, err := s.store.FindByTenant(s.ctx, tenantID)
	s.Require().NoError(err)
	s.Equal(gate.PlanEnterprise, got.Plan)
	s.Equal(15, got.ReportsLimit)
}

func (s *PostgresLicenseSuite) TestIncrementUsage() {
	tenantID := s.seed(gate.PlanPro, 2)

	got, err := s.store.IncrementUsage(s.ctx, tenantID)
	s.Require().NoError(err)
	s.Equal(3, got.ReportsUsed)

	_, err = s.store.IncrementUsage(s.ctx, domain.NewTenantID())
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresLicenseSuite) TestIncrementUsageConcurrent() {
	tenantID := s.seed(gate.PlanEnterprise, 0)

	var g errgroup.Group
	for range 10 {
		g.Go(func() error {
			_, err := s.store.IncrementUsage(s.ctx, tenantID)
			return err
		})
	}
	s.Require().NoError(g.Wait())

	got, err := s.store.FindByTenant(s.ctx, tenantID)
	s.Require().NoError(err)
	s.Equal(10, got.ReportsUsed, "the increment is atomic under concurrency")
}
