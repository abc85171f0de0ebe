//go:build integration

package title_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"compliancecore/internal/gate/store/title"
	"compliancecore/pkg/domain"
	"compliancecore/pkg/platform/sentinel"
	"compliancecore/pkg/testutil/containers"
)

type PostgresTitleSuite struct {
	suite.Suite
	ctx   context.Context
	pg    *containers.PostgresContainer
	store *title.Postgres
}

func TestPostgresTitleSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresTitleSuite))
}

func (s *PostgresTitleSuite) SetupSuite() {
	s.ctx = context.Background()
	s.pg = containers.GetManager().GetPostgres(s.T())
	s.store = title.NewPostgres(s.pg.DB)
}

func (s *PostgresTitleSuite) SetupTest() {
	s.Require().NoError(s.pg.TruncateTables(s.ctx, "report_titles"))
}

func (s *PostgresTitleSuite) TestRegisterAndExists() {
	tenantID := domain.NewTenantID()
	reportID := domain.NewReportID()
	s.Require().NoError(s.store.Register(s.ctx, tenantID, reportID, "Serra Azul Technical Report"))

	exists, err := s.store.Exists(s.ctx, tenantID, "Serra Azul Technical Report", domain.NilReportID)
	s.Require().NoError(err)
	s.True(exists)

	exists, err = s.store.Exists(s.ctx, tenantID, "Another Title", domain.NilReportID)
	s.Require().NoError(err)
	s.False(exists)

	exists, err = s.store.Exists(s.ctx, domain.NewTenantID(), "Serra Azul Technical Report", domain.NilReportID)
	s.Require().NoError(err)
	s.False(exists, "titles are scoped per tenant")
}

func (s *PostgresTitleSuite) TestExistsExcludesOwnReport() {
	tenantID := domain.NewTenantID()
	reportID := domain.NewReportID()
	s.Require().NoError(s.store.Register(s.ctx, tenantID, reportID, "Serra Azul Technical Report"))

	exists, err := s.store.Exists(s.ctx, tenantID, "Serra Azul Technical Report", reportID)
	s.Require().NoError(err)
	s.False(exists)
}

func (s *PostgresTitleSuite) TestRegisterDuplicateConflicts() {
	tenantID := domain.NewTenantID()
	s.Require().NoError(s.store.Register(s.ctx, tenantID, domain.NewReportID(), "Serra Azul Technical Report"))

	err := s.store.Register(s.ctx, tenantID, domain.NewReportID(), "Serra Azul Technical Report")
	s.ErrorIs(err, sentinel.ErrConflict)
}

func (s *PostgresTitleSuite) TestRegisterRetitlesOwnReport() {
	tenantID := domain.NewTenantID()
	reportID := domain.NewReportID()
	s.Require().NoError(s.store.Register(s.ctx, tenantID, reportID, "Old Title"))
	s.Require().NoError(s.store.Register(s.ctx, tenantID, reportID, "New Title"))

	exists, err := s.store.Exists(s.ctx, tenantID, "Old Title", domain.NilReportID)
	s.Require().NoError(err)
	s.False(exists)

	exists, err = s.store.Exists(s.ctx, tenantID, "New Title", domain.NilReportID)
	s.Require().NoError(err)
	s.True(exists)
}

func (s *PostgresTitleSuite) TestRelease() {
	tenantID := domain.NewTenantID()
	reportID := domain.NewReportID()
	s.Require().NoError(s.store.Register(s.ctx, tenantID, reportID, "Recycled Title"))
	s.Require().NoError(s.store.Release(s.ctx, reportID))

	exists, err := s.store.Exists(s.ctx, tenantID, "Recycled Title", domain.NilReportID)
	s.Require().NoError(err)
	s.False(exists)

	s.NoError(s.store.Release(s.ctx, reportID), "releasing a missing title is a no-op")
}
