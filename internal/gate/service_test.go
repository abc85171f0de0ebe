package gate_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"compliancecore/internal/gate"
	"compliancecore/internal/gate/store/license"
	"compliancecore/internal/gate/store/title"
	"compliancecore/internal/trail"
	"compliancecore/pkg/domain"
	dErrors "compliancecore/pkg/domain-errors"
	"compliancecore/pkg/requestcontext"
)

type GateSuite struct {
	suite.Suite
	ctx      context.Context
	now      time.Time
	licenses *license.Memory
	titles   *title.Memory
	sink     *trail.MemorySink
	svc      *gate.Service
}

func TestGateSuite(t *testing.T) {
	suite.Run(t, new(GateSuite))
}

func (s *GateSuite) SetupTest() {
	s.now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	s.ctx = requestcontext.WithNow(context.Background(), s.now)
	s.licenses = license.NewMemory()
	s.titles = title.NewMemory()
	s.sink = trail.NewMemorySink()

	svc, err := gate.New(s.licenses, s.titles,
		gate.WithTrail(trail.NewPublisher(s.sink)),
	)
	s.Require().NoError(err)
	s.svc = svc
}

func (s *GateSuite) seedLicense(plan gate.Plan, used int) domain.TenantID {
	tenantID := domain.NewTenantID()
	lic := gate.NewLicense(tenantID, plan, s.now)
	lic.ReportsUsed = used
	s.Require().NoError(s.licenses.Save(s.ctx, lic))
	return tenantID
}

func (s *GateSuite) TestValidateQuota() {
	s.Run("allows tenant under quota", func() {
		tenantID := s.seedLicense(gate.PlanPro, 4)
		err := s.svc.Validate(s.ctx, tenantID, "Serra Azul Technical Report", domain.NilReportID)
		s.NoError(err)
	})

	s.Run("rejects tenant at quota", func() {
		tenantID := s.seedLicense(gate.PlanPro, 5)
		err := s.svc.Validate(s.ctx, tenantID, "Serra Azul Technical Report", domain.NilReportID)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))

		cause, ok := dErrors.CauseOf(err).(gate.QuotaCause)
		s.Require().True(ok)
		s.Equal(gate.CauseQuotaExceeded, cause.Type)
		s.Equal(5, cause.Current)
		s.Equal(5, cause.Limit)
		s.Equal(gate.PlanPro, cause.Plan)
	})

	s.Run("rejects tenant without a license", func() {
		err := s.svc.Validate(s.ctx, domain.NewTenantID(), "Some Report", domain.NilReportID)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	s.Run("rejects suspended license", func() {
		tenantID := domain.NewTenantID()
		lic := gate.NewLicense(tenantID, gate.PlanEnterprise, s.now)
		lic.Status = gate.LicenseSuspended
		s.Require().NoError(s.licenses.Save(s.ctx, lic))

		err := s.svc.Validate(s.ctx, tenantID, "Some Report", domain.NilReportID)
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	s.Run("rejects expired license", func() {
		tenantID := domain.NewTenantID()
		lic := gate.NewLicense(tenantID, gate.PlanEnterprise, s.now)
		expired := s.now.Add(-time.Hour)
		lic.ValidUntil = &expired
		s.Require().NoError(s.licenses.Save(s.ctx, lic))

		err := s.svc.Validate(s.ctx, tenantID, "Some Report", domain.NilReportID)
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	s.Run("start plan allows a single report", func() {
		tenantID := s.seedLicense(gate.PlanStart, 0)
		s.NoError(s.svc.Validate(s.ctx, tenantID, "Only Report", domain.NilReportID))
		s.Require().NoError(s.svc.IncrementUsage(s.ctx, tenantID))

		err := s.svc.Validate(s.ctx, tenantID, "Second Report", domain.NilReportID)
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})
}

func (s *GateSuite) TestValidateDuplicateTitle() {
	s.Run("rejects duplicate title within tenant", func() {
		tenantID := s.seedLicense(gate.PlanPro, 1)
		reportID := domain.NewReportID()
		s.Require().NoError(s.svc.RegisterTitle(s.ctx, tenantID, reportID, "Serra Azul Technical Report"))

		err := s.svc.Validate(s.ctx, tenantID, "Serra Azul Technical Report", domain.NilReportID)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))

		cause, ok := dErrors.CauseOf(err).(gate.DuplicateTitleCause)
		s.Require().True(ok)
		s.Equal(gate.CauseDuplicateTitle, cause.Type)
		s.Equal("Serra Azul Technical Report", cause.Title)
	})

	s.Run("same title is allowed across tenants", func() {
		first := s.seedLicense(gate.PlanPro, 0)
		second := s.seedLicense(gate.PlanPro, 0)
		s.Require().NoError(s.svc.RegisterTitle(s.ctx, first, domain.NewReportID(), "Shared Title Report"))

		s.NoError(s.svc.Validate(s.ctx, second, "Shared Title Report", domain.NilReportID))
	})

	s.Run("report keeps its own title on update", func() {
		tenantID := s.seedLicense(gate.PlanPro, 1)
		reportID := domain.NewReportID()
		s.Require().NoError(s.svc.RegisterTitle(s.ctx, tenantID, reportID, "Serra Azul Technical Report"))

		s.NoError(s.svc.Validate(s.ctx, tenantID, "Serra Azul Technical Report", reportID))
	})

	s.Run("quota is checked before the title", func() {
		tenantID := s.seedLicense(gate.PlanStart, 1)
		s.Require().NoError(s.titles.Register(s.ctx, tenantID, domain.NewReportID(), "Colliding Title"))

		err := s.svc.Validate(s.ctx, tenantID, "Colliding Title", domain.NilReportID)
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden),
			"over-quota tenant gets the quota denial even when the title also collides")
	})

	s.Run("released title can be reused", func() {
		tenantID := s.seedLicense(gate.PlanPro, 0)
		reportID := domain.NewReportID()
		s.Require().NoError(s.svc.RegisterTitle(s.ctx, tenantID, reportID, "Recycled Title"))
		s.Require().NoError(s.svc.ReleaseTitle(s.ctx, reportID))

		s.NoError(s.svc.Validate(s.ctx, tenantID, "Recycled Title", domain.NilReportID))
	})
}

func (s *GateSuite) TestValidateInput() {
	s.Run("requires tenant id", func() {
		err := s.svc.Validate(s.ctx, domain.TenantID{}, "Some Report", domain.NilReportID)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("requires a title", func() {
		tenantID := s.seedLicense(gate.PlanPro, 0)
		err := s.svc.Validate(s.ctx, tenantID, "   ", domain.NilReportID)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func (s *GateSuite) TestIncrementUsage() {
	s.Run("consumes quota", func() {
		tenantID := s.seedLicense(gate.PlanPro, 0)
		s.Require().NoError(s.svc.IncrementUsage(s.ctx, tenantID))

		lic, err := s.licenses.FindByTenant(s.ctx, tenantID)
		s.Require().NoError(err)
		s.Equal(1, lic.ReportsUsed)
	})

	s.Run("unknown tenant", func() {
		err := s.svc.IncrementUsage(s.ctx, domain.NewTenantID())
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *GateSuite) TestAdmit() {
	s.Run("registers title and consumes quota", func() {
		tenantID := s.seedLicense(gate.PlanPro, 0)
		reportID := domain.NewReportID()
		s.Require().NoError(s.svc.Admit(s.ctx, tenantID, reportID, "Serra Azul Technical Report"))

		lic, err := s.licenses.FindByTenant(s.ctx, tenantID)
		s.Require().NoError(err)
		s.Equal(1, lic.ReportsUsed)

		exists, err := s.titles.Exists(s.ctx, tenantID, "Serra Azul Technical Report", domain.NilReportID)
		s.Require().NoError(err)
		s.True(exists)
	})

	s.Run("requires report id", func() {
		tenantID := s.seedLicense(gate.PlanPro, 0)
		err := s.svc.Admit(s.ctx, tenantID, domain.NilReportID, "Some Report")
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("denial leaves quota untouched", func() {
		tenantID := s.seedLicense(gate.PlanPro, 1)
		first := domain.NewReportID()
		s.Require().NoError(s.svc.Admit(s.ctx, tenantID, first, "Serra Azul Technical Report"))

		err := s.svc.Admit(s.ctx, tenantID, domain.NewReportID(), "Serra Azul Technical Report")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))

		lic, ferr := s.licenses.FindByTenant(s.ctx, tenantID)
		s.Require().NoError(ferr)
		s.Equal(2, lic.ReportsUsed)
	})

	s.Run("own report can be re-admitted under a new title", func() {
		tenantID := s.seedLicense(gate.PlanEnterprise, 0)
		reportID := domain.NewReportID()
		s.Require().NoError(s.svc.Admit(s.ctx, tenantID, reportID, "Initial Title For The Report"))
		s.Require().NoError(s.svc.RegisterTitle(s.ctx, tenantID, reportID, "Revised Title For The Report"))

		exists, err := s.titles.Exists(s.ctx, tenantID, "Initial Title For The Report", domain.NilReportID)
		s.Require().NoError(err)
		s.False(exists)
	})
}

func (s *GateSuite) TestQuota() {
	s.Run("read model for active license", func() {
		tenantID := s.seedLicense(gate.PlanEnterprise, 3)
		info, err := s.svc.Quota(s.ctx, tenantID)
		s.Require().NoError(err)
		s.Equal(gate.PlanEnterprise, info.Plan)
		s.Equal(3, info.Used)
		s.Equal(15, info.Limit)
		s.Equal(12, info.Remaining)
		s.InDelta(20.0, info.PercentUsed, 0.01)
		s.Equal(gate.QuotaStatusOK, info.Status)
	})

	s.Run("warning near the limit", func() {
		tenantID := s.seedLicense(gate.PlanPro, 4)
		info, err := s.svc.Quota(s.ctx, tenantID)
		s.Require().NoError(err)
		s.Equal(gate.QuotaStatusWarning, info.Status)
	})

	s.Run("exhausted at the limit", func() {
		tenantID := s.seedLicense(gate.PlanStart, 1)
		info, err := s.svc.Quota(s.ctx, tenantID)
		s.Require().NoError(err)
		s.Equal(gate.QuotaStatusExhausted, info.Status)
		s.Equal(0, info.Remaining)
	})

	s.Run("unknown tenant", func() {
		_, err := s.svc.Quota(s.ctx, domain.NewTenantID())
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *GateSuite) TestTrailEvents() {
	s.Run("quota denial is recorded", func() {
		tenantID := s.seedLicense(gate.PlanStart, 1)
		_ = s.svc.Validate(s.ctx, tenantID, "Some Report", domain.NilReportID)

		events, err := s.sink.ListByTenant(s.ctx, tenantID)
		s.Require().NoError(err)
		s.Require().Len(events, 1)
		s.Equal(trail.ActionQuotaDenied, events[0].Action)
		s.Equal(s.now, events[0].Timestamp)
	})

	s.Run("duplicate denial is recorded", func() {
		tenantID := s.seedLicense(gate.PlanPro, 0)
		s.Require().NoError(s.svc.RegisterTitle(s.ctx, tenantID, domain.NewReportID(), "Taken Title"))
		_ = s.svc.Validate(s.ctx, tenantID, "Taken Title", domain.NilReportID)

		events, err := s.sink.ListByTenant(s.ctx, tenantID)
		s.Require().NoError(err)
		s.Require().Len(events, 1)
		s.Equal(trail.ActionDuplicateDenied, events[0].Action)
		s.Equal("Taken Title", events[0].Details["title"])
	})

	s.Run("usage increment is recorded", func() {
		tenantID := s.seedLicense(gate.PlanPro, 0)
		s.Require().NoError(s.svc.IncrementUsage(s.ctx, tenantID))

		events, err := s.sink.ListByTenant(s.ctx, tenantID)
		s.Require().NoError(err)
		s.Require().Len(events, 1)
		s.Equal(trail.ActionUsageIncremented, events[0].Action)
		s.Equal(1, events[0].Details["used"])
	})
}
