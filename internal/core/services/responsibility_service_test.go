package services_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/khalidalhothifi/expense-manager/internal/apperrors"
	"github.com/khalidalhothifi/expense-manager/internal/core/domain"
	"github.com/khalidalhothifi/expense-manager/internal/dto"
)

type ResponsibilityServiceTestSuite struct {
	suite.Suite
	f *engineFixture
}

func (s *ResponsibilityServiceTestSuite) SetupTest() {
	s.f = newEngineFixture()
	r := s.Require()
	s.f.seedUser(r, managerID, "Mona Manager", "mona@example.com", domain.RoleManager)
	s.f.seedUser(r, employeeID, "Evan Employee", "evan@example.com", domain.RoleUser)
}

func (s *ResponsibilityServiceTestSuite) createRequest() dto.CreateResponsibilityRequest {
	return dto.CreateResponsibilityRequest{
		Name:     "Marketing",
		Budget:   decimal.NewFromInt(1000),
		Model:    string(domain.ModelShared),
		Assignee: dto.AssigneeSpec{Type: domain.AssigneeUser, ID: employeeID},
	}
}

func (s *ResponsibilityServiceTestSuite) TestCreate_Success() {
	ctx := context.Background()

	resp, err := s.f.resps.CreateResponsibility(ctx, s.createRequest(), managerID)

	s.Require().NoError(err)
	s.Require().NotNil(resp)
	s.Equal("Marketing", resp.Name)
	s.True(resp.Budget.Equal(decimal.NewFromInt(1000)))
	s.Equal(managerID, resp.CreatedBy)
	s.Require().Len(resp.History, 1)
	s.Contains(resp.History[0], "Created by Mona Manager on ")
	s.Contains(resp.History[0], "with a budget of $1000.00")
}

func (s *ResponsibilityServiceTestSuite) TestCreate_NotifiesAssignedUser() {
	ctx := context.Background()

	resp, err := s.f.resps.CreateResponsibility(ctx, s.createRequest(), managerID)
	s.Require().NoError(err)

	calls := s.f.notifier.byTrigger(domain.TriggerResponsibilityAssigned)
	s.Require().Len(calls, 1)
	s.Equal([]string{"evan@example.com"}, calls[0].Recipients)
	s.Equal(resp.Name, calls[0].Variables["responsibilityName"])
	s.Equal("1000.00", calls[0].Variables["budget"])
}

func (s *ResponsibilityServiceTestSuite) TestCreate_NotifiesGroupMembers() {
	ctx := context.Background()
	r := s.Require()
	s.f.seedUser(r, "user-third", "Tara Third", "tara@example.com", domain.RoleUser)
	s.f.seedGroup(r, "group-ops", "Operations Team", []string{employeeID, "user-third"})

	req := s.createRequest()
	req.Assignee = dto.AssigneeSpec{Type: domain.AssigneeGroup, ID: "group-ops"}
	_, err := s.f.resps.CreateResponsibility(ctx, req, managerID)
	s.Require().NoError(err)

	calls := s.f.notifier.byTrigger(domain.TriggerResponsibilityAssigned)
	s.Require().Len(calls, 1)
	s.Equal([]string{"evan@example.com", "tara@example.com"}, calls[0].Recipients)
}

func (s *ResponsibilityServiceTestSuite) TestCreate_NegativeBudget() {
	req := s.createRequest()
	req.Budget = decimal.NewFromInt(-5)

	_, err := s.f.resps.CreateResponsibility(context.Background(), req, managerID)

	s.Require().ErrorIs(err, apperrors.ErrValidation)
}

func (s *ResponsibilityServiceTestSuite) TestCreate_DistributedAllocationMismatch() {
	req := s.createRequest()
	req.Model = string(domain.ModelDistributed)
	req.DistributedAllocations = []dto.AllocationSpec{
		{UserID: employeeID, Amount: decimal.NewFromInt(600)},
		{UserID: managerID, Amount: decimal.NewFromInt(300)},
	}

	_, err := s.f.resps.CreateResponsibility(context.Background(), req, managerID)

	s.Require().ErrorIs(err, apperrors.ErrValidation)
}

func (s *ResponsibilityServiceTestSuite) TestCreate_DistributedWithinTolerance() {
	req := s.createRequest()
	req.Model = string(domain.ModelDistributed)
	req.DistributedAllocations = []dto.AllocationSpec{
		{UserID: employeeID, Amount: decimal.NewFromFloat(600.0005)},
		{UserID: managerID, Amount: decimal.NewFromFloat(400)},
	}

	resp, err := s.f.resps.CreateResponsibility(context.Background(), req, managerID)

	s.Require().NoError(err)
	s.Len(resp.DistributedAllocations, 2)
}

func (s *ResponsibilityServiceTestSuite) TestUpdate_BudgetChangeAppendsHistory() {
	ctx := context.Background()
	created, err := s.f.resps.CreateResponsibility(ctx, s.createRequest(), managerID)
	s.Require().NoError(err)

	newBudget := decimal.NewFromInt(1500)
	updated, err := s.f.resps.UpdateResponsibility(ctx, created.ResponsibilityID,
		dto.UpdateResponsibilityRequest{Budget: &newBudget}, managerID)

	s.Require().NoError(err)
	s.True(updated.Budget.Equal(newBudget))
	s.Require().Len(updated.History, 2)
	s.Contains(updated.History[1], "Budget updated manually from $1000.00 to $1500.00")
}

func (s *ResponsibilityServiceTestSuite) TestUpdate_DetailsOnlyAppendsGenericLine() {
	ctx := context.Background()
	created, err := s.f.resps.CreateResponsibility(ctx, s.createRequest(), managerID)
	s.Require().NoError(err)

	name := "Marketing and Events"
	updated, err := s.f.resps.UpdateResponsibility(ctx, created.ResponsibilityID,
		dto.UpdateResponsibilityRequest{Name: &name}, managerID)

	s.Require().NoError(err)
	s.Equal(name, updated.Name)
	s.Require().Len(updated.History, 2)
	s.Contains(updated.History[1], "Details updated by Mona Manager")
	s.NotContains(updated.History[1], "Budget updated")
}

func (s *ResponsibilityServiceTestSuite) TestUpdate_NegativeBudget() {
	ctx := context.Background()
	created, err := s.f.resps.CreateResponsibility(ctx, s.createRequest(), managerID)
	s.Require().NoError(err)

	bad := decimal.NewFromInt(-1)
	_, err = s.f.resps.UpdateResponsibility(ctx, created.ResponsibilityID,
		dto.UpdateResponsibilityRequest{Budget: &bad}, managerID)

	s.Require().ErrorIs(err, apperrors.ErrValidation)
}

func (s *ResponsibilityServiceTestSuite) TestUpdate_NotFound() {
	name := "Anything"
	_, err := s.f.resps.UpdateResponsibility(context.Background(), "resp-missing",
		dto.UpdateResponsibilityRequest{Name: &name}, managerID)

	s.Require().ErrorIs(err, apperrors.ErrNotFound)
}

func (s *ResponsibilityServiceTestSuite) seedPair(from, to decimal.Decimal) {
	r := s.Require()
	s.f.seedResponsibility(r, "resp-src", "Source", from,
		domain.Assignee{Type: domain.AssigneeUser, ID: employeeID})
	s.f.seedResponsibility(r, "resp-dst", "Destination", to,
		domain.Assignee{Type: domain.AssigneeUser, ID: employeeID})
}

func (s *ResponsibilityServiceTestSuite) TestReallocate_Success() {
	ctx := context.Background()
	s.seedPair(decimal.NewFromInt(1000), decimal.NewFromInt(500))

	updated, err := s.f.resps.ReallocateBudget(ctx, dto.ReallocateBudgetRequest{
		FromID: "resp-src",
		ToID:   "resp-dst",
		Amount: decimal.NewFromInt(250),
	}, managerID)

	s.Require().NoError(err)
	s.Require().Len(updated, 2)
	s.Equal("resp-src", updated[0].ResponsibilityID)
	s.Equal("resp-dst", updated[1].ResponsibilityID)
	s.True(updated[0].Budget.Equal(decimal.NewFromInt(750)))
	s.True(updated[1].Budget.Equal(decimal.NewFromInt(750)))

	// Total budget across the pair is conserved.
	sum := updated[0].Budget.Add(updated[1].Budget)
	s.True(sum.Equal(decimal.NewFromInt(1500)))

	s.Require().Len(updated[0].History, 2)
	s.Require().Len(updated[1].History, 2)
	s.Contains(updated[0].History[1], "Reallocated -$250.00 to 'Destination' by Mona Manager")
	s.Contains(updated[1].History[1], "Reallocated +$250.00 from 'Source' by Mona Manager")
}

func (s *ResponsibilityServiceTestSuite) TestReallocate_FullTransferToZero() {
	ctx := context.Background()
	s.seedPair(decimal.NewFromInt(300), decimal.NewFromInt(0))

	updated, err := s.f.resps.ReallocateBudget(ctx, dto.ReallocateBudgetRequest{
		FromID: "resp-src",
		ToID:   "resp-dst",
		Amount: decimal.NewFromInt(300),
	}, managerID)

	s.Require().NoError(err)
	s.True(updated[0].Budget.IsZero())
	s.True(updated[1].Budget.Equal(decimal.NewFromInt(300)))
}

func (s *ResponsibilityServiceTestSuite) TestReallocate_InsufficientFunds() {
	ctx := context.Background()
	s.seedPair(decimal.NewFromInt(100), decimal.NewFromInt(500))

	_, err := s.f.resps.ReallocateBudget(ctx, dto.ReallocateBudgetRequest{
		FromID: "resp-src",
		ToID:   "resp-dst",
		Amount: decimal.NewFromInt(150),
	}, managerID)

	var insErr *apperrors.InsufficientFundsError
	s.Require().ErrorAs(err, &insErr)
	s.True(insErr.Available.Equal(decimal.NewFromInt(100)))
	s.True(insErr.Requested.Equal(decimal.NewFromInt(150)))

	// Neither envelope changed.
	src, err := s.f.resps.GetResponsibilityByID(ctx, "resp-src")
	s.Require().NoError(err)
	s.True(src.Budget.Equal(decimal.NewFromInt(100)))
}

func (s *ResponsibilityServiceTestSuite) TestReallocate_SameEnvelope() {
	s.seedPair(decimal.NewFromInt(100), decimal.NewFromInt(100))

	_, err := s.f.resps.ReallocateBudget(context.Background(), dto.ReallocateBudgetRequest{
		FromID: "resp-src",
		ToID:   "resp-src",
		Amount: decimal.NewFromInt(10),
	}, managerID)

	s.Require().ErrorIs(err, apperrors.ErrValidation)
}

func (s *ResponsibilityServiceTestSuite) TestReallocate_NonPositiveAmount() {
	s.seedPair(decimal.NewFromInt(100), decimal.NewFromInt(100))

	for _, amount := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-20)} {
		_, err := s.f.resps.ReallocateBudget(context.Background(), dto.ReallocateBudgetRequest{
			FromID: "resp-src",
			ToID:   "resp-dst",
			Amount: amount,
		}, managerID)
		s.Require().ErrorIs(err, apperrors.ErrValidation)
	}
}

func (s *ResponsibilityServiceTestSuite) TestReallocate_UnknownEnvelope() {
	s.seedPair(decimal.NewFromInt(100), decimal.NewFromInt(100))

	_, err := s.f.resps.ReallocateBudget(context.Background(), dto.ReallocateBudgetRequest{
		FromID: "resp-src",
		ToID:   "resp-missing",
		Amount: decimal.NewFromInt(10),
	}, managerID)

	s.Require().ErrorIs(err, apperrors.ErrNotFound)
}

func (s *ResponsibilityServiceTestSuite) TestReallocate_NonManagerForbidden() {
	s.seedPair(decimal.NewFromInt(100), decimal.NewFromInt(100))

	_, err := s.f.resps.ReallocateBudget(context.Background(), dto.ReallocateBudgetRequest{
		FromID: "resp-src",
		ToID:   "resp-dst",
		Amount: decimal.NewFromInt(10),
	}, employeeID)

	s.Require().ErrorIs(err, apperrors.ErrForbidden)
}

func (s *ResponsibilityServiceTestSuite) TestDelete_RemovesFromReads() {
	ctx := context.Background()
	created, err := s.f.resps.CreateResponsibility(ctx, s.createRequest(), managerID)
	s.Require().NoError(err)

	s.Require().NoError(s.f.resps.DeleteResponsibility(ctx, created.ResponsibilityID, managerID))

	_, err = s.f.resps.GetResponsibilityByID(ctx, created.ResponsibilityID)
	s.Require().ErrorIs(err, apperrors.ErrNotFound)
}

func TestResponsibilityServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ResponsibilityServiceTestSuite))
}
