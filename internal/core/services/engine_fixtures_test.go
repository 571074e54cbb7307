package services_test

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/khalidalhothifi/expense-manager/internal/adapters/database/memory"
	"github.com/khalidalhothifi/expense-manager/internal/core/domain"
	portssvc "github.com/khalidalhothifi/expense-manager/internal/core/ports/services"
	"github.com/khalidalhothifi/expense-manager/internal/core/services"
)

// recordedNotification is one captured dispatcher call.
type recordedNotification struct {
	Trigger    domain.NotificationTrigger
	Variables  map[string]string
	Recipients []string
}

// notifierRecorder captures notification dispatches instead of sending mail.
type notifierRecorder struct {
	mu    sync.Mutex
	calls []recordedNotification
}

var _ portssvc.NotifierSvcFacade = (*notifierRecorder)(nil)

func (r *notifierRecorder) Send(_ context.Context, trigger domain.NotificationTrigger, variables map[string]string, recipients []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, recordedNotification{Trigger: trigger, Variables: variables, Recipients: recipients})
}

func (r *notifierRecorder) byTrigger(trigger domain.NotificationTrigger) []recordedNotification {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []recordedNotification
	for _, c := range r.calls {
		if c.Trigger == trigger {
			out = append(out, c)
		}
	}
	return out
}

// engineFixture wires the budget engine services over the in-memory store,
// with a recording notifier in place of the SMTP dispatcher.
type engineFixture struct {
	store    *memory.Store
	notifier *notifierRecorder
	users    portssvc.UserSvcFacade
	groups   portssvc.GroupSvcFacade
	vendors  portssvc.VendorSvcFacade
	resps    portssvc.ResponsibilitySvcFacade
	expenses portssvc.ExpenseSvcFacade
}

func newEngineFixture() *engineFixture {
	store := memory.NewStore()
	repos := memory.NewRepositoryProvider(store)
	notifier := &notifierRecorder{}

	users := services.NewUserService(repos.UserRepo)
	groups := services.NewGroupService(repos.GroupRepo)
	vendors := services.NewVendorService(repos.VendorRepo)

	return &engineFixture{
		store:    store,
		notifier: notifier,
		users:    users,
		groups:   groups,
		vendors:  vendors,
		resps:    services.NewResponsibilityService(repos.ResponsibilityRepo, users, groups, notifier),
		expenses: services.NewExpenseService(repos.ExpenseRepo, repos.ResponsibilityRepo, users, vendors, notifier),
	}
}

func (f *engineFixture) seedUser(r *require.Assertions, id, name, email string, role domain.Role) {
	now := time.Now().UTC()
	err := f.store.SaveUser(context.Background(), domain.User{
		UserID:       id,
		Name:         name,
		Email:        email,
		Role:         role,
		PasswordHash: "x",
		AuditFields:  domain.AuditFields{CreatedAt: now, CreatedBy: "seed", LastUpdatedAt: now, LastUpdatedBy: "seed"},
	})
	r.NoError(err)
}

func (f *engineFixture) seedGroup(r *require.Assertions, id, name string, memberIDs []string) {
	now := time.Now().UTC()
	err := f.store.SaveGroup(context.Background(), domain.Group{
		GroupID:     id,
		Name:        name,
		MemberIDs:   memberIDs,
		AuditFields: domain.AuditFields{CreatedAt: now, CreatedBy: "seed", LastUpdatedAt: now, LastUpdatedBy: "seed"},
	})
	r.NoError(err)
}

func (f *engineFixture) seedResponsibility(r *require.Assertions, id, name string, budget decimal.Decimal, assignee domain.Assignee) {
	now := time.Now().UTC()
	err := f.store.SaveResponsibility(context.Background(), domain.Responsibility{
		ResponsibilityID: id,
		Name:             name,
		Budget:           budget,
		Model:            domain.ModelShared,
		Assignee:         assignee,
		History:          []string{"seeded"},
		AuditFields:      domain.AuditFields{CreatedAt: now, CreatedBy: "seed", LastUpdatedAt: now, LastUpdatedBy: "seed"},
	})
	r.NoError(err)
}
