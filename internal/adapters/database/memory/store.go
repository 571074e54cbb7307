// Package memory provides a mutex-serialized in-memory implementation of
// the repository ports. It backs local development (USE_MEMORY_STORE) and
// the service-level tests; semantics mirror the pgsql adapter, including
// atomic cap checks and budget transfers.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/khalidalhothifi/expense-manager/internal/apperrors"
	"github.com/khalidalhothifi/expense-manager/internal/core/domain"
	portsrepo "github.com/khalidalhothifi/expense-manager/internal/core/ports/repositories"
)

// Store holds all entities behind one mutex. The coarse lock is the point:
// budget checks and writes happen under it, so concurrent submissions are
// serialized exactly like the row locks in the pgsql adapter.
type Store struct {
	mu               sync.Mutex
	users            map[string]domain.User
	groups           map[string]domain.Group
	vendors          map[string]domain.Vendor
	responsibilities map[string]domain.Responsibility
	expenses         map[string]domain.Expense
	settings         map[string][]byte
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		users:            map[string]domain.User{},
		groups:           map[string]domain.Group{},
		vendors:          map[string]domain.Vendor{},
		responsibilities: map[string]domain.Responsibility{},
		expenses:         map[string]domain.Expense{},
		settings:         map[string][]byte{},
	}
}

// NewRepositoryProvider exposes one store through every repository port.
func NewRepositoryProvider(s *Store) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		ResponsibilityRepo: s,
		ExpenseRepo:        s,
		UserRepo:           s,
		GroupRepo:          s,
		VendorRepo:         s,
		SettingsRepo:       s,
	}
}

var (
	_ portsrepo.ResponsibilityRepositoryFacade = (*Store)(nil)
	_ portsrepo.ExpenseRepositoryFacade        = (*Store)(nil)
	_ portsrepo.UserRepositoryFacade           = (*Store)(nil)
	_ portsrepo.GroupRepositoryFacade          = (*Store)(nil)
	_ portsrepo.VendorRepositoryFacade         = (*Store)(nil)
	_ portsrepo.SettingsRepository             = (*Store)(nil)
)

// --- users ---

func (s *Store) SaveUser(_ context.Context, user domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.UserID] = user
	return nil
}

func (s *Store) FindUserByID(_ context.Context, userID string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[userID]
	if !ok || user.DeletedAt != nil {
		return nil, fmt.Errorf("%w: user %s", apperrors.ErrNotFound, userID)
	}
	return &user, nil
}

func (s *Store) FindUserByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if user.DeletedAt == nil && strings.EqualFold(user.Email, email) {
			u := user
			return &u, nil
		}
	}
	return nil, fmt.Errorf("%w: user with email %s", apperrors.ErrNotFound, email)
}

func (s *Store) FindUsersByIDs(_ context.Context, userIDs []string) (map[string]domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]domain.User, len(userIDs))
	for _, id := range userIDs {
		if user, ok := s.users[id]; ok && user.DeletedAt == nil {
			out[id] = user
		}
	}
	return out, nil
}

func (s *Store) ListUsers(_ context.Context) ([]domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.User{}
	for _, user := range s.users {
		if user.DeletedAt == nil {
			out = append(out, user)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) ListUsersByRole(_ context.Context, role domain.Role) ([]domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.User{}
	for _, user := range s.users {
		if user.DeletedAt == nil && user.Role == role {
			out = append(out, user)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) UpdateUser(_ context.Context, user domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.users[user.UserID]
	if !ok || existing.DeletedAt != nil {
		return fmt.Errorf("%w: user %s", apperrors.ErrNotFound, user.UserID)
	}
	s.users[user.UserID] = user
	return nil
}

func (s *Store) MarkUserDeleted(_ context.Context, userID string, deletedAt time.Time, deletedBy string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[userID]
	if !ok || user.DeletedAt != nil {
		return fmt.Errorf("%w: user %s", apperrors.ErrNotFound, userID)
	}
	user.DeletedAt = &deletedAt
	user.LastUpdatedAt = deletedAt
	user.LastUpdatedBy = deletedBy
	s.users[userID] = user
	return nil
}

// --- groups ---

func (s *Store) SaveGroup(_ context.Context, group domain.Group) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.groups[group.GroupID] = group
	return nil
}

func (s *Store) FindGroupByID(_ context.Context, groupID string) (*domain.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	group, ok := s.groups[groupID]
	if !ok || group.DeletedAt != nil {
		return nil, fmt.Errorf("%w: group %s", apperrors.ErrNotFound, groupID)
	}
	return &group, nil
}

func (s *Store) ListGroups(_ context.Context) ([]domain.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.Group{}
	for _, group := range s.groups {
		if group.DeletedAt == nil {
			out = append(out, group)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) UpdateGroup(_ context.Context, group domain.Group) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.groups[group.GroupID]
	if !ok || existing.DeletedAt != nil {
		return fmt.Errorf("%w: group %s", apperrors.ErrNotFound, group.GroupID)
	}
	s.groups[group.GroupID] = group
	return nil
}

// --- vendors ---

func (s *Store) FindVendorByName(_ context.Context, name string) (*domain.Vendor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, vendor := range s.vendors {
		if vendor.DeletedAt == nil && strings.EqualFold(vendor.Name, name) {
			v := vendor
			return &v, nil
		}
	}
	return nil, fmt.Errorf("%w: vendor %q", apperrors.ErrNotFound, name)
}

func (s *Store) ListVendors(_ context.Context) ([]domain.Vendor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.Vendor{}
	for _, vendor := range s.vendors {
		if vendor.DeletedAt == nil {
			out = append(out, vendor)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) SaveVendor(_ context.Context, vendor domain.Vendor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.vendors {
		if existing.DeletedAt == nil && strings.EqualFold(existing.Name, vendor.Name) {
			return nil
		}
	}
	s.vendors[vendor.VendorID] = vendor
	return nil
}

// --- responsibilities ---

func (s *Store) SaveResponsibility(_ context.Context, resp domain.Responsibility) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.responsibilities[resp.ResponsibilityID] = cloneResponsibility(resp)
	return nil
}

func (s *Store) FindResponsibilityByID(_ context.Context, responsibilityID string) (*domain.Responsibility, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findResponsibilityLocked(responsibilityID)
}

func (s *Store) findResponsibilityLocked(responsibilityID string) (*domain.Responsibility, error) {
	resp, ok := s.responsibilities[responsibilityID]
	if !ok || resp.DeletedAt != nil {
		return nil, fmt.Errorf("%w: responsibility %s", apperrors.ErrNotFound, responsibilityID)
	}
	out := cloneResponsibility(resp)
	return &out, nil
}

func (s *Store) ListResponsibilities(_ context.Context) ([]domain.Responsibility, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.Responsibility{}
	for _, resp := range s.responsibilities {
		if resp.DeletedAt == nil {
			out = append(out, cloneResponsibility(resp))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) UpdateResponsibility(_ context.Context, resp domain.Responsibility, historyLine string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.responsibilities[resp.ResponsibilityID]
	if !ok || existing.DeletedAt != nil {
		return fmt.Errorf("%w: responsibility %s", apperrors.ErrNotFound, resp.ResponsibilityID)
	}
	updated := cloneResponsibility(resp)
	updated.History = append(append([]string{}, existing.History...), historyLine)
	s.responsibilities[resp.ResponsibilityID] = updated
	return nil
}

func (s *Store) TransferBudget(_ context.Context, fromID, toID string, amount decimal.Decimal, fromLine, toLine string) ([]domain.Responsibility, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	from, ok := s.responsibilities[fromID]
	if !ok || from.DeletedAt != nil {
		return nil, fmt.Errorf("%w: responsibility %s", apperrors.ErrNotFound, fromID)
	}
	to, ok := s.responsibilities[toID]
	if !ok || to.DeletedAt != nil {
		return nil, fmt.Errorf("%w: responsibility %s", apperrors.ErrNotFound, toID)
	}
	if from.Budget.LessThan(amount) {
		return nil, &apperrors.InsufficientFundsError{Requested: amount, Available: from.Budget}
	}

	now := time.Now().UTC()
	from = cloneResponsibility(from)
	to = cloneResponsibility(to)
	from.Budget = from.Budget.Sub(amount)
	from.History = append(from.History, fromLine)
	from.LastUpdatedAt = now
	to.Budget = to.Budget.Add(amount)
	to.History = append(to.History, toLine)
	to.LastUpdatedAt = now
	s.responsibilities[fromID] = from
	s.responsibilities[toID] = to

	return []domain.Responsibility{cloneResponsibility(from), cloneResponsibility(to)}, nil
}

func (s *Store) MarkResponsibilityDeleted(_ context.Context, responsibilityID string, deletedAt time.Time, deletedBy string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	resp, ok := s.responsibilities[responsibilityID]
	if !ok || resp.DeletedAt != nil {
		return fmt.Errorf("%w: responsibility %s", apperrors.ErrNotFound, responsibilityID)
	}
	resp.DeletedAt = &deletedAt
	resp.LastUpdatedAt = deletedAt
	resp.LastUpdatedBy = deletedBy
	s.responsibilities[responsibilityID] = resp
	return nil
}

func cloneResponsibility(resp domain.Responsibility) domain.Responsibility {
	out := resp
	out.History = append([]string{}, resp.History...)
	out.DistributedAllocations = append([]domain.DistributedAllocation{}, resp.DistributedAllocations...)
	return out
}

// --- expenses ---

func (s *Store) SaveExpense(_ context.Context, expense domain.Expense, enforceCap bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	resp, ok := s.responsibilities[expense.ResponsibilityID]
	if !ok || resp.DeletedAt != nil {
		return fmt.Errorf("%w: responsibility %s", apperrors.ErrNotFound, expense.ResponsibilityID)
	}

	spent := s.sumNonRejectedLocked(expense.ResponsibilityID)
	if enforceCap && spent.Add(expense.Total).GreaterThan(resp.Budget) {
		return &apperrors.BudgetExceededError{
			Attempted:    expense.Total,
			CurrentSpent: spent,
			Budget:       resp.Budget,
		}
	}

	s.expenses[expense.ExpenseID] = expense
	return nil
}

func (s *Store) FindExpenseByID(_ context.Context, expenseID string) (*domain.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	exp, ok := s.expenses[expenseID]
	if !ok || exp.DeletedAt != nil {
		return nil, fmt.Errorf("%w: expense %s", apperrors.ErrNotFound, expenseID)
	}
	return &exp, nil
}

func (s *Store) ListExpenses(_ context.Context) ([]domain.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.Expense{}
	for _, exp := range s.expenses {
		if exp.DeletedAt == nil {
			out = append(out, exp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].Date.After(out[j].Date)
	})
	return out, nil
}

func (s *Store) SumNonRejectedExpenses(_ context.Context, responsibilityID string) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sumNonRejectedLocked(responsibilityID), nil
}

func (s *Store) sumNonRejectedLocked(responsibilityID string) decimal.Decimal {
	sum := decimal.Zero
	for _, exp := range s.expenses {
		if exp.ResponsibilityID == responsibilityID && exp.Status != domain.StatusRejected && exp.DeletedAt == nil {
			sum = sum.Add(exp.Total)
		}
	}
	return sum
}

func (s *Store) UpdateExpenseStatus(_ context.Context, expenseID string, status domain.ExpenseStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	exp, ok := s.expenses[expenseID]
	if !ok || exp.DeletedAt != nil {
		return fmt.Errorf("%w: expense %s", apperrors.ErrNotFound, expenseID)
	}
	if exp.Status != domain.StatusPending {
		return fmt.Errorf("%w: expense %s is not pending", apperrors.ErrConflict, expenseID)
	}
	exp.Status = status
	s.expenses[expenseID] = exp
	return nil
}

// --- settings ---

func (s *Store) GetSetting(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	value, ok := s.settings[key]
	if !ok {
		return nil, fmt.Errorf("%w: setting %s", apperrors.ErrNotFound, key)
	}
	return append([]byte{}, value...), nil
}

func (s *Store) SaveSetting(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings[key] = append([]byte{}, value...)
	return nil
}
