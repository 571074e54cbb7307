package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/khalidalhothifi/expense-manager/internal/apperrors"
	"github.com/khalidalhothifi/expense-manager/internal/core/domain"
	portsrepo "github.com/khalidalhothifi/expense-manager/internal/core/ports/repositories"
)

type GroupRepository struct {
	db *pgxpool.Pool
}

func NewGroupRepository(db *pgxpool.Pool) *GroupRepository {
	return &GroupRepository{db: db}
}

var _ portsrepo.GroupRepositoryFacade = (*GroupRepository)(nil)

const groupColumns = `
	group_id, name, member_ids,
	created_at, created_by, last_updated_at, last_updated_by`

func scanGroup(row pgx.Row) (*domain.Group, error) {
	var group domain.Group
	err := row.Scan(
		&group.GroupID,
		&group.Name,
		&group.MemberIDs,
		&group.CreatedAt,
		&group.CreatedBy,
		&group.LastUpdatedAt,
		&group.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *GroupRepository) FindGroupByID(ctx context.Context, groupID string) (*domain.Group, error) {
	query := `
        SELECT ` + groupColumns + `
        FROM groups
        WHERE group_id = $1 AND deleted_at IS NULL;
    `
	group, err := scanGroup(r.db.QueryRow(ctx, query, groupID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: group %s", apperrors.ErrNotFound, groupID)
		}
		return nil, fmt.Errorf("failed to find group by ID: %w", err)
	}
	return group, nil
}

func (r *GroupRepository) ListGroups(ctx context.Context) ([]domain.Group, error) {
	query := `
        SELECT ` + groupColumns + `
        FROM groups
        WHERE deleted_at IS NULL
        ORDER BY name ASC;
    `
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query groups: %w", err)
	}
	defer rows.Close()

	groups := []domain.Group{}
	for rows.Next() {
		group, err := scanGroup(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan group row: %w", err)
		}
		groups = append(groups, *group)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating group rows: %w", rows.Err())
	}
	return groups, nil
}

func (r *GroupRepository) UpdateGroup(ctx context.Context, group domain.Group) error {
	query := `
        UPDATE groups SET
            name = $2,
            member_ids = $3,
            last_updated_at = $4,
            last_updated_by = $5
        WHERE group_id = $1 AND deleted_at IS NULL;
    `
	tag, err := r.db.Exec(ctx, query,
		group.GroupID,
		group.Name,
		group.MemberIDs,
		group.LastUpdatedAt,
		group.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update group: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: group %s", apperrors.ErrNotFound, group.GroupID)
	}
	return nil
}
