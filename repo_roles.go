package auth

import (
	"context"
	"database/sql"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Roles reads the persisted side of the role enumeration. Role rows are the
// source of truth for the id to name mapping; the names themselves are the
// closed UserRole set.
type Roles interface {
	RoleResolver

	FindRoleByNameTx(ctx context.Context, tx bun.IDB, name UserRole) (*Role, error)
	GetByIDs(ctx context.Context, ids []int64) ([]*Role, error)
	Seed(ctx context.Context) error
	SeedTx(ctx context.Context, tx bun.IDB) error
}

type roles struct {
	db *bun.DB
}

var _ Roles = (*roles)(nil)

func NewRolesRepository(db *bun.DB) Roles {
	return &roles{db: db}
}

func (r *roles) FindRoleByName(ctx context.Context, name UserRole) (*Role, error) {
	return r.FindRoleByNameTx(ctx, r.db, name)
}

// FindRoleByNameTx runs the lookup on the given tx so callers already inside
// a transaction do not reach for a second connection.
func (r *roles) FindRoleByNameTx(ctx context.Context, tx bun.IDB, name UserRole) (*Role, error) {
	record := &Role{}
	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias.name = ?", name).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{"name": name})
		}
		return nil, err
	}

	return record, nil
}

func (r *roles) GetByIDs(ctx context.Context, ids []int64) ([]*Role, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var records []*Role
	err := r.db.NewSelect().
		Model(&records).
		Where("?TableAlias.id IN (?)", bun.In(ids)).
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	return records, nil
}

// ResolveNames maps role ids onto names. An id with no matching row is
// silently dropped: a stale assignment must not fail the whole resolution.
// Result order follows the store, callers treat it as a set.
func (r *roles) ResolveNames(ctx context.Context, ids []int64) ([]UserRole, error) {
	records, err := r.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	names := make([]UserRole, 0, len(records))
	for _, record := range records {
		names = append(names, record.Name)
	}

	return names, nil
}

// Seed inserts the closed role enumeration, skipping rows that already exist.
func (r *roles) Seed(ctx context.Context) error {
	return r.SeedTx(ctx, r.db)
}

func (r *roles) SeedTx(ctx context.Context, tx bun.IDB) error {
	records := []*Role{
		{Name: RoleUser},
		{Name: RoleAdmin},
	}

	_, err := tx.NewInsert().
		Model(&records).
		On("CONFLICT (name) DO NOTHING").
		Exec(ctx)

	return err
}

// RoleAssignments persists which users hold which roles.
type RoleAssignments interface {
	RoleSnapshotter

	Assign(ctx context.Context, userID uuid.UUID, roleID int64) error
	AssignTx(ctx context.Context, tx bun.IDB, userID uuid.UUID, roleID int64) error
	AssignByNameTx(ctx context.Context, tx bun.IDB, userID uuid.UUID, name UserRole) error
	ListRoleIDs(ctx context.Context, userID uuid.UUID) ([]int64, error)
}

type roleAssignments struct {
	db    *bun.DB
	roles Roles
}

var _ RoleAssignments = (*roleAssignments)(nil)

func NewRoleAssignmentsRepository(db *bun.DB, roleRepo Roles) RoleAssignments {
	return &roleAssignments{db: db, roles: roleRepo}
}

func (r *roleAssignments) Assign(ctx context.Context, userID uuid.UUID, roleID int64) error {
	return r.AssignTx(ctx, r.db, userID, roleID)
}

func (r *roleAssignments) AssignTx(ctx context.Context, tx bun.IDB, userID uuid.UUID, roleID int64) error {
	record := &RoleAssignment{
		UserID: userID,
		RoleID: roleID,
	}

	_, err := tx.NewInsert().
		Model(record).
		On("CONFLICT (user_id, role_id) DO NOTHING").
		Exec(ctx)

	return err
}

func (r *roleAssignments) AssignByNameTx(ctx context.Context, tx bun.IDB, userID uuid.UUID, name UserRole) error {
	if !ValidRole(name) {
		return errors.New("unknown role: "+name, errors.CategoryValidation)
	}

	role, err := r.roles.FindRoleByNameTx(ctx, tx, name)
	if err != nil {
		return err
	}

	return r.AssignTx(ctx, tx, userID, role.ID)
}

func (r *roleAssignments) ListRoleIDs(ctx context.Context, userID uuid.UUID) ([]int64, error) {
	var ids []int64
	err := r.db.NewSelect().
		Model((*RoleAssignment)(nil)).
		Column("role_id").
		Where("?TableAlias.user_id = ?", userID).
		Scan(ctx, &ids)
	if err != nil {
		return nil, err
	}

	return ids, nil
}

// FindUserRoles resolves the role names a user currently holds. Stale
// assignments fall out through ResolveNames.
func (r *roleAssignments) FindUserRoles(ctx context.Context, userID uuid.UUID) ([]UserRole, error) {
	ids, err := r.ListRoleIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	return r.roles.ResolveNames(ctx, ids)
}
