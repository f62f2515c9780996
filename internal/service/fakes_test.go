package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/admin-service/internal/domain"
)

type fakeUserRepo struct {
	mu           sync.Mutex
	users        map[int64]*domain.User
	nextID       int64
	emailLookups int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int64]*domain.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	user.ID = r.nextID
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	cloned := *user
	r.users[user.ID] = &cloned
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	cloned := *user
	r.users[user.ID] = &cloned
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cloned := *user
	return &cloned, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.emailLookups++
	for _, user := range r.users {
		if user.Email == email {
			cloned := *user
			return &cloned, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Username == username {
			cloned := *user
			return &cloned, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) UpdateLastLogin(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	now := time.Now()
	user.LastLoginAt = &now
	return nil
}

func (r *fakeUserRepo) EmailLookups() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.emailLookups
}

type fakeRoleRepo struct {
	mu          sync.Mutex
	userRoles   map[int64][]domain.Role
	rolePerms   map[int64][]domain.Permission
	roleLookups int
}

func newFakeRoleRepo() *fakeRoleRepo {
	return &fakeRoleRepo{
		userRoles: make(map[int64][]domain.Role),
		rolePerms: make(map[int64][]domain.Permission),
	}
}

func (r *fakeRoleRepo) GetUserRoles(_ context.Context, userID int64) ([]domain.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.roleLookups++
	return r.userRoles[userID], nil
}

func (r *fakeRoleRepo) GetRolePermissions(_ context.Context, roleID int64) ([]domain.Permission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rolePerms[roleID], nil
}

func (r *fakeRoleRepo) AssignDefaultRole(_ context.Context, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.userRoles[userID] = append(r.userRoles[userID], domain.Role{ID: 2, Name: "member", Status: domain.RoleStatusEnabled})
	return nil
}

func (r *fakeRoleRepo) ReplaceUserRoles(_ context.Context, userID int64, roleIDs []int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	roles := make([]domain.Role, 0, len(roleIDs))
	for _, id := range roleIDs {
		roles = append(roles, domain.Role{ID: id, Status: domain.RoleStatusEnabled})
	}
	r.userRoles[userID] = roles
	return nil
}

func (r *fakeRoleRepo) RoleLookups() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.roleLookups
}

type fakeDepartmentRepo struct {
	departments map[int64]domain.Department
}

func newFakeDepartmentRepo() *fakeDepartmentRepo {
	return &fakeDepartmentRepo{departments: make(map[int64]domain.Department)}
}

func (r *fakeDepartmentRepo) List(_ context.Context) ([]domain.Department, error) {
	out := make([]domain.Department, 0, len(r.departments))
	for _, d := range r.departments {
		out = append(out, d)
	}
	return out, nil
}

func (r *fakeDepartmentRepo) GetByID(_ context.Context, id int64) (*domain.Department, error) {
	d, ok := r.departments[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &d, nil
}

type fakeMenuRepo struct {
	mu        sync.Mutex
	all       []domain.Menu
	userMenus map[int64][]domain.Menu
	lookups   int
}

func newFakeMenuRepo() *fakeMenuRepo {
	return &fakeMenuRepo{userMenus: make(map[int64][]domain.Menu)}
}

func (r *fakeMenuRepo) GetAll(_ context.Context) ([]domain.Menu, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lookups++
	return r.all, nil
}

func (r *fakeMenuRepo) GetUserMenus(_ context.Context, userID int64) ([]domain.Menu, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lookups++
	return r.userMenus[userID], nil
}

func (r *fakeMenuRepo) Lookups() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lookups
}

// brokenCache always fails, standing in for an unreachable backend.
type brokenCache struct{}

var errCacheDown = errors.New("cache backend unreachable")

func (brokenCache) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errCacheDown
}

func (brokenCache) Set(context.Context, string, []byte, time.Duration) error {
	return errCacheDown
}

func (brokenCache) Delete(context.Context, ...string) error {
	return errCacheDown
}
