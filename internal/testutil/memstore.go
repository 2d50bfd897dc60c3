// Package testutil provides in-memory implementations of the service store
// interfaces for service and HTTP-level tests.
package testutil

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stemsi/command-center/internal/model"
	"github.com/stemsi/command-center/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

// Stores bundles one of each in-memory store, sharing account data so joins
// (requester names, owner lookups) resolve the way the database would.
type Stores struct {
	Accounts    *Accounts
	Servers     *Servers
	Requests    *Requests
	Issues      *Issues
	Allocations *Allocations
	Audit       *Audit
}

// NewStores returns empty, linked stores. Deleting an account removes its
// requests, issues and allocations, as ON DELETE CASCADE does.
func NewStores() *Stores {
	servers := &Servers{rows: map[int]*model.Server{}}
	st := &Stores{
		Servers:     servers,
		Requests:    &Requests{rows: map[int]*model.AccessRequest{}, servers: servers},
		Issues:      &Issues{rows: map[int]*model.Issue{}},
		Allocations: &Allocations{servers: servers},
		Audit:       &Audit{},
	}
	st.Accounts = &Accounts{
		rows: map[int]*model.Account{},
		onDelete: []func(accountID int){
			st.Requests.deleteOwner,
			st.Issues.deleteOwner,
			st.Allocations.deleteOwner,
		},
	}
	return st
}

// ─── Accounts ────────────────────────────────────────────────────────────

type Accounts struct {
	mu       sync.Mutex
	nextID   int
	rows     map[int]*model.Account
	onDelete []func(accountID int)
}

// Seed stores an account with the given plaintext password and the default
// role detail.
func (s *Accounts) Seed(t testing.TB, userID, password string, role model.Role) *model.Account {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	a := &model.Account{UserID: userID, Name: userID, Email: userID + "@example.test", Role: role, PasswordHash: string(hash)}
	if err := s.Create(context.Background(), a, model.DefaultRoleDetail(role)); err != nil {
		t.Fatal(err)
	}
	return a
}

func (s *Accounts) GetByUserID(_ context.Context, userID string) (*model.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.rows {
		if a.UserID == userID {
			cp := *a
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *Accounts) GetByID(_ context.Context, id int) (*model.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (s *Accounts) matching(f model.AccountFilter) []model.Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.Account{}
	for _, a := range s.rows {
		if f.Role == "" || a.Role == f.Role {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (s *Accounts) List(_ context.Context, f model.AccountFilter, p model.Page) ([]model.Account, error) {
	return window(s.matching(f), p), nil
}

func (s *Accounts) Count(_ context.Context, f model.AccountFilter) (int, error) {
	return len(s.matching(f)), nil
}

func (s *Accounts) Create(_ context.Context, a *model.Account, detail model.RoleDetail) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.rows {
		if existing.UserID == a.UserID {
			return repository.ErrDuplicateAccount
		}
	}
	s.nextID++
	a.ID = s.nextID
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	d := detail
	a.Detail = &d
	cp := *a
	s.rows[a.ID] = &cp
	return nil
}

func (s *Accounts) UpdatePassword(_ context.Context, id int, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.rows[id]
	if !ok {
		return repository.ErrNotFound
	}
	a.PasswordHash = hash
	return nil
}

func (s *Accounts) Delete(_ context.Context, userID string) error {
	s.mu.Lock()
	deleted := 0
	for id, a := range s.rows {
		if a.UserID == userID {
			delete(s.rows, id)
			deleted = id
			break
		}
	}
	s.mu.Unlock()

	if deleted == 0 {
		return repository.ErrNotFound
	}
	for _, cascade := range s.onDelete {
		cascade(deleted)
	}
	return nil
}

// ─── Servers ─────────────────────────────────────────────────────────────

type Servers struct {
	mu     sync.Mutex
	nextID int
	rows   map[int]*model.Server
}

func (s *Servers) List(_ context.Context) ([]model.Server, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.Server{}
	for _, srv := range s.rows {
		out = append(out, *srv)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Servers) GetByID(_ context.Context, id int) (*model.Server, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	srv, ok := s.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *srv
	return &cp, nil
}

func (s *Servers) nameTaken(name string, except int) bool {
	for id, srv := range s.rows {
		if id != except && srv.Name == name {
			return true
		}
	}
	return false
}

func (s *Servers) Create(_ context.Context, srv *model.Server) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.nameTaken(srv.Name, 0) {
		return repository.ErrDuplicateServer
	}
	s.nextID++
	srv.ID = s.nextID
	srv.CreatedAt = time.Now()
	cp := *srv
	s.rows[srv.ID] = &cp
	return nil
}

func (s *Servers) Update(_ context.Context, srv *model.Server) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.rows[srv.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if s.nameTaken(srv.Name, srv.ID) {
		return repository.ErrDuplicateServer
	}
	srv.CreatedAt = existing.CreatedAt
	cp := *srv
	s.rows[srv.ID] = &cp
	return nil
}

func (s *Servers) Delete(_ context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.rows, id)
	return nil
}

func (s *Servers) name(id *int) (*string, bool) {
	if id == nil {
		return nil, true
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	srv, ok := s.rows[*id]
	if !ok {
		return nil, false
	}
	n := srv.Name
	return &n, true
}

// ─── Access requests ─────────────────────────────────────────────────────

type Requests struct {
	mu      sync.Mutex
	nextID  int
	rows    map[int]*model.AccessRequest
	servers *Servers
}

func (s *Requests) matching(f model.RequestFilter) []model.AccessRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.AccessRequest{}
	for _, r := range s.rows {
		if f.OwnerID != nil && r.AccountID != *f.OwnerID {
			continue
		}
		if f.Status != "" && r.Status != f.Status {
			continue
		}
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (s *Requests) List(_ context.Context, f model.RequestFilter, p model.Page) ([]model.AccessRequest, error) {
	return window(s.matching(f), p), nil
}

func (s *Requests) Count(_ context.Context, f model.RequestFilter) (int, error) {
	return len(s.matching(f)), nil
}

func (s *Requests) GetByID(_ context.Context, id int) (*model.AccessRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (s *Requests) Create(_ context.Context, ar *model.AccessRequest) error {
	serverName, ok := s.servers.name(ar.ServerID)
	if !ok {
		return repository.ErrReferenceNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	ar.ID = s.nextID
	ar.Status = model.RequestPending
	ar.ServerName = serverName
	ar.CreatedAt = time.Now()
	ar.UpdatedAt = ar.CreatedAt
	cp := *ar
	s.rows[ar.ID] = &cp
	return nil
}

func (s *Requests) deleteOwner(accountID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, r := range s.rows {
		if r.AccountID == accountID {
			delete(s.rows, id)
		}
	}
}

func (s *Requests) TransitionStatus(_ context.Context, id int, to model.RequestStatus, from []model.RequestStatus) (int, model.RequestStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rows[id]
	if !ok {
		return 0, "", repository.ErrNotFound
	}
	for _, allowed := range from {
		if r.Status == allowed {
			prev := r.Status
			r.Status = to
			r.UpdatedAt = time.Now()
			return r.AccountID, prev, nil
		}
	}
	return 0, "", repository.ErrNotFound
}

// ─── Issues ──────────────────────────────────────────────────────────────

type Issues struct {
	mu     sync.Mutex
	nextID int
	rows   map[int]*model.Issue
}

func (s *Issues) List(_ context.Context, ownerID *int) ([]model.Issue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.Issue{}
	for _, i := range s.rows {
		if ownerID == nil || i.AccountID == *ownerID {
			out = append(out, *i)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].ID > out[b].ID })
	return out, nil
}

func (s *Issues) Create(_ context.Context, i *model.Issue) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	i.ID = s.nextID
	i.Status = model.IssueOpen
	i.CreatedAt = time.Now()
	cp := *i
	s.rows[i.ID] = &cp
	return nil
}

func (s *Issues) deleteOwner(accountID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, i := range s.rows {
		if i.AccountID == accountID {
			delete(s.rows, id)
		}
	}
}

func (s *Issues) UpdateStatus(_ context.Context, id int, status model.IssueStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.rows[id]
	if !ok {
		return repository.ErrNotFound
	}
	i.Status = status
	return nil
}

// ─── Allocations ─────────────────────────────────────────────────────────

type Allocations struct {
	mu      sync.Mutex
	nextID  int
	rows    []model.Allocation
	servers *Servers
}

func (s *Allocations) List(_ context.Context, ownerID *int) ([]model.Allocation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.Allocation{}
	for _, a := range s.rows {
		if ownerID == nil || a.AccountID == *ownerID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *Allocations) Create(_ context.Context, a *model.Allocation) error {
	name, ok := s.servers.name(&a.ServerID)
	if !ok {
		return repository.ErrReferenceNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	a.ID = s.nextID
	a.ServerName = *name
	a.CreatedAt = time.Now()
	s.rows = append(s.rows, *a)
	return nil
}

func (s *Allocations) deleteOwner(accountID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.rows[:0]
	for _, a := range s.rows {
		if a.AccountID != accountID {
			kept = append(kept, a)
		}
	}
	s.rows = kept
}

// ─── Audit ───────────────────────────────────────────────────────────────

// Audit keeps events in insertion order. Like request_audit_log it has no
// foreign key, so history outlives deleted accounts.
type Audit struct {
	mu   sync.Mutex
	rows []model.RequestEvent
}

func (s *Audit) InsertBatch(_ context.Context, events []model.RequestEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, events...)
	return nil
}

func (s *Audit) Insert(_ context.Context, e model.RequestEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, e)
	return nil
}

func (s *Audit) ListByRequest(_ context.Context, requestID int) ([]model.RequestEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.RequestEvent{}
	for _, e := range s.rows {
		if e.RequestID == requestID {
			out = append(out, e)
		}
	}
	return out, nil
}

func window[T any](rows []T, p model.Page) []T {
	if p.Offset >= len(rows) {
		return []T{}
	}
	end := len(rows)
	if p.Limit > 0 && p.Offset+p.Limit < end {
		end = p.Offset + p.Limit
	}
	return rows[p.Offset:end]
}
