package service

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/command-center/internal/config"
	"github.com/stemsi/command-center/internal/model"
	"github.com/stemsi/command-center/internal/testutil"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var nopLog = zerolog.New(io.Discard)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:  "test-secret",
		JWTExpiry:  24 * time.Hour,
		BcryptCost: bcrypt.MinCost,
	}
}

func newAccounts() *testutil.Accounts {
	return testutil.NewStores().Accounts
}

func requestStatus(t *testing.T, store RequestStore, id int) model.RequestStatus {
	t.Helper()
	ar, err := store.GetByID(context.Background(), id)
	require.NoError(t, err)
	return ar.Status
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []model.RequestEvent
	err    error
}

func (p *recordingPublisher) PublishRequestEvent(_ context.Context, evt model.RequestEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return p.err
}

func adminClaims(id int, username string) *Claims {
	return &Claims{AccountID: id, Username: username, Role: model.RoleAdmin, Name: username}
}

func studentClaims(id int, username string) *Claims {
	return &Claims{AccountID: id, Username: username, Role: model.RoleStudent, Name: username}
}
