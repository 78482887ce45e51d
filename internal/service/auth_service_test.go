package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/staff-auth/internal/auth"
	"github.com/spec-kit/staff-auth/internal/config"
	"github.com/spec-kit/staff-auth/internal/domain"
	"github.com/spec-kit/staff-auth/internal/events"
	"github.com/spec-kit/staff-auth/internal/observability"
	"github.com/spec-kit/staff-auth/internal/repository"
)

const correctPassword = "Abc123!@"

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fixture struct {
	auth     *Authenticator
	staff    *repository.MemoryStaffRepository
	attempts *repository.MemoryAttemptRepository
	clock    *fakeClock
	metrics  *observability.Metrics

	mu     sync.Mutex
	events []events.EventType
}

func (f *fixture) recorded() []events.EventType {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]events.EventType(nil), f.events...)
}

type fixtureOption func(*AuthDependencies)

func withLockout(policy auth.LockoutPolicy) fixtureOption {
	return func(d *AuthDependencies) { d.Lockout = policy }
}

func withStaffRepo(repo repository.StaffRepository) fixtureOption {
	return func(d *AuthDependencies) { d.StaffRepo = repo }
}

func withAttemptRepo(repo repository.AttemptRepository) fixtureOption {
	return func(d *AuthDependencies) { d.AttemptRepo = repo }
}

func testConfig() config.Config {
	return config.Config{
		Auth: config.AuthConfig{
			BcryptCost:         bcrypt.MinCost,
			HashWorkers:        4,
			AllowedDepartments: config.DefaultDepartments,
			PasswordMinLength:  8,
			PasswordMaxLength:  20,
		},
		Lockout: config.LockoutConfig{
			Strategy:    config.LockoutStrategyLinear,
			Threshold:   3,
			BaseSeconds: 300,
			StepSeconds: 300,
		},
	}
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func newFixture(t *testing.T, seed []domain.StaffRecord, opts ...fixtureOption) *fixture {
	t.Helper()
	f := &fixture{
		staff:    repository.NewMemoryStaffRepository(seed...),
		attempts: repository.NewMemoryAttemptRepository(),
		clock:    newFakeClock(),
		metrics:  observability.NewMetrics(),
	}

	dispatcher := events.NewInMemoryDispatcher()
	for _, et := range []events.EventType{
		events.EventLoginSucceeded,
		events.EventLoginFailed,
		events.EventStaffLockedOut,
		events.EventLoginRejectedLocked,
		events.EventPasswordBootstrap,
	} {
		dispatcher.Subscribe(et, func(_ context.Context, e events.Event) error {
			f.mu.Lock()
			defer f.mu.Unlock()
			f.events = append(f.events, e.Type)
			return nil
		})
	}

	deps := AuthDependencies{
		StaffRepo:   f.staff,
		AttemptRepo: f.attempts,
		Dispatcher:  dispatcher,
		Metrics:     f.metrics,
		Clock:       f.clock.Now,
	}
	for _, opt := range opts {
		opt(&deps)
	}
	f.auth = NewAuthenticator(testConfig(), deps)
	return f
}

func surgeon(t *testing.T) domain.StaffRecord {
	return domain.StaffRecord{
		StaffID:      "S100",
		FullName:     "Ada Obi",
		Department:   "Surgery",
		PasswordHash: mustHash(t, correctPassword),
	}
}

func (f *fixture) attemptRecord(t *testing.T, staffID string) *domain.AttemptRecord {
	t.Helper()
	rec, err := f.attempts.Get(context.Background(), staffID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	require.NoError(t, err)
	return rec
}

func TestLogin_MissingFields(t *testing.T) {
	f := newFixture(t, []domain.StaffRecord{surgeon(t)})

	tests := []struct {
		name string
		req  LoginRequest
		want []string
	}{
		{name: "all empty", req: LoginRequest{}, want: []string{"staff_id", "department", "password"}},
		{name: "blank staff id", req: LoginRequest{StaffID: "  ", Department: "Surgery", Password: correctPassword}, want: []string{"staff_id"}},
		{name: "blank department", req: LoginRequest{StaffID: "S100", Department: "\t", Password: correctPassword}, want: []string{"department"}},
		{name: "blank password", req: LoginRequest{StaffID: "S100", Department: "Surgery", Password: " "}, want: []string{"password"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.req.MissingFields())

			res := f.auth.Login(context.Background(), tt.req)
			assert.False(t, res.Success)
			assert.Equal(t, ReasonMissingFields, res.Reason)
			assert.Equal(t, KindClientInput, res.Kind())
			assert.Equal(t, MessageMissingFields, res.PublicMessage())
		})
	}

	assert.Nil(t, f.attemptRecord(t, "S100"))
	assert.Empty(t, f.recorded())
}

func TestLogin_FirstFailureCreatesRecord(t *testing.T) {
	f := newFixture(t, []domain.StaffRecord{surgeon(t)})

	res := f.auth.Login(context.Background(), LoginRequest{StaffID: "S100", Department: "Surgery", Password: "wrong"})

	assert.Equal(t, ReasonInvalidPassword, res.Reason)
	assert.Equal(t, 1, res.Attempts)
	assert.False(t, res.Lockout)
	rec := f.attemptRecord(t, "S100")
	require.NotNil(t, rec)
	assert.Equal(t, 1, rec.Attempts)
	assert.True(t, rec.LockoutUntil.IsZero())
}

func TestLogin_LockoutEscalates(t *testing.T) {
	f := newFixture(t, []domain.StaffRecord{surgeon(t)})
	ctx := context.Background()
	wrong := LoginRequest{StaffID: "S100", Department: "Surgery", Password: "wrong"}

	for i := 1; i <= 2; i++ {
		res := f.auth.Login(ctx, wrong)
		assert.Equal(t, i, res.Attempts)
		assert.False(t, res.Lockout)
	}

	third := f.auth.Login(ctx, wrong)
	assert.True(t, third.Lockout)
	assert.Equal(t, KindLockout, third.Kind())
	assert.Equal(t, 300*time.Second, third.RetryAfter)
	rec := f.attemptRecord(t, "S100")
	require.NotNil(t, rec)
	assert.Equal(t, 3, rec.Attempts)
	assert.True(t, rec.LockoutUntil.Equal(f.clock.Now().Add(300*time.Second)))

	f.clock.Advance(301 * time.Second)
	fourth := f.auth.Login(ctx, wrong)
	assert.Equal(t, ReasonInvalidPassword, fourth.Reason)
	assert.Equal(t, 4, fourth.Attempts)
	assert.Equal(t, 600*time.Second, fourth.RetryAfter)
	rec = f.attemptRecord(t, "S100")
	assert.True(t, rec.LockoutUntil.Equal(f.clock.Now().Add(600*time.Second)))
}

func TestLogin_LockedOutScenario(t *testing.T) {
	f := newFixture(t, []domain.StaffRecord{surgeon(t)})
	ctx := context.Background()

	var last LoginResult
	for i := 0; i < 3; i++ {
		last = f.auth.Login(ctx, LoginRequest{StaffID: "S100", Department: "Surgery", Password: "wrong"})
	}
	assert.True(t, last.Lockout)
	assert.Equal(t, 300, last.RetryAfterSeconds())

	f.clock.Advance(10 * time.Second)
	res := f.auth.Login(ctx, LoginRequest{StaffID: "S100", Department: "Surgery", Password: correctPassword})
	assert.False(t, res.Success)
	assert.Equal(t, ReasonLockedOut, res.Reason)
	assert.Equal(t, 290, res.RetryAfterSeconds())
	assert.Equal(t, MessageLockedOut, res.PublicMessage())

	rec := f.attemptRecord(t, "S100")
	assert.Equal(t, 3, rec.Attempts, "locked logins must not count")

	assert.Equal(t, []events.EventType{
		events.EventLoginFailed,
		events.EventLoginFailed,
		events.EventLoginFailed,
		events.EventStaffLockedOut,
		events.EventLoginRejectedLocked,
	}, f.recorded())
}

func TestLogin_SuccessResetsAttempts(t *testing.T) {
	f := newFixture(t, []domain.StaffRecord{surgeon(t)})
	ctx := context.Background()

	f.auth.Login(ctx, LoginRequest{StaffID: "S100", Department: "Surgery", Password: "wrong"})
	f.auth.Login(ctx, LoginRequest{StaffID: "S100", Department: "Surgery", Password: "wrong"})
	require.NotNil(t, f.attemptRecord(t, "S100"))

	res := f.auth.Login(ctx, LoginRequest{StaffID: " S100 ", Department: "surgery", Password: correctPassword + " "})
	require.True(t, res.Success)
	assert.Equal(t, &domain.StaffIdentity{StaffID: "S100", FullName: "Ada Obi", Department: "Surgery"}, res.Staff)
	assert.Equal(t, KindNone, res.Kind())
	assert.Nil(t, f.attemptRecord(t, "S100"))

	next := f.auth.Login(ctx, LoginRequest{StaffID: "S100", Department: "Surgery", Password: "wrong"})
	assert.Equal(t, 1, next.Attempts)
}

func TestLogin_SuccessAfterLockExpires(t *testing.T) {
	f := newFixture(t, []domain.StaffRecord{surgeon(t)})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		f.auth.Login(ctx, LoginRequest{StaffID: "S100", Department: "Surgery", Password: "wrong"})
	}
	f.clock.Advance(5*time.Minute + time.Second)

	res := f.auth.Login(ctx, LoginRequest{StaffID: "S100", Department: "Surgery", Password: correctPassword})
	assert.True(t, res.Success)
	assert.Nil(t, f.attemptRecord(t, "S100"))
}

func TestLogin_FirstUseBootstrap(t *testing.T) {
	f := newFixture(t, []domain.StaffRecord{{StaffID: "N7", FullName: "Cy Lee", Department: "Nursing"}})
	ctx := context.Background()

	res := f.auth.Login(ctx, LoginRequest{StaffID: "N7", Department: "Nursing", Password: correctPassword})
	require.True(t, res.Success)
	assert.True(t, res.Bootstrap)

	stored, err := f.staff.GetByStaffID(ctx, "N7")
	require.NoError(t, err)
	require.NotEmpty(t, stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte(correctPassword)))

	again := f.auth.Login(ctx, LoginRequest{StaffID: "N7", Department: "Nursing", Password: correctPassword})
	assert.True(t, again.Success)
	assert.False(t, again.Bootstrap)

	wrong := f.auth.Login(ctx, LoginRequest{StaffID: "N7", Department: "Nursing", Password: "Xyz789!@"})
	assert.Equal(t, ReasonInvalidPassword, wrong.Reason)

	assert.Contains(t, f.recorded(), events.EventPasswordBootstrap)
}

func TestLogin_BootstrapWeakPassword(t *testing.T) {
	f := newFixture(t, []domain.StaffRecord{{StaffID: "N7", FullName: "Cy Lee", Department: "Nursing"}})
	ctx := context.Background()

	res := f.auth.Login(ctx, LoginRequest{StaffID: "N7", Department: "Nursing", Password: "short"})

	assert.Equal(t, ReasonWeakPassword, res.Reason)
	assert.Equal(t, KindClientInput, res.Kind())
	assert.Contains(t, res.PublicMessage(), "8-20 characters")
	assert.Nil(t, f.attemptRecord(t, "N7"))

	stored, err := f.staff.GetByStaffID(ctx, "N7")
	require.NoError(t, err)
	assert.Empty(t, stored.PasswordHash)
}

func TestLogin_BootstrapCharacterClasses(t *testing.T) {
	nurse := []domain.StaffRecord{{StaffID: "N7", FullName: "Cy Lee", Department: "Nursing"}}
	ctx := context.Background()

	f := newFixture(t, nurse)
	res := f.auth.Login(ctx, LoginRequest{StaffID: "N7", Department: "Nursing", Password: "plainpassword"})
	assert.True(t, res.Success)
	assert.True(t, res.Bootstrap)

	cfg := testConfig()
	cfg.Auth.PasswordRequireMixed = true
	strict := NewAuthenticator(cfg, AuthDependencies{
		StaffRepo:   repository.NewMemoryStaffRepository(nurse...),
		AttemptRepo: repository.NewMemoryAttemptRepository(),
	})
	res = strict.Login(ctx, LoginRequest{StaffID: "N7", Department: "Nursing", Password: "plainpassword"})
	assert.Equal(t, ReasonWeakPassword, res.Reason)
}

func TestLogin_Department(t *testing.T) {
	tests := []struct {
		name       string
		stored     string
		supplied   string
		wantReason FailureReason
		wantKind   ErrorKind
	}{
		{name: "case insensitive match", stored: "nursing", supplied: "NURSING", wantKind: KindNone},
		{name: "mismatch", stored: "Nursing", supplied: "Pharmacy", wantReason: ReasonDepartmentMismatch, wantKind: KindAuthFailure},
		{name: "not on allow-list", stored: "Morgue", supplied: "morgue", wantReason: ReasonDepartmentNotAuthorized, wantKind: KindAuthorizationDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, []domain.StaffRecord{{
				StaffID:      "N1",
				FullName:     "Di Ko",
				Department:   tt.stored,
				PasswordHash: mustHash(t, correctPassword),
			}})

			res := f.auth.Login(context.Background(), LoginRequest{StaffID: "N1", Department: tt.supplied, Password: correctPassword})

			assert.Equal(t, tt.wantReason, res.Reason)
			assert.Equal(t, tt.wantKind, res.Kind())
			if tt.wantKind == KindNone {
				assert.True(t, res.Success)
				assert.Nil(t, f.attemptRecord(t, "N1"))
				return
			}
			assert.Equal(t, 1, res.Attempts)
			rec := f.attemptRecord(t, "N1")
			require.NotNil(t, rec)
			assert.Equal(t, 1, rec.Attempts)
		})
	}
}

func TestLogin_UnknownStaffLooksLikeBadPassword(t *testing.T) {
	f := newFixture(t, []domain.StaffRecord{surgeon(t)})
	ctx := context.Background()

	unknown := f.auth.Login(ctx, LoginRequest{StaffID: "S404", Department: "Surgery", Password: correctPassword})
	badPassword := f.auth.Login(ctx, LoginRequest{StaffID: "S100", Department: "Surgery", Password: "nope"})
	mismatch := f.auth.Login(ctx, LoginRequest{StaffID: "S100", Department: "Pharmacy", Password: correctPassword})

	assert.Equal(t, ReasonInvalidStaffID, unknown.Reason)
	assert.Equal(t, 1, unknown.Attempts)
	for _, res := range []LoginResult{unknown, badPassword, mismatch} {
		assert.Equal(t, KindAuthFailure, res.Kind())
		assert.Equal(t, MessageInvalidCredentials, res.PublicMessage())
	}
	assert.NotNil(t, f.attemptRecord(t, "S404"))
}

func TestLogin_ConcurrentFailuresAreAllCounted(t *testing.T) {
	const n = 40
	f := newFixture(t, []domain.StaffRecord{surgeon(t)}, withLockout(auth.NewLinearPolicy(1000, time.Minute, time.Minute)))

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res := f.auth.Login(context.Background(), LoginRequest{StaffID: "S100", Department: "Surgery", Password: "wrong"})
			assert.Equal(t, ReasonInvalidPassword, res.Reason)
		}()
	}
	wg.Wait()

	rec := f.attemptRecord(t, "S100")
	require.NotNil(t, rec)
	assert.Equal(t, n, rec.Attempts)
	assert.Equal(t, int64(n), f.metrics.Snapshot().Logins[string(ReasonInvalidPassword)])
}

func TestLogin_ConcurrentFailuresLockExactlyAtThreshold(t *testing.T) {
	f := newFixture(t, []domain.StaffRecord{surgeon(t)})

	var wg sync.WaitGroup
	results := make([]LoginResult, 10)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = f.auth.Login(context.Background(), LoginRequest{StaffID: "S100", Department: "Surgery", Password: "wrong"})
		}(i)
	}
	wg.Wait()

	var counted, rejected int
	for _, res := range results {
		if res.Reason == ReasonLockedOut {
			rejected++
		} else {
			counted++
		}
	}
	assert.Equal(t, 3, counted)
	assert.Equal(t, 7, rejected)
	assert.Equal(t, 3, f.attemptRecord(t, "S100").Attempts)
}

type brokenAttemptRepo struct{}

func (brokenAttemptRepo) Get(context.Context, string) (*domain.AttemptRecord, error) {
	return nil, repository.ErrStoreUnavailable
}

func (brokenAttemptRepo) Increment(context.Context, string) (int, error) {
	return 0, repository.ErrStoreUnavailable
}

func (brokenAttemptRepo) Upsert(context.Context, string, int, time.Time) error {
	return repository.ErrStoreUnavailable
}

func (brokenAttemptRepo) Clear(context.Context, string) error {
	return repository.ErrStoreUnavailable
}

func TestLogin_AttemptStoreUnavailableDegrades(t *testing.T) {
	f := newFixture(t, []domain.StaffRecord{surgeon(t)}, withAttemptRepo(brokenAttemptRepo{}))
	ctx := context.Background()

	ok := f.auth.Login(ctx, LoginRequest{StaffID: "S100", Department: "Surgery", Password: correctPassword})
	assert.True(t, ok.Success)

	for i := 0; i < 5; i++ {
		res := f.auth.Login(ctx, LoginRequest{StaffID: "S100", Department: "Surgery", Password: "wrong"})
		assert.Equal(t, ReasonInvalidPassword, res.Reason)
		assert.Equal(t, 1, res.Attempts)
		assert.False(t, res.Lockout)
	}
}

// flakyAttemptRepo fails the next read once failNext is set.
type flakyAttemptRepo struct {
	*repository.MemoryAttemptRepository
	failNext bool
}

func (r *flakyAttemptRepo) Get(ctx context.Context, staffID string) (*domain.AttemptRecord, error) {
	if r.failNext {
		r.failNext = false
		return nil, repository.ErrStoreUnavailable
	}
	return r.MemoryAttemptRepository.Get(ctx, staffID)
}

func TestLogin_FailedReadKeepsStoredCount(t *testing.T) {
	store := &flakyAttemptRepo{MemoryAttemptRepository: repository.NewMemoryAttemptRepository()}
	f := newFixture(t, []domain.StaffRecord{surgeon(t)}, withAttemptRepo(store))
	ctx := context.Background()
	wrong := LoginRequest{StaffID: "S100", Department: "Surgery", Password: "wrong"}

	for i := 0; i < 2; i++ {
		assert.False(t, f.auth.Login(ctx, wrong).Lockout)
	}

	store.failNext = true
	res := f.auth.Login(ctx, wrong)
	assert.Equal(t, ReasonInvalidPassword, res.Reason)
	assert.Equal(t, 3, res.Attempts)
	assert.True(t, res.Lockout)
	assert.Equal(t, 5*time.Minute, res.RetryAfter)

	rec, err := store.Get(ctx, "S100")
	require.NoError(t, err)
	assert.Equal(t, 3, rec.Attempts)
	assert.True(t, rec.LockoutUntil.Equal(f.clock.Now().Add(5*time.Minute)))

	res = f.auth.Login(ctx, LoginRequest{StaffID: "S100", Department: "Surgery", Password: correctPassword})
	assert.Equal(t, ReasonLockedOut, res.Reason)
}

type failingStaffRepo struct {
	err   error
	panic bool
}

func (r failingStaffRepo) GetByStaffID(context.Context, string) (*domain.StaffRecord, error) {
	if r.panic {
		panic("driver exploded")
	}
	return nil, r.err
}

func (r failingStaffRepo) SetPasswordHash(context.Context, string, string) error {
	return r.err
}

func TestLogin_StaffStoreFailureIsSystemError(t *testing.T) {
	cause := errors.New("connection refused")

	tests := []struct {
		name string
		repo failingStaffRepo
	}{
		{name: "error", repo: failingStaffRepo{err: cause}},
		{name: "panic", repo: failingStaffRepo{panic: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, nil, withStaffRepo(tt.repo))

			res := f.auth.Login(context.Background(), LoginRequest{StaffID: "S100", Department: "Surgery", Password: correctPassword})

			assert.Equal(t, ReasonSystemError, res.Reason)
			assert.Equal(t, KindSystemError, res.Kind())
			assert.Error(t, res.Err)
			assert.Equal(t, MessageSystemError, res.PublicMessage())
			assert.Nil(t, f.attemptRecord(t, "S100"), "system errors are not attempts")
		})
	}
}

// raceStaffRepo hands out a record without a hash while another writer has
// already stored one, as happens when two instances bootstrap at once.
type raceStaffRepo struct {
	*repository.MemoryStaffRepository
	served bool
}

func (r *raceStaffRepo) GetByStaffID(ctx context.Context, staffID string) (*domain.StaffRecord, error) {
	rec, err := r.MemoryStaffRepository.GetByStaffID(ctx, staffID)
	if err != nil || r.served {
		return rec, err
	}
	r.served = true
	stale := *rec
	stale.PasswordHash = ""
	return &stale, nil
}

func TestLogin_ConcurrentBootstrapFallsBackToVerify(t *testing.T) {
	tests := []struct {
		name        string
		password    string
		wantSuccess bool
	}{
		{name: "same password", password: correctPassword, wantSuccess: true},
		{name: "different password", password: "Other123!@", wantSuccess: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &raceStaffRepo{MemoryStaffRepository: repository.NewMemoryStaffRepository(surgeon(t))}
			f := newFixture(t, nil, withStaffRepo(repo))

			res := f.auth.Login(context.Background(), LoginRequest{StaffID: "S100", Department: "Surgery", Password: tt.password})

			assert.Equal(t, tt.wantSuccess, res.Success)
			assert.False(t, res.Bootstrap)
			if !tt.wantSuccess {
				assert.Equal(t, ReasonInvalidPassword, res.Reason)
			}
		})
	}
}

func TestLoginResult_Presentation(t *testing.T) {
	tests := []struct {
		name        string
		result      LoginResult
		wantKind    ErrorKind
		wantMessage string
		wantRetry   int
	}{
		{name: "success", result: LoginResult{Success: true}, wantKind: KindNone, wantMessage: MessageSuccess},
		{name: "weak password detail", result: LoginResult{Reason: ReasonWeakPassword, Detail: "too short"}, wantKind: KindClientInput, wantMessage: "too short"},
		{name: "locking failure", result: LoginResult{Reason: ReasonInvalidPassword, Lockout: true, RetryAfter: 299500 * time.Millisecond}, wantKind: KindLockout, wantMessage: MessageLockedOut, wantRetry: 300},
		{name: "not authorized", result: LoginResult{Reason: ReasonDepartmentNotAuthorized}, wantKind: KindAuthorizationDenied, wantMessage: MessageNotAuthorized},
		{name: "unknown reason", result: LoginResult{Reason: "???"}, wantKind: KindSystemError, wantMessage: MessageSystemError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantKind, tt.result.Kind())
			assert.Equal(t, tt.wantMessage, tt.result.PublicMessage())
			assert.Equal(t, tt.wantRetry, tt.result.RetryAfterSeconds())
		})
	}
	assert.Equal(t, "authorization_denied", KindAuthorizationDenied.String())
}
