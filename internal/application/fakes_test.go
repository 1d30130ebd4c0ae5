package application

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/thermotrap/identity-service/internal/domain"
	"github.com/thermotrap/identity-service/internal/ports"
)

type fakeSource struct {
	mu        sync.Mutex
	partition domain.Partition
	byID      map[uuid.UUID]domain.Principal
	failWith  error
}

func newFakeSource(partition domain.Partition) *fakeSource {
	return &fakeSource{partition: partition, byID: map[uuid.UUID]domain.Principal{}}
}

func (f *fakeSource) add(p domain.Principal) domain.Principal {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	f.byID[p.ID] = p
	return p
}

func (f *fakeSource) hashOf(id uuid.UUID) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.byID[id].PasswordHash
}

func (f *fakeSource) Partition() domain.Partition { return f.partition }

func (f *fakeSource) FindByEmail(_ context.Context, email string) (domain.Principal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return domain.Principal{}, f.failWith
	}
	for _, p := range f.byID {
		if strings.EqualFold(p.Email, email) {
			return p, nil
		}
	}
	return domain.Principal{}, domain.ErrNotFound
}

func (f *fakeSource) FindByID(_ context.Context, id uuid.UUID) (domain.Principal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return domain.Principal{}, f.failWith
	}
	p, ok := f.byID[id]
	if !ok {
		return domain.Principal{}, domain.ErrNotFound
	}
	return p, nil
}

func (f *fakeSource) UpdatePasswordHash(_ context.Context, id uuid.UUID, hash string, updatedAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.PasswordHash = hash
	p.UpdatedAt = updatedAt
	f.byID[id] = p
	return nil
}

type fakeResetStore struct {
	mu     sync.Mutex
	states map[uuid.UUID]domain.ResetState
}

func newFakeResetStore() *fakeResetStore {
	return &fakeResetStore{states: map[uuid.UUID]domain.ResetState{}}
}

func (f *fakeResetStore) Get(_ context.Context, id uuid.UUID) (*domain.ResetState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.states[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (f *fakeResetStore) Upsert(_ context.Context, state domain.ResetState) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.states[state.PrincipalID] = state
	return nil
}

func (f *fakeResetStore) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.states, id)
	return nil
}

func (f *fakeResetStore) DeleteExpired(_ context.Context, before time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for id, s := range f.states {
		if s.ExpiresAt.Before(before) {
			delete(f.states, id)
			n++
		}
	}
	return n, nil
}

// fakeHasher is reversible so tests stay fast; the service only relies on Hash/Compare agreeing.
type fakeHasher struct{}

func (fakeHasher) Hash(_ context.Context, password string) (string, error) {
	return "hashed:" + password, nil
}

func (fakeHasher) Compare(_ context.Context, hash, password string) error {
	if hash != "hashed:"+password {
		return errors.New("mismatch")
	}
	return nil
}

// recordingHasher behaves like fakeHasher but honours ctx cancellation, can be
// told to fail Hash, and records the hashes passed to Compare.
type recordingHasher struct {
	mu       sync.Mutex
	failHash bool
	compared []string
}

func (h *recordingHasher) setFailHash(v bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.failHash = v
}

func (h *recordingHasher) lastCompared() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.compared) == 0 {
		return ""
	}
	return h.compared[len(h.compared)-1]
}

func (h *recordingHasher) Hash(ctx context.Context, password string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.failHash {
		return "", errors.New("hash unavailable")
	}
	return "hashed:" + password, nil
}

func (h *recordingHasher) Compare(_ context.Context, hash, password string) error {
	h.mu.Lock()
	h.compared = append(h.compared, hash)
	h.mu.Unlock()
	return fakeHasher{}.Compare(context.Background(), hash, password)
}

type sequenceOTPs struct {
	mu    sync.Mutex
	codes []string
}

func (s *sequenceOTPs) Generate() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.codes) == 0 {
		return "", errors.New("exhausted")
	}
	code := s.codes[0]
	s.codes = s.codes[1:]
	return code, nil
}

type fakeTokens struct {
	mu     sync.Mutex
	issued map[string]ports.TokenClaims
}

func newFakeTokens() *fakeTokens {
	return &fakeTokens{issued: map[string]ports.TokenClaims{}}
}

func (f *fakeTokens) Issue(claims ports.TokenClaims) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	token := "tok-" + uuid.NewString()
	f.issued[token] = claims
	return token, nil
}

func (f *fakeTokens) Verify(token string) (ports.TokenClaims, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	claims, ok := f.issued[token]
	if !ok {
		return ports.TokenClaims{}, errors.New("unknown token")
	}
	return claims, nil
}

func (f *fakeTokens) TTL() time.Duration { return 24 * time.Hour }

type fakeMailer struct {
	mu   sync.Mutex
	sent []ports.MailMessage
	err  error
}

func (f *fakeMailer) Send(_ context.Context, msg ports.MailMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

type fixture struct {
	service *Service
	users   *fakeSource
	admins  *fakeSource
	resets  *fakeResetStore
	otps    *sequenceOTPs
	tokens  *fakeTokens
	mailer  *fakeMailer
	now     time.Time
}

func newFixture(cfg Config) *fixture {
	f := &fixture{
		users:  newFakeSource(domain.PartitionUsers),
		admins: newFakeSource(domain.PartitionAdmins),
		resets: newFakeResetStore(),
		otps:   &sequenceOTPs{codes: []string{"111111", "222222", "333333"}},
		tokens: newFakeTokens(),
		mailer: &fakeMailer{},
		now:    time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	f.service = NewService(Dependencies{
		Config:      cfg,
		Users:       f.users,
		Admins:      f.admins,
		ResetStates: f.resets,
		Hasher:      fakeHasher{},
		OTPs:        f.otps,
		Tokens:      f.tokens,
		Mailer:      f.mailer,
	})
	f.service.nowFn = func() time.Time { return f.now }
	return f
}

func (f *fixture) addUser(email, password string) domain.Principal {
	return f.users.add(domain.Principal{
		Email:        email,
		PasswordHash: "hashed:" + password,
		DisplayName:  "User " + email,
		Role:         domain.RoleUser,
		Active:       true,
	})
}

func (f *fixture) addAdmin(email, password string) domain.Principal {
	return f.admins.add(domain.Principal{
		Email:        email,
		PasswordHash: "hashed:" + password,
		DisplayName:  "Admin " + email,
	})
}
