package user

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"restaurant-review-api/internal/config"
	domainIngredient "restaurant-review-api/internal/domain/ingredient"
	domainUser "restaurant-review-api/internal/domain/user"
)

const testSecret = "test-secret"

// memStore backs the fake repositories so they share one view of the data,
// the way the postgres repositories share one database.
type memStore struct {
	mu sync.Mutex

	users       map[uint]*domainUser.User
	tokens      []*domainUser.PasswordResetToken
	ingredients map[uint]*domainIngredient.Ingredient
	allergies   map[uint]map[uint]struct{}

	nextUserID  uint
	nextTokenID uint

	consumeErr error
	createErr  error
	allergyErr error
}

func newMemStore() *memStore {
	return &memStore{
		users:       make(map[uint]*domainUser.User),
		ingredients: make(map[uint]*domainIngredient.Ingredient),
		allergies:   make(map[uint]map[uint]struct{}),
	}
}

func (m *memStore) userCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users)
}

func (m *memStore) tokensFor(userID uint) []domainUser.PasswordResetToken {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domainUser.PasswordResetToken
	for _, t := range m.tokens {
		if t.UserID == userID {
			out = append(out, *t)
		}
	}
	return out
}

type fakeUserRepo struct{ s *memStore }

func (f *fakeUserRepo) Create(_ context.Context, u *domainUser.User) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.createErr != nil {
		return f.s.createErr
	}
	for _, existing := range f.s.users {
		if existing.Email == u.Email {
			return domainUser.ErrEmailTaken
		}
		if existing.Username == u.Username {
			return domainUser.ErrUsernameTaken
		}
	}
	f.s.nextUserID++
	u.ID = f.s.nextUserID
	cp := *u
	f.s.users[u.ID] = &cp
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id uint) (*domainUser.User, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	u, ok := f.s.users[id]
	if !ok {
		return nil, domainUser.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domainUser.User, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for _, u := range f.s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domainUser.ErrUserNotFound
}

func (f *fakeUserRepo) FindByEmailOrUsername(_ context.Context, email, username string) ([]*domainUser.User, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var out []*domainUser.User
	for _, u := range f.s.users {
		if u.Email == email || u.Username == username {
			cp := *u
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) Update(_ context.Context, u *domainUser.User) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	return f.s.updateLocked(u)
}

// UpdateWithAllergies leaves both the user and the allergy set untouched when
// allergyErr is set, like a rolled back transaction.
func (f *fakeUserRepo) UpdateWithAllergies(_ context.Context, u *domainUser.User, ids []uint) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.allergyErr != nil {
		return f.s.allergyErr
	}
	if err := f.s.updateLocked(u); err != nil {
		return err
	}
	set := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	f.s.allergies[u.ID] = set
	return nil
}

func (m *memStore) updateLocked(u *domainUser.User) error {
	if _, ok := m.users[u.ID]; !ok {
		return domainUser.ErrUserNotFound
	}
	for id, other := range m.users {
		if id != u.ID && strings.EqualFold(other.Email, u.Email) {
			return domainUser.ErrEmailTaken
		}
	}
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (f *fakeUserRepo) UpdateLastLogin(_ context.Context, id uint, at time.Time) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	u, ok := f.s.users[id]
	if !ok {
		return domainUser.ErrUserNotFound
	}
	u.LastLogin = &at
	return nil
}

func (f *fakeUserRepo) ChangePassword(_ context.Context, id uint, hash string, at time.Time) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	u, ok := f.s.users[id]
	if !ok {
		return domainUser.ErrUserNotFound
	}
	u.PasswordHash = hash
	u.UpdatedAt = at
	f.s.burnLocked(id, at)
	return nil
}

func (m *memStore) burnLocked(userID uint, at time.Time) {
	for _, t := range m.tokens {
		if t.UserID == userID && !t.Used {
			t.Used = true
			usedAt := at
			t.UsedAt = &usedAt
		}
	}
}

type fakeResetTokenRepo struct{ s *memStore }

func (f *fakeResetTokenRepo) Create(_ context.Context, t *domainUser.PasswordResetToken) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	f.s.nextTokenID++
	t.ID = f.s.nextTokenID
	cp := *t
	f.s.tokens = append(f.s.tokens, &cp)
	return nil
}

func (f *fakeResetTokenRepo) GetByToken(_ context.Context, token string) (*domainUser.PasswordResetToken, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for _, t := range f.s.tokens {
		if t.Token == token {
			cp := *t
			return &cp, nil
		}
	}
	return nil, domainUser.ErrResetTokenNotFound
}

func (f *fakeResetTokenRepo) Consume(_ context.Context, token *domainUser.PasswordResetToken, hash string, at time.Time) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.consumeErr != nil {
		return f.s.consumeErr
	}

	var presented *domainUser.PasswordResetToken
	for _, t := range f.s.tokens {
		if t.ID == token.ID {
			presented = t
		}
	}
	if presented == nil || presented.Used {
		return domainUser.ErrResetTokenConsumed
	}
	u, ok := f.s.users[token.UserID]
	if !ok {
		return domainUser.ErrUserNotFound
	}

	u.PasswordHash = hash
	u.UpdatedAt = at
	f.s.burnLocked(token.UserID, at)
	return nil
}

func (f *fakeResetTokenRepo) Stats(_ context.Context, now time.Time) (*domainUser.ResetTokenStats, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var stats domainUser.ResetTokenStats
	for _, t := range f.s.tokens {
		switch {
		case t.Used:
			stats.Used++
		case t.IsExpired(now):
			stats.Expired++
		default:
			stats.Active++
		}
	}
	return &stats, nil
}

type fakeAllergyRepo struct{ s *memStore }

func (f *fakeAllergyRepo) Search(context.Context, string, int) ([]*domainIngredient.Ingredient, error) {
	return nil, nil
}

func (f *fakeAllergyRepo) GetByIDs(_ context.Context, ids []uint) ([]*domainIngredient.Ingredient, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var out []*domainIngredient.Ingredient
	for _, id := range ids {
		if ing, ok := f.s.ingredients[id]; ok {
			out = append(out, ing)
		}
	}
	return out, nil
}

func (f *fakeAllergyRepo) ExistsByID(_ context.Context, id uint) (bool, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	_, ok := f.s.ingredients[id]
	return ok, nil
}

func (f *fakeAllergyRepo) ListUserAllergies(_ context.Context, userID uint) ([]*domainIngredient.Ingredient, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	out := []*domainIngredient.Ingredient{}
	for id := range f.s.allergies[userID] {
		out = append(out, f.s.ingredients[id])
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeAllergyRepo) AddUserAllergy(_ context.Context, userID, ingredientID uint) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.allergies[userID] == nil {
		f.s.allergies[userID] = make(map[uint]struct{})
	}
	f.s.allergies[userID][ingredientID] = struct{}{}
	return nil
}

func (f *fakeAllergyRepo) RemoveUserAllergy(_ context.Context, userID, ingredientID uint) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	delete(f.s.allergies[userID], ingredientID)
	return nil
}

type sentEmail struct {
	to       string
	resetURL string
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []sentEmail
	err  error
}

func (n *fakeNotifier) SendPasswordResetEmail(_ context.Context, to, resetURL string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentEmail{to: to, resetURL: resetURL})
	return n.err
}

func (n *fakeNotifier) last() sentEmail {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.sent[len(n.sent)-1]
}

type fakePublisher struct {
	mu     sync.Mutex
	events []domainUser.Event
}

func (p *fakePublisher) Publish(_ context.Context, e domainUser.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *fakePublisher) types() []domainUser.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]domainUser.EventType, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
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
	svc       *Service
	store     *memStore
	notifier  *fakeNotifier
	publisher *fakePublisher
	clock     *fakeClock
}

func newFixture() *fixture {
	store := newMemStore()
	notifier := &fakeNotifier{}
	publisher := &fakePublisher{}
	clock := &fakeClock{now: time.Now().UTC().Truncate(time.Second)}

	cfg := &config.Config{
		JWT:   config.JWTConfig{Secret: testSecret, ExpiryHours: 24},
		Reset: config.ResetConfig{FrontendURL: "https://eat.example.com/", TokenTTLMinutes: 30},
	}

	svc := NewService(
		&fakeUserRepo{s: store},
		&fakeResetTokenRepo{s: store},
		&fakeAllergyRepo{s: store},
		notifier,
		publisher,
		cfg,
		WithClock(clock.Now),
	)

	return &fixture{svc: svc, store: store, notifier: notifier, publisher: publisher, clock: clock}
}
