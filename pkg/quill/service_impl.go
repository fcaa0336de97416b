package quill

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Handle and credentials of the shared demo actor minted by GuestLogin.
const (
	guestHandle   = "guest"
	guestEmail    = "guest@example.com"
	guestPassword = "guest123" // never used for login; guest sessions are token-only
)

// service implements the Service interface
type service struct {
	repository Repository
	blobStore  BlobStore
	events     EventSink
	tokens     *TokenIssuer
	strict     bool
	tokenTTL   time.Duration
	guestTTL   time.Duration
	now        func() time.Time
}

// Option represents a functional option for configuring the service
type Option func(*service)

// WithRepository sets the repository for the service
func WithRepository(repo Repository) Option {
	return func(s *service) {
		s.repository = repo
	}
}

// WithBlobStore sets the media byte storage backend
func WithBlobStore(store BlobStore) Option {
	return func(s *service) {
		s.blobStore = store
	}
}

// WithEventSink sets the event sink for the service
func WithEventSink(sink EventSink) Option {
	return func(s *service) {
		s.events = sink
	}
}

// WithTokenIssuer sets the session token issuer
func WithTokenIssuer(issuer *TokenIssuer) Option {
	return func(s *service) {
		s.tokens = issuer
	}
}

// WithStrictValidation turns on server-side schema validation of content
// fields (required presence, type parsing, rule evaluation). Off by default to
// preserve the upstream behavior of trusting the client-validated payload.
func WithStrictValidation(strict bool) Option {
	return func(s *service) {
		s.strict = strict
	}
}

// WithTokenTTL overrides the default session token validity
func WithTokenTTL(ttl time.Duration) Option {
	return func(s *service) {
		s.tokenTTL = ttl
	}
}

// WithGuestTokenTTL overrides the guest session token validity
func WithGuestTokenTTL(ttl time.Duration) Option {
	return func(s *service) {
		s.guestTTL = ttl
	}
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *service) {
		s.now = now
	}
}

// New creates a new service instance with the given options
func New(options ...Option) (Service, error) {
	s := &service{
		events:   NewNoopEventSink(),
		tokenTTL: DefaultTokenTTL,
		guestTTL: GuestTokenTTL,
		now:      func() time.Time { return time.Now().UTC() },
	}

	for _, option := range options {
		option(s)
	}

	if s.repository == nil {
		return nil, fmt.Errorf("repository is required")
	}
	if s.tokens == nil {
		// Ephemeral secret; fine for tests and single-process development,
		// sessions do not survive a restart.
		s.tokens = NewTokenIssuer([]byte(uuid.NewString()))
	}

	return s, nil
}

// Identity & sessions

func (s *service) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	if req.Handle == "" || req.Email == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: handle, email and password are required", ErrValidation)
	}
	role := req.Role
	if role == "" {
		role = RoleAuthor
	}
	if !role.IsValid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, req.Role)
	}

	// Fast-path duplicate checks; the repository's unique indexes are the
	// authoritative guard against races.
	if _, err := s.repository.GetActorByEmail(ctx, req.Email); err == nil {
		return nil, ErrActorExists
	} else if !errors.Is(err, ErrActorNotFound) {
		return nil, err
	}
	if _, err := s.repository.GetActorByHandle(ctx, req.Handle); err == nil {
		return nil, ErrActorExists
	} else if !errors.Is(err, ErrActorNotFound) {
		return nil, err
	}

	actor, err := s.createActor(ctx, req.Handle, req.Email, req.Password, role)
	if err != nil {
		return nil, err
	}

	// Events are best-effort; the registration already happened.
	_ = s.events.ActorRegistered(ctx, actor)

	return s.authResult(actor, s.tokenTTL)
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*AuthResult, error) {
	actor, err := s.repository.GetActorByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, ErrActorNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(actor.PasswordHash), []byte(req.Password)) != nil {
		return nil, ErrInvalidCredentials
	}

	return s.authResult(actor, s.tokenTTL)
}

func (s *service) GuestLogin(ctx context.Context) (*AuthResult, error) {
	actor, err := s.repository.GetActorByHandle(ctx, guestHandle)
	if errors.Is(err, ErrActorNotFound) {
		actor, err = s.createActor(ctx, guestHandle, guestEmail, guestPassword, RoleAuthor)
		if errors.Is(err, ErrActorExists) {
			// Lost a create race; the other caller's guest is ours too.
			actor, err = s.repository.GetActorByHandle(ctx, guestHandle)
		}
	}
	if err != nil {
		return nil, err
	}

	return s.authResult(actor, s.guestTTL)
}

func (s *service) CurrentActor(ctx context.Context, actor *Actor) (*Actor, error) {
	if err := RequireAuthenticated(actor); err != nil {
		return nil, err
	}
	return actor, nil
}

func (s *service) ListActors(ctx context.Context, actor *Actor) ([]*Actor, error) {
	if err := RequireRole(actor, RoleAdmin); err != nil {
		return nil, err
	}
	return s.repository.ListActors(ctx)
}

func (s *service) GetActor(ctx context.Context, actor *Actor, id uuid.UUID) (*Actor, error) {
	if err := RequireRole(actor, RoleAdmin); err != nil {
		return nil, err
	}
	return s.repository.GetActor(ctx, id)
}

func (s *service) ResolveActor(ctx context.Context, id uuid.UUID) (*Actor, error) {
	return s.repository.GetActor(ctx, id)
}

func (s *service) EnsureAdmin(ctx context.Context, handle, email, password string) (*Actor, bool, error) {
	actors, err := s.repository.ListActors(ctx)
	if err != nil {
		return nil, false, err
	}
	for _, a := range actors {
		if a.Role == RoleAdmin {
			return a, false, nil
		}
	}

	admin, err := s.createActor(ctx, handle, email, password, RoleAdmin)
	if err != nil {
		return nil, false, err
	}
	return admin, true, nil
}

func (s *service) createActor(ctx context.Context, handle, email, password string, role Role) (*Actor, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	actor := &Actor{
		ID:           uuid.New(),
		Handle:       handle,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repository.CreateActor(ctx, actor); err != nil {
		return nil, err
	}
	return actor, nil
}

func (s *service) authResult(actor *Actor, ttl time.Duration) (*AuthResult, error) {
	token, err := s.tokens.Issue(actor, ttl)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, Actor: actor}, nil
}
