// Package auth holds the authenticated session. A session is restored from
// durable storage without revalidation, adopted on login or signup and
// dropped on logout. User and token are always written and removed together.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/observable"
	"github.com/nikolayk812/storefront/internal/port"
)

const (
	UserStorageKey  = "user"
	TokenStorageKey = "token"

	DefaultTimeout   = 10 * time.Second
	DefaultAvatarURL = "https://upload.wikimedia.org/wikipedia/commons/9/99/Sample_User_Icon.png"

	invalidCredentialsMessage = "Invalid credentials"
	unreachableMessage        = "Authentication service is unavailable"
	accountCreationMessage    = "Failed to create account"
)

type Store struct {
	mu      sync.Mutex
	session *domain.Session
	// Every login and signup takes a ticket from started. A result commits
	// only if its ticket is newer than committed, the ticket of the last
	// adopted result. Logout raises committed to started so nothing begun
	// before it can land afterwards. Failed attempts leave both untouched.
	started   uint64
	committed uint64
	// version numbers published sessions so subscribers can drop one that
	// arrives after a newer one.
	version uint64

	storage       port.LocalStorage
	client        port.AuthClient
	logger        *slog.Logger
	timeout       time.Duration
	localShortcut bool
	avatarURL     string
	now           func() time.Time
	changes       observable.Subject[*domain.Session]
}

type Option func(*Store)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithTimeout bounds each remote call. Non-positive values keep the default.
func WithTimeout(timeout time.Duration) Option {
	return func(s *Store) {
		if timeout > 0 {
			s.timeout = timeout
		}
	}
}

// WithLocalShortcut controls whether Login may accept the stored account by
// email or first name alone, without a password check. Enabled by default.
func WithLocalShortcut(enabled bool) Option {
	return func(s *Store) {
		s.localShortcut = enabled
	}
}

// WithAvatarURL sets the image given to accounts created by Signup.
func WithAvatarURL(url string) Option {
	return func(s *Store) {
		if url != "" {
			s.avatarURL = url
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// NewStore builds an auth store and restores a stored session if one exists.
func NewStore(ctx context.Context, storage port.LocalStorage, client port.AuthClient, opts ...Option) *Store {
	s := &Store{
		storage:       storage,
		client:        client,
		logger:        slog.Default(),
		timeout:       DefaultTimeout,
		localShortcut: true,
		avatarURL:     DefaultAvatarURL,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	if session, ok := s.load(ctx); ok {
		s.session = &session
	}
	return s
}

// Session returns the active session, if any.
func (s *Store) Session() (domain.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return domain.Session{}, false
	}
	return *s.session, true
}

// Subscribe registers fn to receive the session after every change, nil after
// logout. Storage has already been updated when fn runs.
func (s *Store) Subscribe(fn func(*domain.Session)) (unsubscribe func()) {
	return s.changes.Subscribe(fn)
}

// Login authenticates identifier, an email or a username.
//
// When the local shortcut is enabled and the stored account's email or first
// name equals identifier, that account is adopted without any network call or
// password check. Otherwise the remote service verifies the credentials.
// Failures are returned as *domain.AuthenticationError and leave the current
// session untouched.
//
// When several logins or signups overlap, the most recently started one that
// succeeds wins; an older one finishing after it, or after a Logout, returns
// domain.ErrSuperseded. An attempt that fails does not affect the others.
func (s *Store) Login(ctx context.Context, identifier, password string) (domain.Session, error) {
	if identifier == "" {
		return domain.Session{}, fmt.Errorf("identifier is empty")
	}
	if password == "" {
		return domain.Session{}, fmt.Errorf("password is empty")
	}

	ticket := s.begin()

	if s.localShortcut {
		if session, ok := s.load(ctx); ok && matchesIdentifier(session.User, identifier) {
			if err := s.commit(ctx, ticket, session, false); err != nil {
				return domain.Session{}, err
			}
			s.logger.Info("local login", slog.Int64("user_id", session.User.ID))
			return session, nil
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	session, err := s.client.Login(callCtx, identifier, password)
	if err != nil {
		return domain.Session{}, loginError(err)
	}
	if !session.Valid() {
		return domain.Session{}, &domain.AuthenticationError{
			Message: invalidCredentialsMessage,
			Err:     fmt.Errorf("remote session is incomplete"),
		}
	}
	if session.ExpiresAt.IsZero() {
		session.ExpiresAt = tokenExpiry(session.Token)
	}

	if err := s.commit(ctx, ticket, session, true); err != nil {
		return domain.Session{}, err
	}

	s.logger.Info("remote login", slog.Int64("user_id", session.User.ID))
	return session, nil
}

// Signup registers an account with the remote service and signs the new user
// in. The remote response body is ignored: the session is built from the
// submitted name and email with a placeholder avatar and token.
func (s *Store) Signup(ctx context.Context, fullName, email, password string) (domain.Session, error) {
	if fullName == "" {
		return domain.Session{}, fmt.Errorf("full name is empty")
	}
	if email == "" {
		return domain.Session{}, fmt.Errorf("email is empty")
	}
	if password == "" {
		return domain.Session{}, fmt.Errorf("password is empty")
	}

	ticket := s.begin()

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	err := s.client.AddUser(callCtx, port.NewUser{
		FirstName: fullName,
		Email:     email,
		Password:  password,
	})
	if err != nil {
		return domain.Session{}, &domain.AccountCreationError{
			Message: accountCreationMessage,
			Err:     asNetworkError("signup", err),
		}
	}

	now := s.now()
	user := domain.User{
		ID:        now.UnixMilli(),
		FirstName: fullName,
		Email:     email,
		Image:     s.avatarURL,
	}
	session := domain.Session{
		User:  user,
		Token: placeholderToken(user, now),
	}

	if err := s.commit(ctx, ticket, session, true); err != nil {
		return domain.Session{}, err
	}

	s.logger.Info("signed up", slog.Int64("user_id", user.ID))
	return session, nil
}

// Logout drops the session from memory and storage. Any login or signup still
// waiting on the network is discarded when it returns. Calling it without a session
// is a no-op.
func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()
	s.committed = s.started
	hadSession := s.session != nil
	s.session = nil

	if err := s.storage.Delete(ctx, UserStorageKey, TokenStorageKey); err != nil {
		s.logPersistenceError(&domain.PersistenceError{Op: "delete", Key: UserStorageKey, Err: err})
	}

	if !hadSession {
		s.mu.Unlock()
		return
	}

	s.version++
	seq := s.version
	s.mu.Unlock()

	s.changes.Publish(seq, nil)
}

// begin hands out the ticket of a new login or signup attempt.
func (s *Store) begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.started++
	return s.started
}

// commit adopts session unless a newer attempt or a logout has already
// landed. Storage is written before subscribers are notified.
func (s *Store) commit(ctx context.Context, ticket uint64, session domain.Session, persist bool) error {
	s.mu.Lock()
	if ticket <= s.committed {
		s.mu.Unlock()
		return domain.ErrSuperseded
	}
	s.committed = ticket

	if persist {
		s.save(ctx, session)
	}
	s.session = &session
	s.version++
	seq := s.version
	s.mu.Unlock()

	published := session
	s.changes.Publish(seq, &published)
	return nil
}

func (s *Store) save(ctx context.Context, session domain.Session) {
	payload, err := encodeUser(session.User)
	if err != nil {
		s.logPersistenceError(&domain.PersistenceError{Op: "encode", Key: UserStorageKey, Err: err})
		return
	}

	err = s.storage.Set(ctx,
		domain.Entry{Key: UserStorageKey, Value: payload},
		domain.Entry{Key: TokenStorageKey, Value: session.Token},
	)
	if err != nil {
		s.logPersistenceError(&domain.PersistenceError{Op: "write", Key: UserStorageKey, Err: err})
	}
}

// load reads the stored session. A user without a token, or the reverse, is
// treated as no session.
func (s *Store) load(ctx context.Context) (domain.Session, bool) {
	userPayload, userFound, err := s.storage.Get(ctx, UserStorageKey)
	if err != nil {
		s.logPersistenceError(&domain.PersistenceError{Op: "read", Key: UserStorageKey, Err: err})
		return domain.Session{}, false
	}

	token, tokenFound, err := s.storage.Get(ctx, TokenStorageKey)
	if err != nil {
		s.logPersistenceError(&domain.PersistenceError{Op: "read", Key: TokenStorageKey, Err: err})
		return domain.Session{}, false
	}

	switch {
	case !userFound && !tokenFound:
		return domain.Session{}, false
	case !userFound:
		s.logPersistenceError(&domain.PersistenceError{Op: "decode", Key: UserStorageKey, Err: errors.New("token stored without user")})
		return domain.Session{}, false
	case !tokenFound || token == "":
		s.logPersistenceError(&domain.PersistenceError{Op: "decode", Key: TokenStorageKey, Err: errors.New("user stored without token")})
		return domain.Session{}, false
	}

	user, err := decodeUser(userPayload)
	if err != nil {
		s.logPersistenceError(&domain.PersistenceError{Op: "decode", Key: UserStorageKey, Err: err})
		return domain.Session{}, false
	}

	return domain.Session{
		User:      user,
		Token:     token,
		ExpiresAt: tokenExpiry(token),
	}, true
}

func (s *Store) logPersistenceError(err *domain.PersistenceError) {
	s.logger.Warn("session kept in memory only", slog.Any("error", err))
}

func matchesIdentifier(user domain.User, identifier string) bool {
	return user.Email == identifier || user.FirstName == identifier
}

func loginError(err error) error {
	var remote *domain.RemoteError
	if errors.As(err, &remote) {
		message := remote.Message
		if message == "" {
			message = invalidCredentialsMessage
		}
		return &domain.AuthenticationError{Message: message, Err: err}
	}

	return &domain.AuthenticationError{
		Message: unreachableMessage,
		Err:     asNetworkError("login", err),
	}
}

// asNetworkError keeps remote rejections and network errors as they are and
// classifies anything else, such as a timeout, as a network failure.
func asNetworkError(op string, err error) error {
	var (
		remote  *domain.RemoteError
		network *domain.NetworkError
	)
	if errors.As(err, &remote) || errors.As(err, &network) {
		return err
	}
	return &domain.NetworkError{Op: op, Err: err}
}
