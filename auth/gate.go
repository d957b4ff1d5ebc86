// Package auth is the sign-in gate in front of the inventory views. It holds
// a single signed-in flag; there are no roles or sessions.
package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"sync"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Text codes attached to auth errors.
const (
	CodeUnauthenticated    = "UNAUTHENTICATED"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeInvalidLogin       = "INVALID_LOGIN"
)

// ErrUnauthenticated is returned by Require while signed out.
var ErrUnauthenticated = goerrors.New("sign in required", goerrors.CategoryAuth).
	WithTextCode(CodeUnauthenticated)

// Credentials are the accepted username and password.
type Credentials struct {
	Username string
	Password string
}

// Gate checks credentials and remembers whether someone signed in.
type Gate struct {
	mu     sync.RWMutex
	creds  Credentials
	token  string
	logger *zap.Logger
	newID  func() string
}

// Option configures a Gate.
type Option func(*Gate)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(g *Gate) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithTokenGenerator replaces the uuid token generator.
func WithTokenGenerator(fn func() string) Option {
	return func(g *Gate) {
		if fn != nil {
			g.newID = fn
		}
	}
}

// NewGate accepts creds.
func NewGate(creds Credentials, opts ...Option) *Gate {
	g := &Gate{
		creds:  creds,
		logger: zap.NewNop(),
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

type login struct {
	Username string
	Password string
}

func (l login) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.Username, validation.Required),
		validation.Field(&l.Password, validation.Required),
	)
}

// Login signs in when username and password match and returns the session
// token. Empty fields are a validation error, a mismatch an auth error.
func (g *Gate) Login(ctx context.Context, username, password string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if err := (login{Username: username, Password: password}).Validate(); err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryValidation, "username and password are required").
			WithTextCode(CodeInvalidLogin)
	}

	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(g.creds.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(g.creds.Password)) == 1
	if !userOK || !passOK {
		g.logger.Info("login rejected", zap.String("username", username))
		return "", goerrors.New("invalid username or password", goerrors.CategoryAuth).
			WithTextCode(CodeInvalidCredentials)
	}

	token := g.newID()
	g.mu.Lock()
	g.token = token
	g.mu.Unlock()

	g.logger.Info("login accepted", zap.String("username", username))
	return token, nil
}

// Logout clears the signed-in flag.
func (g *Gate) Logout() {
	g.mu.Lock()
	g.token = ""
	g.mu.Unlock()
}

// Authenticated reports whether someone is signed in.
func (g *Gate) Authenticated() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.token != ""
}

// Token returns the current session token, empty while signed out.
func (g *Gate) Token() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.token
}

// Require returns ErrUnauthenticated while signed out.
func (g *Gate) Require() error {
	if !g.Authenticated() {
		return ErrUnauthenticated
	}
	return nil
}

// IsUnauthenticated reports whether err is an auth failure.
func IsUnauthenticated(err error) bool {
	var e *goerrors.Error
	return errors.As(err, &e) && e.Category == goerrors.CategoryAuth
}
