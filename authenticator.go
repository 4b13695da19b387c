package auth

import (
	"context"
	"reflect"
)

type Auther struct {
	provider       IdentityProvider
	passwords      PasswordChecker
	signingKey     []byte
	tokenService   TokenService
	tokenValidator TokenValidator
	logger         Logger
}

// PasswordChecker exposes the bare credential probe used by CheckPassword.
type PasswordChecker interface {
	CheckPassword(ctx context.Context, identifier, password string) (bool, error)
}

// NewAuthenticator returns a new Authenticator
func NewAuthenticator(provider IdentityProvider, opts Config) *Auther {
	tokenService := NewTokenService(
		[]byte(opts.GetSigningKey()),
		opts.GetTokenExpiration(),
		opts.GetIssuer(),
		opts.GetAudience(),
		defLogger{},
	)

	a := &Auther{
		provider:     provider,
		signingKey:   []byte(opts.GetSigningKey()),
		logger:       defLogger{},
		tokenService: tokenService,
	}

	if checker, ok := provider.(PasswordChecker); ok {
		a.passwords = checker
	}

	return a
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	s.logger = logger
	if ts, ok := s.tokenService.(*TokenServiceImpl); ok {
		ts.logger = logger
	}
	return s
}

// WithTokenValidator sets a custom token validator for externally issued tokens.
func (s *Auther) WithTokenValidator(validator TokenValidator) *Auther {
	s.tokenValidator = validator
	return s
}

// WithPasswordChecker overrides the credential probe used by CheckPassword.
func (s *Auther) WithPasswordChecker(checker PasswordChecker) *Auther {
	s.passwords = checker
	return s
}

// TokenService returns the TokenService instance used by this Authenticator
func (s *Auther) TokenService() TokenService {
	return s.tokenService
}

// Login verifies the credentials and mints a bearer token embedding the
// identity plus the roles it holds right now. The token is the only output,
// there is no server-side session record.
func (s *Auther) Login(ctx context.Context, identifier, password string) (string, error) {
	var err error
	var identity Identity

	if identity, err = s.provider.VerifyIdentity(ctx, identifier, password); err != nil {
		s.logger.Error("Login verify identity error: %s", err)
		return "", err
	}

	if identity == nil || reflect.ValueOf(identity).IsZero() {
		s.logger.Error("Login identity is nil or zero value")
		return "", ErrIdentityNotFound
	}

	token, err := s.tokenService.Generate(identity)
	if err != nil {
		s.logger.Error("Login failed to generate token: %s", err)
		return "", err
	}

	return token, nil
}

// CheckPassword reports whether the credentials are valid, without minting
// anything.
func (s *Auther) CheckPassword(ctx context.Context, identifier, password string) (bool, error) {
	if s.passwords == nil {
		return false, ErrIdentityNotFound
	}
	return s.passwords.CheckPassword(ctx, identifier, password)
}

func (s *Auther) IdentityFromSession(ctx context.Context, session Session) (Identity, error) {
	identity, err := s.provider.FindIdentityByIdentifier(ctx, session.GetUserID())

	if err != nil {
		s.logger.Error("IdentityFromSession find identity by identifier: %s", err)
		return nil, err
	}

	return identity, nil
}

func (s Auther) SessionFromToken(raw string) (Session, error) {
	validator := s.tokenValidator
	if validator == nil {
		validator = s.tokenService
	}

	claims, err := validator.Validate(raw)
	if err != nil {
		s.logger.Error("SessionFromToken validation failed: %s", err)
		return nil, err
	}

	session, err := sessionFromAuthClaims(claims)
	if err != nil {
		s.logger.Error("SessionFromToken failed to create session from claims: %s", err)
		return nil, err
	}

	return session, nil
}
