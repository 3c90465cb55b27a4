package service

import (
	"time"

	"github.com/golang-jwt/jwt/v4"

	"soalklinis_backend/internals/features/auth/guard"
)

const TokenTTL = 24 * time.Hour

const (
	ReasonLockout       = "lockout"
	ReasonBadCredential = "bad_credential"
)

// LoginResult carries either a minted token or a structured denial.
type LoginResult struct {
	Granted      bool
	Token        string
	Reason       string
	AttemptsLeft int
}

type AuthService struct {
	Guard         *guard.Store
	AdminEmail    string
	AdminPassword string
	JWTSecret     string

	now func() time.Time
}

type Option func(*AuthService)

func WithClock(clock func() time.Time) Option {
	return func(s *AuthService) {
		if clock != nil {
			s.now = clock
		}
	}
}

func NewAuthService(g *guard.Store, adminEmail, adminPassword, jwtSecret string, opts ...Option) *AuthService {
	s := &AuthService{
		Guard:         g,
		AdminEmail:    adminEmail,
		AdminPassword: adminPassword,
		JWTSecret:     jwtSecret,
		now:           time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Login is the sole authentication path. The credential check is an exact,
// case-sensitive string comparison against the configured admin credential;
// there is no hashing and no credential store. Known weakness, kept on
// purpose: this tool has exactly one operator and the behavior is relied on.
func (s *AuthService) Login(identity, email, password string) (LoginResult, error) {
	if s.Guard.IsBlocked(identity) {
		return LoginResult{Granted: false, Reason: ReasonLockout}, nil
	}

	if email == s.AdminEmail && password == s.AdminPassword {
		s.Guard.RecordSuccess(identity)

		token, err := s.mintToken(email)
		if err != nil {
			return LoginResult{}, err
		}
		return LoginResult{Granted: true, Token: token}, nil
	}

	s.Guard.RecordFailure(identity)
	left := guard.MaxAttempts - s.Guard.FailCount(identity)
	if left < 0 {
		left = 0
	}
	return LoginResult{Granted: false, Reason: ReasonBadCredential, AttemptsLeft: left}, nil
}

func (s *AuthService) mintToken(email string) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"email": email,
		"iat":   now.Unix(),
		"exp":   now.Add(TokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.JWTSecret))
}
