package services

import (
	"database/sql"
	"errors"
	"time"

	"campusmarket/internal/apperr"
	"campusmarket/internal/domain"
	"campusmarket/internal/repos"
	"campusmarket/internal/validate"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	Users       *repos.UserRepo
	Secret      []byte
	TokenTTL    time.Duration
	EmailDomain string
}

var errBadCreds = apperr.Auth("BAD_CREDENTIALS", "invalid email or password")

func (s *AuthService) Register(name, email, password string) (*domain.User, error) {
	name, ok := validate.Name(name)
	if !ok {
		return nil, apperr.Validation("BAD_NAME", "name must be 1-60 characters")
	}
	email, ok = validate.InstitutionalEmail(email, s.EmailDomain)
	if !ok {
		return nil, apperr.Validation("BAD_EMAIL_DOMAIN", "registration requires a "+s.EmailDomain+" email address")
	}
	if !validate.Password(password) {
		return nil, apperr.Validation("BAD_PASSWORD", "password cannot be blank")
	}
	taken, err := s.Users.EmailTaken(email, "")
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if taken {
		return nil, apperr.Validation("EMAIL_TAKEN", "that email is already in use")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	u := &domain.User{ID: uuid.NewString(), Name: name, Email: email, Hash: string(hash)}
	if err := s.Users.Insert(u); err != nil {
		return nil, apperr.Internal(err)
	}
	return u, nil
}

// Login verifies the credentials and issues a signed bearer token whose
// only claim of interest is the user id.
func (s *AuthService) Login(email, password string) (string, *domain.User, error) {
	u, err := s.Users.ByEmail(email)
	if errors.Is(err, sql.ErrNoRows) {
		// One message for unknown email and wrong password alike.
		return "", nil, errBadCreds
	}
	if err != nil {
		return "", nil, apperr.Internal(err)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return "", nil, errBadCreds
	}

	now := time.Now()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   u.ID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.TokenTTL)),
	})
	signed, err := tok.SignedString(s.Secret)
	if err != nil {
		return "", nil, apperr.Internal(err)
	}
	return signed, u, nil
}

// UserFromToken validates a bearer token and re-resolves the user row, so a
// deleted account or stale claim never rides on an old token.
func (s *AuthService) UserFromToken(token string) (*domain.User, error) {
	claims := jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return s.Secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || claims.Subject == "" {
		return nil, apperr.Auth("BAD_TOKEN", "invalid or expired token")
	}
	u, err := s.Users.ByID(claims.Subject)
	if err != nil {
		return nil, apperr.Auth("BAD_TOKEN", "invalid or expired token")
	}
	return u, nil
}

// UpdateProfile changes name/email under the same domain rule as register.
func (s *AuthService) UpdateProfile(userID, name, email string) (*domain.User, error) {
	name, ok := validate.Name(name)
	if !ok {
		return nil, apperr.Validation("BAD_NAME", "name must be 1-60 characters")
	}
	email, ok = validate.InstitutionalEmail(email, s.EmailDomain)
	if !ok {
		return nil, apperr.Validation("BAD_EMAIL_DOMAIN", "email must stay on "+s.EmailDomain)
	}
	taken, err := s.Users.EmailTaken(email, userID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if taken {
		return nil, apperr.Validation("EMAIL_TAKEN", "that email is already in use")
	}
	if err := s.Users.UpdateProfile(userID, name, email); err != nil {
		return nil, apperr.Internal(err)
	}
	u, err := s.Users.ByID(userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("USER_NOT_FOUND", "user not found")
		}
		return nil, apperr.Internal(err)
	}
	return u, nil
}
