package services

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// AuthService gates the teacher dashboard behind a single shared
// passphrase. There are no user accounts; a successful login yields a
// short-lived token carrying the teacher role.
type AuthService struct {
	passphraseHash []byte
	jwtSecret      string
}

// NewAuthService takes a bcrypt hash of the shared passphrase. If only a
// plaintext passphrase is configured, hash it first with HashPassphrase.
func NewAuthService(passphraseHash []byte, jwtSecret string) *AuthService {
	return &AuthService{passphraseHash: passphraseHash, jwtSecret: jwtSecret}
}

func HashPassphrase(passphrase string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(passphrase), bcrypt.DefaultCost)
}

// Login verifies the passphrase and issues a teacher token valid for 24h.
func (s *AuthService) Login(passphrase string) (string, error) {
	if err := bcrypt.CompareHashAndPassword(s.passphraseHash, []byte(passphrase)); err != nil {
		return "", ErrInvalidCredentials
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"role": "teacher",
		"exp":  time.Now().Add(24 * time.Hour).Unix(),
		"iat":  time.Now().Unix(),
	})

	return token.SignedString([]byte(s.jwtSecret))
}
