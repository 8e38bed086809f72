// Package otp issues and verifies time-boxed one-time codes for email
// verification. Codes live in an injectable expiring store, so the state
// survives only as long as the configured TTLs and never grows unbounded.
package otp

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/mahesh42646/GreenRaiseAgrow-E-com-sub001/internal/kvstore"
	"github.com/mahesh42646/GreenRaiseAgrow-E-com-sub001/internal/mailer"
)

const (
	codeTTL         = 10 * time.Minute
	rateWindow      = time.Hour
	maxPerWindow    = 5
	codeDigits      = 6
)

var (
	// ErrRateLimited is returned when an address exceeds the issuance cap.
	ErrRateLimited = errors.New("too many codes requested for this address")
	// ErrInvalidCode is returned when no live code matches; a successful
	// verify consumes the code, so a second attempt gets this error too.
	ErrInvalidCode = errors.New("code is invalid or expired")
)

type Service struct {
	store  kvstore.Store
	mailer mailer.Mailer
}

func NewService(store kvstore.Store, m mailer.Mailer) *Service {
	return &Service{store: store, mailer: m}
}

// Issue generates a fresh code for email, stores it for ten minutes and
// hands it to the mailer. At most five codes per address per rolling hour.
func (s *Service) Issue(email string) error {
	if s.store.Incr("otp-rate:"+email, rateWindow) > maxPerWindow {
		return ErrRateLimited
	}

	code, err := generateCode()
	if err != nil {
		return err
	}

	s.store.Set("otp:"+email, code, codeTTL)
	return s.mailer.SendOTP(email, code)
}

// Verify consumes the live code for email exactly once.
func (s *Service) Verify(email, code string) error {
	stored, ok := s.store.Get("otp:" + email)
	if !ok || stored != code {
		return ErrInvalidCode
	}
	s.store.Delete("otp:" + email)
	return nil
}

func generateCode() (string, error) {
	max := big.NewInt(1)
	for i := 0; i < codeDigits; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", codeDigits, n), nil
}
