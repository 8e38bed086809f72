package otp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mahesh42646/GreenRaiseAgrow-E-com-sub001/internal/kvstore"
)

type captureMailer struct {
	to    []string
	codes []string
}

func (m *captureMailer) SendOTP(to, code string) error {
	m.to = append(m.to, to)
	m.codes = append(m.codes, code)
	return nil
}

func TestIssueAndVerifyConsumesCode(t *testing.T) {
	m := &captureMailer{}
	svc := NewService(kvstore.NewMemory(), m)

	require.NoError(t, svc.Issue("user@example.com"))
	require.Len(t, m.codes, 1)
	assert.Len(t, m.codes[0], 6)

	require.NoError(t, svc.Verify("user@example.com", m.codes[0]))

	// consumed exactly once
	err := svc.Verify("user@example.com", m.codes[0])
	assert.ErrorIs(t, err, ErrInvalidCode)
}

func TestVerifyRejectsWrongCode(t *testing.T) {
	m := &captureMailer{}
	svc := NewService(kvstore.NewMemory(), m)

	require.NoError(t, svc.Issue("user@example.com"))

	err := svc.Verify("user@example.com", "000000x")
	assert.ErrorIs(t, err, ErrInvalidCode)
}

func TestIssueRateLimitPerAddress(t *testing.T) {
	m := &captureMailer{}
	svc := NewService(kvstore.NewMemory(), m)

	for i := 0; i < 5; i++ {
		require.NoError(t, svc.Issue("busy@example.com"))
	}
	err := svc.Issue("busy@example.com")
	assert.ErrorIs(t, err, ErrRateLimited)

	// other addresses are unaffected
	assert.NoError(t, svc.Issue("other@example.com"))
}
