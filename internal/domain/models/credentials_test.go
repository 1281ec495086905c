package models_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gatewatch/auth-service/internal/domain/models"
)

func TestParseEmail_Valid(t *testing.T) {
	testCases := []struct {
		input string
		want  string
	}{
		{"user@example.com", "user@example.com"},
		{"  User@Example.COM ", "user@example.com"},
		{"first.last@sub.domain.org", "first.last@sub.domain.org"},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			email, err := models.ParseEmail(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.want, email.Address())
		})
	}
}

func TestParseEmail_Invalid(t *testing.T) {
	testCases := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"whitespace only", "   "},
		{"missing at", "userexample.com"},
		{"missing local part", "@example.com"},
		{"missing domain", "user@"},
		{"domain without dot", "user@localhost"},
		{"display name form", "User <user@example.com>"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := models.ParseEmail(tc.input)
			assert.Error(t, err)
		})
	}
}

func TestEmail_Equality(t *testing.T) {
	a, err := models.ParseEmail("User@Example.com")
	require.NoError(t, err)
	b, err := models.ParseEmail("user@example.com")
	require.NoError(t, err)

	assert.Equal(t, a, b, "equality is over the normalized address")

	// Usable as a map key.
	m := map[models.Email]int{a: 1}
	assert.Equal(t, 1, m[b])
}

func TestEmail_StringIsMasked(t *testing.T) {
	email, err := models.ParseEmail("alice@example.com")
	require.NoError(t, err)

	assert.NotContains(t, email.String(), "alice@", "log form must not expose the local part")
	assert.Contains(t, email.String(), "example.com")
}

func TestParsePassword(t *testing.T) {
	testCases := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"minimum length", "12345678", false},
		{"maximum length", strings.Repeat("a", 32), false},
		{"too short", "1234567", true},
		{"too long", strings.Repeat("a", 33), true},
		{"control character", "pass\x00word", true},
		{"tab character", "pass\tword", true},
		{"symbols allowed", "p@ssw0rd!#", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := models.ParsePassword(tc.input)
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPassword_StringIsRedacted(t *testing.T) {
	password, err := models.ParsePassword("super-secret-1")
	require.NoError(t, err)

	assert.NotContains(t, password.String(), "super-secret-1")
	assert.Equal(t, "super-secret-1", password.Secret())
}

func TestLoginAttemptID(t *testing.T) {
	id := models.NewLoginAttemptID()
	assert.NotEmpty(t, id.String())

	parsed, err := models.ParseLoginAttemptID(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)

	_, err = models.ParseLoginAttemptID("not-a-uuid")
	assert.Error(t, err)

	_, err = models.ParseLoginAttemptID("")
	assert.Error(t, err)
}

func TestNewLoginAttemptID_Unique(t *testing.T) {
	a := models.NewLoginAttemptID()
	b := models.NewLoginAttemptID()
	assert.NotEqual(t, a, b)
}

func TestParseTwoFACode(t *testing.T) {
	testCases := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid", "123456", false},
		{"leading zeros", "000042", false},
		{"too short", "12345", true},
		{"too long", "1234567", true},
		{"letters", "12a456", true},
		{"empty", "", true},
		{"unicode digits", "１２３４５６", true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := models.ParseTwoFACode(tc.input)
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewTwoFACode(t *testing.T) {
	for i := 0; i < 50; i++ {
		code, err := models.NewTwoFACode()
		require.NoError(t, err)
		require.Len(t, code.Value(), 6, "codes are zero-padded to 6 digits")

		_, err = models.ParseTwoFACode(code.Value())
		require.NoError(t, err)
	}
}

func TestTwoFACode_StringIsRedacted(t *testing.T) {
	code, err := models.ParseTwoFACode("123456")
	require.NoError(t, err)

	assert.NotContains(t, code.String(), "123456")
}
