package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Parallel()

	user, err := NewUser("reader@example.com", "Sterk#Wachtwoord1")
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.Equal(t, "reader@example.com", user.Email)
	assert.False(t, user.CreatedAt.IsZero())
	assert.False(t, user.UpdatedAt.IsZero())
}

func TestUserValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{
			name:     "valid user",
			email:    "reader@example.com",
			password: "Sterk#Wachtwoord1",
			wantErr:  nil,
		},
		{
			name:     "empty email",
			email:    "",
			password: "Sterk#Wachtwoord1",
			wantErr:  ErrEmptyEmail,
		},
		{
			name:     "missing at sign",
			email:    "reader.example.com",
			password: "Sterk#Wachtwoord1",
			wantErr:  ErrInvalidEmail,
		},
		{
			name:     "missing domain dot",
			email:    "reader@examplecom",
			password: "Sterk#Wachtwoord1",
			wantErr:  ErrInvalidEmail,
		},
		{
			name:     "too short password",
			email:    "reader@example.com",
			password: "Ab1#",
			wantErr:  ErrWeakPassword,
		},
		{
			name:     "no uppercase",
			email:    "reader@example.com",
			password: "zwak#wachtwoord1",
			wantErr:  ErrWeakPassword,
		},
		{
			name:     "no digit",
			email:    "reader@example.com",
			password: "Zwak#Wachtwoord",
			wantErr:  ErrWeakPassword,
		},
		{
			name:     "no special character",
			email:    "reader@example.com",
			password: "ZwakWachtwoord1",
			wantErr:  ErrWeakPassword,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewUser(tt.email, tt.password)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestUserValidateStoredUser(t *testing.T) {
	t.Parallel()

	// A user loaded from the store has a hash and no plaintext password.
	user := &User{
		ID:             uuid.New(),
		Email:          "reader@example.com",
		HashedPassword: "$2a$10$abcdefghijklmnopqrstuv",
	}
	assert.NoError(t, user.Validate())

	user.HashedPassword = ""
	assert.ErrorIs(t, user.Validate(), ErrEmptyPassword)
}
