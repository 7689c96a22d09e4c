package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/require"

	"github.com/project/circulation/internal/entity"
)

func TestIssueAndAuthenticate(t *testing.T) {
	t.Parallel()

	g := New("secret", time.Hour)
	token, err := g.Issue(entity.User{ID: "u1", Role: entity.RoleStudent})
	require.NoError(t, err)

	user, err := g.Authenticate("Bearer " + token)
	require.NoError(t, err)
	require.Equal(t, entity.User{ID: "u1", Role: entity.RoleStudent}, user)
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	g := New("secret", time.Hour)
	valid, err := g.Issue(entity.User{ID: "u1", Role: entity.RoleAdmin})
	require.NoError(t, err)

	other, err := New("other", time.Hour).Issue(entity.User{ID: "u1", Role: entity.RoleAdmin})
	require.NoError(t, err)

	expired := New("secret", time.Minute)
	expired.now = func() time.Time { return time.Now().Add(-time.Hour) }
	old, err := expired.Issue(entity.User{ID: "u1", Role: entity.RoleAdmin})
	require.NoError(t, err)

	badRole, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role:             "LIBRARIAN",
		RegisteredClaims: jwt.RegisteredClaims{Subject: "u1"},
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		Role:             "ADMIN",
		RegisteredClaims: jwt.RegisteredClaims{Subject: "u1"},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name    string
		header  string
		want    entity.User
		wantErr error
	}{
		{name: "anonymous", header: ""},
		{name: "valid", header: "Bearer " + valid, want: entity.User{ID: "u1", Role: entity.RoleAdmin}},
		{name: "no bearer prefix", header: valid, wantErr: entity.ErrUnauthenticated},
		{name: "foreign secret", header: "Bearer " + other, wantErr: entity.ErrUnauthenticated},
		{name: "expired", header: "Bearer " + old, wantErr: entity.ErrUnauthenticated},
		{name: "unknown role", header: "Bearer " + badRole, wantErr: entity.ErrUnauthenticated},
		{name: "alg none", header: "Bearer " + none, wantErr: entity.ErrUnauthenticated},
		{name: "garbage", header: "Bearer abc.def", wantErr: entity.ErrUnauthenticated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			user, err := g.Authenticate(tt.header)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				require.Empty(t, user)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, user)
		})
	}
}

func TestIssueRequiresSubject(t *testing.T) {
	t.Parallel()

	_, err := New("secret", 0).Issue(entity.User{Role: entity.RoleAdmin})
	require.ErrorIs(t, err, entity.ErrValidation)

	_, err = New("", 0).Issue(entity.User{ID: "u1", Role: entity.RoleAdmin})
	require.Error(t, err)
}
