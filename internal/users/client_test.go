package users

import (
	"context"
	"net/url"
	"testing"

	"github.com/bodegonapp/storefront-backend/pkg/enums"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetByIDBuildsPath(t *testing.T) {
	t.Parallel()

	api := &stubGetter{user: User{ID: 9, Username: "ana", Role: enums.UserRoleAdmin}}
	client, err := NewClient(api)
	require.NoError(t, err)

	user, err := client.GetByID(context.Background(), 9)
	require.NoError(t, err)

	assert.Equal(t, "user/9", api.lastPath)
	assert.Equal(t, int64(9), user.ID)
	assert.Equal(t, "ana", user.Username)
	assert.Equal(t, enums.UserRoleAdmin, user.Role)
}

func TestNewClientRequiresAPI(t *testing.T) {
	t.Parallel()

	_, err := NewClient(nil)
	require.Error(t, err)
}

type stubGetter struct {
	user     User
	lastPath string
}

func (s *stubGetter) Get(ctx context.Context, path string, query url.Values, dest any) error {
	s.lastPath = path
	if typed, ok := dest.(*User); ok {
		*typed = s.user
	}
	return nil
}
