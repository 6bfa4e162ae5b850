package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/epicdreams/storefront-backend/pkg/db/dbtest"
	"github.com/epicdreams/storefront-backend/pkg/db/models"
)

func TestStoreRoundTrip(t *testing.T) {
	conn := dbtest.Open(t)
	ctx := context.Background()

	admin := models.AdminUser{Email: "ops@example.com", PasswordHash: "x", Role: models.AdminRoleAdmin}
	require.NoError(t, conn.Create(&admin).Error)

	store := NewStore(conn)
	sess := &models.AdminSession{ID: NewAccessID(), AdminUserID: admin.ID, ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, store.Create(ctx, sess))

	found, err := store.Find(ctx, sess.ID)
	require.NoError(t, err)
	require.Equal(t, admin.ID, found.AdminUserID)

	require.NoError(t, store.DeleteForAdmin(ctx, admin.ID))
	_, err = store.Find(ctx, sess.ID)
	require.ErrorIs(t, err, ErrSessionNotFound)
}
