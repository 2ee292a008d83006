package pay

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalSessionRoundTrip(t *testing.T) {
	gw := NewLocal()
	ctx := context.Background()

	created, err := gw.CreateSession(ctx, Session{
		TourID: "t1",
		UserID: "u1",
		Email:  "ada@example.com",
		Amount: 497,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Contains(t, created.URL, created.ID)
	assert.Equal(t, "usd", created.Currency)

	found, err := gw.LookupSession(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.TourID, found.TourID)
	assert.Equal(t, created.Amount, found.Amount)
}

func TestLocalLookupUnknownSession(t *testing.T) {
	gw := NewLocal()
	_, err := gw.LookupSession(context.Background(), "cs_missing")
	assert.Error(t, err)
}

func TestLocalSessionIDsAreUnique(t *testing.T) {
	gw := NewLocal()
	ctx := context.Background()

	a, err := gw.CreateSession(ctx, Session{TourID: "t1", UserID: "u1", Amount: 1})
	require.NoError(t, err)
	b, err := gw.CreateSession(ctx, Session{TourID: "t1", UserID: "u1", Amount: 1})
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
}
