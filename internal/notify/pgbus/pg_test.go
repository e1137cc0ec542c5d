package pgbus

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBusRelaysNotifications(t *testing.T) {
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL not set")
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := sql.Open("postgres", url)
	require.NoError(t, err)
	defer db.Close()

	bus, err := New(url, db)
	require.NoError(t, err)
	defer bus.Close()
	bus.Start(ctx)

	ch, unsubscribe, err := bus.Subscribe(ctx, "messages")
	require.NoError(t, err)
	defer unsubscribe()
	other, unsubscribeOther, err := bus.Subscribe(ctx, "rooms")
	require.NoError(t, err)
	defer unsubscribeOther()

	assert.Eventually(t, func() bool {
		if err := bus.Publish(ctx, "messages"); err != nil {
			return false
		}
		select {
		case <-ch:
			return true
		case <-time.After(50 * time.Millisecond):
			return false
		}
	}, 3*time.Second, 10*time.Millisecond)

	select {
	case <-other:
		t.Fatal("subscriber of another collection was signalled")
	default:
	}
}
