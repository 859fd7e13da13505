package stream

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/markjakearzadon/nammakodai-gobackend/internal/models"
)

func TestHubPublishToTopic(t *testing.T) {
	h := NewHub(4)
	a := h.Subscribe(UserTopic("a"))
	b := h.Subscribe(UserTopic("b"))
	defer h.Unsubscribe(a)
	defer h.Unsubscribe(b)

	n := h.Publish(UserTopic("a"), EventUser, "hello")
	assert.Equal(t, 1, n)

	msg := <-a.Send
	assert.Equal(t, EventUser, msg.Type)
	assert.Equal(t, "hello", msg.Data)
	assert.Empty(t, b.Send)
}

func TestHubDropsWhenFull(t *testing.T) {
	h := NewHub(1)
	c := h.Subscribe(AdminTopic)

	assert.Equal(t, 1, h.Publish(AdminTopic, EventUsers, 1))
	assert.Equal(t, 0, h.Publish(AdminTopic, EventUsers, 2))

	msg := <-c.Send
	assert.Equal(t, 1, msg.Data)
}

func TestHubUnsubscribe(t *testing.T) {
	h := NewHub(1)
	c := h.Subscribe(AdminTopic)
	assert.Equal(t, 1, h.Subscribers(AdminTopic))

	h.Unsubscribe(c)
	h.Unsubscribe(c)
	assert.Equal(t, 0, h.Subscribers(AdminTopic))
	_, open := <-c.Send
	assert.False(t, open)
	assert.Equal(t, 0, h.Publish(AdminTopic, EventUsers, nil))
}

func TestNotifyUserSendsView(t *testing.T) {
	h := NewHub(2)
	u := &models.User{
		ID:     primitive.NewObjectID(),
		Name:   "Asha",
		Role:   models.RoleExistingUser,
		Wallet: models.Wallet{Balance: 50, Currency: models.CurrencyINR},
	}
	c := h.Subscribe(UserTopic(u.ID.Hex()))

	h.NotifyUser(u)
	msg := <-c.Send
	view, ok := msg.Data.(models.UserView)
	require.True(t, ok)
	assert.Equal(t, u.ID.Hex(), view.ID)
	assert.Equal(t, int64(50), view.Wallet.Balance)
}

func TestSSEWriterFraming(t *testing.T) {
	rec := httptest.NewRecorder()
	sse, err := NewSSEWriter(rec)
	require.NoError(t, err)

	require.NoError(t, sse.Send(EventUsers, map[string]int{"total": 2}))
	require.NoError(t, sse.Ping(time.UnixMilli(1700000000000)))

	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	body := rec.Body.String()
	assert.Contains(t, body, "event: users\ndata: {\"total\":2}\n\n")
	assert.True(t, strings.HasSuffix(body, "event: ping\ndata: 1700000000000\n\n"))
}

type stubSource struct {
	calls atomic.Int32
	err   error
}

func (s *stubSource) Snapshot(ctx context.Context) (models.DashboardSnapshot, error) {
	s.calls.Add(1)
	if s.err != nil {
		return models.DashboardSnapshot{}, s.err
	}
	return models.DashboardSnapshot{
		Users:        []models.UserView{{ID: "u1"}},
		Stats:        models.DashboardStats{Total: 1, Active: 1},
		Transactions: []models.FeedTransaction{},
	}, nil
}

func TestPollerSkipsWithoutSubscribers(t *testing.T) {
	h := NewHub(4)
	src := &stubSource{}
	p := NewPoller(h, src, time.Second)

	p.Tick()
	assert.Equal(t, int32(0), src.calls.Load())
}

func TestPollerPublishesUsersAndTransactions(t *testing.T) {
	h := NewHub(4)
	src := &stubSource{}
	p := NewPoller(h, src, time.Second)
	c := h.Subscribe(AdminTopic)
	defer h.Unsubscribe(c)

	p.Tick()
	require.Equal(t, int32(1), src.calls.Load())

	first := <-c.Send
	assert.Equal(t, EventUsers, first.Type)
	users := first.Data.(UsersPayload)
	assert.Equal(t, 1, users.Stats.Total)

	second := <-c.Send
	assert.Equal(t, EventTransactions, second.Type)
	assert.NotNil(t, second.Data.(TransactionsPayload).Transactions)
}

func TestPollerErrorPublishesNothing(t *testing.T) {
	h := NewHub(4)
	src := &stubSource{err: errors.New("db down")}
	p := NewPoller(h, src, time.Second)
	c := h.Subscribe(AdminTopic)
	defer h.Unsubscribe(c)

	p.Tick()
	assert.Empty(t, c.Send)
}

func TestPollerRunsOnSchedule(t *testing.T) {
	h := NewHub(16)
	src := &stubSource{}
	p := NewPoller(h, src, time.Second)
	c := h.Subscribe(AdminTopic)
	defer h.Unsubscribe(c)

	require.NoError(t, p.Start())
	defer p.Stop(context.Background())

	select {
	case msg := <-c.Send:
		assert.Equal(t, EventUsers, msg.Type)
	case <-time.After(3 * time.Second):
		t.Fatal("poller did not publish")
	}
}
