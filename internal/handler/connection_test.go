package handler

import (
	"context"
	"testing"
	"time"

	"memebot/internal/domain"
	"memebot/internal/runner"
	"memebot/internal/service"
	"memebot/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const startUpdate = `{"update_id":7,"message":{"message_id":1,"date":0,` +
	`"from":{"id":42,"is_bot":false,"first_name":"Ann"},` +
	`"chat":{"id":42,"type":"private"},"text":"/start"}}`

func newFakeDialer(fake *testutil.FakeTelegram, conv Conversation) runner.Dialer {
	return NewDialer(DialConfig{Token: "test-token", URL: fake.URL, PollTimeout: time.Second}, conv, testutil.NewTestLogger())
}

func dialWith(t *testing.T, dial runner.Dialer) *Connection {
	t.Helper()
	conn, err := dial(context.Background())
	require.NoError(t, err)
	return conn.(*Connection)
}

func dialFake(t *testing.T, fake *testutil.FakeTelegram, conv Conversation) *Connection {
	t.Helper()
	return dialWith(t, newFakeDialer(fake, conv))
}

func runConnection(ctx context.Context, conn *Connection) <-chan error {
	result := make(chan error, 1)
	go func() { result <- conn.Run(ctx) }()
	return result
}

func TestDialer_RejectedToken(t *testing.T) {
	fake := testutil.NewFakeTelegram(t)
	fake.FailMethod("getMe", "Unauthorized")

	dial := NewDialer(DialConfig{Token: "bad", URL: fake.URL, PollTimeout: time.Second}, &fakeConversation{}, testutil.NewTestLogger())

	_, err := dial(context.Background())
	assert.Error(t, err)
}

func TestConnection_DeliversUpdatesUntilCancelled(t *testing.T) {
	fake := testutil.NewFakeTelegram(t)
	fake.QueueUpdate(startUpdate)

	handled := make(chan domain.Event, 1)
	conv := &fakeConversation{
		hook: func(ev domain.Event, r service.Responder) error {
			handled <- ev
			return nil
		},
	}
	conn := dialFake(t, fake, conv)

	ctx, cancel := context.WithCancel(context.Background())
	result := make(chan error, 1)
	go func() { result <- conn.Run(ctx) }()

	select {
	case ev := <-handled:
		assert.Equal(t, int64(42), ev.UserID)
		assert.Equal(t, domain.EventStart, ev.Kind)
	case <-time.After(5 * time.Second):
		t.Fatal("update was not delivered")
	}

	cancel()
	select {
	case err := <-result:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("connection did not stop")
	}

	// later polls acknowledge the delivered update
	polls := fake.Calls("getUpdates")
	require.NotEmpty(t, polls)
	assert.Equal(t, "0", polls[0].Params["offset"])
	for _, p := range polls[1:] {
		assert.Equal(t, "8", p.Params["offset"])
	}
}

func TestConnection_PollingFailureEndsRun(t *testing.T) {
	fake := testutil.NewFakeTelegram(t)
	conn := dialFake(t, fake, &fakeConversation{})
	fake.FailMethod("getUpdates", "Conflict: terminated by other getUpdates request")

	result := make(chan error, 1)
	go func() { result <- conn.Run(context.Background()) }()

	select {
	case err := <-result:
		assert.ErrorContains(t, err, "getUpdates")
	case <-time.After(5 * time.Second):
		t.Fatal("polling failure was not reported")
	}
}

func TestConnection_RedialResumesAfterDeliveredUpdates(t *testing.T) {
	fake := testutil.NewFakeTelegram(t)
	fake.QueueUpdate(startUpdate)

	handled := make(chan domain.Event, 1)
	conv := &fakeConversation{
		hook: func(ev domain.Event, r service.Responder) error {
			handled <- ev
			return nil
		},
	}
	dial := newFakeDialer(fake, conv)

	first := runConnection(context.Background(), dialWith(t, dial))
	select {
	case <-handled:
	case <-time.After(5 * time.Second):
		t.Fatal("update was not delivered")
	}

	fake.FailMethod("getUpdates", "Bad Gateway")
	select {
	case err := <-first:
		require.Error(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("polling failure was not reported")
	}

	fake.RestoreMethod("getUpdates")
	polledBefore := len(fake.Calls("getUpdates"))

	ctx, cancel := context.WithCancel(context.Background())
	second := runConnection(ctx, dialWith(t, dial))

	require.Eventually(t, func() bool {
		return len(fake.Calls("getUpdates")) > polledBefore
	}, 5*time.Second, 5*time.Millisecond)
	cancel()
	require.NoError(t, <-second)

	resumed := fake.Calls("getUpdates")[polledBefore]
	assert.Equal(t, "8", resumed.Params["offset"])
	assert.Len(t, conv.Events(), 1)
}

func TestConnection_CancelledBeforeStart(t *testing.T) {
	fake := testutil.NewFakeTelegram(t)
	conn := dialFake(t, fake, &fakeConversation{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	select {
	case err := <-runConnection(ctx, conn):
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("connection did not stop")
	}
}
