package chat

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"worktide/internal/domain/user"
	"worktide/internal/pkg/jwt"
	"worktide/internal/realtime"
	"worktide/internal/testutil"
)

type fixture struct {
	svc   *Service
	hub   *realtime.Hub
	users user.Repository
	ids   map[string]int64
}

func setup(t *testing.T, names ...string) *fixture {
	t.Helper()
	db := testutil.NewDB(t, &user.User{}, &Message{})
	users := user.NewRepository(db)
	hub := realtime.NewHub()
	userSvc := user.NewService(users, jwt.New("test-secret", time.Hour))

	f := &fixture{
		svc:   NewService(NewRepository(db), userSvc, hub),
		hub:   hub,
		users: users,
		ids:   make(map[string]int64),
	}
	for _, name := range names {
		u := &user.User{Email: name + "@example.com", PasswordHash: "x", Role: user.RoleFreelancer, Name: name}
		require.NoError(t, users.Create(context.Background(), u))
		f.ids[name] = u.ID
	}
	return f
}

func nextEvent(t *testing.T, c *realtime.Client) (string, Message) {
	t.Helper()
	select {
	case raw := <-c.Outbox():
		var ev struct {
			Type    string  `json:"type"`
			Payload Message `json:"payload"`
		}
		require.NoError(t, json.Unmarshal(raw, &ev))
		return ev.Type, ev.Payload
	case <-time.After(time.Second):
		t.Fatal("no event")
		return "", Message{}
	}
}

func TestSend_OfflineReceiverThenConversation(t *testing.T) {
	f := setup(t, "u1", "u2")
	ctx := context.Background()
	u1, u2 := f.ids["u1"], f.ids["u2"]

	msg, err := f.svc.Send(ctx, u1, SendMessageRequest{ReceiverID: u2, Content: "hi"})
	require.NoError(t, err)
	assert.NotEmpty(t, msg.ID)
	assert.False(t, msg.IsSystem)

	history, err := f.svc.History(ctx, u1, u2)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "hi", history[0].Content)

	convs, err := f.svc.Conversations(ctx, u2)
	require.NoError(t, err)
	require.Len(t, convs, 1)
	assert.Equal(t, u1, convs[0].PartnerID)
	require.NotNil(t, convs[0].Partner)
	assert.Equal(t, "u1", convs[0].Partner.Name)
	assert.Equal(t, "hi", convs[0].LastMessage.Content)
}

func TestSend_PushesToReceiverAndEchoesToSender(t *testing.T) {
	f := setup(t, "a", "b")
	a, b := f.ids["a"], f.ids["b"]
	ca := realtime.NewClient(a, nil)
	cb := realtime.NewClient(b, nil)
	f.hub.Register(ca)
	f.hub.Register(cb)

	msg, err := f.svc.Send(context.Background(), a, SendMessageRequest{
		ReceiverID:  b,
		Content:     "see file",
		Attachments: []Attachment{{URL: "/uploads/x.pdf", Type: "application/pdf", Name: "x.pdf"}},
	})
	require.NoError(t, err)

	typ, got := nextEvent(t, cb)
	assert.Equal(t, realtime.EventNewMessage, typ)
	assert.Equal(t, msg.ID, got.ID)
	require.Len(t, got.Attachments, 1)
	assert.Equal(t, "x.pdf", got.Attachments[0].Name)

	typ, got = nextEvent(t, ca)
	assert.Equal(t, realtime.EventMessageSent, typ)
	assert.Equal(t, msg.ID, got.ID)
}

func TestSend_NoDedup(t *testing.T) {
	f := setup(t, "a", "b")
	ctx := context.Background()
	req := SendMessageRequest{ReceiverID: f.ids["b"], Content: "same"}

	m1, err := f.svc.Send(ctx, f.ids["a"], req)
	require.NoError(t, err)
	m2, err := f.svc.Send(ctx, f.ids["a"], req)
	require.NoError(t, err)
	assert.NotEqual(t, m1.ID, m2.ID)

	history, err := f.svc.History(ctx, f.ids["a"], f.ids["b"])
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestSend_Validation(t *testing.T) {
	f := setup(t, "a")
	ctx := context.Background()
	a := f.ids["a"]

	tests := []struct {
		name string
		req  SendMessageRequest
		want error
	}{
		{"missing receiver", SendMessageRequest{Content: "x"}, ErrInvalidReceiver},
		{"self", SendMessageRequest{ReceiverID: a, Content: "x"}, ErrSelfMessage},
		{"empty", SendMessageRequest{ReceiverID: 999, Content: "   "}, ErrEmptyMessage},
		{"attachment without url", SendMessageRequest{ReceiverID: 999, Attachments: []Attachment{{Name: "a"}}}, ErrInvalidAttachment},
		{"unknown receiver", SendMessageRequest{ReceiverID: 999, Content: "x"}, ErrReceiverNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Send(ctx, a, tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	count, err := f.svc.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestHistory_AscendingBothDirections(t *testing.T) {
	f := setup(t, "a", "b", "c")
	ctx := context.Background()
	a, b, c := f.ids["a"], f.ids["b"], f.ids["c"]

	for i, step := range []struct {
		from, to int64
	}{{a, b}, {b, a}, {a, c}, {a, b}} {
		_, err := f.svc.Send(ctx, step.from, SendMessageRequest{ReceiverID: step.to, Content: string(rune('1' + i))})
		require.NoError(t, err)
	}

	history, err := f.svc.History(ctx, b, a)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, "1", history[0].Content)
	assert.Equal(t, "2", history[1].Content)
	assert.Equal(t, "4", history[2].Content)
}

func TestConversations_OneEntryPerPartnerNewestFirst(t *testing.T) {
	f := setup(t, "a", "b", "c")
	ctx := context.Background()
	a, b, c := f.ids["a"], f.ids["b"], f.ids["c"]

	_, err := f.svc.Send(ctx, a, SendMessageRequest{ReceiverID: b, Content: "to b"})
	require.NoError(t, err)
	_, err = f.svc.Send(ctx, c, SendMessageRequest{ReceiverID: a, Content: "from c"})
	require.NoError(t, err)
	_, err = f.svc.Send(ctx, b, SendMessageRequest{ReceiverID: a, Content: "reply b"})
	require.NoError(t, err)

	convs, err := f.svc.Conversations(ctx, a)
	require.NoError(t, err)
	require.Len(t, convs, 2)
	assert.Equal(t, b, convs[0].PartnerID)
	assert.Equal(t, "reply b", convs[0].LastMessage.Content)
	assert.Equal(t, c, convs[1].PartnerID)
	assert.Equal(t, "from c", convs[1].LastMessage.Content)
}

func TestSendSystem(t *testing.T) {
	f := setup(t, "a")
	ctx := context.Background()
	a := f.ids["a"]
	client := realtime.NewClient(a, nil)
	f.hub.Register(client)

	msg, err := f.svc.SendSystem(ctx, a, "Your account was suspended")
	require.NoError(t, err)
	assert.True(t, msg.IsSystem)
	assert.Equal(t, SystemSenderID, msg.SenderID)

	typ, got := nextEvent(t, client)
	assert.Equal(t, realtime.EventNewMessage, typ)
	assert.True(t, got.IsSystem)

	convs, err := f.svc.Conversations(ctx, a)
	require.NoError(t, err)
	require.Len(t, convs, 1)
	assert.Equal(t, SystemSenderID, convs[0].PartnerID)
	assert.Nil(t, convs[0].Partner)

	_, err = f.svc.SendSystem(ctx, a, "")
	assert.ErrorIs(t, err, ErrEmptyMessage)
}

type blockAll bool

func (b blockAll) IsBlocked(context.Context, int64, int64) (bool, error) { return bool(b), nil }

func TestSend_RefusedWhenBlocked(t *testing.T) {
	f := setup(t, "u1", "u2")
	f.svc = NewService(f.svc.repo, f.svc.users, f.hub, WithBlocks(blockAll(true)))

	_, err := f.svc.Send(context.Background(), f.ids["u1"], SendMessageRequest{ReceiverID: f.ids["u2"], Content: "hi"})
	assert.ErrorIs(t, err, ErrBlocked)

	n, err := f.svc.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}
