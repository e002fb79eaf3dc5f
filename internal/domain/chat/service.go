package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"worktide/internal/domain/user"
	"worktide/internal/realtime"

	"github.com/google/uuid"
)

const (
	maxContentLength = 5000
	maxAttachments   = 10
)

// Users resolves message participants.
type Users interface {
	GetByID(ctx context.Context, id int64) (*user.User, error)
	GetPublicProfiles(ctx context.Context, ids []int64) (map[int64]user.Public, error)
}

// Pusher delivers a live event to a user if they are connected.
type Pusher interface {
	Push(userID int64, event realtime.Event) bool
}

// Blocks reports whether either user has blocked the other.
type Blocks interface {
	IsBlocked(ctx context.Context, userA, userB int64) (bool, error)
}

// Service is the message relay: persist first, then push.
type Service struct {
	repo   Repository
	users  Users
	pusher Pusher
	blocks Blocks
}

type Option func(*Service)

// WithBlocks makes Send refuse messages between users that blocked each other.
func WithBlocks(b Blocks) Option {
	return func(s *Service) { s.blocks = b }
}

func NewService(repo Repository, users Users, pusher Pusher, opts ...Option) *Service {
	s := &Service{repo: repo, users: users, pusher: pusher}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Send stores a message and pushes it to the receiver and back to the
// sender's own connection. Identical sends create distinct rows.
func (s *Service) Send(ctx context.Context, senderID int64, req SendMessageRequest) (*Message, error) {
	content := strings.TrimSpace(req.Content)
	if err := validateSend(senderID, req.ReceiverID, content, req.Attachments); err != nil {
		return nil, err
	}

	if _, err := s.users.GetByID(ctx, req.ReceiverID); err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, ErrReceiverNotFound
		}
		return nil, fmt.Errorf("lookup receiver: %w", err)
	}
	if s.blocks != nil {
		blocked, err := s.blocks.IsBlocked(ctx, senderID, req.ReceiverID)
		if err != nil {
			return nil, fmt.Errorf("check block: %w", err)
		}
		if blocked {
			return nil, ErrBlocked
		}
	}

	msg, err := s.store(ctx, senderID, req.ReceiverID, content, req.Attachments, false)
	if err != nil {
		return nil, err
	}

	s.push(msg.ReceiverID, realtime.EventNewMessage, msg)
	s.push(msg.SenderID, realtime.EventMessageSent, msg)
	return msg, nil
}

// SendSystem stores a platform message for receiverID.
func (s *Service) SendSystem(ctx context.Context, receiverID int64, content string) (*Message, error) {
	if receiverID <= 0 {
		return nil, ErrInvalidReceiver
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyMessage
	}

	msg, err := s.store(ctx, SystemSenderID, receiverID, content, nil, true)
	if err != nil {
		return nil, err
	}
	s.push(receiverID, realtime.EventNewMessage, msg)
	return msg, nil
}

func (s *Service) store(ctx context.Context, senderID, receiverID int64, content string, attachments []Attachment, system bool) (*Message, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("message id: %w", err)
	}
	if attachments == nil {
		attachments = []Attachment{}
	}

	msg := &Message{
		ID:          id.String(),
		SenderID:    senderID,
		ReceiverID:  receiverID,
		Content:     content,
		Attachments: attachments,
		IsSystem:    system,
	}
	if err := s.repo.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("store message: %w", err)
	}
	return msg, nil
}

func (s *Service) push(userID int64, eventType string, msg *Message) {
	if s.pusher == nil || userID == SystemSenderID {
		return
	}
	s.pusher.Push(userID, realtime.Event{Type: eventType, Payload: msg})
}

// History returns the messages between two users, oldest first.
func (s *Service) History(ctx context.Context, userID, otherID int64) ([]*Message, error) {
	if otherID < 0 {
		return nil, ErrInvalidReceiver
	}
	return s.repo.History(ctx, userID, otherID)
}

// Conversations lists one entry per counterpart, most recent first. The
// first message seen for a partner in the newest-first scan is its last one.
func (s *Service) Conversations(ctx context.Context, userID int64) ([]Conversation, error) {
	msgs, err := s.repo.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	seen := make(map[int64]bool)
	convs := make([]Conversation, 0)
	partnerIDs := make([]int64, 0)
	for _, m := range msgs {
		partner := m.Counterpart(userID)
		if seen[partner] {
			continue
		}
		seen[partner] = true
		convs = append(convs, Conversation{PartnerID: partner, LastMessage: m})
		if partner != SystemSenderID {
			partnerIDs = append(partnerIDs, partner)
		}
	}

	if len(partnerIDs) > 0 {
		profiles, err := s.users.GetPublicProfiles(ctx, partnerIDs)
		if err != nil {
			return nil, err
		}
		for i := range convs {
			if p, ok := profiles[convs[i].PartnerID]; ok {
				convs[i].Partner = &p
			}
		}
	}

	return convs, nil
}

func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

func validateSend(senderID, receiverID int64, content string, attachments []Attachment) error {
	if receiverID <= 0 {
		return ErrInvalidReceiver
	}
	if receiverID == senderID {
		return ErrSelfMessage
	}
	if content == "" && len(attachments) == 0 {
		return ErrEmptyMessage
	}
	if utf8.RuneCountInString(content) > maxContentLength {
		return ErrContentTooLong
	}
	if len(attachments) > maxAttachments {
		return ErrTooManyAttachments
	}
	for _, a := range attachments {
		if strings.TrimSpace(a.URL) == "" {
			return ErrInvalidAttachment
		}
	}
	return nil
}
