package notifications

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/graamkart/graamkart-backend/pkg/db/models"
	pkgerrors "github.com/graamkart/graamkart-backend/pkg/errors"
	"github.com/graamkart/graamkart-backend/pkg/push"
)

// SendInput carries the admin send-notification payload. Leaving
// UserID empty broadcasts to the public topic.
type SendInput struct {
	Title       string     `json:"title" validate:"required"`
	Description string     `json:"description" validate:"required"`
	ImageURL    *string    `json:"imageUrl"`
	UserID      *uuid.UUID `json:"userId"`
}

// TrackInfo is what delivery tracking can answer. FCM exposes no
// per-message stats over its API, so this is the stored outcome plus
// the message id the provider returned on accept.
type TrackInfo struct {
	Delivered         bool    `json:"delivered"`
	ProviderMessageID *string `json:"providerMessageId,omitempty"`
}

// ServiceParams groups dependencies for the notification service.
type ServiceParams struct {
	Repo *Repository
	Push *push.Client
}

// Service sends push notifications and keeps a history of them. Every
// attempt is persisted; the Delivered flag records whether the
// provider accepted it.
type Service interface {
	Send(ctx context.Context, input SendInput) (*models.Notification, error)
	List(ctx context.Context) ([]models.Notification, error)
	Track(ctx context.Context, id uuid.UUID) (*TrackInfo, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo *Repository
	push *push.Client
}

// NewService builds a notification service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "notification repo is required")
	}
	return &service{repo: params.Repo, push: params.Push}, nil
}

func (s *service) Send(ctx context.Context, input SendInput) (*models.Notification, error) {
	if input.Title == "" || input.Description == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title and description are required")
	}
	if !s.push.Enabled() {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "push notifications are currently disabled")
	}

	var messageID string
	var sendErr error
	if input.UserID != nil {
		messageID, sendErr = s.sendDirect(ctx, *input.UserID, input)
		if typed := pkgerrors.As(sendErr); typed != nil && typed.Code() == pkgerrors.CodeNotFound {
			return nil, sendErr
		}
	} else {
		imageURL := ""
		if input.ImageURL != nil {
			imageURL = *input.ImageURL
		}
		messageID, sendErr = s.push.SendToTopic(ctx, s.push.BroadcastTopic(), input.Title, input.Description, imageURL)
	}

	record := &models.Notification{
		Title:       input.Title,
		Description: input.Description,
		ImageURL:    input.ImageURL,
		Delivered:   sendErr == nil,
	}
	if messageID != "" {
		record.ProviderMessageID = &messageID
	}
	if err := s.repo.Create(ctx, record); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist notification")
	}
	if sendErr != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, sendErr, "send notification")
	}
	return record, nil
}

func (s *service) sendDirect(ctx context.Context, userID uuid.UUID, input SendInput) (string, error) {
	recipient, err := s.repo.FindRecipient(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "user not found")
		}
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	if recipient.FCMToken == nil || *recipient.FCMToken == "" {
		return "", pkgerrors.New(pkgerrors.CodeNotFound, "user has no push token, ask them to log in again")
	}
	data := map[string]string{"click_action": "FLUTTER_NOTIFICATION_CLICK"}
	if input.ImageURL != nil {
		data["image"] = *input.ImageURL
	}
	return s.push.SendToToken(ctx, *recipient.FCMToken, input.Title, input.Description, data)
}

func (s *service) List(ctx context.Context) ([]models.Notification, error) {
	out, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list notifications")
	}
	return out, nil
}

func (s *service) Track(ctx context.Context, id uuid.UUID) (*TrackInfo, error) {
	n, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "notification not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load notification")
	}
	return &TrackInfo{Delivered: n.Delivered, ProviderMessageID: n.ProviderMessageID}, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete notification")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "notification not found")
	}
	return nil
}
