package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/skillswap/skillswap-go/internal/model"
	"github.com/skillswap/skillswap-go/internal/repository"
)

var (
	ErrMessageRequired   = errors.New("message is required")
	ErrSelfRequest       = errors.New("cannot request your own skill")
	ErrRequestNotFound   = errors.New("exchange request not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrForbidden         = errors.New("not authorized to perform this action")
)

// Notifier creates a notification record for a user. Implemented by
// NotificationService; exchange tests substitute a failing one.
type Notifier interface {
	Notify(ctx context.Context, userID int64, title, message, notificationType string, relatedID int64) error
}

// ExchangeService is the exchange request lifecycle engine. Every
// mutation follows the same order: validate, authorize, persist, then
// attempt the counter-party notification. The notification is strictly
// best-effort; by the time it runs the primary mutation has committed
// and a dispatch failure is only logged.
type ExchangeService struct {
	exchanges *repository.ExchangeRepository
	skills    *repository.SkillRepository
	notifier  Notifier
}

// NewExchangeService creates a new ExchangeService.
func NewExchangeService(exchanges *repository.ExchangeRepository, skills *repository.SkillRepository, notifier Notifier) *ExchangeService {
	return &ExchangeService{exchanges: exchanges, skills: skills, notifier: notifier}
}

// Create opens a pending exchange request from requester for the given
// skill. The skill's owner id is captured on the record at this moment;
// it is who must approve, regardless of anything that happens to the
// skill afterwards. The owner is notified after the request is durably
// stored.
func (s *ExchangeService) Create(ctx context.Context, requester *model.User, req model.CreateExchangeRequest) (model.ExchangeResponse, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return model.ExchangeResponse{}, ErrMessageRequired
	}

	skill, owner, err := s.skills.GetWithOwner(ctx, req.SkillID)
	if err != nil {
		if errors.Is(err, repository.ErrSkillNotFound) {
			return model.ExchangeResponse{}, ErrSkillNotFound
		}
		return model.ExchangeResponse{}, err
	}

	if owner.ID == requester.ID {
		return model.ExchangeResponse{}, ErrSelfRequest
	}

	record := &model.ExchangeRequest{
		SkillID:      skill.ID,
		RequesterID:  requester.ID,
		SkillOwnerID: owner.ID,
		Message:      message,
	}

	if err := s.exchanges.Create(ctx, record); err != nil {
		return model.ExchangeResponse{}, err
	}

	s.dispatch(ctx, owner.ID,
		"New Skill Exchange Request",
		fmt.Sprintf("%s wants to learn your skill: %s", displayName(requester), skill.Title),
		model.NotificationTypeExchangeRequest,
		record.ID,
	)

	return toExchangeResponse(record, skill.Title), nil
}

// Transition moves a request to target on behalf of actor. The target
// must be reachable from the current status, and the actor must hold
// the right role for that edge: the skill owner accepts or rejects, the
// requester cancels, either participant completes an accepted exchange.
// The status write is a compare-and-swap against the status the
// decision was made on, so two racing transitions apply at most once.
func (s *ExchangeService) Transition(ctx context.Context, actor *model.User, requestID int64, target model.ExchangeStatus) (model.ExchangeResponse, error) {
	target = model.ExchangeStatus(strings.ToLower(string(target)))
	if !model.KnownStatus(target) {
		return model.ExchangeResponse{}, ErrInvalidTransition
	}

	rec, err := s.exchanges.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, repository.ErrExchangeNotFound) {
			return model.ExchangeResponse{}, ErrRequestNotFound
		}
		return model.ExchangeResponse{}, err
	}

	if !model.CanTransition(rec.Status, target) {
		return model.ExchangeResponse{}, ErrInvalidTransition
	}

	switch target {
	case model.StatusAccepted, model.StatusRejected:
		if actor.ID != rec.SkillOwnerID {
			return model.ExchangeResponse{}, ErrForbidden
		}
	case model.StatusCancelled:
		if actor.ID != rec.RequesterID {
			return model.ExchangeResponse{}, ErrForbidden
		}
	case model.StatusCompleted:
		if actor.ID != rec.SkillOwnerID && actor.ID != rec.RequesterID {
			return model.ExchangeResponse{}, ErrForbidden
		}
	}

	updatedAt, err := s.exchanges.UpdateStatus(ctx, requestID, rec.Status, target)
	if err != nil {
		if errors.Is(err, repository.ErrStatusConflict) {
			// Lost a race with a concurrent transition; from the
			// caller's view the edge is no longer available.
			return model.ExchangeResponse{}, ErrInvalidTransition
		}
		return model.ExchangeResponse{}, err
	}

	rec.Status = target
	rec.UpdatedAt = updatedAt

	switch target {
	case model.StatusAccepted, model.StatusRejected:
		s.dispatch(ctx, rec.RequesterID,
			fmt.Sprintf("Exchange Request %s", titleCase(string(target))),
			fmt.Sprintf("Your exchange request for '%s' has been %s", rec.SkillTitle, target),
			model.NotificationTypeExchangeUpdate,
			rec.ID,
		)
	case model.StatusCompleted:
		s.dispatch(ctx, counterparty(rec, actor.ID),
			"Exchange Request Completed",
			fmt.Sprintf("Your skill exchange for '%s' has been marked completed", rec.SkillTitle),
			model.NotificationTypeExchangeUpdate,
			rec.ID,
		)
	}

	return toExchangeResponse(&rec.ExchangeRequest, rec.SkillTitle), nil
}

// Cancel is the requester-side shortcut for transitioning to cancelled.
func (s *ExchangeService) Cancel(ctx context.Context, actor *model.User, requestID int64) (model.ExchangeResponse, error) {
	return s.Transition(ctx, actor, requestID, model.StatusCancelled)
}

// Get returns a single exchange request. Only the two participants may
// see it.
func (s *ExchangeService) Get(ctx context.Context, actor *model.User, requestID int64) (model.ExchangeResponse, error) {
	rec, err := s.exchanges.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, repository.ErrExchangeNotFound) {
			return model.ExchangeResponse{}, ErrRequestNotFound
		}
		return model.ExchangeResponse{}, err
	}

	if actor.ID != rec.RequesterID && actor.ID != rec.SkillOwnerID {
		return model.ExchangeResponse{}, ErrForbidden
	}

	return toExchangeResponse(&rec.ExchangeRequest, rec.SkillTitle), nil
}

// List returns the exchange requests actor participates in, as
// requester or as skill owner.
func (s *ExchangeService) List(ctx context.Context, actor *model.User, skip, limit int) ([]model.ExchangeResponse, error) {
	if limit <= 0 || limit > defaultListLimit {
		limit = defaultListLimit
	}
	if skip < 0 {
		skip = 0
	}

	records, err := s.exchanges.ListForUser(ctx, actor.ID, skip, limit)
	if err != nil {
		return nil, err
	}

	responses := make([]model.ExchangeResponse, len(records))
	for i := range records {
		responses[i] = toExchangeResponse(&records[i].ExchangeRequest, records[i].SkillTitle)
	}
	return responses, nil
}

// dispatch attempts a notification and swallows any failure. The
// mutation that triggered it has already committed; a lost notification
// must not surface as an error to the caller.
func (s *ExchangeService) dispatch(ctx context.Context, userID int64, title, message, notificationType string, relatedID int64) {
	if err := s.notifier.Notify(ctx, userID, title, message, notificationType, relatedID); err != nil {
		slog.Error("notification dispatch failed",
			"error", err,
			"user_id", userID,
			"type", notificationType,
			"related_id", relatedID,
		)
	}
}

// counterparty returns the participant of rec that is not actorID.
func counterparty(rec *repository.ExchangeRecord, actorID int64) int64 {
	if actorID == rec.RequesterID {
		return rec.SkillOwnerID
	}
	return rec.RequesterID
}

func displayName(u *model.User) string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Username
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func toExchangeResponse(rec *model.ExchangeRequest, skillTitle string) model.ExchangeResponse {
	return model.ExchangeResponse{
		ID:           rec.ID,
		SkillID:      rec.SkillID,
		SkillTitle:   skillTitle,
		RequesterID:  rec.RequesterID,
		SkillOwnerID: rec.SkillOwnerID,
		Message:      rec.Message,
		Status:       rec.Status,
		CreatedAt:    rec.CreatedAt,
		UpdatedAt:    rec.UpdatedAt,
	}
}
