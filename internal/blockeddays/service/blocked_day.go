package service

import (
	"context"
	"errors"
	"time"

	blockederrors "propshoot/internal/blockeddays/errors"
	"propshoot/internal/blockeddays/repository"
	"propshoot/internal/blockeddays/validator"
	"propshoot/pkg/config"
	apperrors "propshoot/pkg/errors"
	"propshoot/pkg/events"
	"propshoot/pkg/model"
	"propshoot/pkg/sanitizer"
	"propshoot/pkg/validation"

	"github.com/google/uuid"
)

type BlockedDayService interface {
	List(ctx context.Context, from string) ([]*model.BlockedDay, error)
	Block(ctx context.Context, day *model.BlockedDay) error
	Unblock(ctx context.Context, id string) error
}

type blockedDayService struct {
	repo      repository.BlockedDayRepository
	events    events.Publisher
	validator *validator.BlockedDayValidator
	cfg       *config.Config
}

func NewBlockedDayService(
	repo repository.BlockedDayRepository,
	publisher events.Publisher,
	validator *validator.BlockedDayValidator,
	cfg *config.Config,
) BlockedDayService {
	return &blockedDayService{
		repo:      repo,
		events:    publisher,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *blockedDayService) List(ctx context.Context, from string) ([]*model.BlockedDay, error) {
	days, err := s.repo.FindAll(ctx, from)
	if err != nil {
		s.cfg.Log.Error("Failed to list blocked days", "from", from, "error", err)
		return nil, apperrors.Internal("Failed to retrieve blocked days", err)
	}
	return days, nil
}

// Block closes a whole date. Existing bookings on it are left untouched.
func (s *blockedDayService) Block(ctx context.Context, day *model.BlockedDay) error {
	day.ID = uuid.New().String()
	day.Reason = sanitizer.SanitizeNotes(day.Reason)

	if err := s.validator.Validate(day); err != nil {
		var verrs validation.ValidationErrors
		if errors.As(err, &verrs) {
			return apperrors.Validation("Valid date (YYYY-MM-DD) is required", verrs.Details())
		}
		return apperrors.InvalidInput(err.Error())
	}

	if err := s.repo.Create(ctx, day); err != nil {
		if errors.Is(err, blockederrors.ErrAlreadyBlocked) {
			return apperrors.Conflict("This date is already blocked")
		}
		s.cfg.Log.Error("Failed to block day", "date", day.Date, "error", err)
		return apperrors.Internal("Failed to block day", err)
	}

	s.cfg.Log.Info("Day blocked", "id", day.ID, "date", day.Date, "reason", day.Reason)
	s.publish(ctx, day.Date, model.ChangeDayBlocked)
	return nil
}

func (s *blockedDayService) Unblock(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Blocked day ID cannot be empty")
	}

	day, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return mapRepoError(err, id, "Failed to retrieve blocked day")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return mapRepoError(err, id, "Failed to unblock day")
	}

	s.cfg.Log.Info("Day unblocked", "id", id, "date", day.Date)
	s.publish(ctx, day.Date, model.ChangeDayUnblocked)
	return nil
}

func (s *blockedDayService) publish(ctx context.Context, date, change string) {
	err := s.events.CalendarChanged(ctx, model.CalendarChangedEvent{
		Date:       date,
		Change:     change,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		s.cfg.Log.Error("Failed to publish calendar event", "date", date, "change", change, "error", err)
	}
}

func mapRepoError(err error, id, message string) error {
	if errors.Is(err, blockederrors.ErrNotFound) {
		return apperrors.NotFoundWithID("Blocked day", id)
	}
	return apperrors.Internal(message, err)
}
