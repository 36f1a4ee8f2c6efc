package service

import (
	"context"
	"errors"
	"net/http"
	"sync"

	discountserrors "propshoot/internal/discounts/errors"
	"propshoot/internal/discounts/repository"
	"propshoot/internal/discounts/validator"
	"propshoot/pkg/config"
	apperrors "propshoot/pkg/errors"
	"propshoot/pkg/model"
	"propshoot/pkg/sanitizer"
	"propshoot/pkg/validation"

	"github.com/google/uuid"
)

type DiscountService interface {
	Validate(ctx context.Context, code string) (*model.DiscountCode, error)
	Create(ctx context.Context, code *model.DiscountCode) error
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.DiscountCode, int64, error)
	Update(ctx context.Context, id string, update *model.DiscountCodeUpdate) error
	IncrementUsage(ctx context.Context, code string) error
}

type discountService struct {
	repo      repository.DiscountRepository
	validator *validator.DiscountValidator
	cfg       *config.Config
	today     func() string
}

func NewDiscountService(repo repository.DiscountRepository, validator *validator.DiscountValidator, cfg *config.Config) DiscountService {
	return &discountService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
		today:     cfg.Today,
	}
}

// Validate resolves a code an agent typed at checkout. Unknown and inactive
// codes are not found, spent or expired codes are gone.
func (s *discountService) Validate(ctx context.Context, code string) (*model.DiscountCode, error) {
	code = sanitizer.SanitizeDiscountCode(code)
	if code == "" {
		return nil, apperrors.InvalidInput("Code is required")
	}

	discount, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, discountserrors.ErrNotFound) {
			return nil, apperrors.New(apperrors.CodeNotFound, "Invalid discount code", http.StatusNotFound)
		}
		s.cfg.Log.Error("Failed to look up discount code", "code", code, "error", err)
		return nil, apperrors.Internal("Failed to validate code", err)
	}
	if !discount.Active {
		return nil, apperrors.New(apperrors.CodeNotFound, "Invalid discount code", http.StatusNotFound)
	}
	if discount.Exhausted() {
		s.cfg.Log.Info("Discount code usage limit reached", "code", code, "times_used", discount.TimesUsed)
		return nil, apperrors.Gone("This code has reached its usage limit")
	}
	if discount.ExpiredOn(s.today()) {
		s.cfg.Log.Info("Discount code expired", "code", code, "expires_at", discount.ExpiresAt)
		return nil, apperrors.Gone("This code has expired")
	}
	return discount, nil
}

func (s *discountService) Create(ctx context.Context, code *model.DiscountCode) error {
	code.Code = sanitizer.SanitizeDiscountCode(code.Code)
	code.ID = uuid.New().String()
	code.Active = true
	code.TimesUsed = 0

	if err := s.validator.Validate(code); err != nil {
		s.cfg.Log.Warn("Discount code validation failed", "code", code.Code, "error", err)
		return validationError("Discount code validation failed", err)
	}

	if err := s.repo.Create(ctx, code); err != nil {
		if errors.Is(err, discountserrors.ErrDuplicateCode) {
			return apperrors.Conflict("A code with that name already exists")
		}
		s.cfg.Log.Error("Failed to create discount code", "code", code.Code, "error", err)
		return apperrors.Internal("Failed to create code", err)
	}

	s.cfg.Log.Info("Discount code created", "id", code.ID, "code", code.Code, "percentage", code.Percentage)
	return nil
}

func (s *discountService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.DiscountCode, int64, error) {
	var count int64
	var codes []*model.DiscountCode
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count discount codes", "error", errCount)
			errCount = apperrors.Internal("Failed to count discount codes", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		codes, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list discount codes", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve discount codes", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}
	return codes, count, nil
}

func (s *discountService) Update(ctx context.Context, id string, update *model.DiscountCodeUpdate) error {
	if id == "" {
		return apperrors.InvalidInput("Discount code ID cannot be empty")
	}
	if err := s.validator.ValidateUpdate(update); err != nil {
		return validationError("Discount code validation failed", err)
	}

	if err := s.repo.Update(ctx, id, update); err != nil {
		if errors.Is(err, discountserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Discount code", id)
		}
		s.cfg.Log.Error("Failed to update discount code", "id", id, "error", err)
		return apperrors.Internal("Failed to update code", err)
	}

	s.cfg.Log.Info("Discount code updated", "id", id)
	return nil
}

func (s *discountService) IncrementUsage(ctx context.Context, code string) error {
	code = sanitizer.SanitizeDiscountCode(code)
	if err := s.repo.IncrementUsage(ctx, code); err != nil {
		if errors.Is(err, discountserrors.ErrNotFound) {
			return apperrors.NotFound("Discount code")
		}
		return apperrors.Internal("Failed to record discount usage", err)
	}
	s.cfg.Log.Info("Discount usage recorded", "code", code)
	return nil
}

func validationError(message string, err error) error {
	var verrs validation.ValidationErrors
	if errors.As(err, &verrs) {
		return apperrors.Validation(message, verrs.Details())
	}
	return apperrors.Validation(message, map[string]any{"error": err.Error()})
}
