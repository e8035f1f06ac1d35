package service

import (
	"context"
	"errors"
	"strings"

	"github.com/skillswap/skillswap-go/internal/model"
	"github.com/skillswap/skillswap-go/internal/repository"
)

var (
	ErrTitleRequired       = errors.New("title is required")
	ErrDescriptionRequired = errors.New("description is required")
	ErrCategoryRequired    = errors.New("category is required")
	ErrInvalidProficiency  = errors.New("proficiency_level must be one of Beginner, Intermediate, Advanced, Expert")
	ErrSkillNotFound       = errors.New("skill not found")
)

const defaultListLimit = 100

// SkillService handles skill business logic.
type SkillService struct {
	skills *repository.SkillRepository
}

// NewSkillService creates a new SkillService.
func NewSkillService(skills *repository.SkillRepository) *SkillService {
	return &SkillService{skills: skills}
}

// Create adds a new skill owned by owner.
func (s *SkillService) Create(ctx context.Context, owner *model.User, req model.CreateSkillRequest) (model.SkillResponse, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	req.Category = strings.TrimSpace(req.Category)

	switch {
	case req.Title == "":
		return model.SkillResponse{}, ErrTitleRequired
	case req.Description == "":
		return model.SkillResponse{}, ErrDescriptionRequired
	case req.Category == "":
		return model.SkillResponse{}, ErrCategoryRequired
	case !model.ValidProficiency(req.ProficiencyLevel):
		return model.SkillResponse{}, ErrInvalidProficiency
	}

	skill := &model.Skill{
		UserID:           owner.ID,
		Title:            req.Title,
		Description:      req.Description,
		Category:         req.Category,
		ProficiencyLevel: req.ProficiencyLevel,
		Value:            req.Value,
	}

	if err := s.skills.Create(ctx, skill); err != nil {
		return model.SkillResponse{}, err
	}

	return skill.ToResponse(owner), nil
}

// Get returns a skill with its owner.
func (s *SkillService) Get(ctx context.Context, skillID int64) (model.SkillResponse, error) {
	skill, owner, err := s.skills.GetWithOwner(ctx, skillID)
	if err != nil {
		if errors.Is(err, repository.ErrSkillNotFound) {
			return model.SkillResponse{}, ErrSkillNotFound
		}
		return model.SkillResponse{}, err
	}
	return skill.ToResponse(owner), nil
}

// List returns active skills, optionally filtered by category.
func (s *SkillService) List(ctx context.Context, category string, skip, limit int) ([]model.SkillResponse, error) {
	if limit <= 0 || limit > defaultListLimit {
		limit = defaultListLimit
	}
	if skip < 0 {
		skip = 0
	}

	skills, err := s.skills.ListActive(ctx, category, skip, limit)
	if err != nil {
		return nil, err
	}

	responses := make([]model.SkillResponse, len(skills))
	for i := range skills {
		responses[i] = skills[i].ToResponse(nil)
	}
	return responses, nil
}

// ListByOwner returns all skills owned by owner, including inactive ones.
func (s *SkillService) ListByOwner(ctx context.Context, owner *model.User) ([]model.SkillResponse, error) {
	skills, err := s.skills.ListByUser(ctx, owner.ID)
	if err != nil {
		return nil, err
	}

	responses := make([]model.SkillResponse, len(skills))
	for i := range skills {
		responses[i] = skills[i].ToResponse(owner)
	}
	return responses, nil
}

// Update applies a partial update to a skill. Only the owner may update it.
func (s *SkillService) Update(ctx context.Context, actor *model.User, skillID int64, req model.UpdateSkillRequest) (model.SkillResponse, error) {
	skill, err := s.skills.GetByID(ctx, skillID)
	if err != nil {
		if errors.Is(err, repository.ErrSkillNotFound) {
			return model.SkillResponse{}, ErrSkillNotFound
		}
		return model.SkillResponse{}, err
	}

	if skill.UserID != actor.ID {
		return model.SkillResponse{}, ErrForbidden
	}

	if req.Title != nil && strings.TrimSpace(*req.Title) != "" {
		skill.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil && strings.TrimSpace(*req.Description) != "" {
		skill.Description = strings.TrimSpace(*req.Description)
	}
	if req.Category != nil && strings.TrimSpace(*req.Category) != "" {
		skill.Category = strings.TrimSpace(*req.Category)
	}
	if req.ProficiencyLevel != nil {
		if !model.ValidProficiency(*req.ProficiencyLevel) {
			return model.SkillResponse{}, ErrInvalidProficiency
		}
		skill.ProficiencyLevel = *req.ProficiencyLevel
	}
	if req.Value != nil {
		skill.Value = *req.Value
	}
	if req.IsActive != nil {
		skill.IsActive = *req.IsActive
	}

	if err := s.skills.Update(ctx, skill); err != nil {
		return model.SkillResponse{}, err
	}

	return skill.ToResponse(nil), nil
}

// Delete soft-deletes a skill. Only the owner may delete it.
func (s *SkillService) Delete(ctx context.Context, actor *model.User, skillID int64) error {
	skill, err := s.skills.GetByID(ctx, skillID)
	if err != nil {
		if errors.Is(err, repository.ErrSkillNotFound) {
			return ErrSkillNotFound
		}
		return err
	}

	if skill.UserID != actor.ID {
		return ErrForbidden
	}

	return s.skills.SoftDelete(ctx, skillID)
}
