package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/skillswap/skillswap-go/internal/model"
)

var ErrSkillNotFound = errors.New("skill not found")

const skillColumns = `id, user_id, title, description, category, proficiency_level, value, is_active, created_at`

// SkillRepository handles skill persistence operations.
type SkillRepository struct {
	db *sql.DB
}

// NewSkillRepository creates a new SkillRepository.
func NewSkillRepository(db *sql.DB) *SkillRepository {
	return &SkillRepository{db: db}
}

// Create inserts a new skill and sets the generated ID and creation
// time on the skill struct.
func (r *SkillRepository) Create(ctx context.Context, skill *model.Skill) error {
	skill.CreatedAt = time.Now().UTC().Truncate(time.Second)
	skill.IsActive = true

	query := `INSERT INTO skills (user_id, title, description, category, proficiency_level, value, is_active, created_at)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query,
		skill.UserID, skill.Title, skill.Description, skill.Category,
		skill.ProficiencyLevel, skill.Value, skill.IsActive, skill.CreatedAt,
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}

	skill.ID = id
	return nil
}

// GetByID retrieves a skill by its ID.
func (r *SkillRepository) GetByID(ctx context.Context, id int64) (*model.Skill, error) {
	query := `SELECT ` + skillColumns + ` FROM skills WHERE id = ?`

	skill := &model.Skill{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&skill.ID, &skill.UserID, &skill.Title, &skill.Description, &skill.Category,
		&skill.ProficiencyLevel, &skill.Value, &skill.IsActive, &skill.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSkillNotFound
		}
		return nil, err
	}

	return skill, nil
}

// GetWithOwner retrieves a skill together with its owning user in a
// single query, so the pair reflects one consistent point in time.
func (r *SkillRepository) GetWithOwner(ctx context.Context, id int64) (*model.Skill, *model.User, error) {
	query := `SELECT s.id, s.user_id, s.title, s.description, s.category, s.proficiency_level,
	                 s.value, s.is_active, s.created_at,
	                 u.id, u.username, u.email, u.password_hash, u.full_name, u.bio, u.is_active, u.created_at
	          FROM skills s
	          JOIN users u ON u.id = s.user_id
	          WHERE s.id = ?`

	skill := &model.Skill{}
	owner := &model.User{}
	var bio sql.NullString

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&skill.ID, &skill.UserID, &skill.Title, &skill.Description, &skill.Category,
		&skill.ProficiencyLevel, &skill.Value, &skill.IsActive, &skill.CreatedAt,
		&owner.ID, &owner.Username, &owner.Email, &owner.PasswordHash,
		&owner.FullName, &bio, &owner.IsActive, &owner.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, ErrSkillNotFound
		}
		return nil, nil, err
	}

	owner.Bio = bio.String
	return skill, owner, nil
}

// ListActive returns active skills, optionally filtered by category,
// newest first.
func (r *SkillRepository) ListActive(ctx context.Context, category string, skip, limit int) ([]model.Skill, error) {
	query := `SELECT ` + skillColumns + ` FROM skills WHERE is_active = TRUE`
	args := []any{}
	if category != "" {
		query += ` AND category = ?`
		args = append(args, category)
	}
	query += ` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`
	args = append(args, limit, skip)

	return r.list(ctx, query, args...)
}

// ListByUser returns all skills owned by userID, including inactive
// ones, newest first.
func (r *SkillRepository) ListByUser(ctx context.Context, userID int64) ([]model.Skill, error) {
	query := `SELECT ` + skillColumns + ` FROM skills WHERE user_id = ? ORDER BY created_at DESC, id DESC`
	return r.list(ctx, query, userID)
}

// Update persists the mutable fields of skill.
func (r *SkillRepository) Update(ctx context.Context, skill *model.Skill) error {
	query := `UPDATE skills SET title = ?, description = ?, category = ?, proficiency_level = ?,
	          value = ?, is_active = ? WHERE id = ?`

	_, err := r.db.ExecContext(ctx, query,
		skill.Title, skill.Description, skill.Category, skill.ProficiencyLevel,
		skill.Value, skill.IsActive, skill.ID,
	)
	return err
}

// SoftDelete flips the active flag off. Rows are never removed while
// exchange requests may reference them.
func (r *SkillRepository) SoftDelete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `UPDATE skills SET is_active = FALSE WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

func (r *SkillRepository) list(ctx context.Context, query string, args ...any) ([]model.Skill, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var skills []model.Skill
	for rows.Next() {
		var s model.Skill
		if err := rows.Scan(
			&s.ID, &s.UserID, &s.Title, &s.Description, &s.Category,
			&s.ProficiencyLevel, &s.Value, &s.IsActive, &s.CreatedAt,
		); err != nil {
			return nil, err
		}
		skills = append(skills, s)
	}
	return skills, rows.Err()
}
