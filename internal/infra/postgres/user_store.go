package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"alba-quiz-service/internal/domain"
	"github.com/uptrace/bun"
)

type userRow struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID               string          `bun:"id,pk"`
	Name             string          `bun:"name"`
	Email            string          `bun:"email"`
	CreatedAt        time.Time       `bun:"created_at"`
	Stats            json.RawMessage `bun:"stats,type:jsonb"`
	CategoryProgress json.RawMessage `bun:"category_progress,type:jsonb"`
}

// UserStore persists user documents; stats and category progress are
// embedded JSONB subtrees replaced wholesale on update.
type UserStore struct {
	db *bun.DB
}

func NewUserStore(db *bun.DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) Insert(ctx context.Context, user domain.User) error {
	row, err := toUserRow(user)
	if err != nil {
		return err
	}
	if _, err := s.db.NewInsert().Model(&row).Exec(ctx); err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *UserStore) FindByID(ctx context.Context, id string) (domain.User, error) {
	row := new(userRow)
	err := s.db.NewSelect().Model(row).Where("u.id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, domain.ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("find user: %w", err)
	}
	return fromUserRow(*row)
}

func (s *UserStore) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	row := new(userRow)
	err := s.db.NewSelect().Model(row).Where("u.email = ?", email).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, domain.ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("find user by email: %w", err)
	}
	return fromUserRow(*row)
}

func (s *UserStore) UpdateStats(ctx context.Context, id string, stats domain.UserStats, progress domain.CategoryProgress) error {
	statsData, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	progressData, err := json.Marshal(progress)
	if err != nil {
		return err
	}
	res, err := s.db.NewUpdate().
		Model((*userRow)(nil)).
		Set("stats = ?", string(statsData)).
		Set("category_progress = ?", string(progressData)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("update user stats: %w", err)
	}
	return requireRow(res, domain.ErrUserNotFound)
}

func toUserRow(user domain.User) (userRow, error) {
	stats, err := json.Marshal(user.Stats)
	if err != nil {
		return userRow{}, err
	}
	progress := user.CategoryProgress
	if progress == nil {
		progress = domain.NewCategoryProgress()
	}
	progressData, err := json.Marshal(progress)
	if err != nil {
		return userRow{}, err
	}
	return userRow{
		ID:               user.ID,
		Name:             user.Name,
		Email:            user.Email,
		CreatedAt:        user.CreatedAt,
		Stats:            stats,
		CategoryProgress: progressData,
	}, nil
}

func fromUserRow(row userRow) (domain.User, error) {
	user := domain.User{
		ID:        row.ID,
		Name:      row.Name,
		Email:     row.Email,
		CreatedAt: row.CreatedAt,
	}
	if len(row.Stats) > 0 {
		if err := json.Unmarshal(row.Stats, &user.Stats); err != nil {
			return domain.User{}, fmt.Errorf("unmarshal stats: %w", err)
		}
	}
	if len(row.CategoryProgress) > 0 {
		if err := json.Unmarshal(row.CategoryProgress, &user.CategoryProgress); err != nil {
			return domain.User{}, fmt.Errorf("unmarshal category progress: %w", err)
		}
	}
	if user.CategoryProgress == nil {
		user.CategoryProgress = domain.NewCategoryProgress()
	}
	if user.Stats.Level == "" {
		user.Stats.Level = domain.LevelPrincipiante
	}
	return user, nil
}
