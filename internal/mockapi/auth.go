package mockapi

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/proposalflow/backend/internal/models"
	"github.com/proposalflow/backend/internal/pkg/apperror"
)

// Мок-репозиторий закрывает и контракт аутентификации: пользователи и
// сессии живут в памяти процесса и пропадают при рестарте.

// CreateUser регистрирует пользователя в памяти.
func (r *Repository) CreateUser(ctx context.Context, user *models.User) error {
	if err := r.delay(ctx); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.users {
		if r.users[i].Email == user.Email {
			return apperror.New(apperror.ErrCodeConflict, "пользователь с таким email уже существует")
		}
	}

	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.users = append(r.users, *user)
	return nil
}

// UpdateLastLoginAt фиксирует время последнего входа.
func (r *Repository) UpdateLastLoginAt(ctx context.Context, userID uuid.UUID) error {
	if err := r.delay(ctx); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.users {
		if r.users[i].ID == userID {
			now := time.Now().UTC()
			r.users[i].LastLoginAt = &now
			return nil
		}
	}
	return apperror.ErrUserNotFound
}

// CreateSession сохраняет refresh-сессию в памяти.
func (r *Repository) CreateSession(ctx context.Context, session *models.Session) error {
	if err := r.delay(ctx); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sessions == nil {
		r.sessions = make(map[string]models.Session)
	}
	session.CreatedAt = time.Now().UTC()
	r.sessions[session.RefreshToken] = *session
	return nil
}

// GetSessionByToken возвращает живую сессию по refresh-токену.
func (r *Repository) GetSessionByToken(ctx context.Context, refreshToken string) (*models.Session, error) {
	if err := r.delay(ctx); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[refreshToken]
	if !ok || session.ExpiresAt.Before(time.Now()) {
		return nil, apperror.ErrUnauthorized
	}
	return &session, nil
}

// DeleteSession удаляет сессию по refresh-токену.
func (r *Repository) DeleteSession(ctx context.Context, refreshToken string) error {
	if err := r.delay(ctx); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, refreshToken)
	return nil
}
