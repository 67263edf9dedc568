package memory

import (
	"context"
	"strings"

	"github.com/jhoicas/shop-api/internal/domain"
	"github.com/jhoicas/shop-api/internal/domain/entity"
	"github.com/jhoicas/shop-api/internal/domain/repository"
)

var (
	_ repository.UserRepository    = (*UserRepo)(nil)
	_ repository.ProfileRepository = (*ProfileRepo)(nil)
)

// UserRepo implementación en memoria de repository.UserRepository.
type UserRepo struct {
	s  *Store
	tx *state
}

func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	return r.s.do(r.tx, func(st *state) error {
		for _, u := range st.users {
			if u.Username == user.Username {
				return &domain.DuplicateError{Field: "username"}
			}
			if user.Email != "" && strings.EqualFold(u.Email, user.Email) {
				return &domain.DuplicateError{Field: "email"}
			}
		}
		st.users[user.ID] = *user
		return nil
	})
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.find(func(u entity.User) bool { return u.ID == id })
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.find(func(u entity.User) bool { return u.Username == username })
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.find(func(u entity.User) bool { return email != "" && strings.EqualFold(u.Email, email) })
}

// SetActive activa o desactiva un usuario.
func (r *UserRepo) SetActive(id string, active bool) {
	_ = r.s.do(r.tx, func(st *state) error {
		if u, ok := st.users[id]; ok {
			u.IsActive = active
			st.users[id] = u
		}
		return nil
	})
}

func (r *UserRepo) find(match func(entity.User) bool) (*entity.User, error) {
	var out *entity.User
	_ = r.s.do(r.tx, func(st *state) error {
		for _, u := range st.users {
			if match(u) {
				u := u
				out = &u
				return nil
			}
		}
		return nil
	})
	return out, nil
}

// ProfileRepo implementación en memoria de repository.ProfileRepository.
type ProfileRepo struct {
	s  *Store
	tx *state
}

func (r *ProfileRepo) Create(ctx context.Context, profile *entity.Profile) error {
	return r.s.do(r.tx, func(st *state) error {
		if _, ok := st.users[profile.UserID]; !ok {
			return domain.ErrNotFound
		}
		for _, p := range st.profiles {
			if p.UserID == profile.UserID {
				return &domain.DuplicateError{Field: "user"}
			}
		}
		st.profiles[profile.ID] = *profile
		return nil
	})
}

func (r *ProfileRepo) GetByUserID(ctx context.Context, userID string) (*entity.Profile, error) {
	var out *entity.Profile
	_ = r.s.do(r.tx, func(st *state) error {
		for _, p := range st.profiles {
			if p.UserID == userID {
				u := st.users[userID]
				p.Username = u.Username
				p.Email = u.Email
				out = &p
				return nil
			}
		}
		return nil
	})
	return out, nil
}
