package memory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/domain"
)

func (v *view) CreateUser(_ context.Context, user domain.User) (domain.User, error) {
	err := v.write("CreateUser", func(st *state) error {
		for _, existing := range st.users {
			if existing.Username == user.Username {
				return &domain.ConflictError{Field: "username"}
			}
			if existing.Email == user.Email {
				return &domain.ConflictError{Field: "email"}
			}
		}

		user.ID = uuid.New()
		user.CreatedAt = v.now()
		st.users[user.ID] = user
		return nil
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("CreateUser: %w", err)
	}

	return user, nil
}

func (v *view) CreateProfile(_ context.Context, profile domain.Profile) error {
	err := v.write("CreateProfile", func(st *state) error {
		if _, ok := st.users[profile.UserID]; !ok {
			return domain.ErrNotFound
		}
		if _, ok := st.profiles[profile.UserID]; ok {
			return &domain.ConflictError{Field: "user_id"}
		}

		st.profiles[profile.UserID] = profile
		return nil
	})
	if err != nil {
		return fmt.Errorf("CreateProfile: %w", err)
	}

	return nil
}

func (v *view) GetUser(_ context.Context, userID uuid.UUID) (domain.User, error) {
	var user domain.User

	err := v.read(func(st *state) error {
		u, ok := st.users[userID]
		if !ok {
			return domain.ErrNotFound
		}
		user = u
		return nil
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("GetUser: %w", err)
	}

	return user, nil
}

func (v *view) GetUserByUsername(_ context.Context, username string) (domain.User, error) {
	var user domain.User

	err := v.read(func(st *state) error {
		for _, u := range st.users {
			if u.Username == username {
				user = u
				return nil
			}
		}
		return domain.ErrNotFound
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("GetUserByUsername: %w", err)
	}

	return user, nil
}

func (v *view) GetProfile(_ context.Context, userID uuid.UUID) (domain.Profile, error) {
	var profile domain.Profile

	err := v.read(func(st *state) error {
		p, ok := st.profiles[userID]
		if !ok {
			return domain.ErrNotFound
		}
		profile = p
		return nil
	})
	if err != nil {
		return domain.Profile{}, fmt.Errorf("GetProfile: %w", err)
	}

	return profile, nil
}
