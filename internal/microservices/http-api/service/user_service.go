package service

import (
	"context"
	"errors"
	"strings"

	"yamdb/internal/microservices/http-api/models"
	"yamdb/internal/microservices/http-api/repository"
)

// UserChanges lists the profile fields to overwrite; nil means unchanged.
type UserChanges struct {
	Username  *string
	Email     *string
	FirstName *string
	LastName  *string
	Bio       *string
	Role      *string
}

type UserService interface {
	List(ctx context.Context, search string, page, pageSize int) ([]models.User, int64, error)
	Create(ctx context.Context, u *models.User) error
	Get(ctx context.Context, username string) (*models.User, error)
	Update(ctx context.Context, username string, ch UserChanges) (*models.User, error)
	Delete(ctx context.Context, username string) error
	// UpdateMe edits the caller's own profile. Role changes are ignored.
	UpdateMe(ctx context.Context, me *models.User, ch UserChanges) (*models.User, error)
}

type userService struct {
	repo repository.UserRepository
}

func NewUserService(repo repository.UserRepository) UserService {
	return &userService{repo: repo}
}

func (s *userService) List(ctx context.Context, search string, page, pageSize int) ([]models.User, int64, error) {
	return s.repo.List(ctx, strings.TrimSpace(search), page, pageSize)
}

func (s *userService) Create(ctx context.Context, u *models.User) error {
	if u.Role == "" {
		u.Role = models.RoleUser
	}
	if !models.ValidRole(u.Role) {
		return NewValidationError("role", `"`+u.Role+`" is not a valid choice.`)
	}
	if err := s.checkUnique(ctx, "", u.Username, u.Email); err != nil {
		return err
	}
	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return NewValidationError(NonFieldErrors, "A user with that username or email already exists.")
		}
		return err
	}
	return nil
}

func (s *userService) Get(ctx context.Context, username string) (*models.User, error) {
	u, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, orNotFound(err)
	}
	return u, nil
}

func (s *userService) Update(ctx context.Context, username string, ch UserChanges) (*models.User, error) {
	u, err := s.Get(ctx, username)
	if err != nil {
		return nil, err
	}
	if ch.Role != nil {
		if !models.ValidRole(*ch.Role) {
			return nil, NewValidationError("role", `"`+*ch.Role+`" is not a valid choice.`)
		}
		u.Role = *ch.Role
	}
	return s.apply(ctx, u, ch)
}

func (s *userService) UpdateMe(ctx context.Context, me *models.User, ch UserChanges) (*models.User, error) {
	if me == nil {
		return nil, ErrUnauthenticated
	}
	// reload so the write is based on the stored row, not the request copy
	u, err := s.repo.FindByID(ctx, me.ID)
	if err != nil {
		return nil, orNotFound(err)
	}
	ch.Role = nil
	return s.apply(ctx, u, ch)
}

func (s *userService) apply(ctx context.Context, u *models.User, ch UserChanges) (*models.User, error) {
	username, email := "", ""
	if ch.Username != nil && *ch.Username != u.Username {
		username = *ch.Username
	}
	if ch.Email != nil && !strings.EqualFold(*ch.Email, u.Email) {
		email = *ch.Email
	}
	if err := s.checkUnique(ctx, u.ID, username, email); err != nil {
		return nil, err
	}

	if ch.Username != nil {
		u.Username = *ch.Username
	}
	if ch.Email != nil {
		u.Email = *ch.Email
	}
	if ch.FirstName != nil {
		u.FirstName = *ch.FirstName
	}
	if ch.LastName != nil {
		u.LastName = *ch.LastName
	}
	if ch.Bio != nil {
		u.Bio = *ch.Bio
	}

	if err := s.repo.Update(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, NewValidationError(NonFieldErrors, "A user with that username or email already exists.")
		}
		return nil, err
	}
	return u, nil
}

// checkUnique reports every taken username/email as a field error. Empty
// arguments are skipped; selfID excludes the row being edited.
func (s *userService) checkUnique(ctx context.Context, selfID, username, email string) error {
	verr := &ValidationError{}
	if username != "" {
		if other, err := s.repo.FindByUsername(ctx, username); err == nil && other.ID != selfID {
			verr.Add("username", msgUsernameTaken)
		} else if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return err
		}
	}
	if email != "" {
		if other, err := s.repo.FindByEmail(ctx, email); err == nil && other.ID != selfID {
			verr.Add("email", msgEmailTaken)
		} else if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return err
		}
	}
	if len(verr.Fields) > 0 {
		return verr
	}
	return nil
}

func (s *userService) Delete(ctx context.Context, username string) error {
	u, err := s.Get(ctx, username)
	if err != nil {
		return err
	}
	return orNotFound(s.repo.Delete(ctx, u.ID))
}
