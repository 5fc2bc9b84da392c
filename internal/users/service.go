package users

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/graamkart/graamkart-backend/internal/address"
	"github.com/graamkart/graamkart-backend/internal/cart"
	"github.com/graamkart/graamkart-backend/internal/favorites"
	"github.com/graamkart/graamkart-backend/internal/orders"
	"github.com/graamkart/graamkart-backend/pkg/auth"
	"github.com/graamkart/graamkart-backend/pkg/config"
	"github.com/graamkart/graamkart-backend/pkg/db"
	"github.com/graamkart/graamkart-backend/pkg/db/models"
	pkgerrors "github.com/graamkart/graamkart-backend/pkg/errors"
	"github.com/graamkart/graamkart-backend/pkg/logger"
	"github.com/graamkart/graamkart-backend/pkg/security"
	"github.com/graamkart/graamkart-backend/pkg/storage/gcs"
)

const minPasswordLen = 6

// ImageUpload is one multipart file destined for a profile picture.
type ImageUpload struct {
	ContentType string
	Reader      io.Reader
}

// RegisterInput carries the signup payload.
type RegisterInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Phone    *string
	Image    *ImageUpload
}

// LoginInput carries the login payload.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileInput uses pointers so only the keys a client sent are
// applied.
type UpdateProfileInput struct {
	Name     *string
	Email    *string
	Phone    *string
	Password *string
	Image    *ImageUpload
}

// ChangePasswordInput carries the change-password payload.
type ChangePasswordInput struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}

// AuthResult is the user plus a freshly minted access token.
type AuthResult struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// ProfileView aggregates everything the account screen shows in one
// response.
type ProfileView struct {
	User      *models.User      `json:"user"`
	Orders    []models.Order    `json:"orders"`
	Cart      cart.CartDTO      `json:"cart"`
	Favorites []models.Favorite `json:"favorites"`
	Addresses []models.Address  `json:"addresses"`
}

// ServiceParams groups dependencies for the user service.
type ServiceParams struct {
	Repo        *Repository
	Cart        cart.Service
	Favorites   favorites.Service
	AddressRepo *address.Repository
	OrderRepo   *orders.Repository
	Assets      *gcs.Client
	JWT         config.JWTConfig
	Password    config.PasswordConfig
	Logger      *logger.Logger
}

// Service owns accounts and authentication.
type Service interface {
	List(ctx context.Context) ([]models.User, error)
	Get(ctx context.Context, id uuid.UUID) (*models.User, error)
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, input LoginInput) (*AuthResult, error)
	Profile(ctx context.Context, userID uuid.UUID) (*ProfileView, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*models.User, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, input ChangePasswordInput) error
	UpdateFCMToken(ctx context.Context, userID uuid.UUID, token string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo        *Repository
	cart        cart.Service
	favorites   favorites.Service
	addressRepo *address.Repository
	orderRepo   *orders.Repository
	assets      *gcs.Client
	jwt         config.JWTConfig
	password    config.PasswordConfig
	logg        *logger.Logger
	now         func() time.Time
}

// NewService builds a user service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user repo is required")
	}
	if params.Cart == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart service is required")
	}
	if params.Favorites == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "favorites service is required")
	}
	if params.AddressRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "address repo is required")
	}
	if params.OrderRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order repo is required")
	}
	if params.JWT.Secret == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "jwt config is required")
	}
	return &service{
		repo:        params.Repo,
		cart:        params.Cart,
		favorites:   params.Favorites,
		addressRepo: params.AddressRepo,
		orderRepo:   params.OrderRepo,
		assets:      params.Assets,
		jwt:         params.JWT,
		password:    params.Password,
		logg:        params.Logger,
		now:         time.Now,
	}, nil
}

func (s *service) List(ctx context.Context) ([]models.User, error) {
	out, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list users")
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return u, nil
}

// Register creates the account and logs the user straight in. A failed
// profile-image upload degrades to an account without a picture; it
// never fails the signup.
func (s *service) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	if input.Name == "" || input.Email == "" || input.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name, email and password are required")
	}
	if len(input.Password) < minPasswordLen {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "password must be at least 6 characters long")
	}

	hash, err := security.HashPassword(input.Password, s.password)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user := &models.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		Phone:        input.Phone,
	}
	if input.Image != nil {
		if url, uploadErr := s.uploadProfileImage(ctx, uuid.New(), input.Image); uploadErr != nil {
			s.warn(ctx, "profile image upload failed, registering without image", uploadErr)
		} else {
			user.ProfileImageURL = &url
		}
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if db.IsUniqueViolation(err, "users_email_key") || db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "user with this email already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
	}

	return s.authResult(user)
}

// Login answers one generic Unauthorized for a missing account and a
// wrong password alike, so emails cannot be probed.
func (s *service) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	if input.Email == "" || input.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email and password are required")
	}

	user, err := s.repo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid email or password")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	ok, err := security.VerifyPassword(input.Password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid email or password")
	}

	if err := s.repo.TouchLastLogin(ctx, user.ID, s.now()); err != nil {
		s.warn(ctx, "last login stamp failed", err)
	}

	return s.authResult(user)
}

// Profile aggregates the user with their orders, cart, favorites and
// addresses. Each sub-query degrades independently to an empty slice
// rather than failing the whole view.
func (s *service) Profile(ctx context.Context, userID uuid.UUID) (*ProfileView, error) {
	user, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	view := &ProfileView{
		User:      user,
		Orders:    []models.Order{},
		Favorites: []models.Favorite{},
		Addresses: []models.Address{},
	}

	if orderRows, err := s.orderRepo.ListByUser(ctx, userID); err != nil {
		s.warn(ctx, "profile orders lookup failed", err)
	} else if orderRows != nil {
		view.Orders = orderRows
	}

	cartView, err := s.cart.Get(ctx, userID)
	if err != nil {
		s.warn(ctx, "profile cart lookup failed", err)
		cartView = cart.CartDTO{UserID: userID, Items: []cart.ItemDTO{}}
	}
	view.Cart = cartView

	if favRows, err := s.favorites.List(ctx, userID); err != nil {
		s.warn(ctx, "profile favorites lookup failed", err)
	} else if favRows != nil {
		view.Favorites = favRows
	}

	if addrRows, err := s.addressRepo.ListByOwner(ctx, userID); err != nil {
		s.warn(ctx, "profile addresses lookup failed", err)
	} else if addrRows != nil {
		view.Addresses = addrRows
	}

	return view, nil
}

func (s *service) UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*models.User, error) {
	user, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil && *input.Name != "" {
		user.Name = *input.Name
	}
	if input.Email != nil && *input.Email != "" && *input.Email != user.Email {
		taken, err := s.repo.EmailTaken(ctx, *input.Email, user.ID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check email")
		}
		if taken {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already exists")
		}
		user.Email = *input.Email
	}
	if input.Phone != nil {
		user.Phone = input.Phone
	}
	if input.Password != nil {
		if len(*input.Password) < minPasswordLen {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "password must be at least 6 characters long")
		}
		hash, err := security.HashPassword(*input.Password, s.password)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
		}
		user.PasswordHash = hash
	}
	if input.Image != nil {
		if url, uploadErr := s.uploadProfileImage(ctx, user.ID, input.Image); uploadErr != nil {
			s.warn(ctx, "profile image upload failed, keeping previous image", uploadErr)
		} else {
			user.ProfileImageURL = &url
		}
	}

	if err := s.repo.Save(ctx, user); err != nil {
		if db.IsUniqueViolation(err, "users_email_key") || db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "email already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update user")
	}
	return user, nil
}

func (s *service) ChangePassword(ctx context.Context, userID uuid.UUID, input ChangePasswordInput) error {
	if input.OldPassword == "" || input.NewPassword == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "old password and new password are required")
	}
	if len(input.NewPassword) < minPasswordLen {
		return pkgerrors.New(pkgerrors.CodeValidation, "new password must be at least 6 characters long")
	}

	user, err := s.Get(ctx, userID)
	if err != nil {
		return err
	}

	ok, err := security.VerifyPassword(input.OldPassword, user.PasswordHash)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeValidation, "old password is incorrect")
	}
	if input.NewPassword == input.OldPassword {
		return pkgerrors.New(pkgerrors.CodeValidation, "new password must be different from old password")
	}

	hash, err := security.HashPassword(input.NewPassword, s.password)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}
	user.PasswordHash = hash
	if err := s.repo.Save(ctx, user); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update password")
	}
	return nil
}

func (s *service) UpdateFCMToken(ctx context.Context, userID uuid.UUID, token string) error {
	if token == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "fcm token is required")
	}
	affected, err := s.repo.SetFCMToken(ctx, userID, token)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store fcm token")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
	}
	return nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete user")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
	}
	return nil
}

func (s *service) authResult(user *models.User) (*AuthResult, error) {
	token, err := auth.MintAccessToken(s.jwt, s.now(), auth.AccessTokenPayload{UserID: user.ID})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}
	return &AuthResult{User: user, Token: token}, nil
}

func (s *service) uploadProfileImage(ctx context.Context, id uuid.UUID, image *ImageUpload) (string, error) {
	if !s.assets.Enabled() {
		return "", fmt.Errorf("asset storage unavailable")
	}
	return s.assets.Upload(ctx, fmt.Sprintf("user-profiles/%s", id), image.ContentType, image.Reader)
}

func (s *service) warn(ctx context.Context, msg string, err error) {
	if s.logg == nil {
		return
	}
	ctx = s.logg.WithField(ctx, "error", err.Error())
	s.logg.Warn(ctx, msg)
}
