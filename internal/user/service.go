package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/MikeMC777/cafe-ecom/internal/auth"
	pb "github.com/MikeMC777/cafe-ecom/internal/userpb"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrMissingFields      = errors.New("fullName, email and password are required")
)

// Service holds the account rules. It also serves the gRPC user directory
// the order service calls before checkout.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

var _ pb.UserDirectoryServer = (*Service)(nil)

// Register creates a customer account.
func (s *Service) Register(ctx context.Context, in RegisterRequest) (*User, error) {
	return s.create(ctx, in.FullName, in.Email, "", "", auth.RoleCustomer, in.Password)
}

// Create is the back-office variant of Register; it may set a role.
func (s *Service) Create(ctx context.Context, in AdminUserRequest) (*User, error) {
	if in.FullName == "" || in.Email == "" || in.Password == "" {
		return nil, ErrMissingFields
	}
	role := in.Role
	if role == "" {
		role = auth.RoleCustomer
	}
	return s.create(ctx, in.FullName, in.Email, in.Phone, in.Address, role, in.Password)
}

func (s *Service) create(ctx context.Context, fullName, email, phone, address, role, password string) (*User, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash error: %w", err)
	}
	u := &User{
		ID:           uuid.NewString(),
		FullName:     strings.TrimSpace(fullName),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		Phone:        phone,
		Address:      address,
		Role:         role,
		PasswordHash: hash,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// EnsureAdmin creates the bootstrap admin account unless the email is
// already registered.
func (s *Service) EnsureAdmin(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return nil
	}
	_, err := s.repo.GetByEmail(ctx, strings.ToLower(email))
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrNotFound) {
		return err
	}
	_, err = s.create(ctx, "Administrator", email, "", "", auth.RoleAdmin, password)
	return err
}

// Authenticate checks credentials. Unknown emails and wrong passwords are
// indistinguishable to the caller.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	u, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !CheckPassword(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

func (s *Service) Get(ctx context.Context, id string) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]User, error) {
	return s.repo.List(ctx, limit, offset)
}

// UpdateProfile applies a partial update; empty fields keep their value.
func (s *Service) UpdateProfile(ctx context.Context, id string, in ProfileRequest) (*User, error) {
	return s.update(ctx, &User{
		ID:       id,
		FullName: in.FullName,
		Email:    in.Email,
		Phone:    in.Phone,
		Address:  in.Address,
	}, in.Password)
}

// AdminUpdate is UpdateProfile plus role changes.
func (s *Service) AdminUpdate(ctx context.Context, id string, in AdminUserRequest) (*User, error) {
	return s.update(ctx, &User{
		ID:       id,
		FullName: in.FullName,
		Email:    in.Email,
		Phone:    in.Phone,
		Address:  in.Address,
		Role:     in.Role,
	}, in.Password)
}

func (s *Service) ResetPassword(ctx context.Context, id, password string) error {
	if password == "" {
		return ErrMissingFields
	}
	_, err := s.update(ctx, &User{ID: id}, password)
	return err
}

func (s *Service) update(ctx context.Context, u *User, password string) (*User, error) {
	updatePassword := false
	if password != "" {
		h, err := HashPassword(password)
		if err != nil {
			return nil, fmt.Errorf("hash error: %w", err)
		}
		u.PasswordHash = h
		updatePassword = true
	}
	if err := s.repo.Update(ctx, u, updatePassword); err != nil {
		return nil, err
	}
	// return the current state
	return s.repo.GetByID(ctx, u.ID)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

// ValidateUser (exists by id)
func (s *Service) ValidateUser(ctx context.Context, in *wrapperspb.StringValue) (*wrapperspb.BoolValue, error) {
	if in.GetValue() == "" {
		return nil, status.Error(codes.InvalidArgument, "id is required")
	}
	_, err := s.repo.GetByID(ctx, in.GetValue())
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return wrapperspb.Bool(false), nil
		}
		return nil, status.Errorf(codes.Internal, "validate error: %v", err)
	}
	return wrapperspb.Bool(true), nil
}

// GetUser returns the public fields of a user.
func (s *Service) GetUser(ctx context.Context, in *wrapperspb.StringValue) (*structpb.Struct, error) {
	if in.GetValue() == "" {
		return nil, status.Error(codes.InvalidArgument, "id is required")
	}
	u, err := s.repo.GetByID(ctx, in.GetValue())
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, status.Error(codes.NotFound, "user not found")
		}
		return nil, status.Errorf(codes.Internal, "get error: %v", err)
	}
	out, err := structpb.NewStruct(map[string]any{
		"id":        u.ID,
		"fullName":  u.FullName,
		"email":     u.Email,
		"phone":     u.Phone,
		"address":   u.Address,
		"role":      u.Role,
		"createdAt": u.CreatedAt.Format(time.RFC3339),
	})
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode error: %v", err)
	}
	return out, nil
}
