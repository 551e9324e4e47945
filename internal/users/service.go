package users

import (
	"context"
	"fmt"
)

// UserServiceImpl implements the UserService interface
type UserServiceImpl struct {
	store UserStore
}

// NewUserService creates a new user service instance
func NewUserService(store UserStore) *UserServiceImpl {
	return &UserServiceImpl{
		store: store,
	}
}

// CreateUser creates a new user
func (s *UserServiceImpl) CreateUser(ctx context.Context, req *CreateUserRequest) error {
	if req == nil {
		return NewValidationError("body", nil, "request body is required")
	}
	if err := validateCreate(req); err != nil {
		return err
	}
	if err := s.store.CreateUser(ctx, req.ToUser()); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetUser returns the user stored under id
func (s *UserServiceImpl) GetUser(ctx context.Context, id int) (*User, error) {
	user, err := s.store.GetUser(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// SearchUsers returns the users whose name contains name, case-insensitively
func (s *UserServiceImpl) SearchUsers(ctx context.Context, name string) ([]*User, error) {
	matched, err := s.store.SearchUsers(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}
	return matched, nil
}

// UpdateUser replaces every non-identity field of the user stored under id
func (s *UserServiceImpl) UpdateUser(ctx context.Context, id int, req *UpdateUserRequest) error {
	if req == nil {
		return NewValidationError("body", nil, "request body is required")
	}
	if err := validateUpdate(req); err != nil {
		return err
	}
	if err := s.store.UpdateUser(ctx, req.ApplyTo(id)); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

// DeleteUser deletes a user
func (s *UserServiceImpl) DeleteUser(ctx context.Context, id int) error {
	if err := s.store.DeleteUser(ctx, id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

// CountUsers reports how many users are stored
func (s *UserServiceImpl) CountUsers(ctx context.Context) (int, error) {
	return s.store.CountUsers(ctx)
}

func validateCreate(req *CreateUserRequest) error {
	if req.ID == nil {
		return NewValidationError("id", nil, "field required")
	}
	return requireFields(req.Name, req.PhoneNo, req.Address)
}

func validateUpdate(req *UpdateUserRequest) error {
	return requireFields(req.Name, req.PhoneNo, req.Address)
}

// requireFields checks presence only; empty strings are accepted
func requireFields(name, phoneNo, address *string) error {
	if name == nil {
		return NewValidationError("name", nil, "field required")
	}
	if phoneNo == nil {
		return NewValidationError("phone_no", nil, "field required")
	}
	if address == nil {
		return NewValidationError("address", nil, "field required")
	}
	return nil
}
