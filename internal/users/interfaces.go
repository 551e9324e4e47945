package users

import (
	"context"
)

// UserStore defines the interface for user storage operations
type UserStore interface {
	CreateUser(ctx context.Context, user *User) error
	GetUser(ctx context.Context, id int) (*User, error)
	SearchUsers(ctx context.Context, name string) ([]*User, error)
	UpdateUser(ctx context.Context, user *User) error
	DeleteUser(ctx context.Context, id int) error
	CountUsers(ctx context.Context) (int, error)
}

// UserService defines the interface for user service operations
type UserService interface {
	CreateUser(ctx context.Context, req *CreateUserRequest) error
	GetUser(ctx context.Context, id int) (*User, error)
	SearchUsers(ctx context.Context, name string) ([]*User, error)
	UpdateUser(ctx context.Context, id int, req *UpdateUserRequest) error
	DeleteUser(ctx context.Context, id int) error
	CountUsers(ctx context.Context) (int, error)
}
