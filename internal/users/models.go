package users

// User represents a user record held by the service
type User struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	PhoneNo string `json:"phone_no"`
	Address string `json:"address"`
}

// CreateUserRequest represents the request to create a user.
// Pointer fields let binding tell an omitted field apart from an empty one.
type CreateUserRequest struct {
	ID      *int    `json:"id" binding:"required"`
	Name    *string `json:"name" binding:"required"`
	PhoneNo *string `json:"phone_no" binding:"required"`
	Address *string `json:"address" binding:"required"`
}

// ToUser converts a bound request into a User
func (r *CreateUserRequest) ToUser() *User {
	return &User{
		ID:      *r.ID,
		Name:    *r.Name,
		PhoneNo: *r.PhoneNo,
		Address: *r.Address,
	}
}

// UpdateUserRequest carries the replacement values for every non-identity field
type UpdateUserRequest struct {
	Name    *string `json:"name" binding:"required"`
	PhoneNo *string `json:"phone_no" binding:"required"`
	Address *string `json:"address" binding:"required"`
}

// ApplyTo builds the record that replaces the stored user with the given id
func (r *UpdateUserRequest) ApplyTo(id int) *User {
	return &User{
		ID:      id,
		Name:    *r.Name,
		PhoneNo: *r.PhoneNo,
		Address: *r.Address,
	}
}

// MessageResponse is the acknowledgment body returned by mutating operations
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the body returned for every failed request
type ErrorResponse struct {
	Detail string `json:"detail"`
}
