package users

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const (
	MessageUserCreated = "User created successfully"
	MessageUserUpdated = "User updated successfully"
	MessageUserDeleted = "User deleted successfully"
)

var registerTagNameOnce sync.Once

// UserHandlers provides HTTP handlers for user operations
type UserHandlers struct {
	userService UserService
	logger      *zap.Logger
}

// NewUserHandlers creates new user handlers
func NewUserHandlers(userService UserService, logger *zap.Logger) *UserHandlers {
	registerTagNameOnce.Do(useJSONFieldNames)
	return &UserHandlers{
		userService: userService,
		logger:      logger,
	}
}

// RegisterRoutes registers all user routes under /users
func (h *UserHandlers) RegisterRoutes(router gin.IRouter) {
	users := router.Group("/users")
	{
		users.POST("/", h.CreateUser)
		users.GET("/search", h.SearchUsers)
		users.GET("/:userId", h.GetUser)
		users.PUT("/:userId", h.UpdateUser)
		users.DELETE("/:userId", h.DeleteUser)
	}
}

func (h *UserHandlers) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeError(c, bindingError(err))
		return
	}

	if err := h.userService.CreateUser(c.Request.Context(), &req); err != nil {
		h.writeError(c, err)
		return
	}

	h.logger.Debug("User created", zap.Int("user_id", *req.ID))
	c.JSON(http.StatusCreated, MessageResponse{Message: MessageUserCreated})
}

func (h *UserHandlers) GetUser(c *gin.Context) {
	userID, err := parseUserID(c)
	if err != nil {
		h.writeError(c, err)
		return
	}

	user, err := h.userService.GetUser(c.Request.Context(), userID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *UserHandlers) SearchUsers(c *gin.Context) {
	name, ok := c.GetQuery("name")
	if !ok {
		h.writeError(c, NewValidationError("name", nil, "field required"))
		return
	}

	matched, err := h.userService.SearchUsers(c.Request.Context(), name)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, matched)
}

func (h *UserHandlers) UpdateUser(c *gin.Context) {
	userID, err := parseUserID(c)
	if err != nil {
		h.writeError(c, err)
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeError(c, bindingError(err))
		return
	}

	if err := h.userService.UpdateUser(c.Request.Context(), userID, &req); err != nil {
		h.writeError(c, err)
		return
	}

	h.logger.Debug("User updated", zap.Int("user_id", userID))
	c.JSON(http.StatusOK, MessageResponse{Message: MessageUserUpdated})
}

func (h *UserHandlers) DeleteUser(c *gin.Context) {
	userID, err := parseUserID(c)
	if err != nil {
		h.writeError(c, err)
		return
	}

	if err := h.userService.DeleteUser(c.Request.Context(), userID); err != nil {
		h.writeError(c, err)
		return
	}

	h.logger.Debug("User deleted", zap.Int("user_id", userID))
	c.JSON(http.StatusOK, MessageResponse{Message: MessageUserDeleted})
}

// writeError maps service errors onto status codes and a {"detail": ...} body
func (h *UserHandlers) writeError(c *gin.Context, err error) {
	var userErr *UserError
	var validationErr *ValidationError

	switch {
	case errors.As(err, &userErr) && errors.Is(err, ErrUserAlreadyExists):
		c.JSON(http.StatusBadRequest, ErrorResponse{Detail: userErr.Message})
	case errors.As(err, &userErr) && errors.Is(err, ErrUserNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Detail: userErr.Message})
	case errors.As(err, &validationErr):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Detail: fmt.Sprintf("%s: %s", validationErr.Field, validationErr.Message),
		})
	default:
		h.logger.Error("Unexpected error handling user request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Detail: "Internal server error"})
	}
}

func parseUserID(c *gin.Context) (int, error) {
	raw := c.Param("userId")
	userID, err := strconv.Atoi(raw)
	if err != nil {
		return 0, NewValidationErrorWithCause("user_id", raw, "value is not a valid integer", err)
	}
	return userID, nil
}

// bindingError turns a ShouldBindJSON failure into a ValidationError naming the offending field
func bindingError(err error) error {
	var fieldErrs validator.ValidationErrors
	var typeErr *json.UnmarshalTypeError
	var syntaxErr *json.SyntaxError
	var maxBytesErr *http.MaxBytesError

	switch {
	case errors.As(err, &fieldErrs) && len(fieldErrs) > 0:
		return NewValidationErrorWithCause(fieldErrs[0].Field(), nil, "field required", err)
	case errors.As(err, &typeErr):
		return NewValidationErrorWithCause(typeErr.Field, typeErr.Value,
			fmt.Sprintf("value is not a valid %s", typeErr.Type.Kind()), err)
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		return NewValidationErrorWithCause("body", nil, "invalid JSON", err)
	case errors.As(err, &maxBytesErr):
		return NewValidationErrorWithCause("body", nil, "request body too large", err)
	case errors.Is(err, io.EOF):
		return NewValidationErrorWithCause("body", nil, "field required", err)
	default:
		return NewValidationErrorWithCause("body", nil, "invalid request body", err)
	}
}

// useJSONFieldNames makes validator report fields by their json names
func useJSONFieldNames() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}
