package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"user-rest-service/internal/usecase/user"
	apperrors "user-rest-service/pkg/errors"
)

// emptyBodyMessage is the exact message for an empty create payload. The 404
// status is historical observed behavior and is reproduced deliberately.
const emptyBodyMessage = "Request body should contain at least one user"

// UserHandler handles HTTP requests for user operations
type UserHandler struct {
	uc               user.Usecase
	validationStatus int
	log              *zap.Logger
}

// NewUserHandler creates a new UserHandler instance. validationStatus is the
// status reported for schema-validation faults (0 falls back to 500).
func NewUserHandler(uc user.Usecase, validationStatus int, log *zap.Logger) *UserHandler {
	if validationStatus == 0 {
		validationStatus = http.StatusInternalServerError
	}
	return &UserHandler{
		uc:               uc,
		validationStatus: validationStatus,
		log:              log,
	}
}

// UserPayload represents the HTTP request body for creating a user
type UserPayload struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

// UpdateUserRequest represents the HTTP request body for a partial update.
// Absent fields stay nil and are not applied.
type UpdateUserRequest struct {
	Name    *string `json:"name"`
	Email   *string `json:"email"`
	Address *string `json:"address"`
}

// UserResponse represents the HTTP response for user data
type UserResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address,omitempty"`
}

// CreateUser handles POST /users. The body is either a single user object or
// an array of user objects; an array in means an array out. An empty object
// or empty array is rejected before the gateway is touched.
func (h *UserHandler) CreateUser(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		h.log.Error("failed to read request body", zap.Error(err))
		h.handleError(c, apperrors.NewInternalError("failed to read request body", err))
		return
	}

	trimmed := bytes.TrimSpace(raw)
	isArray := len(trimmed) > 0 && trimmed[0] == '['

	var payloads []UserPayload
	switch {
	case len(trimmed) == 0:
		h.handleError(c, apperrors.NewBadRequestError(http.StatusNotFound, emptyBodyMessage))
		return
	case isArray:
		if err := json.Unmarshal(trimmed, &payloads); err != nil {
			h.log.Warn("invalid create user request", zap.Error(err))
			h.handleError(c, apperrors.NewBadRequestError(http.StatusBadRequest, err.Error()))
			return
		}
		if len(payloads) == 0 {
			h.handleError(c, apperrors.NewBadRequestError(http.StatusNotFound, emptyBodyMessage))
			return
		}
	default:
		var object map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &object); err != nil {
			h.log.Warn("invalid create user request", zap.Error(err))
			h.handleError(c, apperrors.NewBadRequestError(http.StatusBadRequest, err.Error()))
			return
		}
		if len(object) == 0 {
			h.handleError(c, apperrors.NewBadRequestError(http.StatusNotFound, emptyBodyMessage))
			return
		}
		var one UserPayload
		if err := json.Unmarshal(trimmed, &one); err != nil {
			h.log.Warn("invalid create user request", zap.Error(err))
			h.handleError(c, apperrors.NewBadRequestError(http.StatusBadRequest, err.Error()))
			return
		}
		payloads = []UserPayload{one}
	}

	h.log.Info("CreateUser request", zap.Int("count", len(payloads)), zap.Bool("batch", isArray))

	in := make([]user.CreateUserRequest, len(payloads))
	for i, p := range payloads {
		in[i] = user.CreateUserRequest{
			Name:    p.Name,
			Email:   p.Email,
			Address: p.Address,
		}
	}

	created, err := h.uc.CreateUsers(c.Request.Context(), in)
	if err != nil {
		h.log.Error("CreateUser failed", zap.Error(err))
		h.handleError(c, err)
		return
	}

	if isArray {
		c.JSON(http.StatusCreated, toResponses(created))
		return
	}
	c.JSON(http.StatusCreated, toResponse(created[0]))
}

// GetUser handles GET /users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	id := c.Param("id")

	h.log.Info("GetUser request", zap.String("id", id))

	resp, err := h.uc.GetUser(c.Request.Context(), user.GetUserRequest{ID: id})
	if err != nil {
		h.log.Warn("GetUser failed", zap.String("id", id), zap.Error(err))
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toResponse(*resp))
}

// ListUsers handles GET /users
func (h *UserHandler) ListUsers(c *gin.Context) {
	h.log.Info("ListUsers request")

	users, err := h.uc.ListUsers(c.Request.Context())
	if err != nil {
		h.log.Error("ListUsers failed", zap.Error(err))
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toResponses(users))
}

// SearchUsers handles GET /search. An empty or absent filter lists every
// user; a non-empty filter is a case-insensitive substring match on name.
func (h *UserHandler) SearchUsers(c *gin.Context) {
	filter := c.Query("filter")

	h.log.Info("SearchUsers request", zap.String("filter", filter))

	users, err := h.uc.SearchUsers(c.Request.Context(), user.SearchUsersRequest{Filter: filter})
	if err != nil {
		h.log.Error("SearchUsers failed", zap.String("filter", filter), zap.Error(err))
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toResponses(users))
}

// UpdateUser handles PATCH /users/:id
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id := c.Param("id")

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("invalid update user request", zap.String("id", id), zap.Error(err))
		h.handleError(c, apperrors.NewBadRequestError(http.StatusBadRequest, err.Error()))
		return
	}

	h.log.Info("UpdateUser request", zap.String("id", id))

	resp, err := h.uc.UpdateUser(c.Request.Context(), user.UpdateUserRequest{
		ID:      id,
		Name:    req.Name,
		Email:   req.Email,
		Address: req.Address,
	})
	if err != nil {
		h.log.Warn("UpdateUser failed", zap.String("id", id), zap.Error(err))
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toResponse(*resp))
}

// DeleteUser handles DELETE /users/:id and responds with the removed record.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id := c.Param("id")

	h.log.Info("DeleteUser request", zap.String("id", id))

	resp, err := h.uc.DeleteUser(c.Request.Context(), user.DeleteUserRequest{ID: id})
	if err != nil {
		h.log.Warn("DeleteUser failed", zap.String("id", id), zap.Error(err))
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toResponse(*resp))
}

// handleError converts faults to HTTP responses. The body is the bare fault
// message, not a JSON envelope. Validation faults carry no intrinsic status
// and get the configured one; anything untyped is a 500.
func (h *UserHandler) handleError(c *gin.Context, err error) {
	var validationErr *apperrors.ValidationError
	if errors.As(err, &validationErr) {
		c.String(h.validationStatus, validationErr.Error())
		return
	}

	var statusErr apperrors.StatusError
	if errors.As(err, &statusErr) {
		c.String(statusErr.HTTPStatus(), statusErr.Error())
		return
	}

	c.String(http.StatusInternalServerError, err.Error())
}

func toResponse(u user.User) UserResponse {
	return UserResponse{
		ID:      u.ID,
		Name:    u.Name,
		Email:   u.Email,
		Address: u.Address,
	}
}

func toResponses(users []user.User) []UserResponse {
	out := make([]UserResponse, len(users))
	for i, u := range users {
		out[i] = toResponse(u)
	}
	return out
}
