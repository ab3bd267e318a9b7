package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/secureshop/backend/internal/application/identity"
)

// UserHandler serves the signed-in user's profile and address book, and the
// admin user management routes
type UserHandler struct {
	BaseHandler
	userService *identity.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService *identity.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Me godoc
// @ID           getCurrentUser
// @Summary      Get current user
// @Description  Return the authenticated user's profile
// @Tags         users
// @Produce      json
// @Success      200 {object} APIResponse[identity.UserResponse]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /auth/me [get]
func (h *UserHandler) Me(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	user, err := h.userService.Me(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, user)
}

// UpdateProfile godoc
// @ID           updateCurrentUserProfile
// @Summary      Update profile
// @Description  Update name, phone and avatar of the authenticated user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request body identity.UpdateProfileRequest true "Profile"
// @Success      200 {object} APIResponse[identity.UserResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /users/me [put]
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}
	var req identity.UpdateProfileRequest
	if !h.bindJSON(c, &req) {
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, user)
}

// ChangePassword godoc
// @ID           changeCurrentUserPassword
// @Summary      Change password
// @Description  Change the password after checking the current one
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request body identity.ChangePasswordRequest true "Passwords"
// @Success      200 {object} APIResponse[MessageData]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /users/me/password [put]
func (h *UserHandler) ChangePassword(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}
	var req identity.ChangePasswordRequest
	if !h.bindJSON(c, &req) {
		return
	}

	if err := h.userService.ChangePassword(c.Request.Context(), userID, req); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, MessageData{Message: "Password changed successfully"})
}

// ListAddresses godoc
// @ID           listCurrentUserAddresses
// @Summary      List addresses
// @Tags         users
// @Produce      json
// @Success      200 {object} APIResponse[[]identity.AddressResponse]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /users/me/addresses [get]
func (h *UserHandler) ListAddresses(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	addresses, err := h.userService.ListAddresses(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, addresses)
}

// CreateAddress godoc
// @ID           createCurrentUserAddress
// @Summary      Add an address
// @Description  The first address, or one flagged isDefault, becomes the default
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request body identity.AddressRequest true "Address"
// @Success      201 {object} APIResponse[identity.AddressResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /users/me/addresses [post]
func (h *UserHandler) CreateAddress(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}
	var req identity.AddressRequest
	if !h.bindJSON(c, &req) {
		return
	}

	address, err := h.userService.CreateAddress(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, address)
}

// UpdateAddress godoc
// @ID           updateCurrentUserAddress
// @Summary      Update an address
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id path string true "Address ID" format(uuid)
// @Param        request body identity.AddressRequest true "Address"
// @Success      200 {object} APIResponse[identity.AddressResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /users/me/addresses/{id} [put]
func (h *UserHandler) UpdateAddress(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}
	addressID, ok := h.paramUUID(c, "id")
	if !ok {
		return
	}
	var req identity.AddressRequest
	if !h.bindJSON(c, &req) {
		return
	}

	address, err := h.userService.UpdateAddress(c.Request.Context(), userID, addressID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, address)
}

// SetDefaultAddress godoc
// @ID           setDefaultCurrentUserAddress
// @Summary      Make an address the default
// @Tags         users
// @Produce      json
// @Param        id path string true "Address ID" format(uuid)
// @Success      200 {object} APIResponse[identity.AddressResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /users/me/addresses/{id}/default [patch]
func (h *UserHandler) SetDefaultAddress(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}
	addressID, ok := h.paramUUID(c, "id")
	if !ok {
		return
	}

	address, err := h.userService.SetDefaultAddress(c.Request.Context(), userID, addressID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, address)
}

// DeleteAddress godoc
// @ID           deleteCurrentUserAddress
// @Summary      Delete an address
// @Tags         users
// @Param        id path string true "Address ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /users/me/addresses/{id} [delete]
func (h *UserHandler) DeleteAddress(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}
	addressID, ok := h.paramUUID(c, "id")
	if !ok {
		return
	}

	if err := h.userService.DeleteAddress(c.Request.Context(), userID, addressID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// List godoc
// @ID           listUsers
// @Summary      List users
// @Description  Admin search over users by name or email, role and status
// @Tags         admin-users
// @Produce      json
// @Param        search    query string false "Name or email"
// @Param        role      query string false "USER or ADMIN"
// @Param        status    query string false "pending, active, locked or disabled"
// @Param        page      query int    false "Page number" default(1)
// @Param        page_size query int    false "Page size" default(20)
// @Success      200 {object} APIResponse[[]identity.UserResponse]
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/users [get]
func (h *UserHandler) List(c *gin.Context) {
	var filter identity.UserListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	page, err := h.userService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	respondPage(c, page)
}

// Get godoc
// @ID           getUser
// @Summary      Get a user
// @Tags         admin-users
// @Produce      json
// @Param        id path string true "User ID" format(uuid)
// @Success      200 {object} APIResponse[identity.UserResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/users/{id} [get]
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := h.paramUUID(c, "id")
	if !ok {
		return
	}

	user, err := h.userService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, user)
}

// Create godoc
// @ID           createUser
// @Summary      Create a user
// @Description  Admin-created accounts are active and verified
// @Tags         admin-users
// @Accept       json
// @Produce      json
// @Param        request body identity.CreateUserRequest true "User"
// @Success      201 {object} APIResponse[identity.UserResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/users [post]
func (h *UserHandler) Create(c *gin.Context) {
	var req identity.CreateUserRequest
	if !h.bindJSON(c, &req) {
		return
	}

	user, err := h.userService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, user)
}

// Update godoc
// @ID           updateUser
// @Summary      Update a user
// @Description  Change profile fields, role or status. Admins cannot demote or lock themselves.
// @Tags         admin-users
// @Accept       json
// @Produce      json
// @Param        id path string true "User ID" format(uuid)
// @Param        request body identity.UpdateUserRequest true "Changes"
// @Success      200 {object} APIResponse[identity.UserResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/users/{id} [put]
func (h *UserHandler) Update(c *gin.Context) {
	actorID, ok := h.requireUserID(c)
	if !ok {
		return
	}
	id, ok := h.paramUUID(c, "id")
	if !ok {
		return
	}
	var req identity.UpdateUserRequest
	if !h.bindJSON(c, &req) {
		return
	}

	user, err := h.userService.Update(c.Request.Context(), actorID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, user)
}

// Enable godoc
// @ID           enableUser
// @Summary      Enable a user
// @Tags         admin-users
// @Produce      json
// @Param        id path string true "User ID" format(uuid)
// @Success      200 {object} APIResponse[identity.UserResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/users/{id}/enable [patch]
func (h *UserHandler) Enable(c *gin.Context) {
	h.toggle(c, h.userService.Enable)
}

// Disable godoc
// @ID           disableUser
// @Summary      Disable a user
// @Description  Disabling also revokes every token the user holds
// @Tags         admin-users
// @Produce      json
// @Param        id path string true "User ID" format(uuid)
// @Success      200 {object} APIResponse[identity.UserResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/users/{id}/disable [patch]
func (h *UserHandler) Disable(c *gin.Context) {
	h.toggle(c, h.userService.Disable)
}

func (h *UserHandler) toggle(c *gin.Context, apply func(ctx context.Context, actorID, id uuid.UUID) (*identity.UserResponse, error)) {
	actorID, ok := h.requireUserID(c)
	if !ok {
		return
	}
	id, ok := h.paramUUID(c, "id")
	if !ok {
		return
	}

	user, err := apply(c.Request.Context(), actorID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, user)
}

// Delete godoc
// @ID           deleteUser
// @Summary      Delete a user
// @Tags         admin-users
// @Param        id path string true "User ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/users/{id} [delete]
func (h *UserHandler) Delete(c *gin.Context) {
	actorID, ok := h.requireUserID(c)
	if !ok {
		return
	}
	id, ok := h.paramUUID(c, "id")
	if !ok {
		return
	}

	if err := h.userService.Delete(c.Request.Context(), actorID, id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
