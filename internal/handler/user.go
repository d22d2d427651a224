package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/zhengdechang/auth-service/internal/model"
	"github.com/zhengdechang/auth-service/internal/repository"
	"github.com/zhengdechang/auth-service/internal/utils"
)

// UserHandler exposes the user and role management endpoints. All routes sit
// behind the session gate; responses carry public projections only.
type UserHandler struct {
	Users *repository.UserRepo
	Roles *repository.RoleRepo
}

func NewUserHandler(users *repository.UserRepo, roles *repository.RoleRepo) *UserHandler {
	return &UserHandler{Users: users, Roles: roles}
}

// Groups lists all roles.
func (h *UserHandler) Groups(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	roles, err := h.Roles.List(ctx)
	if err != nil {
		log.Error().Err(err).Msg("fetch roles failed")
		return utils.JSON(c, http.StatusInternalServerError, nil, fmt.Sprintf("Error fetching groups: %v", err))
	}
	return utils.JSON(c, http.StatusOK, roles, "Groups fetched successfully")
}

// List returns all users as public projections.
func (h *UserHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	users, err := h.Users.List(ctx)
	if err != nil {
		log.Error().Err(err).Msg("list users failed")
		return utils.JSON(c, http.StatusInternalServerError, nil, fmt.Sprintf("get user list error: %v", err))
	}
	out := make([]model.PublicPrincipal, 0, len(users))
	for _, u := range users {
		out = append(out, u.Public())
	}
	return utils.JSON(c, http.StatusOK, out, "get user list success")
}

type createUserReq struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	RoleID      int64  `json:"role_id"`
	Experiments int64  `json:"experiments"`
}

// Create adds a user after uniqueness checks on username and email.
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserReq
	if err := c.Bind(&req); err != nil {
		return utils.JSON(c, http.StatusBadRequest, nil, "invalid body")
	}
	if req.Username == "" || req.Password == "" {
		return utils.JSON(c, http.StatusBadRequest, nil, "username/password required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	created, err := h.Users.Create(ctx, repository.NewUser{
		Username:    req.Username,
		Email:       req.Email,
		Password:    req.Password,
		RoleID:      req.RoleID,
		Experiments: req.Experiments,
	})
	if err != nil {
		log.Error().Err(err).Str("username", req.Username).Msg("create user failed")
		return utils.JSON(c, http.StatusInternalServerError, nil, fmt.Sprintf("User creation error: %v", err))
	}
	log.Info().Str("username", created.Username).Msg("user created")
	return utils.JSON(c, http.StatusOK, created.Public(), "User created successfully")
}

type updateUserReq struct {
	Username    *string `json:"username"`
	Email       *string `json:"email"`
	Password    *string `json:"password"`
	RoleID      *int64  `json:"role_id"`
	Experiments *int64  `json:"experiments"`
}

// Update applies the provided fields to a user.
func (h *UserHandler) Update(c echo.Context) error {
	var req updateUserReq
	if err := c.Bind(&req); err != nil {
		return utils.JSON(c, http.StatusBadRequest, nil, "invalid body")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	updated, err := h.Users.Update(ctx, c.Param("id"), repository.UserChanges{
		Username:    req.Username,
		Email:       req.Email,
		Password:    req.Password,
		RoleID:      req.RoleID,
		Experiments: req.Experiments,
	})
	if err != nil {
		log.Error().Err(err).Str("id", c.Param("id")).Msg("update user failed")
		return utils.JSON(c, http.StatusInternalServerError, nil, fmt.Sprintf("User update error: %v", err))
	}
	log.Info().Str("username", updated.Username).Msg("user updated")
	return utils.JSON(c, http.StatusOK, updated.Public(), "User updated successfully")
}

// Delete removes a user by id.
func (h *UserHandler) Delete(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	id := c.Param("id")
	if err := h.Users.Delete(ctx, id); err != nil {
		log.Error().Err(err).Str("id", id).Msg("delete user failed")
		return utils.JSON(c, http.StatusInternalServerError, nil, fmt.Sprintf("User deletion error: %v", err))
	}
	log.Info().Str("id", id).Msg("user deleted")
	return utils.JSON(c, http.StatusOK, id, "User deleted successfully")
}

// Get returns a single user by id.
func (h *UserHandler) Get(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	u, err := h.Users.GetByID(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return utils.JSON(c, http.StatusInternalServerError, nil, "get user info error: user not found")
		}
		log.Error().Err(err).Str("id", c.Param("id")).Msg("get user failed")
		return utils.JSON(c, http.StatusInternalServerError, nil, fmt.Sprintf("get user info error: %v", err))
	}
	return utils.JSON(c, http.StatusOK, u.Public(), "get user info success")
}
