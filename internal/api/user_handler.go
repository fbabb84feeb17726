package api

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/mellobo05/diet-ai-recommender/internal/entity"
	"github.com/mellobo05/diet-ai-recommender/internal/service"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// GetUserByID retrieves a user by ID --> GET /users/:id
func (h *UserHandler) GetUserByID(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid ID"})
	}

	user, err := h.userService.GetUserByID(c.Request().Context(), id)
	if err != nil {
		return c.JSON(404, map[string]string{"error": "Not found"})
	}

	return c.JSON(200, user)
}

// GetUsers lists all users --> GET /users
func (h *UserHandler) GetUsers(c echo.Context) error {
	users, err := h.userService.GetUsers(c.Request().Context())
	if err != nil {
		return c.JSON(500, map[string]string{"error": err.Error()})
	}

	return c.JSON(200, users)
}

// CreateUser creates a new user --> POST /users
func (h *UserHandler) CreateUser(c echo.Context) error {
	user := entity.User{}
	if err := c.Bind(&user); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}

	createdUser, err := h.userService.CreateUser(c.Request().Context(), &user)
	if err != nil {
		return c.JSON(500, map[string]string{"error": err.Error()})
	}

	return c.JSON(201, createdUser)
}

// SetDietStatus is the administrative on-diet override --> PATCH /users/:id/diet
func (h *UserHandler) SetDietStatus(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid ID"})
	}

	body := struct {
		OnDiet bool `json:"on_diet"`
	}{}
	if err := c.Bind(&body); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}

	user, err := h.userService.SetDietStatus(c.Request().Context(), id, body.OnDiet)
	if err != nil {
		return c.JSON(500, map[string]string{"error": err.Error()})
	}

	return c.JSON(200, user)
}
