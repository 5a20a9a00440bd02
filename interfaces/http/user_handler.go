package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"livestream-backend/domain/model"
	"livestream-backend/usecase"
)

type IUserHandler interface {
	Register(c *gin.Context)
	Login(c *gin.Context)
	Me(c *gin.Context)
	GetUser(c *gin.Context)
	UpdateMe(c *gin.Context)
	DeleteMe(c *gin.Context)
	ToggleFollow(c *gin.Context)
	ListUsers(c *gin.Context)
}

type UserHandler struct {
	userUsecase   usecase.IUserUsecase
	socialUsecase usecase.ISocialUsecase
}

func NewUserHandler(userUsecase usecase.IUserUsecase, socialUsecase usecase.ISocialUsecase) IUserHandler {
	return &UserHandler{userUsecase: userUsecase, socialUsecase: socialUsecase}
}

func (h *UserHandler) Register(c *gin.Context) {
	var req model.ReqRegister
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, model.NewValidationError("Invalid request body"))
		return
	}
	res, err := h.userUsecase.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (h *UserHandler) Login(c *gin.Context) {
	var req model.ReqLogin
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, model.NewValidationError("Invalid request body"))
		return
	}
	res, err := h.userUsecase.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *UserHandler) Me(c *gin.Context) {
	profile, err := h.userUsecase.GetProfile(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *UserHandler) GetUser(c *gin.Context) {
	profile, err := h.userUsecase.GetProfile(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *UserHandler) UpdateMe(c *gin.Context) {
	var req model.ReqUpdateProfile
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, model.NewValidationError("Invalid request body"))
		return
	}
	user, err := h.userUsecase.UpdateProfile(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) DeleteMe(c *gin.Context) {
	if err := h.userUsecase.DeleteAccount(c.Request.Context(), currentUserID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}

func (h *UserHandler) ToggleFollow(c *gin.Context) {
	res, err := h.socialUsecase.ToggleFollow(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.userUsecase.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}
