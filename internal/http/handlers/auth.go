package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/adaptivequiz-backend/internal/apitypes"
	"github.com/yungbote/adaptivequiz-backend/internal/data/repos"
	types "github.com/yungbote/adaptivequiz-backend/internal/domain"
	"github.com/yungbote/adaptivequiz-backend/internal/http/response"
	"github.com/yungbote/adaptivequiz-backend/internal/services"
)

type AuthHandler struct {
	authService services.AuthService
	userService services.UserService
}

func NewAuthHandler(authService services.AuthService, userService services.UserService) *AuthHandler {
	return &AuthHandler{authService: authService, userService: userService}
}

func (ah *AuthHandler) Register(c *gin.Context) {
	var req apitypes.RegisterRequest
	if err := bindJSON(c, &req); err != nil {
		response.RespondErr(c, err)
		return
	}
	user, err := ah.authService.RegisterUser(c.Request.Context(), services.RegisterInput{
		Email:               req.Email,
		Password:            req.Password,
		Name:                req.Name,
		PreferredDifficulty: req.PreferredDifficulty,
		Subjects:            req.Subjects,
	})
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondCreated(c, apitypes.UserResponse{Msg: "user created", User: toUser(user)})
}

func (ah *AuthHandler) Login(c *gin.Context) {
	var req apitypes.LoginRequest
	if err := bindJSON(c, &req); err != nil {
		response.RespondErr(c, err)
		return
	}
	pair, user, err := ah.authService.LoginUser(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, tokenResponse(pair, user))
}

func (ah *AuthHandler) Refresh(c *gin.Context) {
	var req apitypes.RefreshRequest
	if err := bindJSON(c, &req); err != nil {
		response.RespondErr(c, err)
		return
	}
	pair, user, err := ah.authService.RefreshUser(c.Request.Context(), req.RefreshToken)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, tokenResponse(pair, user))
}

func (ah *AuthHandler) Logout(c *gin.Context) {
	if err := ah.authService.LogoutUser(c.Request.Context()); err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondMessage(c, http.StatusOK, "logged out")
}

func (ah *AuthHandler) Profile(c *gin.Context) {
	user, err := ah.userService.GetMe(c.Request.Context())
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, apitypes.UserResponse{User: toUser(user)})
}

func (ah *AuthHandler) UpdateProfile(c *gin.Context) {
	var req apitypes.UpdateProfileRequest
	if err := bindJSON(c, &req); err != nil {
		response.RespondErr(c, err)
		return
	}
	user, err := ah.userService.UpdateProfile(c.Request.Context(), repos.UserProfilePatch{
		Name:                req.Name,
		PreferredDifficulty: req.PreferredDifficulty,
		Subjects:            req.Subjects,
	})
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, apitypes.UserResponse{Msg: "profile updated", User: toUser(user)})
}

func tokenResponse(pair *services.TokenPair, user *types.User) apitypes.TokenResponse {
	u := toUser(user)
	return apitypes.TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(pair.ExpiresIn.Seconds()),
		User:         &u,
	}
}
