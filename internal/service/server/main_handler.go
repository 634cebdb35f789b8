package server

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Agurato/filmdelegate/internal/model"
)

type MainUserManager interface {
	CreateOwner(username, password1, password2 string) (*model.User, error)
	CheckLogin(username, password string) (*model.User, error)
	SetUserPassword(username, oldPassword, password1, password2 string) error
}

type MainHandler struct {
	MainUserManager
}

func NewMainHandler(mum MainUserManager) *MainHandler {
	return &MainHandler{
		MainUserManager: mum,
	}
}

type startRequest struct {
	Username  string `json:"username" binding:"required"`
	Password1 string `json:"password1" binding:"required"`
	Password2 string `json:"password2" binding:"required"`
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type setPasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	Password1   string `json:"password1" binding:"required"`
	Password2   string `json:"password2" binding:"required"`
}

// Error404 answers requests to unknown routes
func (mh MainHandler) Error404(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
}

// GETHealth tells the server is up
func (mh MainHandler) GETHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// POSTStart creates the owner account (only available for first account) and logs it in
func (mh MainHandler) POSTStart(c *gin.Context) {
	var req startRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithBindingError(c, err)
		return
	}

	user, err := mh.MainUserManager.CreateOwner(strings.TrimSpace(req.Username), req.Password1, req.Password2)
	if err != nil {
		abortWithError(c, err)
		return
	}
	if err := saveUser(c, user); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": user})
}

// POSTLogin checks the credentials and stores the user in the session
func (mh MainHandler) POSTLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithBindingError(c, err)
		return
	}

	user, err := mh.MainUserManager.CheckLogin(strings.TrimSpace(req.Username), req.Password)
	if err != nil {
		abortWithError(c, err)
		return
	}
	if err := saveUser(c, user); err != nil {
		abortWithError(c, err)
		return
	}
	log.Info().Str("username", user.Name).Msg("User logged in")
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// POSTLogout removes the user from the session
func (mh MainHandler) POSTLogout(c *gin.Context) {
	session := sessions.Default(c)
	if session.Get(UserKey) == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "the session could not be found"})
		return
	}

	session.Delete(UserKey)
	if err := session.Save(); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

// POSTSetPassword changes the password of the logged in user
func (mh MainHandler) POSTSetPassword(c *gin.Context) {
	var req setPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithBindingError(c, err)
		return
	}

	user := currentUser(c)
	if err := mh.MainUserManager.SetUserPassword(user.Name, req.OldPassword, req.Password1, req.Password2); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

func saveUser(c *gin.Context, user *model.User) error {
	session := sessions.Default(c)
	session.Set(UserKey, *user)
	return session.Save()
}
