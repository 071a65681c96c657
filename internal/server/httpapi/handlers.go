package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/avramovs/clientbook/internal/common"
	"github.com/avramovs/clientbook/internal/logging"
	"github.com/avramovs/clientbook/internal/models"
	servermodels "github.com/avramovs/clientbook/internal/server/models"
	"github.com/avramovs/clientbook/internal/server/services"
)

type Handler struct {
	users   *services.UserService
	records *services.RecordService
	logger  logging.Logger
}

// AuthResponse is the reply to a successful login or registration.
type AuthResponse struct {
	Identity models.Identity `json:"identity"`
	Token    string          `json:"token"`
}

func identityOf(u *servermodels.User) models.Identity {
	return models.Identity{ID: u.ID, Email: u.Email, Name: u.Name}
}

func (h *Handler) Login(c *gin.Context) {
	var creds models.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}

	res, err := h.users.Login(c.Request.Context(), creds.Email, creds.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, AuthResponse{Identity: identityOf(res.User), Token: res.Token})
}

func (h *Handler) Register(c *gin.Context) {
	var profile models.Profile
	if err := c.ShouldBindJSON(&profile); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}

	res, err := h.users.Register(c.Request.Context(), profile.Email, profile.Name, profile.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, AuthResponse{Identity: identityOf(res.User), Token: res.Token})
}

func (h *Handler) Me(c *gin.Context) {
	userID, ok := GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "not authenticated"})
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, identityOf(user))
}

// Logout acknowledges the client dropping its session. Tokens are
// stateless, so there is nothing to revoke server-side.
func (h *Handler) Logout(c *gin.Context) {
	c.Status(http.StatusOK)
}

func (h *Handler) ListRecords(c *gin.Context) {
	recs, err := h.records.List(c.Request.Context(), c.Query("q"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	if recs == nil {
		recs = []models.Record{}
	}
	c.JSON(http.StatusOK, recs)
}

func (h *Handler) GetRecord(c *gin.Context) {
	rec, err := h.records.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *Handler) CreateRecord(c *gin.Context) {
	userID, _ := GetUserID(c)

	var fields models.RecordFields
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}

	rec, err := h.records.Create(c.Request.Context(), userID, fields)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rec)
}

func (h *Handler) UpdateRecord(c *gin.Context) {
	userID, _ := GetUserID(c)

	var fields models.RecordFields
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}

	rec, err := h.records.Update(c.Request.Context(), userID, c.Param("id"), fields)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *Handler) DeleteRecord(c *gin.Context) {
	userID, _ := GetUserID(c)

	if err := h.records.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// respondError translates the service error taxonomy into HTTP statuses.
func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, common.ErrorNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "not found"})
	case errors.Is(err, common.ErrorForbidden):
		c.JSON(http.StatusForbidden, gin.H{"message": "forbidden"})
	case errors.Is(err, common.ErrorUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"message": "unauthorized"})
	case errors.Is(err, common.ErrorAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"message": "already exists"})
	default:
		h.logger.Error(c.Request.Context(), "request failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
	}
}
