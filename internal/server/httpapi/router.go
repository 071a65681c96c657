// Package httpapi exposes the records service over HTTP/JSON: auth
// endpoints handing out session tokens, and the records CRUD behind a
// bearer-token middleware.
package httpapi

import (
	"github.com/gin-gonic/gin"

	"github.com/avramovs/clientbook/internal/logging"
	"github.com/avramovs/clientbook/internal/server/services"
)

// NewRouter assembles the gin engine with all routes attached.
func NewRouter(users *services.UserService, records *services.RecordService, logger logging.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	h := &Handler{users: users, records: records, logger: logger}

	auth := r.Group("/auth")
	auth.POST("/login", h.Login)
	auth.POST("/register", h.Register)
	auth.GET("/me", AuthMiddleware(users), h.Me)
	auth.POST("/logout", AuthMiddleware(users), h.Logout)

	posts := r.Group("/posts", AuthMiddleware(users))
	posts.GET("", h.ListRecords)
	posts.POST("", h.CreateRecord)
	posts.GET("/:id", h.GetRecord)
	posts.PATCH("/:id", h.UpdateRecord)
	posts.DELETE("/:id", h.DeleteRecord)

	return r
}
