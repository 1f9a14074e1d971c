package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"docshare-backend/internal/shared/server/middleware"
	"docshare-backend/internal/shared/server/respond"
)

// registerSessionRoutes attaches the /session endpoint.
func registerSessionRoutes(rg *gin.RouterGroup) {
	rg.GET("/session", sessionHandler)
}

// sessionHandler describes the caller as the identity middleware saw it.
// Anonymous callers get 200 with authenticated=false.
func sessionHandler(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if userID == "" {
		respond.JSON(c, http.StatusOK, gin.H{"authenticated": false})
		return
	}

	response := gin.H{
		"authenticated": !middleware.IsGuest(c),
		"guest":         middleware.IsGuest(c),
		"userId":        userID,
	}
	if email := middleware.UserEmailFromContext(c); email != "" {
		response["email"] = email
	}
	if name := middleware.UserNameFromContext(c); name != "" {
		response["name"] = name
	}
	if handle := middleware.UserHandleFromContext(c); handle != "" {
		response["handle"] = handle
	}
	if picture := middleware.UserPictureFromContext(c); picture != "" {
		response["picture"] = picture
	}

	respond.JSON(c, http.StatusOK, response)
}
