package handlers

import "github.com/gin-gonic/gin"

// Every endpoint answers with the same envelope: {success, data} on the
// happy path, {success, message} on errors. No stack traces leak out.

func respondData(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

func respondMessage(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": true, "message": message})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}
