package response

import "github.com/gin-gonic/gin"

// Success and Error write the platform-wide JSON envelope. Error codes are
// stable machine-readable strings; messages are for humans only.

func Success(c *gin.Context, statusCode int, data any) {
	c.JSON(statusCode, gin.H{
		"success": true,
		"data":    data,
	})
}

func Error(c *gin.Context, statusCode int, code string, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}
