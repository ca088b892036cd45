package middleware

import "github.com/gin-gonic/gin"

// NoCache 禁止浏览器与中间代理缓存接口响应
func NoCache() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
		c.Header("Pragma", "no-cache")
		c.Header("Expires", "0")
		c.Next()
	}
}
