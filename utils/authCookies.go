package utils

import (
	"time"

	"github.com/gin-gonic/gin"
)

// Cookie names, shared with the token middleware's extraction fallback.
const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"
)

// SetAuthCookies stores both tokens with lifetimes matching their expiries.
func SetAuthCookies(c *gin.Context, accessToken, refreshToken string) {
	setCookie(c, AccessTokenCookie, accessToken, AccessTokenExpiry)
	setCookie(c, RefreshTokenCookie, refreshToken, RefreshTokenExpiry)
}

// ClearAuthCookies expires both token cookies.
func ClearAuthCookies(c *gin.Context) {
	setCookie(c, AccessTokenCookie, "", -time.Second)
	setCookie(c, RefreshTokenCookie, "", -time.Second)
}

func setCookie(c *gin.Context, name, value string, expiry time.Duration) {
	// Secure except in local dev.
	secure := gin.Mode() != gin.DebugMode
	c.SetCookie(name, value, int(expiry.Seconds()), "/", "", secure, true)
}
