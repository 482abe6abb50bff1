package router

import (
	"github.com/birthdates/Crypto-Store/random"
	"github.com/gin-gonic/gin"
)

const SessionCookie = "session"

// mintSession sets a fresh opaque token for a cookieless caller.
func mintSession(ctx *gin.Context) {
	ctx.SetCookie(SessionCookie, random.Token(), 0, "/", "", false, true)
}
