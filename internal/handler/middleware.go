package handler

import (
	"net/http"
	"strings"

	"github.com/blues/mintpad/internal/auth"
	"github.com/blues/mintpad/pkg/validation"
	"github.com/gin-gonic/gin"
)

// WalletHeader 网关校验签名后写入的钱包地址
const WalletHeader = "X-Wallet-Address"

const actorKey = "mintpad.actor"

// AuthMiddleware 从请求头解析调用者身份，未携带时为匿名身份
func AuthMiddleware(resolver *auth.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		address := strings.TrimSpace(c.GetHeader(WalletHeader))
		if address != "" {
			if err := validation.ValidateAddress(address); err != nil {
				ErrorResponse(c, http.StatusUnauthorized, "钱包地址无效: "+err.Error())
				c.Abort()
				return
			}
		}
		c.Set(actorKey, resolver.Resolve(address))
		c.Next()
	}
}

// RequireWallet 要求请求携带钱包地址
func RequireWallet() gin.HandlerFunc {
	return func(c *gin.Context) {
		if actorFrom(c).Anonymous() {
			ErrorResponse(c, http.StatusUnauthorized, "请先连接钱包")
			c.Abort()
			return
		}
		c.Next()
	}
}

func actorFrom(c *gin.Context) auth.Context {
	if v, ok := c.Get(actorKey); ok {
		if actor, ok := v.(auth.Context); ok {
			return actor
		}
	}
	return auth.Context{}
}
