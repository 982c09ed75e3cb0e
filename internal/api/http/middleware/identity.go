// Package middleware 提供HTTP服务的gin中间件
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apitypes "github.com/titledger/v1/internal/api/http/types"
	"github.com/titledger/v1/pkg/types"
)

// CallerHeader 宿主断言的调用方身份请求头
//
// 核心引擎不做身份鉴别：接入层透传该头部，权限裁决完全由
// 各引擎基于目录与持有关系数据完成。
const CallerHeader = "X-TDL-Caller"

// callerContextKey 调用方身份在gin上下文中的键
const callerContextKey = "tdl-caller"

// CallerIdentity 调用方身份中间件
//
// 提取X-TDL-Caller头部写入请求上下文；状态变更请求（非GET）
// 缺少该头部时直接以403拒绝。
func CallerIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := c.GetHeader(CallerHeader)

		if caller == "" && c.Request.Method != http.MethodGet {
			c.AbortWithStatusJSON(http.StatusForbidden, apitypes.ErrorResponse{
				Error: "缺少 " + CallerHeader + " 请求头",
			})
			return
		}

		c.Set(callerContextKey, caller)
		c.Next()
	}
}

// GetCaller 从gin上下文读取调用方身份
func GetCaller(c *gin.Context) types.Identity {
	return types.Identity(c.GetString(callerContextKey))
}
