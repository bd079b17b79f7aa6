package router

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"rates_backend/internal/api"
	rateshandler "rates_backend/internal/feature/rates/transport/handler"
	"rates_backend/internal/platform/apikey"
	"rates_backend/internal/platform/http/handler"
	"rates_backend/internal/platform/requestid"
)

// NewRouter はHTTPルータを構築します。secretが空の場合、/ratesは認証なしで公開されます。
func NewRouter(secret string, rates *rateshandler.RatesHandler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger())
	// パニックもJSONの500に変換し、リクエストを未応答のまま終わらせない
	r.Use(gin.CustomRecovery(func(c *gin.Context, err any) {
		c.AbortWithStatusJSON(http.StatusInternalServerError, api.ErrorResponse{Error: fmt.Sprint(err)})
	}))
	r.Use(requestid.New())

	// 認証不要
	// 導通確認用
	r.GET("/healthz", handler.Health)

	// 共有シークレット必須のルート（シークレット未設定時は素通し）
	auth := r.Group("/")
	auth.Use(apikey.Required(secret))
	{
		// ping・live・バッチの全モードを単一エンドポイントで多重化
		auth.GET("/rates", rates.GetRates)
	}

	return r
}
