package api

import (
	"errors"
	"fmt"

	"sectoralpha/internal/app"
	"sectoralpha/internal/domain"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ApiHandler struct {
	PickHandler     app.PickHandler
	BacktestHandler app.BacktestHandler
	Logger          *zap.SugaredLogger
}

func (m ApiHandler) StartApi(port int) error {
	router := gin.Default()
	router.Use(cors.Default())

	router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(200, map[string]string{"message": "welcome to sectoralpha"})
	})
	router.POST("/pick", m.pick)
	router.POST("/backtest", m.backtest)

	return router.Run(fmt.Sprintf(":%d", port))
}

// returnErrorJson maps the error taxonomy onto status codes: caller-input
// mistakes are 400s, data-availability problems are 502s, everything else
// is a 500.
func returnErrorJson(err error, c *gin.Context) {
	code := 500
	if domain.IsCallerError(err) {
		code = 400
	} else {
		var unavailable domain.DataUnavailableError
		if errors.As(err, &unavailable) {
			code = 502
		}
	}
	returnErrorJsonCode(err, c, code)
}

func returnErrorJsonCode(err error, c *gin.Context, code int) {
	c.AbortWithStatusJSON(code, gin.H{
		"error": err.Error(),
	})
}
