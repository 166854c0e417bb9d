// Package apidoc は手書きの OpenAPI 定義を埋め込み、Swagger UI と一緒に配信する。
package apidoc

import (
	_ "embed"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const SpecPath = "/openapi.yaml"

//go:embed openapi.yaml
var spec []byte

// Spec は埋め込まれた OpenAPI (YAML)。
func Spec() []byte { return spec }

// RegisterRoutes は /openapi.yaml と /swagger/*any を登録する（devモードのみ呼ぶ想定）。
func RegisterRoutes(r gin.IRoutes) {
	r.GET(SpecPath, func(c *gin.Context) {
		c.Data(http.StatusOK, "application/yaml; charset=utf-8", spec)
	})
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL(SpecPath)))
}
