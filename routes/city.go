package routes

import (
	"flynext-server/services"
	"flynext-server/utils"

	"github.com/kataras/iris/v12"
)

func GetCities(ctx iris.Context) {
	cities, err := services.GetCities(ctx.Request().Context())
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{
		"success": true,
		"data":    cities,
	})
}
