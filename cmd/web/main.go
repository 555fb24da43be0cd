// @title           nopo API
// @version         1.0
// @description     API отзывов о ресторанах: отзывы с картинками, рейтинги, профиль пользователя.
// @contact.name    nopo team
// @license.name    MIT
// @license.url     https://opensource.org/licenses/MIT
// @BasePath        /

// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
// @description                "Bearer <access_token>"

package main

import (
	_ "nopo_backend/docs"
	"nopo_backend/internal/app"
)

func main() {
	app.Run()
}
