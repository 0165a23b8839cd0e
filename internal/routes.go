package internal

import (
	"net/http"

	"hrvd/internal/controllers"
	"hrvd/internal/providers"
	"hrvd/internal/structures"
)

func InitRoutes(authController *controllers.AuthController, hrvController *controllers.HrvController, conf *structures.Config) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Get("/login/{user}", http.HandlerFunc(authController.Login))
	routers.Get("/callback/{user}", http.HandlerFunc(authController.Callback))
	routers.Get("/hrv/{user}", http.HandlerFunc(hrvController.Get))
	return routers
}
