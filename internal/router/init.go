package router

import (
	"github.com/oksasatya/go-user-registration/internal/container"
	handlers "github.com/oksasatya/go-user-registration/internal/interface/http"
	"github.com/oksasatya/go-user-registration/internal/router/modules"
)

// Version is reported by the API index.
var Version = "1.0.0"

// InitModules builds the HTTP handlers from c and registers them with r.
// Call it once during startup, before RegisterAll.
func InitModules(r *Registry, c *container.Container) {
	userHandler := handlers.NewUserHandler(c.UserService, c.Logger)
	systemHandler := handlers.NewSystemHandler(c.UserService, c.Logger, c.Config.AppName, c.Config.Env, Version)

	r.Add(modules.NewUserModule(userHandler))
	r.AddSystem(modules.NewSystemModule(systemHandler, c.Registry, c.Config.MetricsEnabled))
	r.Engine.NoRoute(systemHandler.NotFound)
}
