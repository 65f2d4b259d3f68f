package router

import "github.com/gin-gonic/gin"

// Registry collects feature modules and mounts each of them twice: under
// /api and at the root, so /api/users and /users serve the same handlers.
type Registry struct {
	Engine      *gin.Engine
	API         *gin.RouterGroup
	Root        *gin.RouterGroup
	middlewares []gin.HandlerFunc
	modules     []Module
	system      []Module
}

func NewRegistry(engine *gin.Engine) *Registry {
	return &Registry{
		Engine: engine,
		API:    engine.Group("/api"),
		Root:   engine.Group("/"),
	}
}

// Use adds middleware to the API groups only; system routes skip it.
func (r *Registry) Use(mw ...gin.HandlerFunc) {
	r.middlewares = append(r.middlewares, mw...)
}

func (r *Registry) Add(mod Module) {
	r.modules = append(r.modules, mod)
}

// AddSystem registers a module once, on the bare engine.
func (r *Registry) AddSystem(mod Module) {
	r.system = append(r.system, mod)
}

func (r *Registry) RegisterAll() {
	if len(r.middlewares) > 0 {
		r.API.Use(r.middlewares...)
		r.Root.Use(r.middlewares...)
	}
	for _, m := range r.modules {
		m.Register(r.API)
		m.Register(r.Root)
	}
	base := &r.Engine.RouterGroup
	for _, m := range r.system {
		m.Register(base)
	}
}
