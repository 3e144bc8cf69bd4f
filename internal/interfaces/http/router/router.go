// Package router mounts the catalogue API route groups on a gin engine.
package router

import (
	"github.com/gin-gonic/gin"
)

// Access is the least privilege a route requires
type Access int

const (
	Public Access = iota
	Authenticated
	Admin
)

// Guards are the access middleware placed in front of protected routes.
// Authenticate attaches the caller identity; RequireAdmin rejects non-admins.
// A nil guard is skipped.
type Guards struct {
	Authenticate gin.HandlerFunc
	RequireAdmin gin.HandlerFunc
}

func (g Guards) chain(access Access) []gin.HandlerFunc {
	switch access {
	case Authenticated:
		return compact(g.Authenticate)
	case Admin:
		return compact(g.Authenticate, g.RequireAdmin)
	}
	return nil
}

// Route is one endpoint of a Group
type Route struct {
	Method  string
	Path    string
	Access  Access
	Handler gin.HandlerFunc
}

// Group is a set of routes under a common prefix. Access raises the floor
// for every route of the group.
type Group struct {
	Name   string
	Prefix string
	Access Access
	Routes []Route
}

// Router mounts groups under /api/<version>
type Router struct {
	engine     *gin.Engine
	apiVersion string
	guards     Guards
	middleware []gin.HandlerFunc
	groups     []Group
}

// RouterOption configures a Router
type RouterOption func(*Router)

// WithAPIVersion sets the version segment of the prefix, "v1" by default
func WithAPIVersion(version string) RouterOption {
	return func(r *Router) {
		r.apiVersion = version
	}
}

// WithGuards sets the middleware enforcing route access
func WithGuards(g Guards) RouterOption {
	return func(r *Router) {
		r.guards = g
	}
}

// NewRouter creates a router for engine
func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{engine: engine, apiVersion: "v1"}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Use adds middleware run before every versioned route
func (r *Router) Use(middleware ...gin.HandlerFunc) *Router {
	r.middleware = append(r.middleware, compact(middleware...)...)
	return r
}

// Mount queues groups for Setup
func (r *Router) Mount(groups ...Group) *Router {
	r.groups = append(r.groups, groups...)
	return r
}

// Setup registers every queued route on the engine and returns the
// versioned group
func (r *Router) Setup() *gin.RouterGroup {
	api := r.engine.Group("/api/" + r.apiVersion)
	api.Use(r.middleware...)
	for _, g := range r.groups {
		rg := api.Group(g.Prefix)
		for _, route := range g.Routes {
			handlers := append(r.guards.chain(max(g.Access, route.Access)), route.Handler)
			rg.Handle(route.Method, route.Path, handlers...)
		}
	}
	return api
}

func compact(handlers ...gin.HandlerFunc) []gin.HandlerFunc {
	out := make([]gin.HandlerFunc, 0, len(handlers))
	for _, h := range handlers {
		if h != nil {
			out = append(out, h)
		}
	}
	return out
}
