// Package devprocessmanager предоставляет маршруты для основного приложения.
package devprocessmanager

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/devprocess-manager/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/devprocess-manager/internal/http/handlers/auth/register"
	clientcreate "github.com/magabrotheeeer/devprocess-manager/internal/http/handlers/client/create"
	clientlist "github.com/magabrotheeeer/devprocess-manager/internal/http/handlers/client/list"
	clientread "github.com/magabrotheeeer/devprocess-manager/internal/http/handlers/client/read"
	clientremove "github.com/magabrotheeeer/devprocess-manager/internal/http/handlers/client/remove"
	clientupdate "github.com/magabrotheeeer/devprocess-manager/internal/http/handlers/client/update"
	projectcreate "github.com/magabrotheeeer/devprocess-manager/internal/http/handlers/project/create"
	projectlist "github.com/magabrotheeeer/devprocess-manager/internal/http/handlers/project/list"
	projectread "github.com/magabrotheeeer/devprocess-manager/internal/http/handlers/project/read"
	projectremove "github.com/magabrotheeeer/devprocess-manager/internal/http/handlers/project/remove"
	projectupdate "github.com/magabrotheeeer/devprocess-manager/internal/http/handlers/project/update"
	usercreate "github.com/magabrotheeeer/devprocess-manager/internal/http/handlers/user/create"
	userlist "github.com/magabrotheeeer/devprocess-manager/internal/http/handlers/user/list"
	userread "github.com/magabrotheeeer/devprocess-manager/internal/http/handlers/user/read"
	userremove "github.com/magabrotheeeer/devprocess-manager/internal/http/handlers/user/remove"
	userupdate "github.com/magabrotheeeer/devprocess-manager/internal/http/handlers/user/update"
	"github.com/magabrotheeeer/devprocess-manager/internal/http/middlewarectx"
	authservice "github.com/magabrotheeeer/devprocess-manager/internal/services/auth"
	clientservice "github.com/magabrotheeeer/devprocess-manager/internal/services/client"
	projectservice "github.com/magabrotheeeer/devprocess-manager/internal/services/project"
	userservice "github.com/magabrotheeeer/devprocess-manager/internal/services/user"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger,
	authService *authservice.AuthService,
	clientService *clientservice.ClientService,
	projectService *projectservice.ProjectService,
	userService *userservice.UserService,
) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
		middlewarectx.MetricsMiddleware,
	)

	limiter := rate.NewLimiter(rate.Limit(100), 200)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/auth/register", register.New(logger, authService).ServeHTTP)
		r.Post("/auth/login", login.New(logger, authService).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(authService, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger, limiter))

			r.Post("/clients", clientcreate.New(logger, clientService).ServeHTTP)
			r.Get("/clients", clientlist.New(logger, clientService).ServeHTTP)
			r.Get("/clients/{id}", clientread.New(logger, clientService).ServeHTTP)
			r.Put("/clients/{id}", clientupdate.New(logger, clientService).ServeHTTP)
			r.Delete("/clients/{id}", clientremove.New(logger, clientService).ServeHTTP)

			r.Post("/projects", projectcreate.New(logger, projectService).ServeHTTP)
			r.Get("/projects", projectlist.New(logger, projectService).ServeHTTP)
			r.Get("/projects/{id}", projectread.New(logger, projectService).ServeHTTP)
			r.Put("/projects/{id}", projectupdate.New(logger, projectService).ServeHTTP)
			r.Delete("/projects/{id}", projectremove.New(logger, projectService).ServeHTTP)

			r.Post("/users", usercreate.New(logger, userService).ServeHTTP)
			r.Get("/users", userlist.New(logger, userService).ServeHTTP)
			r.Get("/users/{id}", userread.New(logger, userService).ServeHTTP)
			r.Put("/users/{id}", userupdate.New(logger, userService).ServeHTTP)
			r.Delete("/users/{id}", userremove.New(logger, userService).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
