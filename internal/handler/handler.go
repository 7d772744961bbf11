package handler

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/shiftwise-dev/roster/backend/internal/config"
	"github.com/shiftwise-dev/roster/backend/internal/domain"
	"github.com/shiftwise-dev/roster/backend/internal/repository"
)

type Handler struct {
	validate            *validator.Validate
	config              *config.Config
	repository          *repository.Repository
	translator          ut.Translator
	notificationChannel *amqp.Channel
	redisClient         *redis.Client

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo *repository.Repository, notifyCh *amqp.Channel, rdb *redis.Client) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	zh := zh.New()
	uni := ut.New(zh, zh)
	trans, _ := uni.GetTranslator("zh")
	if err := zh_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:            validate,
		config:              cfg,
		repository:          repo,
		translator:          trans,
		notificationChannel: notifyCh,
		redisClient:         rdb,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	// 认证相关
	h.Mux.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
		r.Route("/reset-password", func(r chi.Router) {
			r.Post("/require", h.RequireResetPassword)
			r.Post("/confirm", h.ConfirmResetPassword)
		})
	})

	// 以下 API 必须要在登录后才允许调用
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Route("/my-info", func(r chi.Router) {
			r.Use(h.myInfo)
			r.Get("/", h.GetMyInfo)
			r.Patch("/password", h.UpdateMyPassword)
		})

		r.Route("/employees", func(r chi.Router) {
			r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Post("/", h.CreateEmployee)
			r.Get("/", h.GetAllEmployees)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.employeeInfo)
				r.Get("/", h.GetEmployee)
				r.With(h.preventOperateInitialAdmin).With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Patch("/", h.UpdateEmployee)
				r.With(h.preventOperateInitialAdmin).With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Delete("/", h.DeleteEmployee)
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin, domain.RoleManager})).Post("/availability", h.CreateAvailabilityRecord)
			})
		})

		r.Route("/blueprints", func(r chi.Router) {
			r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin, domain.RoleManager})).Post("/", h.CreateBlueprint)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.blueprintInfo)
				r.Get("/", h.GetBlueprint)
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin, domain.RoleManager})).Patch("/", h.UpdateBlueprint)
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin, domain.RoleManager})).Post("/deactivate", h.DeactivateBlueprint)
			})
		})

		r.Route("/locations/{id}", func(r chi.Router) {
			r.Use(h.locationInfo)
			r.Get("/blueprints", h.GetLocationBlueprints)
			r.Get("/occurrences", h.GetLocationOccurrences)
			r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin, domain.RoleManager})).Post("/generate", h.GenerateOccurrences)
		})

		r.Route("/occurrences/{id}", func(r chi.Router) {
			r.Use(h.occurrenceInfo)
			r.Get("/", h.GetOccurrence)
			r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin, domain.RoleManager})).Patch("/note", h.UpdateOccurrenceNote)
			r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin, domain.RoleManager})).Delete("/", h.DeleteOccurrence)
			r.Get("/capacity", h.GetOccurrenceCapacity)
			r.Get("/assignments", h.GetOccurrenceAssignments)
			r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin, domain.RoleManager})).Post("/assignments", h.AssignEmployee)
			r.Post("/candidates", h.RankCandidates)
		})

		r.Route("/assignments/{id}", func(r chi.Router) {
			r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin, domain.RoleManager})).Delete("/", h.RemoveAssignment)
			r.Post("/confirm", h.ConfirmAssignment)
		})
	})
}
