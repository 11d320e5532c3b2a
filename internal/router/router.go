package router

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/break-dev/BlackSilver-sub000/internal/config"
	"github.com/break-dev/BlackSilver-sub000/internal/handler"
	"github.com/break-dev/BlackSilver-sub000/internal/infra"
	"github.com/break-dev/BlackSilver-sub000/internal/middleware"
	"github.com/break-dev/BlackSilver-sub000/internal/model"
	"github.com/break-dev/BlackSilver-sub000/internal/repository"
	"github.com/break-dev/BlackSilver-sub000/internal/service"
)

// New arma el engine del stub con la semilla ya sembrada.
// Grafo de dependencias: Handler ← Service ← Repository (en memoria)
func New(cfg *config.Config, semilla *repository.Semilla) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Cadena global de middleware (el orden importa)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.CORSOrigins()))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute))

	// ── Servicios ────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(semilla.Usuarios, cfg)
	reqSvc := service.NewRequerimientoService(semilla.Requerimientos, semilla.Catalogo)
	atencionSvc := service.NewAtencionService(semilla.Requerimientos, semilla.Lotes)

	notas := infra.NewGeneradorNotas(cfg.PDFStoragePath)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	reqsH := handler.NewRequerimientosHandler(reqSvc, semilla.Usuarios)
	atencionH := handler.NewAtencionHandler(atencionSvc, reqSvc, semilla.Usuarios, notas)

	// ── Rutas ────────────────────────────────────────────────────────────────

	r.GET("/health", handler.Health())

	r.POST("/auth/login", middleware.LoginRateLimiter(), authH.Login)

	jwtMW := middleware.JWTAuth(cfg.JWTSecret)

	r.GET("/auth/menu", jwtMW, authH.Menu)

	reqs := r.Group("/requerimientos", jwtMW)
	{
		reqs.GET("", middleware.RequireRol(model.RolSolicitante, model.RolAdministrador), reqsH.Listar)
		reqs.POST("/crear", middleware.RequireRol(model.RolSolicitante, model.RolAdministrador), reqsH.Crear)
		// Lectura del detalle: todo rol autenticado, la vista de atención
		// también la usa para recargar tras cada transición.
		reqs.POST("/obtener-por-id", reqsH.ObtenerPorID)
		reqs.POST("/detalle/trazabilidad", reqsH.Trazabilidad)

		atencion := reqs.Group("/atencion", middleware.RequireRol(model.RolAlmacenero, model.RolAdministrador))
		{
			atencion.POST("/obtener-pendientes", atencionH.ObtenerPendientes)
			atencion.POST("/cambiar-estado-detalle", atencionH.CambiarEstadoDetalle)
			atencion.POST("/obtener-lotes-disponibles", atencionH.ObtenerLotes)
			atencion.POST("/registrar-entrega", atencionH.RegistrarEntrega)
			atencion.POST("/finalizar", atencionH.Finalizar)
		}
	}

	return r
}
