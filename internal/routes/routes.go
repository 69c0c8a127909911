package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/campuscard/card_backend/internal/anomaly"
	"github.com/campuscard/card_backend/internal/config"
	"github.com/campuscard/card_backend/internal/controllers"
	"github.com/campuscard/card_backend/internal/middleware"
	"github.com/campuscard/card_backend/internal/notify"
	"github.com/campuscard/card_backend/internal/ws"
)

// Deps carries the optional runtime pieces: nil detector disables /predict
// and ingestion flagging, nil hub/notifier disable their push channels.
type Deps struct {
	Detector *anomaly.Detector
	Hub      *ws.TelemetryHub
	Notifier *notify.Telegram
	Logger   *zap.Logger
}

func Register(r *gin.Engine, db *gorm.DB, cfg *config.Config, deps Deps) {
	expiresMins, err := time.ParseDuration(cfg.JWTExpiresIn + "m")
	if err != nil || expiresMins == 0 {
		expiresMins = 60 * time.Minute
	}

	studentCtrl := &controllers.StudentController{DB: db}
	txCtrl := &controllers.TransactionController{DB: db}
	sysCtrl := &controllers.SystemController{DB: db}
	telemetryCtrl := &controllers.TelemetryController{
		DB:       db,
		Detector: deps.Detector,
		Hub:      deps.Hub,
		Notifier: deps.Notifier,
		Log:      deps.Logger,
	}
	authCtrl := &controllers.AuthController{DB: db, JWTSecret: cfg.JWTSecret, ExpiresIn: expiresMins}

	// Card and reader endpoints. These stay open: readers authenticate at
	// the network layer, not per request.
	r.POST("/register_student", studentCtrl.Register)
	r.GET("/students", studentCtrl.List)
	r.POST("/update_status", studentCtrl.UpdateStatus)
	r.POST("/block_card", studentCtrl.BlockCard)
	r.POST("/unblock_card", studentCtrl.UnblockCard)
	r.POST("/unregister_card", studentCtrl.UnregisterCard)
	r.POST("/recharge_card", studentCtrl.Recharge)

	r.POST("/log_transaction", txCtrl.LogTransaction)
	r.GET("/recent_transactions", txCtrl.Recent)

	r.GET("/anomalies_dashboard", sysCtrl.Dashboard)
	r.POST("/reset_system", sysCtrl.Reset)

	r.GET("/system_logs", telemetryCtrl.List)
	r.POST("/system_logs", telemetryCtrl.Create)
	r.GET("/anomalies", telemetryCtrl.ListAnomalies)
	r.POST("/predict", telemetryCtrl.Predict)

	// Operator console.
	r.POST("/api/auth/login", authCtrl.Login)

	authMW := middleware.AuthMiddleware(db, middleware.AuthConfig{
		JWTSecret:    cfg.JWTSecret,
		JWTExpiresIn: expiresMins,
	})
	api := r.Group("/api", authMW)
	{
		api.GET("/auth/me", authCtrl.Me)
		api.POST("/auth/logout", authCtrl.Logout)
	}

	if deps.Hub != nil {
		r.GET("/ws/telemetry", authMW, ws.TelemetryHandler(deps.Hub))
	}
}
