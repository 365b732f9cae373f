package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/muz4miL/academia-ledger/internal/config"
	"github.com/muz4miL/academia-ledger/internal/handler"
	"github.com/muz4miL/academia-ledger/internal/middleware"
	"github.com/muz4miL/academia-ledger/internal/repository"
	"github.com/muz4miL/academia-ledger/internal/service"
	"github.com/muz4miL/academia-ledger/pkg/database"
	"github.com/muz4miL/academia-ledger/pkg/logger"
	"github.com/muz4miL/academia-ledger/pkg/redis"
)

func main() {
	cfg := config.Load()

	var log *zap.Logger
	if cfg.IsDevelopment() {
		log = logger.NewDevelopmentLogger("academia-ledger")
	} else {
		log = logger.NewLogger("academia-ledger")
	}
	defer log.Sync()

	db, err := database.NewPostgresDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	store := repository.NewStore(db.DB)
	if err := store.Migrate(context.Background()); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	var cache *redis.Client
	if cfg.RedisAddr != "" {
		cache = redis.NewClient(cfg.RedisAddr)
		defer cache.Close()
	}

	ledger := service.NewLedgerService(store, log)
	wallet := service.NewWalletService(store, log)
	distributor := service.NewDistributionService(store, cache, log)
	payouts := service.NewPayoutService(store, wallet, log)
	closings := service.NewClosingService(store, log)
	payroll := service.NewPayrollService(store, log)
	expenses := service.NewExpenseService(store, log)
	recon := service.NewReconciliationService(store, distributor, log)
	stats := service.NewStatsService(store, log)

	financeHandler := handler.NewFinanceHandler(ledger, distributor, wallet, payouts, closings, payroll, recon, stats, log)
	expenseHandler := handler.NewExpenseHandler(expenses, financeHandler, log)

	router := setupRouter(financeHandler, expenseHandler, log)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("starting academia ledger service", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("server forced to shutdown", zap.Error(err))
	}

	log.Info("server exited")
}

func setupRouter(finance *handler.FinanceHandler, expenses *handler.ExpenseHandler, log *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(middleware.Recovery(log))
	router.Use(middleware.CORS())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	router.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		fees := v1.Group("/fees")
		{
			fees.POST("/:id/distribute", finance.DistributeFee)
		}

		ledger := v1.Group("/ledger")
		{
			ledger.GET("/floating", finance.ListFloating)
			ledger.POST("/transactions/:id/void", finance.VoidTransaction)
		}

		wallets := v1.Group("/wallets")
		{
			wallets.GET("/:account/balance", finance.GetBalance)
			wallets.GET("/:account/vouchers", finance.ListVouchers)
		}

		payroll := v1.Group("/payroll")
		{
			payroll.POST("/payouts", finance.CreatePayout)
			payroll.POST("/accruals", finance.AccrueSalary)
		}

		closings := v1.Group("/closings")
		{
			closings.POST("", finance.CloseDay)
			closings.GET("", finance.ListClosings)
		}

		expense := v1.Group("/expenses")
		{
			expense.POST("", expenses.Create)
			expense.GET("", expenses.List)
			expense.POST("/:id/pay", expenses.MarkPaid)
			expense.DELETE("/:id", expenses.Delete)
		}

		stats := v1.Group("/stats")
		{
			stats.GET("/summary", finance.GetSummary)
			stats.GET("/liabilities", finance.ListLiabilities)
		}

		recon := v1.Group("/reconciliation")
		{
			recon.POST("/repair", finance.RepairDistributions)
			recon.POST("/verify", finance.VerifyLedger)
		}
	}

	return router
}
