package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"machflow/internal/api"
	"machflow/internal/api/middleware"
	"machflow/pkg/factory"
)

func main() {
	appFactory, err := factory.NewFactory()
	if err != nil {
		fmt.Printf("Factory oluşturulamadı: %v\n", err)
		os.Exit(1)
	}
	defer appFactory.Close()

	log := appFactory.GetLogger()
	cfg := appFactory.GetConfig()

	log.Info("Uygulama başlatılıyor", map[string]interface{}{"env": cfg.AppEnv})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := appFactory.GetSeedService().Run(ctx); err != nil {
		log.Fatal("Depo tohumlanamadı", map[string]interface{}{"error": err.Error()})
	}

	if err := appFactory.GetUserRepository().Load(); err != nil {
		log.Fatal("Kullanıcılar yüklenemedi", map[string]interface{}{"error": err.Error()})
	}
	if err := appFactory.GetInteractionRepository().Load(); err != nil {
		log.Fatal("Etkileşimler yüklenemedi", map[string]interface{}{"error": err.Error()})
	}

	// İlk sipariş kuyruğu, eşitleme döngüsünü beklemeden işlenir.
	if _, err := appFactory.GetIngestionService().Ingest(ctx); err != nil {
		log.Error("Başlangıç sipariş kuyruğu işlenemedi", map[string]interface{}{"error": err.Error()})
	}

	appFactory.GetReconciler().Start(ctx)

	userHandler := api.NewUserHandler(appFactory.GetUserService(), log)
	orderHandler := api.NewOrderHandler(appFactory.GetOrderService(), log)
	statsHandler := api.NewStatsHandler(appFactory.GetStatsService(), appFactory.GetReconciler(), log)
	notificationHandler := api.NewNotificationHandler(appFactory.GetDispatcher(), log)
	healthHandler := api.NewHealthHandler(appFactory, log)

	mux := http.NewServeMux()

	userHandler.RegisterRoutes(mux)
	orderHandler.RegisterRoutes(mux)
	statsHandler.RegisterRoutes(mux)
	notificationHandler.RegisterRoutes(mux)
	healthHandler.RegisterRoutes(mux)

	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("Machflow API'ye Hoş Geldiniz!"))
	})

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: middleware.MetricsMiddleware(mux),
	}

	go func() {
		log.Info("HTTP sunucusu başlatılıyor", map[string]interface{}{"port": cfg.Server.Port})

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP sunucusu başlatılamadı", map[string]interface{}{"error": err.Error()})
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Sunucu kapatılıyor...", map[string]interface{}{})
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Sunucu kapatılırken hata oluştu", map[string]interface{}{"error": err.Error()})
	}

	log.Info("Sunucu başarıyla kapatıldı", map[string]interface{}{})
}
