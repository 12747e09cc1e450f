// Package main (in api-subfolder) provides launch of the HTTP API
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/UnendingLoop/PixelVault/internal/kafka"
	"github.com/UnendingLoop/PixelVault/internal/mwlogger"
	"github.com/UnendingLoop/PixelVault/internal/repository"
	"github.com/UnendingLoop/PixelVault/internal/restorer"
	"github.com/UnendingLoop/PixelVault/internal/service"
	"github.com/UnendingLoop/PixelVault/internal/storage"
	"github.com/UnendingLoop/PixelVault/internal/transport"
	"github.com/wb-go/wbf/config"
	"github.com/wb-go/wbf/dbpg"
	"github.com/wb-go/wbf/ginext"
	wbfkafka "github.com/wb-go/wbf/kafka"
	"github.com/wb-go/wbf/zlog"
)

func main() {
	// инициализировать конфиг/ считать энвы
	appConfig := config.New()
	appConfig.EnableEnv("")
	if err := appConfig.LoadEnvFiles("./.env"); err != nil {
		log.Fatalf("Failed to load envs: %s\nExiting app...", err)
	}

	// стартуем логгер
	zlog.InitConsole()
	if err := zlog.SetLevel(getOr(appConfig, "LOG_LEVEL", "info")); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	// готовим заранее слушатель прерываний - контекст для всего приложения
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// подключиться к базе
	dbConn := repository.ConnectWithRetries(appConfig, 5, 10*time.Second)
	// накатываем миграцию
	repository.MigrateWithRetries(dbConn.Master, getOr(appConfig, "MIGRATIONS_PATH", "./migrations"), 10, 15*time.Second)
	// создаем экземпляр репо
	repo := repository.NewPostgresImageRepo(dbConn)

	// клиент генеративной модели
	aiTimeout, err := time.ParseDuration(getOr(appConfig, "AI_TIMEOUT", "60s"))
	if err != nil {
		log.Fatalf("Incorrect AI_TIMEOUT: %v", err)
	}
	rst, err := restorer.NewGeminiRestorer(ctx, restorer.Config{
		APIKey:  appConfig.GetString("GEMINI_API_KEY"),
		Model:   getOr(appConfig, "GEMINI_MODEL", restorer.DefaultModel),
		Timeout: aiTimeout,
	})
	if err != nil {
		log.Fatalf("Failed to init restorer: %v", err)
	}

	// подключиться к хранилищу превью
	strg := storage.NewImgStorage(ctx, appConfig, 10*time.Second)
	if strg == nil {
		log.Fatalln("Interrupted before IMG-storage became available. Exiting...")
	}

	// ждем пока кафка раздуплится
	broker := appConfig.GetString("KAFKA_BROKER")
	if !kafka.WaitKafkaReady(ctx, broker, 5*time.Second) {
		log.Fatalln("Interrupted before Kafka became available. Exiting...")
	}
	// подключиться к кафке как продюсер
	topic := appConfig.GetString("KAFKA_TOPIC")
	kafka.InitKafkaTopics(ctx, broker, 10*time.Second, topic)
	pub := wbfkafka.NewProducer([]string{broker}, topic)

	// создаем экземпляр сервиса
	var svc ImageAPIService = service.NewImageService(repo, rst, pub, strg,
		getOr(appConfig, "PREVIEW_KEY", "previews/"), getOr(appConfig, "THUMB_KEY", "thumbs/"))
	// cоздаем экземпляр хендлера HTTP
	handlers := transport.NewImageHandler(svc)
	// сетапим сервер
	engine := ginext.New(appConfig.GetString("GIN_MODE"))

	engine.GET("/ping", handlers.SimplePinger)
	engine.POST("/api/upload", handlers.Upload)                      // загрузка
	engine.POST("/api/restore", handlers.Restore)                    // AI-восстановление
	engine.GET("/api/images", handlers.GetAllImages)                 // список всех картинок
	engine.GET("/api/images/:id/preview", handlers.LoadPreview)      // превью от воркера
	engine.PUT("/api/bin/:id", handlers.MoveToBin)                   // в корзину
	engine.PUT("/api/restore-from-bin/:id", handlers.RestoreFromBin) // из корзины
	engine.NoRoute(transport.SiteFallback(getOr(appConfig, "STATIC_DIR", "./public"))) // фронт с корня сайта

	srv := &http.Server{
		Addr:              ":" + getOr(appConfig, "APP_PORT", "3000"),
		Handler:           mwlogger.NewMWLogger(transport.NewCORS(engine)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Server launch
	go func() {
		log.Printf("Server running on http://localhost%s\n", srv.Addr)
		err := srv.ListenAndServe()
		if err != nil {
			switch {
			case errors.Is(err, http.ErrServerClosed):
				log.Println("Server gracefully stopping...")
			default:
				log.Printf("Server stopped: %v", err)
				stop()
			}
		}
	}()

	// ждем отмены контекста для запуска грейсфул закрытия сервера, кафки и бд
	<-ctx.Done()

	shutdown(srv, pub, dbConn)
	log.Println("Exiting API...")
}

func getOr(cfg *config.Config, key, def string) string {
	if v := cfg.GetString(key); v != "" {
		return v
	}
	return def
}

func shutdown(srv *http.Server, pub *wbfkafka.Producer, dbConn *dbpg.DB) {
	log.Println("Interrupt received!!! Starting shutdown sequence...")

	// даем текущим запросам (включая AI-вызовы) доработать
	shCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shCtx); err != nil {
		log.Println("Failed to shutdown HTTP-server gracefully:", err)
	}
	log.Println("HTTP-server stopped.")

	// Closing Kafka connection:
	if err := pub.Close(); err != nil {
		log.Println("Failed to close Kafka-writer:", err)
	}
	log.Println("Kafka-producer connection closed.")

	// Closing DB connection
	if err := dbConn.Master.Close(); err != nil {
		log.Println("Failed to close DB-conn correctly:", err)
		return
	}
	log.Println("DBconn closed")
}
