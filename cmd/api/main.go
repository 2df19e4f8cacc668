package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"adopthub/internal/adapters/media/local"
	"adopthub/internal/platform/logger"
	"adopthub/internal/router"

	"github.com/gorilla/sessions"
	"github.com/joho/godotenv"
)

func main() {
	// .env es opcional; en deploy real las vars vienen del entorno
	_ = godotenv.Load()

	appLog := logger.NewFromEnv()

	addr := ":8080"
	if v := os.Getenv("PORT"); v != "" {
		addr = ":" + v
	}

	sessionKey := os.Getenv("SESSION_KEY")
	if sessionKey == "" {
		log.Fatal("SESSION_KEY not set")
	}

	store := sessions.NewCookieStore([]byte(sessionKey))
	store.MaxAge(86400 * 30)
	store.Options.Path = "/"
	store.Options.HttpOnly = true
	store.Options.Secure = os.Getenv("SECURE_COOKIES") == "true"

	mediaDir := os.Getenv("MEDIA_DIR")
	if mediaDir == "" {
		mediaDir = "./public/images"
	}
	mediaStore, err := local.New(mediaDir)
	if err != nil {
		log.Fatalf("media store: %v", err)
	}

	r := router.NewRouter(router.Options{
		Sessions: store,
		Media:    mediaStore,
		MediaDir: mediaDir,
		Log:      appLog,
	})

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	appLog.Info("starting server", map[string]any{"addr": addr})
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}
}
