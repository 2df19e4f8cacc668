package router

import (
	"database/sql"
	"net/http"
	"os"

	memmedia "adopthub/internal/adapters/media/memory"
	mem "adopthub/internal/adapters/storage/memory"
	pg "adopthub/internal/adapters/storage/postgres"
	"adopthub/internal/domain/animals"
	"adopthub/internal/domain/species"
	"adopthub/internal/domain/users"
	"adopthub/internal/middleware"
	"adopthub/internal/platform/logger"
	"adopthub/internal/ports/media"

	_ "adopthub/docs"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/sessions"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	// Sessions puede ser nil (modo dev): el caller se inyecta vía X-Debug-*.
	Sessions sessions.Store

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	// Media store para subidas. Si es nil, in-memory.
	Media media.Store

	// MediaDir habilita el file server estático en /images.
	MediaDir string

	Log logger.Logger
}

func NewRouter(opts Options) http.Handler {
	log := opts.Log
	if log == nil {
		log = logger.NewFromEnv()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Use(middleware.SessionContext(opts.Sessions))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// Si no te pasan DB explícita, intenta por env (para dev/handoff)
	db := opts.DB
	if db == nil {
		if dsn := os.Getenv("DB_DSN"); dsn != "" {
			opened, err := pg.Open(dsn)
			if err == nil {
				db = opened
			} else {
				log.Warn("DB_DSN set but connect failed, using in-memory stores", map[string]any{"err": err.Error()})
			}
		}
	}

	var (
		recordsRepo animals.RecordRepository
		imagesRepo  animals.ImageSetRepository
		speciesRepo species.Repository
		usersRepo   users.Repository
	)

	if db != nil {
		recordsRepo = pg.NewAnimalsRepo(db)
		imagesRepo = pg.NewAnimalImagesRepo(db)
		speciesRepo = pg.NewSpeciesRepo(db)
		usersRepo = pg.NewUsersRepo(db)
	} else {
		recordsRepo, imagesRepo = mem.NewAnimalStores()
		speciesRepo = mem.NewSpeciesRepo()
		usersRepo = mem.NewUsersRepo()
	}

	mediaStore := opts.Media
	if mediaStore == nil {
		mediaStore = memmedia.New()
	}

	// Services por módulo
	animalsSvc := animals.NewService(recordsRepo, imagesRepo, mediaStore, log)
	speciesSvc := species.NewService(speciesRepo)
	usersSvc := users.NewService(usersRepo)

	// Rutas por módulo, bajo /api como el frontend espera
	r.Route("/api", func(api chi.Router) {
		animals.RegisterRoutes(api, animalsSvc, log)
		species.RegisterRoutes(api, speciesSvc, log)
		users.RegisterRoutes(api, usersSvc, opts.Sessions, log)
	})

	// Archivos subidos, servidos estáticos bajo la misma ref que guarda el store
	if opts.MediaDir != "" {
		fs := http.StripPrefix("/images/", http.FileServer(http.Dir(opts.MediaDir)))
		r.Handle("/images/*", fs)
	}

	r.Get("/swagger/*", httpSwagger.WrapHandler)

	return r
}
