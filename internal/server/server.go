package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/roy777rajat/my-photo-app/internal/config"
	"github.com/roy777rajat/my-photo-app/internal/domain"
	"github.com/roy777rajat/my-photo-app/internal/handler"
	"github.com/roy777rajat/my-photo-app/internal/repository"
	"github.com/roy777rajat/my-photo-app/internal/service"
	"github.com/roy777rajat/my-photo-app/internal/session"
)

type Server struct {
	httpServer *http.Server
	cfg        *config.Config
	log        *zap.Logger
}

// New wires the stores, services and routes. The object store must be
// reachable or startup fails; a missing catalog table degrades the catalog
// features instead of failing, per the blob-only upload policy.
func New(cfg *config.Config, log *zap.Logger) (*Server, error) {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	router.LoadHTMLGlob("web/templates/*")

	ctx := context.Background()

	awsCfg, err := repository.NewAWSConfig(ctx, &cfg.AWS)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	objects := repository.NewS3Repository(awsCfg, &cfg.AWS, log)
	if err := objects.Ping(ctx); err != nil {
		return nil, fmt.Errorf("object store unavailable: %w", err)
	}

	catalog := repository.NewCatalogRepository(awsCfg, &cfg.AWS, log)
	catalogAvailable := true
	if err := catalog.Ping(ctx); err != nil {
		if errors.Is(err, domain.ErrTableNotFound) {
			log.Warn("Catalog table not found, catalog features disabled",
				zap.String("table", cfg.AWS.TableName),
				zap.Bool("blob_only_uploads", cfg.App.AllowBlobOnlyUploads))
			catalog = nil
			catalogAvailable = false
		} else {
			return nil, fmt.Errorf("catalog store unavailable: %w", err)
		}
	}

	uploadSvc := service.NewUploadService(objects, catalog, cfg.App.DefaultUploader, log)
	gallerySvc := service.NewGalleryService(catalog, log)
	archiveSvc := service.NewArchiveService(objects, log)

	h := handler.NewHandler(uploadSvc, gallerySvc, archiveSvc, cfg, catalogAvailable, log)

	router.Use(session.Middleware(session.NewStore()))

	router.GET("/", h.GetUI)
	router.GET("/health", h.HealthCheck)

	api := router.Group("/api")
	{
		api.POST("/photos", h.UploadPhotos)
		api.GET("/photos", h.ListPhotos)
		api.GET("/photos/archive", h.DownloadArchive)
		api.GET("/selection", h.GetSelection)
		api.POST("/selection/toggle", h.ToggleSelection)
		api.POST("/selection/all", h.ToggleSelectAll)
	}

	router.Static("/static", "./web/static")

	server := &Server{
		httpServer: &http.Server{
			Addr:        cfg.Server.Host + ":" + cfg.Server.Port,
			Handler:     router,
			ReadTimeout: 30 * time.Second,
			// Archive downloads can take a while against a slow store.
			WriteTimeout:   120 * time.Second,
			MaxHeaderBytes: 1 << 20, // 1 MB
		},
		cfg: cfg,
		log: log,
	}

	log.Info("Server created successfully",
		zap.String("host", cfg.Server.Host),
		zap.String("port", cfg.Server.Port),
		zap.Bool("catalog_available", catalogAvailable))

	return server, nil
}

func (s *Server) Run() error {
	s.log.Info("Server is running",
		zap.String("address", s.httpServer.Addr))

	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("Shutting down server")
	return s.httpServer.Shutdown(ctx)
}
