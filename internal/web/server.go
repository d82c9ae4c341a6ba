package web

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/geoproc/internal/corrections"
	"github.com/geoproc/internal/dataset"
	"github.com/geoproc/internal/geocode"
	"github.com/geoproc/internal/relay"
	"github.com/geoproc/internal/web/handlers"
	"github.com/geoproc/internal/web/middleware"
	"github.com/geoproc/internal/workflow"
)

// Server represents the web server
type Server struct {
	config      *Config
	session     *handlers.Session
	corrections *corrections.Repository
	httpServer  *http.Server
	router      *mux.Router
}

// NewServer creates a new web server instance
func NewServer(config *Config) (*Server, error) {
	store := dataset.NewStore()
	geocoder := geocode.NewClient(config.Upstream.GeocodeURL, config.Upstream.GeocodeAPIKey)
	geocoder.Debug = config.Debug

	// The corrections database is optional; without it fixes only live
	// in the loaded dataset
	var repo *corrections.Repository
	if config.Database.URL != "" {
		var err error
		repo, err = corrections.Open(config.Database.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to corrections database: %w", err)
		}
	}

	var sink workflow.FixSink
	if repo != nil {
		sink = repo
	}

	server := &Server{
		config: config,
		session: &handlers.Session{
			Store:    store,
			Workflow: workflow.New(store, geocoder, sink),
		},
		corrections: repo,
	}

	server.setupRoutes(geocoder)

	server.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port),
		Handler:      server.router,
		// Uploads wait on the processing relay, which can take minutes
		// for large spreadsheets
		ReadTimeout:  15 * time.Minute,
		WriteTimeout: 15 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	return server, nil
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes(geocoder *geocode.Client) {
	s.router = mux.NewRouter()

	// Convert config for handlers (to avoid import cycle)
	handlerConfig := &handlers.Config{}
	handlerConfig.Features.ExportEnabled = s.config.Features.ExportEnabled
	handlerConfig.Features.ManualOverrideEnabled = s.config.Features.ManualOverrideEnabled

	relayClient := relay.NewClient(s.config.Upstream.RelayURL)
	relayClient.Debug = s.config.Debug

	apiHandler := &handlers.APIHandler{Session: s.session, Config: handlerConfig}
	uploadHandler := &handlers.UploadHandler{
		Session: s.session,
		Relay:   relayClient,
		Config:  handlerConfig,
	}
	recordsHandler := &handlers.RecordsHandler{Session: s.session, Config: handlerConfig}
	searchHandler := &handlers.SearchHandler{Geocoder: geocoder, Config: handlerConfig}
	exportHandler := &handlers.ExportHandler{Session: s.session, Config: handlerConfig}

	// API routes
	api := s.router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/upload", uploadHandler.Upload).Methods("POST")
	api.HandleFunc("/records", recordsHandler.ListRecords).Methods("GET")
	api.HandleFunc("/stats", apiHandler.GetStats).Methods("GET")
	api.HandleFunc("/search", searchHandler.Search).Methods("GET")

	// Modification endpoints (if features enabled)
	if s.config.Features.ManualOverrideEnabled {
		api.HandleFunc("/records/{index:[0-9]+}", recordsHandler.UpdateRecord).Methods("PATCH")
		api.HandleFunc("/records/{index:[0-9]+}", recordsHandler.DeleteRecord).Methods("DELETE")
		api.HandleFunc("/records/{index:[0-9]+}/fix", recordsHandler.FixRecord).Methods("POST")
	}

	// Export endpoints (if enabled)
	if s.config.Features.ExportEnabled {
		api.HandleFunc("/export/circuit", exportHandler.ExportCircuit).Methods("GET")
		api.HandleFunc("/export/workbook", exportHandler.ExportWorkbook).Methods("GET")
	}

	// Static file serving
	staticDir := "internal/web/static"
	if _, err := os.Stat(staticDir); err == nil {
		s.router.PathPrefix("/").Handler(http.FileServer(http.Dir(staticDir + "/")))
	}

	// Apply middleware
	s.router.Use(middleware.CORS())
	s.router.Use(middleware.RequestLogging())
}

// Start starts the web server
func (s *Server) Start() error {
	// Setup graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	// Start server in background
	go func() {
		fmt.Printf("Starting server on http://%s\n", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Printf("Server error: %v\n", err)
		}
	}()

	// Wait for shutdown signal
	<-stop
	fmt.Println("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		fmt.Printf("Server shutdown error: %v\n", err)
	}

	if s.corrections != nil {
		if err := s.corrections.Close(); err != nil {
			fmt.Printf("Database close error: %v\n", err)
		}
	}

	fmt.Println("Server stopped")
	return nil
}
