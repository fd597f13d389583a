package main

import (
	"flag"
	"fmt"
	stdlog "log"
	"net"
	"net/http"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	importservice "github.com/openregistro/person-data-service/internal/importjob/service"
	"github.com/openregistro/person-data-service/internal/system/config"
	"github.com/openregistro/person-data-service/internal/system/constants"
	"github.com/openregistro/person-data-service/internal/system/log"
	"github.com/openregistro/person-data-service/internal/system/managers"
	"github.com/openregistro/person-data-service/internal/system/workers"
)

func main() {

	pdsHome := getPDSHome()
	const configFile = "/repository/conf/deployment.yaml"

	envFiles, _ := filepath.Glob("config/*.env")
	_ = godotenv.Load(envFiles...)

	pdsConfig, err := config.LoadConfig(pdsHome, configFile)
	if err != nil {
		stdlog.Fatalf("Failed to load configuration: %v", err)
	}

	if err := config.InitializePDSRuntime(pdsHome, pdsConfig); err != nil {
		stdlog.Fatalf("Failed to initialize runtime: %v", err)
	}

	if err := log.Init(pdsConfig.Log.LogLevel); err != nil {
		stdlog.Fatalf("Failed to initialize logger: %v", err)
	}
	logger := log.GetLogger()

	workers.StartImportWorkers(importservice.GetImportService().ExecuteImportJob)

	serverAddr := fmt.Sprintf("%s:%d", pdsConfig.Addr.Host, pdsConfig.Addr.Port)
	mux := enableCORS(initMultiplexer(), pdsConfig.Auth.CORSAllowedOrigins)

	ln, err := net.Listen("tcp", serverAddr)
	if err != nil {
		logger.Fatal("Failed to start listener", log.Error(err), log.String("addr", serverAddr))
	}
	logger.Info("Person data service started", log.String("addr", serverAddr))

	server := &http.Server{Handler: mux}
	if err := server.Serve(ln); err != nil {
		logger.Fatal("Failed to serve requests", log.Error(err))
	}
}

// initMultiplexer initializes the HTTP multiplexer and registers the services.
func initMultiplexer() *http.ServeMux {

	mux := http.NewServeMux()
	serviceManager := managers.NewServiceManager(mux)

	if err := serviceManager.RegisterServices(constants.ApiBasePath); err != nil {
		log.GetLogger().Fatal("Failed to register services", log.Error(err))
	}
	return mux
}

func enableCORS(next http.Handler, allowedOrigins []string) http.Handler {

	allowed := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = true
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if allowed["*"] {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		} else if allowed[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func getPDSHome() string {

	projectHomeFlag := flag.String("pdsHome", "", "Path to the person data service home directory")
	flag.Parse()

	if *projectHomeFlag != "" {
		return *projectHomeFlag
	}
	if env := os.Getenv("PDS_HOME"); env != "" {
		return env
	}
	wd, err := os.Getwd()
	if err != nil {
		stdlog.Fatalf("Failed to resolve working directory: %v", err)
	}
	return wd
}
