package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/berfenger/hybridplant/internal/config"

	"github.com/asynkron/protoactor-go/actor"
	_ "github.com/joho/godotenv/autoload"
)

const (
	REQUEST_TIMEOUT     = 5 * time.Second
	HEALTHCHECK_TIMEOUT = 10 * time.Second
)

type Server struct {
	port           uint
	httpLog        bool
	config         config.Config
	rootContext    *actor.RootContext
	masterActor    *actor.PID
	requestTimeout time.Duration
}

func NewServer(cfg config.Config, rootContext *actor.RootContext, masterActor *actor.PID) *http.Server {
	NewServer := &Server{
		port:           cfg.Port,
		rootContext:    rootContext,
		masterActor:    masterActor,
		httpLog:        cfg.HttpLog,
		config:         cfg,
		requestTimeout: REQUEST_TIMEOUT,
	}

	// Declare Server config
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", NewServer.port),
		Handler:      NewServer.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return server
}
