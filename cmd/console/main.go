package main

import (
	"log"

	"github.com/clipdeck/clipdeck/internal/config"
	"github.com/clipdeck/clipdeck/internal/server"
	"github.com/clipdeck/clipdeck/pkg/db/postgres"
	"github.com/clipdeck/clipdeck/pkg/db/redis"
	"github.com/clipdeck/clipdeck/pkg/logger"
)

func main() {
	log.Println("Starting console")
	configFile := "config.yml"
	cfgFile, err := config.LoadConfig(configFile)
	if err != nil {
		log.Fatalf("loadConfig: %v", err)
	}
	cfg, err := config.ParseConfig(cfgFile)
	if err != nil {
		log.Fatalf("parseConfig: %v", err)
	}
	appLogger := logger.NewApiLogger(cfg)
	appLogger.InitLogger()
	appLogger.Infof("AppVersion: %s, LogLevel: %s, Mode: %s", cfg.Server.AppVersion, cfg.Logger.Level, cfg.Server.Mode)

	psqlDB, err := postgres.NewPsqlDB(cfg)
	if err != nil {
		appLogger.Warnf("could not connect to postgres, job history disabled: %s", err)
	} else {
		appLogger.Infof("postgres connected, status: %#v", psqlDB.Stats())
		defer psqlDB.Close()
	}

	redisClient, err := redis.NewRedisClient(cfg)
	if err != nil {
		appLogger.Warnf("could not connect to redis, snapshot cache disabled: %s", err)
	} else {
		appLogger.Infof("redis connected")
		defer redisClient.Close()
	}

	s := server.NewServer(cfg, psqlDB, redisClient, appLogger)
	if err = s.Run(); err != nil {
		appLogger.Fatalf("could not start server: %s", err)
	}
}
