package main

import (
	"flag"
	"fmt"
	"lingoquest/config"
	"lingoquest/quest"
	"lingoquest/storage"
	"lingoquest/tts"
	"log/slog"
	"os"
)

var (
	cfg      *config.Config
	logger   *slog.Logger
	logLevel = new(slog.LevelVar)
	store    storage.FullRepo
)

func main() {
	configPath := flag.String("config", "config.toml", "path to config.toml")
	port := flag.Int("port", 0, "port to host api; overrides config")
	flag.Parse()
	var err error
	cfg, err = config.LoadConfig(*configPath)
	if err != nil {
		fmt.Println("failed to load config", err)
		os.Exit(1)
	}
	logfile, err := os.OpenFile(cfg.LogFile,
		os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		slog.Error("failed to open log file", "error", err, "filename", cfg.LogFile)
		os.Exit(1)
	}
	logLevel.Set(slog.LevelInfo)
	logger = slog.New(slog.NewTextHandler(logfile, &slog.HandlerOptions{Level: logLevel}))
	if err := os.MkdirAll(cfg.MediaDir, 0755); err != nil {
		logger.Error("failed to create media dir", "dir", cfg.MediaDir, "error", err)
		os.Exit(1)
	}
	store, err = storage.NewProviderSQL(cfg.DBPATH, logger)
	if err != nil {
		logger.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	if err := store.Migrate(); err != nil {
		logger.Error("failed to migrate", "error", err)
		os.Exit(1)
	}
	// one model instance for the whole process, owned by the queue
	model := tts.NewOnnxModel(logger, cfg)
	defer model.Close()
	queue := tts.NewQueue(logger, model, cfg)
	defer queue.Close()
	resolver := quest.NewResolver(logger, store, queue, cfg.MediaDir)
	composer := quest.NewComposer(logger, store)
	assembler := quest.NewAssembler(logger, store, resolver, composer)
	srv := &Server{
		logger:    logger,
		cfg:       cfg,
		store:     store,
		assembler: assembler,
		composer:  composer,
	}
	if *port == 0 {
		*port = cfg.ServerPort
	}
	srv.ListenToRequests(fmt.Sprintf("%d", *port))
}
