package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/videohub/internal/config"
	"github.com/Skotchmaster/videohub/internal/db"
	"github.com/Skotchmaster/videohub/internal/events"
	"github.com/Skotchmaster/videohub/internal/handlers"
	"github.com/Skotchmaster/videohub/internal/httpx"
	"github.com/Skotchmaster/videohub/internal/logging"
	"github.com/Skotchmaster/videohub/internal/media"
	authmw "github.com/Skotchmaster/videohub/internal/middleware/auth"
	"github.com/Skotchmaster/videohub/internal/repo"
	"github.com/Skotchmaster/videohub/internal/search"
	authsvc "github.com/Skotchmaster/videohub/internal/service/auth"
	"github.com/Skotchmaster/videohub/internal/tokens"
	httpserver "github.com/Skotchmaster/videohub/internal/transport/http"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	config.MustNonEmptyBytes(cfg.AccessSecret, "ACCESS_TOKEN_SECRET")
	config.MustNonEmptyBytes(cfg.RefreshSecret, "REFRESH_TOKEN_SECRET")

	logger := logging.New(cfg.LogLevel)

	ctx := context.Background()

	gormDB, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	var index *search.Index
	if cfg.ESURL != "" {
		esClient, err := search.NewClient(cfg)
		if err != nil {
			log.Fatalf("elasticsearch init: %v", err)
		}
		index = search.NewIndex(esClient, cfg.ESIndex)
	}

	producer := events.NewProducer(cfg.KafkaBrokers)

	mediaHost := media.NewClient(cfg.MediaBaseURL, cfg.MediaAPIKey, cfg.MediaAPISecret)

	users := &repo.Users{DB: gormDB}
	videos := &repo.Videos{DB: gormDB}
	comments := &repo.Comments{DB: gormDB}
	playlists := &repo.Playlists{DB: gormDB}
	tweets := &repo.Tweets{DB: gormDB}
	subscriptions := &repo.Subscriptions{DB: gormDB}
	likes := &repo.Likes{DB: gormDB}

	tokenSvc := &tokens.Service{
		AccessSecret:  cfg.AccessSecret,
		RefreshSecret: cfg.RefreshSecret,
		AccessTTL:     cfg.AccessTTL,
		RefreshTTL:    cfg.RefreshTTL,
	}
	authSvc := &authsvc.Service{Users: users, Tokens: tokenSvc}

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = httpx.ErrorHandler
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID(), logging.RequestLogger(logger))

	deps := httpserver.Deps{
		Guard:               &authmw.Guard{Users: users, Tokens: tokenSvc},
		AuthHandler:         &handlers.AuthHandler{Svc: authSvc, Media: mediaHost, Producer: producer},
		UserHandler:         &handlers.UserHandler{Users: users, Svc: authSvc, Media: mediaHost},
		VideoHandler:        &handlers.VideoHandler{Videos: videos, Media: mediaHost, Index: index, Producer: producer},
		CommentHandler:      &handlers.CommentHandler{Comments: comments, Videos: videos},
		PlaylistHandler:     &handlers.PlaylistHandler{Playlists: playlists, Videos: videos, Users: users},
		TweetHandler:        &handlers.TweetHandler{Tweets: tweets, Users: users},
		SubscriptionHandler: &handlers.SubscriptionHandler{Subscriptions: subscriptions, Users: users, Producer: producer},
		LikeHandler:         &handlers.LikeHandler{Likes: likes, Videos: videos, Comments: comments, Tweets: tweets},
		ChannelHandler:      &handlers.ChannelHandler{Users: users, Subscriptions: subscriptions},
		SearchHandler:       &handlers.SearchHandler{Index: index},
	}

	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		logger.Info("http server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if sqlDB, err := gormDB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Error("db close error", "error", err)
		}
	}

	if err := producer.Close(); err != nil {
		logger.Error("kafka close error", "error", err)
	}

	logger.Info("shutdown complete")
}
