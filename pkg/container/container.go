// Package container wires the dependency graph: config, infrastructure,
// repositories, services, handlers, in that order.
package container

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"readinghub-backend/internal/config"
	authorHandler "readinghub-backend/internal/domains/author/handler"
	authorRepo "readinghub-backend/internal/domains/author/repository"
	authorService "readinghub-backend/internal/domains/author/service"
	bookHandler "readinghub-backend/internal/domains/book/handler"
	bookJob "readinghub-backend/internal/domains/book/job"
	bookRepo "readinghub-backend/internal/domains/book/repository"
	bookService "readinghub-backend/internal/domains/book/service"
	"readinghub-backend/internal/domains/bookclub"
	"readinghub-backend/internal/domains/country"
	"readinghub-backend/internal/domains/genre"
	"readinghub-backend/internal/domains/user"
	infraCache "readinghub-backend/internal/infrastructure/cache"
	"readinghub-backend/internal/infrastructure/database"
	"readinghub-backend/internal/infrastructure/email"
	"readinghub-backend/pkg/cache"
	pkgdatabase "readinghub-backend/pkg/database"
	"readinghub-backend/pkg/jwt"
	"readinghub-backend/pkg/logger"
)

type Container struct {
	Config      *config.Config
	DB          *database.PostgresDB
	Redis       *infraCache.RedisClient
	Cache       cache.Cache
	JWTManager  *jwt.Manager
	UnitOfWork  pkgdatabase.UnitOfWork
	AsynqClient *asynq.Client

	BookRepo     bookRepo.RepositoryInterface
	AuthorRepo   authorRepo.RepositoryInterface
	GenreRepo    genre.Repository
	CountryRepo  country.Repository
	BookClubRepo bookclub.Repository
	UserRepo     user.Repository

	BookService     bookService.ServiceInterface
	AuthorService   authorService.ServiceInterface
	GenreService    genre.Service
	CountryService  country.Service
	BookClubService bookclub.Service
	EmailService    email.Service

	BookHandler     *bookHandler.BookHandler
	AuthorHandler   *authorHandler.AuthorHandler
	GenreHandler    *genre.Handler
	CountryHandler  *country.Handler
	BookClubHandler *bookclub.Handler
}

func NewContainer() (*Container, error) {
	c := &Container{}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	logger.Info("config loaded", map[string]interface{}{"environment": cfg.App.Environment})

	db := database.NewPostgresDB(cfg.Database.ToDBConfig())
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	c.DB = db

	c.Redis = infraCache.NewRedisClient(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	if err := c.Redis.Connect(context.Background()); err != nil {
		// Redis is an accelerator, not a dependency: repositories fall back
		// to the database on cache errors.
		logger.Warn("redis connection failed (non-critical)", map[string]interface{}{
			"error": err.Error(),
		})
	}
	c.Cache = infraCache.NewCache(c.Redis)

	c.JWTManager = jwt.NewManager(cfg.JWT.Secret)
	c.UnitOfWork = pkgdatabase.NewUnitOfWork(db.Pool)
	c.AsynqClient = asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.Redis.Host,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	c.initRepositories()
	c.initServices()
	c.initHandlers()

	return c, nil
}

func (c *Container) initRepositories() {
	pool := c.DB.Pool

	c.BookRepo = bookRepo.NewPostgresRepository(pool, c.Cache)
	c.AuthorRepo = authorRepo.NewPostgresRepository(pool, c.Cache)
	c.GenreRepo = genre.NewPostgresRepository(pool)
	c.CountryRepo = country.NewPostgresRepository(pool)
	c.BookClubRepo = bookclub.NewPostgresRepository(pool)
	c.UserRepo = user.NewPostgresRepository(pool)
}

func (c *Container) initServices() {
	cfg := c.Config

	c.EmailService = email.NewSMTPService(email.SMTPConfig{
		Host:     cfg.Email.SMTPHost,
		Port:     cfg.Email.SMTPPort,
		Username: cfg.Email.SMTPUsername,
		Password: cfg.Email.SMTPPassword,
		From:     cfg.Email.From,
	})

	events := bookJob.NewAsynqPublisher(c.AsynqClient)

	c.BookService = bookService.NewService(c.BookRepo, c.UnitOfWork, events)
	c.AuthorService = authorService.NewService(c.AuthorRepo, c.UnitOfWork)
	c.GenreService = genre.NewService(c.GenreRepo, c.UnitOfWork)
	c.CountryService = country.NewService(c.CountryRepo, c.UnitOfWork)
	c.BookClubService = bookclub.NewService(c.BookClubRepo, c.UnitOfWork)
}

func (c *Container) initHandlers() {
	c.BookHandler = bookHandler.NewBookHandler(c.BookService)
	c.AuthorHandler = authorHandler.NewAuthorHandler(c.AuthorService)
	c.GenreHandler = genre.NewHandler(c.GenreService)
	c.CountryHandler = country.NewHandler(c.CountryService)
	c.BookClubHandler = bookclub.NewHandler(c.BookClubService)
}

// Cleanup releases infrastructure resources. Called from graceful shutdown.
func (c *Container) Cleanup() {
	if c.AsynqClient != nil {
		if err := c.AsynqClient.Close(); err != nil {
			logger.Error("failed to close asynq client", err)
		}
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			logger.Error("failed to close redis", err)
		}
	}
	if c.DB != nil {
		c.DB.Close()
	}
	logger.Info("container cleanup completed", nil)
}
