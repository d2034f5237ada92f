// Package di assembles the application's dependency graph. Wiring is
// explicit and ordered: config, logger, storage, provider, services,
// handlers, router.
package di

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"go.uber.org/zap"

	"healthchat-backend/application/accounts"
	appchat "healthchat-backend/application/chat"
	"healthchat-backend/application/ports"
	"healthchat-backend/domain/chat"
	"healthchat-backend/infrastructure/completion"
	"healthchat-backend/infrastructure/config"
	"healthchat-backend/infrastructure/persistence/dynamodb"
	"healthchat-backend/infrastructure/persistence/memory"
	"healthchat-backend/interfaces/http/rest"
	"healthchat-backend/interfaces/http/rest/handlers"
	"healthchat-backend/pkg/auth"
)

// Container holds the wired application components
type Container struct {
	Config *config.Config
	Logger *zap.Logger
	Router *rest.Router
}

// InitializeContainer builds the full dependency graph. In development the
// repositories are in-memory; production requires DynamoDB.
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	logger, err := newLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	accountRepo, turnRepo, err := newRepositories(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	jwtSecret := cfg.JWTSecret
	if jwtSecret == "" && cfg.IsDevelopment() {
		logger.Warn("JWT_SECRET not set, using development fallback")
		jwtSecret = "development-only-secret"
	}

	generator, err := auth.NewJWTGenerator(auth.JWTGeneratorConfig{
		SecretKey:  jwtSecret,
		Issuer:     cfg.JWTIssuer,
		ExpiryTime: cfg.TokenTTL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create token generator: %w", err)
	}

	validator, err := auth.NewJWTValidator(auth.JWTConfig{
		SecretKey: jwtSecret,
		Issuer:    cfg.JWTIssuer,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create token validator: %w", err)
	}

	completionClient, err := completion.NewGeminiClient(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create completion client: %w", err)
	}

	prompts := chat.NewPromptBuilder(cfg.MaxHistoryTurns, chat.DefaultResponsePolicy)

	accountService := accounts.NewService(accountRepo, generator, logger)
	chatService := appchat.NewService(turnRepo, completionClient, prompts, logger)

	authHandler := handlers.NewAuthHandler(
		accountService,
		cfg.CookieName,
		cfg.CookieSecure,
		cfg.TokenTTL,
		logger,
	)
	chatHandler := handlers.NewChatHandler(chatService, cfg.RevealInterval, logger)

	router := rest.NewRouter(cfg, authHandler, chatHandler, validator, logger)

	return &Container{
		Config: cfg,
		Logger: logger,
		Router: router,
	}, nil
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func newRepositories(ctx context.Context, cfg *config.Config, logger *zap.Logger) (ports.AccountRepository, ports.TurnRepository, error) {
	if cfg.IsDevelopment() {
		logger.Info("using in-memory repositories")
		accountRepo := memory.NewAccountRepository()
		return accountRepo, memory.NewTurnRepositoryFor(accountRepo), nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load aws config: %w", err)
	}
	client := awsdynamodb.NewFromConfig(awsCfg)

	accountRepo := dynamodb.NewAccountRepository(client, cfg.DynamoDBTable, logger)
	turnRepo := dynamodb.NewTurnRepository(client, cfg.DynamoDBTable, cfg.GSI1IndexName, logger)

	return accountRepo, turnRepo, nil
}
