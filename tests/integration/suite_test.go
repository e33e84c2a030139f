package integration

import (
	"context"
	"net/http"
	"os"
	"testing"

	adaptershttp "github.com/iho/gomovements/internal/adapter/http"
	"github.com/iho/gomovements/internal/adapter/http/handler"
	"github.com/iho/gomovements/internal/adapter/repository/postgres"
	redisrepo "github.com/iho/gomovements/internal/adapter/repository/redis"
	infraredis "github.com/iho/gomovements/internal/infrastructure/redis"
	"github.com/iho/gomovements/internal/usecase"
	"github.com/iho/gomovements/tests/testutil"
)

// stack bundles the wired HTTP router with the repositories the tests
// use for direct state assertions.
type stack struct {
	Router       http.Handler
	MovementRepo *postgres.MovementRepository
	LedgerRepo   *postgres.LedgerRepository
	HistoryRepo  *postgres.HistoryRepository
	OutboxRepo   *postgres.OutboxRepository
}

// newStack wires the full HTTP stack against real postgres and redis.
func newStack(ctx context.Context, t *testing.T) (*testutil.TestDB, *stack) {
	t.Helper()

	testDB := testutil.NewTestDB(t)
	t.Cleanup(testDB.Cleanup)

	testDB.TruncateAll(ctx)

	pool := testDB.Pool
	movementRepo := postgres.NewMovementRepository(pool)
	ledgerRepo := postgres.NewLedgerRepository(pool)
	historyRepo := postgres.NewHistoryRepository(pool)
	taxRepo := postgres.NewTaxRepository(pool)
	outboxRepo := postgres.NewOutboxRepository(pool)
	txManager := postgres.NewTxManager(pool)
	idGen := postgres.NewULIDGenerator()

	postingUC := usecase.NewPostingUseCase(txManager, movementRepo, ledgerRepo, historyRepo, taxRepo, outboxRepo, idGen).
		WithRetrier(postgres.NewRetrier(nil))
	movementUC := usecase.NewMovementUseCase(movementRepo, ledgerRepo, historyRepo)
	consistencyUC := usecase.NewConsistencyUseCase(movementRepo, ledgerRepo)

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379"
	}

	redisClient, err := infraredis.NewClient(ctx, redisURL)
	if err != nil {
		t.Fatalf("failed to connect to redis: %v", err)
	}
	t.Cleanup(func() { _ = redisClient.Close() })

	router := adaptershttp.NewRouter(adaptershttp.RouterConfig{
		MovementHandler:    handler.NewMovementHandler(postingUC, movementUC),
		ConsistencyHandler: handler.NewConsistencyHandler(consistencyUC),
		HealthHandler:      handler.NewHealthHandler(pool, redisClient),
		IdempotencyStore:   redisrepo.NewIdempotencyStore(redisClient),
	})

	return testDB, &stack{
		Router:       router,
		MovementRepo: movementRepo,
		LedgerRepo:   ledgerRepo,
		HistoryRepo:  historyRepo,
		OutboxRepo:   outboxRepo,
	}
}
