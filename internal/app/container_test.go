package app

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/dig"

	"order-consolidation/internal/config"
	"order-consolidation/internal/gateway/directions"
	"order-consolidation/internal/http/handlers"
	"order-consolidation/internal/logx"
	"order-consolidation/internal/service/consolidation"
	"order-consolidation/internal/transport/kafka"
)

func testConfig() *config.Config {
	return &config.Config{
		Port:          8080,
		DB:            config.DefaultDB(),
		Directions:    config.DefaultDirections(),
		Consolidation: config.DefaultConsolidation(),
		RateLimit:     config.DefaultRateLimit(),
		Kafka:         config.DefaultKafka(),
		Pprof:         config.DefaultPprof(),
	}
}

func setupTestContainer(t *testing.T, cfg *config.Config) *dig.Container {
	t.Helper()

	c := dig.New()

	providers := []struct {
		name     string
		provider any
	}{
		{"context", func() context.Context { return context.Background() }},
		{"logger", logx.Nop},
		{"config", func() *config.Config { return cfg }},
		{"registry", func() prometheus.Registerer { return prometheus.NewRegistry() }},
		{"pgxpool", func() *pgxpool.Pool { return &pgxpool.Pool{} }},
	}

	for _, p := range providers {
		err := c.Provide(p.provider)
		require.NoErrorf(t, err, "provide %s", p.name)
	}

	require.NoError(t, registerMetrics(c))
	require.NoError(t, registerDomainServices(c))
	require.NoError(t, registerHTTP(c))

	return c
}

func verifyServer(t *testing.T, srv *http.Server) {
	t.Helper()

	require.NotNil(t, srv, "http.Server is nil")
	require.Equal(t, ":8080", srv.Addr)
	require.Greater(t, srv.ReadHeaderTimeout, time.Duration(0))
	require.Greater(t, srv.ReadTimeout, time.Duration(0))
	require.Greater(t, srv.IdleTimeout, time.Duration(0))
	require.Greater(t, srv.WriteTimeout, 30*time.Second, "write timeout must outlive a consolidation run")
}

func TestRegisterServiceAndHTTP_ProvidesHttpServerAndHandlers(t *testing.T) {
	t.Parallel()

	c := setupTestContainer(t, testConfig())

	err := c.Invoke(func(
		srv *http.Server,
		base *handlers.Handlers,
		orderHandler *handlers.OrderHandler,
		matchHandler *handlers.MatchHandler,
		svc *consolidation.Service,
	) {
		verifyServer(t, srv)
		require.NotNil(t, base)
		require.NotNil(t, orderHandler)
		require.NotNil(t, matchHandler)
		require.NotNil(t, svc)
	})
	require.NoError(t, err)
}

func TestNewRouteProvider_NoAPIKey_Disabled(t *testing.T) {
	t.Parallel()

	c := setupTestContainer(t, testConfig())

	err := c.Invoke(func(p consolidation.RouteProvider) {
		require.IsType(t, directions.Disabled{}, p)
	})
	require.NoError(t, err)
}

func TestNewRouteProvider_WithAPIKey_Instrumented(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Directions.APIKey = "key"
	c := setupTestContainer(t, cfg)

	err := c.Invoke(func(p consolidation.RouteProvider) {
		require.IsType(t, &directions.InstrumentedProvider{}, p)
	})
	require.NoError(t, err)
}

func TestNewResultPublisher_KafkaDisabled_Nil(t *testing.T) {
	t.Parallel()

	c := setupTestContainer(t, testConfig())

	err := c.Invoke(func(p *kafka.ResultPublisher) {
		require.Nil(t, p)
	})
	require.NoError(t, err)
}

func TestProvideAll_Success(t *testing.T) {
	t.Parallel()

	c := dig.New()

	err := provideAll(c,
		func() context.Context { return context.Background() },
		func() time.Duration { return 3 * time.Second },
	)
	require.NoError(t, err)

	err = c.Invoke(func(ctx context.Context, d time.Duration) {
		require.NotNil(t, ctx)
		require.Equal(t, 3*time.Second, d)
	})
	require.NoError(t, err)
}

func TestProvideAll_InvalidProvider(t *testing.T) {
	t.Parallel()

	c := dig.New()

	type bad struct{}
	err := provideAll(c, bad{})
	require.Error(t, err)
}

func TestRegisterDb_UsesDbConnectAndProvidesPool(t *testing.T) {
	t.Parallel()

	c := dig.New()
	ctx := context.Background()

	cfg := &config.Config{
		DB: config.DB{
			Host: "localhost",
			Port: "5432",
			User: "user",
			Pass: "pass",
			Name: "db",
		},
	}

	require.NoError(t, c.Provide(func() context.Context { return ctx }))
	require.NoError(t, c.Provide(func() *config.Config { return cfg }))
	require.NoError(t, c.Provide(logx.Nop))

	stubPool := &pgxpool.Pool{}
	schemaCalls := 0

	stubConnect := func(
		gotCtx context.Context,
		_ logx.Logger,
		dsn string,
		retries int,
		delay time.Duration,
	) (*pgxpool.Pool, error) {
		require.Equal(t, ctx, gotCtx)
		require.Equal(t, cfg.DB.DSN(), dsn)
		require.Equal(t, 10, retries)
		require.Equal(t, time.Second, delay)
		return stubPool, nil
	}
	stubSchema := func(_ context.Context, p *pgxpool.Pool) error {
		require.Same(t, stubPool, p)
		schemaCalls++
		return nil
	}

	err := registerDb(c, stubConnect, stubSchema)
	require.NoError(t, err)

	err = c.Invoke(func(pool *pgxpool.Pool) {
		require.Equal(t, stubPool, pool)
	})
	require.NoError(t, err)
	require.Equal(t, 1, schemaCalls)
}

func stubBuilder() *ContainerBuilder {
	return NewContainerBuilder().
		WithDBConnect(func(context.Context, logx.Logger, string, int, time.Duration) (*pgxpool.Pool, error) {
			return &pgxpool.Pool{}, nil
		}).
		WithSchemaInit(nil)
}

func TestContainerBuilder_Build_Success(t *testing.T) {
	t.Parallel()

	c, err := stubBuilder().build(context.Background())
	require.NoError(t, err)
	require.NotNil(t, c)
}

func TestContainerBuilder_Build_DBError(t *testing.T) {
	t.Parallel()

	builder := NewContainerBuilder().
		WithDBConnect(func(context.Context, logx.Logger, string, int, time.Duration) (*pgxpool.Pool, error) {
			return nil, fmt.Errorf("db failed")
		})

	c, err := builder.build(context.Background())
	require.NoError(t, err)
	require.NotNil(t, c)

	err = c.Invoke(func(pool *pgxpool.Pool) {
		_ = pool
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "db failed")
}

func TestContainerBuilder_MustBuild_LogsFatalOnError(t *testing.T) {
	t.Parallel()

	builder := stubBuilder().
		WithLogFatalf(func(format string, args ...interface{}) {
			require.FailNowf(t, "logFatalf must not be called", format, args...)
		})

	c := builder.MustBuild(context.Background())
	require.NotNil(t, c)

	w := builder.MustBuildWorker(context.Background())
	require.NotNil(t, w)
}
