package toyland

import (
	"context"
	"sync"
	"time"

	"github.com/evergreen-ci/utility"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.opentelemetry.io/contrib/instrumentation/go.mongodb.org/mongo-driver/mongo/otelmongo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.20.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
)

// Environment provides application-level services: the settings and the
// single database connection shared by every request.
//
// An Environment is constructed once per process and passed explicitly to
// the components that need it. There is a mock implementation for use in
// testing.
type Environment interface {
	// Settings returns the validated settings object. It must not be
	// modified after the environment is constructed.
	Settings() *Settings

	Client() *mongo.Client
	DB() *mongo.Database

	// RegisterCloser adds a function object to an internal
	// tracker to be called by the Close method before process
	// termination. The name is used in reporting, but must be
	// unique or a new closer could overwrite an existing closer.
	RegisterCloser(string, func(context.Context) error)
	// Close calls all registered closers in the environment.
	Close(context.Context) error
}

// NewEnvironment constructs an Environment instance, establishing a
// connection to the database and verifying it is usable.
//
// When NewEnvironment returns without an error, the database has answered
// a ping within the configured connect timeout. The connection is not
// retried: an unreachable database or rejected credentials are returned
// as an error.
func NewEnvironment(ctx context.Context, settings *Settings) (Environment, error) {
	if settings == nil {
		return nil, errors.New("cannot create environment without settings")
	}

	e := &envState{
		settings: settings,
		closers:  map[string]func(context.Context) error{},
	}

	if err := e.initTracer(ctx); err != nil {
		return nil, errors.Wrap(err, "initializing tracer")
	}

	if err := e.initDB(ctx); err != nil {
		catcher := grip.NewBasicCatcher()
		catcher.Add(err)
		catcher.Wrap(e.Close(ctx), "closing partially initialized environment")
		return nil, catcher.Resolve()
	}

	return e, nil
}

type envState struct {
	settings *Settings
	client   *mongo.Client
	mu       sync.RWMutex
	closers  map[string]func(context.Context) error
}

func (e *envState) initDB(ctx context.Context) error {
	settings := e.settings.Database
	opts := settings.ClientOptions().SetMonitor(otelmongo.NewMonitor())

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return errors.Wrap(err, "constructing database client")
	}

	pingCtx, cancel := context.WithTimeout(ctx, settings.ConnectTimeout())
	defer cancel()
	if err = client.Ping(pingCtx, readpref.Primary()); err != nil {
		grip.Warning(message.WrapError(client.Disconnect(ctx), message.Fields{
			"message": "problem disconnecting unusable database client",
		}))
		return errors.Wrapf(err, "connecting to database '%s'", settings.DB)
	}

	e.mu.Lock()
	e.client = client
	e.mu.Unlock()

	e.RegisterCloser("database", func(ctx context.Context) error {
		return errors.Wrap(client.Disconnect(ctx), "disconnecting from database")
	})

	grip.Info(message.Fields{
		"message":      "connected to database",
		"db":           settings.DB,
		"authenticate": settings.User != "",
	})

	return nil
}

func (e *envState) initTracer(ctx context.Context) error {
	conf := e.settings.Tracer
	if !conf.Enabled {
		return nil
	}

	creds := credentials.NewTLS(nil)
	if conf.Insecure {
		creds = insecure.NewCredentials()
	}
	conn, err := grpc.NewClient(conf.CollectorEndpoint, grpc.WithTransportCredentials(creds))
	if err != nil {
		return errors.Wrapf(err, "opening gRPC connection to '%s'", conf.CollectorEndpoint)
	}

	traceExporter, err := otlptrace.New(ctx, otlptracegrpc.NewClient(otlptracegrpc.WithGRPCConn(conn)))
	if err != nil {
		grip.Warning(conn.Close())
		return errors.Wrap(err, "initializing otel trace exporter")
	}
	metricExporter, err := otlpmetricgrpc.New(ctx, otlpmetricgrpc.WithGRPCConn(conn))
	if err != nil {
		grip.Warning(traceExporter.Shutdown(ctx))
		grip.Warning(conn.Close())
		return errors.Wrap(err, "initializing otel metrics exporter")
	}

	res := resource.NewWithAttributes(semconv.SchemaURL,
		semconv.ServiceName(ServiceName),
		semconv.ServiceVersion(ClientVersion),
	)

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExporter),
		sdktrace.WithResource(res),
	)
	tp.RegisterSpanProcessor(utility.NewAttributeSpanProcessor())
	otel.SetTracerProvider(tp)

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter)),
	)
	otel.SetMeterProvider(mp)

	otel.SetErrorHandler(otel.ErrorHandlerFunc(func(err error) {
		grip.Error(errors.Wrap(err, "otel error"))
	}))

	e.RegisterCloser("otel", func(ctx context.Context) error {
		catcher := grip.NewBasicCatcher()
		catcher.Wrap(tp.Shutdown(ctx), "trace provider shutdown")
		catcher.Wrap(mp.Shutdown(ctx), "meter provider shutdown")
		catcher.Wrap(conn.Close(), "closing gRPC connection")
		return catcher.Resolve()
	})

	return nil
}

func (e *envState) Settings() *Settings {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.settings
}

func (e *envState) Client() *mongo.Client {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.client
}

func (e *envState) DB() *mongo.Database {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.client == nil {
		return nil
	}

	return e.client.Database(e.settings.Database.DB)
}

func (e *envState) RegisterCloser(name string, closer func(context.Context) error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.closers[name]; ok {
		grip.Critical(message.Fields{
			"closer":  name,
			"message": "duplicate closer registered",
			"cause":   "programmer error",
		})
	}
	e.closers[name] = closer
}

func (e *envState) Close(ctx context.Context) error {
	e.mu.RLock()
	defer e.mu.RUnlock()

	deadline, _ := ctx.Deadline()
	catcher := grip.NewBasicCatcher()
	wg := &sync.WaitGroup{}
	for n, closer := range e.closers {
		if closer == nil {
			continue
		}

		wg.Add(1)
		go func(name string, close func(context.Context) error) {
			defer wg.Done()
			grip.Info(message.Fields{
				"message":      "calling closer",
				"closer":       name,
				"timeout_secs": time.Until(deadline).Seconds(),
				"deadline":     deadline,
			})
			catcher.Wrapf(close(ctx), "closer '%s'", name)
		}(n, closer)
	}

	wg.Wait()
	return catcher.Resolve()
}
