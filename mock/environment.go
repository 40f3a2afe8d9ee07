package mock

import (
	"context"
	"sync"

	"github.com/mongodb/grip"
	"github.com/pkg/errors"
	"github.com/toyland-demo/toyland"
	"github.com/toyland-demo/toyland/testutil"
	"go.mongodb.org/mongo-driver/mongo"
)

// this is just a hack to ensure that compile breaks clearly if the
// mock implementation diverges from the interface
var _ toyland.Environment = &Environment{}

// Environment is an in-memory toyland.Environment. It has no database
// unless a test assigns one.
type Environment struct {
	ToylandSettings *toyland.Settings
	Database        *mongo.Database

	mu      sync.Mutex
	closers map[string]func(context.Context) error
	Closed  bool
}

// Configure populates the environment with the test settings.
func (e *Environment) Configure(_ context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.ToylandSettings = testutil.TestConfig()
	e.closers = map[string]func(context.Context) error{}

	return nil
}

func (e *Environment) Settings() *toyland.Settings { return e.ToylandSettings }

func (e *Environment) Client() *mongo.Client {
	if e.Database == nil {
		return nil
	}
	return e.Database.Client()
}

func (e *Environment) DB() *mongo.Database { return e.Database }

func (e *Environment) RegisterCloser(name string, closer func(context.Context) error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closers == nil {
		e.closers = map[string]func(context.Context) error{}
	}
	e.closers[name] = closer
}

func (e *Environment) Close(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	catcher := grip.NewBasicCatcher()
	for name, closer := range e.closers {
		if closer == nil {
			continue
		}
		catcher.Add(errors.Wrapf(closer(ctx), "closer '%s'", name))
	}
	e.Closed = true

	return catcher.Resolve()
}
