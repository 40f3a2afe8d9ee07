package service

import (
	"net/http"
	"time"

	"github.com/evergreen-ci/gimlet"
	"github.com/gorilla/handlers"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
	"github.com/rs/cors"
	"github.com/toyland-demo/toyland"
	"github.com/toyland-demo/toyland/rest/data"
	"github.com/toyland-demo/toyland/rest/route"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// GetServer produces an HTTP server instance for a handler.
func GetServer(addr string, n http.Handler) *http.Server {
	grip.Notice(message.Fields{
		"action":  "starting service",
		"service": addr,
		"build":   toyland.BuildRevision,
		"process": grip.Name(),
	})

	return &http.Server{
		Addr:              addr,
		Handler:           n,
		ReadTimeout:       time.Minute,
		ReadHeaderTimeout: 30 * time.Second,
		WriteTimeout:      time.Minute,
	}
}

// GetRouter builds the handler serving the toyland API from the
// environment's settings, reaching storage through the connector.
func GetRouter(env toyland.Environment, sc data.Connector) (http.Handler, error) {
	if env == nil || env.Settings() == nil {
		return nil, errors.New("cannot build router without an environment")
	}
	if sc == nil {
		return nil, errors.New("cannot build router without a connector")
	}
	conf := env.Settings().Api

	app := gimlet.NewApp()
	app.ResetMiddleware()
	app.AddMiddleware(gimlet.MakeRecoveryLogger())
	app.AddMiddleware(gimlet.NewAppLogger())
	app.AddMiddleware(gimlet.WrapperHandlerMiddleware(cors.New(cors.Options{
		AllowedOrigins: conf.CORSOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
		},
		AllowedHeaders: []string{"*"},
	}).Handler))
	app.AddMiddleware(route.NewJSONBodyMiddleware(conf.MaxBodyBytes))

	route.AttachHandler(app, route.HandlerOpts{
		Connector: sc,
		Port:      conf.Port,
	})

	h, err := app.Handler()
	if err != nil {
		return nil, errors.Wrap(err, "resolving routes")
	}
	if conf.Compress {
		h = handlers.CompressHandler(h)
	}

	return otelhttp.NewHandler(h, toyland.ServiceName), nil
}
