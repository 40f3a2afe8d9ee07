package route

import (
	"context"
	"fmt"
	"html"
	"net/http"

	"github.com/evergreen-ci/gimlet"
	"github.com/toyland-demo/toyland"
)

func makeBanner(port int) gimlet.RouteHandler {
	return &bannerHandler{port: port}
}

type bannerHandler struct {
	port int
}

func (p *bannerHandler) Factory() gimlet.RouteHandler {
	return &bannerHandler{port: p.port}
}

func (p *bannerHandler) Parse(ctx context.Context, r *http.Request) error {
	return nil
}

func (p *bannerHandler) Run(ctx context.Context) gimlet.Responder {
	return gimlet.NewHTMLResponse(fmt.Sprintf("<h2>%s, running on port %d</h2>", html.EscapeString(toyland.ServiceName), p.port))
}
