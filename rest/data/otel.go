package data

import (
	"fmt"

	"github.com/toyland-demo/toyland"
	"go.opentelemetry.io/otel"
)

var packageName = fmt.Sprintf("%s%s", toyland.PackageName, "/rest/data")

var tracer = otel.GetTracerProvider().Tracer(packageName)
