package split

import "example.com/otel"

var tracer = otel.Tracer("split")
