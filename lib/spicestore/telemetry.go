package spicestore

import "spicetracker/lib/telemetry"

var tracer = telemetry.Tracer("spicetracker.lib.spicestore")
