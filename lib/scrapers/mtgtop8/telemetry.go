package mtgtop8

import "spicetracker/lib/telemetry"

var tracer = telemetry.Tracer("spicetracker.lib.scrapers.mtgtop8")
