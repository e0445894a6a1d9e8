package questionbank

// Config holds runtime knobs for the query service.
type Config struct {
	// LogNearMiss logs the closest stored question when a query has no match.
	LogNearMiss bool
}
