package config

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer
	BaseURL     string `env:"BASE_URL"`
	DatabaseURL string `env:"DATABASE_URL" envDefault:"orders.db"`

	Paypal Paypal `envPrefix:"PAYPAL_"`
	Sync   Sync   `envPrefix:"SYNC_"`
}

type Paypal struct {
	BaseApiURL   string `env:"BASE_API_URL" envDefault:"https://api-m.sandbox.paypal.com"`
	ClientID     string `env:"CLIENT_ID"`
	ClientSecret string `env:"CLIENT_SECRET"`
	Intent       string `env:"INTENT" envDefault:"CAPTURE"`
}

// Sync tunes the reconciliation engine.
type Sync struct {
	// RoundingTolerance is the maximum minor-unit remainder allowed before
	// line-item detail is ditched. Zero keeps the strict exact-match rule.
	RoundingTolerance float64 `env:"ROUNDING_TOLERANCE" envDefault:"0"`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type HTTPServer struct {
	Host string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port string `env:"HTTP_PORT" envDefault:"8080"`
}
