package llm

// Float64Ptr returns a pointer to v, for setting an explicit temperature on
// a ChatRequest (the judge methods pin it to 0).
func Float64Ptr(v float64) *float64 {
	return &v
}

type clientConfig struct {
	baseURL     string
	apiKey      string
	model       string
	temperature *float64
}

// Option configures an OpenAIClient at construction time.
type Option func(*clientConfig)

// WithBaseURL points the client at an OpenAI-compatible endpoint.
func WithBaseURL(url string) Option {
	return func(c *clientConfig) {
		c.baseURL = url
	}
}

// WithAPIKey sets the API key used for authentication.
func WithAPIKey(key string) Option {
	return func(c *clientConfig) {
		c.apiKey = key
	}
}

// WithModel sets the client-level default model. A model set on the
// ChatRequest wins over this default.
func WithModel(model string) Option {
	return func(c *clientConfig) {
		c.model = model
	}
}

// WithTemperature sets the client-level default temperature. A temperature
// set on the ChatRequest wins over this default.
func WithTemperature(temp float64) Option {
	return func(c *clientConfig) {
		c.temperature = &temp
	}
}
