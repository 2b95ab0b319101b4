package quiz

// OptionCount is the fixed number of answer options per question.
const OptionCount = 4

// DefaultMaxQuestions is the largest paper size handled by default.
// Papers vary, so this is a config field rather than a hard limit.
const DefaultMaxQuestions = 100

// DefaultOptionFiller is the sentinel substituted for options that
// could not be detected, keeping every record structurally complete.
const DefaultOptionFiller = "option not detected"

// DefaultNoiseTokens are boilerplate strings that the source papers
// interleave with question content (coaching-brand watermarks, header
// and footer fragments). They are removed verbatim before any
// structural analysis, so the list must never overlap real content.
var DefaultNoiseTokens = []string{
	"Adda247",
	"Adda 247",
	"Google Play",
	"INDIAN R",
	"LWAY",
	"AILWAY",
	"Test Prime",
	"Source",
}

// Config carries the explicit knobs of a parse. Zero values fall back
// to the package defaults; noise tokens and the expected id range are
// always parameters, never ambient state.
type Config struct {
	NoiseTokens  []string
	MaxQuestions int
	OptionFiller string
}

// DefaultConfig returns the configuration used for the historical RRB
// papers.
func DefaultConfig() Config {
	return Config{
		NoiseTokens:  DefaultNoiseTokens,
		MaxQuestions: DefaultMaxQuestions,
		OptionFiller: DefaultOptionFiller,
	}
}

func (c Config) withDefaults() Config {
	if c.NoiseTokens == nil {
		c.NoiseTokens = DefaultNoiseTokens
	}
	if c.MaxQuestions <= 0 {
		c.MaxQuestions = DefaultMaxQuestions
	}
	if c.OptionFiller == "" {
		c.OptionFiller = DefaultOptionFiller
	}
	return c
}
