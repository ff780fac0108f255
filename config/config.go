package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/k1LoW/expand"
)

const (
	ProviderOpenAI = "openai"
	ProviderDemo   = "demo"

	DefaultModel            = "gpt-4-turbo"
	DefaultPort             = 5000
	DefaultMaxCaptionTokens = 50
	DefaultTemperature      = 0.8
	DefaultTimeout          = 15 * time.Second
	DefaultJPEGQuality      = 95

	ImgflipGetMemesURL   = "https://api.imgflip.com/get_memes"
	ImgflipCaptionURL    = "https://api.imgflip.com/caption_image"
	DefaultOpenAIBaseURL = "https://api.openai.com/v1"
)

// DefaultFontPaths are the bold fonts tried, in order, before the built-in font.
var DefaultFontPaths = []string{
	"/usr/share/fonts/truetype/liberation/LiberationSans-Bold.ttf",
	"/usr/share/fonts/truetype/dejavu/DejaVuSans-Bold.ttf",
	"/System/Library/Fonts/Supplemental/Impact.ttf",
	`C:\Windows\Fonts\Impact.ttf`,
	"/Library/Fonts/Impact.ttf",
}

var (
	homePath       string
	configHomePath string
	dataHomePath   string
	stateHomePath  string
)

type Config struct {
	// LLM provider used for captions: openai or demo
	LLMProvider string `yaml:"llmProvider,omitempty" json:"llmProvider,omitempty"`
	// chat completion model
	LLMModel      string `yaml:"llmModel,omitempty" json:"llmModel,omitempty"`
	OpenAIAPIKey  string `yaml:"openaiAPIKey,omitempty" json:"openaiAPIKey,omitempty"`
	OpenAIBaseURL string `yaml:"openaiBaseURL,omitempty" json:"openaiBaseURL,omitempty"`
	// Imgflip credentials for remote rendering
	ImgflipUsername string `yaml:"imgflipUsername,omitempty" json:"imgflipUsername,omitempty"`
	ImgflipPassword string `yaml:"imgflipPassword,omitempty" json:"imgflipPassword,omitempty"`
	// path to the local memes.json dataset
	DatasetPath string `yaml:"datasetPath,omitempty" json:"datasetPath,omitempty"`
	// directory generated memes are written to
	OutputDir string `yaml:"outputDir,omitempty" json:"outputDir,omitempty"`
	Port      int    `yaml:"port,omitempty" json:"port,omitempty"`
	// bold font files tried before the built-in font
	FontPaths []string `yaml:"fontPaths,omitempty" json:"fontPaths,omitempty"`
	// custom caption rules evaluated before the demo table
	Captions []CaptionRule `yaml:"captions,omitempty" json:"captions,omitempty"`

	MaxCaptionTokens int           `yaml:"-" json:"-"`
	Temperature      float64       `yaml:"-" json:"-"`
	Timeout          time.Duration `yaml:"-" json:"-"`
	JPEGQuality      int           `yaml:"-" json:"-"`
}

type CaptionRule struct {
	If       string    `yaml:"if" json:"if"`             // CEL condition over topic
	Captions []Caption `yaml:"captions" json:"captions"` // captions picked from when the condition is true
}

type Caption struct {
	Top    string `yaml:"top" json:"top"`
	Bottom string `yaml:"bottom,omitempty" json:"bottom,omitempty"`
}

func init() {
	var err error
	homePath, err = os.UserHomeDir()
	if err != nil {
		panic(fmt.Sprintf("failed to get home directory: %v", err))
	}
}

// Load loads the configuration from the config file.
// It searches for config files in the following order:
// 1. $XDG_CONFIG_HOME/memegen/config-{profile}.yml
// 2. $XDG_CONFIG_HOME/memegen/config.yml
// Environment variables are expanded in the file and then override it.
// If no config file is found, defaults and the environment are used.
func Load(profile string) (*Config, error) {
	var configBasePaths []string
	if profile != "" {
		configBasePaths = append(configBasePaths, filepath.Join(configPath(), fmt.Sprintf("config-%s", profile)))
	}
	configBasePaths = append(configBasePaths, filepath.Join(configPath(), "config"))
	cfg := &Config{}
L:
	for _, basePath := range configBasePaths {
		for _, ext := range []string{".yml", ".yaml"} {
			configPath := basePath + ext
			if b, err := os.ReadFile(configPath); err == nil {
				if err := yaml.Unmarshal(expand.ExpandenvYAMLBytes(b), cfg); err != nil {
					return nil, fmt.Errorf("failed to unmarshal config: %w", err)
				}
				break L
			}
		}
	}
	if err := cfg.overrideFromEnv(); err != nil {
		return nil, err
	}
	cfg.setDefaults()
	return cfg, nil
}

func (c *Config) overrideFromEnv() error {
	for key, dst := range map[string]*string{
		"LLM_PROVIDER":        &c.LLMProvider,
		"LLM_MODEL":           &c.LLMModel,
		"OPENAI_API_KEY":      &c.OpenAIAPIKey,
		"OPENAI_BASE_URL":     &c.OpenAIBaseURL,
		"IMGFLIP_USERNAME":    &c.ImgflipUsername,
		"IMGFLIP_PASSWORD":    &c.ImgflipPassword,
		"MEMES_DATASET_PATH":  &c.DatasetPath,
		"GENERATED_MEMES_DIR": &c.OutputDir,
	} {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		c.Port = port
	}
	return nil
}

func (c *Config) setDefaults() {
	if c.LLMProvider == "" {
		c.LLMProvider = ProviderOpenAI
	}
	if c.LLMModel == "" {
		c.LLMModel = DefaultModel
	}
	if c.OpenAIBaseURL == "" {
		c.OpenAIBaseURL = DefaultOpenAIBaseURL
	}
	if c.DatasetPath == "" {
		c.DatasetPath = filepath.Join(DataHomePath(), "memes.json")
	}
	if c.OutputDir == "" {
		c.OutputDir = "generated_memes"
	}
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if len(c.FontPaths) == 0 {
		c.FontPaths = DefaultFontPaths
	}
	if c.MaxCaptionTokens == 0 {
		c.MaxCaptionTokens = DefaultMaxCaptionTokens
	}
	if c.Temperature == 0 {
		c.Temperature = DefaultTemperature
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.JPEGQuality == 0 {
		c.JPEGQuality = DefaultJPEGQuality
	}
}

// Validate reports configuration errors. They are warnings: the dependent feature is disabled.
func (c *Config) Validate() []error {
	var errs []error
	switch c.LLMProvider {
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			errs = append(errs, fmt.Errorf("OPENAI_API_KEY is required when LLM_PROVIDER is '%s'", ProviderOpenAI))
		}
	case ProviderDemo:
	default:
		errs = append(errs, fmt.Errorf("unsupported LLM provider: %s", c.LLMProvider))
	}
	if (c.ImgflipUsername == "") != (c.ImgflipPassword == "") {
		errs = append(errs, fmt.Errorf("both IMGFLIP_USERNAME and IMGFLIP_PASSWORD are required for Imgflip rendering"))
	}
	return errs
}

// ImgflipEnabled reports whether Imgflip credentials are configured.
func (c *Config) ImgflipEnabled() bool {
	return c.ImgflipUsername != "" && c.ImgflipPassword != ""
}

// configPath returns the path to the configuration directory.
func configPath() string {
	if configHomePath != "" {
		return configHomePath
	}
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		configHomePath = filepath.Join(v, "memegen")
	} else {
		configHomePath = filepath.Join(homePath, ".config", "memegen")
	}
	return configHomePath
}

// DataHomePath returns the path to the data home directory.
func DataHomePath() string {
	if dataHomePath != "" {
		return dataHomePath
	}
	if v := os.Getenv("XDG_DATA_HOME"); v != "" {
		dataHomePath = filepath.Join(v, "memegen")
	} else {
		dataHomePath = filepath.Join(homePath, ".local", "share", "memegen")
	}
	return dataHomePath
}

func StateHomePath() string {
	if stateHomePath != "" {
		return stateHomePath
	}
	if v := os.Getenv("XDG_STATE_HOME"); v != "" {
		stateHomePath = filepath.Join(v, "memegen")
	} else {
		stateHomePath = filepath.Join(homePath, ".local", "state", "memegen")
	}
	return stateHomePath
}
