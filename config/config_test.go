package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func setupConfigHome(t *testing.T, name, content string) {
	t.Helper()
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)
	for _, key := range []string{"LLM_PROVIDER", "LLM_MODEL", "OPENAI_API_KEY", "OPENAI_BASE_URL", "IMGFLIP_USERNAME", "IMGFLIP_PASSWORD", "MEMES_DATASET_PATH", "GENERATED_MEMES_DIR", "PORT"} {
		t.Setenv(key, "")
	}
	// Reset configHomePath
	configHomePath = ""
	t.Cleanup(func() { configHomePath = "" })

	if name == "" {
		return
	}
	dir := filepath.Join(tmpDir, "memegen")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("Failed to create config directory: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		yaml     string
		profile  string
		env      map[string]string
		want     func(*Config) bool
		wantDesc string
	}{
		{
			name:     "no config file",
			want:     func(c *Config) bool { return c.LLMProvider == ProviderOpenAI && c.Port == DefaultPort && c.LLMModel == DefaultModel },
			wantDesc: "defaults",
		},
		{
			name:     "config file",
			file:     "config.yml",
			yaml:     "llmProvider: demo\nport: 8080\noutputDir: out\n",
			want:     func(c *Config) bool { return c.LLMProvider == ProviderDemo && c.Port == 8080 && c.OutputDir == "out" },
			wantDesc: "values from file",
		},
		{
			name:     "profile config file",
			file:     "config-work.yaml",
			yaml:     "llmModel: gpt-4o\n",
			profile:  "work",
			want:     func(c *Config) bool { return c.LLMModel == "gpt-4o" },
			wantDesc: "values from profile file",
		},
		{
			name:     "env expansion in file",
			file:     "config.yml",
			yaml:     "openaiAPIKey: ${MEMEGEN_TEST_KEY}\n",
			env:      map[string]string{"MEMEGEN_TEST_KEY": "sk-expanded"},
			want:     func(c *Config) bool { return c.OpenAIAPIKey == "sk-expanded" },
			wantDesc: "expanded key",
		},
		{
			name:     "env overrides file",
			file:     "config.yml",
			yaml:     "port: 8080\nllmProvider: demo\n",
			env:      map[string]string{"PORT": "9000", "LLM_PROVIDER": "openai"},
			want:     func(c *Config) bool { return c.Port == 9000 && c.LLMProvider == ProviderOpenAI },
			wantDesc: "env values",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupConfigHome(t, tt.file, tt.yaml)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			cfg, err := Load(tt.profile)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if !tt.want(cfg) {
				t.Errorf("Load() = %+v, want %s", cfg, tt.wantDesc)
			}
		})
	}
}

func TestLoadCaptionRules(t *testing.T) {
	setupConfigHome(t, "config.yml", `
captions:
  - if: topic.contains("rust")
    captions:
      - top: FIGHTING THE BORROW CHECKER
        bottom: BORROW CHECKER WINS
`)
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	want := []CaptionRule{
		{
			If:       `topic.contains("rust")`,
			Captions: []Caption{{Top: "FIGHTING THE BORROW CHECKER", Bottom: "BORROW CHECKER WINS"}},
		},
	}
	if diff := cmp.Diff(want, cfg.Captions); diff != "" {
		t.Error(diff)
	}
}

func TestLoadInvalidPort(t *testing.T) {
	setupConfigHome(t, "", "")
	t.Setenv("PORT", "not-a-number")
	if _, err := Load(""); err == nil {
		t.Error("Load() error = nil, want error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  *Config
		want int
	}{
		{"openai with key", &Config{LLMProvider: ProviderOpenAI, OpenAIAPIKey: "sk"}, 0},
		{"openai without key", &Config{LLMProvider: ProviderOpenAI}, 1},
		{"demo", &Config{LLMProvider: ProviderDemo}, 0},
		{"unknown provider", &Config{LLMProvider: "huggingface"}, 1},
		{"half imgflip credentials", &Config{LLMProvider: ProviderDemo, ImgflipUsername: "user"}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.Validate(); len(got) != tt.want {
				t.Errorf("Validate() = %v, want %d errors", got, tt.want)
			}
		})
	}
}
