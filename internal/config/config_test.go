package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfigFile(t, ""))
	require.NoError(t, err)

	assert.Equal(t, Default().Server, cfg.Server)
	assert.Equal(t, DefaultDatasetPath, cfg.Dataset.Path)
	assert.Equal(t, []string{"Low", "Medium", "High", "Jam"}, cfg.Dataset.DefaultTraffic)
	assert.Equal(t, TraceExporterNone, cfg.Telemetry.TraceExporter)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfigFile(t, `
server:
  port: 9090
  read_timeout: 5s
dataset:
  path: /srv/extracts/train.csv
  default_traffic: [Jam, High]
logging:
  level: debug
  output: both
telemetry:
  trace_exporter: stdout
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, Default().Server.WriteTimeout, cfg.Server.WriteTimeout)
	assert.Equal(t, "/srv/extracts/train.csv", cfg.Dataset.Path)
	assert.Equal(t, []string{"Jam", "High"}, cfg.Dataset.DefaultTraffic)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "both", cfg.Logging.Output)
	assert.Equal(t, TraceExporterStdout, cfg.Telemetry.TraceExporter)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfigFile(t, "server:\n  port: 9090\ndataset:\n  path: file.csv\n")
	t.Setenv("DELIVERY_SERVER_PORT", "7070")
	t.Setenv("DELIVERY_DATASET_FILE", "env.csv")
	t.Setenv("DELIVERY_SECURITY_RATE_LIMIT_RPS", "5")
	t.Setenv("DELIVERY_DATASET_DEFAULT_TRAFFIC", "Low,Jam")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "env.csv", cfg.Dataset.Path)
	assert.Equal(t, 5.0, cfg.Security.RateLimit.RPS)
	assert.Equal(t, []string{"Low", "Jam"}, cfg.Dataset.DefaultTraffic)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		env     map[string]string
	}{
		{name: "invalid yaml", content: "server: [port"},
		{name: "invalid port", content: "server:\n  port: 70000\n"},
		{name: "unknown traffic", content: "dataset:\n  default_traffic: [Fast]\n"},
		{name: "empty dataset path", content: "dataset:\n  path: \"\"\n"},
		{name: "unknown exporter", content: "telemetry:\n  trace_exporter: jaeger\n"},
		{name: "bad env duration", env: map[string]string{"DELIVERY_SERVER_READ_TIMEOUT": "soon"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(writeConfigFile(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFileIsError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidate_NormalizesLogging(t *testing.T) {
	cfg := Default()
	cfg.Logging.Format = "text"
	cfg.Logging.Output = "syslog"
	cfg.Logging.FilePath = ""

	require.NoError(t, cfg.validate())
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "console", cfg.Logging.Output)
	assert.Equal(t, "logs/app.log", cfg.Logging.FilePath)
}

func TestConfigHelpers(t *testing.T) {
	cfg := Default()
	assert.Equal(t, ":8080", cfg.ListenAddr())

	cfg.Dataset.Path = "data/train.csv"
	assert.Equal(t, filepath.Join("/opt/app", "data/train.csv"), cfg.DatasetPath("/opt/app"))
	assert.Equal(t, "data/train.csv", cfg.DatasetPath(""))

	cfg.Dataset.Path = "/abs/train.csv"
	assert.Equal(t, "/abs/train.csv", cfg.DatasetPath("/opt/app"))
}
