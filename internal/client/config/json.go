package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/crambrain/cram/internal/flagx"
	"github.com/crambrain/cram/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify the timeout either as a string like
// "30s" or as integer nanoseconds. After parsing, values are copied into
// the runtime Config.
type JsonConfig struct {
	BaseURL        *string         `json:"base_url"`
	RequestTimeout *timex.Duration `json:"request_timeout"`
	MaxUploadBytes *int64          `json:"max_upload_bytes"`
	CachePath      *string         `json:"cache_path"`
	LogLevel       *string         `json:"log_level"`
}

// parseJson overlays Config with values loaded from a JSON file resolved
// via the -c/-config flags. Absent file means no overlay; read or
// unmarshal errors panic (caller may recover). Only fields present in the
// JSON override the current values.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.BaseURL != nil {
		cfg.BaseURL = *jc.BaseURL
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = time.Duration(jc.RequestTimeout.Duration)
	}
	if jc.MaxUploadBytes != nil {
		cfg.MaxUploadBytes = *jc.MaxUploadBytes
	}
	if jc.CachePath != nil {
		cfg.CachePath = *jc.CachePath
	}
	if jc.LogLevel != nil {
		cfg.LogLevel = *jc.LogLevel
	}
}
