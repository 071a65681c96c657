package config

import (
	"encoding/json"
	"os"

	"github.com/avramovs/clientbook/internal/flagx"
	"github.com/avramovs/clientbook/internal/timex"
)

// JsonConfig is the DTO used for JSON unmarshalling only. timex.Duration
// lets the file spell timeouts either as "10s" or as integer nanoseconds.
type JsonConfig struct {
	ServerURL      string         `json:"server_url"`
	RequestTimeout timex.Duration `json:"request_timeout"`
	LocalDBPath    string         `json:"local_db_path"`
}

// parseJson overlays cfg with values loaded from the JSON file named by the
// -c/-config flags. No flag, no overlay. Read or unmarshal errors panic;
// a config file that exists must be readable.
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

	if jc.ServerURL != "" {
		cfg.ServerURL = jc.ServerURL
	}
	if jc.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.LocalDBPath != "" {
		cfg.LocalDBPath = jc.LocalDBPath
	}
}
