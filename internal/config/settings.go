package config

import (
	_ "embed"
	"encoding/json"
	"errors"
	"os"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
)

type Config struct {
	Submissions struct {
		// MaxVerifiedPerUser bounds how many verified results a user
		// may hold at the same time.
		MaxVerifiedPerUser int `json:"max_verified_per_user"`
		// MaxParseInput caps the raw text accepted by the parser, in bytes.
		MaxParseInput int    `json:"max_parse_input"`
		DefaultSource string `json:"default_source"`
	} `json:"submissions"`

	Scoring struct {
		// BaselineSeconds is the reference run used to normalize scores.
		BaselineSeconds float64 `json:"baseline_seconds"`
		KeyBits         int     `json:"key_bits"`
	} `json:"scoring"`

	Classifier struct {
		// Hand-tuned policy, kept configurable rather than baked in.
		HighConfidence float64 `json:"high_confidence"`
		WeakCueFloor   float64 `json:"weak_cue_floor"`
		FallbackScore  float64 `json:"fallback_score"`
	} `json:"classifier"`

	Leaderboard struct {
		DefaultPageSize int `json:"default_page_size"`
		MaxPageSize     int `json:"max_page_size"`
		CacheTTLSeconds int `json:"cache_ttl_seconds"`
	} `json:"leaderboard"`
}

const settingsFilePath = "data/settings.json"

var (
	//go:embed default_settings.json
	defaultConfig []byte

	configValue atomic.Value
	configMu    sync.Mutex

	InProductionMode bool
)

func init() {
	cfg := Config{}
	if err := json.Unmarshal(defaultConfig, &cfg); err == nil {
		configValue.Store(cfg)
	} else {
		configValue.Store(Config{})
	}
}

func ReadSettings() {
	data, err := os.ReadFile(settingsFilePath)
	if err != nil {
		if os.IsNotExist(err) {
			log.Warn("Settings file not found, creating with default configuration")

			err = os.MkdirAll("data", os.ModePerm)
			if err != nil {
				log.Error("Error creating directory for settings file:", err)
				return
			}

			err = os.WriteFile(settingsFilePath, defaultConfig, os.ModePerm)
			if err != nil {
				log.Error("Error writing default settings file:", err)
				return
			}

			data = defaultConfig
		} else {
			log.Error("Error reading settings file:", err)
			return
		}
	}

	var newConfig Config
	err = json.Unmarshal(data, &newConfig)
	if err != nil {
		log.Error("Error unmarshalling settings file:", err)
		return
	}

	if err := applyConfigUpdate(newConfig, configUpdateOptions{source: "file"}); err != nil {
		log.Error("Error applying configuration from settings file:", err)
		return
	}

	log.Debug("Settings file loaded successfully")
}

func SetConfig(newConfig Config) {
	if err := applyConfigUpdate(newConfig, configUpdateOptions{persistToFile: true, broadcast: true, source: "local"}); err != nil {
		log.Error("Error applying configuration update:", err)
		return
	}

	log.Debug("Configuration updated and written to file successfully")
}

type configUpdateOptions struct {
	persistToFile bool
	broadcast     bool
	source        string
}

func applyConfigUpdate(newConfig Config, opts configUpdateOptions) error {
	configMu.Lock()
	defer configMu.Unlock()

	newConfig.normalize()
	configValue.Store(newConfig)

	var errs []error

	if opts.persistToFile {
		data, err := json.MarshalIndent(newConfig, "", "  ")
		if err != nil {
			log.Error("Error marshalling new configuration:", err)
			errs = append(errs, err)
		} else if err := os.WriteFile(settingsFilePath, data, os.ModePerm); err != nil {
			log.Error("Error writing new configuration to file:", err)
			errs = append(errs, err)
		}
	}

	if opts.broadcast {
		payload, err := json.Marshal(newConfig)
		if err != nil {
			log.Error("Error serializing configuration for broadcast:", err)
			errs = append(errs, err)
		} else if err := broadcastConfigUpdate(payload); err != nil {
			log.Error("Error broadcasting configuration update:", err)
			errs = append(errs, err)
		}
	}

	if opts.source != "" {
		log.Debug("Configuration applied", "source", opts.source)
	} else {
		log.Debug("Configuration applied")
	}

	return errors.Join(errs...)
}

// normalize backfills unset or nonsensical values so a sparse or
// hand-edited settings file cannot disable the quota or the pager.
func (cfg *Config) normalize() {
	if cfg.Submissions.MaxVerifiedPerUser <= 0 {
		cfg.Submissions.MaxVerifiedPerUser = 3
	}
	if cfg.Submissions.MaxParseInput <= 0 {
		cfg.Submissions.MaxParseInput = 10000
	}
	if cfg.Submissions.DefaultSource == "" {
		cfg.Submissions.DefaultSource = "web"
	}
	if cfg.Scoring.BaselineSeconds <= 0 {
		cfg.Scoring.BaselineSeconds = 100.0
	}
	if cfg.Scoring.KeyBits <= 0 {
		cfg.Scoring.KeyBits = 28
	}
	if cfg.Classifier.HighConfidence <= 0 {
		cfg.Classifier.HighConfidence = 0.7
	}
	if cfg.Classifier.WeakCueFloor <= 0 {
		cfg.Classifier.WeakCueFloor = 0.3
	}
	if cfg.Classifier.FallbackScore <= 0 {
		cfg.Classifier.FallbackScore = 0.6
	}
	if cfg.Leaderboard.DefaultPageSize <= 0 {
		cfg.Leaderboard.DefaultPageSize = 20
	}
	if cfg.Leaderboard.MaxPageSize <= 0 {
		cfg.Leaderboard.MaxPageSize = 100
	}
	if cfg.Leaderboard.CacheTTLSeconds < 0 {
		cfg.Leaderboard.CacheTTLSeconds = 0
	}
}

func GetConfig() Config {
	return configValue.Load().(Config)
}

func SetProductionMode(productionMode bool) {
	InProductionMode = productionMode
}
