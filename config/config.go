// Package config loads application configuration from YAML files with
// environment-variable overrides.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

const defaultPath = "."

type Config struct {
	Env struct {
		Env         string `json:"env" yaml:"env"`
		ServiceName string `json:"serviceName" yaml:"serviceName"`
		Debug       bool   `json:"debug" yaml:"debug"`
		Log         Log    `json:"log" yaml:"log"`
	} `json:"env" yaml:"env"`

	HTTP struct {
		Port int `json:"port" yaml:"port"`
	} `json:"http" yaml:"http"`

	Postgres *PostgresConfig `json:"postgres" yaml:"postgres"`

	Redis *RedisConfig `json:"redis" yaml:"redis"`

	// Providers configures the external routing provider chain.
	Providers *ProvidersConfig `json:"providers" yaml:"providers"`

	// Traffic holds the heuristic congestion tables.
	Traffic *TrafficConfig `json:"traffic" yaml:"traffic"`

	// Estimator holds travel-estimation tunables.
	Estimator *EstimatorConfig `json:"estimator" yaml:"estimator"`

	// Reorder holds queue-reordering thresholds.
	Reorder *ReorderConfig `json:"reorder" yaml:"reorder"`

	// Scheduler holds the per-job intervals and retry policy.
	Scheduler *SchedulerConfig `json:"scheduler" yaml:"scheduler"`

	// Dispatch configures the notification dispatch channel.
	Dispatch *DispatchConfig `json:"dispatch" yaml:"dispatch"`
}

type Log struct {
	Pretty bool   `json:"pretty" yaml:"pretty"`
	Level  string `json:"level" yaml:"level"`
}

// PostgresConfig defines the primary database connection.
type PostgresConfig struct {
	Host     string `json:"host" yaml:"host"`
	Port     int    `json:"port" yaml:"port"`
	User     string `json:"user" yaml:"user"`
	Password string `json:"password" yaml:"password"`
	DBName   string `json:"dbName" yaml:"dbName"`
	SSLMode  string `json:"sslMode" yaml:"sslMode"`

	MaxOpenConns    int           `json:"maxOpenConns" yaml:"maxOpenConns"`
	MaxIdleConns    int           `json:"maxIdleConns" yaml:"maxIdleConns"`
	ConnMaxLifetime time.Duration `json:"connMaxLifetime" yaml:"connMaxLifetime"`
}

// RedisConfig defines the route-time cache connection.
type RedisConfig struct {
	URL string `json:"url" yaml:"url"`
}

// ProvidersConfig defines the external routing providers, attempted in order.
type ProvidersConfig struct {
	// Traffic-aware mapping API (attempted first).
	Maps struct {
		BaseURL string `json:"baseUrl" yaml:"baseUrl"`
		APIKey  string `json:"apiKey" yaml:"apiKey"`
	} `json:"maps" yaml:"maps"`

	// Static routing API without a live traffic signal (fallback).
	OSRM struct {
		BaseURL string `json:"baseUrl" yaml:"baseUrl"`
	} `json:"osrm" yaml:"osrm"`

	// RequestTimeout bounds each provider call.
	RequestTimeout time.Duration `json:"requestTimeout" yaml:"requestTimeout"`

	// Cache TTLs differ because traffic-aware results decay faster.
	TrafficAwareTTL time.Duration `json:"trafficAwareTtl" yaml:"trafficAwareTtl"`
	StaticTTL       time.Duration `json:"staticTtl" yaml:"staticTtl"`
}

// TrafficConfig externalizes the hand-tuned congestion tables so they can be
// retuned without redeploying logic.
type TrafficConfig struct {
	// HourlyFactors has one multiplier per hour of day (24 entries).
	HourlyFactors map[int]float64 `json:"hourlyFactors" yaml:"hourlyFactors"`

	// DailyFactors has one multiplier per weekday (time.Weekday numbering,
	// Sunday=0).
	DailyFactors map[int]float64 `json:"dailyFactors" yaml:"dailyFactors"`

	// Rush-hour windows, hours in [start, end).
	MorningRushStart int `json:"morningRushStart" yaml:"morningRushStart"`
	MorningRushEnd   int `json:"morningRushEnd" yaml:"morningRushEnd"`
	EveningRushStart int `json:"eveningRushStart" yaml:"eveningRushStart"`
	EveningRushEnd   int `json:"eveningRushEnd" yaml:"eveningRushEnd"`

	// RouteConditionMaxAge is the freshness window for per-route conditions.
	RouteConditionMaxAge time.Duration `json:"routeConditionMaxAge" yaml:"routeConditionMaxAge"`

	// DefaultRouteFactor applies when neither a fresh condition nor locality
	// baselines are available.
	DefaultRouteFactor float64 `json:"defaultRouteFactor" yaml:"defaultRouteFactor"`
}

// EstimatorConfig externalizes per-mode speeds and safety-margin tunables.
type EstimatorConfig struct {
	// BaseSpeedsKmh maps transport mode to assumed urban speed.
	BaseSpeedsKmh map[string]float64 `json:"baseSpeedsKmh" yaml:"baseSpeedsKmh"`

	// MarginMultipliers maps transport mode to a reliability multiplier for
	// the safety margin.
	MarginMultipliers map[string]float64 `json:"marginMultipliers" yaml:"marginMultipliers"`

	// Margin clamp in minutes.
	MinMarginMinutes int `json:"minMarginMinutes" yaml:"minMarginMinutes"`
	MaxMarginMinutes int `json:"maxMarginMinutes" yaml:"maxMarginMinutes"`

	// Confidence scores for provider-backed vs locally computed estimates.
	ProviderConfidence int `json:"providerConfidence" yaml:"providerConfidence"`
	FallbackConfidence int `json:"fallbackConfidence" yaml:"fallbackConfidence"`

	// EstimateMaxAge is the freshness window before an estimate must be
	// recomputed.
	EstimateMaxAge time.Duration `json:"estimateMaxAge" yaml:"estimateMaxAge"`

	// WeatherMaxAge bounds how old a weather record may be before it degrades
	// to no impact.
	WeatherMaxAge time.Duration `json:"weatherMaxAge" yaml:"weatherMaxAge"`
}

// ReorderConfig holds the queue reordering thresholds. The values mirror the
// production tuning and are deliberately configurable rather than re-derived.
type ReorderConfig struct {
	// TriggerThresholdMinutes: reorder when travel exceeds remaining wait by
	// more than this.
	TriggerThresholdMinutes float64 `json:"triggerThresholdMinutes" yaml:"triggerThresholdMinutes"`

	// PositionToleranceMinutes: a position fits when its implied wait is
	// within this window of the travel time.
	PositionToleranceMinutes float64 `json:"positionToleranceMinutes" yaml:"positionToleranceMinutes"`
}

// SchedulerConfig holds per-job intervals and the retry policy.
type SchedulerConfig struct {
	RefreshPositionsInterval  time.Duration `json:"refreshPositionsInterval" yaml:"refreshPositionsInterval"`
	ComputeEstimatesInterval  time.Duration `json:"computeEstimatesInterval" yaml:"computeEstimatesInterval"`
	EvaluateReordersInterval  time.Duration `json:"evaluateReordersInterval" yaml:"evaluateReordersInterval"`
	DepartureNoticesInterval  time.Duration `json:"departureNoticesInterval" yaml:"departureNoticesInterval"`
	RefreshConditionsInterval time.Duration `json:"refreshConditionsInterval" yaml:"refreshConditionsInterval"`
	CleanupInterval           time.Duration `json:"cleanupInterval" yaml:"cleanupInterval"`

	// MaxAttempts bounds retries of a failed job run.
	MaxAttempts int `json:"maxAttempts" yaml:"maxAttempts"`
	// BackoffBase is the first retry delay; doubled per attempt.
	BackoffBase time.Duration `json:"backoffBase" yaml:"backoffBase"`
}

// DispatchConfig selects the notification dispatch channel.
type DispatchConfig struct {
	// Provider type: "local" for local HTTP push or "google" for Google Pub/Sub.
	Provider string `json:"provider" yaml:"provider"`

	// Google Cloud project ID (for google provider).
	ProjectID string `json:"projectId" yaml:"projectId"`

	// Pub/Sub topic ID (for google provider).
	TopicID string `json:"topicId" yaml:"topicId"`

	// Local HTTP endpoint for development (for local provider).
	LocalEndpoint string `json:"localEndpoint" yaml:"localEndpoint"`
}

// LoadWithEnv loads .yaml files through koanf.
func LoadWithEnv[T any](currEnv string, configPath ...string) (*T, error) {
	cfg := new(T)
	koanfInstance := koanf.New(".")

	// Build list of paths to search for config file
	searchPaths := []string{defaultPath}
	if len(configPath) != 0 {
		pwd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, "os.Getwd")
		}
		for _, path := range configPath {
			abs := filepath.Join(pwd, path)
			searchPaths = append(searchPaths, abs)
		}
	}

	// Try to find and load the config file
	var configFile string
	var found bool
	for _, path := range searchPaths {
		candidate := filepath.Join(path, currEnv+".yaml")
		if _, err := os.Stat(candidate); err == nil {
			configFile = candidate
			found = true

			break
		}
	}

	if !found {
		return nil, errors.Errorf("config file %s.yaml not found in any search path", currEnv)
	}

	// Load YAML config file
	if err := koanfInstance.Load(file.Provider(configFile), yaml.Parser()); err != nil {
		return nil, errors.Wrapf(err, "read %s config failed", currEnv)
	}

	existingConfigMap := koanfInstance.Raw()

	// Load environment variables
	if err := koanfInstance.Load(env.Provider(".", env.Opt{
		TransformFunc: func(k, v string) (string, any) {
			// Convert ENV_VAR_NAME to path and align each segment with existing YAML keys.
			// Example: POSTGRES_SSLMODE -> postgres.sslMode (not postgres.sslmode)
			key := canonicalizeEnvKey(k, existingConfigMap)

			return key, v
		},
	}), nil); err != nil {
		return nil, errors.Wrap(err, "load env variables failed")
	}

	// Unmarshal into the config struct (case-insensitive to match env vars)
	if err := koanfInstance.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
			MatchName: func(mapKey, fieldName string) bool {
				// Case-insensitive matching for env var overrides
				return strings.EqualFold(mapKey, fieldName)
			},
		},
	}); err != nil {
		return nil, errors.Wrapf(err, "unmarshal %s config failed", currEnv)
	}

	return cfg, nil
}

func New() (*Config, error) {
	cfg, err := LoadWithEnv[Config]("config", "config", "../config", "../../config")
	if err != nil {
		return nil, err
	}

	cfg.ApplyDefaults()

	return cfg, nil
}

func canonicalizeEnvKey(rawKey string, existing map[string]any) string {
	segments := strings.Split(strings.ToLower(rawKey), "_")
	canonical := make([]string, 0, len(segments))
	current := existing

	for _, segment := range segments {
		if segment == "" {
			continue
		}

		if matched, next, ok := findExistingSegment(current, segment); ok {
			canonical = append(canonical, matched)
			current = next
		} else {
			canonical = append(canonical, segment)
			current = nil
		}
	}

	return strings.Join(canonical, ".")
}

func findExistingSegment(current map[string]any, segment string) (matched string, next map[string]any, ok bool) {
	if len(current) == 0 {
		return "", nil, false
	}

	needle := normalizeToken(segment)
	for key, value := range current {
		if normalizeToken(key) != needle {
			continue
		}

		child, _ := value.(map[string]any)

		return key, child, true
	}

	return "", nil, false
}

func normalizeToken(s string) string {
	var normalized strings.Builder
	normalized.Grow(len(s))

	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			continue
		}
		normalized.WriteRune(unicode.ToLower(r))
	}

	return normalized.String()
}
