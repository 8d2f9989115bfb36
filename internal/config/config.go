// Package config loads enemyradar.cfg.json through viper and exposes typed
// views of it.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// FileName is the config file looked up in the config directory.
const FileName = "enemyradar.cfg.json"

// RadarConfig holds scan cadence, ring distances and screen layout.
type RadarConfig struct {
	NearDistance       float64
	MidDistance        float64
	FarDistance        float64
	ClassifyInterval   time.Duration
	LootInterval       time.Duration
	LowHealthThreshold float64
	Size               float64
	Margin             float64
	Lift               float64
	TextureSize        int
	DotTextureSize     int
	DotSize            float64
	LootRangeFactor    float64
	PulseSpeed         float64
}

// LootConfig selects drop containers and item values.
type LootConfig struct {
	ContainerMarker string
	ItemTypeName    string
}

// BeamConfig shapes the world-space loot beams.
type BeamConfig struct {
	Enabled bool
	Height  float64
	Width   float64
	Offset  float64
	Alpha   float64
}

// MemoryConfig holds in-memory journal settings.
type MemoryConfig struct {
	OutputDir      string `json:"outputDir" mapstructure:"outputDir"`
	CompressOutput bool   `json:"compressOutput" mapstructure:"compressOutput"`
}

// SQLiteConfig holds SQLite journal settings.
type SQLiteConfig struct {
	DumpInterval time.Duration
	DumpPath     string
}

// PostgresConfig holds Postgres connection settings.
type PostgresConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	Database string
}

// WebSocketConfig holds the journal streaming endpoint.
type WebSocketConfig struct {
	URL    string
	Secret string
}

// StorageConfig selects and configures the scan journal backend.
type StorageConfig struct {
	Type          string
	FlushInterval time.Duration
	Memory        MemoryConfig
	SQLite        SQLiteConfig
	Postgres      PostgresConfig
	WebSocket     WebSocketConfig
}

// OTelConfig holds OpenTelemetry settings.
type OTelConfig struct {
	Enabled      bool
	ServiceName  string
	BatchTimeout time.Duration
	Endpoint     string
	Insecure     bool
}

// InfluxConfig holds InfluxDB settings for scan metrics.
type InfluxConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Protocol string
	Token    string
	Org      string
	Bucket   string
}

// GraylogConfig holds GELF output settings.
type GraylogConfig struct {
	Enabled bool
	Address string
}

// SetDefaults registers every default value.
func SetDefaults() {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./radarlogs")

	viper.SetDefault("radar.nearDistance", 7.0)
	viper.SetDefault("radar.midDistance", 20.0)
	viper.SetDefault("radar.farDistance", 35.0)
	viper.SetDefault("radar.classifyInterval", "3s")
	viper.SetDefault("radar.lootInterval", "500ms")
	viper.SetDefault("radar.lowHealthThreshold", 0.3)
	viper.SetDefault("radar.size", 200.0)
	viper.SetDefault("radar.margin", 20.0)
	viper.SetDefault("radar.lift", 80.0)
	viper.SetDefault("radar.textureSize", 256)
	viper.SetDefault("radar.dotTextureSize", 32)
	viper.SetDefault("radar.dotSize", 7.0)
	viper.SetDefault("radar.lootRangeFactor", 1.2)
	viper.SetDefault("radar.pulseSpeed", 4.0)

	viper.SetDefault("loot.containerMarker", "lootbox_enemydie_template")
	viper.SetDefault("loot.itemTypeName", "Item")

	viper.SetDefault("beam.enabled", true)
	viper.SetDefault("beam.height", 6.0)
	viper.SetDefault("beam.width", 0.25)
	viper.SetDefault("beam.offset", 0.2)
	viper.SetDefault("beam.alpha", 0.8)

	viper.SetDefault("storage.type", "memory")
	viper.SetDefault("storage.flushInterval", "5s")
	viper.SetDefault("storage.memory.outputDir", "")
	viper.SetDefault("storage.memory.compressOutput", false)
	viper.SetDefault("storage.sqlite.dumpInterval", "1m")
	viper.SetDefault("storage.sqlite.dumpPath", "")
	viper.SetDefault("storage.websocket.url", "ws://localhost:5000/journal")
	viper.SetDefault("storage.websocket.secret", "")

	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", "5432")
	viper.SetDefault("db.username", "postgres")
	viper.SetDefault("db.password", "postgres")
	viper.SetDefault("db.database", "enemyradar")

	viper.SetDefault("otel.enabled", false)
	viper.SetDefault("otel.serviceName", "enemyradar")
	viper.SetDefault("otel.batchTimeout", "5s")
	viper.SetDefault("otel.endpoint", "")
	viper.SetDefault("otel.insecure", true)

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.host", "localhost")
	viper.SetDefault("influx.port", "8086")
	viper.SetDefault("influx.protocol", "http")
	viper.SetDefault("influx.token", "")
	viper.SetDefault("influx.org", "enemyradar")
	viper.SetDefault("influx.bucket", "radar")

	viper.SetDefault("graylog.enabled", false)
	viper.SetDefault("graylog.address", "localhost:12201")
}

// Load sets default values and reads the config file from configDir.
// Defaults stay in effect when the file is missing; the error is still
// returned so the caller can log it.
func Load(configDir string) error {
	SetDefaults()

	viper.SetConfigName(FileName)
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}
	return nil
}

// GetRadarConfig returns radar settings.
func GetRadarConfig() RadarConfig {
	return RadarConfig{
		NearDistance:       viper.GetFloat64("radar.nearDistance"),
		MidDistance:        viper.GetFloat64("radar.midDistance"),
		FarDistance:        viper.GetFloat64("radar.farDistance"),
		ClassifyInterval:   viper.GetDuration("radar.classifyInterval"),
		LootInterval:       viper.GetDuration("radar.lootInterval"),
		LowHealthThreshold: viper.GetFloat64("radar.lowHealthThreshold"),
		Size:               viper.GetFloat64("radar.size"),
		Margin:             viper.GetFloat64("radar.margin"),
		Lift:               viper.GetFloat64("radar.lift"),
		TextureSize:        viper.GetInt("radar.textureSize"),
		DotTextureSize:     viper.GetInt("radar.dotTextureSize"),
		DotSize:            viper.GetFloat64("radar.dotSize"),
		LootRangeFactor:    viper.GetFloat64("radar.lootRangeFactor"),
		PulseSpeed:         viper.GetFloat64("radar.pulseSpeed"),
	}
}

// GetLootConfig returns loot survey settings.
func GetLootConfig() LootConfig {
	return LootConfig{
		ContainerMarker: viper.GetString("loot.containerMarker"),
		ItemTypeName:    viper.GetString("loot.itemTypeName"),
	}
}

// GetBeamConfig returns loot beam settings.
func GetBeamConfig() BeamConfig {
	return BeamConfig{
		Enabled: viper.GetBool("beam.enabled"),
		Height:  viper.GetFloat64("beam.height"),
		Width:   viper.GetFloat64("beam.width"),
		Offset:  viper.GetFloat64("beam.offset"),
		Alpha:   viper.GetFloat64("beam.alpha"),
	}
}

// GetStorageConfig returns scan journal settings.
func GetStorageConfig() StorageConfig {
	return StorageConfig{
		Type:          viper.GetString("storage.type"),
		FlushInterval: viper.GetDuration("storage.flushInterval"),
		Memory: MemoryConfig{
			OutputDir:      viper.GetString("storage.memory.outputDir"),
			CompressOutput: viper.GetBool("storage.memory.compressOutput"),
		},
		SQLite: SQLiteConfig{
			DumpInterval: viper.GetDuration("storage.sqlite.dumpInterval"),
			DumpPath:     viper.GetString("storage.sqlite.dumpPath"),
		},
		Postgres: PostgresConfig{
			Host:     viper.GetString("db.host"),
			Port:     viper.GetString("db.port"),
			Username: viper.GetString("db.username"),
			Password: viper.GetString("db.password"),
			Database: viper.GetString("db.database"),
		},
		WebSocket: WebSocketConfig{
			URL:    viper.GetString("storage.websocket.url"),
			Secret: viper.GetString("storage.websocket.secret"),
		},
	}
}

// GetOTelConfig returns OpenTelemetry settings.
func GetOTelConfig() OTelConfig {
	return OTelConfig{
		Enabled:      viper.GetBool("otel.enabled"),
		ServiceName:  viper.GetString("otel.serviceName"),
		BatchTimeout: viper.GetDuration("otel.batchTimeout"),
		Endpoint:     viper.GetString("otel.endpoint"),
		Insecure:     viper.GetBool("otel.insecure"),
	}
}

// GetInfluxConfig returns InfluxDB settings.
func GetInfluxConfig() InfluxConfig {
	return InfluxConfig{
		Enabled:  viper.GetBool("influx.enabled"),
		Host:     viper.GetString("influx.host"),
		Port:     viper.GetString("influx.port"),
		Protocol: viper.GetString("influx.protocol"),
		Token:    viper.GetString("influx.token"),
		Org:      viper.GetString("influx.org"),
		Bucket:   viper.GetString("influx.bucket"),
	}
}

// GetGraylogConfig returns GELF output settings.
func GetGraylogConfig() GraylogConfig {
	return GraylogConfig{
		Enabled: viper.GetBool("graylog.enabled"),
		Address: viper.GetString("graylog.address"),
	}
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}
