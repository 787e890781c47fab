// Package config loads bggen settings from flags, environment and an optional file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/xob0t/bggen/pkg/palette"
	"github.com/xob0t/bggen/pkg/raster"
)

// EnvPrefix prefixes every environment variable, e.g. BGGEN_HTTP_PORT.
const EnvPrefix = "BGGEN"

// Config is the full application configuration.
type Config struct {
	HTTP    HTTP    `mapstructure:"http"`
	Canvas  Canvas  `mapstructure:"canvas"`
	Shape   Shape   `mapstructure:"shape"`
	Log     Log     `mapstructure:"log"`
	Session Session `mapstructure:"session"`
	Metrics Metrics `mapstructure:"metrics"`
}

// HTTP configures the widget server.
type HTTP struct {
	Address string `mapstructure:"address"`
	Port    int    `mapstructure:"port"`
}

// Canvas is the raster size. A known Preset overrides Width/Height.
type Canvas struct {
	Width  int    `mapstructure:"width"`
	Height int    `mapstructure:"height"`
	Preset string `mapstructure:"preset"`
}

// Shape styles the decorative markers.
type Shape struct {
	Radius float64 `mapstructure:"radius"`
	Color  string  `mapstructure:"color"`
	Alpha  float64 `mapstructure:"alpha"`
}

// Log configures zerolog.
type Log struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// Session configures the server-side session cookie.
type Session struct {
	CookieName string        `mapstructure:"cookie_name"`
	HashKey    string        `mapstructure:"hash_key"`
	BlockKey   string        `mapstructure:"block_key"`
	TTL        time.Duration `mapstructure:"ttl"`
}

// Metrics toggles the Prometheus endpoint.
type Metrics struct {
	Enabled bool `mapstructure:"enabled"`
}

// Presets maps canvas preset names to [width, height].
var Presets = map[string][2]int{
	"720p":             {1280, 720},
	"1080p":            {1920, 1080},
	"4k":               {3840, 2160},
	"instagram_square": {1080, 1080},
	"instagram_story":  {1080, 1920},
	"youtube_thumb":    {1280, 720},
}

// Minimum canvas size.
const (
	MinWidth  = 320
	MinHeight = 240
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("http.address", "")
	v.SetDefault("http.port", 8080)
	v.SetDefault("canvas.width", 1280)
	v.SetDefault("canvas.height", 720)
	v.SetDefault("canvas.preset", "")
	v.SetDefault("shape.radius", 0)
	v.SetDefault("shape.color", "#ffffff")
	v.SetDefault("shape.alpha", 0.6)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("session.cookie_name", "bggen_session")
	v.SetDefault("session.hash_key", "")
	v.SetDefault("session.block_key", "")
	v.SetDefault("session.ttl", 30*time.Minute)
	v.SetDefault("metrics.enabled", false)
}

// DefineFlags registers the flags GetConfig binds.
func DefineFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("http.address", "a", "", "interface address to listen on")
	cmd.Flags().IntP("http.port", "p", 8080, "port to bind HTTP server to")
	cmd.Flags().IntP("canvas.width", "W", 1280, "raster width in pixels")
	cmd.Flags().IntP("canvas.height", "H", 720, "raster height in pixels")
	cmd.Flags().String("canvas.preset", "", "canvas preset: 720p, 1080p, 4k, instagram_square, instagram_story, youtube_thumb")
	cmd.Flags().String("log.level", "info", "log level: trace, debug, info, warn, error or none")
	cmd.Flags().String("log.file", "", "optional log file - if not specified logs go to STDOUT")
	cmd.Flags().Bool("metrics.enabled", false, "enable Prometheus metrics endpoint")
}

var boundFlags = []string{
	"http.address", "http.port", "canvas.width", "canvas.height", "canvas.preset",
	"log.level", "log.file", "metrics.enabled",
}

// GetConfig merges defaults, configFile (optional), envFile (optional), BGGEN_*
// environment variables and flags changed on cmd. A missing configFile is an
// error only when it was set explicitly through the config flag.
func GetConfig(cmd *cobra.Command, configFile, envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return Config{}, fmt.Errorf("load env file %s: %w", envFile, err)
		}
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cmd != nil {
		for _, name := range boundFlags {
			if f := cmd.Flags().Lookup(name); f != nil {
				_ = v.BindPFlag(name, f)
			}
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			// Only the default path may be missing.
			var notFound *os.PathError
			if !errors.As(err, &notFound) || configFlagChanged(cmd) {
				return Config{}, fmt.Errorf("read config file %s: %w", configFile, err)
			}
		}
	}

	var conf Config
	if err := v.Unmarshal(&conf); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	conf.applyCanvasPreset()
	if err := conf.Validate(); err != nil {
		return Config{}, err
	}
	return conf, nil
}

// ConfigFlag is the persistent flag naming the config file.
const ConfigFlag = "config"

func configFlagChanged(cmd *cobra.Command) bool {
	if cmd == nil {
		return false
	}
	f := cmd.Flags().Lookup(ConfigFlag)
	return f != nil && f.Changed
}

func (c *Config) applyCanvasPreset() {
	if dims, ok := Presets[c.Canvas.Preset]; ok {
		c.Canvas.Width = dims[0]
		c.Canvas.Height = dims[1]
	}
	c.Canvas.Width = max(c.Canvas.Width, MinWidth)
	c.Canvas.Height = max(c.Canvas.Height, MinHeight)
}

// Validate reports configuration values that cannot work.
func (c Config) Validate() error {
	if c.Canvas.Preset != "" {
		if _, ok := Presets[c.Canvas.Preset]; !ok {
			return fmt.Errorf("unknown canvas preset %q", c.Canvas.Preset)
		}
	}
	if c.Shape.Color != "" {
		if _, err := palette.ParseHex(c.Shape.Color); err != nil {
			return fmt.Errorf("shape.color: %w", err)
		}
	}
	if c.Shape.Alpha < 0 || c.Shape.Alpha > 1 {
		return fmt.Errorf("shape.alpha %v out of range [0,1]", c.Shape.Alpha)
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("session.ttl must be positive")
	}
	if n := len(c.Session.BlockKey); n != 0 && n != 16 && n != 24 && n != 32 {
		return fmt.Errorf("session.block_key must be 16, 24 or 32 bytes, got %d", n)
	}
	if c.HTTP.Port < 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port %d out of range", c.HTTP.Port)
	}
	return nil
}

// RasterOptions converts canvas and shape settings for the rasteriser.
func (c Config) RasterOptions() raster.Options {
	return raster.Options{
		Width:       c.Canvas.Width,
		Height:      c.Canvas.Height,
		ShapeRadius: c.Shape.Radius,
		ShapeColor:  c.Shape.Color,
		ShapeAlpha:  c.Shape.Alpha,
	}
}
