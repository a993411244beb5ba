package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

//go:embed config.yml
var embeddedConfig []byte

type Config struct {
	Mode     string `mapstructure:"mode"`
	Handlers struct {
		Prometheus struct {
			Port      string `mapstructure:"port"`
			CertFile  string `mapstructure:"certFile"`
			KeyFile   string `mapstructure:"keyFile"`
			EnableTLS bool   `mapstructure:"enableTLS"`
		} `mapstructure:"prometheus"`
	} `mapstructure:"handlers"`
	Server struct {
		HTTPPort string        `mapstructure:"HTTPPort"`
		Timeout  time.Duration `mapstructure:"HTTPTimeout"`
	} `mapstructure:"server"`
	Geocode struct {
		NominatimURL string `mapstructure:"nominatimURL"`
		UserAgent    string `mapstructure:"userAgent"`
	} `mapstructure:"geocode"`
	AI struct {
		Model           string  `mapstructure:"model"`
		MaxOutputTokens int32   `mapstructure:"maxOutputTokens"`
		Temperature     float32 `mapstructure:"temperature"`
	} `mapstructure:"ai"`
	Images struct {
		PlacesSearchRadius int `mapstructure:"placesSearchRadius"`
	} `mapstructure:"images"`

	// API keys come from the environment only. A missing key degrades the
	// corresponding feature; it never fails startup.
	Keys APIKeys
}

// APIKeys holds every external credential the service can use.
type APIKeys struct {
	Gemini       string
	GooglePlaces string
	Pexels       string
	Unsplash     string
}

func InitConfig() (Config, error) {
	var config Config
	v := viper.New()

	// Add file-based config paths
	v.AddConfigPath(".")
	v.AddConfigPath("config")
	v.AddConfigPath("/app/config")

	v.SetConfigName("config")
	v.SetConfigType("yml")

	// Try to load file-based config
	err := v.ReadInConfig()
	if err != nil {
		fmt.Printf("Warning: Failed to find file-based config: %s. Falling back to embedded config.\n", err)
		if err = v.ReadConfig(bytes.NewReader(embeddedConfig)); err != nil {
			return Config{}, fmt.Errorf("failed to read embedded config: %s", err)
		}
	}

	// Unmarshal the config into the Config struct
	if err = v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %s", err)
	}

	config.Keys = APIKeys{
		Gemini:       os.Getenv("GEMINI_API_KEY"),
		GooglePlaces: os.Getenv("GOOGLE_PLACES_API_KEY"),
		Pexels:       os.Getenv("PEXELS_API_KEY"),
		Unsplash:     os.Getenv("UNSPLASH_API_KEY"),
	}

	if port := os.Getenv("PORT"); port != "" {
		config.Server.HTTPPort = port
	}

	return config, nil
}
