package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server        Server
	Database      Database
	Grading       Grading
	GeminiApiKey  string
	OcrServiceURL string
	UploadDir     string
}

type Server struct {
	Port string
}

type Database struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

// Grading carries the marking policy. The credit weights and the CGPA
// multiplier are rubric constants, configurable so a grading-scale change
// does not require a redeploy.
type Grading struct {
	CreditWeights     []float64
	CgpaMultiplier    float64
	DefaultTotalMarks float64
	DefaultWordLimit  int
}

func NewConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("UPLOAD_DIR", "uploads")
	viper.SetDefault("GRADING_CREDIT_WEIGHTS", "4,3,2,1")
	viper.SetDefault("GRADING_CGPA_MULTIPLIER", 9.5)
	viper.SetDefault("GRADING_DEFAULT_TOTAL_MARKS", 10)
	viper.SetDefault("GRADING_DEFAULT_WORD_LIMIT", 100)

	var config Config

	config.Server.Port = viper.GetString("SERVER_PORT")
	config.Database.Host = viper.GetString("DATABASE_HOST")
	config.Database.Port = viper.GetString("DATABASE_PORT")
	config.Database.User = viper.GetString("DATABASE_USER")
	config.Database.Password = viper.GetString("DATABASE_PASSWORD")
	config.Database.Name = viper.GetString("DATABASE_NAME")

	config.GeminiApiKey = viper.GetString("GEMINI_API_KEY")
	config.OcrServiceURL = viper.GetString("OCR_SERVICE_URL")
	config.UploadDir = viper.GetString("UPLOAD_DIR")

	weights, err := parseWeights(viper.GetString("GRADING_CREDIT_WEIGHTS"))
	if err != nil {
		return nil, fmt.Errorf("invalid GRADING_CREDIT_WEIGHTS: %w", err)
	}
	config.Grading.CreditWeights = weights
	config.Grading.CgpaMultiplier = viper.GetFloat64("GRADING_CGPA_MULTIPLIER")
	config.Grading.DefaultTotalMarks = viper.GetFloat64("GRADING_DEFAULT_TOTAL_MARKS")
	config.Grading.DefaultWordLimit = viper.GetInt("GRADING_DEFAULT_WORD_LIMIT")

	log.Info().Interface("config", config).Msg("Config loaded")
	return &config, nil
}

func parseWeights(raw string) ([]float64, error) {
	parts := strings.Split(raw, ",")
	weights := make([]float64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		w, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, fmt.Errorf("weight %q is not a number", p)
		}
		weights = append(weights, w)
	}
	return weights, nil
}
