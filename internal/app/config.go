package app

import (
	"time"

	"github.com/runegraph/runegraph-backend/internal/platform/logger"
	"github.com/runegraph/runegraph-backend/internal/utils"
)

type Config struct {
	JWTSecretKey       string
	AccessTokenTTL     time.Duration
	AdmissionWindow    time.Duration
	AdmissionMaxScans  int64
	HTTPAddr           string
	ServiceName        string
	Environment        string
	Version            string
	SeasonMultiplier   float64
	AllowedCORSOrigins []string
}

func LoadConfig(log *logger.Logger) Config {
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTLSeconds := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	admissionWindowSeconds := utils.GetEnvAsInt("ADMISSION_WINDOW_SECONDS", 50, log)
	admissionMaxScans := utils.GetEnvAsInt("ADMISSION_MAX_GENERAL", 10, log)
	port := utils.GetEnv("PORT", "8080", log)
	seasonMultiplier := float64(utils.GetEnvAsInt("SEASON_MULTIPLIER_PCT", 100, log)) / 100.0
	return Config{
		JWTSecretKey:      jwtSecretKey,
		AccessTokenTTL:    time.Duration(accessTokenTTLSeconds) * time.Second,
		AdmissionWindow:   time.Duration(admissionWindowSeconds) * time.Second,
		AdmissionMaxScans: int64(admissionMaxScans),
		HTTPAddr:          ":" + port,
		ServiceName:       utils.GetEnv("SERVICE_NAME", "runegraph-backend", log),
		Environment:       utils.GetEnv("ENVIRONMENT", "development", log),
		Version:           utils.GetEnv("SERVICE_VERSION", "dev", log),
		SeasonMultiplier:  seasonMultiplier,
		AllowedCORSOrigins: []string{
			"http://localhost:3000",
			"http://localhost:5173",
		},
	}
}
