package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Port         string
	IsProduction bool

	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	// Trading defaults.
	BaseCurrency string

	// Rate providers.
	RequestTimeout     time.Duration
	CoinGeckoURL       string
	CryptoCurrencies   []string
	ExchangeRateAPIURL string
	ExchangeRateAPIKey string
	FiatCurrencies     []string

	// Rate cache policy.
	RatesTTL time.Duration

	// Storage file paths.
	UsersPath        string
	PortfoliosPath   string
	RatesPath        string
	RatesHistoryPath string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("JWT_ISSUER", "valutatrade-hub")
	viper.SetDefault("BASE_CURRENCY", "USD")
	viper.SetDefault("REQUEST_TIMEOUT", "10s")
	viper.SetDefault("COINGECKO_URL", "https://api.coingecko.com/api/v3/simple/price")
	viper.SetDefault("CRYPTO_CURRENCIES", "BTC,ETH")
	viper.SetDefault("EXCHANGERATE_API_URL", "https://v6.exchangerate-api.com/v6")
	viper.SetDefault("EXCHANGERATE_API_KEY", "")
	viper.SetDefault("FIAT_CURRENCIES", "EUR,RUB")
	viper.SetDefault("RATES_TTL_SECONDS", 300)
	viper.SetDefault("USERS_PATH", "data/users.json")
	viper.SetDefault("PORTFOLIOS_PATH", "data/portfolios.json")
	viper.SetDefault("RATES_PATH", "data/rates.json")
	viper.SetDefault("RATES_HISTORY_PATH", "data/rates_history.json")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	jwtExpiryStr := viper.GetString("JWT_EXPIRY_DURATION")
	jwtExpiryDuration, err := time.ParseDuration(jwtExpiryStr)
	if err != nil {
		jwtExpiryDuration = time.Hour
		log.Printf("Warning: Invalid value for JWT_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", jwtExpiryStr, jwtExpiryDuration.String())
	}
	cfg.JWTExpiryDuration = jwtExpiryDuration
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	cfg.BaseCurrency = strings.ToUpper(viper.GetString("BASE_CURRENCY"))

	requestTimeoutStr := viper.GetString("REQUEST_TIMEOUT")
	requestTimeout, err := time.ParseDuration(requestTimeoutStr)
	if err != nil {
		requestTimeout = 10 * time.Second
		log.Printf("Warning: Invalid value for REQUEST_TIMEOUT ('%s'). Defaulting to %s.\n", requestTimeoutStr, requestTimeout.String())
	}
	cfg.RequestTimeout = requestTimeout

	cfg.CoinGeckoURL = viper.GetString("COINGECKO_URL")
	cfg.CryptoCurrencies = splitCodes(viper.GetString("CRYPTO_CURRENCIES"))
	cfg.ExchangeRateAPIURL = viper.GetString("EXCHANGERATE_API_URL")
	cfg.ExchangeRateAPIKey = viper.GetString("EXCHANGERATE_API_KEY")
	cfg.FiatCurrencies = splitCodes(viper.GetString("FIAT_CURRENCIES"))

	ttlSeconds := viper.GetInt("RATES_TTL_SECONDS")
	if ttlSeconds <= 0 {
		ttlSeconds = 300
		log.Printf("Warning: Invalid value for RATES_TTL_SECONDS. Defaulting to %d.\n", ttlSeconds)
	}
	cfg.RatesTTL = time.Duration(ttlSeconds) * time.Second

	cfg.UsersPath = viper.GetString("USERS_PATH")
	cfg.PortfoliosPath = viper.GetString("PORTFOLIOS_PATH")
	cfg.RatesPath = viper.GetString("RATES_PATH")
	cfg.RatesHistoryPath = viper.GetString("RATES_HISTORY_PATH")

	return cfg, nil
}

// splitCodes parses a comma-separated currency list, uppercasing each entry.
func splitCodes(raw string) []string {
	var codes []string
	for _, part := range strings.Split(raw, ",") {
		code := strings.ToUpper(strings.TrimSpace(part))
		if code != "" {
			codes = append(codes, code)
		}
	}
	return codes
}
