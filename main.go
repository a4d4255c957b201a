package main

import (
	"context"
	"crypto/tls"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/MicahParks/keyfunc"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"serene-api/ai"
	"serene-api/api"
	"serene-api/storage"
)

func main() {
	_ = godotenv.Load()

	if dbg, err := strconv.ParseBool(os.Getenv("DEBUG")); err == nil && dbg {
		log.SetLevel(log.DebugLevel)
	}

	mongoURI := os.Getenv("MONGODB_URI")
	if mongoURI == "" {
		log.Fatal("missing MONGODB_URI")
	}
	mongoDB := os.Getenv("MONGODB_DB")
	if mongoDB == "" {
		mongoDB = "serene-mind"
	}
	secret := os.Getenv("SESSION_SECRET")
	if secret == "" {
		log.Fatal("missing SESSION_SECRET")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	store, err := storage.New(ctx, mongoURI, mongoDB)
	cancel()
	if err != nil {
		log.Fatalf("storage: %v", err)
	}

	var jwks *keyfunc.JWKS
	if jwksURL := os.Getenv("AUTH_JWKS_URL"); jwksURL != "" {
		jwks, err = keyfunc.Get(jwksURL, keyfunc.Options{})
		if err != nil {
			log.Fatalf("jwks: %v", err)
		}
	}
	resolver := api.NewSessionResolver([]byte(secret), jwks, os.Getenv("SESSION_AUDIENCE"), os.Getenv("SESSION_ISSUER"))

	var limiter api.Limiter
	if redisConn := os.Getenv("REDIS_CONNECTION_STRING"); redisConn != "" {
		limiter = api.NewRedisLimiter(redis.NewClient(parseRedisOptions(redisConn)))
		log.Info("rate limiting: redis counters")
	} else {
		memLimiter := api.NewMemoryLimiter()
		defer memLimiter.Close()
		limiter = memLimiter
		log.Info("rate limiting: process-local counters")
	}

	var suggester api.Suggester
	if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
		client, err := ai.New(context.Background(), apiKey, os.Getenv("GEMINI_MODEL"), log.StandardLogger())
		if err != nil {
			log.Fatalf("genai: %v", err)
		}
		defer client.Close()
		suggester = client
	}

	e := echo.New()
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	api.Register(e, api.Options{
		Store:         store,
		Auth:          resolver,
		Issuer:        resolver,
		Limiter:       limiter,
		Suggester:     suggester,
		SecureCookies: os.Getenv("SECURE_COOKIES") == "1",
		Logger:        log.StandardLogger(),
	})

	listenAddr := ":8080"
	if port := os.Getenv("PORT"); port != "" {
		listenAddr = ":" + port
	}

	e.Logger.Fatal(e.Start(listenAddr))
}

// parseRedisOptions accepts a redis URL or a comma-separated host,password,ssl
// connection string.
func parseRedisOptions(connStr string) *redis.Options {
	opts, err := redis.ParseURL(connStr)
	if err == nil {
		return opts
	}
	parts := strings.Split(connStr, ",")
	opts = &redis.Options{Addr: parts[0]}
	for _, p := range parts[1:] {
		kv := strings.SplitN(p, "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch strings.ToLower(kv[0]) {
		case "password":
			opts.Password = kv[1]
		case "ssl":
			if strings.ToLower(kv[1]) == "true" {
				opts.TLSConfig = &tls.Config{}
			}
		}
	}
	return opts
}
