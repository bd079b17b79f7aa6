package main

import (
	"log"

	redisv9 "github.com/redis/go-redis/v9"

	"rates_backend/internal/app/di"
	"rates_backend/internal/app/router"
	rateshandler "rates_backend/internal/feature/rates/transport/handler"
	"rates_backend/internal/feature/rates/usecase"
	"rates_backend/internal/platform/config"
	infraredis "rates_backend/internal/platform/redis"
)

func main() {
	// 設定（.envがあれば読み込む）
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	// Redis（任意）
	var rdb *redisv9.Client
	if cfg.RedisHost == "" {
		log.Println("[WARN] REDIS_HOST is not set. Running without cache.")
	} else if tmp, err := infraredis.NewRedisClient(cfg.RedisAddr(), cfg.RedisPassword); err != nil {
		log.Println("[WARN] Redis unavailable. Running without cache.")
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Println("[ERROR] Failed to close Redis client:", err)
			}
		}()
	}

	// Fetcher（フィードクライアント + キャッシュ）
	fetcher := di.NewRateFetcher(cfg, rdb)

	// Usecase
	ratesUC := usecase.NewRatesUsecase(fetcher, cfg.SessionStartHour, cfg.SessionEndHour, nil)

	// Handler
	ratesH := rateshandler.NewRatesHandler(ratesUC, cfg.Instrument, cfg.PriceType, cfg.Session())

	// ルータ生成
	router := router.NewRouter(cfg.APIKey, ratesH)

	// API_KEYチェック（開発中の注意喚起）
	if cfg.APIKey == "" {
		log.Println("[WARN] API_KEY is not set. The /rates endpoint is open.")
	}

	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
