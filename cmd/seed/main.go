package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"storefront/internal/cache"
	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/model"
	"storefront/internal/repository"
	"storefront/internal/service"
)

// seedItem is one catalog entry in the seed file.
type seedItem struct {
	Name        string          `json:"name"`
	Cost        decimal.Decimal `json:"cost"`
	Description string          `json:"description"`
	ImageURL    string          `json:"imageURL"`
}

func main() {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)

	if err := run(logger); err != nil {
		if errors.Is(err, config.ErrHelpWanted) {
			return
		}
		logger.Error(err)
		os.Exit(1)
	}
}

func run(logger *logrus.Logger) error {
	logger.Info("starting seed")

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.StoreDriver == config.DriverMemory {
		return errors.New("seeding the memory store has no lasting effect, pick a persistent STORE_DRIVER")
	}

	items, err := readItems(cfg.SeedFile)
	if err != nil {
		return err
	}
	logger.Infof("read %d items from %s", len(items), cfg.SeedFile)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	repos, err := repository.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("store init: %w", err)
	}
	defer repos.Close(ctx)

	// Without Redis the cache is a no-op; with it the stale catalog is dropped.
	cacheClient := cache.New(nil)
	if cfg.RedisAddr != "" {
		redisClient, err := db.NewRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			logger.WithError(err).Warn("redis unavailable, cached catalog will expire on its own")
		} else {
			defer redisClient.Close()
			cacheClient = cache.New(redisClient)
		}
	}

	created, updated, err := service.NewItemService(repos.Items, cacheClient).Seed(ctx, items)
	if err != nil {
		return err
	}

	logger.WithFields(logrus.Fields{
		"created": created,
		"updated": updated,
		"total":   created + updated,
	}).Info("seed completed")
	return nil
}

// readItems loads and validates the seed file.
func readItems(path string) ([]model.Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}

	var raw []seedItem
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}

	items := make([]model.Item, 0, len(raw))
	for i, r := range raw {
		item, err := model.NewItem(r.Name, r.Cost, r.Description, r.ImageURL)
		if err != nil {
			return nil, fmt.Errorf("seed entry %d: %w", i, err)
		}
		items = append(items, *item)
	}
	return items, nil
}
