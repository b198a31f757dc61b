package services

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"flynext-server/models"
	"flynext-server/storage"
)

const (
	cityCacheKey = "cities:all"
	cityCacheTTL = time.Hour
)

// GetCities serves the city reference list through a read-through redis
// cache. The cache is not safety-critical; a stale list is fine and any
// redis failure falls back to the database.
func GetCities(ctx context.Context) ([]models.City, error) {
	if storage.Redis != nil {
		if raw, err := storage.Redis.Get(ctx, cityCacheKey).Result(); err == nil {
			var cities []models.City
			if err := json.Unmarshal([]byte(raw), &cities); err == nil {
				return cities, nil
			}
		}
	}

	var cities []models.City
	if err := storage.DB.Order("name").Find(&cities).Error; err != nil {
		return nil, err
	}

	if storage.Redis != nil {
		if raw, err := json.Marshal(cities); err == nil {
			if err := storage.Redis.Set(ctx, cityCacheKey, raw, cityCacheTTL).Err(); err != nil {
				log.Printf("Failed to cache city list: %v", err)
			}
		}
	}

	return cities, nil
}
