package repository

import (
	"github.com/Lee-sungheon/Loopin/internal/repository/postgres"
	"github.com/Lee-sungheon/Loopin/internal/repository/redisrepo"
	"github.com/redis/go-redis/v9"
)

type Repository struct {
	Postgres *postgres.PostgresRepository
	// Redis is nil when no redis is configured.
	Redis *redisrepo.RedisRepository
}

func New(tables *postgres.PostgresRepository, rdb *redis.Client, redisOpts redisrepo.Options) *Repository {
	repo := &Repository{
		Postgres: tables,
	}
	if rdb != nil {
		repo.Redis = redisrepo.New(rdb, redisOpts)
	}
	return repo
}
