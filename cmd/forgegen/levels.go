package main

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"deepforge-server/internal/infrastructure/storage"
)

var levelsRedis string

var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "List levels stored in Redis",
	RunE:  runLevels,
}

func init() {
	levelsCmd.Flags().StringVar(&levelsRedis, "redis", "localhost:6379", "redis address")
}

func runLevels(cmd *cobra.Command, args []string) error {
	repo, err := storage.NewLevelRepository(&storage.RedisConfig{
		Client: redis.NewClient(&redis.Options{Addr: levelsRedis}),
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
	defer cancel()

	keys, err := repo.ListKeys(ctx)
	if err != nil {
		return fmt.Errorf("failed to list levels: %w", err)
	}
	if len(keys) == 0 {
		fmt.Println("no stored levels")
		return nil
	}
	for _, key := range keys {
		fmt.Println(key)
	}
	return nil
}
