/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package internal

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds settings shared by mmtd and mmbot. Command line flags take
// precedence over these values.
type Config struct {
	File           string        `env:"MM_FILE" envDefault:"tournament.yaml"`
	S3Bucket       string        `env:"MM_S3_BUCKET"`
	S3Gzip         bool          `env:"MM_S3_GZIP" envDefault:"true"`
	SampleSize     int           `env:"MM_SAMPLE_SIZE" envDefault:"10000"`
	Workers        int           `env:"MM_WORKERS"`
	Seed           uint64        `env:"MM_SEED"`
	WebCacheBucket string        `env:"MM_WEBCACHE_BUCKET"`
	LockTimeout    time.Duration `env:"MM_LOCK_TIMEOUT" envDefault:"10s"`

	DiscordToken  string `env:"MM_DISCORD_TOKEN"`
	DiscordPubKey string `env:"MM_DISCORD_PUBKEY"`
	DiscordAppID  string `env:"MM_DISCORD_APPID"`
	ListenAddr    string `env:"MM_LISTEN_ADDR" envDefault:":8080"`
}

// LoadConfig reads the optional dotenv files and then the environment.
func LoadConfig(dotenvFiles ...string) (*Config, error) {
	if err := godotenv.Load(dotenvFiles...); err != nil &&
		!errors.Is(err, fs.ErrNotExist) {
		log.Printf("config: ignoring unreadable dotenv file: %v", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.SampleSize <= 0 {
		return nil, fmt.Errorf("config: MM_SAMPLE_SIZE must be positive, got %d",
			cfg.SampleSize)
	}
	if cfg.Workers < 0 {
		return nil, fmt.Errorf("config: MM_WORKERS must not be negative, got %d",
			cfg.Workers)
	}

	return &cfg, nil
}
