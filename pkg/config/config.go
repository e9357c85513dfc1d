package config

import (
	"time"
)

type DB struct {
	Driver string `envconfig:"DRIVER" default:"sqlite"`
	Url    string `envconfig:"URL" default:"db.sqlite"`
}

type Redis struct {
	URL          string        `envconfig:"URL" default:"redis://localhost:6379/0"`
	PoolSize     int           `envconfig:"POOL_SIZE" default:"10"`
	DialTimeout  time.Duration `envconfig:"DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `envconfig:"WRITE_TIMEOUT" default:"3s"`
}

// DefaultCacheTTL is used when no cache section is configured.
const DefaultCacheTTL = 10 * time.Minute

type Cache struct {
	Driver string        `envconfig:"DRIVER" default:"memory"`
	TTL    time.Duration `envconfig:"TTL" default:"10m"`
	Prefix string        `envconfig:"PREFIX" default:"accounts:"`
}

type EventBus struct {
	Driver string `envconfig:"DRIVER" default:"memory"`
	Stream string `envconfig:"STREAM" default:"accounts:events"`
}

type Kafka struct {
	Brokers []string `envconfig:"BROKERS" default:"localhost:9092"`
	Topic   string   `envconfig:"TOPIC" default:"accounts.events"`
	GroupID string   `envconfig:"GROUP_ID" default:"accounts"`
}

type RateLimit struct {
	MaxRequests int           `envconfig:"MAX_REQUESTS" default:"100"`
	Window      time.Duration `envconfig:"WINDOW" default:"1m"`
}

type Validation struct {
	PhoneRegion string `envconfig:"PHONE_REGION" default:"CA"`
}

type Log struct {
	Level      int    `envconfig:"LEVEL" default:"0"`
	Format     string `envconfig:"FORMAT" default:"text"`
	TimeFormat string `envconfig:"TIME_FORMAT" default:"2006-01-02 15:04:05"`
	Prefix     string `envconfig:"PREFIX" default:"[accounts]"`
}

type Server struct {
	Scheme string `envconfig:"SCHEME" default:"http"`
	Host   string `envconfig:"HOST" default:"localhost"`
	Port   int    `envconfig:"PORT" default:"3000"`
}

type App struct {
	Env        string      `envconfig:"APP_ENV" default:"development"`
	Server     *Server     `envconfig:"SERVER"`
	Log        *Log        `envconfig:"LOG"`
	DB         *DB         `envconfig:"DATABASE"`
	Redis      *Redis      `envconfig:"REDIS"`
	Cache      *Cache      `envconfig:"CACHE"`
	EventBus   *EventBus   `envconfig:"EVENT_BUS"`
	Kafka      *Kafka      `envconfig:"KAFKA"`
	RateLimit  *RateLimit  `envconfig:"RATE_LIMIT"`
	Validation *Validation `envconfig:"VALIDATION"`
}
