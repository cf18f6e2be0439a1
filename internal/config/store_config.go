package config

type SessionStoreKind string

const (
	SessionStoreMemory SessionStoreKind = "memory"
	SessionStoreRedis  SessionStoreKind = "redis"
)

type Store struct {
	SessionStore  SessionStoreKind `env:"SESSION_STORE"  envDefault:"memory"`
	RedisAddr     string           `env:"REDIS_ADDR"     envDefault:"localhost:6379"`
	RedisPassword string           `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB       int              `env:"REDIS_DB"       envDefault:"0"`
	RedisPrefix   string           `env:"REDIS_PREFIX"   envDefault:"bunai:session:"`
}

var _ StoreConfig = Store{}

func (s Store) GetSessionStore() SessionStoreKind { return s.SessionStore }
func (s Store) GetRedisAddr() string              { return s.RedisAddr }
func (s Store) GetRedisPassword() string          { return s.RedisPassword }
func (s Store) GetRedisDB() int                   { return s.RedisDB }
func (s Store) GetRedisPrefix() string            { return s.RedisPrefix }
