package course

import (
	"time"

	"github.com/pinakinmistry/reactive-patterns-using-rxjs/core/logger"
)

// Config holds the demo application settings. Postgres and Redis are used
// when PG_CONN_URL and REDIS_URL are set; their settings are loaded separately.
type Config struct {
	Log logger.Config

	PageSize        int           `env:"PAGE_SIZE" envDefault:"5"`
	MessageLimit    int           `env:"MESSAGE_LIMIT" envDefault:"20"`
	ArrivalInterval time.Duration `env:"LESSON_ARRIVAL_INTERVAL" envDefault:"2s"`
	SourceLatency   time.Duration `env:"LESSON_SOURCE_LATENCY" envDefault:"200ms"`
	HealthInterval  time.Duration `env:"HEALTH_INTERVAL" envDefault:"30s"`
	DemoEmail       string        `env:"DEMO_EMAIL" envDefault:"student@example.com"`
	DemoPassword    string        `env:"DEMO_PASSWORD" envDefault:"rxjs-rocks"`
	DraftKey        string        `env:"DRAFT_KEY" envDefault:"new-lesson"`
}
