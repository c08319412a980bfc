package settings

import "time"

type Config struct {
	Scenario Scenario `mapstructure:"scenario"`
	Logger   Logger   `mapstructure:"logger"`
}

// Mode selects which queue operation a worker calls on every iteration.
type Mode string

const (
	ModeBlocking    Mode = "blocking"    // get / put
	ModeNonBlocking Mode = "nonblocking" // remove / add
	ModeTimed       Mode = "timed"       // poll / offer
)

// legacyModes maps the numeric modes of the #key scenario format.
var legacyModes = map[int64]Mode{
	0: ModeBlocking,
	1: ModeNonBlocking,
	2: ModeTimed,
}

// Scenario describes one producer/consumer run against a queue.
type Scenario struct {
	Backend        string `mapstructure:"backend" validate:"required,oneof=monitor cond semaphore sem"`
	ConsumerMode   Mode   `mapstructure:"consumer_mode" validate:"required,oneof=blocking nonblocking timed"`
	ProducerMode   Mode   `mapstructure:"producer_mode" validate:"required,oneof=blocking nonblocking timed"`
	BufferSize     int    `mapstructure:"buffer_size" validate:"gt=0"`
	NValues        int    `mapstructure:"n_values" validate:"gte=0"`
	NConsumers     int    `mapstructure:"n_consumers" validate:"gte=0"`
	NProducers     int    `mapstructure:"n_producers" validate:"gte=0"`
	ConsumerPeriod int    `mapstructure:"consumer_period" validate:"gte=0"` // Milliseconds
	ProducerPeriod int    `mapstructure:"producer_period" validate:"gte=0"` // Milliseconds
	Resynchronize  bool   `mapstructure:"resynchronize"`
}

func (s Scenario) ConsumerInterval() time.Duration {
	return time.Duration(s.ConsumerPeriod) * time.Millisecond
}

func (s Scenario) ProducerInterval() time.Duration {
	return time.Duration(s.ProducerPeriod) * time.Millisecond
}

// Logger is the configuration for the logger
type Logger struct {
	LogLevel    string `mapstructure:"log_level" validate:"omitempty,oneof=debug info warn error dpanic panic fatal"`
	FileLogName string `mapstructure:"file_log_name"`
	MaxBackups  int    `mapstructure:"max_backups" validate:"gte=0"`
	MaxAge      int    `mapstructure:"max_age" validate:"gte=0"`  // Days
	MaxSize     int    `mapstructure:"max_size" validate:"gte=0"` // Megabytes
	Compress    bool   `mapstructure:"compress"`
}
