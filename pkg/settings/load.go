package settings

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrLegacyFormat  = errors.New("malformed scenario file")
)

// legacyKeys maps the #key names of the line-oriented scenario format to
// config keys, in the order they appear in a well-formed file.
var legacyKeys = []struct {
	name string
	key  string
}{
	{"sem_impl", "scenario.backend"},
	{"sem_consumers", "scenario.consumer_mode"},
	{"sem_producers", "scenario.producer_mode"},
	{"buffer_size", "scenario.buffer_size"},
	{"n_values", "scenario.n_values"},
	{"n_consumers", "scenario.n_consumers"},
	{"n_producers", "scenario.n_producers"},
	{"consumer_period", "scenario.consumer_period"},
	{"producer_period", "scenario.producer_period"},
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("scenario.backend", "monitor")
	v.SetDefault("scenario.consumer_mode", string(ModeBlocking))
	v.SetDefault("scenario.producer_mode", string(ModeBlocking))
	v.SetDefault("scenario.resynchronize", false)
	v.SetDefault("logger.log_level", "info")
}

// Load reads the configuration at path. Files ending in .yaml, .yml,
// .json or .toml are decoded by viper; anything else is parsed as a
// #key/value scenario file.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json", ".toml":
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "read config %s", path)
		}
	default:
		f, err := os.Open(path)
		if err != nil {
			return nil, errors.Wrap(err, "open scenario")
		}
		defer f.Close()

		values, err := ParseLegacy(f)
		if err != nil {
			return nil, errors.Wrapf(err, "parse %s", path)
		}
		if err := v.MergeConfigMap(values); err != nil {
			return nil, errors.Wrap(err, "merge scenario")
		}
	}

	return decode(v)
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}
	cfg.Scenario.Backend = strings.ToLower(strings.TrimSpace(cfg.Scenario.Backend))

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ParseLegacy reads the line-oriented scenario format: each "#name" line
// is followed by a line holding its integer value. Every key must be
// present. sem_impl selects the semaphore backend when non-zero, and the
// two mode keys take 0 (blocking), 1 (non-blocking) or 2 (timed).
// The file always resynchronizes workers.
func ParseLegacy(r io.Reader) (map[string]any, error) {
	raw := make(map[string]int64, len(legacyKeys))

	sc := bufio.NewScanner(r)
	line := 0
	pending := ""
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}

		if name, ok := strings.CutPrefix(text, "#"); ok {
			if pending != "" {
				return nil, errors.Wrapf(ErrLegacyFormat, "line %d: #%s has no value", line, pending)
			}
			pending = name
			continue
		}
		if pending == "" {
			return nil, errors.Wrapf(ErrLegacyFormat, "line %d: value %q without a key", line, text)
		}

		n, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return nil, errors.Wrapf(ErrLegacyFormat, "line %d: #%s: %v", line, pending, err)
		}
		raw[pending] = n
		pending = ""
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "read scenario")
	}
	if pending != "" {
		return nil, errors.Wrapf(ErrLegacyFormat, "#%s has no value", pending)
	}

	scenario := map[string]any{"resynchronize": true}
	for _, k := range legacyKeys {
		n, ok := raw[k.name]
		if !ok {
			return nil, errors.Wrapf(ErrLegacyFormat, "missing #%s", k.name)
		}
		delete(raw, k.name)

		field := strings.TrimPrefix(k.key, "scenario.")
		switch k.name {
		case "sem_impl":
			scenario[field] = "monitor"
			if n != 0 {
				scenario[field] = "semaphore"
			}
		case "sem_consumers", "sem_producers":
			mode, ok := legacyModes[n]
			if !ok {
				return nil, errors.Wrapf(ErrLegacyFormat, "#%s: unknown mode %d", k.name, n)
			}
			scenario[field] = string(mode)
		default:
			scenario[field] = n
		}
	}
	if len(raw) > 0 {
		names := make([]string, 0, len(raw))
		for name := range raw {
			names = append(names, "#"+name)
		}
		sort.Strings(names)
		return nil, errors.Wrapf(ErrLegacyFormat, "unknown key %s", strings.Join(names, ", "))
	}

	return map[string]any{"scenario": scenario}, nil
}
