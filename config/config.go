package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"

	"github.com/ledokol-inc/socialload/backend"
	"github.com/ledokol-inc/socialload/generator"
	"github.com/ledokol-inc/socialload/population"
	"github.com/ledokol-inc/socialload/prefix"
	"github.com/ledokol-inc/socialload/synth"
)

const (
	DefaultFile     = "config.yaml"
	portDefault     = 1455
	defaultLogLevel = "info"
)

type Config struct {
	Seed    int64         `mapstructure:"seed"`
	Backend BackendConfig `mapstructure:"backend"`
	Corpus  CorpusConfig  `mapstructure:"corpus"`
	Synth   SynthConfig   `mapstructure:"synth"`
	Prefix  PrefixConfig  `mapstructure:"prefix"`
	Load    LoadConfig    `mapstructure:"load"`
	Store   StoreConfig   `mapstructure:"store"`
	Server  ServerConfig  `mapstructure:"server"`
	Consul  ConsulConfig  `mapstructure:"consul"`
	Logging LoggingConfig `mapstructure:"logging"`
}

type BackendConfig struct {
	backend.Endpoints `mapstructure:",squash"`
	Password          string `mapstructure:"password"`
}

type CorpusConfig struct {
	PeopleFile string `mapstructure:"people-file"`
	PostsFile  string `mapstructure:"posts-file"`
	PrefixFile string `mapstructure:"prefix-file"`
	Size       int    `mapstructure:"size"`
	PostsCount int    `mapstructure:"posts-count"`
	PostAuthor string `mapstructure:"post-author"`
}

type SynthConfig struct {
	Friends     synth.Range         `mapstructure:"friends"`
	Posts       synth.Range         `mapstructure:"posts"`
	Dialogs     synth.DialogOptions `mapstructure:"dialogs"`
	Feed        FeedConfig          `mapstructure:"feed"`
	SettleDelay time.Duration       `mapstructure:"settle-delay"`
}

type FeedConfig struct {
	Offset int  `mapstructure:"offset"`
	Limit  int  `mapstructure:"limit"`
	All    bool `mapstructure:"all"`
}

type PrefixConfig struct {
	Length   int                `mapstructure:"length"`
	Attempts int                `mapstructure:"attempts"`
	Alphabet generator.Alphabet `mapstructure:"alphabet"`
}

type LoadConfig struct {
	Truncate   int    `mapstructure:"truncate"`
	Population string `mapstructure:"population"`
}

type StoreConfig struct {
	Kind string `mapstructure:"kind"`
	Path string `mapstructure:"path"`
}

type ServerConfig struct {
	HttpPort int `mapstructure:"http-port"`
}

type ConsulConfig struct {
	Address string `mapstructure:"address"`
}

type LoggingConfig struct {
	Level              string `mapstructure:"level"`
	File               string `mapstructure:"file"`
	MaxFileSize        int    `mapstructure:"max-file-size"`
	MaxBackups         int    `mapstructure:"max-backups"`
	MaxAge             int    `mapstructure:"max-age"`
	CompressRotatedLog bool   `mapstructure:"compress-rotated-log"`
	TimeFormat         string `mapstructure:"time-format"`
	StandardOutput     string `mapstructure:"standard-output"`
	Pretty             bool   `mapstructure:"pretty"`
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault("seed", generator.DefaultSeed)

	v.SetDefault("backend.social-url", "http://localhost:8083")
	v.SetDefault("backend.dialog-url", "")
	v.SetDefault("backend.search-url", "")
	v.SetDefault("backend.api-prefix", "")
	v.SetDefault("backend.password", population.DefaultPassword)

	v.SetDefault("corpus.people-file", "people.csv")
	v.SetDefault("corpus.posts-file", "posts.csv")
	v.SetDefault("corpus.prefix-file", "prefix.csv")
	v.SetDefault("corpus.size", 1000000)
	v.SetDefault("corpus.posts-count", 100)
	v.SetDefault("corpus.post-author", "03881183-2362-41c1-b4cd-7552724cdb33")

	v.SetDefault("synth.friends.min", 0)
	v.SetDefault("synth.friends.max", 20)
	v.SetDefault("synth.posts.min", 0)
	v.SetDefault("synth.posts.max", 10)
	v.SetDefault("synth.dialogs.pairs", 100)
	v.SetDefault("synth.dialogs.messages.min", 1)
	v.SetDefault("synth.dialogs.messages.max", 1)
	v.SetDefault("synth.dialogs.repeat-first", 1)
	v.SetDefault("synth.dialogs.truncate", synth.DefaultTruncate)
	v.SetDefault("synth.feed.offset", 0)
	v.SetDefault("synth.feed.limit", 2)
	v.SetDefault("synth.feed.all", false)
	v.SetDefault("synth.settle-delay", "60s")

	v.SetDefault("prefix.length", prefix.DefaultLength)
	v.SetDefault("prefix.attempts", prefix.DefaultAttempts)
	v.SetDefault("prefix.alphabet.upper-from", generator.Cyrillic.UpperFrom)
	v.SetDefault("prefix.alphabet.upper-to", generator.Cyrillic.UpperTo)
	v.SetDefault("prefix.alphabet.lower-from", generator.Cyrillic.LowerFrom)
	v.SetDefault("prefix.alphabet.lower-to", generator.Cyrillic.LowerTo)

	v.SetDefault("load.truncate", synth.DefaultTruncate)
	v.SetDefault("load.population", "default")

	v.SetDefault("store.kind", "bolt")
	v.SetDefault("store.path", "socialload.db")

	v.SetDefault("server.http-port", portDefault)
	v.SetDefault("consul.address", "")

	v.SetDefault("logging.level", defaultLogLevel)
	v.SetDefault("logging.file", "logs/socialload.log")
	v.SetDefault("logging.max-file-size", 100)
	v.SetDefault("logging.max-backups", 5)
	v.SetDefault("logging.max-age", 30)
	v.SetDefault("logging.compress-rotated-log", false)
	v.SetDefault("logging.time-format", time.RFC3339)
	v.SetDefault("logging.standard-output", "stdout")
	v.SetDefault("logging.pretty", true)

	_ = v.BindEnv("logging.level", "LOG_LEVEL")
	_ = v.BindEnv("server.http-port", "HTTP_PORT")
	_ = v.BindEnv("consul.address", "CONSUL_SERVER_ADDRESS")
	_ = v.BindEnv("backend.social-url", "SOCIAL_URL")
	_ = v.BindEnv("backend.dialog-url", "DIALOG_URL")
}

// Load reads fileName into v on top of the defaults. A missing file is not an
// error when optional is set.
func Load(v *viper.Viper, fileName string, optional bool) (*Config, error) {
	SetDefaults(v)
	v.SetConfigFile(fileName)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !(optional && (errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist))) {
			return nil, fmt.Errorf("can't read configuration %s: %w", fileName, err)
		}
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("can't decode configuration: %w", err)
	}
	return &cfg, nil
}
