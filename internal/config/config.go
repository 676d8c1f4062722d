package config

import (
	"os"
	"path"
	"time"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Public  Public
	Private Private
}

type Public struct {
	ListenAddr         string            `yaml:"listen_addr"`
	Boards             map[string]string `yaml:"boards"`                // short name -> display name
	BoardPageSize      int               `yaml:"board_page_size"`       // threads shown per board listing
	PreviewReplies     int               `yaml:"preview_replies"`       // earliest replies shown under each thread summary
	MaxThreadsPerBoard int               `yaml:"max_threads_per_board"` // hard cap, oldest-bumped thread evicted above it
	FloodWindow        time.Duration     `yaml:"flood_window"`          // min interval between posts from one client
	MaxUploadBytes     int64             `yaml:"max_upload_bytes"`
	AllowedExtensions  []string          `yaml:"allowed_extensions"`
	MediaRoot          string            `yaml:"media_root"`
	ThumbMaxSize       int               `yaml:"thumb_max_size"` // thumbnail bounding box in px
	JwtTTL             time.Duration     `yaml:"jwt_ttl"`
	LogLevel           string            `yaml:"log_level"`
	LogJSON            bool              `yaml:"log_json"`
}

type Pg struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Dbname   string `yaml:"dbname"`
}

type Private struct {
	Pg              Pg     `yaml:"pg"`
	JwtKey          string `yaml:"jwt_key"`
	ModPasswordHash string `yaml:"mod_password_hash"` // bcrypt hash of the moderator password
}

func (c *Config) JwtKey() string {
	return c.Private.JwtKey
}

func (c *Config) JwtTTL() time.Duration {
	return c.Public.JwtTTL
}

// BoardExists reports whether shortName is one of the configured boards.
func (c *Config) BoardExists(shortName string) bool {
	_, ok := c.Public.Boards[shortName]
	return ok
}

// Defaults matching the canonical deployment.
const (
	DefaultBoardPageSize      = 10
	DefaultPreviewReplies     = 3
	DefaultMaxThreadsPerBoard = 100
	DefaultFloodWindow        = 30 * time.Second
	DefaultMaxUploadBytes     = 2 << 20 // 2 MiB
	DefaultThumbMaxSize       = 250
)

func (p *Public) applyDefaults() {
	if p.BoardPageSize == 0 {
		p.BoardPageSize = DefaultBoardPageSize
	}
	if p.PreviewReplies == 0 {
		p.PreviewReplies = DefaultPreviewReplies
	}
	if p.MaxThreadsPerBoard == 0 {
		p.MaxThreadsPerBoard = DefaultMaxThreadsPerBoard
	}
	if p.FloodWindow == 0 {
		p.FloodWindow = DefaultFloodWindow
	}
	if p.MaxUploadBytes == 0 {
		p.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if p.ThumbMaxSize == 0 {
		p.ThumbMaxSize = DefaultThumbMaxSize
	}
	if len(p.AllowedExtensions) == 0 {
		p.AllowedExtensions = []string{"png", "jpg", "jpeg", "gif"}
	}
}

func mustLoadPath(configPath string, output interface{}) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		panic("can't read config file")
	}

	err = yaml.Unmarshal(configFile, output)
	if err != nil {
		panic("can't unmarshal config file")
	}
}

func MustLoad(configFolder string) *Config {
	var public Public
	mustLoadPath(path.Join(configFolder, "public.yaml"), &public)
	public.applyDefaults()

	var private Private
	mustLoadPath(path.Join(configFolder, "private.yaml"), &private)

	return &Config{public, private}
}
