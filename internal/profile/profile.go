package profile

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const (
	DefaultCalcomBaseURL       = "https://api.cal.com/v2"
	DefaultCalcomAPIVersion    = "2024-08-13"
	DefaultConnectEventTypeID  = 4145759
	DefaultDiscoverEventTypeID = 4145757
	DefaultMem0BaseURL         = "https://api.mem0.ai"
	DefaultOpenMemoryURL       = "https://api.openmemory.dev"
	DefaultOpenMemoryProject   = "Chrisfig97/Dawn"
	DefaultRateLimitRPS        = 2.0
	DefaultRateLimitBurst      = 5
)

// Profile is the configuration to start main server.
type Profile struct {
	// Mode can be "prod" or "dev" or "demo"
	Mode string
	// Addr is the binding address for server
	Addr string
	// Port is the binding port for server
	Port int
	// Data is the data directory
	Data string
	// DSN points to where the audit trail is stored
	DSN string
	// Driver is the database driver (sqlite or postgres)
	Driver string
	// Version is the current version of server
	Version string

	// Scheduling service
	CalcomAPIKey        string // NICEONE_CALCOM_API_KEY (legacy: CALCOM_API_KEY)
	CalcomBaseURL       string // NICEONE_CALCOM_BASE_URL (default: https://api.cal.com/v2)
	CalcomAPIVersion    string // NICEONE_CALCOM_API_VERSION (default: 2024-08-13)
	ConnectEventTypeID  int64  // NICEONE_CONNECT_EVENT_TYPE_ID (default: 4145759)
	DiscoverEventTypeID int64  // NICEONE_DISCOVER_EVENT_TYPE_ID (default: 4145757)
	DefaultEmail        string // NICEONE_DEFAULT_EMAIL (legacy: DEFAULT_EMAIL)

	// Long-term memory
	MemoryEnabled       bool   // NICEONE_MEMORY_ENABLED (default: true when a key is set)
	Mem0APIKey          string // NICEONE_MEM0_API_KEY (legacy: MEM0_API_KEY)
	Mem0BaseURL         string // NICEONE_MEM0_BASE_URL
	OpenMemoryToken     string // NICEONE_OPENMEMORY_API_TOKEN (legacy: OPENMEMORY_API_TOKEN)
	OpenMemoryURL       string // NICEONE_OPENMEMORY_API_URL (legacy: OPENMEMORY_API_URL)
	OpenMemoryProjectID string // NICEONE_OPENMEMORY_PROJECT_ID (legacy: OPENMEMORY_PROJECT_ID)

	// Distributed mutation guard; empty address keeps the in-process guard
	RedisAddr     string // NICEONE_REDIS_ADDR (legacy: REDIS_ADDR)
	RedisPassword string // NICEONE_REDIS_PASSWORD
	RedisDB       int    // NICEONE_REDIS_DB

	// API
	JWTSecret      string  // NICEONE_JWT_SECRET
	RateLimitRPS   float64 // NICEONE_RATE_LIMIT_RPS (default: 2)
	RateLimitBurst int     // NICEONE_RATE_LIMIT_BURST (default: 5)
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// IsMemoryEnabled reports whether memory is on and some backend has credentials.
func (p *Profile) IsMemoryEnabled() bool {
	return p.MemoryEnabled && (p.Mem0APIKey != "" || p.OpenMemoryToken != "")
}

// IsRedisEnabled reports whether mutations are guarded through Redis.
func (p *Profile) IsRedisEnabled() bool {
	return p.RedisAddr != ""
}

// FromEnv loads integration settings from environment variables.
// NICEONE_* names win over the legacy unprefixed names.
func (p *Profile) FromEnv() {
	getEnvWithFallback := func(newKey, legacyKey string) string {
		if val := os.Getenv(newKey); val != "" {
			return val
		}
		if legacyKey == "" {
			return ""
		}
		return os.Getenv(legacyKey)
	}

	getEnvWithDefault := func(newKey, legacyKey, defaultValue string) string {
		if val := getEnvWithFallback(newKey, legacyKey); val != "" {
			return val
		}
		return defaultValue
	}

	getIntEnv := func(key string, defaultValue int64) int64 {
		if n, err := strconv.ParseInt(os.Getenv(key), 10, 64); err == nil {
			return n
		}
		return defaultValue
	}

	p.CalcomAPIKey = getEnvWithFallback("NICEONE_CALCOM_API_KEY", "CALCOM_API_KEY")
	p.CalcomBaseURL = getEnvWithDefault("NICEONE_CALCOM_BASE_URL", "", DefaultCalcomBaseURL)
	p.CalcomAPIVersion = getEnvWithDefault("NICEONE_CALCOM_API_VERSION", "", DefaultCalcomAPIVersion)
	p.ConnectEventTypeID = getIntEnv("NICEONE_CONNECT_EVENT_TYPE_ID", DefaultConnectEventTypeID)
	p.DiscoverEventTypeID = getIntEnv("NICEONE_DISCOVER_EVENT_TYPE_ID", DefaultDiscoverEventTypeID)
	p.DefaultEmail = getEnvWithFallback("NICEONE_DEFAULT_EMAIL", "DEFAULT_EMAIL")

	p.Mem0APIKey = getEnvWithFallback("NICEONE_MEM0_API_KEY", "MEM0_API_KEY")
	p.Mem0BaseURL = getEnvWithDefault("NICEONE_MEM0_BASE_URL", "", DefaultMem0BaseURL)
	p.OpenMemoryToken = getEnvWithFallback("NICEONE_OPENMEMORY_API_TOKEN", "OPENMEMORY_API_TOKEN")
	p.OpenMemoryURL = getEnvWithDefault("NICEONE_OPENMEMORY_API_URL", "OPENMEMORY_API_URL", DefaultOpenMemoryURL)
	p.OpenMemoryProjectID = getEnvWithDefault("NICEONE_OPENMEMORY_PROJECT_ID", "OPENMEMORY_PROJECT_ID", DefaultOpenMemoryProject)
	p.MemoryEnabled = getEnvWithDefault("NICEONE_MEMORY_ENABLED", "", "true") == "true"

	p.RedisAddr = getEnvWithFallback("NICEONE_REDIS_ADDR", "REDIS_ADDR")
	p.RedisPassword = getEnvWithFallback("NICEONE_REDIS_PASSWORD", "")
	p.RedisDB = int(getIntEnv("NICEONE_REDIS_DB", 0))

	p.JWTSecret = getEnvWithFallback("NICEONE_JWT_SECRET", "")
	p.RateLimitRPS = DefaultRateLimitRPS
	if v, err := strconv.ParseFloat(os.Getenv("NICEONE_RATE_LIMIT_RPS"), 64); err == nil && v > 0 {
		p.RateLimitRPS = v
	}
	p.RateLimitBurst = int(getIntEnv("NICEONE_RATE_LIMIT_BURST", DefaultRateLimitBurst))
}

func checkDataDir(dataDir string) (string, error) {
	// Convert to absolute path if relative path is supplied.
	if !filepath.IsAbs(dataDir) {
		absDir, err := filepath.Abs(dataDir)
		if err != nil {
			return "", err
		}
		dataDir = absDir
	}

	// Trim trailing \ or / in case user supplies
	dataDir = strings.TrimRight(dataDir, "\\/")
	if _, err := os.Stat(dataDir); err != nil {
		return "", errors.Wrapf(err, "unable to access data folder %s", dataDir)
	}
	return dataDir, nil
}

func (p *Profile) Validate() error {
	if p.Mode != "demo" && p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "demo"
	}
	if p.Driver == "" {
		p.Driver = "sqlite"
	}

	if p.Mode == "prod" && p.Data == "" {
		if runtime.GOOS == "windows" {
			p.Data = filepath.Join(os.Getenv("ProgramData"), "niceone")
			if _, err := os.Stat(p.Data); os.IsNotExist(err) {
				if err := os.MkdirAll(p.Data, 0770); err != nil {
					slog.Error("failed to create data directory", slog.String("data", p.Data), slog.String("error", err.Error()))
					return err
				}
			}
		} else {
			p.Data = "/var/opt/niceone"
		}
	}
	if p.Data == "" {
		p.Data = "."
	}

	dataDir, err := checkDataDir(p.Data)
	if err != nil {
		slog.Error("failed to check data dir", slog.String("data", p.Data), slog.String("error", err.Error()))
		return err
	}

	p.Data = dataDir
	if p.Driver == "sqlite" && p.DSN == "" {
		dbFile := fmt.Sprintf("niceone_%s.db", p.Mode)
		p.DSN = filepath.Join(dataDir, dbFile)
	}

	return nil
}
