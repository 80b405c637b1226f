package config

import (
	"os"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

// DBConfig Database configuration
type DBConfig struct {
	Type   string `yaml:"type"` // sqlite or postgres
	Host   string `yaml:"host"`
	Port   int    `yaml:"port"`
	Name   string `yaml:"name"`
	User   string `yaml:"user"`
	Passwd string `yaml:"passwd"`
	Debug  bool   `yaml:"debug"`
}

// SysConfig System configuration
type SysConfig struct {
	Appid    string `yaml:"appid"`
	Location string `yaml:"location"`
	Workdir  string `yaml:"workdir"`
	Debug    bool   `yaml:"debug"`
}

// WebConfig Catalog UI web server configuration
type WebConfig struct {
	Host   string `yaml:"host"`
	Port   int    `yaml:"port"`
	Secret string `yaml:"secret"` // cookie signing key, random per process when empty
	// SecretGenerated is set when Secret was not configured
	SecretGenerated bool `yaml:"-"`
}

// ApiConfig Bundled inventory backend configuration
type ApiConfig struct {
	Enabled bool   `yaml:"enabled"`
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
}

// CatalogConfig Controller behaviour
type CatalogConfig struct {
	BaseURL       string   `yaml:"base_url"`
	ItemsPerPage  int      `yaml:"items_per_page"`
	DeleteEnabled bool     `yaml:"delete_enabled"`
	SearchEnabled bool     `yaml:"search_enabled"`
	ProductTypes  []string `yaml:"product_types"`
	Workers       int      `yaml:"workers"`
}

// LogConfig Log configuration
type LogConfig struct {
	Mode       string `yaml:"mode"`
	FileEnable bool   `yaml:"file_enable"`
	Filename   string `yaml:"filename"`
}

type AppConfig struct {
	System   SysConfig     `yaml:"system"`
	Web      WebConfig     `yaml:"web"`
	Api      ApiConfig     `yaml:"api"`
	Catalog  CatalogConfig `yaml:"catalog"`
	Database DBConfig      `yaml:"database"`
	Logger   LogConfig     `yaml:"logger"`
}

func (c *AppConfig) GetUploadsDir() string {
	return path.Join(c.System.Workdir, "uploads")
}

func (c *AppConfig) GetBackupDir() string {
	return path.Join(c.System.Workdir, "backup")
}

func (c *AppConfig) GetLogDir() string {
	return path.Join(c.System.Workdir, "logs")
}

func (c *AppConfig) GetDataDir() string {
	return path.Join(c.System.Workdir, "data")
}

func (c *AppConfig) initDirs() {
	_ = os.MkdirAll(c.GetUploadsDir(), 0755)
	_ = os.MkdirAll(c.GetBackupDir(), 0755)
	_ = os.MkdirAll(c.GetLogDir(), 0755)
	_ = os.MkdirAll(c.GetDataDir(), 0755)
}

// DefaultProductTypes are the values offered by the search type dropdown.
var DefaultProductTypes = []string{
	"Electronics",
	"Clothing",
	"Shoes",
	"Collectibles",
	"Books",
	"Furniture",
	"Other",
}

var DefaultAppConfig = &AppConfig{
	System: SysConfig{
		Appid:    "Stockbook",
		Location: "Europe/London",
		Workdir:  "/var/stockbook",
		Debug:    true,
	},
	Web: WebConfig{
		Host:   "0.0.0.0",
		Port:   5000,
	},
	Api: ApiConfig{
		Enabled: true,
		Host:    "127.0.0.1",
		Port:    5001,
	},
	Catalog: CatalogConfig{
		BaseURL:       "http://127.0.0.1:5001",
		ItemsPerPage:  10,
		DeleteEnabled: true,
		SearchEnabled: true,
		ProductTypes:  DefaultProductTypes,
		Workers:       32,
	},
	Database: DBConfig{
		Type:   "sqlite",
		Host:   "127.0.0.1",
		Port:   5432,
		Name:   "stockbook",
		User:   "postgres",
		Passwd: "myroot",
		Debug:  false,
	},
	Logger: LogConfig{
		Mode:       "development",
		FileEnable: true,
		Filename:   "/var/stockbook/logs/stockbook.log",
	},
}

// LoadConfig reads the YAML file when it exists, then applies STOCKBOOK_* environment overrides.
func LoadConfig(cfile string) *AppConfig {
	cfg := new(AppConfig)
	*cfg = *DefaultAppConfig
	cfg.Catalog.ProductTypes = append([]string(nil), DefaultProductTypes...)
	if cfile != "" {
		if data, err := os.ReadFile(cfile); err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				panic(err)
			}
		}
	}

	setEnvValue("STOCKBOOK_SYSTEM_WORKER_DIR", &cfg.System.Workdir)
	setEnvValue("STOCKBOOK_SYSTEM_LOCATION", &cfg.System.Location)
	setEnvBoolValue("STOCKBOOK_SYSTEM_DEBUG", &cfg.System.Debug)

	setEnvValue("STOCKBOOK_WEB_HOST", &cfg.Web.Host)
	setEnvIntValue("STOCKBOOK_WEB_PORT", &cfg.Web.Port)
	setEnvValue("STOCKBOOK_WEB_SECRET", &cfg.Web.Secret)

	setEnvBoolValue("STOCKBOOK_API_ENABLED", &cfg.Api.Enabled)
	setEnvValue("STOCKBOOK_API_HOST", &cfg.Api.Host)
	setEnvIntValue("STOCKBOOK_API_PORT", &cfg.Api.Port)

	setEnvValue("STOCKBOOK_CATALOG_BASE_URL", &cfg.Catalog.BaseURL)
	setEnvIntValue("STOCKBOOK_CATALOG_ITEMS_PER_PAGE", &cfg.Catalog.ItemsPerPage)
	setEnvBoolValue("STOCKBOOK_CATALOG_DELETE_ENABLED", &cfg.Catalog.DeleteEnabled)
	setEnvBoolValue("STOCKBOOK_CATALOG_SEARCH_ENABLED", &cfg.Catalog.SearchEnabled)
	setEnvIntValue("STOCKBOOK_CATALOG_WORKERS", &cfg.Catalog.Workers)
	if types := os.Getenv("STOCKBOOK_CATALOG_PRODUCT_TYPES"); types != "" {
		cfg.Catalog.ProductTypes = splitList(types)
	}

	setEnvValue("STOCKBOOK_DB_TYPE", &cfg.Database.Type)
	setEnvValue("STOCKBOOK_DB_HOST", &cfg.Database.Host)
	setEnvIntValue("STOCKBOOK_DB_PORT", &cfg.Database.Port)
	setEnvValue("STOCKBOOK_DB_NAME", &cfg.Database.Name)
	setEnvValue("STOCKBOOK_DB_USER", &cfg.Database.User)
	setEnvValue("STOCKBOOK_DB_PWD", &cfg.Database.Passwd)
	setEnvBoolValue("STOCKBOOK_DB_DEBUG", &cfg.Database.Debug)

	setEnvValue("STOCKBOOK_LOGGER_MODE", &cfg.Logger.Mode)
	setEnvBoolValue("STOCKBOOK_LOGGER_FILE_ENABLE", &cfg.Logger.FileEnable)
	setEnvValue("STOCKBOOK_LOGGER_FILENAME", &cfg.Logger.Filename)

	if cfg.Catalog.ItemsPerPage <= 0 {
		cfg.Catalog.ItemsPerPage = DefaultAppConfig.Catalog.ItemsPerPage
	}
	if cfg.Catalog.Workers <= 0 {
		cfg.Catalog.Workers = DefaultAppConfig.Catalog.Workers
	}
	if cfg.Web.Secret == "" {
		cfg.Web.Secret = uuid.NewString()
		cfg.Web.SecretGenerated = true
	}

	cfg.initDirs()
	return cfg
}

func setEnvValue(name string, val *string) {
	var evalue = os.Getenv(name)
	if evalue != "" {
		*val = evalue
	}
}

func setEnvBoolValue(name string, val *bool) {
	var evalue = os.Getenv(name)
	if evalue != "" {
		*val = cast.ToBool(evalue)
	}
}

func setEnvIntValue(name string, val *int) {
	var evalue = os.Getenv(name)
	if evalue == "" {
		return
	}
	p, err := cast.ToIntE(evalue)
	if err == nil && p != 0 {
		*val = p
	}
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
