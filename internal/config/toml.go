package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// FileConfig mirrors the TOML file. Pointer fields distinguish "unset" from
// zero values so only keys present in the file override defaults.
type FileConfig struct {
	Server struct {
		Addr *string `toml:"addr"`
	} `toml:"server"`
	Store struct {
		Backend *string `toml:"backend"`
		DataDir *string `toml:"data_dir"`
	} `toml:"store"`
	OxiDB struct {
		Host     *string `toml:"host"`
		Port     *int    `toml:"port"`
		PoolSize *int    `toml:"pool_size"`
	} `toml:"oxidb"`
	Log struct {
		Level    *string `toml:"level"`
		GelfAddr *string `toml:"gelf_addr"`
	} `toml:"log"`
	Form struct {
		Path *string `toml:"path"`
	} `toml:"form"`
	Client struct {
		ServerURL     *string `toml:"server_url"`
		SubmitTimeout *string `toml:"submit_timeout"`
	} `toml:"client"`
}

// LoadFile reads a TOML config. A missing file yields an empty FileConfig.
func LoadFile(path string) (FileConfig, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var fc FileConfig
	md, err := toml.DecodeFile(path, &fc)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return fc, nil
}

func (fc FileConfig) apply(c *Config) error {
	setString(&c.Server.Addr, fc.Server.Addr)
	setString(&c.Store.Backend, fc.Store.Backend)
	setString(&c.Store.DataDir, fc.Store.DataDir)
	setString(&c.Store.OxiDBHost, fc.OxiDB.Host)
	setInt(&c.Store.OxiDBPort, fc.OxiDB.Port)
	setInt(&c.Store.PoolSize, fc.OxiDB.PoolSize)
	setString(&c.Log.Level, fc.Log.Level)
	setString(&c.Log.GelfAddr, fc.Log.GelfAddr)
	setString(&c.Form.Path, fc.Form.Path)
	setString(&c.Client.ServerURL, fc.Client.ServerURL)
	if fc.Client.SubmitTimeout != nil {
		d, err := time.ParseDuration(*fc.Client.SubmitTimeout)
		if err != nil {
			return fmt.Errorf("client.submit_timeout: %w", err)
		}
		c.Client.SubmitTimeout = d
	}
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

// Template is written by `node-form config init`.
const Template = `# node-form configuration. Environment variables override these values.

[server]
# addr = ":3000"

[store]
# backend = "json"   # json | sqlite | oxidb
# data_dir = "/var/www/facility-form-data"

[oxidb]
# host = "127.0.0.1"
# port = 4444
# pool_size = 3

[log]
# level = "info"
# gelf_addr = ""

[form]
# path = ""          # YAML or JSON form definition; empty uses the built-in questionnaire

[client]
# server_url = "http://localhost:3000"
# submit_timeout = "15s"
`
