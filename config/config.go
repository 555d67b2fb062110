package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// ServerProperties 定义服务端的全局配置
type ServerProperties struct {
	Bind           string `mapstructure:"bind"`
	Port           int    `mapstructure:"port"`
	MaxClients     int    `mapstructure:"maxclients"`
	MaxEvents      int    `mapstructure:"maxevents"`
	ReadBufferSize int    `mapstructure:"readbuffer"`
	TableCapacity  int    `mapstructure:"tablecapacity"`

	AppendOnly       bool   `mapstructure:"appendonly"`
	AppendFilename   string `mapstructure:"appendfilename"`
	DumpFilename     string `mapstructure:"dbfilename"`
	SnapshotFilename string `mapstructure:"snapshotfilename"`
	LoadSnapshot     bool   `mapstructure:"loadsnapshot"`

	LogLevel      string `mapstructure:"loglevel"`
	LogFile       string `mapstructure:"logfile"`
	LogMaxSize    int    `mapstructure:"logmaxsize"`
	LogMaxAge     int    `mapstructure:"logmaxage"`
	LogMaxBackups int    `mapstructure:"logmaxbackups"`
	LogCompress   bool   `mapstructure:"logcompress"`
}

// Properties 保存全局配置
var Properties = Default()

var defaults = map[string]interface{}{
	"bind":             "0.0.0.0",
	"port":             5555,
	"maxclients":       0,
	"maxevents":        1024,
	"readbuffer":       4096,
	"tablecapacity":    1024,
	"appendonly":       false,
	"appendfilename":   "appendonly.aof",
	"dbfilename":       "minidis.dump",
	"snapshotfilename": "minidis.json",
	"loadsnapshot":     false,
	"loglevel":         "info",
	"logfile":          "./logs/minidis.log",
	"logmaxsize":       500,
	"logmaxage":        30,
	"logmaxbackups":    20,
	"logcompress":      true,
}

func newViper() *viper.Viper {
	v := viper.New()
	for key, val := range defaults {
		v.SetDefault(key, val)
	}
	v.SetEnvPrefix("MINIDIS")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// Default 返回只包含默认值的配置
func Default() *ServerProperties {
	props := &ServerProperties{}
	v := newViper()
	if err := v.Unmarshal(props); err != nil {
		panic(err)
	}
	return props
}

// Load 读取配置文件，configFilename 为空时只使用默认值和环境变量
func Load(configFilename string) (*ServerProperties, error) {
	v := newViper()
	if configFilename != "" {
		v.SetConfigFile(configFilename)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configFilename, err)
		}
	}
	props := &ServerProperties{}
	if err := v.Unmarshal(props); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return props, nil
}

// SetupConfig 读取配置文件并写入 Properties
func SetupConfig(configFilename string) error {
	props, err := Load(configFilename)
	if err != nil {
		return err
	}
	Properties = props
	return nil
}

// Address 返回监听地址
func (p *ServerProperties) Address() string {
	return fmt.Sprintf("%s:%d", p.Bind, p.Port)
}
