package main

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/arrayguard/parityscan/lib/disk"
	"github.com/arrayguard/parityscan/lib/filter"
	"github.com/arrayguard/parityscan/lib/log"
	"github.com/arrayguard/parityscan/lib/portability"
	"github.com/arrayguard/parityscan/lib/scandriver"
	"github.com/arrayguard/parityscan/lib/state"
	"github.com/arrayguard/parityscan/lib/walker"
)

// DiskEntry is one data disk named in the config file's "disks" list.
type DiskEntry struct {
	Name string `mapstructure:"name"`
	Root string `mapstructure:"root"`
}

// Config is the merged result of scan.yaml, environment variables
// (SCAN_*), and command-line flags, in ascending priority, assembled by
// viper the way deploymenttheory-go-apfs's internal/disk.LoadDMGConfig
// merges its DMGConfig.
type Config struct {
	Disks                  []DiskEntry `mapstructure:"disks"`
	Gui                    bool        `mapstructure:"gui"`
	Verbose                bool        `mapstructure:"verbose"`
	ForceZero              bool        `mapstructure:"force-zero"`
	ForceEmpty             bool        `mapstructure:"force-empty"`
	Order                  string      `mapstructure:"order"`
	BlockSize              uint64      `mapstructure:"block-size"`
	ClearUndeterminateHash bool        `mapstructure:"clear-undeterminate-hash"`
	MetricsPrefix          string      `mapstructure:"metrics-prefix"`
	ExcludeFile            string      `mapstructure:"exclude-file"`
	ContentFile            string      `mapstructure:"content-file"`
}

func loadConfig(configFile string) (*Config, error) {
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName("scan")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.parityscan")
		viper.AddConfigPath("/etc/parityscan")
	}

	viper.SetDefault("order", "physical")
	viper.SetDefault("block-size", 256*1024)
	viper.SetDefault("metrics-prefix", "/scan")

	viper.SetEnvPrefix("SCAN")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

func parseOrder(s string) (state.Order, error) {
	switch s {
	case "physical":
		return state.Physical, nil
	case "inode":
		return state.Inode, nil
	case "alpha":
		return state.Alpha, nil
	case "dir":
		return state.Dir, nil
	default:
		return state.Physical, fmt.Errorf("unknown order %q: want physical, inode, alpha, or dir", s)
	}
}

func (cfg *Config) buildState() (*state.State, error) {
	order, err := parseOrder(cfg.Order)
	if err != nil {
		return nil, err
	}

	prober := portability.Unix{}
	disks := make([]*disk.Disk, 0, len(cfg.Disks))
	for _, entry := range cfg.Disks {
		st, err := prober.Lstat(entry.Root)
		if err != nil {
			return nil, fmt.Errorf("disk %s: %w", entry.Name, err)
		}
		disks = append(disks, disk.New(entry.Name, entry.Root, st.Device))
	}

	return &state.State{
		Disks: disks,
		Options: state.Options{
			ForceOrder:             order,
			ForceZero:              cfg.ForceZero,
			ForceEmpty:             cfg.ForceEmpty,
			Gui:                    cfg.Gui,
			Verbose:                cfg.Verbose,
			BlockSize:              cfg.BlockSize,
			ClearUndeterminateHash: cfg.ClearUndeterminateHash,
			CommandName:            "scan",
		},
	}, nil
}

func (cfg *Config) buildDriver(logger log.DebugLogger) (*scandriver.Driver, error) {
	filters := walker.Filters{}

	if cfg.ExcludeFile != "" {
		f, err := filter.Load(cfg.ExcludeFile)
		if err != nil {
			return nil, fmt.Errorf("loading exclude file: %w", err)
		}
		filters.Path = f
		filters.Dir = f
	}
	if cfg.ContentFile != "" {
		f, err := filter.New([]string{cfg.ContentFile})
		if err != nil {
			return nil, fmt.Errorf("loading content filter: %w", err)
		}
		filters.Content = f
	}

	return scandriver.New(portability.Unix{}, filters, logger), nil
}
