package fastdupes

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-ini/ini"
)

// Config represents the fastdupes configuration
type Config struct {
	configPath string
	ini        *ini.File
}

// PipelineConfig represents duplicate-pipeline configuration
type PipelineConfig struct {
	MinSize  int64  // Minimum file size in bytes (default: 25)
	HeadSize string // Header hash byte limit (default: "16K")
	Exact    bool   // Default comparison mode (default: false, hash mode)
}

// HashConfig represents hash algorithm configuration
type HashConfig struct {
	Default string // Default hash algorithm
}

// OutputConfig represents output format configuration
type OutputConfig struct {
	Format string // Default output format: human, json
}

// VerboseConfig represents verbosity configuration
type VerboseConfig struct {
	Level int    // Default verbose level (0=quiet, 1=basic, 2=detailed, 3=trace)
	Debug string // Default debug flags (comma-separated)
}

// PerformanceConfig represents performance-related configuration
type PerformanceConfig struct {
	Workers      int    // Concurrent group workers (default: 0 = one per core)
	MaxOpenFiles int64  // Open handle cap for exact mode (default: 0 = from rlimit)
	ChunkSize    string // Chunked-read size (default: "64K")
}

// LoadConfig loads configuration from the given path, or returns the
// built-in defaults when the file does not exist
func LoadConfig(configPath string) (*Config, error) {
	cfg := &Config{
		configPath: configPath,
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg.ini = ini.Empty()
		if err := cfg.setDefaults(); err != nil {
			return nil, fmt.Errorf("failed to set default config: %w", err)
		}
		return cfg, nil
	}

	iniFile, err := ini.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}
	cfg.ini = iniFile

	return cfg, nil
}

// Save writes the configuration to its path, creating parent directories
func (c *Config) Save() error {
	if err := os.MkdirAll(filepath.Dir(c.configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := c.ini.SaveTo(c.configPath); err != nil {
		return fmt.Errorf("failed to save config file: %w", err)
	}
	return nil
}

// setDefaults sets default configuration values
func (c *Config) setDefaults() error {
	pipelineSection, err := c.ini.NewSection("pipeline")
	if err != nil {
		return fmt.Errorf("failed to create pipeline section: %w", err)
	}
	if _, err = pipelineSection.NewKey("min_size", fmt.Sprintf("%d", DefaultMinSize)); err != nil {
		return fmt.Errorf("failed to set default min_size: %w", err)
	}
	if _, err = pipelineSection.NewKey("head_size", "16K"); err != nil {
		return fmt.Errorf("failed to set default head_size: %w", err)
	}
	if _, err = pipelineSection.NewKey("exact", "false"); err != nil {
		return fmt.Errorf("failed to set default exact mode: %w", err)
	}

	hashSection, err := c.ini.NewSection("filehash")
	if err != nil {
		return fmt.Errorf("failed to create filehash section: %w", err)
	}
	if _, err = hashSection.NewKey("default", DefaultHashAlgorithm); err != nil {
		return fmt.Errorf("failed to set default hash algorithm: %w", err)
	}

	outputSection, err := c.ini.NewSection("output")
	if err != nil {
		return fmt.Errorf("failed to create output section: %w", err)
	}
	if _, err = outputSection.NewKey("format", "human"); err != nil {
		return fmt.Errorf("failed to set default output format: %w", err)
	}

	verboseSection, err := c.ini.NewSection("verbose")
	if err != nil {
		return fmt.Errorf("failed to create verbose section: %w", err)
	}
	if _, err = verboseSection.NewKey("level", "0"); err != nil {
		return fmt.Errorf("failed to set default verbose level: %w", err)
	}
	if _, err = verboseSection.NewKey("debug", ""); err != nil {
		return fmt.Errorf("failed to set default debug flags: %w", err)
	}

	performanceSection, err := c.ini.NewSection("performance")
	if err != nil {
		return fmt.Errorf("failed to create performance section: %w", err)
	}
	if _, err = performanceSection.NewKey("workers", "0"); err != nil {
		return fmt.Errorf("failed to set default workers: %w", err)
	}
	if _, err = performanceSection.NewKey("max_open_files", "0"); err != nil {
		return fmt.Errorf("failed to set default max_open_files: %w", err)
	}
	if _, err = performanceSection.NewKey("chunk_size", "64K"); err != nil {
		return fmt.Errorf("failed to set default chunk_size: %w", err)
	}

	return nil
}

// GetPipelineConfig returns the pipeline configuration
func (c *Config) GetPipelineConfig() *PipelineConfig {
	pipelineConfig := &PipelineConfig{
		MinSize:  DefaultMinSize, // fallback default
		HeadSize: "16K",
		Exact:    false,
	}

	if c.ini.HasSection("pipeline") {
		section := c.ini.Section("pipeline")
		if section.HasKey("min_size") {
			if minSize, err := section.Key("min_size").Int64(); err == nil {
				pipelineConfig.MinSize = minSize
			}
		}
		if section.HasKey("head_size") {
			pipelineConfig.HeadSize = section.Key("head_size").String()
		}
		if section.HasKey("exact") {
			if exact, err := section.Key("exact").Bool(); err == nil {
				pipelineConfig.Exact = exact
			}
		}
	}

	return pipelineConfig
}

// GetHashConfig returns the hash configuration
func (c *Config) GetHashConfig() *HashConfig {
	hashConfig := &HashConfig{
		Default: DefaultHashAlgorithm, // fallback default
	}

	if c.ini.HasSection("filehash") {
		section := c.ini.Section("filehash")
		if section.HasKey("default") {
			hashConfig.Default = section.Key("default").String()
		}
	}

	return hashConfig
}

// GetOutputConfig returns the output configuration
func (c *Config) GetOutputConfig() *OutputConfig {
	outputConfig := &OutputConfig{
		Format: "human", // fallback default
	}

	if c.ini.HasSection("output") {
		section := c.ini.Section("output")
		if section.HasKey("format") {
			outputConfig.Format = section.Key("format").String()
		}
	}

	return outputConfig
}

// GetVerboseConfig returns the verbose configuration
func (c *Config) GetVerboseConfig() *VerboseConfig {
	verboseConfig := &VerboseConfig{
		Level: 0,
		Debug: "",
	}

	if c.ini.HasSection("verbose") {
		section := c.ini.Section("verbose")
		if section.HasKey("level") {
			if level, err := section.Key("level").Int(); err == nil {
				verboseConfig.Level = level
			}
		}
		if section.HasKey("debug") {
			verboseConfig.Debug = section.Key("debug").String()
		}
	}

	return verboseConfig
}

// GetPerformanceConfig returns the performance configuration
func (c *Config) GetPerformanceConfig() *PerformanceConfig {
	performanceConfig := &PerformanceConfig{
		Workers:      0,
		MaxOpenFiles: 0,
		ChunkSize:    "64K",
	}

	if c.ini.HasSection("performance") {
		section := c.ini.Section("performance")
		if section.HasKey("workers") {
			if workers, err := section.Key("workers").Int(); err == nil {
				performanceConfig.Workers = workers
			}
		}
		if section.HasKey("max_open_files") {
			if maxOpen, err := section.Key("max_open_files").Int64(); err == nil {
				performanceConfig.MaxOpenFiles = maxOpen
			}
		}
		if section.HasKey("chunk_size") {
			performanceConfig.ChunkSize = section.Key("chunk_size").String()
		}
	}

	return performanceConfig
}

// PipelineOptions assembles pipeline Options from the configuration;
// command-line flags are applied on top by the caller
func (c *Config) PipelineOptions() (Options, error) {
	opts := DefaultOptions()

	pipeline := c.GetPipelineConfig()
	opts.MinSize = pipeline.MinSize
	opts.Exact = pipeline.Exact
	if pipeline.HeadSize != "" {
		headSize, err := ParseHumanSize(pipeline.HeadSize)
		if err != nil {
			return opts, fmt.Errorf("invalid head_size: %w", err)
		}
		opts.HeadSize = int64(headSize)
	}

	opts.Algorithm = c.GetHashConfig().Default

	performance := c.GetPerformanceConfig()
	opts.Workers = performance.Workers
	opts.MaxOpenFiles = performance.MaxOpenFiles
	if performance.ChunkSize != "" {
		chunkSize, err := ParseHumanSize(performance.ChunkSize)
		if err != nil {
			return opts, fmt.Errorf("invalid chunk_size: %w", err)
		}
		opts.ChunkSize = chunkSize
	}

	return opts, nil
}
