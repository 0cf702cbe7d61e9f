package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// yamlConfig is the on-disk shape. It is mapped, defaulted and validated
// before anything downstream sees it.
type yamlConfig struct {
	Scenario string `yaml:"scenario"`
	Weather  string `yaml:"weather"`
	Python   string `yaml:"python"`

	NetworkLayout struct {
		NetworkType         string   `yaml:"network-type"`
		PipeMaterial        string   `yaml:"pipe-material"`
		PipeDiameter        float64  `yaml:"pipe-diameter"`
		CreatePlant         bool     `yaml:"create-plant"`
		AllowLoopedNetworks bool     `yaml:"allow-looped-networks"`
		Buildings           []string `yaml:"buildings"`
		TreeStrategy        string   `yaml:"tree-strategy"`
	} `yaml:"network-layout"`

	ThermalNetwork struct {
		DisconnectedBuildings []string `yaml:"disconnected-buildings"`
	} `yaml:"thermal-network"`
}

// Load reads, maps, defaults and validates a configuration file.
func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, &ConfigError{Kind: ErrNotFound, Path: path, Msg: err.Error()}
	}

	var dto yamlConfig
	if err := yaml.Unmarshal(b, &dto); err != nil {
		return Config{}, &ConfigError{Kind: ErrInvalidConfig, Path: path, Msg: err.Error()}
	}

	cfg := mapConfig(dto)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Default returns the configuration used when no file is supplied. The
// scenario is still required and must come from the caller.
func Default(scenario string) Config {
	cfg := mapConfig(yamlConfig{})
	cfg.Scenario = scenario
	return cfg
}

func mapConfig(dto yamlConfig) Config {
	cfg := Config{
		Scenario: dto.Scenario,
		Weather:  dto.Weather,
		Python:   dto.Python,
		NetworkLayout: NetworkLayout{
			NetworkType:         NetworkType(dto.NetworkLayout.NetworkType),
			PipeMaterial:        dto.NetworkLayout.PipeMaterial,
			PipeDiameter:        dto.NetworkLayout.PipeDiameter,
			CreatePlant:         dto.NetworkLayout.CreatePlant,
			AllowLoopedNetworks: dto.NetworkLayout.AllowLoopedNetworks,
			Buildings:           dto.NetworkLayout.Buildings,
			TreeStrategy:        TreeStrategy(dto.NetworkLayout.TreeStrategy),
		},
		ThermalNetwork: ThermalNetwork{
			DisconnectedBuildings: dto.ThermalNetwork.DisconnectedBuildings,
		},
	}

	if cfg.NetworkLayout.NetworkType == "" {
		cfg.NetworkLayout.NetworkType = NetworkDH
	}
	if cfg.NetworkLayout.PipeMaterial == "" {
		cfg.NetworkLayout.PipeMaterial = DefaultPipeMaterial
	}
	if cfg.NetworkLayout.PipeDiameter == 0 {
		cfg.NetworkLayout.PipeDiameter = DefaultPipeDiameter
	}
	if cfg.NetworkLayout.TreeStrategy == "" {
		cfg.NetworkLayout.TreeStrategy = TreeSteiner
	}
	return cfg
}
