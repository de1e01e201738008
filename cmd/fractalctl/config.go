package main

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/JDerekLomas/fractalviewer/internal/evo"
)

// fileConfig mirrors the optional TOML config file. Flag values override
// whatever the file sets.
type fileConfig struct {
	Store     string     `toml:"store"`
	DBPath    string     `toml:"db_path"`
	Evolution evo.Config `toml:"evolution"`
}

func loadFileConfig(path string) (fileConfig, error) {
	cfg := fileConfig{Evolution: evo.DefaultConfig()}
	if path == "" {
		return cfg, nil
	}
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return fileConfig{}, fmt.Errorf("load config %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return fileConfig{}, fmt.Errorf("load config %s: unknown key %s", path, undecoded[0])
	}
	if err := cfg.Evolution.Validate(); err != nil {
		return fileConfig{}, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}
