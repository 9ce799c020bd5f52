package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/clicky/game"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clicky.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func envMap(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestDefault_MatchesGameDefaults(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, game.DefaultRules(), cfg.Rules())

	cat, err := cfg.Catalog()
	require.NoError(t, err)
	assert.Equal(t, game.DefaultCatalog().Items(), cat.Items())

	assert.Equal(t, 16*time.Millisecond, cfg.TickInterval())
	assert.Equal(t, 2*time.Second, cfg.MessageDuration())
	assert.Equal(t, time.Minute, cfg.AutosaveInterval())
	assert.InDelta(t, 0.5, cfg.MasterVolume(), 1e-9)
}

func TestLoad_EmptyPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_Overlay(t *testing.T) {
	path := writeFile(t, `
[economy]
mega_cost_growth = 1.5

[combat]
enemy_name = "Red Slime"
enemy_max_hp = 20

[engine]
autosave_seconds = 0
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	r := cfg.Rules()
	assert.Equal(t, 1.5, r.MegaCostGrowth)
	assert.Equal(t, int64(10), r.UpgradeCost)
	assert.Equal(t, "Red Slime", r.Combat.EnemyName)
	assert.Equal(t, int64(20), r.Combat.EnemyMaxHP)
	assert.Equal(t, time.Duration(-1), cfg.AutosaveInterval())
	assert.Len(t, cfg.Shop, len(game.DefaultItems()))
}

func TestLoad_ShopReplacesDefaults(t *testing.T) {
	path := writeFile(t, `
[[shop]]
key = "Golden Cursor"
cost = 500
category = "Consumables"
kind = "booster"
cps_increase = 2
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Len(t, cfg.Shop, 1)

	cat, err := cfg.Catalog()
	require.NoError(t, err)
	items := cat.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "Golden Cursor", items[0].Name)
	assert.Equal(t, time.Duration(0), items[0].Effect.Duration)
	assert.Equal(t, "Blue Slime Chunk", items[1].Key)
	assert.Equal(t, game.KindDrop, items[1].Kind)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "[economy\n"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "[economy]\nclick_valu = 3\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "economy.click_valu")
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	cfg.ApplyEnv(envMap(map[string]string{
		EnvSavePath:        "/tmp/clicky.db",
		EnvSaveBackend:     "SQLite",
		EnvAudioEnabled:    "false",
		EnvMasterVolume:    "150",
		EnvAutosaveSeconds: "30",
	}))
	assert.Equal(t, "/tmp/clicky.db", cfg.Save.Path)
	assert.Equal(t, BackendSQLite, cfg.Save.Backend)
	assert.False(t, cfg.Audio.Enabled)
	assert.Equal(t, 100, cfg.Audio.MasterVolume)
	assert.Equal(t, 30*time.Second, cfg.AutosaveInterval())
	assert.NoError(t, cfg.Validate())
}

func TestApplyEnv_IgnoresGarbage(t *testing.T) {
	cfg := Default()
	cfg.ApplyEnv(envMap(map[string]string{
		EnvAudioEnabled:    "maybe",
		EnvMasterVolume:    "loud",
		EnvAutosaveSeconds: "-5",
	}))
	assert.Equal(t, Default(), cfg)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"backend", func(c *Config) { c.Save.Backend = "s3" }},
		{"path", func(c *Config) { c.Save.Path = "" }},
		{"volume", func(c *Config) { c.Audio.MasterVolume = 101 }},
		{"tick", func(c *Config) { c.Engine.TickMS = 0 }},
		{"rules", func(c *Config) { c.Economy.UpgradeCostGrowth = 0.5 }},
		{"kind", func(c *Config) { c.Shop[0].Kind = "sword" }},
		{"duplicate", func(c *Config) { c.Shop = append(c.Shop, c.Shop[0]) }},
		{"category", func(c *Config) { c.Shop[0].Category = "Misc" }},
		{"negative duration", func(c *Config) { c.Shop[0].DurationSeconds = -5 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestCatalog_RejectsUnreachableItems(t *testing.T) {
	path := writeFile(t, `
[[shop]]
key = "Gem"
cost = 50
category = "Misc"
kind = "booster"
cps_increase = 1
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	_, err = cfg.Catalog()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown category")

	cfg = Default()
	cfg.Shop[0].DurationSeconds = -1
	_, err = cfg.Catalog()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duration_seconds")
}

func TestWrite_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Default().Write(&buf))
	assert.Contains(t, buf.String(), "[[shop]]")

	cfg, err := Load(writeFile(t, buf.String()))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}
