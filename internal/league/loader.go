package league

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/spf13/viper"
)

// Load reads the profiles file and returns the named profile. Any problem
// here is fatal to the caller: a missing file, malformed JSON, or an
// unknown profile name must stop the run before any computation.
func Load(path, name string) (*Profile, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("league config %s: %w", path, err)
	}
	if name == "" {
		return nil, fmt.Errorf("league config %s: no profile name given", path)
	}
	if !v.IsSet(name) {
		return nil, fmt.Errorf("league config %s: profile %q not found (have: %v)",
			path, name, profileKeys(v))
	}

	var p Profile
	if err := v.UnmarshalKey(name, &p); err != nil {
		return nil, fmt.Errorf("league config %s: profile %q: %w", path, name, err)
	}
	p.Name = name
	p.applyDefaults()
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// ProfileNames lists the profiles available in a config file, sorted.
func ProfileNames(path string) ([]string, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("league config %s: %w", path, err)
	}
	return profileKeys(v), nil
}

func profileKeys(v *viper.Viper) []string {
	m := v.AllSettings()
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ResolvePaths rewrites relative source paths against the data directory so
// profiles stay portable between the CLI and the server.
func (p *Profile) ResolvePaths(dataDir string) {
	if dataDir == "" {
		return
	}
	for i := range p.Paths.OffenseSources {
		p.Paths.OffenseSources[i].Path = resolve(dataDir, p.Paths.OffenseSources[i].Path)
	}
	p.Paths.IDPCSV = resolve(dataDir, p.Paths.IDPCSV)
	p.Paths.ADPCSV = resolve(dataDir, p.Paths.ADPCSV)
}

func resolve(dataDir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dataDir, path)
}
