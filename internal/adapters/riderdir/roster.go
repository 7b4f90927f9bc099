package riderdir

import (
	"fmt"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/okian/heatcast/internal/domain/view"
)

// LoadRoster reads a YAML roster of rider profiles keyed by rider id:
//
//	riders:
//	  r-17:
//	    country: DE
//	    sail_number: G-901
//	    last_name: Köster
func LoadRoster(path string) (map[string]view.Profile, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("load roster %q: %w", path, err)
	}

	profiles := make(map[string]view.Profile)
	if err := k.UnmarshalWithConf("riders", &profiles, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, fmt.Errorf("parse roster %q: %w", path, err)
	}
	return profiles, nil
}
