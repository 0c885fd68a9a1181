// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package studies loads gold-standard (GS) and quasi-gold-standard (QGS)
// study sets from YAML files and checks the QGS ⊆ GS protocol invariant.
package studies

import (
	"fmt"
	"os"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/slrkit/searcheval/pkg/types"
)

// StudyFile is the on-disk representation of a study set.
type StudyFile struct {
	Studies []types.Study `yaml:"studies"`
}

// Load reads a study set from a YAML file.
func Load(path string) ([]types.Study, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading study file: %w", err)
	}
	var sf StudyFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("parsing study file %s: %w", path, err)
	}
	return sf.Studies, nil
}

// LoadSets loads the GS and QGS files and verifies that every QGS study
// appears in the GS, comparing by normalized title.
func LoadSets(gsPath, qgsPath string) (gs, qgs []types.Study, err error) {
	gs, err = Load(gsPath)
	if err != nil {
		return nil, nil, err
	}
	qgs, err = Load(qgsPath)
	if err != nil {
		return nil, nil, err
	}

	gsTitles := make(map[string]struct{}, len(gs))
	for _, s := range gs {
		gsTitles[normalizeTitle(s.Title)] = struct{}{}
	}
	var missing []string
	for _, s := range qgs {
		if _, ok := gsTitles[normalizeTitle(s.Title)]; !ok {
			missing = append(missing, s.Title)
		}
	}
	if len(missing) > 0 {
		return nil, nil, fmt.Errorf("QGS studies not present in GS: %s", strings.Join(missing, "; "))
	}
	return gs, qgs, nil
}

// normalizeTitle lowercases and collapses whitespace for set membership.
func normalizeTitle(title string) string {
	return strings.Join(strings.Fields(strings.ToLower(title)), " ")
}
