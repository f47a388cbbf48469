package reference

import (
	"fmt"
	"os"
	"strings"

	"github.com/geocoder89/sportsbuddy/internal/domain/reference"
	"gopkg.in/yaml.v3"
)

// SeedFile is the on-disk shape of a category seed:
//
//	categories:
//	  - name: Padel
//	    description: Racket sport played in doubles
type SeedFile struct {
	Categories []reference.CategoryFields `yaml:"categories"`
}

func LoadSeedFile(path string) (SeedFile, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return SeedFile{}, fmt.Errorf("read seed file: %w", err)
	}
	return ParseSeed(b)
}

func ParseSeed(b []byte) (SeedFile, error) {
	var f SeedFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return SeedFile{}, fmt.Errorf("parse seed file: %w", err)
	}
	return f, nil
}

func trim(s string) string {
	return strings.TrimSpace(s)
}
