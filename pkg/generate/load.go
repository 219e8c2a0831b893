package generate

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/blockgen/pkg/diagram"
	"github.com/matzehuels/blockgen/pkg/errors"
)

// LoadVocabulary reads extra vocabulary entries from a TOML or YAML file.
// The file maps category names to keyword lists. The format is chosen by
// extension: ".toml", ".yaml" or ".yml".
//
// The returned vocabulary only holds the file's entries; combine it with
// [DefaultVocabulary] using [Vocabulary.Merge].
func LoadVocabulary(path string) (Vocabulary, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeFileNotFound, "vocabulary file %s not found", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidVocabulary, err, "read %s", path)
	}
	return ParseVocabulary(data, filepath.Ext(path))
}

// ParseVocabulary decodes vocabulary entries encoded as TOML or YAML.
// ext selects the decoder and may be given with or without a leading dot.
func ParseVocabulary(data []byte, ext string) (Vocabulary, error) {
	var grouped map[string][]string

	switch strings.TrimPrefix(strings.ToLower(ext), ".") {
	case "toml":
		if err := toml.Unmarshal(data, &grouped); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidVocabulary, err, "decode toml vocabulary")
		}
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &grouped); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidVocabulary, err, "decode yaml vocabulary")
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidVocabulary, "unsupported vocabulary format %q", ext)
	}

	return fromGrouped(grouped)
}

func fromGrouped(grouped map[string][]string) (Vocabulary, error) {
	v := make(Vocabulary)
	for name, keywords := range grouped {
		c, err := diagram.ParseCategory(strings.ToLower(name))
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidVocabulary, err, "category %q", name)
		}
		for _, k := range keywords {
			k = normalizeKeyword(k)
			if k == "" {
				return nil, errors.New(errors.ErrCodeInvalidVocabulary, "empty keyword in category %q", name)
			}
			if prev, ok := v[k]; ok && prev != c {
				return nil, errors.New(errors.ErrCodeInvalidVocabulary,
					"keyword %q assigned to both %s and %s", k, prev, c)
			}
			v[k] = c
		}
	}
	return v, nil
}
