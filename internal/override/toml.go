package override

import (
	"github.com/BurntSushi/toml"
)

func decodeTOML(data []byte) ([]pair, error) {
	var raw map[string]any
	md, err := toml.Decode(string(data), &raw)
	if err != nil {
		return nil, err
	}

	keys := md.Keys()
	pairs := make([]pair, 0, len(keys))
	for _, key := range keys {
		if len(key) != 1 {
			// nested keys are reported through their parent table
			continue
		}
		name := key[0]
		pairs = append(pairs, pair{key: name, raw: raw[name]})
	}
	return pairs, nil
}
