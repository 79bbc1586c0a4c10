package tofu

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// document is the on-disk shape shared by every encoding. Decoders reject
// keys outside it.
type document struct {
	Path       string            `json:"path" yaml:"path" toml:"path"`
	KnownHosts map[string]string `json:"known_hosts" yaml:"known_hosts" toml:"known_hosts"`
}

type codec struct {
	name      string
	marshal   func(document) ([]byte, error)
	unmarshal func([]byte, *document) error
}

var codecs = map[string]codec{
	".json": {
		name: "json",
		marshal: func(d document) ([]byte, error) {
			return json.MarshalIndent(d, "", "  ")
		},
		unmarshal: func(data []byte, d *document) error {
			dec := json.NewDecoder(bytes.NewReader(data))
			dec.DisallowUnknownFields()
			if err := dec.Decode(d); err != nil {
				return err
			}
			if _, err := dec.Token(); !errors.Is(err, io.EOF) {
				return errors.New("trailing data after document")
			}
			return nil
		},
	},
	".yaml": yamlCodec,
	".yml":  yamlCodec,
	".toml": {
		name: "toml",
		marshal: func(d document) ([]byte, error) {
			var buf bytes.Buffer
			if err := toml.NewEncoder(&buf).Encode(d); err != nil {
				return nil, err
			}
			return buf.Bytes(), nil
		},
		unmarshal: func(data []byte, d *document) error {
			md, err := toml.Decode(string(data), d)
			if err != nil {
				return err
			}
			if undecoded := md.Undecoded(); len(undecoded) > 0 {
				return fmt.Errorf("unknown keys %v", undecoded)
			}
			return nil
		},
	},
}

var yamlCodec = codec{
	name:    "yaml",
	marshal: func(d document) ([]byte, error) { return yaml.Marshal(d) },
	unmarshal: func(data []byte, d *document) error {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(d); err != nil {
			if errors.Is(err, io.EOF) {
				return errors.New("empty document")
			}
			return err
		}
		return nil
	},
}

func codecFor(path string) (codec, error) {
	c, ok := codecs[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return codec{}, fmt.Errorf("%w: %q (want .json, .yaml, .yml or .toml)", ErrUnsupportedFormat, path)
	}
	return c, nil
}
