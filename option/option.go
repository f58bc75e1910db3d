package option

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/yaotthaha/ipsetd/lib/tools"
	"github.com/yaotthaha/ipsetd/option/source"

	"gopkg.in/yaml.v3"
)

type Option struct {
	LogOptions     LogOptions             `config:"log"`
	APIOptions     APIOptions             `config:"api"`
	BackendOptions BackendOptions         `config:"backend"`
	SourceOptions  []source.SourceOptions `config:"sources"`
}

type configType string

const (
	JSON configType = "json"
	YAML configType = "yaml"
)

func ReadFile(file string) (*Option, error) {
	content, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	switch filepath.Ext(file) {
	case ".json", ".jsonc":
		return ReadContent(content, JSON)
	default:
		return ReadContent(content, YAML)
	}
}

func ReadContent(content []byte, configType configType) (*Option, error) {
	var optionMap map[string]any
	var err error
	switch configType {
	case JSON:
		err = json.Unmarshal(content, &optionMap)
	case YAML:
		err = yaml.Unmarshal(content, &optionMap)
	default:
		return nil, fmt.Errorf("config type %s not support", configType)
	}
	if err != nil {
		return nil, err
	}
	var option Option
	err = tools.Decode(optionMap, &option)
	if err != nil {
		return nil, err
	}
	if option.BackendOptions.Type == "" {
		option.BackendOptions.Type = defaultBackend
	}
	tags := make(map[string]struct{}, len(option.SourceOptions))
	for _, s := range option.SourceOptions {
		if _, ok := tags[s.Tag]; ok {
			return nil, fmt.Errorf("source tag %s duplicated", s.Tag)
		}
		tags[s.Tag] = struct{}{}
	}
	return &option, nil
}
