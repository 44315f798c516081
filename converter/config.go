package converter

import (
	"io/ioutil"

	yaml "gopkg.in/yaml.v2"
)

// ExportConfig is the yaml counterpart of BVHToGLTFOption for CLI use.
type ExportConfig struct {
	Scale         float32 `yaml:"scale"`
	FrameRate     float64 `yaml:"frameRate"`
	AnimationName string  `yaml:"animationName"`
}

func LoadExportConfig(path string) (*ExportConfig, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var conf ExportConfig
	if err := yaml.Unmarshal(data, &conf); err != nil {
		return nil, err
	}
	return &conf, nil
}

func (c *ExportConfig) Option() *BVHToGLTFOption {
	return &BVHToGLTFOption{
		Scale:         c.Scale,
		FrameRate:     c.FrameRate,
		AnimationName: c.AnimationName,
	}
}
