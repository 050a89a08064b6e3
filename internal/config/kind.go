package config

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// RendererKind selects the render backend. The set is closed.
type RendererKind int

const (
	// RendererRaster is the single-threaded CPU scanline rasterizer.
	RendererRaster RendererKind = iota
	// RendererAccelerated splits each frame into row bands rendered on a worker pool.
	RendererAccelerated
)

var rendererNames = map[RendererKind]string{
	RendererRaster:      "raster",
	RendererAccelerated: "accelerated",
}

func (k RendererKind) String() string {
	if n, ok := rendererNames[k]; ok {
		return n
	}
	return "unknown"
}

func (k RendererKind) check() (RendererKind, error) {
	if _, ok := rendererNames[k]; !ok {
		return k, &ConfigurationError{Field: "renderer", Value: int(k), Reason: "unrecognized renderer kind"}
	}
	return k, nil
}

// ParseRendererKind maps a config/flag value to a RendererKind.
// "cairo" and "opengl" are accepted as aliases.
func ParseRendererKind(s string) (RendererKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "raster", "cairo", "":
		return RendererRaster, nil
	case "accelerated", "opengl", "gpu":
		return RendererAccelerated, nil
	}
	return RendererRaster, &ConfigurationError{Field: "renderer", Value: s, Reason: "unrecognized renderer kind"}
}

func (k RendererKind) MarshalYAML() (interface{}, error) {
	if _, err := k.check(); err != nil {
		return nil, err
	}
	return k.String(), nil
}

func (k *RendererKind) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	kk, err := ParseRendererKind(s)
	if err != nil {
		return err
	}
	*k = kk
	return nil
}
