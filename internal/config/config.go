package config

import (
	"os"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

type Output struct {
	Dir      string `yaml:"dir"`      // frame sequence root; empty disables file output
	Progress bool   `yaml:"progress"` // sink logs its own progress
}

type Post struct {
	ToneMap    bool    `yaml:"tone_map"`
	ExposureEV float64 `yaml:"exposure_ev"`
	Gamma      float64 `yaml:"gamma"` // e.g. 2.2; 0 or 1 = linear
}

type PreviewServer struct {
	Addr       string `yaml:"addr"`        // e.g. :8080
	ThrottleMs int    `yaml:"throttle_ms"` // min ms between frames pushed to clients
}

type MQTT struct {
	URL      string `yaml:"url"` // e.g. tcp://localhost:1883; empty disables streaming
	ClientID string `yaml:"client_id"`
	Topic    string `yaml:"topic"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Pixels   int    `yaml:"pixels"`
}

type LED struct {
	Enabled    bool    `yaml:"enabled"`
	SPIDev     string  `yaml:"spi_dev"` // "" = first available port
	Columns    int     `yaml:"columns"`
	Rows       int     `yaml:"rows"`
	Serpentine bool    `yaml:"serpentine"`
	Brightness float64 `yaml:"brightness"`
	BudgetMA   float64 `yaml:"budget_ma"`
	WhiteCap   float64 `yaml:"white_cap"`
}

// Config is everything the render manager reads at setup time.
type Config struct {
	FrameRate     float64      `yaml:"frame_rate"`
	Renderer      RendererKind `yaml:"renderer"` // "raster" | "accelerated"
	Preview       bool         `yaml:"preview"`
	SaveLastFrame bool         `yaml:"save_last_frame"`

	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Background string `yaml:"background"` // hex, e.g. #000000

	Output        Output        `yaml:"output"`
	Post          Post          `yaml:"post"`
	PreviewServer PreviewServer `yaml:"preview_server"`
	MQTT          MQTT          `yaml:"mqtt,omitempty"`
	LED           LED           `yaml:"led,omitempty"`
}

// Default returns a batch (non-preview) raster configuration at 30 fps.
func Default() Config {
	return Config{
		FrameRate:  30,
		Renderer:   RendererRaster,
		Width:      640,
		Height:     360,
		Background: "#000000",
		Post:       Post{Gamma: 1},
		PreviewServer: PreviewServer{
			Addr:       ":8080",
			ThrottleMs: 16,
		},
		MQTT: MQTT{
			ClientID: "arcrender",
			Topic:    "arcaluminis/stream",
			Pixels:   500,
		},
		LED: LED{
			Columns:    5,
			Rows:       26,
			Serpentine: true,
			Brightness: 0.8,
			BudgetMA:   3000,
			WhiteCap:   2.2,
		},
	}
}

// Load reads a YAML config over Default.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := Default()
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

// Validate reports the first setting the manager cannot run with.
func (c *Config) Validate() error {
	if !(c.FrameRate > 0) {
		return &ConfigurationError{Field: "frame_rate", Value: c.FrameRate, Reason: "must be positive"}
	}
	if _, err := c.Renderer.check(); err != nil {
		return err
	}
	if c.Width <= 0 || c.Height <= 0 {
		return &ConfigurationError{Field: "width/height", Value: [2]int{c.Width, c.Height}, Reason: "must be positive"}
	}
	if _, err := colorful.Hex(c.Background); c.Background != "" && err != nil {
		return &ConfigurationError{Field: "background", Value: c.Background, Reason: err.Error()}
	}
	if c.LED.Enabled && c.LED.Columns*c.LED.Rows <= 0 {
		return &ConfigurationError{Field: "led", Value: [2]int{c.LED.Columns, c.LED.Rows}, Reason: "columns and rows must be positive"}
	}
	return nil
}

// BackgroundColor parses Background, falling back to black.
func (c *Config) BackgroundColor() colorful.Color {
	col, err := colorful.Hex(c.Background)
	if err != nil {
		return colorful.Color{}
	}
	return col
}
