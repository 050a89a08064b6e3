package sink

import (
	"encoding/binary"
	"fmt"
	"image"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog"
	"golang.org/x/image/draw"

	"github.com/coreman2200/arcaluminis-render/internal/render"
)

// Publisher is the part of mqtt.Client the stream sink needs.
type Publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// MQTT streams each artifact, scaled down to a strip of pixels, as a binary frame:
// a little-endian uint16 pixel count followed by R,G,B bytes per pixel.
type MQTT struct {
	interruptFlag
	pub    Publisher
	topic  string
	qos    byte
	pixels int
	log    zerolog.Logger

	strip *image.RGBA
	sent  int
}

type MQTTOption func(*MQTT)

func WithQoS(q byte) MQTTOption { return func(m *MQTT) { m.qos = q } }

func WithMQTTLogger(l zerolog.Logger) MQTTOption { return func(m *MQTT) { m.log = l } }

func NewMQTT(pub Publisher, topic string, pixels int, opts ...MQTTOption) (*MQTT, error) {
	if pixels <= 0 || pixels > 0xffff {
		return nil, fmt.Errorf("sink: mqtt pixel count %d out of range", pixels)
	}
	m := &MQTT{
		pub:    pub,
		topic:  topic,
		pixels: pixels,
		log:    zerolog.Nop(),
		strip:  image.NewRGBA(image.Rect(0, 0, pixels, 1)),
	}
	for _, o := range opts {
		o(m)
	}
	return m, nil
}

func (*MQTT) HasProgressDisplay() bool { return false }

func (m *MQTT) Write(a render.Artifact) error {
	if a.Image == nil {
		return nil
	}
	draw.BiLinear.Scale(m.strip, m.strip.Bounds(), a.Image, a.Image.Bounds(), draw.Src, nil)
	token := m.pub.Publish(m.topic, m.qos, false, m.marshal())
	token.Wait()
	if err := token.Error(); err != nil {
		return fmt.Errorf("sink: mqtt publish: %w", err)
	}
	m.sent++
	return nil
}

func (m *MQTT) marshal() []byte {
	data := make([]byte, 2, m.pixels*3+2)
	binary.LittleEndian.PutUint16(data, uint16(m.pixels))
	for x := 0; x < m.pixels; x++ {
		c := m.strip.RGBAAt(x, 0)
		data = append(data, c.R, c.G, c.B)
	}
	return data
}

func (m *MQTT) Finish() error {
	m.log.Debug().Str("topic", m.topic).Int("frames", m.sent).Msg("mqtt stream finished")
	return nil
}
