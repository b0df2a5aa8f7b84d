// Package assets loads texture and light packs from glTF and GLB files.
//
// Every image in the document becomes a named texture. Nodes carrying a
// KHR_lights_punctual light, or a "swdraw_light" object in their extras,
// become dynamic lights. glTF is Y up; positions are returned in map space
// with X and Z on the ground and Y as height mapped to Z.
package assets

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"os"
	"path/filepath"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/ext/lightspunctual"

	"github.com/taigrr/swdraw"
	"github.com/taigrr/swdraw/pkg/light"
	"github.com/taigrr/swdraw/pkg/math3d"
)

// ErrNoImages is returned for a document without any decodable image.
var ErrNoImages = errors.New("no images in asset pack")

const (
	extrasKey = "swdraw_light"

	// DefaultLightRadius applies to punctual lights without a range.
	DefaultLightRadius = 256
)

// Image is a decoded texture image.
type Image struct {
	Name  string
	Image image.Image
}

// Pack is the content of one asset file.
type Pack struct {
	Name   string
	Images []Image
	Lights []light.Light
}

// Image returns the image with the given name.
func (p *Pack) Image(name string) (image.Image, bool) {
	for _, img := range p.Images {
		if img.Name == name {
			return img.Image, true
		}
	}
	return nil, false
}

type extrasLight struct {
	Color  string  `json:"color"`
	Radius float64 `json:"radius"`
	Simple bool    `json:"simple"`
}

// roundTrip re-decodes loosely typed glTF extras into dst.
func roundTrip(v any, dst any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dst)
}

// Load opens a glTF or GLB file and decodes its images and lights.
func Load(path string) (*Pack, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	pack := &Pack{Name: filepath.Base(path)}
	for i, img := range doc.Images {
		data, err := imageData(doc, img, filepath.Dir(path))
		if err != nil {
			swdraw.Logger().Warn("skipping image", "pack", pack.Name, "index", i, "error", err)
			continue
		}
		decoded, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			swdraw.Logger().Warn("skipping image", "pack", pack.Name, "index", i, "error", err)
			continue
		}
		name := img.Name
		if name == "" {
			name = fmt.Sprintf("image%d", i)
		}
		pack.Images = append(pack.Images, Image{Name: name, Image: decoded})
	}
	if len(pack.Images) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrNoImages)
	}

	pack.Lights, err = lights(doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	swdraw.Logger().Debug("asset pack loaded", "pack", pack.Name, "images", len(pack.Images), "lights", len(pack.Lights))
	return pack, nil
}

// imageData returns the encoded bytes of an image from its buffer view, a
// data URI or a file next to the document.
func imageData(doc *gltf.Document, img *gltf.Image, dir string) ([]byte, error) {
	if img.BufferView != nil {
		bv := doc.BufferViews[*img.BufferView]
		buf := doc.Buffers[bv.Buffer]
		if buf.Data == nil {
			return nil, errors.New("buffer has no data")
		}
		end := bv.ByteOffset + bv.ByteLength
		if end > len(buf.Data) {
			return nil, fmt.Errorf("buffer view ends at %d past buffer of %d bytes", end, len(buf.Data))
		}
		return buf.Data[bv.ByteOffset:end], nil
	}
	if img.URI == "" {
		return nil, errors.New("image has neither a buffer view nor a uri")
	}
	if strings.HasPrefix(img.URI, "data:") {
		_, payload, ok := strings.Cut(img.URI, ",")
		if !ok {
			return nil, errors.New("malformed data uri")
		}
		return base64.StdEncoding.DecodeString(payload)
	}
	return os.ReadFile(filepath.Join(dir, filepath.FromSlash(img.URI)))
}

func lights(doc *gltf.Document) ([]light.Light, error) {
	var defs lightspunctual.Lights
	if ext, ok := doc.Extensions[lightspunctual.ExtensionName]; ok {
		if defs, ok = ext.(lightspunctual.Lights); !ok {
			return nil, fmt.Errorf("%s: unexpected %T", lightspunctual.ExtensionName, ext)
		}
	}

	var out []light.Light
	for _, node := range doc.Nodes {
		pos := math3d.V3(node.Translation[0], node.Translation[2], node.Translation[1])

		if ext, ok := node.Extensions[lightspunctual.ExtensionName]; ok {
			ref, ok := ext.(lightspunctual.LightIndex)
			if !ok {
				return nil, fmt.Errorf("node %q: unexpected %T", node.Name, ext)
			}
			if int(ref) >= len(defs) || defs[ref] == nil {
				return nil, fmt.Errorf("node %q: light index out of range", node.Name)
			}
			def := defs[ref]
			if def.Type == lightspunctual.TypeDirectional {
				continue
			}
			l := light.Light{Pos: pos, Color: 0xffffff, Radius: DefaultLightRadius}
			if def.Color != nil {
				l.Color = hex(colorful.Color{R: def.Color[0], G: def.Color[1], B: def.Color[2]}.Clamped())
			}
			if def.Range != nil && *def.Range > 0 {
				l.Radius = *def.Range
			}
			out = append(out, l)
			continue
		}

		if node.Extras == nil {
			continue
		}
		var extras map[string]json.RawMessage
		if err := roundTrip(node.Extras, &extras); err != nil {
			continue
		}
		raw, ok := extras[extrasKey]
		if !ok {
			continue
		}
		var el extrasLight
		if err := json.Unmarshal(raw, &el); err != nil {
			return nil, fmt.Errorf("node %q: %w", node.Name, err)
		}
		c, err := colorful.Hex(el.Color)
		if err != nil {
			return nil, fmt.Errorf("node %q: light colour: %w", node.Name, err)
		}
		radius := el.Radius
		if radius <= 0 {
			radius = DefaultLightRadius
		}
		out = append(out, light.Light{Pos: pos, Color: hex(c), Radius: radius, Simple: el.Simple})
	}
	return out, nil
}

func hex(c colorful.Color) uint32 {
	r, g, b := c.RGB255()
	return uint32(r)<<16 | uint32(g)<<8 | uint32(b)
}
