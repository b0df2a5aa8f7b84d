package assets

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/ext/lightspunctual"
)

func pngBytes(t *testing.T, c color.NRGBA) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 4, 2))
	for y := range 2 {
		for x := range 4 {
			img.SetNRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// writePack saves a GLB with one embedded image, one punctual light and
// one extras light.
func writePack(t *testing.T) string {
	t.Helper()
	data := pngBytes(t, color.NRGBA{0x80, 0x40, 0x20, 0xff})
	bv := 0
	torchRange := 96.0

	doc := gltf.NewDocument()
	doc.Buffers = []*gltf.Buffer{{ByteLength: len(data), Data: data}}
	doc.BufferViews = []*gltf.BufferView{{Buffer: 0, ByteLength: len(data)}}
	doc.Images = []*gltf.Image{{Name: "brick", MimeType: "image/png", BufferView: &bv}}
	doc.ExtensionsUsed = []string{lightspunctual.ExtensionName}
	doc.Extensions = gltf.Extensions{
		lightspunctual.ExtensionName: lightspunctual.Lights{
			{Type: lightspunctual.TypePoint, Color: &[3]float64{1, 0.5, 0}, Range: &torchRange},
			{Type: lightspunctual.TypeDirectional},
		},
	}
	doc.Nodes = []*gltf.Node{
		{
			Name:        "torch",
			Translation: [3]float64{1, 2, 3},
			Extensions:  gltf.Extensions{lightspunctual.ExtensionName: lightspunctual.LightIndex(0)},
		},
		{
			Name:       "sun",
			Extensions: gltf.Extensions{lightspunctual.ExtensionName: lightspunctual.LightIndex(1)},
		},
		{
			Name:        "lamp",
			Translation: [3]float64{10, 0, 20},
			Extras:      map[string]any{extrasKey: map[string]any{"color": "#00ff00", "simple": true}},
		},
		{Name: "plain"},
	}
	doc.Scenes[0].Nodes = []int{0, 1, 2, 3}

	path := filepath.Join(t.TempDir(), "pack.glb")
	if err := gltf.SaveBinary(doc, path); err != nil {
		t.Fatalf("SaveBinary: %v", err)
	}
	return path
}

func TestLoadPack(t *testing.T) {
	pack, err := Load(writePack(t))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	img, ok := pack.Image("brick")
	if !ok {
		t.Fatal("brick image missing")
	}
	if b := img.Bounds(); b.Dx() != 4 || b.Dy() != 2 {
		t.Errorf("image size %v", b)
	}
	r, g, b, _ := img.At(1, 1).RGBA()
	if r>>8 != 0x80 || g>>8 != 0x40 || b>>8 != 0x20 {
		t.Errorf("pixel = %x %x %x", r>>8, g>>8, b>>8)
	}

	if len(pack.Lights) != 2 {
		t.Fatalf("got %d lights, want 2 (directional skipped)", len(pack.Lights))
	}
	torch := pack.Lights[0]
	if torch.Color != 0xff8000 || torch.Radius != 96 || torch.Simple {
		t.Errorf("torch = %+v", torch)
	}
	if torch.Pos.X != 1 || torch.Pos.Y != 3 || torch.Pos.Z != 2 {
		t.Errorf("torch position = %+v, want glTF Y as height", torch.Pos)
	}
	lamp := pack.Lights[1]
	if lamp.Color != 0x00ff00 || lamp.Radius != DefaultLightRadius || !lamp.Simple {
		t.Errorf("lamp = %+v", lamp)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load("/nonexistent/path.glb"); err == nil {
		t.Error("expected error for nonexistent file")
	}

	doc := gltf.NewDocument()
	path := filepath.Join(t.TempDir(), "empty.glb")
	if err := gltf.SaveBinary(doc, path); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); !errors.Is(err, ErrNoImages) {
		t.Errorf("Load(empty) = %v, want ErrNoImages", err)
	}
}

func TestLoadPunctualIndexOutOfRange(t *testing.T) {
	data := pngBytes(t, color.NRGBA{1, 2, 3, 255})
	bv := 0
	doc := gltf.NewDocument()
	doc.Buffers = []*gltf.Buffer{{ByteLength: len(data), Data: data}}
	doc.BufferViews = []*gltf.BufferView{{Buffer: 0, ByteLength: len(data)}}
	doc.Images = []*gltf.Image{{MimeType: "image/png", BufferView: &bv}}
	doc.ExtensionsUsed = []string{lightspunctual.ExtensionName}
	doc.Extensions = gltf.Extensions{
		lightspunctual.ExtensionName: lightspunctual.Lights{{Type: lightspunctual.TypePoint}},
	}
	doc.Nodes = []*gltf.Node{
		{Name: "stray", Extensions: gltf.Extensions{lightspunctual.ExtensionName: lightspunctual.LightIndex(3)}},
	}
	doc.Scenes[0].Nodes = []int{0}
	path := filepath.Join(t.TempDir(), "stray.glb")
	if err := gltf.SaveBinary(doc, path); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for a light index past the lights array")
	}
}

func TestImageDataURI(t *testing.T) {
	data := pngBytes(t, color.NRGBA{1, 2, 3, 255})
	doc := gltf.NewDocument()
	uri := "data:image/png;base64," + base64.StdEncoding.EncodeToString(data)
	got, err := imageData(doc, &gltf.Image{URI: uri}, "")
	if err != nil {
		t.Fatalf("imageData: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Error("data uri decoded to different bytes")
	}
	if _, err := imageData(doc, &gltf.Image{}, ""); err == nil {
		t.Error("expected error for an image without a source")
	}
}
