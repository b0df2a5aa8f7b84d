// Package swdraw is a software column and span drawer engine in the style of
// the classic Doom renderers.
//
// The drawers live in pkg/render and are written once against a pixel format
// capability, so the same code paths draw into 8-bit palette indexed canvases
// and 32-bit BGRA canvases. Supporting packages provide fixed-point texture
// coordinate math (pkg/fixed), palette quantization tables and colormaps
// (pkg/palette) and dynamic light accumulation (pkg/light).
//
// The root package only carries the shared logger. By default nothing is
// logged; call [SetLogger] to see table rebuilds, drawer selection, asset
// loading and configuration reloads.
package swdraw
