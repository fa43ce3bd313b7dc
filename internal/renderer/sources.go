package renderer

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"log/slog"
	"os"
	"runtime"
	"sync"

	"github.com/jo-hoe/gorender/internal/payload"
)

// loadSources reads and decodes every image-backed layer up front so that
// painting can stay strictly in paint order. Sources are fetched in parallel;
// the returned slice is indexed like the layer list, with nil entries for
// solid layers. The decoder is chosen by the layer variant, never by file
// extension.
func loadSources(layers payload.Layers) ([]image.Image, error) {
	sources := make([]image.Image, len(layers))
	errs := make([]error, len(layers))

	parallelFor(len(layers), func(i int) {
		switch l := layers[i].(type) {
		case payload.PngImageLayer:
			sources[i], errs[i] = loadImage(l.Src, png.Decode)
		case payload.JpgImageLayer:
			sources[i], errs[i] = loadImage(l.Src, jpeg.Decode)
		}
	})

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("layer %d: %w", i, err)
		}
	}
	return sources, nil
}

func loadImage(src string, decode func(io.Reader) (image.Image, error)) (image.Image, error) {
	file, err := os.Open(src)
	if err != nil {
		return nil, fmt.Errorf("failed to open layer source: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			slog.Error("loadImage: failed to close layer source", "error", cerr, "src", src)
		}
	}()

	img, err := decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode layer source %s: %w", src, err)
	}
	return img, nil
}

// parallelFor runs fn(i) over i in [0, n) using up to GOMAXPROCS workers.
// Work is distributed by striding to balance uneven workloads.
func parallelFor(n int, fn func(i int)) {
	if n <= 0 {
		return
	}
	workers := runtime.GOMAXPROCS(0)
	if workers > n {
		workers = n
	}

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(start int) {
			defer wg.Done()
			for i := start; i < n; i += workers {
				fn(i)
			}
		}(w)
	}
	wg.Wait()
}
