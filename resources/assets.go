package resources

import (
	"embed"
	"fmt"
	"sync"

	"fyne.io/fyne/v2"
)

const (
	pictureDir = "pictures/"
	logoDir    = "logo/"

	// RevealPicture is the image uncovered as the countdown shrinks.
	RevealPicture = "reveal.svg"
	// AppLogo is the window and tray icon.
	AppLogo = "logo.svg"
)

//go:embed pictures/*.svg
var pictureFS embed.FS

//go:embed logo/*.svg
var logoFS embed.FS

var pictureCache sync.Map
var logoCache sync.Map

// Picture returns a Fyne resource for the given picture file.
func Picture(fileName string) (fyne.Resource, error) {
	return loadResource(pictureFS, pictureDir+fileName, &pictureCache)
}

// MustPicture returns a Fyne resource or panics on error.
func MustPicture(fileName string) fyne.Resource {
	resource, err := Picture(fileName)
	if err != nil {
		panic(err)
	}
	return resource
}

// Logo returns a Fyne resource for the given logo file.
func Logo(fileName string) (fyne.Resource, error) {
	return loadResource(logoFS, logoDir+fileName, &logoCache)
}

// MustLogo returns a Fyne resource or panics on error.
func MustLogo(fileName string) fyne.Resource {
	resource, err := Logo(fileName)
	if err != nil {
		panic(err)
	}
	return resource
}

func loadResource(fs embed.FS, path string, cache *sync.Map) (fyne.Resource, error) {
	if cached, ok := cache.Load(path); ok {
		return cached.(fyne.Resource), nil
	}

	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load resource %s: %w", path, err)
	}

	resource := fyne.NewStaticResource(path, data)
	cache.Store(path, resource)
	return resource, nil
}
