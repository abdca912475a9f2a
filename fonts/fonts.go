// Package fonts holds the TrueType faces used by the HUD.
package fonts

import (
	"fmt"

	"github.com/automoto/squawk/config"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

type FontName string

const (
	HUD    FontName = "hud"
	Debug  FontName = "debug"
	Banner FontName = "banner"
)

// bannerScale sizes the win/lose banner relative to the HUD font.
const bannerScale = 2.5

func (f FontName) Get() font.Face {
	return getFont(f)
}

var (
	fonts = map[FontName]font.Face{}
)

// LoadDefaults registers the Go fonts at the configured sizes.
func LoadDefaults(cfg config.DisplayConfig) error {
	if err := LoadFontWithSize(HUD, goregular.TTF, cfg.HUDFontSize); err != nil {
		return err
	}
	if err := LoadFontWithSize(Debug, goregular.TTF, cfg.DebugFontSize); err != nil {
		return err
	}
	return LoadFontWithSize(Banner, gobold.TTF, cfg.HUDFontSize*bannerScale)
}

func LoadFontWithSize(name FontName, ttf []byte, size float64) error {
	fontData, err := truetype.Parse(ttf)
	if err != nil {
		return fmt.Errorf("parse font %s: %w", name, err)
	}
	fonts[name] = truetype.NewFace(fontData, &truetype.Options{Size: size, Hinting: font.HintingFull})
	return nil
}

func getFont(name FontName) font.Face {
	f, ok := fonts[name]
	if !ok {
		panic(fmt.Sprintf("Font %s not found", name))
	}
	return f
}
