package outfit

import (
	"errors"
	"fmt"
	"io/fs"
	"math/rand/v2"
	"path"
	"strings"
	"unicode"

	"weather-outfit/internal/models"
	"weather-outfit/internal/units"
)

const (
	DefaultAssetsBase = "assets/outfits"
	DefaultExtension  = "png"
	DefaultVariants   = 5
)

var DefaultModesty = map[models.Style]string{
	models.StyleStylish: "trendy",
	models.StyleCasual:  "relaxed",
	models.StyleSporty:  "active",
	models.StyleFormal:  "modest",
}

// StaticOutfit points at a pre-rendered outfit image. PrimaryPath follows the
// per-folder layout, FallbackPath the flat one.
type StaticOutfit struct {
	Temperature  TemperatureBucket
	Condition    ConditionBucket
	Modesty      string
	Variant      int
	PrimaryPath  string
	FallbackPath string
}

type CatalogOptions struct {
	Base      string
	Extension string
	Variants  int
	// Modesty maps style names to folder modesty tokens; missing styles use DefaultModesty.
	Modesty map[string]string
	// Assets, when set, is checked so only existing images are returned.
	Assets fs.FS
}

// StaticCatalog resolves suggestions locally when no generative backend is reachable.
type StaticCatalog struct {
	base      string
	extension string
	variants  int
	modesty   map[models.Style]string
	assets    fs.FS
	intn      func(n int) int
}

func NewStaticCatalog(opts CatalogOptions) *StaticCatalog {
	if opts.Base == "" {
		opts.Base = DefaultAssetsBase
	}
	if opts.Extension == "" {
		opts.Extension = DefaultExtension
	}
	if opts.Variants <= 0 {
		opts.Variants = DefaultVariants
	}

	modesty := make(map[models.Style]string, len(DefaultModesty))
	for style, m := range DefaultModesty {
		modesty[style] = m
	}
	for name, m := range opts.Modesty {
		if style, err := models.ParseStyle(name); err == nil && m != "" {
			modesty[style] = m
		}
	}

	return &StaticCatalog{
		base:      strings.Trim(opts.Base, "/"),
		extension: strings.TrimPrefix(opts.Extension, "."),
		variants:  opts.Variants,
		modesty:   modesty,
		assets:    opts.Assets,
		intn:      rand.IntN,
	}
}

func (c *StaticCatalog) Modesty(style models.Style) string {
	if m, ok := c.modesty[style]; ok {
		return m
	}
	return "relaxed"
}

// Outfit picks a random variant on every call.
func (c *StaticCatalog) Outfit(w models.WeatherSnapshot, prefs models.OutfitPreferences) StaticOutfit {
	temp := TemperatureBucketFor(w.TemperatureCelsius)
	cond := ConditionBucketFor(w.Description)
	modesty := c.Modesty(prefs.Style)
	variant := c.intn(c.variants) + 1
	gender := string(prefs.Gender)

	folder := gender + "_" + modesty
	primary := fmt.Sprintf("%s_%s_%s_variant%d.%s", folder, temp, cond, variant, c.extension)

	suffix := ""
	if prefs.Gender == models.GenderMale {
		suffix = "_m"
	}
	fallback := fmt.Sprintf("%s_%s%s_%d.%s", temp, modesty, suffix, variant, c.extension)

	return StaticOutfit{
		Temperature:  temp,
		Condition:    cond,
		Modesty:      modesty,
		Variant:      variant,
		PrimaryPath:  path.Join(c.base, folder, primary),
		FallbackPath: path.Join(c.base, fallback),
	}
}

// Suggest builds a local suggestion. The image is the first existing asset
// when an asset tree is configured, otherwise the primary path.
func (c *StaticCatalog) Suggest(w models.WeatherSnapshot, prefs models.OutfitPreferences, unit models.Unit) (models.Suggestion, StaticOutfit, error) {
	outfit := c.Outfit(w, prefs)
	suggestion := models.Suggestion{Text: c.Text(w, unit)}

	if c.assets == nil {
		suggestion.ImageURL = models.StringPtr(outfit.PrimaryPath)
		return suggestion, outfit, nil
	}

	image, err := PickAsset(c.assets, outfit)
	if image != "" {
		suggestion.ImageURL = models.StringPtr(image)
	}
	return suggestion, outfit, err
}

// Text returns one of the canned lines for the weather.
func (c *StaticCatalog) Text(w models.WeatherSnapshot, unit models.Unit) string {
	temp := fmt.Sprintf("%d°%s", units.Display(w.TemperatureCelsius, unit), units.Symbol(unit))
	desc := describe(w)

	var options []string
	switch ConditionBucketFor(w.Description) {
	case Rainy:
		options = []string{
			"Light rain expected with %[1]s. Bring an umbrella and a waterproof jacket.",
			"Rainy conditions at %[1]s. Waterproof boots and a raincoat are your friends.",
			"Expect showers and %[1]s. Layer up and grab a hooded jacket.",
			"Drizzly weather, %[1]s. Consider a rain hat and water-resistant shoes.",
			"Don't forget your raincoat, %[1]s and rain are on the way.",
		}
	case Snowy:
		options = []string{
			"Snowy skies at %[1]s. Bundle up in a warm coat and boots.",
			"It's snowing and %[1]s. Wear insulated gloves and a scarf.",
			"Expect snow and temperatures around %[1]s. Thermal socks recommended!",
			"Chilly and snowy at %[1]s. Time for a puffer jacket and hat.",
			"Snowfall with %[1]s. Waterproof footwear and thick layers will keep you cozy.",
		}
	case Overcast:
		options = []string{
			"Overcast skies at %[1]s. Try a cozy hoodie and jeans.",
			"Cloudy and %[1]s. A light jacket should do the trick.",
			"It's cloudy with temps around %[1]s. Layer up and stay comfy.",
			"A bit grey outside at %[1]s. Go for a casual sweater and pants.",
			"Clouds ahead with %[1]s. Keep a windbreaker handy just in case.",
		}
	case Clear:
		options = []string{
			"Clear skies and %[1]s. Sunglasses and a tee are perfect.",
			"Sunny with %[1]s. Dress light and bring a hat for sun protection.",
			"It's bright and %[1]s. Shorts and a tank top will keep you cool.",
			"Sunny day at %[1]s. Don't forget sunscreen and comfy sneakers.",
			"Clear and %[1]s. Go for breathable fabrics and light colors.",
		}
	default:
		options = []string{
			"Currently %[1]s with %[2]s. Dress comfortably for the conditions.",
			"Weather is %[2]s, about %[1]s. Adjust your outfit as needed.",
			"Expect %[2]s and %[1]s. Comfort is key today.",
			"Conditions: %[2]s, %[1]s. Pick your favorite go-to pieces.",
			"%[2]s at %[1]s. Choose layers for flexibility.",
		}
	}

	text := []rune(fmt.Sprintf(options[c.intn(len(options))], temp, desc))
	text[0] = unicode.ToUpper(text[0])
	return string(text)
}

// ImageLoadError lists the asset paths that could not be opened.
type ImageLoadError struct {
	Paths []string
	Err   error
}

func (e *ImageLoadError) Error() string {
	return fmt.Sprintf("outfit image unavailable at %s: %v", strings.Join(e.Paths, ", "), e.Err)
}

func (e *ImageLoadError) Unwrap() error { return e.Err }

// PickAsset tries the primary path, then the fallback. An empty path means no
// image is available, which is a displayable state. The error, if any, reports
// each failed attempt and is meant for logging.
func PickAsset(fsys fs.FS, outfit StaticOutfit) (string, error) {
	var (
		failed []string
		errs   []error
	)
	for _, p := range []string{outfit.PrimaryPath, outfit.FallbackPath} {
		if p == "" {
			continue
		}
		info, err := fs.Stat(fsys, p)
		if err == nil && !info.IsDir() {
			if len(failed) > 0 {
				return p, &ImageLoadError{Paths: failed, Err: errors.Join(errs...)}
			}
			return p, nil
		}
		if err == nil {
			err = fmt.Errorf("%s is a directory", p)
		}
		failed = append(failed, p)
		errs = append(errs, err)
	}
	return "", &ImageLoadError{Paths: failed, Err: errors.Join(errs...)}
}
