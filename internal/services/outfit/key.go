package outfit

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"

	"weather-outfit/internal/models"
)

// Input is everything a resolution depends on. Unit only affects prompt
// wording, never the key.
type Input struct {
	Weather     models.WeatherSnapshot
	Preferences models.OutfitPreferences
	Unit        models.Unit
	Location    models.LocationSelection
}

// RequestKey identifies a suggestion. Buckets are used instead of raw
// temperatures so small forecast changes keep hitting the same entry.
type RequestKey struct {
	Location    string
	Style       models.Style
	Gender      models.Gender
	Temperature TemperatureBucket
	Condition   ConditionBucket
}

func NewRequestKey(in Input) RequestKey {
	return RequestKey{
		Location:    locationIdentity(in),
		Style:       in.Preferences.Style,
		Gender:      in.Preferences.Gender,
		Temperature: TemperatureBucketFor(in.Weather.TemperatureCelsius),
		Condition:   ConditionBucketFor(in.Weather.Description),
	}
}

// locationIdentity falls back to the observation time when no place is selected.
func locationIdentity(in Input) string {
	if id := in.Location.Identity(); id != "" {
		return id
	}
	return "ts:" + strconv.FormatInt(in.Weather.TimestampUTCSeconds, 10)
}

func (k RequestKey) String() string {
	return strings.Join([]string{
		k.Location,
		string(k.Style),
		string(k.Gender),
		string(k.Temperature),
		string(k.Condition),
	}, "|")
}

// Hash is the cache key.
func (k RequestKey) Hash() string {
	sum := sha256.Sum256([]byte(k.String()))
	return hex.EncodeToString(sum[:])
}
