package outfit

import "strings"

type TemperatureBucket string

const (
	Cold TemperatureBucket = "cold"
	Mild TemperatureBucket = "mild"
	Warm TemperatureBucket = "warm"
	Hot  TemperatureBucket = "hot"
)

type ConditionBucket string

const (
	Rainy    ConditionBucket = "rainy"
	Snowy    ConditionBucket = "snowy"
	Overcast ConditionBucket = "overcast"
	Clear    ConditionBucket = "clear"
	Hazy     ConditionBucket = "hazy"
	Default  ConditionBucket = "default"
)

// TemperatureBucketFor always works in Celsius. Upper bounds are inclusive.
func TemperatureBucketFor(celsius float64) TemperatureBucket {
	switch {
	case celsius <= 10:
		return Cold
	case celsius <= 20:
		return Mild
	case celsius <= 30:
		return Warm
	}
	return Hot
}

// conditionRules are checked in order; the first match wins.
var conditionRules = []struct {
	bucket   ConditionBucket
	keywords []string
}{
	{Rainy, []string{"rain", "drizzle"}},
	{Snowy, []string{"snow"}},
	{Overcast, []string{"cloud"}},
	{Clear, []string{"clear", "sun"}},
	{Hazy, []string{"haze", "mist", "fog"}},
}

func ConditionBucketFor(description string) ConditionBucket {
	d := strings.ToLower(description)
	for _, rule := range conditionRules {
		for _, kw := range rule.keywords {
			if strings.Contains(d, kw) {
				return rule.bucket
			}
		}
	}
	return Default
}
