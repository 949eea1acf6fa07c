// Command sceneprobe prints a day's scene timeline for a location: phase
// boundaries, glow position, star opacity, and the resolved scene at each
// step. Useful for eyeballing the celestial math without running the service.
//
// Usage:
//
//	go run ./cmd/sceneprobe -lat 19.0760 -lon 72.8777 -date 2024-10-15 \
//	  -step 30m -seed 0.3 -condition Clouds
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/skyfolio/ambience/internal/adapter/suncalc"
	"github.com/skyfolio/ambience/internal/domain"
)

func main() {
	lat := flag.Float64("lat", 19.0760, "latitude")
	lon := flag.Float64("lon", 72.8777, "longitude")
	date := flag.String("date", "", "date to probe, YYYY-MM-DD (default today)")
	step := flag.Duration("step", 30*time.Minute, "sampling step")
	seed := flag.Float64("seed", 0.5, "session seed in [0,1)")
	condition := flag.String("condition", "", "weather condition to classify (e.g. Clouds, Rain); empty means no weather")
	flag.Parse()

	day := time.Now().UTC()
	if *date != "" {
		parsed, err := time.Parse("2006-01-02", *date)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid -date %q: %v\n", *date, err)
			os.Exit(1)
		}
		day = parsed
	}
	if *step <= 0 {
		fmt.Fprintln(os.Stderr, "-step must be positive")
		os.Exit(1)
	}

	loc := domain.Location{Lat: *lat, Lon: *lon}
	cal := suncalc.New()

	var weather *domain.WeatherSnapshot
	if *condition != "" {
		weather = &domain.WeatherSnapshot{
			Kind:   domain.ClassifyCondition(*condition),
			Season: domain.SeasonOf(day.Month()),
		}
	}

	sunrise, sunset := cal.SunTimes(day, loc)
	fmt.Printf("location  %.4f, %.4f\n", loc.Lat, loc.Lon)
	fmt.Printf("date      %s\n", day.Format("2006-01-02"))
	fmt.Printf("sunrise   %s UTC\n", sunrise.Format("15:04"))
	fmt.Printf("sunset    %s UTC\n", sunset.Format("15:04"))
	fmt.Printf("season    %s\n", domain.SeasonOf(day.Month()))
	if weather != nil {
		fmt.Printf("weather   %s\n", weather.Kind)
	}
	fmt.Println()
	fmt.Println("time   phase      stars  glow(x,y)    pick    layers")

	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)
	season := domain.SeasonOf(day.Month())

	var lastPhase domain.TimePhase
	for t := start; t.Before(end); t = t.Add(*step) {
		cs := domain.ComputeCelestial(t, loc, cal)
		scene := domain.ResolveScene(cs, weather, season, domain.Overrides{}, *seed)

		marker := " "
		if cs.Phase != lastPhase {
			marker = "*"
			lastPhase = cs.Phase
		}

		fmt.Printf("%s%s %-10s %.2f   (%5.1f,%5.1f) %-7s %s\n",
			marker, t.Format("15:04"), cs.Phase, cs.StarOpacity,
			cs.SkyX, cs.SkyY, scene.WeatherPick, layers(scene))
	}
}

func layers(scene domain.EffectiveScene) string {
	out := ""
	if scene.ShowClouds {
		out += "clouds "
	}
	if scene.ShowRain {
		out += "rain "
	}
	if scene.ShowSnow {
		out += "snow "
	}
	if scene.ShowLeaves {
		out += "leaves "
	}
	if out == "" {
		return "-"
	}
	return out
}
