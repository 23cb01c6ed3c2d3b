package explorer

import (
	"fmt"
	"hash/fnv"
	"math"
)

// worldMinutesPerSecond maps elapsed seconds onto the in-world clock.
const worldMinutesPerSecond = 2

// Telemetry is decorative field readout derived from position, zone and time.
type Telemetry struct {
	Locale      string  `json:"locale"`
	Note        string  `json:"note,omitempty"`
	Clock       string  `json:"clock"`
	Wind        float64 `json:"wind_knots"`
	Humidity    float64 `json:"humidity_pct"`
	Temperature float64 `json:"temperature_c"`
	Aurora      float64 `json:"aurora_pct"`
}

// Telemetry computes the current readout. It has no effect on the simulation.
func (e *Engine) Telemetry(st *State) Telemetry {
	z := e.catalog.ZoneAt(st.X, st.Y)
	t := Telemetry{Locale: "Uncharted stretch"}
	seedName := "kingdom"
	if z != nil {
		t.Locale = z.Name
		t.Note = z.Subtitle
		seedName = z.Name
	}
	seed := float64(hashName(seedName))
	elapsed := st.Elapsed

	minutes := math.Mod(elapsed*worldMinutesPerSecond, 24*60)
	t.Clock = fmt.Sprintf("%02d:%02d", int(minutes/60), int(math.Mod(minutes, 60)))

	loc := clamp((st.X+st.Y)/200, 0, 1)
	drift := (math.Sin(elapsed/12+seed*0.12) + 1) / 2
	windBase := 6 + math.Mod(seed, 7)
	t.Wind = clamp(windBase+math.Sin(elapsed/7+loc*3)*3+drift*4, 2, 26)
	t.Humidity = clamp(55+(1-loc)*28+math.Cos(elapsed/9+seed*0.3)*14, 24, 97)
	t.Temperature = clamp(18+math.Sin(elapsed/11+seed*0.2)*6-loc*4, 6, 32)
	aurora := 38 + drift*48
	if st.Scene != nil {
		aurora += 12
	}
	t.Aurora = clamp(aurora, 20, 98)
	return t
}

func hashName(s string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(s))
	return h.Sum32()
}
