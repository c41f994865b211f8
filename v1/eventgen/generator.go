package eventgen

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	epochStart = time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)
	epochSpan  = int64(5 * 365 * 24 * time.Hour / time.Millisecond)
)

// Generator produces synthetic customer events. Generators built with the
// same seed produce the same sequence. It is safe for concurrent use.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// Option configures a Generator.
type Option func(*options)

type options struct {
	seed    int64
	seeded  bool
}

// WithSeed makes the generator deterministic.
func WithSeed(seed int64) Option {
	return func(o *options) {
		o.seed = seed
		o.seeded = true
	}
}

// New returns a Generator. Without WithSeed it is seeded from the clock.
func New(opts ...Option) *Generator {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	seed := o.seed
	if !o.seeded {
		seed = time.Now().UnixNano()
	}
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// Next returns one event.
func (g *Generator) Next() Event {
	g.mu.Lock()
	defer g.mu.Unlock()

	id, err := uuid.NewRandomFromReader(g.rng)
	if err != nil {
		// rand.Rand never fails to read.
		panic(fmt.Sprintf("eventgen: event id: %v", err))
	}

	return Event{
		EventID:          id.String(),
		EventType:        g.pick(eventTypes),
		Timestamp:        epochStart.Add(time.Duration(g.rng.Int63n(epochSpan)) * time.Millisecond),
		Device:           g.device(),
		Location:         g.location(),
		Content:          g.content(),
		EventDetails:     g.details(),
		UserSubscription: g.subscription(),
		Recommendations:  g.recommendations(),
		SearchHistory:    g.searches(),
		UserActions:      g.actions(),
	}
}

// Batch returns n events.
func (g *Generator) Batch(n int) []Event {
	out := make([]Event, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, g.Next())
	}
	return out
}

func (g *Generator) device() Device {
	deviceType := g.pick(deviceTypes)
	os := g.pick(osByDevice[deviceType])
	model := g.pick(modelsByOS[os])
	return Device{
		Type:       deviceType,
		OS:         os,
		OSVersion:  fmt.Sprintf("%.1f", 10+g.rng.Float64()*10),
		AppVersion: fmt.Sprintf("%d.%d.%d", g.between(1, 9), g.between(0, 5), g.between(0, 3)),
		Model:      &model,
	}
}

func (g *Generator) location() Location {
	p := places[g.rng.Intn(len(places))]
	loc := Location{Country: p.country}
	// Some clients do not report a region.
	if g.rng.Intn(5) > 0 {
		loc.City, loc.Region, loc.Timezone = ptr(p.city), ptr(p.region), ptr(p.timezone)
	} else {
		loc.Timezone = ptr(p.timezone)
	}
	return loc
}

func (g *Generator) content() Content {
	kind := g.pick(contentTypes)
	season, episode := -1, -1
	if r, ok := seasonsByType[kind]; ok {
		season, episode = g.between(r[0], r[1]), g.between(r[0], r[1])
	}
	d := durationByType[kind]

	id, _ := uuid.NewRandomFromReader(g.rng)
	return Content{
		ID:          id.String(),
		Title:       g.title(),
		Type:        kind,
		Season:      season,
		Episode:     episode,
		Duration:    g.between(d[0], d[1]),
		Language:    g.pick(languages),
		Provider:    g.pick(providers),
		Genre:       g.pick(genres),
		ReleaseYear: g.between(2000, 2024),
	}
}

func (g *Generator) title() string {
	title := g.pick(titleFormats)
	for _, slot := range []struct {
		placeholder string
		words       []string
	}{
		{"{noun}", nouns},
		{"{noun}", nouns},
		{"{adjective}", adjectives},
		{"{verb}", verbs},
		{"{proper_noun}", properNouns},
		{"{preposition}", prepositions},
	} {
		if strings.Contains(title, slot.placeholder) {
			title = strings.Replace(title, slot.placeholder, g.pick(slot.words), 1)
		}
	}
	return title
}

func (g *Generator) details() EventDetails {
	return EventDetails{
		PlayDuration:       g.between(1, 1000),
		PlayPercentage:     g.rng.Float64() * 100,
		PlaybackQuality:    g.pick(qualities),
		BufferingIncidents: g.between(0, 5),
		PlaybackSpeed:      0.5 + g.rng.Float64()*1.5,
		Paused:             g.rng.Intn(2) == 1,
		Completed:          g.rng.Intn(2) == 1,
		NetworkType:        g.pick(networkTypes),
		Bandwidth:          fmt.Sprintf("%d%s", g.between(10, 100), g.pick(speedUnits)),
	}
}

func (g *Generator) subscription() UserSubscription {
	n := g.between(1, len(services))
	connected := make([]string, 0, n)
	for _, i := range g.rng.Perm(len(services))[:n] {
		connected = append(connected, services[i])
	}
	return UserSubscription{
		Plan:              g.pick(plans),
		StartDate:         g.date(2000, 2023),
		BillingCycle:      g.pick(billingCycles),
		ConnectedServices: connected,
	}
}

func (g *Generator) recommendations() []Recommendation {
	n := g.between(1, 3)
	out := make([]Recommendation, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, Recommendation{
			ContentID: fmt.Sprintf("m%d", g.between(100000, 999999)),
			Position:  i + 1,
			Algorithm: g.pick(algorithms),
			Clicked:   g.rng.Intn(2) == 1,
		})
	}
	return out
}

func (g *Generator) searches() []Search {
	n := g.between(1, 5)
	out := make([]Search, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, Search{
			SearchID:     fmt.Sprintf("s%d", g.between(100000, 999999)),
			Timestamp:    g.dateTime(2000, 2025),
			Query:        g.pick(queries),
			ResultsCount: g.between(10, 100),
		})
	}
	return out
}

func (g *Generator) actions() []UserAction {
	n := g.between(1, 5)
	out := make([]UserAction, 0, n)
	for i := 0; i < n; i++ {
		a := UserAction{ActionType: g.pick(actionTypes), Timestamp: g.dateTime(2000, 2024)}
		switch a.ActionType {
		case "pause", "completed":
			d := g.between(100, 1000)
			a.Duration = &d
		case "change quality":
			old := g.rng.Intn(len(qualities))
			next := (old + 1 + g.rng.Intn(len(qualities)-1)) % len(qualities)
			a.OldQuality, a.NewQuality = ptr(qualities[old]), ptr(qualities[next])
		case "playback_speed":
			oldSpeed, newSpeed := 0.5+g.rng.Float64()*1.5, 0.5+g.rng.Float64()*1.5
			a.OldSpeed, a.NewSpeed = &oldSpeed, &newSpeed
		}
		out = append(out, a)
	}
	return out
}

func (g *Generator) date(fromYear, toYear int) string {
	return fmt.Sprintf("%04d-%02d-%02d", g.between(fromYear, toYear), g.between(1, 12), g.between(1, 28))
}

func (g *Generator) dateTime(fromYear, toYear int) string {
	return fmt.Sprintf("%sT%02d:%02d:%02d", g.date(fromYear, toYear), g.between(0, 23), g.between(0, 59), g.between(0, 59))
}

func (g *Generator) pick(values []string) string {
	return values[g.rng.Intn(len(values))]
}

// between returns an int in [lo, hi].
func (g *Generator) between(lo, hi int) int {
	return lo + g.rng.Intn(hi-lo+1)
}

func ptr[T any](v T) *T {
	return &v
}
