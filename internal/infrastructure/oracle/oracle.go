// Package oracle holds the placeholder divination generator. It is not a real
// Plum Blossom numerology implementation: the hexagram is picked by question
// length plus timestamp and the reading is a keyword-matched template. The
// pipeline only depends on its call contract.
package oracle

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/yingxuHou/MeiHuaXinYi/domain"
)

// hexagrams is a subset of the 64 hexagrams, enough for the placeholder
// selection to cycle through.
var hexagrams = []domain.Figure{
	{Name: "Qian", Symbol: "䷀", Number: 1, Lines: []string{domain.LineYang, domain.LineYang, domain.LineYang, domain.LineYang, domain.LineYang, domain.LineYang}},
	{Name: "Kun", Symbol: "䷁", Number: 2, Lines: []string{domain.LineYin, domain.LineYin, domain.LineYin, domain.LineYin, domain.LineYin, domain.LineYin}},
	{Name: "Zhun", Symbol: "䷂", Number: 3, Lines: []string{domain.LineYang, domain.LineYin, domain.LineYin, domain.LineYin, domain.LineYang, domain.LineYin}},
	{Name: "Meng", Symbol: "䷃", Number: 4, Lines: []string{domain.LineYin, domain.LineYang, domain.LineYin, domain.LineYin, domain.LineYin, domain.LineYang}},
	{Name: "Xu", Symbol: "䷄", Number: 5, Lines: []string{domain.LineYang, domain.LineYang, domain.LineYang, domain.LineYin, domain.LineYang, domain.LineYin}},
	{Name: "Song", Symbol: "䷅", Number: 6, Lines: []string{domain.LineYin, domain.LineYang, domain.LineYin, domain.LineYang, domain.LineYang, domain.LineYang}},
	{Name: "Shi", Symbol: "䷆", Number: 7, Lines: []string{domain.LineYin, domain.LineYang, domain.LineYin, domain.LineYin, domain.LineYin, domain.LineYin}},
	{Name: "Bi", Symbol: "䷇", Number: 8, Lines: []string{domain.LineYin, domain.LineYin, domain.LineYin, domain.LineYin, domain.LineYang, domain.LineYin}},
}

type template struct {
	overall string
	advice  []string
	timing  string
}

var templates = map[string]template{
	domain.CategoryCareer: {
		overall: "career prospects are trending upward; the moment favors initiative",
		advice:  []string{"keep a constructive attitude", "lean on your team", "decide deliberately"},
		timing:  "the near term is a good window for progress",
	},
	domain.CategoryLove: {
		overall: "matters of the heart call for more honest communication",
		advice:  []string{"show more care", "speak openly", "avoid needless quarrels"},
		timing:  "be patient; the moment has not yet arrived",
	},
	domain.CategoryHealth: {
		overall: "your condition is stable; prevention beats cure",
		advice:  []string{"keep a regular schedule", "exercise in moderation", "eat a balanced diet"},
		timing:  "now is a good time to build up your strength",
	},
	domain.CategoryWealth: {
		overall: "finances hold steady with modest gains ahead",
		advice:  []string{"invest rationally", "grow income and trim spending", "avoid gambles"},
		timing:  "steady steps; this is no time to rush",
	},
}

var keywords = map[string]string{
	"career": domain.CategoryCareer, "job": domain.CategoryCareer, "work": domain.CategoryCareer, "promotion": domain.CategoryCareer,
	"love": domain.CategoryLove, "relationship": domain.CategoryLove, "marriage": domain.CategoryLove, "partner": domain.CategoryLove,
	"health": domain.CategoryHealth, "illness": domain.CategoryHealth, "recovery": domain.CategoryHealth,
	"money": domain.CategoryWealth, "wealth": domain.CategoryWealth, "invest": domain.CategoryWealth, "fortune": domain.CategoryWealth,
}

var fallback = template{
	overall: "the situation is in flux; proceed with caution",
	advice:  []string{"stay calm", "observe closely", "move when the moment is right"},
	timing:  "the time is not ripe; wait",
}

// MockOracle implements domain.Oracle with canned data.
type MockOracle struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// New creates a mock oracle with a time-derived random source.
func New() *MockOracle {
	return NewWithSeed(time.Now().UnixNano())
}

// NewWithSeed creates a mock oracle with a fixed random source, for tests.
func NewWithSeed(seed int64) *MockOracle {
	return &MockOracle{rng: rand.New(rand.NewSource(seed))}
}

func (o *MockOracle) intn(n int) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.rng.Intn(n)
}

func (o *MockOracle) float64() float64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.rng.Float64()
}

// CastHexagram implements domain.Oracle. The original figure is selected by
// (question length + timestamp) mod N, then one or two changing lines flip
// into the changed figure.
func (o *MockOracle) CastHexagram(ctx context.Context, question string, at time.Time) (*domain.Hexagram, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	questionLength := utf8.RuneCountInString(question)
	index := (questionLength + int(at.UnixMilli()%int64(len(hexagrams)*1000))) % len(hexagrams)
	if index < 0 {
		index += len(hexagrams)
	}
	original := hexagrams[index]

	changing := make([]int, 0, 2)
	changeCount := o.intn(2) + 1
	for i := 0; i < changeCount; i++ {
		line := o.intn(6) + 1
		if !containsInt(changing, line) {
			changing = append(changing, line)
		}
	}

	changedLines := make([]string, len(original.Lines))
	copy(changedLines, original.Lines)
	for _, pos := range changing {
		i := pos - 1
		if changedLines[i] == domain.LineYang {
			changedLines[i] = domain.LineYin
		} else {
			changedLines[i] = domain.LineYang
		}
	}

	changedBase := hexagrams[(index+len(changing))%len(hexagrams)]
	changed := &domain.Figure{
		Name:   changedBase.Name,
		Symbol: changedBase.Symbol,
		Number: changedBase.Number,
		Lines:  changedLines,
	}

	return &domain.Hexagram{
		Original:      original,
		Changed:       changed,
		ChangingLines: changing,
	}, nil
}

// Interpret implements domain.Oracle. The template is picked by keyword match
// against the question; confidence lands in [0.75, 0.95).
func (o *MockOracle) Interpret(ctx context.Context, question string, hex *domain.Hexagram) (*domain.Interpretation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tpl := fallback
	lower := strings.ToLower(question)
	for word, category := range keywords {
		if strings.Contains(lower, word) {
			tpl = templates[category]
			break
		}
	}

	out := &domain.Interpretation{
		Overall:    tpl.overall,
		Advice:     append([]string(nil), tpl.advice...),
		Timing:     tpl.timing,
		Confidence: 0.75 + o.float64()*0.2,
	}
	if len(hex.ChangingLines) > 1 {
		out.Warning = "many lines are changing; pay close attention"
	}

	return out, nil
}

func containsInt(s []int, v int) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}
