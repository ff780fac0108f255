package caption

import (
	"context"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/k1LoW/memegen/config"
)

type entry struct {
	topic    string
	captions []Caption
}

// demoTable holds the pre-registered captions, in lookup order.
var demoTable = []entry{
	{"working from home", []Caption{
		{"GOING TO THE OFFICE", "WORKING IN PAJAMAS"},
		{"PROFESSIONAL ON TOP", "PAJAMAS ON BOTTOM"},
		{"COMMUTE: 10 SECONDS", "FROM BED TO DESK"},
	}},
	{"debugging", []Caption{
		{"FINDING THE BUG", "IT WAS A MISSING SEMICOLON"},
		{"CODE WORKS", "DON'T KNOW WHY"},
		{"DEBUGGING AT 3AM", "STILL CAN'T FIND THE BUG"},
	}},
	{"programming", []Caption{
		{"COPYING CODE FROM STACKOVERFLOW", "IT WORKS FIRST TRY"},
		{"MY CODE", "PRODUCTION CODE"},
		{"WRITING CODE", "DEBUGGING CODE"},
	}},
	{"monday", []Caption{
		{"MONDAY MORNING", "NEED MORE COFFEE"},
		{"WEEKEND", "MONDAY"},
		{"IT'S MONDAY", "EVERYTHING IS FINE"},
	}},
	{"coffee", []Caption{
		{"BEFORE COFFEE", "AFTER COFFEE"},
		{"COFFEE IS LIFE", "LIFE IS COFFEE"},
		{"ONE MORE CUP", "SAID 5 CUPS AGO"},
	}},
	{"online meetings", []Caption{
		{"YOU'RE ON MUTE", "STILL ON MUTE"},
		{"CAMERA OFF", "STILL IN BED"},
		{"IMPORTANT MEETING", "COULD HAVE BEEN AN EMAIL"},
	}},
	{"exams", []Caption{
		{"STUDIED ALL SEMESTER", "FORGOT EVERYTHING"},
		{"EXAM IN 5 MINUTES", "STARTS STUDYING NOW"},
		{"EASY EXAM", "FIRST QUESTION IS IMPOSSIBLE"},
	}},
	{"ai", []Caption{
		{"DOING IT MANUALLY", "USING AI"},
		{"BEFORE AI", "AFTER AI"},
		{"AI WILL HELP", "AI DID EVERYTHING"},
	}},
	{"school", []Caption{
		{"HOMEWORK DUE TOMORROW", "STARTS AT 11PM"},
		{"TEACHER: ANY QUESTIONS?", "ME: CONFUSED SILENCE"},
		{"WEEKEND PLANS", "HOMEWORK"},
	}},
	{"projects", []Caption{
		{"PROJECT DEADLINE", "STARTS PROJECT"},
		{"IT WORKS ON MY MACHINE", "PRODUCTION: ERROR"},
		{"ESTIMATED: 2 HOURS", "ACTUAL: 2 DAYS"},
	}},
}

// keywordTopics maps loose keywords to a demo table topic, in lookup order.
var keywordTopics = []struct {
	words []string
	topic string
}{
	{[]string{"work", "office", "home"}, "working from home"},
	{[]string{"bug", "debug", "error"}, "debugging"},
	{[]string{"code", "program", "developer"}, "programming"},
	{[]string{"meet", "zoom", "call"}, "online meetings"},
	{[]string{"exam", "test", "study"}, "exams"},
	{[]string{"homework", "school", "class"}, "school"},
	{[]string{"project", "deadline"}, "projects"},
}

type rule struct {
	match    func(topic string) bool
	captions []Caption
}

var _ Captioner = (*Static)(nil)

// Static picks captions from a fixed table without network access.
// Rules are evaluated in order and the first match wins.
type Static struct {
	rules []rule

	mu  sync.Mutex
	rnd *rand.Rand
}

type StaticOption func(*Static) error

// WithSeed makes the choice among matching captions reproducible.
func WithSeed(seed uint64) StaticOption {
	return func(s *Static) error {
		s.rnd = rand.New(rand.NewPCG(seed, seed))
		return nil
	}
}

// WithRules prepends configured rules to the demo table.
func WithRules(rules []config.CaptionRule) StaticOption {
	return func(s *Static) error {
		compiled, err := compileRules(rules)
		if err != nil {
			return err
		}
		s.rules = append(compiled, s.rules...)
		return nil
	}
}

func NewStatic(opts ...StaticOption) (*Static, error) {
	s := &Static{
		rules: demoRules(),
		rnd:   rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0)),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// demoRules builds the table rules. A topic matches a table entry when either
// contains the other, so short keys such as "ai" match many topics.
func demoRules() []rule {
	var rules []rule
	byTopic := map[string][]Caption{}
	for _, e := range demoTable {
		key := e.topic
		byTopic[key] = e.captions
		rules = append(rules, rule{
			match: func(topic string) bool {
				return strings.Contains(topic, key) || strings.Contains(key, topic)
			},
			captions: e.captions,
		})
	}
	for _, k := range keywordTopics {
		words := k.words
		rules = append(rules, rule{
			match: func(topic string) bool {
				for _, w := range words {
					if strings.Contains(topic, w) {
						return true
					}
				}
				return false
			},
			captions: byTopic[k.topic],
		})
	}
	return rules
}

// Generate returns a caption for the topic. Style, template and line count are ignored.
func (s *Static) Generate(_ context.Context, req Request) Caption {
	topic := strings.ToLower(req.Topic)
	for _, r := range s.rules {
		if r.match(topic) && len(r.captions) > 0 {
			return s.choose(r.captions)
		}
	}
	return Caption{
		TopText:    truncate(strings.ToUpper(req.Topic), 50),
		BottomText: "DEMO MODE - ADD API KEY FOR AI CAPTIONS",
	}
}

func (s *Static) choose(captions []Caption) Caption {
	s.mu.Lock()
	defer s.mu.Unlock()
	return captions[s.rnd.IntN(len(captions))]
}

// Topics returns the pre-registered demo topics.
func Topics() []string {
	topics := make([]string, 0, len(demoTable))
	for _, e := range demoTable {
		topics = append(topics, e.topic)
	}
	return topics
}

// Captions returns the pre-registered captions for a demo topic.
func Captions(topic string) []Caption {
	for _, e := range demoTable {
		if e.topic == topic {
			return append([]Caption(nil), e.captions...)
		}
	}
	return nil
}
