package catalog

import "strings"

// topicRules map a keyword found in a topic to template names, in priority order.
var topicRules = []struct {
	keyword   string
	templates []string
}{
	{"success", []string{"Success Kid", "First World Problems"}},
	{"fail", []string{"Bad Luck Brian", "Disaster Girl"}},
	{"comparison", []string{"Drake Hotline Bling", "Distracted Boyfriend", "Two Buttons"}},
	{"decision", []string{"Two Buttons", "Drake Hotline Bling", "Daily Struggle"}},
	{"confusion", []string{"Confused Nick Young", "Jackie Chan WTF"}},
	{"wisdom", []string{"Ancient Aliens", "Roll Safe Think About It"}},
	{"debate", []string{"Change My Mind", "They're The Same Picture"}},
	{"panic", []string{"Bike Fall", "This Is Fine"}},
	{"work", []string{"This Is Fine", "Waiting Skeleton"}},
	{"programming", []string{"Two Buttons", "Drake Hotline Bling"}},
	{"relationship", []string{"Distracted Boyfriend", "Drake Hotline Bling"}},
}

// SuggestNames returns the template names suggested for topic by every
// matching keyword rule, in rule order.
func SuggestNames(topic string) []string {
	topic = strings.ToLower(topic)
	var names []string
	for _, r := range topicRules {
		if strings.Contains(topic, r.keyword) {
			names = append(names, r.templates...)
		}
	}
	return names
}

// ForTopic selects a template for topic. Keyword rules are tried in order and
// the first suggested template present in the catalog wins; otherwise a
// random template among the most popular is returned.
func (c *Catalog) ForTopic(topic string) *Template {
	for _, name := range SuggestNames(topic) {
		if t := c.ByName(name); t != nil {
			return t
		}
	}
	popular := c.Popular(popularPoolSize)
	if len(popular) == 0 {
		return c.Random()
	}
	return popular[c.intN(len(popular))]
}
