package planner

import "fmt"

// Skill is the practiced language skill for a session.
type Skill string

const (
	SkillListening Skill = "Listening"
	SkillSpeaking  Skill = "Speaking"
	SkillReading   Skill = "Reading"
	SkillWriting   Skill = "Writing"
)

// skillRotation fixes the listening/speaking/reading/writing cycle across
// the week.
var skillRotation = [4]Skill{SkillListening, SkillSpeaking, SkillReading, SkillWriting}

// weekdays maps day index 1..7 to its label, Monday first.
var weekdays = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// focusBank holds level-appropriate phrases to practice during the week.
var focusBank = map[Level][]string{
	LevelA0: {"Hello!", "My name is ...", "I like ..."},
	LevelA1: {"Can I ...?", "I want ...", "It's my turn."},
	LevelA2: {"Yesterday I ...", "Because ...", "Let's try ..."},
	LevelB1: {"In my opinion ...", "I prefer ...", "Be careful!"},
}

// defaultTopics is used when the profile has no topic preferences.
var defaultTopics = []string{"animals", "colors", "numbers", "family", "food"}

// activityTemplates phrases the daily activity per skill; %s is the topic.
var activityTemplates = map[Skill]string{
	SkillListening: "Watch a short %s clip and point at what you hear",
	SkillSpeaking:  "Shadow the %s key phrases out loud, twice each",
	SkillReading:   "Read a picture page about %s and circle the words you know",
	SkillWriting:   "Draw one %s picture and label it with a key phrase",
}

// ResolveTopics returns the normalized preference list, falling back to the
// default topic bank when no usable preference remains. Both plan generation
// and document retrieval work from this resolved list.
func ResolveTopics(prefs []string) []string {
	topics := normalizePreferences(prefs)
	if len(topics) == 0 {
		return append([]string(nil), defaultTopics...)
	}
	return topics
}

// topicForDay picks the topic for day 1..7 by cycling through the topics.
// With two or more topics this never repeats a topic on consecutive days.
func topicForDay(topics []string, day int) string {
	return topics[(day-1)%len(topics)]
}

// skillForDay picks the practiced skill for day 1..7.
func skillForDay(day int) Skill {
	return skillRotation[(day-1)%len(skillRotation)]
}

// activityForDay renders the activity text for a day.
func activityForDay(topic string, day int) string {
	return fmt.Sprintf(activityTemplates[skillForDay(day)], topic)
}

// focusPhrasesFor returns the phrase bank for a level.
func focusPhrasesFor(level Level) []string {
	phrases := focusBank[level]
	out := make([]string, len(phrases))
	copy(out, phrases)
	return out
}
