package moderation

import (
	"strings"
	"unicode"

	"github.com/samber/lo"
)

// Lexicon holds the immutable keyword sets used by the deterministic rule
// engine and the emergency override. It is built once at startup from the
// built-in defaults plus configuration extras and never mutated afterwards.
type Lexicon struct {
	blocklist    map[string]struct{}
	profanity    map[string]struct{}
	positive     map[string]struct{}
	negative     map[string]struct{}
	ageSensitive map[string]struct{}
	social       map[string]struct{}

	selfHarm   map[string]struct{}
	violence   map[string]struct{}
	harassment map[string]struct{}
}

// LexiconWords are extra entries merged into the built-in defaults.
type LexiconWords struct {
	Blocklist []string
	Emergency []string
}

var (
	defaultBlocklist = []string{
		"sext", "nudes", "onlyfans", "porn", "weed", "vape", "cocaine",
		"gamble", "betting",
	}
	defaultProfanity = []string{
		"damn", "hell", "crap", "stupid", "idiot", "dumb", "loser",
		"shut", "sucks", "hate",
	}
	defaultPositive = []string{
		"great", "good", "awesome", "love", "happy", "fun", "proud",
		"congrats", "congratulations", "thanks", "thank", "excited",
		"amazing", "best", "win", "won", "beautiful", "nice", "cool",
		"helpful", "friend", "friends", "welcome", "enjoy", "excellent",
	}
	defaultNegative = []string{
		"bad", "awful", "terrible", "worst", "angry", "sad", "cry",
		"ugly", "gross", "boring", "annoying", "fail", "failed",
		"pathetic", "useless", "worthless", "disgusting",
	}
	defaultAgeSensitive = []string{
		"alcohol", "beer", "cigarette", "drunk", "dating", "flirty",
		"crush", "kiss", "sexy", "hot",
	}
	defaultSocial = []string{
		"school", "class", "classroom", "teacher", "homework", "exam",
		"project", "team", "club", "practice", "recess", "library",
		"assembly", "field", "trip", "science", "math", "art", "music",
	}
	defaultSelfHarm = []string{
		"suicide", "suicidal", "self-harm", "selfharm", "cutting",
		"kms", "unalive", "overdose",
	}
	defaultViolence = []string{
		"kill", "murder", "gun", "knife", "shoot", "shooting", "stab",
		"bomb", "attack", "beat",
	}
	defaultHarassment = []string{
		"bully", "bullying", "harass", "harassment", "threat",
		"threaten", "stalk", "doxx", "expose",
	}
)

// NewLexicon builds the lexicon from the defaults merged with extras.
func NewLexicon(extra LexiconWords) *Lexicon {
	return &Lexicon{
		blocklist:    wordSet(append(defaultBlocklist, extra.Blocklist...)),
		profanity:    wordSet(defaultProfanity),
		positive:     wordSet(defaultPositive),
		negative:     wordSet(defaultNegative),
		ageSensitive: wordSet(defaultAgeSensitive),
		social:       wordSet(defaultSocial),
		selfHarm:     wordSet(append(defaultSelfHarm, extra.Emergency...)),
		violence:     wordSet(defaultViolence),
		harassment:   wordSet(defaultHarassment),
	}
}

func wordSet(words []string) map[string]struct{} {
	return lo.SliceToMap(words, func(w string) (string, struct{}) {
		return strings.ToLower(strings.TrimSpace(w)), struct{}{}
	})
}

// Tokenize lowercases content and splits it into words, stripping punctuation.
func Tokenize(content string) []string {
	return strings.FieldsFunc(strings.ToLower(content), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r) && r != '-'
	})
}

// BlocklistMatch returns the first blocklisted token, if any.
func (l *Lexicon) BlocklistMatch(tokens []string) (string, bool) {
	for _, t := range tokens {
		if _, ok := l.blocklist[t]; ok {
			return t, true
		}
	}
	return "", false
}

// EmergencyCategory scans content for the self-harm, violence and harassment
// keyword sets. A match forces a Red verdict regardless of any classifier or
// fallback output.
func (l *Lexicon) EmergencyCategory(content string) (string, bool) {
	for _, t := range Tokenize(content) {
		if _, ok := l.selfHarm[t]; ok {
			return "self-harm", true
		}
		if _, ok := l.violence[t]; ok {
			return "violence", true
		}
		if _, ok := l.harassment[t]; ok {
			return "harassment", true
		}
	}
	return "", false
}

func countIn(set map[string]struct{}, tokens []string) int {
	n := 0
	for _, t := range tokens {
		if _, ok := set[t]; ok {
			n++
		}
	}
	return n
}
