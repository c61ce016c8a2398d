// Package tone classifies the tone of a short post: sentiment polarity from
// the VADER compound score, plus best-effort emotion and formality labels.
// Classification is local, deterministic and total over all strings.
package tone

import (
	"fmt"
	"math"
	"strings"
	"sync"
	"unicode"

	"github.com/jonreiter/govader"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Sentiment is the polarity label of a text.
type Sentiment string

const (
	Positive Sentiment = "Positive"
	Negative Sentiment = "Negative"
	Neutral  Sentiment = "Neutral"
)

// Style is the formality label of a text.
type Style string

const (
	Formal   Style = "Formal"
	Informal Style = "Informal"
)

// Emotion is one label of the closed emotion set.
type Emotion string

const (
	EmotionJoy      Emotion = "joy"
	EmotionAnger    Emotion = "anger"
	EmotionSadness  Emotion = "sadness"
	EmotionFear     Emotion = "fear"
	EmotionSurprise Emotion = "surprise"
	EmotionDisgust  Emotion = "disgust"
	EmotionNeutral  Emotion = "neutral"
)

// emotionOrder fixes tie-breaking between emotions with equal counts.
var emotionOrder = []Emotion{
	EmotionJoy, EmotionAnger, EmotionSadness, EmotionFear, EmotionSurprise, EmotionDisgust,
}

// Classification policy constants.
const (
	// PositiveThreshold and NegativeThreshold bound the neutral dead-zone of
	// the compound score.
	PositiveThreshold = 0.1
	NegativeThreshold = -0.1

	// InformalRatio is the share of informal tokens at or above which a text
	// is labelled Informal.
	InformalRatio = 0.1
)

// analyzer loads the VADER lexicon once. The analyzer is read-only after
// construction and shared by all classifiers.
var analyzer = sync.OnceValue(govader.NewSentimentIntensityAnalyzer)

// Result is the tone descriptor of one text.
type Result struct {
	Sentiment Sentiment `json:"sentiment"`
	Score     float64   `json:"score"`
	Emotion   Emotion   `json:"emotion,omitempty"`
	Style     Style     `json:"style,omitempty"`
}

// String renders the sentiment label, the historical wire form of "tone".
func (r Result) String() string {
	return string(r.Sentiment)
}

// EmotionDetector labels the dominant emotion of a text. Implementations
// may fail; the classifier then reports tone without an emotion.
type EmotionDetector interface {
	DetectEmotion(text string) (Emotion, error)
}

// Classifier computes tone results. It holds no mutable state and is safe
// for concurrent use.
type Classifier struct {
	sentiment *govader.SentimentIntensityAnalyzer
	emotions  EmotionDetector
	logger    *zap.Logger
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithEmotionDetector replaces the lexicon emotion detector. Passing nil
// disables emotion enrichment.
func WithEmotionDetector(d EmotionDetector) Option {
	return func(c *Classifier) { c.emotions = d }
}

// NewClassifier creates a classifier scoring sentiment with VADER and
// detecting emotion with the built-in lexicon.
func NewClassifier(logger *zap.Logger, opts ...Option) *Classifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Classifier{
		sentiment: analyzer(),
		emotions:  LexiconEmotionDetector{},
		logger:    logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var defaultClassifier = NewClassifier(nil)

// Classify classifies text with the default classifier.
func Classify(text string) Result {
	return defaultClassifier.Classify(text)
}

// Classify returns the tone of text. It never fails: empty text is Neutral,
// and a failing emotion detector only drops the emotion label.
func (c *Classifier) Classify(text string) Result {
	tokens := tokenize(normalize(text))
	score := c.compound(text)

	res := Result{
		Sentiment: label(score),
		Score:     math.Round(score*1e4) / 1e4,
		Style:     style(tokens),
	}
	if c.emotions != nil {
		res.Emotion = c.detectEmotion(text)
	}
	return res
}

// compound returns the VADER compound score of text in [-1, 1]. Case is
// preserved since VADER weighs capitalised words. Text without words scores 0.
func (c *Classifier) compound(text string) (score float64) {
	if strings.TrimSpace(text) == "" {
		return 0
	}
	defer func() {
		if rec := recover(); rec != nil {
			c.logger.Warn("sentiment scoring panicked; treating text as neutral",
				zap.String("panic", fmt.Sprint(rec)),
			)
			score = 0
		}
	}()

	score = c.sentiment.PolarityScores(apostrophes.Replace(norm.NFKC.String(text))).Compound
	if math.IsNaN(score) {
		return 0
	}
	return math.Max(-1, math.Min(1, score))
}

func (c *Classifier) detectEmotion(text string) (e Emotion) {
	defer func() {
		if rec := recover(); rec != nil {
			c.logger.Warn("emotion detector panicked; returning tone without emotion",
				zap.String("panic", fmt.Sprint(rec)),
			)
			e = ""
		}
	}()

	e, err := c.emotions.DetectEmotion(text)
	if err != nil {
		c.logger.Warn("emotion detection unavailable; returning tone without emotion", zap.Error(err))
		return ""
	}
	if e != EmotionNeutral && !knownEmotion(e) {
		c.logger.Warn("emotion detector returned unknown label", zap.String("emotion", string(e)))
		return ""
	}
	return e
}

func knownEmotion(e Emotion) bool {
	for _, k := range emotionOrder {
		if k == e {
			return true
		}
	}
	return false
}

func label(score float64) Sentiment {
	switch {
	case score > PositiveThreshold:
		return Positive
	case score < NegativeThreshold:
		return Negative
	default:
		return Neutral
	}
}

// LexiconEmotionDetector picks the emotion with the most non-negated cue
// words, or neutral when there are none.
type LexiconEmotionDetector struct{}

// DetectEmotion implements EmotionDetector.
func (LexiconEmotionDetector) DetectEmotion(text string) (Emotion, error) {
	tokens := tokenize(normalize(text))
	counts := make(map[Emotion]int)
	for i, tok := range tokens {
		e, ok := emotionWords[tok]
		if !ok || negatedAt(tokens, i) {
			continue
		}
		counts[e]++
	}

	best, bestN := EmotionNeutral, 0
	for _, e := range emotionOrder {
		if counts[e] > bestN {
			best, bestN = e, counts[e]
		}
	}
	return best, nil
}

// negatedAt reports whether one of the three tokens before i is a negation.
func negatedAt(tokens []string, i int) bool {
	for j := max(0, i-3); j < i; j++ {
		if negations[tokens[j]] || strings.HasSuffix(tokens[j], "n't") {
			return true
		}
	}
	return false
}

// style labels text Informal when enough tokens are contractions or slang.
// Text without words gets no style.
func style(tokens []string) Style {
	if len(tokens) == 0 {
		return ""
	}
	informal := 0
	for _, tok := range tokens {
		if informalWords[tok] || isContraction(tok) {
			informal++
		}
	}
	if float64(informal)/float64(len(tokens)) >= InformalRatio {
		return Informal
	}
	return Formal
}

func isContraction(tok string) bool {
	for _, suf := range contractionSuffixes {
		if strings.HasSuffix(tok, suf) && len(tok) > len(suf) {
			return true
		}
	}
	return false
}

var apostrophes = strings.NewReplacer("’", "'", "‘", "'", "ʼ", "'")

// normalize applies NFKC, unifies apostrophes and case-folds text.
func normalize(text string) string {
	text = norm.NFKC.String(text)
	text = apostrophes.Replace(text)
	return cases.Fold().String(text)
}

// tokenize splits normalized text into words. Apostrophes inside a word are
// kept so contractions survive.
func tokenize(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
	tokens := fields[:0]
	for _, f := range fields {
		f = strings.Trim(f, "'")
		if f != "" {
			tokens = append(tokens, f)
		}
	}
	return tokens
}
