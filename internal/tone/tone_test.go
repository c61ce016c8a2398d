package tone

import (
	"errors"
	"math"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestClassify_Sentiment(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Sentiment
	}{
		{"positive", "I love this product, it is great!", Positive},
		{"negative", "This update is terrible and I hate it.", Negative},
		{"neutral facts", "The meeting starts at noon.", Neutral},
		{"empty", "", Neutral},
		{"whitespace only", "   \n\t ", Neutral},
		{"negated positive", "This is not good", Negative},
		{"negated negative", "No problem at all", Positive},
		{"contrast favours clause after but", "The food was bad but the service was great", Positive},
		{"curly apostrophe negation", "I don’t like it", Negative},
		{"weak word stays in dead zone", "sorry", Neutral},
		{"upper case", "GREAT NEWS", Positive},
		{"punctuation only", "!!!", Neutral},
		{"invalid utf8", "\xff\xfe", Neutral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.text)
			if got.Sentiment != tt.want {
				t.Errorf("Classify(%q).Sentiment = %q (score %v), want %q", tt.text, got.Sentiment, got.Score, tt.want)
			}
			if got.Score < -1 || got.Score > 1 {
				t.Errorf("Classify(%q).Score = %v, want within [-1, 1]", tt.text, got.Score)
			}
		})
	}
}

func TestClassify_ScoreIsVaderCompound(t *testing.T) {
	texts := []string{
		"I love this product, it is great!",
		"The plot was good, but the characters are uncompelling and the dialog is not great.",
		"At least it isn't a horrible book.",
		"Make sure you :) or :D today!",
		"The meeting starts at noon.",
	}
	for _, text := range texts {
		want := math.Round(analyzer().PolarityScores(text).Compound*1e4) / 1e4
		if got := Classify(text).Score; got != want {
			t.Errorf("Classify(%q).Score = %v, want VADER compound %v", text, got, want)
		}
	}
}

func TestClassify_CapitalisationEmphasis(t *testing.T) {
	plain := Classify("This is great").Score
	shouted := Classify("This is GREAT").Score
	if shouted <= plain {
		t.Errorf("capitalised word did not raise score: %v <= %v", shouted, plain)
	}
}

func TestClassify_EdgeInputs(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"invalid utf8 with word", "\xff\xfe bad"},
		{"long text", strings.Repeat("great ", 20000)},
		{"exclamations only", "!!!!!!"},
		{"double negation", "not not good"},
		{"contrast with negations", "I don't love it but it's not bad"},
		{"emoji", "launch day 🚀🎉"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.text)
			switch got.Sentiment {
			case Positive, Negative, Neutral:
			default:
				t.Errorf("Sentiment = %q, want one of the three labels", got.Sentiment)
			}
			if got.Score < -1 || got.Score > 1 || math.IsNaN(got.Score) {
				t.Errorf("Score = %v, want within [-1, 1]", got.Score)
			}
		})
	}
}

func TestClassify_EmptyTextHasZeroScoreAndNoStyle(t *testing.T) {
	got := Classify("")
	if got.Score != 0 {
		t.Errorf("Score = %v, want 0", got.Score)
	}
	if got.Style != "" {
		t.Errorf("Style = %q, want empty", got.Style)
	}
}

func TestClassify_Thresholds(t *testing.T) {
	tests := []struct {
		score float64
		want  Sentiment
	}{
		{0.5, Positive},
		{0.1001, Positive},
		{PositiveThreshold, Neutral},
		{0, Neutral},
		{NegativeThreshold, Neutral},
		{-0.1001, Negative},
		{-0.9, Negative},
	}
	for _, tt := range tests {
		if got := label(tt.score); got != tt.want {
			t.Errorf("label(%v) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func TestClassify_Intensifiers(t *testing.T) {
	base := Classify("good").Score

	if boosted := Classify("very good").Score; boosted <= base {
		t.Errorf("booster did not raise score: %v <= %v", boosted, base)
	}
	if dampened := Classify("slightly good").Score; dampened >= base {
		t.Errorf("dampener did not lower score: %v >= %v", dampened, base)
	}
	if excited := Classify("good!!!").Score; excited <= base {
		t.Errorf("exclamation did not raise score: %v <= %v", excited, base)
	}

	four := Classify("good!!!!").Score
	ten := Classify("good!!!!!!!!!!").Score
	if four != ten {
		t.Errorf("exclamation emphasis not capped: %v != %v", four, ten)
	}
}

func TestClassify_Deterministic(t *testing.T) {
	text := "Thrilled to announce our new release, it's really fast!"
	first := Classify(text)
	for i := 0; i < 10; i++ {
		if got := Classify(text); got != first {
			t.Fatalf("Classify is not deterministic: %+v != %+v", got, first)
		}
	}
}

func TestClassify_Style(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Style
	}{
		{"formal", "We are pleased to announce the quarterly results.", Formal},
		{"slang", "omg this is gonna be fun lol", Informal},
		{"contraction", "I don’t like it", Informal},
		{"possessive is not informal", "The company's annual report is available today for all readers.", Formal},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.text).Style; got != tt.want {
				t.Errorf("Style = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLexiconEmotionDetector(t *testing.T) {
	tests := []struct {
		text string
		want Emotion
	}{
		{"I am so happy and excited today", EmotionJoy},
		{"I'm scared and worried about tomorrow", EmotionFear},
		{"This is disgusting", EmotionDisgust},
		{"Furious about the delay", EmotionAnger},
		{"I am not happy", EmotionNeutral},
		{"The meeting starts at noon.", EmotionNeutral},
		{"", EmotionNeutral},
	}
	for _, tt := range tests {
		got, err := LexiconEmotionDetector{}.DetectEmotion(tt.text)
		if err != nil {
			t.Fatalf("DetectEmotion(%q) error = %v", tt.text, err)
		}
		if got != tt.want {
			t.Errorf("DetectEmotion(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

type detectorFunc func(string) (Emotion, error)

func (f detectorFunc) DetectEmotion(text string) (Emotion, error) { return f(text) }

func TestClassifier_EmotionDegrades(t *testing.T) {
	tests := []struct {
		name     string
		detector EmotionDetector
		wantLog  bool
	}{
		{
			name: "detector error",
			detector: detectorFunc(func(string) (Emotion, error) {
				return "", errors.New("model not loaded")
			}),
			wantLog: true,
		},
		{
			name: "detector panic",
			detector: detectorFunc(func(string) (Emotion, error) {
				panic("boom")
			}),
			wantLog: true,
		},
		{
			name: "unknown label",
			detector: detectorFunc(func(string) (Emotion, error) {
				return "melancholy", nil
			}),
			wantLog: true,
		},
		{
			name:     "disabled",
			detector: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.WarnLevel)
			c := NewClassifier(zap.New(core), WithEmotionDetector(tt.detector))

			got := c.Classify("I love this, it's great!")
			if got.Emotion != "" {
				t.Errorf("Emotion = %q, want empty", got.Emotion)
			}
			if got.Sentiment != Positive {
				t.Errorf("Sentiment = %q, want Positive", got.Sentiment)
			}
			if got.Style == "" {
				t.Error("Style should survive an emotion failure")
			}
			if tt.wantLog && logs.Len() == 0 {
				t.Error("expected a warning to be logged")
			}
		})
	}
}

func TestClassifier_NilLogger(t *testing.T) {
	c := NewClassifier(nil)
	if got := c.Classify("happy days"); got.Emotion != EmotionJoy {
		t.Errorf("Emotion = %q, want %q", got.Emotion, EmotionJoy)
	}
}

func TestClassifier_ConcurrentUse(t *testing.T) {
	c := NewClassifier(zap.NewNop())
	texts := []string{
		"I love this product, it is great!",
		"This update is terrible and I hate it.",
		"The meeting starts at noon.",
		"omg gonna be fun lol",
	}
	want := make([]Result, len(texts))
	for i, text := range texts {
		want[i] = c.Classify(text)
	}

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i, text := range texts {
				if got := c.Classify(text); got != want[i] {
					t.Errorf("concurrent Classify(%q) = %+v, want %+v", text, got, want[i])
				}
			}
		}()
	}
	wg.Wait()
}

func TestResult_String(t *testing.T) {
	r := Result{Sentiment: Negative, Score: -0.5, Emotion: EmotionAnger, Style: Formal}
	if got := r.String(); got != "Negative" {
		t.Errorf("String() = %q, want %q", got, "Negative")
	}
}

func TestTokenize(t *testing.T) {
	got := tokenize(normalize("Don’t STOP — it's 2024, 'quoted' words!"))
	want := []string{"don't", "stop", "it's", "2024", "quoted", "words"}
	if len(got) != len(want) {
		t.Fatalf("tokenize = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
