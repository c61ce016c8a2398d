package tone

// negations suppress an emotion cue word within a short window.
var negations = map[string]bool{
	"not": true, "no": true, "never": true, "none": true, "nobody": true,
	"nothing": true, "neither": true, "nor": true, "without": true, "cannot": true,
	"can't": true, "don't": true, "doesn't": true, "didn't": true, "isn't": true,
	"aren't": true, "wasn't": true, "weren't": true, "won't": true, "wouldn't": true,
	"shouldn't": true, "couldn't": true, "haven't": true, "hasn't": true, "hadn't": true,
	"ain't": true, "dont": true, "cant": true, "wont": true, "isnt": true,
}

// emotionWords maps words to one emotion of the closed emotion set.
var emotionWords = map[string]Emotion{
	"happy": EmotionJoy, "joy": EmotionJoy, "glad": EmotionJoy, "delighted": EmotionJoy,
	"love": EmotionJoy, "loved": EmotionJoy, "excited": EmotionJoy, "thrilled": EmotionJoy,
	"celebrate": EmotionJoy, "celebrating": EmotionJoy, "proud": EmotionJoy, "grateful": EmotionJoy,
	"thankful": EmotionJoy, "yay": EmotionJoy, "wonderful": EmotionJoy, "fun": EmotionJoy,

	"angry": EmotionAnger, "furious": EmotionAnger, "mad": EmotionAnger, "hate": EmotionAnger,
	"hated": EmotionAnger, "annoyed": EmotionAnger, "annoying": EmotionAnger, "outraged": EmotionAnger,
	"frustrated": EmotionAnger, "frustrating": EmotionAnger, "unfair": EmotionAnger, "rude": EmotionAnger,

	"sad": EmotionSadness, "unhappy": EmotionSadness, "cry": EmotionSadness, "crying": EmotionSadness,
	"lonely": EmotionSadness, "miserable": EmotionSadness, "disappointed": EmotionSadness, "miss": EmotionSadness,
	"lost": EmotionSadness, "regret": EmotionSadness, "sorry": EmotionSadness, "heartbroken": EmotionSadness,

	"afraid": EmotionFear, "scared": EmotionFear, "fear": EmotionFear, "worried": EmotionFear,
	"anxious": EmotionFear, "nervous": EmotionFear, "terrified": EmotionFear, "scary": EmotionFear,
	"danger": EmotionFear, "panic": EmotionFear,

	"surprised": EmotionSurprise, "surprise": EmotionSurprise, "wow": EmotionSurprise, "shocked": EmotionSurprise,
	"unexpected": EmotionSurprise, "amazed": EmotionSurprise, "astonished": EmotionSurprise, "omg": EmotionSurprise,
	"unbelievable": EmotionSurprise, "incredible": EmotionSurprise,

	"disgusting": EmotionDisgust, "gross": EmotionDisgust, "nasty": EmotionDisgust, "awful": EmotionDisgust,
	"revolting": EmotionDisgust, "yuck": EmotionDisgust, "ew": EmotionDisgust, "sick": EmotionDisgust,
}

// informalWords are slang and chat tokens counted toward an informal style,
// alongside contractions.
var informalWords = map[string]bool{
	"gonna": true, "wanna": true, "gotta": true, "kinda": true, "sorta": true,
	"lol": true, "lmao": true, "omg": true, "btw": true, "imo": true,
	"tbh": true, "idk": true, "yeah": true, "yep": true, "nope": true,
	"hey": true, "ya": true, "u": true, "ur": true, "thx": true,
	"pls": true, "plz": true, "dunno": true, "y'all": true, "ain't": true,
}

// contractionSuffixes mark a token as a contraction.
var contractionSuffixes = []string{"n't", "'re", "'ve", "'ll", "'m", "'d"}
