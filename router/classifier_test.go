package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyInput_empty(t *testing.T) {
	assert.Equal(t, QualityGarbage, ClassifyInput("", Metrics{}))
}

func TestClassifyInput_shortAudioDuration(t *testing.T) {
	assert.Equal(t, QualityGarbage, ClassifyInput("hello there", Metrics{AudioDurationS: 0.59}))
}

func TestClassifyInput_noSpeechProbBoundary(t *testing.T) {
	assert.Equal(t, QualityValid, ClassifyInput("hello there friend", Metrics{NoSpeechProb: 0.60}))
	assert.Equal(t, QualityGarbage, ClassifyInput("hello there friend", Metrics{NoSpeechProb: 0.61}))
}

func TestClassifyInput_hallucinationPatterns(t *testing.T) {
	assert.Equal(t, QualityGarbage, ClassifyInput(". . . .", Metrics{}))
	assert.Equal(t, QualityGarbage, ClassifyInput("the the the", Metrics{}))
	assert.Equal(t, QualityGarbage, ClassifyInput("(upbeat music)", Metrics{}))
	assert.Equal(t, QualityGarbage, ClassifyInput("♪ la la la ♪", Metrics{}))
}

func TestClassifyInput_singleGarbageWord(t *testing.T) {
	assert.Equal(t, QualityGarbage, ClassifyInput("um", Metrics{}))
	assert.Equal(t, QualityValid, ClassifyInput("hi", Metrics{}))
}

func TestClassifyInput_twoGarbageWords(t *testing.T) {
	assert.Equal(t, QualityGarbage, ClassifyInput("um uh", Metrics{}))
	assert.Equal(t, QualityValid, ClassifyInput("hi there", Metrics{}))
}

func TestClassifyInput_lowConfidenceShort(t *testing.T) {
	assert.Equal(t, QualityLow, ClassifyInput("what now", Metrics{AvgLogProb: -1.5}))
	assert.Equal(t, QualityValid, ClassifyInput("what now", Metrics{AvgLogProb: -0.5}))
}

func TestClassifyInput_validLongSentence(t *testing.T) {
	assert.Equal(t, QualityValid, ClassifyInput("what's the weather like in Austin today", Metrics{}))
}
