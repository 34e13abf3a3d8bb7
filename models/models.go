package models

import "fmt"

// CreateQuestReq is the tagged union an admin api posts; Type picks which of
// the per-type fields are read.
type CreateQuestReq struct {
	Type    string `json:"type"`
	LevelID int64  `json:"level_id"`
	// WORD_PAIR
	Word        string `json:"word,omitempty"`
	Translation string `json:"translation,omitempty"`
	// TRANSLATION only; stored raw, never tokenized or synthesized
	SourceSentence string `json:"source_sentence,omitempty"`
	// DICTATION + TRANSLATION
	CorrectSentence string   `json:"correct_sentence,omitempty"`
	CorrectWords    []string `json:"correct_words,omitempty"`
	DistractorWords []string `json:"distractor_words,omitempty"`
}

type WordDTO struct {
	ID       int64  `json:"id"`
	Value    string `json:"value"`
	AudioURL string `json:"audio_url,omitempty"`
}

type WordPairPayload struct {
	Word        string `json:"word"`
	Translation string `json:"translation"`
}

// Words holds correct-sentence words in sentence order followed by
// distractor words; no shuffling here.
type SentencePayload struct {
	Sentence string    `json:"sentence"`
	AudioURL string    `json:"audio_url,omitempty"`
	Words    []WordDTO `json:"words"`
}

type TranslationPayload struct {
	SourceSentence string `json:"source_sentence"`
	SentencePayload
}

type QuestDTO struct {
	ID          int64               `json:"id"`
	Type        string              `json:"type"`
	LevelID     int64               `json:"level_id"`
	WordPair    *WordPairPayload    `json:"word_pair,omitempty"`
	Dictation   *SentencePayload    `json:"dictation,omitempty"`
	Translation *TranslationPayload `json:"translation,omitempty"`
}

// SynthResult describes one synthesized wav on disk.
type SynthResult struct {
	Path       string
	SampleRate int
	NumSamples int
	ByteSize   int64
}

func (r SynthResult) Duration() float64 {
	if r.SampleRate == 0 {
		return 0
	}
	return float64(r.NumSamples) / float64(r.SampleRate)
}

// AudioURL builds the public media path for an asset id; nil id => no url.
func AudioURL(assetID *int64) string {
	if assetID == nil {
		return ""
	}
	return fmt.Sprintf("%s%d", MediaRoute, *assetID)
}
