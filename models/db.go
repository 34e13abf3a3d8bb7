package models

import "time"

type Level struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// AudioAsset owns exactly one wav file under the media dir.
// Created once per unique synthesized utterance, never mutated.
type AudioAsset struct {
	ID        int64     `db:"id" json:"id"`
	Filename  string    `db:"filename" json:"filename"`
	MimeType  string    `db:"mime_type" json:"mime_type"`
	Duration  *float64  `db:"duration_sec" json:"duration_sec,omitempty"`
	ByteSize  *int64    `db:"byte_size" json:"byte_size,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Word is content-addressed by Value; shared across sentences, distractor
// sets and quests, so quest deletion never touches it.
type Word struct {
	ID      int64  `db:"id" json:"id"`
	Value   string `db:"value" json:"value"`
	AudioID *int64 `db:"audio_id" json:"audio_id,omitempty"`
}

type Sentence struct {
	ID      int64  `db:"id" json:"id"`
	Value   string `db:"value" json:"value"`
	AudioID *int64 `db:"audio_id" json:"audio_id,omitempty"`
}

// SentenceWord links a word into a sentence at a dense 0-based position.
type SentenceWord struct {
	SentenceID int64 `db:"sentence_id" json:"sentence_id"`
	WordID     int64 `db:"word_id" json:"word_id"`
	Pos        int   `db:"pos" json:"pos"`
}

type DistractorSet struct {
	ID        int64     `db:"id" json:"id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type DistractorWord struct {
	SetID  int64 `db:"set_id" json:"set_id"`
	WordID int64 `db:"word_id" json:"word_id"`
}

// Quest has exactly one subtype row matching Type.
type Quest struct {
	ID        int64     `db:"id" json:"id"`
	Type      string    `db:"type" json:"type"`
	LevelID   int64     `db:"level_id" json:"level_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type WordPairQuest struct {
	QuestID     int64  `db:"quest_id" json:"quest_id"`
	Word        string `db:"word" json:"word"`
	Translation string `db:"translation" json:"translation"`
}

type DictationQuest struct {
	QuestID         int64  `db:"quest_id" json:"quest_id"`
	AudioID         int64  `db:"audio_id" json:"audio_id"`
	SentenceID      int64  `db:"sentence_id" json:"sentence_id"`
	DistractorSetID *int64 `db:"distractor_set_id" json:"distractor_set_id,omitempty"`
}

// TranslationQuest keeps the source-language sentence verbatim; only the
// target-language side is tokenized and synthesized.
type TranslationQuest struct {
	QuestID         int64  `db:"quest_id" json:"quest_id"`
	SourceText      string `db:"source_text" json:"source_text"`
	SentenceID      int64  `db:"sentence_id" json:"sentence_id"`
	DistractorSetID *int64 `db:"distractor_set_id" json:"distractor_set_id,omitempty"`
}
