package models

// quest type tags; stored as-is in the quests table
const (
	QuestWordPair    = "WORD_PAIR"
	QuestDictation   = "DICTATION"
	QuestTranslation = "TRANSLATION"
)

const MimeWAV = "audio/wav"

// MediaRoute is the public path prefix assets are served under.
const MediaRoute = "/media/"
