package quest

import (
	"fmt"
	"lingoquest/models"
	"lingoquest/storage"
	"log/slog"
)

// Composer reconstructs a quest's full DTO from the persisted graph.
// Read-only; never synthesizes.
type Composer struct {
	logger *slog.Logger
	store  storage.FullRepo
}

func NewComposer(logger *slog.Logger, store storage.FullRepo) *Composer {
	return &Composer{logger: logger, store: store}
}

func (c *Composer) FullQuest(id int64) (*models.QuestDTO, error) {
	quest, err := c.store.QuestByID(id)
	if err != nil {
		return nil, err
	}
	dto := &models.QuestDTO{ID: quest.ID, Type: quest.Type, LevelID: quest.LevelID}
	switch quest.Type {
	case models.QuestWordPair:
		row, err := c.store.WordPairByQuest(id)
		if err != nil {
			return nil, err
		}
		dto.WordPair = &models.WordPairPayload{Word: row.Word, Translation: row.Translation}
	case models.QuestDictation:
		row, err := c.store.DictationByQuest(id)
		if err != nil {
			return nil, err
		}
		payload, err := c.sentencePayload(row.SentenceID, row.DistractorSetID)
		if err != nil {
			return nil, err
		}
		payload.AudioURL = models.AudioURL(&row.AudioID)
		dto.Dictation = payload
	case models.QuestTranslation:
		row, err := c.store.TranslationByQuest(id)
		if err != nil {
			return nil, err
		}
		payload, err := c.sentencePayload(row.SentenceID, row.DistractorSetID)
		if err != nil {
			return nil, err
		}
		dto.Translation = &models.TranslationPayload{
			SourceSentence:  row.SourceText,
			SentencePayload: *payload,
		}
	default:
		return nil, fmt.Errorf("%w: %q", models.ErrInvalidType, quest.Type)
	}
	return dto, nil
}

// sentencePayload walks sentence -> ordered links -> words, then the
// distractor memberships, and merges correct-then-distractor. A word with
// no asset simply gets no url.
func (c *Composer) sentencePayload(sentenceID int64, setID *int64) (*models.SentencePayload, error) {
	sentence, err := c.store.SentenceByID(sentenceID)
	if err != nil {
		// should not happen once assembly succeeded, checked anyway
		return nil, fmt.Errorf("sentence %d of persisted quest: %w", sentenceID, err)
	}
	correct, err := c.store.SentenceWordsOrdered(sentenceID)
	if err != nil {
		return nil, err
	}
	words := make([]models.WordDTO, 0, len(correct))
	for _, w := range correct {
		words = append(words, wordDTO(w))
	}
	if setID != nil {
		distractors, err := c.store.DistractorWords(*setID)
		if err != nil {
			return nil, err
		}
		for _, w := range distractors {
			words = append(words, wordDTO(w))
		}
	}
	payload := &models.SentencePayload{
		Sentence: sentence.Value,
		AudioURL: models.AudioURL(sentence.AudioID),
		Words:    words,
	}
	return payload, nil
}

func wordDTO(w models.Word) models.WordDTO {
	return models.WordDTO{ID: w.ID, Value: w.Value, AudioURL: models.AudioURL(w.AudioID)}
}
