package quest

import (
	"context"
	"errors"
	"fmt"
	"lingoquest/models"
	"lingoquest/storage"
	"log/slog"
)

// Assembler builds one of the three quest shapes from a creation request.
// Multi-row assembly is a unit of work: any failing step undoes the
// quest-scoped rows already written. Words and word audio are shared,
// content-addressed rows and are deliberately left in place.
type Assembler struct {
	logger   *slog.Logger
	store    storage.FullRepo
	resolver *Resolver
	composer *Composer
}

func NewAssembler(logger *slog.Logger, store storage.FullRepo, resolver *Resolver, composer *Composer) *Assembler {
	return &Assembler{logger: logger, store: store, resolver: resolver, composer: composer}
}

func (a *Assembler) Create(ctx context.Context, req *models.CreateQuestReq) (*models.QuestDTO, error) {
	exists, err := a.store.LevelExists(req.LevelID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: level %d", models.ErrNotFound, req.LevelID)
	}
	switch req.Type {
	case models.QuestWordPair:
		return a.createWordPair(req)
	case models.QuestDictation:
		return a.createSentenceQuest(ctx, req, false)
	case models.QuestTranslation:
		return a.createSentenceQuest(ctx, req, true)
	default:
		return nil, fmt.Errorf("%w: %q", models.ErrInvalidType, req.Type)
	}
}

// createWordPair persists the raw pair verbatim; no resolver, no synthesis.
func (a *Assembler) createWordPair(req *models.CreateQuestReq) (*models.QuestDTO, error) {
	quest, err := a.store.CreateQuest(&models.Quest{Type: models.QuestWordPair, LevelID: req.LevelID})
	if err != nil {
		return nil, err
	}
	row := &models.WordPairQuest{QuestID: quest.ID, Word: req.Word, Translation: req.Translation}
	if err := a.store.CreateWordPairQuest(row); err != nil {
		a.compensate([]undoStep{{"quest", func() error { return a.store.DeleteQuest(quest.ID) }}})
		return nil, err
	}
	return a.composer.FullQuest(quest.ID)
}

type undoStep struct {
	what string
	fn   func() error
}

// createSentenceQuest covers DICTATION and TRANSLATION; both share the
// target-side sentence graph, translation adds the verbatim source text.
func (a *Assembler) createSentenceQuest(ctx context.Context, req *models.CreateQuestReq, translation bool) (*models.QuestDTO, error) {
	var undo []undoStep
	fail := func(err error) (*models.QuestDTO, error) {
		a.compensate(undo)
		return nil, err
	}
	words, err := a.resolver.ResolveWords(ctx, req.CorrectWords)
	if err != nil {
		return fail(err)
	}
	sentence, err := a.resolver.CreateSentence(ctx, req.CorrectSentence, words)
	if err != nil {
		return fail(err)
	}
	// undo runs in reverse append order: links, then sentence, then its audio
	undo = append(undo,
		undoStep{"sentence audio", func() error { return a.deleteSentenceAudio(sentence) }},
		undoStep{"sentence", func() error { return a.store.DeleteSentence(sentence.ID) }},
		undoStep{"sentence links", func() error { return a.store.DeleteSentenceWords(sentence.ID) }},
	)
	var setID *int64
	if len(req.DistractorWords) > 0 {
		set, _, err := a.resolver.CreateDistractorSet(ctx, req.DistractorWords)
		if err != nil {
			return fail(err)
		}
		setID = &set.ID
		undo = append(undo, undoStep{"distractor set", func() error { return a.store.DeleteDistractorSet(set.ID) }})
	}
	questType := models.QuestDictation
	if translation {
		questType = models.QuestTranslation
	}
	quest, err := a.store.CreateQuest(&models.Quest{Type: questType, LevelID: req.LevelID})
	if err != nil {
		return fail(err)
	}
	undo = append(undo, undoStep{"quest", func() error { return a.store.DeleteQuest(quest.ID) }})
	if translation {
		err = a.store.CreateTranslationQuest(&models.TranslationQuest{
			QuestID:         quest.ID,
			SourceText:      req.SourceSentence,
			SentenceID:      sentence.ID,
			DistractorSetID: setID,
		})
	} else {
		err = a.store.CreateDictationQuest(&models.DictationQuest{
			QuestID:         quest.ID,
			AudioID:         *sentence.AudioID,
			SentenceID:      sentence.ID,
			DistractorSetID: setID,
		})
	}
	if err != nil {
		return fail(err)
	}
	return a.composer.FullQuest(quest.ID)
}

// compensate runs undo steps in reverse creation order; failures are logged
// and the rest still run.
func (a *Assembler) compensate(undo []undoStep) {
	for i := len(undo) - 1; i >= 0; i-- {
		if err := undo[i].fn(); err != nil {
			a.logger.Warn("compensating delete failed", "step", undo[i].what, "error", err)
		}
	}
}

func (a *Assembler) deleteSentenceAudio(sentence *models.Sentence) error {
	if sentence.AudioID == nil {
		return nil
	}
	asset, err := a.store.AudioAssetByID(*sentence.AudioID)
	if err != nil {
		return err
	}
	a.resolver.discardAsset(asset)
	return nil
}

// Delete tears a quest down symmetrically across types: the subtype row,
// and for sentence quests also the sentence graph and its audio. Words and
// word audio are shared and stay.
func (a *Assembler) Delete(id int64) error {
	quest, err := a.store.QuestByID(id)
	if err != nil {
		return err
	}
	var sentenceID int64
	var setID *int64
	switch quest.Type {
	case models.QuestWordPair:
		return a.store.DeleteQuest(id)
	case models.QuestDictation:
		row, err := a.store.DictationByQuest(id)
		if err != nil {
			return err
		}
		sentenceID, setID = row.SentenceID, row.DistractorSetID
	case models.QuestTranslation:
		row, err := a.store.TranslationByQuest(id)
		if err != nil {
			return err
		}
		sentenceID, setID = row.SentenceID, row.DistractorSetID
	default:
		return fmt.Errorf("%w: %q", models.ErrInvalidType, quest.Type)
	}
	if err := a.store.DeleteQuest(id); err != nil {
		return err
	}
	if setID != nil {
		if err := a.store.DeleteDistractorSet(*setID); err != nil {
			return err
		}
	}
	sentence, err := a.store.SentenceByID(sentenceID)
	if errors.Is(err, models.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := a.store.DeleteSentenceWords(sentenceID); err != nil {
		return err
	}
	if err := a.store.DeleteSentence(sentenceID); err != nil {
		return err
	}
	return a.deleteSentenceAudio(sentence)
}
