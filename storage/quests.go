package storage

import (
	"lingoquest/models"
)

type Quests interface {
	CreateQuest(q *models.Quest) (*models.Quest, error)
	QuestByID(id int64) (*models.Quest, error)
	DeleteQuest(id int64) error
	CreateWordPairQuest(q *models.WordPairQuest) error
	WordPairByQuest(questID int64) (*models.WordPairQuest, error)
	CreateDictationQuest(q *models.DictationQuest) error
	DictationByQuest(questID int64) (*models.DictationQuest, error)
	CreateTranslationQuest(q *models.TranslationQuest) error
	TranslationByQuest(questID int64) (*models.TranslationQuest, error)
}

func (p *ProviderSQL) CreateQuest(q *models.Quest) (*models.Quest, error) {
	query := "INSERT INTO quests (type, level_id) VALUES (:type, :level_id) RETURNING *;"
	stmt, err := p.db.PrepareNamed(query)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()
	var quest models.Quest
	if err := stmt.Get(&quest, q); err != nil {
		return nil, err
	}
	return &quest, nil
}

func (p *ProviderSQL) QuestByID(id int64) (*models.Quest, error) {
	var quest models.Quest
	if err := p.db.Get(&quest, "SELECT * FROM quests WHERE id = $1;", id); err != nil {
		return nil, notFound(err)
	}
	return &quest, nil
}

// DeleteQuest removes the quest row; subtype rows go with it via cascade.
func (p *ProviderSQL) DeleteQuest(id int64) error {
	_, err := p.db.Exec("DELETE FROM quests WHERE id = $1;", id)
	return err
}

func (p *ProviderSQL) CreateWordPairQuest(q *models.WordPairQuest) error {
	query := `
        INSERT INTO word_pair_quests (quest_id, word, translation)
        VALUES (:quest_id, :word, :translation);`
	_, err := p.db.NamedExec(query, q)
	return err
}

func (p *ProviderSQL) WordPairByQuest(questID int64) (*models.WordPairQuest, error) {
	var row models.WordPairQuest
	if err := p.db.Get(&row, "SELECT * FROM word_pair_quests WHERE quest_id = $1;", questID); err != nil {
		return nil, notFound(err)
	}
	return &row, nil
}

func (p *ProviderSQL) CreateDictationQuest(q *models.DictationQuest) error {
	query := `
        INSERT INTO dictation_quests (quest_id, audio_id, sentence_id, distractor_set_id)
        VALUES (:quest_id, :audio_id, :sentence_id, :distractor_set_id);`
	_, err := p.db.NamedExec(query, q)
	return err
}

func (p *ProviderSQL) DictationByQuest(questID int64) (*models.DictationQuest, error) {
	var row models.DictationQuest
	if err := p.db.Get(&row, "SELECT * FROM dictation_quests WHERE quest_id = $1;", questID); err != nil {
		return nil, notFound(err)
	}
	return &row, nil
}

func (p *ProviderSQL) CreateTranslationQuest(q *models.TranslationQuest) error {
	query := `
        INSERT INTO translation_quests (quest_id, source_text, sentence_id, distractor_set_id)
        VALUES (:quest_id, :source_text, :sentence_id, :distractor_set_id);`
	_, err := p.db.NamedExec(query, q)
	return err
}

func (p *ProviderSQL) TranslationByQuest(questID int64) (*models.TranslationQuest, error) {
	var row models.TranslationQuest
	if err := p.db.Get(&row, "SELECT * FROM translation_quests WHERE quest_id = $1;", questID); err != nil {
		return nil, notFound(err)
	}
	return &row, nil
}
